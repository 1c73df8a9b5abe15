package certificates

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	GenerateDocument(ctx context.Context, req DocumentRequest) (*IssuedDocument, error)
	GenerateNumber(ctx context.Context, req NumberRequest) (string, error)
}

// Generator is the rendering step the service delegates to
type Generator interface {
	GenerateDocument(ctx context.Context, req DocumentRequest) (*GeneratedDocument, error)
}

// IssuedDocument is a generated document plus where it was archived, if at all
type IssuedDocument struct {
	*GeneratedDocument
	RequestID   uuid.UUID `json:"request_id"`
	IssuedAt    time.Time `json:"issued_at"`
	ArchiveKey  string    `json:"archive_key,omitempty"`
	DownloadURL string    `json:"download_url,omitempty"`
}

type NumberRequest struct {
	DateOfBirth string `json:"date_of_birth"`
	FullName    string `json:"full_name"`
	Region      string `json:"region"`
}

type certificateService struct {
	generator Generator
	numbers   *NumberGenerator
	archive   *Archive
	logger    *zap.Logger
	now       func() time.Time
}

// NewService builds the issuing service. archive may be nil, in which case
// documents are only returned to the caller.
func NewService(generator Generator, numbers *NumberGenerator, archive *Archive, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if numbers == nil {
		numbers = NewNumberGenerator("")
	}
	return &certificateService{
		generator: generator,
		numbers:   numbers,
		archive:   archive,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *certificateService) GenerateDocument(ctx context.Context, req DocumentRequest) (*IssuedDocument, error) {
	requestID := uuid.New()

	doc, err := s.generator.GenerateDocument(ctx, req)
	if err != nil {
		kind, _ := KindOf(err)
		s.logger.Warn("Document generation failed",
			zap.String("request_id", requestID.String()),
			zap.String("kind", string(kind)),
			zap.Error(err))
		return nil, err
	}

	issued := &IssuedDocument{
		GeneratedDocument: doc,
		RequestID:         requestID,
		IssuedAt:          s.now(),
	}
	if s.archive == nil {
		return issued, nil
	}

	// archiving never blocks issuance
	key := s.archive.Key(doc, requestID, issued.IssuedAt, req.CertificateNumber != "")
	url, err := s.archive.Store(ctx, key, doc)
	if err != nil {
		s.logger.Error("Failed to archive document",
			zap.String("request_id", requestID.String()),
			zap.String("key", key),
			zap.Error(err))
		return issued, nil
	}
	issued.ArchiveKey = key
	issued.DownloadURL = url

	s.logger.Info("Document archived",
		zap.String("request_id", requestID.String()),
		zap.String("key", key))
	return issued, nil
}

func (s *certificateService) GenerateNumber(ctx context.Context, req NumberRequest) (string, error) {
	number, ok := s.numbers.Generate(req.DateOfBirth, req.FullName, req.Region)
	if !ok {
		return "", newError(KindValidation, "GenerateNumber", ErrIncompleteApplicant)
	}
	s.logger.Debug("Certificate number issued", zap.String("certificate_number", number))
	return number, nil
}
