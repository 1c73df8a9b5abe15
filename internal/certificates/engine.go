package certificates

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"vibali-portal/portal-backend/pkg/pdf"
)

const (
	defaultAssetTimeout = 5 * time.Second
	defaultQRTimeout    = 5 * time.Second
	documentAuthor      = "TAMISEMI"
)

// Engine renders one-page certificates and permits. It holds no per-call
// state and is safe for concurrent use.
type Engine struct {
	composer     *Composer
	qr           QREncoder
	logger       *zap.Logger
	now          func() time.Time
	newCanvas    func(req DocumentRequest, issuedAt time.Time) pdf.Canvas
	assetTimeout time.Duration
	qrTimeout    time.Duration
}

type EngineOption func(*Engine)

// WithClock replaces time.Now for the footer year and document metadata
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithCanvasFactory swaps the PDF backend, mostly for tests
func WithCanvasFactory(factory func(req DocumentRequest, issuedAt time.Time) pdf.Canvas) EngineOption {
	return func(e *Engine) {
		if factory != nil {
			e.newCanvas = factory
		}
	}
}

// WithTimeouts bounds emblem loading and QR encoding separately. Zero keeps
// the default.
func WithTimeouts(asset, qr time.Duration) EngineOption {
	return func(e *Engine) {
		if asset > 0 {
			e.assetTimeout = asset
		}
		if qr > 0 {
			e.qrTimeout = qr
		}
	}
}

// NewEngine wires the engine. A nil composer issues documents without the
// emblem; a nil encoder falls back to the default verification host.
func NewEngine(composer *Composer, qr QREncoder, logger *zap.Logger, opts ...EngineOption) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if qr == nil {
		qr = NewVerificationEncoder(DefaultVerificationHost, DefaultQRSize)
	}

	e := &Engine{
		composer:     composer,
		qr:           qr,
		logger:       logger,
		now:          time.Now,
		newCanvas:    defaultCanvas,
		assetTimeout: defaultAssetTimeout,
		qrTimeout:    defaultQRTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func defaultCanvas(req DocumentRequest, issuedAt time.Time) pdf.Canvas {
	options := pdf.DefaultCanvasOptions()
	options.Title = strings.ToUpper(req.Title)
	options.Author = documentAuthor
	options.Subject = req.CertificateNumber
	options.Creator = "Vibali Portal"
	options.CreationDate = issuedAt
	return pdf.NewCanvas(options)
}

// GenerateDocument validates the request and draws the page in a fixed
// order: emblem and watermark, letterhead, body, signature block, QR code,
// footer. A missing emblem degrades the page; every other failure aborts.
func (e *Engine) GenerateDocument(ctx context.Context, req DocumentRequest) (*GeneratedDocument, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, newError(KindRender, "GenerateDocument", err)
	}

	issuedAt := e.now()
	canvas := e.newCanvas(req, issuedAt)
	width, height := canvas.PageSize()

	logger := e.logger.With(
		zap.String("title", req.Title),
		zap.String("certificate_number", req.CertificateNumber),
		zap.String("language", string(req.EffectiveLanguage())))

	p := &page{
		canvas: canvas,
		geo:    NewGeometry(width, height),
		req:    req,
		sig:    req.Signature.Resolve(),
		logger: logger,
	}

	hasEmblem, err := e.drawEmblem(ctx, p)
	if err != nil {
		return nil, err
	}
	e.drawHeader(p)
	if err := e.drawBody(p); err != nil {
		return nil, err
	}
	e.drawSignature(p)

	hasQR, err := e.drawQRCode(ctx, p)
	if err != nil {
		logger.Error("QR code generation failed", zap.Error(err))
		return nil, err
	}
	e.drawFooter(p)

	doc, err := finalize(canvas, req)
	if err != nil {
		return nil, err
	}
	doc.HasEmblem = hasEmblem
	doc.HasQRCode = hasQR

	logger.Info("Document generated",
		zap.String("filename", doc.Filename),
		zap.Int("bytes", len(doc.Bytes)),
		zap.Bool("emblem", hasEmblem),
		zap.Bool("qr_code", hasQR))
	return doc, nil
}
