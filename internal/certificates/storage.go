package certificates

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"

	"vibali-portal/portal-backend/pkg/storage"
)

const defaultLinkExpiry = 15 * time.Minute

// ArchiveOptions places issued documents in a bucket
type ArchiveOptions struct {
	Bucket     string
	Prefix     string
	LinkExpiry time.Duration
}

// Archive keeps a copy of every issued document in S3
type Archive struct {
	s3      storage.S3Client
	options ArchiveOptions
}

func NewArchive(s3 storage.S3Client, options ArchiveOptions) *Archive {
	if options.Prefix == "" {
		options.Prefix = "certificates"
	}
	if options.LinkExpiry <= 0 {
		options.LinkExpiry = defaultLinkExpiry
	}
	return &Archive{s3: s3, options: options}
}

// Key returns "<prefix>/<yyyy>/<mm>/<filename>". Documents without a
// certificate number are prefixed with the request id so titles never
// collide.
func (a *Archive) Key(doc *GeneratedDocument, requestID uuid.UUID, issuedAt time.Time, numbered bool) string {
	name := doc.Filename
	if !numbered {
		name = requestID.String() + "_" + name
	}
	return path.Join(a.options.Prefix, fmt.Sprintf("%04d", issuedAt.Year()), fmt.Sprintf("%02d", int(issuedAt.Month())), name)
}

// Store uploads the document and returns its key and a time-limited link
func (a *Archive) Store(ctx context.Context, key string, doc *GeneratedDocument) (string, error) {
	if err := a.s3.Upload(ctx, a.options.Bucket, key, ContentTypePDF, bytes.NewReader(doc.Bytes)); err != nil {
		return "", err
	}
	return a.s3.GetPresignedURL(ctx, a.options.Bucket, key, a.options.LinkExpiry)
}
