package certificates

import (
	"context"
	"errors"
	"fmt"

	"github.com/skip2/go-qrcode"
)

const (
	DefaultVerificationHost = "tamisemi.go.tz"
	DefaultQRSize           = 256
)

// QRImage is a rasterised verification code
type QRImage struct {
	URL string
	PNG []byte
}

type QREncoder interface {
	Encode(ctx context.Context, certificateNumber string) (*QRImage, error)
}

// VerificationEncoder points QR codes at https://<host>/verify/<number>
type VerificationEncoder struct {
	host  string
	size  int
	level qrcode.RecoveryLevel
}

func NewVerificationEncoder(host string, size int) *VerificationEncoder {
	if host == "" {
		host = DefaultVerificationHost
	}
	if size <= 0 {
		size = DefaultQRSize
	}
	return &VerificationEncoder{host: host, size: size, level: qrcode.Medium}
}

// VerificationURL copies the certificate number verbatim. No escaping is
// applied, the verification service matches on the raw path.
func (e *VerificationEncoder) VerificationURL(certificateNumber string) string {
	return "https://" + e.host + "/verify/" + certificateNumber
}

func (e *VerificationEncoder) Encode(ctx context.Context, certificateNumber string) (*QRImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, newError(KindEncoding, "EncodeQR", fmt.Errorf("%w: %w", ErrQREncoding, err))
	}

	url := e.VerificationURL(certificateNumber)

	type result struct {
		png []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		png, err := qrcode.Encode(url, e.level, e.size)
		done <- result{png: png, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, newError(KindEncoding, "EncodeQR", fmt.Errorf("%w: %w", ErrQREncoding, ctx.Err()))
	case r := <-done:
		if r.err != nil {
			return nil, newError(KindEncoding, "EncodeQR", fmt.Errorf("%w: %w", ErrQREncoding, r.err))
		}
		if len(r.png) == 0 {
			return nil, newError(KindEncoding, "EncodeQR", fmt.Errorf("%w: %w", ErrQREncoding, errors.New("empty image")))
		}
		return &QRImage{URL: url, PNG: r.png}, nil
	}
}
