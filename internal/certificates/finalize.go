package certificates

import (
	"bytes"
	"regexp"
	"strings"

	"vibali-portal/portal-backend/pkg/pdf"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Filename is "<certificate number>.pdf" when a number is present, otherwise
// the lowercased title with whitespace runs collapsed to "_".
func Filename(req DocumentRequest) string {
	if req.CertificateNumber != "" {
		return req.CertificateNumber + ".pdf"
	}
	return strings.ToLower(whitespaceRun.ReplaceAllString(req.Title, "_")) + ".pdf"
}

func finalize(canvas pdf.Canvas, req DocumentRequest) (*GeneratedDocument, error) {
	var buf bytes.Buffer
	if err := canvas.Output(&buf); err != nil {
		return nil, newError(KindRender, "Output", err)
	}
	return &GeneratedDocument{
		Filename: Filename(req),
		Bytes:    buf.Bytes(),
	}, nil
}
