package certificates

import (
	"errors"
	"fmt"
)

// ErrorKind groups generation failures so callers can pick user messaging
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindAsset      ErrorKind = "asset"
	KindEncoding   ErrorKind = "encoding"
	KindRender     ErrorKind = "render"
)

var (
	ErrEmptyTitle          = errors.New("certificates: title is required")
	ErrUnsupportedLanguage = errors.New("certificates: unsupported language")
	ErrDuplicateField      = errors.New("certificates: duplicate field key")
	ErrAssetUnavailable    = errors.New("certificates: emblem asset unavailable")
	ErrQREncoding          = errors.New("certificates: qr encoding failed")
	ErrIncompleteApplicant = errors.New("certificates: date of birth, full name and region are required")
)

// GenerationError is returned by every failing step of document generation.
// Asset errors never leave the engine; they are logged and the page is drawn
// without emblem and watermark.
type GenerationError struct {
	Kind ErrorKind
	Op   string // step name, e.g. "EncodeQR"
	Err  error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("certificates.%s (%s): %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("certificates.%s (%s): unknown error", e.Op, e.Kind)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, op string, err error) *GenerationError {
	return &GenerationError{Kind: kind, Op: op, Err: err}
}

// KindOf reports the kind of the first GenerationError in err's chain
func KindOf(err error) (ErrorKind, bool) {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries a GenerationError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
