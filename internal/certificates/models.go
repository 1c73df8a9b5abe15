package certificates

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type Language string

const (
	LanguageSwahili Language = "sw"
	LanguageEnglish Language = "en"
)

const ContentTypePDF = "application/pdf"

// DefaultOfficerTitle is printed on the signature block unless overridden
const DefaultOfficerTitle = "Ward Executive Officer / Mtaa Chairperson"

// Field is one applicant particular, e.g. {"Jina Kamili", "Maria Mushi"}
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Fields keeps applicant particulars in the order the form produced them.
// On the wire it is a JSON object whose key order is preserved.
type Fields []Field

// Get returns the value of the first field whose key matches, ignoring case
func (f Fields) Get(key string) (string, bool) {
	for _, field := range f {
		if strings.EqualFold(field.Key, key) {
			return field.Value, true
		}
	}
	return "", false
}

func (f Fields) validate() error {
	seen := make(map[string]struct{}, len(f))
	for _, field := range f {
		if _, ok := seen[field.Key]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateField, field.Key)
		}
		seen[field.Key] = struct{}{}
	}
	return nil
}

func (f *Fields) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("fields: expected a JSON object")
	}

	var out Fields
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)

		var value *string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("fields: value of %q: %w", key, err)
		}
		field := Field{Key: key}
		if value != nil {
			field.Value = *value
		}
		out = append(out, field)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*f = out
	return nil
}

func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(field.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(field.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// SignatureOptions carries partial overrides; nil members keep their defaults
type SignatureOptions struct {
	OfficerTitle  *string `json:"officer_title,omitempty"`
	IncludeSeal   *bool   `json:"include_seal,omitempty"`
	IncludeQRCode *bool   `json:"include_qr_code,omitempty"`
}

// Signature is the resolved signature block configuration
type Signature struct {
	OfficerTitle  string
	IncludeSeal   bool
	IncludeQRCode bool
}

func DefaultSignature() Signature {
	return Signature{
		OfficerTitle:  DefaultOfficerTitle,
		IncludeSeal:   true,
		IncludeQRCode: true,
	}
}

// Resolve merges the overrides onto DefaultSignature field by field. A blank
// officer title keeps the default.
func (o *SignatureOptions) Resolve() Signature {
	sig := DefaultSignature()
	if o == nil {
		return sig
	}
	if o.OfficerTitle != nil && strings.TrimSpace(*o.OfficerTitle) != "" {
		sig.OfficerTitle = *o.OfficerTitle
	}
	if o.IncludeSeal != nil {
		sig.IncludeSeal = *o.IncludeSeal
	}
	if o.IncludeQRCode != nil {
		sig.IncludeQRCode = *o.IncludeQRCode
	}
	return sig
}

// DocumentRequest is everything needed to render one certificate or permit
type DocumentRequest struct {
	Title             string            `json:"title"`
	Fields            Fields            `json:"fields,omitempty"`
	BodyText          string            `json:"body_text,omitempty"`
	Language          Language          `json:"language,omitempty"`
	CertificateNumber string            `json:"certificate_number,omitempty"`
	Signature         *SignatureOptions `json:"signature,omitempty"`
}

// EffectiveLanguage returns the requested language, Swahili when unset
func (r DocumentRequest) EffectiveLanguage() Language {
	if r.Language == "" {
		return LanguageSwahili
	}
	return r.Language
}

// Validate rejects requests that must not reach the drawing phases
func (r DocumentRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return newError(KindValidation, "Validate", ErrEmptyTitle)
	}
	switch r.EffectiveLanguage() {
	case LanguageSwahili, LanguageEnglish:
	default:
		return newError(KindValidation, "Validate", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, r.Language))
	}
	if err := r.Fields.validate(); err != nil {
		return newError(KindValidation, "Validate", err)
	}
	return nil
}

// wantsQRCode requires both the signature flag and a certificate number
func (r DocumentRequest) wantsQRCode(sig Signature) bool {
	return sig.IncludeQRCode && r.CertificateNumber != ""
}

// GeneratedDocument is the finished artifact handed back to the caller
type GeneratedDocument struct {
	Filename  string `json:"filename"`
	Bytes     []byte `json:"-"`
	HasEmblem bool   `json:"has_emblem"`
	HasQRCode bool   `json:"has_qr_code"`
}
