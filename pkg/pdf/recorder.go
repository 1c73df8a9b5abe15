package pdf

import (
	"fmt"
	"io"
	"sync"
)

// OpKind identifies a recorded draw operation
type OpKind string

const (
	OpFont  OpKind = "font"
	OpText  OpKind = "text"
	OpImage OpKind = "image"
)

// Op is one draw call captured by a Recorder. X is the left edge for
// left-aligned text and the centre for centred text.
type Op struct {
	Kind     OpKind
	Name     string
	Text     string
	Centered bool
	Family   string
	Style    string
	Size     float64
	X, Y     float64
	W, H     float64
}

// Recorder is a Canvas that keeps the draw calls instead of rendering them.
// Text widths are approximated as half the font size per rune.
type Recorder struct {
	width, height float64

	mu   sync.Mutex
	size float64
	ops  []Op
}

// NewRecorder returns a recorder for a page of the given size in points
func NewRecorder(width, height float64) *Recorder {
	return &Recorder{width: width, height: height, size: 12}
}

// NewA4Recorder returns a recorder sized like an A4 portrait page
func NewA4Recorder() *Recorder {
	return NewRecorder(A4Width, A4Height)
}

// A4 portrait dimensions in points
const (
	A4Width  = 595.28
	A4Height = 841.89
)

func (r *Recorder) PageSize() (float64, float64) {
	return r.width, r.height
}

func (r *Recorder) SetFont(family, style string, size float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.size = size
	r.ops = append(r.ops, Op{Kind: OpFont, Family: family, Style: style, Size: size})
}

func (r *Recorder) Text(x, y float64, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, Op{Kind: OpText, Text: text, X: x, Y: y, Size: r.size})
}

func (r *Recorder) CenteredText(centerX, y float64, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, Op{Kind: OpText, Text: text, Centered: true, X: centerX, Y: y, Size: r.size})
}

func (r *Recorder) WrapText(text string, width float64) []string {
	r.mu.Lock()
	size := r.size
	r.mu.Unlock()
	return wrapLines(text, width, func(s string) float64 {
		return float64(len([]rune(s))) * size / 2
	})
}

func (r *Recorder) Image(name string, png []byte, x, y, w, h float64) error {
	if len(png) == 0 {
		return fmt.Errorf("pdf: image %s: empty data", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, Op{Kind: OpImage, Name: name, X: x, Y: y, W: w, H: h})
	return nil
}

// Output writes one line per recorded operation
func (r *Recorder) Output(w io.Writer) error {
	for _, op := range r.Ops() {
		var err error
		switch op.Kind {
		case OpImage:
			_, err = fmt.Fprintf(w, "image %s %.2f %.2f %.2f %.2f\n", op.Name, op.X, op.Y, op.W, op.H)
		case OpText:
			_, err = fmt.Fprintf(w, "text %.2f %.2f %q\n", op.X, op.Y, op.Text)
		default:
			_, err = fmt.Fprintf(w, "font %s %s %.1f\n", op.Family, op.Style, op.Size)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Ops returns a copy of the recorded operations in draw order
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Op, len(r.ops))
	copy(out, r.ops)
	return out
}

// Images returns the names of drawn images in draw order
func (r *Recorder) Images() []string {
	var names []string
	for _, op := range r.Ops() {
		if op.Kind == OpImage {
			names = append(names, op.Name)
		}
	}
	return names
}

// Texts returns every drawn string in draw order
func (r *Recorder) Texts() []string {
	var texts []string
	for _, op := range r.Ops() {
		if op.Kind == OpText {
			texts = append(texts, op.Text)
		}
	}
	return texts
}
