package pdf

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Canvas is a single fixed-layout page addressed in absolute coordinates.
type Canvas interface {
	PageSize() (width, height float64)
	SetFont(family, style string, size float64)
	Text(x, y float64, text string)
	CenteredText(centerX, y float64, text string)
	WrapText(text string, width float64) []string
	Image(name string, png []byte, x, y, w, h float64) error
	Output(w io.Writer) error
}

// CanvasOptions configures a new page canvas
type CanvasOptions struct {
	PageSize     string    `json:"page_size"`   // A4, Letter, Legal
	Orientation  string    `json:"orientation"` // portrait, landscape
	Unit         string    `json:"unit"`        // pt, mm, cm, in
	Title        string    `json:"title,omitempty"`
	Author       string    `json:"author,omitempty"`
	Subject      string    `json:"subject,omitempty"`
	Creator      string    `json:"creator,omitempty"`
	CreationDate time.Time `json:"creation_date,omitempty"`
	Compress     bool      `json:"compress"`
}

// DefaultCanvasOptions returns an A4 portrait page measured in points
func DefaultCanvasOptions() CanvasOptions {
	return CanvasOptions{
		PageSize:    "A4",
		Orientation: "portrait",
		Unit:        "pt",
		Compress:    true,
	}
}

type fpdfCanvas struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// NewCanvas allocates a document with one blank page. Every call returns an
// independent document.
func NewCanvas(options CanvasOptions) Canvas {
	orientation := "P"
	if options.Orientation == "landscape" {
		orientation = "L"
	}

	pdf := gofpdf.New(orientation, options.Unit, options.PageSize, "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(options.Compress)

	if options.Title != "" {
		pdf.SetTitle(options.Title, true)
	}
	if options.Author != "" {
		pdf.SetAuthor(options.Author, true)
	}
	if options.Subject != "" {
		pdf.SetSubject(options.Subject, true)
	}
	if options.Creator != "" {
		pdf.SetCreator(options.Creator, true)
	}
	if !options.CreationDate.IsZero() {
		pdf.SetCreationDate(options.CreationDate)
	}

	pdf.AddPage()

	return &fpdfCanvas{
		pdf: pdf,
		// core fonts are cp1252 encoded
		tr: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (c *fpdfCanvas) PageSize() (float64, float64) {
	return c.pdf.GetPageSize()
}

func (c *fpdfCanvas) SetFont(family, style string, size float64) {
	c.pdf.SetFont(family, style, size)
}

func (c *fpdfCanvas) Text(x, y float64, text string) {
	c.pdf.Text(x, y, c.tr(text))
}

func (c *fpdfCanvas) CenteredText(centerX, y float64, text string) {
	encoded := c.tr(text)
	width := c.pdf.GetStringWidth(encoded)
	c.pdf.Text(centerX-width/2, y, encoded)
}

func (c *fpdfCanvas) WrapText(text string, width float64) []string {
	return wrapLines(text, width, func(s string) float64 {
		return c.pdf.GetStringWidth(c.tr(s))
	})
}

func (c *fpdfCanvas) Image(name string, png []byte, x, y, w, h float64) error {
	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	c.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	c.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	if c.pdf.Err() {
		return fmt.Errorf("pdf: image %s: %w", name, c.pdf.Error())
	}
	return nil
}

func (c *fpdfCanvas) Output(w io.Writer) error {
	if c.pdf.Err() {
		return fmt.Errorf("pdf: %w", c.pdf.Error())
	}
	return c.pdf.Output(w)
}

// wrapLines greedily fills lines up to width. Explicit newlines start a new
// line and empty input lines are kept. A word wider than width gets a line
// of its own.
func wrapLines(text string, width float64, measure func(string) float64) []string {
	var lines []string
	for _, paragraph := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		current := words[0]
		for _, word := range words[1:] {
			candidate := current + " " + word
			if measure(candidate) <= width {
				current = candidate
				continue
			}
			lines = append(lines, current)
			current = word
		}
		lines = append(lines, current)
	}
	return lines
}
