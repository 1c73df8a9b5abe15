package pdf

import (
	"bytes"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func charWidth(s string) float64 { return float64(len(s)) }

func TestWrapLinesGreedy(t *testing.T) {
	lines := wrapLines("one two three four", 9, charWidth)
	assert.Equal(t, []string{"one two", "three", "four"}, lines)
}

func TestWrapLinesKeepsBlankLines(t *testing.T) {
	lines := wrapLines("first\n\nsecond", 100, charWidth)
	assert.Equal(t, []string{"first", "", "second"}, lines)
}

func TestWrapLinesLongWord(t *testing.T) {
	lines := wrapLines("a verylongwordindeed b", 5, charWidth)
	assert.Equal(t, []string{"a", "verylongwordindeed", "b"}, lines)
}

func TestNewCanvasA4Points(t *testing.T) {
	c := NewCanvas(DefaultCanvasOptions())
	w, h := c.PageSize()
	assert.InDelta(t, A4Width, w, 0.01)
	assert.InDelta(t, A4Height, h, 0.01)
}

func TestCanvasOutputIsPDF(t *testing.T) {
	opts := DefaultCanvasOptions()
	opts.Title = "Cheti cha Ukazi"
	opts.CreationDate = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	c := NewCanvas(opts)

	c.SetFont("helvetica", "B", 13)
	c.CenteredText(297, 145, "JAMHURI YA MUUNGANO WA TANZANIA")
	c.SetFont("helvetica", "I", 8)
	c.Text(60, 800, "© 2025 - Government of the United Republic of Tanzania")

	img := imaging.New(20, 20, color.NRGBA{R: 10, G: 120, B: 40, A: 128})
	var png bytes.Buffer
	require.NoError(t, imaging.Encode(&png, img, imaging.PNG))
	require.NoError(t, c.Image("mark", png.Bytes(), 10, 10, 50, 50))

	var out bytes.Buffer
	require.NoError(t, c.Output(&out))
	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("%PDF")))
}

func TestCanvasRejectsCorruptImage(t *testing.T) {
	c := NewCanvas(DefaultCanvasOptions())
	err := c.Image("broken", []byte("not a png"), 0, 0, 10, 10)
	assert.Error(t, err)
}

func TestRecorderCapturesOrder(t *testing.T) {
	r := NewA4Recorder()
	r.SetFont("helvetica", "B", 10)
	r.CenteredText(100, 20, "title")
	require.NoError(t, r.Image("qr", []byte{1}, 1, 2, 3, 4))
	r.Text(5, 6, "body")

	assert.Equal(t, []string{"title", "body"}, r.Texts())
	assert.Equal(t, []string{"qr"}, r.Images())

	var out strings.Builder
	require.NoError(t, r.Output(&out))
	assert.Contains(t, out.String(), "image qr 1.00 2.00 3.00 4.00")
}
