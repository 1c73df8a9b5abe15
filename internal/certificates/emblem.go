package certificates

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Overlays are the two rasters derived from the emblem. Both are present or
// the composer returns an error.
type Overlays struct {
	Watermark []byte // faded, page-centred
	Header    []byte // full opacity, above the letterhead
}

type ComposerOptions struct {
	WatermarkSize    float64 // points
	HeaderSize       float64 // points
	WatermarkOpacity float64
	PixelsPerPoint   float64
}

func DefaultComposerOptions() ComposerOptions {
	return ComposerOptions{
		WatermarkSize:    400,
		HeaderSize:       100,
		WatermarkOpacity: 0.05,
		PixelsPerPoint:   1,
	}
}

// Composer turns the official emblem into watermark and letterhead overlays
type Composer struct {
	source  EmblemSource
	options ComposerOptions
}

func NewComposer(source EmblemSource, options ComposerOptions) *Composer {
	if options.PixelsPerPoint <= 0 {
		options.PixelsPerPoint = 1
	}
	return &Composer{source: source, options: options}
}

// Compose loads and decodes the emblem. Any failure is reported as an
// asset error wrapping ErrAssetUnavailable.
func (c *Composer) Compose(ctx context.Context) (*Overlays, error) {
	if c.source == nil {
		return nil, newError(KindAsset, "LoadEmblem", fmt.Errorf("%w: no source configured", ErrAssetUnavailable))
	}

	raw, err := c.source.Load(ctx)
	if err != nil {
		return nil, newError(KindAsset, "LoadEmblem", fmt.Errorf("%w: %w", ErrAssetUnavailable, err))
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, newError(KindAsset, "DecodeEmblem", fmt.Errorf("%w: %w", ErrAssetUnavailable, err))
	}

	watermark, err := c.render(img, c.options.WatermarkSize, c.options.WatermarkOpacity)
	if err != nil {
		return nil, newError(KindAsset, "ComposeWatermark", fmt.Errorf("%w: %w", ErrAssetUnavailable, err))
	}
	header, err := c.render(img, c.options.HeaderSize, 1)
	if err != nil {
		return nil, newError(KindAsset, "ComposeHeader", fmt.Errorf("%w: %w", ErrAssetUnavailable, err))
	}

	return &Overlays{Watermark: watermark, Header: header}, nil
}

func (c *Composer) render(src image.Image, sizePt, opacity float64) ([]byte, error) {
	px := int(math.Round(sizePt * c.options.PixelsPerPoint))
	img := imaging.Resize(src, px, px, imaging.Lanczos)

	if opacity < 1 {
		img = imaging.AdjustFunc(img, func(p color.NRGBA) color.NRGBA {
			p.A = uint8(math.Round(float64(p.A) * opacity))
			return p
		})
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
