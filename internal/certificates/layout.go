package certificates

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"vibali-portal/portal-backend/pkg/pdf"
)

// Image names registered on the page
const (
	imageWatermark = "watermark"
	imageEmblem    = "emblem"
	imageQRCode    = "qr"
)

const lineHeightFactor = 1.15

// Letterhead lines, Swahili first
var (
	stateLines = [2]string{
		"JAMHURI YA MUUNGANO WA TANZANIA",
		"UNITED REPUBLIC OF TANZANIA",
	}
	officeLines = [3]string{
		"OFISI YA RAIS - TAWALA ZA MIKOA NA SERIKALI ZA MITAA (TAMISEMI)",
		"HALMASHAURI YA MANISPAA YA ____________",
		"OFISI YA MTENDAJI WA MTAA / KATA",
	}
)

const (
	titleDivider   = "--------------------------------------------"
	qrCaption      = "Scan to Verify"
	sealLabel      = "Mhuri wa Ofisi / Official Seal:"
	footerTemplate = "© %d - Government of the United Republic of Tanzania | TAMISEMI"
)

// Geometry derives every position on the page from its size and the side
// margin. Vertical offsets of the letterhead are fixed and do not move when
// the emblem is missing.
type Geometry struct {
	Width  float64
	Height float64
	Margin float64
}

func NewGeometry(width, height float64) Geometry {
	return Geometry{Width: width, Height: height, Margin: 60}
}

func (g Geometry) CenterX() float64      { return g.Width / 2 }
func (g Geometry) ContentWidth() float64 { return g.Width - 2*g.Margin }

// Rect is a box in page points, origin at the top-left corner
type Rect struct{ X, Y, W, H float64 }

func (g Geometry) Watermark() Rect {
	return Rect{X: g.CenterX() - 200, Y: g.Height/2 - 200, W: 400, H: 400}
}

func (g Geometry) HeaderEmblem() Rect {
	return Rect{X: g.CenterX() - 50, Y: 20, W: 100, H: 100}
}

func (g Geometry) StateLineY(i int) float64  { return 145 + 15*float64(i) }
func (g Geometry) OfficeLineY(i int) float64 { return 180 + 15*float64(i) }
func (g Geometry) TitleY() float64           { return 250 }
func (g Geometry) DividerY() float64         { return 255 }
func (g Geometry) BodyY() float64            { return 290 }

// SignatureY is the baseline of the first signature line
func (g Geometry) SignatureY() float64   { return g.Height - 200 }
func (g Geometry) SignatureStep() float64 { return 25 }

func (g Geometry) QRCode() Rect {
	return Rect{X: g.Width - 140, Y: g.Height - 200, W: 100, H: 100}
}

// QRCaption returns the centre point of the caption below the QR code
func (g Geometry) QRCaption() (x, y float64) {
	return g.QRCode().X + 50, g.Height - 90
}

func (g Geometry) FooterY() float64 { return g.Height - 40 }

// page is the per-call drawing state. It is never shared between calls.
type page struct {
	canvas pdf.Canvas
	geo    Geometry
	req    DocumentRequest
	sig    Signature
	logger *zap.Logger
}

// drawEmblem reports whether both overlays were drawn. Asset failures are
// logged and leave the page without either overlay.
func (e *Engine) drawEmblem(ctx context.Context, p *page) (bool, error) {
	if e.composer == nil {
		p.logger.Debug("No emblem source configured, skipping letterhead mark")
		return false, nil
	}

	assetCtx, cancel := context.WithTimeout(ctx, e.assetTimeout)
	defer cancel()

	// sources are not required to honour ctx
	type result struct {
		overlays *Overlays
		err      error
	}
	done := make(chan result, 1)
	go func() {
		overlays, err := e.composer.Compose(assetCtx)
		done <- result{overlays: overlays, err: err}
	}()

	var overlays *Overlays
	select {
	case <-assetCtx.Done():
		p.logger.Warn("Emblem load timed out, issuing without watermark and letterhead mark",
			zap.Duration("timeout", e.assetTimeout), zap.Error(assetCtx.Err()))
		return false, nil
	case r := <-done:
		if r.err != nil {
			p.logger.Warn("Emblem unavailable, issuing without watermark and letterhead mark", zap.Error(r.err))
			return false, nil
		}
		overlays = r.overlays
	}

	// the overlays are our own PNG output, so a placement error is a bug
	wm, hdr := p.geo.Watermark(), p.geo.HeaderEmblem()
	if err := p.canvas.Image(imageWatermark, overlays.Watermark, wm.X, wm.Y, wm.W, wm.H); err != nil {
		return false, newError(KindRender, "PlaceWatermark", err)
	}
	if err := p.canvas.Image(imageEmblem, overlays.Header, hdr.X, hdr.Y, hdr.W, hdr.H); err != nil {
		return false, newError(KindRender, "PlaceEmblem", err)
	}
	return true, nil
}

func (e *Engine) drawHeader(p *page) {
	c, g := p.canvas, p.geo

	c.SetFont("helvetica", "B", 13)
	c.CenteredText(g.CenterX(), g.StateLineY(0), stateLines[0])
	c.SetFont("helvetica", "", 11)
	c.CenteredText(g.CenterX(), g.StateLineY(1), stateLines[1])

	c.SetFont("helvetica", "B", 11)
	for i, line := range officeLines {
		c.CenteredText(g.CenterX(), g.OfficeLineY(i), line)
	}

	c.SetFont("helvetica", "B", 13)
	c.CenteredText(g.CenterX(), g.TitleY(), strings.ToUpper(p.req.Title))
	c.SetFont("helvetica", "", 13)
	c.CenteredText(g.CenterX(), g.DividerY(), titleDivider)
}

// drawBody writes the wrapped body paragraph and then the particulars list.
// Body lines and particulars that would reach into the signature block are
// dropped.
func (e *Engine) drawBody(p *page) error {
	c, g := p.canvas, p.geo

	body, err := ResolveBody(p.req)
	if err != nil {
		return newError(KindRender, "ResolveBody", err)
	}

	const size = 11.0
	lineHeight := size * lineHeightFactor
	c.SetFont("times", "", size)

	// leave a clear line above the signature block
	limit := g.SignatureY() - 2*lineHeight

	y := g.BodyY()
	lines := c.WrapText(body, g.ContentWidth())
	for i, line := range lines {
		if y > limit {
			p.logger.Warn("Body does not fit above the signature block",
				zap.Int("drawn", i),
				zap.Int("dropped", len(lines)-i),
				zap.Int("particulars_dropped", len(p.req.Fields)))
			return nil
		}
		c.Text(g.Margin, y, line)
		y += lineHeight
	}

	if len(p.req.Fields) == 0 {
		return nil
	}

	y += lineHeight
	c.SetFont("times", "", size)
	for i, field := range p.req.Fields {
		lines := c.WrapText(fmt.Sprintf("%s: %s", field.Key, field.Value), g.ContentWidth())
		if y+float64(len(lines)-1)*lineHeight > limit {
			p.logger.Warn("Particulars do not fit above the signature block",
				zap.Int("drawn", i),
				zap.Int("dropped", len(p.req.Fields)-i))
			break
		}
		for _, line := range lines {
			c.Text(g.Margin, y, line)
			y += lineHeight
		}
	}
	return nil
}

func (e *Engine) drawSignature(p *page) {
	c, g := p.canvas, p.geo

	c.SetFont("times", "", 10)
	lines := []string{
		"Imetolewa tarehe / Issued on: ___________________",
		"Imeandaliwa na / Prepared by: ____________________________",
		"Cheo / Title: " + p.sig.OfficerTitle,
		"Saini / Signature: ____________________________",
	}

	y := g.SignatureY()
	for _, line := range lines {
		c.Text(g.Margin, y, line)
		y += g.SignatureStep()
	}

	if p.sig.IncludeSeal {
		c.Text(g.Margin, y, sealLabel)
	}
}

// drawQRCode reports whether a code was placed. Encoding failures abort the
// whole document.
func (e *Engine) drawQRCode(ctx context.Context, p *page) (bool, error) {
	if !p.req.wantsQRCode(p.sig) {
		return false, nil
	}

	qrCtx, cancel := context.WithTimeout(ctx, e.qrTimeout)
	defer cancel()

	qr, err := e.qr.Encode(qrCtx, p.req.CertificateNumber)
	if err != nil {
		if _, ok := KindOf(err); !ok {
			err = newError(KindEncoding, "EncodeQR", fmt.Errorf("%w: %w", ErrQREncoding, err))
		}
		return false, err
	}

	rect := p.geo.QRCode()
	if err := p.canvas.Image(imageQRCode, qr.PNG, rect.X, rect.Y, rect.W, rect.H); err != nil {
		return false, newError(KindEncoding, "PlaceQR", fmt.Errorf("%w: %w", ErrQREncoding, err))
	}

	p.canvas.SetFont("times", "", 8)
	x, y := p.geo.QRCaption()
	p.canvas.CenteredText(x, y, qrCaption)
	return true, nil
}

func (e *Engine) drawFooter(p *page) {
	p.canvas.SetFont("helvetica", "I", 8)
	p.canvas.CenteredText(p.geo.CenterX(), p.geo.FooterY(), fmt.Sprintf(footerTemplate, e.now().Year()))
}
