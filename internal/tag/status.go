package tag

import (
	"image"
	"math"

	"github.com/disintegration/imaging"

	"tagrender/internal/pkg/errors"
)

// dotRadius is the exclamation dot radius. It does not scale.
const dotRadius = 5

// RenderEmergency draws the evacuation notice: a white warning triangle
// with an exclamation mark on red, under an auto-fitted banner.
func (r *Renderer) RenderEmergency(width, height int) (*Tag, error) {
	return r.render(width, height, r.emergency())
}

func (r *Renderer) emergency() composition {
	return composition{
		op:         "tag.emergency",
		background: colorRed,
		content: func(s *Surface, l Layout) error {
			w, h := float64(l.Width), float64(l.Height)

			s.StrokePath([]Point{
				{w / 2, h * 0.2},
				{w * 0.8, h * 0.8},
				{w * 0.2, h * 0.8},
			}, true, clamp(w*0.05, 5, 10), colorWhite)
			s.StrokePath([]Point{
				{w / 2, h * 0.4},
				{w / 2, h * 0.6},
			}, false, clamp(w*0.05, 10, 15), colorWhite)
			s.FillCircle(w/2, h*0.7, dotRadius, colorWhite)

			size, err := r.EmergencyFontSize(l.Width)
			if err != nil {
				return err
			}
			if err := s.UseFont(r.fonts, Bold, float64(size)); err != nil {
				return err
			}
			s.FillTextTop(EmergencyText, w/2, h*0.05, AlignCenter, colorWhite)
			return nil
		},
	}
}

// EmergencyFontSize is the banner size for a canvas width: AutoFit of
// EmergencyText against 90% of the width.
func (r *Renderer) EmergencyFontSize(width int) (int, error) {
	size, err := AutoFit(EmergencyText, float64(width)*0.9, r.fonts.MeasureFunc(Bold))
	if err != nil {
		return 0, errors.Encoding(err, "tag.autofit", "measure failed")
	}
	return size, nil
}

// RenderNotConfigured draws the setup prompt for an unassigned display,
// with a QR code linking to url.
func (r *Renderer) RenderNotConfigured(width, height int, url string) (*Tag, error) {
	return r.render(width, height, r.notConfigured(url))
}

func (r *Renderer) notConfigured(url string) composition {
	return composition{
		op:         "tag.configure",
		background: colorWhite,
		header:     &header{left: NotConfiguredText},
		content: func(s *Surface, l Layout) error {
			if err := s.UseFont(r.fonts, Regular, l.FontSize); err != nil {
				return err
			}
			s.FillText(ConfigurePrompt, float64(l.Width)/2, l.LineHeight*2.5, AlignCenter, colorBlack)

			if r.qr == nil {
				return errors.Unavailable("qr encoder")
			}
			code, err := r.qr.Encode(url)
			if err != nil {
				return errors.Encoding(err, "tag.qr", "qr encode failed")
			}
			s.DrawImage(code, l.QRRect())
			return nil
		},
	}
}

// RenderLogo draws the branding asset scaled to fit the canvas, aspect
// ratio kept, centred on white.
func (r *Renderer) RenderLogo(width, height int, asset image.Image) (*Tag, error) {
	return r.render(width, height, logo(asset))
}

func logo(asset image.Image) composition {
	return composition{
		op:         "tag.logo",
		background: colorWhite,
		dither:     true,
		content: func(s *Surface, l Layout) error {
			if asset == nil {
				return errors.Unavailable("logo asset")
			}
			b := asset.Bounds()
			w, h := fitSize(b.Dx(), b.Dy(), l.Width, l.Height)
			if w == 0 || h == 0 {
				return nil
			}
			fitted := imaging.Resize(asset, w, h, imaging.Lanczos)
			s.DrawImageAt(fitted, (l.Width-w)/2, (l.Height-h)/2)
			return nil
		},
	}
}

// fitSize scales srcW × srcH up or down to the largest size inside
// maxW × maxH with the same aspect ratio.
func fitSize(srcW, srcH, maxW, maxH int) (int, int) {
	if srcW <= 0 || srcH <= 0 {
		return 0, 0
	}
	scale := math.Min(float64(maxW)/float64(srcW), float64(maxH)/float64(srcH))
	w := int(math.Round(float64(srcW) * scale))
	h := int(math.Round(float64(srcH) * scale))
	return max(1, min(w, maxW)), max(1, min(h, maxH))
}
