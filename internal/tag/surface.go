package tag

import (
	"bytes"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"

	"tagrender/internal/pkg/errors"
)

// JPEGQuality is the encoder quality used for every tag.
const JPEGQuality = 100

var (
	colorBlack = color.RGBA{0, 0, 0, 255}
	colorWhite = color.RGBA{255, 255, 255, 255}
	colorRed   = color.RGBA{255, 0, 0, 255}
)

// Palette holds the only colours the display hardware can show. Encoded
// tags never contain anything else, which is how antialiasing is turned
// off: edge pixels produced by the rasterizer are snapped to the nearest
// palette colour.
var Palette = color.Palette{colorWhite, colorBlack, colorRed}

// Align is the horizontal anchor of a text run.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Point is a position in surface pixels.
type Point struct {
	X, Y float64
}

// Surface is a width × height drawing area backed by gg.
type Surface struct {
	dc     *gg.Context
	width  int
	height int
	face   font.Face
	faces  []font.Face
	dither bool
}

// NewSurface allocates a surface and fills it with background.
func NewSurface(width, height int, background color.Color) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.InvalidDimension(width, height)
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(background)
	dc.Clear()
	dc.SetLineCap(gg.LineCapButt)

	return &Surface{dc: dc, width: width, height: height}, nil
}

// Width of the surface in pixels.
func (s *Surface) Width() int { return s.width }

// Height of the surface in pixels.
func (s *Surface) Height() int { return s.height }

// SetDither switches palette snapping to Floyd–Steinberg error diffusion.
// Used for bitmap assets that carry their own shading.
func (s *Surface) SetDither(on bool) { s.dither = on }

// UseFont makes a face of the given weight and size current. The face is
// released by Close.
func (s *Surface) UseFont(fonts *FontSet, weight Weight, size float64) error {
	face, err := fonts.Face(weight, size)
	if err != nil {
		return errors.Encoding(err, "tag.font", "font face unavailable")
	}
	s.faces = append(s.faces, face)
	s.face = face
	s.dc.SetFontFace(face)
	return nil
}

// MeasureText returns the advance width of text with the current face.
func (s *Surface) MeasureText(text string) float64 {
	if s.face == nil {
		return 0
	}
	return measureText(s.face, text)
}

// Ascent is the current face's distance from the top to the baseline.
func (s *Surface) Ascent() float64 {
	if s.face == nil {
		return 0
	}
	return float64(s.face.Metrics().Ascent) / 64
}

// FillRect fills the rectangle with c.
func (s *Surface) FillRect(x, y, w, h float64, c color.Color) {
	s.dc.DrawRectangle(x, y, w, h)
	s.dc.SetColor(c)
	s.dc.Fill()
}

// HRule draws a one pixel rule across the full width, occupying the pixel
// row that starts at y.
func (s *Surface) HRule(y float64, c color.Color) {
	s.FillRect(0, float64(int(y)), float64(s.width), 1, c)
}

// StrokePath strokes the polyline through points, closing it when closed
// is set.
func (s *Surface) StrokePath(points []Point, closed bool, lineWidth float64, c color.Color) {
	if len(points) == 0 {
		return
	}
	s.dc.NewSubPath()
	s.dc.MoveTo(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		s.dc.LineTo(p.X, p.Y)
	}
	if closed {
		s.dc.ClosePath()
	}
	s.dc.SetLineWidth(lineWidth)
	s.dc.SetColor(c)
	s.dc.Stroke()
}

// FillCircle fills a circle of radius r centred on (x, y).
func (s *Surface) FillCircle(x, y, r float64, c color.Color) {
	s.dc.DrawCircle(x, y, r)
	s.dc.SetColor(c)
	s.dc.Fill()
}

// FillText draws text with its alphabetic baseline at y. x is the left
// edge, centre or right edge depending on align.
func (s *Surface) FillText(text string, x, y float64, align Align, c color.Color) {
	switch align {
	case AlignCenter:
		x -= s.MeasureText(text) / 2
	case AlignRight:
		x -= s.MeasureText(text)
	}
	s.dc.SetColor(c)
	s.dc.DrawString(text, x, y)
}

// FillTextTop draws text with the top of the face at y.
func (s *Surface) FillTextTop(text string, x, y float64, align Align, c color.Color) {
	s.FillText(text, x, y+s.Ascent(), align, c)
}

// DrawImage scales img with nearest-neighbour sampling into dst.
func (s *Surface) DrawImage(img image.Image, dst image.Rectangle) {
	if dst.Empty() {
		return
	}
	canvas, ok := s.dc.Image().(draw.Image)
	if !ok {
		return
	}
	draw.NearestNeighbor.Scale(canvas, dst, img, img.Bounds(), draw.Over, nil)
}

// DrawImageAt draws img unscaled with its top-left corner at (x, y).
func (s *Surface) DrawImageAt(img image.Image, x, y int) {
	s.dc.DrawImage(img, x, y)
}

// Snapshot returns the surface reduced to Palette.
func (s *Surface) Snapshot() *image.Paletted {
	src := s.dc.Image()
	dst := image.NewPaletted(src.Bounds(), Palette)
	if s.dither {
		draw.FloydSteinberg.Draw(dst, dst.Bounds(), src, src.Bounds().Min)
	} else {
		draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	}
	return dst
}

// Encode snaps the surface to Palette and encodes it as JPEG.
func (s *Surface) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, s.Snapshot(), imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return nil, errors.Encoding(err, "tag.encode", "jpeg encode failed")
	}
	return buf.Bytes(), nil
}

// Close releases the font faces created by UseFont.
func (s *Surface) Close() error {
	var first error
	for _, f := range s.faces {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	s.faces = nil
	s.face = nil
	return first
}
