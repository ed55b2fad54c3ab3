package tag

import (
	"image"
	"image/color"

	"tagrender/internal/pkg/errors"
)

// QREncoder turns a URL into a QR bitmap. Any image works; it is scaled
// with nearest-neighbour sampling onto the tag.
type QREncoder interface {
	Encode(content string) (image.Image, error)
}

// Renderer draws tags with an injected font family and QR encoder.
type Renderer struct {
	fonts *FontSet
	qr    QREncoder
}

// NewRenderer creates a Renderer. A nil fonts selects DefaultFonts. qr may
// be nil if RenderNotConfigured is never called.
func NewRenderer(fonts *FontSet, qr QREncoder) (*Renderer, error) {
	if fonts == nil {
		var err error
		if fonts, err = DefaultFonts(); err != nil {
			return nil, errors.Wrap(err, "tag.renderer", "load default fonts")
		}
	}
	return &Renderer{fonts: fonts, qr: qr}, nil
}

// Fonts returns the renderer's font family.
func (r *Renderer) Fonts() *FontSet { return r.fonts }

type header struct {
	left, right string
}

// composition is one tag variant: its background, an optional header and
// the callback drawing the content below it.
type composition struct {
	op         string
	background color.Color
	header     *header
	dither     bool
	content    func(s *Surface, l Layout) error
}

// compose runs the shared sequence: surface, background, header, content.
func (r *Renderer) compose(width, height int, c composition) (*Surface, error) {
	s, err := NewSurface(width, height, c.background)
	if err != nil {
		return nil, err
	}
	s.SetDither(c.dither)
	l := NewLayout(width, height)

	if c.header != nil {
		if err := drawHeader(s, r.fonts, l, c.header.left, c.header.right); err != nil {
			s.Close()
			return nil, errors.Wrap(err, c.op, "header failed")
		}
	}
	if c.content != nil {
		if err := c.content(s, l); err != nil {
			s.Close()
			return nil, errors.Wrap(err, c.op, "content failed")
		}
	}
	return s, nil
}

// render composes and encodes.
func (r *Renderer) render(width, height int, c composition) (*Tag, error) {
	s, err := r.compose(width, height, c)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	data, err := s.Encode()
	if err != nil {
		return nil, errors.Wrap(err, c.op, "encode failed")
	}
	return &Tag{data: data, width: width, height: height}, nil
}
