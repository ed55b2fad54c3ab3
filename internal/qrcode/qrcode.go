// Package qrcode encodes URLs as QR bitmaps for the not-configured tag.
package qrcode

import (
	"image"
	"image/color"

	"github.com/boombuler/barcode/qr"
	"golang.org/x/image/draw"

	"tagrender/internal/pkg/errors"
)

// QuietZone is the white border in modules around the symbol.
const QuietZone = 4

// Level is a QR error correction level.
type Level = qr.ErrorCorrectionLevel

const (
	LevelL = qr.L
	LevelM = qr.M
	LevelQ = qr.Q
	LevelH = qr.H
)

// Encoder produces one pixel per module images. The caller scales them.
type Encoder struct {
	level Level
}

// New returns an Encoder at level M.
func New() *Encoder {
	return &Encoder{level: LevelM}
}

// WithLevel returns a copy of e using level.
func (e *Encoder) WithLevel(level Level) *Encoder {
	return &Encoder{level: level}
}

// Encode returns the QR symbol for content surrounded by the quiet zone.
func (e *Encoder) Encode(content string) (image.Image, error) {
	code, err := qr.Encode(content, e.level, qr.Auto)
	if err != nil {
		return nil, errors.Encoding(err, "qrcode.encode", "qr encode failed").
			WithField("length", len(content))
	}

	b := code.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx()+2*QuietZone, b.Dy()+2*QuietZone))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(out, b.Sub(b.Min).Add(image.Pt(QuietZone, QuietZone)), code, b.Min, draw.Src)
	return out, nil
}
