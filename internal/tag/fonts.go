package tag

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Weight selects the regular or bold face of a FontSet.
type Weight int

const (
	Regular Weight = iota
	Bold
)

func (w Weight) String() string {
	if w == Bold {
		return "bold"
	}
	return "regular"
}

// FontSet is the single font family used on every tag. Sizes are in
// pixels. The parsed fonts are read-only and shared between renders;
// faces are created per call.
type FontSet struct {
	regular *opentype.Font
	bold    *opentype.Font
	digest  string
}

var defaultFonts = sync.OnceValues(func() (*FontSet, error) {
	return ParseFonts(goregular.TTF, gobold.TTF)
})

// DefaultFonts returns the Go font family, which is compiled in.
func DefaultFonts() (*FontSet, error) {
	return defaultFonts()
}

// ParseFonts parses TrueType or OpenType data for both weights.
func ParseFonts(regular, bold []byte) (*FontSet, error) {
	r, err := opentype.Parse(regular)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	b, err := opentype.Parse(bold)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	h := sha256.New()
	h.Write(regular)
	h.Write([]byte{0})
	h.Write(bold)
	return &FontSet{regular: r, bold: b, digest: hex.EncodeToString(h.Sum(nil))}, nil
}

// Fingerprint identifies the font data of both weights. Sets parsed from
// the same files share it.
func (f *FontSet) Fingerprint() string { return f.digest }

// LoadFonts reads font files from disk. An empty path falls back to the
// compiled-in Go font of that weight.
func LoadFonts(regularPath, boldPath string) (*FontSet, error) {
	regular, err := readFont(regularPath, goregular.TTF)
	if err != nil {
		return nil, err
	}
	bold, err := readFont(boldPath, gobold.TTF)
	if err != nil {
		return nil, err
	}
	return ParseFonts(regular, bold)
}

func readFont(path string, fallback []byte) ([]byte, error) {
	if path == "" {
		return fallback, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %q: %w", path, err)
	}
	return data, nil
}

// Face creates a face of the given weight and pixel size. The caller
// closes it.
func (f *FontSet) Face(weight Weight, size float64) (font.Face, error) {
	src := f.regular
	if weight == Bold {
		src = f.bold
	}
	// At 72 DPI one point is one pixel.
	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s face at %.2fpx: %w", weight, size, err)
	}
	return face, nil
}

// Measure returns the advance width of text in pixels.
func (f *FontSet) Measure(weight Weight, size float64, text string) (float64, error) {
	face, err := f.Face(weight, size)
	if err != nil {
		return 0, err
	}
	defer face.Close()
	return measureText(face, text), nil
}

// MeasureFunc adapts Measure for AutoFit.
func (f *FontSet) MeasureFunc(weight Weight) MeasureFunc {
	return func(text string, size float64) (float64, error) {
		return f.Measure(weight, size, text)
	}
}

func measureText(face font.Face, text string) float64 {
	return float64(font.MeasureString(face, text)) / 64
}
