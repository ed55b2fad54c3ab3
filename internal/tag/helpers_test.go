package tag

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

func newTestRenderer(t *testing.T, qr QREncoder) *Renderer {
	t.Helper()
	fonts, err := DefaultFonts()
	if err != nil {
		t.Fatalf("DefaultFonts() error = %v", err)
	}
	r, err := NewRenderer(fonts, qr)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	return r
}

func decode(t *testing.T, tg *Tag) image.Image {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(tg.Bytes()))
	if err != nil {
		t.Fatalf("decode jpeg: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != tg.Width() || b.Dy() != tg.Height() {
		t.Fatalf("decoded size = %dx%d, tag says %dx%d", b.Dx(), b.Dy(), tg.Width(), tg.Height())
	}
	return img
}

func luma(img image.Image, x, y int) uint8 {
	return color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y
}

func assertDark(t *testing.T, img image.Image, x, y int) {
	t.Helper()
	if l := luma(img, x, y); l > 100 {
		t.Errorf("pixel (%d,%d) luma = %d, want dark", x, y, l)
	}
}

func assertLight(t *testing.T, img image.Image, x, y int) {
	t.Helper()
	if l := luma(img, x, y); l < 200 {
		t.Errorf("pixel (%d,%d) luma = %d, want light", x, y, l)
	}
}

type stubQR struct {
	img image.Image
	err error
	got string
}

func (s *stubQR) Encode(content string) (image.Image, error) {
	s.got = content
	return s.img, s.err
}

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}
