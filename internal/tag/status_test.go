package tag

import (
	"errors"
	"image/color"
	"strings"
	"testing"

	tagerrors "tagrender/internal/pkg/errors"
	"tagrender/internal/qrcode"
)

func TestRenderEmergency(t *testing.T) {
	r := newTestRenderer(t, nil)

	tg, err := r.RenderEmergency(800, 480)
	if err != nil {
		t.Fatalf("RenderEmergency() error = %v", err)
	}
	img := decode(t, tg)

	// Red reads as mid-dark luma, white as light.
	red := func(x, y int) {
		t.Helper()
		if l := luma(img, x, y); l < 40 || l > 150 {
			t.Errorf("pixel (%d,%d) luma = %d, want red", x, y, l)
		}
	}
	red(5, 475)
	red(300, 330)
	assertLight(t, img, 400, 240) // stem
	assertLight(t, img, 400, 336) // dot
	assertLight(t, img, 280, 240) // left edge of the triangle
	assertLight(t, img, 400, 384) // base
}

func TestRenderEmergencySmall(t *testing.T) {
	r := newTestRenderer(t, nil)
	if _, err := r.RenderEmergency(1, 1); err != nil {
		t.Fatalf("RenderEmergency(1, 1) error = %v", err)
	}
}

func TestRenderNotConfigured(t *testing.T) {
	qr := &stubQR{img: solid(21, 21, color.Black)}
	r := newTestRenderer(t, qr)

	tg, err := r.RenderNotConfigured(800, 480, "https://example.org/setup?id=7")
	if err != nil {
		t.Fatalf("RenderNotConfigured() error = %v", err)
	}
	if qr.got != "https://example.org/setup?id=7" {
		t.Errorf("QR content = %q", qr.got)
	}
	img := decode(t, tg)

	assertDark(t, img, 400, 3)   // header
	assertDark(t, img, 285, 150) // QR top-left corner
	assertDark(t, img, 515, 378) // QR bottom-right corner
	assertLight(t, img, 270, 264)
	assertLight(t, img, 530, 264)
	assertLight(t, img, 400, 400)
}

func TestRenderNotConfiguredQRPlacement(t *testing.T) {
	enc := qrcode.New()
	r := newTestRenderer(t, enc)

	short := "https://x.example/s"
	long := "https://rooms.example.org/setup?tag=" + strings.Repeat("0123456789", 15)

	modules := map[string]int{}
	for _, url := range []string{short, long} {
		name := "short"
		if url == long {
			name = "long"
		}
		t.Run(name, func(t *testing.T) {
			code, err := enc.Encode(url)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			n := code.Bounds().Dx()
			modules[name] = n

			tg, err := r.RenderNotConfigured(800, 480, url)
			if err != nil {
				t.Fatalf("RenderNotConfigured() error = %v", err)
			}
			img := decode(t, tg)

			// The code always fills the 240px square at (280, 144),
			// whatever its module count.
			rect := NewLayout(800, 480).QRRect()
			at := func(m float64) int { return int(m * float64(rect.Dx()) / float64(n)) }
			q := float64(qrcode.QuietZone)

			assertLight(t, img, rect.Min.X+at(q/2), rect.Min.Y+at(q/2))     // quiet zone
			assertDark(t, img, rect.Min.X+at(q+0.5), rect.Min.Y+at(q+0.5))  // finder outer ring
			assertLight(t, img, rect.Min.X+at(q+1.5), rect.Min.Y+at(q+1.5)) // finder gap
			assertDark(t, img, rect.Min.X+at(q+3.5), rect.Min.Y+at(q+3.5))  // finder centre
			// Bottom-left finder centre.
			assertDark(t, img, rect.Min.X+at(q+3.5), rect.Min.Y+at(float64(n)-q-3.5))
			assertLight(t, img, rect.Max.X-at(q/2)-1, rect.Max.Y-at(q/2)-1)

			assertLight(t, img, rect.Min.X-5, rect.Min.Y+rect.Dy()/2)
			assertLight(t, img, rect.Max.X+5, rect.Min.Y+rect.Dy()/2)
			assertLight(t, img, rect.Min.X+rect.Dx()/2, rect.Max.Y+5)
		})
	}
	if modules["long"] <= modules["short"] {
		t.Errorf("long URL uses %d modules, short %d; want a larger code", modules["long"], modules["short"])
	}
}

func TestRenderNotConfiguredQRFailures(t *testing.T) {
	t.Run("encoder error", func(t *testing.T) {
		r := newTestRenderer(t, &stubQR{err: errors.New("too long")})
		_, err := r.RenderNotConfigured(800, 480, "x")
		if !tagerrors.IsCode(err, tagerrors.CodeEncoding) {
			t.Errorf("error = %v, want %s", err, tagerrors.CodeEncoding)
		}
		if got := tagerrors.GetHTTPStatus(err); got != 500 {
			t.Errorf("HTTP status = %d, want 500", got)
		}
	})

	t.Run("no encoder", func(t *testing.T) {
		r := newTestRenderer(t, nil)
		_, err := r.RenderNotConfigured(800, 480, "x")
		if !tagerrors.IsCode(err, tagerrors.CodeUnavailable) {
			t.Errorf("error = %v, want %s", err, tagerrors.CodeUnavailable)
		}
	})
}

func TestRenderLogo(t *testing.T) {
	r := newTestRenderer(t, nil)

	tg, err := r.RenderLogo(200, 200, solid(100, 50, color.Black))
	if err != nil {
		t.Fatalf("RenderLogo() error = %v", err)
	}
	img := decode(t, tg)

	assertDark(t, img, 100, 100)
	assertDark(t, img, 5, 60)
	assertLight(t, img, 100, 20)
	assertLight(t, img, 100, 180)
}

func TestRenderLogoWithoutAsset(t *testing.T) {
	r := newTestRenderer(t, nil)
	_, err := r.RenderLogo(200, 200, nil)
	if !tagerrors.IsCode(err, tagerrors.CodeUnavailable) {
		t.Errorf("error = %v, want %s", err, tagerrors.CodeUnavailable)
	}
}

func TestFitSize(t *testing.T) {
	tests := []struct {
		name                   string
		srcW, srcH, maxW, maxH int
		wantW, wantH           int
	}{
		{name: "downscale wide", srcW: 1000, srcH: 500, maxW: 200, maxH: 200, wantW: 200, wantH: 100},
		{name: "upscale tall", srcW: 10, srcH: 20, maxW: 300, maxH: 300, wantW: 150, wantH: 300},
		{name: "same aspect", srcW: 4, srcH: 3, maxW: 800, maxH: 600, wantW: 800, wantH: 600},
		{name: "empty source", srcW: 0, srcH: 10, maxW: 100, maxH: 100, wantW: 0, wantH: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := fitSize(tt.srcW, tt.srcH, tt.maxW, tt.maxH)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("fitSize() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}
