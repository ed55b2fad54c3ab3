package logo

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"tagrender/internal/pkg/errors"
	"tagrender/internal/ports"
)

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
}

func (m *memStore) Provider() string { return "mem" }

func (m *memStore) PutObject(_ context.Context, in ports.PutObjectInput) (ports.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Reader)
	if err != nil {
		return ports.PutObjectOutput{}, err
	}
	m.mu.Lock()
	m.data[in.ObjectKey] = b
	m.mu.Unlock()
	return ports.PutObjectOutput{ObjectKey: in.ObjectKey, Size: int64(len(b))}, nil
}

func (m *memStore) GetObject(_ context.Context, key string) (io.ReadCloser, string, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	b, ok := m.data[key]
	if !ok {
		return nil, "", 0, errors.NotFound("object", key)
	}
	return io.NopCloser(bytes.NewReader(b)), "image/png", int64(len(b)), nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.Black)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestSourceMemoises(t *testing.T) {
	store := &memStore{data: map[string][]byte{"logo.png": pngBytes(t, 30, 20)}}
	src := NewSource(store, "logo.png")

	for i := 0; i < 3; i++ {
		img, err := src.Image(context.Background())
		if err != nil {
			t.Fatalf("Image() error = %v", err)
		}
		if b := img.Bounds(); b.Dx() != 30 || b.Dy() != 20 {
			t.Errorf("bounds = %v", b)
		}
	}
	if store.gets != 1 {
		t.Errorf("GetObject called %d times, want 1", store.gets)
	}

	src.Reset()
	if _, err := src.Image(context.Background()); err != nil {
		t.Fatalf("Image() after Reset error = %v", err)
	}
	if store.gets != 2 {
		t.Errorf("GetObject called %d times after Reset, want 2", store.gets)
	}
}

func TestSourceErrors(t *testing.T) {
	store := &memStore{data: map[string][]byte{"bad.png": []byte("not an image")}}

	tests := []struct {
		name string
		src  *Source
		code errors.Code
	}{
		{"missing object", NewSource(store, "nope.png"), errors.CodeNotFound},
		{"undecodable", NewSource(store, "bad.png"), errors.CodeEncoding},
		{"no storage", NewSource(nil, "logo.png"), errors.CodeUnavailable},
		{"no key", NewSource(store, ""), errors.CodeUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.src.Image(context.Background())
			if !errors.IsCode(err, tt.code) {
				t.Errorf("Image() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSourceRetriesAfterFailure(t *testing.T) {
	store := &memStore{data: map[string][]byte{}}
	src := NewSource(store, "logo.png")

	if _, err := src.Image(context.Background()); err == nil {
		t.Fatal("expected error before upload")
	}
	_, err := store.PutObject(context.Background(), ports.PutObjectInput{
		ObjectKey: "logo.png",
		Reader:    bytes.NewReader(pngBytes(t, 4, 4)),
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := src.Image(context.Background()); err != nil {
		t.Errorf("Image() after upload error = %v", err)
	}
	if err := src.Check(context.Background()); err != nil {
		t.Errorf("Check() error = %v", err)
	}
	if !strings.Contains(src.Key(), "logo") {
		t.Errorf("Key() = %q", src.Key())
	}
}

func TestSourceDigestFollowsContent(t *testing.T) {
	ctx := context.Background()
	store := &memStore{data: map[string][]byte{"logo.png": pngBytes(t, 30, 20)}}
	src := NewSource(store, "logo.png")

	first, err := src.Asset(ctx)
	if err != nil {
		t.Fatalf("Asset() error = %v", err)
	}
	if len(first.Digest) != 64 {
		t.Errorf("Digest = %q, want sha256 hex", first.Digest)
	}
	again, _ := src.Asset(ctx)
	if again.Digest != first.Digest {
		t.Error("digest changed without new content")
	}

	store.PutObject(ctx, ports.PutObjectInput{ObjectKey: "logo.png", Reader: bytes.NewReader(pngBytes(t, 8, 8))})
	src.Reset()

	second, err := src.Asset(ctx)
	if err != nil {
		t.Fatalf("Asset() after upload error = %v", err)
	}
	if second.Digest == first.Digest {
		t.Error("digest unchanged after new content")
	}
	if b := second.Image.Bounds(); b.Dx() != 8 {
		t.Errorf("bounds = %v, want the new asset", b)
	}
}

func TestSourceMaxAge(t *testing.T) {
	ctx := context.Background()
	store := &memStore{data: map[string][]byte{"logo.png": pngBytes(t, 30, 20)}}

	clock := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	src := NewSource(store, "logo.png").WithMaxAge(time.Minute)
	src.now = func() time.Time { return clock }

	first, err := src.Asset(ctx)
	if err != nil {
		t.Fatalf("Asset() error = %v", err)
	}

	// Another process replaces the object; no Reset here.
	store.PutObject(ctx, ports.PutObjectInput{ObjectKey: "logo.png", Reader: bytes.NewReader(pngBytes(t, 8, 8))})

	clock = clock.Add(30 * time.Second)
	if a, _ := src.Asset(ctx); a.Digest != first.Digest {
		t.Error("reloaded before max age")
	}

	clock = clock.Add(30 * time.Second)
	a, err := src.Asset(ctx)
	if err != nil {
		t.Fatalf("Asset() error = %v", err)
	}
	if a.Digest == first.Digest {
		t.Error("stale asset served after max age")
	}
	if store.gets != 2 {
		t.Errorf("GetObject called %d times, want 2", store.gets)
	}
}
