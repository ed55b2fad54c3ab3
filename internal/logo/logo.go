// Package logo loads the branding asset shown by the logo tag.
package logo

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"image"
	"io"
	"sync"
	"time"

	"github.com/disintegration/imaging"

	"tagrender/internal/pkg/errors"
	"tagrender/internal/ports"
)

// Asset is a decoded logo and the digest of its stored bytes. The digest
// changes whenever the stored content does.
type Asset struct {
	Image  image.Image
	Digest string
}

// Source fetches the asset from storage on first use and keeps the
// decoded image. Failed loads are not memoised, so a later call retries.
// With a max age the asset is fetched again once it is older than that,
// which picks up uploads made by other processes.
type Source struct {
	store  ports.StorageProvider
	key    string
	maxAge time.Duration
	now    func() time.Time

	mu       sync.Mutex
	asset    *Asset
	loadedAt time.Time
}

func NewSource(store ports.StorageProvider, objectKey string) *Source {
	return &Source{store: store, key: objectKey, now: time.Now}
}

// WithMaxAge sets how long a loaded asset is reused. Zero keeps it until
// Reset.
func (s *Source) WithMaxAge(d time.Duration) *Source {
	s.maxAge = d
	return s
}

// Key is the storage object key of the asset.
func (s *Source) Key() string { return s.key }

// Asset returns the decoded asset with its content digest.
func (s *Source) Asset(ctx context.Context) (Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.asset != nil && !s.expired() {
		return *s.asset, nil
	}
	a, err := s.load(ctx)
	if err != nil {
		return Asset{}, err
	}
	s.asset = &a
	s.loadedAt = s.now()
	return a, nil
}

// Image returns the decoded asset.
func (s *Source) Image(ctx context.Context) (image.Image, error) {
	a, err := s.Asset(ctx)
	if err != nil {
		return nil, err
	}
	return a.Image, nil
}

// Reset drops the cached image, e.g. after a new asset was pushed.
func (s *Source) Reset() {
	s.mu.Lock()
	s.asset = nil
	s.mu.Unlock()
}

// Check verifies the asset can be opened without decoding it.
func (s *Source) Check(ctx context.Context) error {
	if s.store == nil || s.key == "" {
		return errors.Unavailable("logo storage")
	}
	rc, _, _, err := s.store.GetObject(ctx, s.key)
	if err != nil {
		return errors.Wrap(err, "logo.check", "logo asset unavailable")
	}
	return rc.Close()
}

func (s *Source) expired() bool {
	return s.maxAge > 0 && s.now().Sub(s.loadedAt) >= s.maxAge
}

func (s *Source) load(ctx context.Context) (Asset, error) {
	if s.store == nil || s.key == "" {
		return Asset{}, errors.Unavailable("logo storage")
	}

	rc, _, _, err := s.store.GetObject(ctx, s.key)
	if err != nil {
		return Asset{}, errors.Wrap(err, "logo.load", "fetch logo asset failed").WithField("object_key", s.key)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return Asset{}, errors.Wrap(err, "logo.load", "read logo asset failed").WithField("object_key", s.key)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return Asset{}, errors.Encoding(err, "logo.decode", "decode logo asset failed").WithField("object_key", s.key)
	}
	sum := sha256.Sum256(data)
	return Asset{Image: img, Digest: hex.EncodeToString(sum[:])}, nil
}
