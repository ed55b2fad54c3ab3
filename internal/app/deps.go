// Package app wires the service components from configuration. It is
// shared by the API server and the tagctl CLI.
package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"tagrender/internal/cache"
	"tagrender/internal/config"
	"tagrender/internal/logo"
	"tagrender/internal/pkg/logger"
	"tagrender/internal/qrcode"
	"tagrender/internal/storage"
	"tagrender/internal/tag"
)

// Version is set at build time with -ldflags "-X tagrender/internal/app.Version=...".
var Version = "dev"

type Deps struct {
	Fonts    *tag.FontSet
	Renderer *tag.Renderer
	Cache    cache.Cache
	Storage  storage.Provider
	Logo     *logo.Source
	// Fingerprint names the render settings; it namespaces the cache.
	Fingerprint string

	closers []func() error
}

// Build creates every component named by cfg. Redis is optional: without
// an address the cache is a no-op.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Deps, error) {
	fonts, err := tag.LoadFonts(cfg.Fonts.Regular, cfg.Fonts.Bold)
	if err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}

	level, err := QRLevel(cfg.QR.Level)
	if err != nil {
		return nil, err
	}

	renderer, err := tag.NewRenderer(fonts, qrcode.New().WithLevel(level))
	if err != nil {
		return nil, err
	}

	d := &Deps{
		Fonts:       fonts,
		Renderer:    renderer,
		Cache:       cache.Noop{},
		Fingerprint: RenderFingerprint(fonts, level),
	}

	if cfg.Cache.Enabled() {
		rc := cache.Dial(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB, cfg.Cache.TTL.Duration)
		d.closers = append(d.closers, rc.Close)
		d.Cache = cache.Namespace(rc, d.Fingerprint)
		if err := rc.Ping(ctx); err != nil {
			// The cache is best effort; renders still work.
			log.Warn("redis unreachable, render cache degraded", "addr", cfg.Cache.RedisAddr, "error", err.Error())
		} else {
			log.Info("render cache connected", "addr", cfg.Cache.RedisAddr, "ttl", rc.TTL().String(), "namespace", d.Fingerprint)
		}
	}

	sp, err := storage.NewProvider(ctx, cfg.Storage)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	d.Storage = sp
	d.Logo = logo.NewSource(sp, cfg.Logo.ObjectKey).WithMaxAge(cfg.Logo.Refresh.Duration)
	log.Info("storage provider initialized", "provider", sp.Provider(), "logo_key", cfg.Logo.ObjectKey)

	return d, nil
}

// Close releases connections opened by Build.
func (d *Deps) Close() error {
	var first error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	d.closers = nil
	return first
}

// RenderFingerprint is a short digest of the font data and QR level, the
// settings that change pixels for an identical request.
func RenderFingerprint(fonts *tag.FontSet, level qrcode.Level) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|qr=%d", fonts.Fingerprint(), level)))
	return hex.EncodeToString(sum[:8])
}

// QRLevel parses an error correction level name.
func QRLevel(name string) (qrcode.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "L":
		return qrcode.LevelL, nil
	case "", "M":
		return qrcode.LevelM, nil
	case "Q":
		return qrcode.LevelQ, nil
	case "H":
		return qrcode.LevelH, nil
	}
	return qrcode.LevelM, fmt.Errorf("invalid qr level %q", name)
}
