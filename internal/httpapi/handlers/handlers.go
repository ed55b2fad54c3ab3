package handlers

import (
	"context"

	"tagrender/internal/cache"
	"tagrender/internal/logo"
	"tagrender/internal/pkg/logger"
	"tagrender/internal/ports"
	"tagrender/internal/tag"
)

// LogoSource provides the branding asset.
type LogoSource interface {
	Key() string
	Asset(ctx context.Context) (logo.Asset, error)
	Check(ctx context.Context) error
	Reset()
}

type Deps struct {
	Log      *logger.Logger
	Renderer *tag.Renderer
	Cache    cache.Cache
	Storage  ports.StorageProvider
	Logo     LogoSource
	Version  string
	// AllowLogoUpload enables PUT /api/tag/logo/asset.
	AllowLogoUpload bool
}

type Handler struct {
	log         *logger.Logger
	renderer    *tag.Renderer
	cache       cache.Cache
	sp          ports.StorageProvider
	logo        LogoSource
	version     string
	allowUpload bool
}

func New(d Deps) *Handler {
	if d.Log == nil {
		d.Log = logger.Discard()
	}
	if d.Cache == nil {
		d.Cache = cache.Noop{}
	}
	return &Handler{
		log:         d.Log.WithComponent("httpapi"),
		renderer:    d.Renderer,
		cache:       d.Cache,
		sp:          d.Storage,
		logo:        d.Logo,
		version:     d.Version,
		allowUpload: d.AllowLogoUpload,
	}
}

// Log is the handler's logger, shared with the error middleware.
func (h *Handler) Log() *logger.Logger { return h.log }
