package handlers

import (
	"context"
	"net/http"

	"tagrender/internal/cache"
	"tagrender/internal/httpkit"
	"tagrender/internal/pkg/errors"
	"tagrender/internal/tag"
)

// CacheHeader reports HIT or MISS for the render cache.
const CacheHeader = "X-Tag-Cache"

func decodeBody(w http.ResponseWriter, r *http.Request) (body, error) {
	var b body
	if err := httpkit.DecodeJSON(w, r, &b); err != nil || b == nil {
		return nil, errors.New(errors.CodeBadRequest, "Request-Body muss ein JSON-Objekt sein")
	}
	return b, nil
}

// Schedule renders POST /api/tag/schedule.
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) error {
	b, err := decodeBody(w, r)
	if err != nil {
		return err
	}
	req, err := parseSchedule(b)
	if err != nil {
		return err
	}
	return h.serve(w, r, tag.KindSchedule, req, func(context.Context) (*tag.Tag, error) {
		return h.renderer.RenderSchedule(req)
	})
}

// Emergency renders POST /api/tag/emergency.
func (h *Handler) Emergency(w http.ResponseWriter, r *http.Request) error {
	b, err := decodeBody(w, r)
	if err != nil {
		return err
	}
	d, err := parseDimensions(b)
	if err != nil {
		return err
	}
	return h.serve(w, r, tag.KindEmergency, d, func(context.Context) (*tag.Tag, error) {
		return h.renderer.RenderEmergency(d.Width, d.Height)
	})
}

// Configure renders POST /api/tag/configure.
func (h *Handler) Configure(w http.ResponseWriter, r *http.Request) error {
	b, err := decodeBody(w, r)
	if err != nil {
		return err
	}
	req, err := parseConfigure(b)
	if err != nil {
		return err
	}
	return h.serve(w, r, tag.KindConfigure, req, func(context.Context) (*tag.Tag, error) {
		return h.renderer.RenderNotConfigured(req.Width, req.Height, req.URL)
	})
}

// Logo renders POST /api/tag/logo.
func (h *Handler) Logo(w http.ResponseWriter, r *http.Request) error {
	b, err := decodeBody(w, r)
	if err != nil {
		return err
	}
	d, err := parseDimensions(b)
	if err != nil {
		return err
	}
	if h.logo == nil {
		return errors.Unavailable("logo")
	}

	asset, err := h.logo.Asset(r.Context())
	if err != nil {
		return err
	}

	// The digest is part of the key so a replaced asset never hits an
	// entry rendered from the old one.
	key := struct {
		dimensions
		Asset  string `json:"asset"`
		Digest string `json:"digest"`
	}{d, h.logo.Key(), asset.Digest}

	return h.serve(w, r, tag.KindLogo, key, func(context.Context) (*tag.Tag, error) {
		return h.renderer.RenderLogo(d.Width, d.Height, asset.Image)
	})
}

// serve answers from the cache or renders, then writes 201 image/jpeg.
// Cache failures are logged and never fail the request.
func (h *Handler) serve(w http.ResponseWriter, r *http.Request, kind tag.Kind, req any, render func(context.Context) (*tag.Tag, error)) error {
	ctx := r.Context()
	log := h.log.FromContext(ctx)

	key, err := cache.Key(kind, req)
	if err != nil {
		return errors.Wrap(err, "httpapi.cache_key", "cache key failed")
	}

	if data, ok, err := h.cache.Get(ctx, key); err != nil {
		log.Warn("render cache read failed", "error", err.Error(), "key", key)
	} else if ok {
		w.Header().Set(CacheHeader, "HIT")
		httpkit.WriteImage(w, http.StatusCreated, tag.ContentType, data)
		return nil
	}

	t, err := renderWithContext(ctx, render)
	if err != nil {
		return err
	}
	data := t.Bytes()

	if err := h.cache.Set(ctx, key, data); err != nil {
		log.Warn("render cache write failed", "error", err.Error(), "key", key)
	}

	log.Debug("tag rendered", "width", t.Width(), "height", t.Height(), "bytes", t.Len())
	w.Header().Set(CacheHeader, "MISS")
	httpkit.WriteImage(w, http.StatusCreated, t.ContentType(), data)
	return nil
}

// renderWithContext runs render but gives up when ctx ends. The render
// itself cannot be interrupted and finishes in the background.
func renderWithContext(ctx context.Context, render func(context.Context) (*tag.Tag, error)) (*tag.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Timeout("render")
	}

	type result struct {
		tag *tag.Tag
		err error
	}
	done := make(chan result, 1)
	go func() {
		t, err := render(ctx)
		done <- result{t, err}
	}()

	select {
	case res := <-done:
		return res.tag, res.err
	case <-ctx.Done():
		return nil, errors.Timeout("render")
	}
}
