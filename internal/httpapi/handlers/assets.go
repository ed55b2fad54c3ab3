package handlers

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/disintegration/imaging"

	"tagrender/internal/httpkit"
	"tagrender/internal/pkg/errors"
	"tagrender/internal/ports"
)

// MaxLogoBytes caps uploaded logo assets.
const MaxLogoBytes = 16 << 20

// PutLogoAsset stores a new branding asset from the multipart field
// "file" under the configured logo key and drops the decoded copy.
func (h *Handler) PutLogoAsset(w http.ResponseWriter, r *http.Request) error {
	if !h.allowUpload {
		return errors.NotFound("route", r.URL.Path)
	}
	if h.sp == nil || h.logo == nil {
		return errors.Unavailable("logo storage")
	}
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, MaxLogoBytes+1<<20)
	if err := r.ParseMultipartForm(MaxLogoBytes); err != nil {
		return errors.New(errors.CodeBadRequest, "invalid multipart form")
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return errors.ValidationField("file", "file is required")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxLogoBytes+1))
	if err != nil {
		return errors.Wrap(err, "httpapi.logo_upload", "read upload failed")
	}
	if len(data) > MaxLogoBytes {
		return errors.ValidationField("file", "file too large").WithField("max_bytes", MaxLogoBytes)
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return errors.ValidationField("file", "file is not a supported image")
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(header.Filename))
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	out, err := h.sp.PutObject(ctx, ports.PutObjectInput{
		ObjectKey:   h.logo.Key(),
		ContentType: contentType,
		Reader:      bytes.NewReader(data),
		Size:        int64(len(data)),
	})
	if err != nil {
		return errors.Wrap(err, "httpapi.logo_upload", "storage put failed")
	}
	h.logo.Reset()

	b := img.Bounds()
	h.log.FromContext(ctx).Info("logo asset replaced",
		"object_key", out.ObjectKey,
		"provider", h.sp.Provider(),
		"size_bytes", out.Size,
	)

	httpkit.WriteJSON(w, http.StatusCreated, map[string]any{
		"asset": map[string]any{
			"provider":   h.sp.Provider(),
			"object_key": out.ObjectKey,
			"mime":       contentType,
			"size_bytes": out.Size,
			"width":      b.Dx(),
			"height":     b.Dy(),
		},
	})
	return nil
}

// GetLogoAsset streams the stored asset unchanged.
func (h *Handler) GetLogoAsset(w http.ResponseWriter, r *http.Request) error {
	if h.sp == nil || h.logo == nil {
		return errors.Unavailable("logo storage")
	}

	rc, contentType, size, err := h.sp.GetObject(r.Context(), h.logo.Key())
	if err != nil {
		return errors.Wrap(err, "httpapi.logo_asset", "open logo asset failed")
	}
	defer rc.Close()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	if size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, rc)
	return nil
}
