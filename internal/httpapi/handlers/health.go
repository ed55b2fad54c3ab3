package handlers

import (
	"context"
	"net/http"
	"time"

	"tagrender/internal/httpkit"
)

const checkTimeout = 5 * time.Second

// Health reports liveness. With ?deep=true it also checks redis, storage
// and the logo asset; a failed check degrades the status but still
// answers 200.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.log.FromContext(ctx)

	health := map[string]any{
		"status":  "ok",
		"service": "tagrender",
		"version": h.version,
	}

	if r.URL.Query().Get("deep") == "true" {
		checks := h.deepHealthCheck(ctx)
		health["checks"] = checks

		for _, check := range checks {
			if check["status"] != "ok" {
				health["status"] = "degraded"
				log.Warn("health check degraded", "checks", checks)
				break
			}
		}
	}

	httpkit.WriteJSON(w, http.StatusOK, health)
}

func (h *Handler) deepHealthCheck(ctx context.Context) map[string]map[string]any {
	return map[string]map[string]any{
		"redis":   h.timed(ctx, h.cache.Ping),
		"storage": h.checkStorage(),
		"logo":    h.checkLogo(ctx),
	}
}

func (h *Handler) timed(ctx context.Context, check func(context.Context) error) map[string]any {
	start := time.Now()
	result := map[string]any{"status": "ok"}

	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	if err := check(checkCtx); err != nil {
		result["status"] = "error"
		result["error"] = err.Error()
	}

	result["latency_ms"] = time.Since(start).Milliseconds()
	return result
}

func (h *Handler) checkStorage() map[string]any {
	if h.sp == nil {
		return map[string]any{"status": "error", "error": "not configured"}
	}
	return map[string]any{"status": "ok", "provider": h.sp.Provider()}
}

func (h *Handler) checkLogo(ctx context.Context) map[string]any {
	if h.logo == nil {
		return map[string]any{"status": "error", "error": "not configured"}
	}
	result := h.timed(ctx, h.logo.Check)
	result["object_key"] = h.logo.Key()
	return result
}
