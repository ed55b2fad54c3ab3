package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tagrender/internal/httpapi/handlers"
	"tagrender/internal/httpkit"
	"tagrender/internal/pkg/errors"
	"tagrender/internal/pkg/middleware"
	"tagrender/internal/tag"
)

type Deps struct {
	Handlers       handlers.Deps
	AllowedOrigins []string
	RequestTimeout time.Duration
}

func NewRouter(d Deps) http.Handler {
	h := handlers.New(d.Handlers)
	log := h.Log()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))
	r.Use(middleware.Recovery(log))
	r.Use(httpkit.CORS(httpkit.CORSOptions{
		AllowedOrigins: d.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Accept", middleware.RequestIDHeader},
		ExposedHeaders: []string{handlers.CacheHeader, middleware.RequestIDHeader},
		MaxAgeSeconds:  600,
	}))
	r.Use(middleware.Timeout(d.RequestTimeout))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteErrorResponse(w, errors.CodeNotFound, "Not Found", nil)
	})

	// ---- HEALTH ----
	r.Get("/health", h.Health)

	// ---- TAGS ----
	r.Route("/api/tag", func(r chi.Router) {
		r.With(middleware.TagKind(string(tag.KindSchedule))).
			Post("/schedule", middleware.WrapHandler(log, h.Schedule))
		r.With(middleware.TagKind(string(tag.KindEmergency))).
			Post("/emergency", middleware.WrapHandler(log, h.Emergency))
		r.With(middleware.TagKind(string(tag.KindConfigure))).
			Post("/configure", middleware.WrapHandler(log, h.Configure))

		r.Route("/logo", func(r chi.Router) {
			r.Use(middleware.TagKind(string(tag.KindLogo)))
			r.Post("/", middleware.WrapHandler(log, h.Logo))
			r.Get("/asset", middleware.WrapHandler(log, h.GetLogoAsset))
			r.Put("/asset", middleware.WrapHandler(log, h.PutLogoAsset))
		})
	})

	return r
}
