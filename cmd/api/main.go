package main

import (
	"context"
	"net/http"
	"time"

	"tagrender/internal/app"
	"tagrender/internal/config"
	"tagrender/internal/httpapi"
	"tagrender/internal/httpapi/handlers"
	"tagrender/internal/pkg/logger"
	"tagrender/internal/pkg/shutdown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewDefault().LogFatal("failed to load configuration", err)
	}

	log := logger.New(cfg.Logger())
	log.Info("starting tagrender API", "version", app.Version)

	ctx := context.Background()
	shutdownMgr := shutdown.NewManager(log, cfg.Server.ShutdownTimeout.Duration)

	deps, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.LogFatal("failed to initialize", err)
	}
	shutdownMgr.Register("deps", func(ctx context.Context) error {
		return deps.Close()
	})

	router := httpapi.NewRouter(httpapi.Deps{
		Handlers: handlers.Deps{
			Log:             log,
			Renderer:        deps.Renderer,
			Cache:           deps.Cache,
			Storage:         deps.Storage,
			Logo:            deps.Logo,
			Version:         app.Version,
			AllowLogoUpload: cfg.Server.AllowLogoUpload,
		},
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		RequestTimeout: cfg.Server.RequestTimeout.Duration,
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	shutdownMgr.Register("http-server", func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return server.Shutdown(ctx)
	})

	go func() {
		log.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogFatal("HTTP server failed", err)
		}
	}()

	if err := shutdownMgr.Wait(); err != nil {
		log.Warn("shutdown finished with errors", "error", err.Error())
	}
}
