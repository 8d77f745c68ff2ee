package http

import (
	"chanmod/internal/app/adapters/http/handlers"
	"chanmod/internal/app/adapters/http/middlewares"
	"chanmod/internal/app/infrastructure/config"
	"chanmod/pkg/logger"
	"context"
	"errors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"log/slog"
	"net/http"
	"time"
)

type Router struct {
	router      *gin.Engine
	handlers    *handlers.Handlers
	middlewares *middlewares.Middlewares

	log logger.Logger
	cfg config.App
}

func NewRouter(log logger.Logger, cfg config.App, h *handlers.Handlers) *Router {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	r := &Router{
		router:      gin.New(),
		handlers:    h,
		middlewares: middlewares.New(),
		log:         log,
		cfg:         cfg,
	}
	r.router.Use(gin.Recovery())

	admin := r.middlewares.AdminAuth(cfg.AuthToken)

	pprofGroup := r.router.Group("/", admin)
	pprof.Register(pprofGroup)

	r.router.GET("/metrics", admin, gin.WrapH(promhttp.Handler()))
	r.router.GET("/healthz", r.handlers.HealthHandler)

	api := r.router.Group("/api", r.middlewares.Auth(cfg.AuthToken))
	api.GET("/reversals", r.handlers.ReversalsHandler)
	api.GET("/channels/:channel/members", r.handlers.MembersHandler)

	return r
}

func (r *Router) Handler() http.Handler {
	return r.router
}

// Run serves until ctx is cancelled.
func (r *Router) Run(ctx context.Context) error {
	srv := r.newServer(r.cfg.HTTPAddr, r.router)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			r.log.Error("Failed to shut down HTTP server", err)
		}
	}()

	r.log.Info("HTTP server listening", slog.String("addr", r.cfg.HTTPAddr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (r *Router) newServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
}
