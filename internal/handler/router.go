package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/memoria/internal/metrics"
	"github.com/hitoshi/memoria/internal/middleware"
	"github.com/hitoshi/memoria/internal/model"
)

// RouterDeps はルーターの構築に必要な依存関係。
type RouterDeps struct {
	Auth           *AuthHandler
	Memory         *MemoryHandler
	Verifier       middleware.TokenVerifier
	Metrics        metrics.Recorder
	Gatherer       prometheus.Gatherer
	Healthcheck    func(ctx context.Context) error
	AllowedOrigins []string
}

// NewRouter はアプリケーション全体のルーターを構築する。
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewLoggingMiddleware())
	r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Backend server is running"))
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Healthcheck(r.Context()); err != nil {
			slog.Error("healthcheck failed", slog.Any("error", err))
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("unavailable"))
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Method("GET", "/metrics", metrics.Handler(deps.Gatherer))

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", deps.Auth.Register)
			r.Post("/login", deps.Auth.Login)
		})

		r.Route("/memory", func(r chi.Router) {
			r.Use(middleware.NewAuthMiddleware(deps.Verifier))
			r.Post("/save", deps.Memory.Save)
		})
	})

	// 未定義のパスにもJSONでエラーを返す。
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, r, model.NewNotFoundError())
	})

	return r
}
