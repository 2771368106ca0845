package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/vocab-srs/internal/api/middleware"
	"github.com/phrazzld/vocab-srs/internal/service/auth"
	"github.com/phrazzld/vocab-srs/internal/service/review"
)

// RouterDeps are the dependencies of NewRouter.
type RouterDeps struct {
	Reviews review.Service
	Tokens  auth.TokenValidator
	DB      Pinger
	Logger  *slog.Logger

	// RateLimitRPS and RateLimitBurst bound requests per user. A
	// non-positive RPS disables limiting.
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter builds the HTTP handler. Everything under /api requires a
// bearer token; /health does not.
func NewRouter(deps RouterDeps) http.Handler {
	reviewHandler := NewReviewHandler(deps.Reviews, deps.Logger)
	listHandler := NewListHandler(deps.Reviews, deps.Logger)
	healthHandler := NewHealthHandler(deps.DB, deps.Logger)
	authMiddleware := middleware.NewAuthMiddleware(deps.Tokens)
	limiter := middleware.NewRateLimiter(deps.RateLimitRPS, deps.RateLimitBurst)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.NewTraceMiddleware(deps.Logger))
	r.Use(chimw.Recoverer)

	r.Get("/health", healthHandler.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Use(limiter.Limit)

		r.Post("/sessions", reviewHandler.StartSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", reviewHandler.GetSession)
			r.Delete("/", reviewHandler.EndSession)
			r.Post("/judgments", reviewHandler.SubmitJudgment)
			r.Post("/advance", reviewHandler.Advance)
			r.Post("/reset", reviewHandler.ResetSession)
		})

		r.Get("/progress", reviewHandler.Overview)

		r.Get("/lists", listHandler.Lists)
		r.Post("/lists", listHandler.CreateList)
		r.Get("/lists/suggested", listHandler.SuggestedLists)
	})

	return r
}
