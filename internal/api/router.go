package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/abdouthematrix/westcairostars/internal/api/handler"
	"github.com/abdouthematrix/westcairostars/internal/api/middleware"
	"github.com/abdouthematrix/westcairostars/internal/period"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	DBPinger    handler.DBPinger
	Version     string
	OpenAPISpec []byte
	Metrics     http.Handler

	Leaderboards handler.LeaderboardBuilder
	Periods      *period.Resolver

	Scores         handler.ScoreReader
	Writer         handler.ScoreWriter
	Directory      handler.DirectorySource
	ScoreCache     handler.ScoreInvalidator
	DirectoryCache handler.DirectoryInvalidator

	Auth middleware.Authenticator
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	if len(deps.OpenAPISpec) > 0 {
		openapiHandler := handler.NewOpenAPIHandler(deps.OpenAPISpec)
		r.Get("/openapi.json", openapiHandler.ServeHTTP)
	}

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	if deps.Leaderboards != nil && deps.Periods != nil {
		lbHandler := handler.NewLeaderboardHandler(deps.Leaderboards, deps.Periods)
		r.Route("/leaderboards", func(r chi.Router) {
			r.Get("/", lbHandler.List)
			r.Get("/{board}", lbHandler.Get)
		})
	}

	if deps.Auth == nil {
		return r
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(deps.Auth))

		if deps.Scores != nil && deps.Writer != nil && deps.Directory != nil {
			scoreHandler := handler.NewScoreHandler(deps.Scores, deps.Writer, deps.Directory)
			r.Route("/scores/{day}", func(r chi.Router) {
				r.With(middleware.RequireAdmin()).Post("/batch", scoreHandler.SaveBatch)
				r.With(middleware.RequireAdmin()).Post("/reset", scoreHandler.ResetAll)

				r.Route("/{team}", func(r chi.Router) {
					r.Use(middleware.RequireTeamAccess("team"))
					r.Get("/", scoreHandler.GetPartition)
					r.With(middleware.RequireAdmin()).Post("/reset", scoreHandler.ResetTeam)
					r.Get("/{member}", scoreHandler.GetRecord)
					r.Put("/{member}", scoreHandler.SaveScore)
					r.With(middleware.RequireAdmin()).Put("/{member}/review", scoreHandler.SaveReview)
					r.With(middleware.RequireAdmin()).Put("/{member}/availability", scoreHandler.SetAvailability)
				})
			})
		}

		if deps.ScoreCache != nil && deps.DirectoryCache != nil {
			cacheHandler := handler.NewCacheHandler(deps.ScoreCache, deps.DirectoryCache)
			r.With(middleware.RequireAdmin()).Post("/cache/invalidate", cacheHandler.Invalidate)
		}
	})

	return r
}
