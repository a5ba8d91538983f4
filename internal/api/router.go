package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/mkravtsov/contentgen/internal/api/handlers"
	"github.com/mkravtsov/contentgen/internal/api/middleware"
	"github.com/mkravtsov/contentgen/internal/audit"
	"github.com/mkravtsov/contentgen/internal/auth"
	"github.com/mkravtsov/contentgen/internal/cache"
	"github.com/mkravtsov/contentgen/internal/config"
	"github.com/mkravtsov/contentgen/internal/generation"
	"github.com/mkravtsov/contentgen/internal/prompt"
	"github.com/mkravtsov/contentgen/internal/queue"
	"github.com/mkravtsov/contentgen/internal/subject"
)

type Router struct {
	mux   *chi.Mux
	db    *pgxpool.Pool
	redis *redis.Client
	cfg   *config.Config
	jwt   *auth.JWTMiddleware
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		db:    db,
		redis: rdb,
		cfg:   cfg,
		jwt:   auth.NewJWTMiddleware(cfg.Auth.JWTSecret),
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(rt.cfg.Server.AllowedOrigins))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Services
	promptRepo := prompt.NewPostgresRepository(rt.db)
	contentRepo := generation.NewPostgresRepository(rt.db)
	promptSvc := prompt.NewService(promptRepo, contentRepo)
	statsAgg := prompt.NewStatsAggregator(
		contentRepo,
		cache.NewCache(rt.redis),
		time.Duration(rt.cfg.Generation.StatsCacheTTLSeconds)*time.Second,
	)
	auditSvc := audit.NewService(rt.db)
	registry := subject.NewStoreRegistry(rt.db)
	queueClient := queue.NewClient(rt.cfg.Redis)
	genSvc := generation.NewService(promptSvc, registry, contentRepo, queueClient, statsAgg)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.jwt.Authenticate)
		r.Use(auth.RequireRole(auth.RoleEngineer))

		promptH := handlers.NewPromptHandler(promptSvc, auditSvc)
		r.Route("/prompts", func(r chi.Router) {
			r.Post("/", promptH.Create)
			r.Get("/", promptH.List)
			r.Get("/{id}", promptH.Get)
			r.Put("/{id}", promptH.Update)
			r.With(auth.RequireRole(auth.RoleAdmin)).Delete("/{id}", promptH.Delete)
		})

		versionH := handlers.NewVersionHandler(promptSvc, statsAgg, auditSvc)
		r.Route("/prompt-versions", func(r chi.Router) {
			r.Post("/", versionH.Create)
			r.Get("/", versionH.List)
			r.Get("/compare/{id1}/{id2}", versionH.Compare)
			r.Get("/{id}", versionH.Get)
			r.Put("/{id}", versionH.Edit)
			r.Post("/{id}/clone", versionH.Clone)
			r.With(auth.RequireRole(auth.RoleAdmin)).Delete("/{id}", versionH.Delete)
		})

		genH := handlers.NewGenerationHandler(genSvc, auditSvc)
		r.Post("/generate", genH.Submit)
		r.Route("/generated", func(r chi.Router) {
			r.Get("/", genH.List)
			r.Get("/{id}", genH.Get)
			r.Post("/{id}/review", genH.Review)
		})

		adminH := handlers.NewAdminHandler(auditSvc)
		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireRole(auth.RoleAdmin))
			r.Get("/audit", adminH.AuditLog)
		})
	})

	return r
}
