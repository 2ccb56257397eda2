package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/borla2earn/backend/api/controllers"
	"github.com/borla2earn/backend/api/middleware"
	"github.com/borla2earn/backend/internal/auth"
	"github.com/borla2earn/backend/internal/dashboard"
	"github.com/borla2earn/backend/internal/ranking"
	"github.com/borla2earn/backend/internal/rewards"
	"github.com/borla2earn/backend/internal/submissions"
	"github.com/borla2earn/backend/internal/users"
	"github.com/borla2earn/backend/pkg/auth/session"
	"github.com/borla2earn/backend/pkg/config"
	"github.com/borla2earn/backend/pkg/logger"
)

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	Registry       *prometheus.Registry
	DBPinger       controllers.Pinger
	RedisPinger    controllers.Pinger
	RateLimitStore rateLimiterStore
	SessionChecker session.AccessSessionChecker

	AuthService       auth.Service
	RegisterService   auth.RegisterService
	UsersService      users.Service
	SubmissionService submissions.Service
	DashboardService  dashboard.Service
	RankingService    ranking.Service
	RewardLedger      rewards.Repository
}

// NewRouter assembles the full HTTP surface.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"postgres": d.DBPinger,
			"redis":    d.RedisPinger,
		}))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, d.RateLimitStore, logg)).Post("/register", controllers.AuthRegister(d.RegisterService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, d.RateLimitStore, logg)).Post("/login", controllers.AuthLogin(d.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(d.AuthService, logg))
		r.With(middleware.Auth(cfg.JWT, d.SessionChecker, logg)).Post("/logout", controllers.AuthLogout(d.AuthService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.SessionChecker, logg))

		r.Get("/profile", controllers.ProfileGet(d.UsersService, logg))
		r.Patch("/profile", controllers.ProfileUpdate(d.UsersService, logg))

		r.Route("/submissions", func(r chi.Router) {
			r.Post("/", controllers.SubmissionCreate(d.SubmissionService, logg))
			r.Get("/", controllers.SubmissionList(d.SubmissionService, logg))
			r.Get("/{submissionId}", controllers.SubmissionGet(d.SubmissionService, logg))
		})

		r.Get("/dashboard", controllers.Dashboard(d.DashboardService, logg))
		r.Get("/leaderboard", controllers.Leaderboard(d.RankingService, logg))
		r.Get("/rewards/rates", controllers.RewardRates())
		r.Get("/rewards/history", controllers.RewardHistory(d.RewardLedger, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.SessionChecker, logg))
		r.Use(middleware.RequireRole("admin", logg))

		r.Route("/submissions", func(r chi.Router) {
			r.Get("/", controllers.AdminSubmissionQueue(d.SubmissionService, logg))
			r.Post("/{submissionId}/verify", controllers.AdminSubmissionVerify(d.SubmissionService, logg))
			r.Post("/{submissionId}/reject", controllers.AdminSubmissionReject(d.SubmissionService, logg))
		})
	})

	return r
}
