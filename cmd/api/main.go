package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"

	"github.com/borla2earn/backend/api/routes"
	"github.com/borla2earn/backend/internal/auth"
	"github.com/borla2earn/backend/internal/dashboard"
	"github.com/borla2earn/backend/internal/ranking"
	"github.com/borla2earn/backend/internal/rewards"
	"github.com/borla2earn/backend/internal/submissions"
	"github.com/borla2earn/backend/internal/users"
	"github.com/borla2earn/backend/pkg/auth/session"
	"github.com/borla2earn/backend/pkg/config"
	"github.com/borla2earn/backend/pkg/db"
	"github.com/borla2earn/backend/pkg/logger"
	"github.com/borla2earn/backend/pkg/metrics"
	"github.com/borla2earn/backend/pkg/migrate"
	"github.com/borla2earn/backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	verificationMetrics := metrics.NewVerificationMetrics(registry)

	usersRepo := users.NewRepository(dbClient.DB())
	submissionsRepo := submissions.NewRepository(dbClient.DB())
	rewardsRepo := rewards.NewRepository(dbClient.DB())
	rankingRepo := ranking.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(usersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	submissionService, err := submissions.NewService(submissionsRepo, usersRepo, rewardsRepo, dbClient, verificationMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create submissions service", err)
		os.Exit(1)
	}

	rankingService, err := ranking.NewService(rankingRepo, cfg.Rewards.LeaderboardLimit)
	if err != nil {
		logg.Error(context.Background(), "failed to create ranking service", err)
		os.Exit(1)
	}

	dashboardService, err := dashboard.NewService(
		usersRepo,
		submissionsRepo,
		rankingService,
		decimal.NewFromInt(int64(cfg.Rewards.MonthlyGoalKg)),
		cfg.Rewards.RecentSubmissionCount,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboard service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:            cfg,
			Logger:            logg,
			Registry:          registry,
			DBPinger:          dbClient,
			RedisPinger:       redisClient,
			RateLimitStore:    redisClient,
			SessionChecker:    sessionManager,
			AuthService:       authService,
			RegisterService:   registerService,
			UsersService:      usersService,
			SubmissionService: submissionService,
			DashboardService:  dashboardService,
			RankingService:    rankingService,
			RewardLedger:      rewardsRepo,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
