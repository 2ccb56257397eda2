package routes

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/borla2earn/backend/internal/auth"
	"github.com/borla2earn/backend/internal/dashboard"
	"github.com/borla2earn/backend/internal/ranking"
	"github.com/borla2earn/backend/internal/rewards"
	"github.com/borla2earn/backend/internal/submissions"
	"github.com/borla2earn/backend/internal/users"
	pkgauth "github.com/borla2earn/backend/pkg/auth"
	"github.com/borla2earn/backend/pkg/config"
	"github.com/borla2earn/backend/pkg/db/models"
	"github.com/borla2earn/backend/pkg/enums"
	"github.com/borla2earn/backend/pkg/logger"
	"github.com/borla2earn/backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubRateStore struct{}

func (stubRateStore) IncrWithTTL(context.Context, string, time.Duration) (int64, error) {
	return 1, nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(context.Context, string) (bool, error) { return true, nil }

type stubAuthService struct{}

func (stubAuthService) Login(context.Context, auth.LoginRequest) (*auth.TokenPairResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Refresh(context.Context, auth.RefreshRequest) (*auth.TokenPairResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Logout(context.Context, string) error { return nil }

type stubRegisterService struct{}

func (stubRegisterService) Register(context.Context, auth.RegisterRequest) (*users.UserDTO, error) {
	return &users.UserDTO{ID: uuid.New()}, nil
}

type stubUsersService struct{}

func (stubUsersService) Profile(context.Context, uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{ID: uuid.New()}, nil
}

func (stubUsersService) UpdateProfile(context.Context, uuid.UUID, users.UpdateProfileRequest) (*users.UserDTO, error) {
	return &users.UserDTO{ID: uuid.New()}, nil
}

type stubSubmissionService struct{}

func (stubSubmissionService) Create(context.Context, submissions.CreateSubmissionInput) (*submissions.SubmissionDTO, error) {
	return &submissions.SubmissionDTO{ID: uuid.New()}, nil
}

func (stubSubmissionService) GetForUser(context.Context, uuid.UUID, uuid.UUID) (*submissions.SubmissionDTO, error) {
	return &submissions.SubmissionDTO{ID: uuid.New()}, nil
}

func (stubSubmissionService) ListForUser(context.Context, uuid.UUID, pagination.Params) (submissions.SubmissionPageDTO, error) {
	return submissions.SubmissionPageDTO{}, nil
}

func (stubSubmissionService) ListPending(context.Context, pagination.Params) (submissions.SubmissionPageDTO, error) {
	return submissions.SubmissionPageDTO{}, nil
}

func (stubSubmissionService) Verify(context.Context, submissions.DecisionInput) (*submissions.DecisionDTO, error) {
	return &submissions.DecisionDTO{}, nil
}

func (stubSubmissionService) Reject(context.Context, submissions.DecisionInput) (*submissions.DecisionDTO, error) {
	return &submissions.DecisionDTO{}, nil
}

type stubDashboardService struct{}

func (stubDashboardService) Dashboard(context.Context, uuid.UUID) (*dashboard.DashboardDTO, error) {
	return &dashboard.DashboardDTO{MonthlyGoalKg: decimal.NewFromInt(100)}, nil
}

type stubRewardLedger struct{}

func (stubRewardLedger) WithTx(*gorm.DB) rewards.Repository { return stubRewardLedger{} }

func (stubRewardLedger) Create(context.Context, *models.RewardEvent) error { return nil }

func (stubRewardLedger) FindBySubmissionID(context.Context, uuid.UUID) (*models.RewardEvent, error) {
	return nil, gorm.ErrRecordNotFound
}

func (stubRewardLedger) ListByUserID(context.Context, uuid.UUID) ([]models.RewardEvent, error) {
	return []models.RewardEvent{}, nil
}

type stubRankingService struct{}

func (stubRankingService) Leaderboard(context.Context, int) ([]ranking.Entry, error) {
	return []ranking.Entry{}, nil
}

func (stubRankingService) RankOf(context.Context, uuid.UUID) (int, bool, error) {
	return 0, false, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev", Port: "8080"},
		JWT: config.JWTConfig{
			Secret:            "test-secret",
			Issuer:            "borla2earn",
			ExpirationMinutes: 30,
		},
		AuthRateLimit: config.AuthRateLimitConfig{
			LoginWindow:        time.Minute,
			LoginEmailLimit:    5,
			LoginIPLimit:       20,
			RegisterWindow:     5 * time.Minute,
			RegisterEmailLimit: 3,
			RegisterIPLimit:    20,
		},
	}
}

func buildRouter(t *testing.T) (http.Handler, *config.Config) {
	t.Helper()

	cfg := testConfig()
	router := NewRouter(Deps{
		Config:            cfg,
		Logger:            logger.New(logger.Options{ServiceName: "router-test", Level: zerolog.ErrorLevel}),
		Registry:          prometheus.NewRegistry(),
		DBPinger:          stubPinger{},
		RedisPinger:       stubPinger{},
		RateLimitStore:    stubRateStore{},
		SessionChecker:    stubSessionChecker{},
		AuthService:       stubAuthService{},
		RegisterService:   stubRegisterService{},
		UsersService:      stubUsersService{},
		SubmissionService: stubSubmissionService{},
		DashboardService:  stubDashboardService{},
		RankingService:    stubRankingService{},
		RewardLedger:      stubRewardLedger{},
	})
	return router, cfg
}

func mintToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()

	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestRouterHealthEndpoints(t *testing.T) {
	router, _ := buildRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: got status %d", path, rec.Code)
		}
		if env := rec.Header().Get("X-Borla-Env"); env != "dev" {
			t.Fatalf("GET %s: env header %q", path, env)
		}
	}
}

func TestRouterMetricsExposed(t *testing.T) {
	router, _ := buildRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics: got status %d", rec.Code)
	}
}

func TestRouterProtectedRoutesRequireAuth(t *testing.T) {
	router, _ := buildRouter(t)

	paths := []string{
		"/api/v1/profile",
		"/api/v1/submissions",
		"/api/v1/dashboard",
		"/api/v1/leaderboard",
		"/api/v1/rewards/rates",
		"/api/v1/rewards/history",
		"/api/admin/v1/submissions",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("GET %s without token: got status %d", path, rec.Code)
		}
	}
}

func TestRouterUserTokenReachesUserRoutes(t *testing.T) {
	router, cfg := buildRouter(t)
	token := mintToken(t, cfg, enums.UserRoleUser)

	paths := []string{
		"/api/v1/profile",
		"/api/v1/dashboard",
		"/api/v1/leaderboard",
		"/api/v1/rewards/rates",
		"/api/v1/rewards/history",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: got status %d body %s", path, rec.Code, rec.Body.String())
		}
	}
}

func TestRouterAdminRoutesRejectUserRole(t *testing.T) {
	router, cfg := buildRouter(t)
	token := mintToken(t, cfg, enums.UserRoleUser)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/submissions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("admin route with user token: got status %d", rec.Code)
	}
}

func TestRouterAdminDecisionRoutes(t *testing.T) {
	router, cfg := buildRouter(t)
	token := mintToken(t, cfg, enums.UserRoleAdmin)

	for _, action := range []string{"verify", "reject"} {
		path := fmt.Sprintf("/api/admin/v1/submissions/%s/%s", uuid.NewString(), action)
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("POST %s: got status %d body %s", path, rec.Code, rec.Body.String())
		}
	}
}

func TestRouterRegisterValidatesBody(t *testing.T) {
	router, _ := buildRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(`{"email":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("register with invalid body: got status %d body %s", rec.Code, rec.Body.String())
	}
}
