package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/borla2earn/backend/internal/ranking"
	"github.com/borla2earn/backend/internal/rewards"
	"github.com/borla2earn/backend/internal/submissions"
	"github.com/borla2earn/backend/internal/users"
	"github.com/borla2earn/backend/pkg/enums"
	pkgerrors "github.com/borla2earn/backend/pkg/errors"
)

// DashboardDTO aggregates everything the home screen shows for one user.
type DashboardDTO struct {
	TotalTokens       decimal.Decimal       `json:"total_tokens"`
	TotalWasteKg      decimal.Decimal       `json:"total_waste_kg"`
	MonthlyWasteKg    decimal.Decimal       `json:"monthly_waste_kg"`
	MonthlyGoalKg     decimal.Decimal       `json:"monthly_goal_kg"`
	CurrentRank       *int                  `json:"current_rank,omitempty"`
	RecentSubmissions []RecentSubmissionDTO `json:"recent_submissions"`
}

// RecentSubmissionDTO decorates a submission with its reward amount. Pending
// entries carry the estimate the user would earn on approval; rejected
// entries carry no amount.
type RecentSubmissionDTO struct {
	submissions.SubmissionDTO
	Tokens *decimal.Decimal `json:"tokens,omitempty"`
}

// Service builds the per-user dashboard projection.
type Service interface {
	Dashboard(ctx context.Context, userID uuid.UUID) (*DashboardDTO, error)
}

type service struct {
	users       *users.Repository
	submissions *submissions.Repository
	ranking     ranking.Service
	goalKg      decimal.Decimal
	recentCount int
}

// NewService wires the dashboard projection. goalKg is the monthly recycling
// target shown to every user; recentCount caps the activity feed.
func NewService(usersRepo *users.Repository, submissionsRepo *submissions.Repository, rankingSvc ranking.Service, goalKg decimal.Decimal, recentCount int) (Service, error) {
	if usersRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "users repository required")
	}
	if submissionsRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "submissions repository required")
	}
	if rankingSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "ranking service required")
	}
	if goalKg.LessThanOrEqual(decimal.Zero) {
		goalKg = decimal.NewFromInt(100)
	}
	if recentCount <= 0 {
		recentCount = 5
	}
	return &service{
		users:       usersRepo,
		submissions: submissionsRepo,
		ranking:     rankingSvc,
		goalKg:      goalKg,
		recentCount: recentCount,
	}, nil
}

func (s *service) Dashboard(ctx context.Context, userID uuid.UUID) (*DashboardDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	total, err := s.submissions.VerifiedTotal(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum verified weight")
	}

	monthStart := startOfMonth(time.Now().UTC())
	monthly, err := s.submissions.VerifiedTotalSince(ctx, userID, monthStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum monthly weight")
	}

	recent, err := s.submissions.ListRecentByUser(ctx, userID, s.recentCount)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recent submissions")
	}
	recentDTOs := make([]RecentSubmissionDTO, 0, len(recent))
	for i := range recent {
		entry := RecentSubmissionDTO{SubmissionDTO: *submissions.FromModel(&recent[i])}
		if entry.Status != enums.SubmissionStatusRejected {
			if amount, calcErr := rewards.Calculate(entry.WasteKind, entry.Quantity); calcErr == nil {
				entry.Tokens = &amount
			}
		}
		recentDTOs = append(recentDTOs, entry)
	}

	dto := &DashboardDTO{
		TotalTokens:       user.Tokens,
		TotalWasteKg:      total,
		MonthlyWasteKg:    monthly,
		MonthlyGoalKg:     s.goalKg,
		RecentSubmissions: recentDTOs,
	}

	rank, ranked, err := s.ranking.RankOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ranked {
		dto.CurrentRank = &rank
	}
	return dto, nil
}

func startOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}
