package submissions

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/borla2earn/backend/internal/rewards"
	"github.com/borla2earn/backend/internal/users"
	"github.com/borla2earn/backend/pkg/db"
	"github.com/borla2earn/backend/pkg/db/models"
	"github.com/borla2earn/backend/pkg/enums"
	pkgerrors "github.com/borla2earn/backend/pkg/errors"
	"github.com/borla2earn/backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// DecisionRecorder observes resolved reviews for monitoring.
type DecisionRecorder interface {
	IncDecision(outcome string)
	AddTokensIssued(amount float64)
}

// Service coordinates submission intake and the admin review workflow.
type Service interface {
	Create(ctx context.Context, input CreateSubmissionInput) (*SubmissionDTO, error)
	GetForUser(ctx context.Context, userID, submissionID uuid.UUID) (*SubmissionDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (SubmissionPageDTO, error)
	ListPending(ctx context.Context, params pagination.Params) (SubmissionPageDTO, error)
	Verify(ctx context.Context, input DecisionInput) (*DecisionDTO, error)
	Reject(ctx context.Context, input DecisionInput) (*DecisionDTO, error)
}

type service struct {
	repo    *Repository
	users   *users.Repository
	ledger  rewards.Repository
	tx      txRunner
	metrics DecisionRecorder
}

// CreateSubmissionInput captures a user's waste report before validation.
type CreateSubmissionInput struct {
	UserID    uuid.UUID
	WasteKind enums.WasteKind
	Quantity  decimal.Decimal
	Location  string
	PhotoURL  *string
	Notes     *string
}

// DecisionInput identifies the submission under review and the acting admin.
type DecisionInput struct {
	SubmissionID uuid.UUID
	AdminID      uuid.UUID
}

// NewService wires a submissions service with its collaborators.
func NewService(repo *Repository, users *users.Repository, ledger rewards.Repository, tx txRunner, metrics DecisionRecorder) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "submissions repository required")
	}
	if users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "users repository required")
	}
	if ledger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "reward ledger required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &service{
		repo:    repo,
		users:   users,
		ledger:  ledger,
		tx:      tx,
		metrics: metrics,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateSubmissionInput) (*SubmissionDTO, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.WasteKind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown waste kind")
	}
	if input.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
	}
	location := strings.TrimSpace(input.Location)
	if location == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location is required")
	}

	submission, err := s.repo.Create(ctx, CreateSubmissionDTO{
		UserID:    input.UserID,
		WasteKind: input.WasteKind,
		Quantity:  input.Quantity,
		Location:  location,
		PhotoURL:  input.PhotoURL,
		Notes:     input.Notes,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create submission")
	}
	return FromModel(submission), nil
}

func (s *service) GetForUser(ctx context.Context, userID, submissionID uuid.UUID) (*SubmissionDTO, error) {
	submission, err := s.repo.FindByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "submission not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load submission")
	}
	if submission.UserID != userID {
		// hide other users' submissions entirely
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "submission not found")
	}
	return FromModel(submission), nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (SubmissionPageDTO, error) {
	if userID == uuid.Nil {
		return SubmissionPageDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	page, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return SubmissionPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list submissions")
	}
	return page, nil
}

func (s *service) ListPending(ctx context.Context, params pagination.Params) (SubmissionPageDTO, error) {
	page, err := s.repo.ListPending(ctx, params)
	if err != nil {
		return SubmissionPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending submissions")
	}
	return page, nil
}

// Verify resolves a pending submission in the user's favor: the status flips
// to verified and the token credit, balance increment, and ledger insert all
// commit in the same transaction as the status change.
func (s *service) Verify(ctx context.Context, input DecisionInput) (*DecisionDTO, error) {
	var result *DecisionDTO

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		now := time.Now().UTC()

		submission, err := s.claimPending(ctx, repo, input, enums.SubmissionStatusVerified, now)
		if err != nil {
			return err
		}

		tokens, err := rewards.Calculate(submission.WasteKind, submission.Quantity)
		if err != nil {
			return err
		}

		if err := s.users.WithTx(tx).IncrementTokens(ctx, submission.UserID, tokens); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit tokens")
		}

		event := &models.RewardEvent{
			SubmissionID: submission.ID,
			UserID:       submission.UserID,
			AdminID:      input.AdminID,
			WasteKind:    submission.WasteKind,
			Quantity:     submission.Quantity,
			Tokens:       tokens,
			CreatedAt:    now,
		}
		if err := s.ledger.WithTx(tx).Create(ctx, event); err != nil {
			if db.IsUniqueViolation(err, "idx_reward_events_submission") {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "submission already credited")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record reward event")
		}

		owner, err := s.users.WithTx(tx).FindByID(ctx, submission.UserID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load credited balance")
		}

		submission.Status = enums.SubmissionStatusVerified
		submission.VerifiedBy = &input.AdminID
		submission.VerifiedAt = &now
		result = &DecisionDTO{
			Submission:    *FromModel(submission),
			TokensAwarded: &tokens,
			NewBalance:    &owner.Tokens,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncDecision(string(enums.SubmissionStatusVerified))
		tokensAwarded, _ := result.TokensAwarded.Float64()
		s.metrics.AddTokensIssued(tokensAwarded)
	}
	return result, nil
}

// Reject resolves a pending submission without any credit. Rejection is
// terminal: the submission never becomes eligible for tokens afterwards.
func (s *service) Reject(ctx context.Context, input DecisionInput) (*DecisionDTO, error) {
	var result *DecisionDTO

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		now := time.Now().UTC()

		submission, err := s.claimPending(ctx, repo, input, enums.SubmissionStatusRejected, now)
		if err != nil {
			return err
		}

		submission.Status = enums.SubmissionStatusRejected
		submission.VerifiedBy = &input.AdminID
		submission.VerifiedAt = &now
		result = &DecisionDTO{Submission: *FromModel(submission)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncDecision(string(enums.SubmissionStatusRejected))
	}
	return result, nil
}

// claimPending loads the submission and flips it out of pending with a guarded
// update. When two admins race, exactly one update matches the pending row and
// the loser surfaces a state conflict.
func (s *service) claimPending(ctx context.Context, repo *Repository, input DecisionInput, next enums.SubmissionStatus, at time.Time) (*models.Submission, error) {
	if input.SubmissionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "submission id required")
	}
	if input.AdminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}

	submission, err := repo.FindByID(ctx, input.SubmissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "submission not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load submission")
	}
	if submission.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "submission already resolved")
	}

	claimed, err := repo.TransitionFromPending(ctx, submission.ID, next, input.AdminID, at)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update submission status")
	}
	if !claimed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "submission already resolved")
	}
	return submission, nil
}
