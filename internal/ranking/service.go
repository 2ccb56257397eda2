package ranking

import (
	"context"

	"github.com/google/uuid"

	pkgerrors "github.com/borla2earn/backend/pkg/errors"
)

// Service exposes leaderboard reads.
type Service interface {
	Leaderboard(ctx context.Context, limit int) ([]Entry, error)
	RankOf(ctx context.Context, userID uuid.UUID) (int, bool, error)
}

type service struct {
	repo         *Repository
	defaultLimit int
}

// NewService wires a ranking service. defaultLimit caps leaderboard reads when
// the caller does not supply a limit.
func NewService(repo *Repository, defaultLimit int) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "ranking repository required")
	}
	if defaultLimit <= 0 {
		defaultLimit = 50
	}
	return &service{repo: repo, defaultLimit: defaultLimit}, nil
}

func (s *service) Leaderboard(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > s.defaultLimit {
		limit = s.defaultLimit
	}
	entries, err := s.repo.Top(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load leaderboard")
	}
	return entries, nil
}

func (s *service) RankOf(ctx context.Context, userID uuid.UUID) (int, bool, error) {
	if userID == uuid.Nil {
		return 0, false, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rank, ranked, err := s.repo.RankOf(ctx, userID)
	if err != nil {
		return 0, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compute rank")
	}
	return rank, ranked, nil
}
