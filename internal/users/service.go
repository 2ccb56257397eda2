package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/borla2earn/backend/pkg/db"
	pkgerrors "github.com/borla2earn/backend/pkg/errors"
)

// UpdateProfileRequest carries the patchable profile fields. Absent fields
// leave the stored value untouched; an empty wallet address clears it.
type UpdateProfileRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1,max=120"`
	WalletAddress *string `json:"wallet_address" validate:"omitempty,max=128"`
}

// Service exposes profile reads and updates over the repository.
type Service interface {
	Profile(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserDTO, error)
}

type service struct {
	repo *Repository
}

// NewService builds the profile service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "users repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if req.Name == nil && req.WalletAddress == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no profile fields to update")
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be blank")
	}

	user, err := s.repo.UpdateProfile(ctx, userID, UpdateProfileDTO{
		Name:          req.Name,
		WalletAddress: req.WalletAddress,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		if db.IsUniqueViolation(err, "wallet_address") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "wallet address already linked to another account")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}
	return FromModel(user), nil
}
