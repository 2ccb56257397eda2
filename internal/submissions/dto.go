package submissions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/borla2earn/backend/pkg/db/models"
	"github.com/borla2earn/backend/pkg/enums"
)

// SubmissionDTO is the transport shape for a waste submission.
type SubmissionDTO struct {
	ID         uuid.UUID              `json:"id"`
	UserID     uuid.UUID              `json:"user_id"`
	WasteKind  enums.WasteKind        `json:"waste_kind"`
	Quantity   decimal.Decimal        `json:"quantity"`
	Location   string                 `json:"location"`
	PhotoURL   *string                `json:"photo_url,omitempty"`
	Notes      *string                `json:"notes,omitempty"`
	Status     enums.SubmissionStatus `json:"status"`
	VerifiedBy *uuid.UUID             `json:"verified_by,omitempty"`
	VerifiedAt *time.Time             `json:"verified_at,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// CreateSubmissionRequest is the JSON body accepted by the intake endpoint.
type CreateSubmissionRequest struct {
	WasteKind enums.WasteKind `json:"waste_kind" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
	Location  string          `json:"location" validate:"required,max=255"`
	PhotoURL  *string         `json:"photo_url" validate:"omitempty,url"`
	Notes     *string         `json:"notes" validate:"omitempty,max=500"`
}

// CreateSubmissionDTO holds the data required to persist a new submission.
type CreateSubmissionDTO struct {
	UserID    uuid.UUID
	WasteKind enums.WasteKind
	Quantity  decimal.Decimal
	Location  string
	PhotoURL  *string
	Notes     *string
}

// SubmissionPageDTO is one cursor page of submissions.
type SubmissionPageDTO struct {
	Submissions []SubmissionDTO `json:"submissions"`
	NextCursor  string          `json:"next_cursor,omitempty"`
}

// DecisionDTO reports the outcome of an admin review. NewBalance is the
// owner's token balance after the credit and is only set on verification.
type DecisionDTO struct {
	Submission    SubmissionDTO    `json:"submission"`
	TokensAwarded *decimal.Decimal `json:"tokens_awarded,omitempty"`
	NewBalance    *decimal.Decimal `json:"new_balance,omitempty"`
}

func FromModel(s *models.Submission) *SubmissionDTO {
	if s == nil {
		return nil
	}

	return &SubmissionDTO{
		ID:         s.ID,
		UserID:     s.UserID,
		WasteKind:  s.WasteKind,
		Quantity:   s.Quantity,
		Location:   s.Location,
		PhotoURL:   s.PhotoURL,
		Notes:      s.Notes,
		Status:     s.Status,
		VerifiedBy: s.VerifiedBy,
		VerifiedAt: s.VerifiedAt,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

func fromModels(rows []models.Submission) []SubmissionDTO {
	out := make([]SubmissionDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func (c CreateSubmissionDTO) ToModel() *models.Submission {
	return &models.Submission{
		UserID:    c.UserID,
		WasteKind: c.WasteKind,
		Quantity:  c.Quantity,
		Location:  c.Location,
		PhotoURL:  c.PhotoURL,
		Notes:     c.Notes,
		Status:    enums.SubmissionStatusPending,
	}
}
