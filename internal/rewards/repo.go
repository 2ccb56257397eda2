package rewards

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/borla2earn/backend/pkg/db/models"
	"github.com/borla2earn/backend/pkg/enums"
)

// EventDTO is the transport shape for one ledger entry.
type EventDTO struct {
	ID           uuid.UUID       `json:"id"`
	SubmissionID uuid.UUID       `json:"submission_id"`
	WasteKind    enums.WasteKind `json:"waste_kind"`
	Quantity     decimal.Decimal `json:"quantity"`
	Tokens       decimal.Decimal `json:"tokens"`
	CreatedAt    time.Time       `json:"created_at"`
}

// EventFromModel converts a ledger row for transport, omitting reviewer identity.
func EventFromModel(e *models.RewardEvent) EventDTO {
	return EventDTO{
		ID:           e.ID,
		SubmissionID: e.SubmissionID,
		WasteKind:    e.WasteKind,
		Quantity:     e.Quantity,
		Tokens:       e.Tokens,
		CreatedAt:    e.CreatedAt,
	}
}

// Repository manages persistence for the reward event ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, event *models.RewardEvent) error
	FindBySubmissionID(ctx context.Context, submissionID uuid.UUID) (*models.RewardEvent, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]models.RewardEvent, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a reward ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, event *models.RewardEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) FindBySubmissionID(ctx context.Context, submissionID uuid.UUID) (*models.RewardEvent, error) {
	var event models.RewardEvent
	if err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *repository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]models.RewardEvent, error) {
	var events []models.RewardEvent
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
