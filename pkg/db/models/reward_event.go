package models

import (
	"time"

	"github.com/borla2earn/backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RewardEvent is the immutable record of a token credit applied when a
// submission was verified. The unique submission index guarantees at most one
// credit per submission.
type RewardEvent struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SubmissionID uuid.UUID       `gorm:"column:submission_id;type:uuid;not null;uniqueIndex"`
	UserID       uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	AdminID      uuid.UUID       `gorm:"column:admin_id;type:uuid;not null"`
	WasteKind    enums.WasteKind `gorm:"column:waste_kind;type:text;not null"`
	Quantity     decimal.Decimal `gorm:"column:quantity;type:numeric(12,3);not null"`
	Tokens       decimal.Decimal `gorm:"column:tokens;type:numeric(14,3);not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (r *RewardEvent) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
