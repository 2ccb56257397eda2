package models

import (
	"time"

	"github.com/borla2earn/backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Submission is a user-reported waste collection awaiting or having received
// admin review. Quantity is always kilograms. VerifiedBy and VerifiedAt are
// both null while the submission is pending and both set once it is resolved.
type Submission struct {
	ID         uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index"`
	WasteKind  enums.WasteKind        `gorm:"column:waste_kind;type:text;not null"`
	Quantity   decimal.Decimal        `gorm:"column:quantity;type:numeric(12,3);not null"`
	Location   string                 `gorm:"column:location;type:text;not null"`
	PhotoURL   *string                `gorm:"column:photo_url"`
	Notes      *string                `gorm:"column:notes"`
	Status     enums.SubmissionStatus `gorm:"column:status;type:text;not null;default:'pending';index"`
	VerifiedBy *uuid.UUID             `gorm:"column:verified_by;type:uuid"`
	VerifiedAt *time.Time             `gorm:"column:verified_at"`
	CreatedAt  time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *Submission) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
