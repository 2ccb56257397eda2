package models

import (
	"time"

	"github.com/borla2earn/backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// User represents the canonical identity entity. Tokens is the running BORLA
// balance; it is only ever increased by the verification workflow.
type User struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email         string          `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash  string          `gorm:"column:password_hash;not null"`
	Name          string          `gorm:"column:name;not null"`
	Role          enums.UserRole  `gorm:"column:role;type:text;not null;default:'user'"`
	WalletAddress *string         `gorm:"column:wallet_address;uniqueIndex"`
	Tokens        decimal.Decimal `gorm:"column:tokens;type:numeric(14,3);not null;default:0"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
