package ranking

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/borla2earn/backend/pkg/enums"
)

// Entry is one leaderboard row derived from verified submissions.
type Entry struct {
	Rank    int             `json:"rank"`
	UserID  uuid.UUID       `json:"user_id"`
	Name    string          `json:"name"`
	TotalKg decimal.Decimal `json:"total_kg"`
	Tokens  decimal.Decimal `json:"tokens"`
}

// Repository derives rankings from verified submission weight. Users with no
// verified weight never appear: they are unranked, not rank zero.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a ranking repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

const totalsCTE = `
SELECT s.user_id AS user_id, u.name AS name, u.tokens AS tokens,
       u.created_at AS joined_at, SUM(s.quantity) AS total_kg
FROM submissions s
JOIN users u ON u.id = s.user_id
WHERE s.status = ?
GROUP BY s.user_id, u.name, u.tokens, u.created_at`

// Top returns the highest-ranked entries in order. Ties on weight go to the
// account created first, then the smaller user id.
func (r *Repository) Top(ctx context.Context, limit int) ([]Entry, error) {
	type row struct {
		UserID  uuid.UUID
		Name    string
		Tokens  decimal.Decimal
		TotalKg decimal.Decimal
	}

	var rows []row
	query := `WITH totals AS (` + totalsCTE + `)
SELECT user_id, name, tokens, total_kg
FROM totals
ORDER BY total_kg DESC, joined_at ASC, user_id ASC
LIMIT ?`
	if err := r.db.WithContext(ctx).
		Raw(query, enums.SubmissionStatusVerified, limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(rows))
	for i, record := range rows {
		entries = append(entries, Entry{
			Rank:    i + 1,
			UserID:  record.UserID,
			Name:    record.Name,
			TotalKg: record.TotalKg,
			Tokens:  record.Tokens,
		})
	}
	return entries, nil
}

// RankOf computes one user's position. The second return is false when the
// user has no verified weight and therefore no rank.
func (r *Repository) RankOf(ctx context.Context, userID uuid.UUID) (int, bool, error) {
	query := `WITH totals AS (` + totalsCTE + `)
SELECT COUNT(*) + 1 AS rank
FROM totals t
JOIN totals me ON me.user_id = ?
WHERE t.total_kg > me.total_kg
   OR (t.total_kg = me.total_kg AND t.joined_at < me.joined_at)
   OR (t.total_kg = me.total_kg AND t.joined_at = me.joined_at AND t.user_id < me.user_id)`

	var exists int64
	existsQuery := `WITH totals AS (` + totalsCTE + `)
SELECT COUNT(*) FROM totals WHERE user_id = ?`
	if err := r.db.WithContext(ctx).
		Raw(existsQuery, enums.SubmissionStatusVerified, userID).
		Scan(&exists).Error; err != nil {
		return 0, false, err
	}
	if exists == 0 {
		return 0, false, nil
	}

	var rank int
	if err := r.db.WithContext(ctx).
		Raw(query, enums.SubmissionStatusVerified, userID).
		Scan(&rank).Error; err != nil {
		return 0, false, err
	}
	return rank, true, nil
}
