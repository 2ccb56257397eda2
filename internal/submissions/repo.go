package submissions

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/borla2earn/backend/pkg/db/models"
	"github.com/borla2earn/backend/pkg/enums"
	"github.com/borla2earn/backend/pkg/pagination"
)

// Repository exposes submission persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a submissions repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new pending submission and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateSubmissionDTO) (*models.Submission, error) {
	submission := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(submission).Error; err != nil {
		return nil, err
	}
	return submission, nil
}

// FindByID loads a submission by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).First(&submission, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// ListByUser returns the user's submissions newest first, cursor paginated.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (SubmissionPageDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(params.Cursor))
	if err != nil {
		return SubmissionPageDTO{}, err
	}

	query := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("user_id = ?", userID)

	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var rows []models.Submission
	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limitWithBuffer).
		Find(&rows).Error; err != nil {
		return SubmissionPageDTO{}, err
	}

	nextCursor := ""
	if len(rows) > normalizedLimit {
		rows = rows[:normalizedLimit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	return SubmissionPageDTO{
		Submissions: fromModels(rows),
		NextCursor:  nextCursor,
	}, nil
}

// ListRecentByUser returns the user's latest submissions capped at count.
func (r *Repository) ListRecentByUser(ctx context.Context, userID uuid.UUID, count int) ([]models.Submission, error) {
	if count <= 0 {
		return []models.Submission{}, nil
	}

	var rows []models.Submission
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(count).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListPending returns pending submissions oldest first so the review queue is
// worked in arrival order.
func (r *Repository) ListPending(ctx context.Context, params pagination.Params) (SubmissionPageDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(params.Cursor))
	if err != nil {
		return SubmissionPageDTO{}, err
	}

	query := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("status = ?", enums.SubmissionStatusPending)

	if decodedCursor != nil {
		query = query.Where("(created_at > ?) OR (created_at = ? AND id > ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var rows []models.Submission
	if err := query.
		Order("created_at ASC").
		Order("id ASC").
		Limit(limitWithBuffer).
		Find(&rows).Error; err != nil {
		return SubmissionPageDTO{}, err
	}

	nextCursor := ""
	if len(rows) > normalizedLimit {
		rows = rows[:normalizedLimit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	return SubmissionPageDTO{
		Submissions: fromModels(rows),
		NextCursor:  nextCursor,
	}, nil
}

// TransitionFromPending moves a submission out of pending with a guarded
// conditional update. It returns false when another reviewer already resolved
// the submission, which is how concurrent decisions lose the race.
func (r *Repository) TransitionFromPending(ctx context.Context, id uuid.UUID, next enums.SubmissionStatus, adminID uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ? AND status = ?", id, enums.SubmissionStatusPending).
		Updates(map[string]any{
			"status":      next,
			"verified_by": adminID,
			"verified_at": at,
			"updated_at":  at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// VerifiedTotal sums verified kilograms for one user.
func (r *Repository) VerifiedTotal(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Select("COALESCE(SUM(quantity), 0) AS total").
		Where("user_id = ? AND status = ?", userID, enums.SubmissionStatusVerified).
		Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

// VerifiedTotalSince sums verified kilograms for one user from the cutoff on,
// bucketed by submission time.
func (r *Repository) VerifiedTotalSince(ctx context.Context, userID uuid.UUID, cutoff time.Time) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Select("COALESCE(SUM(quantity), 0) AS total").
		Where("user_id = ? AND status = ? AND created_at >= ?", userID, enums.SubmissionStatusVerified, cutoff).
		Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}
