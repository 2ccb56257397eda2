package submissions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/borla2earn/backend/internal/rewards"
	"github.com/borla2earn/backend/internal/users"
	"github.com/borla2earn/backend/pkg/db/models"
	"github.com/borla2earn/backend/pkg/enums"
	pkgerrors "github.com/borla2earn/backend/pkg/errors"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (g gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(fn)
}

type recorderFake struct {
	decisions map[string]int
	tokens    float64
}

func newRecorderFake() *recorderFake {
	return &recorderFake{decisions: map[string]int{}}
}

func (r *recorderFake) IncDecision(outcome string) { r.decisions[outcome]++ }
func (r *recorderFake) AddTokensIssued(amount float64) {
	r.tokens += amount
}

func setupService(t *testing.T) (Service, *gorm.DB, *recorderFake) {
	t.Helper()

	db := setupTestDB(t)
	recorder := newRecorderFake()
	svc, err := NewService(
		NewRepository(db),
		users.NewRepository(db),
		rewards.NewRepository(db),
		gormTxRunner{db: db},
		recorder,
	)
	require.NoError(t, err)
	return svc, db, recorder
}

func TestServiceCreateValidatesInput(t *testing.T) {
	svc, db, _ := setupService(t)
	user := newUser(t, db, "validate@borla.africa", time.Now().UTC())

	cases := []struct {
		name  string
		input CreateSubmissionInput
	}{
		{"unknown kind", CreateSubmissionInput{UserID: user.ID, WasteKind: "rubber", Quantity: decimal.NewFromInt(1), Location: "Osu"}},
		{"zero quantity", CreateSubmissionInput{UserID: user.ID, WasteKind: enums.WasteKindPlastic, Quantity: decimal.Zero, Location: "Osu"}},
		{"negative quantity", CreateSubmissionInput{UserID: user.ID, WasteKind: enums.WasteKindPlastic, Quantity: decimal.NewFromInt(-2), Location: "Osu"}},
		{"blank location", CreateSubmissionInput{UserID: user.ID, WasteKind: enums.WasteKindPlastic, Quantity: decimal.NewFromInt(1), Location: "   "}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.input)
			require.Error(t, err)
			appErr := pkgerrors.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
		})
	}
}

func TestServiceCreateStartsPending(t *testing.T) {
	svc, db, _ := setupService(t)
	user := newUser(t, db, "pending@borla.africa", time.Now().UTC())

	dto, err := svc.Create(context.Background(), CreateSubmissionInput{
		UserID:    user.ID,
		WasteKind: enums.WasteKindElectronics,
		Quantity:  decimal.RequireFromString("0.8"),
		Location:  "Kumasi",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.SubmissionStatusPending, dto.Status)

	// no credit happens at intake time
	loaded, err := users.NewRepository(db).FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, loaded.Tokens.IsZero())
}

func TestServiceVerifyCreditsExactly(t *testing.T) {
	svc, db, recorder := setupService(t)
	user := newUser(t, db, "credit@borla.africa", time.Now().UTC())
	admin := newUser(t, db, "reviewer@borla.africa", time.Now().UTC())

	submission := newSubmission(t, db, user, enums.WasteKindPlastic, "2.5", enums.SubmissionStatusPending, time.Now().UTC())

	result, err := svc.Verify(context.Background(), DecisionInput{SubmissionID: submission.ID, AdminID: admin.ID})
	require.NoError(t, err)
	assert.Equal(t, enums.SubmissionStatusVerified, result.Submission.Status)
	require.NotNil(t, result.TokensAwarded)
	assert.True(t, result.TokensAwarded.Equal(decimal.RequireFromString("12.5")))
	require.NotNil(t, result.NewBalance)
	assert.True(t, result.NewBalance.Equal(decimal.RequireFromString("12.5")), "balance %s", result.NewBalance)

	loaded, err := users.NewRepository(db).FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, loaded.Tokens.Equal(decimal.RequireFromString("12.5")), "balance %s", loaded.Tokens)

	event, err := rewards.NewRepository(db).FindBySubmissionID(context.Background(), submission.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, event.UserID)
	assert.Equal(t, admin.ID, event.AdminID)
	assert.True(t, event.Tokens.Equal(decimal.RequireFromString("12.5")))

	assert.Equal(t, 1, recorder.decisions["verified"])
	assert.InDelta(t, 12.5, recorder.tokens, 0.0001)
}

func TestServiceVerifyIsAtMostOnce(t *testing.T) {
	svc, db, recorder := setupService(t)
	user := newUser(t, db, "once@borla.africa", time.Now().UTC())
	admin := newUser(t, db, "once-admin@borla.africa", time.Now().UTC())

	submission := newSubmission(t, db, user, enums.WasteKindMetal, "3", enums.SubmissionStatusPending, time.Now().UTC())

	_, err := svc.Verify(context.Background(), DecisionInput{SubmissionID: submission.ID, AdminID: admin.ID})
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), DecisionInput{SubmissionID: submission.ID, AdminID: admin.ID})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())

	loaded, err := users.NewRepository(db).FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, loaded.Tokens.Equal(decimal.RequireFromString("18")), "balance %s", loaded.Tokens)

	var eventCount int64
	require.NoError(t, db.Model(&models.RewardEvent{}).Where("submission_id = ?", submission.ID).Count(&eventCount).Error)
	assert.Equal(t, int64(1), eventCount)

	assert.Equal(t, 1, recorder.decisions["verified"])
}

func TestServiceRejectNeverCredits(t *testing.T) {
	svc, db, recorder := setupService(t)
	user := newUser(t, db, "reject@borla.africa", time.Now().UTC())
	admin := newUser(t, db, "reject-admin@borla.africa", time.Now().UTC())

	submission := newSubmission(t, db, user, enums.WasteKindOrganic, "20", enums.SubmissionStatusPending, time.Now().UTC())

	result, err := svc.Reject(context.Background(), DecisionInput{SubmissionID: submission.ID, AdminID: admin.ID})
	require.NoError(t, err)
	assert.Equal(t, enums.SubmissionStatusRejected, result.Submission.Status)
	assert.Nil(t, result.TokensAwarded)
	assert.Nil(t, result.NewBalance)

	loaded, err := users.NewRepository(db).FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, loaded.Tokens.IsZero())

	var eventCount int64
	require.NoError(t, db.Model(&models.RewardEvent{}).Where("submission_id = ?", submission.ID).Count(&eventCount).Error)
	assert.Equal(t, int64(0), eventCount)

	assert.Equal(t, 1, recorder.decisions["rejected"])
	assert.Zero(t, recorder.tokens)
}

func TestServiceRejectionIsTerminal(t *testing.T) {
	svc, db, _ := setupService(t)
	user := newUser(t, db, "terminal@borla.africa", time.Now().UTC())
	admin := newUser(t, db, "terminal-admin@borla.africa", time.Now().UTC())

	submission := newSubmission(t, db, user, enums.WasteKindGlass, "5", enums.SubmissionStatusPending, time.Now().UTC())

	_, err := svc.Reject(context.Background(), DecisionInput{SubmissionID: submission.ID, AdminID: admin.ID})
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), DecisionInput{SubmissionID: submission.ID, AdminID: admin.ID})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())

	loaded, err := users.NewRepository(db).FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, loaded.Tokens.IsZero())
}

func TestServiceVerifyMissingSubmission(t *testing.T) {
	svc, db, _ := setupService(t)
	admin := newUser(t, db, "missing-admin@borla.africa", time.Now().UTC())

	_, err := svc.Verify(context.Background(), DecisionInput{SubmissionID: uuid.New(), AdminID: admin.ID})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestServiceGetForUserHidesForeignSubmissions(t *testing.T) {
	svc, db, _ := setupService(t)
	owner := newUser(t, db, "owner@borla.africa", time.Now().UTC())
	stranger := newUser(t, db, "stranger@borla.africa", time.Now().UTC())

	submission := newSubmission(t, db, owner, enums.WasteKindPaper, "1", enums.SubmissionStatusPending, time.Now().UTC())

	got, err := svc.GetForUser(context.Background(), owner.ID, submission.ID)
	require.NoError(t, err)
	assert.Equal(t, submission.ID, got.ID)

	_, err = svc.GetForUser(context.Background(), stranger.ID, submission.ID)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
