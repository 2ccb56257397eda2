package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/borla2earn/backend/api/middleware"
	"github.com/borla2earn/backend/internal/submissions"
	"github.com/borla2earn/backend/pkg/enums"
	pkgerrors "github.com/borla2earn/backend/pkg/errors"
	"github.com/borla2earn/backend/pkg/pagination"
)

type stubSubmissionService struct {
	created    *submissions.SubmissionDTO
	createdErr error
	found      *submissions.SubmissionDTO
	foundErr   error
	page       submissions.SubmissionPageDTO
	pageErr    error
	decision   *submissions.DecisionDTO
	decideErr  error

	lastCreate   submissions.CreateSubmissionInput
	lastDecision submissions.DecisionInput
}

func (s *stubSubmissionService) Create(_ context.Context, input submissions.CreateSubmissionInput) (*submissions.SubmissionDTO, error) {
	s.lastCreate = input
	return s.created, s.createdErr
}

func (s *stubSubmissionService) GetForUser(context.Context, uuid.UUID, uuid.UUID) (*submissions.SubmissionDTO, error) {
	return s.found, s.foundErr
}

func (s *stubSubmissionService) ListForUser(context.Context, uuid.UUID, pagination.Params) (submissions.SubmissionPageDTO, error) {
	return s.page, s.pageErr
}

func (s *stubSubmissionService) ListPending(context.Context, pagination.Params) (submissions.SubmissionPageDTO, error) {
	return s.page, s.pageErr
}

func (s *stubSubmissionService) Verify(_ context.Context, input submissions.DecisionInput) (*submissions.DecisionDTO, error) {
	s.lastDecision = input
	return s.decision, s.decideErr
}

func (s *stubSubmissionService) Reject(_ context.Context, input submissions.DecisionInput) (*submissions.DecisionDTO, error) {
	s.lastDecision = input
	return s.decision, s.decideErr
}

func authedRequest(method, target string, body []byte, userID uuid.UUID) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
}

func withRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestSubmissionCreateSuccess(t *testing.T) {
	userID := uuid.New()
	created := &submissions.SubmissionDTO{
		ID:        uuid.New(),
		UserID:    userID,
		WasteKind: enums.WasteKindPlastic,
		Quantity:  decimal.RequireFromString("2.5"),
		Status:    enums.SubmissionStatusPending,
	}
	svc := &stubSubmissionService{created: created}
	handler := SubmissionCreate(svc, nil)

	payload := []byte(`{"waste_kind":"plastic","quantity":2.5,"location":"Accra Central"}`)
	req := authedRequest(http.MethodPost, "/api/v1/submissions", payload, userID)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body %s", rec.Code, rec.Body.String())
	}
	if svc.lastCreate.UserID != userID {
		t.Fatalf("expected owner %s got %s", userID, svc.lastCreate.UserID)
	}
	if !svc.lastCreate.Quantity.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("expected quantity 2.5 got %s", svc.lastCreate.Quantity)
	}

	var envelope struct {
		Data submissions.SubmissionDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Status != enums.SubmissionStatusPending {
		t.Fatalf("expected pending status got %s", envelope.Data.Status)
	}
}

func TestSubmissionCreateRejectsUnknownFields(t *testing.T) {
	handler := SubmissionCreate(&stubSubmissionService{}, nil)

	payload := []byte(`{"waste_kind":"plastic","quantity":1,"location":"Accra","bogus":true}`)
	req := authedRequest(http.MethodPost, "/api/v1/submissions", payload, uuid.New())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestSubmissionCreateMissingIdentity(t *testing.T) {
	handler := SubmissionCreate(&stubSubmissionService{}, nil)

	payload := []byte(`{"waste_kind":"plastic","quantity":1,"location":"Accra"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestSubmissionGetNotFound(t *testing.T) {
	svc := &stubSubmissionService{foundErr: pkgerrors.New(pkgerrors.CodeNotFound, "submission not found")}
	handler := SubmissionGet(svc, nil)

	id := uuid.New()
	req := authedRequest(http.MethodGet, "/api/v1/submissions/"+id.String(), nil, uuid.New())
	req = withRouteParam(req, "submissionId", id.String())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestSubmissionGetRejectsMalformedID(t *testing.T) {
	handler := SubmissionGet(&stubSubmissionService{}, nil)

	req := authedRequest(http.MethodGet, "/api/v1/submissions/not-a-uuid", nil, uuid.New())
	req = withRouteParam(req, "submissionId", "not-a-uuid")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestSubmissionListRejectsBadLimit(t *testing.T) {
	handler := SubmissionList(&stubSubmissionService{}, nil)

	req := authedRequest(http.MethodGet, "/api/v1/submissions?limit=overflow", nil, uuid.New())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAdminSubmissionVerifySuccess(t *testing.T) {
	adminID := uuid.New()
	submissionID := uuid.New()
	tokens := decimal.RequireFromString("12.5")
	svc := &stubSubmissionService{decision: &submissions.DecisionDTO{
		Submission:    submissions.SubmissionDTO{ID: submissionID, Status: enums.SubmissionStatusVerified},
		TokensAwarded: &tokens,
	}}
	handler := AdminSubmissionVerify(svc, nil)

	req := authedRequest(http.MethodPost, "/api/admin/v1/submissions/"+submissionID.String()+"/verify", nil, adminID)
	req = withRouteParam(req, "submissionId", submissionID.String())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", rec.Code, rec.Body.String())
	}
	if svc.lastDecision.SubmissionID != submissionID {
		t.Fatalf("expected submission %s got %s", submissionID, svc.lastDecision.SubmissionID)
	}
	if svc.lastDecision.AdminID != adminID {
		t.Fatalf("expected admin %s got %s", adminID, svc.lastDecision.AdminID)
	}
}

func TestAdminSubmissionRejectAlreadyResolved(t *testing.T) {
	svc := &stubSubmissionService{decideErr: pkgerrors.New(pkgerrors.CodeStateConflict, "submission already resolved")}
	handler := AdminSubmissionReject(svc, nil)

	id := uuid.New()
	req := authedRequest(http.MethodPost, "/api/admin/v1/submissions/"+id.String()+"/reject", nil, uuid.New())
	req = withRouteParam(req, "submissionId", id.String())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
}
