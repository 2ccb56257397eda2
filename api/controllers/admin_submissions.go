package controllers

import (
	"context"
	"net/http"

	"github.com/borla2earn/backend/api/responses"
	"github.com/borla2earn/backend/internal/submissions"
	pkgerrors "github.com/borla2earn/backend/pkg/errors"
	"github.com/borla2earn/backend/pkg/logger"
)

// AdminSubmissionQueue returns pending submissions, oldest first, so the
// review backlog drains in arrival order.
func AdminSubmissionQueue(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "submissions service unavailable"))
			return
		}

		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListPending(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// AdminSubmissionVerify approves a pending submission and credits the owner.
func AdminSubmissionVerify(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return unavailableDecision(logg)
	}
	return adminDecision(logg, svc.Verify)
}

// AdminSubmissionReject declines a pending submission without credit.
func AdminSubmissionReject(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return unavailableDecision(logg)
	}
	return adminDecision(logg, svc.Reject)
}

func adminDecision(logg *logger.Logger, decide func(ctx context.Context, input submissions.DecisionInput) (*submissions.DecisionDTO, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		submissionID, err := urlParamUUID(r, "submissionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := decide(r.Context(), submissions.DecisionInput{
			SubmissionID: submissionID,
			AdminID:      adminID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func unavailableDecision(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "submissions service unavailable"))
	}
}
