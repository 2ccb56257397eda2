package controllers

import (
	"net/http"

	"github.com/borla2earn/backend/api/responses"
	"github.com/borla2earn/backend/internal/dashboard"
	pkgerrors "github.com/borla2earn/backend/pkg/errors"
	"github.com/borla2earn/backend/pkg/logger"
)

// Dashboard returns the authenticated user's home-screen projection.
func Dashboard(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Dashboard(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}
