package controllers

import (
	"net/http"

	"github.com/borla2earn/backend/api/responses"
	"github.com/borla2earn/backend/internal/rewards"
	pkgerrors "github.com/borla2earn/backend/pkg/errors"
	"github.com/borla2earn/backend/pkg/logger"
)

// RewardRates returns the per-kilogram token rate catalogue so clients can
// show the estimated reward before a submission is reviewed.
func RewardRates() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{
			"unit":  "kg",
			"rates": rewards.Rates(),
		})
	}
}

// RewardHistory returns the authenticated user's credit ledger, newest first.
func RewardHistory(repo rewards.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reward ledger unavailable"))
			return
		}

		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		events, err := repo.ListByUserID(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reward events"))
			return
		}

		out := make([]rewards.EventDTO, 0, len(events))
		for i := range events {
			out = append(out, rewards.EventFromModel(&events[i]))
		}
		responses.WriteSuccess(w, map[string]any{"events": out})
	}
}
