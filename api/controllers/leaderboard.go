package controllers

import (
	"net/http"

	"github.com/borla2earn/backend/api/responses"
	"github.com/borla2earn/backend/api/validators"
	"github.com/borla2earn/backend/internal/ranking"
	pkgerrors "github.com/borla2earn/backend/pkg/errors"
	"github.com/borla2earn/backend/pkg/logger"
)

const maxLeaderboardLimit = 100

// Leaderboard returns the community ranking by verified recycled weight.
func Leaderboard(svc ranking.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ranking service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, maxLeaderboardLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.Leaderboard(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"entries": entries})
	}
}
