// internal/app/features/cohorts/createteam.go
package cohorts

import (
	"context"
	"net/http"

	"github.com/dalemusser/cohorthub/internal/app/system/timeouts"
)

// createTeamRequest is the JSON body for POST /cohorts/teams.
type createTeamRequest struct {
	UserID string `json:"user_id"`
	GoalID string `json:"goal_id"`
	Name   string `json:"name"`
}

// HandleCreateTeam handles POST /cohorts/teams.
//
// Appends a team with the given name to a cohort that still has room
// for one, or starts a new single-team cohort, and moves the caller
// onto it. The name is sanitized server-side; a name that is empty
// after sanitization is a 400.
func (h *Handler) HandleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var req createTeamRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !h.allowJoin(w, req.UserID) {
		return
	}
	user, ok := parseID(w, "user_id", req.UserID)
	if !ok {
		return
	}
	goal, ok := parseID(w, "goal_id", req.GoalID)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, err := h.Svc.CreateTeam(ctx, user, goal, req.Name)
	if err != nil {
		writeError(w, h.Log, "create-team", err)
		return
	}
	writeCohort(w, c)
}
