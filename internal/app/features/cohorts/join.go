// internal/app/features/cohorts/join.go
package cohorts

import (
	"context"
	"net/http"

	"github.com/dalemusser/cohorthub/internal/app/system/timeouts"
)

// joinRequest is the JSON body for POST /cohorts/join.
type joinRequest struct {
	UserID string `json:"user_id"`
	GoalID string `json:"goal_id"`
}

// HandleJoin handles POST /cohorts/join.
//
// Places the caller in a cohort for the goal: their existing cohort if
// they already have one, a cohort with a free slot otherwise, or a
// freshly created cohort when every existing one is full.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
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

	c, err := h.Svc.JoinOrCreate(ctx, user, goal, nil)
	if err != nil {
		writeError(w, h.Log, "join", err)
		return
	}
	writeCohort(w, c)
}
