// internal/app/features/cohorts/invite.go
package cohorts

import (
	"context"
	"net/http"

	"github.com/dalemusser/cohorthub/internal/app/system/timeouts"
)

// inviteRequest is the JSON body for POST /cohorts/invite.
type inviteRequest struct {
	UserID string `json:"user_id"`
	GoalID string `json:"goal_id"`
}

// HandleInvite handles POST /cohorts/invite.
//
// Returns the caller's cohort with an invite code on every team,
// generating codes for teams that do not have one yet.
func (h *Handler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if !decodeBody(w, r, &req) {
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

	c, err := h.Svc.Invite(ctx, user, goal)
	if err != nil {
		writeError(w, h.Log, "invite", err)
		return
	}
	writeCohort(w, c)
}
