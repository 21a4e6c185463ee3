// internal/app/features/cohorts/kick.go
package cohorts

import (
	"context"
	"net/http"

	"github.com/dalemusser/cohorthub/internal/app/system/timeouts"
)

// kickRequest is the JSON body for POST /cohorts/kick.
type kickRequest struct {
	UserID   string `json:"user_id"`
	GoalID   string `json:"goal_id"`
	MemberID string `json:"member_id"`
}

// HandleKick handles POST /cohorts/kick.
//
// Removes a teammate from the caller's team. A target on a different
// team is reported exactly like a missing one (404), so the endpoint
// does not leak who belongs to which team.
func (h *Handler) HandleKick(w http.ResponseWriter, r *http.Request) {
	var req kickRequest
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
	member, ok := parseID(w, "member_id", req.MemberID)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, err := h.Svc.Kick(ctx, user, goal, member)
	if err != nil {
		writeError(w, h.Log, "kick", err)
		return
	}
	writeCohort(w, c)
}
