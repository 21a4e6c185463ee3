// internal/app/features/cohorts/leave.go
package cohorts

import (
	"context"
	"net/http"

	"github.com/dalemusser/cohorthub/internal/app/system/timeouts"
)

// leaveRequest is the JSON body for POST /cohorts/leave.
type leaveRequest struct {
	UserID string `json:"user_id"`
	GoalID string `json:"goal_id"`
}

// HandleLeave handles POST /cohorts/leave.
// Removes the caller from their cohort for the goal and frees the slot.
func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	var req leaveRequest
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

	c, err := h.Svc.Leave(ctx, user, goal)
	if err != nil {
		writeError(w, h.Log, "leave", err)
		return
	}
	writeCohort(w, c)
}
