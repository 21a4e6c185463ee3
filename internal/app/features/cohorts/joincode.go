// internal/app/features/cohorts/joincode.go
package cohorts

import (
	"context"
	"net/http"

	"github.com/dalemusser/cohorthub/internal/app/system/timeouts"
)

// joinCodeRequest is the JSON body for POST /cohorts/join-code.
type joinCodeRequest struct {
	UserID string `json:"user_id"`
	GoalID string `json:"goal_id"`
	Code   string `json:"code"`
}

// HandleJoinCode handles POST /cohorts/join-code.
//
// Places the caller on the specific team whose invite code was
// presented, leaving any other cohort for the goal first. Unknown codes
// come back 404 and a full cohort 409.
func (h *Handler) HandleJoinCode(w http.ResponseWriter, r *http.Request) {
	var req joinCodeRequest
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

	c, err := h.Svc.JoinByCode(ctx, user, goal, req.Code)
	if err != nil {
		writeError(w, h.Log, "join-code", err)
		return
	}
	writeCohort(w, c)
}
