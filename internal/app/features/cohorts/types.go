// internal/app/features/cohorts/types.go
package cohorts

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/cohorthub/internal/app/cohort"
	"github.com/dalemusser/cohorthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// errorResponse is the JSON structure for all non-200 responses.
type errorResponse struct {
	Error string `json:"error"`
}

// decodeBody parses the JSON request body into dst. A missing or
// malformed body is reported to the client as a 400.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}

// parseID converts a hex ObjectID from the request body, writing a 400
// naming the offending field on failure.
func parseID(w http.ResponseWriter, field, hex string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid " + field})
		return primitive.NilObjectID, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeCohort renders the 200 response shared by every operation.
func writeCohort(w http.ResponseWriter, c *models.Cohort) {
	writeJSON(w, http.StatusOK, c)
}

// writeError maps service errors onto the response contract: typed
// cohort errors carry their own status (404 for the NotFound taxonomy,
// 409 for a full team, 400 for a bad team name); anything else is a 500
// with the detail kept out of the response body.
func writeError(w http.ResponseWriter, log *zap.Logger, op string, err error) {
	var ce *cohort.Error
	if errors.As(err, &ce) {
		writeJSON(w, ce.Status, errorResponse{Error: ce.Message})
		return
	}
	if log != nil {
		log.Error("cohort operation failed", zap.String("op", op), zap.Error(err))
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

// allowJoin applies the per-user rate limit on the join endpoints.
// Returns false after writing a 429.
func (h *Handler) allowJoin(w http.ResponseWriter, userID string) bool {
	if h.Limiter == nil || h.Limiter.Allow(userID) {
		return true
	}
	writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many join requests"})
	return false
}
