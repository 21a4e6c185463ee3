// internal/app/features/cohorts/handler.go
package cohorts

// Terminology: User Identifiers
//   - user_id: the MongoDB ObjectID of the caller, supplied in the
//     request body (authentication happens upstream of this service)
//   - member_id: the ObjectID of another cohort member, used by kick

import (
	"github.com/dalemusser/cohorthub/internal/app/cohort"
	"github.com/dalemusser/cohorthub/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the cohorts feature.
// It holds the membership service, the join-endpoint rate limiter and
// the logger so the per-operation handlers can share them.
type Handler struct {
	Svc     *cohort.Service
	Limiter *ratelimit.Limiter
	Log     *zap.Logger
}

// NewHandler constructs a cohorts Handler. It is typically called from
// the bootstrap BuildHandler function, where the service and limiter
// are already initialized. Limiter may be nil to disable rate limiting.
func NewHandler(svc *cohort.Service, limiter *ratelimit.Limiter, logger *zap.Logger) *Handler {
	return &Handler{
		Svc:     svc,
		Limiter: limiter,
		Log:     logger,
	}
}
