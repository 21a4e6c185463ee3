// internal/app/features/cohorts/routes.go
package cohorts

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter that serves the cohort membership
// endpoints. It is mounted under /cohorts.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/join", h.HandleJoin)
	r.Post("/join-code", h.HandleJoinCode)
	r.Post("/teams", h.HandleCreateTeam)
	r.Post("/leave", h.HandleLeave)
	r.Post("/kick", h.HandleKick)
	r.Post("/invite", h.HandleInvite)

	return r
}
