// internal/app/cohort/invites.go
package cohort

import (
	"github.com/dalemusser/cohorthub/internal/app/system/invitecode"
	"github.com/dalemusser/cohorthub/internal/domain/models"
)

// EnsureInviteCodes generates a code for every team lacking one and
// returns the changed positions mapped to their new codes. The cohort is
// not mutated; the caller persists the sparse diff and works with the
// post-update document.
func EnsureInviteCodes(c *models.Cohort) map[int]string {
	changes := make(map[int]string)
	for i, team := range c.Teams {
		if team.InviteCode == "" {
			changes[i] = invitecode.New()
		}
	}
	return changes
}

// ResolveInviteCode returns the index of the team carrying code, or
// (-1, false) when no team matches.
func ResolveInviteCode(c *models.Cohort, code string) (int, bool) {
	if code == "" {
		return -1, false
	}
	for i, team := range c.Teams {
		if team.InviteCode == code {
			return i, true
		}
	}
	return -1, false
}
