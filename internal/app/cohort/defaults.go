// internal/app/cohort/defaults.go
package cohort

import (
	"github.com/dalemusser/cohorthub/internal/app/system/invitecode"
	"github.com/dalemusser/cohorthub/internal/domain/models"
)

// Default capacity policy for new cohorts.
const (
	DefaultMaxTeamsPerCohort = 6
	DefaultMaxMembersPerTeam = 5
)

// defaultTeamSet is the roster every implicitly created cohort starts
// with. Icons double as the source for a team appended later: the
// appended team borrows the icon at its index.
var defaultTeamSet = []models.CohortTeam{
	{Name: "Minnows", Icon: "LogoTeamRazorfish"},
	{Name: "WaveMakers", Icon: "LogoTeamZephyr"},
	{Name: "Hurricane", Icon: "LogoTeamSquall"},
	{Name: "ShipsAhoy", Icon: "LogoTeamLighthouse"},
	{Name: "RedSquad", Icon: "LogoTeamGladiator"},
	{Name: "ElectricForce", Icon: "LogoTeamFirebolt"},
}

// DefaultTeams returns the default team roster with fresh invite codes.
// Codes are generated per call so every new cohort gets its own set.
func DefaultTeams() []models.CohortTeam {
	teams := make([]models.CohortTeam, len(defaultTeamSet))
	copy(teams, defaultTeamSet)
	for i := range teams {
		teams[i].InviteCode = invitecode.New()
	}
	return teams
}

// iconForTeamIndex picks the display icon for a team appended at the
// given index.
func iconForTeamIndex(i int) string {
	return defaultTeamSet[i%len(defaultTeamSet)].Icon
}
