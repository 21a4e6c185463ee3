// internal/app/system/teamsort/teamsort.go

// Package teamsort assigns cohort members to teams.
//
// Assignment is a pure function of a member's position in the cohort's
// member list. Early growth follows a curated table that starts teams of
// 3, then 4, then settles on teams of 5, so a young cohort never has one
// big team next to empty ones. Past the table the assignment falls back
// to a modular formula.
//
// Callers depend on the low-churn property, not the exact table: when
// one member joins, existing members keep their team index, so a
// rebalance persists as a sparse diff rather than a rewrite.
package teamsort

import "github.com/dalemusser/cohorthub/internal/domain/models"

// DefaultMaxTeamSize is the per-team capacity used when the caller does
// not supply one.
const DefaultMaxTeamSize = 5

// Func computes team indexes for an ordered member list. Implementations
// must be deterministic and must not mutate the input.
type Func func(members []models.CohortMember, maxTeamSize int) []models.CohortMember

// assignmentTable maps member position to team index for the first 50
// members: teams of 3 through position 9, teams of 4 through 24, teams
// of 5 from 25 on.
var assignmentTable = []int{
	0, 0, 1, 1, 2, 2,
	0, 1, 2, // position 6: teams of 3
	0, 1, 2, 3, // position 9: teams of 4
	0, 1, 2, 3,
	0, 1, 2, 3,
	0, 1, 2, 3,
	0, 1, 2, 3, 4, // position 25: teams of 5
	0, 1, 2, 3, 4,
	0, 1, 2, 3, 4,
	0, 1, 2, 3, 4,
	0, 1, 2, 3, 4,
}

// Assign returns a copy of members with team indexes recomputed.
// An out-of-range maxTeamSize falls back to DefaultMaxTeamSize.
func Assign(members []models.CohortMember, maxTeamSize int) []models.CohortMember {
	if maxTeamSize <= 0 {
		maxTeamSize = DefaultMaxTeamSize
	}

	out := make([]models.CohortMember, len(members))
	for i, m := range members {
		if i < len(assignmentTable) {
			m.TeamIndex = assignmentTable[i]
		} else {
			m.TeamIndex = (i - len(assignmentTable)/maxTeamSize + len(assignmentTable)%maxTeamSize) % maxTeamSize
		}
		out[i] = m
	}
	return out
}

// Diff compares old and new assignments position by position and returns
// the positions whose team index changed, mapped to the new index. The
// result is what a caller persists; an empty map means no write is
// needed.
func Diff(old, updated []models.CohortMember) map[int]int {
	changes := make(map[int]int)
	for i := range updated {
		if i >= len(old) {
			changes[i] = updated[i].TeamIndex
			continue
		}
		if old[i].TeamIndex != updated[i].TeamIndex {
			changes[i] = updated[i].TeamIndex
		}
	}
	return changes
}
