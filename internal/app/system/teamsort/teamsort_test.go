package teamsort_test

import (
	"testing"

	"github.com/dalemusser/cohorthub/internal/app/system/teamsort"
	"github.com/dalemusser/cohorthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func makeMembers(n int) []models.CohortMember {
	members := make([]models.CohortMember, n)
	for i := range members {
		members[i] = models.CohortMember{User: primitive.NewObjectID()}
	}
	return members
}

func teamIndexes(members []models.CohortMember) []int {
	out := make([]int, len(members))
	for i, m := range members {
		out[i] = m.TeamIndex
	}
	return out
}

func TestAssign_EarlyGrowth(t *testing.T) {
	// First six members pair up across three teams, the seventh starts
	// the teams-of-3 phase.
	want := []int{0, 0, 1, 1, 2, 2, 0, 1, 2}

	got := teamIndexes(teamsort.Assign(makeMembers(9), 5))
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got team %d, want %d", i, got[i], want[i])
		}
	}
}

func TestAssign_TeamsOfFourPhase(t *testing.T) {
	got := teamIndexes(teamsort.Assign(makeMembers(13), 5))
	// Position 9 starts the teams-of-4 phase.
	want := []int{0, 1, 2, 3}
	for i, w := range want {
		if got[9+i] != w {
			t.Errorf("position %d: got team %d, want %d", 9+i, got[9+i], w)
		}
	}
}

func TestAssign_TeamsOfFivePhase(t *testing.T) {
	got := teamIndexes(teamsort.Assign(makeMembers(30), 5))
	want := []int{0, 1, 2, 3, 4}
	for i, w := range want {
		if got[25+i] != w {
			t.Errorf("position %d: got team %d, want %d", 25+i, got[25+i], w)
		}
	}
}

func TestAssign_BeyondTableFallsBackToModular(t *testing.T) {
	got := teamIndexes(teamsort.Assign(makeMembers(60), 5))
	for i := 50; i < 60; i++ {
		want := (i - 10) % 5
		if got[i] != want {
			t.Errorf("position %d: got team %d, want %d", i, got[i], want)
		}
	}
}

func TestAssign_Deterministic(t *testing.T) {
	members := makeMembers(37)
	a := teamIndexes(teamsort.Assign(members, 5))
	b := teamIndexes(teamsort.Assign(members, 5))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("position %d: %d != %d on second run", i, a[i], b[i])
		}
	}
}

func TestAssign_GrowthIsLowChurn(t *testing.T) {
	// Adding one member never moves an existing member to another team.
	members := makeMembers(55)
	for n := 1; n < len(members); n++ {
		before := teamsort.Assign(members[:n], 5)
		after := teamsort.Assign(members[:n+1], 5)
		for i := 0; i < n; i++ {
			if before[i].TeamIndex != after[i].TeamIndex {
				t.Fatalf("n=%d: existing member %d moved from team %d to %d",
					n, i, before[i].TeamIndex, after[i].TeamIndex)
			}
		}
	}
}

func TestAssign_DoesNotMutateInput(t *testing.T) {
	members := makeMembers(10)
	for i := range members {
		members[i].TeamIndex = 99
	}
	teamsort.Assign(members, 5)
	for i, m := range members {
		if m.TeamIndex != 99 {
			t.Errorf("input member %d was mutated", i)
		}
	}
}

func TestAssign_InvalidMaxTeamSizeUsesDefault(t *testing.T) {
	a := teamIndexes(teamsort.Assign(makeMembers(60), 0))
	b := teamIndexes(teamsort.Assign(makeMembers(60), teamsort.DefaultMaxTeamSize))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("position %d: got %d with size 0, want %d", i, a[i], b[i])
		}
	}
}

func TestDiff(t *testing.T) {
	old := []models.CohortMember{
		{TeamIndex: 0}, {TeamIndex: 0}, {TeamIndex: 1},
	}
	updated := []models.CohortMember{
		{TeamIndex: 0}, {TeamIndex: 1}, {TeamIndex: 1}, {TeamIndex: 2},
	}

	changes := teamsort.Diff(old, updated)
	if len(changes) != 2 {
		t.Fatalf("got %d changes, want 2: %v", len(changes), changes)
	}
	if changes[1] != 1 {
		t.Errorf("position 1: got team %d, want 1", changes[1])
	}
	if changes[3] != 2 {
		t.Errorf("position 3: got team %d, want 2", changes[3])
	}
}

func TestDiff_NoChanges(t *testing.T) {
	members := teamsort.Assign(makeMembers(12), 5)
	if changes := teamsort.Diff(members, members); len(changes) != 0 {
		t.Errorf("got %d changes for identical lists, want 0", len(changes))
	}
}
