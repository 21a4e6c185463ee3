// internal/app/cohort/repository.go
package cohort

import (
	"context"
	"errors"

	"github.com/dalemusser/cohorthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNoMatch is returned by conditional repository writes whose filter
// matched no document (for example, joining a team in a cohort that is
// already full). It is a repository-level signal; the service maps it to
// a caller-facing Error.
var ErrNoMatch = errors.New("no cohort matched the update condition")

// Seed describes the teams and capacity a brand-new cohort is created
// with when a claim finds no cohort with room.
type Seed struct {
	Teams      []models.CohortTeam
	MembersMax int
}

// Repository is the persistence contract for cohorts. Every method is a
// single atomic operation against one cohort document: a read, or a
// conditional update that returns the post-update document. Multi-step
// workflows are composed in the service, which owns the consistency
// tradeoffs between steps.
type Repository interface {
	// FindForUser returns the cohort of the goal that contains user as
	// a member, or (nil, nil) when there is none.
	FindForUser(ctx context.Context, goal, user primitive.ObjectID) (*models.Cohort, error)

	// FindByInviteCode returns the cohort of the goal with a team whose
	// invite code matches, or (nil, nil) when there is none.
	FindByInviteCode(ctx context.Context, goal primitive.ObjectID, code string) (*models.Cohort, error)

	// FindExpandable returns a cohort of the goal that is still under
	// maxMembers total capacity and has open slots, or (nil, nil).
	FindExpandable(ctx context.Context, goal primitive.ObjectID, maxMembers int) (*models.Cohort, error)

	// ClaimSlot atomically claims one member slot for user in any
	// cohort of the goal that has slots remaining and does not already
	// contain the user; when none matches it upserts a new cohort from
	// seed. In both branches the user is pushed at team index 0 and the
	// slot counter is decremented. On the upsert branch the counter was
	// defaulted to zero before the decrement, so the returned cohort
	// reports MemberSlotsRemaining == -1; the caller must repair it.
	ClaimSlot(ctx context.Context, goal, user primitive.ObjectID, seed Seed) (*models.Cohort, error)

	// JoinTeam adds user to the cohort at the given team index,
	// conditional on a slot remaining. Returns ErrNoMatch when the
	// cohort is full or gone.
	JoinTeam(ctx context.Context, cohortID, user primitive.ObjectID, teamIndex int) (*models.Cohort, error)

	// AppendTeam atomically appends team to the cohort at position
	// teamIndex, adds user on it, and grows capacity by perTeam (slots
	// by perTeam-1, since the new member consumes one). The write is
	// conditional on a slot remaining AND on the cohort still holding
	// exactly teamIndex teams, so a concurrent fill or append between
	// the caller's read and this write yields ErrNoMatch rather than a
	// member pointing past the team list.
	AppendTeam(ctx context.Context, cohortID, user primitive.ObjectID, team models.CohortTeam, teamIndex, perTeam int) (*models.Cohort, error)

	// InsertCohort inserts a fresh cohort for the goal holding only
	// team, with user as its sole member at team index 0 and capacity
	// perTeam (perTeam-1 slots remaining).
	InsertCohort(ctx context.Context, goal, user primitive.ObjectID, team models.CohortTeam, perTeam int) (*models.Cohort, error)

	// RemoveMember pulls user's member record and returns a slot.
	// Returns ErrNoMatch when the cohort does not exist.
	RemoveMember(ctx context.Context, cohortID, user primitive.ObjectID) (*models.Cohort, error)

	// SetSlotsRemaining overwrites the cached slot counter. Used only
	// for the post-create repair; never sets a value above the true
	// remaining capacity.
	SetSlotsRemaining(ctx context.Context, cohortID primitive.ObjectID, n int) (*models.Cohort, error)

	// SetTeamIndexes applies a sparse member-position -> team-index
	// update produced by a rebalance diff.
	SetTeamIndexes(ctx context.Context, cohortID primitive.ObjectID, changes map[int]int) (*models.Cohort, error)

	// SetInviteCodes applies a sparse team-position -> invite-code
	// update for teams that lacked codes.
	SetInviteCodes(ctx context.Context, cohortID primitive.ObjectID, changes map[int]string) (*models.Cohort, error)
}
