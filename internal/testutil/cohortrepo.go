// internal/testutil/cohortrepo.go
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/cohorthub/internal/app/cohort"
	"github.com/dalemusser/cohorthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CohortRepo is an in-memory cohort.Repository. Each method takes the
// lock for its whole body, which reproduces the storage contract the
// service depends on: one method call is one atomic conditional update
// over a single cohort document. Returned cohorts are deep copies.
type CohortRepo struct {
	mu      sync.Mutex
	cohorts []*models.Cohort

	// FailNext, when non-nil, is returned (and cleared) by the next
	// repository call. Lets tests exercise persistence-error paths.
	FailNext error

	// BeforeAppend, when non-nil, runs once (and is cleared) at the
	// start of the next AppendTeam call, before the lock is taken.
	// Lets tests interleave a competing write between a caller's read
	// and its conditional append.
	BeforeAppend func()
}

// NewCohortRepo creates an empty in-memory repository.
func NewCohortRepo() *CohortRepo {
	return &CohortRepo{}
}

func clone(c *models.Cohort) *models.Cohort {
	if c == nil {
		return nil
	}
	out := *c
	out.Teams = append([]models.CohortTeam(nil), c.Teams...)
	out.Members = append([]models.CohortMember(nil), c.Members...)
	return &out
}

func (r *CohortRepo) takeFailure() error {
	err := r.FailNext
	r.FailNext = nil
	return err
}

func (r *CohortRepo) byID(id primitive.ObjectID) *models.Cohort {
	for _, c := range r.cohorts {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// All returns a snapshot of every stored cohort.
func (r *CohortRepo) All() []*models.Cohort {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Cohort, len(r.cohorts))
	for i, c := range r.cohorts {
		out[i] = clone(c)
	}
	return out
}

// Seed stores a cohort directly, bypassing the claim path.
func (r *CohortRepo) Seed(c models.Cohort) primitive.ObjectID {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	r.cohorts = append(r.cohorts, clone(&c))
	return c.ID
}

func (r *CohortRepo) FindForUser(_ context.Context, goal, user primitive.ObjectID) (*models.Cohort, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return nil, err
	}
	for _, c := range r.cohorts {
		if c.Goal == goal && c.MemberIndex(user) >= 0 {
			return clone(c), nil
		}
	}
	return nil, nil
}

func (r *CohortRepo) FindByInviteCode(_ context.Context, goal primitive.ObjectID, code string) (*models.Cohort, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return nil, err
	}
	for _, c := range r.cohorts {
		if c.Goal != goal {
			continue
		}
		for _, team := range c.Teams {
			if team.InviteCode != "" && team.InviteCode == code {
				return clone(c), nil
			}
		}
	}
	return nil, nil
}

func (r *CohortRepo) FindExpandable(_ context.Context, goal primitive.ObjectID, maxMembers int) (*models.Cohort, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return nil, err
	}
	for _, c := range r.cohorts {
		if c.Goal == goal && c.MembersMax < maxMembers && c.MemberSlotsRemaining > 0 {
			return clone(c), nil
		}
	}
	return nil, nil
}

func (r *CohortRepo) ClaimSlot(_ context.Context, goal, user primitive.ObjectID, seed cohort.Seed) (*models.Cohort, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for _, c := range r.cohorts {
		if c.Goal == goal && c.MemberSlotsRemaining > 0 && c.MemberIndex(user) < 0 {
			c.Members = append(c.Members, models.CohortMember{User: user, TeamIndex: 0})
			c.MemberSlotsRemaining--
			c.UpdatedAt = now
			return clone(c), nil
		}
	}

	// Upsert branch. The push and decrement apply to the fresh document
	// too, so the counter lands on -1 exactly as the conditional-upsert
	// write does in storage.
	created := &models.Cohort{
		ID:                   primitive.NewObjectID(),
		Goal:                 goal,
		Teams:                append([]models.CohortTeam(nil), seed.Teams...),
		MembersMax:           seed.MembersMax,
		MemberSlotsRemaining: -1,
		Members:              []models.CohortMember{{User: user, TeamIndex: 0}},
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	r.cohorts = append(r.cohorts, created)
	return clone(created), nil
}

func (r *CohortRepo) JoinTeam(_ context.Context, cohortID, user primitive.ObjectID, teamIndex int) (*models.Cohort, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return nil, err
	}
	c := r.byID(cohortID)
	if c == nil || c.MemberSlotsRemaining <= 0 {
		return nil, cohort.ErrNoMatch
	}
	c.Members = append(c.Members, models.CohortMember{User: user, TeamIndex: teamIndex})
	c.MemberSlotsRemaining--
	c.UpdatedAt = time.Now().UTC()
	return clone(c), nil
}

func (r *CohortRepo) AppendTeam(_ context.Context, cohortID, user primitive.ObjectID, team models.CohortTeam, teamIndex, perTeam int) (*models.Cohort, error) {
	if hook := r.BeforeAppend; hook != nil {
		r.BeforeAppend = nil
		hook()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return nil, err
	}

	// Like the storage filter, the append is conditional on the team
	// count still matching the index the caller read.
	c := r.byID(cohortID)
	if c == nil || c.MemberSlotsRemaining <= 0 || len(c.Teams) != teamIndex {
		return nil, cohort.ErrNoMatch
	}
	c.Teams = append(c.Teams, team)
	c.Members = append(c.Members, models.CohortMember{User: user, TeamIndex: teamIndex})
	c.MembersMax += perTeam
	c.MemberSlotsRemaining += perTeam - 1
	c.UpdatedAt = time.Now().UTC()
	return clone(c), nil
}

func (r *CohortRepo) InsertCohort(_ context.Context, goal, user primitive.ObjectID, team models.CohortTeam, perTeam int) (*models.Cohort, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := &models.Cohort{
		ID:                   primitive.NewObjectID(),
		Goal:                 goal,
		Teams:                []models.CohortTeam{team},
		MembersMax:           perTeam,
		MemberSlotsRemaining: perTeam - 1,
		Members:              []models.CohortMember{{User: user, TeamIndex: 0}},
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	r.cohorts = append(r.cohorts, created)
	return clone(created), nil
}

func (r *CohortRepo) RemoveMember(_ context.Context, cohortID, user primitive.ObjectID) (*models.Cohort, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return nil, err
	}
	c := r.byID(cohortID)
	if c == nil {
		return nil, cohort.ErrNoMatch
	}
	idx := c.MemberIndex(user)
	if idx < 0 {
		return nil, cohort.ErrNoMatch
	}
	c.Members = append(c.Members[:idx], c.Members[idx+1:]...)
	c.MemberSlotsRemaining++
	c.UpdatedAt = time.Now().UTC()
	return clone(c), nil
}

func (r *CohortRepo) SetSlotsRemaining(_ context.Context, cohortID primitive.ObjectID, n int) (*models.Cohort, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return nil, err
	}
	c := r.byID(cohortID)
	if c == nil {
		return nil, cohort.ErrNoMatch
	}
	c.MemberSlotsRemaining = n
	c.UpdatedAt = time.Now().UTC()
	return clone(c), nil
}

func (r *CohortRepo) SetTeamIndexes(_ context.Context, cohortID primitive.ObjectID, changes map[int]int) (*models.Cohort, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return nil, err
	}
	c := r.byID(cohortID)
	if c == nil {
		return nil, cohort.ErrNoMatch
	}
	for i, team := range changes {
		if i >= 0 && i < len(c.Members) {
			c.Members[i].TeamIndex = team
		}
	}
	c.UpdatedAt = time.Now().UTC()
	return clone(c), nil
}

func (r *CohortRepo) SetInviteCodes(_ context.Context, cohortID primitive.ObjectID, changes map[int]string) (*models.Cohort, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return nil, err
	}
	c := r.byID(cohortID)
	if c == nil {
		return nil, cohort.ErrNoMatch
	}
	for i, code := range changes {
		if i >= 0 && i < len(c.Teams) {
			c.Teams[i].InviteCode = code
		}
	}
	c.UpdatedAt = time.Now().UTC()
	return clone(c), nil
}
