// internal/app/cohort/service.go

// Package cohort implements goal-cohort membership: joining, team
// creation, invite codes, and departures, with capacity accounting that
// holds up under concurrent callers.
//
// The storage model is one document per cohort. The only atomicity
// primitive is a conditional update with upsert over a single cohort
// document (Repository); everything multi-step composes those updates
// here and tolerates the documented windows between them.
package cohort

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/cohorthub/internal/app/store/audit"
	"github.com/dalemusser/cohorthub/internal/app/system/auditlog"
	"github.com/dalemusser/cohorthub/internal/app/system/invitecode"
	"github.com/dalemusser/cohorthub/internal/app/system/namecheck"
	"github.com/dalemusser/cohorthub/internal/app/system/teamsort"
	"github.com/dalemusser/cohorthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ErrBadTeamName reports a createTeam name that is empty once markup
// and whitespace are stripped.
var ErrBadTeamName = &Error{Status: http.StatusBadRequest, Message: "team name is empty"}

// JoinOptions overrides the seeding policy for cohorts created by
// JoinOrCreate. Zero values fall back to service defaults.
type JoinOptions struct {
	Teams             []models.CohortTeam
	MaxMembersPerTeam int
	Balance           teamsort.Func
}

// Service orchestrates the membership operations against a Repository.
// It holds no mutable state; any number of operations may run
// concurrently against the same service.
type Service struct {
	repo       Repository
	audit      *auditlog.Logger
	log        *zap.Logger
	maxTeams   int
	maxPerTeam int
}

// New creates a Service with default capacity policy. audit may be nil.
func New(repo Repository, auditLog *auditlog.Logger, logger *zap.Logger) *Service {
	return &Service{
		repo:       repo,
		audit:      auditLog,
		log:        logger,
		maxTeams:   DefaultMaxTeamsPerCohort,
		maxPerTeam: DefaultMaxMembersPerTeam,
	}
}

// SetCapacityPolicy overrides the default cohort shape. Intended for
// startup configuration, not per-request use.
func (s *Service) SetCapacityPolicy(maxTeams, maxPerTeam int) {
	if maxTeams > 0 {
		s.maxTeams = maxTeams
	}
	if maxPerTeam > 0 {
		s.maxPerTeam = maxPerTeam
	}
}

// FindForUser returns the user's cohort for the goal, or ErrNotInCohort.
func (s *Service) FindForUser(ctx context.Context, user, goal primitive.ObjectID) (*models.Cohort, error) {
	c, err := s.repo.FindForUser(ctx, goal, user)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotInCohort
	}
	return c, nil
}

// JoinOrCreate places the user in a cohort for the goal:
//
//  1. an existing membership is returned as-is;
//  2. otherwise one slot is claimed in any cohort with room, and the
//     member list is rebalanced;
//  3. otherwise a new cohort is created (upsert) with the user as its
//     first member.
//
// The claim and the create are one conditional write, so two concurrent
// joiners can never take the same slot. The upsert branch leaves the
// slot counter at -1 (it was defaulted to zero, then decremented in the
// same write); the repair to membersMax-1 is a separate update. A
// concurrent joiner observing -1 treats the cohort as full and starts
// another one — capacity is under-used in that window, never exceeded.
func (s *Service) JoinOrCreate(ctx context.Context, user, goal primitive.ObjectID, opts *JoinOptions) (*models.Cohort, error) {
	existing, err := s.repo.FindForUser(ctx, goal, user)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	if opts == nil {
		opts = &JoinOptions{}
	}
	teams := opts.Teams
	if len(teams) == 0 {
		teams = DefaultTeams()
	}
	perTeam := opts.MaxMembersPerTeam
	if perTeam <= 0 {
		perTeam = s.maxPerTeam
	}

	c, err := s.repo.ClaimSlot(ctx, goal, user, Seed{
		Teams:      teams,
		MembersMax: perTeam * len(teams),
	})
	if err != nil {
		return nil, err
	}

	if c.MemberSlotsRemaining == -1 {
		// Upsert branch: this claim created the cohort. Repair the
		// counter; the sole member is already on team 0.
		repaired, err := s.repo.SetSlotsRemaining(ctx, c.ID, c.MembersMax-1)
		if err != nil {
			return nil, err
		}
		s.record(ctx, audit.EventCohortCreated, user, nil, goal, repaired.ID, "")
		s.record(ctx, audit.EventCohortJoined, user, nil, goal, repaired.ID, "")
		return repaired, nil
	}

	// Claimed into an existing cohort: the new member sits at team 0
	// regardless of balance. Recompute assignments and persist only the
	// positions that moved.
	balance := opts.Balance
	if balance == nil {
		balance = teamsort.Assign
	}
	sorted := balance(c.Members, perTeam)
	changes := teamsort.Diff(c.Members, sorted)
	if len(changes) > 0 {
		c, err = s.repo.SetTeamIndexes(ctx, c.ID, changes)
		if err != nil {
			return nil, err
		}
	}
	s.record(ctx, audit.EventCohortJoined, user, nil, goal, c.ID, "")
	return c, nil
}

// JoinByCode puts the user on the team an invite code resolves to. A
// user already on that team is returned unchanged; a user on another
// team (or another cohort of the goal) leaves it first. Returns
// ErrCodeNotFound when no cohort of the goal carries the code, and
// ErrTeamFull when the target cohort has no slots left.
func (s *Service) JoinByCode(ctx context.Context, user, goal primitive.ObjectID, code string) (*models.Cohort, error) {
	current, err := s.repo.FindForUser(ctx, goal, user)
	if err != nil {
		return nil, err
	}
	if current != nil {
		ti := current.TeamOf(user)
		if ti >= 0 && ti < len(current.Teams) && current.Teams[ti].InviteCode == code {
			return current, nil
		}
		if _, err := s.repo.RemoveMember(ctx, current.ID, user); err != nil && !errors.Is(err, ErrNoMatch) {
			return nil, err
		}
	}

	target, err := s.repo.FindByInviteCode(ctx, goal, code)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrCodeNotFound
	}
	teamIndex, ok := ResolveInviteCode(target, code)
	if !ok {
		return nil, ErrCodeNotFound
	}

	c, err := s.repo.JoinTeam(ctx, target.ID, user, teamIndex)
	if errors.Is(err, ErrNoMatch) {
		return nil, ErrTeamFull
	}
	if err != nil {
		return nil, err
	}
	s.record(ctx, audit.EventCohortJoined, user, nil, goal, c.ID, "invite code")
	return c, nil
}

// CreateTeam appends a new team to a cohort of the goal that is still
// under the team cap and has room, placing the user on it. A user
// already in a cohort leaves it first. When no cohort can take another
// team, a fresh cohort is inserted holding only the new team.
func (s *Service) CreateTeam(ctx context.Context, user, goal primitive.ObjectID, rawName string) (*models.Cohort, error) {
	name, err := namecheck.TeamName(rawName)
	if err != nil {
		return nil, ErrBadTeamName
	}

	current, err := s.repo.FindForUser(ctx, goal, user)
	if err != nil {
		return nil, err
	}
	if current != nil {
		if _, err := s.repo.RemoveMember(ctx, current.ID, user); err != nil && !errors.Is(err, ErrNoMatch) {
			return nil, err
		}
	}

	maxMembers := s.maxTeams * s.maxPerTeam

	expandable, err := s.repo.FindExpandable(ctx, goal, maxMembers)
	if err != nil {
		return nil, err
	}

	var c *models.Cohort
	if expandable != nil {
		teamIndex := len(expandable.Teams)
		team := models.CohortTeam{
			Name:       name,
			Icon:       iconForTeamIndex(teamIndex),
			InviteCode: invitecode.New(),
		}
		c, err = s.repo.AppendTeam(ctx, expandable.ID, user, team, teamIndex, s.maxPerTeam)
		if err != nil && !errors.Is(err, ErrNoMatch) {
			return nil, err
		}
		// ErrNoMatch: the cohort filled or grew another team between
		// the read and the append. Fall through to a fresh cohort so
		// the member's team index always points at a real team.
	}
	if c == nil {
		team := models.CohortTeam{
			Name:       name,
			Icon:       iconForTeamIndex(0),
			InviteCode: invitecode.New(),
		}
		c, err = s.repo.InsertCohort(ctx, goal, user, team, s.maxPerTeam)
		if err != nil {
			return nil, err
		}
	}
	s.record(ctx, audit.EventTeamCreated, user, nil, goal, c.ID, name)
	return c, nil
}

// Leave removes the user's membership and returns the slot. Returns
// ErrNotInCohort when the user has no membership for the goal.
func (s *Service) Leave(ctx context.Context, user, goal primitive.ObjectID) (*models.Cohort, error) {
	current, err := s.repo.FindForUser(ctx, goal, user)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotInCohort
	}

	c, err := s.repo.RemoveMember(ctx, current.ID, user)
	if errors.Is(err, ErrNoMatch) {
		return nil, ErrNotInCohort
	}
	if err != nil {
		return nil, err
	}
	s.record(ctx, audit.EventCohortLeft, user, nil, goal, c.ID, "")
	return c, nil
}

// Kick removes another member from the requester's team. The requester
// must share a team with the target; a target on a different team is
// reported exactly like a missing member, so requesters cannot probe
// membership outside their own team.
func (s *Service) Kick(ctx context.Context, user, goal, member primitive.ObjectID) (*models.Cohort, error) {
	current, err := s.repo.FindForUser(ctx, goal, user)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotInCohort
	}

	mi := current.MemberIndex(member)
	if mi < 0 {
		return nil, ErrMemberNotFound
	}
	if current.Members[mi].TeamIndex != current.TeamOf(user) {
		return nil, ErrMemberNotInTeam
	}

	c, err := s.repo.RemoveMember(ctx, current.ID, member)
	if errors.Is(err, ErrNoMatch) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	s.record(ctx, audit.EventMemberKicked, user, &member, goal, c.ID, "")
	return c, nil
}

// Invite makes sure every team in the requester's cohort has an invite
// code, persisting only the teams that lacked one. Returns
// ErrNotInCohort when the requester has no membership for the goal.
func (s *Service) Invite(ctx context.Context, user, goal primitive.ObjectID) (*models.Cohort, error) {
	current, err := s.repo.FindForUser(ctx, goal, user)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotInCohort
	}

	changes := EnsureInviteCodes(current)
	if len(changes) == 0 {
		return current, nil
	}

	c, err := s.repo.SetInviteCodes(ctx, current.ID, changes)
	if err != nil {
		return nil, err
	}
	s.record(ctx, audit.EventInvitesRefreshed, user, nil, goal, c.ID, "")
	return c, nil
}

func (s *Service) record(ctx context.Context, eventType string, actor primitive.ObjectID, target *primitive.ObjectID, goal, cohortID primitive.ObjectID, detail string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, audit.Event{
		Category:  audit.CategoryMembership,
		EventType: eventType,
		Actor:     actor,
		Target:    target,
		Goal:      goal,
		Cohort:    cohortID,
		Detail:    detail,
	})
}
