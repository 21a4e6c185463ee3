// internal/app/store/cohorts/cohortstore.go
package cohortstore

// Consistency contract: every write below is one FindOneAndUpdate — a
// conditional update over a single cohort document, with upsert where
// the operation may create the cohort, returning the post-update
// document. That single-document atomicity is what keeps two concurrent
// joiners from taking the same member slot.

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/cohorthub/internal/app/cohort"
	"github.com/dalemusser/cohorthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var _ cohort.Repository = (*Store)(nil)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("cohorts")}
}

func (s *Store) FindForUser(ctx context.Context, goal, user primitive.ObjectID) (*models.Cohort, error) {
	var c models.Cohort
	err := s.c.FindOne(ctx, bson.M{
		"goal":    goal,
		"members": bson.M{"$elemMatch": bson.M{"user": user}},
	}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find cohort for user: %w", err)
	}
	return &c, nil
}

func (s *Store) FindByInviteCode(ctx context.Context, goal primitive.ObjectID, code string) (*models.Cohort, error) {
	var c models.Cohort
	err := s.c.FindOne(ctx, bson.M{
		"goal":  goal,
		"teams": bson.M{"$elemMatch": bson.M{"invite_code": code}},
	}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find cohort by invite code: %w", err)
	}
	return &c, nil
}

func (s *Store) FindExpandable(ctx context.Context, goal primitive.ObjectID, maxMembers int) (*models.Cohort, error) {
	var c models.Cohort
	err := s.c.FindOne(ctx, bson.M{
		"goal":                   goal,
		"members_max":            bson.M{"$lt": maxMembers},
		"member_slots_remaining": bson.M{"$gt": 0},
	}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find expandable cohort: %w", err)
	}
	return &c, nil
}

// ClaimSlot claims one slot for user, or creates a cohort via upsert.
//
// The "members.user != user" clause keeps a concurrent duplicate join
// from pushing the same user into a cohort twice; the worst case for
// racing duplicates is an extra cohort, never a double-claimed slot.
//
// On the upsert branch the push and decrement apply to the fresh
// document as well, so member_slots_remaining comes back as -1. The
// caller repairs it with SetSlotsRemaining; until then the cohort
// filters as full, which under-uses capacity but never exceeds it.
func (s *Store) ClaimSlot(ctx context.Context, goal, user primitive.ObjectID, seed cohort.Seed) (*models.Cohort, error) {
	now := time.Now().UTC()

	filter := bson.M{
		"goal":                   goal,
		"member_slots_remaining": bson.M{"$gt": 0},
		"members.user":           bson.M{"$ne": user},
	}
	update := bson.M{
		"$push": bson.M{"members": bson.M{"user": user, "team_index": 0}},
		"$inc":  bson.M{"member_slots_remaining": -1},
		// goal is an equality clause in the filter, so the upserted
		// document inherits it without a $setOnInsert.
		"$setOnInsert": bson.M{
			"teams":       seed.Teams,
			"members_max": seed.MembersMax,
			"created_at":  now,
		},
		"$set": bson.M{"updated_at": now},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var c models.Cohort
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&c); err != nil {
		return nil, fmt.Errorf("claim slot: %w", err)
	}
	return &c, nil
}

func (s *Store) JoinTeam(ctx context.Context, cohortID, user primitive.ObjectID, teamIndex int) (*models.Cohort, error) {
	filter := bson.M{
		"_id":                    cohortID,
		"member_slots_remaining": bson.M{"$gt": 0},
	}
	update := bson.M{
		"$push": bson.M{"members": bson.M{"user": user, "team_index": teamIndex}},
		"$inc":  bson.M{"member_slots_remaining": -1},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var c models.Cohort
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, cohort.ErrNoMatch
	}
	if err != nil {
		return nil, fmt.Errorf("join team: %w", err)
	}
	return &c, nil
}

func (s *Store) AppendTeam(ctx context.Context, cohortID, user primitive.ObjectID, team models.CohortTeam, teamIndex, perTeam int) (*models.Cohort, error) {
	// The $size clause pins the team list to the length the caller read
	// teamIndex from; if another writer appended a team or took the
	// last slot in between, the filter misses and no stale index is
	// ever written.
	filter := bson.M{
		"_id":                    cohortID,
		"member_slots_remaining": bson.M{"$gt": 0},
		"teams":                  bson.M{"$size": teamIndex},
	}
	update := bson.M{
		"$push": bson.M{
			"members": bson.M{"user": user, "team_index": teamIndex},
			"teams":   team,
		},
		"$inc": bson.M{
			"members_max":            perTeam,
			"member_slots_remaining": perTeam - 1,
		},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var c models.Cohort
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, cohort.ErrNoMatch
	}
	if err != nil {
		return nil, fmt.Errorf("append team: %w", err)
	}
	return &c, nil
}

func (s *Store) InsertCohort(ctx context.Context, goal, user primitive.ObjectID, team models.CohortTeam, perTeam int) (*models.Cohort, error) {
	now := time.Now().UTC()
	c := models.Cohort{
		ID:                   primitive.NewObjectID(),
		Goal:                 goal,
		Teams:                []models.CohortTeam{team},
		MembersMax:           perTeam,
		MemberSlotsRemaining: perTeam - 1,
		Members:              []models.CohortMember{{User: user, TeamIndex: 0}},
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return nil, fmt.Errorf("insert cohort: %w", err)
	}
	return &c, nil
}

// RemoveMember requires current membership in its filter, so the slot
// increment can never fire without a matching pull.
func (s *Store) RemoveMember(ctx context.Context, cohortID, user primitive.ObjectID) (*models.Cohort, error) {
	filter := bson.M{
		"_id":          cohortID,
		"members.user": user,
	}
	update := bson.M{
		"$pull": bson.M{"members": bson.M{"user": user}},
		"$inc":  bson.M{"member_slots_remaining": 1},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var c models.Cohort
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, cohort.ErrNoMatch
	}
	if err != nil {
		return nil, fmt.Errorf("remove member: %w", err)
	}
	return &c, nil
}

func (s *Store) SetSlotsRemaining(ctx context.Context, cohortID primitive.ObjectID, n int) (*models.Cohort, error) {
	update := bson.M{"$set": bson.M{
		"member_slots_remaining": n,
		"updated_at":             time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var c models.Cohort
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": cohortID}, update, opts).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, cohort.ErrNoMatch
	}
	if err != nil {
		return nil, fmt.Errorf("set slots remaining: %w", err)
	}
	return &c, nil
}

// SetTeamIndexes persists a rebalance diff as positional sets, e.g.
// {"members.5.team_index": 1, "members.11.team_index": 2}.
func (s *Store) SetTeamIndexes(ctx context.Context, cohortID primitive.ObjectID, changes map[int]int) (*models.Cohort, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	for i, team := range changes {
		set[fmt.Sprintf("members.%d.team_index", i)] = team
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var c models.Cohort
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": cohortID}, bson.M{"$set": set}, opts).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, cohort.ErrNoMatch
	}
	if err != nil {
		return nil, fmt.Errorf("set team indexes: %w", err)
	}
	return &c, nil
}

func (s *Store) SetInviteCodes(ctx context.Context, cohortID primitive.ObjectID, changes map[int]string) (*models.Cohort, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	for i, code := range changes {
		set[fmt.Sprintf("teams.%d.invite_code", i)] = code
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var c models.Cohort
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": cohortID}, bson.M{"$set": set}, opts).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, cohort.ErrNoMatch
	}
	if err != nil {
		return nil, fmt.Errorf("set invite codes: %w", err)
	}
	return &c, nil
}
