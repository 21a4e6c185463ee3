// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event categories
const (
	CategoryMembership = "membership"
)

// Membership event types
const (
	EventCohortCreated    = "cohort_created"
	EventCohortJoined     = "cohort_joined"
	EventCohortLeft       = "cohort_left"
	EventMemberKicked     = "member_kicked"
	EventTeamCreated      = "team_created"
	EventInvitesRefreshed = "invites_refreshed"
)

// Event is one audit record. Actor is the user who performed the
// operation; Target is set only when the operation affects another user
// (kick).
type Event struct {
	ID        string              `bson:"_id" json:"id"`
	Category  string              `bson:"category" json:"category"`
	EventType string              `bson:"event_type" json:"event_type"`
	Actor     primitive.ObjectID  `bson:"actor" json:"actor"`
	Target    *primitive.ObjectID `bson:"target,omitempty" json:"target,omitempty"`
	Goal      primitive.ObjectID  `bson:"goal" json:"goal"`
	Cohort    primitive.ObjectID  `bson:"cohort" json:"cohort"`
	Detail    string              `bson:"detail,omitempty" json:"detail,omitempty"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("cohort_audit")}
}

// Insert writes one event. A missing ID or timestamp is filled in.
func (s *Store) Insert(ctx context.Context, e Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, e)
	return err
}

// ListByGoal returns the most recent events for a goal, newest first.
func (s *Store) ListByGoal(ctx context.Context, goal primitive.ObjectID, limit int64) ([]Event, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{"goal": goal}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
