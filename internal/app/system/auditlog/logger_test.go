// internal/app/system/auditlog/logger_test.go
package auditlog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/cohorthub/internal/app/store/audit"
	"github.com/dalemusser/cohorthub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type memRecorder struct {
	events []audit.Event
	err    error
}

func (m *memRecorder) Insert(_ context.Context, e audit.Event) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

func TestRecordPersistsEvent(t *testing.T) {
	rec := &memRecorder{}
	logger := auditlog.New(rec, zap.NewNop())

	target := primitive.NewObjectID()
	logger.Record(context.Background(), audit.Event{
		Category:  audit.CategoryMembership,
		EventType: audit.EventMemberKicked,
		Actor:     primitive.NewObjectID(),
		Target:    &target,
		Goal:      primitive.NewObjectID(),
		Cohort:    primitive.NewObjectID(),
	})

	if len(rec.events) != 1 {
		t.Fatalf("recorded events = %d, want 1", len(rec.events))
	}
	if rec.events[0].EventType != audit.EventMemberKicked {
		t.Errorf("event_type = %s, want %s", rec.events[0].EventType, audit.EventMemberKicked)
	}
}

func TestRecordSwallowsStoreErrors(t *testing.T) {
	rec := &memRecorder{err: errors.New("insert failed")}
	logger := auditlog.New(rec, zap.NewNop())

	// Must not panic or propagate the failure.
	logger.Record(context.Background(), audit.Event{
		Category:  audit.CategoryMembership,
		EventType: audit.EventCohortJoined,
		Actor:     primitive.NewObjectID(),
		Goal:      primitive.NewObjectID(),
		Cohort:    primitive.NewObjectID(),
	})
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *auditlog.Logger
	logger.Record(context.Background(), audit.Event{
		EventType: audit.EventCohortJoined,
	})
}

func TestZapOnlyMode(t *testing.T) {
	logger := auditlog.New(nil, zap.NewNop())
	logger.Record(context.Background(), audit.Event{
		Category:  audit.CategoryMembership,
		EventType: audit.EventCohortCreated,
		Actor:     primitive.NewObjectID(),
		Goal:      primitive.NewObjectID(),
		Cohort:    primitive.NewObjectID(),
	})
}
