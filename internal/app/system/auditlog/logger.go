// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"

	"github.com/dalemusser/cohorthub/internal/app/store/audit"
	"go.uber.org/zap"
)

// Recorder persists audit events. *audit.Store satisfies it; tests use
// an in-memory fake.
type Recorder interface {
	Insert(ctx context.Context, e audit.Event) error
}

// Logger writes membership audit events to structured logs and, when a
// Recorder is configured, to storage. Audit failures are logged and
// swallowed: auditing never fails the operation being audited.
type Logger struct {
	rec    Recorder
	zapLog *zap.Logger
}

// New creates an audit Logger. rec may be nil to log to zap only.
func New(rec Recorder, zapLog *zap.Logger) *Logger {
	return &Logger{rec: rec, zapLog: zapLog}
}

// Record logs one event.
func (l *Logger) Record(ctx context.Context, e audit.Event) {
	if l == nil {
		return
	}

	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", e.Category),
		zap.String("event_type", e.EventType),
		zap.String("actor", e.Actor.Hex()),
		zap.String("goal", e.Goal.Hex()),
		zap.String("cohort", e.Cohort.Hex()),
	}
	if e.Target != nil {
		fields = append(fields, zap.String("target", e.Target.Hex()))
	}
	if e.Detail != "" {
		fields = append(fields, zap.String("detail", e.Detail))
	}
	l.zapLog.Info("audit event", fields...)

	if l.rec == nil {
		return
	}
	if err := l.rec.Insert(ctx, e); err != nil {
		l.zapLog.Error("audit event store failed",
			zap.String("event_type", e.EventType), zap.Error(err))
	}
}
