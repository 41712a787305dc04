package service

import (
	"context"
	"time"

	"shop-backoffice/internal/models"
	"shop-backoffice/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventSink publishes domain events to the audit/event stream. The Kafka
// producer implements it.
type EventSink interface {
	PublishEvent(ctx context.Context, key string, event interface{}) error
}

// AuditRecorder emits fire-and-forget audit records after mutating
// operations. Publish failures are logged and swallowed; they must never
// affect the operation that triggered them.
type AuditRecorder struct {
	sink   EventSink
	logger *zap.Logger
}

// NewAuditRecorder creates a new audit recorder. A nil sink disables
// recording (used in tests).
func NewAuditRecorder(sink EventSink) *AuditRecorder {
	return &AuditRecorder{
		sink:   sink,
		logger: util.GetLogger(),
	}
}

// Record emits one audit entry
func (a *AuditRecorder) Record(ctx context.Context, actor, action, entity string, entityID int64) {
	if a == nil || a.sink == nil {
		return
	}

	event := &models.AuditRecordEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeAuditRecord,
			Timestamp: time.Now(),
		},
		Actor:    actor,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
	}

	if err := a.sink.PublishEvent(ctx, "audit", event); err != nil {
		a.logger.Warn("Failed to publish audit record",
			zap.String("action", action),
			zap.String("entity", entity),
			zap.Int64("entity_id", entityID),
			zap.Error(err))
	}
}

// publish sends a domain event, logging and swallowing failures the same
// way audit records are handled.
func publish(ctx context.Context, sink EventSink, logger *zap.Logger, key string, event interface{}) {
	if sink == nil {
		return
	}
	if err := sink.PublishEvent(ctx, key, event); err != nil {
		logger.Warn("Failed to publish event", zap.String("key", key), zap.Error(err))
	}
}
