package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"shop-backoffice/internal/models"
	"shop-backoffice/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventHandler routes stream messages to typed handlers
type EventHandler struct {
	onAuditRecord   func(context.Context, *models.AuditRecordEvent) error
	onOrderCreated  func(context.Context, *models.OrderCreatedEvent) error
	onOrderStatus   func(context.Context, *models.OrderStatusEvent) error
	onStockAdjusted func(context.Context, *models.StockAdjustedEvent) error
	logger          *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnAuditRecord registers a handler for AuditRecord events
func (eh *EventHandler) OnAuditRecord(handler func(context.Context, *models.AuditRecordEvent) error) {
	eh.onAuditRecord = handler
}

// OnOrderCreated registers a handler for OrderCreated events
func (eh *EventHandler) OnOrderCreated(handler func(context.Context, *models.OrderCreatedEvent) error) {
	eh.onOrderCreated = handler
}

// OnOrderStatus registers a handler for OrderStatus events
func (eh *EventHandler) OnOrderStatus(handler func(context.Context, *models.OrderStatusEvent) error) {
	eh.onOrderStatus = handler
}

// OnStockAdjusted registers a handler for StockAdjusted events
func (eh *EventHandler) OnStockAdjusted(handler func(context.Context, *models.StockAdjustedEvent) error) {
	eh.onStockAdjusted = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	eh.logger.Debug("Handling event",
		zap.String("type", baseEvent.EventType),
		zap.String("id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeAuditRecord:
		if eh.onAuditRecord != nil {
			var event models.AuditRecordEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal AuditRecord event: %w", err)
			}
			return eh.onAuditRecord(ctx, &event)
		}

	case models.EventTypeOrderCreated:
		if eh.onOrderCreated != nil {
			var event models.OrderCreatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderCreated event: %w", err)
			}
			return eh.onOrderCreated(ctx, &event)
		}

	case models.EventTypeOrderStatus:
		if eh.onOrderStatus != nil {
			var event models.OrderStatusEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderStatus event: %w", err)
			}
			return eh.onOrderStatus(ctx, &event)
		}

	case models.EventTypeStockAdjusted:
		if eh.onStockAdjusted != nil {
			var event models.StockAdjustedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal StockAdjusted event: %w", err)
			}
			return eh.onStockAdjusted(ctx, &event)
		}

	default:
		eh.logger.Warn("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}
