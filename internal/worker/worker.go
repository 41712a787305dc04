package worker

import (
	"context"

	"shop-backoffice/internal/broker"
	"shop-backoffice/internal/models"
	"shop-backoffice/internal/store"
	"shop-backoffice/internal/util"

	"go.uber.org/zap"
)

// AuditWorker consumes the event stream, persists an audit_logs row per
// audit record and logs the remaining domain events. Persist failures are
// logged and the message is still committed; the audit trail is best effort
// and must not wedge the consumer group.
type AuditWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	store        *store.Store
	logger       *zap.Logger
}

// NewAuditWorker creates a new audit worker
func NewAuditWorker(consumer *broker.Consumer, st *store.Store) *AuditWorker {
	w := &AuditWorker{
		consumer: consumer,
		store:    st,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnAuditRecord(w.handleAuditRecord)
	eventHandler.OnOrderCreated(w.handleOrderCreated)
	eventHandler.OnOrderStatus(w.handleOrderStatus)
	eventHandler.OnStockAdjusted(w.handleStockAdjusted)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *AuditWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting audit worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *AuditWorker) Stop() error {
	w.logger.Info("Stopping audit worker")
	return w.consumer.Close()
}

func (w *AuditWorker) handleAuditRecord(ctx context.Context, event *models.AuditRecordEvent) error {
	entry := &models.AuditLog{
		Actor:    event.Actor,
		Action:   event.Action,
		Entity:   event.Entity,
		EntityID: event.EntityID,
	}
	if err := w.store.InsertAuditLog(ctx, entry); err != nil {
		w.logger.Error("Failed to persist audit entry",
			zap.String("action", entry.Action),
			zap.String("entity", entry.Entity),
			zap.Int64("entity_id", entry.EntityID),
			zap.Error(err))
	}
	return nil
}

func (w *AuditWorker) handleOrderCreated(_ context.Context, event *models.OrderCreatedEvent) error {
	w.logger.Info("Order created",
		zap.Int64("order_id", event.OrderID),
		zap.String("total_amount", event.TotalAmount),
		zap.Int("item_count", event.ItemCount))
	return nil
}

func (w *AuditWorker) handleOrderStatus(_ context.Context, event *models.OrderStatusEvent) error {
	w.logger.Info("Order status changed",
		zap.Int64("order_id", event.OrderID),
		zap.String("from", event.From),
		zap.String("to", event.To))
	return nil
}

func (w *AuditWorker) handleStockAdjusted(_ context.Context, event *models.StockAdjustedEvent) error {
	w.logger.Info("Stock adjusted",
		zap.Int64("product_id", event.ProductID),
		zap.Int("delta", event.Delta),
		zap.Int("new_stock", event.NewStock))
	return nil
}
