package service

import (
	"context"
	"fmt"
	"time"

	"shop-backoffice/internal/models"
	"shop-backoffice/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InventoryLedger applies stock mutations. The underlying store adjustment
// clamps a sale to the available quantity; the manual endpoint adds a hard
// pre-check on top so an admin cannot silently oversell.
type InventoryLedger struct {
	store  InventoryStore
	sink   EventSink
	audit  *AuditRecorder
	logger *zap.Logger
}

// NewInventoryLedger creates a new inventory ledger
func NewInventoryLedger(store InventoryStore, sink EventSink, audit *AuditRecorder) *InventoryLedger {
	return &InventoryLedger{
		store:  store,
		sink:   sink,
		audit:  audit,
		logger: util.GetLogger(),
	}
}

// Apply adjusts stock by delta with ledger semantics: a sale (delta < 0) is
// clamped to what is available, a restock (delta > 0) is added in full.
func (l *InventoryLedger) Apply(ctx context.Context, productID int64, delta int) (*models.Product, error) {
	return l.store.AdjustStock(ctx, productID, delta)
}

// ManualAdjust handles the admin inventory endpoint. Unlike the raw ledger
// it rejects a sale that exceeds availability instead of clamping.
func (l *InventoryLedger) ManualAdjust(ctx context.Context, productID int64, delta int, actor string) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "InventoryLedger.ManualAdjust")
	defer span.End()

	if delta == 0 {
		return nil, models.Validation("quantity must be non-zero")
	}

	if delta < 0 {
		product, err := l.store.GetProductByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		if product.StockQuantity < -delta {
			return nil, fmt.Errorf("%w: only %d in stock",
				models.ErrInsufficientStock, product.StockQuantity)
		}
	}

	product, err := l.store.AdjustStock(ctx, productID, delta)
	if err != nil {
		return nil, err
	}

	util.StockAdjustmentsTotal.Inc()
	l.logger.Info("Stock adjusted",
		zap.Int64("product_id", productID),
		zap.Int("delta", delta),
		zap.Int("stock_quantity", product.StockQuantity))

	publish(ctx, l.sink, l.logger, fmt.Sprintf("product-%d", productID), &models.StockAdjustedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeStockAdjusted,
			Timestamp: time.Now(),
		},
		ProductID: productID,
		Delta:     delta,
		NewStock:  product.StockQuantity,
	})
	l.audit.Record(ctx, actor, fmt.Sprintf("adjust stock by %d", delta), "products", productID)

	return product, nil
}
