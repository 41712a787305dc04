package models

import "time"

// Event types published to the audit/event stream
const (
	EventTypeOrderCreated  = "ORDER_CREATED"
	EventTypeOrderStatus   = "ORDER_STATUS_CHANGED"
	EventTypeStockAdjusted = "STOCK_ADJUSTED"
	EventTypeAuditRecord   = "AUDIT_RECORD"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderCreatedEvent published when an order is created (checkout or direct)
type OrderCreatedEvent struct {
	BaseEvent
	OrderID     int64  `json:"order_id"`
	UserID      *int64 `json:"user_id,omitempty"`
	TotalAmount string `json:"total_amount"`
	ItemCount   int    `json:"item_count"`
}

// OrderStatusEvent published on a status transition
type OrderStatusEvent struct {
	BaseEvent
	OrderID int64  `json:"order_id"`
	From    string `json:"from"`
	To      string `json:"to"`
}

// StockAdjustedEvent published on a manual inventory adjustment
type StockAdjustedEvent struct {
	BaseEvent
	ProductID int64 `json:"product_id"`
	Delta     int   `json:"delta"`
	NewStock  int   `json:"new_stock"`
}

// AuditRecordEvent carries a fire-and-forget audit entry to the worker that
// persists it. Losing one must never affect the operation that emitted it.
type AuditRecordEvent struct {
	BaseEvent
	Actor    string `json:"actor"`
	Action   string `json:"action"`
	Entity   string `json:"entity"`
	EntityID int64  `json:"entity_id"`
}
