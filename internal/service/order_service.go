package service

import (
	"context"
	"fmt"
	"time"

	"shop-backoffice/internal/models"
	"shop-backoffice/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderService handles direct order creation and the order status state
// machine.
type OrderService struct {
	orders  OrderStore
	catalog CatalogStore
	pricing *PricingResolver
	sink    EventSink
	audit   *AuditRecorder
	logger  *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	orders OrderStore,
	catalog CatalogStore,
	pricing *PricingResolver,
	sink EventSink,
	audit *AuditRecorder,
) *OrderService {
	return &OrderService{
		orders:  orders,
		catalog: catalog,
		pricing: pricing,
		sink:    sink,
		audit:   audit,
		logger:  util.GetLogger(),
	}
}

// CreateOrderRequest is a directly-supplied order (back-office or guest)
type CreateOrderRequest struct {
	UserID          *int64               `json:"user_id,omitempty"`
	CustomerName    string               `json:"customer_name,omitempty"`
	CustomerEmail   string               `json:"customer_email,omitempty"`
	CustomerPhone   string               `json:"customer_phone,omitempty"`
	ShippingAddress string               `json:"shipping_address"`
	PaymentMethod   string               `json:"payment_method,omitempty"`
	Details         []OrderDetailRequest `json:"details" binding:"required,min=1"`
}

// OrderDetailRequest is one line of a direct order. A missing or zero price
// means "use the product's effective price at creation time".
type OrderDetailRequest struct {
	ProductID int64            `json:"product_id" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required,min=1"`
	Price     *decimal.Decimal `json:"price,omitempty"`
}

// CreateOrder creates an order from supplied details. Details without an
// explicit price capture the product's effective price, preserving decimal
// precision. Stock is not touched until the order completes.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest, actor string) (*models.Order, []models.OrderDetail, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	if len(req.Details) == 0 {
		return nil, nil, models.Validation("order must have at least one detail")
	}

	total := decimal.Zero
	details := make([]models.OrderDetail, 0, len(req.Details))

	for _, item := range req.Details {
		if item.Quantity <= 0 {
			return nil, nil, models.Validation("quantity must be a positive integer")
		}

		product, err := s.catalog.GetProductByID(ctx, item.ProductID)
		if err != nil {
			return nil, nil, err
		}

		price := decimal.Zero
		if item.Price != nil {
			price = *item.Price
		}
		if price.IsZero() {
			price, err = s.pricing.EffectivePrice(ctx, product)
			if err != nil {
				return nil, nil, err
			}
		}

		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		details = append(details, models.OrderDetail{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     price,
		})
	}

	order := &models.Order{
		UserID:          req.UserID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
		TotalAmount:     total,
		Status:          models.OrderStatusPending,
	}

	var payment *models.Payment
	if req.PaymentMethod != "" {
		payment = &models.Payment{
			Method:        req.PaymentMethod,
			Status:        models.PaymentStatusPending,
			TransactionID: newTransactionID(),
		}
	}

	if err := s.orders.CreateOrder(ctx, order, details, payment); err != nil {
		util.OrdersFailedTotal.WithLabelValues("create_write").Inc()
		return nil, nil, fmt.Errorf("failed to create order: %w", err)
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.String("total_amount", total.String()))

	publish(ctx, s.sink, s.logger, fmt.Sprintf("order-%d", order.ID), &models.OrderCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCreated,
			Timestamp: time.Now(),
		},
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: total.String(),
		ItemCount:   len(details),
	})
	s.audit.Record(ctx, actor, "create order", "orders", order.ID)

	return order, details, nil
}

// GetOrder retrieves an order with its details and payment
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*models.Order, []models.OrderDetail, *models.Payment, error) {
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, nil, nil, err
	}

	details, err := s.orders.GetOrderDetails(ctx, orderID)
	if err != nil {
		return nil, nil, nil, err
	}

	payment, err := s.orders.GetPaymentByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, nil, err
	}

	return order, details, payment, nil
}

// ListUserOrders retrieves a user's orders, newest first
func (s *OrderService) ListUserOrders(ctx context.Context, userID int64) ([]models.Order, error) {
	return s.orders.GetOrdersByUserID(ctx, userID)
}

// UpdateStatus moves an order to a new status. Completion applies stock
// exactly once per order; cancellation reverses it and cancels the payment.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, to, actor string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateStatus")
	defer span.End()

	before, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	from := before.Status

	order, err := s.orders.TransitionOrder(ctx, orderID, to)
	if err != nil {
		return nil, err
	}
	if from == order.Status {
		return order, nil
	}

	switch order.Status {
	case models.OrderStatusCompleted:
		util.OrdersCompletedTotal.Inc()
	case models.OrderStatusCancelled:
		util.OrdersCancelledTotal.Inc()
	}
	s.logger.Info("Order status changed",
		zap.Int64("order_id", orderID),
		zap.String("from", from),
		zap.String("to", order.Status))

	publish(ctx, s.sink, s.logger, fmt.Sprintf("order-%d", orderID), &models.OrderStatusEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderStatus,
			Timestamp: time.Now(),
		},
		OrderID: orderID,
		From:    from,
		To:      order.Status,
	})
	s.audit.Record(ctx, actor, fmt.Sprintf("order status %s -> %s", from, order.Status), "orders", orderID)

	return order, nil
}

// Cancel cancels a customer's own order. Permitted only while the order is
// Pending or Processing; the ownership check rejects other users' orders.
func (s *OrderService) Cancel(ctx context.Context, orderID, userID int64) (*models.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID == nil || *order.UserID != userID {
		return nil, fmt.Errorf("%w: order %d does not belong to user %d",
			models.ErrForbidden, orderID, userID)
	}

	return s.UpdateStatus(ctx, orderID, models.OrderStatusCancelled, fmt.Sprintf("user:%d", userID))
}
