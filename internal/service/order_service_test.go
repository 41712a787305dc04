package service

import (
	"context"
	"errors"
	"testing"

	"shop-backoffice/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrderService(orders *fakeOrderStore, catalog *fakeCatalogStore, promos *fakePromotionStore, sink EventSink) *OrderService {
	return NewOrderService(orders, catalog, NewPricingResolver(promos), sink, NewAuditRecorder(sink))
}

func TestCreateOrderUsesEffectivePriceWhenMissing(t *testing.T) {
	orders := newFakeOrders()
	catalog := newFakeCatalog(&models.Product{ID: 10, Price: decimal.NewFromInt(100), StockQuantity: 5})
	promos := newFakePromotions()
	promos.byProduct[10] = []models.Promotion{{ID: 1, DiscountPercentage: 10}}
	svc := newTestOrderService(orders, catalog, promos, nil)

	order, details, err := svc.CreateOrder(context.Background(), &CreateOrderRequest{
		CustomerName: "walk-in",
		Details:      []OrderDetailRequest{{ProductID: 10, Quantity: 2}},
	}, "admin:1")
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.True(t, details[0].Price.Equal(decimal.NewFromInt(90)), "got %s", details[0].Price)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(180)), "got %s", order.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.False(t, order.StockApplied)
}

func TestCreateOrderHonorsExplicitPrice(t *testing.T) {
	orders := newFakeOrders()
	catalog := newFakeCatalog(&models.Product{ID: 10, Price: decimal.NewFromInt(100)})
	svc := newTestOrderService(orders, catalog, newFakePromotions(), nil)

	price := decimal.NewFromInt(85)
	order, details, err := svc.CreateOrder(context.Background(), &CreateOrderRequest{
		Details: []OrderDetailRequest{{ProductID: 10, Quantity: 1, Price: &price}},
	}, "admin:1")
	require.NoError(t, err)
	assert.True(t, details[0].Price.Equal(price))
	assert.True(t, order.TotalAmount.Equal(price))
}

func TestCreateOrderValidation(t *testing.T) {
	orders := newFakeOrders()
	catalog := newFakeCatalog(&models.Product{ID: 10, Price: decimal.NewFromInt(100)})
	svc := newTestOrderService(orders, catalog, newFakePromotions(), nil)
	ctx := context.Background()

	_, _, err := svc.CreateOrder(ctx, &CreateOrderRequest{}, "admin:1")
	assert.True(t, errors.Is(err, models.ErrValidation))

	_, _, err = svc.CreateOrder(ctx, &CreateOrderRequest{
		Details: []OrderDetailRequest{{ProductID: 10, Quantity: 0}},
	}, "admin:1")
	assert.True(t, errors.Is(err, models.ErrValidation))

	_, _, err = svc.CreateOrder(ctx, &CreateOrderRequest{
		Details: []OrderDetailRequest{{ProductID: 404, Quantity: 1}},
	}, "admin:1")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestCreateOrderWithPayment(t *testing.T) {
	orders := newFakeOrders()
	catalog := newFakeCatalog(&models.Product{ID: 10, Price: decimal.NewFromInt(100)})
	svc := newTestOrderService(orders, catalog, newFakePromotions(), nil)

	order, _, err := svc.CreateOrder(context.Background(), &CreateOrderRequest{
		PaymentMethod: "transfer",
		Details:       []OrderDetailRequest{{ProductID: 10, Quantity: 1}},
	}, "admin:1")
	require.NoError(t, err)

	payment := orders.payments[order.ID]
	require.NotNil(t, payment)
	assert.Equal(t, "transfer", payment.Method)
	assert.Contains(t, payment.TransactionID, "TXN-")
}

func TestUpdateStatusPublishesEvent(t *testing.T) {
	orders := newFakeOrders()
	sink := &fakeSink{}
	svc := newTestOrderService(orders, newFakeCatalog(), newFakePromotions(), sink)
	ctx := context.Background()

	orders.orders[1] = &models.Order{ID: 1, Status: models.OrderStatusPending}

	order, err := svc.UpdateStatus(ctx, 1, models.OrderStatusProcessing, "admin:1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)

	var statusEvents []*models.OrderStatusEvent
	for _, event := range sink.events {
		if e, ok := event.(*models.OrderStatusEvent); ok {
			statusEvents = append(statusEvents, e)
		}
	}
	require.Len(t, statusEvents, 1)
	assert.Equal(t, models.OrderStatusPending, statusEvents[0].From)
	assert.Equal(t, models.OrderStatusProcessing, statusEvents[0].To)
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	orders := newFakeOrders()
	svc := newTestOrderService(orders, newFakeCatalog(), newFakePromotions(), nil)

	orders.orders[1] = &models.Order{ID: 1, Status: models.OrderStatusCompleted}

	_, err := svc.UpdateStatus(context.Background(), 1, models.OrderStatusPending, "admin:1")
	assert.True(t, errors.Is(err, models.ErrInvalidTransition))
}

func TestUpdateStatusSameStatusIsNoOp(t *testing.T) {
	orders := newFakeOrders()
	sink := &fakeSink{}
	svc := newTestOrderService(orders, newFakeCatalog(), newFakePromotions(), sink)

	orders.orders[1] = &models.Order{ID: 1, Status: models.OrderStatusProcessing}

	order, err := svc.UpdateStatus(context.Background(), 1, models.OrderStatusProcessing, "admin:1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)
	assert.Empty(t, sink.events)
}

func TestCancelOwnOrder(t *testing.T) {
	orders := newFakeOrders()
	svc := newTestOrderService(orders, newFakeCatalog(), newFakePromotions(), nil)

	userID := int64(1)
	orders.orders[1] = &models.Order{ID: 1, UserID: &userID, Status: models.OrderStatusPending, StockApplied: true}

	order, err := svc.Cancel(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)
	// The checkout sale is reversed on cancellation.
	assert.False(t, order.StockApplied)
}

func TestCompleteCheckoutOrderKeepsStockFlag(t *testing.T) {
	orders := newFakeOrders()
	svc := newTestOrderService(orders, newFakeCatalog(), newFakePromotions(), nil)

	// Checkout already decremented stock for this order.
	orders.orders[1] = &models.Order{ID: 1, Status: models.OrderStatusPending, StockApplied: true}

	order, err := svc.UpdateStatus(context.Background(), 1, models.OrderStatusCompleted, "admin:1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, order.Status)
	assert.True(t, order.StockApplied)
}

func TestCancelSomeoneElsesOrder(t *testing.T) {
	orders := newFakeOrders()
	svc := newTestOrderService(orders, newFakeCatalog(), newFakePromotions(), nil)

	userID := int64(1)
	orders.orders[1] = &models.Order{ID: 1, UserID: &userID, Status: models.OrderStatusPending}

	_, err := svc.Cancel(context.Background(), 1, 2)
	assert.True(t, errors.Is(err, models.ErrForbidden))
}

func TestCancelAlreadyCancelled(t *testing.T) {
	orders := newFakeOrders()
	svc := newTestOrderService(orders, newFakeCatalog(), newFakePromotions(), nil)

	userID := int64(1)
	orders.orders[1] = &models.Order{ID: 1, UserID: &userID, Status: models.OrderStatusCancelled}

	_, err := svc.Cancel(context.Background(), 1, 1)
	assert.True(t, errors.Is(err, models.ErrInvalidTransition))
}

func TestCancelInTransitOrder(t *testing.T) {
	orders := newFakeOrders()
	svc := newTestOrderService(orders, newFakeCatalog(), newFakePromotions(), nil)

	userID := int64(1)
	orders.orders[1] = &models.Order{ID: 1, UserID: &userID, Status: models.OrderStatusInTransit}

	_, err := svc.Cancel(context.Background(), 1, 1)
	assert.True(t, errors.Is(err, models.ErrInvalidTransition))
}
