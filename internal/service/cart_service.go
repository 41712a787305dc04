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

// CartService maintains per-user unattached cart lines and converts them
// into orders.
type CartService struct {
	carts        CartStore
	catalog      CatalogStore
	users        UserStore
	pricing      *PricingResolver
	sink         EventSink
	audit        *AuditRecorder
	shippingCost decimal.Decimal
	logger       *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(
	carts CartStore,
	catalog CatalogStore,
	users UserStore,
	pricing *PricingResolver,
	sink EventSink,
	audit *AuditRecorder,
	shippingCost decimal.Decimal,
) *CartService {
	return &CartService{
		carts:        carts,
		catalog:      catalog,
		users:        users,
		pricing:      pricing,
		sink:         sink,
		audit:        audit,
		shippingCost: shippingCost,
		logger:       util.GetLogger(),
	}
}

// AddItem puts quantity units of a product into the user's cart. An
// existing unattached line for the same product is merged, and the merged
// quantity is validated against current stock so repeated adds cannot
// oversell. The merge itself happens in the store under a product row lock,
// so concurrent adds serialize onto one line.
func (s *CartService) AddItem(ctx context.Context, userID, productID int64, quantity int) (*models.CartLine, error) {
	ctx, span := util.StartSpan(ctx, "CartService.AddItem")
	defer span.End()

	if quantity <= 0 {
		return nil, models.Validation("quantity must be a positive integer")
	}
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	line, err := s.carts.AddCartLine(ctx, userID, productID, quantity)
	if err != nil {
		return nil, err
	}

	util.CartAddsTotal.Inc()
	s.audit.Record(ctx, fmt.Sprintf("user:%d", userID), "add to cart", "cart_lines", line.ID)
	return line, nil
}

// UpdateItem changes the quantity of an unattached cart line
func (s *CartService) UpdateItem(ctx context.Context, lineID int64, quantity int) (*models.CartLine, error) {
	if quantity <= 0 {
		return nil, models.Validation("quantity must be greater than zero")
	}

	line, err := s.carts.GetCartLine(ctx, lineID)
	if err != nil {
		return nil, err
	}
	if line.OrderID != nil {
		return nil, models.NotFoundf("cart line %d", lineID)
	}

	product, err := s.catalog.GetProductByID(ctx, line.ProductID)
	if err != nil {
		return nil, err
	}
	if quantity > product.StockQuantity {
		return nil, fmt.Errorf("%w: only %d in stock",
			models.ErrInsufficientStock, product.StockQuantity)
	}

	if err := s.carts.UpdateCartLineQuantity(ctx, lineID, quantity); err != nil {
		return nil, err
	}
	line.Quantity = quantity
	return line, nil
}

// RemoveItem deletes a cart line
func (s *CartService) RemoveItem(ctx context.Context, lineID int64) error {
	return s.carts.DeleteCartLine(ctx, lineID)
}

// CartView is a cart listing with its price summary
type CartView struct {
	Lines   []CartLineView `json:"cart_items"`
	Summary CartSummary    `json:"cart_summary"`
}

// CartLineView is a cart line joined with its product
type CartLineView struct {
	models.CartLine
	ProductName     string          `json:"product_name"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
}

// CartSummary totals a cart before and after discounts
type CartSummary struct {
	TotalItems      int             `json:"total_items"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	DiscountedTotal decimal.Decimal `json:"discounted_total"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	FinalTotal      decimal.Decimal `json:"final_total"`
}

// GetCart returns the user's unattached lines with a price summary
func (s *CartService) GetCart(ctx context.Context, userID int64) (*CartView, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	lines, err := s.carts.ListUnattachedLines(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &CartView{
		Lines: make([]CartLineView, 0, len(lines)),
		Summary: CartSummary{
			TotalItems:      len(lines),
			TotalPrice:      decimal.Zero,
			DiscountedTotal: decimal.Zero,
			ShippingCost:    s.shippingCost,
		},
	}

	for _, line := range lines {
		product, err := s.catalog.GetProductByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		discounted, err := s.pricing.EffectivePrice(ctx, product)
		if err != nil {
			return nil, err
		}

		qty := decimal.NewFromInt(int64(line.Quantity))
		view.Summary.TotalPrice = view.Summary.TotalPrice.Add(product.Price.Mul(qty))
		view.Summary.DiscountedTotal = view.Summary.DiscountedTotal.Add(discounted.Mul(qty))
		view.Lines = append(view.Lines, CartLineView{
			CartLine:        line,
			ProductName:     product.Name,
			UnitPrice:       product.Price,
			DiscountedPrice: discounted,
		})
	}

	view.Summary.FinalTotal = view.Summary.DiscountedTotal.Add(s.shippingCost)
	return view, nil
}

// Checkout converts the user's unattached cart lines into a pending order.
// Effective prices are captured per line at checkout time, stock is
// decremented and the lines are attached to the order in one transaction,
// and a pending payment with a generated transaction id is created.
func (s *CartService) Checkout(ctx context.Context, userID int64, shippingAddress, paymentMethod string) (*models.Order, []models.OrderDetail, error) {
	ctx, span := util.StartSpan(ctx, "CartService.Checkout")
	defer span.End()

	if shippingAddress == "" {
		return nil, nil, models.Validation("shipping address is required")
	}
	if paymentMethod == "" {
		paymentMethod = "COD"
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	lines, err := s.carts.ListUnattachedLines(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if len(lines) == 0 {
		return nil, nil, models.ErrEmptyCart
	}

	total := decimal.Zero
	details := make([]models.OrderDetail, 0, len(lines))
	lineIDs := make([]int64, 0, len(lines))

	for _, line := range lines {
		product, err := s.catalog.GetProductByID(ctx, line.ProductID)
		if err != nil {
			return nil, nil, err
		}
		if line.Quantity > product.StockQuantity {
			return nil, nil, fmt.Errorf("%w: product %d has only %d in stock",
				models.ErrInsufficientStock, product.ID, product.StockQuantity)
		}

		price, err := s.pricing.EffectivePrice(ctx, product)
		if err != nil {
			return nil, nil, err
		}

		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		details = append(details, models.OrderDetail{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     price,
		})
		lineIDs = append(lineIDs, line.ID)
	}
	total = total.Add(s.shippingCost)

	order := &models.Order{
		UserID:          &user.ID,
		CustomerName:    user.Username,
		CustomerEmail:   user.Email,
		CustomerPhone:   user.Phone,
		ShippingAddress: shippingAddress,
		TotalAmount:     total,
		Status:          models.OrderStatusPending,
		StockApplied:    true,
	}
	payment := &models.Payment{
		Method:        paymentMethod,
		Status:        models.PaymentStatusPending,
		TransactionID: newTransactionID(),
	}

	if err := s.carts.CreateOrderFromCart(ctx, order, details, payment, lineIDs); err != nil {
		util.OrdersFailedTotal.WithLabelValues("checkout_write").Inc()
		return nil, nil, fmt.Errorf("failed to create order from cart: %w", err)
	}

	util.CheckoutsTotal.Inc()
	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Checkout completed",
		zap.Int64("user_id", userID),
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
	s.audit.Record(ctx, fmt.Sprintf("user:%d", userID), "checkout", "orders", order.ID)

	return order, details, nil
}

func newTransactionID() string {
	return fmt.Sprintf("TXN-%s", uuid.New().String()[:8])
}
