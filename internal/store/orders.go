package store

import (
	"context"
	"database/sql"
	"fmt"

	"shop-backoffice/internal/models"

	"github.com/jmoiron/sqlx"
)

// CreateOrderFromCart creates an order from cart lines in a single
// transaction: the order, its details, the payment, the stock decrement per
// line and the attachment of each cart line. Stock is decremented with a
// row lock per product; callers have already validated availability, so the
// ledger clamp only fires on a concurrent race.
func (s *Store) CreateOrderFromCart(
	ctx context.Context,
	order *models.Order,
	details []models.OrderDetail,
	payment *models.Payment,
	cartLineIDs []int64,
) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertOrder(ctx, tx, order); err != nil {
		return err
	}

	for i := range details {
		details[i].OrderID = order.ID
		if err := insertOrderDetail(ctx, tx, &details[i]); err != nil {
			return err
		}

		product, err := lockProduct(ctx, tx, details[i].ProductID)
		if err != nil {
			return err
		}
		product.StockQuantity, product.SoldQuantity =
			models.ApplySale(product.StockQuantity, product.SoldQuantity, details[i].Quantity)
		if err := updateProductStock(ctx, tx, product); err != nil {
			return err
		}
	}

	payment.OrderID = order.ID
	if err := insertPayment(ctx, tx, payment); err != nil {
		return err
	}

	for _, lineID := range cartLineIDs {
		if _, err := tx.ExecContext(ctx,
			"UPDATE cart_lines SET order_id = $1 WHERE id = $2 AND order_id IS NULL",
			order.ID, lineID); err != nil {
			return fmt.Errorf("failed to attach cart line %d: %w", lineID, err)
		}
	}

	return tx.Commit()
}

// CreateOrder creates a directly-supplied order with its details and an
// optional payment in one transaction. Stock is not touched; it is applied
// when the order completes.
func (s *Store) CreateOrder(
	ctx context.Context,
	order *models.Order,
	details []models.OrderDetail,
	payment *models.Payment,
) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertOrder(ctx, tx, order); err != nil {
		return err
	}

	for i := range details {
		details[i].OrderID = order.ID
		if err := insertOrderDetail(ctx, tx, &details[i]); err != nil {
			return err
		}
	}

	if payment != nil {
		payment.OrderID = order.ID
		if err := insertPayment(ctx, tx, payment); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// TransitionOrder moves an order to a new status inside a transaction,
// enforcing the state machine. Completing applies the sale to stock exactly
// once per order (guarded by stock_applied); cancelling reverses it and
// cancels the payment. Re-asserting the current status is a no-op.
func (s *Store) TransitionOrder(ctx context.Context, orderID int64, to string) (*models.Order, error) {
	if !models.ValidOrderStatus(to) {
		return nil, models.Validationf("unknown order status %q", to)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var order models.Order
	err = tx.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1 FOR UPDATE", orderID)
	if err == sql.ErrNoRows {
		return nil, models.NotFoundf("order %d", orderID)
	}
	if err != nil {
		return nil, err
	}

	if !models.CanTransition(order.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, order.Status, to)
	}
	if order.Status == to {
		return &order, tx.Commit()
	}

	effect, applied, cancelPayment := models.TransitionEffect(to, order.StockApplied)

	if effect != models.StockNoop {
		details, err := orderDetailsTx(ctx, tx, orderID)
		if err != nil {
			return nil, err
		}
		for _, detail := range details {
			product, err := lockProduct(ctx, tx, detail.ProductID)
			if err != nil {
				return nil, err
			}
			if effect == models.StockApply {
				product.StockQuantity, product.SoldQuantity =
					models.ApplySale(product.StockQuantity, product.SoldQuantity, detail.Quantity)
			} else {
				product.StockQuantity, product.SoldQuantity =
					models.ReverseSale(product.StockQuantity, product.SoldQuantity, detail.Quantity)
			}
			if err := updateProductStock(ctx, tx, product); err != nil {
				return nil, err
			}
		}
	}
	order.StockApplied = applied

	if cancelPayment {
		if _, err := tx.ExecContext(ctx,
			"UPDATE payments SET status = $1 WHERE order_id = $2",
			models.PaymentStatusCancelled, orderID); err != nil {
			return nil, fmt.Errorf("failed to cancel payment: %w", err)
		}
	}

	order.Status = to
	if _, err := tx.ExecContext(ctx,
		"UPDATE orders SET status = $1, stock_applied = $2 WHERE id = $3",
		order.Status, order.StockApplied, orderID); err != nil {
		return nil, err
	}

	return &order, tx.Commit()
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, models.NotFoundf("order %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrdersByUserID retrieves orders for a user, newest first
func (s *Store) GetOrdersByUserID(ctx context.Context, userID int64) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC", userID)
	return orders, err
}

// GetOrderDetails retrieves all detail rows for an order
func (s *Store) GetOrderDetails(ctx context.Context, orderID int64) ([]models.OrderDetail, error) {
	var details []models.OrderDetail
	err := s.db.SelectContext(ctx, &details,
		"SELECT * FROM order_details WHERE order_id = $1 ORDER BY id", orderID)
	return details, err
}

// GetPaymentByOrderID retrieves the payment for an order, or nil when the
// order has none.
func (s *Store) GetPaymentByOrderID(ctx context.Context, orderID int64) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.GetContext(ctx, &payment,
		"SELECT * FROM payments WHERE order_id = $1", orderID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func insertOrder(ctx context.Context, tx *sqlx.Tx, order *models.Order) error {
	query := `
		INSERT INTO orders (user_id, customer_name, customer_email, customer_phone,
			shipping_address, total_amount, status, stock_applied)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	return tx.QueryRowxContext(ctx, query,
		order.UserID, order.CustomerName, order.CustomerEmail, order.CustomerPhone,
		order.ShippingAddress, order.TotalAmount, order.Status, order.StockApplied).
		Scan(&order.ID, &order.CreatedAt)
}

func insertOrderDetail(ctx context.Context, tx *sqlx.Tx, detail *models.OrderDetail) error {
	query := `
		INSERT INTO order_details (order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	return tx.QueryRowxContext(ctx, query,
		detail.OrderID, detail.ProductID, detail.Quantity, detail.Price).Scan(&detail.ID)
}

func insertPayment(ctx context.Context, tx *sqlx.Tx, payment *models.Payment) error {
	query := `
		INSERT INTO payments (order_id, method, status, transaction_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return tx.QueryRowxContext(ctx, query,
		payment.OrderID, payment.Method, payment.Status, payment.TransactionID).
		Scan(&payment.ID, &payment.CreatedAt)
}

func orderDetailsTx(ctx context.Context, tx *sqlx.Tx, orderID int64) ([]models.OrderDetail, error) {
	var details []models.OrderDetail
	err := tx.SelectContext(ctx, &details,
		"SELECT * FROM order_details WHERE order_id = $1 ORDER BY id", orderID)
	return details, err
}
