package store

import (
	"context"
	"time"

	"shop-backoffice/internal/models"

	"github.com/shopspring/decimal"
)

// StatusCount is an order count grouped by status
type StatusCount struct {
	Status string `db:"status" json:"status"`
	Count  int64  `db:"count" json:"count"`
}

// MonthRevenue is completed-order revenue for one month
type MonthRevenue struct {
	Month   int             `db:"month" json:"month"`
	Revenue decimal.Decimal `db:"revenue" json:"revenue"`
}

// CountUsers returns the total number of users
func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM users")
	return count, err
}

// CountUsersSince returns the number of users created at or after the cutoff
func (s *Store) CountUsersSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM users WHERE created_at >= $1", since)
	return count, err
}

// CountProducts returns the total number of products
func (s *Store) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM products")
	return count, err
}

// CountOrders returns the total number of orders
func (s *Store) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM orders")
	return count, err
}

// CompletedRevenue returns the revenue summed over completed orders
func (s *Store) CompletedRevenue(ctx context.Context) (decimal.Decimal, error) {
	var revenue decimal.Decimal
	err := s.db.GetContext(ctx, &revenue,
		"SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status = $1",
		models.OrderStatusCompleted)
	return revenue, err
}

// TopProducts returns the best sellers by sold quantity
func (s *Store) TopProducts(ctx context.Context, limit int) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM products ORDER BY sold_quantity DESC, id LIMIT $1", limit)
	return products, err
}

// OrderStatusCounts returns order counts grouped by status
func (s *Store) OrderStatusCounts(ctx context.Context) ([]StatusCount, error) {
	var counts []StatusCount
	err := s.db.SelectContext(ctx, &counts,
		"SELECT status, COUNT(*) AS count FROM orders GROUP BY status ORDER BY status")
	return counts, err
}

// MonthlyRevenue returns completed-order revenue per month of the given
// year. Months with no revenue are absent.
func (s *Store) MonthlyRevenue(ctx context.Context, year int) ([]MonthRevenue, error) {
	var rows []MonthRevenue
	err := s.db.SelectContext(ctx, &rows, `
		SELECT EXTRACT(MONTH FROM created_at)::int AS month,
		       COALESCE(SUM(total_amount), 0) AS revenue
		FROM orders
		WHERE status = $1 AND EXTRACT(YEAR FROM created_at) = $2
		GROUP BY month ORDER BY month`,
		models.OrderStatusCompleted, year)
	return rows, err
}
