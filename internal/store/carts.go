package store

import (
	"context"
	"database/sql"
	"fmt"

	"shop-backoffice/internal/models"
)

// GetCartLine retrieves a cart line by ID
func (s *Store) GetCartLine(ctx context.Context, id int64) (*models.CartLine, error) {
	var line models.CartLine
	err := s.db.GetContext(ctx, &line, "SELECT * FROM cart_lines WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, models.NotFoundf("cart line %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// AddCartLine merges quantity into the user's open line for (user, product),
// creating the line when none exists. The merge is a single transaction: the
// product row is locked, the line is upserted against the unique open-line
// index so concurrent adds serialize instead of creating duplicates, and the
// merged quantity is checked against stock under the lock. Exceeding stock
// rolls the whole merge back.
func (s *Store) AddCartLine(ctx context.Context, userID, productID int64, quantity int) (*models.CartLine, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	product, err := lockProduct(ctx, tx, productID)
	if err != nil {
		return nil, err
	}

	var line models.CartLine
	err = tx.GetContext(ctx, &line, `
		INSERT INTO cart_lines (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id) WHERE order_id IS NULL
		DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity
		RETURNING *`, userID, productID, quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to merge cart line: %w", err)
	}

	if line.Quantity > product.StockQuantity {
		return nil, fmt.Errorf("%w: only %d in stock",
			models.ErrInsufficientStock, product.StockQuantity)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &line, nil
}

// ListUnattachedLines retrieves the user's editable cart lines
func (s *Store) ListUnattachedLines(ctx context.Context, userID int64) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := s.db.SelectContext(ctx, &lines,
		"SELECT * FROM cart_lines WHERE user_id = $1 AND order_id IS NULL ORDER BY id", userID)
	return lines, err
}

// UpdateCartLineQuantity sets the quantity of an unattached cart line.
// Attached lines are immutable history and are never matched.
func (s *Store) UpdateCartLineQuantity(ctx context.Context, lineID int64, quantity int) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE cart_lines SET quantity = $1 WHERE id = $2 AND order_id IS NULL",
		quantity, lineID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.NotFoundf("cart line %d", lineID)
	}
	return nil
}

// DeleteCartLine removes an unattached cart line
func (s *Store) DeleteCartLine(ctx context.Context, lineID int64) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM cart_lines WHERE id = $1 AND order_id IS NULL", lineID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.NotFoundf("cart line %d", lineID)
	}
	return nil
}
