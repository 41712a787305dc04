package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"shop-backoffice/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, models.NotFoundf("product %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts retrieves products, optionally filtered by category
func (s *Store) ListProducts(ctx context.Context, categoryID *int64) ([]models.Product, error) {
	var products []models.Product
	if categoryID != nil {
		err := s.db.SelectContext(ctx, &products,
			"SELECT * FROM products WHERE category_id = $1 ORDER BY id", *categoryID)
		return products, err
	}
	err := s.db.SelectContext(ctx, &products, "SELECT * FROM products ORDER BY id")
	return products, err
}

// GetProductsByIDs retrieves multiple products by IDs
func (s *Store) GetProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM products WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var products []models.Product
	err = s.db.SelectContext(ctx, &products, query, args...)
	return products, err
}

// GetProductDetail retrieves the specification row for a product, or nil
// when none exists.
func (s *Store) GetProductDetail(ctx context.Context, productID int64) (*models.ProductDetail, error) {
	var detail models.ProductDetail
	err := s.db.GetContext(ctx, &detail,
		"SELECT * FROM product_details WHERE product_id = $1", productID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// GetSpecifications returns a product_id -> specification map for the given
// products. Products without a detail row are absent from the map.
func (s *Store) GetSpecifications(ctx context.Context, productIDs []int64) (map[int64]string, error) {
	specs := make(map[int64]string)
	if len(productIDs) == 0 {
		return specs, nil
	}

	query, args, err := sqlx.In(
		"SELECT product_id, specification FROM product_details WHERE product_id IN (?)", productIDs)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var rows []models.ProductDetail
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	for _, row := range rows {
		specs[row.ProductID] = row.Specification
	}
	return specs, nil
}

// GetCategoryByID retrieves a category by ID
func (s *Store) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	err := s.db.GetContext(ctx, &category, "SELECT * FROM categories WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, models.NotFoundf("category %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// AdjustStock applies a stock delta to a product inside a transaction with a
// row lock. A negative delta is a sale and is clamped to the available
// quantity; a positive delta is a restock. Returns the updated product.
func (s *Store) AdjustStock(ctx context.Context, productID int64, delta int) (*models.Product, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	product, err := lockProduct(ctx, tx, productID)
	if err != nil {
		return nil, err
	}

	if delta < 0 {
		product.StockQuantity, product.SoldQuantity =
			models.ApplySale(product.StockQuantity, product.SoldQuantity, -delta)
	} else {
		product.StockQuantity = models.ApplyRestock(product.StockQuantity, delta)
	}

	if err := updateProductStock(ctx, tx, product); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return product, nil
}

func lockProduct(ctx context.Context, tx *sqlx.Tx, productID int64) (*models.Product, error) {
	var product models.Product
	err := tx.GetContext(ctx, &product,
		"SELECT * FROM products WHERE id = $1 FOR UPDATE", productID)
	if err == sql.ErrNoRows {
		return nil, models.NotFoundf("product %d", productID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock product %d: %w", productID, err)
	}
	return &product, nil
}

func updateProductStock(ctx context.Context, tx *sqlx.Tx, product *models.Product) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE products SET stock_quantity = $1, sold_quantity = $2 WHERE id = $3",
		product.StockQuantity, product.SoldQuantity, product.ID)
	if err != nil {
		return fmt.Errorf("failed to update stock for product %d: %w", product.ID, err)
	}
	return nil
}
