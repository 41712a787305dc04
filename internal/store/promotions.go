package store

import (
	"context"
	"database/sql"
	"time"

	"shop-backoffice/internal/models"
)

// GetPromotionByID retrieves a promotion by ID
func (s *Store) GetPromotionByID(ctx context.Context, id int64) (*models.Promotion, error) {
	var promo models.Promotion
	err := s.db.GetContext(ctx, &promo, "SELECT * FROM promotions WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, models.NotFoundf("promotion %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

// PromotionsForProduct returns the distinct promotions that reference the
// product directly or via its category.
func (s *Store) PromotionsForProduct(ctx context.Context, productID, categoryID int64) ([]models.Promotion, error) {
	var promos []models.Promotion
	err := s.db.SelectContext(ctx, &promos, `
		SELECT DISTINCT p.* FROM promotions p
		JOIN product_promotions pp ON pp.promotion_id = p.id
		WHERE pp.product_id = $1 OR pp.category_id = $2
		ORDER BY p.id`, productID, categoryID)
	return promos, err
}

// ListActivePromotions returns promotions in effect at the given instant,
// soonest-ending first.
func (s *Store) ListActivePromotions(ctx context.Context, now time.Time) ([]models.Promotion, error) {
	var promos []models.Promotion
	err := s.db.SelectContext(ctx, &promos, `
		SELECT * FROM promotions
		WHERE start_date <= $1 AND end_date >= $1
		ORDER BY end_date`, now)
	return promos, err
}

// CreatePromotion inserts a new promotion
func (s *Store) CreatePromotion(ctx context.Context, promo *models.Promotion) error {
	query := `
		INSERT INTO promotions (title, description, discount_percentage, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	return s.db.QueryRowxContext(ctx, query,
		promo.Title, promo.Description, promo.DiscountPercentage,
		promo.StartDate, promo.EndDate).Scan(&promo.ID)
}

// DeletePromotion removes a promotion and its links
func (s *Store) DeletePromotion(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM promotions WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.NotFoundf("promotion %d", id)
	}
	return nil
}

// CreatePromotionLink inserts a product/category link for a promotion
func (s *Store) CreatePromotionLink(ctx context.Context, link *models.ProductPromotion) error {
	query := `
		INSERT INTO product_promotions (product_id, category_id, promotion_id)
		VALUES ($1, $2, $3)
		RETURNING id`

	return s.db.QueryRowxContext(ctx, query,
		link.ProductID, link.CategoryID, link.PromotionID).Scan(&link.ID)
}

// PromotionProducts returns the links of a promotion that target products
func (s *Store) PromotionProducts(ctx context.Context, promotionID int64) ([]models.ProductPromotion, error) {
	var links []models.ProductPromotion
	err := s.db.SelectContext(ctx, &links,
		"SELECT * FROM product_promotions WHERE promotion_id = $1 AND product_id IS NOT NULL ORDER BY id",
		promotionID)
	return links, err
}

// PromotionCategories returns the links of a promotion that target categories
func (s *Store) PromotionCategories(ctx context.Context, promotionID int64) ([]models.ProductPromotion, error) {
	var links []models.ProductPromotion
	err := s.db.SelectContext(ctx, &links,
		"SELECT * FROM product_promotions WHERE promotion_id = $1 AND category_id IS NOT NULL ORDER BY id",
		promotionID)
	return links, err
}
