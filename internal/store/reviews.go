package store

import (
	"context"

	"shop-backoffice/internal/models"
)

// UpsertReview inserts a review or, when the (user, product) pair already
// has one, overwrites its rating, comment and timestamp.
func (s *Store) UpsertReview(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (product_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id, user_id)
		DO UPDATE SET rating = EXCLUDED.rating, comment = EXCLUDED.comment, created_at = NOW()
		RETURNING id, created_at`

	return s.db.QueryRowxContext(ctx, query,
		review.ProductID, review.UserID, review.Rating, review.Comment).
		Scan(&review.ID, &review.CreatedAt)
}

// ListProductReviews retrieves reviews for a product, newest first
func (s *Store) ListProductReviews(ctx context.Context, productID int64) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.SelectContext(ctx, &reviews,
		"SELECT * FROM reviews WHERE product_id = $1 ORDER BY created_at DESC", productID)
	return reviews, err
}
