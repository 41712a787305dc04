package service

import (
	"context"

	"shop-backoffice/internal/models"
	"shop-backoffice/internal/util"

	"go.uber.org/zap"
)

// ReviewService writes and lists product reviews. A user gets one review
// per product; submitting again overwrites the previous one.
type ReviewService struct {
	reviews ReviewStore
	catalog CatalogStore
	users   UserStore
	logger  *zap.Logger
}

// NewReviewService creates a new review service
func NewReviewService(reviews ReviewStore, catalog CatalogStore, users UserStore) *ReviewService {
	return &ReviewService{
		reviews: reviews,
		catalog: catalog,
		users:   users,
		logger:  util.GetLogger(),
	}
}

// Submit validates and upserts a review
func (s *ReviewService) Submit(ctx context.Context, review *models.Review) error {
	if review.Rating < 1 || review.Rating > 5 {
		return models.Validation("rating must be between 1 and 5")
	}
	if _, err := s.catalog.GetProductByID(ctx, review.ProductID); err != nil {
		return err
	}
	if _, err := s.users.GetUserByID(ctx, review.UserID); err != nil {
		return err
	}

	if err := s.reviews.UpsertReview(ctx, review); err != nil {
		return err
	}
	s.logger.Info("Review submitted",
		zap.Int64("product_id", review.ProductID),
		zap.Int64("user_id", review.UserID),
		zap.Int("rating", review.Rating))
	return nil
}

// ListForProduct returns a product's reviews, newest first
func (s *ReviewService) ListForProduct(ctx context.Context, productID int64) ([]models.Review, error) {
	if _, err := s.catalog.GetProductByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.reviews.ListProductReviews(ctx, productID)
}
