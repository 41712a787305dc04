package service

import (
	"context"
	"fmt"
	"time"

	"shop-backoffice/internal/models"
	"shop-backoffice/internal/util"

	"go.uber.org/zap"
)

// PromotionService manages promotions and their product/category links
type PromotionService struct {
	promos  PromotionStore
	catalog CatalogStore
	audit   *AuditRecorder
	now     func() time.Time
	logger  *zap.Logger
}

// NewPromotionService creates a new promotion service
func NewPromotionService(promos PromotionStore, catalog CatalogStore, audit *AuditRecorder) *PromotionService {
	return &PromotionService{
		promos:  promos,
		catalog: catalog,
		audit:   audit,
		now:     time.Now,
		logger:  util.GetLogger(),
	}
}

// ListActive returns promotions whose date window contains now
func (s *PromotionService) ListActive(ctx context.Context) ([]models.Promotion, error) {
	return s.promos.ListActivePromotions(ctx, s.now())
}

// ForProduct returns every promotion linked to the product directly or
// through its category, regardless of date window.
func (s *PromotionService) ForProduct(ctx context.Context, product *models.Product) ([]models.Promotion, error) {
	return s.promos.PromotionsForProduct(ctx, product.ID, product.CategoryID)
}

// Create validates and stores a promotion
func (s *PromotionService) Create(ctx context.Context, promo *models.Promotion, actor string) error {
	if promo.Title == "" {
		return models.Validation("title is required")
	}
	if promo.DiscountPercentage <= 0 || promo.DiscountPercentage > 100 {
		return models.Validation("discount_percentage must be between 1 and 100")
	}
	if !promo.EndDate.After(promo.StartDate) {
		return models.Validation("end_date must be after start_date")
	}

	if err := s.promos.CreatePromotion(ctx, promo); err != nil {
		return err
	}

	s.logger.Info("Promotion created",
		zap.Int64("promotion_id", promo.ID),
		zap.String("title", promo.Title),
		zap.Int("discount_percentage", promo.DiscountPercentage))
	s.audit.Record(ctx, actor, "create promotion", "promotions", promo.ID)
	return nil
}

// Delete removes a promotion and, via cascade, its links
func (s *PromotionService) Delete(ctx context.Context, id int64, actor string) error {
	if err := s.promos.DeletePromotion(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, "delete promotion", "promotions", id)
	return nil
}

// Link attaches a promotion to exactly one of a product or a category.
// Both the promotion and the link target must exist.
func (s *PromotionService) Link(ctx context.Context, link *models.ProductPromotion, actor string) error {
	if err := link.Validate(); err != nil {
		return err
	}
	if _, err := s.promos.GetPromotionByID(ctx, link.PromotionID); err != nil {
		return err
	}
	if link.ProductID != nil {
		if _, err := s.catalog.GetProductByID(ctx, *link.ProductID); err != nil {
			return err
		}
	}
	if link.CategoryID != nil {
		if _, err := s.catalog.GetCategoryByID(ctx, *link.CategoryID); err != nil {
			return err
		}
	}

	if err := s.promos.CreatePromotionLink(ctx, link); err != nil {
		return err
	}

	target := "category"
	if link.ProductID != nil {
		target = "product"
	}
	s.audit.Record(ctx, actor, fmt.Sprintf("link promotion to %s", target),
		"product_promotions", link.ID)
	return nil
}

// PromotionTargets is the resolved link set of one promotion
type PromotionTargets struct {
	Promotion   models.Promotion `json:"promotion"`
	ProductIDs  []int64          `json:"product_ids"`
	CategoryIDs []int64          `json:"category_ids"`
}

// Targets returns a promotion with the product and category ids it is
// linked to.
func (s *PromotionService) Targets(ctx context.Context, promotionID int64) (*PromotionTargets, error) {
	promo, err := s.promos.GetPromotionByID(ctx, promotionID)
	if err != nil {
		return nil, err
	}

	productLinks, err := s.promos.PromotionProducts(ctx, promotionID)
	if err != nil {
		return nil, err
	}
	categoryLinks, err := s.promos.PromotionCategories(ctx, promotionID)
	if err != nil {
		return nil, err
	}

	targets := &PromotionTargets{
		Promotion:   *promo,
		ProductIDs:  make([]int64, 0, len(productLinks)),
		CategoryIDs: make([]int64, 0, len(categoryLinks)),
	}
	for _, link := range productLinks {
		if link.ProductID != nil {
			targets.ProductIDs = append(targets.ProductIDs, *link.ProductID)
		}
	}
	for _, link := range categoryLinks {
		if link.CategoryID != nil {
			targets.CategoryIDs = append(targets.CategoryIDs, *link.CategoryID)
		}
	}
	return targets, nil
}
