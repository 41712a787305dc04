package service

import (
	"context"

	"shop-backoffice/internal/models"
	"shop-backoffice/internal/util"

	"go.uber.org/zap"
)

// CatalogService serves product listings, optionally filtered by category
// and ranked by keyword relevance.
type CatalogService struct {
	catalog CatalogStore
	pricing *PricingResolver
	logger  *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(catalog CatalogStore, pricing *PricingResolver) *CatalogService {
	return &CatalogService{
		catalog: catalog,
		pricing: pricing,
		logger:  util.GetLogger(),
	}
}

// ListProducts returns products in catalog order, filtered by category when
// given. A non-empty search query switches to relevance ranking over name,
// description and specification.
func (s *CatalogService) ListProducts(ctx context.Context, search string, categoryID *int64) ([]models.Product, error) {
	products, err := s.catalog.ListProducts(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if search == "" {
		return products, nil
	}

	util.SearchesTotal.Inc()

	ids := make([]int64, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	specs, err := s.catalog.GetSpecifications(ctx, ids)
	if err != nil {
		return nil, err
	}

	candidates := make([]SearchCandidate, len(products))
	for i, p := range products {
		candidates[i] = SearchCandidate{Product: p, Specification: specs[p.ID]}
	}

	ranked := RankProducts(search, candidates)
	s.logger.Debug("Search ranked",
		zap.String("query", search),
		zap.Int("candidates", len(products)),
		zap.Int("matches", len(ranked)))
	return ranked, nil
}

// GetProduct retrieves a product with its specification
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, *models.ProductDetail, error) {
	product, err := s.catalog.GetProductByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	detail, err := s.catalog.GetProductDetail(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return product, detail, nil
}

// PriceReport builds the regular/discounted price summary for a product
func (s *CatalogService) PriceReport(ctx context.Context, productID int64) (*PriceReport, error) {
	product, err := s.catalog.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.pricing.Report(ctx, product)
}
