package service

import (
	"context"

	"shop-backoffice/internal/models"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// PricingResolver computes a product's effective price from the promotions
// that reference it directly or via its category.
type PricingResolver struct {
	promos PromotionStore
}

// NewPricingResolver creates a new pricing resolver
func NewPricingResolver(promos PromotionStore) *PricingResolver {
	return &PricingResolver{promos: promos}
}

// EffectivePrice returns the product price after applying the single
// highest matching discount percentage. Discounts never stack; the result
// is rounded half-up to two decimal places.
//
// Promotion dates are deliberately not checked here: the effective price
// reflects every configured link, while the active-promotions listing is
// the date-filtered view.
func (r *PricingResolver) EffectivePrice(ctx context.Context, product *models.Product) (decimal.Decimal, error) {
	promos, err := r.promos.PromotionsForProduct(ctx, product.ID, product.CategoryID)
	if err != nil {
		return decimal.Zero, err
	}

	maxDiscount := 0
	for _, promo := range promos {
		if promo.DiscountPercentage > maxDiscount {
			maxDiscount = promo.DiscountPercentage
		}
	}

	if maxDiscount <= 0 {
		return product.Price, nil
	}

	factor := decimal.NewFromInt(1).Sub(decimal.NewFromInt(int64(maxDiscount)).Div(oneHundred))
	return product.Price.Mul(factor).Round(2), nil
}

// PriceReport is the per-product price summary exposed to the storefront
type PriceReport struct {
	ProductID       int64           `json:"product_id"`
	Name            string          `json:"name"`
	RegularPrice    decimal.Decimal `json:"regular_price"`
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
	HasDiscount     bool            `json:"has_discount"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// Report builds the price summary for a product, including the realized
// discount percentage.
func (r *PricingResolver) Report(ctx context.Context, product *models.Product) (*PriceReport, error) {
	discounted, err := r.EffectivePrice(ctx, product)
	if err != nil {
		return nil, err
	}

	report := &PriceReport{
		ProductID:       product.ID,
		Name:            product.Name,
		RegularPrice:    product.Price,
		DiscountedPrice: discounted,
		HasDiscount:     !product.Price.Equal(discounted),
	}
	if report.HasDiscount && !product.Price.IsZero() {
		report.DiscountPercent = product.Price.Sub(discounted).
			Div(product.Price).Mul(oneHundred).Round(2)
	}
	return report, nil
}
