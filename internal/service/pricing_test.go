package service

import (
	"context"
	"testing"

	"shop-backoffice/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectivePriceNoPromotions(t *testing.T) {
	promos := newFakePromotions()
	resolver := NewPricingResolver(promos)

	product := &models.Product{ID: 1, Price: decimal.NewFromInt(100), CategoryID: 1}

	price, err := resolver.EffectivePrice(context.Background(), product)
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromInt(100)))
}

func TestEffectivePricePicksHighestDiscount(t *testing.T) {
	promos := newFakePromotions()
	promos.byProduct[1] = []models.Promotion{
		{ID: 1, DiscountPercentage: 10},
		{ID: 2, DiscountPercentage: 25},
	}
	promos.byCategory[7] = []models.Promotion{
		{ID: 3, DiscountPercentage: 15},
	}
	resolver := NewPricingResolver(promos)

	product := &models.Product{ID: 1, Price: decimal.NewFromInt(200), CategoryID: 7}

	// Discounts never stack; only the 25% applies.
	price, err := resolver.EffectivePrice(context.Background(), product)
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromInt(150)), "got %s", price)
}

func TestEffectivePriceRoundsToTwoPlaces(t *testing.T) {
	promos := newFakePromotions()
	promos.byProduct[1] = []models.Promotion{{ID: 1, DiscountPercentage: 33}}
	resolver := NewPricingResolver(promos)

	product := &models.Product{ID: 1, Price: decimal.RequireFromString("9.99")}

	// 9.99 * 0.67 = 6.6933, rounded half-up to 6.69
	price, err := resolver.EffectivePrice(context.Background(), product)
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("6.69")), "got %s", price)
}

func TestPriceReport(t *testing.T) {
	promos := newFakePromotions()
	promos.byProduct[1] = []models.Promotion{{ID: 1, DiscountPercentage: 20}}
	resolver := NewPricingResolver(promos)

	product := &models.Product{ID: 1, Name: "Lamp", Price: decimal.NewFromInt(50)}

	report, err := resolver.Report(context.Background(), product)
	require.NoError(t, err)
	assert.True(t, report.HasDiscount)
	assert.True(t, report.RegularPrice.Equal(decimal.NewFromInt(50)))
	assert.True(t, report.DiscountedPrice.Equal(decimal.NewFromInt(40)))
	assert.True(t, report.DiscountPercent.Equal(decimal.NewFromInt(20)), "got %s", report.DiscountPercent)
}

func TestPriceReportNoDiscount(t *testing.T) {
	resolver := NewPricingResolver(newFakePromotions())

	product := &models.Product{ID: 2, Name: "Desk", Price: decimal.NewFromInt(80)}

	report, err := resolver.Report(context.Background(), product)
	require.NoError(t, err)
	assert.False(t, report.HasDiscount)
	assert.True(t, report.DiscountedPrice.Equal(decimal.NewFromInt(80)))
	assert.True(t, report.DiscountPercent.IsZero())
}
