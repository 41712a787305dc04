package service

import (
	"context"
	"errors"
	"testing"

	"shop-backoffice/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInventoryStore struct {
	products map[int64]*models.Product
}

func (f *fakeInventoryStore) GetProductByID(_ context.Context, id int64) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, models.NotFoundf("product %d", id)
	}
	copied := *p
	return &copied, nil
}

func (f *fakeInventoryStore) AdjustStock(_ context.Context, productID int64, delta int) (*models.Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return nil, models.NotFoundf("product %d", productID)
	}
	if delta < 0 {
		p.StockQuantity, p.SoldQuantity = models.ApplySale(p.StockQuantity, p.SoldQuantity, -delta)
	} else {
		p.StockQuantity = models.ApplyRestock(p.StockQuantity, delta)
	}
	copied := *p
	return &copied, nil
}

func newTestLedger(products ...*models.Product) (*InventoryLedger, *fakeInventoryStore) {
	store := &fakeInventoryStore{products: make(map[int64]*models.Product)}
	for _, p := range products {
		store.products[p.ID] = p
	}
	return NewInventoryLedger(store, nil, NewAuditRecorder(nil)), store
}

func TestManualAdjustRestock(t *testing.T) {
	ledger, _ := newTestLedger(&models.Product{ID: 1, StockQuantity: 5})

	product, err := ledger.ManualAdjust(context.Background(), 1, 10, "admin:1")
	require.NoError(t, err)
	assert.Equal(t, 15, product.StockQuantity)
}

func TestManualAdjustSale(t *testing.T) {
	ledger, _ := newTestLedger(&models.Product{ID: 1, StockQuantity: 5})

	product, err := ledger.ManualAdjust(context.Background(), 1, -3, "admin:1")
	require.NoError(t, err)
	assert.Equal(t, 2, product.StockQuantity)
	assert.Equal(t, 3, product.SoldQuantity)
}

func TestManualAdjustRejectsOversell(t *testing.T) {
	ledger, store := newTestLedger(&models.Product{ID: 1, StockQuantity: 5})

	_, err := ledger.ManualAdjust(context.Background(), 1, -6, "admin:1")
	assert.True(t, errors.Is(err, models.ErrInsufficientStock))

	// Nothing was applied.
	assert.Equal(t, 5, store.products[1].StockQuantity)
}

func TestManualAdjustRejectsZeroDelta(t *testing.T) {
	ledger, _ := newTestLedger(&models.Product{ID: 1, StockQuantity: 5})

	_, err := ledger.ManualAdjust(context.Background(), 1, 0, "admin:1")
	assert.True(t, errors.Is(err, models.ErrValidation))
}

func TestApplyClampsSale(t *testing.T) {
	ledger, _ := newTestLedger(&models.Product{ID: 1, StockQuantity: 3})

	// The raw ledger path clamps instead of rejecting.
	product, err := ledger.Apply(context.Background(), 1, -5)
	require.NoError(t, err)
	assert.Equal(t, 0, product.StockQuantity)
	assert.Equal(t, 3, product.SoldQuantity)
}
