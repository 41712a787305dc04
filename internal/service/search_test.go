package service

import (
	"testing"

	"shop-backoffice/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankProductsOrdering(t *testing.T) {
	candidates := []SearchCandidate{
		{Product: models.Product{ID: 1, Name: "Red Shoes", Description: "comfortable red shoes"}},
		{Product: models.Product{ID: 2, Name: "Blue Shoes", Description: "running shoes"}},
		{Product: models.Product{ID: 3, Name: "Red Hat", Description: "a warm hat"}},
		{Product: models.Product{ID: 4, Name: "Green Socks", Description: "cotton socks"}},
	}

	ranked := RankProducts("red shoes", candidates)

	require.Len(t, ranked, 3)
	assert.Equal(t, int64(1), ranked[0].ID, "full-name match must rank first")
	assert.Equal(t, int64(2), ranked[1].ID)
	assert.Equal(t, int64(3), ranked[2].ID)
}

func TestRankProductsDropsZeroScores(t *testing.T) {
	candidates := []SearchCandidate{
		{Product: models.Product{ID: 1, Name: "Desk Lamp"}},
		{Product: models.Product{ID: 2, Name: "Office Chair"}},
	}

	ranked := RankProducts("keyboard", candidates)
	assert.Empty(t, ranked)
}

func TestRankProductsCaseInsensitive(t *testing.T) {
	candidates := []SearchCandidate{
		{Product: models.Product{ID: 1, Name: "USB Cable"}},
	}

	ranked := RankProducts("usb", candidates)
	require.Len(t, ranked, 1)
	assert.Equal(t, int64(1), ranked[0].ID)
}

func TestRankProductsUsesSpecification(t *testing.T) {
	candidates := []SearchCandidate{
		{Product: models.Product{ID: 1, Name: "Monitor A"}},
		{
			Product:       models.Product{ID: 2, Name: "Monitor B"},
			Specification: "144hz refresh rate, HDMI 2.1",
		},
	}

	ranked := RankProducts("monitor hdmi", candidates)
	require.Len(t, ranked, 2)
	assert.Equal(t, int64(2), ranked[0].ID, "specification hit must break the tie")
}

func TestRankProductsTieBreaksByID(t *testing.T) {
	candidates := []SearchCandidate{
		{Product: models.Product{ID: 9, Name: "Mug"}},
		{Product: models.Product{ID: 3, Name: "Mug"}},
	}

	ranked := RankProducts("mug", candidates)
	require.Len(t, ranked, 2)
	assert.Equal(t, int64(3), ranked[0].ID)
	assert.Equal(t, int64(9), ranked[1].ID)
}

func TestRankProductsEmptyQueryReturnsAll(t *testing.T) {
	candidates := []SearchCandidate{
		{Product: models.Product{ID: 1, Name: "A"}},
		{Product: models.Product{ID: 2, Name: "B"}},
	}

	ranked := RankProducts("   ", candidates)
	assert.Len(t, ranked, 2)
}
