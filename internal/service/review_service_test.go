package service

import (
	"context"
	"errors"
	"testing"

	"shop-backoffice/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReviewStore struct {
	reviews map[[2]int64]*models.Review
	nextID  int64
}

func newFakeReviews() *fakeReviewStore {
	return &fakeReviewStore{reviews: make(map[[2]int64]*models.Review)}
}

func (f *fakeReviewStore) UpsertReview(_ context.Context, review *models.Review) error {
	key := [2]int64{review.ProductID, review.UserID}
	if existing, ok := f.reviews[key]; ok {
		review.ID = existing.ID
	} else {
		f.nextID++
		review.ID = f.nextID
	}
	copied := *review
	f.reviews[key] = &copied
	return nil
}

func (f *fakeReviewStore) ListProductReviews(_ context.Context, productID int64) ([]models.Review, error) {
	var out []models.Review
	for _, r := range f.reviews {
		if r.ProductID == productID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func newTestReviewService(reviews *fakeReviewStore) *ReviewService {
	catalog := newFakeCatalog(&models.Product{ID: 10, Price: decimal.NewFromInt(100)})
	users := newFakeUsers(&models.User{ID: 1, Username: "alice"})
	return NewReviewService(reviews, catalog, users)
}

func TestSubmitReview(t *testing.T) {
	reviews := newFakeReviews()
	svc := newTestReviewService(reviews)

	review := &models.Review{ProductID: 10, UserID: 1, Rating: 4, Comment: "solid"}
	require.NoError(t, svc.Submit(context.Background(), review))
	assert.NotZero(t, review.ID)
}

func TestSubmitReviewOverwritesPrevious(t *testing.T) {
	reviews := newFakeReviews()
	svc := newTestReviewService(reviews)
	ctx := context.Background()

	first := &models.Review{ProductID: 10, UserID: 1, Rating: 2, Comment: "meh"}
	require.NoError(t, svc.Submit(ctx, first))

	second := &models.Review{ProductID: 10, UserID: 1, Rating: 5, Comment: "grew on me"}
	require.NoError(t, svc.Submit(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	listed, err := svc.ListForProduct(ctx, 10)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, 5, listed[0].Rating)
}

func TestSubmitReviewRatingBounds(t *testing.T) {
	svc := newTestReviewService(newFakeReviews())
	ctx := context.Background()

	for _, rating := range []int{0, -1, 6} {
		err := svc.Submit(ctx, &models.Review{ProductID: 10, UserID: 1, Rating: rating})
		assert.True(t, errors.Is(err, models.ErrValidation), "rating %d", rating)
	}
}

func TestSubmitReviewUnknownProductOrUser(t *testing.T) {
	svc := newTestReviewService(newFakeReviews())
	ctx := context.Background()

	err := svc.Submit(ctx, &models.Review{ProductID: 404, UserID: 1, Rating: 4})
	assert.True(t, errors.Is(err, models.ErrNotFound))

	err = svc.Submit(ctx, &models.Review{ProductID: 10, UserID: 404, Rating: 4})
	assert.True(t, errors.Is(err, models.ErrNotFound))
}
