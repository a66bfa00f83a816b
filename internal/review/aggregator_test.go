package review

import (
	"context"
	"math"
	"testing"
	"time"

	"go-firestore-deals/internal/database"
	ierr "go-firestore-deals/internal/errors"
	"go-firestore-deals/internal/model"
	reviewRepository "go-firestore-deals/internal/repository/review"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAggregator() (*Aggregator, reviewRepository.ReviewRepository) {
	repo := reviewRepository.New(database.NewMemory(10))
	return New(repo), repo
}

func TestSubmitReview_AggregateLifecycle(t *testing.T) {
	a, _ := newAggregator()
	ctx := context.Background()

	outcome, err := a.SubmitReview(ctx, ReviewInput{UserID: "u1", ProductKey: "0123", Stars: 5, ProductName: "Oat milk"})
	require.NoError(t, err)
	assert.Equal(t, Created, outcome)
	time.Sleep(time.Millisecond)

	outcome, err = a.SubmitReview(ctx, ReviewInput{UserID: "u2", ProductKey: "0123", Stars: 3, ProductName: "Oat drink"})
	require.NoError(t, err)
	assert.Equal(t, Created, outcome)

	agg, err := a.GetAggregate(ctx, "0123")
	require.NoError(t, err)
	assert.Equal(t, 4.0, agg.AverageStars)
	assert.Equal(t, 2, agg.ReviewCount)
	assert.Equal(t, "Oat milk", agg.ProductName)

	outcome, err = a.SubmitReview(ctx, ReviewInput{UserID: "u1", ProductKey: "0123", Stars: 5})
	require.NoError(t, err)
	assert.Equal(t, Removed, outcome)

	agg, err = a.GetAggregate(ctx, "0123")
	require.NoError(t, err)
	assert.Equal(t, 3.0, agg.AverageStars)
	assert.Equal(t, "Oat drink", agg.ProductName)

	outcome, err = a.SubmitReview(ctx, ReviewInput{UserID: "u2", ProductKey: "0123", Stars: 3})
	require.NoError(t, err)
	assert.Equal(t, Removed, outcome)

	_, err = a.GetAggregate(ctx, "0123")
	assert.ErrorIs(t, err, ierr.NotFound)

	reviews, err := a.GetReviewsFor(ctx, "0123")
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestSubmitReview_ReplaceKeepsIdentity(t *testing.T) {
	a, repo := newAggregator()
	ctx := context.Background()

	_, err := a.SubmitReview(ctx, ReviewInput{UserID: "u1", ProductKey: "0123", Stars: 4, Title: "good"})
	require.NoError(t, err)

	id := reviewRepository.Key("u1", "0123")
	first, err := repo.GetById(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, first)
	require.NotNil(t, first.DateTime)

	outcome, err := a.SubmitReview(ctx, ReviewInput{UserID: "u1", ProductKey: "0123", Stars: 2, Title: "meh"})
	require.NoError(t, err)
	assert.Equal(t, Replaced, outcome)

	reviews, err := a.GetReviewsFor(ctx, "0123")
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, id, reviews[0].Id)
	assert.Equal(t, 2.0, reviews[0].ReviewStars)
	assert.Equal(t, "meh", reviews[0].ReviewTitle)
	assert.True(t, first.DateTime.Equal(*reviews[0].DateTime))

	agg, err := a.GetAggregate(ctx, "0123")
	require.NoError(t, err)
	assert.Equal(t, 2.0, agg.AverageStars)
}

func TestSubmitReview_FullPrecisionMean(t *testing.T) {
	a, _ := newAggregator()
	ctx := context.Background()

	for user, stars := range map[string]float64{"u1": 5, "u2": 4, "u3": 4} {
		_, err := a.SubmitReview(ctx, ReviewInput{UserID: user, ProductKey: "p", Stars: stars})
		require.NoError(t, err)
	}

	agg, err := a.GetAggregate(ctx, "p")
	require.NoError(t, err)
	assert.InDelta(t, 13.0/3.0, agg.AverageStars, 1e-12)
}

func TestSubmitReview_Validation(t *testing.T) {
	a, _ := newAggregator()
	ctx := context.Background()

	tests := []struct {
		name string
		in   ReviewInput
	}{
		{"too many stars", ReviewInput{UserID: "u", ProductKey: "p", Stars: 5.5}},
		{"negative stars", ReviewInput{UserID: "u", ProductKey: "p", Stars: -1}},
		{"NaN stars", ReviewInput{UserID: "u", ProductKey: "p", Stars: math.NaN()}},
		{"empty user", ReviewInput{ProductKey: "p", Stars: 3}},
		{"empty product", ReviewInput{UserID: "u", Stars: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.SubmitReview(ctx, tt.in)
			assert.ErrorIs(t, err, ierr.ValidationError)
		})
	}

	_, err := a.SubmitReview(ctx, ReviewInput{UserID: "u", ProductKey: "p", Stars: 0})
	assert.NoError(t, err)
}

func TestRecomputeAggregate_ProductNameFromEarliestReview(t *testing.T) {
	a, repo := newAggregator()
	ctx := context.Background()
	t0 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	require.NoError(t, repo.Save(ctx, model.Review{Id: "late", UserID: "u1", BarcodeNumber: "p", ReviewStars: 1, ProductName: "Late", DateTime: &t1}))
	require.NoError(t, repo.Save(ctx, model.Review{Id: "b", UserID: "u2", BarcodeNumber: "p", ReviewStars: 2, ProductName: "Tie B", DateTime: &t0}))
	require.NoError(t, repo.Save(ctx, model.Review{Id: "a", UserID: "u3", BarcodeNumber: "p", ReviewStars: 3, ProductName: "Tie A", DateTime: &t0}))

	require.NoError(t, a.RecomputeAggregate(ctx, "p"))

	agg, err := a.GetAggregate(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "Tie A", agg.ProductName)
	assert.Equal(t, 2.0, agg.AverageStars)

	reviews, err := a.GetReviewsFor(ctx, "p")
	require.NoError(t, err)
	require.Len(t, reviews, 3)
	assert.Equal(t, []string{"late", "a", "b"}, []string{reviews[0].Id, reviews[1].Id, reviews[2].Id})
}

func TestGetUserReviews(t *testing.T) {
	a, _ := newAggregator()
	ctx := context.Background()

	for _, p := range []string{"p1", "p2"} {
		_, err := a.SubmitReview(ctx, ReviewInput{UserID: "u1", ProductKey: p, Stars: 4})
		require.NoError(t, err)
	}
	_, err := a.SubmitReview(ctx, ReviewInput{UserID: "u2", ProductKey: "p1", Stars: 1})
	require.NoError(t, err)

	reviews, err := a.GetUserReviews(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, reviews, 2)

	_, err = a.GetUserReviews(ctx, "")
	assert.ErrorIs(t, err, ierr.ValidationError)
}
