package review

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	ierr "go-firestore-deals/internal/errors"
	"go-firestore-deals/internal/metrics"
	"go-firestore-deals/internal/model"
	reviewRepository "go-firestore-deals/internal/repository/review"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Created  Outcome = "created"
	Replaced Outcome = "replaced"
	Removed  Outcome = "removed"
)

type ReviewInput struct {
	UserID      string  `json:"userID" validate:"required"`
	ProductKey  string  `json:"barcodeNumber" validate:"required"`
	Stars       float64 `json:"reviewStars" validate:"gte=0,lte=5"`
	ProductName string  `json:"productName"`
	Title       string  `json:"reviewTitle"`
	Text        string  `json:"reviewText"`
	PhotoURL    string  `json:"photoURL"`
}

// Aggregator keeps one review per user and product, and the product's rating
// aggregate in line with the reviews that exist.
type Aggregator struct {
	reviewRepo reviewRepository.IRepository
	validate   *validator.Validate
}

func New(reviewRepo reviewRepository.IRepository) *Aggregator {
	return &Aggregator{
		reviewRepo: reviewRepo,
		validate:   validator.New(),
	}
}

func (a *Aggregator) validateInput(in ReviewInput) error {
	if math.IsNaN(in.Stars) {
		return ierr.Validation("review stars is NaN")
	}
	if err := a.validate.Struct(in); err != nil {
		return ierr.Validation("review: %v", err)
	}
	return nil
}

// SubmitReview creates the user's review of a product, replaces it when the stars
// differ, or withdraws it when the same stars are submitted again.
func (a *Aggregator) SubmitReview(ctx context.Context, in ReviewInput) (Outcome, error) {
	if err := a.validateInput(in); err != nil {
		return "", err
	}

	id := reviewRepository.Key(in.UserID, in.ProductKey)
	existing, err := a.reviewRepo.GetById(ctx, id)
	if err != nil {
		return "", fmt.Errorf("submit review: %w", err)
	}

	var outcome Outcome
	switch {
	case existing == nil:
		outcome = Created
		err = a.reviewRepo.Save(ctx, model.Review{
			Id:            id,
			UserID:        in.UserID,
			PhotoURL:      in.PhotoURL,
			ReviewStars:   in.Stars,
			ProductName:   in.ProductName,
			BarcodeNumber: in.ProductKey,
			ReviewTitle:   in.Title,
			ReviewText:    in.Text,
		})
	case existing.ReviewStars == in.Stars:
		outcome = Removed
		err = a.reviewRepo.Delete(ctx, id)
	default:
		outcome = Replaced
		existing.ReviewStars = in.Stars
		existing.ReviewTitle = in.Title
		existing.ReviewText = in.Text
		existing.PhotoURL = in.PhotoURL
		if in.ProductName != "" {
			existing.ProductName = in.ProductName
		}
		err = a.reviewRepo.Save(ctx, *existing)
	}
	if err != nil {
		metrics.RecordReview("error")
		return "", fmt.Errorf("submit review: %w", err)
	}

	log.Debug().Msgf("review %s: user %s, product %s, stars %.1f", outcome, in.UserID, in.ProductKey, in.Stars)
	metrics.RecordReview(string(outcome))

	if err := a.RecomputeAggregate(ctx, in.ProductKey); err != nil {
		log.Error().Err(err).Msgf("review aggregator: failed to recompute rating for %s", in.ProductKey)
		return outcome, err
	}
	return outcome, nil
}

// RecomputeAggregate derives the product's rating from its reviews. A product
// without reviews has no aggregate.
func (a *Aggregator) RecomputeAggregate(ctx context.Context, productKey string) error {
	if productKey == "" {
		return ierr.Validation("product key is empty")
	}

	reviews, err := a.reviewRepo.ByProduct(ctx, productKey)
	if err != nil {
		return fmt.Errorf("recompute aggregate: %w", err)
	}

	if len(reviews) == 0 {
		if err := a.reviewRepo.DeleteAggregate(ctx, productKey); err != nil {
			return fmt.Errorf("recompute aggregate: %w", err)
		}
		return nil
	}

	sum := 0.0
	for _, r := range reviews {
		sum += r.ReviewStars
	}

	sortOldestFirst(reviews)
	err = a.reviewRepo.SaveAggregate(ctx, model.ReviewAggregate{
		BarcodeNumber: productKey,
		AverageStars:  sum / float64(len(reviews)),
		ProductName:   reviews[0].ProductName,
		ReviewCount:   len(reviews),
	})
	if err != nil {
		return fmt.Errorf("recompute aggregate: %w", err)
	}
	return nil
}

// GetReviewsFor lists the product's reviews, newest first.
func (a *Aggregator) GetReviewsFor(ctx context.Context, productKey string) ([]model.Review, error) {
	if productKey == "" {
		return nil, ierr.Validation("product key is empty")
	}

	reviews, err := a.reviewRepo.ByProduct(ctx, productKey)
	if err != nil {
		return nil, fmt.Errorf("get reviews: %w", err)
	}
	sortNewestFirst(reviews)
	return reviews, nil
}

func (a *Aggregator) GetUserReviews(ctx context.Context, userID string) ([]model.Review, error) {
	if userID == "" {
		return nil, ierr.Validation("user id is empty")
	}

	reviews, err := a.reviewRepo.ByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user reviews: %w", err)
	}
	sortNewestFirst(reviews)
	return reviews, nil
}

func (a *Aggregator) GetAggregate(ctx context.Context, productKey string) (*model.ReviewAggregate, error) {
	if productKey == "" {
		return nil, ierr.Validation("product key is empty")
	}

	agg, err := a.reviewRepo.GetAggregate(ctx, productKey)
	if err != nil {
		return nil, fmt.Errorf("get aggregate: %w", err)
	}
	if agg == nil {
		return nil, fmt.Errorf("%w: no rating for product %s", ierr.NotFound, productKey)
	}
	return agg, nil
}

// created orders reviews without a timestamp after every dated one.
func created(r model.Review) (time.Time, bool) {
	if r.DateTime == nil {
		return time.Time{}, false
	}
	return *r.DateTime, true
}

func sortOldestFirst(reviews []model.Review) {
	sort.SliceStable(reviews, func(i, j int) bool {
		ti, iok := created(reviews[i])
		tj, jok := created(reviews[j])
		if iok != jok {
			return iok
		}
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return reviews[i].Id < reviews[j].Id
	})
}

func sortNewestFirst(reviews []model.Review) {
	sort.SliceStable(reviews, func(i, j int) bool {
		ti, iok := created(reviews[i])
		tj, jok := created(reviews[j])
		if iok != jok {
			return iok
		}
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return reviews[i].Id < reviews[j].Id
	})
}
