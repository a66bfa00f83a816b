package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-firestore-deals/internal/database"
	ierr "go-firestore-deals/internal/errors"
	"go-firestore-deals/internal/model"
	"go-firestore-deals/internal/repository/filter"
	"go-firestore-deals/internal/repository/ops"
	"go-firestore-deals/internal/utils"
)

type ReviewRepository struct {
	db database.Client
}

var _ IRepository = ReviewRepository{}

func New(db database.Client) ReviewRepository {
	return ReviewRepository{
		db: db,
	}
}

// Key is the id of the single review a user may hold for a product.
func Key(userID, barcodeNumber string) string {
	return utils.CompositeKey(userID, barcodeNumber)
}

func (r ReviewRepository) GetById(ctx context.Context, id string) (*model.Review, error) {
	snap, err := r.db.GetDoc(ctx, reviewsNode, id)
	if err != nil {
		if errors.Is(err, ierr.NotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get review: %w, id: %s", err, id)
	}

	rw := &model.Review{}
	if err := snap.DataTo(rw); err != nil {
		return nil, fmt.Errorf("get review: %w, id: %s", err, id)
	}
	return rw, nil
}

func (r ReviewRepository) Save(ctx context.Context, data model.Review) error {
	if data.Id == "" {
		data.Id = Key(data.UserID, data.BarcodeNumber)
	}

	data.UpdatedAt = time.Now().UTC()
	if data.DateTime == nil {
		data.DateTime = utils.TimeToPointer(data.UpdatedAt)
	}

	if err := r.db.SetDoc(ctx, reviewsNode, data.Id, data); err != nil {
		return fmt.Errorf("save review: %w, id: %s", err, data.Id)
	}
	return nil
}

func (r ReviewRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.DeleteDoc(ctx, reviewsNode, id); err != nil {
		return fmt.Errorf("delete review: %w, id: %s", err, id)
	}
	return nil
}

func (r ReviewRepository) ByProduct(ctx context.Context, barcodeNumber string) ([]model.Review, error) {
	return r.query(ctx, filter.Where{Path: BarcodeNumberFieldPath, Op: ops.Equal, Value: barcodeNumber})
}

func (r ReviewRepository) ByUser(ctx context.Context, userID string) ([]model.Review, error) {
	return r.query(ctx, filter.Where{Path: UserIDFieldPath, Op: ops.Equal, Value: userID})
}

func (r ReviewRepository) query(ctx context.Context, where filter.Where) ([]model.Review, error) {
	snaps, err := r.db.Query(ctx, reviewsNode, where)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w, %s: %v", err, where.Path, where.Value)
	}

	reviews := make([]model.Review, 0, len(snaps))
	for _, snap := range snaps {
		rw := model.Review{}
		if err := snap.DataTo(&rw); err != nil {
			return nil, fmt.Errorf("query reviews: %w, id: %s", err, snap.ID())
		}
		if rw.Id == "" {
			rw.Id = snap.ID()
		}
		reviews = append(reviews, rw)
	}
	return reviews, nil
}

func (r ReviewRepository) GetAggregate(ctx context.Context, barcodeNumber string) (*model.ReviewAggregate, error) {
	snap, err := r.db.GetDoc(ctx, aggregatesNode, barcodeNumber)
	if err != nil {
		if errors.Is(err, ierr.NotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get review aggregate: %w, id: %s", err, barcodeNumber)
	}

	agg := &model.ReviewAggregate{}
	if err := snap.DataTo(agg); err != nil {
		return nil, fmt.Errorf("get review aggregate: %w, id: %s", err, barcodeNumber)
	}
	return agg, nil
}

func (r ReviewRepository) SaveAggregate(ctx context.Context, data model.ReviewAggregate) error {
	data.UpdatedAt = time.Now().UTC()
	if err := r.db.SetDoc(ctx, aggregatesNode, data.BarcodeNumber, data); err != nil {
		return fmt.Errorf("save review aggregate: %w, id: %s", err, data.BarcodeNumber)
	}
	return nil
}

func (r ReviewRepository) DeleteAggregate(ctx context.Context, barcodeNumber string) error {
	if err := r.db.DeleteDoc(ctx, aggregatesNode, barcodeNumber); err != nil {
		return fmt.Errorf("delete review aggregate: %w, id: %s", err, barcodeNumber)
	}
	return nil
}
