package deal

import (
	"context"
	"errors"
	"fmt"

	"go-firestore-deals/internal/database"
	ierr "go-firestore-deals/internal/errors"
	"go-firestore-deals/internal/model"
	"go-firestore-deals/internal/repository/filter"
	"go-firestore-deals/internal/repository/ops"
)

type DealRepository struct {
	db database.Client
}

var _ IRepository = DealRepository{}

func New(db database.Client) DealRepository {
	return DealRepository{
		db: db,
	}
}

func (r DealRepository) MaxInSize() int {
	return r.db.MaxInSize()
}

func (r DealRepository) GetById(ctx context.Context, id string) (*model.Deal, error) {
	snap, err := r.db.GetDoc(ctx, DealsNode, id)
	if err != nil {
		if errors.Is(err, ierr.NotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get deal: %w, id: %s", err, id)
	}

	deal := &model.Deal{}
	if err := snap.DataTo(deal); err != nil {
		return nil, fmt.Errorf("get deal: %w, id: %s", err, id)
	}
	if deal.Id == "" {
		deal.Id = snap.ID()
	}
	return deal, nil
}

func (r DealRepository) Create(ctx context.Context, data model.Deal) error {
	if data.Id == "" {
		return ierr.Validation("create deal: id is empty")
	}

	if err := r.db.SetDoc(ctx, DealsNode, data.Id, data); err != nil {
		return fmt.Errorf("create deal: %w, id: %s", err, data.Id)
	}
	return nil
}

func (r DealRepository) ByIds(ctx context.Context, ids []string) ([]model.Deal, error) {
	if len(ids) == 0 {
		return []model.Deal{}, nil
	}

	snaps, err := r.db.Query(ctx, DealsNode, filter.Where{Path: filter.DocumentID, Op: ops.In, Value: ids})
	if err != nil {
		return nil, fmt.Errorf("deals by ids: %w, first id: %s", err, ids[0])
	}

	deals := make([]model.Deal, 0, len(snaps))
	for _, snap := range snaps {
		deal := model.Deal{}
		if err := snap.DataTo(&deal); err != nil {
			return nil, fmt.Errorf("deals by ids: %w, id: %s", err, snap.ID())
		}
		if deal.Id == "" {
			deal.Id = snap.ID()
		}
		deals = append(deals, deal)
	}
	return deals, nil
}

// AppendComment fails with ierr.NotFound when the deal does not exist.
func (r DealRepository) AppendComment(ctx context.Context, dealId, commentId string) error {
	err := r.db.UpdateDoc(ctx, DealsNode, dealId, []database.Update{
		{Path: CommentIDsFieldPath, Value: database.ArrayUnion(commentId)},
	})
	if err != nil {
		return fmt.Errorf("append comment: %w, deal id: %s", err, dealId)
	}
	return nil
}

func (r DealRepository) SetVoteCounts(ctx context.Context, id string, counts model.VoteCounts) error {
	err := r.db.UpdateDoc(ctx, DealsNode, id, []database.Update{
		{Path: UpvoteFieldPath, Value: counts.Upvotes},
		{Path: DownvoteFieldPath, Value: counts.Downvotes},
	})
	if err != nil {
		return fmt.Errorf("set deal vote counts: %w, id: %s", err, id)
	}
	return nil
}
