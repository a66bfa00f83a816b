package vote

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

type VoteRepository struct {
	db database.Client
}

var _ IRepository = VoteRepository{}

func New(db database.Client) VoteRepository {
	return VoteRepository{
		db: db,
	}
}

// Key is the ledger id of the vote a user casts on an item.
func Key(userId, itemId string, kind model.ItemKind) string {
	return utils.CompositeKey(userId, itemId, string(kind))
}

// GetById returns nil, nil when no vote is stored under id.
func (r VoteRepository) GetById(ctx context.Context, id string) (*model.Vote, error) {
	snap, err := r.db.GetDoc(ctx, votesNode, id)
	if err != nil {
		if errors.Is(err, ierr.NotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vote: %w, id: %s", err, id)
	}

	vote := &model.Vote{}
	if err := snap.DataTo(vote); err != nil {
		return nil, fmt.Errorf("get vote: %w, id: %s", err, id)
	}
	return vote, nil
}

func (r VoteRepository) Save(ctx context.Context, data model.Vote) error {
	if data.VoteId == "" {
		data.VoteId = Key(data.UserId, data.ItemId, data.ItemType)
	}

	data.UpdatedAt = time.Now().UTC()
	if data.CreatedAt.IsZero() {
		data.CreatedAt = data.UpdatedAt
	}

	if err := r.db.SetDoc(ctx, votesNode, data.VoteId, data); err != nil {
		return fmt.Errorf("save vote: %w, id: %s", err, data.VoteId)
	}
	return nil
}

func (r VoteRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.DeleteDoc(ctx, votesNode, id); err != nil {
		return fmt.Errorf("delete vote: %w, id: %s", err, id)
	}
	return nil
}

func (r VoteRepository) ByItem(ctx context.Context, itemId string, kind model.ItemKind) ([]model.Vote, error) {
	snaps, err := r.db.Query(ctx, votesNode,
		filter.Where{Path: ItemIdFieldPath, Op: ops.Equal, Value: itemId},
		filter.Where{Path: ItemTypeFieldPath, Op: ops.Equal, Value: string(kind)},
	)
	if err != nil {
		return nil, fmt.Errorf("votes by item: %w, id: %s", err, itemId)
	}

	votes := make([]model.Vote, 0, len(snaps))
	for _, snap := range snaps {
		vote := model.Vote{}
		if err := snap.DataTo(&vote); err != nil {
			return nil, fmt.Errorf("votes by item: %w, id: %s", err, itemId)
		}
		votes = append(votes, vote)
	}
	return votes, nil
}
