package deal

import (
	"context"

	"go-firestore-deals/internal/model"
)

type IRepository interface {
	GetById(ctx context.Context, id string) (*model.Deal, error)
	Create(ctx context.Context, data model.Deal) error
	// ByIds resolves at most MaxInSize ids in a single query. Missing ids are skipped.
	ByIds(ctx context.Context, ids []string) ([]model.Deal, error)
	AppendComment(ctx context.Context, dealId, commentId string) error
	SetVoteCounts(ctx context.Context, id string, counts model.VoteCounts) error
	MaxInSize() int
}
