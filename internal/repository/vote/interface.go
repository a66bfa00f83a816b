package vote

import (
	"context"

	"go-firestore-deals/internal/model"
)

type IRepository interface {
	GetById(ctx context.Context, id string) (*model.Vote, error)
	Save(ctx context.Context, data model.Vote) error
	Delete(ctx context.Context, id string) error
	ByItem(ctx context.Context, itemId string, kind model.ItemKind) ([]model.Vote, error)
}
