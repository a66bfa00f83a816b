package comment

import (
	"context"

	"go-firestore-deals/internal/model"
)

type IRepository interface {
	GetById(ctx context.Context, id string) (*model.Comment, error)
	Create(ctx context.Context, data model.Comment) error
	ByUser(ctx context.Context, userID string, commentType model.CommentType) ([]model.Comment, error)
	SetVoteCounts(ctx context.Context, id string, counts model.VoteCounts) error
}
