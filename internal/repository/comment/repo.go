package comment

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

type CommentRepository struct {
	db database.Client
}

var _ IRepository = CommentRepository{}

func New(db database.Client) CommentRepository {
	return CommentRepository{
		db: db,
	}
}

func (r CommentRepository) GetById(ctx context.Context, id string) (*model.Comment, error) {
	snap, err := r.db.GetDoc(ctx, CommentsNode, id)
	if err != nil {
		if errors.Is(err, ierr.NotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get comment: %w, id: %s", err, id)
	}

	c := &model.Comment{}
	if err := snap.DataTo(c); err != nil {
		return nil, fmt.Errorf("get comment: %w, id: %s", err, id)
	}
	if c.Id == "" {
		c.Id = snap.ID()
	}
	return c, nil
}

func (r CommentRepository) Create(ctx context.Context, data model.Comment) error {
	if data.Id == "" {
		return ierr.Validation("create comment: id is empty")
	}

	if err := r.db.SetDoc(ctx, CommentsNode, data.Id, data); err != nil {
		return fmt.Errorf("create comment: %w, id: %s", err, data.Id)
	}
	return nil
}

func (r CommentRepository) ByUser(ctx context.Context, userID string, commentType model.CommentType) ([]model.Comment, error) {
	snaps, err := r.db.Query(ctx, CommentsNode,
		filter.Where{Path: UserIDFieldPath, Op: ops.Equal, Value: userID},
		filter.Where{Path: CommentTypeFieldPath, Op: ops.Equal, Value: string(commentType)},
	)
	if err != nil {
		return nil, fmt.Errorf("comments by user: %w, id: %s", err, userID)
	}

	comments := make([]model.Comment, 0, len(snaps))
	for _, snap := range snaps {
		c := model.Comment{}
		if err := snap.DataTo(&c); err != nil {
			return nil, fmt.Errorf("comments by user: %w, id: %s", err, snap.ID())
		}
		comments = append(comments, c)
	}
	return comments, nil
}

func (r CommentRepository) SetVoteCounts(ctx context.Context, id string, counts model.VoteCounts) error {
	err := r.db.UpdateDoc(ctx, CommentsNode, id, []database.Update{
		{Path: UpvoteFieldPath, Value: counts.Upvotes},
		{Path: DownvoteFieldPath, Value: counts.Downvotes},
	})
	if err != nil {
		return fmt.Errorf("set comment vote counts: %w, id: %s", err, id)
	}
	return nil
}
