package ranking

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go-firestore-deals/internal/database"
	ierr "go-firestore-deals/internal/errors"
	"go-firestore-deals/internal/model"
	commentRepository "go-firestore-deals/internal/repository/comment"
	userRepository "go-firestore-deals/internal/repository/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	boards [][]model.UserProfile
	err    error
}

func (s *recordingSink) SaveBoard(_ context.Context, board []model.UserProfile) error {
	s.boards = append(s.boards, board)
	return s.err
}

func setup(t *testing.T) (*Engine, userRepository.UserRepository, commentRepository.CommentRepository) {
	t.Helper()
	db := database.NewMemory(10)
	users := userRepository.New(db)
	comments := commentRepository.New(db)
	return New(users, comments, DefaultWeights(), 4), users, comments
}

func addComment(t *testing.T, comments commentRepository.CommentRepository, id, user, item string, kind model.CommentType) {
	t.Helper()
	require.NoError(t, comments.Create(context.Background(), model.Comment{
		Id: id, UserID: user, ItemID: item, CommentText: "x", CommentType: kind,
	}))
}

func TestComputeScore(t *testing.T) {
	e, _, comments := setup(t)

	for i := 0; i < 5; i++ {
		addComment(t, comments, fmt.Sprintf("c%d", i), "u1", fmt.Sprintf("d%d", i), model.CommentTypeDeal)
	}
	// repeated deal and review comments do not count
	addComment(t, comments, "c5", "u1", "d0", model.CommentTypeDeal)
	addComment(t, comments, "c6", "u1", "barcode", model.CommentTypeBarcodeItemReview)

	score, err := e.ComputeScore(context.Background(), model.UserProfile{Id: "u1", TotalDeals: 2, TotalUpvotes: 6})
	require.NoError(t, err)
	assert.Equal(t, 31, score)
}

func TestComputeScore_CustomWeights(t *testing.T) {
	db := database.NewMemory(10)
	e := New(userRepository.New(db), commentRepository.New(db), Weights{Deal: 1, Upvote: 2, Comment: 0}, 0)

	score, err := e.ComputeScore(context.Background(), model.UserProfile{Id: "u", TotalDeals: 3, TotalUpvotes: 4})
	require.NoError(t, err)
	assert.Equal(t, 11, score)
}

func TestFetchAndSortAllUsers(t *testing.T) {
	e, users, _ := setup(t)
	ctx := context.Background()
	sink := &recordingSink{err: errors.New("cache down")}
	e.WithSink(sink)

	require.NoError(t, users.Save(ctx, model.UserProfile{Id: "carol", TotalDeals: 1}))
	require.NoError(t, users.Save(ctx, model.UserProfile{Id: "alice", TotalUpvotes: 5}))
	require.NoError(t, users.Save(ctx, model.UserProfile{Id: "bob", TotalDeals: 2}))
	require.NoError(t, users.Save(ctx, model.UserProfile{Id: "dave"}))

	board, err := e.FetchAndSortAllUsers(ctx)
	require.NoError(t, err)

	ids := make([]string, 0, len(board))
	for _, p := range board {
		ids = append(ids, p.Id)
	}
	assert.Equal(t, []string{"bob", "alice", "carol", "dave"}, ids)
	assert.Equal(t, 10, board[0].RankingPoints)
	require.Len(t, sink.boards, 1)

	for i, p := range board {
		rank, err := e.GetUserRank(ctx, p.Id)
		require.NoError(t, err)
		assert.Equal(t, i+1, rank)
	}
}

func TestGetTopUsers(t *testing.T) {
	e, users, _ := setup(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, users.Save(ctx, model.UserProfile{Id: fmt.Sprintf("u%d", i), TotalDeals: i}))
	}

	top, err := e.GetTopUsers(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "u2", top[0].Id)

	top, err = e.GetTopUsers(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, top, 3)

	top, err = e.GetTopUsers(ctx, 0)
	require.NoError(t, err)
	assert.NotNil(t, top)
	assert.Empty(t, top)
}

func TestGetUserRank_NotFound(t *testing.T) {
	e, users, _ := setup(t)
	require.NoError(t, users.Save(context.Background(), model.UserProfile{Id: "u1"}))

	_, err := e.GetUserRank(context.Background(), "ghost")
	assert.ErrorIs(t, err, ierr.NotFound)
}

func TestPersistScore(t *testing.T) {
	e, users, comments := setup(t)
	ctx := context.Background()

	require.NoError(t, users.Save(ctx, model.UserProfile{Id: "u1", TotalDeals: 1, TotalUpvotes: 2}))
	addComment(t, comments, "c1", "u1", "d1", model.CommentTypeDeal)

	score, err := e.PersistScore(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 10, score)

	profile, err := users.GetById(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 10, profile.RankingPoints)

	_, err = e.PersistScore(ctx, "ghost")
	assert.ErrorIs(t, err, ierr.NotFound)
}
