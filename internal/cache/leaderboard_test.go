package cache

import (
	"context"
	"testing"
	"time"

	ierr "go-firestore-deals/internal/errors"
	"go-firestore-deals/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T) (*LeaderboardCache, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), s.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return NewLeaderboardCache(client, time.Minute), s
}

func TestLeaderboardCache_SaveAndTop(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	board := []model.UserProfile{
		{Id: "zoe", RankingPoints: 40},
		{Id: "adam", RankingPoints: 31},
		{Id: "mia", RankingPoints: 31},
	}
	require.NoError(t, c.SaveBoard(ctx, board))

	top, err := c.Top(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "zoe", top[0].Id)
	assert.Equal(t, "adam", top[1].Id)
	assert.Equal(t, 31, top[1].RankingPoints)

	top, err = c.Top(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, top, 3)

	top, err = c.Top(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestLeaderboardCache_ReplacesBoard(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.SaveBoard(ctx, []model.UserProfile{{Id: "a"}, {Id: "b"}}))
	require.NoError(t, c.SaveBoard(ctx, []model.UserProfile{{Id: "c"}}))

	top, err := c.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "c", top[0].Id)
}

func TestLeaderboardCache_Expires(t *testing.T) {
	c, s := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.SaveBoard(ctx, []model.UserProfile{{Id: "a"}}))
	s.FastForward(2 * time.Minute)

	_, err := c.Top(ctx, 10)
	assert.ErrorIs(t, err, ierr.NotFound)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	s := miniredis.RunT(t)
	addr := s.Addr()
	s.Close()

	_, err := NewRedisClient(context.Background(), addr, "", 0)
	assert.Error(t, err)
}
