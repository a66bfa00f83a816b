package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	ierr "go-firestore-deals/internal/errors"
	"go-firestore-deals/internal/model"

	"github.com/redis/go-redis/v9"
)

const (
	keyBoard = "leaderboard:positions"
	keyInfo  = "leaderboard:info"

	defaultTTL = 5 * time.Minute
)

func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

// LeaderboardCache keeps the last computed leaderboard in a sorted set whose
// scores are board positions, with the profiles in a hash next to it.
type LeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLeaderboardCache(client *redis.Client, ttl time.Duration) *LeaderboardCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &LeaderboardCache{
		client: client,
		ttl:    ttl,
	}
}

// SaveBoard replaces the cached board with board, kept in the given order.
func (c *LeaderboardCache) SaveBoard(ctx context.Context, board []model.UserProfile) error {
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, keyBoard, keyInfo)

	if len(board) > 0 {
		members := make([]redis.Z, 0, len(board))
		info := make(map[string]interface{}, len(board))
		for i, p := range board {
			data, err := json.Marshal(p)
			if err != nil {
				return fmt.Errorf("save board: marshal %s: %w", p.Id, err)
			}
			members = append(members, redis.Z{Score: float64(i), Member: p.Id})
			info[p.Id] = data
		}

		pipe.ZAdd(ctx, keyBoard, members...)
		pipe.HSet(ctx, keyInfo, info)
		pipe.Expire(ctx, keyBoard, c.ttl)
		pipe.Expire(ctx, keyInfo, c.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return ierr.Store(fmt.Errorf("save board: %w", err))
	}
	return nil
}

// Top returns up to limit profiles of the cached board, best first. An expired or
// never written board yields NotFound.
func (c *LeaderboardCache) Top(ctx context.Context, limit int) ([]model.UserProfile, error) {
	if limit <= 0 {
		return []model.UserProfile{}, nil
	}

	ids, err := c.client.ZRange(ctx, keyBoard, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, ierr.Store(fmt.Errorf("board top: %w", err))
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no cached leaderboard", ierr.NotFound)
	}

	values, err := c.client.HMGet(ctx, keyInfo, ids...).Result()
	if err != nil {
		return nil, ierr.Store(fmt.Errorf("board info: %w", err))
	}

	profiles := make([]model.UserProfile, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			return nil, ierr.Decode(fmt.Errorf("board info missing for %s", ids[i]))
		}

		p := model.UserProfile{}
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, ierr.Decode(fmt.Errorf("board info %s: %w", ids[i], err))
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}
