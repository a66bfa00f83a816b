package ranking

import (
	"context"
	"fmt"
	"sort"

	ierr "go-firestore-deals/internal/errors"
	"go-firestore-deals/internal/metrics"
	"go-firestore-deals/internal/model"
	commentRepository "go-firestore-deals/internal/repository/comment"
	userRepository "go-firestore-deals/internal/repository/user"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 8

type Weights struct {
	Deal    int
	Upvote  int
	Comment int
}

func DefaultWeights() Weights {
	return Weights{Deal: 5, Upvote: 1, Comment: 3}
}

// BoardSink receives every freshly sorted leaderboard.
type BoardSink interface {
	SaveBoard(ctx context.Context, board []model.UserProfile) error
}

type Engine struct {
	userRepo    userRepository.IRepository
	commentRepo commentRepository.IRepository
	weights     Weights
	concurrency int
	sink        BoardSink
}

func New(userRepo userRepository.IRepository, commentRepo commentRepository.IRepository, weights Weights, concurrency int) *Engine {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Engine{
		userRepo:    userRepo,
		commentRepo: commentRepo,
		weights:     weights,
		concurrency: concurrency,
	}
}

func (e *Engine) WithSink(sink BoardSink) *Engine {
	e.sink = sink
	return e
}

// ComputeScore weighs the user's deals, received upvotes and the number of
// distinct deals they commented on.
func (e *Engine) ComputeScore(ctx context.Context, profile model.UserProfile) (int, error) {
	comments, err := e.commentRepo.ByUser(ctx, profile.Id, model.CommentTypeDeal)
	if err != nil {
		return 0, fmt.Errorf("compute score: %w, user id: %s", err, profile.Id)
	}

	commented := make(map[string]struct{}, len(comments))
	for _, c := range comments {
		commented[c.ItemID] = struct{}{}
	}

	return profile.TotalDeals*e.weights.Deal +
		profile.TotalUpvotes*e.weights.Upvote +
		len(commented)*e.weights.Comment, nil
}

// FetchAndSortAllUsers scores every user and sorts them by score, highest first,
// then by id. RankingPoints of the returned profiles hold the live score.
func (e *Engine) FetchAndSortAllUsers(ctx context.Context) ([]model.UserProfile, error) {
	profiles, err := e.userRepo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch users: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i := range profiles {
		i := i
		g.Go(func() error {
			score, err := e.ComputeScore(gctx, profiles[i])
			if err != nil {
				return err
			}
			profiles[i].RankingPoints = score
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch users: %w", err)
	}

	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].RankingPoints != profiles[j].RankingPoints {
			return profiles[i].RankingPoints > profiles[j].RankingPoints
		}
		return profiles[i].Id < profiles[j].Id
	})
	metrics.SetLeaderboardSize(len(profiles))

	if e.sink != nil {
		if err := e.sink.SaveBoard(ctx, profiles); err != nil {
			log.Error().Err(err).Msg("ranking: failed to store leaderboard snapshot")
		}
	}

	return profiles, nil
}

func (e *Engine) GetTopUsers(ctx context.Context, limit int) ([]model.UserProfile, error) {
	if limit <= 0 {
		return []model.UserProfile{}, nil
	}

	board, err := e.FetchAndSortAllUsers(ctx)
	if err != nil {
		return nil, err
	}

	if limit > len(board) {
		limit = len(board)
	}
	return board[:limit], nil
}

// GetUserRank returns the user's 1-based position on the leaderboard.
func (e *Engine) GetUserRank(ctx context.Context, userId string) (int, error) {
	if userId == "" {
		return 0, ierr.Validation("user id is empty")
	}

	board, err := e.FetchAndSortAllUsers(ctx)
	if err != nil {
		return 0, err
	}

	for i, p := range board {
		if p.Id == userId {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("%w: user %s is not ranked", ierr.NotFound, userId)
}

// PersistScore recomputes the user's score and stores it as rankingPoints.
func (e *Engine) PersistScore(ctx context.Context, userId string) (int, error) {
	if userId == "" {
		return 0, ierr.Validation("user id is empty")
	}

	profile, err := e.userRepo.GetById(ctx, userId)
	if err != nil {
		return 0, fmt.Errorf("persist score: %w", err)
	}
	if profile == nil {
		return 0, fmt.Errorf("%w: user %s", ierr.NotFound, userId)
	}

	score, err := e.ComputeScore(ctx, *profile)
	if err != nil {
		return 0, err
	}

	if err := e.userRepo.SetRankingPoints(ctx, userId, score); err != nil {
		return 0, fmt.Errorf("persist score: %w", err)
	}
	log.Debug().Msgf("ranking points of %s set to %d", userId, score)
	return score, nil
}
