package batch

import (
	"context"
	"fmt"
	"sort"
	"time"

	ierr "go-firestore-deals/internal/errors"
	"go-firestore-deals/internal/metrics"
	"go-firestore-deals/internal/model"
	dealRepository "go-firestore-deals/internal/repository/deal"
	"go-firestore-deals/internal/repository/helper"
	userRepository "go-firestore-deals/internal/repository/user"
	"go-firestore-deals/internal/utils"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const defaultChunkSize = 10

// Fetcher resolves deal id lists larger than what a single "in" query accepts.
type Fetcher struct {
	dealRepo  dealRepository.IRepository
	userRepo  userRepository.IRepository
	chunkSize int
	now       func() time.Time
}

func New(dealRepo dealRepository.IRepository, userRepo userRepository.IRepository) *Fetcher {
	chunkSize := dealRepo.MaxInSize()
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return &Fetcher{
		dealRepo:  dealRepo,
		userRepo:  userRepo,
		chunkSize: chunkSize,
		now:       time.Now,
	}
}

// ResolveByIds queries ids in chunks, all chunks at once, and returns the deals
// newest first with a fresh recency label. Deals without a timestamp come last in
// the order they were asked for. When a chunk fails the deals of the other chunks
// are returned along with a *errors.PartialBatchFailure.
func (f *Fetcher) ResolveByIds(ctx context.Context, ids []string) ([]model.Deal, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return []model.Deal{}, nil
	}

	chunks := helper.Chunk(ids, f.chunkSize)
	slots := make([][]model.Deal, len(chunks))
	errs := make([]error, len(chunks))

	var g errgroup.Group
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			deals, err := f.dealRepo.ByIds(ctx, chunk)
			metrics.RecordBatchChunk(err)
			if err != nil {
				log.Error().Err(err).Msgf("batch fetch: chunk %d of %d failed", i, len(chunks))
				errs[i] = err
				return nil
			}
			slots[i] = deals
			return nil
		})
	}
	_ = g.Wait()

	failure := &ierr.PartialBatchFailure{Chunks: len(chunks), Failed: map[int]error{}}
	now := f.now()
	deals := make([]model.Deal, 0, len(ids))
	for i := range chunks {
		if errs[i] != nil {
			failure.Failed[i] = errs[i]
			continue
		}
		failure.Succeeded = append(failure.Succeeded, i)

		for _, d := range slots[i] {
			if d.DateTime != nil {
				d.Date = utils.TimeAgo(now, *d.DateTime)
			}
			deals = append(deals, d)
		}
	}

	sortNewestFirst(deals, ids)

	if len(failure.Failed) > 0 {
		return deals, failure
	}
	return deals, nil
}

// ResolveSavedDeals resolves the deals the user bookmarked.
func (f *Fetcher) ResolveSavedDeals(ctx context.Context, userId string) ([]model.Deal, error) {
	if userId == "" {
		return nil, ierr.Validation("user id is empty")
	}

	profile, err := f.userRepo.GetById(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("saved deals: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: user %s", ierr.NotFound, userId)
	}

	return f.ResolveByIds(ctx, profile.SavedDeals)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func sortNewestFirst(deals []model.Deal, ids []string) {
	position := make(map[string]int, len(ids))
	for i, id := range ids {
		position[id] = i
	}

	sort.SliceStable(deals, func(i, j int) bool {
		a, b := deals[i].DateTime, deals[j].DateTime
		switch {
		case a != nil && b != nil:
			if !a.Equal(*b) {
				return a.After(*b)
			}
			return position[deals[i].Id] < position[deals[j].Id]
		case a != nil:
			return true
		case b != nil:
			return false
		default:
			return position[deals[i].Id] < position[deals[j].Id]
		}
	})
}
