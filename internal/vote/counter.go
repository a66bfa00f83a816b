package vote

import (
	"context"
	"fmt"

	ierr "go-firestore-deals/internal/errors"
	"go-firestore-deals/internal/model"
	commentRepository "go-firestore-deals/internal/repository/comment"
	dealRepository "go-firestore-deals/internal/repository/deal"
	userRepository "go-firestore-deals/internal/repository/user"
	voteRepository "go-firestore-deals/internal/repository/vote"
)

// CounterAggregator keeps the denormalized vote counters in line with the ledger.
type CounterAggregator struct {
	voteRepo    voteRepository.IRepository
	dealRepo    dealRepository.IRepository
	commentRepo commentRepository.IRepository
	userRepo    userRepository.IRepository
}

func NewCounterAggregator(
	voteRepo voteRepository.IRepository,
	dealRepo dealRepository.IRepository,
	commentRepo commentRepository.IRepository,
	userRepo userRepository.IRepository) *CounterAggregator {

	return &CounterAggregator{
		voteRepo:    voteRepo,
		dealRepo:    dealRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
	}
}

// CountVotes scans the ledger for every vote cast on the item.
func (a *CounterAggregator) CountVotes(ctx context.Context, itemId string, kind model.ItemKind) (model.VoteCounts, error) {
	votes, err := a.voteRepo.ByItem(ctx, itemId, kind)
	if err != nil {
		return model.VoteCounts{}, err
	}

	counts := model.VoteCounts{}
	for _, v := range votes {
		switch v.VoteType {
		case model.Upvote:
			counts.Upvotes++
		case model.Downvote:
			counts.Downvotes++
		}
	}
	return counts, nil
}

// RecomputeItemCounts rewrites the item's upvote and downvote fields from a full
// ledger scan. Concurrent recomputes converge since each one re-reads the ledger.
func (a *CounterAggregator) RecomputeItemCounts(ctx context.Context, itemId string, kind model.ItemKind) error {
	counts, err := a.CountVotes(ctx, itemId, kind)
	if err != nil {
		return fmt.Errorf("recompute counts: %w, id: %s", err, itemId)
	}

	switch kind {
	case model.ItemKindDeal:
		err = a.dealRepo.SetVoteCounts(ctx, itemId, counts)
	case model.ItemKindComment:
		err = a.commentRepo.SetVoteCounts(ctx, itemId, counts)
	default:
		return ierr.Validation("unknown item kind %q", kind)
	}
	if err != nil {
		return fmt.Errorf("recompute counts: %w, id: %s", err, itemId)
	}
	return nil
}

// Owner returns the id of the user who posted the item, or NotFound.
func (a *CounterAggregator) Owner(ctx context.Context, itemId string, kind model.ItemKind) (string, error) {
	var owner string

	switch kind {
	case model.ItemKindDeal:
		deal, err := a.dealRepo.GetById(ctx, itemId)
		if err != nil {
			return "", err
		}
		if deal == nil {
			return "", fmt.Errorf("%w: deal %s", ierr.NotFound, itemId)
		}
		owner = deal.UserID
	case model.ItemKindComment:
		comment, err := a.commentRepo.GetById(ctx, itemId)
		if err != nil {
			return "", err
		}
		if comment == nil {
			return "", fmt.Errorf("%w: comment %s", ierr.NotFound, itemId)
		}
		owner = comment.UserID
	default:
		return "", ierr.Validation("unknown item kind %q", kind)
	}
	return owner, nil
}

// AdjustOwnerCounter moves the item owner's totalUpvotes by one, up when an upvote
// was gained and down when one was lost. It returns the owner id it touched.
func (a *CounterAggregator) AdjustOwnerCounter(ctx context.Context, itemId string, kind model.ItemKind, upvoteGained bool) (string, error) {
	owner, err := a.Owner(ctx, itemId, kind)
	if err != nil {
		return "", fmt.Errorf("adjust owner counter: %w, item id: %s", err, itemId)
	}
	if owner == "" {
		return "", fmt.Errorf("adjust owner counter: %w, item %s has no owner", ierr.NotFound, itemId)
	}

	delta := int64(-1)
	if upvoteGained {
		delta = 1
	}

	if err := a.userRepo.Increment(ctx, owner, userRepository.TotalUpvotesFieldPath, delta); err != nil {
		return owner, fmt.Errorf("adjust owner counter: %w, item id: %s", err, itemId)
	}
	return owner, nil
}
