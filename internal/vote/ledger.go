package vote

import (
	"context"
	"errors"
	"fmt"

	ierr "go-firestore-deals/internal/errors"
	"go-firestore-deals/internal/eventpublisher/activity"
	"go-firestore-deals/internal/eventpublisher/event"
	"go-firestore-deals/internal/metrics"
	"go-firestore-deals/internal/model"
	voteRepository "go-firestore-deals/internal/repository/vote"

	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Created  Outcome = "created"
	Switched Outcome = "switched"
	Removed  Outcome = "removed"
)

// Ledger records one vote per (user, item, kind) and keeps the counters derived
// from it up to date after every change.
type Ledger struct {
	voteRepo voteRepository.IRepository
	counters *CounterAggregator
	notifier activity.Notifier
}

// NewLedger builds a Ledger. notifier may be nil.
func NewLedger(voteRepo voteRepository.IRepository, counters *CounterAggregator, notifier activity.Notifier) *Ledger {
	return &Ledger{
		voteRepo: voteRepo,
		counters: counters,
		notifier: notifier,
	}
}

func validate(userId, itemId string, kind model.ItemKind) error {
	if userId == "" {
		return ierr.Validation("user id is empty")
	}
	if itemId == "" {
		return ierr.Validation("item id is empty")
	}
	if !kind.Valid() {
		return ierr.Validation("unknown item kind %q", kind)
	}
	return nil
}

// ToggleVote casts, switches or withdraws the user's vote on an item.
// When the counters cannot be recomputed after the ledger write, the outcome is
// still returned together with the error.
func (l *Ledger) ToggleVote(ctx context.Context, userId, itemId string, kind model.ItemKind, voteType model.VoteType) (Outcome, error) {
	if err := validate(userId, itemId, kind); err != nil {
		return "", err
	}
	if !voteType.Valid() {
		return "", ierr.Validation("unknown vote type %q", voteType)
	}

	if _, err := l.counters.Owner(ctx, itemId, kind); err != nil {
		return "", fmt.Errorf("toggle vote: %w, item id: %s", err, itemId)
	}

	id := voteRepository.Key(userId, itemId, kind)
	existing, err := l.voteRepo.GetById(ctx, id)
	if err != nil {
		return "", fmt.Errorf("toggle vote: %w", err)
	}

	var (
		outcome  Outcome
		previous model.VoteType
	)

	switch {
	case existing == nil:
		outcome = Created
		err = l.voteRepo.Save(ctx, model.Vote{
			VoteId:   id,
			UserId:   userId,
			ItemId:   itemId,
			ItemType: kind,
			VoteType: voteType,
		})
	case existing.VoteType == voteType:
		outcome = Removed
		previous = existing.VoteType
		err = l.voteRepo.Delete(ctx, id)
	default:
		outcome = Switched
		previous = existing.VoteType
		existing.VoteType = voteType
		err = l.voteRepo.Save(ctx, *existing)
	}
	if err != nil {
		metrics.RecordVote(string(kind), "error")
		return "", fmt.Errorf("toggle vote: %w", err)
	}

	log.Debug().Msgf("vote %s: user %s, %s %s, %s -> %s", outcome, userId, kind, itemId, previous, voteType)
	metrics.RecordVote(string(kind), string(outcome))

	current := voteType
	if outcome == Removed {
		current = ""
	}
	return outcome, l.afterWrite(ctx, itemId, kind, previous, current)
}

func (l *Ledger) GetVote(ctx context.Context, userId, itemId string, kind model.ItemKind) (*model.Vote, error) {
	if err := validate(userId, itemId, kind); err != nil {
		return nil, err
	}

	v, err := l.voteRepo.GetById(ctx, voteRepository.Key(userId, itemId, kind))
	if err != nil {
		return nil, fmt.Errorf("get vote: %w", err)
	}
	return v, nil
}

// RemoveVote withdraws the user's vote. Removing a vote that does not exist succeeds.
func (l *Ledger) RemoveVote(ctx context.Context, userId, itemId string, kind model.ItemKind) error {
	if err := validate(userId, itemId, kind); err != nil {
		return err
	}

	id := voteRepository.Key(userId, itemId, kind)
	existing, err := l.voteRepo.GetById(ctx, id)
	if err != nil {
		return fmt.Errorf("remove vote: %w", err)
	}
	if existing == nil {
		return nil
	}

	if err := l.voteRepo.Delete(ctx, id); err != nil {
		metrics.RecordVote(string(kind), "error")
		return fmt.Errorf("remove vote: %w", err)
	}

	log.Debug().Msgf("vote removed: user %s, %s %s, was %s", userId, kind, itemId, existing.VoteType)
	metrics.RecordVote(string(kind), string(Removed))

	err = l.afterWrite(ctx, itemId, kind, existing.VoteType, "")
	if errors.Is(err, ierr.NotFound) {
		// the item itself is gone, nothing left to recompute
		return nil
	}
	return err
}

func (l *Ledger) GetVoteCounts(ctx context.Context, itemId string, kind model.ItemKind) (model.VoteCounts, error) {
	if itemId == "" {
		return model.VoteCounts{}, ierr.Validation("item id is empty")
	}
	if !kind.Valid() {
		return model.VoteCounts{}, ierr.Validation("unknown item kind %q", kind)
	}

	counts, err := l.counters.CountVotes(ctx, itemId, kind)
	if err != nil {
		return model.VoteCounts{}, fmt.Errorf("get vote counts: %w", err)
	}
	return counts, nil
}

// afterWrite recomputes the item counters and, on transitions into or out of the
// upvote state, the owner's totalUpvotes. Owner counter failures are tolerated.
func (l *Ledger) afterWrite(ctx context.Context, itemId string, kind model.ItemKind, previous, current model.VoteType) error {
	recomputeErr := l.counters.RecomputeItemCounts(ctx, itemId, kind)
	if recomputeErr != nil {
		log.Error().Err(recomputeErr).Msgf("ledger: failed to recompute counts for %s %s", kind, itemId)
	}

	wasUp, isUp := previous == model.Upvote, current == model.Upvote
	if wasUp != isUp {
		owner, err := l.counters.AdjustOwnerCounter(ctx, itemId, kind, isUp)
		if err != nil {
			metrics.RecordOwnerCounterFailure()
			log.Error().Err(err).Msgf("ledger: owner counter left unadjusted for %s %s", kind, itemId)
		} else if l.notifier != nil {
			l.notifier.Publish(ctx, event.ScoreChanged{UserID: owner, Type: event.VoteChanged})
		}
	}

	return recomputeErr
}
