package rankingrefresh

import (
	"context"

	"go-firestore-deals/internal/eventpublisher"
	"go-firestore-deals/internal/eventpublisher/event"

	"github.com/rs/zerolog/log"
)

// ScorePersister stores a user's recomputed ranking score.
type ScorePersister interface {
	PersistScore(ctx context.Context, userId string) (int, error)
}

// Handler keeps persisted rankingPoints following user activity.
type Handler struct {
	activityPublisher eventpublisher.Publisher
	ranking           ScorePersister
	subscriptionCh    event.EventChannel
}

func New(activityPublisher eventpublisher.Publisher, ranking ScorePersister) *Handler {
	return &Handler{
		activityPublisher: activityPublisher,
		ranking:           ranking,
		subscriptionCh:    make(event.EventChannel),
	}
}

func (h *Handler) subscribeToEvents() {
	h.activityPublisher.Subscribe(h.eventChannel())
}

func (h *Handler) unsubscribeFromEvents() {
	h.activityPublisher.Unsubscribe(h.eventChannel())
}

func (h *Handler) eventChannel() chan<- event.Event {
	return h.subscriptionCh
}

func (h *Handler) EventHandler(ctx context.Context) error {

	h.subscribeToEvents()
	defer h.unsubscribeFromEvents()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-h.subscriptionCh:
			if !ok {
				return nil
			}

			if e.Err != nil {
				log.Error().Err(e.Err).Msg("ranking refresh handler: error reading events")
				return e.Err
			}

			changed, ok := e.Message.(event.ScoreChanged)
			if !ok {
				continue
			}

			h.handle(ctx, changed)
		}
	}
}

func (h *Handler) handle(ctx context.Context, changed event.ScoreChanged) {
	score, err := h.ranking.PersistScore(ctx, changed.UserID)
	if err != nil {
		log.Error().Err(err).Msgf("ranking refresh handler: failed to persist score of %s", changed.UserID)
		return
	}
	log.Debug().Msgf("ranking points refreshed after %s - userId %s, score %d", changed.Type, changed.UserID, score)
}
