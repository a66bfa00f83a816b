package activity

import (
	"context"
	"time"

	"go-firestore-deals/internal/eventpublisher"
	"go-firestore-deals/internal/eventpublisher/common"
	"go-firestore-deals/internal/eventpublisher/event"
	"go-firestore-deals/internal/repository/helper"

	"github.com/rs/zerolog/log"
)

const (
	writeTimeout          = time.Second
	writeFailureThreshold = 3
	enqueueTimeout        = 50 * time.Millisecond
	defaultBuffer         = 256
)

// Notifier is what services use to announce that a user's ranking inputs changed.
type Notifier interface {
	Publish(ctx context.Context, e event.ScoreChanged)
}

type ActivityPublisher interface {
	eventpublisher.Publisher
	Notifier
	Start(ctx context.Context) error
}

type activityPublisher struct {
	in         chan event.ScoreChanged
	submanager *common.SubManager
	publisher  *common.PublisherWithFailureThreshold
}

func New(buffer int) ActivityPublisher {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &activityPublisher{
		in:         make(chan event.ScoreChanged, buffer),
		submanager: common.NewSubManager(),
		publisher:  common.NewPublisherWithFailureThreshold(writeTimeout, writeFailureThreshold),
	}
}

func (p *activityPublisher) Subscribe(subscriber event.EventWChannel) {
	p.submanager.Subscribe(subscriber)
}

func (p *activityPublisher) Unsubscribe(subscriber event.EventWChannel) {
	if p.submanager.Unsubscribe(subscriber) {
		p.publisher.Forget(subscriber)
	}
}

// Publish never blocks the caller for long; events that cannot be queued are dropped.
func (p *activityPublisher) Publish(ctx context.Context, e event.ScoreChanged) {
	if e.UserID == "" {
		return
	}
	if err := helper.NonblockingWrite(context.WithoutCancel(ctx), enqueueTimeout, p.in, e); err != nil {
		log.Warn().Err(err).Msgf("activity publisher: dropped %s event for user %s", e.Type, e.UserID)
	}
}

func (p *activityPublisher) publish(ctx context.Context, e event.ScoreChanged) {
	p.submanager.OnSubscribers(func(subscriber event.EventWChannel) {
		go func() {
			if err := p.publisher.Publish(ctx, subscriber, event.Event{Message: e}); err != nil {
				log.Warn().Err(err).Msg("activity publisher: unsubscribing slow subscriber")
				p.Unsubscribe(subscriber)
			}
		}()
	})
}

func (p *activityPublisher) Start(ctx context.Context) error {
	defer p.submanager.UnsubscribeAll()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("ActivityPublisher stopped")
			return ctx.Err()
		case e := <-p.in:
			log.Debug().Msgf("publish %s for userId %s", e.Type, e.UserID)
			p.publish(ctx, e)
		}
	}
}
