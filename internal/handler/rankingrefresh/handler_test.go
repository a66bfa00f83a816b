package rankingrefresh

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go-firestore-deals/internal/eventpublisher/event"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPublisher struct {
	mu  sync.Mutex
	sub event.EventWChannel
}

func (p *stubPublisher) Subscribe(ch event.EventWChannel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sub = ch
}

func (p *stubPublisher) Unsubscribe(event.EventWChannel) {}

func (p *stubPublisher) subscriber() event.EventWChannel {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sub
}

type stubRanking struct {
	mu    sync.Mutex
	calls []string
}

func (r *stubRanking) PersistScore(_ context.Context, userId string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, userId)
	if userId == "broken" {
		return 0, errors.New("store down")
	}
	return 7, nil
}

func (r *stubRanking) persisted() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func TestEventHandler_PersistsScores(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pub := &stubPublisher{}
	ranking := &stubRanking{}
	h := New(pub, ranking)

	done := make(chan error)
	go func() { done <- h.EventHandler(ctx) }()

	require.Eventually(t, func() bool { return pub.subscriber() != nil }, time.Second, 5*time.Millisecond)
	sub := pub.subscriber()

	sub <- event.Event{Message: event.ScoreChanged{UserID: "broken", Type: event.VoteChanged}}
	sub <- event.Event{Message: "not an activity event"}
	sub <- event.Event{Message: event.ScoreChanged{UserID: "u1", Type: event.DealAdded}}

	require.Eventually(t, func() bool { return len(ranking.persisted()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"broken", "u1"}, ranking.persisted())

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestEventHandler_StopsOnEventError(t *testing.T) {
	pub := &stubPublisher{}
	h := New(pub, &stubRanking{})

	done := make(chan error)
	go func() { done <- h.EventHandler(context.Background()) }()

	require.Eventually(t, func() bool { return pub.subscriber() != nil }, time.Second, 5*time.Millisecond)
	pub.subscriber() <- event.Event{Err: errors.New("feed broken")}

	assert.EqualError(t, <-done, "feed broken")
}
