package common

import (
	"context"
	"testing"
	"time"

	"doctor-reviews/internal/eventpublisher/event"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubManager(t *testing.T) {
	m := NewSubManager()
	a, b := make(chan event.Event, 1), make(chan event.Event, 1)

	m.Subscribe(a)
	m.Subscribe(b)
	assert.Equal(t, 2, m.Len())

	visited := 0
	m.OnSubscribers(func(s event.EventWChannel) {
		visited++
		m.Unsubscribe(s)
	})
	assert.Equal(t, 2, visited)
	assert.Equal(t, 0, m.Len())

	_, open := <-a
	assert.False(t, open)

	assert.NotPanics(t, func() { m.Unsubscribe(a) }, "a channel is closed only once")
}

func TestSubManager_UnsubscribeAll(t *testing.T) {
	m := NewSubManager()
	ch := make(chan event.Event)
	m.Subscribe(ch)

	m.UnsubscribeAll()
	assert.Equal(t, 0, m.Len())
	_, open := <-ch
	assert.False(t, open)
}

func TestPublisherWithFailureThreshold(t *testing.T) {
	p := NewPublisherWithFailureThreshold(10*time.Millisecond, 2)
	ctx := context.Background()

	ready := make(chan event.Event, 1)
	require.NoError(t, p.Publish(ctx, ready, event.Event{Message: "hi"}))
	assert.Equal(t, "hi", (<-ready).Message)

	stuck := make(chan event.Event)
	assert.NoError(t, p.Publish(ctx, stuck, event.Event{}), "a single missed write is tolerated")
	assert.ErrorIs(t, p.Publish(ctx, stuck, event.Event{}), ErrWriteFailure)

	p.Forget(stuck)
	assert.NoError(t, p.Publish(ctx, stuck, event.Event{}), "forgotten subscribers start over")
}

func TestPublisherWithFailureThreshold_ClosedSubscriber(t *testing.T) {
	p := NewPublisherWithFailureThreshold(10*time.Millisecond, 3)
	closed := make(chan event.Event)
	close(closed)

	assert.ErrorIs(t, p.Publish(context.Background(), closed, event.Event{}), ErrWriteFailure)
}
