package common

import (
	"context"
	"fmt"
	"sync"
	"time"

	"doctor-reviews/internal/eventpublisher/event"
)

var ErrWriteFailure = fmt.Errorf("write failure threshold exceeded")

// PublisherWithFailureThreshold writes events to subscribers with a timeout and reports
// ErrWriteFailure once a subscriber missed writeFailureThreshold events.
type PublisherWithFailureThreshold struct {
	writeTimeout          time.Duration
	writeFailureThreshold int
	failureCount          map[event.EventWChannel]int
	failureMu             sync.Mutex
}

func NewPublisherWithFailureThreshold(writeTimeout time.Duration, writeFailureThreshold int) *PublisherWithFailureThreshold {
	return &PublisherWithFailureThreshold{
		writeTimeout:          writeTimeout,
		writeFailureThreshold: writeFailureThreshold,
		failureCount:          make(map[event.EventWChannel]int),
	}
}

func (p *PublisherWithFailureThreshold) Publish(ctx context.Context, subscriber event.EventWChannel, e event.Event) (err error) {

	defer func() {
		// The subscriber may have been closed by an unsubscribe racing with this write.
		if r := recover(); r != nil {
			err = ErrWriteFailure
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, p.writeTimeout)
	defer cancel()

	select {
	case subscriber <- e:
		return nil
	case <-ctx.Done():
		if p.recordFailure(subscriber) >= p.writeFailureThreshold {
			return ErrWriteFailure
		}
		return nil
	}
}

func (p *PublisherWithFailureThreshold) recordFailure(subscriber event.EventWChannel) int {
	p.failureMu.Lock()
	defer p.failureMu.Unlock()

	p.failureCount[subscriber]++
	return p.failureCount[subscriber]
}

// Forget drops the failure count of a subscriber that went away.
func (p *PublisherWithFailureThreshold) Forget(subscriber event.EventWChannel) {
	p.failureMu.Lock()
	defer p.failureMu.Unlock()

	delete(p.failureCount, subscriber)
}
