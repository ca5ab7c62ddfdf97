package review

import (
	"context"
	"time"

	"doctor-reviews/internal/eventpublisher"
	"doctor-reviews/internal/eventpublisher/common"
	"doctor-reviews/internal/eventpublisher/event"
	reviewRepo "doctor-reviews/internal/repository/review"

	"github.com/rs/zerolog/log"
)

const (
	writeTimeout          = time.Second
	writeFailureThreshold = 3
)

type eventFunc func(context.Context) <-chan reviewRepo.ReviewEvent

type ReviewPublisher interface {
	eventpublisher.Publisher
	Start(ctx context.Context) error
}

type reviewPublisher struct {
	eventFn    eventFunc
	submanager *common.SubManager
	publisher  *common.PublisherWithFailureThreshold
}

func newPublisher(fn eventFunc) ReviewPublisher {
	return &reviewPublisher{
		eventFn:    fn,
		submanager: common.NewSubManager(),
		publisher:  common.NewPublisherWithFailureThreshold(writeTimeout, writeFailureThreshold),
	}
}

func (p *reviewPublisher) Subscribe(subscriber event.EventWChannel) {
	p.submanager.Subscribe(subscriber)
}

func (p *reviewPublisher) Unsubscribe(subscriber event.EventWChannel) {
	p.submanager.Unsubscribe(subscriber)
	p.publisher.Forget(subscriber)
}

func (p *reviewPublisher) publish(ctx context.Context, reviewEvent reviewRepo.ReviewEvent) {
	p.submanager.OnSubscribers(func(subscriber event.EventWChannel) {
		go func() {
			if err := p.publisher.Publish(ctx,
				subscriber,
				event.Event{Type: event.DbDocChanged, Message: reviewEvent.Review, Err: reviewEvent.Err}); err != nil {
				p.Unsubscribe(subscriber)
			}
		}()
	})
}

// Start forwards the review events to the subscribers until ctx is done or the source closes.
func (p *reviewPublisher) Start(ctx context.Context) error {
	defer p.submanager.UnsubscribeAll()

	eventsCh := p.eventFn(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Info().Err(ctx.Err()).Msg("ReviewPublisher stopped")
			return ctx.Err()
		case e, ok := <-eventsCh:
			if !ok {
				return nil
			}
			log.Debug().Msgf("publish reviewId %s", e.Review.ReviewId)
			p.publish(ctx, e)
		}
	}
}
