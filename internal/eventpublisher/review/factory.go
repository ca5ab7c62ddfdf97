package review

import (
	"context"

	reviewRepo "doctor-reviews/internal/repository/review"
)

type Factory interface {
	OnReviewChanged() ReviewPublisher
}

type factory struct {
	source reviewRepo.IEventSource
}

func ReviewPublisherFactory(source reviewRepo.IEventSource) Factory {
	return &factory{
		source: source,
	}
}

// OnReviewChanged publishes every added or modified review.
func (f *factory) OnReviewChanged() ReviewPublisher {
	return newPublisher(func(ctx context.Context) <-chan reviewRepo.ReviewEvent {
		return f.source.NotifyOnChanged(ctx)
	})
}
