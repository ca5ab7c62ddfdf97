package review

import (
	"context"

	"doctor-reviews/internal/database"
	"doctor-reviews/internal/model"
	"doctor-reviews/internal/repository/helper"

	"github.com/rs/zerolog/log"
)

type ReviewEvent struct {
	Review model.Review
	Err    error
}

type IEventSource interface {
	NotifyOnChanged(ctx context.Context) <-chan ReviewEvent
}

var _ IEventSource = ReviewRepository{}

// NotifyOnChanged reports every added or modified review until ctx is done. A feed error is
// delivered as the last event before the channel closes. Events the reader does not take
// within channelWriteTimeout are dropped.
func (r ReviewRepository) NotifyOnChanged(ctx context.Context) <-chan ReviewEvent {
	ch := make(chan ReviewEvent)
	changes := r.db.NotifyOnChanges(ctx, database.Query{Collection: reviewNode}, database.DocAdded, database.DocModified)

	go func() {
		defer close(ch)

		for change := range changes {
			if change.Err != nil {
				log.Error().Err(change.Err).Msg("review repo: failed to read review events")
				helper.NonblockingWrite[ReviewEvent](ctx, channelWriteTimeout, ch, ReviewEvent{Err: change.Err})
				return
			}

			rw := model.Review{}
			if err := change.Doc.DataTo(&rw); err != nil {
				log.Error().Err(err).Str("reviewId", change.Doc.ID).Msg("review repo: failed to convert doc to review")
				continue
			}
			if rw.ReviewId == "" {
				rw.ReviewId = change.Doc.ID
			}

			if err := helper.NonblockingWrite[ReviewEvent](ctx, channelWriteTimeout, ch, ReviewEvent{Review: rw}); err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Error().Str("reviewId", rw.ReviewId).Msg("review repo: timedout to deliver a review event")
			}
		}
	}()

	return ch
}
