package aggregate

import (
	"context"
	"sync"

	"doctor-reviews/internal/eventpublisher"
	"doctor-reviews/internal/eventpublisher/event"
	"doctor-reviews/internal/model"

	"github.com/rs/zerolog/log"
)

type Recomputer interface {
	RecomputeAggregate(ctx context.Context, doctorId string) (model.DoctorAggregate, error)
}

// Handler recomputes the aggregate of a doctor whenever one of its reviews changes. It repairs
// aggregates left stale by a submission whose recompute step failed.
type Handler struct {
	reviewEventPublisher eventpublisher.Publisher
	aggregator           Recomputer
	reviewSubscriptionCh event.EventChannel

	// doctors with a recompute in flight; further events for them are coalesced into one rerun
	pendingMu sync.Mutex
	pending   map[string]bool
}

func New(reviewEventPublisher eventpublisher.Publisher, aggregator Recomputer) *Handler {
	return &Handler{
		reviewEventPublisher: reviewEventPublisher,
		aggregator:           aggregator,
		reviewSubscriptionCh: make(event.EventChannel),
		pending:              make(map[string]bool),
	}
}

func (h *Handler) subscribeToEvents() {
	h.reviewEventPublisher.Subscribe(h.eventChannel())
}

func (h *Handler) unsubscribeFromEvents() {
	h.reviewEventPublisher.Unsubscribe(h.eventChannel())
}

func (h *Handler) eventChannel() chan<- event.Event {
	return h.reviewSubscriptionCh
}

func (h *Handler) EventHandler(ctx context.Context) error {

	h.subscribeToEvents()
	defer h.unsubscribeFromEvents()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-h.reviewSubscriptionCh:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Error().Msg("aggregate handler: subscription closed by the publisher")
				return eventpublisher.ErrSubscriptionClosed
			}

			if e.Err != nil {
				log.Error().Err(e.Err).Msg("aggregate handler: error reading events")
				return e.Err
			}

			review, ok := e.Message.(model.Review)
			if !ok || review.DoctorId == "" {
				continue
			}

			h.schedule(ctx, review.DoctorId)
		}
	}
}

// schedule starts a recompute for the doctor unless one is running, in which case the running
// one is asked to go again once it finishes.
func (h *Handler) schedule(ctx context.Context, doctorId string) {
	h.pendingMu.Lock()
	if _, running := h.pending[doctorId]; running {
		h.pending[doctorId] = true
		h.pendingMu.Unlock()
		return
	}
	h.pending[doctorId] = false
	h.pendingMu.Unlock()

	go func() {
		for {
			h.handle(ctx, doctorId)

			h.pendingMu.Lock()
			if !h.pending[doctorId] || ctx.Err() != nil {
				delete(h.pending, doctorId)
				h.pendingMu.Unlock()
				return
			}
			h.pending[doctorId] = false
			h.pendingMu.Unlock()
		}
	}()
}

func (h *Handler) handle(ctx context.Context, doctorId string) {
	agg, err := h.aggregator.RecomputeAggregate(ctx, doctorId)
	if err != nil {
		log.Error().Err(err).Str("doctorId", doctorId).Msg("aggregate handler: failed to recompute")
		return
	}
	log.Debug().Str("doctorId", doctorId).Str("rating", agg.Rating).Int("reviewsCount", agg.ReviewsCount).Msg("aggregate reconciled")
}
