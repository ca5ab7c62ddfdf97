package eventpublisher

import (
	"errors"

	"doctor-reviews/internal/eventpublisher/event"
)

// ErrSubscriptionClosed is returned by subscribers whose channel was closed by the publisher
// while they were still running.
var ErrSubscriptionClosed = errors.New("subscription closed")

// Publisher fans events out to the subscribed channels. Unsubscribe closes the channel.
type Publisher interface {
	Subscribe(event.EventWChannel)
	Unsubscribe(event.EventWChannel)
}
