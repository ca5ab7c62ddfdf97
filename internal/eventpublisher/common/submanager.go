package common

import (
	"sync"

	"doctor-reviews/internal/eventpublisher/event"
)

type SubManager struct {
	subscribers    map[event.EventWChannel]struct{}
	subscriptionMu sync.RWMutex
}

func NewSubManager() *SubManager {
	return &SubManager{
		subscribers: make(map[event.EventWChannel]struct{}),
	}
}

func (m *SubManager) Subscribe(subscriber event.EventWChannel) {
	m.subscriptionMu.Lock()
	defer m.subscriptionMu.Unlock()

	m.subscribers[subscriber] = struct{}{}
}

// Unsubscribe removes and closes the subscriber. Unknown subscribers are ignored,
// so a channel is never closed twice.
func (m *SubManager) Unsubscribe(subscriber event.EventWChannel) {
	m.subscriptionMu.Lock()
	defer m.subscriptionMu.Unlock()

	if _, ok := m.subscribers[subscriber]; !ok {
		return
	}
	delete(m.subscribers, subscriber)
	close(subscriber)
}

func (m *SubManager) UnsubscribeAll() {
	for _, subscriber := range m.snapshot() {
		m.Unsubscribe(subscriber)
	}
}

func (m *SubManager) Len() int {
	m.subscriptionMu.RLock()
	defer m.subscriptionMu.RUnlock()

	return len(m.subscribers)
}

// OnSubscribers calls do for each subscriber. do may unsubscribe, so it runs on a copy of the set.
func (m *SubManager) OnSubscribers(do func(event.EventWChannel)) {
	for _, subscriber := range m.snapshot() {
		do(subscriber)
	}
}

func (m *SubManager) snapshot() []event.EventWChannel {
	m.subscriptionMu.RLock()
	defer m.subscriptionMu.RUnlock()

	subs := make([]event.EventWChannel, 0, len(m.subscribers))
	for subscriber := range m.subscribers {
		subs = append(subs, subscriber)
	}
	return subs
}
