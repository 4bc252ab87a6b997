// package stream implements the in-process pub/sub used to drive live
// chat and conversation subscriptions. Writers publish a change signal for
// a topic; each subscriber re-reads the current state on every signal, so
// a delivery is always the full, fresh view rather than a delta.
package stream

import (
	"sync"
)

// Topic name helpers. Thread topics fire on every message insert; user
// topics fire whenever any thread the user participates in changes.
const (
	threadPrefix = "thread:"
	userPrefix   = "user:"
)

func ThreadTopic(threadID string) string { return threadPrefix + threadID }
func UserTopic(userID string) string     { return userPrefix + userID }

// Broker is a topic-keyed registry of subscriber signal channels. Signals
// coalesce: a subscriber that has not consumed the pending signal does not
// accumulate more, it just sees one "something changed" event and refetches.
// A slow consumer therefore never blocks a publisher.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan struct{}]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan struct{}]struct{}),
	}
}

// Subscribe registers a signal channel for the topic and returns it along
// with a cancel function. Cancel is idempotent and must be called when the
// subscription's owner goes away, or the channel leaks in the registry.
func (b *Broker) Subscribe(topic string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	b.mu.Lock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[chan struct{}]struct{})
	}
	b.subs[topic][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[topic], ch)
			if len(b.subs[topic]) == 0 {
				delete(b.subs, topic)
			}
			b.mu.Unlock()
		})
	}

	return ch, cancel
}

// Publish signals every subscriber of the topic without blocking.
func (b *Broker) Publish(topic string) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs[topic] {
		select {
		case ch <- struct{}{}:
		default:
			// Signal already pending; the subscriber will refetch anyway.
		}
	}
}

// SubscriberCount reports the number of active subscribers for a topic.
func (b *Broker) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs[topic])
}
