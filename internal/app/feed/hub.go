/*
Package feed contains the core logic for assembling the live post feed.

This file defines the Hub, the in-process push channel. Every inserted post is
delivered to all live subscribers in insertion order. Delivery and unsubscription
share one lock, so once Unsubscribe returns no further callback can fire.
*/
package feed

import (
	"sync"

	"github.com/rs/zerolog"

	"aurafeed/internal/pkg/logx"
)

// Hub fans inserted posts out to live subscribers.
type Hub struct {
	// mu serializes delivery and protects the subscriber map. Publish holds it
	// for the whole fan-out, which is what makes Unsubscribe a barrier.
	mu sync.Mutex

	// subs maps subscription ids to their callbacks.
	subs map[uint64]func(Post)

	// nextID is the id handed to the next subscription.
	nextID uint64

	// closed marks the hub as shut down; no further subscriptions or deliveries.
	closed bool

	// structured logger with Hub context.
	logger zerolog.Logger
}

// Subscription is the handle returned by Subscribe. Unsubscribe releases it.
type Subscription struct {
	hub *Hub
	id  uint64

	once sync.Once
}

// NewHub constructs and returns a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		subs:   make(map[uint64]func(Post)),
		logger: logx.Logger().With().Str("component", "FeedHub").Logger(),
	}
}

// Subscribe registers fn on the push channel and returns its handle.
// It fails with ErrClosed after the hub has shut down.
func (h *Hub) Subscribe(fn func(Post)) (*Subscription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrClosed
	}

	h.nextID++
	id := h.nextID
	h.subs[id] = fn

	h.logger.Debug().Uint64("subscription_id", id).Int("total_subscribers", len(h.subs)).Msg("Subscriber registered.")

	return &Subscription{hub: h, id: id}, nil
}

// Publish delivers post to every live subscriber. Calls are serialized, so each
// subscriber observes insertions in publish order.
func (h *Hub) Publish(post Post) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	for _, fn := range h.subs {
		fn(post)
	}
}

// SubscriberCount reports the number of live subscriptions.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.subs)
}

// Close shuts the hub down and drops all subscribers. Publish and Subscribe
// become no-ops afterwards.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	h.closed = true
	h.subs = nil

	h.logger.Info().Msg("Hub closed.")
}

// Unsubscribe removes the subscription from the hub. Because removal takes the
// delivery lock, no callback is invoked after Unsubscribe returns. Safe to call
// more than once.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		defer s.hub.mu.Unlock()

		if s.hub.closed {
			return
		}

		delete(s.hub.subs, s.id)
	})
}
