/*
Package feedstore implements the durable feed service.

This file composes the Postgres store, the in-process hub, and the optional cache
and NATS bridge into the feed.Service consumed by synchronizers and handlers.
*/
package feedstore

import (
	"context"

	"github.com/rs/zerolog"

	"aurafeed/internal/app/feed"
	"aurafeed/internal/pkg/logx"
)

// Store is the durable post storage contract behind the composed service.
type Store interface {
	ListRecent(ctx context.Context, limit int) ([]feed.Post, error)
	Insert(ctx context.Context, draft feed.PostDraft) (*feed.Post, error)
}

// Service implements feed.Service over a durable store and an insertion hub.
// The cache and bridge are optional; either may be nil.
type Service struct {
	store  Store
	hub    *feed.Hub
	cache  *RecentCache
	bridge *NatsBridge

	logger zerolog.Logger
}

// NewService composes the feed service. cache and bridge may be nil when the
// deployment runs without Redis or NATS.
func NewService(store Store, hub *feed.Hub, cache *RecentCache, bridge *NatsBridge) *Service {
	return &Service{
		store:  store,
		hub:    hub,
		cache:  cache,
		bridge: bridge,
		logger: logx.Logger().With().Str("component", "FeedService").Logger(),
	}
}

// Start wires the NATS bridge into the local hub so remote insertions reach
// local subscribers. A no-op without a bridge.
func (s *Service) Start() error {
	if s.bridge == nil {
		return nil
	}

	return s.bridge.Start(s.hub.Publish)
}

// ListRecent serves the newest posts, preferring the cache and falling back to
// Postgres. A database read refills the cache.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]feed.Post, error) {
	if s.cache != nil {
		if posts, ok := s.cache.Get(ctx, limit); ok {
			return posts, nil
		}
	}

	posts, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && len(posts) > 0 {
		s.cache.Fill(ctx, posts)
	}

	return posts, nil
}

// Insert stores the draft durably, then echoes the stored post to the local hub,
// the cache, and the cluster bridge. The write path never touches any session's
// in-memory feed directly; delivery happens through the hub subscription.
func (s *Service) Insert(ctx context.Context, draft feed.PostDraft) (*feed.Post, error) {
	post, err := s.store.Insert(ctx, draft)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Add(ctx, *post)
	}

	s.hub.Publish(*post)

	if s.bridge != nil {
		s.bridge.Publish(*post)
	}

	s.logger.Debug().Str("post_id", post.ID).Str("author_id", post.AuthorID).Msg("Post inserted and published.")

	return post, nil
}

// SubscribeInsertions registers fn on the insertion hub.
func (s *Service) SubscribeInsertions(fn func(feed.Post)) (*feed.Subscription, error) {
	return s.hub.Subscribe(fn)
}
