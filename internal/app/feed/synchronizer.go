/*
Package feed contains the core logic for assembling the live post feed.

This file defines the Synchronizer, the per-session component that owns the ordered
in-memory feed. Local state changes only through the push channel: the submission
path writes to the feed store and waits for its own echo, never inserting directly.
*/
package feed

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"aurafeed/internal/app/identity"
	"aurafeed/internal/pkg/logx"
)

// State tracks the synchronizer lifecycle.
type State string

const (
	// StateUninitialized is the state before the initial load starts.
	StateUninitialized State = "uninitialized"

	// StateLoading is the state while the initial bulk load is running.
	StateLoading State = "loading"

	// StateReady is the state after the initial load completed.
	StateReady State = "ready"

	// StateSubscribed is the state once the live push channel is open.
	StateSubscribed State = "subscribed"

	// StateClosed is the terminal state after Close.
	StateClosed State = "closed"
)

// Synchronizer owns the visible feed for one session: initial bulk load, live
// push updates, and the post submission protocol with its in-flight guard.
type Synchronizer struct {
	service Service

	// mu protects all fields below. Push delivery, loads, and reads each run to
	// completion under it, so the feed is never observed mid-mutation.
	mu sync.Mutex

	state State

	// identity is set once resolution completes; nil blocks submission.
	identity *identity.Identity

	// posts is ordered by CreatedAt descending, newest at index 0.
	posts []Post

	// seen guards against redelivered insertions, keyed by post id.
	seen map[string]struct{}

	// inFlight is the submission guard: true while one SubmitPost is running.
	inFlight bool

	// sub is the live push channel handle, nil until Subscribe.
	sub *Subscription

	// notify, when set, is invoked after each push insertion is applied.
	notify func(Post)

	logger zerolog.Logger
}

// NewSynchronizer constructs a Synchronizer over the given feed service.
func NewSynchronizer(service Service) *Synchronizer {
	return &Synchronizer{
		service: service,
		state:   StateUninitialized,
		seen:    make(map[string]struct{}),
		logger:  logx.Logger().With().Str("component", "FeedSynchronizer").Logger(),
	}
}

// SetIdentity binds the resolved display identity used for post authorship.
// Called once per session, after identity resolution completes.
func (s *Synchronizer) SetIdentity(ident identity.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identity = &ident
}

// OnPost registers a callback invoked for every post applied from the push
// channel. Used by the transport layer to forward insertions to the client.
func (s *Synchronizer) OnPost(fn func(Post)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notify = fn
}

// State reports the current lifecycle state.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// LoadRecent performs the initial bulk load of the most recent limit posts,
// ordered by CreatedAt descending. On failure the previous feed state is kept
// and the error is returned for user-visible diagnostics; no automatic retry.
func (s *Synchronizer) LoadRecent(ctx context.Context, limit int) ([]Post, error) {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if s.state == StateUninitialized {
		s.state = StateLoading
	}
	s.mu.Unlock()

	posts, err := s.service.ListRecent(ctx, limit)
	if err != nil {
		s.mu.Lock()
		if s.state == StateLoading {
			s.state = StateUninitialized
		}
		s.mu.Unlock()
		return nil, fmt.Errorf("feed: load recent posts: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return nil, ErrClosed
	}

	s.posts = make([]Post, len(posts))
	copy(s.posts, posts)

	s.seen = make(map[string]struct{}, len(posts))
	for _, p := range posts {
		s.seen[p.ID] = struct{}{}
	}

	if s.state == StateLoading {
		s.state = StateReady
	}

	snapshot := make([]Post, len(s.posts))
	copy(snapshot, s.posts)
	return snapshot, nil
}

// Subscribe opens the live push channel. Every insertion reported afterwards is
// applied to the head of the feed exactly once.
func (s *Synchronizer) Subscribe() error {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.sub != nil {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	sub, err := s.service.SubscribeInsertions(s.applyPush)
	if err != nil {
		return fmt.Errorf("feed: subscribe to insertions: %w", err)
	}

	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		sub.Unsubscribe()
		return ErrClosed
	}
	s.sub = sub
	s.state = StateSubscribed
	s.mu.Unlock()

	return nil
}

// applyPush prepends a pushed post to the feed head. Insertion is idempotent by
// post id: a redelivered insertion leaves the feed untouched.
func (s *Synchronizer) applyPush(post Post) {
	s.mu.Lock()

	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}

	if _, dup := s.seen[post.ID]; dup {
		s.logger.Debug().Str("post_id", post.ID).Msg("Ignoring redelivered insertion.")
		s.mu.Unlock()
		return
	}

	s.seen[post.ID] = struct{}{}
	s.posts = append([]Post{post}, s.posts...)
	notify := s.notify

	s.mu.Unlock()

	if notify != nil {
		notify(post)
	}
}

// SubmitPost validates and submits a new post authored by the bound identity.
// The post is NOT inserted locally here; it arrives through the push channel like
// any other insertion. A second call while one submission is in flight fails
// immediately with ErrSubmitInFlight.
func (s *Synchronizer) SubmitPost(ctx context.Context, content string) error {
	trimmed, err := ValidateContent(content)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.identity == nil {
		s.mu.Unlock()
		return ErrIdentityNotReady
	}
	if s.inFlight {
		s.mu.Unlock()
		return ErrSubmitInFlight
	}
	s.inFlight = true
	ident := *s.identity
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	draft := PostDraft{
		Content:        trimmed,
		AuthorID:       ident.ID,
		AuthorNickname: ident.Nickname,
		AuthorUsername: ident.Username,
	}

	if _, err := s.service.Insert(ctx, draft); err != nil {
		return fmt.Errorf("feed: submit post: %w", err)
	}

	return nil
}

// Posts returns a snapshot of the current feed, newest first.
func (s *Synchronizer) Posts() []Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]Post, len(s.posts))
	copy(snapshot, s.posts)
	return snapshot
}

// Len reports the number of posts currently held.
func (s *Synchronizer) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.posts)
}

// Close ends the session: the push subscription is released and no further
// callbacks are applied. Safe to call more than once.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	s.state = StateClosed
	sub := s.sub
	s.sub = nil
	s.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
}
