/*
Package feed contains the core logic for assembling the live post feed.

This file defines the Service interface, the contract every feed store adapter
implements: durable post storage plus a live insertion push channel.
*/
package feed

import "context"

// Service is the feed store contract consumed by the Synchronizer and the HTTP layer.
//
// ListRecent returns at most limit posts ordered by CreatedAt descending.
// Insert persists a draft and returns the stored post; the insertion is echoed to
// every live subscriber, including the submitter's own.
// SubscribeInsertions registers fn on the push channel; fn is invoked exactly once
// per insertion reported after subscription start, in the order they are reported.
type Service interface {
	ListRecent(ctx context.Context, limit int) ([]Post, error)
	Insert(ctx context.Context, draft PostDraft) (*Post, error)
	SubscribeInsertions(fn func(Post)) (*Subscription, error)
}
