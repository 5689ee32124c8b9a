/*
Package feedstore implements the durable feed service.

This file defines the NATS bridge that shares post insertions between instances.
Each instance publishes its own insertions on the post.created subject and feeds
remote insertions into its local hub; events carrying the local origin id are
skipped since the local hub already saw them.
*/
package feedstore

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"aurafeed/internal/app/feed"
	"aurafeed/internal/pkg/logx"
	"aurafeed/internal/pkg/randx"
)

// postCreatedSubject is the NATS subject carrying insertion events.
const postCreatedSubject = "post.created"

// postCreatedEvent is the wire format of an insertion event.
type postCreatedEvent struct {
	// Origin identifies the publishing instance so it can skip its own echo.
	Origin string `json:"origin"`

	Post feed.Post `json:"post"`
}

// NatsBridge relays post insertions across instances over NATS.
type NatsBridge struct {
	nc *nats.Conn

	// origin is this instance's random identity within the cluster.
	origin string

	sub *nats.Subscription

	logger zerolog.Logger
}

// NewNatsBridge connects to the NATS server at url and returns the bridge.
func NewNatsBridge(url string) (*NatsBridge, error) {
	nc, err := nats.Connect(url, nats.Name("aurafeed"))
	if err != nil {
		return nil, fmt.Errorf("feedstore: connect to nats: %w", err)
	}

	return &NatsBridge{
		nc:     nc,
		origin: randx.NewID(),
		logger: logx.Logger().With().Str("component", "NatsBridge").Logger(),
	}, nil
}

// Publish broadcasts a locally stored post to the rest of the cluster.
// Failures are logged, not returned: the local hub already delivered the post,
// and the durable record is in Postgres.
func (b *NatsBridge) Publish(post feed.Post) {
	event := postCreatedEvent{Origin: b.origin, Post: post}

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error().Err(err).Str("post_id", post.ID).Msg("Failed to encode insertion event.")
		return
	}

	if err := b.nc.Publish(postCreatedSubject, data); err != nil {
		b.logger.Error().Err(err).Str("post_id", post.ID).Msg("Failed to publish insertion event.")
	}
}

// Start begins consuming remote insertion events, handing each remote post to fn.
func (b *NatsBridge) Start(fn func(feed.Post)) error {
	sub, err := b.nc.Subscribe(postCreatedSubject, func(msg *nats.Msg) {
		var event postCreatedEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			b.logger.Warn().Err(err).Msg("Invalid insertion event received.")
			return
		}

		if event.Origin == b.origin {
			return
		}

		b.logger.Debug().Str("post_id", event.Post.ID).Msg("Remote insertion received.")
		fn(event.Post)
	})
	if err != nil {
		return fmt.Errorf("feedstore: subscribe to %s: %w", postCreatedSubject, err)
	}

	b.sub = sub
	return nil
}

// Close drains the subscription and closes the connection.
func (b *NatsBridge) Close() {
	if b.sub != nil {
		if err := b.sub.Unsubscribe(); err != nil {
			b.logger.Warn().Err(err).Msg("Failed to unsubscribe from insertion events.")
		}
	}

	b.nc.Close()
}
