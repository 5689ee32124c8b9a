/*
Package stream carries the live feed session over WebSocket: one connection owns one
feed synchronizer, receives post submissions from the client, and pushes insertions
back as they occur.

This file defines the message envelope and payload types exchanged with the client.
*/
package stream

import (
	"encoding/json"
	"time"

	"aurafeed/internal/app/feed"
	"aurafeed/internal/app/identity"
	"aurafeed/internal/pkg/randx"
)

// MessageType identifies the kind of payload an envelope carries.
type MessageType string

const (
	// TypeInitData carries the resolved identity and the initial feed page (outbound).
	TypeInitData MessageType = "INIT_DATA"

	// TypeNewPost carries one post delivered by the push channel (outbound).
	TypeNewPost MessageType = "NEW_POST"

	// TypeSubmitPost carries a post submission (inbound).
	TypeSubmitPost MessageType = "SUBMIT_POST"

	// TypeConfirm acknowledges an accepted submission (outbound).
	TypeConfirm MessageType = "CONFIRM"

	// TypeError carries a classified error (outbound).
	TypeError MessageType = "ERROR"
)

// Message is the envelope for every frame exchanged over the feed stream.
type Message struct {
	// ID uniquely identifies the message.
	ID string `json:"id"`

	// Type discriminates the payload.
	Type MessageType `json:"type"`

	// Timestamp is the Unix millisecond time the message was built.
	Timestamp int64 `json:"timestamp"`

	// Payload is the type-specific body.
	Payload any `json:"payload,omitempty"`
}

// NewMessage constructs an envelope around the given payload.
func NewMessage(msgType MessageType, payload any) Message {
	return Message{
		ID:        randx.NewID(),
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Payload:   payload,
	}
}

// InitDataPayload is the first frame sent on a new stream.
type InitDataPayload struct {
	// Identity is the session's resolved display identity.
	Identity identity.Identity `json:"identity"`

	// Posts is the initial feed page, newest first.
	Posts []feed.Post `json:"posts"`
}

// NewPostPayload wraps a pushed post.
type NewPostPayload struct {
	Post feed.Post `json:"post"`
}

// SubmitPayload is the inbound submission body.
type SubmitPayload struct {
	// Content is the raw post text; the server trims and validates it.
	Content string `json:"content"`

	// TempID is the client-side placeholder id echoed back in the CONFIRM frame.
	TempID string `json:"tempId,omitempty"`
}

// ConfirmPayload acknowledges that a submission was accepted. The stored post
// itself arrives through a NEW_POST frame like any other insertion.
type ConfirmPayload struct {
	TempID string `json:"tempId"`
}

// ErrorPayload carries a classified error to the client.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// inboundMessage is the shape of frames read from the client.
type inboundMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}
