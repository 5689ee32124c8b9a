/*
Package stream carries the live feed session over WebSocket: one connection owns one
feed synchronizer, receives post submissions from the client, and pushes insertions
back as they occur.

This file defines the Client struct, representing an active WebSocket connection. It
manages the session lifecycle, the message communication loops (ReadPump and
WritePump), and the bridge between inbound frames and the feed synchronizer.
*/
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"aurafeed/internal/app/feed"
	"aurafeed/internal/app/identity"
	"aurafeed/internal/pkg/errs"
	"aurafeed/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a message sent by the client.
	maxMessageSize = 4096
)

// Client represents an active feed stream over a WebSocket connection.
type Client struct {
	// underlying WebSocket connection object.
	conn *websocket.Conn

	// synchronizer owning this session's in-memory feed.
	sync *feed.Synchronizer

	// resolved display identity of the connected user.
	user identity.Identity

	// number of posts loaded on session start.
	pageSize int

	// a buffered channel used to queue messages waiting to be sent to the client.
	send chan []byte

	// structured logger with session context.
	logger zerolog.Logger
}

// NewClient constructs a Client around an upgraded connection and a fresh
// synchronizer. The synchronizer must already carry the resolved identity.
func NewClient(wsConn *websocket.Conn, synchronizer *feed.Synchronizer, user identity.Identity, pageSize int) *Client {
	clientLogger := logx.Logger().With().
		Str("user_id", user.ID).
		Str("username", user.Username).
		Logger()

	return &Client{
		conn:     wsConn,
		sync:     synchronizer,
		user:     user,
		pageSize: pageSize,
		send:     make(chan []byte, 256),
		logger:   clientLogger,
	}
}

// Start brings the session up: it forwards push insertions to the client, loads
// the initial feed page, sends the INIT_DATA frame, and opens the live push
// channel. Must be called before ReadPump.
func (c *Client) Start(ctx context.Context) error {
	c.sync.OnPost(func(post feed.Post) {
		msg := NewMessage(TypeNewPost, NewPostPayload{Post: post})
		if err := c.sendMessage(msg); err != nil {
			c.logger.Warn().Str("post_id", post.ID).Msg("Dropped pushed post for slow client.")
		}
	})

	posts, err := c.sync.LoadRecent(ctx, c.pageSize)
	if err != nil {
		return fmt.Errorf("stream: initial feed load: %w", err)
	}

	initMsg := NewMessage(TypeInitData, InitDataPayload{
		Identity: c.user,
		Posts:    posts,
	})
	if err := c.sendMessage(initMsg); err != nil {
		return fmt.Errorf("stream: send init data: %w", err)
	}

	if err := c.sync.Subscribe(); err != nil {
		return fmt.Errorf("stream: open push channel: %w", err)
	}

	c.logger.Info().Int("posts", len(posts)).Msg("Feed stream started.")
	return nil
}

// ReadPump handles reading messages from the WebSocket connection.
// It handles heartbeats (Pong), message parsing, and performs cleanup upon connection closure.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (Client close/going away)")
			}
			break
		}

		c.processInboundMessage(messageBytes)
	}
}

// cleanupOnDisconnect handles the necessary cleanup steps when the client's ReadPump terminates.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	// release the push subscription; no callback runs after this returns
	c.sync.Close()

	if err := c.conn.Close(); err != nil {
		c.logger.Error().Err(err).Msg("Client connection close error")
	}
}

// processInboundMessage handles raw byte messages received from the client.
func (c *Client) processInboundMessage(messageBytes []byte) {
	var inboundMsg inboundMessage

	if err := json.Unmarshal(messageBytes, &inboundMsg); err != nil {
		c.logger.Warn().Err(err).
			Bytes("message_bytes", messageBytes).
			Msg("Client sent invalid JSON")
		return
	}

	switch inboundMsg.Type {
	case TypeSubmitPost:
		c.handleSubmit(inboundMsg.Payload)

	default:
		c.logger.Warn().Str("msg_type", string(inboundMsg.Type)).Msg("Client sent unsupported message type")
	}
}

// handleSubmit processes an incoming post submission from the client.
func (c *Client) handleSubmit(payloadBytes json.RawMessage) {
	var submitPayload SubmitPayload
	if err := json.Unmarshal(payloadBytes, &submitPayload); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid SUBMIT_POST payload")
		return
	}

	if err := c.sync.SubmitPost(context.Background(), submitPayload.Content); err != nil {
		c.SendError(classifySubmitError(err))
		return
	}

	c.sendConfirmation(submitPayload.TempID)
}

// classifySubmitError maps synchronizer sentinels to client-facing error codes.
func classifySubmitError(err error) error {
	switch {
	case errors.Is(err, feed.ErrEmptyContent):
		return errs.NewError(errs.ErrPostContentEmpty)
	case errors.Is(err, feed.ErrContentTooLong):
		return errs.NewError(errs.ErrPostContentTooLong, feed.MaxContentLength)
	case errors.Is(err, feed.ErrSubmitInFlight):
		return errs.NewError(errs.ErrPostInFlight)
	case errors.Is(err, feed.ErrIdentityNotReady):
		return errs.NewError(errs.ErrIdentityNotReady)
	default:
		return errs.NewError(errs.ErrFeedUnavailable)
	}
}

// WritePump handles writing messages from the Client.send channel to the WebSocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		// ensure the connection is closed on exit
		if err := c.conn.Close(); err != nil {
			c.logger.Error().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !c.writeQueuedMessage(message, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedMessage handles messages pulled from the send channel, writing them to the WebSocket.
// Returns true if the WritePump loop should continue, false if it should terminate.
func (c *Client) writeQueuedMessage(message []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Error().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a periodic WebSocket Ping message to maintain the connection heartbeat.
// Returns false if the WritePump loop should terminate due to write failure.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}

// sendMessage marshals the data and attempts to send it to the client's send channel.
func (c *Client) sendMessage(data any) error {
	messageBytes, err := json.Marshal(data)
	if err != nil {
		c.logger.Error().Err(err).Msg("Error marshaling data for client")
		return err
	}

	select {
	case c.send <- messageBytes:
		return nil
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send channel full, dropping message")
		return fmt.Errorf("client send queue full")
	}
}

// SendError constructs and sends a TypeError message to the client.
func (c *Client) SendError(err error) {
	var code int
	var message string

	var customErr *errs.CustomError
	if errors.As(err, &customErr) {
		code = customErr.Code
		message = customErr.Message
	} else {
		code = errs.ErrUnknown
		message = fmt.Sprintf("Internal server error: %v", err)
	}

	errorMsg := NewMessage(TypeError, ErrorPayload{
		Code:    code,
		Message: message,
	})

	if err := c.sendMessage(errorMsg); err != nil {
		c.logger.Error().Err(err).Msg("Failed to queue error message")
	}
}

// sendConfirmation sends a TypeConfirm (ACK) message back to the sender. The
// stored post arrives separately through the push channel.
func (c *Client) sendConfirmation(tempID string) {
	if tempID == "" {
		return
	}

	ackMsg := NewMessage(TypeConfirm, ConfirmPayload{TempID: tempID})

	if err := c.sendMessage(ackMsg); err != nil {
		c.logger.Error().Err(err).Msg("Failed to queue ACK message")
	}
}
