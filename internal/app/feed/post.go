/*
Package feed contains the core logic for assembling the live post feed: the post model,
the in-process insertion hub, and the per-session synchronizer that keeps an ordered
in-memory view consistent under concurrent submission and push delivery.

This file defines the Post model, the submission draft, and content validation.
*/
package feed

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxContentLength is the maximum post length in unicode code points.
const MaxContentLength = 280

// Sentinel errors returned by content validation and the submission protocol.
// Handlers translate these into client-facing error codes.
var (
	// ErrEmptyContent indicates the content was empty after trimming.
	ErrEmptyContent = errors.New("feed: post content is empty")

	// ErrContentTooLong indicates the trimmed content exceeds MaxContentLength code points.
	ErrContentTooLong = errors.New("feed: post content exceeds length limit")

	// ErrIdentityNotReady indicates submission was attempted before identity resolution completed.
	ErrIdentityNotReady = errors.New("feed: identity not resolved yet")

	// ErrSubmitInFlight indicates a previous submission by the same synchronizer is still in progress.
	ErrSubmitInFlight = errors.New("feed: another submission is in flight")

	// ErrClosed indicates the synchronizer or hub has been closed.
	ErrClosed = errors.New("feed: closed")
)

// Post represents a published feed entry. All fields are server-assigned and are
// never mutated locally after delivery.
type Post struct {
	// ID is the unique identifier assigned by the feed store.
	ID string `json:"id"`

	// Content is the post text, 1..280 unicode code points.
	Content string `json:"content"`

	// AuthorID is the stable identifier of the posting user.
	AuthorID string `json:"authorId"`

	// AuthorNickname is the display name snapshot taken at submission time.
	AuthorNickname string `json:"authorNickname"`

	// AuthorUsername is the handle snapshot taken at submission time.
	AuthorUsername string `json:"authorUsername"`

	// CreatedAt is the server-assigned creation timestamp.
	CreatedAt time.Time `json:"createdAt"`

	// Engagement counters. Server-assigned, start at zero.
	LikeCount    int `json:"likes"`
	CommentCount int `json:"comments"`
	ShareCount   int `json:"shares"`
}

// PostDraft is the payload submitted to the feed store. The store assigns the
// ID and CreatedAt and zeroes the engagement counters.
type PostDraft struct {
	Content        string
	AuthorID       string
	AuthorNickname string
	AuthorUsername string
}

// ValidateContent trims the given content and checks the 1..280 code point bound.
// It returns the trimmed content on success. No network call is made for invalid input.
func ValidateContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)

	if trimmed == "" {
		return "", ErrEmptyContent
	}

	if utf8.RuneCountInString(trimmed) > MaxContentLength {
		return "", ErrContentTooLong
	}

	return trimmed, nil
}
