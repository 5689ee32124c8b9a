/*
Package feedstore implements the durable feed service: Postgres post storage, an
optional Redis recent-posts cache, an optional NATS bridge that shares insertions
across instances, and the composed Service the rest of the application consumes.

This file defines the Postgres-backed post store.
*/
package feedstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"aurafeed/internal/app/feed"
	"aurafeed/internal/pkg/randx"
)

// PostgresStore persists posts in the posts table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a PostgresStore over an initialized connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// ListRecent returns at most limit posts ordered by created_at descending.
func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]feed.Post, error) {
	q := `
		SELECT id, content, author_id, author_nickname, author_username, created_at, like_count, comment_count, share_count
		FROM posts
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("feedstore: list recent: %w", err)
	}
	defer rows.Close()

	posts := make([]feed.Post, 0, limit)
	for rows.Next() {
		var p feed.Post
		if err := rows.Scan(
			&p.ID, &p.Content, &p.AuthorID, &p.AuthorNickname, &p.AuthorUsername,
			&p.CreatedAt, &p.LikeCount, &p.CommentCount, &p.ShareCount,
		); err != nil {
			return nil, fmt.Errorf("feedstore: scan post: %w", err)
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("feedstore: list recent: %w", err)
	}

	return posts, nil
}

// Insert persists a draft and returns the stored post with its server-assigned
// id, timestamp, and zeroed engagement counters.
func (s *PostgresStore) Insert(ctx context.Context, draft feed.PostDraft) (*feed.Post, error) {
	q := `
		INSERT INTO posts (id, content, author_id, author_nickname, author_username, created_at)
		VALUES (@id, @content, @author_id, @author_nickname, @author_username, now())
		RETURNING created_at
	`

	post := feed.Post{
		ID:             randx.NewID(),
		Content:        draft.Content,
		AuthorID:       draft.AuthorID,
		AuthorNickname: draft.AuthorNickname,
		AuthorUsername: draft.AuthorUsername,
	}

	args := pgx.NamedArgs{
		"id":              post.ID,
		"content":         post.Content,
		"author_id":       post.AuthorID,
		"author_nickname": post.AuthorNickname,
		"author_username": post.AuthorUsername,
	}

	if err := s.pool.QueryRow(ctx, q, args).Scan(&post.CreatedAt); err != nil {
		return nil, fmt.Errorf("feedstore: insert post: %w", err)
	}

	return &post, nil
}
