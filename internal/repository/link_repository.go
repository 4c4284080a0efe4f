package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/moderation-bridge/internal/domain"
)

// CombinedID is one (content, chat) pair of the transitive closure computed
// in SQL.
type CombinedID struct {
	ContentID int64
	ChatID    string
}

// LinkRepository encapsulates link persistence. Links are append/delete-only,
// so no row is ever updated in place.
type LinkRepository interface {
	Put(ctx context.Context, link *domain.Link) error
	Remove(ctx context.Context, contentID int64, chatID string) error
	ContentIDsFor(ctx context.Context, chatID string) ([]int64, error)
	ChatIDsFor(ctx context.Context, contentID int64) ([]string, error)
	ListFor(ctx context.Context, chatID string) ([]domain.Link, error)
	// CombinedIDs computes the bounded-depth transitive closure of the link
	// graph around seed directly in SQL. It must return the same vertex set
	// as a resolver walk with the same depth cap.
	CombinedIDs(ctx context.Context, seed string, depthCap int) ([]CombinedID, error)
}

type linkRepository struct {
	pool *pgxpool.Pool
}

// NewLinkRepository instantiates repository.
func NewLinkRepository(pool *pgxpool.Pool) LinkRepository {
	return &linkRepository{pool: pool}
}

func (r *linkRepository) Put(ctx context.Context, link *domain.Link) error {
	const query = `
        INSERT INTO links (content_id, chat_id, chat_username)
        VALUES ($1,$2,$3)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		link.ContentID,
		link.ChatID,
		link.ChatUsername,
	).Scan(&link.CreatedAt)
}

func (r *linkRepository) Remove(ctx context.Context, contentID int64, chatID string) error {
	const query = `DELETE FROM links WHERE content_id=$1 AND chat_id=$2`
	cmd, err := r.pool.Exec(ctx, query, contentID, chatID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *linkRepository) ContentIDsFor(ctx context.Context, chatID string) ([]int64, error) {
	const query = `SELECT DISTINCT content_id FROM links WHERE chat_id=$1`
	rows, err := r.pool.Query(ctx, query, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *linkRepository) ChatIDsFor(ctx context.Context, contentID int64) ([]string, error) {
	const query = `SELECT DISTINCT chat_id FROM links WHERE content_id=$1`
	rows, err := r.pool.Query(ctx, query, contentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *linkRepository) ListFor(ctx context.Context, chatID string) ([]domain.Link, error) {
	const query = `
        SELECT content_id, chat_id, chat_username, created_at
        FROM links WHERE chat_id=$1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []domain.Link
	for rows.Next() {
		var link domain.Link
		if err := rows.Scan(&link.ContentID, &link.ChatID, &link.ChatUsername, &link.CreatedAt); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func (r *linkRepository) CombinedIDs(ctx context.Context, seed string, depthCap int) ([]CombinedID, error) {
	if depthCap <= 0 {
		depthCap = 5
	}
	const query = `
        WITH RECURSIVE rec AS (
            SELECT DISTINCT l1.content_id, l1.chat_id, 1 AS depth
            FROM links l1
            WHERE l1.content_id::text = $1 OR l1.chat_id = $1
            UNION
            SELECT l3.content_id, l3.chat_id, rec.depth + 1
            FROM rec
            JOIN links l2 ON rec.chat_id = l2.chat_id
            JOIN links l3 ON l2.content_id = l3.content_id
            WHERE rec.depth < $2
        )
        SELECT DISTINCT content_id, chat_id FROM rec`
	rows, err := r.pool.Query(ctx, query, seed, depthCap)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CombinedID
	for rows.Next() {
		var pair CombinedID
		if err := rows.Scan(&pair.ContentID, &pair.ChatID); err != nil {
			return nil, err
		}
		result = append(result, pair)
	}
	return result, rows.Err()
}
