package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/moderation-bridge/internal/domain"
)

// BanRepository encapsulates scheduled-unban bookkeeping.
type BanRepository interface {
	Put(ctx context.Context, record *domain.BanRecord) error
	Delete(ctx context.Context, contentID int64) error
	List(ctx context.Context) ([]domain.BanRecord, error)
	ExpiredBefore(ctx context.Context, cutoff time.Time) ([]domain.BanRecord, error)
}

type banRepository struct {
	pool *pgxpool.Pool
}

// NewBanRepository instantiates repository.
func NewBanRepository(pool *pgxpool.Pool) BanRepository {
	return &banRepository{pool: pool}
}

func (r *banRepository) Put(ctx context.Context, record *domain.BanRecord) error {
	const query = `
        INSERT INTO bans (content_id, expires_at) VALUES ($1,$2)
        ON CONFLICT (content_id) DO UPDATE SET expires_at=EXCLUDED.expires_at`
	_, err := r.pool.Exec(ctx, query, record.ContentID, record.ExpiresAt)
	return err
}

func (r *banRepository) Delete(ctx context.Context, contentID int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM bans WHERE content_id=$1`, contentID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *banRepository) List(ctx context.Context) ([]domain.BanRecord, error) {
	return r.query(ctx, `SELECT content_id, expires_at FROM bans ORDER BY expires_at`)
}

func (r *banRepository) ExpiredBefore(ctx context.Context, cutoff time.Time) ([]domain.BanRecord, error) {
	return r.query(ctx, `SELECT content_id, expires_at FROM bans WHERE expires_at <= $1`, cutoff)
}

func (r *banRepository) query(ctx context.Context, sql string, args ...any) ([]domain.BanRecord, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.BanRecord
	for rows.Next() {
		var record domain.BanRecord
		if err := rows.Scan(&record.ContentID, &record.ExpiresAt); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
