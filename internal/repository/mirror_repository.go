package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/moderation-bridge/internal/domain"
)

// MirrorRepository encapsulates the report-to-message mapping. At most one
// row exists per report id.
type MirrorRepository interface {
	// Get returns nil without error when no mapping exists.
	Get(ctx context.Context, reportID int64) (*domain.TicketMirror, error)
	// Put installs or refreshes the mapping; a repeated write for the same
	// report id is an upsert, never an error.
	Put(ctx context.Context, reportID int64, messageID string) error
	// Replace discards any existing mapping and installs messageID in a
	// single transaction.
	Replace(ctx context.Context, reportID int64, messageID string) error
	Delete(ctx context.Context, reportID int64) error
}

type mirrorRepository struct {
	pool *pgxpool.Pool
}

// NewMirrorRepository instantiates repository.
func NewMirrorRepository(pool *pgxpool.Pool) MirrorRepository {
	return &mirrorRepository{pool: pool}
}

func (r *mirrorRepository) Get(ctx context.Context, reportID int64) (*domain.TicketMirror, error) {
	const query = `SELECT report_id, chat_message_id FROM ticket_mirrors WHERE report_id=$1`
	var mirror domain.TicketMirror
	err := r.pool.QueryRow(ctx, query, reportID).Scan(&mirror.ReportID, &mirror.ChatMessageID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &mirror, nil
}

func (r *mirrorRepository) Put(ctx context.Context, reportID int64, messageID string) error {
	const query = `
        INSERT INTO ticket_mirrors (report_id, chat_message_id) VALUES ($1,$2)
        ON CONFLICT (report_id) DO UPDATE SET chat_message_id=EXCLUDED.chat_message_id`
	_, err := r.pool.Exec(ctx, query, reportID, messageID)
	return err
}

func (r *mirrorRepository) Replace(ctx context.Context, reportID int64, messageID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM ticket_mirrors WHERE report_id=$1`, reportID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `INSERT INTO ticket_mirrors (report_id, chat_message_id) VALUES ($1,$2)`, reportID, messageID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *mirrorRepository) Delete(ctx context.Context, reportID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM ticket_mirrors WHERE report_id=$1`, reportID)
	return err
}
