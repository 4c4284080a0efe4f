package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/moderation-bridge/internal/domain"
)

// PhraseRepository encapsulates phrase subscription persistence.
type PhraseRepository interface {
	Create(ctx context.Context, sub *domain.PhraseSubscription) error
	Delete(ctx context.Context, id int64) error
	ListAll(ctx context.Context) ([]domain.PhraseSubscription, error)
	ListByOwner(ctx context.Context, owner string) ([]domain.PhraseSubscription, error)
}

type phraseRepository struct {
	pool *pgxpool.Pool
}

// NewPhraseRepository instantiates repository.
func NewPhraseRepository(pool *pgxpool.Pool) PhraseRepository {
	return &phraseRepository{pool: pool}
}

func (r *phraseRepository) Create(ctx context.Context, sub *domain.PhraseSubscription) error {
	const query = `INSERT INTO phrase_subscriptions (owner, phrase) VALUES ($1,$2) RETURNING id`
	return r.pool.QueryRow(ctx, query, sub.Owner, sub.Phrase).Scan(&sub.ID)
}

func (r *phraseRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM phrase_subscriptions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *phraseRepository) ListAll(ctx context.Context) ([]domain.PhraseSubscription, error) {
	return r.query(ctx, `SELECT id, owner, phrase FROM phrase_subscriptions ORDER BY id`)
}

func (r *phraseRepository) ListByOwner(ctx context.Context, owner string) ([]domain.PhraseSubscription, error) {
	return r.query(ctx, `SELECT id, owner, phrase FROM phrase_subscriptions WHERE owner=$1 ORDER BY id`, owner)
}

func (r *phraseRepository) query(ctx context.Context, sql string, args ...any) ([]domain.PhraseSubscription, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []domain.PhraseSubscription
	for rows.Next() {
		var sub domain.PhraseSubscription
		if err := rows.Scan(&sub.ID, &sub.Owner, &sub.Phrase); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
