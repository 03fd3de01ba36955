package issuance

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore is a Postgres-backed Store for deployments where repeat copies
// must be detected across sessions and instances. The increment is a single
// UPSERT, so concurrent requests for the same document serialize on the row
// and every caller sees a distinct count.
type PGStore struct{ pool *pgxpool.Pool }

// NewPGStore creates a Store backed by the given connection pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore { return &PGStore{pool: pool} }

func (s *PGStore) Record(ctx context.Context, documentID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		INSERT INTO issuance_counters (document_id, count, updated_at)
		VALUES ($1, 1, NOW())
		ON CONFLICT (document_id)
		DO UPDATE SET count = issuance_counters.count + 1, updated_at = NOW()
		RETURNING count`, documentID).Scan(&count)
	return count, err
}

func (s *PGStore) Reset(ctx context.Context, documentID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM issuance_counters WHERE document_id = $1`, documentID)
	return err
}

func (s *PGStore) Peek(ctx context.Context, documentID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT count FROM issuance_counters WHERE document_id = $1`, documentID).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return count, err
}

func (s *PGStore) List(ctx context.Context, limit, offset int) ([]*Record, int, error) {
	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM issuance_counters`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT document_id, count, updated_at FROM issuance_counters
		ORDER BY document_id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []*Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.DocumentID, &rec.Count, &rec.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, &rec)
	}
	return result, total, rows.Err()
}
