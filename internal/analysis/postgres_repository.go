package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository. The
// full result is stored as JSONB with a few indexed columns alongside.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL analysis repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Save inserts an analysis result.
func (r *PostgresRepository) Save(ctx context.Context, res *Result) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encoding analysis payload: %w", err)
	}

	query := `
		INSERT INTO analyses (id, created_at, area_m2, green_score, net_cost_eur, payload)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = r.pool.Exec(ctx, query,
		res.ID,
		res.CreatedAt,
		res.Geometry.AreaM2,
		res.GreenScore,
		res.Budget.NetCostEUR,
		payload,
	)
	return err
}

// GetByID retrieves an analysis by ID.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Result, error) {
	query := `SELECT payload FROM analyses WHERE id = $1`

	var payload []byte
	err := r.pool.QueryRow(ctx, query, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decodeResult(payload)
}

// List returns stored analyses, newest first.
func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]*Result, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT payload FROM analyses
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*Result
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		res, err := decodeResult(payload)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

func decodeResult(payload []byte) (*Result, error) {
	var res Result
	if err := json.Unmarshal(payload, &res); err != nil {
		return nil, fmt.Errorf("decoding analysis payload: %w", err)
	}
	res.CreatedAt = res.CreatedAt.UTC()
	return &res, nil
}

var _ Repository = (*PostgresRepository)(nil)

// Schema is the DDL for the analyses table, applied by migrations.
const Schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id UUID PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL,
	area_m2 DOUBLE PRECISION NOT NULL,
	green_score DOUBLE PRECISION NOT NULL,
	net_cost_eur DOUBLE PRECISION NOT NULL,
	payload JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS analyses_created_at_idx ON analyses (created_at DESC);
`
