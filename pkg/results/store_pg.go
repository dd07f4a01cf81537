package results

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore persists result sets in PostgreSQL, one row per snapshot.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a PostgreSQL-backed result store and runs the
// schema migration.
func NewPGStore(ctx context.Context, databaseURL string) (*PGStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	s := &PGStore{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return s, nil
}

// Ping checks database connectivity
func (s *PGStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the database connection pool
func (s *PGStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PGStore) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS porenet_snapshots (
			run_id      UUID             NOT NULL,
			quantity    TEXT             NOT NULL,
			t           DOUBLE PRECISION NOT NULL,
			field       BYTEA            NOT NULL,
			steady      BOOLEAN          NOT NULL DEFAULT FALSE,
			steady_time DOUBLE PRECISION,
			created_at  TIMESTAMPTZ      NOT NULL DEFAULT NOW(),
			PRIMARY KEY (run_id, t)
		)`)
	return err
}

func encodeField(field []float64) []byte {
	out := make([]byte, 8*len(field))
	for i, v := range field {
		binary.LittleEndian.PutUint64(out[i*8:], math.Float64bits(v))
	}
	return out
}

func decodeField(data []byte) []float64 {
	out := make([]float64, len(data)/8)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
	}
	return out
}

// SaveSet stores every snapshot of the set in one transaction.
func (s *PGStore) SaveSet(ctx context.Context, set *Set) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	steady, steadyTime := set.SteadyState()
	for _, t := range set.Times() {
		field, err := set.At(t)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO porenet_snapshots (run_id, quantity, t, field, steady, steady_time)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (run_id, t) DO UPDATE SET field = EXCLUDED.field`,
			set.RunID(), set.Quantity(), t, encodeField(field), steady, steadyTime)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot at t=%g: %w", t, err)
		}
	}
	return tx.Commit(ctx)
}

// LoadSet reads all snapshots of a run back into a Set.
func (s *PGStore) LoadSet(ctx context.Context, runID string) (*Set, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT quantity, t, field, steady, steady_time
		FROM porenet_snapshots WHERE run_id = $1 ORDER BY t`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var set *Set
	for rows.Next() {
		var quantity string
		var t float64
		var data []byte
		var steady bool
		var steadyTime *float64
		if err := rows.Scan(&quantity, &t, &data, &steady, &steadyTime); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		if set == nil {
			set = NewSet(quantity)
			set.runID = runID
		}
		set.Append(t, decodeField(data))
		if steady && steadyTime != nil {
			set.MarkSteady(*steadyTime)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if set == nil {
		return nil, fmt.Errorf("run %s: %w", runID, ErrNoSnapshots)
	}
	return set, nil
}
