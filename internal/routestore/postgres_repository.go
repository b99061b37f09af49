package routestore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fuelroute/fuelroute/internal/network"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL route record repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Save appends a route record.
func (r *PostgresRepository) Save(ctx context.Context, record *Record) error {
	breakdown, err := json.Marshal(record.Breakdown)
	if err != nil {
		return err
	}

	modes := make([]string, len(record.Modes))
	for i, m := range record.Modes {
		modes[i] = string(m)
	}

	query := `
		INSERT INTO route_records (
			id, origin, destination, fuel_type, volume_tons,
			modes, distance_miles, base_cost, total_cost,
			confidence, cost_breakdown, ai_enhanced, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = r.pool.Exec(ctx, query,
		record.ID,
		record.Origin,
		record.Destination,
		record.FuelType,
		record.VolumeTons,
		modes,
		record.DistanceMiles,
		record.BaseCost,
		record.TotalCost,
		record.Confidence,
		breakdown,
		record.AIEnhanced,
		record.CreatedAt,
	)
	return err
}

// Get retrieves a record by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Record, error) {
	query := selectColumns + ` WHERE id = $1`

	record, err := scanRecord(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return record, nil
}

// Recent retrieves the most recent records, newest first.
func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 10
	}

	query := selectColumns + ` ORDER BY created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// DeleteOlderThan removes records created before cutoff.
func (r *PostgresRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM route_records WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const selectColumns = `
	SELECT
		id, origin, destination, fuel_type, volume_tons,
		modes, distance_miles, base_cost, total_cost,
		confidence, cost_breakdown, ai_enhanced, created_at
	FROM route_records
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		record    Record
		modes     []string
		breakdown []byte
	)

	err := row.Scan(
		&record.ID,
		&record.Origin,
		&record.Destination,
		&record.FuelType,
		&record.VolumeTons,
		&modes,
		&record.DistanceMiles,
		&record.BaseCost,
		&record.TotalCost,
		&record.Confidence,
		&breakdown,
		&record.AIEnhanced,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Modes = make([]network.Mode, len(modes))
	for i, m := range modes {
		record.Modes[i] = network.Mode(m)
	}
	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &record.Breakdown); err != nil {
			return nil, err
		}
	}
	return &record, nil
}
