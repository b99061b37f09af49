package routestore

import (
	"context"
	"time"
)

// Repository defines the interface for route record persistence.
type Repository interface {
	// Save appends a route record.
	Save(ctx context.Context, record *Record) error

	// Get retrieves a record by ID.
	// Returns ErrRecordNotFound if no record exists.
	Get(ctx context.Context, id string) (*Record, error)

	// Recent retrieves the most recent records, newest first.
	Recent(ctx context.Context, limit int) ([]*Record, error)

	// DeleteOlderThan removes records created before cutoff and reports
	// how many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
