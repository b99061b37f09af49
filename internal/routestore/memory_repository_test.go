package routestore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuelroute/fuelroute/internal/network"
)

func seedRecord(id string, age time.Duration) *Record {
	return &Record{
		ID:            id,
		Origin:        "Houston, TX",
		Destination:   "New Orleans, LA",
		FuelType:      "hydrogen",
		VolumeTons:    10,
		Modes:         []network.Mode{network.ModeTruck},
		DistanceMiles: 350,
		BaseCost:      2913.75,
		TotalCost:     28262.21,
		Confidence:    85,
		CreatedAt:     time.Now().Add(-age),
	}
}

func TestInMemoryRepositorySaveGet(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, seedRecord("rte_1", 0)))

	got, err := repo.Get(ctx, "rte_1")
	require.NoError(t, err)
	assert.Equal(t, "Houston, TX", got.Origin)
	assert.InDelta(t, 2913.75, got.BaseCost, 1e-9)

	_, err = repo.Get(ctx, "rte_missing")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestInMemoryRepositoryRecentOrderAndLimit(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		rec := seedRecord(fmt.Sprintf("rte_%d", i), time.Duration(i)*time.Hour)
		require.NoError(t, repo.Save(ctx, rec))
	}

	records, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 10)

	// Newest first.
	assert.Equal(t, "rte_0", records[0].ID)
	for i := 1; i < len(records); i++ {
		assert.True(t, records[i].CreatedAt.Before(records[i-1].CreatedAt))
	}
}

func TestInMemoryRepositoryDeleteOlderThan(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, seedRecord("rte_old", 48*time.Hour)))
	require.NoError(t, repo.Save(ctx, seedRecord("rte_new", time.Minute)))

	removed, err := repo.DeleteOlderThan(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = repo.Get(ctx, "rte_old")
	assert.ErrorIs(t, err, ErrRecordNotFound)

	_, err = repo.Get(ctx, "rte_new")
	assert.NoError(t, err)
}
