package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mynztrip/faresearch/internal/models"
	"github.com/mynztrip/faresearch/internal/store"
)

func TestUpsertAndGet(t *testing.T) {
	s := New()
	defer s.Close()

	record := &models.SearchRecord{ID: "s-1", Status: models.StatusQueued}
	require.NoError(t, s.Upsert(context.Background(), record))

	got, err := s.Get(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, "s-1", got.ID)
	assert.Equal(t, models.StatusQueued, got.Status)
}

func TestGetUnknownID(t *testing.T) {
	s := New()
	defer s.Close()

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpsertReplacesRecord(t *testing.T) {
	s := New()
	defer s.Close()

	record := &models.SearchRecord{ID: "s-1", Status: models.StatusQueued}
	require.NoError(t, s.Upsert(context.Background(), record))

	record.Status = models.StatusCompleted
	require.NoError(t, s.Upsert(context.Background(), record))

	got, err := s.Get(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
}

func TestGetReturnsIsolatedCopy(t *testing.T) {
	s := New()
	defer s.Close()

	price := 298.0
	record := &models.SearchRecord{
		ID:     "s-1",
		Status: models.StatusCompleted,
		CheapestFlight: &models.Offer{
			ID:         "o-1",
			TotalPrice: price,
		},
	}
	require.NoError(t, s.Upsert(context.Background(), record))

	// Mutating the caller's copy must not bleed into the store.
	record.CheapestFlight.TotalPrice = 1

	first, err := s.Get(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, price, first.CheapestFlight.TotalPrice)

	first.CheapestFlight.TotalPrice = 2

	second, err := s.Get(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, price, second.CheapestFlight.TotalPrice)
}
