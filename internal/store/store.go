// Package store defines the persistence contract for search records.
package store

import (
	"context"
	"errors"

	"github.com/mynztrip/faresearch/internal/models"
)

var ErrNotFound = errors.New("search not found")

// Store persists search records keyed by search id. Records are
// upserted whole; historical searches are superseded by new ids,
// never rewritten.
type Store interface {
	Upsert(ctx context.Context, record *models.SearchRecord) error
	Get(ctx context.Context, id string) (*models.SearchRecord, error)
	Close() error
}
