package repository

import (
	"context"
	"errors"

	"farmdash/entities"
)

// ErrNotFound is returned by Load when nothing is stored for the browser.
var ErrNotFound = errors.New("record not found")

type RecordRepository interface {
	// Save upserts rec under (browserID, entities.RecordID).
	Save(ctx context.Context, browserID string, rec entities.FarmRecord) error
	Load(ctx context.Context, browserID string) (*entities.FarmRecord, error)
	Close() error
}
