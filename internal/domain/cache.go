package domain

import (
	"context"
	"io"
	"time"
)

// PriceCache caches recent oracle spot prices so repeated resolution passes
// within the TTL do not re-query the upstream price API.
type PriceCache interface {
	SetPrice(ctx context.Context, assetID string, price float64, ts time.Time) error
	GetPrice(ctx context.Context, assetID string) (float64, time.Time, error)
}

// BlobWriter uploads an object to blob storage.
type BlobWriter interface {
	Put(ctx context.Context, path string, data io.Reader, contentType string) error
}

// Archiver uploads dated copies of the persisted snapshots after a pass.
type Archiver interface {
	ArchiveSnapshots(ctx context.Context, runID string, when time.Time) error
}
