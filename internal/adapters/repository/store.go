// Package repository persists the season document.
//
// Every backend stores the same document shape, {"season": {...}}, and runs
// loaded data through model normalization and validation before handing it
// out. Loads that cannot produce a season fail with ErrStorageUnavailable;
// rejected saves fail with ErrStorageWrite.
package repository

import (
	"context"
	"time"

	"github.com/okian/fantasybakes/internal/domain/model"
	"github.com/okian/fantasybakes/pkg/metrics"
)

// Store provides read/write access to the persisted season.
type Store interface {
	// Load returns the stored season. The caller owns the returned value.
	Load(ctx context.Context) (*model.Season, error)
	// Save replaces the stored season.
	Save(ctx context.Context, s *model.Season) error
}

// Backend names used in errors, logs and metric labels.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendFallback = "fallback"
)

const (
	opLoad = "load"
	opSave = "save"
)

// observe records latency and outcome of one backend operation.
func observe(backend, op string, start time.Time, err error) {
	metrics.RecordStorageOp(backend, op, float64(time.Since(start).Microseconds())/1000, err)
}
