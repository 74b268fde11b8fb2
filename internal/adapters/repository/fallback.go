package repository

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/okian/fantasybakes/internal/domain/model"
	"github.com/okian/fantasybakes/pkg/logger"
	"github.com/okian/fantasybakes/pkg/metrics"
)

// FallbackStore reads from a primary store and degrades to fallbacks and
// finally to the last season it successfully loaded or saved. Writes only
// go to the primary and their failures are returned unchanged.
type FallbackStore struct {
	primary   Store
	fallbacks []Store
	log       logger.Logger

	group    singleflight.Group
	lastGood atomic.Pointer[model.Season]
}

// NewFallbackStore wraps primary.
func NewFallbackStore(primary Store, opts ...Option) *FallbackStore {
	f := &FallbackStore{primary: primary}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Load returns a private copy of the season. Concurrent callers share one
// underlying read.
func (f *FallbackStore) Load(ctx context.Context) (*model.Season, error) {
	v, err, _ := f.group.Do(opLoad, func() (any, error) {
		return f.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Season).Clone(), nil
}

func (f *FallbackStore) load(ctx context.Context) (*model.Season, error) {
	s, err := f.primary.Load(ctx)
	if err == nil {
		f.lastGood.Store(s.Clone())
		return s, nil
	}
	errs := []error{err}
	f.warn(ctx, "primary load failed", err)

	for i, fb := range f.fallbacks {
		s, ferr := fb.Load(ctx)
		if ferr == nil {
			metrics.RecordStorageFallback()
			if f.log != nil {
				f.log.Info(ctx, "season loaded from fallback", logger.Int("fallback", i))
			}
			return s, nil
		}
		errs = append(errs, ferr)
		f.warn(ctx, "fallback load failed", ferr)
	}

	if cached := f.lastGood.Load(); cached != nil {
		metrics.RecordStorageFallback()
		if f.log != nil {
			f.log.Warn(ctx, "serving cached season")
		}
		return cached.Clone(), nil
	}
	return nil, &OpError{
		Op:     opLoad,
		Source: BackendFallback,
		Err:    fmt.Errorf("%w: %w", ErrStorageUnavailable, errors.Join(errs...)),
	}
}

// Save writes to the primary and refreshes the cached snapshot on success.
func (f *FallbackStore) Save(ctx context.Context, s *model.Season) error {
	if err := f.primary.Save(ctx, s); err != nil {
		if !errors.Is(err, ErrStorageWrite) {
			err = saveErr(BackendFallback, err)
		}
		if f.log != nil {
			f.log.Error(ctx, "season save failed", logger.Error(err))
		}
		return err
	}
	f.lastGood.Store(s.Clone())
	return nil
}

func (f *FallbackStore) warn(ctx context.Context, msg string, err error) {
	if f.log != nil {
		f.log.Warn(ctx, msg, logger.Error(err))
	}
}
