package repository

import "github.com/okian/fantasybakes/pkg/logger"

// Option applies a configuration option to the FallbackStore.
type Option func(*FallbackStore)

// WithFallback adds a read-only source consulted, in order, when the
// primary cannot load.
func WithFallback(s Store) Option {
	return func(f *FallbackStore) {
		if s != nil {
			f.fallbacks = append(f.fallbacks, s)
		}
	}
}

// WithLogger sets the logger used to report degraded loads.
func WithLogger(l logger.Logger) Option {
	return func(f *FallbackStore) {
		if l != nil {
			f.log = l
		}
	}
}
