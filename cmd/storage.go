package main

import (
	"context"
	"fmt"

	"github.com/okian/fantasybakes/internal/adapters/repository"
	"github.com/okian/fantasybakes/internal/config"
	"github.com/okian/fantasybakes/internal/domain/model"
	"github.com/okian/fantasybakes/pkg/logger"
)

// buildRepository wires the configured primary backend behind a
// FallbackStore, with the fallback file as a read-only source when set.
// The returned func releases backend connections.
func buildRepository(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.Store, func(), error) {
	var primary repository.Store
	closer := func() {}

	switch cfg.StorageDriver {
	case config.DriverMemory:
		primary = repository.NewMemoryStore(memorySeed(ctx, cfg, log))
	case config.DriverFile:
		primary = repository.NewFileStore(cfg.DataPath)
	case config.DriverRedis:
		client, err := repository.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		rs := repository.NewRedisStore(client, cfg.RedisKey+":"+cfg.SeasonKey)
		primary = rs
		closer = func() { _ = rs.Close() }
	case config.DriverPostgres:
		pool, err := repository.ConnectPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		ps := repository.NewPostgresStore(pool, cfg.SeasonKey)
		if err := ps.EnsureSchema(ctx); err != nil {
			ps.Close()
			return nil, nil, err
		}
		primary = ps
		closer = ps.Close
	default:
		return nil, nil, fmt.Errorf("%w: storage driver %q", config.ErrInvalidConfig, cfg.StorageDriver)
	}

	opts := []repository.Option{repository.WithLogger(log.Named("repository"))}
	if cfg.FallbackPath != "" {
		opts = append(opts, repository.WithFallback(repository.NewFileStore(cfg.FallbackPath)))
	}
	log.Info(ctx, "repository configured",
		logger.String("driver", cfg.StorageDriver),
		logger.String("fallback", cfg.FallbackPath),
	)
	return repository.NewFallbackStore(primary, opts...), closer, nil
}

// memorySeed returns the first season readable from the data file or the
// fallback file, or an empty season at week 1 so the store can take writes.
func memorySeed(ctx context.Context, cfg *config.Config, log logger.Logger) *model.Season {
	for _, path := range []string{cfg.DataPath, cfg.FallbackPath} {
		if path == "" {
			continue
		}
		s, err := repository.NewFileStore(path).Load(ctx)
		if err != nil {
			log.Debug(ctx, "memory seed unavailable", logger.String("path", path), logger.Error(err))
			continue
		}
		log.Info(ctx, "memory store seeded", logger.String("path", path))
		return s
	}
	return &model.Season{CurrentWeek: 1}
}
