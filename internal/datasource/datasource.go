// Package datasource opens the pet data source selected by configuration.
package datasource

import (
	"context"
	"fmt"
	"strings"

	"github.com/maxviazov/openapi-skeleton/internal/config"
	"github.com/maxviazov/openapi-skeleton/internal/repository"
	"github.com/maxviazov/openapi-skeleton/internal/repository/cache"
	"github.com/maxviazov/openapi-skeleton/internal/repository/jsonfile"
	"github.com/maxviazov/openapi-skeleton/internal/repository/postgres"
	"github.com/rs/zerolog"
)

const (
	Postgres = "postgres"
	JSON     = "json"
)

// Supported lists the accepted data_source.type values.
var Supported = []string{Postgres, JSON}

// ValidateDataSource fails fast on a data source type the server cannot open.
func ValidateDataSource(cfg config.DataSourceConfig) error {
	for _, s := range Supported {
		if cfg.Type == s {
			if s == JSON && cfg.JSONPath == "" {
				return fmt.Errorf("%w: json data source requires data_source.json_path", repository.ErrUnknownDataSource)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %q (supported: %s)", repository.ErrUnknownDataSource, cfg.Type, strings.Join(Supported, ", "))
}

// Open builds the repository stack: the configured source, wrapped in the
// Redis cache when enabled. Close releases every connection it opened.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*repository.Source, error) {
	if err := ValidateDataSource(cfg.DataSource); err != nil {
		return nil, err
	}

	src := &repository.Source{}
	var closers []func()

	switch cfg.DataSource.Type {
	case Postgres:
		pg, err := repository.NewPostgres(ctx, &cfg.Postgres, &logger)
		if err != nil {
			return nil, err
		}
		closers = append(closers, pg.Close)
		src.Pets = postgres.NewPetRepository(pg.Pool())
		src.Pinger = pg
	case JSON:
		repo, err := jsonfile.Load(cfg.DataSource.JSONPath)
		if err != nil {
			return nil, err
		}
		src.Pets = repo
		if p, ok := repo.(repository.Pinger); ok {
			src.Pinger = p
		}
	}
	logger.Info().Str("type", cfg.DataSource.Type).Msg("data source opened")

	if cfg.Redis.Enabled {
		rc, err := cache.NewClient(ctx, &cfg.Redis)
		if err != nil {
			for _, c := range closers {
				c()
			}
			return nil, err
		}
		closers = append(closers, func() { _ = rc.Close() })
		src.Pets = cache.NewPetRepository(src.Pets, rc, cfg.Redis.TTL, logger)
		logger.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.TTL).Msg("redis cache enabled")
	}

	src.Close = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	return src, nil
}
