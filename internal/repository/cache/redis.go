// Package cache provides a read-through Redis layer over any PetRepository.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/maxviazov/openapi-skeleton/internal/config"
	"github.com/maxviazov/openapi-skeleton/internal/model"
	"github.com/maxviazov/openapi-skeleton/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const keyPrefix = "pets:"

// NewClient connects to Redis and pings it within the configured dial timeout.
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	if cfg == nil || cfg.Addr == "" {
		return nil, errors.New("redis configuration is nil or empty")
	}
	rc := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := rc.Ping(pingCtx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("redis connect error: %w", err)
	}
	return rc, nil
}

// PetRepository caches List and GetByID results of next for ttl. Redis
// failures are logged and the call falls through to next.
type PetRepository struct {
	next repository.PetRepository
	rc   redis.Cmdable
	ttl  time.Duration
	log  zerolog.Logger
}

func NewPetRepository(next repository.PetRepository, rc redis.Cmdable, ttl time.Duration, logger zerolog.Logger) *PetRepository {
	return &PetRepository{
		next: next,
		rc:   rc,
		ttl:  ttl,
		log:  logger.With().Str("module", "repository").Str("component", "pet_cache").Logger(),
	}
}

func listKey(f repository.PetFilter) string {
	return keyPrefix + "list:" + strings.ToLower(f.Species)
}

func idKey(id int64) string {
	return keyPrefix + "id:" + strconv.FormatInt(id, 10)
}

func (r *PetRepository) List(ctx context.Context, f repository.PetFilter) ([]model.Pet, error) {
	key := listKey(f)
	var rows []model.Pet
	if r.load(ctx, key, &rows) {
		if rows == nil {
			rows = make([]model.Pet, 0)
		}
		return rows, nil
	}

	rows, err := r.next.List(ctx, f)
	if err != nil {
		return nil, err
	}
	r.store(ctx, key, rows)
	return rows, nil
}

func (r *PetRepository) GetByID(ctx context.Context, id int64) (model.Pet, error) {
	key := idKey(id)
	var p model.Pet
	if r.load(ctx, key, &p) {
		return p, nil
	}

	p, err := r.next.GetByID(ctx, id)
	if err != nil {
		return model.Pet{}, err
	}
	r.store(ctx, key, p)
	return p, nil
}

// Ping reports Redis health.
func (r *PetRepository) Ping(ctx context.Context) error {
	if err := r.rc.Ping(ctx).Err(); err != nil {
		return errors.Join(repository.ErrUnavailable, err)
	}
	return nil
}

func (r *PetRepository) load(ctx context.Context, key string, dest any) bool {
	raw, err := r.rc.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("cache entry corrupt")
		return false
	}
	return true
}

func (r *PetRepository) store(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("cache marshal failed")
		return
	}
	if err := r.rc.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

var (
	_ repository.PetRepository = (*PetRepository)(nil)
	_ repository.Pinger        = (*PetRepository)(nil)
)
