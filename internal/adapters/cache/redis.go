package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/gge-dashboard/internal/domain"
)

const DefaultKey = "gge:anuncios:snapshot"

// Redis shares the snapshot between replicas. Any redis failure is logged
// and reported as a miss so the caller falls back to the database.
type Redis struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

func NewRedis(client redis.UniversalClient, key string, ttl time.Duration) *Redis {
	if key == "" {
		key = DefaultKey
	}
	return &Redis{client: client, key: key, ttl: ttl}
}

// Dial builds a single-node client and pings it once.
func Dial(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	c := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx).Err(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (r *Redis) Get(ctx context.Context) ([]domain.Listing, bool) {
	raw, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		log.Warn().Err(err).Str("key", r.key).Msg("redis: falha ao ler")
		return nil, false
	}
	var list []domain.Listing
	if err := json.Unmarshal(raw, &list); err != nil {
		log.Warn().Err(err).Str("key", r.key).Msg("snapshot corrompido")
		return nil, false
	}
	if list == nil {
		list = []domain.Listing{}
	}
	return list, true
}

func (r *Redis) Set(ctx context.Context, listings []domain.Listing) {
	if r.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(listings)
	if err != nil {
		log.Warn().Err(err).Msg("serializar snapshot")
		return
	}
	if err := r.client.Set(ctx, r.key, raw, r.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", r.key).Msg("redis: falha ao gravar")
	}
}

func (r *Redis) Invalidate(ctx context.Context) {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		log.Warn().Err(err).Str("key", r.key).Msg("redis: falha ao remover")
	}
}
