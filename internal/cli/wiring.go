package cli

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"hqtrivia-bot/internal/app"
	"hqtrivia-bot/internal/config"
	"hqtrivia-bot/internal/infra/cache"
	"hqtrivia-bot/internal/infra/evidence"
	"hqtrivia-bot/internal/infra/games"
	"hqtrivia-bot/internal/infra/postgres"
)

// buildRecordStore picks the Postgres archive when configured, the
// filesystem store otherwise. The returned func releases the store.
func buildRecordStore(ctx context.Context, cfg config.Config) (app.RecordStore, func(), error) {
	if cfg.Postgres.URL == "" {
		return games.New(cfg.Games.Dir), func() {}, nil
	}
	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return nil, nil, err
	}
	return postgres.NewRecordStore(pool), pool.Close, nil
}

// buildCacheStore picks Redis when configured, in-process memory otherwise.
func buildCacheStore(cfg config.Config) cache.Store {
	ttl := config.TTLDuration(cfg.Cache.TTL, 30*24*time.Hour)
	if cfg.Cache.Redis.Addr == "" {
		return cache.NewMemory(ttl)
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
	})
	return cache.NewRedis(client, ttl)
}

func buildFetcher(cfg config.Config, store cache.Store) *evidence.Fetcher {
	return evidence.NewFetcher(nil, store, cfg.Search.BaseURL, cfg.Reference.BaseURL)
}

// authHeaders carries the credentials and client fingerprint the
// broadcast API expects on every call.
func authHeaders(cfg config.Config) http.Header {
	headers := http.Header{}
	headers.Set("User-Agent", "hq-viewer/1.2.4 (iPhone; iOS 11.1.1; Scale/3.00)")
	headers.Set("Authorization", "Bearer "+cfg.Auth.BearerToken)
	headers.Set("x-hq-stk", "")
	headers.Set("x-hq-client", "Android/1.11.2")
	if cfg.API.Country != "" {
		headers.Set("x-hq-country", cfg.API.Country)
	}
	headers.Set("x-hq-lang", "en")
	if cfg.API.Timezone != "" {
		headers.Set("x-hq-timezone", cfg.API.Timezone)
	}
	return headers
}
