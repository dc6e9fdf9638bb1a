package main

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"

	"ompserver/internal/config"
	"ompserver/internal/infra/db"
	httpinfra "ompserver/internal/infra/http"
	"ompserver/internal/infra/policyopa"
	"ompserver/internal/infra/ratelimit"
	"ompserver/internal/infra/storage"
	"ompserver/internal/usecase"
)

func main() {
	cfg := config.FromEnv()
	ctx := context.Background()

	objects, err := buildObjectStorage(cfg)
	if err != nil {
		log.Fatalf("failed to init storage: %v", err)
	}

	engine, err := buildPolicyEngine(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to init exchange policy: %v", err)
	}

	data := usecase.NewDataStore()
	deps := httpinfra.ServerDeps{
		Objects:  &usecase.ObjectService{Storage: objects},
		Exchange: usecase.NewExchangeService(engine, data),
		Data:     data,
	}
	if cfg.RedisAddr != "" && cfg.RateLimitPerMin > 0 {
		deps.RateLimiter = ratelimit.NewRedisLimiter(newRedisClient(cfg), nil)
	}

	srv := httpinfra.NewServer(cfg, deps)
	if err := srv.Run(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func buildObjectStorage(cfg config.Config) (usecase.ObjectStorage, error) {
	switch cfg.StorageBackend {
	case "redis":
		return storage.NewRedis(newRedisClient(cfg)), nil
	case "postgres":
		store, err := db.NewStore(cfg)
		if err != nil {
			return nil, err
		}
		return db.NewObjectRepository(store.DB), nil
	default:
		return storage.NewMemory(), nil
	}
}

func buildPolicyEngine(ctx context.Context, cfg config.Config) (*policyopa.Engine, error) {
	if cfg.ExchangePolicyPath != "" {
		return policyopa.NewEngineFromPath(ctx, cfg.ExchangePolicyPath)
	}
	return policyopa.NewEngine(ctx)
}

func newRedisClient(cfg config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}
