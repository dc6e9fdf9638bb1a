package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"ompserver/internal/domain"
)

const (
	redisObjectKeyPrefix = "omp:obj:"
	redisObjectIndex     = "omp:obj:index"
)

// Redis stores objects as JSON blobs with a sorted-set index keyed by
// creation time, which gives the same stable listing order as the memory
// adapter.
type Redis struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client, now: time.Now}
}

func (r *Redis) Store(ctx context.Context, namespace, key string, content, metadata map[string]any) (domain.Object, error) {
	obj := domain.Object{
		ID:        uuid.NewString(),
		Namespace: namespace,
		Key:       key,
		CreatedAt: r.now().UTC(),
		Metadata:  metadata,
		Content:   content,
	}
	raw, err := json.Marshal(obj)
	if err != nil {
		return domain.Object{}, err
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, redisObjectKeyPrefix+obj.ID, raw, 0)
	pipe.ZAdd(ctx, redisObjectIndex, redis.Z{
		Score:  float64(obj.CreatedAt.UnixNano()),
		Member: obj.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return domain.Object{}, fmt.Errorf("redis store: %w", err)
	}
	return obj, nil
}

func (r *Redis) Get(ctx context.Context, id string) (domain.Object, error) {
	raw, err := r.client.Get(ctx, redisObjectKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Object{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Object{}, fmt.Errorf("redis get: %w", err)
	}
	var obj domain.Object
	if err := json.Unmarshal(raw, &obj); err != nil {
		return domain.Object{}, err
	}
	return obj, nil
}

func (r *Redis) Update(ctx context.Context, id string, content, metadata map[string]any) (domain.Object, error) {
	obj, err := r.Get(ctx, id)
	if err != nil {
		return domain.Object{}, err
	}
	obj.Content = content
	if metadata != nil {
		obj.Metadata = metadata
	}
	raw, err := json.Marshal(obj)
	if err != nil {
		return domain.Object{}, err
	}
	if err := r.client.Set(ctx, redisObjectKeyPrefix+id, raw, 0).Err(); err != nil {
		return domain.Object{}, fmt.Errorf("redis update: %w", err)
	}
	return obj, nil
}

func (r *Redis) Delete(ctx context.Context, id string) error {
	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, redisObjectKeyPrefix+id)
	pipe.ZRem(ctx, redisObjectIndex, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	if del.Val() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Redis) List(ctx context.Context, limit int, cursor string) (domain.ObjectList, error) {
	return r.collect(ctx, func(domain.Object) bool { return true }, limit, cursor)
}

func (r *Redis) Search(ctx context.Context, filter domain.SearchFilter, limit int, cursor string) (domain.ObjectList, error) {
	return r.collect(ctx, func(obj domain.Object) bool {
		if filter.Namespace != "" && obj.Namespace != filter.Namespace {
			return false
		}
		if filter.KeyContains != "" && !strings.Contains(obj.Key, filter.KeyContains) {
			return false
		}
		return true
	}, limit, cursor)
}

func (r *Redis) collect(ctx context.Context, match func(domain.Object) bool, limit int, cursor string) (domain.ObjectList, error) {
	ids, err := r.client.ZRange(ctx, redisObjectIndex, 0, -1).Result()
	if err != nil {
		return domain.ObjectList{}, fmt.Errorf("redis index: %w", err)
	}

	start := 0
	if cursor != "" {
		for i, id := range ids {
			if id == cursor {
				start = i + 1
				break
			}
		}
	}

	items := make([]domain.Object, 0, limit)
	for _, id := range ids[start:] {
		if len(items) >= limit {
			break
		}
		obj, err := r.Get(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return domain.ObjectList{}, err
		}
		if match(obj) {
			items = append(items, obj.WithoutContent())
		}
	}
	return domain.ObjectList{Count: len(items), Items: items}, nil
}
