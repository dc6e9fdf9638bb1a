package usecase

import (
	"context"

	"github.com/google/uuid"

	"ompserver/internal/domain"
)

const defaultListLimit = 50

// ObjectService fronts an ObjectStorage adapter with the small amount of
// normalization the API promises: keys generated when absent, metadata
// always present, limits clamped.
type ObjectService struct {
	Storage ObjectStorage
}

func (s *ObjectService) Store(ctx context.Context, namespace, key string, content, metadata map[string]any) (domain.Object, error) {
	if key == "" {
		key = uuid.NewString()
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	return s.Storage.Store(ctx, namespace, key, content, metadata)
}

func (s *ObjectService) Get(ctx context.Context, id string) (domain.Object, error) {
	return s.Storage.Get(ctx, id)
}

func (s *ObjectService) Update(ctx context.Context, id string, content, metadata map[string]any) (domain.Object, error) {
	if content == nil {
		return domain.Object{}, domain.ErrInvalidContent
	}
	return s.Storage.Update(ctx, id, content, metadata)
}

func (s *ObjectService) Delete(ctx context.Context, id string) error {
	return s.Storage.Delete(ctx, id)
}

func (s *ObjectService) List(ctx context.Context, limit int, cursor string) (domain.ObjectList, error) {
	return s.Storage.List(ctx, clampLimit(limit), cursor)
}

func (s *ObjectService) Search(ctx context.Context, filter domain.SearchFilter, limit int, cursor string) (domain.ObjectList, error) {
	return s.Storage.Search(ctx, filter, clampLimit(limit), cursor)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	return limit
}
