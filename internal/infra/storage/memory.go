package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ompserver/internal/domain"
)

// Memory is the default object storage adapter, a mutex-protected map.
// Listings are ordered by creation time with the id as a tiebreaker so
// pagination is stable.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]domain.Object
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{objects: make(map[string]domain.Object), now: time.Now}
}

func (m *Memory) Store(ctx context.Context, namespace, key string, content, metadata map[string]any) (domain.Object, error) {
	obj := domain.Object{
		ID:        uuid.NewString(),
		Namespace: namespace,
		Key:       key,
		CreatedAt: m.now().UTC(),
		Metadata:  metadata,
		Content:   content,
	}
	m.mu.Lock()
	m.objects[obj.ID] = obj
	m.mu.Unlock()
	return obj, nil
}

func (m *Memory) Get(ctx context.Context, id string) (domain.Object, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[id]
	if !ok {
		return domain.Object{}, domain.ErrNotFound
	}
	return obj, nil
}

func (m *Memory) Update(ctx context.Context, id string, content, metadata map[string]any) (domain.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[id]
	if !ok {
		return domain.Object{}, domain.ErrNotFound
	}
	obj.Content = content
	if metadata != nil {
		obj.Metadata = metadata
	}
	m.objects[id] = obj
	return obj, nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.objects, id)
	return nil
}

func (m *Memory) List(ctx context.Context, limit int, cursor string) (domain.ObjectList, error) {
	return m.collect(func(domain.Object) bool { return true }, limit, cursor)
}

func (m *Memory) Search(ctx context.Context, filter domain.SearchFilter, limit int, cursor string) (domain.ObjectList, error) {
	return m.collect(func(obj domain.Object) bool {
		if filter.Namespace != "" && obj.Namespace != filter.Namespace {
			return false
		}
		if filter.KeyContains != "" && !strings.Contains(obj.Key, filter.KeyContains) {
			return false
		}
		return true
	}, limit, cursor)
}

// collect snapshots matching objects in creation order and applies the
// cursor (the id of the last object of the previous page) and limit.
func (m *Memory) collect(match func(domain.Object) bool, limit int, cursor string) (domain.ObjectList, error) {
	m.mu.RLock()
	all := make([]domain.Object, 0, len(m.objects))
	for _, obj := range m.objects {
		if match(obj) {
			all = append(all, obj)
		}
	}
	m.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})

	start := 0
	if cursor != "" {
		for i, obj := range all {
			if obj.ID == cursor {
				start = i + 1
				break
			}
		}
	}
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}

	items := make([]domain.Object, 0, end-start)
	for _, obj := range all[start:end] {
		items = append(items, obj.WithoutContent())
	}
	return domain.ObjectList{Count: len(items), Items: items}, nil
}
