package usecase

import (
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"ompserver/internal/domain"
)

// DataStore is the mutex-protected in-memory key-value store backing the
// legacy routes and the exchange capabilities. Records carry a lifespan
// label but nothing expires them.
type DataStore struct {
	mu    sync.RWMutex
	items map[string]domain.DataItem
}

func NewDataStore() *DataStore {
	return &DataStore{items: make(map[string]domain.DataItem)}
}

// ItemSummary is one row of a listing or search result.
type ItemSummary struct {
	Key       string `json:"key"`
	Lifespan  string `json:"lifespan"`
	SizeBytes *int   `json:"size_bytes,omitempty"`
}

func (d *DataStore) Put(key string, value any, lifespan string) error {
	if lifespan != domain.LifespanShort && lifespan != domain.LifespanLong {
		return domain.ErrInvalidLifespan
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.items[key] = domain.DataItem{Value: value, Lifespan: lifespan}
	return nil
}

func (d *DataStore) Get(key string) (domain.DataItem, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	item, ok := d.items[key]
	return item, ok
}

func (d *DataStore) Delete(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.items[key]; !ok {
		return false
	}
	delete(d.items, key)
	return true
}

// List returns every record with its serialized size when computable.
func (d *DataStore) List() []ItemSummary {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]ItemSummary, 0, len(d.items))
	for key, item := range d.items {
		row := ItemSummary{Key: key, Lifespan: item.Lifespan}
		if raw, err := json.Marshal(item.Value); err == nil {
			size := len(raw)
			row.SizeBytes = &size
		}
		out = append(out, row)
	}
	sortSummaries(out)
	return out
}

// Search filters by key substring and/or lifespan label.
func (d *DataStore) Search(contains, lifespan string) []ItemSummary {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]ItemSummary, 0)
	for key, item := range d.items {
		if contains != "" && !strings.Contains(key, contains) {
			continue
		}
		if lifespan != "" && item.Lifespan != lifespan {
			continue
		}
		out = append(out, ItemSummary{Key: key, Lifespan: item.Lifespan})
	}
	sortSummaries(out)
	return out
}

func sortSummaries(rows []ItemSummary) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
}
