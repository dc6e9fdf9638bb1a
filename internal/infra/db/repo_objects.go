package db

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ompserver/internal/domain"
)

// ObjectRepository is the postgres object storage adapter.
type ObjectRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewObjectRepository(db *gorm.DB) *ObjectRepository {
	return &ObjectRepository{db: db, now: time.Now}
}

func (r *ObjectRepository) Store(ctx context.Context, namespace, key string, content, metadata map[string]any) (domain.Object, error) {
	if r.db == nil {
		return domain.Object{}, domain.ErrStoreUnavailable
	}
	obj := domain.Object{
		ID:        uuid.NewString(),
		Namespace: namespace,
		Key:       key,
		CreatedAt: r.now().UTC(),
		Metadata:  metadata,
		Content:   content,
	}
	model, err := toModel(obj)
	if err != nil {
		return domain.Object{}, err
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.Object{}, err
	}
	return obj, nil
}

func (r *ObjectRepository) Get(ctx context.Context, id string) (domain.Object, error) {
	if r.db == nil {
		return domain.Object{}, domain.ErrStoreUnavailable
	}
	var model ObjectModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Object{}, domain.ErrNotFound
		}
		return domain.Object{}, err
	}
	return fromModel(model)
}

func (r *ObjectRepository) Update(ctx context.Context, id string, content, metadata map[string]any) (domain.Object, error) {
	obj, err := r.Get(ctx, id)
	if err != nil {
		return domain.Object{}, err
	}
	obj.Content = content
	if metadata != nil {
		obj.Metadata = metadata
	}
	model, err := toModel(obj)
	if err != nil {
		return domain.Object{}, err
	}
	err = r.db.WithContext(ctx).Model(&ObjectModel{}).Where("id = ?", id).
		Updates(map[string]any{"content": model.Content, "metadata": model.Metadata}).Error
	if err != nil {
		return domain.Object{}, err
	}
	return obj, nil
}

func (r *ObjectRepository) Delete(ctx context.Context, id string) error {
	if r.db == nil {
		return domain.ErrStoreUnavailable
	}
	res := r.db.WithContext(ctx).Delete(&ObjectModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ObjectRepository) List(ctx context.Context, limit int, cursor string) (domain.ObjectList, error) {
	return r.collect(ctx, domain.SearchFilter{}, limit, cursor)
}

func (r *ObjectRepository) Search(ctx context.Context, filter domain.SearchFilter, limit int, cursor string) (domain.ObjectList, error) {
	return r.collect(ctx, filter, limit, cursor)
}

func (r *ObjectRepository) collect(ctx context.Context, filter domain.SearchFilter, limit int, cursor string) (domain.ObjectList, error) {
	if r.db == nil {
		return domain.ObjectList{}, domain.ErrStoreUnavailable
	}
	q := r.db.WithContext(ctx).Model(&ObjectModel{}).Order("created_at, id")
	if filter.Namespace != "" {
		q = q.Where("namespace = ?", filter.Namespace)
	}
	if filter.KeyContains != "" {
		q = q.Where("key LIKE ?", "%"+escapeLike(filter.KeyContains)+"%")
	}
	if cursor != "" {
		var after ObjectModel
		err := r.db.WithContext(ctx).First(&after, "id = ?", cursor).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ObjectList{}, err
		}
		if err == nil {
			q = q.Where("(created_at, id) > (?, ?)", after.CreatedAt, after.ID)
		}
	}

	var models []ObjectModel
	if err := q.Limit(limit).Find(&models).Error; err != nil {
		return domain.ObjectList{}, err
	}
	items := make([]domain.Object, 0, len(models))
	for _, model := range models {
		obj, err := fromModel(model)
		if err != nil {
			return domain.ObjectList{}, err
		}
		items = append(items, obj.WithoutContent())
	}
	return domain.ObjectList{Count: len(items), Items: items}, nil
}

func toModel(obj domain.Object) (ObjectModel, error) {
	metadata, err := json.Marshal(obj.Metadata)
	if err != nil {
		return ObjectModel{}, err
	}
	content, err := json.Marshal(obj.Content)
	if err != nil {
		return ObjectModel{}, err
	}
	return ObjectModel{
		ID:        obj.ID,
		Namespace: obj.Namespace,
		Key:       obj.Key,
		Metadata:  metadata,
		Content:   content,
		CreatedAt: obj.CreatedAt,
	}, nil
}

func fromModel(model ObjectModel) (domain.Object, error) {
	obj := domain.Object{
		ID:        model.ID,
		Namespace: model.Namespace,
		Key:       model.Key,
		CreatedAt: model.CreatedAt,
	}
	if len(model.Metadata) > 0 {
		if err := json.Unmarshal(model.Metadata, &obj.Metadata); err != nil {
			return domain.Object{}, err
		}
	}
	if len(model.Content) > 0 {
		if err := json.Unmarshal(model.Content, &obj.Content); err != nil {
			return domain.Object{}, err
		}
	}
	return obj, nil
}

func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
