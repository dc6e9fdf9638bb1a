package db

import "time"

type ObjectModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Namespace string    `gorm:"index;not null"`
	Key       string    `gorm:"index;not null"`
	Metadata  []byte    `gorm:"type:jsonb;not null"`
	Content   []byte    `gorm:"type:jsonb;not null"`
	CreatedAt time.Time `gorm:"index;not null"`
}

func (ObjectModel) TableName() string { return "omp_objects" }
