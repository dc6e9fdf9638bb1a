package db

import (
	"fmt"
	"log"

	"ompserver/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Store struct {
	DB *gorm.DB
}

func NewStore(cfg config.Config) (*Store, error) {
	if cfg.PostgresDSN == "" {
		log.Printf("OMP_POSTGRES_DSN not set; postgres storage unavailable.")
		return &Store{DB: nil}, nil
	}

	gdb, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := gdb.AutoMigrate(&ObjectModel{}); err != nil {
		return nil, fmt.Errorf("migrate objects: %w", err)
	}

	return &Store{DB: gdb}, nil
}
