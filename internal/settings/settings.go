// Package settings is a small key-value store backed by sqlite. It holds
// the persisted sync state: job definitions, run history, the last sync
// time and the auto-sync flag.
package settings

import (
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Setting struct {
	Key   string `gorm:"primaryKey"`
	Value []byte `gorm:"not null"`
}

type Store struct {
	db *gorm.DB
}

func Open(dbPath string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.AutoMigrate(&Setting{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// Get returns the stored value for key, or ok=false if absent.
func (s *Store) Get(key string) ([]byte, bool, error) {
	var setting Setting
	err := s.db.First(&setting, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read setting %q: %w", key, err)
	}
	return setting.Value, true, nil
}

func (s *Store) Put(key string, value []byte) error {
	setting := Setting{Key: key, Value: value}
	err := s.db.Save(&setting).Error
	if err != nil {
		return fmt.Errorf("failed to write setting %q: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(key string) error {
	return s.db.Delete(&Setting{}, "key = ?", key).Error
}
