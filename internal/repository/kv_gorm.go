package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"learnpath_backend/internal/model"
	"learnpath_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore backs the progress document with a single row in the
// storage_entries table.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) Get(ctx context.Context, key string) (string, error) {
	var entry model.StorageEntry
	err := s.DB.WithContext(ctx).First(&entry, "`key` = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", util.ErrKeyNotFound
	}
	if err != nil {
		return "", classifyMySQLError(err)
	}
	return entry.Value, nil
}

func (s *GormStore) Set(ctx context.Context, key, value string) error {
	entry := model.StorageEntry{Key: key, Value: value}
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return classifyMySQLError(err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	err := s.DB.WithContext(ctx).Delete(&model.StorageEntry{}, "`key` = ?", key).Error
	if err != nil {
		return classifyMySQLError(err)
	}
	return nil
}

func classifyMySQLError(err error) error {
	msg := err.Error()
	switch {
	// 1114 table full, 1021 disk full
	case strings.Contains(msg, "Error 1114"), strings.Contains(msg, "Error 1021"):
		return fmt.Errorf("%w: %v", util.ErrStorageQuota, err)
	// 1142 command denied, 1044/1045 access denied
	case strings.Contains(msg, "Error 1142"), strings.Contains(msg, "Error 1044"), strings.Contains(msg, "Error 1045"):
		return fmt.Errorf("%w: %v", util.ErrStorageDenied, err)
	default:
		return err
	}
}
