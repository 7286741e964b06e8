package model

import "time"

// StorageEntry is the key-value row backing the MySQL storage backend.
// The progress document lives in a single row under a fixed key.
type StorageEntry struct {
	Key       string `gorm:"primaryKey;size:191"`
	Value     string `gorm:"type:longtext"`
	UpdatedAt time.Time
}

func (StorageEntry) TableName() string {
	return "storage_entries"
}
