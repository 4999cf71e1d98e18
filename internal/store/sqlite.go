package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/uma-arai/sbcntr-restaurant/internal/common/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var _ KeyValueStore = (*SQLiteStore)(nil)

// kvEntry はkv_entriesテーブルの1行です
type kvEntry struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

func (kvEntry) TableName() string { return "kv_entries" }

// SQLiteStore はローカルのSQLiteファイルに値を保存します
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore は新しいSQLiteStoreを作成します
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open sqlite %s: %v", ErrUnavailable, path, err)
	}

	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("%w: failed to migrate kv_entries: %v", ErrUnavailable, err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (_ json.RawMessage, _ bool, err error) {
	ctx, end := utils.StartSubsegment(ctx, "SQLiteStore.Get")
	defer func() { end(err) }()

	var entry kvEntry
	err = s.db.WithContext(ctx).Where(&kvEntry{Key: key}).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: failed to get %s: %v", ErrUnavailable, key, err)
	}
	return json.RawMessage(entry.Value), true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value json.RawMessage) (err error) {
	ctx, end := utils.StartSubsegment(ctx, "SQLiteStore.Set")
	defer func() { end(err) }()

	entry := kvEntry{Key: key, Value: string(value), UpdatedAt: time.Now()}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("%w: failed to set %s: %v", ErrUnavailable, key, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
