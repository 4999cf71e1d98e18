package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/uma-arai/sbcntr-restaurant/internal/common/database"
	"github.com/uma-arai/sbcntr-restaurant/internal/common/utils"
)

var _ KeyValueStore = (*PostgresStore)(nil)

// PostgresStore はkv_storeテーブルに値を保存します
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore は新しいPostgresStoreを作成し、テーブルが無ければ作成します
func NewPostgresStore(ctx context.Context, db *database.DB) (*PostgresStore, error) {
	if err := db.EnsureKVSchema(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &PostgresStore{db: db}, nil
}

// Get は指定されたキーの値を取得します
func (s *PostgresStore) Get(ctx context.Context, key string) (_ json.RawMessage, _ bool, err error) {
	ctx, end := utils.StartSubsegment(ctx, "PostgresStore.Get")
	defer func() { end(err) }()

	query := `
		SELECT value
		FROM kv_store
		WHERE key = $1`

	var value []byte
	err = s.db.QueryRowxContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: failed to get %s: %v", ErrUnavailable, key, err)
	}

	return json.RawMessage(value), true, nil
}

// Set は指定されたキーの値をまるごと置き換えます
func (s *PostgresStore) Set(ctx context.Context, key string, value json.RawMessage) (err error) {
	ctx, end := utils.StartSubsegment(ctx, "PostgresStore.Set")
	defer func() { end(err) }()

	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at`

	if _, err = s.db.ExecContext(ctx, query, key, []byte(value)); err != nil {
		return fmt.Errorf("%w: failed to set %s: %v", ErrUnavailable, key, err)
	}
	return nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
