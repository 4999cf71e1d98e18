package store

import (
	"context"
	"fmt"
	"log"

	"github.com/uma-arai/sbcntr-restaurant/internal/common/config"
	"github.com/uma-arai/sbcntr-restaurant/internal/common/database"
)

// Open は設定に応じたストアを開きます
// 永続ストアが開けない場合はメモリ上のストアで続行し、degraded=true を返します
func Open(ctx context.Context, cfg *config.Config) (kv KeyValueStore, degraded bool) {
	kv, err := open(ctx, cfg)
	if err != nil {
		log.Printf("Failed to open %s store, continuing in memory only: %v", cfg.Store.Backend, err)
		return NewMemoryStore(), true
	}
	return kv, false
}

func open(ctx context.Context, cfg *config.Config) (KeyValueStore, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendMemory:
		return NewMemoryStore(), nil
	case config.StoreBackendFile:
		return NewFileStore(cfg.Store.FilePath)
	case config.StoreBackendSQLite:
		return NewSQLiteStore(cfg.Store.SQLitePath)
	case config.StoreBackendPostgres:
		db, err := database.NewDB(cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("failed to create database connection: %w", err)
		}
		s, err := NewPostgresStore(ctx, db)
		if err != nil {
			db.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
