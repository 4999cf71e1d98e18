package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/uma-arai/sbcntr-restaurant/internal/common/database"
)

// StoreBackend はデータの保存先の種類です
type StoreBackend string

const (
	StoreBackendFile     StoreBackend = "file"
	StoreBackendPostgres StoreBackend = "postgres"
	StoreBackendSQLite   StoreBackend = "sqlite"
	StoreBackendMemory   StoreBackend = "memory"
)

const (
	defaultRefreshInterval = 5 * time.Minute
	defaultEnvFile         = ".env"
)

type Config struct {
	Store struct {
		Backend    StoreBackend
		FilePath   string
		SQLitePath string
	}
	DB        database.Config
	Dashboard struct {
		RefreshInterval time.Duration
	}
	Export struct {
		Dir string
	}
	SFN struct {
		TaskToken string
	}
	Local         bool
	EnableTracing bool
}

// LoadConfig は設定を読み込みます
// .envファイルがあれば先に読み込み、既に設定済みの環境変数は上書きしません
func LoadConfig(taskToken string) (*Config, error) {
	if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", defaultEnvFile, err)
	}

	cfg := &Config{
		DB: database.Config{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvAsIntOrDefault("DB_PORT", 5432),
			UserName: getEnvOrDefault("DB_USERNAME", "sbcntrapp"),
			Password: getEnvOrDefault("DB_PASSWORD", "password"),
			DBName:   getEnvOrDefault("DB_NAME", "sbcntrapp"),
		},
		Local: os.Getenv("ENV") == "LOCAL",
	}

	cfg.Store.Backend = StoreBackend(strings.ToLower(getEnvOrDefault("STORE_BACKEND", string(StoreBackendFile))))
	cfg.Store.FilePath = getEnvOrDefault("STORE_PATH", "restaurant-data.json")
	cfg.Store.SQLitePath = getEnvOrDefault("SQLITE_PATH", "restaurant.db")
	cfg.Dashboard.RefreshInterval = getEnvAsDurationOrDefault("DASHBOARD_REFRESH_INTERVAL", defaultRefreshInterval)
	cfg.Export.Dir = getEnvOrDefault("EXPORT_DIR", ".")
	cfg.SFN.TaskToken = taskToken

	switch cfg.Store.Backend {
	case StoreBackendFile, StoreBackendPostgres, StoreBackendSQLite, StoreBackendMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.Store.Backend)
	}

	if cfg.Dashboard.RefreshInterval <= 0 {
		return nil, fmt.Errorf("DASHBOARD_REFRESH_INTERVAL must be positive, got %v", cfg.Dashboard.RefreshInterval)
	}

	// 環境変数[SBCNTR_ENABLE_TRACING]を見てトレースを有効にする。対応しているTracingはAWS_XRAYのみ。
	// 環境変数[AWS_XRAY_SDK_DISABLED]がtrueの場合は必ずトレースを無効にする。
	enableKey := os.Getenv("SBCNTR_ENABLE_TRACING")
	if !sdkDisabled() && (strings.ToLower(enableKey) == "true" || enableKey == "1") {
		os.Setenv("AWS_XRAY_SDK_DISABLED", "FALSE")
		cfg.EnableTracing = true
	} else {
		os.Setenv("AWS_XRAY_SDK_DISABLED", "TRUE")
		cfg.EnableTracing = false
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Printf("Environment variable %s is not set, using default value", key)
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Printf("Environment variable %s is not an integer, using default value", key)
	}
	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Environment variable %s is not a duration, using default value", key)
	}
	return defaultValue
}

// Check if SDK is disabled
func sdkDisabled() bool {
	disableKey := os.Getenv("AWS_XRAY_SDK_DISABLED")
	return strings.ToLower(disableKey) == "true"
}
