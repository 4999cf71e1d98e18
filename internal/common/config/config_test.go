package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp は.envを含まない一時ディレクトリをカレントにします
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdirTemp(t)
	for _, key := range []string{"STORE_BACKEND", "STORE_PATH", "DASHBOARD_REFRESH_INTERVAL", "EXPORT_DIR", "ENV", "SBCNTR_ENABLE_TRACING"} {
		t.Setenv(key, "")
	}
	t.Setenv("AWS_XRAY_SDK_DISABLED", "")

	cfg, err := LoadConfig("token")
	require.NoError(t, err)

	assert.Equal(t, StoreBackendFile, cfg.Store.Backend)
	assert.Equal(t, "restaurant-data.json", cfg.Store.FilePath)
	assert.Equal(t, 5*time.Minute, cfg.Dashboard.RefreshInterval)
	assert.Equal(t, ".", cfg.Export.Dir)
	assert.Equal(t, "token", cfg.SFN.TaskToken)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.False(t, cfg.Local)
	assert.False(t, cfg.EnableTracing)
	assert.Equal(t, "TRUE", os.Getenv("AWS_XRAY_SDK_DISABLED"))
}

func TestLoadConfig_FromEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("DB_PORT", "15432")
	t.Setenv("DASHBOARD_REFRESH_INTERVAL", "30s")
	t.Setenv("ENV", "LOCAL")
	t.Setenv("SBCNTR_ENABLE_TRACING", "1")
	t.Setenv("AWS_XRAY_SDK_DISABLED", "")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, StoreBackendPostgres, cfg.Store.Backend)
	assert.Equal(t, 15432, cfg.DB.Port)
	assert.Equal(t, 30*time.Second, cfg.Dashboard.RefreshInterval)
	assert.True(t, cfg.Local)
	assert.True(t, cfg.EnableTracing)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := chdirTemp(t)
	// 既に設定済みの変数はgodotenvが上書きしないため未設定にしておく
	for _, key := range []string{"STORE_BACKEND", "EXPORT_DIR"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STORE_BACKEND=memory\nEXPORT_DIR=exports\n"), 0o600))

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, StoreBackendMemory, cfg.Store.Backend)
	assert.Equal(t, "exports", cfg.Export.Dir)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "未知のバックエンド",
			env:  map[string]string{"STORE_BACKEND": "redis"},
		},
		{
			name: "リフレッシュ間隔が0以下",
			env:  map[string]string{"STORE_BACKEND": "file", "DASHBOARD_REFRESH_INTERVAL": "-1s"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig("")
			assert.Error(t, err)
		})
	}
}
