package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uma-arai/sbcntr-restaurant/internal/common/config"
	"github.com/uma-arai/sbcntr-restaurant/internal/service/batch"
)

func TestApp_Export(t *testing.T) {
	tests := []struct {
		name      string
		storePath func(dir string) string
		wantErr   error
	}{
		{
			name:      "保存先を開ければ書き出す",
			storePath: func(dir string) string { return filepath.Join(dir, "restaurant-data.json") },
		},
		{
			name:      "保存先を開けなければ書き出さない",
			storePath: func(dir string) string { return filepath.Join(dir, "missing", "restaurant-data.json") },
			wantErr:   batch.ErrSourceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			dir := t.TempDir()
			cfg := &config.Config{Local: true}
			cfg.Store.Backend = config.StoreBackendFile
			cfg.Store.FilePath = tt.storePath(dir)
			cfg.Export.Dir = dir

			a := newApp(ctx, cfg, false)
			defer a.kv.Close()

			err := a.run(ctx, []string{"export"})
			matches, globErr := filepath.Glob(filepath.Join(dir, "restaurant-data-*.json"))
			require.NoError(t, globErr)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, matches)
				return
			}
			require.NoError(t, err)
			require.Len(t, matches, 1)
			_, statErr := os.Stat(matches[0])
			assert.NoError(t, statErr)
		})
	}
}
