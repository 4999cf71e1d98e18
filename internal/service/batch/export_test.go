package batch

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uma-arai/sbcntr-restaurant/internal/common/config"
	"github.com/uma-arai/sbcntr-restaurant/internal/model"
	"github.com/uma-arai/sbcntr-restaurant/internal/repository"
	"github.com/uma-arai/sbcntr-restaurant/internal/store"
)

// MockSFNClient はテスト用のStep Functionsクライアントです
type MockSFNClient struct {
	successInput *sfn.SendTaskSuccessInput
	failureInput *sfn.SendTaskFailureInput
	successError error
}

func (m *MockSFNClient) SendTaskSuccess(ctx context.Context, params *sfn.SendTaskSuccessInput, optFns ...func(*sfn.Options)) (*sfn.SendTaskSuccessOutput, error) {
	m.successInput = params
	return &sfn.SendTaskSuccessOutput{}, m.successError
}

func (m *MockSFNClient) SendTaskFailure(ctx context.Context, params *sfn.SendTaskFailureInput, optFns ...func(*sfn.Options)) (*sfn.SendTaskFailureOutput, error) {
	m.failureInput = params
	return &sfn.SendTaskFailureOutput{}, nil
}

// newTestExportService はデータ入りのリポジトリからテスト用のサービスを作成します
func newTestExportService(t *testing.T, cfg *config.Config, client SFNClient) *ExportBatchService {
	t.Helper()
	ctx := context.Background()
	kv := store.NewMemoryStore()
	ids := model.NewIDGenerator(nil)
	src := Sources{
		MenuItems:    repository.NewMenuRepository(ctx, kv, ids),
		Orders:       repository.NewOrderRepository(ctx, kv, ids),
		Reservations: repository.NewReservationRepository(ctx, kv, ids),
	}
	src.MenuItems.Create(ctx, model.NewMenuItem("Cola", decimal.NewFromInt(2), model.MenuCategoryDrinks, ""))
	src.Orders.Create(ctx, model.NewOrder([]model.OrderItem{{Name: "Cola", Price: decimal.NewFromInt(2), Quantity: 3}}, 1, time.Now()))

	svc := NewExportService(src, cfg, client)
	// 2025-04-01 23:30 JST は UTC では 14:30
	svc.now = func() time.Time {
		return time.Date(2025, 4, 1, 23, 30, 0, 0, time.FixedZone("JST", 9*60*60))
	}
	return svc
}

func testConfig(dir string, local bool) *config.Config {
	cfg := &config.Config{Local: local}
	cfg.Export.Dir = dir
	cfg.SFN.TaskToken = "token-123"
	return cfg
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{name: "UTC", now: time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC), want: "restaurant-data-2025-04-01.json"},
		{name: "UTCでは前日", now: time.Date(2025, 4, 2, 8, 0, 0, 0, time.FixedZone("JST", 9*60*60)), want: "restaurant-data-2025-04-01.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName(tt.now))
		})
	}
}

func TestExportBatchService_Export(t *testing.T) {
	dir := t.TempDir()
	svc := newTestExportService(t, testConfig(dir, true), nil)

	summary, err := svc.Export(context.Background())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "restaurant-data-2025-04-01.json"), summary.File)
	assert.Equal(t, "2025-04-01T14:30:00.000Z", summary.ExportDate)
	assert.Equal(t, 1, summary.MenuItems)
	assert.Equal(t, 1, summary.Orders)
	assert.Equal(t, 0, summary.Reservations)

	b, err := os.ReadFile(summary.File)
	require.NoError(t, err)
	assert.Contains(t, string(b), "\n  \"reservations\": []", "2スペースでインデントされ、空の配列も出力する")

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Contains(t, doc, "menuItems")
	assert.Contains(t, doc, "orders")
	assert.JSONEq(t, `"2025-04-01T14:30:00.000Z"`, string(doc["exportDate"]))

	var orders []model.Order
	require.NoError(t, json.Unmarshal(doc["orders"], &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "6", orders[0].Total.String())
}

func TestExportBatchService_ExportToMissingDir(t *testing.T) {
	svc := newTestExportService(t, testConfig(filepath.Join(t.TempDir(), "missing"), true), nil)
	_, err := svc.Export(context.Background())
	assert.Error(t, err)
}

func TestExportBatchService_Run(t *testing.T) {
	// X-Rayのセグメントを設定
	ctx, seg := xray.BeginSegment(context.Background(), "TestExportBatchService_Run")
	defer seg.Close(nil)

	tests := []struct {
		name        string
		local       bool
		sfnError    error
		wantErr     bool
		wantSuccess bool
	}{
		{name: "ローカルではStep Functionsを呼ばない", local: true, wantSuccess: false},
		{name: "タスク成功を通知", local: false, wantSuccess: true},
		{name: "通知の失敗はエラー", local: false, sfnError: errors.New("throttled"), wantErr: true, wantSuccess: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &MockSFNClient{successError: tt.sfnError}
			svc := newTestExportService(t, testConfig(t.TempDir(), tt.local), client)

			err := svc.Run(ctx)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			if !tt.wantSuccess {
				assert.Nil(t, client.successInput)
				return
			}
			require.NotNil(t, client.successInput)
			assert.Equal(t, "token-123", aws.ToString(client.successInput.TaskToken))

			var summary Summary
			require.NoError(t, json.Unmarshal([]byte(aws.ToString(client.successInput.Output)), &summary))
			assert.Equal(t, 1, summary.Orders)
		})
	}
}

func TestExportBatchService_SendTaskFailure(t *testing.T) {
	client := &MockSFNClient{}
	svc := newTestExportService(t, testConfig(t.TempDir(), false), client)

	require.NoError(t, svc.SendTaskFailure(context.Background(), errors.New("disk full")))
	require.NotNil(t, client.failureInput)
	assert.Equal(t, "disk full", aws.ToString(client.failureInput.Cause))
	assert.Equal(t, "token-123", aws.ToString(client.failureInput.TaskToken))

	local := &MockSFNClient{}
	svc = newTestExportService(t, testConfig(t.TempDir(), true), local)
	require.NoError(t, svc.SendTaskFailure(context.Background(), errors.New("disk full")))
	assert.Nil(t, local.failureInput)
}

func TestNewExportBatchService(t *testing.T) {
	tests := []struct {
		name     string
		backend  config.StoreBackend
		filePath func(dir string) string
		wantErr  bool
	}{
		{name: "メモリストア", backend: config.StoreBackendMemory},
		{name: "ファイルストア", backend: config.StoreBackendFile, filePath: func(dir string) string { return filepath.Join(dir, "data.json") }},
		{name: "開けないファイルストア", backend: config.StoreBackendFile, filePath: func(dir string) string { return filepath.Join(dir, "missing", "data.json") }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			cfg := testConfig(dir, true)
			cfg.Store.Backend = tt.backend
			if tt.filePath != nil {
				cfg.Store.FilePath = tt.filePath(dir)
			}

			svc, err := NewExportBatchService(context.Background(), cfg, nil)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrSourceUnavailable)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, svc.Close())
		})
	}
}

func TestExportBatchService_RunWithUnreadableStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	kv := store.NewMemoryStore()
	require.NoError(t, kv.Set(ctx, store.KeyOrders, json.RawMessage(`[{"id":1,"items":[],"tableNumber":1,"status":"pending","timestamp":"2025-04-01T00:00:00.000Z","total":0}]`)))
	kv.FailWith(errors.New("connection refused"))

	ids := model.NewIDGenerator(nil)
	src := Sources{
		MenuItems:    repository.NewMenuRepository(ctx, kv, ids),
		Orders:       repository.NewOrderRepository(ctx, kv, ids),
		Reservations: repository.NewReservationRepository(ctx, kv, ids),
	}
	client := &MockSFNClient{}
	svc := NewExportService(src, testConfig(dir, false), client)

	err := svc.Run(ctx)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.Nil(t, client.successInput, "読み込めなかったデータで成功を通知しない")

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "空のエクスポートファイルを書き出さない")

	require.NoError(t, SendTaskFailure(ctx, testConfig(dir, false), client, err))
	require.NotNil(t, client.failureInput)
	assert.Contains(t, aws.ToString(client.failureInput.Cause), ErrSourceUnavailable.Error())
}
