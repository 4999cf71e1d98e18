package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/uma-arai/sbcntr-restaurant/internal/common/config"
	"github.com/uma-arai/sbcntr-restaurant/internal/common/utils"
	"github.com/uma-arai/sbcntr-restaurant/internal/model"
	"github.com/uma-arai/sbcntr-restaurant/internal/repository"
	"github.com/uma-arai/sbcntr-restaurant/internal/store"
)

const (
	// exportDateLayout はエクスポート日時の書式です (ミリ秒つきのUTC)
	exportDateLayout = "2006-01-02T15:04:05.000Z"
	// maxCauseLength はSendTaskFailureのCauseの上限です
	maxCauseLength = 32768
)

// ErrSourceUnavailable は永続ストアから読み込めずメモリ上のデータしか無い場合のエラーです
var ErrSourceUnavailable = errors.New("data source is unavailable")

// SFNClient はStep Functionsへタスク結果を通知するクライアントです
type SFNClient interface {
	SendTaskSuccess(ctx context.Context, params *sfn.SendTaskSuccessInput, optFns ...func(*sfn.Options)) (*sfn.SendTaskSuccessOutput, error)
	SendTaskFailure(ctx context.Context, params *sfn.SendTaskFailureInput, optFns ...func(*sfn.Options)) (*sfn.SendTaskFailureOutput, error)
}

// Document はエクスポートファイルの内容です
type Document struct {
	Reservations []model.Reservation `json:"reservations"`
	Orders       []model.Order       `json:"orders"`
	MenuItems    []model.MenuItem    `json:"menuItems"`
	ExportDate   string              `json:"exportDate"`
}

// Summary はStep Functionsへ返すエクスポート結果です
type Summary struct {
	File         string `json:"file"`
	ExportDate   string `json:"exportDate"`
	Reservations int    `json:"reservations"`
	Orders       int    `json:"orders"`
	MenuItems    int    `json:"menuItems"`
}

// Sources はエクスポート対象のリポジトリです
type Sources struct {
	MenuItems    *repository.MenuRepository
	Orders       *repository.OrderRepository
	Reservations *repository.ReservationRepository
}

// ExportBatchService は全データのエクスポートを担当します
type ExportBatchService struct {
	src       Sources
	kv        store.KeyValueStore
	dir       string
	sfnClient SFNClient
	cfg       *config.Config
	now       func() time.Time
}

// NewExportBatchService は設定されたストアを開いて ExportBatchService を作成します
// ストアを開けない場合や読み込みに失敗した場合は空のデータを書き出さないようエラーを返します
func NewExportBatchService(ctx context.Context, cfg *config.Config, sfnClient SFNClient) (*ExportBatchService, error) {
	kv, degraded := store.Open(ctx, cfg)
	if degraded {
		kv.Close()
		return nil, fmt.Errorf("%w: failed to open %s store", ErrSourceUnavailable, cfg.Store.Backend)
	}
	ids := model.NewIDGenerator(nil)

	s := NewExportService(Sources{
		MenuItems:    repository.NewMenuRepository(ctx, kv, ids),
		Orders:       repository.NewOrderRepository(ctx, kv, ids),
		Reservations: repository.NewReservationRepository(ctx, kv, ids),
	}, cfg, sfnClient)
	s.kv = kv

	if err := s.checkSources(); err != nil {
		kv.Close()
		return nil, err
	}
	return s, nil
}

// NewExportService は既存のリポジトリから ExportBatchService を作成します
func NewExportService(src Sources, cfg *config.Config, sfnClient SFNClient) *ExportBatchService {
	return &ExportBatchService{
		src:       src,
		dir:       cfg.Export.Dir,
		sfnClient: sfnClient,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Close は終了処理を行います
func (s *ExportBatchService) Close() error {
	if s.kv != nil {
		return s.kv.Close()
	}
	return nil
}

// checkSources はメモリ上だけで動作しているリポジトリがあればエラーを返します
func (s *ExportBatchService) checkSources() error {
	var keys []string
	if s.src.MenuItems != nil && s.src.MenuItems.Degraded() {
		keys = append(keys, s.src.MenuItems.Key())
	}
	if s.src.Orders != nil && s.src.Orders.Degraded() {
		keys = append(keys, s.src.Orders.Key())
	}
	if s.src.Reservations != nil && s.src.Reservations.Degraded() {
		keys = append(keys, s.src.Reservations.Key())
	}
	if len(keys) > 0 {
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, keys)
	}
	return nil
}

// Build はエクスポートする内容を作成します
func (s *ExportBatchService) Build(now time.Time) Document {
	doc := Document{
		Reservations: []model.Reservation{},
		Orders:       []model.Order{},
		MenuItems:    []model.MenuItem{},
		ExportDate:   now.UTC().Format(exportDateLayout),
	}
	if s.src.Reservations != nil {
		doc.Reservations = s.src.Reservations.List()
	}
	if s.src.Orders != nil {
		doc.Orders = s.src.Orders.List()
	}
	if s.src.MenuItems != nil {
		doc.MenuItems = s.src.MenuItems.List()
	}
	return doc
}

// FileName はエクスポートファイル名を返します (日付はUTC)
func FileName(now time.Time) string {
	return fmt.Sprintf("restaurant-data-%s.json", now.UTC().Format("2006-01-02"))
}

// Export はエクスポートファイルを書き出し、その結果を返します
func (s *ExportBatchService) Export(ctx context.Context) (Summary, error) {
	_, end := utils.StartSubsegment(ctx, "ExportBatchService.Export")
	var err error
	defer func() { end(err) }()

	if err = s.checkSources(); err != nil {
		return Summary{}, err
	}

	now := s.now()
	doc := s.Build(now)

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return Summary{}, fmt.Errorf("failed to marshal export document: %w", err)
	}

	path := filepath.Join(s.dir, FileName(now))
	if err = os.WriteFile(path, b, 0o644); err != nil {
		return Summary{}, fmt.Errorf("failed to write %s: %w", path, err)
	}

	return Summary{
		File:         path,
		ExportDate:   doc.ExportDate,
		Reservations: len(doc.Reservations),
		Orders:       len(doc.Orders),
		MenuItems:    len(doc.MenuItems),
	}, nil
}

// Run はエクスポートを実行してStep Functionsへ結果を通知します
func (s *ExportBatchService) Run(ctx context.Context) error {
	ctx, end := utils.StartSubsegment(ctx, "ExportBatchService.Run")
	var err error
	defer func() { end(err) }()

	startTime := time.Now()

	summary, err := s.Export(ctx)
	if err != nil {
		return utils.GetStackWithError(fmt.Errorf("failed to export restaurant data: %w", err))
	}

	if err = s.sendTaskSuccess(ctx, summary); err != nil {
		return utils.GetStackWithError(fmt.Errorf("failed to send task success: %w", err))
	}

	duration := time.Since(startTime)
	utils.AddMetadata(ctx, "duration", duration.String())

	log.Printf("Export batch process completed successfully. File: %s Duration: %v", summary.File, duration)
	return nil
}

func (s *ExportBatchService) skipStepFunctions() bool {
	return s.cfg.Local || s.sfnClient == nil
}

// sendTaskSuccess は、Step Functionsのタスク成功を通知します
func (s *ExportBatchService) sendTaskSuccess(ctx context.Context, summary Summary) error {
	// ローカルの場合はStep Functionsの処理をスキップ
	if s.skipStepFunctions() {
		log.Printf("Local environment detected. Skipping Step Functions task success notification")
		return nil
	}

	output, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	taskToken := s.cfg.SFN.TaskToken
	if taskToken == "" {
		return fmt.Errorf("SFN_TASK_TOKEN is not set in config")
	}

	input := &sfn.SendTaskSuccessInput{
		TaskToken: aws.String(taskToken),
		Output:    aws.String(string(output)),
	}
	if _, err := s.sfnClient.SendTaskSuccess(ctx, input); err != nil {
		return fmt.Errorf("failed to send task success: %w", err)
	}

	log.Printf("Successfully sent task success with summary: %s", string(output))
	return nil
}

// SendTaskFailure は、Step Functionsのタスク失敗を通知します
func (s *ExportBatchService) SendTaskFailure(ctx context.Context, cause error) error {
	return SendTaskFailure(ctx, s.cfg, s.sfnClient, cause)
}

// SendTaskFailure はサービスを作成できなかった場合にもタスク失敗を通知します
func SendTaskFailure(ctx context.Context, cfg *config.Config, sfnClient SFNClient, cause error) error {
	if cfg.Local || sfnClient == nil {
		return nil
	}

	msg := cause.Error()
	if len(msg) > maxCauseLength {
		msg = msg[:maxCauseLength]
	}

	input := &sfn.SendTaskFailureInput{
		TaskToken: aws.String(cfg.SFN.TaskToken),
		Error:     aws.String("Batch process failed"),
		Cause:     aws.String(msg),
	}
	if _, err := sfnClient.SendTaskFailure(ctx, input); err != nil {
		return fmt.Errorf("failed to send task failure: %w", err)
	}
	return nil
}
