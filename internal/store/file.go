package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/uma-arai/sbcntr-restaurant/internal/common/utils"
)

var _ KeyValueStore = (*FileStore)(nil)

var errCorrupt = errors.New("malformed store document")

// FileStore は全てのキーを1つのJSONドキュメントとしてディスクに保存します
// 書き込みは一時ファイルへの書き出しとリネームで行うため、途中で中断されても前回の内容が残ります
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore は新しいFileStoreを作成します
// ファイルが存在しない場合は最初の書き込みで作成されます
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty file path", ErrUnavailable)
	}
	dir := filepath.Dir(path)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: directory %s is not accessible", ErrUnavailable, dir)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Get(ctx context.Context, key string) (_ json.RawMessage, _ bool, err error) {
	_, end := utils.StartSubsegment(ctx, "FileStore.Get")
	defer func() { end(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if errors.Is(err, errCorrupt) {
		log.Printf("Store document %s is malformed, treating %s as empty: %v", s.path, key, err)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	v, ok := doc[key]
	return v, ok, nil
}

func (s *FileStore) Set(ctx context.Context, key string, value json.RawMessage) (err error) {
	_, end := utils.StartSubsegment(ctx, "FileStore.Set")
	defer func() { end(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if errors.Is(err, errCorrupt) {
		// 壊れたドキュメントは読み出し側で空として扱われているので上書きする
		doc, err = make(map[string]json.RawMessage), nil
	}
	if err != nil {
		return err
	}
	doc[key] = value

	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal store document: %w", err)
	}
	return s.write(b)
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) read() (map[string]json.RawMessage, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]json.RawMessage), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(b) == 0 {
		return make(map[string]json.RawMessage), nil
	}

	doc := make(map[string]json.RawMessage)
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", errCorrupt, err)
	}
	return doc, nil
}

func (s *FileStore) write(b []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
