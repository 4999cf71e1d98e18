package store

import (
	"context"
	"encoding/json"
	"sync"
)

// Compile-time contract assertion
var _ KeyValueStore = (*MemoryStore)(nil)

// MemoryStore はプロセス内だけで保持されるストアです
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]json.RawMessage
	writes map[string]int
	err    error
}

// NewMemoryStore は新しいMemoryStoreを作成します
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]json.RawMessage),
		writes: make(map[string]int),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (json.RawMessage, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return nil, false, s.err
	}
	v, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return clone(v), true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	s.values[key] = clone(value)
	s.writes[key]++
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// Writes はキーへの書き込み回数を返します
func (s *MemoryStore) Writes(key string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes[key]
}

// FailWith は以後のGet/Setを指定のエラーで失敗させます (nilで解除)
func (s *MemoryStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func clone(v json.RawMessage) json.RawMessage {
	if v == nil {
		return nil
	}
	out := make(json.RawMessage, len(v))
	copy(out, v)
	return out
}
