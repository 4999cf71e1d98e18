package model

import (
	"sync"
	"time"
)

// IDGenerator は作成時刻のミリ秒値からIDを採番します
// 同一ミリ秒内に複数回呼ばれた場合でも前回値+1を返すため、プロセス内では単調増加します
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewIDGenerator は新しいIDGeneratorを作成します
func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Observe は既存のIDを記録し、以後の採番がそれを下回らないようにします
func (g *IDGenerator) Observe(id int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id > g.last {
		g.last = id
	}
}

// Next は次のIDを返します
func (g *IDGenerator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
