package dashboard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uma-arai/sbcntr-restaurant/internal/model"
)

// recordingRenderer は描画された集計結果を記録します
type recordingRenderer struct {
	mu       sync.Mutex
	rendered []Stats
	notify   chan struct{}
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{notify: make(chan struct{}, 16)}
}

func (r *recordingRenderer) RenderDashboard(stats Stats) {
	r.mu.Lock()
	r.rendered = append(r.rendered, stats)
	r.mu.Unlock()
	r.notify <- struct{}{}
}

func (r *recordingRenderer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rendered)
}

func (r *recordingRenderer) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.notify:
	case <-time.After(2 * time.Second):
		t.Fatal("dashboard was not rendered")
	}
}

type orderList []model.Order

func (l orderList) List() []model.Order { return l }

// manualTicker はテストから手動で発火させるタイマーです
type manualTicker struct {
	mu      sync.Mutex
	c       chan time.Time
	started int
	stopped int
}

func (m *manualTicker) new(time.Duration) (<-chan time.Time, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started++
	m.c = make(chan time.Time)
	c := m.c
	return c, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.stopped++
		if m.c == c {
			m.c = nil
		}
	}
}

func (m *manualTicker) fire(t *testing.T) {
	t.Helper()
	var c chan time.Time
	require.Eventually(t, func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		c = m.c
		return c != nil
	}, 2*time.Second, time.Millisecond, "ticker was not started")
	select {
	case c <- time.Now():
	case <-time.After(2 * time.Second):
		t.Fatal("ticker was not being watched")
	}
}

func (m *manualTicker) counts() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started, m.stopped
}

func TestController_Refresh(t *testing.T) {
	now := time.Date(2025, 4, 2, 12, 0, 0, 0, time.UTC)
	renderer := newRecordingRenderer()
	c := NewController(Sources{
		Orders: orderList{{Status: model.OrderStatusPending, Timestamp: now, Total: decimal.NewFromInt(9)}},
	}, renderer, 0)
	c.now = func() time.Time { return now }

	assert.Equal(t, DefaultRefreshInterval, c.interval)

	c.Refresh(context.Background())
	require.Equal(t, 1, renderer.count())
	assert.Equal(t, 1, renderer.rendered[0].PendingOrders)
	assert.Equal(t, "9", renderer.rendered[0].TodayRevenue.String())
	assert.Equal(t, 0, renderer.rendered[0].AvailableMenuItems)
}

func TestController_RunVisibility(t *testing.T) {
	renderer := newRecordingRenderer()
	ticker := &manualTicker{}
	c := NewController(Sources{}, renderer, time.Minute)
	c.newTicker = ticker.new

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	// 起動直後に1回
	renderer.wait(t)

	// タイマーごとに1回
	ticker.fire(t)
	renderer.wait(t)
	assert.Equal(t, 2, renderer.count())

	// 非表示になるとタイマーを止める
	c.SetVisible(false)
	require.Eventually(t, func() bool {
		_, stopped := ticker.counts()
		return stopped == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, renderer.count())

	// 再表示で即座に更新し、タイマーを再開する
	c.SetVisible(true)
	renderer.wait(t)
	require.Eventually(t, func() bool {
		started, _ := ticker.counts()
		return started == 2
	}, 2*time.Second, 5*time.Millisecond)
	ticker.fire(t)
	renderer.wait(t)
	assert.Equal(t, 4, renderer.count())

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	_, stopped := ticker.counts()
	assert.Equal(t, 2, stopped)
}

func TestController_SetVisibleSameStateIsIgnored(t *testing.T) {
	renderer := newRecordingRenderer()
	ticker := &manualTicker{}
	c := NewController(Sources{}, renderer, time.Minute)
	c.newTicker = ticker.new

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)
	renderer.wait(t)

	c.SetVisible(true)
	ticker.fire(t)
	renderer.wait(t)

	started, stopped := ticker.counts()
	assert.Equal(t, 1, started)
	assert.Equal(t, 0, stopped)
	assert.Equal(t, 2, renderer.count())
}
