package dashboard

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/uma-arai/sbcntr-restaurant/internal/common/utils"
	"github.com/uma-arai/sbcntr-restaurant/internal/model"
)

// DefaultRefreshInterval はダッシュボードの自動更新間隔です
const DefaultRefreshInterval = 5 * time.Minute

// Renderer は集計結果を表示します
type Renderer interface {
	RenderDashboard(stats Stats)
}

// Sources はダッシュボードが参照するコレクションです
type Sources struct {
	MenuItems    interface{ List() []model.MenuItem }
	Orders       interface{ List() []model.Order }
	Reservations interface{ List() []model.Reservation }
}

// Controller はダッシュボードの更新を管理します
// 表示中は一定間隔で更新し、非表示の間はタイマーを止めます
type Controller struct {
	src      Sources
	renderer Renderer
	interval time.Duration
	now      func() time.Time
	// newTicker はテストから差し替えられます
	newTicker func(d time.Duration) (<-chan time.Time, func())

	mu      sync.Mutex
	visible bool
	changed chan struct{}

	renderMu sync.Mutex
}

// NewController は新しいControllerを作成します
func NewController(src Sources, renderer Renderer, interval time.Duration) *Controller {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Controller{
		src:       src,
		renderer:  renderer,
		interval:  interval,
		now:       time.Now,
		newTicker: realTicker,
		visible:   true,
		changed:   make(chan struct{}, 1),
	}
}

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Refresh は最新のスナップショットから集計して表示します
func (c *Controller) Refresh(ctx context.Context) {
	c.renderMu.Lock()
	defer c.renderMu.Unlock()

	ctx, end := utils.StartSubsegment(ctx, "Dashboard.Refresh")
	defer end(nil)

	snapshot := Snapshot{}
	if c.src.MenuItems != nil {
		snapshot.MenuItems = c.src.MenuItems.List()
	}
	if c.src.Orders != nil {
		snapshot.Orders = c.src.Orders.List()
	}
	if c.src.Reservations != nil {
		snapshot.Reservations = c.src.Reservations.List()
	}

	stats := Compute(snapshot, c.now())
	utils.AddMetadata(ctx, "pendingOrders", stats.PendingOrders)

	if c.renderer != nil {
		c.renderer.RenderDashboard(stats)
	}
}

// Visible は表示中かどうかを返します
func (c *Controller) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

// SetVisible は表示状態を切り替えます
// 非表示にするとタイマーを止め、再表示すると即座に更新してからタイマーを再開します
func (c *Controller) SetVisible(visible bool) {
	c.mu.Lock()
	c.visible = visible
	c.mu.Unlock()

	select {
	case c.changed <- struct{}{}:
	default:
	}
}

// Run は即座に1回更新し、以後 ctx がキャンセルされるまで定期的に更新します
func (c *Controller) Run(ctx context.Context) {
	visible := c.Visible()

	var tick <-chan time.Time
	stop := func() {}
	start := func() {
		tick, stop = c.newTicker(c.interval)
	}
	defer func() { stop() }()

	if visible {
		c.Refresh(ctx)
		start()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			c.Refresh(ctx)
		case <-c.changed:
			next := c.Visible()
			if next == visible {
				continue
			}
			visible = next
			if visible {
				log.Printf("Dashboard visible again, refreshing")
				c.Refresh(ctx)
				start()
			} else {
				stop()
				tick, stop = nil, func() {}
			}
		}
	}
}
