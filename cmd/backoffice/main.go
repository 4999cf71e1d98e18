package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/uma-arai/sbcntr-restaurant/internal/common/config"
	"github.com/uma-arai/sbcntr-restaurant/internal/model"
	"github.com/uma-arai/sbcntr-restaurant/internal/repository"
	"github.com/uma-arai/sbcntr-restaurant/internal/service/batch"
	"github.com/uma-arai/sbcntr-restaurant/internal/service/dashboard"
	"github.com/uma-arai/sbcntr-restaurant/internal/store"
	"github.com/uma-arai/sbcntr-restaurant/internal/ui/feature"
	"github.com/uma-arai/sbcntr-restaurant/internal/ui/modal"
	"github.com/uma-arai/sbcntr-restaurant/internal/ui/render"
)

const usage = `usage: backoffice [-dashboard] <command> [args]

commands:
  menu list|add|edit|toggle|delete
  order list|create|complete|cancel
  reservation list|add|edit|confirm|cancel
  dashboard [-watch]
  export
`

// app は起動時に一度だけ作成するリポジトリとコントローラの集まりです
type app struct {
	cfg          *config.Config
	kv           store.KeyValueStore
	modals       *modal.Controller
	view         *render.Text
	dash         *dashboard.Controller
	menu         *feature.MenuController
	orders       *feature.OrderController
	reservations *feature.ReservationController
	exporter     *batch.ExportBatchService
	showDash     bool
	assumeYes    bool
	degraded     bool
}

func main() {
	showDash := flag.Bool("dashboard", false, "変更後にダッシュボードを表示する")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := newApp(ctx, cfg, *showDash)
	defer a.kv.Close()

	if err := a.run(ctx, flag.Args()); err != nil {
		var invalid formError
		if errors.As(err, &invalid) {
			for _, line := range invalid.lines() {
				fmt.Fprintln(os.Stderr, line)
			}
			os.Exit(1)
		}
		log.Fatalf("%v", err)
	}
}

func newApp(ctx context.Context, cfg *config.Config, showDash bool) *app {
	kv, degraded := store.Open(ctx, cfg)
	if degraded {
		log.Printf("Changes in this session will not be saved")
	}

	ids := model.NewIDGenerator(nil)
	menuRepo := repository.NewMenuRepository(ctx, kv, ids)
	orderRepo := repository.NewOrderRepository(ctx, kv, ids)
	reservationRepo := repository.NewReservationRepository(ctx, kv, ids)

	a := &app{
		cfg:      cfg,
		kv:       kv,
		modals:   modal.NewController(),
		view:     render.NewText(os.Stdout, time.Local),
		showDash: showDash,
		degraded: degraded,
	}
	a.dash = dashboard.NewController(dashboard.Sources{
		MenuItems:    menuRepo,
		Orders:       orderRepo,
		Reservations: reservationRepo,
	}, a.view, cfg.Dashboard.RefreshInterval)

	dialog := modal.DialogConfirm(a.modals, "confirm-dialog", promptYesNo)
	confirm := func(message string) bool {
		return a.assumeYes || dialog(message)
	}
	a.menu = feature.NewMenuController(menuRepo, a.modals, a.view, confirm, a.changed)
	a.orders = feature.NewOrderController(orderRepo, menuRepo, a.modals, a.view, a.changed)
	a.reservations = feature.NewReservationController(reservationRepo, a.modals, a.view, time.Local, a.changed)
	a.exporter = batch.NewExportService(batch.Sources{
		MenuItems:    menuRepo,
		Orders:       orderRepo,
		Reservations: reservationRepo,
	}, cfg, nil)
	return a
}

// changed は各画面の変更通知を受けてダッシュボードを更新します
func (a *app) changed(ctx context.Context) {
	if a.showDash {
		a.dash.Refresh(ctx)
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "menu":
		return a.runMenu(ctx, rest)
	case "order", "orders":
		return a.runOrder(ctx, rest)
	case "reservation", "reservations":
		return a.runReservation(ctx, rest)
	case "dashboard":
		return a.runDashboard(ctx, rest)
	case "export":
		// 保存先を開けていない場合は空のデータで書き出さない
		if a.degraded {
			return fmt.Errorf("%w: %s store could not be opened", batch.ErrSourceUnavailable, a.cfg.Store.Backend)
		}
		summary, err := a.exporter.Export(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Exported %d reservations, %d orders, %d menu items to %s\n",
			summary.Reservations, summary.Orders, summary.MenuItems, summary.File)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

func (a *app) runDashboard(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	watch := fs.Bool("watch", false, "定期的に更新し続ける (SIGUSR1で表示/非表示を切り替え)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*watch {
		a.dash.Refresh(ctx)
		return nil
	}

	toggle := make(chan os.Signal, 1)
	signal.Notify(toggle, syscall.SIGUSR1)
	defer signal.Stop(toggle)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-toggle:
				visible := !a.dash.Visible()
				log.Printf("Dashboard visible: %v", visible)
				a.dash.SetVisible(visible)
			}
		}
	}()

	a.dash.Run(ctx)
	return nil
}

// formError はフォームの検証エラーを利用者向けに表示するためのエラーです
type formError struct {
	errs map[string]string
}

func (e formError) Error() string { return modal.ErrInvalidForm.Error() }

func (e formError) Unwrap() error { return modal.ErrInvalidForm }

func (e formError) lines() []string {
	names := make([]string, 0, len(e.errs))
	for name := range e.errs {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = fmt.Sprintf("%s: %s", name, e.errs[name])
	}
	return lines
}

// submitForm はフラグで指定された値をフォームに入力して送信します
func submitForm(ctx context.Context, form *modal.Form, values map[string]string, submit func(context.Context) error) error {
	for name, v := range values {
		if err := form.Input(name, v); err != nil {
			return err
		}
	}
	if err := submit(ctx); err != nil {
		if errors.Is(err, modal.ErrInvalidForm) {
			return formError{errs: form.Errors()}
		}
		return err
	}
	return nil
}

// setFlags は明示的に指定されたフラグの値だけを返します
func setFlags(fs *flag.FlagSet, names ...string) map[string]string {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	values := make(map[string]string)
	fs.Visit(func(f *flag.Flag) {
		if wanted[f.Name] {
			values[f.Name] = f.Value.String()
		}
	})
	return values
}

// promptYesNo は標準入力で確認を求めます
func promptYesNo(title, content string) bool {
	fmt.Printf("%s: %s [y/N]: ", title, content)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
