package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/uma-arai/sbcntr-restaurant/internal/ui/feature"
)

func subcommand(args []string) (string, []string, error) {
	if len(args) == 0 {
		return "", nil, fmt.Errorf("missing subcommand\n%s", usage)
	}
	return args[0], args[1:], nil
}

func (a *app) runMenu(ctx context.Context, args []string) error {
	sub, rest, err := subcommand(args)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("menu "+sub, flag.ExitOnError)
	id := fs.Int64("id", 0, "メニュー項目のID")
	fs.String("name", "", "名前")
	fs.String("price", "", "価格")
	fs.String("category", "", "カテゴリ (appetizers, mains, desserts, drinks)")
	fs.String("description", "", "説明")
	yes := fs.Bool("yes", false, "確認せずに削除する")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	values := setFlags(fs, "name", "price", "category", "description")

	switch sub {
	case "list":
		a.menu.Render()
		return nil
	case "add":
		if err := a.menu.OpenCreate(); err != nil {
			return err
		}
		return submitForm(ctx, a.menu.Form(), values, a.menu.Submit)
	case "edit":
		if err := a.menu.Handle(ctx, feature.ActionEdit, *id); err != nil {
			return err
		}
		if !a.modals.IsOpen(feature.MenuModalID) {
			return fmt.Errorf("menu item %d not found", *id)
		}
		return submitForm(ctx, a.menu.Form(), values, a.menu.Submit)
	case "toggle":
		return a.menu.Handle(ctx, feature.ActionToggle, *id)
	case "delete":
		a.assumeYes = *yes
		return a.menu.Handle(ctx, feature.ActionDelete, *id)
	default:
		return fmt.Errorf("unknown menu command %q", sub)
	}
}

func (a *app) runOrder(ctx context.Context, args []string) error {
	sub, rest, err := subcommand(args)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("order "+sub, flag.ExitOnError)
	id := fs.Int64("id", 0, "注文のID")
	fs.String("table", "", "テーブル番号")
	fs.String("items", "", `明細 (例: "Margherita x 2, Cola x 1")`)
	if err := fs.Parse(rest); err != nil {
		return err
	}

	switch sub {
	case "list":
		a.orders.Render()
		return nil
	case "create":
		if err := a.orders.OpenCreate(); err != nil {
			return err
		}
		return submitForm(ctx, a.orders.Form(), setFlags(fs, "table", "items"), a.orders.Submit)
	case "complete":
		return a.orders.Handle(ctx, feature.ActionComplete, *id)
	case "cancel":
		return a.orders.Handle(ctx, feature.ActionCancel, *id)
	default:
		return fmt.Errorf("unknown order command %q", sub)
	}
}

func (a *app) runReservation(ctx context.Context, args []string) error {
	sub, rest, err := subcommand(args)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("reservation "+sub, flag.ExitOnError)
	id := fs.Int64("id", 0, "予約のID")
	fs.String("name", "", "お名前")
	fs.String("guests", "", "人数")
	fs.String("datetime", "", "日時 (2006-01-02T15:04)")
	fs.String("phone", "", "電話番号")
	fs.String("requests", "", "ご要望")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	values := setFlags(fs, "name", "guests", "datetime", "phone", "requests")

	switch sub {
	case "list":
		a.reservations.Render()
		return nil
	case "add":
		if err := a.reservations.OpenCreate(); err != nil {
			return err
		}
		return submitForm(ctx, a.reservations.Form(), values, a.reservations.Submit)
	case "edit":
		if err := a.reservations.Handle(ctx, feature.ActionEdit, *id); err != nil {
			return err
		}
		if !a.modals.IsOpen(feature.ReservationModalID) {
			return fmt.Errorf("reservation %d not found", *id)
		}
		return submitForm(ctx, a.reservations.Form(), values, a.reservations.Submit)
	case "confirm":
		return a.reservations.Handle(ctx, feature.ActionConfirm, *id)
	case "cancel":
		return a.reservations.Handle(ctx, feature.ActionCancel, *id)
	default:
		return fmt.Errorf("unknown reservation command %q", sub)
	}
}
