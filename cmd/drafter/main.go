package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/drafterkit/drafter/internal/app"
	"github.com/drafterkit/drafter/internal/config"
	"github.com/drafterkit/drafter/internal/controller"
	"github.com/drafterkit/drafter/internal/logging"
	"github.com/drafterkit/drafter/internal/model"
	"github.com/drafterkit/drafter/internal/term"
	"github.com/drafterkit/drafter/internal/view"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logging.SetDebug(*debug)

	// Optional save file to load at startup.
	loadFile := flag.Arg(0)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "drafter: %v\n", err)
		return 1
	}

	events := make(chan controller.Event, 64)

	stop, err := term.Start(os.Stdin, events)
	if err != nil {
		fmt.Fprintf(os.Stderr, "drafter: %v\n", err)
		return 1
	}
	defer stop()

	// Raw mode eats ctrl-c, but SIGTERM and other external stops still
	// arrive through the signal context; forward them as a quit event.
	go func() {
		<-ctx.Done()
		events <- controller.Event{Kind: controller.Quit}
	}()

	if watcher, err := config.NewWatcher(*configPath); err == nil {
		go watcher.Run(ctx)
		go func() {
			for updated := range watcher.Updates() {
				cfg := updated
				events <- controller.Event{Kind: controller.Reload, Cfg: &cfg}
			}
		}()
	}

	v := view.New(cfg.CanvasWidth, cfg.CanvasHeight, os.Stdout, view.ThemeByName(cfg.Theme))

	ctrl := controller.New(controller.Options{
		Events:       events,
		SnapInterval: cfg.SnapInterval,
		Grid:         cfg.Grid,
		SaveFile:     cfg.SaveFile,
	})

	a := app.New(app.Options{
		Model:      model.New(),
		View:       v,
		Controller: ctrl,
		LoadFile:   loadFile,
		ExportDir:  cfg.ExportDir,
	})

	if !a.Run() {
		return 1
	}
	return 0
}
