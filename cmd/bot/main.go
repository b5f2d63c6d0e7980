package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"shiftbot/internal/core"
	"shiftbot/pkg/systemd"
	"shiftbot/plugins/echo"
	"shiftbot/plugins/events"
	"shiftbot/plugins/ptlog"
	"shiftbot/plugins/shift"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "./config.yaml", "path to config file (yaml or json)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app, err := core.NewApp(cfgPath)
	if err != nil {
		fmt.Println("fatal:", err)
		os.Exit(1)
	}

	app.Plugins().Register(
		echo.New(),
		shift.New(),
		events.New(),
		ptlog.New(),
	)

	if err := app.Start(ctx); err != nil {
		fmt.Println("fatal start:", err)
		os.Exit(1)
	}

	_, _ = systemd.NotifyReady()
	go func() { _ = systemd.WatchdogLoop(ctx) }()

	reason := core.StopSIGTERM
	select {
	case <-ctx.Done():
	case <-app.Done():
		reason = core.StopFatalError
	}

	_, _ = systemd.NotifyStopping()
	if err := app.Stop(context.Background(), reason); err != nil {
		fmt.Println("stop:", err)
	}
	if reason == core.StopFatalError && app.Err() != nil {
		fmt.Println("fatal:", app.Err())
		os.Exit(1)
	}
}
