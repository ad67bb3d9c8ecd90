package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"log/slog"

	"github.com/lmittmann/tint"

	"github.com/bdougie/pagecap/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Configure logger, --log-level adjusts it once flags are parsed
	level := new(slog.LevelVar)
	logger := slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05",
		}),
	)

	app := cli.NewApp(logger, level)
	if err := cli.Execute(ctx, app, os.Args[1:]); err != nil {
		logger.Error("pagecap failed", "error", err)
		stop()
		os.Exit(1)
	}
}
