package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mappertrip/geosync/internal/config"
	"github.com/mappertrip/geosync/internal/delivery/cli"
	"github.com/mappertrip/geosync/internal/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return cli.ExitFailure
	}

	// stdout занят отчётом, логи пишем в stderr
	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding, "stderr")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return cli.ExitFailure
	}
	defer func() { _ = log.Sync() }()

	// прерывание отменяет оставшиеся батчи, уже записанные остаются
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.Execute(ctx, os.Args[1:], cli.Env{
		Config: cfg,
		Logger: log,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
}
