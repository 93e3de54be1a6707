package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/dmitrijs2005/libadmin/internal/client/cli"
	"github.com/dmitrijs2005/libadmin/internal/client/config"
	"github.com/dmitrijs2005/libadmin/internal/logging"
)

func main() {

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	var logger logging.Logger
	zl, err := logging.NewZapLogger(logging.ZapConfig{
		Level:       cfg.LogLevel,
		Development: term.IsTerminal(int(os.Stderr.Fd())),
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		// the client still runs when zap cannot open its sinks
		logger = logging.NewSlogText(os.Stderr, cfg.LogLevel)
		logger.Warn(context.Background(), "zap logger unavailable, using slog", "error", err)
	} else {
		logger = zl
		defer func() { _ = zl.Sync() }()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := cli.NewApp(cfg, logger, os.Stdin, os.Stdout)
	app.Run(ctx)

}
