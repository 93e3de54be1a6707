package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/libadmin/internal/logging"
	"github.com/dmitrijs2005/libadmin/internal/stubstore"
)

func main() {

	cfg, err := stubstore.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger, err := logging.NewZapLogger(logging.ZapConfig{Level: cfg.LogLevel})
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	store := stubstore.New(nil)
	if !cfg.Empty {
		if err := store.Seed(); err != nil {
			logger.Error(ctx, "seeding failed", "error", err)
			return
		}
	}

	gin.SetMode(gin.ReleaseMode)
	router := stubstore.NewRouter(store, logger, stubstore.Options{FailReports: cfg.FailReports})

	if err := stubstore.NewServer(cfg.Addr, router, logger).Run(ctx); err != nil {
		logger.Error(ctx, err.Error())
	}
}
