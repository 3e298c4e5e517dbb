package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dverne/gatekeeper/internal/config"
	"github.com/dverne/gatekeeper/internal/console"
	"github.com/dverne/gatekeeper/internal/logger"
	"github.com/dverne/gatekeeper/internal/model"
	filestore "github.com/dverne/gatekeeper/internal/repository/file"
	"github.com/dverne/gatekeeper/internal/repository/postgres"
	"github.com/dverne/gatekeeper/internal/security"
	"github.com/dverne/gatekeeper/internal/service"
	"github.com/dverne/gatekeeper/internal/session"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	users, cleanup, err := newUserStore(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize credential store", "error", err)
	}
	defer cleanup()

	registry := session.NewRegistry(cfg.Session.TTL, cfg.Session.SweepInterval, logger)
	go registry.Run(ctx)

	hasher := security.NewHasher(security.Params{
		Time:   cfg.KDF.Time,
		MemKiB: cfg.KDF.MemKiB,
		Par:    cfg.KDF.Par,
	})

	authService := service.NewAuth(users, registry, hasher, logger)

	logAppVersion()

	ui := console.New(authService, bufio.NewReader(os.Stdin), os.Stdout)
	if err := ui.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal("console terminated", "error", err)
	}

	logger.Info("shutdown complete")
}

func newUserStore(ctx context.Context, cfg *config.Config) (model.UserStore, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewUserRepository(db), func() { _ = db.Close() }, nil
	default:
		store, err := filestore.NewStore(cfg.Store.FilePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
