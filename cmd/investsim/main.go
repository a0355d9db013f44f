// Command investsim runs the virtual brokerage simulator: a random-walk
// price feed over a fixed instrument catalog and an HTTP API for trading
// against it with virtual money.
//
// Usage:
//
//	investsim setup                  (interactive onboarding, writes config.gen.yaml)
//	investsim --config config.yaml
//	investsim                        (uses CLI arguments)
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/akashsuryawanshi04/invest-simulator/config"
	"github.com/akashsuryawanshi04/invest-simulator/internal/catalog"
	"github.com/akashsuryawanshi04/invest-simulator/internal/metrics"
	"github.com/akashsuryawanshi04/invest-simulator/internal/services/pricefeed"
	"github.com/akashsuryawanshi04/invest-simulator/internal/services/session"
	"github.com/akashsuryawanshi04/invest-simulator/internal/setup"
	"github.com/akashsuryawanshi04/invest-simulator/internal/storage/accounts"
	"github.com/akashsuryawanshi04/invest-simulator/internal/storage/trades"
	"github.com/akashsuryawanshi04/invest-simulator/internal/web"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "setup" {
		if err := setup.RunTUI(); err != nil {
			log.Fatal(err)
		}
		os.Args = []string{os.Args[0], "--config", "config.gen.yaml"}
	}

	cfg, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		cat, err = catalog.Load(cfg.CatalogPath)
		if err != nil {
			logger.Fatal("failed to load instrument catalog", zap.Error(err))
		}
	}

	m := metrics.New()

	var repo accounts.Repository
	switch cfg.Storage {
	case "redis":
		store, err := accounts.NewRedisStore(accounts.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer store.Close()
		repo = store
	default:
		store, err := accounts.NewFileStore(cfg.StateDir)
		if err != nil {
			logger.Fatal("failed to open account store", zap.Error(err))
		}
		repo = store
	}

	journal, err := trades.NewJournal(cfg.JournalDir)
	if err != nil {
		logger.Fatal("failed to open trade journal", zap.Error(err))
	}
	defer journal.Close()

	feed := pricefeed.New(cat, pricefeed.Config{
		Interval:         cfg.TickInterval,
		EquityVolatility: cfg.EquityVolatility,
		CryptoVolatility: cfg.CryptoVolatility,
		FloorRatio:       cfg.FloorRatio,
	}, logger, m)

	sess := session.New(repo, journal, cfg.CapitalPresets, logger, m)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Identity != "" {
		if _, err := sess.Login(ctx, cfg.Identity, cfg.StartingCash); err != nil {
			logger.Fatal("failed to open account session",
				zap.String("identity", cfg.Identity), zap.Error(err))
		}
	}

	server := web.NewServer(cfg.Listen, feed, sess, cat, m, logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// a cancelled context is the normal shutdown path, not a failure
		if err := feed.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return server.Start(ctx)
	})

	logger.Info("simulator started",
		zap.String("listen", cfg.Listen),
		zap.Int("instruments", cat.Len()),
		zap.Duration("tick_interval", cfg.TickInterval))

	if err := g.Wait(); err != nil {
		logger.Error(err.Error())
	}
}
