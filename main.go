package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Arthurlmr/weleev-sub000/ai/gemini"
	"github.com/Arthurlmr/weleev-sub000/config"
	"github.com/Arthurlmr/weleev-sub000/enrichment"
	"github.com/Arthurlmr/weleev-sub000/interview"
	"github.com/Arthurlmr/weleev-sub000/logging"
	"github.com/Arthurlmr/weleev-sub000/scheduler"
	"github.com/Arthurlmr/weleev-sub000/scoring"
	"github.com/Arthurlmr/weleev-sub000/server"
	"github.com/Arthurlmr/weleev-sub000/storage"
)

var sweepNow = flag.Bool("sweep", false, "Run the retention sweep once and exit")

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer store.Close()

	sched := scheduler.New(store, cfg.Sweeper.Cron, cfg.Sweeper.Retention, logger)
	if *sweepNow {
		if err := sched.Sweep(ctx); err != nil {
			logger.Fatal("sweep failed", zap.Error(err))
		}
		return
	}

	generator, err := gemini.NewGenerator(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		logger.Fatal("failed to init gemini", zap.Error(err))
	}
	logger.Info("gemini client ready", zap.String("model", generator.Model()))

	weights, err := scoring.LoadWeightsFromFile(cfg.Scoring.WeightsPath)
	if err != nil {
		logger.Fatal("failed to load scoring weights", zap.Error(err))
	}

	engine := interview.NewEngine(store, gemini.NewExtractor(generator, logger), logger)
	scorer := scoring.NewService(store, weights, cfg.Scoring.ScoreTTL, logger)
	insights := enrichment.NewService(store, gemini.NewCommentaryProvider(generator, logger), cfg.Scoring.ScoreTTL, logger)

	srv := server.New(":"+cfg.Server.Port, engine, scorer, insights, store, logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := sched.Start(ctx); err != nil {
		logger.Fatal("failed to start scheduler", zap.Error(err))
	}

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", zap.Error(err))
	}
}

// openStore connects to Postgres when DATABASE_URL is set, otherwise
// falls back to the local SQLite file.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Store, error) {
	if cfg.Database.URL != "" {
		store, err := storage.NewPostgresStore(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to postgres")
		return store, nil
	}

	store, err := storage.NewSQLiteStore(cfg.Database.SQLitePath)
	if err != nil {
		return nil, err
	}
	logger.Info("sqlite database opened", zap.String("path", cfg.Database.SQLitePath))
	return store, nil
}
