package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/weavelink/weavelink/app/jobs"
	"github.com/weavelink/weavelink/config"
	"github.com/weavelink/weavelink/logging"
	"github.com/weavelink/weavelink/models"
	"github.com/weavelink/weavelink/platform/database"
	"github.com/weavelink/weavelink/platform/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("database handle", zap.Error(err))
	}
	defer sqlDB.Close()

	images, err := storage.NewMinioStore(cfg)
	if err != nil {
		logger.Fatal("connect storage", zap.Error(err))
	}

	sweeper := jobs.NewSweeper(images, models.NewProductsRepository(db), cfg.OrphanSweepGrace, logger.Named("sweep"))
	sweepTask, err := jobs.NewSweepTask(jobs.SweepPayload{})
	if err != nil {
		logger.Fatal("build sweep task", zap.Error(err))
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger.Named("worker"),
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskSweepOrphanImages, Handler: sweeper.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.OrphanSweepCron, Task: sweepTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Fatal("init worker", zap.Error(err))
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", zap.Error(err))
	}
	logger.Info("worker stopped")
}
