package main

import (
	"context"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"github.com/ikonbethel/alx-files-manager/internal/config"
	"github.com/ikonbethel/alx-files-manager/internal/database"
	"github.com/ikonbethel/alx-files-manager/internal/queue"
	"github.com/ikonbethel/alx-files-manager/internal/repository"
	"github.com/ikonbethel/alx-files-manager/internal/worker"
	"github.com/ikonbethel/alx-files-manager/pkg/logger"
)

func main() {
	logger.Init()

	cfg := config.Load()

	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Connect(connectCtx, cfg.DB)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	files := repository.NewFiles(db.Database())
	users := repository.NewUsers(db.Database())
	processor := worker.NewProcessor(files, users)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: cfg.Queue.Concurrency,
			Queues: map[string]int{
				queue.QueueFile: 1,
				queue.QueueUser: 1,
			},
			// Failure observer: every failed job surfaces (jobId, error) so a
			// supervising layer can attach a retry policy.
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				taskID, _ := asynq.GetTaskID(ctx)
				logger.Error("job_failed", err, map[string]interface{}{
					"job_id":   taskID,
					"job_type": task.Type(),
				})
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskTypeThumbnail, processor.HandleThumbnail)
	mux.HandleFunc(queue.TaskTypeWelcome, processor.HandleWelcome)

	logger.Info("worker_starting", map[string]interface{}{
		"concurrency": cfg.Queue.Concurrency,
		"max_retry":   cfg.Queue.MaxRetry,
		"queues":      []string{queue.QueueFile, queue.QueueUser},
	})

	if err := srv.Run(mux); err != nil {
		log.Fatalf("worker error: %v", err)
	}
}
