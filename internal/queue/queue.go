// Package queue defines the durable background jobs and the client that
// enqueues them. Jobs decouple "file recorded" from "thumbnails generated":
// an upload response never waits on, or fails because of, the async pipeline.
package queue

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/ikonbethel/alx-files-manager/internal/config"
)

const (
	// QueueFile carries image thumbnail jobs, QueueUser welcome jobs.
	QueueFile = "fileQueue"
	QueueUser = "userQueue"

	TaskTypeThumbnail = "thumbnail:generate"
	TaskTypeWelcome   = "user:welcome"
)

type ThumbnailPayload struct {
	UserID string `json:"userId"`
	FileID string `json:"fileId"`
}

type WelcomePayload struct {
	UserID string `json:"userId"`
}

type Client struct {
	client   *asynq.Client
	maxRetry int
}

func NewClient(redisCfg config.RedisConfig, queueCfg config.QueueConfig) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     redisCfg.Addr,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		}),
		maxRetry: queueCfg.MaxRetry,
	}
}

// EnqueueThumbnail schedules thumbnail generation for an uploaded image.
func (c *Client) EnqueueThumbnail(ctx context.Context, userID, fileID string) error {
	payload, err := json.Marshal(ThumbnailPayload{UserID: userID, FileID: fileID})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypeThumbnail, payload)
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(QueueFile), asynq.MaxRetry(c.maxRetry))
	return err
}

// EnqueueWelcome schedules the post-registration welcome job.
func (c *Client) EnqueueWelcome(ctx context.Context, userID string) error {
	payload, err := json.Marshal(WelcomePayload{UserID: userID})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypeWelcome, payload)
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(QueueUser), asynq.MaxRetry(c.maxRetry))
	return err
}

func (c *Client) Close() error {
	return c.client.Close()
}
