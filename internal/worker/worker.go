// Package worker holds the queue consumers: thumbnail generation for image
// uploads and the post-registration welcome job.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/hibiken/asynq"
	"github.com/ikonbethel/alx-files-manager/internal/models"
	"github.com/ikonbethel/alx-files-manager/internal/queue"
	"github.com/ikonbethel/alx-files-manager/internal/storage"
	"github.com/ikonbethel/alx-files-manager/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrMissingFileID = errors.New("missing fileId")
	ErrMissingUserID = errors.New("missing userId")
	ErrFileNotFound  = errors.New("file not found")
	ErrUserNotFound  = errors.New("user not found")
)

// ThumbnailWidths are the fixed derivative sizes, widest first.
var ThumbnailWidths = []int{500, 250, 100}

type FileFinder interface {
	GetOwned(ctx context.Context, id, ownerID primitive.ObjectID) (*models.File, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

type Processor struct {
	Files FileFinder
	Users UserFinder
}

func NewProcessor(files FileFinder, users UserFinder) *Processor {
	return &Processor{Files: files, Users: users}
}

// HandleThumbnail consumes a fileQueue job: validate the payload, resolve the
// source entry scoped by owner, then write one resized derivative per fixed
// width next to the original. All widths are attempted even after a failure;
// a failed job leaves any partial derivatives on disk, since retrieval
// reports a missing variant explicitly instead of falling back.
func (p *Processor) HandleThumbnail(ctx context.Context, t *asynq.Task) error {
	var payload queue.ThumbnailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	if payload.FileID == "" {
		return ErrMissingFileID
	}
	if payload.UserID == "" {
		return ErrMissingUserID
	}

	fileID, err := primitive.ObjectIDFromHex(payload.FileID)
	if err != nil {
		return fmt.Errorf("invalid fileId: %w", err)
	}
	userID, err := primitive.ObjectIDFromHex(payload.UserID)
	if err != nil {
		return fmt.Errorf("invalid userId: %w", err)
	}

	file, err := p.Files.GetOwned(ctx, fileID, userID)
	if err != nil {
		return err
	}
	if file == nil {
		return ErrFileNotFound
	}

	src, err := imaging.Open(file.LocalPath)
	if err != nil {
		return fmt.Errorf("decoding source image: %w", err)
	}

	format, err := imaging.FormatFromExtension(filepath.Ext(file.Name))
	if err != nil {
		format = imaging.PNG
	}

	var failedWidth int
	var genErr error
	for _, width := range ThumbnailWidths {
		thumbPath := storage.VariantPath(file.LocalPath, width)
		if err := writeThumbnail(src, thumbPath, width, format); err != nil {
			logger.Error("thumbnail_write_failed", err, map[string]interface{}{
				"file_id": payload.FileID,
				"width":   width,
				"path":    thumbPath,
			})
			if genErr == nil {
				failedWidth = width
				genErr = err
			}
			continue
		}
	}
	if genErr != nil {
		return fmt.Errorf("thumbnail generation failed for width %d: %w", failedWidth, genErr)
	}

	logger.Info("thumbnails_generated", map[string]interface{}{
		"file_id": payload.FileID,
		"user_id": payload.UserID,
		"widths":  ThumbnailWidths,
	})
	return nil
}

func writeThumbnail(src image.Image, path string, width int, format imaging.Format) error {
	thumb := imaging.Resize(src, width, 0, imaging.Lanczos)

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := imaging.Encode(out, thumb, format); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// HandleWelcome consumes a userQueue job: resolve the user and emit the
// welcome side effect (a log line stands in for the outbound email).
func (p *Processor) HandleWelcome(ctx context.Context, t *asynq.Task) error {
	var payload queue.WelcomePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	if payload.UserID == "" {
		return ErrMissingUserID
	}

	userID, err := primitive.ObjectIDFromHex(payload.UserID)
	if err != nil {
		return fmt.Errorf("invalid userId: %w", err)
	}

	user, err := p.Users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	logger.Info("welcome_user", map[string]interface{}{
		"user_id": payload.UserID,
		"email":   user.Email,
	})
	return nil
}
