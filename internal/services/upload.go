package services

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/ikonbethel/alx-files-manager/internal/models"
	"github.com/ikonbethel/alx-files-manager/internal/repository"
	"github.com/ikonbethel/alx-files-manager/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UploadRequest struct {
	Name     string
	Type     string
	Data     string
	ParentID string
	IsPublic bool
}

// UploadService validates an upload, persists raw bytes for non-folder types,
// writes the metadata entry and schedules thumbnail generation for images.
type UploadService struct {
	Sessions Sessions
	Files    FileStore
	Blobs    BlobStore
	Queue    Enqueuer
}

func NewUploadService(sessions Sessions, files FileStore, blobs BlobStore, enqueuer Enqueuer) *UploadService {
	return &UploadService{Sessions: sessions, Files: files, Blobs: blobs, Queue: enqueuer}
}

// Upload runs the pipeline end to end. The disk write happens before the
// metadata insert and aborts the whole upload on failure: an orphaned file on
// disk is tolerable debris, a metadata row without bytes is not. A failed
// enqueue only degrades the derived-asset feature and never fails the upload.
func (s *UploadService) Upload(ctx context.Context, token string, req UploadRequest) (*models.File, error) {
	userID, err := s.resolveOwner(ctx, token)
	if err != nil {
		return nil, err
	}

	if req.Name == "" {
		return nil, ErrMissingName
	}
	if !models.ValidFileType(req.Type) {
		return nil, ErrMissingType
	}
	fileType := models.FileType(req.Type)
	if req.Data == "" && fileType != models.TypeFolder {
		return nil, ErrMissingData
	}

	parentID := primitive.NilObjectID
	if req.ParentID != "" && req.ParentID != models.RootParent {
		parentID, err = primitive.ObjectIDFromHex(req.ParentID)
		if err != nil {
			return nil, repository.ErrParentNotFound
		}
		if err := s.Files.EnsureFolder(ctx, parentID); err != nil {
			return nil, err
		}
	}

	entry := &models.File{
		UserID:   userID,
		Name:     req.Name,
		Type:     fileType,
		IsPublic: req.IsPublic,
		ParentID: parentID,
	}

	if fileType != models.TypeFolder {
		raw, err := base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			return nil, ErrInvalidData
		}
		path, err := s.Blobs.Write(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageWrite, err)
		}
		entry.LocalPath = path
	}

	id, err := s.Files.Insert(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = id

	if fileType == models.TypeImage {
		if err := s.Queue.EnqueueThumbnail(ctx, userID.Hex(), id.Hex()); err != nil {
			logger.ErrorWithUser(userID.Hex(), "thumbnail_enqueue_failed", err, map[string]interface{}{
				"file_id": id.Hex(),
			})
		}
	}

	logger.InfoWithUser(userID.Hex(), "file_uploaded", map[string]interface{}{
		"file_id":   id.Hex(),
		"file_name": entry.Name,
		"file_type": entry.Type,
		"is_public": entry.IsPublic,
	})

	return entry, nil
}

func (s *UploadService) resolveOwner(ctx context.Context, token string) (primitive.ObjectID, error) {
	if token == "" {
		return primitive.NilObjectID, ErrUnauthorized
	}
	raw, err := s.Sessions.Resolve(ctx, token)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if raw == "" {
		return primitive.NilObjectID, ErrUnauthorized
	}
	userID, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, ErrUnauthorized
	}
	return userID, nil
}
