package services

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ikonbethel/alx-files-manager/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validThumbnailWidth(width int) bool {
	switch width {
	case 500, 250, 100:
		return true
	default:
		return false
	}
}

// RetrievalService returns file content gated by visibility rules. It runs
// independently of the async pipeline; a requested derivative that does not
// exist yet is an explicit error, never a silent fallback to the original.
type RetrievalService struct {
	Sessions Sessions
	Files    FileStore
	Blobs    BlobStore
}

func NewRetrievalService(sessions Sessions, files FileStore, blobs BlobStore) *RetrievalService {
	return &RetrievalService{Sessions: sessions, Files: files, Blobs: blobs}
}

// Fetch resolves the optional token to a caller identity, authorizes the
// read, and returns the raw bytes plus content type. It surfaces ErrNotFound
// and ErrForbidden separately; the handler collapses both to a 404.
func (s *RetrievalService) Fetch(ctx context.Context, fileID, token, sizeHint string) ([]byte, string, error) {
	var callerID primitive.ObjectID
	if token != "" {
		if raw, err := s.Sessions.Resolve(ctx, token); err == nil && raw != "" {
			callerID, _ = primitive.ObjectIDFromHex(raw)
		}
	}

	id, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return nil, "", ErrNotFound
	}

	entry, err := s.Files.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}

	switch DecideRead(entry, callerID) {
	case DecisionNotFound:
		return nil, "", ErrNotFound
	case DecisionForbidden:
		return nil, "", ErrForbidden
	}

	if entry.IsFolder() {
		return nil, "", ErrIsFolder
	}

	var data []byte
	width, _ := strconv.Atoi(sizeHint)
	if entry.Type == models.TypeImage && validThumbnailWidth(width) {
		data, err = s.Blobs.ReadVariant(entry.LocalPath, width)
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("%w: width %d", ErrThumbnailMissing, width)
		}
	} else {
		data, err = s.Blobs.Read(entry.LocalPath)
	}
	if err != nil {
		return nil, "", err
	}

	contentType := mime.TypeByExtension(filepath.Ext(entry.Name))
	if contentType == "" {
		return nil, "", ErrUnknownMimeType
	}

	return data, contentType, nil
}
