package services

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/ikonbethel/alx-files-manager/internal/models"
	"github.com/ikonbethel/alx-files-manager/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeSessions struct {
	tokens    map[string]string
	available bool
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{tokens: map[string]string{}, available: true}
}

func (s *fakeSessions) Issue(_ context.Context, userID string, _ time.Duration) (string, error) {
	token := fmt.Sprintf("token-%d", len(s.tokens)+1)
	s.tokens[token] = userID
	return token, nil
}

func (s *fakeSessions) Resolve(_ context.Context, token string) (string, error) {
	return s.tokens[token], nil
}

func (s *fakeSessions) Revoke(_ context.Context, token string) error {
	delete(s.tokens, token)
	return nil
}

func (s *fakeSessions) IsAvailable(context.Context) bool {
	return s.available
}

type fakeFiles struct {
	entries   map[primitive.ObjectID]*models.File
	insertErr error
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{entries: map[primitive.ObjectID]*models.File{}}
}

func (f *fakeFiles) add(entry *models.File) *models.File {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	f.entries[entry.ID] = entry
	return entry
}

func (f *fakeFiles) Insert(_ context.Context, entry *models.File) (primitive.ObjectID, error) {
	if f.insertErr != nil {
		return primitive.NilObjectID, f.insertErr
	}
	if !entry.ParentID.IsZero() {
		if err := f.EnsureFolder(context.Background(), entry.ParentID); err != nil {
			return primitive.NilObjectID, err
		}
	}
	stored := *entry
	return f.add(&stored).ID, nil
}

func (f *fakeFiles) EnsureFolder(_ context.Context, id primitive.ObjectID) error {
	parent, ok := f.entries[id]
	if !ok {
		return repository.ErrParentNotFound
	}
	if !parent.IsFolder() {
		return repository.ErrParentNotAFolder
	}
	return nil
}

func (f *fakeFiles) Get(_ context.Context, id primitive.ObjectID) (*models.File, error) {
	entry, ok := f.entries[id]
	if !ok {
		return nil, nil
	}
	copied := *entry
	return &copied, nil
}

func (f *fakeFiles) GetOwned(ctx context.Context, id, ownerID primitive.ObjectID) (*models.File, error) {
	entry, err := f.Get(ctx, id)
	if err != nil || entry == nil || entry.UserID != ownerID {
		return nil, err
	}
	return entry, nil
}

func (f *fakeFiles) List(_ context.Context, ownerID, parentID primitive.ObjectID, page int64) ([]models.File, error) {
	if page < 0 {
		page = 0
	}

	matched := make([]models.File, 0)
	for _, entry := range f.entries {
		if entry.UserID == ownerID && entry.ParentID == parentID {
			matched = append(matched, *entry)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	start := page * repository.PageSize
	if start >= int64(len(matched)) {
		return []models.File{}, nil
	}
	end := start + repository.PageSize
	if end > int64(len(matched)) {
		end = int64(len(matched))
	}
	return matched[start:end], nil
}

func (f *fakeFiles) SetVisibility(_ context.Context, id, ownerID primitive.ObjectID, isPublic bool) (*models.File, error) {
	entry, ok := f.entries[id]
	if !ok || entry.UserID != ownerID {
		return nil, nil
	}
	entry.IsPublic = isPublic
	copied := *entry
	return &copied, nil
}

func (f *fakeFiles) Count(context.Context) (int64, error) {
	return int64(len(f.entries)), nil
}

type fakeBlobs struct {
	blobs    map[string][]byte
	variants map[string][]byte
	writeErr error
	writes   int
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{blobs: map[string][]byte{}, variants: map[string][]byte{}}
}

func (b *fakeBlobs) Write(data []byte) (string, error) {
	if b.writeErr != nil {
		return "", b.writeErr
	}
	b.writes++
	path := fmt.Sprintf("/blobs/%d", b.writes)
	b.blobs[path] = data
	return path, nil
}

func (b *fakeBlobs) Read(path string) ([]byte, error) {
	data, ok := b.blobs[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (b *fakeBlobs) ReadVariant(path string, width int) ([]byte, error) {
	data, ok := b.variants[fmt.Sprintf("%s_%d", path, width)]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

type enqueued struct {
	userID string
	fileID string
}

type fakeQueue struct {
	thumbnails []enqueued
	welcomes   []string
	failWith   error
}

func (q *fakeQueue) EnqueueThumbnail(_ context.Context, userID, fileID string) error {
	if q.failWith != nil {
		return q.failWith
	}
	q.thumbnails = append(q.thumbnails, enqueued{userID: userID, fileID: fileID})
	return nil
}

func (q *fakeQueue) EnqueueWelcome(_ context.Context, userID string) error {
	if q.failWith != nil {
		return q.failWith
	}
	q.welcomes = append(q.welcomes, userID)
	return nil
}
