package services

import (
	"context"
	"time"

	"github.com/ikonbethel/alx-files-manager/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sessions is the token store contract consumed by services, middleware and
// handlers. Resolve returns "" for any token that does not currently bind to
// a user.
type Sessions interface {
	Issue(ctx context.Context, userID string, ttl time.Duration) (string, error)
	Resolve(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
	IsAvailable(ctx context.Context) bool
}

type UserStore interface {
	Create(ctx context.Context, email, passwordHash string) (*models.User, error)
	FindByCredentials(ctx context.Context, email, password string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Count(ctx context.Context) (int64, error)
}

type FileStore interface {
	Insert(ctx context.Context, f *models.File) (primitive.ObjectID, error)
	EnsureFolder(ctx context.Context, id primitive.ObjectID) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.File, error)
	GetOwned(ctx context.Context, id, ownerID primitive.ObjectID) (*models.File, error)
	List(ctx context.Context, ownerID, parentID primitive.ObjectID, page int64) ([]models.File, error)
	SetVisibility(ctx context.Context, id, ownerID primitive.ObjectID, isPublic bool) (*models.File, error)
	Count(ctx context.Context) (int64, error)
}

type BlobStore interface {
	Write(data []byte) (string, error)
	Read(path string) ([]byte, error)
	ReadVariant(path string, width int) ([]byte, error)
}

type Enqueuer interface {
	EnqueueThumbnail(ctx context.Context, userID, fileID string) error
	EnqueueWelcome(ctx context.Context, userID string) error
}
