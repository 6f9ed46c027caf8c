package repository

import (
	"context"
	"errors"

	"github.com/ikonbethel/alx-files-manager/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PageSize is the fixed number of entries per listing page.
const PageSize = 20

var (
	ErrParentNotFound   = errors.New("parent not found")
	ErrParentNotAFolder = errors.New("parent is not a folder")
	ErrMissingLocalPath = errors.New("non-folder entry has no local path")
)

type Files struct {
	col *mongo.Collection
}

func NewFiles(db *mongo.Database) *Files {
	return &Files{col: db.Collection("files")}
}

// Insert validates the parent reference and stores the entry. Non-folder
// entries must already carry a local path: metadata never points at bytes
// that were not written first.
func (r *Files) Insert(ctx context.Context, f *models.File) (primitive.ObjectID, error) {
	if !f.IsFolder() && f.LocalPath == "" {
		return primitive.NilObjectID, ErrMissingLocalPath
	}

	if !f.ParentID.IsZero() {
		if err := r.EnsureFolder(ctx, f.ParentID); err != nil {
			return primitive.NilObjectID, err
		}
	}

	res, err := r.col.InsertOne(ctx, f)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// EnsureFolder verifies that id resolves to an existing entry of type folder.
func (r *Files) EnsureFolder(ctx context.Context, id primitive.ObjectID) error {
	var parent models.File
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&parent)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrParentNotFound
	}
	if err != nil {
		return err
	}
	if !parent.IsFolder() {
		return ErrParentNotAFolder
	}
	return nil
}

// Get looks up an entry by id with no owner scoping.
func (r *Files) Get(ctx context.Context, id primitive.ObjectID) (*models.File, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetOwned looks up an entry by id restricted to a single owner. Absent and
// not-owned are indistinguishable.
func (r *Files) GetOwned(ctx context.Context, id, ownerID primitive.ObjectID) (*models.File, error) {
	return r.findOne(ctx, bson.M{"_id": id, "userId": ownerID})
}

func (r *Files) findOne(ctx context.Context, filter bson.M) (*models.File, error) {
	var f models.File
	err := r.col.FindOne(ctx, filter).Decode(&f)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// List returns the given zero-based page of entries under parentID owned by
// ownerID, name ascending. The result is a finite restartable page, not a
// live cursor.
func (r *Files) List(ctx context.Context, ownerID, parentID primitive.ObjectID, page int64) ([]models.File, error) {
	if page < 0 {
		page = 0
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(page * PageSize).
		SetLimit(PageSize)

	cur, err := r.col.Find(ctx, bson.M{"userId": ownerID, "parentId": parentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	files := make([]models.File, 0, PageSize)
	if err := cur.All(ctx, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// SetVisibility flips the visibility flag in a single atomic document update
// scoped by owner. A nil result means not-found-or-not-owned.
func (r *Files) SetVisibility(ctx context.Context, id, ownerID primitive.ObjectID, isPublic bool) (*models.File, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var f models.File
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "userId": ownerID},
		bson.M{"$set": bson.M{"isPublic": isPublic}},
		opts,
	).Decode(&f)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *Files) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}
