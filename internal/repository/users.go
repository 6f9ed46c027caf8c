package repository

import (
	"context"
	"errors"

	"github.com/ikonbethel/alx-files-manager/internal/models"
	"github.com/ikonbethel/alx-files-manager/pkg/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrAlreadyExists signals a duplicate unique key (user email).
var ErrAlreadyExists = errors.New("user already exists")

type Users struct {
	col *mongo.Collection
}

func NewUsers(db *mongo.Database) *Users {
	return &Users{col: db.Collection("users")}
}

// Create inserts a new user. The email must be unused; a unique index on the
// collection backs the check against concurrent registrations.
func (r *Users) Create(ctx context.Context, email, passwordHash string) (*models.User, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyExists
	}

	user := &models.User{Email: email, PasswordHash: passwordHash}
	res, err := r.col.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrAlreadyExists
	}
	if err != nil {
		return nil, err
	}

	user.ID = res.InsertedID.(primitive.ObjectID)
	return user, nil
}

// FindByCredentials resolves a user by email and password. A miss on either
// returns (nil, nil); the caller cannot tell which check failed.
func (r *Users) FindByCredentials(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, nil
	}
	return &user, nil
}

func (r *Users) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Users) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}
