package database

import (
	"context"
	"fmt"

	"github.com/ikonbethel/alx-files-manager/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Client is the shared MongoDB handle, constructed once at startup and
// injected into every component that needs the document store.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

func Connect(ctx context.Context, cfg config.DBConfig) (*Client, error) {
	uri := fmt.Sprintf("mongodb://%s:%s/%s", cfg.Host, cfg.Port, cfg.Database)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	db := client.Database(cfg.Database)
	if err := ensureIndexes(ctx, db); err != nil {
		return nil, err
	}

	return &Client{client: client, db: db}, nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (c *Client) Database() *mongo.Database {
	return c.db
}

// IsAlive reports whether the document store answers a ping. Consumed by the
// status endpoint only.
func (c *Client) IsAlive(ctx context.Context) bool {
	return c.client.Ping(ctx, readpref.Primary()) == nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
