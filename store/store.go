// Package store provides the document-store layer for blog posts, library
// images, and contact submissions, backed by MongoDB collections.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names. The st_ prefix is shared with the studio's other
// infrastructure and kept as-is so existing data remains addressable.
const (
	PostsCollection    = "st_blog_posts"
	ImagesCollection   = "st_blog_images"
	ContactsCollection = "st_contacts"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("store: not found")

const connectTimeout = 10 * time.Second

// Client wraps a Mongo database handle. It is constructed once at startup
// and injected into the stores; there is no package-level singleton.
type Client struct {
	mc *mongo.Client
	db *mongo.Database
}

// Connect dials MongoDB, verifies the connection with a ping, and ensures
// the indexes the stores rely on.
func Connect(ctx context.Context, uri, dbName string) (*Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	mc, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := mc.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	c := &Client{mc: mc, db: mc.Database(dbName)}
	if err := c.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	return c, nil
}

// Close disconnects the underlying Mongo client.
func (c *Client) Close(ctx context.Context) error {
	return c.mc.Disconnect(ctx)
}

// Database exposes the database handle for the typed stores.
func (c *Client) Database() *mongo.Database {
	return c.db
}

func (c *Client) ensureIndexes(ctx context.Context) error {
	// posts: publishedAt desc drives both admin and public listings
	if _, err := c.db.Collection(PostsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "publishedAt", Value: -1}},
		Options: options.Index().SetName("idx_published_at_desc"),
	}); err != nil {
		return err
	}
	// images: createdAt desc drives the library listing
	if _, err := c.db.Collection(ImagesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("idx_created_at_desc"),
	}); err != nil {
		return err
	}
	return nil
}
