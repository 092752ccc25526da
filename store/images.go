package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ImageStore provides CRUD operations for image-library records.
type ImageStore struct {
	col *mongo.Collection
	now func() time.Time
}

// NewImageStore creates an ImageStore over the images collection.
func NewImageStore(c *Client) *ImageStore {
	return &ImageStore{col: c.Database().Collection(ImagesCollection), now: time.Now}
}

// Create inserts a library record. Callers create the record only after
// the blob upload succeeded, so a record always has a backing blob.
func (s *ImageStore) Create(ctx context.Context, in ImageInput) (BlogImage, error) {
	doc := imageDoc{
		URL:       in.URL,
		Filename:  in.Filename,
		Prompt:    in.Prompt,
		Source:    in.Source,
		CreatedAt: s.now().UTC(),
	}
	res, err := s.col.InsertOne(ctx, doc)
	if err != nil {
		return BlogImage{}, fmt.Errorf("insert image: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.resolve(), nil
}

// Get returns a single library record by ID.
func (s *ImageStore) Get(ctx context.Context, id string) (BlogImage, error) {
	oid, err := parseID(id)
	if err != nil {
		return BlogImage{}, err
	}
	var doc imageDoc
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return BlogImage{}, ErrNotFound
		}
		return BlogImage{}, fmt.Errorf("get image: %w", err)
	}
	return doc.resolve(), nil
}

// Delete removes a library record.
func (s *ImageStore) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	if _, err := s.col.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

// List returns all library records, newest first.
func (s *ImageStore) List(ctx context.Context) ([]BlogImage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer cur.Close(ctx)

	var images []BlogImage
	for cur.Next(ctx) {
		var doc imageDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode image: %w", err)
		}
		images = append(images, doc.resolve())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	return images, nil
}
