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

// PostStore provides CRUD and lifecycle operations for blog posts.
type PostStore struct {
	col *mongo.Collection
	now func() time.Time
}

// NewPostStore creates a PostStore over the posts collection.
func NewPostStore(c *Client) *PostStore {
	return &PostStore{col: c.Database().Collection(PostsCollection), now: time.Now}
}

// Create inserts a new post and stamps publishedAt with the current time.
func (s *PostStore) Create(ctx context.Context, in PostInput) (BlogPost, error) {
	published := in.Published
	doc := postDoc{
		Title:       in.Title,
		Excerpt:     in.Excerpt,
		Content:     in.Content,
		CoverImage:  in.CoverImage,
		Tags:        in.Tags,
		Author:      in.Author,
		Published:   &published,
		PublishedAt: s.now().UTC(),
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}
	res, err := s.col.InsertOne(ctx, doc)
	if err != nil {
		return BlogPost{}, fmt.Errorf("insert post: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.resolve(), nil
}

// Update overwrites the editable fields of a post. It deliberately leaves
// publishedAt alone; only TogglePublish re-stamps it.
func (s *PostStore) Update(ctx context.Context, id string, in PostInput) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	res, err := s.col.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"title":      in.Title,
		"excerpt":    in.Excerpt,
		"content":    in.Content,
		"coverImage": in.CoverImage,
		"tags":       tags,
		"author":     in.Author,
		"published":  in.Published,
	}})
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// TogglePublish flips a post between Draft and Published. Entering
// Published re-stamps publishedAt so the date always reflects the most
// recent publish; leaving it keeps the old stamp.
func (s *PostStore) TogglePublish(ctx context.Context, id string) (BlogPost, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return BlogPost{}, err
	}
	oid, _ := parseID(id)

	if _, err := s.col.UpdateByID(ctx, oid, bson.M{"$set": toggleSet(post, s.now())}); err != nil {
		return BlogPost{}, fmt.Errorf("toggle publish: %w", err)
	}
	return s.Get(ctx, id)
}

// toggleSet builds the update document that flips a post's publish state.
// Entering Published re-stamps publishedAt so the date always reflects the
// most recent publish; leaving it keeps the old stamp.
func toggleSet(post BlogPost, now time.Time) bson.M {
	publishing := post.State != Published
	set := bson.M{"published": publishing}
	if publishing {
		set["publishedAt"] = now.UTC()
	}
	return set
}

// Delete removes a post unconditionally.
func (s *PostStore) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	if _, err := s.col.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// Get returns a single post by ID. A missing or malformed ID yields
// ErrNotFound so callers can show a "Post not found" state.
func (s *PostStore) Get(ctx context.Context, id string) (BlogPost, error) {
	oid, err := parseID(id)
	if err != nil {
		return BlogPost{}, err
	}
	var doc postDoc
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return BlogPost{}, ErrNotFound
		}
		return BlogPost{}, fmt.Errorf("get post: %w", err)
	}
	return doc.resolve(), nil
}

// ListAll returns every post, drafts included, newest publish stamp first.
func (s *PostStore) ListAll(ctx context.Context) ([]BlogPost, error) {
	return s.list(ctx, bson.M{})
}

// ListPublished returns publicly visible posts, newest first. The filter
// mirrors the resolve rule: only an explicit published=false hides a post,
// documents without the field count as published.
func (s *PostStore) ListPublished(ctx context.Context) ([]BlogPost, error) {
	return s.list(ctx, bson.M{"published": bson.M{"$ne": false}})
}

func (s *PostStore) list(ctx context.Context, filter bson.M) ([]BlogPost, error) {
	opts := options.Find().SetSort(bson.D{{Key: "publishedAt", Value: -1}})
	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer cur.Close(ctx)

	var posts []BlogPost
	for cur.Next(ctx) {
		var doc postDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode post: %w", err)
		}
		posts = append(posts, doc.resolve())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}
