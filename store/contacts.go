package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ContactStore persists contact-form submissions.
type ContactStore struct {
	col *mongo.Collection
	now func() time.Time
}

// NewContactStore creates a ContactStore over the contacts collection.
func NewContactStore(c *Client) *ContactStore {
	return &ContactStore{col: c.Database().Collection(ContactsCollection), now: time.Now}
}

// Create inserts a contact submission.
func (s *ContactStore) Create(ctx context.Context, in ContactInput) (Contact, error) {
	doc := contactDoc{
		Name:      in.Name,
		Email:     in.Email,
		Message:   in.Message,
		CreatedAt: s.now().UTC(),
	}
	res, err := s.col.InsertOne(ctx, doc)
	if err != nil {
		return Contact{}, fmt.Errorf("insert contact: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.resolve(), nil
}

// List returns all submissions, newest first.
func (s *ContactStore) List(ctx context.Context) ([]Contact, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer cur.Close(ctx)

	var contacts []Contact
	for cur.Next(ctx) {
		var doc contactDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode contact: %w", err)
		}
		contacts = append(contacts, doc.resolve())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}
