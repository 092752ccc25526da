package studiosite

import (
	"context"

	"github.com/eringen/studiosite/imagegen"
	"github.com/eringen/studiosite/store"
)

// PostStore is the document-store contract for blog posts. The handlers
// depend on this interface so tests can substitute an in-memory store.
type PostStore interface {
	Create(ctx context.Context, in store.PostInput) (store.BlogPost, error)
	Update(ctx context.Context, id string, in store.PostInput) error
	TogglePublish(ctx context.Context, id string) (store.BlogPost, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (store.BlogPost, error)
	ListAll(ctx context.Context) ([]store.BlogPost, error)
	ListPublished(ctx context.Context) ([]store.BlogPost, error)
}

// ImageStore is the document-store contract for library entries.
type ImageStore interface {
	Create(ctx context.Context, in store.ImageInput) (store.BlogImage, error)
	Get(ctx context.Context, id string) (store.BlogImage, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]store.BlogImage, error)
}

// ContactStore is the document-store contract for contact submissions.
type ContactStore interface {
	Create(ctx context.Context, in store.ContactInput) (store.Contact, error)
	List(ctx context.Context) ([]store.Contact, error)
}

// BlobStore is the object-store contract. Delete must tolerate a blob
// that is already gone.
type BlobStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	URL(key string) string
	Delete(ctx context.Context, key string) error
}

// ImageGenerator is the external image-generation API contract.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt, model string, size imagegen.Size) (imagegen.Generated, error)
	Fetch(ctx context.Context, imgURL string) ([]byte, string, error)
}
