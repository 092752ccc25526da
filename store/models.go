package store

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PublishState is the resolved visibility of a post. Stored documents carry
// an optional boolean; the ambiguity is settled here, at the store
// boundary, instead of at every read site.
type PublishState int

const (
	// Draft posts are hidden from the public listing.
	Draft PublishState = iota
	// Published posts are publicly visible.
	Published
)

func (s PublishState) String() string {
	if s == Published {
		return "published"
	}
	return "draft"
}

// BlogPost is a post as the rest of the application sees it.
type BlogPost struct {
	ID          string
	Title       string
	Excerpt     string
	Content     string // markdown source
	CoverImage  string // object-store URL, empty when unset
	Tags        []string
	Author      string
	State       PublishState
	PublishedAt time.Time // meaningful only while State == Published
}

// PostInput carries the writable fields of a post. publishedAt is never
// part of the input; the store stamps it.
type PostInput struct {
	Title      string
	Excerpt    string
	Content    string
	CoverImage string
	Tags       []string
	Author     string
	Published  bool
}

// Image sources.
const (
	SourceGenerated = "generated"
	SourceUploaded  = "uploaded"
)

// BlogImage is a persisted library entry. The object-store blob (keyed by
// Filename) and this record are created together and deleted together.
type BlogImage struct {
	ID        string
	URL       string
	Filename  string // object-store key, used for deletion
	Prompt    string // only set when Source == SourceGenerated
	Source    string
	CreatedAt time.Time
}

// ImageInput carries the writable fields of a library entry.
type ImageInput struct {
	URL      string
	Filename string
	Prompt   string
	Source   string
}

// Contact is a contact-form submission.
type Contact struct {
	ID        string
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
}

// ContactInput carries the writable fields of a contact submission.
type ContactInput struct {
	Name    string
	Email   string
	Message string
}

// postDoc is the wire shape of a post document. Field names match the
// documents written by earlier versions of the site, so existing data
// stays readable. published is a pointer: documents written before the
// flag existed have no field at all.
type postDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Excerpt     string             `bson:"excerpt"`
	Content     string             `bson:"content"`
	CoverImage  string             `bson:"coverImage,omitempty"`
	Tags        []string           `bson:"tags"`
	Author      string             `bson:"author"`
	Published   *bool              `bson:"published,omitempty"`
	PublishedAt time.Time          `bson:"publishedAt,omitempty"`
}

// resolve maps the stored document to the domain type. A missing published
// field means the post predates drafts and has always been visible, so
// absent resolves to Published; only an explicit false is a Draft.
func (d postDoc) resolve() BlogPost {
	state := Published
	if d.Published != nil && !*d.Published {
		state = Draft
	}
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return BlogPost{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Excerpt:     d.Excerpt,
		Content:     d.Content,
		CoverImage:  d.CoverImage,
		Tags:        tags,
		Author:      d.Author,
		State:       state,
		PublishedAt: d.PublishedAt,
	}
}

type imageDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	URL       string             `bson:"url"`
	Filename  string             `bson:"filename"`
	Prompt    string             `bson:"prompt,omitempty"`
	Source    string             `bson:"source"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d imageDoc) resolve() BlogImage {
	return BlogImage{
		ID:        d.ID.Hex(),
		URL:       d.URL,
		Filename:  d.Filename,
		Prompt:    d.Prompt,
		Source:    d.Source,
		CreatedAt: d.CreatedAt,
	}
}

type contactDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Message   string             `bson:"message"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d contactDoc) resolve() Contact {
	return Contact{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Message:   d.Message,
		CreatedAt: d.CreatedAt,
	}
}
