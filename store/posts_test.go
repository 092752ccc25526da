package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func boolPtr(b bool) *bool { return &b }

func TestPostDocResolvePublishState(t *testing.T) {
	tests := []struct {
		name      string
		published *bool
		want      PublishState
	}{
		{"explicit true", boolPtr(true), Published},
		{"explicit false", boolPtr(false), Draft},
		{"absent counts as published", nil, Published},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := postDoc{ID: primitive.NewObjectID(), Title: "t", Published: tt.published}
			assert.Equal(t, tt.want, doc.resolve().State)
		})
	}
}

func TestPostDocResolveNilTags(t *testing.T) {
	doc := postDoc{ID: primitive.NewObjectID(), Title: "t"}
	post := doc.resolve()
	assert.NotNil(t, post.Tags)
	assert.Empty(t, post.Tags)
}

func TestPostDocResolveKeepsStalePublishStamp(t *testing.T) {
	stamp := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
	doc := postDoc{ID: primitive.NewObjectID(), Published: boolPtr(false), PublishedAt: stamp}
	post := doc.resolve()
	// An unpublished post may keep the stamp from an earlier publish cycle.
	assert.Equal(t, Draft, post.State)
	assert.Equal(t, stamp, post.PublishedAt)
}

func TestToggleSetStampsOnlyWhenPublishing(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 30, 0, 0, time.UTC)
	oldStamp := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		state     PublishState
		wantFlag  bool
		wantStamp bool
	}{
		{"draft to published re-stamps", Draft, true, true},
		{"published to draft keeps the old stamp", Published, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := toggleSet(BlogPost{State: tt.state, PublishedAt: oldStamp}, now)

			assert.Equal(t, tt.wantFlag, set["published"])
			stamp, ok := set["publishedAt"]
			assert.Equal(t, tt.wantStamp, ok, "publishedAt presence in $set")
			if tt.wantStamp {
				assert.Equal(t, now, stamp)
			}
		})
	}
}

func TestToggleSetRoundTripRestamps(t *testing.T) {
	// Publish, unpublish, publish again: each publish gets a fresh stamp,
	// the unpublish in between never touches it.
	first := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	second := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

	set := toggleSet(BlogPost{State: Draft}, first)
	assert.Equal(t, first, set["publishedAt"])

	set = toggleSet(BlogPost{State: Published, PublishedAt: first}, second)
	_, ok := set["publishedAt"]
	assert.False(t, ok, "unpublishing must not rewrite the stamp")

	set = toggleSet(BlogPost{State: Draft, PublishedAt: first}, second)
	assert.Equal(t, second, set["publishedAt"], "republish reflects the most recent publish")
}

func TestParseIDRejectsMalformed(t *testing.T) {
	_, err := parseID("definitely-not-an-object-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPublishStateString(t *testing.T) {
	assert.Equal(t, "published", Published.String())
	assert.Equal(t, "draft", Draft.String())
}
