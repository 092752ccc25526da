package studiosite

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/eringen/studiosite/store"
)

// PostCache is an in-memory cache of published blog posts and tags with TTL.
// Reads on the public surface hit the cache; admin mutations Invalidate it.
type PostCache struct {
	mu      sync.RWMutex
	posts   []store.BlogPost
	tags    []string
	fetched time.Time
	ttl     time.Duration
	source  PostStore
}

// NewPostCache creates a PostCache backed by the given post store.
func NewPostCache(posts PostStore, ttl time.Duration) *PostCache {
	return &PostCache{source: posts, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.tags = nil
	c.mu.Unlock()
}

func (c *PostCache) load(ctx context.Context) error {
	if c.valid() {
		return nil
	}
	posts, err := c.source.ListPublished(ctx)
	if err != nil {
		return err
	}
	c.posts = posts
	c.tags = collectTags(posts)
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns cached posts and tags after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PostCache) ensureLoaded(ctx context.Context) ([]store.BlogPost, []string, error) {
	c.mu.RLock()
	if c.valid() {
		posts, tags := c.posts, c.tags
		c.mu.RUnlock()
		return posts, tags, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return nil, nil, err
	}
	return c.posts, c.tags, nil
}

// ListPosts returns published posts, optionally filtered by tag.
func (c *PostCache) ListPosts(ctx context.Context, tag string) ([]store.BlogPost, error) {
	posts, _, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return posts, nil
	}
	normalized := normalizeTag(tag)
	var filtered []store.BlogPost
	for _, p := range posts {
		for _, t := range p.Tags {
			if normalizeTag(t) == normalized {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered, nil
}

// ListTags returns all unique tags from published posts, sorted.
func (c *PostCache) ListTags(ctx context.Context) ([]string, error) {
	_, tags, err := c.ensureLoaded(ctx)
	return tags, err
}

// GetPost returns a single published post by id from the cache.
func (c *PostCache) GetPost(ctx context.Context, id string) (store.BlogPost, error) {
	posts, _, err := c.ensureLoaded(ctx)
	if err != nil {
		return store.BlogPost{}, err
	}
	for _, p := range posts {
		if p.ID == id {
			return p, nil
		}
	}
	return store.BlogPost{}, store.ErrNotFound
}

func collectTags(posts []store.BlogPost) []string {
	seen := make(map[string]string)
	for _, p := range posts {
		for _, t := range p.Tags {
			key := normalizeTag(t)
			if key == "" {
				continue
			}
			if _, ok := seen[key]; !ok {
				seen[key] = strings.TrimSpace(t)
			}
		}
	}
	tags := make([]string, 0, len(seen))
	for _, t := range seen {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
