package codewise

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/jakeryu/codewise/content"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = sql.ErrNoRows

// PostCache is an in-memory cache of the published posts with TTL. The
// slices it returns are shared between requests and must not be modified.
type PostCache struct {
	mu      sync.RWMutex
	posts   []content.Post
	bySlug  map[string]int
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s *Store, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.bySlug != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.bySlug = nil
	c.mu.Unlock()
}

func (c *PostCache) load(ctx context.Context) error {
	if c.valid() {
		return nil
	}
	posts, err := c.store.ListPosts(ctx)
	if err != nil {
		return err
	}
	bySlug := make(map[string]int, len(posts))
	for i, p := range posts {
		bySlug[p.Slug] = i
	}
	c.posts = posts
	c.bySlug = bySlug
	c.fetched = time.Now()
	return nil
}

// ensureLoaded tries a read lock first and only takes the write lock when a
// reload is needed.
func (c *PostCache) ensureLoaded(ctx context.Context) ([]content.Post, map[string]int, error) {
	c.mu.RLock()
	if c.valid() {
		posts, bySlug := c.posts, c.bySlug
		c.mu.RUnlock()
		return posts, bySlug, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return nil, nil, err
	}
	return c.posts, c.bySlug, nil
}

// Posts returns all published posts, newest first.
func (c *PostCache) Posts(ctx context.Context) ([]content.Post, error) {
	posts, _, err := c.ensureLoaded(ctx)
	return posts, err
}

// Post returns a single published post by slug.
func (c *PostCache) Post(ctx context.Context, slug string) (content.Post, error) {
	posts, bySlug, err := c.ensureLoaded(ctx)
	if err != nil {
		return content.Post{}, err
	}
	i, ok := bySlug[slug]
	if !ok {
		return content.Post{}, ErrNotFound
	}
	return posts[i], nil
}
