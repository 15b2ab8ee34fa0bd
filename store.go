package codewise

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jakeryu/codewise/content"
	"github.com/jakeryu/codewise/locale"
)

// Store wraps the SQLite database holding the compiled posts.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the server keep reading while a build replaces the posts.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
		PRAGMA mmap_size=268435456;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    date TEXT NOT NULL,
    tags TEXT NOT NULL,
    language TEXT NOT NULL DEFAULT 'en',
    published INTEGER NOT NULL DEFAULT 1,
    content TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS posts_language_date ON posts (language, date DESC);
`)
	return err
}

const postColumns = `slug, title, description, date, tags, language, published, content`

// ReplacePosts swaps the stored posts for posts in one transaction.
func (s *Store) ReplacePosts(ctx context.Context, posts []content.Post) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM posts`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO posts (`+postColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range posts {
		published := 0
		if p.Published {
			published = 1
		}
		if _, err := stmt.ExecContext(ctx, p.Slug, p.Title, p.Description, p.Date.UTC().Format(time.RFC3339),
			FormatTags(p.Tags), string(p.Language), published, p.Body); err != nil {
			return fmt.Errorf("insert %s: %w", p.Slug, err)
		}
	}
	return tx.Commit()
}

// ListPosts returns all published posts ordered by date descending.
func (s *Store) ListPosts(ctx context.Context) ([]content.Post, error) {
	return s.queryPosts(ctx, `SELECT `+postColumns+` FROM posts WHERE published = 1 ORDER BY date DESC, slug`)
}

// ListAllPosts returns every post, drafts included, ordered by date descending.
func (s *Store) ListAllPosts(ctx context.Context) ([]content.Post, error) {
	return s.queryPosts(ctx, `SELECT `+postColumns+` FROM posts ORDER BY date DESC, slug`)
}

// GetPost returns a single published post by slug.
func (s *Store) GetPost(ctx context.Context, slug string) (content.Post, error) {
	return s.scanPost(s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = ? AND published = 1`, slug))
}

// GetPostAny returns a post by slug regardless of published status (for admin).
func (s *Store) GetPostAny(ctx context.Context, slug string) (content.Post, error) {
	return s.scanPost(s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = ?`, slug))
}

func (s *Store) queryPosts(ctx context.Context, query string) ([]content.Post, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []content.Post
	for rows.Next() {
		p, err := s.scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanPost(row scanner) (content.Post, error) {
	var slug, title, description, date, tags, lang, body string
	var published int
	if err := row.Scan(&slug, &title, &description, &date, &tags, &lang, &published, &body); err != nil {
		return content.Post{}, err
	}
	d, err := parseStoredDate(date)
	if err != nil {
		return content.Post{}, fmt.Errorf("post %s: %w", slug, err)
	}
	language, err := locale.Parse(lang)
	if err != nil {
		return content.Post{}, fmt.Errorf("post %s: %w", slug, err)
	}
	return content.Post{
		Slug:        slug,
		Title:       title,
		Description: description,
		Date:        d,
		Tags:        ParseTags(tags),
		Language:    language,
		Published:   published == 1,
		Body:        body,
	}, nil
}

// parseStoredDate reads the RFC 3339 timestamps ReplacePosts writes. Bare
// dates from databases built before times were kept are accepted too.
func parseStoredDate(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse(content.DateLayout, s)
	}
	return t.UTC(), err
}

// FormatTags frames tags for storage, e.g. ",Go,Web,".
func FormatTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return "," + strings.Join(tags, ",") + ","
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
