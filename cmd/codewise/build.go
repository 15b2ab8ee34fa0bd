package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jakeryu/codewise"
	"github.com/jakeryu/codewise/content"
)

func runBuild(ctx context.Context, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	contentDir := fs.String("content", firstNonEmpty(cfg.ContentDir, "content"), "directory of Markdown posts")
	dbPath := fs.String("db", cfg.DatabasePath, "SQLite database to write")
	imagesDir := fs.String("images", "", "directory of source images (skipped when empty)")
	publicDir := fs.String("public", cfg.StaticDir, "static directory; images go to <public>/images")
	maxWidth := fs.Int("width", content.MaxImageWidth, "maximum image width in pixels")
	fs.Parse(args)

	posts, err := content.LoadDir(os.DirFS(*contentDir), ".")
	if err != nil {
		var joined interface{ Unwrap() []error }
		if errors.As(err, &joined) {
			for _, e := range joined.Unwrap() {
				fmt.Fprintf(os.Stderr, "  %v\n", e)
			}
			return fmt.Errorf("%d invalid posts in %s", len(joined.Unwrap()), *contentDir)
		}
		return err
	}

	store, err := codewise.NewStore(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.ReplacePosts(ctx, posts); err != nil {
		return err
	}
	drafts := 0
	for _, p := range posts {
		if !p.Published {
			drafts++
		}
	}
	logger.Info("posts compiled", "db", *dbPath, "posts", len(posts), "drafts", drafts)

	if *imagesDir == "" {
		return nil
	}
	images, err := content.ProcessImages(*imagesDir, filepath.Join(*publicDir, "images"), *maxWidth)
	if err != nil {
		return err
	}
	written := 0
	for _, img := range images {
		if img.Skipped {
			continue
		}
		written++
		logger.Debug("image written", "file", img.Filename, "width", img.Width, "height", img.Height, "bytes", img.Size)
	}
	logger.Info("images processed", "total", len(images), "written", written)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
