package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jakeryu/codewise/locale"
	"github.com/jakeryu/codewise/scaffold"
)

func runNewPost(args []string) error {
	fs := flag.NewFlagSet("new-post", flag.ExitOnError)
	lang := fs.String("lang", locale.Default.String(), "post language (en or ko)")
	slug := fs.String("slug", "", "slug without the language marker; derived from the title when empty")
	tags := fs.String("tags", "", "comma separated tags")
	description := fs.String("description", "", "summary shown in lists and feeds")
	dir := fs.String("dir", firstNonEmpty(os.Getenv("CONTENT_DIR"), "content"), "content directory")
	fs.Parse(args)

	title := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if title == "" {
		return fmt.Errorf("usage: codewise new-post [-lang ko] [-slug s] [-tags a,b] <title>")
	}
	l, err := locale.Parse(*lang)
	if err != nil {
		return err
	}

	var tagList []string
	for _, t := range strings.Split(*tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tagList = append(tagList, t)
		}
	}

	path, err := scaffold.NewPost(*dir, scaffold.Post{
		Title:       title,
		Slug:        *slug,
		Description: *description,
		Tags:        tagList,
		Language:    l,
	})
	if err != nil {
		return err
	}
	fmt.Printf("  created %s\n", path)
	fmt.Println("\nSet published: true in the front matter, then run 'codewise build'.")
	return nil
}
