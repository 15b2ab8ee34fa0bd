package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/jakeryu/codewise"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "build":
		err = runBuild(ctx, os.Args[2:])
	case "new-post":
		err = runNewPost(os.Args[2:])
	case "crawl":
		err = runCrawl(ctx, os.Args[2:])
	case "version":
		fmt.Printf("codewise %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// setup loads the configuration and installs the default logger.
func setup() (codewise.SiteConfig, *slog.Logger, error) {
	cfg, err := codewise.LoadConfig()
	if err != nil {
		return cfg, nil, err
	}
	logger := codewise.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogColor)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func runServe(ctx context.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	app := codewise.New(cfg, codewise.WithLogger(logger))
	defer app.Close()
	return app.Start(ctx)
}

func printUsage() {
	fmt.Println(`codewise - a bilingual (English/Korean) blog

Usage:
  codewise <command> [arguments]

Commands:
  serve                      Start the web server
  build [flags]              Compile Markdown posts into the database and process images
  new-post [-lang ko] title  Create a draft post in the content directory
  crawl [-base URL]          Fetch every sitemap page in each language and report failures
  version                    Print the codewise version
  help                       Show this help message

Configuration is read from the environment and from .env when present.

Examples:
  codewise build -content content -images assets/images
  codewise new-post -lang ko -slug clean-architecture "클린 아키텍처"
  codewise crawl -base http://localhost:3000`)
}
