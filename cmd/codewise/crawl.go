package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/jakeryu/codewise/crawl"
)

func runCrawl(ctx context.Context, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("crawl", flag.ExitOnError)
	base := fs.String("base", cfg.URL, "site to crawl")
	qps := fs.Float64("rate", 5, "requests per second")
	fs.Parse(args)

	c, err := crawl.New(*base, crawl.WithRate(*qps), crawl.WithLogger(logger))
	if err != nil {
		return err
	}
	report, err := c.Run(ctx)
	if err != nil {
		return err
	}
	failures := report.Failures()
	for _, f := range failures {
		fmt.Println(f)
	}
	logger.Info("crawl finished", "base", *base, "checked", len(report.Results), "failed", len(failures))
	if len(failures) > 0 {
		return fmt.Errorf("%d of %d checks failed", len(failures), len(report.Results))
	}
	return nil
}
