package codewise

import "embed"

// EmbeddedAssets holds the UI message files and the default static assets
// (style.css, favicon.svg) served under /public/ when the static
// directory lacks them.
//
//go:embed locales/*.toml static/*
var EmbeddedAssets embed.FS
