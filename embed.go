package blogfront

import "embed"

// EmbeddedAssets holds the assets the default views link to:
// favicon.svg and styles.css.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
