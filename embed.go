package studiosite

import "embed"

// EmbeddedAssets contains static assets shipped with the engine,
// currently just the admin dashboard script.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
