// Package config loads, normalizes, and validates clipforge configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// CLIPFORGE_FFMPEG. The Config type centralizes frame geometry, caption and
// hook styling, music mixing and encoder selection so every assembly stage
// reads the same sanitized values.
package config
