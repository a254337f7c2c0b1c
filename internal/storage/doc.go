// Package storage persists the bot's snapshot documents (scheduler state,
// and anything else keyed by name) behind a small Store interface.
//
// The file driver keeps one JSON document per key next to the configured
// path prefix, writes atomically (tmp + rename), and quarantines a corrupt
// document by renaming it aside instead of failing startup. The sqlite
// driver is compiled in behind the "sqlite" build tag.
package storage
