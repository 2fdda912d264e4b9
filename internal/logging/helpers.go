package logging

import (
	"log/slog"
	"time"
)

// Common field helpers for consistent structured logging.

// Key creates a cache key field.
func Key(key string) slog.Attr {
	return slog.String("key", key)
}

// Cache creates a cache name field.
func Cache(name string) slog.Attr {
	return slog.String("cache", name)
}

// Tags creates a tag list field.
func Tags(tags []string) slog.Attr {
	return slog.Any("tags", tags)
}

// TTL creates a TTL field.
func TTL(d time.Duration) slog.Attr {
	return slog.Duration("ttl", d)
}

// Duration logs a duration in milliseconds.
func Duration(name string, d time.Duration) slog.Attr {
	return slog.Int64(name+"_ms", d.Milliseconds())
}

// Err creates an error field.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Count creates a count field.
func Count(name string, count int) slog.Attr {
	return slog.Int(name+"_count", count)
}

// HTTP creates HTTP request fields.
func HTTP(method, path string, status int) []any {
	return []any{
		slog.String("http_method", method),
		slog.String("http_path", path),
		slog.Int("http_status", status),
	}
}
