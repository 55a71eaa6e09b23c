package engine

import (
	"fmt"
	"log/slog"
	"os"
)

// WithWorkspace creates a private temporary directory, runs fn inside it and
// removes the directory afterwards whatever fn returned. Removal failures are
// logged, never returned.
func WithWorkspace[T any](prefix string, fn func(dir string) (T, error)) (T, error) {
	dir, err := os.MkdirTemp(Cfg.tempRoot(), "go_youtube-"+prefix+"-*")
	if err != nil {
		var zero T
		return zero, fmt.Errorf("create workspace: %w", err)
	}
	defer removeWorkspace(dir)
	return fn(dir)
}

func removeWorkspace(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		slog.Warn("workspace: cleanup failed", slog.String("dir", dir), slog.Any("error", err))
	}
}
