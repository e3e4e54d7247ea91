package objcache

import (
	"fmt"
	"path/filepath"

	gap "github.com/muesli/go-app-paths"
)

const (
	appName                  = "objcache"
	defaultNamespace         = "default"
	defaultWorkers           = 4
	defaultCompressThreshold = 1024
)

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

// DefaultDir is the container used when Options.Dir is empty:
// <user cache dir>/objcache/<namespace>.
func DefaultDir(namespace string) (string, error) {
	base, err := gap.NewScope(gap.User, appName).CacheDir()
	if err != nil {
		return "", fmt.Errorf("objcache: resolve cache dir: %w", err)
	}
	return filepath.Join(base, coalesce(namespace, defaultNamespace)), nil
}
