// Package settings connects tool enablement flags held outside the process
// to a catalog.
//
// A Store holds one enabled flag per tool id. Stores that can push updates
// also implement Watcher. Apply copies the stored flags onto a catalog once;
// Follow keeps applying changes until its context ends. Both run between
// selections; the selector itself never touches a store.
//
//	store, err := settings.NewRedisStore(settings.RedisOptions{URL: "redis://localhost:6379"})
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//
//	if _, err := settings.Apply(ctx, store, cat); err != nil {
//		return err
//	}
//	go settings.Follow(ctx, store, cat, logger)
package settings

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
)

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("settings store is closed")

// Change is one enablement update.
type Change struct {
	ToolID  string `json:"tool_id"`
	Enabled bool   `json:"enabled"`
}

// Store holds enablement flags keyed by tool id.
type Store interface {
	// Load returns every stored flag. Tools without a flag are absent.
	Load(ctx context.Context) (map[string]bool, error)

	// SetEnabled stores the flag for a tool and notifies watchers.
	SetEnabled(ctx context.Context, toolID string, enabled bool) error

	// Close releases the store's resources.
	Close() error
}

// Watcher streams flag changes. The channel is closed when ctx ends or the
// store is closed.
type Watcher interface {
	Watch(ctx context.Context) (<-chan Change, error)
}

// Target receives flag updates. *catalog.Catalog implements it.
type Target interface {
	SetEnabled(toolID string, enabled bool) error
}

// Apply loads all flags from store and applies them to target. Flags for
// tools target does not know are skipped. It returns the number of flags
// applied. When the store reports malformed flags alongside valid ones, the
// valid ones are still applied and the load error is returned.
func Apply(ctx context.Context, store Store, target Target) (int, error) {
	flags, err := store.Load(ctx)
	if flags == nil && err != nil {
		return 0, err
	}

	applied := 0
	for id, enabled := range flags {
		if setErr := target.SetEnabled(id, enabled); setErr != nil {
			continue
		}
		applied++
	}
	return applied, err
}

// Follow applies changes from w to target until ctx ends or the watch
// channel closes. It returns ctx.Err() when the context ends, even when the
// store closes the channel in response, and nil when the store closes it on
// its own.
func Follow(ctx context.Context, w Watcher, target Target, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	changes, err := w.Watch(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case change, ok := <-changes:
			if !ok {
				return ctx.Err()
			}
			if err := target.SetEnabled(change.ToolID, change.Enabled); err != nil {
				logger.DebugContext(ctx, "ignoring enablement change",
					"tool", change.ToolID,
					"error", err,
				)
				continue
			}
			logger.InfoContext(ctx, "tool enablement changed",
				"tool", change.ToolID,
				"enabled", change.Enabled,
			)
		}
	}
}

func formatFlag(enabled bool) string {
	return strconv.FormatBool(enabled)
}

func parseFlag(s string) (bool, error) {
	return strconv.ParseBool(s)
}
