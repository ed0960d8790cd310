package glances

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mozilla-ai/glanced/internal/errors"
)

// maxConcurrentFetches bounds how many category fetches run at once
// during an aggregate snapshot.
const maxConcurrentFetches = 4

// Failure is the per-category error slot of a partially failed snapshot.
type Failure struct {
	Kind    errors.Kind `json:"kind"`
	Message string      `json:"message"`
}

// Snapshot is one point-in-time read of multiple categories from one server.
// Failed categories carry a Failure slot instead of data; the rest of the
// snapshot is still populated.
type Snapshot struct {
	Server     string               `json:"server"`
	Categories map[Category]any     `json:"categories"`
	Failures   map[Category]Failure `json:"failures,omitempty"`
}

// Snapshot fetches the given categories from one server concurrently.
// Category failures are isolated: one failed category never cancels or
// corrupts another's result. An unknown server id fails the whole call
// before any network attempt.
func (c *Client) Snapshot(ctx context.Context, id string, categories []Category) (*Snapshot, error) {
	if _, ok := c.registry.Get(id); !ok {
		return nil, errors.NewUnknownServer(id)
	}
	if len(categories) == 0 {
		categories = SnapshotCategories
	}

	snap := &Snapshot{
		Server:     id,
		Categories: make(map[Category]any, len(categories)),
		Failures:   make(map[Category]Failure),
	}

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(maxConcurrentFetches)

	for _, category := range categories {
		g.Go(func() error {
			value, err := c.FetchCategory(ctx, id, category)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// Goroutines never return errors: an errgroup error would
				// stop the group, and failed categories must not block others.
				snap.Failures[category] = Failure{
					Kind:    errors.KindOf(err),
					Message: err.Error(),
				}
				return nil
			}
			snap.Categories[category] = value
			return nil
		})
	}

	_ = g.Wait()

	if len(snap.Failures) == 0 {
		snap.Failures = nil
	}

	return snap, nil
}
