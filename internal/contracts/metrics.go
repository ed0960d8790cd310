package contracts

import (
	"context"
	"time"

	"github.com/mozilla-ai/glanced/internal/domain"
	"github.com/mozilla-ai/glanced/internal/glances"
	"github.com/mozilla-ai/glanced/internal/registry"
)

// MetricsFetcher provides access to live metrics from registered Glances agents.
type MetricsFetcher interface {
	// FetchCategory fetches and normalizes one metric category from a server.
	FetchCategory(ctx context.Context, id string, category glances.Category) (any, error)

	// FetchCategoryPath fetches a category with an optional sub-resource path appended.
	FetchCategoryPath(ctx context.Context, id string, category glances.Category, subPath string) (any, error)

	// Snapshot fetches multiple categories from one server with per-category
	// failure isolation.
	Snapshot(ctx context.Context, id string, categories []glances.Category) (*glances.Snapshot, error)

	// Ping probes a server's agent for reachability and reports latency.
	Ping(ctx context.Context, id string) (time.Duration, error)

	// Registry returns the read-only server registry backing the fetcher.
	Registry() *registry.Registry
}

// HealthMonitor provides a way to interact with the tracked reachability of agents.
type HealthMonitor interface {
	// Status returns the health record for a single tracked server.
	Status(id string) (domain.ServerHealth, error)

	// List returns a copy of all known server health records.
	List() []domain.ServerHealth

	// Update records a health probe result for a tracked server.
	Update(id string, status domain.HealthStatus, latency *time.Duration) error
}
