package daemon

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/mozilla-ai/glanced/internal/domain"
	"github.com/mozilla-ai/glanced/internal/errors"
)

// HealthTracker records the reachability of every registered agent.
// The tracked set is fixed at construction time to match the registry,
// so an untracked id is always an error rather than a silent insert.
type HealthTracker struct {
	mu       sync.RWMutex
	statuses map[string]domain.ServerHealth
}

// NewHealthTracker creates a tracker seeded with the given server ids,
// all starting in the unknown state.
func NewHealthTracker(serverIDs []string) *HealthTracker {
	statuses := make(map[string]domain.ServerHealth, len(serverIDs))
	for _, id := range serverIDs {
		statuses[id] = domain.ServerHealth{ID: id, Status: domain.HealthStatusUnknown}
	}
	return &HealthTracker{
		statuses: statuses,
	}
}

// Status returns the health record for a single tracked server.
func (h *HealthTracker) Status(id string) (domain.ServerHealth, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if health, ok := h.statuses[id]; ok {
		return health, nil
	}

	return domain.ServerHealth{}, fmt.Errorf("%w: %s", errors.ErrHealthNotTracked, id)
}

// List returns a copy of all known server health records.
func (h *HealthTracker) List() []domain.ServerHealth {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Collect(maps.Values(h.statuses))
}

// Update records a probe result for a tracked server.
// The current time is recorded as LastChecked, and LastSuccessful is updated
// only when the status is ok. Latency can be nil if the probe failed.
func (h *HealthTracker) Update(id string, status domain.HealthStatus, latency *time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now().UTC()

	prev, exists := h.statuses[id]
	if !exists {
		return fmt.Errorf("%w: %s", errors.ErrHealthNotTracked, id)
	}

	var lastSuccessful *time.Time
	if status == domain.HealthStatusOK {
		lastSuccessful = &now
	} else {
		lastSuccessful = prev.LastSuccessful
	}

	var duration *domain.Duration
	if latency != nil {
		d := domain.Duration(*latency)
		duration = &d
	}

	h.statuses[id] = domain.ServerHealth{
		ID:             id,
		Status:         status,
		Latency:        duration,
		LastChecked:    &now,
		LastSuccessful: lastSuccessful,
	}

	return nil
}
