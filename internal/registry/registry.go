// Package registry holds the immutable mapping from logical server ids to
// Glances agent endpoints, and resolves ids plus API path fragments into
// fully-qualified request URLs. It performs no I/O.
package registry

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mozilla-ai/glanced/internal/config"
	"github.com/mozilla-ai/glanced/internal/errors"
)

// Descriptor describes one monitored server. Immutable after registry construction.
type Descriptor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// Registry is an ordered, read-only id -> Descriptor mapping.
// It is safe for concurrent reads; there is no write path after construction.
type Registry struct {
	order []string
	byID  map[string]Descriptor
}

// New builds a Registry from configured server entries, preserving their order.
// Entries are expected to be pre-validated by config loading; duplicate ids and
// unparseable URLs are still rejected so fixture registries get the same guarantees.
func New(entries []config.ServerEntry) (*Registry, error) {
	r := &Registry{
		order: make([]string, 0, len(entries)),
		byID:  make(map[string]Descriptor, len(entries)),
	}

	for _, e := range entries {
		id := strings.TrimSpace(e.ID)
		if id == "" {
			return nil, fmt.Errorf("server entry has empty id")
		}
		if _, exists := r.byID[id]; exists {
			return nil, fmt.Errorf("duplicate server id '%s'", id)
		}

		u, err := url.Parse(strings.TrimSpace(e.URL))
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("server entry '%s' has invalid url '%s'", id, e.URL)
		}

		r.order = append(r.order, id)
		r.byID[id] = Descriptor{
			ID:          id,
			Name:        e.Name,
			URL:         strings.TrimRight(u.String(), "/"),
			Description: e.Description,
		}
	}

	return r, nil
}

// Get performs an exact-match lookup. No fuzzy matching.
func (r *Registry) Get(id string) (Descriptor, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// List returns all descriptors in configuration order.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Len returns the number of registered servers.
func (r *Registry) Len() int {
	return len(r.order)
}

// IDs returns all registered server ids in configuration order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Resolve joins the server's base URL with an API path fragment.
// An unknown id returns a FetchError with KindUnknownServer before any
// network attempt. The fragment must not escape the base path via traversal.
func (r *Registry) Resolve(id, fragment string) (string, error) {
	d, ok := r.byID[id]
	if !ok {
		return "", errors.NewUnknownServer(id)
	}

	joined, err := url.JoinPath(d.URL, fragment)
	if err != nil {
		return "", fmt.Errorf("invalid path fragment '%s': %w", fragment, err)
	}

	if joined != d.URL && !strings.HasPrefix(joined, d.URL+"/") {
		return "", fmt.Errorf("path fragment '%s' escapes base url '%s'", fragment, d.URL)
	}

	return joined, nil
}
