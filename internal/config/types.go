package config

var (
	_ Provider = (*DefaultLoader)(nil)
)

// Loader loads and validates a server registry configuration file.
type Loader interface {
	Load(path string) (*Config, error)
}

// Initializer creates a skeleton configuration file.
type Initializer interface {
	Init(path string) error
}

// Provider combines loading and initialization of configuration.
type Provider interface {
	Initializer
	Loader
}

// DefaultLoader is the standard file-backed config Provider.
// The decode format is selected by file extension: TOML by default,
// with YAML (.yaml/.yml) and JSON (.json) also supported.
type DefaultLoader struct{}

// Config represents the .glanced.toml file structure.
// It is validated in full before use; a rejected file contributes no entries.
type Config struct {
	Servers []ServerEntry `json:"servers" toml:"servers" yaml:"servers"`
}

// ServerEntry describes a single monitored server running a Glances agent.
// Entries are immutable once loaded.
type ServerEntry struct {
	// ID is the unique logical identifier referenced in tool calls.
	// e.g. 'server1'
	ID string `json:"id" toml:"id" yaml:"id"`

	// Name is the human-readable display label.
	Name string `json:"name" toml:"name" yaml:"name"`

	// URL is the absolute base URL of the agent's HTTP API.
	// e.g. 'http://10.0.0.5:61208'
	URL string `json:"url" toml:"url" yaml:"url"`

	// Description optionally describes the server (environment, role, owner).
	Description string `json:"description,omitempty" toml:"description,omitempty" yaml:"description,omitempty"`
}
