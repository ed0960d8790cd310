package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/mozilla-ai/glanced/internal/perms"
)

// Init creates the base skeleton configuration file for the glanced project.
func (d *DefaultLoader) Init(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	content := `# glanced server registry.
# Each entry maps a logical id to a Glances agent endpoint.
#
# [[servers]]
# id = "server1"
# name = "Example server"
# url = "http://127.0.0.1:61208"
# description = "Local test agent"

servers = []
`

	if err := os.WriteFile(path, []byte(content), perms.RegularFile); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// Load reads, decodes and validates the registry config at path.
// The load is all-or-nothing: any invalid entry rejects the whole file.
func (d *DefaultLoader) Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: path cannot be empty", ErrConfigLoadFailed)
	}

	_, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: config file cannot be found, run: 'glanced init'", ErrConfigLoadFailed)
		}
		return nil, fmt.Errorf("%w: failed to stat config file (%s): %w", ErrConfigLoadFailed, path, err)
	}

	cfg, err := decodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode config from file (%s): %w", ErrConfigLoadFailed, path, err)
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: config file is empty (%s)", ErrConfigLoadFailed, path)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: failed to validate config (%s): %w", ErrConfigLoadFailed, path, err)
	}

	return cfg, nil
}

// decodeFile decodes the config using a decoder selected by file extension.
func decodeFile(path string) (*Config, error) {
	var cfg *Config

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	default:
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// ListServers returns a copy of the configured server entries in file order.
func (c *Config) ListServers() []ServerEntry {
	out := make([]ServerEntry, len(c.Servers))
	copy(out, c.Servers)
	return out
}

// validate orchestrates validation of configuration structure.
func (c *Config) validate() error {
	if err := c.validateFields(); err != nil {
		return err
	}
	if err := c.validateDistinct(); err != nil {
		return err
	}
	return nil
}

// validateFields ensures that all ServerEntry's in Config have an id, name and a valid URL.
func (c *Config) validateFields() error {
	for _, entry := range c.Servers {
		if strings.TrimSpace(entry.ID) == "" {
			return fmt.Errorf("server entry has empty id")
		}
		if strings.TrimSpace(entry.Name) == "" {
			return fmt.Errorf("server entry '%s' has empty name", entry.ID)
		}
		if err := validateURL(entry.URL); err != nil {
			return fmt.Errorf("server entry '%s': %w", entry.ID, err)
		}
	}
	return nil
}

// validateDistinct ensures that all server ids in Config are distinct.
func (c *Config) validateDistinct() error {
	seen := map[string]struct{}{}

	for _, entry := range c.Servers {
		if _, exists := seen[entry.ID]; exists {
			return fmt.Errorf("duplicate server id '%s'", entry.ID)
		}
		seen[entry.ID] = struct{}{}
	}
	return nil
}

// validateURL checks the value is an absolute http(s) URL with a host.
func validateURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("server entry has empty url")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url '%s': %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url '%s' must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("url '%s' is missing a host", raw)
	}

	return nil
}
