package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestConfig(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name            string
		fileName        string
		content         string
		isErrorExpected bool
		expectedErrMsg  string
		expectedIDs     []string
	}{
		{
			name:     "valid TOML config",
			fileName: ".glanced.toml",
			content: `
[[servers]]
id = "server1"
name = "Web frontend"
url = "http://10.0.0.5:61208"
description = "Production frontend"

[[servers]]
id = "server2"
name = "Database"
url = "https://db.internal:61208"
`,
			expectedIDs: []string{"server1", "server2"},
		},
		{
			name:     "valid YAML config",
			fileName: "registry.yaml",
			content: `
servers:
  - id: edge
    name: Edge node
    url: http://edge.internal:61208
`,
			expectedIDs: []string{"edge"},
		},
		{
			name:        "valid JSON config",
			fileName:    "registry.json",
			content:     `{"servers": [{"id": "s1", "name": "One", "url": "http://one:61208"}]}`,
			expectedIDs: []string{"s1"},
		},
		{
			name:     "duplicate ids rejected",
			fileName: ".glanced.toml",
			content: `
[[servers]]
id = "server1"
name = "A"
url = "http://a:61208"

[[servers]]
id = "server1"
name = "B"
url = "http://b:61208"
`,
			isErrorExpected: true,
			expectedErrMsg:  "duplicate server id 'server1'",
		},
		{
			name:     "missing id rejected",
			fileName: ".glanced.toml",
			content: `
[[servers]]
name = "A"
url = "http://a:61208"
`,
			isErrorExpected: true,
			expectedErrMsg:  "server entry has empty id",
		},
		{
			name:     "missing name rejected",
			fileName: ".glanced.toml",
			content: `
[[servers]]
id = "server1"
url = "http://a:61208"
`,
			isErrorExpected: true,
			expectedErrMsg:  "has empty name",
		},
		{
			name:     "missing url rejected",
			fileName: ".glanced.toml",
			content: `
[[servers]]
id = "server1"
name = "A"
`,
			isErrorExpected: true,
			expectedErrMsg:  "empty url",
		},
		{
			name:     "non-http scheme rejected",
			fileName: ".glanced.toml",
			content: `
[[servers]]
id = "server1"
name = "A"
url = "ftp://a:61208"
`,
			isErrorExpected: true,
			expectedErrMsg:  "must use http or https",
		},
		{
			name:     "relative url rejected",
			fileName: ".glanced.toml",
			content: `
[[servers]]
id = "server1"
name = "A"
url = "/just/a/path"
`,
			isErrorExpected: true,
			expectedErrMsg:  "must use http or https",
		},
		{
			name:            "empty file rejected",
			fileName:        ".glanced.toml",
			content:         "",
			isErrorExpected: true,
			expectedErrMsg:  "config file is empty",
		},
		{
			name:            "malformed TOML rejected",
			fileName:        ".glanced.toml",
			content:         "[[servers]\nid=",
			isErrorExpected: true,
			expectedErrMsg:  "failed to decode config",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTestConfig(t, t.TempDir(), tc.fileName, tc.content)

			loader := &DefaultLoader{}
			cfg, err := loader.Load(path)

			if tc.isErrorExpected {
				require.Error(t, err)
				require.ErrorIs(t, err, ErrConfigLoadFailed)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
				assert.Nil(t, cfg)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			ids := make([]string, 0, len(cfg.Servers))
			for _, s := range cfg.ListServers() {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tc.expectedIDs, ids)
		})
	}
}

// A rejected config contributes no entries: load is all-or-nothing.
func TestLoadAllOrNothing(t *testing.T) {
	path := writeTestConfig(t, t.TempDir(), ".glanced.toml", `
[[servers]]
id = "good"
name = "Good"
url = "http://good:61208"

[[servers]]
id = "bad"
name = "Bad"
url = "not a url at all"
`)

	loader := &DefaultLoader{}
	cfg, err := loader.Load(path)
	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadMissingFile(t *testing.T) {
	loader := &DefaultLoader{}
	_, err := loader.Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	require.ErrorIs(t, err, ErrConfigLoadFailed)
	assert.Contains(t, err.Error(), "config file cannot be found, run: 'glanced init'")
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".glanced.toml")

	loader := &DefaultLoader{}
	require.NoError(t, loader.Init(path))

	// Skeleton must load cleanly with zero servers.
	cfg, err := loader.Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.ListServers())

	// Second init must refuse to overwrite.
	err = loader.Init(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
