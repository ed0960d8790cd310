package glances

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mozilla-ai/glanced/internal/errors"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name            string
		category        Category
		body            string
		isErrorExpected bool
		expectedErrMsg  string
	}{
		{
			name:     "valid object for object category",
			category: CategoryCPU,
			body:     `{"total": 12.5, "user": 3.1}`,
		},
		{
			name:     "valid array for array category",
			category: CategoryNetwork,
			body:     `[{"interface_name": "eth0"}]`,
		},
		{
			name:     "scalar allowed for shapeless category",
			category: CategoryUptime,
			body:     `"22 days, 3:42:15"`,
		},
		{
			name:     "valid array for containers category",
			category: CategoryContainers,
			body:     `[{"name": "web", "cpu_percent": 1.2}]`,
		},
		{
			name:     "valid object for connections category",
			category: CategoryConnections,
			body:     `{"ESTABLISHED": 12, "LISTEN": 4}`,
		},
		{
			name:            "object rejected for containers category",
			category:        CategoryContainers,
			body:            `{"name": "web"}`,
			isErrorExpected: true,
			expectedErrMsg:  "expects a JSON array",
		},
		{
			name:     "extra unexpected fields tolerated",
			category: CategoryCPU,
			body:     `{"total": 12.5, "brand_new_field": {"nested": [1, 2, 3]}}`,
		},
		{
			name:            "empty body",
			category:        CategoryCPU,
			body:            "",
			isErrorExpected: true,
			expectedErrMsg:  "empty body",
		},
		{
			name:            "whitespace body",
			category:        CategoryCPU,
			body:            "  \n\t ",
			isErrorExpected: true,
			expectedErrMsg:  "empty body",
		},
		{
			name:            "not JSON",
			category:        CategoryCPU,
			body:            `not-json`,
			isErrorExpected: true,
			expectedErrMsg:  "invalid JSON",
		},
		{
			name:            "truncated JSON",
			category:        CategoryCPU,
			body:            `{"total": 12.`,
			isErrorExpected: true,
			expectedErrMsg:  "invalid JSON",
		},
		{
			name:            "trailing garbage",
			category:        CategoryCPU,
			body:            `{"total": 12.5} trailing`,
			isErrorExpected: true,
			expectedErrMsg:  "trailing data",
		},
		{
			name:            "array where object expected",
			category:        CategoryMem,
			body:            `[1, 2, 3]`,
			isErrorExpected: true,
			expectedErrMsg:  "expects a JSON object",
		},
		{
			name:            "object where array expected",
			category:        CategoryProcessList,
			body:            `{"pid": 1}`,
			isErrorExpected: true,
			expectedErrMsg:  "expects a JSON array",
		},
		{
			name:            "scalar where object expected",
			category:        CategoryCPU,
			body:            `42`,
			isErrorExpected: true,
			expectedErrMsg:  "expects a JSON object",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			value, err := Normalize(tc.category, []byte(tc.body))

			if tc.isErrorExpected {
				require.Error(t, err)
				assert.Equal(t, errors.KindMalformedResponse, errors.KindOf(err))
				assert.ErrorIs(t, err, errors.ErrMalformedResponse)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
				assert.Nil(t, value)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, value)
		})
	}
}

func TestNormalizePassesContentThroughUnmodified(t *testing.T) {
	value, err := Normalize(CategoryCPU, []byte(`{"total": 12.5, "nested": {"deep": ["a", "b"]}}`))
	require.NoError(t, err)

	m, ok := value.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, m, "total")

	nested, ok := m["nested"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"a", "b"}, nested["deep"])
}
