package version

import (
	"testing"

	"github.com/rxtech-lab/argo-consensus/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCompatibility(t *testing.T) {
	tests := []struct {
		name          string
		current       string
		required      string
		expectError   bool
		errorContains string
	}{
		{name: "exact match", current: "1.2.0", required: "1.2.0"},
		{name: "minor differs", current: "1.3.0", required: "1.2.0"},
		{name: "v prefix on build", current: "v1.0.4", required: "1.0.0"},
		{name: "empty requirement", current: "1.0.0", required: ""},
		{name: "development build", current: "main", required: "9.0.0"},
		{name: "development requirement", current: "1.0.0", required: "main"},
		{name: "constraint satisfied", current: "1.4.2", required: ">= 1.1, < 2"},
		{name: "tilde constraint", current: "1.2.9", required: "~1.2"},
		{
			name:          "major differs",
			current:       "2.0.0",
			required:      "1.2.0",
			expectError:   true,
			errorContains: "major version mismatch",
		},
		{
			name:          "constraint not satisfied",
			current:       "1.0.0",
			required:      ">= 1.1",
			expectError:   true,
			errorContains: "does not satisfy",
		},
		{
			name:          "invalid build version",
			current:       "not-a-version",
			required:      "1.0.0",
			expectError:   true,
			errorContains: "invalid build version",
		},
		{
			name:          "invalid requirement",
			current:       "1.0.0",
			required:      "one point oh",
			expectError:   true,
			errorContains: "invalid version requirement",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckCompatibility(tt.current, tt.required)

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestGetVersion(t *testing.T) {
	assert.Equal(t, Version, GetVersion())
	require.NoError(t, CheckCompatibility(GetVersion(), "1.0.0"))
}
