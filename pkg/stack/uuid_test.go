package stack

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestUUIDUnmarshalYAML(t *testing.T) {
	testCases := []struct {
		name          string
		input         string
		expectedUUID  uuid.UUID
		expectedError bool
	}{
		{
			name:          "Valid UUID",
			input:         "123e4567-e89b-12d3-a456-426614174000",
			expectedUUID:  uuid.MustParse("123e4567-e89b-12d3-a456-426614174000"),
			expectedError: false,
		},
		{
			name:          "Invalid UUID Format",
			input:         "invalid-uuid-format",
			expectedUUID:  uuid.UUID{},
			expectedError: true,
		},
		{
			name:          "Empty UUID String",
			input:         "''",
			expectedUUID:  uuid.UUID{},
			expectedError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u := &UUID{}
			err := yaml.Unmarshal([]byte(tc.input), u)
			if tc.expectedError {
				assert.Error(t, err, "Expected an error but got nil")
			} else {
				assert.NoError(t, err, "Expected no error but got an error")
				assert.Equal(t, tc.expectedUUID, u.UUID, "Expected UUID to be %s, got %s", tc.expectedUUID, u.UUID)
			}
		})
	}
}

func TestUUIDMarshalYAML(t *testing.T) {
	u := UUID{uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")}
	data, err := yaml.Marshal(u)
	require.NoError(t, err)
	assert.Equal(t, "123e4567-e89b-12d3-a456-426614174000", strings.TrimSpace(string(data)))
}
