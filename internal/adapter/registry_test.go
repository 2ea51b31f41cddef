package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelfRegistration(t *testing.T) {
	// Both adapters register themselves via init()
	assert.True(t, IsRegistered("postgres"), "postgres adapter should be auto-registered")
	assert.True(t, IsRegistered("duckdb"), "duckdb adapter should be auto-registered")
}

func TestListAdapters(t *testing.T) {
	adapters := ListAdapters()

	assert.Contains(t, adapters, "postgres")
	assert.Contains(t, adapters, "duckdb")
	assert.IsIncreasing(t, adapters, "adapter list should be sorted")
}

func TestIsRegistered(t *testing.T) {
	tests := []struct {
		name     string
		adapter  string
		expected bool
	}{
		{"postgres registered", "postgres", true},
		{"duckdb registered", "duckdb", true},
		{"unknown not registered", "unknown_db", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRegistered(tt.adapter), "IsRegistered(%q)", tt.adapter)
		})
	}
}

func TestNewAdapter(t *testing.T) {
	a, err := NewAdapter(Config{Type: "postgres"}, nil)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "postgres", a.DialectName())

	_, err = NewAdapter(Config{Type: "oracle"}, nil)
	require.Error(t, err)
	var unknownErr *UnknownAdapterError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "oracle", unknownErr.Type)

	_, err = NewAdapter(Config{}, nil)
	assert.Error(t, err, "empty type should be rejected")
}
