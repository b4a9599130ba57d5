package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestCommand(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"fx", "fix"},
		{"fixx", "fix"},
		{"mpc", "mcp"},
		{"mc", "mcp"},
		{"versio", "version"},
		{"verison", "version"},
		{"hep", "help"},

		{"xyz", ""},
		{"normalize", ""},
		{"validatation", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, suggestCommand(tt.input))
		})
	}
}

func TestEditDistance(t *testing.T) {
	assert.Equal(t, 0, editDistance("fix", "fix"))
	assert.Equal(t, 3, editDistance("", "mcp"))
	assert.Equal(t, 1, editDistance("café", "cafe"))
	assert.Equal(t, 2, editDistance("verison", "version"))
}
