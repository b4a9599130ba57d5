package mcpserver

import (
	"fmt"
	"math"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	fixes := []string{
		"components.schemas.ChatMessage.oneOf[0]",
		"components.schemas.ChatMessage.oneOf[1]",
		"components.schemas.ChatMessage.oneOf[2]",
		"components.schemas.Tool.anyOf[0]",
		"components.schemas.Tool.anyOf[1]",
	}

	tests := []struct {
		name   string
		items  []string
		offset int
		limit  int
		want   []string
	}{
		{"zero limit uses default", fixes, 0, 0, fixes},
		{"negative limit uses default", fixes, 0, -3, fixes},
		{"first page", fixes, 0, 2, fixes[:2]},
		{"middle page", fixes, 2, 2, fixes[2:4]},
		{"short last page", fixes, 4, 2, fixes[4:]},
		{"offset only", fixes, 3, 0, fixes[3:]},
		{"limit past end", fixes, 1, 50, fixes[1:]},
		{"huge limit", fixes, 1, math.MaxInt, fixes[1:]},
		{"offset at len", fixes, 5, 2, nil},
		{"negative offset", fixes, -1, 2, nil},
		{"nil input", nil, 0, 2, nil},
		{"empty input", []string{}, 0, 2, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paginate(tt.items, tt.offset, tt.limit))
		})
	}
}

func TestPaginate_Caps(t *testing.T) {
	issues := make([]int, cfg.MaxLimit+500)
	for i := range issues {
		issues[i] = i
	}

	page := paginate(issues, 0, 0)
	assert.Len(t, page, cfg.DefaultLimit)

	page = paginate(issues, 10, len(issues))
	require.Len(t, page, cfg.MaxLimit)
	assert.Equal(t, 10, page[0])
}

func TestSanitizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{
			"home directory",
			fmt.Errorf("failed to open /home/dev/specs/inference.json: no such file"),
			"failed to open <path>: no such file",
		},
		{
			"two paths",
			fmt.Errorf("reference /tmp/api/main.json -> /tmp/api/common_v2.yaml not found"),
			"reference <path> -> <path> not found",
		},
		{
			"URLs are kept",
			fmt.Errorf("transport error fetching https://raw.githubusercontent.com/x/inference.json (HTTP 404)"),
			"transport error fetching https://raw.githubusercontent.com/x/inference.json (HTTP 404)",
		},
		{"no path", fmt.Errorf("parse error at line 5"), "parse error at line 5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeError(tt.err))
		})
	}
}

func TestMakeSlice(t *testing.T) {
	assert.Nil(t, makeSlice[fixApplied](0))

	s := makeSlice[fixApplied](3)
	require.NotNil(t, s)
	assert.Empty(t, s)
	assert.Equal(t, 3, cap(s))
}

func TestErrResult(t *testing.T) {
	result := errResult(fmt.Errorf("failed to open /tmp/spec/inference.json"))
	assert.True(t, result.IsError)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "failed to open <path>", text.Text)
}
