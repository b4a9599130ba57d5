package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathBuilder(t *testing.T) {
	tests := []struct {
		name  string
		build func(p *PathBuilder)
		want  string
	}{
		{
			name:  "empty is the root",
			build: func(p *PathBuilder) {},
			want:  "",
		},
		{
			name: "keys joined with dots",
			build: func(p *PathBuilder) {
				p.Push("components")
				p.Push("schemas")
				p.Push("Pet")
			},
			want: "components.schemas.Pet",
		},
		{
			name: "indices use brackets",
			build: func(p *PathBuilder) {
				p.Push("oneOf")
				p.PushIndex(0)
				p.Push("properties")
			},
			want: "oneOf[0].properties",
		},
		{
			name: "index at the root",
			build: func(p *PathBuilder) {
				p.PushIndex(3)
				p.Push("a")
			},
			want: "[3].a",
		},
		{
			name: "keys containing slashes are kept verbatim",
			build: func(p *PathBuilder) {
				p.Push("paths")
				p.Push("/deployments/{deployment-id}/completions")
			},
			want: "paths./deployments/{deployment-id}/completions",
		},
		{
			name: "pop after index",
			build: func(p *PathBuilder) {
				p.Push("allOf")
				p.PushIndex(1)
				p.Pop()
				p.Push("x")
			},
			want: "allOf.x",
		},
		{
			name: "pop on empty does not panic",
			build: func(p *PathBuilder) {
				p.Pop()
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &PathBuilder{}
			tt.build(p)
			assert.Equal(t, tt.want, p.String())
		})
	}
}

func TestPathBuilder_ResetAndDepth(t *testing.T) {
	p := &PathBuilder{}
	p.Push("a")
	p.PushIndex(0)
	assert.Equal(t, 2, p.Depth())

	p.Reset()
	assert.Equal(t, 0, p.Depth())
	assert.Equal(t, "", p.String())

	p.Push("c")
	assert.Equal(t, "c", p.String())
}

func TestPool_GetPut(t *testing.T) {
	p := Get()
	p.Push("test")
	Put(p)

	p2 := Get()
	assert.Equal(t, "", p2.String(), "pooled builders must come back reset")
	Put(p2)
	Put(nil)
}

func TestPool_DropsOversized(t *testing.T) {
	p := Get()
	p.Push(string(make([]byte, maxPooledBytes+1)))
	assert.NotPanics(t, func() { Put(p) })
}

func TestPathBuilder_PopRestoresPrefix(t *testing.T) {
	p := &PathBuilder{}
	p.Push("paths")
	p.Push("/chat/completions")
	before := p.String()

	p.Push("post")
	p.Push("requestBody")
	p.PushIndex(12)
	assert.Equal(t, "paths./chat/completions.post.requestBody[12]", p.String())

	p.Pop()
	p.Pop()
	p.Pop()
	assert.Equal(t, before, p.String())
	assert.Equal(t, 2, p.Depth())
}
