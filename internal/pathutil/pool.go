package pathutil

import "sync"

// Builders whose buffer grew past maxPooledBytes are left to the GC.
const maxPooledBytes = 4096

var builders = sync.Pool{
	New: func() any {
		return &PathBuilder{
			buf:   make([]byte, 0, 256),
			marks: make([]int, 0, 16),
		}
	},
}

// Get returns an empty PathBuilder. Hand it back with Put when the walk ends.
func Get() *PathBuilder {
	p := builders.Get().(*PathBuilder)
	p.Reset()
	return p
}

// Put recycles p. Nil and oversized builders are dropped.
func Put(p *PathBuilder) {
	if p == nil || cap(p.buf) > maxPooledBytes {
		return
	}
	builders.Put(p)
}
