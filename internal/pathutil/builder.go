package pathutil

import "strconv"

// PathBuilder renders dot/bracket paths such as
// "components.schemas.Pet.oneOf[0]" while a walker descends a tree.
// Segments are written into one reusable buffer; Pop truncates it back to
// where the last segment started.
type PathBuilder struct {
	buf   []byte
	marks []int // buf offset at which each segment begins
}

// Push appends a mapping key.
func (p *PathBuilder) Push(key string) {
	p.marks = append(p.marks, len(p.buf))
	if len(p.marks) > 1 {
		p.buf = append(p.buf, '.')
	}
	p.buf = append(p.buf, key...)
}

// PushIndex appends a sequence index as "[i]".
func (p *PathBuilder) PushIndex(i int) {
	p.marks = append(p.marks, len(p.buf))
	p.buf = append(p.buf, '[')
	p.buf = strconv.AppendInt(p.buf, int64(i), 10)
	p.buf = append(p.buf, ']')
}

// Pop drops the most recent segment. Popping the root is a no-op.
func (p *PathBuilder) Pop() {
	last := len(p.marks) - 1
	if last < 0 {
		return
	}
	p.buf = p.buf[:p.marks[last]]
	p.marks = p.marks[:last]
}

// Depth reports how many segments are pushed.
func (p *PathBuilder) Depth() int {
	return len(p.marks)
}

// Reset empties the builder, keeping its buffers.
func (p *PathBuilder) Reset() {
	p.buf = p.buf[:0]
	p.marks = p.marks[:0]
}

// String returns the current path; the root is "".
func (p *PathBuilder) String() string {
	return string(p.buf)
}
