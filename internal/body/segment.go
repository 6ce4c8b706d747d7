// Package body turns host buffer chains into byte views and back.
//
// A host delivers a payload as a chain of [Link] values, some in memory
// and some pointing at regions of temporary files. [Reader] materializes
// such a chain into a [Body]: an ordered list of [Segment] views whose
// concatenation is the payload. In-memory links are borrowed without
// copying; file-backed links are mapped read-only and the mapping is owned
// by the segment until the body is closed. [Rebuild] goes the other way
// and produces a fresh one-link chain from replacement bytes.
package body

import (
	"errors"
	"slices"
)

// Segment is a view over one contiguous span of payload bytes.
//
// A segment either borrows host memory or owns a file mapping. Owned
// mappings are released exactly once, when the enclosing [Body] is closed;
// after that Bytes returns nil.
type Segment struct {
	data    []byte
	release func() error
}

// Bytes returns the span. The slice must not be retained past the scope
// that produced the segment.
func (s *Segment) Bytes() []byte {
	return s.data
}

// Len returns the span length.
func (s *Segment) Len() int {
	return len(s.data)
}

// Mapped reports whether the segment owns a live file mapping.
func (s *Segment) Mapped() bool {
	return s.release != nil
}

func (s *Segment) close() error {
	release := s.release
	s.release = nil
	s.data = nil
	if release == nil {
		return nil
	}
	return release()
}

// Body is the ordered sequence of segments making up one payload.
type Body struct {
	segments []*Segment
}

// Segments returns the segments in wire order.
func (b *Body) Segments() []*Segment {
	return b.segments
}

// Len returns the payload length in bytes.
func (b *Body) Len() int {
	n := 0
	for _, s := range b.segments {
		n += s.Len()
	}
	return n
}

// Bytes returns a copy of the concatenated payload.
func (b *Body) Bytes() []byte {
	out := make([]byte, 0, b.Len())
	for _, s := range b.segments {
		out = append(out, s.data...)
	}
	return out
}

// Close releases every owned mapping, last segment first, and returns
// the join of the release errors. Close is idempotent.
func (b *Body) Close() error {
	segments := b.segments
	b.segments = nil

	var errv []error
	for _, s := range slices.Backward(segments) {
		if err := s.close(); err != nil {
			errv = append(errv, err)
		}
	}
	return errors.Join(errv...)
}
