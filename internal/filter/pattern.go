package filter

import (
	"bytes"
	"context"
	"fmt"
)

// DefaultForbiddenPattern is the byte string rejected by default.
const DefaultForbiddenPattern = "DEADBEEF"

// ScanMode selects how PatternInspector walks the body.
type ScanMode string

const (
	// ScanSegments searches every segment on its own. A pattern split
	// across two segments is not found.
	ScanSegments ScanMode = "segment"

	// ScanBody searches the concatenated payload. It copies the body.
	ScanBody ScanMode = "body"
)

// PatternInspector rejects bodies containing a forbidden byte string.
type PatternInspector struct {
	pattern []byte
	mode    ScanMode
}

// NewPatternInspector creates an inspector for pattern. An unknown mode
// falls back to ScanSegments.
func NewPatternInspector(pattern []byte, mode ScanMode) *PatternInspector {
	if mode != ScanBody {
		mode = ScanSegments
	}
	return &PatternInspector{pattern: bytes.Clone(pattern), mode: mode}
}

func (f *PatternInspector) Name() string { return "pattern" }

func (f *PatternInspector) Inspect(_ context.Context, s *Subject) (Decision, error) {
	if len(f.pattern) == 0 || s.Body == nil {
		return Allow(), nil
	}

	if f.mode == ScanBody {
		if bytes.Contains(s.Body.Bytes(), f.pattern) {
			return f.reject(), nil
		}
		return Allow(), nil
	}

	for _, seg := range s.Body.Segments() {
		if bytes.Contains(seg.Bytes(), f.pattern) {
			return f.reject(), nil
		}
	}
	return Allow(), nil
}

func (f *PatternInspector) reject() Decision {
	return Reject(fmt.Sprintf("forbidden pattern %q found in body", f.pattern))
}
