// Package bodytest provides chain builders and an instrumented mapper
// for tests of code consuming host buffer chains.
package bodytest

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/tkingovr/body-guard/internal/body"
)

// FilePadding is the number of filler bytes written in front of the
// payload of every file-backed link, so mapping offsets are never page
// aligned.
const FilePadding = 4099

// ErrInjected is returned by a CountingMapper told to fail.
var ErrInjected = errors.New("injected map failure")

// CountingMapper wraps a Mapper and counts maps and releases.
type CountingMapper struct {
	Inner body.Mapper

	// FailAt makes the n-th Map call (1-based) fail with ErrInjected.
	FailAt int

	mu       sync.Mutex
	maps     int
	releases int
}

// NewCountingMapper wraps the platform mapper.
func NewCountingMapper() *CountingMapper {
	return &CountingMapper{Inner: body.DefaultMapper()}
}

func (m *CountingMapper) Map(f *os.File, off, n int64) ([]byte, func() error, error) {
	m.mu.Lock()
	call := m.maps + 1
	m.mu.Unlock()
	if m.FailAt > 0 && call == m.FailAt {
		return nil, nil, ErrInjected
	}

	view, release, err := m.Inner.Map(f, off, n)
	if err != nil {
		return nil, nil, err
	}
	m.mu.Lock()
	m.maps++
	m.mu.Unlock()
	return view, func() error {
		m.mu.Lock()
		m.releases++
		m.mu.Unlock()
		return release()
	}, nil
}

// Counts returns the number of successful maps and of releases so far.
func (m *CountingMapper) Counts() (maps, releases int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maps, m.releases
}

// FileLink writes data to a temporary file behind FilePadding filler bytes
// and returns a file-backed link over exactly data. The file is closed
// when the test ends.
func FileLink(t testing.TB, data []byte) *body.Link {
	t.Helper()
	path := filepath.Join(t.TempDir(), "body-"+strconv.Itoa(len(data)))
	content := make([]byte, FilePadding, FilePadding+len(data))
	for i := range content {
		content[i] = 'x'
	}
	content = append(content, data...)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return body.FileLink(f, FilePadding, int64(len(content)))
}

// Build returns a chain with one link per part. layout[i] selects the kind
// of link i: 'm' for memory, 'f' for file-backed. Memory links are placed
// inside a larger buffer so Pos is never zero.
func Build(t testing.TB, layout string, parts ...string) *body.Link {
	t.Helper()
	if len(layout) != len(parts) {
		t.Fatalf("layout %q does not describe %d parts", layout, len(parts))
	}
	links := make([]*body.Link, 0, len(parts))
	for i, p := range parts {
		switch layout[i] {
		case 'm':
			buf := []byte("<" + p + ">")
			links = append(links, &body.Link{Buf: buf, Pos: 1, Last: 1 + len(p)})
		case 'f':
			links = append(links, FileLink(t, []byte(p)))
		default:
			t.Fatalf("unknown link kind %q", layout[i])
		}
	}
	return body.Chain(links...)
}
