package body

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Mapper maps file regions into memory.
type Mapper interface {
	// Map returns a read-only view of n bytes of f starting at off, and a
	// function that releases the view. The function is called exactly once.
	Map(f *os.File, off, n int64) (view []byte, release func() error, err error)
}

// Reader materializes host buffer chains.
type Reader struct {
	mapper Mapper
}

// NewReader returns a Reader mapping file-backed links with m.
// A nil m selects the platform mapper.
func NewReader(m Mapper) *Reader {
	if m == nil {
		m = DefaultMapper()
	}
	return &Reader{mapper: m}
}

// Materialize walks the chain starting at head and returns its segments.
//
// In-memory links are borrowed over exactly [Pos, Last). File-backed links
// are mapped. Zero-length links are skipped. A nil head means there is no
// body at all and yields ErrMissingBody. On error, every mapping created so
// far has already been released. The caller must Close the returned Body.
func (r *Reader) Materialize(ctx context.Context, head *Link) (*Body, error) {
	if head == nil {
		return nil, &Error{Op: "materialize", Kind: ErrMissingBody}
	}

	b := &Body{}
	for i, l := 0, head; l != nil; i, l = i+1, l.Next {
		if err := ctx.Err(); err != nil {
			return nil, errors.Join(err, b.Close())
		}
		seg, err := r.segment(i, l)
		if err != nil {
			return nil, errors.Join(err, b.Close())
		}
		if seg != nil {
			b.segments = append(b.segments, seg)
		}
	}
	return b, nil
}

// Scan materializes the chain, hands the body to fn, and closes the body
// on every exit path. Segments must not be used after fn returns.
func (r *Reader) Scan(ctx context.Context, head *Link, fn func(*Body) error) (err error) {
	b, err := r.Materialize(ctx, head)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := b.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("releasing body: %w", cerr))
		}
	}()
	return fn(b)
}

func (r *Reader) segment(i int, l *Link) (*Segment, error) {
	op := fmt.Sprintf("link %d", i)

	if !l.InFile {
		if l.Pos < 0 || l.Pos > l.Last || l.Last > len(l.Buf) {
			return nil, &Error{Op: op, Kind: ErrMissingBody,
				Err: fmt.Errorf("span [%d, %d) outside %d-byte buffer", l.Pos, l.Last, len(l.Buf))}
		}
		if l.Pos == l.Last {
			return nil, nil
		}
		return &Segment{data: l.Buf[l.Pos:l.Last:l.Last]}, nil
	}

	if l.File == nil || l.File.File == nil {
		return nil, &Error{Op: op, Kind: ErrMissingBody, Err: errors.New("file-backed link without a file")}
	}
	fr := l.File
	if fr.Pos < 0 || fr.Last < fr.Pos {
		return nil, &Error{Op: op, Kind: ErrMapFailed,
			Err: fmt.Errorf("invalid file range [%d, %d)", fr.Pos, fr.Last)}
	}
	if fr.Pos == fr.Last {
		return nil, nil
	}
	view, release, err := r.mapper.Map(fr.File, fr.Pos, fr.Last-fr.Pos)
	if err != nil {
		return nil, &Error{Op: op, Kind: ErrMapFailed, Err: err}
	}
	return &Segment{data: view, release: release}, nil
}
