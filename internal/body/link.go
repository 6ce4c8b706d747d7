package body

import (
	"bytes"
	"io"
	"os"
)

// Link is one element of a host-owned buffer chain.
//
// An in-memory link carries its payload in Buf[Pos:Last]. A file-backed
// link (InFile set) carries it in File. Next == nil terminates the chain.
type Link struct {
	Buf  []byte
	Pos  int
	Last int

	InFile bool
	File   *FileRegion

	Next *Link
}

// FileRegion is the byte range [Pos, Last) of an open file.
type FileRegion struct {
	File *os.File
	Pos  int64
	Last int64
}

// MemoryLink returns an in-memory link over all of b.
func MemoryLink(b []byte) *Link {
	return &Link{Buf: b, Pos: 0, Last: len(b)}
}

// FileLink returns a file-backed link over [pos, last) of f.
func FileLink(f *os.File, pos, last int64) *Link {
	return &Link{InFile: true, File: &FileRegion{File: f, Pos: pos, Last: last}}
}

// Chain links the given links in order and returns the head.
// Nil entries are ignored.
func Chain(links ...*Link) *Link {
	var head, tail *Link
	for _, l := range links {
		if l == nil {
			continue
		}
		if head == nil {
			head = l
		} else {
			tail.Next = l
		}
		tail = l
		for tail.Next != nil {
			tail = tail.Next
		}
	}
	return head
}

// Size returns the number of payload bytes described by the chain.
// Links with invalid offsets count as empty.
func (l *Link) Size() int64 {
	var n int64
	for ; l != nil; l = l.Next {
		if l.InFile {
			if l.File != nil && l.File.Last > l.File.Pos {
				n += l.File.Last - l.File.Pos
			}
			continue
		}
		if l.Pos >= 0 && l.Pos < l.Last && l.Last <= len(l.Buf) {
			n += int64(l.Last - l.Pos)
		}
	}
	return n
}

// NewStream returns a reader yielding the payload of the chain in wire
// order. File-backed links are read through the file rather than mapped,
// so the stream stays valid for as long as the files stay open.
func NewStream(head *Link) io.Reader {
	var readers []io.Reader
	for l := head; l != nil; l = l.Next {
		if l.InFile {
			if l.File != nil && l.File.File != nil && l.File.Last > l.File.Pos {
				readers = append(readers, io.NewSectionReader(l.File.File, l.File.Pos, l.File.Last-l.File.Pos))
			}
			continue
		}
		if l.Pos >= 0 && l.Pos < l.Last && l.Last <= len(l.Buf) {
			readers = append(readers, bytes.NewReader(l.Buf[l.Pos:l.Last]))
		}
	}
	return io.MultiReader(readers...)
}
