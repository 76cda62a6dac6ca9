// Package cursor provides a random-access view over an in-memory PDF byte
// stream: absolute seeks, line/token reads, and a scoped temporary-seek
// primitive used while chasing xref and stream offsets.
package cursor

import (
	"bytes"

	"github.com/benoitkugler/pdfcore/pdferr"
)

// Cursor is a random-access reader over a fixed byte slice. All positions
// are absolute offsets into that slice.
type Cursor struct {
	data []byte
	pos  int64
}

// New wraps data for cursor-style access. The cursor does not copy data.
func New(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Len returns the total size of the underlying byte slice.
func (c *Cursor) Len() int64 { return int64(len(c.data)) }

// Tell returns the current absolute offset.
func (c *Cursor) Tell() int64 { return c.pos }

// Seek moves the cursor to an absolute offset. Seeking past the end is
// allowed (subsequent reads report EOF); seeking before 0 is clamped to 0.
func (c *Cursor) Seek(abs int64) {
	if abs < 0 {
		abs = 0
	}
	c.pos = abs
}

// Bytes returns the unread remainder of the underlying slice, without
// advancing the cursor.
func (c *Cursor) Bytes() []byte {
	if c.pos >= int64(len(c.data)) {
		return nil
	}
	return c.data[c.pos:]
}

// Peek returns up to n bytes starting at the cursor without advancing
// the main position, truncating near EOF.
func (c *Cursor) Peek(n int) []byte {
	start := c.pos
	if start >= int64(len(c.data)) {
		return nil
	}
	end := start + int64(n)
	if end > int64(len(c.data)) {
		end = int64(len(c.data))
	}
	return c.data[start:end]
}

// ReadN consumes and returns exactly n bytes, or an UnexpectedEOF error if
// fewer remain.
func (c *Cursor) ReadN(n int, context string) ([]byte, error) {
	start := c.pos
	end := start + int64(n)
	if end > int64(len(c.data)) {
		return nil, &pdferr.UnexpectedEOF{Context: context}
	}
	c.pos = end
	return c.data[start:end], nil
}

// ReadByte consumes and returns the next byte, or ok=false at EOF. The
// lowest-level primitive: the tokenizer's scanner is built entirely on
// this and UnreadByte.
func (c *Cursor) ReadByte() (byte, bool) {
	if c.pos >= int64(len(c.data)) {
		return 0, false
	}
	b := c.data[c.pos]
	c.pos++
	return b, true
}

// UnreadByte steps the cursor back by one byte. Only valid immediately
// after a successful ReadByte.
func (c *Cursor) UnreadByte() {
	if c.pos > 0 {
		c.pos--
	}
}

// ReadLine reads up to and including the next "\n" or "\r\n", returning the
// line without its terminator. At EOF it returns an empty slice.
func (c *Cursor) ReadLine() []byte {
	if c.pos >= int64(len(c.data)) {
		return nil
	}
	rest := c.data[c.pos:]
	idx := bytes.IndexByte(rest, '\n')
	if idx < 0 {
		c.pos = int64(len(c.data))
		return trimCR(rest)
	}
	line := rest[:idx]
	c.pos += int64(idx) + 1
	return trimCR(line)
}

func trimCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}
	return b
}

// ReadLineNonEmpty reads lines, skipping blank ones, and returns the first
// non-empty line (after trimming its terminator). Returns nil at EOF.
func (c *Cursor) ReadLineNonEmpty() []byte {
	for c.pos < int64(len(c.data)) {
		line := c.ReadLine()
		if len(bytes.TrimSpace(line)) > 0 {
			return line
		}
	}
	return nil
}

// ReadUntilToken scans forward for the first occurrence of marker. It
// returns the bytes up to that occurrence. If rewind is false, the cursor
// is left just after marker; if true, it is left at the start of marker.
// Returns UnexpectedEOF if marker never appears.
func (c *Cursor) ReadUntilToken(marker []byte, rewind bool) ([]byte, error) {
	rest := c.data[c.pos:]
	idx := bytes.Index(rest, marker)
	if idx < 0 {
		return nil, &pdferr.UnexpectedEOF{Context: "token " + string(marker)}
	}
	out := rest[:idx]
	if rewind {
		c.pos += int64(idx)
	} else {
		c.pos += int64(idx) + int64(len(marker))
	}
	return out, nil
}

// Mark is the value returned by Tempseek, exposing the offset the scope
// temporarily moved away from (useful for diagnostics/logging).
type Mark struct {
	PrevOffset int64
	cursor     *Cursor
}

// Release restores the cursor to the offset recorded when the Mark was
// created. Safe to call multiple times.
func (m *Mark) Release() {
	m.cursor.pos = m.PrevOffset
}

// Tempseek snapshots the current offset, seeks to abs, and returns a Mark
// whose Release restores the original offset. Callers should `defer
// mark.Release()` immediately so restoration happens even if the scoped
// work returns an error or panics.
func (c *Cursor) Tempseek(abs int64) *Mark {
	m := &Mark{PrevOffset: c.pos, cursor: c}
	c.Seek(abs)
	return m
}
