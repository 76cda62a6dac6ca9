package writer

import (
	"bufio"
	"io"
)

// sink is a byte-counting wrapper around the destination writer: every
// write through it keeps written in sync with the absolute file offset,
// so xref entries can be recorded as they're produced instead of
// buffering the whole file in memory first.
//
// Grounded on the teacher's "output" type in model/write.go/
// model/writer/writer.go (bytes()/written/objOffsets), generalized past
// its index-keyed objOffsets slice (which assumes objects are numbered
// densely from 1) into an explicit offset map keyed by object number,
// since this core's object numbers need not be contiguous.
type sink struct {
	w       *bufio.Writer
	written int64
	err     error
}

func newSink(dst io.Writer) *sink {
	return &sink{w: bufio.NewWriter(dst)}
}

func (s *sink) writeBytes(b []byte) {
	if s.err != nil {
		return
	}
	n, err := s.w.Write(b)
	s.written += int64(n)
	if err != nil {
		s.err = err
	}
}

func (s *sink) writeString(str string) {
	s.writeBytes([]byte(str))
}

// offset returns the absolute byte position the next write will land at.
func (s *sink) offset() int64 {
	return s.written
}

// flush pushes buffered bytes to the underlying writer and returns the
// first error the sink encountered, if any.
func (s *sink) flush() error {
	if s.err != nil {
		return s.err
	}
	if err := s.w.Flush(); err != nil {
		s.err = err
	}
	return s.err
}
