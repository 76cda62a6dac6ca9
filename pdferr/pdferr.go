// Package pdferr defines the error taxonomy shared by the parser, xref,
// document, reader and writer packages.
//
// Errors are small typed values so callers can use errors.As to react to a
// specific failure kind instead of matching on message text.
package pdferr

import "fmt"

// UnexpectedEOF is returned when the cursor runs off the end of the input
// while looking for a token, a fixed-width field, or a marker.
type UnexpectedEOF struct {
	Context string // what was being read, e.g. "stream length", "xref entry"
}

func (e *UnexpectedEOF) Error() string {
	if e.Context == "" {
		return "pdf: unexpected EOF"
	}
	return fmt.Sprintf("pdf: unexpected EOF while reading %s", e.Context)
}

// SyntaxError reports a grammar violation while parsing a value or xref
// section at the given absolute byte offset.
type SyntaxError struct {
	Pos int64
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("pdf: syntax error at offset %d: %s", e.Pos, e.Msg)
}

// UnknownTrailerToken is returned when the reader's end-of-file dispatch
// loop encounters a line it does not recognize.
type UnknownTrailerToken struct {
	Token string
	Pos   int64
}

func (e *UnknownTrailerToken) Error() string {
	return fmt.Sprintf("pdf: unknown trailer token %q at offset %d", e.Token, e.Pos)
}

// MalformedXRef is returned when a classical xref subsection header or an
// xref-stream width table cannot be parsed.
type MalformedXRef struct {
	Pos int64
	Msg string
}

func (e *MalformedXRef) Error() string {
	return fmt.Sprintf("pdf: malformed xref at offset %d: %s", e.Pos, e.Msg)
}

// DanglingReference is returned by Document.LookupObject when no live
// object matches the requested (objid, gen) pair. Document.Lookup/Resolve
// deliberately do not return it: per 7.3.10 a dangling reference used as
// a value behaves as the null object, not an error.
type DanglingReference struct {
	ObjID uint32
	Gen   uint16
}

func (e *DanglingReference) Error() string {
	return fmt.Sprintf("pdf: dangling reference %d %d R", e.ObjID, e.Gen)
}

// MalformedPageTree is returned by Document.Pages when a /Kids entry is
// neither a /Page nor a /Pages node.
type MalformedPageTree struct {
	ObjID uint32
	Gen   uint16
}

func (e *MalformedPageTree) Error() string {
	return fmt.Sprintf("pdf: object %d %d R is neither /Page nor /Pages", e.ObjID, e.Gen)
}

// UnsupportedFilter is returned when the stream codec is asked to decode or
// encode a filter it does not implement.
type UnsupportedFilter struct {
	Name string
}

func (e *UnsupportedFilter) Error() string {
	return fmt.Sprintf("pdf: unsupported filter %s", e.Name)
}

// EncryptedDocument is returned by reader.Read when the trailer carries an
// /Encrypt entry, checked once the body scan ends and before object
// streams are unpacked. Reading and writing encrypted documents is out
// of scope for this core; failing fast avoids silently yielding garbled
// strings and streams.
type EncryptedDocument struct{}

func (e *EncryptedDocument) Error() string {
	return "pdf: document is encrypted, which this core does not support"
}

// InvariantViolation signals an internal consistency check failed; it
// should never fire on valid input.
type InvariantViolation struct {
	Msg string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("pdf: invariant violation: %s", e.Msg)
}

// UnsupportedVersion is a warning-only condition: an unrecognized PDF
// header version. It implements error so it can be logged uniformly, but
// the reader never returns it as a hard failure.
type UnsupportedVersion struct {
	Version string
}

func (e *UnsupportedVersion) Error() string {
	return fmt.Sprintf("pdf: unsupported version %q", e.Version)
}
