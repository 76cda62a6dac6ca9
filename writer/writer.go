package writer

import (
	"bufio"
	"bytes"
	"io"
	"sort"

	"github.com/benoitkugler/pdfcore/document"
	"github.com/benoitkugler/pdfcore/internal/filter"
	"github.com/benoitkugler/pdfcore/object"
	"github.com/benoitkugler/pdfcore/xref"
)

// binaryMarker is the comment line 7.5.2 recommends right after the
// version line, its four high-bit bytes telling naive transfer tools the
// file is binary. Matches the marker this core's reader accepts.
const binaryMarker = "%\xB5\xED\xAE\xFB\n"

// Write serializes doc as a complete, non-incremental PDF file, following
// spec.md's five-step procedure: header, uncompressed objects, optionally
// compressed (object-stream-packed) objects, a cross-reference section
// (classical or stream form), and the tail. It never mutates doc.
//
// Grounded on the teacher's pdfWriter.Write in model/write.go, adapted
// from its semantic per-field encoders to this core's generic
// object.Value serializer, and on reader/file/xreftable.go's entry model
// for the xref section itself.
func Write(doc *document.Document, opts Options, dst io.Writer) error {
	opts = opts.normalized()
	s := newSink(dst)

	writeHeader(s, opts)

	objNums := sortedObjNums(doc)
	entries := make(map[uint32]xref.Entry, len(objNums))
	nextFreeObjNum := doc.XRef.HighestObjectNumber() + 1

	var compressible []uint32
	for _, n := range objNums {
		obj := doc.Objects[n]
		if obj.Stream == nil && opts.UseObjectStreams {
			compressible = append(compressible, n)
			continue
		}
		offset := s.offset()
		writeIndirectObject(s, obj, opts.Pretty)
		entries[n] = xref.Entry{Kind: xref.KindUncompressed, Gen: obj.Gen, Offset: offset}
	}

	if len(compressible) > 0 {
		containerEntries, err := writeObjectStreams(s, compressible, doc, opts, &nextFreeObjNum)
		if err != nil {
			return err
		}
		for n, e := range containerEntries {
			entries[n] = e
		}
	}

	// Carry over free-list bookkeeping (deleted objects' generation
	// bumps) from the live document so a fresh write doesn't silently
	// resurrect a deleted object number as implicitly absent.
	for _, n := range doc.XRef.ObjectNumbers() {
		if _, handled := entries[n]; handled {
			continue
		}
		if e, ok := doc.XRef.Lookup(n); ok && e.Kind == xref.KindFree {
			entries[n] = e
		}
	}
	if _, ok := entries[0]; !ok {
		entries[0] = xref.Entry{Kind: xref.KindFree, Gen: 65535}
	}

	allNums := make([]uint32, 0, len(entries))
	for n := range entries {
		allNums = append(allNums, n)
	}
	sort.Slice(allNums, func(i, j int) bool { return allNums[i] < allNums[j] })
	size := allNums[len(allNums)-1] + 1

	if opts.UseXRefStream {
		if err := writeXRefStream(s, doc, entries, allNums, size, &nextFreeObjNum); err != nil {
			return err
		}
	} else {
		writeClassicalXRef(s, doc, entries, allNums, size)
	}

	return s.flush()
}

func sortedObjNums(doc *document.Document) []uint32 {
	out := make([]uint32, 0, len(doc.Objects))
	for n := range doc.Objects {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func writeHeader(s *sink, opts Options) {
	if opts.UseXRefStream {
		s.writeString("%PDF-1.5\n")
	} else {
		s.writeString("%PDF-1.4\n")
	}
	s.writeString(binaryMarker)
}

// writeIndirectObject emits "N G obj\n<content>\nendobj\n", including an
// inline stream body when obj carries one.
func writeIndirectObject(s *sink, obj object.IndirectObject, pretty bool) {
	s.writeString(itoa(int64(obj.ObjID)))
	s.writeString(" ")
	s.writeString(itoa(int64(obj.Gen)))
	s.writeString(" obj\n")

	content := obj.Content
	if obj.Stream != nil {
		dict, _ := obj.Content.(*object.Dictionary)
		content = streamDict(dict, obj.Stream)
	}
	s.writeBytes(Serialize(content, pretty, 0))

	if obj.Stream != nil {
		s.writeString("\nstream\n")
		s.writeBytes(obj.Stream.Raw)
		s.writeString("\nendstream")
	}
	s.writeString("\nendobj\n")
}

// streamDict returns a copy of dict with /Length, /Filter and
// /DecodeParms reset from stream's authoritative fields, so a caller that
// edited stream.Raw without touching the dictionary still gets a
// consistent header.
func streamDict(dict *object.Dictionary, stream *object.StreamData) *object.Dictionary {
	out := dict.Clone()
	out.Set("/Length", object.Integer(len(stream.Raw)))
	if len(stream.Filter) == 0 {
		out.Delete("/Filter")
		out.Delete("/DecodeParms")
		return out
	}
	if len(stream.Filter) == 1 {
		out.Set("/Filter", stream.Filter[0])
	} else {
		names := make(object.Array, len(stream.Filter))
		for i, n := range stream.Filter {
			names[i] = n
		}
		out.Set("/Filter", names)
	}
	out.Set("/DecodeParms", decodeParmsValue(stream.Parms))
	return out
}

func decodeParmsValue(parms []*object.Dictionary) object.Value {
	if len(parms) == 1 {
		if parms[0] == nil {
			return object.Null{}
		}
		return parms[0]
	}
	arr := make(object.Array, len(parms))
	for i, p := range parms {
		if p == nil {
			arr[i] = object.Null{}
		} else {
			arr[i] = p
		}
	}
	return arr
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// renderClassicalSection adapts xref.EmitClassicalSection, which writes
// to a *bufio.Writer, onto an in-memory buffer this package's sink can
// absorb in one write.
func renderClassicalSection(nums []uint32, entries map[uint32]xref.Entry) []byte {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	_ = xref.EmitClassicalSection(w, nums, entries) // bytes.Buffer never errors
	_ = w.Flush()
	return buf.Bytes()
}

// writeClassicalXRef emits the 7.5.4 xref section, trailer, and tail.
func writeClassicalXRef(s *sink, doc *document.Document, entries map[uint32]xref.Entry, nums []uint32, size uint32) {
	xrefOffset := s.offset()
	s.writeBytes(renderClassicalSection(nums, entries))

	trailer := buildTrailer(doc, size)
	s.writeString("trailer\n")
	s.writeBytes(Serialize(trailer, false, 0))
	s.writeString("\nstartxref\n")
	s.writeString(itoa(xrefOffset))
	s.writeString("\n%%EOF\n")
}

func buildTrailer(doc *document.Document, size uint32) *object.Dictionary {
	out := object.NewDictionary()
	out.Set("/Size", object.Integer(size))
	for _, k := range []object.Name{"/Root", "/Info", "/ID"} {
		if v, ok := doc.Trailer.Get(k); ok {
			out.Set(k, object.CloneValue(v))
		}
	}
	return out
}

// writeXRefStream emits the compressed (PDF 1.5+) cross-reference form:
// a fresh, uncompressed stream object whose dictionary doubles as the
// trailer (7.5.8.2).
func writeXRefStream(s *sink, doc *document.Document, entries map[uint32]xref.Entry, nums []uint32, size uint32, nextFreeObjNum *uint32) error {
	xrefObjNum := *nextFreeObjNum
	*nextFreeObjNum++

	allNums := append(append([]uint32(nil), nums...), xrefObjNum)
	sort.Slice(allNums, func(i, j int) bool { return allNums[i] < allNums[j] })
	if xrefObjNum+1 > size {
		size = xrefObjNum + 1
	}

	xrefOffset := s.offset()
	entries[xrefObjNum] = xref.Entry{Kind: xref.KindUncompressed, Offset: xrefOffset}

	w := [3]int{1, 4, 2}
	body, index := xref.EmitStreamSection(allNums, entries, w)
	encoded, err := filter.Encode(filter.Flate, filter.Params{}, body)
	if err != nil {
		return err
	}

	dict := buildTrailer(doc, size)
	dict.Set("/Type", object.Name("/XRef"))
	dict.Set("/W", object.Array{object.Integer(w[0]), object.Integer(w[1]), object.Integer(w[2])})
	dict.Set("/Index", index)
	dict.Set("/Filter", object.Name(filter.Flate))
	dict.Set("/Length", object.Integer(len(encoded)))

	s.writeString(itoa(int64(xrefObjNum)))
	s.writeString(" 0 obj\n")
	s.writeBytes(Serialize(dict, false, 0))
	s.writeString("\nstream\n")
	s.writeBytes(encoded)
	s.writeString("\nendstream\nendobj\n")

	s.writeString("startxref\n")
	s.writeString(itoa(xrefOffset))
	s.writeString("\n%%EOF\n")
	return nil
}
