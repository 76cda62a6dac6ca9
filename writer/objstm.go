package writer

import (
	"bytes"

	"github.com/benoitkugler/pdfcore/document"
	"github.com/benoitkugler/pdfcore/internal/filter"
	"github.com/benoitkugler/pdfcore/object"
	"github.com/benoitkugler/pdfcore/xref"
)

// writeObjectStreams packs candidates (object numbers with no stream of
// their own) into one or more /ObjStm containers, respecting
// opts.CompressObjectCount and opts.MaxContainerContentSizeBytes, writes
// each container as a regular uncompressed stream object, and returns the
// resulting xref entries (KindCompressed, pointing members at their
// container) plus the containers' own (KindUncompressed) entries.
//
// Grounded on 7.5.7's object stream layout (a header of "objnum offset"
// pairs followed by the objects' own serialized bodies, /First marking
// where the bodies begin) and the teacher's model/write.go WriteObject
// shape, generalized to pack a batch instead of one object per call.
func writeObjectStreams(s *sink, candidates []uint32, doc *document.Document, opts Options, nextFreeObjNum *uint32) (map[uint32]xref.Entry, error) {
	entries := make(map[uint32]xref.Entry, len(candidates))

	for _, batch := range partitionBatches(candidates, doc, opts) {
		containerObjNum := *nextFreeObjNum
		*nextFreeObjNum++

		var prolog bytes.Buffer
		var body bytes.Buffer
		for i, n := range batch {
			obj := doc.Objects[n]
			content := Serialize(obj.Content, false, 0)
			if i > 0 {
				prolog.WriteByte(' ')
				body.WriteByte(' ') // keep consecutive objects byte-separated
			}
			prolog.WriteString(itoa(int64(n)))
			prolog.WriteByte(' ')
			prolog.WriteString(itoa(int64(body.Len())))

			entries[n] = xref.Entry{Kind: xref.KindCompressed, StreamObjNum: containerObjNum, IndexInStream: i}

			body.Write(content)
		}

		first := prolog.Len() + 1 // +1 for the separating newline written below
		raw := append(append(prolog.Bytes(), '\n'), body.Bytes()...)
		encoded, err := filter.Encode(filter.Flate, filter.Params{}, raw)
		if err != nil {
			return nil, err
		}

		dict := object.NewDictionary()
		dict.Set("/Type", object.Name("/ObjStm"))
		dict.Set("/N", object.Integer(len(batch)))
		dict.Set("/First", object.Integer(first))
		dict.Set("/Filter", object.Name(filter.Flate))
		dict.Set("/Length", object.Integer(len(encoded)))

		offset := s.offset()
		writeIndirectObject(s, object.IndirectObject{
			ObjID:   containerObjNum,
			Content: dict,
			Stream:  &object.StreamData{Raw: encoded, Filter: []object.Name{filter.Flate}},
		}, opts.Pretty)
		entries[containerObjNum] = xref.Entry{Kind: xref.KindUncompressed, Offset: offset}
	}

	return entries, nil
}

// partitionBatches splits candidates (already in ascending object-number
// order) into runs no longer than opts.CompressObjectCount and no larger
// than opts.MaxContainerContentSizeBytes of summed serialized content.
func partitionBatches(candidates []uint32, doc *document.Document, opts Options) [][]uint32 {
	var batches [][]uint32
	var cur []uint32
	curSize := 0

	for _, n := range candidates {
		size := len(Serialize(doc.Objects[n].Content, false, 0))
		if len(cur) > 0 && (len(cur) >= opts.CompressObjectCount || curSize+size > opts.MaxContainerContentSizeBytes) {
			batches = append(batches, cur)
			cur = nil
			curSize = 0
		}
		cur = append(cur, n)
		curSize += size
	}
	if len(cur) > 0 {
		batches = append(batches, cur)
	}
	return batches
}
