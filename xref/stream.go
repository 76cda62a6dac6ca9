package xref

import (
	"bytes"
	"fmt"

	"github.com/benoitkugler/pdfcore/object"
	"github.com/benoitkugler/pdfcore/pdferr"
)

// streamLayout mirrors the fields of a cross-reference stream dictionary
// (7.5.8) needed to decode its packed rows.
type streamLayout struct {
	index [][2]int64 // pairs of (firstObjNum, count); defaults to [(0, Size)]
	w     [3]int
	size  int64
}

func (l streamLayout) entrySize() int { return l.w[0] + l.w[1] + l.w[2] }

func (l streamLayout) count() int64 {
	var total int64
	for _, sub := range l.index {
		total += sub[1]
	}
	return total
}

func parseStreamLayout(d *object.Dictionary) (streamLayout, error) {
	var l streamLayout

	sizeV, ok := d.Get("/Size")
	if !ok {
		return l, &pdferr.MalformedXRef{Msg: "xref stream missing /Size"}
	}
	size, ok := sizeV.(object.Integer)
	if !ok {
		return l, &pdferr.MalformedXRef{Msg: "/Size is not an integer"}
	}
	l.size = int64(size)

	wV, ok := d.Get("/W")
	if !ok {
		return l, &pdferr.MalformedXRef{Msg: "xref stream missing /W"}
	}
	wArr, ok := wV.(object.Array)
	if !ok || len(wArr) < 3 {
		return l, &pdferr.MalformedXRef{Msg: "/W must be an array of 3 integers"}
	}
	for i := 0; i < 3; i++ {
		n, ok := wArr[i].(object.Integer)
		if !ok || n < 0 {
			return l, &pdferr.MalformedXRef{Msg: "/W entries must be non-negative integers"}
		}
		l.w[i] = int(n)
	}

	if idxV, ok := d.Get("/Index"); ok {
		idxArr, ok := idxV.(object.Array)
		if !ok || len(idxArr)%2 != 0 {
			return l, &pdferr.MalformedXRef{Msg: "/Index must be an array of integer pairs"}
		}
		for i := 0; i < len(idxArr); i += 2 {
			first, ok1 := idxArr[i].(object.Integer)
			cnt, ok2 := idxArr[i+1].(object.Integer)
			if !ok1 || !ok2 {
				return l, &pdferr.MalformedXRef{Msg: "/Index entries must be integers"}
			}
			l.index = append(l.index, [2]int64{int64(first), int64(cnt)})
		}
	} else {
		l.index = [][2]int64{{0, l.size}}
	}

	return l, nil
}

func bufToInt64(buf []byte) int64 {
	var v int64
	for _, b := range buf {
		v = (v << 8) | int64(b)
	}
	return v
}

// ParseStreamSection decodes an already-defiltered cross-reference stream
// body (decoded is the stream's content after its own /Filter chain has
// been reversed) into t, merging with Set (unconditional overwrite; see
// ParseClassicalSection). dict is the stream object's own dictionary. It
// returns the trailer-equivalent dict (the stream dict doubles as the
// trailer per 7.5.8.2) and any /Prev offset.
//
// Grounded on the teacher's extractXRefTableEntriesFromXRefStream.
func ParseStreamSection(dict *object.Dictionary, decoded []byte, t *Table) (prevOffset int64, hasPrev bool, err error) {
	layout, err := parseStreamLayout(dict)
	if err != nil {
		return 0, false, err
	}

	entrySize := layout.entrySize()
	need := int(layout.count()) * entrySize
	if len(decoded) < need {
		return 0, false, fmt.Errorf("xref: stream too short: got %d bytes, need %d", len(decoded), need)
	}
	decoded = decoded[:need]

	i1, i2, i3 := layout.w[0], layout.w[1], layout.w[2]
	row := 0
	for _, sub := range layout.index {
		firstObj, count := sub[0], sub[1]
		for i := int64(0); i < count; i++ {
			objNum := uint32(firstObj + i)
			off := row * entrySize
			typeField := int64(1) // default type when W[0] == 0
			if i1 > 0 {
				typeField = bufToInt64(decoded[off : off+i1])
			}
			f2 := bufToInt64(decoded[off+i1 : off+i1+i2])
			f3 := bufToInt64(decoded[off+i1+i2 : off+i1+i2+i3])

			var entry Entry
			switch typeField {
			case 0:
				entry = Entry{Kind: KindFree, NextFree: uint32(f2), Gen: uint16(f3)}
			case 1:
				entry = Entry{Kind: KindUncompressed, Offset: f2, Gen: uint16(f3)}
			case 2:
				entry = Entry{Kind: KindCompressed, StreamObjNum: uint32(f2), IndexInStream: int(f3)}
			default:
				return 0, false, &pdferr.MalformedXRef{Msg: fmt.Sprintf("unknown xref stream entry type %d", typeField)}
			}
			t.Set(objNum, entry)
			row++
		}
	}

	if prev, ok := dict.Get("/Prev"); ok {
		if n, ok := prev.(object.Integer); ok {
			return int64(n), true, nil
		}
	}
	return 0, false, nil
}

// EmitStreamSection packs object numbers (ascending) into the row format
// of a cross-reference stream using widths w, returning the raw
// (still-unfiltered) body plus the /Index array value to place in the
// stream's own dictionary.
func EmitStreamSection(objNums []uint32, entries map[uint32]Entry, w [3]int) (body []byte, index object.Array) {
	runs := contiguousRuns(objNums)
	for _, run := range runs {
		index = append(index, object.Integer(run[0]), object.Integer(len(run)))
	}

	var buf bytes.Buffer
	for _, n := range objNums {
		e := entries[n]
		var typeField, f2, f3 int64
		switch e.Kind {
		case KindFree:
			typeField, f2, f3 = 0, int64(e.NextFree), int64(e.Gen)
		case KindUncompressed:
			typeField, f2, f3 = 1, e.Offset, int64(e.Gen)
		case KindCompressed:
			typeField, f2, f3 = 2, int64(e.StreamObjNum), int64(e.IndexInStream)
		}
		writeBigEndian(&buf, typeField, w[0])
		writeBigEndian(&buf, f2, w[1])
		writeBigEndian(&buf, f3, w[2])
	}
	return buf.Bytes(), index
}

func writeBigEndian(buf *bytes.Buffer, v int64, width int) {
	for i := width - 1; i >= 0; i-- {
		buf.WriteByte(byte(v >> (8 * uint(i))))
	}
}
