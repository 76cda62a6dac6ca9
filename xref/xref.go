// Package xref implements the PDF cross-reference table: parsing and
// emitting both the classical ("xref" keyword, fixed 20-byte entries) and
// compressed (cross-reference stream, PDF 1.5+) section formats.
//
// Grounded on the teacher's reader/file/xreftable.go and read.go, adapted
// from a resolver embedded in a decrypting "context" type into a
// standalone table the document package drives directly.
package xref

import "sort"

// EntryKind distinguishes the three row shapes a table entry can take.
type EntryKind uint8

const (
	// KindFree marks an object number as on the free list (never allocated,
	// or deleted and available for reuse).
	KindFree EntryKind = iota
	// KindUncompressed is a regular object living at a byte offset in the
	// file body ("n" rows in a classical section, type 1 in a stream).
	KindUncompressed
	// KindCompressed is an object packed inside an object stream (type 2
	// rows; classical sections have no equivalent and never produce this).
	KindCompressed
)

// Entry is one row of the cross-reference table, addressed by object
// number (the table key, not stored in the entry itself).
type Entry struct {
	Kind EntryKind
	Gen  uint16

	Offset int64 // KindUncompressed: absolute byte offset of "N G obj"

	StreamObjNum uint32 // KindCompressed: object number of the containing /ObjStm
	IndexInStream int   // KindCompressed: 0-based position within that stream

	NextFree uint32 // KindFree: object number of the next free entry (classical linked list)
}

// Table maps object numbers to their most recent cross-reference entry.
// When multiple sections disagree (an updated file with several
// generations), callers merge sections oldest-first with Set, so a later
// generation's section naturally overwrites an earlier one's entries.
type Table struct {
	entries map[uint32]Entry
}

// New returns an empty Table.
func New() *Table {
	return &Table{entries: make(map[uint32]Entry)}
}

// Lookup returns the entry for objNum, if any.
func (t *Table) Lookup(objNum uint32) (Entry, bool) {
	e, ok := t.entries[objNum]
	return e, ok
}

// Set inserts or overwrites the entry for objNum.
func (t *Table) Set(objNum uint32, e Entry) {
	t.entries[objNum] = e
}

// ObjectNumbers returns every object number with a table entry, in
// ascending order.
func (t *Table) ObjectNumbers() []uint32 {
	out := make([]uint32, 0, len(t.entries))
	for k := range t.entries {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len reports the number of entries in the table.
func (t *Table) Len() int { return len(t.entries) }

// HighestObjectNumber returns the greatest object number with an entry, or
// 0 if the table is empty.
func (t *Table) HighestObjectNumber() uint32 {
	var max uint32
	for k := range t.entries {
		if k > max {
			max = k
		}
	}
	return max
}

// ReserveFreeObjNum finds an unused object number starting from
// HighestObjectNumber()+1, reserves it with a placeholder Free entry, and
// returns it. Used by a document building a fresh object before it knows
// that object's final kind/offset.
func (t *Table) ReserveFreeObjNum() uint32 {
	n := t.HighestObjectNumber() + 1
	for {
		if _, has := t.entries[n]; !has {
			t.entries[n] = Entry{Kind: KindFree}
			return n
		}
		n++
	}
}
