package xref

import (
	"bufio"
	"fmt"
	"strconv"

	"github.com/benoitkugler/pdfcore/internal/syntax"
	"github.com/benoitkugler/pdfcore/object"
	"github.com/benoitkugler/pdfcore/pdferr"
)

// ParseClassicalSection reads one classical xref section (the "xref"
// keyword already consumed) and the trailer dictionary that follows it.
// Entries are merged into t with Set (unconditional overwrite): callers
// driving a forward, oldest-to-newest scan of a file's generations get
// the correct result for free, since each later generation's section is
// parsed after — and so overwrites — any earlier one. It returns the
// trailer dictionary and the Prev offset, if any.
//
// Grounded on the teacher's parseXRefSection/parseXRefTableSubSection/
// parseXRefTableEntry in reader/file/read.go.
func ParseClassicalSection(tk *syntax.Tokenizer, t *Table) (trailer *object.Dictionary, prevOffset int64, hasPrev bool, err error) {
	for {
		next, err := tk.Peek()
		if err != nil {
			return nil, 0, false, err
		}
		if next.IsOther("trailer") {
			tk.Next()
			break
		}
		if err := parseSubsection(tk, t); err != nil {
			return nil, 0, false, err
		}
	}

	p := syntax.NewParserAt(tk)
	v, err := p.ParseValue()
	if err != nil {
		return nil, 0, false, fmt.Errorf("xref: invalid trailer dictionary: %w", err)
	}
	trailer, ok := v.(*object.Dictionary)
	if !ok {
		return nil, 0, false, &pdferr.MalformedXRef{Pos: int64(tk.Pos()), Msg: "trailer is not a dictionary"}
	}

	if prev, ok := trailer.Get("/Prev"); ok {
		if n, ok := prev.(object.Integer); ok {
			return trailer, int64(n), true, nil
		}
	}
	return trailer, 0, false, nil
}

func parseSubsection(tk *syntax.Tokenizer, t *Table) error {
	startTok, err := tk.Next()
	if err != nil {
		return err
	}
	start, err := startTok.Int()
	if startTok.Kind != syntax.Integer || err != nil {
		return &pdferr.MalformedXRef{Pos: int64(tk.Pos()), Msg: "invalid subsection start object number"}
	}

	countTok, err := tk.Next()
	if err != nil {
		return err
	}
	count, err := countTok.Int()
	if countTok.Kind != syntax.Integer || err != nil {
		return &pdferr.MalformedXRef{Pos: int64(tk.Pos()), Msg: "invalid subsection object count"}
	}

	for i := int64(0); i < count; i++ {
		objNum := uint32(start + i)
		if err := parseEntry(tk, t, objNum); err != nil {
			return err
		}
	}
	return nil
}

func parseEntry(tk *syntax.Tokenizer, t *Table, objNum uint32) error {
	offsetTok, err := tk.Next()
	if err != nil {
		return err
	}
	offset, err := strconv.ParseInt(offsetTok.Value, 10, 64)
	if offsetTok.Kind != syntax.Integer || err != nil {
		return &pdferr.MalformedXRef{Pos: int64(tk.Pos()), Msg: "invalid entry offset"}
	}

	genTok, err := tk.Next()
	if err != nil {
		return err
	}
	gen, err := genTok.Int()
	if genTok.Kind != syntax.Integer || err != nil {
		return &pdferr.MalformedXRef{Pos: int64(tk.Pos()), Msg: "invalid entry generation"}
	}

	typeTok, err := tk.Next()
	if err != nil {
		return err
	}
	if typeTok.Kind != syntax.Other || (typeTok.Value != "f" && typeTok.Value != "n") {
		return &pdferr.MalformedXRef{Pos: int64(tk.Pos()), Msg: "entry type must be 'f' or 'n'"}
	}

	if typeTok.Value == "n" && offset == 0 {
		return nil // a zero offset "in use" row is a known-broken-writer artifact; skip it
	}

	entry := Entry{
		Kind:   KindUncompressed,
		Offset: offset,
		Gen:    uint16(gen),
	}
	if typeTok.Value == "f" {
		entry.Kind = KindFree
		entry.NextFree = uint32(offset)
	}

	t.Set(objNum, entry)
	return nil
}

// EmitClassicalSection writes a fresh, single-subsection-per-run classical
// xref section for the given object numbers (already sorted ascending),
// in the 20-byte fixed-width row format mandated by 7.5.4. Each row's
// shape follows entries[n].Kind: KindFree emits an "f" row (NextFree as
// the link field), anything else emits an "n" row at its Offset — callers
// are expected to have put a KindFree entry for object 0 (the free-list
// head) in entries themselves, same as any other free slot.
func EmitClassicalSection(w *bufio.Writer, objNums []uint32, entries map[uint32]Entry) error {
	if _, err := w.WriteString("xref\n"); err != nil {
		return err
	}

	// Partition into contiguous runs so each becomes one subsection header.
	runs := contiguousRuns(objNums)
	for _, run := range runs {
		if _, err := fmt.Fprintf(w, "%d %d\n", run[0], len(run)); err != nil {
			return err
		}
		for _, n := range run {
			e := entries[n]
			if e.Kind == KindFree {
				if _, err := fmt.Fprintf(w, "%010d %05d f \n", e.NextFree, e.Gen); err != nil {
					return err
				}
				continue
			}
			if _, err := fmt.Fprintf(w, "%010d %05d n \n", e.Offset, e.Gen); err != nil {
				return err
			}
		}
	}
	return nil
}

func contiguousRuns(nums []uint32) [][]uint32 {
	if len(nums) == 0 {
		return nil
	}
	var runs [][]uint32
	cur := []uint32{nums[0]}
	for _, n := range nums[1:] {
		if n == cur[len(cur)-1]+1 {
			cur = append(cur, n)
		} else {
			runs = append(runs, cur)
			cur = []uint32{n}
		}
	}
	return append(runs, cur)
}
