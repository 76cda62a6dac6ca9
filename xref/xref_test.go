package xref

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/benoitkugler/pdfcore/internal/syntax"
	"github.com/benoitkugler/pdfcore/object"
)

func TestParseClassicalSection(t *testing.T) {
	data := []byte("0 3\n" +
		"0000000000 65535 f \n" +
		"0000000015 00000 n \n" +
		"0000000089 00000 n \n" +
		"trailer\n" +
		"<< /Size 3 /Root 1 0 R >>\n")

	tk := syntax.New(data)
	table := New()
	trailer, _, hasPrev, err := ParseClassicalSection(tk, table)
	if err != nil {
		t.Fatal(err)
	}
	if hasPrev {
		t.Error("expected no /Prev")
	}
	root, _ := trailer.Get("/Root")
	if root != (object.Reference{ObjID: 1, Gen: 0}) {
		t.Errorf("expected root reference, got %v", root)
	}

	e1, ok := table.Lookup(1)
	if !ok || e1.Kind != KindUncompressed || e1.Offset != 15 {
		t.Errorf("unexpected entry for object 1: %+v", e1)
	}
	e0, ok := table.Lookup(0)
	if !ok || e0.Kind != KindFree {
		t.Errorf("unexpected entry for object 0: %+v", e0)
	}
}

func TestSetOverwritesForLatestGenerationWins(t *testing.T) {
	table := New()
	table.Set(5, Entry{Kind: KindUncompressed, Offset: 100})
	table.Set(5, Entry{Kind: KindUncompressed, Offset: 999})
	e, _ := table.Lookup(5)
	if e.Offset != 999 {
		t.Errorf("expected later Set to overwrite, got offset %d", e.Offset)
	}
}

func TestEmitClassicalSectionRoundTrips(t *testing.T) {
	objNums := []uint32{0, 1, 2, 5}
	entries := map[uint32]Entry{
		0: {Kind: KindFree, NextFree: 0, Gen: 65535},
		1: {Kind: KindUncompressed, Offset: 15, Gen: 0},
		2: {Kind: KindUncompressed, Offset: 89, Gen: 3},
		5: {Kind: KindFree, NextFree: 7, Gen: 1},
	}

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	if err := EmitClassicalSection(w, objNums, entries); err != nil {
		t.Fatal(err)
	}
	w.Flush()

	body := buf.String()
	if !bytes.Contains(buf.Bytes(), []byte("xref\n")) {
		t.Fatalf("missing xref keyword: %s", body)
	}
	if !bytes.Contains(buf.Bytes(), []byte("0 3\n")) {
		t.Errorf("expected contiguous run header '0 3', got: %s", body)
	}
	if !bytes.Contains(buf.Bytes(), []byte("5 1\n")) {
		t.Errorf("expected standalone run header '5 1', got: %s", body)
	}
	if !bytes.Contains(buf.Bytes(), []byte("0000000000 65535 f \n")) {
		t.Errorf("expected object 0 free-list head row, got: %s", body)
	}
	if !bytes.Contains(buf.Bytes(), []byte("0000000089 00003 n \n")) {
		t.Errorf("expected object 2's real generation 3 in its row, got: %s", body)
	}
	if !bytes.Contains(buf.Bytes(), []byte("0000000007 00001 f \n")) {
		t.Errorf("expected object 5 to emit as a free row with its NextFree link, got: %s", body)
	}

	// Round-trip: re-parsing what we just emitted should reproduce the
	// same entry kinds, offsets/links and generations.
	tk := syntax.New(append(append([]byte{}, buf.Bytes()...), []byte("trailer\n<< /Size 6 >>\n")...))
	tk.Next() // consume the "xref" keyword, as the reader does before calling ParseClassicalSection
	table := New()
	if _, _, _, err := ParseClassicalSection(tk, table); err != nil {
		t.Fatal(err)
	}
	for num, want := range entries {
		got, ok := table.Lookup(num)
		if !ok {
			t.Errorf("object %d: missing after round-trip", num)
			continue
		}
		if got.Kind != want.Kind || got.Gen != want.Gen {
			t.Errorf("object %d: round-trip mismatch, want %+v got %+v", num, want, got)
			continue
		}
		if want.Kind == KindFree && got.NextFree != want.NextFree {
			t.Errorf("object %d: NextFree round-trip mismatch, want %d got %d", num, want.NextFree, got.NextFree)
		}
		if want.Kind == KindUncompressed && got.Offset != want.Offset {
			t.Errorf("object %d: Offset round-trip mismatch, want %d got %d", num, want.Offset, got.Offset)
		}
	}
}

func TestReservefreeObjNum(t *testing.T) {
	table := New()
	table.Set(1, Entry{Kind: KindUncompressed})
	table.Set(2, Entry{Kind: KindUncompressed})
	n := table.ReserveFreeObjNum()
	if n != 3 {
		t.Errorf("expected next free object number 3, got %d", n)
	}
	if e, ok := table.Lookup(3); !ok || e.Kind != KindFree {
		t.Errorf("expected reserved entry to be present and free, got %+v", e)
	}
}

func TestStreamSectionRoundTrip(t *testing.T) {
	entries := map[uint32]Entry{
		0: {Kind: KindFree, NextFree: 0, Gen: 65535},
		1: {Kind: KindUncompressed, Offset: 17, Gen: 0},
		2: {Kind: KindCompressed, StreamObjNum: 9, IndexInStream: 2},
	}
	objNums := []uint32{0, 1, 2}
	w := [3]int{1, 2, 1}

	body, index := EmitStreamSection(objNums, entries, w)
	wantIndexLen := 1 // one contiguous run [0,3): a single (first, count) pair
	if len(index)/2 != wantIndexLen {
		t.Fatalf("expected %d index pairs, got %d", wantIndexLen, len(index)/2)
	}

	dict := object.NewDictionary()
	dict.Set("/Size", object.Integer(3))
	dict.Set("/W", object.Array{object.Integer(1), object.Integer(2), object.Integer(1)})
	dict.Set("/Index", index)

	table := New()
	_, hasPrev, err := ParseStreamSection(dict, body, table)
	if err != nil {
		t.Fatal(err)
	}
	if hasPrev {
		t.Error("expected no /Prev")
	}

	e1, ok := table.Lookup(1)
	if !ok || e1.Kind != KindUncompressed || e1.Offset != 17 {
		t.Errorf("unexpected round-tripped entry for object 1: %+v", e1)
	}
	e2, ok := table.Lookup(2)
	if !ok || e2.Kind != KindCompressed || e2.StreamObjNum != 9 || e2.IndexInStream != 2 {
		t.Errorf("unexpected round-tripped entry for object 2: %+v", e2)
	}
}
