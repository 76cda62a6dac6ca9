package syntax

import (
	"testing"

	"github.com/benoitkugler/pdfcore/object"
)

func parseOK(t *testing.T, data string) object.Value {
	t.Helper()
	p := NewParser([]byte(data))
	v, err := p.ParseValue()
	if err != nil {
		t.Fatalf("ParseValue(%q) failed: %v", data, err)
	}
	return v
}

func TestParseScalars(t *testing.T) {
	if v := parseOK(t, "true"); v != object.Boolean(true) {
		t.Errorf("expected true, got %v", v)
	}
	if v := parseOK(t, "null"); v != (object.Null{}) {
		t.Errorf("expected null, got %v", v)
	}
	if v := parseOK(t, "123"); v != object.Integer(123) {
		t.Errorf("expected 123, got %v", v)
	}
	if v := parseOK(t, "-3.14"); v != object.Real(-3.14) {
		t.Errorf("expected -3.14, got %v", v)
	}
	if v := parseOK(t, "/Name#20Escaped"); v != object.Name("/Name Escaped") {
		t.Errorf("expected name with escape resolved, got %v", v)
	}
}

func TestParseIndirectReference(t *testing.T) {
	v := parseOK(t, "12 0 R")
	ref, ok := v.(object.Reference)
	if !ok {
		t.Fatalf("expected Reference, got %T", v)
	}
	if ref.ObjID != 12 || ref.Gen != 0 {
		t.Errorf("expected 12 0 R, got %v", ref)
	}
}

func TestParseBareIntegerNotMistakenForReference(t *testing.T) {
	v := parseOK(t, "12 0 obj")
	if v != object.Integer(12) {
		t.Errorf("expected bare integer 12, got %v", v)
	}
}

func TestParseArrayOfReferences(t *testing.T) {
	v := parseOK(t, "[1 0 R 2 0 R 3]")
	arr, ok := v.(object.Array)
	if !ok || len(arr) != 3 {
		t.Fatalf("expected 3-element array, got %v", v)
	}
	if arr[2] != object.Integer(3) {
		t.Errorf("expected last element to be bare 3, got %v", arr[2])
	}
}

func TestParseDictionary(t *testing.T) {
	v := parseOK(t, "<< /Type /Catalog /Pages 3 0 R >>")
	d, ok := v.(*object.Dictionary)
	if !ok {
		t.Fatalf("expected dictionary, got %T", v)
	}
	typ, _ := d.Get("/Type")
	if typ != object.Name("/Catalog") {
		t.Errorf("expected /Catalog, got %v", typ)
	}
	pages, _ := d.Get("/Pages")
	if pages != (object.Reference{ObjID: 3, Gen: 0}) {
		t.Errorf("expected 3 0 R, got %v", pages)
	}
}

func TestParseNullEntryOmitted(t *testing.T) {
	v := parseOK(t, "<< /A null /B 1 >>")
	d := v.(*object.Dictionary)
	if d.Len() != 1 {
		t.Errorf("expected null-valued entry dropped, got %d entries", d.Len())
	}
	if _, ok := d.Get("/A"); ok {
		t.Error("/A should have been omitted")
	}
}

func TestParseLiteralStringEscapes(t *testing.T) {
	v := parseOK(t, `(line1\nline2\)escaped\051)`)
	s, ok := v.(object.String)
	if !ok {
		t.Fatalf("expected String, got %T", v)
	}
	want := "line1\nline2)escaped)"
	if s.Text != want {
		t.Errorf("expected %q, got %q", want, s.Text)
	}
}

func TestParseHexString(t *testing.T) {
	v := parseOK(t, "<48656C6C6F>")
	s, ok := v.(object.String)
	if !ok || !s.NeedsHex {
		t.Fatalf("expected hex string, got %v", v)
	}
	if s.Text != "Hello" {
		t.Errorf("expected Hello, got %q", s.Text)
	}
}

func TestParseUnterminatedArrayFails(t *testing.T) {
	p := NewParser([]byte("[1 2 3"))
	if _, err := p.ParseValue(); err == nil {
		t.Error("expected error for unterminated array")
	}
}
