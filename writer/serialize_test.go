package writer

import (
	"testing"

	"github.com/benoitkugler/pdfcore/object"
)

func TestEncodeNameEscapesDelimiters(t *testing.T) {
	got := string(EncodeName(object.Name("/A#B(C)")))
	want := "/A#23B#28C#29"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestEncodeRealAlwaysHasFractionalDigit(t *testing.T) {
	cases := map[float64]string{
		1:     "1.0",
		1.5:   "1.5",
		-0.25: "-0.25",
	}
	for in, want := range cases {
		if got := string(EncodeReal(in)); got != want {
			t.Errorf("EncodeReal(%v): expected %q, got %q", in, want, got)
		}
	}
}

func TestSerializeDictionaryCompact(t *testing.T) {
	d := object.NewDictionary()
	d.Set("/Type", object.Name("/Page"))
	d.Set("/Count", object.Integer(3))

	got := string(Serialize(d, false, 0))
	want := "<< /Type /Page /Count 3 >>"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSerializeArrayAndReference(t *testing.T) {
	a := object.Array{object.Integer(1), object.Reference{ObjID: 2, Gen: 0}, object.Null{}}
	got := string(Serialize(a, false, 0))
	want := "[1 2 0 R null]"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSerializePrettyIndents(t *testing.T) {
	d := object.NewDictionary()
	d.Set("/A", object.Integer(1))
	got := string(Serialize(d, true, 0))
	want := "<<\n  /A 1\n>>"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
