package reader

import (
	"testing"

	"github.com/benoitkugler/pdfcore/object"
)

func minimalPDF() []byte {
	return []byte("%PDF-1.4\n%\xB5\xED\xAE\xFB\n" +
		"1 0 obj\n<< /Hello (World) >>\nendobj\n" +
		"xref\n0 2\n" +
		"0000000000 65535 f \n" +
		"0000000015 00000 n \n" +
		"trailer\n<< /Size 2 /Root 1 0 R >>\n" +
		"startxref\n60\n%%EOF\n")
}

func TestReadMinimalClassicalXref(t *testing.T) {
	doc, err := Read(minimalPDF())
	if err != nil {
		t.Fatal(err)
	}

	root, ok := doc.Trailer.Get("/Root")
	if !ok || root != (object.Reference{ObjID: 1, Gen: 0}) {
		t.Fatalf("unexpected /Root: %v", root)
	}

	obj, ok := doc.Objects[1]
	if !ok {
		t.Fatal("object 1 not parsed")
	}
	dict, ok := obj.Dict()
	if !ok {
		t.Fatal("object 1 is not a dictionary")
	}
	hello, ok := dict.Get("/Hello")
	if !ok || hello != object.NewString("World") {
		t.Errorf("expected /Hello (World), got %v", hello)
	}
}

func TestReadIncrementalUpdateNewerGenerationWins(t *testing.T) {
	var data []byte
	data = append(data, minimalPDF()...)
	data = append(data, []byte(
		"1 0 obj\n<< /Hello (Pluto) >>\nendobj\n"+
			"xref\n0 2\n"+
			"0000000000 65535 f \n"+
			"0000000200 00000 n \n"+
			"trailer\n<< /Size 2 /Root 1 0 R >>\n"+
			"startxref\n200\n%%EOF\n")...)

	doc, err := Read(data)
	if err != nil {
		t.Fatal(err)
	}

	obj := doc.Objects[1]
	dict, _ := obj.Dict()
	hello, _ := dict.Get("/Hello")
	if hello != object.NewString("Pluto") {
		t.Errorf("expected the later generation's value Pluto to win, got %v", hello)
	}
}

func TestReadEncryptedDocumentFails(t *testing.T) {
	data := []byte("%PDF-1.4\n%\xB5\xED\xAE\xFB\n" +
		"1 0 obj\n<< /Hello (World) >>\nendobj\n" +
		"xref\n0 2\n" +
		"0000000000 65535 f \n" +
		"0000000015 00000 n \n" +
		"trailer\n<< /Size 2 /Root 1 0 R /Encrypt 2 0 R >>\n" +
		"startxref\n60\n%%EOF\n")

	_, err := Read(data)
	if err == nil {
		t.Fatal("expected an error for an encrypted document")
	}
}

func TestReadDanglingRootIsNull(t *testing.T) {
	data := []byte("%PDF-1.4\n%\xB5\xED\xAE\xFB\n" +
		"1 0 obj\n<< /Hello (World) >>\nendobj\n" +
		"xref\n0 2\n" +
		"0000000000 65535 f \n" +
		"0000000015 00000 n \n" +
		"trailer\n<< /Size 2 /Root 9 0 R >>\n" +
		"startxref\n60\n%%EOF\n")

	doc, err := Read(data)
	if err != nil {
		t.Fatal(err)
	}
	root, _ := doc.Trailer.Get("/Root")
	if _, isNull := doc.Resolve(root).(object.Null); !isNull {
		t.Errorf("expected dangling /Root to resolve to Null, got %v", doc.Resolve(root))
	}
}
