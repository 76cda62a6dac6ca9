package writer

import (
	"bytes"
	"testing"

	"github.com/benoitkugler/pdfcore/document"
	"github.com/benoitkugler/pdfcore/object"
	"github.com/benoitkugler/pdfcore/reader"
)

func buildSimpleDoc() *document.Document {
	doc := document.New()

	pageDict := object.NewDictionary()
	pageDict.Set("/Type", object.Name("/Page"))
	pageRef := doc.NewObject(pageDict)

	pagesDict := object.NewDictionary()
	pagesDict.Set("/Type", object.Name("/Pages"))
	pagesDict.Set("/Kids", object.Array{pageRef})
	pagesDict.Set("/Count", object.Integer(1))
	pagesRef := doc.NewObject(pagesDict)
	pageDict.Set("/Parent", pagesRef)

	catalog := object.NewDictionary()
	catalog.Set("/Type", object.Name("/Catalog"))
	catalog.Set("/Pages", pagesRef)
	catalogRef := doc.NewObject(catalog)

	doc.Trailer.Set("/Root", catalogRef)
	return doc
}

func TestWriteClassicalRoundTrip(t *testing.T) {
	doc := buildSimpleDoc()

	var buf bytes.Buffer
	if err := Write(doc, DefaultOptions(), &buf); err != nil {
		t.Fatal(err)
	}

	got, err := reader.Read(buf.Bytes())
	if err != nil {
		t.Fatalf("re-reading written file: %v", err)
	}

	pages, err := got.Pages()
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
}

func TestWriteStreamRoundTrip(t *testing.T) {
	doc := document.New()
	dict := object.NewDictionary()
	dict.Set("/Length", object.Integer(11))
	contentRef := doc.NewObject(dict)
	doc.Objects[contentRef.ObjID] = object.IndirectObject{
		ObjID:   contentRef.ObjID,
		Content: dict,
		Stream:  &object.StreamData{Raw: []byte("hello world")},
	}
	doc.Trailer.Set("/Root", contentRef)

	var buf bytes.Buffer
	if err := Write(doc, DefaultOptions(), &buf); err != nil {
		t.Fatal(err)
	}

	got, err := reader.Read(buf.Bytes())
	if err != nil {
		t.Fatalf("re-reading written file: %v", err)
	}
	stream, ok := got.Stream(contentRef)
	if !ok {
		t.Fatal("stream not round-tripped")
	}
	if string(stream.Raw) != "hello world" {
		t.Errorf("expected %q, got %q", "hello world", stream.Raw)
	}
}

func TestWriteObjectStreamsRoundTrip(t *testing.T) {
	doc := buildSimpleDoc()
	opts := DefaultOptions()
	opts.UseObjectStreams = true

	var buf bytes.Buffer
	if err := Write(doc, opts, &buf); err != nil {
		t.Fatal(err)
	}

	got, err := reader.Read(buf.Bytes())
	if err != nil {
		t.Fatalf("re-reading written file: %v", err)
	}
	pages, err := got.Pages()
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
}

func TestWriteXRefStreamRoundTrip(t *testing.T) {
	doc := buildSimpleDoc()
	opts := DefaultOptions()
	opts.UseXRefStream = true

	var buf bytes.Buffer
	if err := Write(doc, opts, &buf); err != nil {
		t.Fatal(err)
	}

	got, err := reader.Read(buf.Bytes())
	if err != nil {
		t.Fatalf("re-reading written file: %v", err)
	}
	root, ok := got.Trailer.Get("/Root")
	if !ok {
		t.Fatal("missing /Root after round trip")
	}
	if _, ok := got.ResolveDict(root); !ok {
		t.Error("/Root does not resolve to a dictionary")
	}
}

func TestDefaultOptionsNormalization(t *testing.T) {
	opts := Options{UseObjectStreams: true}.normalized()
	if !opts.UseXRefStream {
		t.Error("expected UseObjectStreams to imply UseXRefStream")
	}
	if opts.CompressObjectCount != 100 {
		t.Errorf("expected default CompressObjectCount 100, got %d", opts.CompressObjectCount)
	}
}
