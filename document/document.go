// Package document owns the in-memory object graph of a PDF file: the
// full set of indirect objects, the trailer dictionary, and the xref
// table describing where each object came from. It provides the mutation
// API (new/replace/delete object) and graph traversals (page list, object
// stream unpacking) that reader and writer both build on.
package document

import (
	"github.com/benoitkugler/pdfcore/object"
	"github.com/benoitkugler/pdfcore/pdferr"
	"github.com/benoitkugler/pdfcore/xref"
)

// Document is the mutable object graph: every live indirect object plus
// the trailer dictionary that names the document's roots (/Root, /Info,
// /ID...). reader.Read unpacks every object stream its xref entries point
// members into, so a document it returns holds those members rather than
// their /ObjStm containers — see UnpackObjectStreams. New unpacks nothing.
type Document struct {
	Objects map[uint32]object.IndirectObject
	Trailer *object.Dictionary
	XRef    *xref.Table
}

// New returns an empty document with a fresh trailer and xref table.
func New() *Document {
	return &Document{
		Objects: make(map[uint32]object.IndirectObject),
		Trailer: object.NewDictionary(),
		XRef:    xref.New(),
	}
}

// Lookup resolves a reference to its live object. Per 7.3.10, a dangling
// reference is not an error: it behaves as the null object. Callers that
// must distinguish "absent" from "explicitly null" should call
// LookupObject instead.
func (d *Document) Lookup(ref object.Reference) object.Value {
	obj, ok := d.Objects[ref.ObjID]
	if !ok {
		return object.Null{}
	}
	return obj.Content
}

// LookupObject resolves a reference to its live IndirectObject, failing
// with pdferr.DanglingReference when ref names no object currently in the
// table. Unlike Lookup/Resolve, this distinguishes "object never
// existed or was deleted" from "object exists and its content happens to
// be null".
func (d *Document) LookupObject(ref object.Reference) (*object.IndirectObject, error) {
	obj, ok := d.Objects[ref.ObjID]
	if !ok {
		return nil, &pdferr.DanglingReference{ObjID: ref.ObjID, Gen: ref.Gen}
	}
	return &obj, nil
}

// Resolve follows v if it is a Reference, returning it unchanged
// otherwise. Resolving a dangling reference yields Null, never an error,
// matching Lookup.
func (d *Document) Resolve(v object.Value) object.Value {
	ref, ok := v.(object.Reference)
	if !ok {
		return v
	}
	return d.Lookup(ref)
}

// ResolveDict resolves v and type-asserts it to a dictionary (a stream's
// dictionary qualifies too, since IndirectObject.Content for a stream is
// its *Dictionary).
func (d *Document) ResolveDict(v object.Value) (*object.Dictionary, bool) {
	resolved := d.Resolve(v)
	dict, ok := resolved.(*object.Dictionary)
	return dict, ok
}

// Stream returns the stream payload of the object ref points to, if it is
// a stream object.
func (d *Document) Stream(ref object.Reference) (*object.StreamData, bool) {
	obj, ok := d.Objects[ref.ObjID]
	if !ok || obj.Stream == nil {
		return nil, false
	}
	return obj.Stream, true
}

// NewObject reserves a fresh object number, stores content under it, and
// returns the reference to it. Gen is always 0 for newly created objects.
func (d *Document) NewObject(content object.Value) object.Reference {
	num := d.XRef.ReserveFreeObjNum()
	d.Objects[num] = object.IndirectObject{ObjID: num, Gen: 0, Content: content}
	d.XRef.Set(num, xref.Entry{Kind: xref.KindUncompressed})
	return object.Reference{ObjID: num, Gen: 0}
}

// ReplaceObject overwrites the content of an existing object, keeping its
// generation number. It is an InvariantViolation to replace an object
// that was never created.
func (d *Document) ReplaceObject(ref object.Reference, content object.Value) error {
	obj, ok := d.Objects[ref.ObjID]
	if !ok {
		return &pdferr.InvariantViolation{Msg: "ReplaceObject: no such object"}
	}
	obj.Content = content
	d.Objects[ref.ObjID] = obj
	return nil
}

// DeleteObject removes an object and marks its slot free in the xref
// table, bumping the generation so any stale reference to it becomes
// dangling rather than resolving to a reused object.
func (d *Document) DeleteObject(ref object.Reference) {
	delete(d.Objects, ref.ObjID)
	d.XRef.Set(ref.ObjID, xref.Entry{Kind: xref.KindFree, Gen: ref.Gen + 1})
}

// Pages walks the page tree rooted at the catalog's /Pages entry,
// flattening /Kids recursion into an ordered, depth-first slice of page
// object references. Grounded on the teacher's reader/pages.go traversal,
// generalized past model.PageObject into the plain object-graph core.
func (d *Document) Pages() ([]object.Reference, error) {
	root, ok := d.Trailer.Get("/Root")
	if !ok {
		return nil, &pdferr.InvariantViolation{Msg: "trailer has no /Root"}
	}
	catalog, ok := d.ResolveDict(root)
	if !ok {
		return nil, &pdferr.InvariantViolation{Msg: "/Root does not resolve to a dictionary"}
	}
	pagesRef, ok := catalog.Get("/Pages")
	if !ok {
		return nil, &pdferr.InvariantViolation{Msg: "catalog has no /Pages"}
	}
	ref, ok := pagesRef.(object.Reference)
	if !ok {
		return nil, &pdferr.InvariantViolation{Msg: "/Pages is not an indirect reference"}
	}

	var out []object.Reference
	seen := make(map[uint32]bool)
	if err := d.collectPages(ref, seen, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *Document) collectPages(ref object.Reference, seen map[uint32]bool, out *[]object.Reference) error {
	if seen[ref.ObjID] {
		return nil // guard against a cyclic /Kids chain
	}
	seen[ref.ObjID] = true

	node, ok := d.ResolveDict(ref)
	if !ok {
		return &pdferr.MalformedPageTree{ObjID: ref.ObjID, Gen: ref.Gen}
	}
	typ, _ := node.Get("/Type")

	switch typ {
	case object.Name("/Page"):
		*out = append(*out, ref)
		return nil
	case object.Name("/Pages"):
		kidsV, ok := node.Get("/Kids")
		if !ok {
			return nil
		}
		kids, ok := kidsV.(object.Array)
		if !ok {
			return &pdferr.MalformedPageTree{ObjID: ref.ObjID, Gen: ref.Gen}
		}
		for _, kid := range kids {
			kidRef, ok := kid.(object.Reference)
			if !ok {
				return &pdferr.MalformedPageTree{ObjID: ref.ObjID, Gen: ref.Gen}
			}
			if err := d.collectPages(kidRef, seen, out); err != nil {
				return err
			}
		}
		return nil
	default:
		return &pdferr.MalformedPageTree{ObjID: ref.ObjID, Gen: ref.Gen}
	}
}
