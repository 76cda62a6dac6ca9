package document

import (
	"log"

	"github.com/benoitkugler/pdfcore/object"
)

// FixObjectSizes reconciles each stream object's raw payload length with
// its dictionary's /Length entry, for the case where /Length is itself an
// indirect reference (permitted by 7.3.8.2, and common in files produced
// by writers that don't know a stream's compressed length until after
// they've already allocated its object number). When the referent is
// smaller than the number of bytes actually read, the stored payload is
// truncated to match; a larger or non-integer referent is logged and left
// as-is, since this core has no better fallback than trusting the bytes it
// already captured between "stream" and "endstream".
func (d *Document) FixObjectSizes() {
	for num, obj := range d.Objects {
		if obj.Stream == nil {
			continue
		}
		dict, _ := obj.Dict()
		lengthV, ok := dict.Get("/Length")
		if !ok {
			continue
		}
		ref, ok := lengthV.(object.Reference)
		if !ok {
			continue // direct integer /Length was already honored while reading
		}

		resolved := d.Resolve(ref)
		n, ok := resolved.(object.Integer)
		if !ok {
			log.Printf("pdf: object %d %d R: indirect /Length %v does not resolve to an integer, leaving stream as read", num, obj.Gen, ref)
			continue
		}

		want := int(n)
		if want < 0 || want == len(obj.Stream.Raw) {
			continue
		}
		if want > len(obj.Stream.Raw) {
			log.Printf("pdf: object %d %d R: indirect /Length %d exceeds %d captured bytes, leaving stream as read", num, obj.Gen, want, len(obj.Stream.Raw))
			continue
		}
		obj.Stream.Raw = obj.Stream.Raw[:want]
		d.Objects[num] = obj
	}
}
