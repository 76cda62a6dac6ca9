package document

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/benoitkugler/pdfcore/internal/filter"
	"github.com/benoitkugler/pdfcore/internal/syntax"
	"github.com/benoitkugler/pdfcore/object"
	"github.com/benoitkugler/pdfcore/xref"
)

// UnpackObjectStreams decodes every compressed-object-stream entry in
// d.XRef, parses each packed object, and inserts it into d.Objects at its
// real object number with Gen 0 (compressed objects never carry a
// generation other than 0, per 7.5.7). Each /ObjStm container is then
// deleted from d.Objects and its xref slot marked free: once unpacked, the
// container itself is no longer a live object, only its members are.
//
// Grounded on the teacher's reader/file/object_streams.go
// processObjectStream, generalized from a lazy per-call cache into an
// eager up-front pass since this core has no decryption step motivating
// laziness.
func (d *Document) UnpackObjectStreams() error {
	containers := make(map[uint32][]uint32) // container objnum -> member objnums, in table order
	for _, num := range d.XRef.ObjectNumbers() {
		entry, _ := d.XRef.Lookup(num)
		if entry.Kind == xref.KindCompressed {
			containers[entry.StreamObjNum] = append(containers[entry.StreamObjNum], num)
		}
	}

	for containerNum, members := range containers {
		unpacked, err := d.unpackOneStream(containerNum)
		if err != nil {
			return fmt.Errorf("document: unpacking object stream %d: %w", containerNum, err)
		}
		for _, num := range members {
			entry, _ := d.XRef.Lookup(num)
			if entry.IndexInStream < 0 || entry.IndexInStream >= len(unpacked) {
				return &invalidObjectStreamIndex{containerNum, entry.IndexInStream, len(unpacked)}
			}
			d.Objects[num] = object.IndirectObject{ObjID: num, Gen: 0, Content: unpacked[entry.IndexInStream]}
		}
		delete(d.Objects, containerNum)
		d.XRef.Set(containerNum, xref.Entry{Kind: xref.KindFree})
	}
	return nil
}

type invalidObjectStreamIndex struct {
	container uint32
	index     int
	count     int
}

func (e *invalidObjectStreamIndex) Error() string {
	return fmt.Sprintf("document: object stream %d: index %d out of range (stream has %d objects)", e.container, e.index, e.count)
}

// unpackOneStream decodes a single /ObjStm container into its member
// objects, in stream order.
func (d *Document) unpackOneStream(containerNum uint32) ([]object.Value, error) {
	container, ok := d.Objects[containerNum]
	if !ok || container.Stream == nil {
		return nil, fmt.Errorf("missing /ObjStm container object %d", containerNum)
	}
	dict, _ := container.Dict()

	nV, _ := dict.Get("/N")
	n, ok := nV.(object.Integer)
	if !ok {
		return nil, fmt.Errorf("/ObjStm missing integer /N")
	}
	firstV, _ := dict.Get("/First")
	first, ok := firstV.(object.Integer)
	if !ok {
		return nil, fmt.Errorf("/ObjStm missing integer /First")
	}

	decoded, err := filter.DecodeChain(namesOf(container.Stream.Filter), paramsOf(container.Stream.Parms), container.Stream.Raw)
	if err != nil {
		return nil, err
	}
	if int(first) > len(decoded) {
		return nil, fmt.Errorf("/ObjStm /First %d is past the end of the decoded stream (%d bytes)", first, len(decoded))
	}

	prolog := bytes.ReplaceAll(decoded[:first], []byte{0x00}, []byte{0x20})
	fields := bytes.Fields(prolog)
	if len(fields) != int(n)*2 {
		return nil, fmt.Errorf("/ObjStm prolog has %d fields, expected %d for N=%d", len(fields), n*2, n)
	}

	offsets := make([]int, n)
	for i := range offsets {
		off, err := strconv.Atoi(string(fields[2*i+1]))
		if err != nil {
			return nil, fmt.Errorf("invalid object offset in /ObjStm prolog: %s", fields[2*i+1])
		}
		offsets[i] = int(first) + off
	}

	body := decoded[first:]
	out := make([]object.Value, n)
	for i := range out {
		start := offsets[i] - int(first)
		end := len(body)
		if i+1 < len(offsets) {
			end = offsets[i+1] - int(first)
		}
		if start < 0 || end > len(body) || start > end {
			return nil, fmt.Errorf("invalid offsets in /ObjStm prolog for member %d", i)
		}
		p := syntax.NewParser(body[start:end])
		v, err := p.ParseValue()
		if err != nil {
			return nil, fmt.Errorf("invalid object in /ObjStm: %w", err)
		}
		out[i] = v
	}
	return out, nil
}

func namesOf(names []object.Name) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}

func paramsOf(dicts []*object.Dictionary) []filter.Params {
	out := make([]filter.Params, len(dicts))
	for i, dict := range dicts {
		if dict == nil {
			continue
		}
		out[i] = paramsFromDict(dict)
	}
	return out
}

func paramsFromDict(dict *object.Dictionary) filter.Params {
	var p filter.Params
	if v, ok := dict.Get("/Predictor"); ok {
		if n, ok := v.(object.Integer); ok {
			p.Predictor = int(n)
		}
	}
	if v, ok := dict.Get("/Colors"); ok {
		if n, ok := v.(object.Integer); ok {
			p.Colors = int(n)
		}
	}
	if v, ok := dict.Get("/BitsPerComponent"); ok {
		if n, ok := v.(object.Integer); ok {
			p.BitsPerComponent = int(n)
		}
	}
	if v, ok := dict.Get("/Columns"); ok {
		if n, ok := v.(object.Integer); ok {
			p.Columns = int(n)
		}
	}
	if v, ok := dict.Get("/EarlyChange"); ok {
		if n, ok := v.(object.Integer); ok {
			b := n != 0
			p.EarlyChange = &b
		}
	}
	return p
}
