// Package writer re-serializes a document.Document back into PDF bytes:
// header, object bodies (optionally packed into object streams), a
// cross-reference section (classical or stream form), trailer, and tail.
//
// Grounded on the teacher's model/write.go (per-type PDF string building,
// EscapeByteString/EspaceHexString) and model/writer/writer.go (the
// byte-counting output sink, writeHeader/writeFooter shape), generalized
// from the teacher's semantic object model to this core's low-level
// object.Value lattice.
package writer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/benoitkugler/pdfcore/object"
)

const hexDigitsUpper = "0123456789ABCDEF"

// nameEscapeExceptions lists printable bytes that are nonetheless
// delimiters and so must be escaped inside a name even though they fall
// in the otherwise-unescaped '!'..'~' range (7.3.5).
var nameEscapeExceptions = map[byte]bool{
	'#': true, '(': true, ')': true, '<': true, '>': true,
	'[': true, ']': true, '{': true, '}': true, '/': true, '%': true,
}

// EncodeName serializes n (which already carries its leading slash) into
// its on-wire form, escaping any byte outside '!'..'~' or in
// nameEscapeExceptions as "#hh".
func EncodeName(n object.Name) []byte {
	body := strings.TrimPrefix(string(n), "/")
	out := make([]byte, 0, len(body)+1)
	out = append(out, '/')
	for i := 0; i < len(body); i++ {
		b := body[i]
		if b < '!' || b > '~' || nameEscapeExceptions[b] {
			out = append(out, '#', hexDigitsUpper[b>>4], hexDigitsUpper[b&0xf])
			continue
		}
		out = append(out, b)
	}
	return out
}

// EncodeReal formats f as the shortest decimal with at least one
// fractional digit and no exponent, per spec.md's Real serializer rule.
func EncodeReal(f float64) []byte {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return []byte(s)
}

// Options controls cosmetic and structural choices the writer makes that
// do not affect the document's logical content.
type Options struct {
	Pretty                       bool // indent dictionaries with newlines; arrays stay on one line
	UseObjectStreams             bool // pack non-stream objects into /ObjStm containers; implies UseXRefStream
	UseXRefStream                bool // emit xref as a compressed stream object
	CompressObjectCount          int  // max members per /ObjStm container (default 100)
	MaxContainerContentSizeBytes int  // cap on summed decoded size per container (default 1 MiB)
}

// DefaultOptions returns the writer's default configuration: a classical,
// uncompressed, compact (non-pretty) file — the most broadly compatible
// shape, matching the teacher's own default (PDF 1.7, no object streams).
func DefaultOptions() Options {
	return Options{
		CompressObjectCount:          100,
		MaxContainerContentSizeBytes: 1 << 20,
	}
}

func (o Options) normalized() Options {
	if o.UseObjectStreams {
		o.UseXRefStream = true
	}
	if o.CompressObjectCount <= 0 {
		o.CompressObjectCount = 100
	}
	if o.MaxContainerContentSizeBytes <= 0 {
		o.MaxContainerContentSizeBytes = 1 << 20
	}
	return o
}

// Serialize renders v in its on-wire form. pretty and depth control
// indentation of dictionaries (arrays are always written on one line);
// depth is the current nesting level.
func Serialize(v object.Value, pretty bool, depth int) []byte {
	switch t := v.(type) {
	case object.Null:
		return []byte("null")
	case object.Boolean:
		if t {
			return []byte("true")
		}
		return []byte("false")
	case object.Integer:
		return []byte(strconv.FormatInt(int64(t), 10))
	case object.Real:
		return EncodeReal(float64(t))
	case object.Name:
		return EncodeName(t)
	case object.String:
		return t.Encode()
	case object.Reference:
		return []byte(fmt.Sprintf("%d %d R", t.ObjID, t.Gen))
	case object.Array:
		return serializeArray(t, pretty, depth)
	case *object.Dictionary:
		return serializeDict(t, pretty, depth)
	default:
		panic(fmt.Sprintf("writer: unhandled value type %T", v))
	}
}

func serializeArray(a object.Array, pretty bool, depth int) []byte {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range a {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.Write(Serialize(e, pretty, depth))
	}
	b.WriteByte(']')
	return []byte(b.String())
}

func serializeDict(d *object.Dictionary, pretty bool, depth int) []byte {
	var b strings.Builder
	indent := strings.Repeat("  ", depth+1)
	b.WriteString("<<")
	for _, k := range d.Keys() {
		v, _ := d.Get(k)
		if pretty {
			b.WriteByte('\n')
			b.WriteString(indent)
		} else {
			b.WriteByte(' ')
		}
		b.Write(EncodeName(k))
		b.WriteByte(' ')
		b.Write(Serialize(v, pretty, depth+1))
	}
	if pretty {
		b.WriteByte('\n')
		b.WriteString(strings.Repeat("  ", depth))
	} else {
		b.WriteByte(' ')
	}
	b.WriteString(">>")
	return []byte(b.String())
}
