// Package object implements the PDF value lattice: the small set of typed
// values (null, boolean, integer, real, name, string, array, dictionary,
// indirect reference) that every PDF object body is built from.
//
// Arithmetic on Integer/Real is never performed here: values are parsed and
// re-emitted verbatim, preserving the lexical distinction between the two.
package object

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// Value is a node of the PDF value lattice. The PDF null object is its own
// concrete type, so a Value must never be a nil interface.
type Value interface {
	// isValue is unexported so Value stays a closed set of cases.
	isValue()
}

// Null represents the PDF null object.
type Null struct{}

func (Null) isValue() {}

// Boolean represents true/false.
type Boolean bool

func (Boolean) isValue() {}

// Integer represents a PDF integer literal.
type Integer int64

func (Integer) isValue() {}

// Real represents a PDF real literal. Kept distinct from Integer so that,
// e.g., "1" and "1.0" round-trip to different lexical forms.
type Real float64

func (Real) isValue() {}

// Name is a PDF name object, including its leading slash. Equality is by
// the full textual body (Go's built-in == works directly on Name values).
type Name string

func (Name) isValue() {}

func (n Name) String() string { return string(n) }

// String is a PDF string object. It carries its logical text and whether
// to prefer the hex-string form on output; whether the text needs a
// UTF-16BE (non-ASCII) on-wire encoding is derived from Text (IsASCII).
// Equality is defined on Text alone.
type String struct {
	Text     string
	NeedsHex bool // prefer a hex-string literal on output (set by the parser for <...> input)
}

func (String) isValue() {}

// utf16BE is the codec the teacher's model/writer/writer.go names
// utf16Enc, matching spec.md's "FE FF => UTF-16BE" text-string rule.
var utf16BE = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// NewString builds a String from a parenthesized-or-hex literal's decoded
// byte content (the parser hands over raw bytes one-to-one, so raw's bytes
// are exactly what appeared on the wire between the delimiters). A leading
// FE FF byte-order mark per 7.9.2.2 means the remainder is UTF-16BE text;
// anything else is taken as-is (PDFDocEncoding/ASCII are both byte-for-byte
// identity for the code points this core round-trips).
func NewString(raw string) String {
	if len(raw) >= 2 && raw[0] == '\xFE' && raw[1] == '\xFF' {
		if decoded, err := utf16BE.NewDecoder().String(raw[2:]); err == nil {
			return String{Text: decoded}
		}
	}
	return String{Text: raw}
}

// IsASCII reports whether Text encodes as plain ASCII bytes (no BOM needed).
func (s String) IsASCII() bool {
	for _, r := range s.Text {
		if r > 0x7f {
			return false
		}
	}
	return true
}

// literalEscaper escapes the four bytes a literal string's delimiters and
// line-ending rule make significant (7.3.4.2): backslash, both parens and
// CR. It runs on the on-wire bytes, after any UTF-16BE encoding, because a
// reader resolves literal-string escapes byte by byte before it decodes
// UTF-16: a UTF-16 code unit containing one of these bytes is escaped as
// well, and the reader restores it.
var literalEscaper = strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`, "\r", `\r`)

// EncodeBytes returns the on-wire byte payload for s, with no delimiter
// escaping applied: its ASCII bytes when Text is ASCII-only, else a FE FF
// byte-order mark followed by the UTF-16BE encoding of Text (7.9.2.2).
// EncodeHex uses this directly (a hex string has no delimiter conflict to
// escape); EncodeLiteral escapes its result.
func (s String) EncodeBytes() []byte {
	if s.IsASCII() {
		return []byte(s.Text)
	}
	encoded, err := utf16BE.NewEncoder().String(s.Text)
	if err != nil {
		// Text contains a code point UTF-16 cannot represent (an unpaired
		// surrogate); fall back to its raw bytes rather than fail output.
		return []byte(s.Text)
	}
	return append([]byte{0xFE, 0xFF}, encoded...)
}

// EncodeLiteral returns s serialized as a literal string, including its
// surrounding parens, with backslash/parens/CR escaped per 7.3.4.2.
func (s String) EncodeLiteral() []byte {
	escaped := literalEscaper.Replace(string(s.EncodeBytes()))
	return append(append([]byte("("), escaped...), ')')
}

// EncodeHex returns s serialized as a hex string, including its
// surrounding angle brackets, uppercase per the teacher's convention.
func (s String) EncodeHex() []byte {
	const hexDigits = "0123456789ABCDEF"
	raw := s.EncodeBytes()
	out := make([]byte, 0, len(raw)*2+2)
	out = append(out, '<')
	for _, b := range raw {
		out = append(out, hexDigits[b>>4], hexDigits[b&0xf])
	}
	out = append(out, '>')
	return out
}

// Encode returns s in whichever on-wire form it prefers: hex if NeedsHex
// (typically because it was parsed from one), literal otherwise.
func (s String) Encode() []byte {
	if s.NeedsHex {
		return s.EncodeHex()
	}
	return s.EncodeLiteral()
}

// Array is an ordered sequence of values.
type Array []Value

func (Array) isValue() {}

// Dictionary maps Name to Value, preserving insertion order for
// deterministic output. Duplicate keys on parse: last wins. The zero value
// is not usable; use NewDictionary.
type Dictionary struct {
	values map[Name]Value
	order  []Name
}

func (*Dictionary) isValue() {}

// NewDictionary returns an empty, ready-to-use dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{values: map[Name]Value{}}
}

// Get looks up key, returning (nil, false) if absent.
func (d *Dictionary) Get(key Name) (Value, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d.values[key]
	return v, ok
}

// Set inserts or overwrites key, appending it to the key order on first
// insertion only.
func (d *Dictionary) Set(key Name, v Value) {
	if _, has := d.values[key]; !has {
		d.order = append(d.order, key)
	}
	d.values[key] = v
}

// Delete removes key, if present.
func (d *Dictionary) Delete(key Name) {
	if _, has := d.values[key]; !has {
		return
	}
	delete(d.values, key)
	for i, k := range d.order {
		if k == key {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// Keys returns the dictionary's keys in insertion order.
func (d *Dictionary) Keys() []Name {
	if d == nil {
		return nil
	}
	out := make([]Name, len(d.order))
	copy(out, d.order)
	return out
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.order)
}

// Clone returns a deep copy preserving key order.
func (d *Dictionary) Clone() *Dictionary {
	out := NewDictionary()
	for _, k := range d.Keys() {
		v, _ := d.Get(k)
		out.Set(k, CloneValue(v))
	}
	return out
}

// Reference is an indirect reference to an (ObjID, Gen) object.
type Reference struct {
	ObjID uint32
	Gen   uint16
}

func (Reference) isValue() {}

func (r Reference) String() string { return fmt.Sprintf("%d %d R", r.ObjID, r.Gen) }

// CloneValue returns a deep copy of v, preserving its concrete type. Scalar
// types (Null, Boolean, Integer, Real, Name, String, Reference) are
// immutable and returned as-is.
func CloneValue(v Value) Value {
	switch t := v.(type) {
	case Array:
		out := make(Array, len(t))
		for i, e := range t {
			out[i] = CloneValue(e)
		}
		return out
	case *Dictionary:
		return t.Clone()
	default:
		return v
	}
}

// Equal reports deep equality between two values. It recurses into arrays
// and dictionaries; the comparison is not iterative. Named so callers
// don't need reflect.DeepEqual, which would recurse through unexported
// Dictionary fields in an order-sensitive way.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Boolean:
		bv, ok := b.(Boolean)
		return ok && av == bv
	case Integer:
		bv, ok := b.(Integer)
		return ok && av == bv
	case Real:
		bv, ok := b.(Real)
		return ok && av == bv
	case Name:
		bv, ok := b.(Name)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av.Text == bv.Text
	case Reference:
		bv, ok := b.(Reference)
		return ok && av == bv
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Dictionary:
		bv, ok := b.(*Dictionary)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, k := range av.Keys() {
			va, _ := av.Get(k)
			vb, has := bv.Get(k)
			if !has || !Equal(va, vb) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
