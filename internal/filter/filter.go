// Package filter implements the PDF stream filter chain: the codecs named
// in a stream dictionary's /Filter entry, applied in order to turn a
// stream's on-wire bytes into its logical content and back.
//
// Grounded on the teacher's reader/parser/filters package, generalized
// from decode-only "Skipper"s (which only locate an inline image's EOD
// marker) into full Decode/Encode pairs, since this core's writer must
// also produce compressed output.
package filter

import "github.com/benoitkugler/pdfcore/pdferr"

// Filter names, matching the dictionary /Filter entry values (7.4).
const (
	ASCII85   = "/ASCII85Decode"
	ASCIIHex  = "/ASCIIHexDecode"
	RunLength = "/RunLengthDecode"
	LZW       = "/LZWDecode"
	Flate     = "/FlateDecode"
	DCT       = "/DCTDecode"
	CCITTFax  = "/CCITTFaxDecode"
)

// Params carries a filter's /DecodeParms entries relevant to this core.
// Zero values mean "use the PDF-defined default" for the given filter.
type Params struct {
	Predictor        int
	Colors           int
	BitsPerComponent int
	Columns          int
	EarlyChange      *bool // LZWDecode only; nil means default (true)
}

func (p Params) earlyChange() bool {
	if p.EarlyChange == nil {
		return true
	}
	return *p.EarlyChange
}

// Decode reverses one filter stage, given its raw input and its decode
// parameters. CCITTFax and DCT carry image sample data this core has no
// use for decoding; both instead return their bytes unchanged, on the
// same footing as an opaque passthrough stage.
func Decode(name string, params Params, data []byte) ([]byte, error) {
	switch name {
	case Flate:
		return flateDecode(params, data)
	case ASCII85:
		return ascii85Decode(data)
	case ASCIIHex:
		return asciiHexDecode(data)
	case RunLength:
		return runLengthDecode(data)
	case LZW:
		return lzwDecode(params, data)
	case DCT, CCITTFax:
		return data, nil
	default:
		return nil, &pdferr.UnsupportedFilter{Name: name}
	}
}

// Encode applies one filter stage in the forward direction, used by the
// writer to compress newly created or rewritten stream content. Flate,
// ASCII85, ASCIIHex and RunLength are implemented (the writer itself only
// emits Flate); asking to encode anything else is a programming error in
// the writer, not a malformed-input condition, since filter selection is
// entirely under this core's control when producing output.
func Encode(name string, params Params, data []byte) ([]byte, error) {
	switch name {
	case Flate:
		return flateEncode(params, data)
	case ASCII85:
		return ascii85Encode(data), nil
	case ASCIIHex:
		return asciiHexEncode(data), nil
	case RunLength:
		return runLengthEncode(data), nil
	default:
		return nil, &pdferr.UnsupportedFilter{Name: name}
	}
}

// DecodeChain reverses an ordered sequence of filters, pairing each with
// its corresponding params entry (by index; a shorter parms slice means
// the remaining filters use zero Params).
func DecodeChain(names []string, parms []Params, data []byte) ([]byte, error) {
	out := data
	for i, name := range names {
		var p Params
		if i < len(parms) {
			p = parms[i]
		}
		var err error
		out, err = Decode(name, p, out)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
