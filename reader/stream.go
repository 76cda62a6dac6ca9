package reader

import (
	"github.com/benoitkugler/pdfcore/internal/cursor"
	"github.com/benoitkugler/pdfcore/object"
	"github.com/benoitkugler/pdfcore/pdferr"
)

var endstreamMarker = []byte("endstream")

// readStreamRaw extracts the raw bytes between a "stream" keyword (already
// consumed; after points just past it) and the following "endstream"
// keyword. When dict's /Length is a direct integer, that count is trusted
// verbatim (read with the cursor's ReadN); otherwise (missing, or an
// indirect reference not yet resolvable during the forward scan) the
// cursor's ReadUntilToken scans for the first "endstream" marker instead,
// and document.FixObjectSizes reconciles the length once every object has
// been read.
//
// Per 7.3.8.1, "stream" must be followed by CRLF or a lone LF (never a
// lone CR) before the data begins; that EOL is consumed here (via Peek,
// so a bare LF isn't mistaken for part of a CRLF pair) and is not part of
// the raw payload.
func readStreamRaw(data []byte, after int, dict *object.Dictionary) (raw []byte, next int, err error) {
	c := cursor.New(data)
	c.Seek(int64(after))

	switch lookahead := c.Peek(2); {
	case len(lookahead) >= 1 && lookahead[0] == '\r':
		c.Seek(c.Tell() + 1)
		if len(lookahead) == 2 && lookahead[1] == '\n' {
			c.Seek(c.Tell() + 1)
		}
	case len(lookahead) >= 1 && lookahead[0] == '\n':
		c.Seek(c.Tell() + 1)
	}

	if lengthV, ok := dict.Get("/Length"); ok {
		if n, ok := lengthV.(object.Integer); ok && n >= 0 {
			raw, err := c.ReadN(int(n), "stream data")
			if err != nil {
				return nil, 0, err
			}
			return raw, int(c.Tell()), nil
		}
	}

	before, err := c.ReadUntilToken(endstreamMarker, true)
	if err != nil {
		return nil, 0, &pdferr.UnexpectedEOF{Context: "stream data (no endstream marker)"}
	}
	return trimStreamEOL(before), int(c.Tell()), nil
}

// trimStreamEOL drops the single EOL marker writers conventionally place
// just before "endstream", which is not part of the stream's own data.
func trimStreamEOL(b []byte) []byte {
	if len(b) >= 2 && b[len(b)-2] == '\r' && b[len(b)-1] == '\n' {
		return b[:len(b)-2]
	}
	if len(b) >= 1 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		return b[:len(b)-1]
	}
	return b
}

// streamFilters reads a stream dictionary's /Filter and /DecodeParms
// entries, normalizing the single-filter and filter-chain forms (7.4) into
// parallel slices.
func streamFilters(dict *object.Dictionary) ([]object.Name, []*object.Dictionary) {
	var names []object.Name
	filterV, _ := dict.Get("/Filter")
	switch v := filterV.(type) {
	case object.Name:
		names = []object.Name{v}
	case object.Array:
		for _, e := range v {
			if n, ok := e.(object.Name); ok {
				names = append(names, n)
			}
		}
	}

	parms := make([]*object.Dictionary, len(names))
	parmsV, _ := dict.Get("/DecodeParms")
	switch v := parmsV.(type) {
	case *object.Dictionary:
		if len(parms) > 0 {
			parms[0] = v
		}
	case object.Array:
		for i := range v {
			if i >= len(parms) {
				break
			}
			if d, ok := v[i].(*object.Dictionary); ok {
				parms[i] = d
			}
		}
	}
	return names, parms
}
