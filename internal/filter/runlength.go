package filter

import "github.com/benoitkugler/pdfcore/pdferr"

const runLengthEOD = 0x80

// runLengthDecode reverses a RunLengthDecode filter (7.4.5). Grounded on
// the teacher's SkipperRunLength.decode loop, generalized to return the
// decoded bytes instead of only counting how much input it consumed.
func runLengthDecode(data []byte) ([]byte, error) {
	var out []byte
	i := 0
	for {
		if i >= len(data) {
			return nil, &pdferr.UnexpectedEOF{Context: "RunLengthDecode data (missing EOD)"}
		}
		length := data[i]
		i++
		switch {
		case length == runLengthEOD:
			return out, nil
		case length < 0x80:
			n := int(length) + 1
			if i+n > len(data) {
				return nil, &pdferr.UnexpectedEOF{Context: "RunLengthDecode literal run"}
			}
			out = append(out, data[i:i+n]...)
			i += n
		default:
			if i >= len(data) {
				return nil, &pdferr.UnexpectedEOF{Context: "RunLengthDecode repeated run"}
			}
			n := 257 - int(length)
			b := data[i]
			i++
			for j := 0; j < n; j++ {
				out = append(out, b)
			}
		}
	}
}

// runLengthEncode applies a simple, correct (if not byte-optimal) forward
// RunLengthDecode encoding: every input byte is emitted as its own
// one-byte literal run. This core's writer never needs a space-optimal
// encoder, only a valid round-trip partner for runLengthDecode.
func runLengthEncode(data []byte) []byte {
	out := make([]byte, 0, len(data)*2+1)
	for _, b := range data {
		out = append(out, 0, b)
	}
	return append(out, runLengthEOD)
}
