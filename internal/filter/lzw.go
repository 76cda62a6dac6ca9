package filter

import (
	"bytes"
	"io"

	"github.com/hhrutter/lzw"
)

// lzwDecode reverses an LZWDecode filter. hhrutter/lzw mirrors
// compress/lzw's API but adds the /EarlyChange parameter PDF requires
// (7.4.4), which the stdlib codec hardcodes to the TIFF behavior.
func lzwDecode(params Params, data []byte) ([]byte, error) {
	rc := lzw.NewReader(bytes.NewReader(data), params.earlyChange())
	defer rc.Close()
	return io.ReadAll(rc)
}
