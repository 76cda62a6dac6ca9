package reader

import (
	"bytes"
	"log"

	"github.com/benoitkugler/pdfcore/internal/cursor"
	"github.com/benoitkugler/pdfcore/pdferr"
)

var supportedVersions = map[string]bool{
	"1.3": true, "1.4": true, "1.5": true, "1.6": true, "1.7": true,
}

// readHeader consumes the "%PDF-X.Y" version line and the following
// binary-marker comment line (7.5.2). An unrecognized version only warns;
// a missing binary marker rewinds past the version line so body parsing
// still starts at the right place.
func readHeader(c *cursor.Cursor) {
	first := c.ReadLine()
	version, ok := parseVersionLine(first)
	switch {
	case !ok:
		log.Printf("pdf: missing or malformed %%PDF header line")
	case !supportedVersions[version]:
		log.Print((&pdferr.UnsupportedVersion{Version: version}).Error())
	}

	afterHeaderLine := c.Tell()
	second := c.ReadLine()
	if !isBinaryMarker(second) {
		c.Seek(afterHeaderLine)
		log.Printf("pdf: missing binary marker comment after header")
	}
}

func parseVersionLine(line []byte) (string, bool) {
	const prefix = "%PDF-"
	if !bytes.HasPrefix(line, []byte(prefix)) {
		return "", false
	}
	return string(line[len(prefix):]), true
}

// isBinaryMarker reports whether line is a comment with at least four
// bytes with the high bit set, the convention writers use to signal a
// binary file to naive transfer tools (7.5.2).
func isBinaryMarker(line []byte) bool {
	if len(line) == 0 || line[0] != '%' {
		return false
	}
	highBitCount := 0
	for _, b := range line[1:] {
		if b >= 0x80 {
			highBitCount++
		}
	}
	return highBitCount >= 4
}
