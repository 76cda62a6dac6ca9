package reader

import (
	"github.com/benoitkugler/pdfcore/document"
	"github.com/benoitkugler/pdfcore/internal/syntax"
	"github.com/benoitkugler/pdfcore/object"
	"github.com/benoitkugler/pdfcore/pdferr"
	"github.com/benoitkugler/pdfcore/xref"
)

// tryObjectHeader speculatively reads an "objnum gen obj" header. On any
// mismatch it rewinds tk to its original position and reports ok=false,
// letting the caller fall through to the end-of-file dispatch loop.
func tryObjectHeader(tk *syntax.Tokenizer) (objNum uint32, gen uint16, offset int, ok bool, err error) {
	// The cursor, not tk.Pos(), marks where the next token's scan begins:
	// after a Peek, tk.Pos() already points past the peeked token.
	mark := int(tk.Cursor().Tell())

	numTok, err := tk.Next()
	if err != nil {
		return 0, 0, 0, false, err
	}
	if numTok.Kind != syntax.Integer {
		tk.SetPos(mark)
		return 0, 0, 0, false, nil
	}
	start := tk.Pos() - len(numTok.Value)
	n, convErr := numTok.Int()
	if convErr != nil {
		tk.SetPos(mark)
		return 0, 0, 0, false, nil
	}

	genTok, err := tk.Next()
	if err != nil || genTok.Kind != syntax.Integer {
		tk.SetPos(mark)
		return 0, 0, 0, false, nil
	}
	g, convErr := genTok.Int()
	if convErr != nil {
		tk.SetPos(mark)
		return 0, 0, 0, false, nil
	}

	kwTok, err := tk.Next()
	if err != nil || !kwTok.IsOther("obj") {
		tk.SetPos(mark)
		return 0, 0, 0, false, nil
	}

	return uint32(n), uint16(g), start, true, nil
}

// readIndirectObject parses one complete "objnum gen obj ... endobj" body
// (tryObjectHeader has already consumed the header) and records it in doc,
// both as a materialized object.IndirectObject and as an xref entry so
// ReserveFreeObjNum and future object-stream lookups see a consistent
// table. A later generation parsed afterwards naturally overwrites an
// earlier one here, the same Set-wins rule xref.Table uses internally.
//
// Grounded on the teacher's parseIndirectObject/parseStreamDict in
// reader/file/read.go, adapted from xref-offset-driven random access into
// a step of the forward linear scan (Open Question 1 in DESIGN.md).
func readIndirectObject(data []byte, tk *syntax.Tokenizer, doc *document.Document, objNum uint32, gen uint16, offset int) error {
	p := syntax.NewParserAt(tk)
	content, err := p.ParseValue()
	if err != nil {
		return err
	}

	next, err := tk.Peek()
	if err != nil {
		return err
	}

	obj := object.IndirectObject{ObjID: objNum, Gen: gen, Content: content}

	if next.IsOther("stream") {
		tk.Next()
		dict, ok := content.(*object.Dictionary)
		if !ok {
			return &pdferr.SyntaxError{Pos: int64(tk.Pos()), Msg: "stream keyword after non-dictionary object"}
		}
		raw, after, err := readStreamRaw(data, tk.Pos(), dict)
		if err != nil {
			return err
		}
		tk.SetPos(after)

		endTok, err := tk.Next()
		if err != nil || !endTok.IsOther("endstream") {
			return &pdferr.SyntaxError{Pos: int64(tk.Pos()), Msg: "expected endstream"}
		}

		names, parms := streamFilters(dict)
		obj.Stream = &object.StreamData{Raw: raw, Filter: names, Parms: parms}

		next, err = tk.Next()
		if err != nil {
			return err
		}
	} else {
		tk.Next()
	}

	if !next.IsOther("endobj") {
		return &pdferr.SyntaxError{Pos: int64(tk.Pos()), Msg: "expected endobj"}
	}

	doc.Objects[objNum] = obj
	doc.XRef.Set(objNum, xref.Entry{Kind: xref.KindUncompressed, Gen: gen, Offset: int64(offset)})
	return nil
}
