package reader

import (
	"github.com/benoitkugler/pdfcore/document"
	"github.com/benoitkugler/pdfcore/internal/filter"
	"github.com/benoitkugler/pdfcore/internal/syntax"
	"github.com/benoitkugler/pdfcore/object"
	"github.com/benoitkugler/pdfcore/pdferr"
	"github.com/benoitkugler/pdfcore/xref"
)

// runEOFDispatch consumes the tail of one generation: the "xref"/"trailer"
// section (classical or, via "startxref" pointing at an xref-stream
// object, compressed), stopping once the tokenizer reaches true EOF or the
// start of another generation's "N G obj" header. "%%EOF" itself needs no
// explicit case: the tokenizer treats any "%..."  line as a comment and
// skips it during scanning, so it is simply invisible here.
//
// Grounded on the teacher's end-of-file state machine in
// reader/file/read.go (buildXRefTableStartingAt's dispatch over
// xref/trailer/startxref lines), adapted from single-pass xref chasing
// into a per-generation step of the forward linear scan.
func runEOFDispatch(data []byte, tk *syntax.Tokenizer, doc *document.Document) error {
	sawTrailer := false

	for {
		tok, err := tk.Peek()
		if err != nil {
			return err
		}
		switch {
		case tok.Kind == syntax.EOF:
			return nil
		case tok.IsOther("xref"):
			tk.Next()
			trailer, _, _, err := xref.ParseClassicalSection(tk, doc.XRef)
			if err != nil {
				return err
			}
			mergeTrailer(doc, trailer)
			sawTrailer = true
		case tok.IsOther("trailer"):
			tk.Next()
			p := syntax.NewParserAt(tk)
			v, err := p.ParseValue()
			if err != nil {
				return err
			}
			dict, ok := v.(*object.Dictionary)
			if !ok {
				return &pdferr.SyntaxError{Pos: int64(tk.Pos()), Msg: "trailer is not a dictionary"}
			}
			mergeTrailer(doc, dict)
			sawTrailer = true
		case tok.IsOther("startxref"):
			tk.Next()
			offTok, err := tk.Next()
			if err != nil || offTok.Kind != syntax.Integer {
				return &pdferr.SyntaxError{Pos: int64(tk.Pos()), Msg: "startxref missing an offset"}
			}
			if !sawTrailer {
				// Compressed (xref-stream) form: the offset names the xref
				// stream object itself, which doubles as the trailer.
				off, _ := offTok.Int()
				if err := readXRefStreamAt(data, tk, doc, off); err != nil {
					return err
				}
				sawTrailer = true
			}
		case tok.Kind == syntax.Integer:
			// Either the next generation's "N G obj" header or stray data;
			// look ahead and rewind either way.
			mark := int(tk.Cursor().Tell())
			_, _, _, isHeader, err := tryObjectHeader(tk)
			tk.SetPos(mark)
			if err != nil {
				return err
			}
			if isHeader {
				return nil
			}
			return &pdferr.UnknownTrailerToken{Token: tok.Value, Pos: int64(tk.Pos())}
		default:
			return &pdferr.UnknownTrailerToken{Token: tok.Value, Pos: int64(tk.Pos())}
		}
	}
}

func mergeTrailer(doc *document.Document, trailer *object.Dictionary) {
	for _, k := range trailer.Keys() {
		v, _ := trailer.Get(k)
		doc.Trailer.Set(k, v)
	}
}

// readXRefStreamAt parses the single indirect object at offset off (an
// xref-stream object per 7.5.8) and merges its entries and trailer fields
// into doc. Per spec ("tempseek is the only scoped-acquisition
// primitive"), it shares tk's own cursor and scopes the jump to off with
// Tempseek, so the main generation scan resumes exactly where it left off
// once this returns - the same shape as the Python original's
// `with f.tempseek(offset) as marker:`.
func readXRefStreamAt(data []byte, tk *syntax.Tokenizer, doc *document.Document, off int64) error {
	mark := tk.Cursor().Tempseek(off)
	defer mark.Release()

	sub := syntax.NewFromCursor(tk.Cursor())

	objNum, gen, offset, ok, err := tryObjectHeader(sub)
	if err != nil {
		return err
	}
	if !ok {
		return &pdferr.MalformedXRef{Pos: off, Msg: "startxref does not point at an object header"}
	}

	p := syntax.NewParserAt(sub)
	content, err := p.ParseValue()
	if err != nil {
		return err
	}
	dict, ok := content.(*object.Dictionary)
	if !ok {
		return &pdferr.MalformedXRef{Pos: off, Msg: "xref stream object is not a dictionary"}
	}

	streamTok, err := sub.Next()
	if err != nil || !streamTok.IsOther("stream") {
		return &pdferr.MalformedXRef{Pos: off, Msg: "xref stream object has no stream body"}
	}
	raw, after, err := readStreamRaw(data, sub.Pos(), dict)
	if err != nil {
		return err
	}
	sub.SetPos(after)
	if endTok, err := sub.Next(); err != nil || !endTok.IsOther("endstream") {
		return &pdferr.MalformedXRef{Pos: off, Msg: "xref stream missing endstream"}
	}

	names, parms := streamFilters(dict)
	decoded, err := filter.DecodeChain(namesOfXRef(names), paramsOfXRef(parms), raw)
	if err != nil {
		return err
	}

	if _, _, err := xref.ParseStreamSection(dict, decoded, doc.XRef); err != nil {
		return err
	}
	mergeTrailer(doc, dict)

	// Record the xref-stream object itself so ReserveFreeObjNum sees it,
	// mirroring a regular object's bookkeeping. The forward scan has
	// already stored the object in doc.Objects like any other stream
	// object; it stays there.
	doc.XRef.Set(objNum, xref.Entry{Kind: xref.KindUncompressed, Gen: gen, Offset: int64(offset)})
	return nil
}

func namesOfXRef(names []object.Name) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}

func paramsOfXRef(dicts []*object.Dictionary) []filter.Params {
	out := make([]filter.Params, len(dicts))
	for i, d := range dicts {
		if d == nil {
			continue
		}
		var p filter.Params
		if v, ok := d.Get("/Predictor"); ok {
			if n, ok := v.(object.Integer); ok {
				p.Predictor = int(n)
			}
		}
		if v, ok := d.Get("/Colors"); ok {
			if n, ok := v.(object.Integer); ok {
				p.Colors = int(n)
			}
		}
		if v, ok := d.Get("/BitsPerComponent"); ok {
			if n, ok := v.(object.Integer); ok {
				p.BitsPerComponent = int(n)
			}
		}
		if v, ok := d.Get("/Columns"); ok {
			if n, ok := v.(object.Integer); ok {
				p.Columns = int(n)
			}
		}
		out[i] = p
	}
	return out
}
