package syntax

import (
	"github.com/benoitkugler/pdfcore/object"
	"github.com/benoitkugler/pdfcore/pdferr"
)

// Parser turns a token stream into object.Value trees. It understands PDF
// object syntax only: arrays, dictionaries, names, strings, numbers, and
// the "N G R" indirect-reference production. Streams (the bytes following
// a "stream" keyword) are handled one level up, by the reader, since their
// length may itself be an indirect reference that only the document's
// object table can resolve.
type Parser struct {
	tk *Tokenizer
}

// NewParser returns a Parser reading from data starting at offset 0.
func NewParser(data []byte) *Parser {
	return &Parser{tk: New(data)}
}

// NewParserAt returns a Parser sharing tk's position (used by the reader,
// which already owns a Tokenizer positioned at an object's body).
func NewParserAt(tk *Tokenizer) *Parser {
	return &Parser{tk: tk}
}

// Pos returns the offset just past the most recently consumed token.
func (p *Parser) Pos() int { return p.tk.Pos() }

// ParseValue reads exactly one PDF value starting at the parser's current
// position.
func (p *Parser) ParseValue() (object.Value, error) {
	tok, err := p.tk.Next()
	if err != nil {
		return nil, wrapSyntax(err, p.tk.Pos())
	}

	switch tok.Kind {
	case EOF:
		return nil, &pdferr.UnexpectedEOF{Context: "object value"}
	case NameTok:
		return object.Name("/" + tok.Value), nil
	case String:
		return object.NewString(tok.Value), nil
	case StringHex:
		s := object.NewString(tok.Value)
		s.NeedsHex = true
		return s, nil
	case StartArray:
		return p.parseArray()
	case StartDict:
		return p.parseDict()
	case Float:
		f, err := tok.Float64()
		if err != nil {
			return nil, wrapSyntax(err, p.tk.Pos())
		}
		return object.Real(f), nil
	case Integer:
		return p.parseIntegerOrReference(tok)
	case Other:
		return p.parseKeyword(tok.Value)
	default:
		return nil, &pdferr.SyntaxError{Pos: int64(p.tk.Pos()), Msg: "unexpected token " + tok.Kind.String()}
	}
}

func (p *Parser) parseArray() (object.Array, error) {
	arr := object.Array{}
	for {
		tok, err := p.tk.Peek()
		if err != nil {
			return nil, wrapSyntax(err, p.tk.Pos())
		}
		switch tok.Kind {
		case EndArray:
			p.tk.Next()
			return arr, nil
		case EOF:
			return nil, &pdferr.SyntaxError{Pos: int64(p.tk.Pos()), Msg: "unterminated array"}
		default:
			v, err := p.ParseValue()
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
	}
}

func (p *Parser) parseDict() (*object.Dictionary, error) {
	d := object.NewDictionary()
	for {
		tok, err := p.tk.Peek()
		if err != nil {
			return nil, wrapSyntax(err, p.tk.Pos())
		}
		switch tok.Kind {
		case EndDict:
			p.tk.Next()
			return d, nil
		case EOF:
			return nil, &pdferr.SyntaxError{Pos: int64(p.tk.Pos()), Msg: "unterminated dictionary"}
		case NameTok:
			p.tk.Next()
			key := object.Name("/" + tok.Value)
			v, err := p.ParseValue()
			if err != nil {
				return nil, err
			}
			// A null-valued entry is equivalent to the entry being absent (7.3.7).
			if _, isNull := v.(object.Null); !isNull {
				d.Set(key, v)
			}
		default:
			return nil, &pdferr.SyntaxError{Pos: int64(p.tk.Pos()), Msg: "expected name or '>>' in dictionary"}
		}
	}
}

func (p *Parser) parseKeyword(kw string) (object.Value, error) {
	switch kw {
	case "null":
		return object.Null{}, nil
	case "true":
		return object.Boolean(true), nil
	case "false":
		return object.Boolean(false), nil
	default:
		return nil, &pdferr.SyntaxError{Pos: int64(p.tk.Pos()), Msg: "unexpected keyword " + kw}
	}
}

// parseIntegerOrReference disambiguates a bare Integer from the start of
// an "objnum gen R" indirect reference by speculatively reading ahead and
// rewinding if the pattern doesn't hold.
func (p *Parser) parseIntegerOrReference(first Token) (object.Value, error) {
	n, err := first.Int()
	if err != nil {
		return nil, wrapSyntax(err, p.tk.Pos())
	}
	markAfterFirst := p.tk.Pos()

	second, err := p.tk.Next()
	if err != nil || second.Kind != Integer {
		p.tk.SetPos(markAfterFirst)
		return object.Integer(n), nil
	}
	gen, err := second.Int()
	if err != nil {
		p.tk.SetPos(markAfterFirst)
		return object.Integer(n), nil
	}

	third, err := p.tk.Next()
	if err != nil || !third.IsOther("R") {
		p.tk.SetPos(markAfterFirst)
		return object.Integer(n), nil
	}

	return object.Reference{ObjID: uint32(n), Gen: uint16(gen)}, nil
}

func wrapSyntax(err error, pos int) error {
	if se, ok := err.(*SyntaxError); ok {
		return &pdferr.SyntaxError{Pos: int64(pos), Msg: se.Msg}
	}
	return err
}
