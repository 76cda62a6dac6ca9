// Package syntax implements the lowest level of PDF processing: a
// byte-to-token scanner, and a grammar layer turning a token stream into
// object.Value trees.
//
// Ported from the teacher's own PS/PDF tokenizer, trimmed to the PDF
// subset this core targets: PostScript-only constructs (procs, binary
// CharStrings, radix numbers) are not needed here and are dropped.
package syntax

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/benoitkugler/pdfcore/internal/cursor"
)

// Kind classifies a Token.
type Kind uint8

const (
	EOF Kind = iota
	Integer
	Float
	String
	StringHex
	NameTok
	StartArray
	EndArray
	StartDict
	EndDict
	Other // bare keyword: obj, endobj, stream, R, true, false, null, xref, trailer...
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Integer:
		return "Integer"
	case Float:
		return "Float"
	case String:
		return "String"
	case StringHex:
		return "StringHex"
	case NameTok:
		return "Name"
	case StartArray:
		return "StartArray"
	case EndArray:
		return "EndArray"
	case StartDict:
		return "StartDict"
	case EndDict:
		return "EndDict"
	case Other:
		return "Other"
	default:
		return "<invalid>"
	}
}

// Token is one lexical unit. Value carries the raw decoded payload
// (name body with # escapes resolved, string body with escapes resolved,
// numeric literal text) and must be interpreted according to Kind.
type Token struct {
	Kind  Kind
	Value string
}

func (t Token) Int() (int64, error) {
	f, err := t.Float64()
	return int64(f), err
}

func (t Token) Float64() (float64, error) {
	return strconv.ParseFloat(t.Value, 64)
}

func (t Token) IsNumber() bool { return t.Kind == Integer || t.Kind == Float }

func (t Token) IsOther(keyword string) bool { return t.Kind == Other && t.Value == keyword }

func isWhitespace(ch byte) bool {
	switch ch {
	case 0, 9, 10, 12, 13, 32:
		return true
	default:
		return false
	}
}

func isDelimiter(ch byte) bool {
	switch ch {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	default:
		return isWhitespace(ch)
	}
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

// Tokenizer scans a cursor's byte stream into Tokens, with one token of
// lookahead (Peek) so the grammar layer can decide between a bare
// integer and the start of an "N G R" indirect reference. All byte access
// goes through the underlying cursor.Cursor: per spec the read data-flow
// is bytes -> cursor -> parser, and a Tokenizer is just the grammar-aware
// front end of that cursor.
type Tokenizer struct {
	c *cursor.Cursor

	curEnd  int // end offset of the current (peeked) token
	peeked  Token
	peekErr error
	havePeek bool
}

// New returns a Tokenizer scanning a fresh cursor over data, starting at
// offset 0.
func New(data []byte) *Tokenizer {
	return NewFromCursor(cursor.New(data))
}

// NewFromCursor returns a Tokenizer scanning c in place, starting from
// its current offset. The tokenizer and any other holder of c observe
// each other's seeks - used to share position across a scoped Tempseek,
// e.g. reader/dispatch.go's readXRefStreamAt.
func NewFromCursor(c *cursor.Cursor) *Tokenizer {
	return &Tokenizer{c: c, curEnd: int(c.Tell())}
}

// Cursor returns the tokenizer's underlying cursor.
func (tk *Tokenizer) Cursor() *cursor.Cursor { return tk.c }

// Pos returns the offset just past the most recently returned token.
func (tk *Tokenizer) Pos() int { return tk.curEnd }

// SetPos resets scanning to start at abs, discarding any cached lookahead.
func (tk *Tokenizer) SetPos(abs int) {
	tk.c.Seek(int64(abs))
	tk.curEnd = abs
	tk.havePeek = false
}

// Peek returns the next token without consuming it.
func (tk *Tokenizer) Peek() (Token, error) {
	if !tk.havePeek {
		save := tk.c.Tell()
		t, err := tk.scan()
		tk.peeked, tk.peekErr = t, err
		tk.curEnd = int(tk.c.Tell())
		tk.c.Seek(save) // scan() advanced the cursor; Next() will re-advance from save
		tk.havePeek = true
	}
	return tk.peeked, tk.peekErr
}

// Next returns and consumes the next token.
func (tk *Tokenizer) Next() (Token, error) {
	if tk.havePeek {
		tk.havePeek = false
		tk.c.Seek(int64(tk.curEnd))
		return tk.peeked, tk.peekErr
	}
	t, err := tk.scan()
	tk.curEnd = int(tk.c.Tell())
	return t, err
}

// SkipBytes consumes exactly n bytes starting at the current position
// (used after a "stream" keyword once the caller has located the data's
// start), returning them and discarding any stale lookahead. Truncates
// near EOF rather than erroring, matching the caller's own length check.
func (tk *Tokenizer) SkipBytes(n int) []byte {
	start := tk.curEnd
	tk.c.Seek(int64(start))
	out := tk.c.Peek(n)
	tk.SetPos(start + len(out))
	return out
}

func (tk *Tokenizer) read() (byte, bool) {
	return tk.c.ReadByte()
}

func (tk *Tokenizer) scan() (Token, error) {
	ch, ok := tk.read()
	for ok && isWhitespace(ch) {
		ch, ok = tk.read()
	}
	if !ok {
		return Token{Kind: EOF}, nil
	}

	switch ch {
	case '[':
		return Token{Kind: StartArray}, nil
	case ']':
		return Token{Kind: EndArray}, nil
	case '/':
		return tk.scanName()
	case '<':
		return tk.scanAngle()
	case '>':
		ch2, _ := tk.read()
		if ch2 != '>' {
			return Token{}, &SyntaxError{Msg: "lone '>'"}
		}
		return Token{Kind: EndDict}, nil
	case '%':
		for ok && ch != '\r' && ch != '\n' {
			ch, ok = tk.read()
		}
		return tk.scan()
	case '(':
		return tk.scanLiteralString()
	default:
		tk.c.UnreadByte()
		if t, ok := tk.scanNumber(); ok {
			return t, nil
		}
		return tk.scanKeyword()
	}
}

func (tk *Tokenizer) scanName() (Token, error) {
	var out []byte
	for {
		ch, ok := tk.read()
		if !ok || isDelimiter(ch) {
			if ok {
				tk.c.UnreadByte()
			}
			break
		}
		if ch == '#' {
			h1, _ := tk.read()
			h2, _ := tk.read()
			b, err := hex.DecodeString(string([]byte{h1, h2}))
			if err != nil {
				return Token{}, &SyntaxError{Msg: "malformed name escape"}
			}
			out = append(out, b[0])
			continue
		}
		out = append(out, ch)
	}
	return Token{Kind: NameTok, Value: string(out)}, nil
}

func (tk *Tokenizer) scanAngle() (Token, error) {
	v1, ok1 := tk.read()
	if v1 == '<' {
		return Token{Kind: StartDict}, nil
	}
	var out []byte
	for {
		for ok1 && isWhitespace(v1) {
			v1, ok1 = tk.read()
		}
		if v1 == '>' {
			break
		}
		d1, ok := hexDigit(v1)
		if !ok {
			return Token{}, &SyntaxError{Msg: "invalid hex digit in hex string"}
		}
		v2, ok2 := tk.read()
		for ok2 && isWhitespace(v2) {
			v2, ok2 = tk.read()
		}
		if v2 == '>' {
			out = append(out, d1<<4)
			break
		}
		d2, ok := hexDigit(v2)
		if !ok {
			return Token{}, &SyntaxError{Msg: "invalid hex digit in hex string"}
		}
		out = append(out, (d1<<4)+d2)
		v1, ok1 = tk.read()
	}
	return Token{Kind: StringHex, Value: string(out)}, nil
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func (tk *Tokenizer) scanLiteralString() (Token, error) {
	var out []byte
	nesting := 0
	for {
		ch, ok := tk.read()
		if !ok {
			return Token{}, &SyntaxError{Msg: "unterminated literal string"}
		}
		switch {
		case ch == '(':
			nesting++
		case ch == ')':
			if nesting == 0 {
				return Token{Kind: String, Value: string(out)}, nil
			}
			nesting--
		case ch == '\\':
			b, lineBreak, readErr := tk.readEscape()
			if readErr != nil {
				return Token{}, readErr
			}
			if lineBreak {
				continue
			}
			ch = b
		case ch == '\r':
			nxt, ok2 := tk.read()
			if ok2 && nxt != '\n' {
				tk.c.UnreadByte()
			}
			ch = '\n'
		}
		out = append(out, ch)
	}
}

func (tk *Tokenizer) readEscape() (byte, bool, error) {
	ch, ok := tk.read()
	if !ok {
		return 0, false, &SyntaxError{Msg: "unterminated escape in literal string"}
	}
	switch ch {
	case 'n':
		return '\n', false, nil
	case 'r':
		return '\r', false, nil
	case 't':
		return '\t', false, nil
	case 'b':
		return '\b', false, nil
	case 'f':
		return '\f', false, nil
	case '(', ')', '\\':
		return ch, false, nil
	case '\r':
		nxt, ok2 := tk.read()
		if ok2 && nxt != '\n' {
			tk.c.UnreadByte()
		}
		return 0, true, nil
	case '\n':
		return 0, true, nil
	default:
		if ch < '0' || ch > '7' {
			// unrecognized escape: the backslash is ignored, char passes through
			return ch, false, nil
		}
		octal := ch - '0'
		for i := 0; i < 2; i++ {
			nxt, ok2 := tk.read()
			if !ok2 || nxt < '0' || nxt > '7' {
				if ok2 {
					tk.c.UnreadByte()
				}
				return octal, false, nil
			}
			octal = (octal << 3) + (nxt - '0')
		}
		return octal & 0xff, false, nil
	}
}

func (tk *Tokenizer) scanNumber() (Token, bool) {
	mark := tk.c.Tell()
	var sb strings.Builder
	c, ok := tk.read()
	hasDigit := false
	if c == '+' || c == '-' {
		sb.WriteByte(c)
		c, _ = tk.read()
	}
	for isDigit(c) {
		sb.WriteByte(c)
		c, ok = tk.read()
		hasDigit = true
	}
	if c == '.' {
		sb.WriteByte(c)
		c, _ = tk.read()
	} else if sb.Len() == 0 || !hasDigit {
		tk.c.Seek(mark)
		return Token{}, false
	} else {
		if ok {
			tk.c.UnreadByte()
		}
		return Token{Kind: Integer, Value: sb.String()}, true
	}
	hasFrac := false
	for isDigit(c) {
		sb.WriteByte(c)
		c, ok = tk.read()
		hasFrac = true
	}
	_ = hasFrac
	if ok {
		tk.c.UnreadByte()
	}
	return Token{Kind: Float, Value: sb.String()}, true
}

func (tk *Tokenizer) scanKeyword() (Token, error) {
	var out []byte
	ch, ok := tk.read()
	out = append(out, ch)
	ch, ok = tk.read()
	for ok && !isDelimiter(ch) {
		out = append(out, ch)
		ch, ok = tk.read()
	}
	if ok {
		tk.c.UnreadByte()
	}
	return Token{Kind: Other, Value: string(out)}, nil
}

// SyntaxError is a tokenizer-local grammar violation; the syntax package's
// callers wrap these with position context as pdferr.SyntaxError.
type SyntaxError struct{ Msg string }

func (e *SyntaxError) Error() string { return "syntax: " + e.Msg }
