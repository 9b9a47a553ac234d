// syntax.go — the syntax tree produced by reading source text, plus the
// Reader that builds it from the token stream.
//
// A Syntax node is the structural, unevaluated representation of one source
// form. It is immutable: the reader builds it once and the compiler in
// parse.go consumes it. End-of-input is reported as io.EOF, distinct from a
// malformed-input *SyntaxError, so drivers can tell "no more forms" apart
// from "broken form".
package scm

import (
	"fmt"
	"io"
)

// Syntax is the closed sum of node kinds a reader can produce.
type Syntax interface{ syntaxNode() }

type IntegerSyntax struct{ N int64 }

type RationalSyntax struct{ Num, Den int64 }

type StringSyntax struct{ S string }

type SymbolSyntax struct{ S string }

type BooleanSyntax struct{ B bool }

type ListSyntax struct{ Items []Syntax }

func (IntegerSyntax) syntaxNode()  {}
func (RationalSyntax) syntaxNode() {}
func (StringSyntax) syntaxNode()   {}
func (SymbolSyntax) syntaxNode()   {}
func (BooleanSyntax) syntaxNode()  {}
func (ListSyntax) syntaxNode()     {}

// SyntaxError reports a malformed form at a source position. Incomplete is
// set when the only problem is that input ended mid-form (unclosed paren,
// dangling quote); interactive drivers use it to prompt for a continuation
// line instead of reporting a hard error.
type SyntaxError struct {
	Line       int
	Col        int
	Msg        string
	Incomplete bool
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// IsIncomplete reports whether err is a *SyntaxError caused solely by the
// input ending in the middle of a form.
func IsIncomplete(err error) bool {
	se, ok := err.(*SyntaxError)
	return ok && se.Incomplete
}

// Reader yields top-level Syntax forms one at a time.
type Reader struct {
	toks []Token
	pos  int
}

// NewReader tokenizes src and returns a Reader positioned at the first form.
// Lexical problems surface here as *LexError.
func NewReader(src string) (*Reader, error) {
	toks, err := NewLexer(src).Scan()
	if err != nil {
		return nil, err
	}
	return &Reader{toks: toks}, nil
}

// ReadAll reads every top-level form in src.
func ReadAll(src string) ([]Syntax, error) {
	r, err := NewReader(src)
	if err != nil {
		return nil, err
	}
	var forms []Syntax
	for {
		stx, err := r.Read()
		if err == io.EOF {
			return forms, nil
		}
		if err != nil {
			return nil, err
		}
		forms = append(forms, stx)
	}
}

func (r *Reader) peek() Token { return r.toks[r.pos] }

func (r *Reader) next() Token {
	t := r.toks[r.pos]
	if t.Type != EOF {
		r.pos++
	}
	return t
}

func (r *Reader) errAt(t Token, incomplete bool, format string, args ...interface{}) error {
	return &SyntaxError{Line: t.Line, Col: t.Col, Msg: fmt.Sprintf(format, args...), Incomplete: incomplete}
}

// Read returns the next top-level form, or io.EOF when no forms remain.
func (r *Reader) Read() (Syntax, error) {
	if r.peek().Type == EOF {
		return nil, io.EOF
	}
	return r.readForm()
}

func (r *Reader) readForm() (Syntax, error) {
	t := r.next()
	switch t.Type {
	case EOF:
		return nil, r.errAt(t, true, "unexpected end of input")
	case RPAREN:
		return nil, r.errAt(t, false, "unexpected ')'")
	case TICK:
		// 'x reads as (quote x)
		inner, err := r.readForm()
		if err != nil {
			return nil, err
		}
		return ListSyntax{Items: []Syntax{SymbolSyntax{S: "quote"}, inner}}, nil
	case LPAREN:
		return r.readList(t)
	case INTEGER:
		return IntegerSyntax{N: t.Literal.(int64)}, nil
	case RATIONAL:
		nd := t.Literal.([2]int64)
		return RationalSyntax{Num: nd[0], Den: nd[1]}, nil
	case STRING:
		return StringSyntax{S: t.Literal.(string)}, nil
	case BOOLEAN:
		return BooleanSyntax{B: t.Literal.(bool)}, nil
	case SYMBOL:
		return SymbolSyntax{S: t.Literal.(string)}, nil
	default:
		return nil, r.errAt(t, false, "unexpected token %q", t.Lexeme)
	}
}

func (r *Reader) readList(open Token) (Syntax, error) {
	var items []Syntax
	for {
		switch r.peek().Type {
		case RPAREN:
			r.next()
			return ListSyntax{Items: items}, nil
		case EOF:
			return nil, r.errAt(open, true, "unclosed '('")
		}
		item, err := r.readForm()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
}
