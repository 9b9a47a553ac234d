package scm

import (
	"fmt"
	"strconv"
	"strings"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota

	// Punctuation
	LPAREN // "("
	RPAREN // ")"
	TICK   // "'" quote shorthand

	// Literals & symbols
	INTEGER  // machine integer, e.g. 42, -7
	RATIONAL // numerator/denominator, e.g. 3/4, -5/2
	STRING   // double-quoted, escapes decoded
	BOOLEAN  // #t / #f
	SYMBOL   // everything else: identifiers and operator names
)

// Token is a lexical token with optional literal value.
type Token struct {
	Type    TokenType
	Lexeme  string      // raw text slice
	Literal interface{} // parsed value for literals
	Line    int         // 1-based
	Col     int         // 0-based
}

// LexError reports a tokenization failure at a source position.
type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// Lexer scans a Scheme source string into tokens.
type Lexer struct {
	src    string
	start  int // start index of current token
	cur    int // current index
	line   int // 1-based
	col    int // 0-based column within line
	tokens []Token

	// precise token start position
	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch, true
}

func (l *Lexer) addToken(tt TokenType, lit interface{}) {
	l.tokens = append(l.tokens, Token{
		Type:    tt,
		Lexeme:  l.src[l.start:l.cur],
		Literal: lit,
		Line:    l.tokStartLine,
		Col:     l.tokStartCol,
	})
}

func (l *Lexer) errorf(format string, args ...interface{}) error {
	return &LexError{Line: l.tokStartLine, Col: l.tokStartCol, Msg: fmt.Sprintf(format, args...)}
}

// Scan tokenizes the whole source and appends a final EOF token.
func (l *Lexer) Scan() ([]Token, error) {
	for !l.isAtEnd() {
		l.start = l.cur
		l.tokStartLine = l.line
		l.tokStartCol = l.col
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}
	l.tokens = append(l.tokens, Token{Type: EOF, Line: l.line, Col: l.col})
	return l.tokens, nil
}

func (l *Lexer) scanToken() error {
	ch, _ := l.advance()
	switch ch {
	case ' ', '\t', '\r', '\n':
		return nil
	case ';':
		// line comment
		for {
			c, ok := l.peek()
			if !ok || c == '\n' {
				return nil
			}
			l.advance()
		}
	case '(':
		l.addToken(LPAREN, nil)
		return nil
	case ')':
		l.addToken(RPAREN, nil)
		return nil
	case '\'':
		l.addToken(TICK, nil)
		return nil
	case '"':
		return l.scanString()
	case '#':
		return l.scanHash()
	default:
		return l.scanAtom()
	}
}

func (l *Lexer) scanString() error {
	var b strings.Builder
	for {
		c, ok := l.advance()
		if !ok {
			return l.errorf("unterminated string literal")
		}
		switch c {
		case '"':
			l.addToken(STRING, b.String())
			return nil
		case '\\':
			e, ok := l.advance()
			if !ok {
				return l.errorf("unterminated string literal")
			}
			switch e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			default:
				return l.errorf("invalid escape '\\%c' in string", e)
			}
		default:
			b.WriteByte(c)
		}
	}
}

func (l *Lexer) scanHash() error {
	if l.isDelimiterAt(l.cur) {
		// lone '#': the diagnostic covers just the '#', not what follows
		return l.errorf("unknown '#' syntax %q", l.src[l.start:l.cur])
	}
	c, _ := l.advance()
	if l.isDelimiterAt(l.cur) {
		switch c {
		case 't':
			l.addToken(BOOLEAN, true)
			return nil
		case 'f':
			l.addToken(BOOLEAN, false)
			return nil
		}
	}
	// consume the rest of the atom so the error covers the whole lexeme
	for !l.isDelimiterAt(l.cur) {
		l.advance()
	}
	return l.errorf("unknown '#' syntax %q", l.src[l.start:l.cur])
}

// isDelimiterAt reports whether position idx begins a token boundary.
func (l *Lexer) isDelimiterAt(idx int) bool {
	if idx >= len(l.src) {
		return true
	}
	switch l.src[idx] {
	case ' ', '\t', '\r', '\n', '(', ')', '"', ';', '\'':
		return true
	}
	return false
}

// scanAtom consumes a run of non-delimiter bytes and classifies it as an
// integer, a rational, or a symbol. Anything that is not wholly numeric is a
// symbol, so "-", "1+" and "set-car!" all scan as symbols.
func (l *Lexer) scanAtom() error {
	for !l.isDelimiterAt(l.cur) {
		l.advance()
	}
	text := l.src[l.start:l.cur]

	if n, ok := parseInteger(text); ok {
		l.addToken(INTEGER, n)
		return nil
	}
	if num, den, ok := parseRational(text); ok {
		if den == 0 {
			return l.errorf("rational literal with zero denominator: %s", text)
		}
		l.addToken(RATIONAL, [2]int64{num, den})
		return nil
	}
	l.addToken(SYMBOL, text)
	return nil
}

func parseInteger(text string) (int64, bool) {
	body := text
	if len(body) > 0 && (body[0] == '+' || body[0] == '-') {
		body = body[1:]
	}
	if body == "" || !allDigits(body) {
		return 0, false
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseRational(text string) (num, den int64, ok bool) {
	i := strings.IndexByte(text, '/')
	if i <= 0 || i == len(text)-1 {
		return 0, 0, false
	}
	n, okN := parseInteger(text[:i])
	d, okD := parseInteger(text[i+1:])
	if !okN || !okD {
		return 0, 0, false
	}
	return n, d, true
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
