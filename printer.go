package scm

import (
	"strconv"
	"strings"
)

// FormatValue renders a value in read-back syntax: integers and rationals as
// literals, strings quoted with escapes, proper lists as (a b c), improper
// tails with dot notation, and stable placeholders for procedures, void and
// the terminate signal.
func FormatValue(v Value) string {
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

// DisplayValue renders a value for display: strings print their raw
// contents without quoting, everything else prints as FormatValue.
func DisplayValue(v Value) string {
	if v.Tag == VTString {
		return strVal(v)
	}
	return FormatValue(v)
}

func writeValue(b *strings.Builder, v Value) {
	switch v.Tag {
	case VTNull:
		b.WriteString("()")
	case VTInteger:
		b.WriteString(strconv.FormatInt(v.Data.(int64), 10))
	case VTRational:
		r := ratVal(v)
		b.WriteString(strconv.FormatInt(r.Num, 10))
		b.WriteByte('/')
		b.WriteString(strconv.FormatInt(r.Den, 10))
	case VTString:
		b.WriteString(quoteString(strVal(v)))
	case VTSymbol:
		b.WriteString(v.Data.(string))
	case VTBool:
		if v.Data.(bool) {
			b.WriteString("#t")
		} else {
			b.WriteString("#f")
		}
	case VTPair:
		writePair(b, v.Data.(*Pair))
	case VTProc:
		b.WriteString("#<procedure>")
	case VTVoid:
		b.WriteString("#<void>")
	case VTTerminate:
		b.WriteString("#<terminate>")
	default:
		b.WriteString("#<unknown>")
	}
}

// writePair renders a cons chain, collapsing proper-list tails and using
// dot notation for improper ones: (1 2), (1 . 2), (1 2 . 3).
func writePair(b *strings.Builder, p *Pair) {
	b.WriteByte('(')
	writeValue(b, p.Car)
	rest := p.Cdr
	for {
		switch rest.Tag {
		case VTNull:
			b.WriteByte(')')
			return
		case VTPair:
			next := rest.Data.(*Pair)
			b.WriteByte(' ')
			writeValue(b, next.Car)
			rest = next.Cdr
		default:
			b.WriteString(" . ")
			writeValue(b, rest)
			b.WriteByte(')')
			return
		}
	}
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
