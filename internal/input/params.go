package input

import (
	"strings"
	"unicode"
)

// SplitParams splits a comma-separated parameter list. An element whose first
// non-space character is a single or double quote is read verbatim up to the
// matching quote, commas and spaces included; text after the closing quote up
// to the next comma is appended as is. Quotes anywhere else are literal, as is
// an opening quote that is never closed. Whitespace outside quotes is trimmed
// and empty unquoted elements are dropped.
func SplitParams(s string) []string {
	var out []string
	for {
		elem, rest, more := nextParam(s)
		if elem.quoted || elem.text != "" {
			out = append(out, elem.text)
		}
		if !more {
			return out
		}
		s = rest
	}
}

type param struct {
	text   string
	quoted bool
}

// nextParam reads one element from s. more reports whether a comma followed.
func nextParam(s string) (p param, rest string, more bool) {
	lead := strings.TrimLeftFunc(s, unicode.IsSpace)
	if lead != "" && (lead[0] == '"' || lead[0] == '\'') {
		if end := strings.IndexByte(lead[1:], lead[0]); end >= 0 {
			quoted := lead[1 : 1+end]
			tail, rest, more := cutComma(lead[2+end:])
			return param{text: quoted + strings.TrimRightFunc(tail, unicode.IsSpace), quoted: true}, rest, more
		}
	}
	elem, rest, more := cutComma(s)
	return param{text: strings.TrimSpace(elem)}, rest, more
}

func cutComma(s string) (before, after string, found bool) {
	return strings.Cut(s, ",")
}
