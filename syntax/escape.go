package syntax

import (
	"bytes"
	"strings"
)

// metachars are escaped by Escape
const metachars = `\*+?|{}[]()^$.#&-`

// Escape adds backslashes to any special characters in the input string
func Escape(input string) string {
	b := &bytes.Buffer{}
	for _, r := range input {
		switch {
		case strings.ContainsRune(metachars, r):
			b.WriteRune('\\')
			b.WriteRune(r)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\f':
			b.WriteString(`\f`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == ' ':
			b.WriteString(`\ `)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Unescape removes any backslashes from previously-escaped special characters
// in the input string and resolves character escapes such as \t, \x41 and
// \u00e9. Class escapes like \d have no single character and are errors.
func Unescape(input string) (string, error) {
	if strings.IndexRune(input, '\\') < 0 {
		return input, nil
	}
	l := NewLexer(input, 0, SyntaxJava)
	b := &bytes.Buffer{}
	for l.cur.more() {
		pos := l.cur.Pos()
		ch := l.cur.next()
		if ch != '\\' {
			b.WriteRune(ch)
			continue
		}
		tok, skip, err := l.escape(Token{Type: TokRaw, Pos: pos}, true)
		if err != nil {
			return "", err
		}
		if skip || tok.Type != TokRaw {
			return "", l.errorf(ErrUnrecognizedEscape, pos, string(tok.Ch))
		}
		b.WriteRune(tok.Ch)
	}
	return b.String(), nil
}

// Quote returns a pattern that matches s literally, using \Q...\E. Any \E
// inside s is split out so the quote is not closed early.
func Quote(s string) string {
	if !strings.Contains(s, `\E`) {
		return `\Q` + s + `\E`
	}
	var b strings.Builder
	b.Grow(len(s) * 2)
	b.WriteString(`\Q`)
	for {
		i := strings.Index(s, `\E`)
		if i < 0 {
			break
		}
		b.WriteString(s[:i])
		b.WriteString(`\E\\E\Q`)
		s = s[i+2:]
	}
	b.WriteString(s)
	b.WriteString(`\E`)
	return b.String()
}
