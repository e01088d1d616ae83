package syntax

import (
	"errors"
	"strings"
)

// ErrIllegalArgument is the root of argument errors; replacement template
// errors match it with errors.Is.
var ErrIllegalArgument = errors.New("illegal argument")

// ReplacementError reports a malformed replacement template.
type ReplacementError struct {
	Msg      string
	Template string
	Pos      int
}

func (e *ReplacementError) Error() string {
	return e.Msg + " in replacement `" + e.Template + "`"
}

func (e *ReplacementError) Unwrap() error {
	return ErrIllegalArgument
}

// ReplacerData is a parsed replacement template. Each rule is either an
// index into Strings (>= 0) or a group reference encoded as -(group+1).
type ReplacerData struct {
	Rep     string
	Strings []string
	Rules   []int
}

// GroupRule returns the group number a negative rule refers to.
func GroupRule(rule int) int {
	return -rule - 1
}

// ParseReplacement parses a template made of literal text, \c escapes,
// $N group numbers and ${name} group names. groupCount excludes group 0.
// The digits of $N extend only while the number stays a valid group.
func ParseReplacement(rep string, groupCount int, names map[string]int) (*ReplacerData, error) {
	data := &ReplacerData{Rep: rep}
	cur := newScanCursor([]rune(rep))
	lit := &strings.Builder{}

	fail := func(msg string, pos int) (*ReplacerData, error) {
		return nil, &ReplacementError{Msg: msg, Template: rep, Pos: pos}
	}
	flush := func() {
		if lit.Len() > 0 {
			data.Rules = append(data.Rules, len(data.Strings))
			data.Strings = append(data.Strings, lit.String())
			lit.Reset()
		}
	}

	for cur.more() {
		pos := cur.Pos()
		ch := cur.next()
		switch ch {
		case '\\':
			if !cur.more() {
				return fail("character to be escaped is missing", pos)
			}
			lit.WriteRune(cur.next())
		case '$':
			if !cur.more() {
				return fail("Illegal group reference: group index is missing", pos)
			}
			var ref int
			if cur.accept('{') {
				var name strings.Builder
				for cur.more() {
					c := cur.peek()
					if !isASCIILetter(c) && !isASCIIDigit(c) {
						break
					}
					name.WriteRune(cur.next())
				}
				if name.Len() == 0 {
					return fail("named capturing group has 0 length name", pos)
				}
				if !cur.accept('}') {
					return fail("named capturing group is missing trailing '}'", pos)
				}
				gname := name.String()
				if isASCIIDigit(rune(gname[0])) {
					return fail("capturing group name {"+gname+"} starts with digit character", pos)
				}
				idx, ok := names[gname]
				if !ok {
					return fail("No group with name {"+gname+"}", pos)
				}
				ref = idx
			} else {
				c := cur.peek()
				if !isASCIIDigit(c) {
					return fail("Illegal group reference", pos)
				}
				cur.skip(1)
				ref = int(c - '0')
				if ref > groupCount {
					return fail("No group "+string(c), pos)
				}
				for isASCIIDigit(cur.peek()) {
					next := ref*10 + int(cur.peek()-'0')
					if next > groupCount {
						break
					}
					ref = next
					cur.skip(1)
				}
			}
			flush()
			data.Rules = append(data.Rules, -ref-1)
		default:
			lit.WriteRune(ch)
		}
	}
	flush()
	return data, nil
}
