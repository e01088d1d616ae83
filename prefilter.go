package jregex

import (
	"unicode"
	"unicode/utf8"

	"github.com/coregx/ahocorasick"

	"github.com/btre/jregex/helpers"
	"github.com/btre/jregex/syntax"
)

// prefilter lets the search loop jump over positions where a match can't
// start. It only skips positions that are at least maxLen runes before the
// region end: a failed attempt there never reads past the end, so hitEnd
// comes out the same as trying every position.
type prefilter struct {
	maxLen int

	lit   []rune
	ascii *helpers.AsciiSearchValues
	runes *helpers.RuneSearchValues
	ac    *ahocorasick.Automaton
	// longest literal of the automaton, in bytes
	acMaxBytes int
}

// maxSmallSet is the largest non-ASCII first-char set scanned linearly.
const maxSmallSet = 4

func newPrefilter(root *syntax.RegexNode) *prefilter {
	n := root.FindStartingLiteralNode()
	if n == nil {
		return nil
	}
	switch n.T {
	case syntax.NtOne:
		return &prefilter{maxLen: 1, lit: []rune{n.Ch}}
	case syntax.NtMulti:
		return &prefilter{maxLen: len(n.Str), lit: n.Str}
	case syntax.NtSet:
		return setPrefilter(n.Set)
	case syntax.NtAlternate:
		lits, ok := n.LiteralAlternatives()
		if !ok || len(lits) < 2 {
			return nil
		}
		return literalSetPrefilter(lits)
	}
	return nil
}

func setPrefilter(set *syntax.CharSet) *prefilter {
	if set.IsEmpty() {
		return nil
	}
	if set.IsASCII() {
		sv := &helpers.AsciiSearchValues{}
		for _, r := range set.Ranges() {
			for ch := r.Lo; ch <= r.Hi && ch <= unicode.MaxASCII; ch++ {
				sv.Add(ch)
			}
		}
		return &prefilter{maxLen: 1, ascii: sv}
	}
	if set.Size() <= maxSmallSet {
		var chars []rune
		for _, r := range set.Ranges() {
			for ch := r.Lo; ch <= r.Hi; ch++ {
				chars = append(chars, ch)
			}
		}
		sv := helpers.NewRuneSearchValues(string(chars))
		return &prefilter{maxLen: 1, runes: &sv}
	}
	return nil
}

func literalSetPrefilter(lits []string) *prefilter {
	builder := ahocorasick.NewBuilder()
	pf := &prefilter{}
	for _, lit := range lits {
		if lit == "" {
			// an empty branch matches everywhere
			return nil
		}
		builder.AddPattern([]byte(lit))
		pf.maxLen = max(pf.maxLen, utf8.RuneCountInString(lit))
		pf.acMaxBytes = max(pf.acMaxBytes, len(lit))
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	pf.ac = auto
	return pf
}

// skip returns the first position at or after i worth trying.
func (p *prefilter) skip(m *Matcher, i int) int {
	limit := m.to - p.maxLen
	if i > limit {
		return i
	}
	c := p.candidate(m, i, limit)
	if c < 0 || c > limit {
		// nothing in the safe zone; the tail is tried position by position
		return limit + 1
	}
	return c
}

// candidate returns a position in [i, limit] where a match might start,
// or -1.
func (p *prefilter) candidate(m *Matcher, i, limit int) int {
	switch {
	case p.lit != nil:
		idx := helpers.IndexOf(m.in.RunesFromTo(i, limit+len(p.lit)), p.lit)
		if idx < 0 {
			return -1
		}
		return i + idx
	case p.ascii != nil:
		idx := p.ascii.IndexOfAny(m.in.RunesFromTo(i, limit+1))
		if idx < 0 {
			return -1
		}
		return i + idx
	case p.runes != nil:
		idx := p.runes.IndexOfAny(m.in.RunesFromTo(i, limit+1))
		if idx < 0 {
			return -1
		}
		return i + idx
	case p.ac != nil:
		return p.acCandidate(m, i)
	}
	return i
}

// acCandidate searches the UTF-8 text. Whatever occurrence the automaton
// reports, no occurrence can start earlier than its end minus the longest
// literal, which gives a safe place to resume.
func (p *prefilter) acCandidate(m *Matcher, i int) int {
	text := m.textBytes()
	at := m.cursor.byteOffset(text, i)
	match := p.ac.Find(text, at)
	if match == nil {
		return -1
	}
	b := max(at, match.End-p.acMaxBytes)
	return max(i, m.cursor.runeOffset(text, b))
}

// byteCursor converts between rune and byte offsets of a text by walking
// from the last converted position, which suits a search moving forward.
type byteCursor struct {
	runePos int
	bytePos int
	textLen int
}

func (c *byteCursor) reset(text []byte) {
	c.runePos, c.bytePos, c.textLen = 0, 0, len(text)
}

func (c *byteCursor) byteOffset(text []byte, r int) int {
	if c.textLen != len(text) || r < c.runePos {
		c.reset(text)
	}
	for c.runePos < r && c.bytePos < len(text) {
		_, size := utf8.DecodeRune(text[c.bytePos:])
		c.bytePos += size
		c.runePos++
	}
	return c.bytePos
}

// runeOffset returns the rune index of the rune containing byte b.
func (c *byteCursor) runeOffset(text []byte, b int) int {
	if c.textLen != len(text) || b < c.bytePos {
		c.reset(text)
	}
	for c.bytePos < len(text) {
		_, size := utf8.DecodeRune(text[c.bytePos:])
		if c.bytePos+size > b {
			break
		}
		c.bytePos += size
		c.runePos++
	}
	return c.runePos
}
