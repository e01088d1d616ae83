package syntax

import (
	"bytes"
	"fmt"
	"sort"
	"unicode"
)

// CharSet is a set of code points kept as a sorted list of disjoint,
// non-adjacent ranges. Every mutating method leaves the list canonical.
// The zero value is the empty set.
type CharSet struct {
	ranges []singleRange
}

type singleRange struct {
	first rune
	last  rune
}

// Range is an inclusive code point range.
type Range struct {
	Lo, Hi rune
}

// NewCharSet builds a set from ranges in any order.
func NewCharSet(rs ...Range) *CharSet {
	c := &CharSet{}
	for _, r := range rs {
		c.AddRange(r.Lo, r.Hi)
	}
	return c
}

// Copy makes a deep copy to prevent accidental mutation of a set
func (c CharSet) Copy() CharSet {
	ret := CharSet{}
	if c.ranges != nil {
		ret.ranges = make([]singleRange, len(c.ranges))
		copy(ret.ranges, c.ranges)
	}
	return ret
}

// Ranges returns a copy of the canonical range list.
func (c *CharSet) Ranges() []Range {
	out := make([]Range, len(c.ranges))
	for i, r := range c.ranges {
		out[i] = Range{Lo: r.first, Hi: r.last}
	}
	return out
}

func (c *CharSet) AddChar(ch rune) {
	c.AddRange(ch, ch)
}

// AddRange inserts [lo,hi] and merges it with any range it touches.
// A reversed range is ignored.
func (c *CharSet) AddRange(lo, hi rune) {
	if lo > hi {
		return
	}
	if lo < 0 {
		lo = 0
	}
	if hi > unicode.MaxRune {
		hi = unicode.MaxRune
	}
	// first range that ends at or after lo-1 could merge with us
	i := sort.Search(len(c.ranges), func(i int) bool {
		return c.ranges[i].last >= lo-1
	})
	j := i
	for j < len(c.ranges) && c.ranges[j].first <= hi+1 {
		if c.ranges[j].first < lo {
			lo = c.ranges[j].first
		}
		if c.ranges[j].last > hi {
			hi = c.ranges[j].last
		}
		j++
	}
	if i == j {
		c.ranges = append(c.ranges, singleRange{})
		copy(c.ranges[i+1:], c.ranges[i:])
		c.ranges[i] = singleRange{lo, hi}
		return
	}
	c.ranges[i] = singleRange{lo, hi}
	c.ranges = append(c.ranges[:i+1], c.ranges[j:]...)
}

// Union adds every code point of other to c.
func (c *CharSet) Union(other *CharSet) {
	if other == nil {
		return
	}
	if len(c.ranges) == 0 {
		c.ranges = append([]singleRange(nil), other.ranges...)
		return
	}
	merged := make([]singleRange, 0, len(c.ranges)+len(other.ranges))
	a, b := c.ranges, other.ranges
	for len(a) > 0 || len(b) > 0 {
		var next singleRange
		if len(b) == 0 || (len(a) > 0 && a[0].first <= b[0].first) {
			next, a = a[0], a[1:]
		} else {
			next, b = b[0], b[1:]
		}
		if n := len(merged); n > 0 && next.first <= merged[n-1].last+1 {
			if next.last > merged[n-1].last {
				merged[n-1].last = next.last
			}
			continue
		}
		merged = append(merged, next)
	}
	c.ranges = merged
}

// Intersect keeps only the code points also in other.
func (c *CharSet) Intersect(other *CharSet) {
	c.ranges = intersectRanges(c.ranges, false, other.ranges, false)
}

// Subtract removes every code point of other from c.
func (c *CharSet) Subtract(other *CharSet) {
	c.ranges = intersectRanges(c.ranges, false, other.ranges, true)
}

// Negate complements the set over [0, unicode.MaxRune].
func (c *CharSet) Negate() {
	c.ranges = negateRanges(c.ranges)
}

func negateRanges(rs []singleRange) []singleRange {
	out := make([]singleRange, 0, len(rs)+1)
	var pre rune
	for _, r := range rs {
		if pre <= r.first-1 {
			out = append(out, singleRange{pre, r.first - 1})
		}
		if r.last == unicode.MaxRune {
			return out
		}
		pre = r.last + 1
	}
	return append(out, singleRange{pre, unicode.MaxRune})
}

// intersectRanges computes (a or not a) AND (b or not b) without building
// a negated operand when only one side is negated. Both negated reduces to
// not (a or b).
func intersectRanges(a []singleRange, notA bool, b []singleRange, notB bool) []singleRange {
	if notA && !notB {
		a, b = b, a
		notA, notB = notB, notA
	}
	switch {
	case !notA && !notB:
		var out []singleRange
		i, j := 0, 0
		for i < len(a) && j < len(b) {
			lo, hi := a[i].first, a[i].last
			if b[j].first > lo {
				lo = b[j].first
			}
			if b[j].last < hi {
				hi = b[j].last
			}
			if lo <= hi {
				out = append(out, singleRange{lo, hi})
			}
			if a[i].last < b[j].last {
				i++
			} else {
				j++
			}
		}
		return out
	case !notA && notB:
		var out []singleRange
		j := 0
		for _, r := range a {
			from, to := r.first, r.last
			for j < len(b) && b[j].last < from {
				j++
			}
			k := j
			for ; k < len(b) && b[k].first <= to; k++ {
				if b[k].first > from {
					out = append(out, singleRange{from, b[k].first - 1})
				}
				if b[k].last >= to {
					from = to + 1
					break
				}
				from = b[k].last + 1
			}
			if from <= to {
				out = append(out, singleRange{from, to})
			}
		}
		return out
	default:
		u := CharSet{ranges: append([]singleRange(nil), a...)}
		u.Union(&CharSet{ranges: b})
		return negateRanges(u.ranges)
	}
}

// Contains reports whether ch is in the set.
func (c *CharSet) Contains(ch rune) bool {
	rs := c.ranges
	lo, hi := 0, len(rs)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		switch {
		case ch < rs[mid].first:
			hi = mid
		case ch > rs[mid].last:
			lo = mid + 1
		default:
			return true
		}
	}
	return false
}

func (c *CharSet) IsEmpty() bool {
	return len(c.ranges) == 0
}

// IsSingleton reports whether the set holds exactly one code point.
func (c *CharSet) IsSingleton() bool {
	return len(c.ranges) == 1 && c.ranges[0].first == c.ranges[0].last
}

func (c *CharSet) SingletonChar() rune {
	return c.ranges[0].first
}

// IsASCII reports whether every member is below 0x80.
func (c *CharSet) IsASCII() bool {
	return len(c.ranges) == 0 || c.ranges[len(c.ranges)-1].last <= unicode.MaxASCII
}

// Size is the number of code points in the set.
func (c *CharSet) Size() int {
	n := 0
	for _, r := range c.ranges {
		n += int(r.last-r.first) + 1
	}
	return n
}

func (c *CharSet) Equals(other *CharSet) bool {
	if len(c.ranges) != len(other.ranges) {
		return false
	}
	for i := range c.ranges {
		if c.ranges[i] != other.ranges[i] {
			return false
		}
	}
	return true
}

// IsCanonical checks the range-list invariant: lo <= hi, ascending, and no
// two ranges touching or overlapping.
func (c *CharSet) IsCanonical() bool {
	for i, r := range c.ranges {
		if r.first > r.last || r.first < 0 || r.last > unicode.MaxRune {
			return false
		}
		if i > 0 && c.ranges[i-1].last+1 >= r.first {
			return false
		}
	}
	return true
}

// String renders the set in bracket syntax. Sets that reach MaxRune are
// shown in negated form.
func (c *CharSet) String() string {
	buf := &bytes.Buffer{}
	buf.WriteRune('[')
	rs := c.ranges
	if len(rs) == 1 && rs[0].first == 0 && rs[0].last == unicode.MaxRune {
		buf.WriteString(`\x00-\U0010ffff]`)
		return buf.String()
	}
	if len(rs) > 0 && rs[len(rs)-1].last == unicode.MaxRune {
		buf.WriteRune('^')
		rs = negateRanges(rs)
	}
	for _, r := range rs {
		writeCharDesc(buf, r.first)
		if r.last != r.first {
			if r.last != r.first+1 {
				buf.WriteRune('-')
			}
			writeCharDesc(buf, r.last)
		}
	}
	buf.WriteRune(']')
	return buf.String()
}

func writeCharDesc(buf *bytes.Buffer, ch rune) {
	switch {
	case ch == '\\' || ch == '[' || ch == ']' || ch == '-' || ch == '^':
		buf.WriteRune('\\')
		buf.WriteRune(ch)
	case ch >= ' ' && ch <= '~':
		buf.WriteRune(ch)
	case ch <= 0xFF:
		fmt.Fprintf(buf, `\x%02x`, ch)
	case ch <= 0xFFFF:
		fmt.Fprintf(buf, `\u%04x`, ch)
	default:
		fmt.Fprintf(buf, `\U%08x`, ch)
	}
}

// CharDescription produces a human-readable description for a single character.
func CharDescription(ch rune) string {
	buf := &bytes.Buffer{}
	writeCharDesc(buf, ch)
	return buf.String()
}

// addCaseEquivalences closes the set under case conversion. With
// unicodeCase false only ASCII letters are folded.
func (c *CharSet) addCaseEquivalences(unicodeCase bool) {
	if !unicodeCase {
		var extra CharSet
		for _, r := range c.ranges {
			addASCIICounterpart(&extra, r, 'A', 'Z', 'a'-'A')
			addASCIICounterpart(&extra, r, 'a', 'z', 'A'-'a')
		}
		c.Union(&extra)
		return
	}
	var extra CharSet
	for _, ch := range foldableRunes() {
		if !c.Contains(ch) {
			continue
		}
		for f := unicode.SimpleFold(ch); f != ch; f = unicode.SimpleFold(f) {
			extra.AddChar(f)
		}
	}
	c.Union(&extra)
}

func addASCIICounterpart(dst *CharSet, r singleRange, lo, hi, delta rune) {
	if r.last < lo || r.first > hi {
		return
	}
	from, to := r.first, r.last
	if from < lo {
		from = lo
	}
	if to > hi {
		to = hi
	}
	dst.AddRange(from+delta, to+delta)
}
