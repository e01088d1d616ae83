package jregex

import (
	"unicode"

	"github.com/btre/jregex/helpers"
	"github.com/btre/jregex/syntax"
)

// node is one step of a compiled pattern. match reports whether the rest
// of the pattern, starting with this node, matches at rune position i.
// Every node holds its continuation, so a true result means the whole
// remaining pattern matched.
type node interface {
	match(m *Matcher, i int) bool
}

// accept modes
const (
	noAnchor  = 0
	endAnchor = 1
)

// acceptNode ends the top level chain.
type acceptNode struct{}

func (acceptNode) match(m *Matcher, i int) bool {
	if m.acceptMode == endAnchor && i != m.to {
		return false
	}
	m.last = i
	m.groups[0] = m.first
	m.groups[1] = i
	return true
}

// subAccept ends the chain of an atomic group or a lookahead and records
// where it stopped.
type subAccept struct{}

func (subAccept) match(m *Matcher, i int) bool {
	m.subEnd = i
	return true
}

// lookbehindEnd ends a lookbehind body, which must stop where the
// lookbehind started.
type lookbehindEnd struct{}

func (lookbehindEnd) match(m *Matcher, i int) bool {
	return i == m.lookbehindTo
}

type failNode struct{}

func (failNode) match(*Matcher, int) bool { return false }

// startNode drives an unanchored search, trying every position from i to
// the last one that leaves room for the shortest possible match.
type startNode struct {
	next      node
	minLength int
	pf        *prefilter
}

func (s *startNode) match(m *Matcher, i int) bool {
	guard := m.to - s.minLength
	if i > guard {
		m.hitEnd = true
		return false
	}
	for ; i <= guard; i++ {
		if s.pf != nil {
			if i = s.pf.skip(m, i); i > guard {
				break
			}
		}
		if m.tick() {
			return false
		}
		m.first = i
		if s.next.match(m, i) {
			m.first = i
			m.groups[0] = i
			m.groups[1] = m.last
			return true
		}
		if m.err != nil {
			return false
		}
	}
	m.hitEnd = true
	return false
}

// anchoredStart runs a pattern that opens with \A or a single-line ^. Only
// the search position can match, so it is the one attempt made.
type anchoredStart struct {
	next node
}

func (s *anchoredStart) match(m *Matcher, i int) bool {
	if m.tick() {
		return false
	}
	m.first = i
	if s.next.match(m, i) {
		m.first = i
		m.groups[0] = i
		m.groups[1] = m.last
		return true
	}
	return false
}

// atom tests a fixed number of runes at a position without continuing.
// Reads past the region end set hitEnd.
type atom interface {
	matchAt(m *Matcher, i int) bool
	width() int
}

type oneAtom rune

func (a oneAtom) width() int { return 1 }
func (a oneAtom) matchAt(m *Matcher, i int) bool {
	if i < m.to {
		return m.in.RuneAt(i) == rune(a)
	}
	m.hitEnd = true
	return false
}

type sliceAtom []rune

func (a sliceAtom) width() int { return len(a) }
func (a sliceAtom) matchAt(m *Matcher, i int) bool {
	for j, ch := range a {
		if i+j >= m.to {
			m.hitEnd = true
			return false
		}
		if m.in.RuneAt(i+j) != ch {
			return false
		}
	}
	return true
}

// setAtom keeps an ASCII bitmap next to the range set.
type setAtom struct {
	set   *syntax.CharSet
	ascii helpers.AsciiSearchValues
}

func newSetAtom(set *syntax.CharSet) *setAtom {
	a := &setAtom{set: set}
	for _, r := range set.Ranges() {
		for ch := r.Lo; ch <= r.Hi && ch <= unicode.MaxASCII; ch++ {
			a.ascii.Add(ch)
		}
	}
	return a
}

func (a *setAtom) width() int { return 1 }
func (a *setAtom) contains(ch rune) bool {
	if ch <= unicode.MaxASCII {
		return a.ascii.Contains(ch)
	}
	return a.set.Contains(ch)
}
func (a *setAtom) matchAt(m *Matcher, i int) bool {
	if i < m.to {
		return a.contains(m.in.RuneAt(i))
	}
	m.hitEnd = true
	return false
}

type dotMode int

const (
	dotAll  dotMode = iota // (?s)
	dotLine                // any but a line terminator
	dotUnix                // (?d): any but \n
)

type dotAtom dotMode

func (a dotAtom) width() int { return 1 }
func (a dotAtom) matchAt(m *Matcher, i int) bool {
	if i >= m.to {
		m.hitEnd = true
		return false
	}
	switch dotMode(a) {
	case dotLine:
		return !syntax.IsLineTerminator(m.in.RuneAt(i))
	case dotUnix:
		return m.in.RuneAt(i) != '\n'
	}
	return true
}

// atomNode matches its atom once and continues after it.
type atomNode struct {
	a    atom
	next node
}

func (n *atomNode) match(m *Matcher, i int) bool {
	return n.a.matchAt(m, i) && n.next.match(m, i+n.a.width())
}

type branchNode struct {
	alts []node
}

func (b *branchNode) match(m *Matcher, i int) bool {
	for _, alt := range b.alts {
		if alt.match(m, i) {
			return true
		}
		if m.err != nil {
			return false
		}
	}
	return false
}

// groupHead records where a capture starts in a local slot.
type groupHead struct {
	local int
	next  node
}

func (g *groupHead) match(m *Matcher, i int) bool {
	save := m.locals[g.local]
	m.locals[g.local] = i
	ret := g.next.match(m, i)
	m.locals[g.local] = save
	return ret
}

// groupTail publishes a capture and puts the old bounds back if the rest
// of the pattern fails.
type groupTail struct {
	local int
	group int
	next  node
}

func (g *groupTail) match(m *Matcher, i int) bool {
	gi := 2 * g.group
	oldStart, oldEnd := m.groups[gi], m.groups[gi+1]
	m.groups[gi] = m.locals[g.local]
	m.groups[gi+1] = i
	if g.next.match(m, i) {
		return true
	}
	m.groups[gi] = oldStart
	m.groups[gi+1] = oldEnd
	return false
}

type backRef struct {
	group       int
	ignoreCase  bool
	unicodeCase bool
	next        node
}

func (b *backRef) match(m *Matcher, i int) bool {
	start, end := m.groups[2*b.group], m.groups[2*b.group+1]
	// an unset group never matches
	if start < 0 {
		return false
	}
	n := end - start
	if i+n > m.to {
		m.hitEnd = true
		return false
	}
	for j := 0; j < n; j++ {
		c1, c2 := m.in.RuneAt(start+j), m.in.RuneAt(i+j)
		if c1 == c2 {
			continue
		}
		if !b.ignoreCase || !syntax.FoldEqual(c1, c2, b.unicodeCase) {
			return false
		}
	}
	return b.next.match(m, i+n)
}

// beginNode is \A, and ^ outside multiline mode.
type beginNode struct {
	next node
}

func (b *beginNode) match(m *Matcher, i int) bool {
	from := 0
	if m.anchoringBounds {
		from = m.from
	}
	return i == from && b.next.match(m, i)
}

// endNode is \z.
type endNode struct {
	next node
}

func (e *endNode) match(m *Matcher, i int) bool {
	end := m.textLen()
	if m.anchoringBounds {
		end = m.to
	}
	if i != end {
		return false
	}
	m.hitEnd = true
	return e.next.match(m, i)
}

// lastMatchNode is \G.
type lastMatchNode struct {
	next node
}

func (l *lastMatchNode) match(m *Matcher, i int) bool {
	return i == m.oldLast && l.next.match(m, i)
}

// caretNode is ^ in multiline mode. It never matches at the very end of
// input, even after a line terminator.
type caretNode struct {
	unix bool
	next node
}

func (c *caretNode) match(m *Matcher, i int) bool {
	start, end := 0, m.textLen()
	if m.anchoringBounds {
		start, end = m.from, m.to
	}
	if i == end {
		m.hitEnd = true
		return false
	}
	if i > start {
		ch := m.in.RuneAt(i - 1)
		if c.unix {
			if ch != '\n' {
				return false
			}
		} else {
			if !syntax.IsLineTerminator(ch) {
				return false
			}
			// no match between \r\n
			if ch == '\r' && m.in.RuneAt(i) == '\n' {
				return false
			}
		}
	}
	return c.next.match(m, i)
}

// dollarNode is $ and \Z. Outside multiline mode it matches at the end
// and before a final line terminator.
type dollarNode struct {
	multiline bool
	next      node
}

func (d *dollarNode) match(m *Matcher, i int) bool {
	end := m.textLen()
	if m.anchoringBounds {
		end = m.to
	}
	if !d.multiline {
		if i < end-2 {
			return false
		}
		if i == end-2 {
			if m.in.RuneAt(i) != '\r' || m.in.RuneAt(i+1) != '\n' {
				return false
			}
		}
	}
	if i < end {
		ch := m.in.RuneAt(i)
		switch {
		case ch == '\n':
			// no match between \r\n
			if i > 0 && m.in.RuneAt(i-1) == '\r' {
				return false
			}
			if d.multiline {
				return d.next.match(m, i)
			}
		case ch == '\r' || ch == '\u0085' || ch == '\u2028' || ch == '\u2029':
			if d.multiline {
				return d.next.match(m, i)
			}
		default:
			return false
		}
	}
	// the end was hit and more input might change the result
	m.hitEnd = true
	m.requireEnd = true
	return d.next.match(m, i)
}

// unixDollarNode is $ and \Z with UnixLines, where only \n ends a line.
type unixDollarNode struct {
	multiline bool
	next      node
}

func (d *unixDollarNode) match(m *Matcher, i int) bool {
	end := m.textLen()
	if m.anchoringBounds {
		end = m.to
	}
	if i < end {
		if m.in.RuneAt(i) != '\n' {
			return false
		}
		if d.multiline {
			return d.next.match(m, i)
		}
		if i != end-1 {
			return false
		}
	}
	m.hitEnd = true
	m.requireEnd = true
	return d.next.match(m, i)
}

// boundary kinds, combined as a mask against check's result
const (
	boundLeft  = 1
	boundRight = 2
	boundBoth  = 3
	boundNone  = 4
)

type boundNode struct {
	kind int
	word *syntax.CharSet // nil: letters, digits and '_'
	next node
}

func (b *boundNode) isWord(ch rune) bool {
	if b.word != nil {
		return b.word.Contains(ch)
	}
	return syntax.IsWordChar(ch)
}

func (b *boundNode) check(m *Matcher, i int) int {
	left, right := false, false
	start, end := m.from, m.to
	if m.transparentBounds {
		start, end = 0, m.textLen()
	}
	if i > start {
		ch := m.in.RuneAt(i - 1)
		left = b.isWord(ch) || (unicode.Is(unicode.Mn, ch) && hasBaseCharacter(m, i-1))
	}
	if i < end {
		ch := m.in.RuneAt(i)
		right = b.isWord(ch) || (unicode.Is(unicode.Mn, ch) && hasBaseCharacter(m, i))
	} else {
		// tried to access char past the end
		m.hitEnd = true
		// the addition of another char could wreck a boundary
		m.requireEnd = true
	}
	if left != right {
		if right {
			return boundLeft
		}
		return boundRight
	}
	return boundNone
}

func (b *boundNode) match(m *Matcher, i int) bool {
	return b.check(m, i)&b.kind > 0 && b.next.match(m, i)
}

// hasBaseCharacter reports whether the non-spacing marks ending at i sit
// on a letter or digit.
func hasBaseCharacter(m *Matcher, i int) bool {
	start := m.from
	if m.transparentBounds {
		start = 0
	}
	for x := i; x >= start; x-- {
		ch := m.in.RuneAt(x)
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) {
			return true
		}
		if unicode.Is(unicode.Mn, ch) {
			continue
		}
		return false
	}
	return false
}

// posLook is (?=X). Captures made by X stay visible unless the rest of
// the pattern fails.
type posLook struct {
	cond   node
	lo, hi int
	next   node
}

func (p *posLook) match(m *Matcher, i int) bool {
	savedTo := m.to
	// relax the region for lookahead when bounds are transparent
	if m.transparentBounds {
		m.to = m.textLen()
	}
	mark := m.saveGroups(p.lo, p.hi)
	ok := p.cond.match(m, i)
	m.to = savedTo
	if !ok {
		m.dropGroups(mark)
		return false
	}
	if p.next.match(m, i) {
		m.dropGroups(mark)
		return true
	}
	m.restoreGroups(mark, p.lo, p.hi)
	return false
}

// negLook is (?!X). Captures made by X are always discarded.
type negLook struct {
	cond   node
	lo, hi int
	next   node
}

func (n *negLook) match(m *Matcher, i int) bool {
	savedTo := m.to
	if m.transparentBounds {
		m.to = m.textLen()
	}
	if i >= m.to {
		// more input could make X match
		m.requireEnd = true
	}
	mark := m.saveGroups(n.lo, n.hi)
	matched := n.cond.match(m, i)
	m.restoreGroups(mark, n.lo, n.hi)
	m.to = savedTo
	return !matched && m.err == nil && n.next.match(m, i)
}

// lookbehind is (?<=X) and (?<!X). X has a bounded length, so it is tried
// ending at i from every start between i-rmax and i-rmin.
type lookbehind struct {
	cond       node
	rmin, rmax int
	negate     bool
	lo, hi     int
	next       node
}

func (l *lookbehind) match(m *Matcher, i int) bool {
	savedFrom, savedLBT := m.from, m.lookbehindTo
	startIndex := m.from
	if m.transparentBounds {
		startIndex = 0
	}
	from := max(i-l.rmax, startIndex)
	m.lookbehindTo = i
	if m.transparentBounds {
		m.from = 0
	}
	mark := m.saveGroups(l.lo, l.hi)
	found := false
	for j := i - l.rmin; !found && j >= from; j-- {
		found = l.cond.match(m, j)
	}
	m.from = savedFrom
	m.lookbehindTo = savedLBT

	if l.negate {
		m.restoreGroups(mark, l.lo, l.hi)
		return !found && m.err == nil && l.next.match(m, i)
	}
	if !found {
		m.dropGroups(mark)
		return false
	}
	if l.next.match(m, i) {
		m.dropGroups(mark)
		return true
	}
	m.restoreGroups(mark, l.lo, l.hi)
	return false
}

// atomicNode is (?>X): only the first way X matches is ever tried.
type atomicNode struct {
	body   node
	lo, hi int
	next   node
}

func (a *atomicNode) match(m *Matcher, i int) bool {
	mark := m.saveGroups(a.lo, a.hi)
	if !a.body.match(m, i) {
		m.dropGroups(mark)
		return false
	}
	if a.next.match(m, m.subEnd) {
		m.dropGroups(mark)
		return true
	}
	m.restoreGroups(mark, a.lo, a.hi)
	return false
}
