package jregex

import (
	"fmt"
	"strconv"

	"github.com/btre/jregex/runecacher"
	"github.com/btre/jregex/syntax"
)

// Matcher runs a Regexp against one input. It keeps the match region,
// the capture groups of the last match and the state find needs to
// continue where it left off. Positions are rune offsets into the input.
//
// A Matcher is not safe for concurrent use.
type Matcher struct {
	re   *Regexp
	prog *program
	in   *runecacher.RuneCacher

	// groups holds start and end of each group, -1 when unset
	groups []int
	// locals are the scratch slots of capture heads and loops
	locals []int
	// stack keeps group snapshots for atomic groups and lookarounds
	stack []int

	// the region; matching never reads outside [from, to) unless
	// bounds are transparent
	from, to int

	// first and last are the span of the last match, first < 0 if none
	first, last int
	// oldLast is where the previous match ended, for \G
	oldLast int
	// lastAppendPos is the replacement cursor
	lastAppendPos int

	hitEnd     bool
	requireEnd bool

	transparentBounds bool
	anchoringBounds   bool

	acceptMode   int
	lookbehindTo int
	subEnd       int

	depth    int
	maxDepth int
	frames   int
	steps    int
	deadline fasttime
	err      error

	// UTF-8 copy of the input for the literal-set prefilter
	text     []byte
	textRune int
	cursor   byteCursor

	repl *syntax.ReplacerData
}

// Matcher returns a new Matcher over input.
func (re *Regexp) Matcher(input string) *Matcher {
	return newMatcher(re, runecacher.NewFromString(input))
}

// MatcherRunes returns a new Matcher over a rune slice. The slice must not
// change while the Matcher uses it.
func (re *Regexp) MatcherRunes(input []rune) *Matcher {
	return newMatcher(re, runecacher.NewFromRunes(input))
}

func newMatcher(re *Regexp, in *runecacher.RuneCacher) *Matcher {
	m := &Matcher{
		re:              re,
		prog:            re.prog,
		in:              in,
		groups:          make([]int, 2*re.capsize),
		locals:          make([]int, re.prog.localCount),
		anchoringBounds: true,
	}
	m.Reset()
	return m
}

func (m *Matcher) textLen() int {
	return m.in.Len()
}

func (m *Matcher) textBytes() []byte {
	if m.text == nil || m.textRune != m.in.Len() {
		m.text = []byte(m.in.String())
		m.textRune = m.in.Len()
	}
	return m.text
}

// Pattern returns the Regexp this Matcher uses.
func (m *Matcher) Pattern() *Regexp {
	return m.re
}

// Reset discards the match state and the region. The bounds flags are
// kept.
func (m *Matcher) Reset() *Matcher {
	m.first = -1
	m.last = 0
	m.oldLast = -1
	m.clearGroups()
	for i := range m.locals {
		m.locals[i] = -1
	}
	m.lastAppendPos = 0
	m.from = 0
	m.to = m.textLen()
	return m
}

// ResetInput resets the Matcher and switches it to a new input.
func (m *Matcher) ResetInput(input string) *Matcher {
	m.setInput(runecacher.NewFromString(input))
	return m.Reset()
}

// ResetRunes is ResetInput for a rune slice.
func (m *Matcher) ResetRunes(input []rune) *Matcher {
	m.setInput(runecacher.NewFromRunes(input))
	return m.Reset()
}

func (m *Matcher) setInput(in *runecacher.RuneCacher) {
	m.in = in
	m.text = nil
	m.cursor = byteCursor{}
}

// UsePattern switches to another Regexp. The position and region are
// kept but the groups are lost.
func (m *Matcher) UsePattern(re *Regexp) error {
	if re == nil {
		return fmt.Errorf("%w: pattern cannot be nil", ErrIllegalArgument)
	}
	m.re = re
	m.prog = re.prog
	m.groups = make([]int, 2*re.capsize)
	m.locals = make([]int, re.prog.localCount)
	m.clearGroups()
	for i := range m.locals {
		m.locals[i] = -1
	}
	m.repl = nil
	return nil
}

func (m *Matcher) clearGroups() {
	for i := range m.groups {
		m.groups[i] = -1
	}
}

// Region limits matching to [start, end). It resets the Matcher first.
func (m *Matcher) Region(start, end int) error {
	n := m.textLen()
	if start < 0 || start > n {
		return fmt.Errorf("%w: start %d", ErrIndexOutOfRange, start)
	}
	if end < 0 || end > n {
		return fmt.Errorf("%w: end %d", ErrIndexOutOfRange, end)
	}
	if start > end {
		return fmt.Errorf("%w: start %d > end %d", ErrIndexOutOfRange, start, end)
	}
	m.Reset()
	m.from = start
	m.to = end
	return nil
}

// RegionStart returns the first offset of the region.
func (m *Matcher) RegionStart() int { return m.from }

// RegionEnd returns the offset just past the region.
func (m *Matcher) RegionEnd() int { return m.to }

// UseTransparentBounds lets lookaround and boundaries see past the region.
func (m *Matcher) UseTransparentBounds(b bool) *Matcher {
	m.transparentBounds = b
	return m
}

// UseAnchoringBounds makes ^ and $ match at the region edges. It is on by
// default.
func (m *Matcher) UseAnchoringBounds(b bool) *Matcher {
	m.anchoringBounds = b
	return m
}

// HasTransparentBounds reports whether lookaround and boundaries can see
// past the region.
func (m *Matcher) HasTransparentBounds() bool { return m.transparentBounds }

// HasAnchoringBounds reports whether ^ and $ match at the region edges.
func (m *Matcher) HasAnchoringBounds() bool { return m.anchoringBounds }

// HitEnd reports whether the last match operation read the end of the
// input, so more input could have changed its result.
func (m *Matcher) HitEnd() bool { return m.hitEnd }

// RequireEnd reports whether more input could turn the last match into a
// non-match.
func (m *Matcher) RequireEnd() bool { return m.requireEnd }

// Matches reports whether the whole region matches.
func (m *Matcher) Matches() (bool, error) {
	return m.match(m.from, endAnchor)
}

// LookingAt reports whether a prefix of the region matches.
func (m *Matcher) LookingAt() (bool, error) {
	return m.match(m.from, noAnchor)
}

// Find looks for the next match after the previous one. A zero-length
// match makes the next search start one position later.
func (m *Matcher) Find() (bool, error) {
	next := m.last
	if next == m.first {
		next++
	}
	if next < m.from {
		next = m.from
	}
	if next > m.to {
		m.clearGroups()
		return false, nil
	}
	return m.search(next)
}

// FindFrom resets the Matcher and searches from start.
func (m *Matcher) FindFrom(start int) (bool, error) {
	if start < 0 || start > m.textLen() {
		return false, fmt.Errorf("%w: illegal start index %d", ErrIndexOutOfRange, start)
	}
	m.Reset()
	return m.search(start)
}

func (m *Matcher) begin() {
	m.hitEnd = false
	m.requireEnd = false
	m.err = nil
	m.depth = 0
	m.frames = 0
	m.steps = 0
	m.stack = m.stack[:0]
	m.maxDepth = m.re.MaxBacktrackDepth
	if m.maxDepth <= 0 {
		m.maxDepth = DefaultMaxBacktrackDepth
	}
	m.deadline = maxDeadline
	if m.re.MatchTimeout != DefaultMatchTimeout {
		m.deadline = makeDeadline(m.re.MatchTimeout)
	}
	m.clearGroups()
}

func (m *Matcher) search(from int) (bool, error) {
	m.begin()
	from = max(from, 0)
	m.first = from
	if m.oldLast < 0 {
		m.oldLast = from
	}
	m.acceptMode = noAnchor
	ok := m.prog.root.match(m, from)
	return m.finish(ok)
}

func (m *Matcher) match(from, anchor int) (bool, error) {
	m.begin()
	from = max(from, 0)
	m.first = from
	if m.oldLast < 0 {
		m.oldLast = from
	}
	m.acceptMode = anchor
	ok := m.prog.matchRoot.match(m, from)
	return m.finish(ok)
}

func (m *Matcher) finish(ok bool) (bool, error) {
	if m.err != nil {
		ok = false
		m.clearGroups()
	}
	if !ok {
		m.first = -1
	}
	m.oldLast = m.last
	return ok, m.err
}

// tick counts a step and reports whether matching must stop.
func (m *Matcher) tick() bool {
	if m.err != nil {
		return true
	}
	m.steps++
	if m.steps&1023 == 0 && m.deadline.reached() {
		m.err = fmt.Errorf("%w after %v on input `%v`", ErrMatchTimeout, m.re.MatchTimeout, truncate(m.in.String(), 64))
		return true
	}
	return false
}

// maxFrames caps the match calls that nested loop iterations may pile up
// on the goroutine stack, whatever the iteration limit says.
const maxFrames = 1 << 20

// enter goes one loop iteration deeper, charging frames stack frames.
func (m *Matcher) enter(frames int) bool {
	if m.tick() {
		return false
	}
	if m.depth >= m.maxDepth {
		m.err = fmt.Errorf("%w: more than %d nested iterations", ErrBacktrackLimit, m.maxDepth)
		return false
	}
	if m.frames+frames > maxFrames {
		m.err = fmt.Errorf("%w: more than %d nested match calls", ErrBacktrackLimit, maxFrames)
		return false
	}
	m.depth++
	m.frames += frames
	return true
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func (m *Matcher) saveGroups(lo, hi int) int {
	mark := len(m.stack)
	if hi > lo {
		m.stack = append(m.stack, m.groups[2*lo:2*hi]...)
	}
	return mark
}

func (m *Matcher) restoreGroups(mark, lo, hi int) {
	if hi > lo {
		copy(m.groups[2*lo:2*hi], m.stack[mark:mark+2*(hi-lo)])
	}
	m.stack = m.stack[:mark]
}

func (m *Matcher) dropGroups(mark int) {
	m.stack = m.stack[:mark]
}

// GroupCount returns the number of capturing groups, not counting group 0.
func (m *Matcher) GroupCount() int {
	return m.re.capsize - 1
}

func (m *Matcher) matched() error {
	if m.first < 0 || m.groups[0] < 0 {
		return ErrIllegalState
	}
	return nil
}

// Start returns the start of the last match.
func (m *Matcher) Start() (int, error) {
	return m.StartGroup(0)
}

// StartGroup returns where group g started in the last match, or -1 if
// it didn't take part.
func (m *Matcher) StartGroup(g int) (int, error) {
	s, _, err := m.span(g)
	return s, err
}

// StartNamed is StartGroup for a named group.
func (m *Matcher) StartNamed(name string) (int, error) {
	g, err := m.namedGroup(name)
	if err != nil {
		return -1, err
	}
	return m.StartGroup(g)
}

// End returns the offset after the last match.
func (m *Matcher) End() (int, error) {
	return m.EndGroup(0)
}

// EndGroup returns the offset after group g in the last match, or -1 if
// it didn't take part.
func (m *Matcher) EndGroup(g int) (int, error) {
	_, e, err := m.span(g)
	return e, err
}

// EndNamed is EndGroup for a named group.
func (m *Matcher) EndNamed(name string) (int, error) {
	g, err := m.namedGroup(name)
	if err != nil {
		return -1, err
	}
	return m.EndGroup(g)
}

// Group returns the text of the last match.
func (m *Matcher) Group() (string, error) {
	return m.GroupAt(0)
}

// GroupAt returns the text group g captured. A group that didn't take
// part in the match gives "" with a nil error; StartGroup tells the two
// apart.
func (m *Matcher) GroupAt(g int) (string, error) {
	s, e, err := m.span(g)
	if err != nil || s < 0 {
		return "", err
	}
	return m.in.Substring(s, e), nil
}

// GroupNamed returns the text of the named group in the last match.
func (m *Matcher) GroupNamed(name string) (string, error) {
	g, err := m.namedGroup(name)
	if err != nil {
		return "", err
	}
	return m.GroupAt(g)
}

func (m *Matcher) span(g int) (int, int, error) {
	if err := m.matched(); err != nil {
		return -1, -1, err
	}
	if g < 0 || g > m.GroupCount() {
		return -1, -1, fmt.Errorf("%w: no group %d", ErrIndexOutOfRange, g)
	}
	return m.groups[2*g], m.groups[2*g+1], nil
}

func (m *Matcher) namedGroup(name string) (int, error) {
	return lookupName(m.re.capnames, name)
}

func lookupName(names map[string]int, name string) (int, error) {
	g, ok := names[name]
	if !ok {
		return -1, fmt.Errorf("%w: no group with name <%s>", ErrIllegalArgument, name)
	}
	return g, nil
}

// ToMatchResult returns a snapshot of the current match that later
// operations on the Matcher don't affect.
func (m *Matcher) ToMatchResult() *MatchResult {
	r := &MatchResult{
		in:         m.in,
		groups:     append([]int(nil), m.groups...),
		groupCount: m.GroupCount(),
		capnames:   m.re.capnames,
	}
	if m.matched() != nil {
		r.groups = nil
	}
	return r
}

// String describes the pattern, the region and the last match.
func (m *Matcher) String() string {
	last := ""
	if g, err := m.Group(); err == nil {
		last = g
	}
	return "jregex.Matcher[pattern=" + m.re.pattern +
		" region=" + strconv.Itoa(m.from) + "," + strconv.Itoa(m.to) +
		" lastmatch=" + last + "]"
}

// MatchResult is the immutable result of one match.
type MatchResult struct {
	in         *runecacher.RuneCacher
	groups     []int // nil when there was no match
	groupCount int
	capnames   map[string]int

	// offset is added to reported positions; groups index into in
	offset int
}

// GroupCount returns the number of capturing groups, not counting group 0.
func (r *MatchResult) GroupCount() int {
	return r.groupCount
}

func (r *MatchResult) span(g int) (int, int, error) {
	if r.groups == nil {
		return -1, -1, ErrIllegalState
	}
	if g < 0 || g > r.GroupCount() {
		return -1, -1, fmt.Errorf("%w: no group %d", ErrIndexOutOfRange, g)
	}
	return r.groups[2*g], r.groups[2*g+1], nil
}

// Start and End return the bounds of the whole match.
func (r *MatchResult) Start() (int, error) { return r.StartGroup(0) }
func (r *MatchResult) End() (int, error)   { return r.EndGroup(0) }

// StartGroup returns where group g started, or -1.
func (r *MatchResult) StartGroup(g int) (int, error) {
	s, _, err := r.span(g)
	if s >= 0 {
		s += r.offset
	}
	return s, err
}

// EndGroup returns the offset after group g, or -1.
func (r *MatchResult) EndGroup(g int) (int, error) {
	_, e, err := r.span(g)
	if e >= 0 {
		e += r.offset
	}
	return e, err
}

// Group returns the matched text.
func (r *MatchResult) Group() (string, error) { return r.GroupAt(0) }

// GroupAt returns the text of group g, or "" if it didn't take part.
func (r *MatchResult) GroupAt(g int) (string, error) {
	s, e, err := r.span(g)
	if err != nil || s < 0 {
		return "", err
	}
	return r.in.Substring(s, e), nil
}

// GroupNamed returns the text of the named group.
func (r *MatchResult) GroupNamed(name string) (string, error) {
	g, err := lookupName(r.capnames, name)
	if err != nil {
		return "", err
	}
	return r.GroupAt(g)
}

// String returns the matched text, or "" when there was no match.
func (r *MatchResult) String() string {
	s, _ := r.Group()
	return s
}
