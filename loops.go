package jregex

type loopKind int

const (
	greedy loopKind = iota
	lazy
	possessive
)

// curlyNode repeats a fixed width atom without recursing per iteration.
type curlyNode struct {
	a        atom
	min, max int
	kind     loopKind
	next     node
}

func (c *curlyNode) match(m *Matcher, i int) bool {
	w := c.a.width()
	j := 0
	for ; j < c.min; j++ {
		if !c.a.matchAt(m, i) {
			return false
		}
		i += w
	}

	switch c.kind {
	case greedy:
		backLimit := j
		for j < c.max && c.a.matchAt(m, i) {
			i += w
			j++
		}
		// give back one atom at a time
		for {
			if c.next.match(m, i) {
				return true
			}
			if j == backLimit || m.tick() {
				return false
			}
			i -= w
			j--
		}
	case lazy:
		for {
			if c.next.match(m, i) {
				return true
			}
			if j >= c.max || m.tick() || !c.a.matchAt(m, i) {
				return false
			}
			i += w
			j++
		}
	}
	// possessive: take everything, never give back
	for j < c.max && c.a.matchAt(m, i) {
		i += w
		j++
	}
	return c.next.match(m, i)
}

// prolog enters a general loop.
type prolog struct {
	loop *loopNode
}

func (p *prolog) match(m *Matcher, i int) bool {
	return p.loop.matchInit(m, i)
}

// loopHead marks where an iteration of a general loop starts.
type loopHead struct {
	local int
	next  node
}

func (h *loopHead) match(m *Matcher, i int) bool {
	save := m.locals[h.local]
	m.locals[h.local] = i
	ret := h.next.match(m, i)
	m.locals[h.local] = save
	return ret
}

// loopNode closes each iteration of a general loop. The body ends in the
// loop itself, so every iteration recurses one level; the counter lives in
// a local slot so nested and re-entered loops keep their own count.
type loopNode struct {
	body     node
	count    int // local slot: iterations so far
	begin    int // local slot: where the current iteration started
	min, max int
	lazy     bool
	next     node

	// frames is how many calls one iteration can leave on the stack
	frames int
}

func (l *loopNode) match(m *Matcher, i int) bool {
	// an iteration that consumed nothing ends the loop
	if i <= m.locals[l.begin] {
		return l.next.match(m, i)
	}
	count := m.locals[l.count]
	if count < l.min {
		m.locals[l.count] = count + 1
		ret := l.iterate(m, i)
		if !ret {
			m.locals[l.count] = count
		}
		return ret
	}
	if l.lazy {
		if l.next.match(m, i) {
			return true
		}
		if count < l.max && m.err == nil {
			m.locals[l.count] = count + 1
			ret := l.iterate(m, i)
			if !ret {
				m.locals[l.count] = count
			}
			return ret
		}
		return false
	}
	if count < l.max {
		m.locals[l.count] = count + 1
		if l.iterate(m, i) {
			return true
		}
		m.locals[l.count] = count
		if m.err != nil {
			return false
		}
	}
	return l.next.match(m, i)
}

func (l *loopNode) matchInit(m *Matcher, i int) bool {
	save := m.locals[l.count]
	ret := false
	switch {
	case l.min > 0:
		m.locals[l.count] = 1
		ret = l.iterate(m, i)
	case l.lazy:
		if l.next.match(m, i) {
			ret = true
		} else if l.max > 0 && m.err == nil {
			m.locals[l.count] = 1
			ret = l.iterate(m, i)
		}
	case l.max > 0:
		m.locals[l.count] = 1
		ret = l.iterate(m, i)
		if !ret && m.err == nil {
			ret = l.next.match(m, i)
		}
	default:
		ret = l.next.match(m, i)
	}
	m.locals[l.count] = save
	return ret
}

// iterate runs one more pass of the body, one level deeper.
func (l *loopNode) iterate(m *Matcher, i int) bool {
	if !m.enter(l.frames) {
		return false
	}
	ret := l.body.match(m, i)
	m.depth--
	m.frames -= l.frames
	return ret
}
