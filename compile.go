package jregex

import (
	"fmt"

	"github.com/btre/jregex/syntax"
)

// program is the node graph built from a parse tree. It's immutable and
// shared by every Matcher of a Regexp.
type program struct {
	// matchRoot is the pattern anchored at the starting position; root
	// wraps it in the unanchored search loop.
	matchRoot node
	root      node

	localCount int
	minLength  int
	prefilter  *prefilter

	// lookBehind is how far before a search position the pattern may read
	lookBehind int
}

type compiler struct {
	tree   *syntax.RegexTree
	locals int
	nodes  int // compile calls so far, an upper bound on call chain length
	behind int
}

func compileTree(tree *syntax.RegexTree) *program {
	c := &compiler{tree: tree}
	matchRoot := c.compile(tree.Root, acceptNode{})
	minLen := tree.Root.ComputeMinLength()
	pf := newPrefilter(tree.Root)

	var root node = &startNode{next: matchRoot, minLength: minLen, pf: pf}
	if _, ok := matchRoot.(*beginNode); ok {
		root = &anchoredStart{next: matchRoot}
		pf = nil
	}

	return &program{
		matchRoot:  matchRoot,
		root:       root,
		localCount: c.locals,
		minLength:  minLen,
		prefilter:  pf,
		lookBehind: c.behind + 1,
	}
}

func (c *compiler) newLocal() int {
	c.locals++
	return c.locals - 1
}

// compile returns the node that matches n and then continues with next.
// Graphs are built back to front.
func (c *compiler) compile(n *syntax.RegexNode, next node) node {
	c.nodes++
	switch n.T {
	case syntax.NtOne, syntax.NtSet, syntax.NtAny, syntax.NtMulti:
		return &atomNode{a: c.atom(n), next: next}

	case syntax.NtRef:
		// a group that doesn't exist never matches
		if n.M >= c.tree.Captop {
			return failNode{}
		}
		return &backRef{
			group:       n.M,
			ignoreCase:  n.Options&syntax.IgnoreCase != 0,
			unicodeCase: n.Options&syntax.UnicodeCase != 0,
			next:        next,
		}

	case syntax.NtBol:
		if n.Options&syntax.Multiline != 0 {
			return &caretNode{unix: n.Options&syntax.UnixLines != 0, next: next}
		}
		return &beginNode{next: next}
	case syntax.NtEol:
		return dollar(n.Options, n.Options&syntax.Multiline != 0, next)
	case syntax.NtEndZ:
		return dollar(n.Options, false, next)
	case syntax.NtEnd:
		return &endNode{next: next}
	case syntax.NtBeginning:
		return &beginNode{next: next}
	case syntax.NtStart:
		return &lastMatchNode{next: next}
	case syntax.NtBoundary, syntax.NtNonboundary:
		b := &boundNode{kind: boundBoth, next: next}
		if n.T == syntax.NtNonboundary {
			b.kind = boundNone
		}
		if n.Options&syntax.UnicodeClass != 0 {
			b.word = syntax.WordClass(true)
		}
		return b

	case syntax.NtNothing:
		return failNode{}
	case syntax.NtEmpty:
		return next

	case syntax.NtAlternate:
		alts := make([]node, len(n.Children))
		for i, child := range n.Children {
			alts[i] = c.compile(child, next)
		}
		return &branchNode{alts: alts}
	case syntax.NtConcatenate:
		for i := len(n.Children) - 1; i >= 0; i-- {
			next = c.compile(n.Children[i], next)
		}
		return next
	case syntax.NtGroup:
		if len(n.Children) == 0 {
			return next
		}
		return c.compile(n.Children[0], next)

	case syntax.NtCapture:
		// group 0 is recorded by the driver
		if n.M == 0 {
			return c.compile(n.Children[0], next)
		}
		local := c.newLocal()
		tail := &groupTail{local: local, group: n.M, next: next}
		return &groupHead{local: local, next: c.compile(n.Children[0], tail)}

	case syntax.NtLoop, syntax.NtLazyloop, syntax.NtPossessiveloop:
		return c.compileLoop(n, next)

	case syntax.NtPosLook, syntax.NtNegLook:
		child := n.Children[0]
		cond := c.compile(child, subAccept{})
		lo, hi := captureRange(child)
		if n.T == syntax.NtNegLook {
			return &negLook{cond: cond, lo: lo, hi: hi, next: next}
		}
		return &posLook{cond: cond, lo: lo, hi: hi, next: next}

	case syntax.NtPosLookbehind, syntax.NtNegLookbehind:
		child := n.Children[0]
		lo, hi := captureRange(child)
		rmax := child.MaxLength()
		c.behind = max(c.behind, rmax)
		return &lookbehind{
			cond:   c.compile(child, lookbehindEnd{}),
			rmin:   child.ComputeMinLength(),
			rmax:   rmax,
			negate: n.T == syntax.NtNegLookbehind,
			lo:     lo,
			hi:     hi,
			next:   next,
		}

	case syntax.NtAtomic:
		child := n.Children[0]
		lo, hi := captureRange(child)
		return &atomicNode{body: c.compile(child, subAccept{}), lo: lo, hi: hi, next: next}
	}

	panic(fmt.Sprintf("jregex: unexpected node type %v", n.T))
}

func dollar(opts syntax.RegexOptions, multiline bool, next node) node {
	if opts&syntax.UnixLines != 0 {
		return &unixDollarNode{multiline: multiline, next: next}
	}
	return &dollarNode{multiline: multiline, next: next}
}

// atom returns the fixed width matcher for a leaf, or nil.
func (c *compiler) atom(n *syntax.RegexNode) atom {
	switch n.T {
	case syntax.NtOne:
		return oneAtom(n.Ch)
	case syntax.NtMulti:
		return sliceAtom(n.Str)
	case syntax.NtSet:
		return newSetAtom(n.Set)
	case syntax.NtAny:
		switch {
		case n.Options&syntax.Singleline != 0:
			return dotAtom(dotAll)
		case n.Options&syntax.UnixLines != 0:
			return dotAtom(dotUnix)
		}
		return dotAtom(dotLine)
	}
	return nil
}

func (c *compiler) compileLoop(n *syntax.RegexNode, next node) node {
	child := n.Children[0]
	kind := greedy
	switch n.T {
	case syntax.NtLazyloop:
		kind = lazy
	case syntax.NtPossessiveloop:
		kind = possessive
	}

	if a := c.atom(child); a != nil {
		return &curlyNode{a: a, min: n.M, max: n.N, kind: kind, next: next}
	}

	if kind == possessive {
		// an atomic group around the greedy loop
		lo, hi := captureRange(child)
		body := c.loop(child, n.M, n.N, false, subAccept{})
		return &atomicNode{body: body, lo: lo, hi: hi, next: next}
	}
	return c.loop(child, n.M, n.N, kind == lazy, next)
}

func (c *compiler) loop(child *syntax.RegexNode, min, max int, lazy bool, next node) node {
	l := &loopNode{
		count: c.newLocal(),
		begin: c.newLocal(),
		min:   min,
		max:   max,
		lazy:  lazy,
		next:  next,
	}
	before := c.nodes
	l.body = &loopHead{local: l.begin, next: c.compile(child, l)}
	// loopHead, loopNode and iterate sit on the stack with the body
	l.frames = c.nodes - before + 3
	return &prolog{loop: l}
}

// captureRange returns the span [lo, hi) of capture group numbers used
// inside n. Groups are numbered in order of their opening parenthesis, so
// a subtree's groups are contiguous.
func captureRange(n *syntax.RegexNode) (lo, hi int) {
	lo, hi = -1, -1
	var walk func(n *syntax.RegexNode)
	walk = func(n *syntax.RegexNode) {
		if n.T == syntax.NtCapture && n.M > 0 {
			if lo < 0 || n.M < lo {
				lo = n.M
			}
			if n.M+1 > hi {
				hi = n.M + 1
			}
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(n)
	if lo < 0 {
		return 0, 0
	}
	return lo, hi
}
