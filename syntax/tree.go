package syntax

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

type RegexTree struct {
	Root     *RegexNode
	Captop   int            // number of capture slots including group 0
	Capnames map[string]int // group name -> number
	Caplist  []string       // group number -> name, "" for unnamed groups
	Options  RegexOptions
	Syntax   *Syntax
	Pattern  string
}

// RegexNode is one node of the parse tree. The tree only lives between
// parsing and building the matching graph, so it favours convenience over
// size.
//
// Children hold the operands of interior nodes. Next points back at the
// parent once a child has been added, which lets Dump walk the tree
// without recursion.
//
// Leaves carry their data in Ch (NtOne), Str (NtMulti) or Set (NtSet).
// Loops keep their bounds in M and N; N is math.MaxInt32 when unbounded.
// Captures and back-references keep the group number in M.
type RegexNode struct {
	T        NodeType
	Children []*RegexNode
	Str      []rune
	Set      *CharSet
	Ch       rune
	M        int
	N        int
	Options  RegexOptions
	Next     *RegexNode
}

type NodeType int32

const (
	// The following are leaves, and correspond to primitive operations
	NtUnknown     NodeType = -1
	NtOne         NodeType = 0  // lef      char            a
	NtSet         NodeType = 1  // lef      set             [a-z\s]  \w \s \d
	NtMulti       NodeType = 2  // lef      string          abcd
	NtAny         NodeType = 3  // lef                      .
	NtRef         NodeType = 4  // lef      group           \#
	NtBol         NodeType = 5  //                          ^
	NtEol         NodeType = 6  //                          $
	NtBoundary    NodeType = 7  //                          \b
	NtNonboundary NodeType = 8  //                          \B
	NtBeginning   NodeType = 9  //                          \A
	NtStart       NodeType = 10 //                          \G
	NtEndZ        NodeType = 11 //                          \Z
	NtEnd         NodeType = 12 //                          \z

	// Interior nodes do not correspond to primitive operations, but
	// control structures compositing other operations

	NtNothing        NodeType = 13 //          []
	NtEmpty          NodeType = 14 //          ()
	NtAlternate      NodeType = 15 //          a|b
	NtConcatenate    NodeType = 16 //          ab
	NtLoop           NodeType = 17 // m,x      * + ? {,}
	NtLazyloop       NodeType = 18 // m,x      *? +? ?? {,}?
	NtPossessiveloop NodeType = 19 // m,x      *+ ++ ?+ {,}+
	NtCapture        NodeType = 20 // n        ()
	NtGroup          NodeType = 21 //          (?:) (?i:)
	NtPosLook        NodeType = 22 //          (?=)
	NtNegLook        NodeType = 23 //          (?!)
	NtPosLookbehind  NodeType = 24 //          (?<=)
	NtNegLookbehind  NodeType = 25 //          (?<!)
	NtAtomic         NodeType = 26 //          (?>)
)

func newRegexNode(t NodeType, opt RegexOptions) *RegexNode {
	return &RegexNode{
		T:       t,
		Options: opt,
	}
}

func newRegexNodeCh(t NodeType, opt RegexOptions, ch rune) *RegexNode {
	return nodeWithCaseConversion(&RegexNode{
		T:       t,
		Options: opt,
		Ch:      ch,
	})
}

func newRegexNodeStr(t NodeType, opt RegexOptions, str []rune) *RegexNode {
	return &RegexNode{
		T:       t,
		Options: opt,
		Str:     str,
	}
}

func newRegexNodeSet(t NodeType, opt RegexOptions, set *CharSet) *RegexNode {
	return &RegexNode{
		T:       t,
		Options: opt,
		Set:     set,
	}
}

func newRegexNodeM(t NodeType, opt RegexOptions, m int) *RegexNode {
	return &RegexNode{
		T:       t,
		Options: opt,
		M:       m,
	}
}

func newRegexNodeMN(t NodeType, opt RegexOptions, m, n int) *RegexNode {
	return &RegexNode{
		T:       t,
		Options: opt,
		M:       m,
		N:       n,
	}
}

// nodeWithCaseConversion turns a case-insensitive literal into the set of
// its case variants. Literals with no variants stay NtOne.
func nodeWithCaseConversion(n *RegexNode) *RegexNode {
	if n.Options&IgnoreCase == 0 || n.T != NtOne {
		return n
	}
	set := &CharSet{}
	set.AddChar(n.Ch)
	set.addCaseEquivalences(n.Options&UnicodeCase != 0)
	if set.IsSingleton() {
		return n
	}
	return &RegexNode{
		T:       NtSet,
		Options: n.Options &^ IgnoreCase,
		Set:     set,
	}
}

func (n *RegexNode) addChild(child *RegexNode) {
	reduced := child.reduce()
	n.Children = append(n.Children, reduced)
	reduced.Next = n
}

func (n *RegexNode) insertChildren(afterIndex int, nodes []*RegexNode) {
	newChildren := make([]*RegexNode, 0, len(n.Children)+len(nodes))
	n.Children = append(append(append(newChildren, n.Children[:afterIndex]...), nodes...), n.Children[afterIndex:]...)
}

// removes children including the start but not the end index
func (n *RegexNode) removeChildren(startIndex, endIndex int) {
	n.Children = append(n.Children[:startIndex], n.Children[endIndex:]...)
}

func (n *RegexNode) reduce() *RegexNode {
	// Remove IgnoreCase option from everything except a Backreference
	if n.T != NtRef {
		n.Options &= ^IgnoreCase
	}
	switch n.T {
	case NtAlternate:
		return n.reduceAlternation()

	case NtConcatenate:
		return n.reduceConcatenation()

	case NtLoop, NtLazyloop, NtPossessiveloop:
		return n.reduceRep()

	case NtGroup:
		return n.reduceGroup()

	case NtSet:
		return n.reduceSet()

	default:
		return n
	}
}

// Basic optimization. Single-letter alternations can be replaced
// by faster set specifications, and nested alternations with no
// intervening operators can be flattened:
//
// a|b|c|def|g|h -> [a-c]|def|[gh]
// apple|(?:orange|pear)|grape -> apple|orange|pear|grape
func (n *RegexNode) reduceAlternation() *RegexNode {
	if len(n.Children) == 0 {
		return newRegexNode(NtNothing, n.Options)
	}

	wasLastSet := false
	var i, j int

	for i, j = 0, 0; i < len(n.Children); i, j = i+1, j+1 {
		at := n.Children[i]

		if j < i {
			n.Children[j] = at
		}

		switch at.T {
		case NtAlternate:
			for k := 0; k < len(at.Children); k++ {
				at.Children[k].Next = n
			}
			n.insertChildren(i+1, at.Children)
			j--
		case NtSet, NtOne:
			if !wasLastSet {
				wasLastSet = true
				continue
			}
			// The last node was a Set or a One too: merge the two nodes.
			j--
			prev := n.Children[j]

			if prev.T == NtOne {
				prev.Set = &CharSet{}
				prev.Set.AddChar(prev.Ch)
				prev.T = NtSet
			} else {
				s := prev.Set.Copy()
				prev.Set = &s
			}
			if at.T == NtOne {
				prev.Set.AddChar(at.Ch)
			} else {
				prev.Set.Union(at.Set)
			}
		case NtNothing:
			j--
		default:
			wasLastSet = false
		}
	}

	if j < i {
		n.removeChildren(j, i)
	}

	return n.stripEnation(NtNothing)
}

// Basic optimization. Adjacent strings can be concatenated.
//
// (?:abc)(?:def) -> abcdef
func (n *RegexNode) reduceConcatenation() *RegexNode {
	// Eliminate empties and concat adjacent strings/chars
	var i, j int

	if len(n.Children) == 0 {
		return newRegexNode(NtEmpty, n.Options)
	}

	wasLastString := false

	for i, j = 0, 0; i < len(n.Children); i, j = i+1, j+1 {
		at := n.Children[i]

		if j < i {
			n.Children[j] = at
		}

		switch at.T {
		case NtConcatenate:
			for k := 0; k < len(at.Children); k++ {
				at.Children[k].Next = n
			}
			//insert at.children at i+1 index in n.children
			n.insertChildren(i+1, at.Children)
			j--
		case NtMulti, NtOne:
			if !wasLastString {
				wasLastString = true
				continue
			}

			j--
			prev := n.Children[j]

			if prev.T == NtOne {
				prev.T = NtMulti
				prev.Str = []rune{prev.Ch}
			}
			if at.T == NtOne {
				prev.Str = append(prev.Str, at.Ch)
			} else {
				prev.Str = append(prev.Str, at.Str...)
			}
		case NtEmpty:
			j--
		default:
			wasLastString = false
		}
	}

	if j < i {
		// remove indices j through i from the children
		n.removeChildren(j, i)
	}

	return n.stripEnation(NtEmpty)
}

// A loop that runs exactly once is its body; one that cannot run at all
// is empty.
func (n *RegexNode) reduceRep() *RegexNode {
	if n.M == 1 && n.N == 1 {
		if n.T == NtPossessiveloop {
			n.T = NtAtomic
			return n
		}
		return n.Children[0]
	}
	if n.N == 0 {
		return newRegexNode(NtEmpty, n.Options)
	}
	if n.Children[0].T == NtNothing && n.M == 0 {
		return newRegexNode(NtEmpty, n.Options)
	}
	return n
}

// Simple optimization. If a concatenation or alternation has only
// one child strip out the intermediate node. If it has zero children,
// turn it into an empty.
func (n *RegexNode) stripEnation(emptyType NodeType) *RegexNode {
	switch len(n.Children) {
	case 0:
		return newRegexNode(emptyType, n.Options)
	case 1:
		return n.Children[0]
	default:
		return n
	}
}

func (n *RegexNode) reduceGroup() *RegexNode {
	u := n

	for u.T == NtGroup {
		u = u.Children[0]
	}

	return u
}

// Simple optimization. If a set is a singleton or empty, it's transformed
// accordingly.
func (n *RegexNode) reduceSet() *RegexNode {
	if n.Set == nil || n.Set.IsEmpty() {
		n.T = NtNothing
		n.Set = nil
	} else if n.Set.IsSingleton() {
		n.Ch = n.Set.SingletonChar()
		n.Set = nil
		n.T = NtOne
	}

	return n
}

// makeQuantifier wraps n in a loop of type t.
func (n *RegexNode) makeQuantifier(t NodeType, min, max int) *RegexNode {
	if max < 0 {
		max = math.MaxInt32
	}
	result := newRegexNodeMN(t, n.Options, min, max)
	result.addChild(n)
	return result
}

// IsZeroWidth reports anchors and lookarounds.
func (n *RegexNode) IsZeroWidth() bool {
	switch n.T {
	case NtBol, NtEol, NtBoundary, NtNonboundary, NtBeginning, NtStart, NtEndZ, NtEnd,
		NtEmpty, NtPosLook, NtNegLook, NtPosLookbehind, NtNegLookbehind:
		return true
	}
	return false
}

// Computes a min bound on the required length of any string that could possibly match.
// If the result is 0, there is no minimum we can enforce.
func (n *RegexNode) ComputeMinLength() int {
	switch n.T {
	case NtOne, NtSet, NtAny:
		// single char
		return 1
	case NtMulti:
		// Every character in the string needs to match.
		return len(n.Str)
	case NtLoop, NtLazyloop, NtPossessiveloop:
		// A node graph repeated at least M times.
		return n.M * n.Children[0].ComputeMinLength()
	case NtAlternate:
		// The minimum required length for any of the alternation's branches.
		childCount := len(n.Children)
		min := n.Children[0].ComputeMinLength()
		for i := 1; i < childCount && min > 0; i++ {
			newMin := n.Children[i].ComputeMinLength()
			if newMin < min {
				min = newMin
			}
		}
		return min
	case NtConcatenate:
		// The sum of all of the concatenation's children.
		sum := 0
		for i := 0; i < len(n.Children); i++ {
			sum += n.Children[i].ComputeMinLength()
		}
		return sum
	case NtAtomic, NtCapture, NtGroup:
		// For groups, we just delegate to the sole child.
		return n.Children[0].ComputeMinLength()
	}
	// anchors, lookarounds, back-references and empties
	return 0
}

// Computes a maximum length of any string that could possibly match.
// or -1 if the length is unbounded or depends on run-time data.
func (n *RegexNode) computeMaxLength() int {
	switch n.T {
	case NtOne, NtSet, NtAny:
		return 1
	case NtMulti:
		return len(n.Str)
	case NtLoop, NtLazyloop, NtPossessiveloop:
		if n.N == math.MaxInt32 {
			return -1
		}
		// A node graph repeated a fixed number of times
		if c := n.Children[0].computeMaxLength(); c >= 0 {
			maxLen := n.N * c
			if maxLen >= math.MaxInt32 {
				return -1
			}
			return maxLen
		}
	case NtAlternate:
		// The maximum length of any child branch, as long as they all have one.
		c := n.Children[0].computeMaxLength()
		if c < 0 {
			return -1
		}
		for i := 1; i < len(n.Children); i++ {
			c2 := n.Children[i].computeMaxLength()
			if c2 < 0 {
				return -1
			}
			if c2 > c {
				c = c2
			}
		}
		return c
	case NtConcatenate:
		// The sum of all of the concatenation's children's max lengths, as long as they all have one.
		sum := 0
		for i := 0; i < len(n.Children); i++ {
			c := n.Children[i].computeMaxLength()
			if c < 0 {
				return -1
			}
			sum += c
			if sum >= math.MaxInt32 {
				return -1
			}
		}
		return sum

	case NtAtomic, NtCapture, NtGroup:
		// For groups, we just delegate to the sole child.
		return n.Children[0].computeMaxLength()
	case NtEmpty, NtNothing,
		NtBeginning, NtBol, NtBoundary, NtEnd, NtEndZ, NtEol,
		NtNonboundary, NtStart, NtNegLook, NtPosLook, NtPosLookbehind, NtNegLookbehind:
		//zero-width
		return 0

	case NtRef:
		// Requires matching data available only at run-time.
		return -1
	}

	return -1
}

// MaxLength is computeMaxLength for callers outside the package.
func (n *RegexNode) MaxLength() int {
	return n.computeMaxLength()
}

// debug functions

var typeStr = []string{
	"One", "Set", "Multi", "Any", "Ref",
	"Bol", "Eol", "Boundary", "Nonboundary",
	"Beginning", "Start", "EndZ", "End",
	"Nothing", "Empty",
	"Alternate", "Concatenate",
	"Loop", "Lazyloop", "Possessiveloop",
	"Capture", "Group", "PosLook", "NegLook",
	"PosLookbehind", "NegLookbehind", "Atomic",
}

func (n *RegexNode) Description() string {
	buf := &bytes.Buffer{}

	buf.WriteString(typeStr[n.T])

	if (n.Options & IgnoreCase) != 0 {
		buf.WriteString("-I")
	}
	if (n.Options & Multiline) != 0 {
		buf.WriteString("-M")
	}
	if (n.Options & Singleline) != 0 {
		buf.WriteString("-S")
	}
	if (n.Options & UnixLines) != 0 {
		buf.WriteString("-D")
	}
	if (n.Options & UnicodeCase) != 0 {
		buf.WriteString("-U")
	}

	switch n.T {
	case NtOne:
		buf.WriteString("(Ch = " + CharDescription(n.Ch) + ")")
	case NtCapture, NtRef:
		buf.WriteString("(index = " + strconv.Itoa(n.M) + ")")
	case NtMulti:
		fmt.Fprintf(buf, "(String = %s)", string(n.Str))
	case NtSet:
		buf.WriteString("(Set = " + n.Set.String() + ")")
	}

	switch n.T {
	case NtLoop, NtLazyloop, NtPossessiveloop:
		buf.WriteString("(Min = ")
		buf.WriteString(strconv.Itoa(n.M))
		buf.WriteString(", Max = ")
		if n.N == math.MaxInt32 {
			buf.WriteString("inf")
		} else {
			buf.WriteString(strconv.Itoa(n.N))
		}
		buf.WriteString(")")
	}

	return buf.String()
}

var padSpace = []byte("                                ")

func (t *RegexTree) Dump() string {
	return t.Root.dump()
}

func (n *RegexNode) dump() string {
	var stack []int
	CurNode := n
	CurChild := 0

	buf := bytes.NewBufferString(CurNode.Description())
	buf.WriteRune('\n')

	for {
		if CurNode.Children != nil && CurChild < len(CurNode.Children) {
			stack = append(stack, CurChild+1)
			CurNode = CurNode.Children[CurChild]
			CurChild = 0

			Depth := len(stack)
			if Depth > 32 {
				Depth = 32
			}
			buf.Write(padSpace[:Depth])
			buf.WriteString(CurNode.Description())
			buf.WriteRune('\n')
		} else {
			if len(stack) == 0 {
				break
			}

			CurChild = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			CurNode = CurNode.Next
		}
	}
	return buf.String()
}

// FindStartingLiteralNode returns the node that any match must begin with
// when that node is a case-sensitive literal or set, or nil.
func (n *RegexNode) FindStartingLiteralNode() *RegexNode {
	node := n
	for node != nil {
		switch node.T {
		case NtOne, NtMulti, NtSet:
			return node
		case NtLoop, NtLazyloop, NtPossessiveloop:
			if node.M == 0 {
				return nil
			}
			node = node.Children[0]
		case NtAtomic, NtCapture, NtGroup, NtConcatenate:
			node = node.Children[0]
		case NtAlternate:
			return node
		default:
			return nil
		}
	}
	return nil
}

// LiteralAlternatives returns the strings of an alternation whose branches
// are all plain literals.
func (n *RegexNode) LiteralAlternatives() ([]string, bool) {
	if n.T != NtAlternate {
		return nil, false
	}
	lits := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		switch c.T {
		case NtOne:
			lits = append(lits, string(c.Ch))
		case NtMulti:
			lits = append(lits, string(c.Str))
		default:
			return nil, false
		}
	}
	return lits, true
}
