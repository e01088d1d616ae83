package syntax

// MaxGroups bounds the number of capturing groups in one pattern.
const MaxGroups = 0xFFFF

// parser is a recursive-descent parser over the lexer's tokens. It keeps a
// single token of lookahead in tok; the lexer always sits right after it,
// which lets bracket expressions switch the lexer into class mode.
//
//	Regexp := Subexp ('|' Subexp)*
//	Subexp := Expr*
//	Expr   := Atom Quantifier?
type parser struct {
	lex     *Lexer
	pattern string
	syntax  *Syntax
	options RegexOptions
	tok     Token
	depth   int

	captop   int
	capnames map[string]int
	caplist  []string
}

// Parse converts a regex string into a parse tree. The whole pattern is
// wrapped in capture 0.
func Parse(re string, op RegexOptions, syn *Syntax) (*RegexTree, error) {
	if syn == nil {
		syn = SyntaxJava
	}
	p := &parser{
		lex:     NewLexer(re, op, syn),
		pattern: re,
		syntax:  syn,
		options: op,
		captop:  1,
		caplist: []string{""},
	}

	var body *RegexNode
	if op&Literal != 0 {
		body = p.literalPattern()
	} else {
		if err := p.advance(); err != nil {
			return nil, err
		}
		var err error
		if body, err = p.parseRegexp(); err != nil {
			return nil, err
		}
		if p.tok.Type != TokEOT {
			return nil, p.errorf(ErrUnmatchedParen, p.tok.Pos)
		}
	}

	root := newRegexNodeM(NtCapture, op, 0)
	root.addChild(body)

	return &RegexTree{
		Root:     root,
		Captop:   p.captop,
		Capnames: p.capnames,
		Caplist:  p.caplist,
		Options:  op,
		Syntax:   syn,
		Pattern:  re,
	}, nil
}

func (p *parser) errorf(code ErrorCode, pos int, args ...interface{}) error {
	return &Error{Code: code, Expr: p.pattern, Pos: pos, Args: args}
}

func (p *parser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) setOptions(o RegexOptions) {
	p.options = o
	p.lex.Options = o
}

func (p *parser) literalPattern() *RegexNode {
	concat := newRegexNode(NtConcatenate, p.options)
	for _, ch := range p.pattern {
		concat.addChild(newRegexNodeCh(NtOne, p.options, ch))
	}
	return concat
}

func (p *parser) parseRegexp() (*RegexNode, error) {
	alt := newRegexNode(NtAlternate, p.options)
	for {
		branch, err := p.parseBranch()
		if err != nil {
			return nil, err
		}
		alt.addChild(branch)
		if p.tok.Type != TokAlt {
			return alt, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
}

func (p *parser) parseBranch() (*RegexNode, error) {
	concat := newRegexNode(NtConcatenate, p.options)
	for {
		switch p.tok.Type {
		case TokEOT, TokAlt:
			return concat, nil
		case TokSubexpClose:
			if p.depth > 0 {
				return concat, nil
			}
			if !p.syntax.AllowUnmatchedClose {
				return nil, p.errorf(ErrUnmatchedParen, p.tok.Pos)
			}
			p.tok.Type = TokRaw
		case TokOptions:
			p.setOptions((p.options | p.tok.OnOpts) &^ p.tok.OffOpts)
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		case TokRepeat:
			// nothing to repeat
			if p.syntax.ContextIndepRepeatOps || p.tok.Interval {
				return nil, p.errorf(ErrMissingRepeatArgument, p.tok.Pos, string(p.tok.Ch))
			}
			p.tok.Type = TokRaw
		}

		atom, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		if atom, err = p.parseQuantifier(atom); err != nil {
			return nil, err
		}
		concat.addChild(atom)
	}
}

// parseAtom builds the node for the current token and moves past it.
func (p *parser) parseAtom() (*RegexNode, error) {
	tok := p.tok
	var n *RegexNode

	switch tok.Type {
	case TokRaw:
		n = newRegexNodeCh(NtOne, p.options, tok.Ch)
	case TokAnyChar:
		n = newRegexNode(NtAny, p.options)
	case TokCharType:
		n = newRegexNodeSet(NtSet, p.options, tok.Set)
	case TokCCOpen:
		set, err := p.parseClass(tok)
		if err != nil {
			return nil, err
		}
		n = newRegexNodeSet(NtSet, p.options, set)
	case TokAnchor:
		n = newRegexNode(tok.Anchor, p.options)
	case TokBackref:
		idx := tok.Backref
		if tok.Name != "" {
			i, ok := p.capnames[tok.Name]
			if !ok {
				return nil, p.errorf(ErrUnknownGroupName, tok.Pos, tok.Name)
			}
			idx = i
		}
		n = newRegexNodeM(NtRef, p.options, idx)
	case TokSubexpOpen:
		return p.parseGroup()
	default:
		return nil, p.errorf(ErrInternalError, tok.Pos)
	}

	if err := p.advance(); err != nil {
		return nil, err
	}
	return n, nil
}

// parseQuantifier applies a trailing quantifier to atom. A second
// quantifier right after the first is rejected.
func (p *parser) parseQuantifier(atom *RegexNode) (*RegexNode, error) {
	if p.tok.Type != TokRepeat {
		return atom, nil
	}
	q := p.tok
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.Type == TokRepeat {
		return nil, p.errorf(ErrInvalidRepeatOp, p.tok.Pos, string(p.tok.Ch))
	}

	t := NtLoop
	if q.Possessive {
		t = NtPossessiveloop
	} else if !q.Greedy {
		t = NtLazyloop
	}
	return atom.makeQuantifier(t, q.Lower, q.Upper), nil
}

func (p *parser) parseGroup() (*RegexNode, error) {
	open := p.tok
	saved := p.options
	var n *RegexNode

	switch open.Group {
	case GroupCapture, GroupNamed:
		if p.captop > MaxGroups {
			return nil, p.errorf(ErrTooManyGroups, open.Pos)
		}
		idx := p.captop
		name := ""
		if open.Group == GroupNamed {
			if _, dup := p.capnames[open.Name]; dup {
				return nil, p.errorf(ErrDuplicateGroupName, open.Pos, open.Name)
			}
			if p.capnames == nil {
				p.capnames = make(map[string]int)
			}
			p.capnames[open.Name] = idx
			name = open.Name
		}
		p.caplist = append(p.caplist, name)
		p.captop++
		p.lex.CapCount = idx
		n = newRegexNodeM(NtCapture, p.options, idx)
	case GroupNonCapture:
		n = newRegexNode(NtGroup, p.options)
	case GroupOptions:
		p.setOptions((p.options | open.OnOpts) &^ open.OffOpts)
		n = newRegexNode(NtGroup, p.options)
	case GroupAtomic:
		n = newRegexNode(NtAtomic, p.options)
	case GroupLookahead:
		n = newRegexNode(NtPosLook, p.options)
	case GroupNegLookahead:
		n = newRegexNode(NtNegLook, p.options)
	case GroupLookbehind:
		n = newRegexNode(NtPosLookbehind, p.options)
	case GroupNegLookbehind:
		n = newRegexNode(NtNegLookbehind, p.options)
	}

	p.depth++
	if err := p.advance(); err != nil {
		return nil, err
	}
	body, err := p.parseRegexp()
	if err != nil {
		return nil, err
	}
	if p.tok.Type != TokSubexpClose {
		return nil, p.errorf(ErrMissingParen, p.tok.Pos)
	}
	p.depth--
	p.setOptions(saved)
	n.addChild(body)

	if (n.T == NtPosLookbehind || n.T == NtNegLookbehind) && n.Children[0].computeMaxLength() < 0 {
		return nil, p.errorf(ErrLookbehindUnbounded, open.Pos)
	}

	if err := p.advance(); err != nil {
		return nil, err
	}
	return n, nil
}

// parseClass reads a bracket expression after its opening token. Ranges
// and literals fold under IgnoreCase before the class is negated; && binds
// looser than union.
func (p *parser) parseClass(open Token) (*CharSet, error) {
	var acc *CharSet
	cur := &CharSet{}
	ci := p.options&IgnoreCase != 0
	uc := p.options&UnicodeCase != 0

	add := func(lo, hi rune) {
		if !ci {
			cur.AddRange(lo, hi)
			return
		}
		t := &CharSet{}
		t.AddRange(lo, hi)
		t.addCaseEquivalences(uc)
		cur.Union(t)
	}

	for first := true; ; first = false {
		tok, err := p.lex.NextInClass(first)
		if err != nil {
			return nil, err
		}

		switch tok.Type {
		case TokCCClose:
			if acc != nil {
				acc.Intersect(cur)
				cur = acc
			}
			if open.Negated {
				cur.Negate()
			}
			return cur, nil
		case TokCCAnd:
			if acc == nil {
				acc = cur
			} else {
				acc.Intersect(cur)
			}
			cur = &CharSet{}
		case TokCCOpen:
			nested, err := p.parseClass(tok)
			if err != nil {
				return nil, err
			}
			cur.Union(nested)
		case TokCharType:
			cur.Union(tok.Set)
		case TokCCRange:
			add('-', '-')
		case TokRaw:
			lo := tok.Ch
			m := p.lex.mark()
			dash, err := p.lex.NextInClass(false)
			if err != nil {
				return nil, err
			}
			if dash.Type != TokCCRange {
				p.lex.restore(m)
				add(lo, lo)
				continue
			}
			m = p.lex.mark()
			end, err := p.lex.NextInClass(false)
			if err != nil {
				return nil, err
			}
			switch end.Type {
			case TokRaw, TokCCRange:
				hi := end.Ch
				if hi < lo {
					return nil, p.errorf(ErrReversedCharRange, tok.Pos)
				}
				add(lo, hi)
			case TokCharType:
				return nil, p.errorf(ErrBadClassInCharRange, end.Pos, string(end.Ch))
			default:
				// a trailing '-' is literal
				p.lex.restore(m)
				add(lo, lo)
				add('-', '-')
			}
		}
	}
}
