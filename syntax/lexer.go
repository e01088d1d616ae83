package syntax

import (
	"strings"
)

// MaxRepeat is the largest bound accepted in an interval quantifier.
const MaxRepeat = 100000

type TokenType int

const (
	TokEOT         TokenType = iota // end of pattern
	TokRaw                          // literal code point in Ch
	TokAnyChar                      // .
	TokRepeat                       // * + ? {m,n}
	TokAlt                          // |
	TokSubexpOpen                   // ( and (?...
	TokSubexpClose                  // )
	TokOptions                      // (?imsx-imsx)
	TokCCOpen                       // [ or [^
	TokCCClose                      // ]
	TokCCRange                      // - inside a class
	TokCCAnd                        // && inside a class
	TokCharType                     // \d \w \s \h \v \p{..} [:name:]
	TokAnchor                       // ^ $ \b \B \A \G \Z \z
	TokBackref                      // \N \k<name>
)

var tokenNames = []string{
	"EOT", "Raw", "AnyChar", "Repeat", "Alt", "SubexpOpen", "SubexpClose",
	"Options", "CCOpen", "CCClose", "CCRange", "CCAnd", "CharType", "Anchor",
	"Backref",
}

func (t TokenType) String() string {
	if int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return "Unknown"
}

type GroupKind int

const (
	GroupCapture GroupKind = iota
	GroupNamed
	GroupNonCapture
	GroupAtomic
	GroupLookahead
	GroupNegLookahead
	GroupLookbehind
	GroupNegLookbehind
	GroupOptions // (?flags:...)
)

// Token is one lexical item. Only the fields relevant to Type are set.
type Token struct {
	Type    TokenType
	Pos     int
	Ch      rune
	Escaped bool

	// TokRepeat
	Lower, Upper int // Upper is -1 when unbounded
	Greedy       bool
	Possessive   bool
	Interval     bool

	// TokAnchor
	Anchor NodeType

	// TokBackref and named groups
	Backref int
	Name    string

	// TokCharType, TokCCOpen
	Class   ClassKind
	Set     *CharSet
	Negated bool

	// TokSubexpOpen, TokOptions
	Group   GroupKind
	OnOpts  RegexOptions
	OffOpts RegexOptions
}

// Lexer turns a pattern into tokens under a Syntax. The parser keeps
// Options and CapCount current since both change how later text is read.
type Lexer struct {
	cur     ScanCursor
	pattern string
	syn     *Syntax

	Options RegexOptions
	// CapCount is the number of capturing groups opened so far; \N
	// extends its digits only while the number names one of them.
	CapCount int

	inQuote bool
}

type lexMark struct {
	pos     int
	inQuote bool
}

func NewLexer(pattern string, opts RegexOptions, syn *Syntax) *Lexer {
	if syn == nil {
		syn = SyntaxJava
	}
	return &Lexer{
		cur:     newScanCursor([]rune(pattern)),
		pattern: pattern,
		syn:     syn,
		Options: opts,
	}
}

func (l *Lexer) mark() lexMark {
	return lexMark{pos: l.cur.Mark(), inQuote: l.inQuote}
}

func (l *Lexer) restore(m lexMark) {
	l.cur.Restore(m.pos)
	l.inQuote = m.inQuote
}

// Pos is the offset of the next unread code point.
func (l *Lexer) Pos() int {
	return l.cur.Pos()
}

func (l *Lexer) errorf(code ErrorCode, pos int, args ...interface{}) error {
	return &Error{Code: code, Expr: l.pattern, Pos: pos, Args: args}
}

func (l *Lexer) unsupported(what string, pos int) error {
	return l.errorf(ErrUnsupportedSyntax, pos, what, l.syn.Name)
}

// Next returns the next token outside a bracket expression.
func (l *Lexer) Next() (Token, error) {
	for {
		if l.inQuote {
			if l.cur.hasPrefix(`\E`) {
				l.cur.skip(2)
				l.inQuote = false
				continue
			}
			if !l.cur.more() {
				l.inQuote = false
				continue
			}
			pos := l.cur.Pos()
			return Token{Type: TokRaw, Pos: pos, Ch: l.cur.next(), Escaped: true}, nil
		}
		if l.Options&IgnorePatternWhitespace != 0 {
			l.skipWhitespace()
		}
		pos := l.cur.Pos()
		if !l.cur.more() {
			return Token{Type: TokEOT, Pos: pos}, nil
		}
		ch := l.cur.next()
		tok := Token{Type: TokRaw, Pos: pos, Ch: ch}
		ops := !l.syn.EscapedGroupOps

		switch ch {
		case '\\':
			t, skip, err := l.escape(tok, false)
			if err != nil || !skip {
				return t, err
			}
			continue
		case '.':
			tok.Type = TokAnyChar
		case '|':
			if ops {
				tok.Type = TokAlt
			}
		case '(':
			if ops {
				t, skip, err := l.groupOpen(tok)
				if err != nil || !skip {
					return t, err
				}
				continue
			}
		case ')':
			if ops {
				tok.Type = TokSubexpClose
			}
		case '*':
			return l.quantifier(tok, 0, -1), nil
		case '+':
			if ops {
				return l.quantifier(tok, 1, -1), nil
			}
		case '?':
			if ops {
				return l.quantifier(tok, 0, 1), nil
			}
		case '{':
			if ops {
				return l.interval(tok, false)
			}
		case '[':
			tok.Type = TokCCOpen
			tok.Negated = l.cur.accept('^')
		case '^':
			tok.Type = TokAnchor
			tok.Anchor = NtBol
		case '$':
			tok.Type = TokAnchor
			tok.Anchor = NtEol
		}
		return tok, nil
	}
}

// NextInClass returns the next token inside a bracket expression. first is
// set for the position right after [ or [^, where ] is a literal.
func (l *Lexer) NextInClass(first bool) (Token, error) {
	for {
		if l.inQuote {
			if l.cur.hasPrefix(`\E`) {
				l.cur.skip(2)
				l.inQuote = false
				continue
			}
			if l.cur.more() {
				pos := l.cur.Pos()
				return Token{Type: TokRaw, Pos: pos, Ch: l.cur.next(), Escaped: true}, nil
			}
			l.inQuote = false
		}
		if l.Options&IgnorePatternWhitespace != 0 {
			l.skipWhitespace()
		}
		pos := l.cur.Pos()
		if !l.cur.more() {
			return Token{}, l.errorf(ErrMissingBracket, pos)
		}
		ch := l.cur.next()
		tok := Token{Type: TokRaw, Pos: pos, Ch: ch}

		switch ch {
		case ']':
			if !first {
				tok.Type = TokCCClose
			}
		case '[':
			if l.syn.AllowNestedClass {
				tok.Type = TokCCOpen
				tok.Negated = l.cur.accept('^')
			} else if l.cur.peek() == ':' {
				return l.posixBracket(tok)
			}
		case '-':
			tok.Type = TokCCRange
		case '&':
			if l.syn.AllowClassIntersection && l.cur.accept('&') {
				tok.Type = TokCCAnd
			}
		case '\\':
			t, skip, err := l.escape(tok, true)
			if err != nil || !skip {
				return t, err
			}
			continue
		}
		return tok, nil
	}
}

// skipWhitespace drops blanks and #-comments in x mode.
func (l *Lexer) skipWhitespace() {
	for l.cur.more() {
		ch := l.cur.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\v' || ch == '\f' || ch == '\r':
			l.cur.skip(1)
		case ch == '#':
			for l.cur.more() && !l.isLineEnd(l.cur.peek()) {
				l.cur.skip(1)
			}
		default:
			return
		}
	}
}

func (l *Lexer) isLineEnd(ch rune) bool {
	if l.Options&UnixLines != 0 {
		return ch == '\n'
	}
	return IsLineTerminator(ch)
}

// quantifier fills in a repeat token and consumes a possessive or lazy
// suffix. A possessive '+' is looked for first.
func (l *Lexer) quantifier(tok Token, lo, hi int) Token {
	tok.Type = TokRepeat
	tok.Lower, tok.Upper = lo, hi
	tok.Greedy = true
	if l.syn.AllowPossessive && l.cur.accept('+') {
		tok.Possessive = true
	} else if l.syn.AllowLazy && l.cur.accept('?') {
		tok.Greedy = false
	}
	return tok
}

// interval reads {n}, {n,}, {n,m} and, if the syntax allows, {,m}. The
// opening brace has been consumed. When the text does not form an interval
// the syntax decides between a literal '{' and an error.
func (l *Lexer) interval(tok Token, escapedClose bool) (Token, error) {
	start := l.mark()
	bigPos := l.cur.Pos()
	lo, okLo, big := l.number()
	hi := lo
	valid := okLo
	if l.cur.accept(',') {
		hiPos := l.cur.Pos()
		h, okHi, bigHi := l.number()
		if bigHi && !big {
			bigPos = hiPos
		}
		big = big || bigHi
		if okHi {
			hi = h
		} else {
			hi = -1
		}
		if !okLo && okHi && l.syn.AllowIntervalLowAbbrev {
			lo, valid = 0, true
		}
	}
	if big && !l.syn.AllowInvalidInterval {
		return tok, l.errorf(ErrInvalidRepeatSize, bigPos)
	}
	if valid {
		if escapedClose {
			valid = l.cur.hasPrefix(`\}`)
			if valid {
				l.cur.skip(2)
			}
		} else {
			valid = l.cur.accept('}')
		}
	}
	if !valid {
		if l.syn.AllowInvalidInterval {
			l.restore(start)
			tok.Type = TokRaw
			tok.Ch = '{'
			return tok, nil
		}
		return tok, l.errorf(ErrIllegalRepetition, tok.Pos)
	}
	// a well formed interval with a bound that is too large
	if big {
		return tok, l.errorf(ErrInvalidRepeatSize, bigPos)
	}
	if hi >= 0 && lo > hi {
		return tok, l.errorf(ErrRepeatRangeReversed, tok.Pos, lo, hi)
	}
	tok = l.quantifier(tok, lo, hi)
	tok.Interval = true
	return tok, nil
}

// number reads a decimal repeat bound. A value above MaxRepeat is reported
// as big and the rest of its digits are skipped.
func (l *Lexer) number() (n int, ok, big bool) {
	for {
		ch := l.cur.peek()
		if ch < '0' || ch > '9' {
			return n, ok, big
		}
		l.cur.skip(1)
		ok = true
		if big {
			continue
		}
		n = n*10 + int(ch-'0')
		if n > MaxRepeat {
			n, big = 0, true
		}
	}
}

// groupOpen reads what follows '('. Comments report skip.
func (l *Lexer) groupOpen(tok Token) (Token, bool, error) {
	tok.Type = TokSubexpOpen
	tok.Group = GroupCapture
	syn := l.syn
	ext := syn.AllowLookaround || syn.AllowNamedGroups || syn.AllowAtomicGroups ||
		syn.AllowInlineOptions || syn.AllowComments
	if !ext || !l.cur.accept('?') {
		return tok, false, nil
	}
	pos := l.cur.Pos()
	ch := l.cur.next()
	switch ch {
	case ':':
		tok.Group = GroupNonCapture
	case '=', '!':
		if !syn.AllowLookaround {
			return tok, false, l.unsupported("lookahead", pos)
		}
		tok.Group = GroupLookahead
		if ch == '!' {
			tok.Group = GroupNegLookahead
		}
	case '>':
		if !syn.AllowAtomicGroups {
			return tok, false, l.unsupported("atomic group", pos)
		}
		tok.Group = GroupAtomic
	case '#':
		if !syn.AllowComments {
			return tok, false, l.unsupported("comment group", pos)
		}
		for {
			c := l.cur.next()
			if c == -1 {
				return tok, false, l.errorf(ErrUnterminatedComment, pos)
			}
			if c == ')' {
				return tok, true, nil
			}
		}
	case '<':
		if c := l.cur.peek(); c == '=' || c == '!' {
			if !syn.AllowLookaround {
				return tok, false, l.unsupported("lookbehind", pos)
			}
			l.cur.skip(1)
			tok.Group = GroupLookbehind
			if c == '!' {
				tok.Group = GroupNegLookbehind
			}
			return tok, false, nil
		}
		if !syn.AllowNamedGroups {
			return tok, false, l.unsupported("named group", pos)
		}
		name, ok := l.groupName('>')
		if !ok {
			return tok, false, l.errorf(ErrInvalidGroupName, pos)
		}
		tok.Group = GroupNamed
		tok.Name = name
	default:
		if !syn.AllowInlineOptions {
			return tok, false, l.errorf(ErrUnrecognizedGrouping, pos, string(ch))
		}
		l.cur.Restore(pos)
		return l.inlineOptions(tok)
	}
	return tok, false, nil
}

// inlineOptions reads the letters of (?imsx-imsx) or (?imsx-imsx:
func (l *Lexer) inlineOptions(tok Token) (Token, bool, error) {
	off := false
	for {
		pos := l.cur.Pos()
		ch := l.cur.next()
		switch {
		case ch == -1:
			return tok, false, l.errorf(ErrMissingParen, pos)
		case ch == '-' && !off:
			off = true
		case ch == ')':
			tok.Type = TokOptions
			return tok, false, nil
		case ch == ':':
			tok.Group = GroupOptions
			return tok, false, nil
		case OptionFromLetter(ch) != 0:
			if off {
				tok.OffOpts |= OptionFromLetter(ch)
			} else {
				tok.OnOpts |= OptionFromLetter(ch)
			}
		case isASCIILetter(ch):
			return tok, false, l.errorf(ErrUnknownGroupOption, pos, string(ch))
		default:
			return tok, false, l.errorf(ErrUnrecognizedGrouping, pos, string(ch))
		}
	}
}

// groupName reads an ASCII letter followed by letters and digits, then
// the terminator.
func (l *Lexer) groupName(term rune) (string, bool) {
	var b strings.Builder
	for {
		ch := l.cur.next()
		switch {
		case ch == term:
			return b.String(), b.Len() > 0
		case isASCIILetter(ch), b.Len() > 0 && isASCIIDigit(ch):
			b.WriteRune(ch)
		default:
			return "", false
		}
	}
}

// posixBracket reads [:name:] inside a bracket expression. If the text is
// not a bracket class the '[' is returned as a literal.
func (l *Lexer) posixBracket(tok Token) (Token, error) {
	start := l.mark()
	l.cur.skip(1)
	var b strings.Builder
	for l.cur.more() && !l.cur.hasPrefix(":]") {
		b.WriteRune(l.cur.next())
	}
	if !l.cur.hasPrefix(":]") {
		l.restore(start)
		return tok, nil
	}
	l.cur.skip(2)
	name := b.String()
	set, ok := posixBracketClass(name, l.Options&UnicodeClass != 0)
	if !ok {
		return tok, l.errorf(ErrUnknownSlashP, tok.Pos, name)
	}
	tok.Type = TokCharType
	tok.Class = ClassProperty
	tok.Name = name
	tok.Set = set
	return tok, nil
}

// escape reads the code points after a backslash. Named escapes win over
// hex and unicode escapes, then octal, then back-references, then control
// characters, then the literal fallback. Entering \Q reports skip.
func (l *Lexer) escape(tok Token, inClass bool) (Token, bool, error) {
	pos := tok.Pos
	if !l.cur.more() {
		return tok, false, l.errorf(ErrIllegalEndEscape, pos)
	}
	ch := l.cur.next()
	tok.Ch = ch
	tok.Escaped = true
	syn := l.syn
	perl := syn.AllowPerlEscapes

	if syn.EscapedGroupOps && !inClass {
		switch ch {
		case '(':
			return l.groupOpen(tok)
		case ')':
			tok.Type = TokSubexpClose
			return tok, false, nil
		case '|':
			tok.Type = TokAlt
			return tok, false, nil
		case '{':
			t, err := l.interval(tok, true)
			return t, false, err
		case '+':
			return l.quantifier(tok, 1, -1), false, nil
		case '?':
			return l.quantifier(tok, 0, 1), false, nil
		}
	}

	unicodeClass := l.Options&UnicodeClass != 0
	switch {
	case ch == 'w' || ch == 'W':
		return l.classToken(tok, ClassWord, WordClass(unicodeClass), ch == 'W'), false, nil
	case ch == 's' || ch == 'S':
		return l.classToken(tok, ClassSpace, SpaceClass(unicodeClass), ch == 'S'), false, nil
	case perl && (ch == 'd' || ch == 'D'):
		return l.classToken(tok, ClassDigit, DigitClass(unicodeClass), ch == 'D'), false, nil
	case perl && (ch == 'h' || ch == 'H'):
		return l.classToken(tok, ClassHSpace, HSpaceClass(), ch == 'H'), false, nil
	case perl && (ch == 'v' || ch == 'V'):
		return l.classToken(tok, ClassVSpace, VSpaceClass(), ch == 'V'), false, nil
	case perl && (ch == 'p' || ch == 'P'):
		t, err := l.property(tok, ch == 'P')
		return t, false, err
	case !inClass && (ch == 'b' || ch == 'B'):
		tok.Type = TokAnchor
		tok.Anchor = NtBoundary
		if ch == 'B' {
			tok.Anchor = NtNonboundary
		}
		return tok, false, nil
	case perl && !inClass && (ch == 'A' || ch == 'G' || ch == 'Z' || ch == 'z'):
		tok.Type = TokAnchor
		tok.Anchor = map[rune]NodeType{'A': NtBeginning, 'G': NtStart, 'Z': NtEndZ, 'z': NtEnd}[ch]
		return tok, false, nil
	case syn.AllowNamedGroups && !inClass && ch == 'k':
		if !l.cur.accept('<') {
			return tok, false, l.errorf(ErrMalformedNameRef, pos)
		}
		name, ok := l.groupName('>')
		if !ok {
			return tok, false, l.errorf(ErrMalformedNameRef, pos)
		}
		tok.Type = TokBackref
		tok.Name = name
		return tok, false, nil
	case syn.AllowQuote && ch == 'Q':
		l.inQuote = true
		return tok, true, nil
	}

	switch {
	case perl && ch == 'x':
		r, err := l.hex(pos)
		tok.Ch = r
		return tok, false, err
	case perl && ch == 'u':
		r, err := l.hexDigits(pos, 4)
		tok.Ch = r
		return tok, false, err
	case perl && ch == '0':
		r, err := l.octal(pos)
		tok.Ch = r
		return tok, false, err
	case ch >= '1' && ch <= '9':
		if !inClass {
			return l.backref(tok), false, nil
		}
		if syn.OctalBackrefFallback && ch <= '7' {
			l.cur.Restore(l.cur.Pos() - 1)
			r, _ := l.octal(pos)
			tok.Ch = r
			return tok, false, nil
		}
	case perl && ch == 'c':
		if !l.cur.more() {
			return tok, false, l.errorf(ErrMissingControl, pos)
		}
		tok.Ch = l.cur.next() ^ 64
		return tok, false, nil
	case perl && strings.ContainsRune("tnrfae", ch):
		tok.Ch = map[rune]rune{'t': '\t', 'n': '\n', 'r': '\r', 'f': '\f', 'a': '\a', 'e': 0x1B}[ch]
		return tok, false, nil
	}

	if isASCIILetter(ch) || isASCIIDigit(ch) {
		if syn.IneffectiveEscape {
			return tok, false, nil
		}
		return tok, false, l.errorf(ErrUnrecognizedEscape, pos, string(ch))
	}
	return tok, false, nil
}

func (l *Lexer) classToken(tok Token, kind ClassKind, set *CharSet, negated bool) Token {
	tok.Type = TokCharType
	tok.Class = kind
	tok.Negated = negated
	if negated {
		set.Negate()
	}
	tok.Set = set
	return tok
}

// property reads \pL, \p{Name} and the \P forms.
func (l *Lexer) property(tok Token, negated bool) (Token, error) {
	pos := tok.Pos
	var name string
	if l.cur.accept('{') {
		var b strings.Builder
		for {
			ch := l.cur.next()
			if ch == -1 {
				return tok, l.errorf(ErrMalformedSlashP, pos)
			}
			if ch == '}' {
				break
			}
			b.WriteRune(ch)
		}
		name = b.String()
	} else if l.cur.more() {
		name = string(l.cur.next())
	}
	if name == "" {
		return tok, l.errorf(ErrMalformedSlashP, pos)
	}
	if strings.HasPrefix(name, "^") {
		name = name[1:]
		negated = !negated
	}
	set, ok := PropertyClass(name, l.Options&UnicodeClass != 0)
	if !ok {
		return tok, l.errorf(ErrUnknownSlashP, pos, name)
	}
	tok.Name = name
	return l.classToken(tok, ClassProperty, set, negated), nil
}

// hex reads \xHH or \x{H...}.
func (l *Lexer) hex(pos int) (rune, error) {
	if l.cur.accept('{') {
		var r rune
		n := 0
		for isHexDigit(l.cur.peek()) {
			r = r<<4 | hexValue(l.cur.next())
			n++
			if r > 0x10FFFF {
				return 0, l.errorf(ErrInvalidHex, pos)
			}
		}
		if n == 0 || !l.cur.accept('}') {
			return 0, l.errorf(ErrTooFewHex, pos)
		}
		return r, nil
	}
	return l.hexDigits(pos, 2)
}

func (l *Lexer) hexDigits(pos, n int) (rune, error) {
	var r rune
	for i := 0; i < n; i++ {
		ch := l.cur.peek()
		if !isHexDigit(ch) {
			return 0, l.errorf(ErrTooFewHex, pos)
		}
		l.cur.skip(1)
		r = r<<4 | hexValue(ch)
	}
	return r, nil
}

// octal reads one to three octal digits after \0; a three digit value must
// start with 0-3.
func (l *Lexer) octal(pos int) (rune, error) {
	n := l.cur.peek()
	if !isOctalDigit(n) {
		return 0, l.errorf(ErrBadOctal, pos)
	}
	l.cur.skip(1)
	m := l.cur.peek()
	if !isOctalDigit(m) {
		return n - '0', nil
	}
	l.cur.skip(1)
	o := l.cur.peek()
	if isOctalDigit(o) && n <= '3' {
		l.cur.skip(1)
		return (n-'0')*64 + (m-'0')*8 + (o - '0'), nil
	}
	return (n-'0')*8 + (m - '0'), nil
}

// backref reads the digits of \N. Further digits are taken only while the
// number still names a group opened so far.
func (l *Lexer) backref(tok Token) Token {
	start := l.cur.Pos()
	if l.syn.OctalBackrefFallback && isOctalDigit(tok.Ch) && isOctalDigit(l.cur.peek()) {
		// \NN is octal unless it names a group
		if int(tok.Ch-'0')*10+int(l.cur.peek()-'0') > l.CapCount {
			l.cur.Restore(start - 1)
			r, _ := l.octal(tok.Pos)
			tok.Ch = r
			return tok
		}
	}
	ref := int(tok.Ch - '0')
	for {
		ch := l.cur.peek()
		if !isASCIIDigit(ch) {
			break
		}
		next := ref*10 + int(ch-'0')
		if next > l.CapCount {
			break
		}
		ref = next
		l.cur.skip(1)
	}
	tok.Type = TokBackref
	tok.Backref = ref
	return tok
}

func isASCIILetter(ch rune) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isASCIIDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isOctalDigit(ch rune) bool {
	return '0' <= ch && ch <= '7'
}

func isHexDigit(ch rune) bool {
	return isASCIIDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func hexValue(ch rune) rune {
	switch {
	case ch <= '9':
		return ch - '0'
	case ch >= 'a':
		return ch - 'a' + 10
	default:
		return ch - 'A' + 10
	}
}
