package syntax

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, p string, syn *Syntax) []Token {
	t.Helper()
	l := NewLexer(p, 0, syn)
	var toks []Token
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		if tok.Type == TokEOT {
			return toks
		}
		toks = append(toks, tok)
	}
}

func tokenTypes(toks []Token) []TokenType {
	types := make([]TokenType, len(toks))
	for i, tok := range toks {
		types[i] = tok.Type
	}
	return types
}

func TestLexerTokens(t *testing.T) {
	scenarios := []struct {
		p     string
		syn   *Syntax
		types []TokenType
	}{
		{`a.b`, nil, []TokenType{TokRaw, TokAnyChar, TokRaw}},
		{`(a|b)*`, nil, []TokenType{TokSubexpOpen, TokRaw, TokAlt, TokRaw, TokSubexpClose, TokRepeat}},
		{`^\d+$`, nil, []TokenType{TokAnchor, TokCharType, TokRepeat, TokAnchor}},
		{`\bx\B`, nil, []TokenType{TokAnchor, TokRaw, TokAnchor}},
		{`(?i)a`, nil, []TokenType{TokOptions, TokRaw}},
		{`(a)\1`, nil, []TokenType{TokSubexpOpen, TokRaw, TokSubexpClose, TokBackref}},
		{`[`, nil, []TokenType{TokCCOpen}},
		{`\(a\)`, SyntaxBasic, []TokenType{TokSubexpOpen, TokRaw, TokSubexpClose}},
		{`(a)`, SyntaxBasic, []TokenType{TokRaw, TokRaw, TokRaw}},
		{`a{2}`, SyntaxBasic, []TokenType{TokRaw, TokRaw, TokRaw, TokRaw}},
	}

	for _, s := range scenarios {
		toks := lexAll(t, s.p, s.syn)
		require.Equal(t, s.types, tokenTypes(toks), "pattern %v", s.p)
	}
}

func TestLexerQuantifiers(t *testing.T) {
	scenarios := []struct {
		p                  string
		lower, upper       int
		greedy, possessive bool
	}{
		{`a*`, 0, -1, true, false},
		{`a+?`, 1, -1, false, false},
		{`a?+`, 0, 1, true, true},
		{`a{3}`, 3, 3, true, false},
		{`a{3,}`, 3, -1, true, false},
		{`a{3,5}?`, 3, 5, false, false},
		{`a{0,2}+`, 0, 2, true, true},
	}
	for _, s := range scenarios {
		toks := lexAll(t, s.p, nil)
		require.Len(t, toks, 2, s.p)
		q := toks[1]
		require.Equal(t, TokRepeat, q.Type, s.p)
		require.Equal(t, s.lower, q.Lower, s.p)
		require.Equal(t, s.upper, q.Upper, s.p)
		require.Equal(t, s.greedy, q.Greedy, s.p)
		require.Equal(t, s.possessive, q.Possessive, s.p)
	}
}

func TestLexerEscapes(t *testing.T) {
	scenarios := []struct {
		p  string
		ch rune
	}{
		{`\t`, '\t'},
		{`\x41`, 'A'},
		{`\x{1F600}`, 0x1F600},
		{"\u00e9", 0xE9},
		{`\0101`, 'A'},
		{`\0377`, 0xFF},
		{`\0477`, 047},
		{`\cA`, 1},
		{`\e`, 0x1B},
		{`\.`, '.'},
		{`\\`, '\\'},
	}
	for _, s := range scenarios {
		toks := lexAll(t, s.p, nil)
		require.NotEmpty(t, toks, s.p)
		require.Equal(t, TokRaw, toks[0].Type, s.p)
		require.Equal(t, s.ch, toks[0].Ch, s.p)
	}
}

func TestLexerQuote(t *testing.T) {
	toks := lexAll(t, `\Q(a*)\E*`, nil)
	require.Len(t, toks, 5)
	for i, want := range "(a*)" {
		require.Equal(t, TokRaw, toks[i].Type)
		require.Equal(t, want, toks[i].Ch)
	}
	require.Equal(t, TokRepeat, toks[4].Type)

	// an unterminated quote runs to the end
	toks = lexAll(t, `\Qab`, nil)
	require.Len(t, toks, 2)
}

func TestLexerClassTokens(t *testing.T) {
	l := NewLexer(`]a-\d&&[x]`, 0, SyntaxJava)
	var types []TokenType
	for first := true; l.Pos() < len(`]a-\d&&[x]`); first = false {
		tok, err := l.NextInClass(first)
		require.NoError(t, err)
		types = append(types, tok.Type)
	}
	want := []TokenType{TokRaw, TokRaw, TokCCRange, TokCharType, TokCCAnd, TokCCOpen, TokRaw, TokCCClose}
	require.Equal(t, want, types)
}

func TestLexerMarkRestore(t *testing.T) {
	l := NewLexer(`ab`, 0, nil)
	m := l.mark()
	tok, err := l.Next()
	require.NoError(t, err)
	require.Equal(t, 'a', tok.Ch)
	l.restore(m)
	tok, err = l.Next()
	require.NoError(t, err)
	require.Equal(t, 'a', tok.Ch)
	require.Equal(t, 1, l.Pos())
}

func TestTokenTypeString(t *testing.T) {
	require.Equal(t, "Backref", TokBackref.String())
	require.Equal(t, "Unknown", TokenType(99).String())
}
