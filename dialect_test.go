package jregex

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/btre/jregex/syntax"
)

func TestSyntaxDialects(t *testing.T) {
	tests := map[string]struct {
		syn     *syntax.Syntax
		expr    string
		data    string
		want    []string
		wantErr bool
	}{
		"java-low-abbrev": {
			syn:     syntax.SyntaxJava,
			expr:    `x{,2}`,
			wantErr: true,
		},
		"perl-low-abbrev": {
			syn:  syntax.SyntaxPerl,
			expr: `x{,2}y`,
			data: "xxxy",
			want: []string{"xxy"},
		},
		"java-bad-interval": {
			syn:     syntax.SyntaxJava,
			expr:    `a{x}`,
			wantErr: true,
		},
		"perl-bad-interval": {
			syn:  syntax.SyntaxPerl,
			expr: `a{x}`,
			data: "aa{x}",
			want: []string{"a{x}"},
		},
		"perl-unterminated-huge-interval": {
			syn:  syntax.SyntaxPerl,
			expr: `x{9999999`,
			data: "xx{9999999",
			want: []string{"x{9999999"},
		},
		"extended-unterminated-huge-interval": {
			syn:  syntax.SyntaxExtended,
			expr: `x{1,9999999`,
			data: "x{1,9999999}",
			want: []string{"x{1,9999999"},
		},
		"java-comment": {
			syn:     syntax.SyntaxJava,
			expr:    `a(?#note)b`,
			wantErr: true,
		},
		"perl-comment": {
			syn:  syntax.SyntaxPerl,
			expr: `a(?#note)b`,
			data: "xab",
			want: []string{"ab"},
		},
		"extended-alternation": {
			syn:  syntax.SyntaxExtended,
			expr: `(ab|c)+`,
			data: "abcab x c",
			want: []string{"abcab", "c"},
		},
		"extended-ineffective-escape": {
			syn:  syntax.SyntaxExtended,
			expr: `\d+`,
			data: "d1dd",
			want: []string{"d", "dd"},
		},
		"extended-unmatched-close": {
			syn:  syntax.SyntaxExtended,
			expr: `a)`,
			data: "a)",
			want: []string{"a)"},
		},
		"java-unmatched-close": {
			syn:     syntax.SyntaxJava,
			expr:    `a)`,
			wantErr: true,
		},
		"basic-escaped-groups": {
			syn:  syntax.SyntaxBasic,
			expr: `\(ab\)*c`,
			data: "ababc",
			want: []string{"ababc"},
		},
		"basic-escaped-interval": {
			syn:  syntax.SyntaxBasic,
			expr: `a\{2\}`,
			data: "aaaaa",
			want: []string{"aa", "aa"},
		},
		"basic-escaped-alternation": {
			syn:  syntax.SyntaxBasic,
			expr: `a\|b`,
			data: "cab",
			want: []string{"a", "b"},
		},
		"basic-literal-plus": {
			syn:  syntax.SyntaxBasic,
			expr: `a+`,
			data: "aa a+",
			want: []string{"a+"},
		},
		"basic-literal-parens": {
			syn:  syntax.SyntaxBasic,
			expr: `(a)`,
			data: "a (a)",
			want: []string{"(a)"},
		},
		"basic-leading-star": {
			syn:  syntax.SyntaxBasic,
			expr: `*a`,
			data: "a*a",
			want: []string{"*a"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			re, err := CompileSyntax(tt.expr, 0, tt.syn)
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, re)
				return
			}
			require.NoError(t, err)
			got, err := re.FindAllString(tt.data, -1)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestInlineOptions(t *testing.T) {
	tests := []struct {
		expr string
		data string
		want []string
	}{
		{`(?x) a b # trailing comment`, "ab a b", []string{"ab"}},
		{`(?x)a\ b`, "ab a b", []string{"a b"}},
		{`(?i)ab(?-i)c`, "ABc ABC", []string{"ABc"}},
		{`a(?i:b)c`, "aBc abC", []string{"aBc"}},
		{`(?s).+`, "a\nb", []string{"a\nb"}},
		{`.+`, "a\nb", []string{"a", "b"}},
		{`(?m)^b$`, "a\nb\nc", []string{"b"}},
		{`(?d)a.`, "a\ra\n", []string{"a\r"}},
		{`(?U)\w+`, "été x", []string{"été", "x"}},
		{`\w+`, "été x", []string{"t", "x"}},
	}
	for _, tt := range tests {
		got, err := MustCompile(tt.expr, 0).FindAllString(tt.data, -1)
		require.NoError(t, err, tt.expr)
		require.Equal(t, tt.want, got, tt.expr)
	}
}

func TestOptionsString(t *testing.T) {
	re := MustCompile(`a`, IgnoreCase|Multiline)
	require.Equal(t, IgnoreCase|Multiline, re.Options())
	require.Equal(t, "a", re.String())
	require.Equal(t, syntax.SyntaxJava, re.Syntax())
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		expr string
		code syntax.ErrorCode
	}{
		{`(a`, syntax.ErrMissingParen},
		{`[a`, syntax.ErrMissingBracket},
		{`a{3,1}`, syntax.ErrRepeatRangeReversed},
		{`[z-a]`, syntax.ErrReversedCharRange},
		{`\q`, syntax.ErrUnrecognizedEscape},
		{`\p{Nope}`, syntax.ErrUnknownSlashP},
		{`(?<a>x)(?<a>y)`, syntax.ErrDuplicateGroupName},
		{`\k<b>`, syntax.ErrUnknownGroupName},
		{`(?<=a+)b`, syntax.ErrLookbehindUnbounded},
		{`a\`, syntax.ErrIllegalEndEscape},
	}
	for _, tt := range tests {
		_, err := Compile(tt.expr, 0)
		var serr *syntax.Error
		require.True(t, errors.As(err, &serr), "%s: %v", tt.expr, err)
		require.Equal(t, tt.code, serr.Code, tt.expr)
	}
}
