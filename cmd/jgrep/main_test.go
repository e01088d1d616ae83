package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func runJgrep(t *testing.T, input string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(input), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestJgrepSelectsLines(t *testing.T) {
	code, out, _ := runJgrep(t, "apple\nbanana\ncherry\n", "an+")
	require.Equal(t, 0, code)
	require.Equal(t, "banana\n", out)
}

func TestJgrepNoMatch(t *testing.T) {
	code, out, _ := runJgrep(t, "apple\n", "z")
	require.Equal(t, 1, code)
	require.Empty(t, out)
}

func TestJgrepBadPattern(t *testing.T) {
	code, _, errOut := runJgrep(t, "apple\n", "a{2,1}")
	require.Equal(t, 2, code)
	require.Contains(t, errOut, "error parsing regexp")
}

func TestJgrepFlags(t *testing.T) {
	input := "Foo bar\nbaz\nfoo foo\n"
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"ignore case", []string{"-i", "foo"}, "Foo bar\nfoo foo\n"},
		{"invert", []string{"-v", "foo"}, "Foo bar\nbaz\n"},
		{"line numbers", []string{"-n", "ba"}, "1:Foo bar\n2:baz\n"},
		{"only matching", []string{"-o", "fo+"}, "foo\nfoo\n"},
		{"count", []string{"-c", "(?i)foo"}, "2\n"},
		{"whole line", []string{"-x", "ba."}, "baz\n"},
		{"replace", []string{"-replace", "<$1>", "(o+)"}, "F<oo> bar\nf<oo> f<oo>\n"},
		{"lookbehind", []string{"-o", "(?<=foo )foo"}, "foo\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, _ := runJgrep(t, input, tt.args...)
			require.Equal(t, 0, code)
			require.Equal(t, tt.want, out)
		})
	}
}

func TestJgrepSyntax(t *testing.T) {
	code, out, _ := runJgrep(t, "a+b\naab\n", "-syntax", "basic", "a+b")
	require.Equal(t, 0, code)
	require.Equal(t, "a+b\n", out)

	code, _, _ = runJgrep(t, "x\n", "-syntax", "nope", "x")
	require.Equal(t, 2, code)
}

func TestJgrepFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("one\ntwo\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.txt"), []byte("three\ntwo two\n"), 0o644))

	code, out, _ := runJgrep(t, "", "tw", filepath.Join(dir, "a.txt"))
	require.Equal(t, 0, code)
	require.Equal(t, "two\n", out)

	code, out, _ = runJgrep(t, "", "-r", "two", dir)
	require.Equal(t, 0, code)
	require.Equal(t,
		filepath.Join(dir, "a.txt")+":two\n"+filepath.Join(dir, "sub", "b.txt")+":two two\n",
		out)

	code, _, errOut := runJgrep(t, "", "two", dir)
	require.Equal(t, 2, code)
	require.Contains(t, errOut, "is a directory")
}
