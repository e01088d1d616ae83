// Command jgrep prints lines that match a pattern written in Java regular
// expression syntax.
//
// Usage: jgrep [flags] pattern [path ...]
//
// With no path it reads stdin. Exit status is 0 if a line was selected, 1
// if none was and 2 on error.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/btre/jregex"
	"github.com/btre/jregex/syntax"
)

type options struct {
	ignoreCase  bool
	onlyMatch   bool
	invert      bool
	lineNumbers bool
	count       bool
	wholeLine   bool
	recursive   bool
	dialect     string
	replace     string
	doReplace   bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	set := flag.NewFlagSet("jgrep", flag.ContinueOnError)
	set.SetOutput(stderr)
	opts := options{}
	set.BoolVar(&opts.ignoreCase, "i", false, "ignore case")
	set.BoolVar(&opts.onlyMatch, "o", false, "print only the matched parts")
	set.BoolVar(&opts.invert, "v", false, "select non-matching lines")
	set.BoolVar(&opts.lineNumbers, "n", false, "prefix lines with their line number")
	set.BoolVar(&opts.count, "c", false, "print only a count of selected lines")
	set.BoolVar(&opts.wholeLine, "x", false, "select only lines the pattern matches entirely")
	set.BoolVar(&opts.recursive, "r", false, "read directories recursively")
	set.StringVar(&opts.dialect, "syntax", "java", "pattern dialect: java, perl, extended or basic")
	set.Func("replace", "print each selected line with matches replaced by `template`", func(s string) error {
		opts.replace = s
		opts.doReplace = true
		return nil
	})
	set.Usage = func() {
		fmt.Fprintf(stderr, "usage: jgrep [flags] pattern [path ...]\n")
		set.PrintDefaults()
	}
	if err := set.Parse(args); err != nil {
		return 2
	}
	if set.NArg() < 1 {
		set.Usage()
		return 2
	}

	syn := syntax.SyntaxByName(opts.dialect)
	if syn == nil {
		fmt.Fprintf(stderr, "jgrep: unknown syntax %q\n", opts.dialect)
		return 2
	}
	var reOpts jregex.RegexOptions
	if opts.ignoreCase {
		reOpts |= jregex.IgnoreCase | jregex.UnicodeCase
	}
	re, err := jregex.CompileSyntax(set.Arg(0), reOpts, syn)
	if err != nil {
		fmt.Fprintf(stderr, "jgrep: %v\n", err)
		return 2
	}

	g := &grep{re: re, opts: opts, out: stdout}
	paths := set.Args()[1:]
	if len(paths) == 0 {
		if opts.recursive {
			paths = []string{"."}
		} else {
			if err := g.scan("", stdin); err != nil {
				fmt.Fprintf(stderr, "jgrep: %v\n", err)
				return 2
			}
			return g.status()
		}
	}

	g.prefix = len(paths) > 1 || opts.recursive
	failed := false
	for _, p := range paths {
		err := filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if !opts.recursive {
					return fmt.Errorf("%s: is a directory", path)
				}
				return nil
			}
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			return g.scan(path, f)
		})
		if err != nil {
			fmt.Fprintf(stderr, "jgrep: %v\n", err)
			failed = true
		}
	}
	if failed {
		return 2
	}
	return g.status()
}

type grep struct {
	re     *jregex.Regexp
	opts   options
	out    io.Writer
	prefix bool
	found  bool
}

func (g *grep) status() int {
	if g.found {
		return 0
	}
	return 1
}

func (g *grep) scan(name string, r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	m := g.re.Matcher("")
	count := 0
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := sc.Text()
		m.ResetInput(line)

		var ok bool
		var err error
		if g.opts.wholeLine {
			ok, err = m.Matches()
		} else {
			ok, err = m.Find()
		}
		if err != nil {
			return fmt.Errorf("%s:%d: %w", name, lineNo, err)
		}
		if ok == g.opts.invert {
			continue
		}
		g.found = true
		count++
		if g.opts.count {
			continue
		}
		if err := g.print(m, name, lineNo, line); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	if g.opts.count {
		if g.prefix {
			fmt.Fprintf(g.out, "%s:", name)
		}
		fmt.Fprintln(g.out, count)
	}
	return nil
}

func (g *grep) lead(name string, lineNo int) string {
	var b strings.Builder
	if g.prefix {
		b.WriteString(name)
		b.WriteByte(':')
	}
	if g.opts.lineNumbers {
		fmt.Fprintf(&b, "%d:", lineNo)
	}
	return b.String()
}

// print writes a selected line; m still holds the line's first match
// unless the selection was inverted.
func (g *grep) print(m *jregex.Matcher, name string, lineNo int, line string) error {
	lead := g.lead(name, lineNo)
	switch {
	case g.opts.invert:
		fmt.Fprintln(g.out, lead+line)
	case g.opts.doReplace:
		s, err := m.ReplaceAll(g.opts.replace)
		if err != nil {
			return err
		}
		fmt.Fprintln(g.out, lead+s)
	case g.opts.onlyMatch:
		for ok := true; ok; {
			s, err := m.Group()
			if err != nil {
				return err
			}
			if s != "" {
				fmt.Fprintln(g.out, lead+s)
			}
			var ferr error
			if ok, ferr = m.Find(); ferr != nil {
				return ferr
			}
		}
	default:
		fmt.Fprintln(g.out, lead+line)
	}
	return nil
}
