/*
Package jregex is a backtracking regular expression engine with the pattern
language and matcher model of java.util.regex.

Patterns support lookaround, atomic groups, possessive and lazy quantifiers,
back-references, class intersection and inline options. A compiled Regexp is
immutable and safe for concurrent use; each search runs on a Matcher that
tracks the region, capture groups and the hitEnd/requireEnd flags.

It doesn't have the linear-time guarantees of the regexp package. Use it when
you need Java-compatible semantics, and bound untrusted input with
MatchTimeout and MaxBacktrackDepth.
*/
package jregex

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/btre/jregex/syntax"
)

// Default timeout used when running regexp matches -- "forever"
var DefaultMatchTimeout = time.Duration(math.MaxInt64)

// DefaultMaxBacktrackDepth bounds how deeply loop iterations may nest in a
// single match attempt.
var DefaultMaxBacktrackDepth = 50000

// Regexp is the representation of a compiled regular expression.
// A Regexp is safe for concurrent use by multiple goroutines.
type Regexp struct {
	//timeout when trying to find matches
	MatchTimeout time.Duration
	// MaxBacktrackDepth aborts a match attempt with ErrBacktrackLimit once
	// loop iterations nest deeper than this.
	MaxBacktrackDepth int

	// read-only after Compile
	pattern string       // as passed to Compile
	options RegexOptions // options
	syntax  *syntax.Syntax

	capnames map[string]int // capture group name -> index
	capslist []string       // index -> name, "" for unnamed groups
	capsize  int            // number of groups including group 0

	prog *program
}

// Compile parses a regular expression in Java syntax and returns, if
// successful, a Regexp object that can be used to match against text.
func Compile(expr string, opt RegexOptions) (*Regexp, error) {
	return CompileSyntax(expr, opt, syntax.SyntaxJava)
}

// CompileSyntax is like Compile but reads the pattern with the given
// dialect.
func CompileSyntax(expr string, opt RegexOptions, syn *syntax.Syntax) (*Regexp, error) {
	if syn == nil {
		syn = syntax.SyntaxJava
	}
	// parse it
	tree, err := syntax.Parse(expr, syntax.RegexOptions(opt), syn)
	if err != nil {
		return nil, err
	}

	if opt&Debug != 0 {
		fmt.Print(tree.Dump())
	}

	// translate it to a node graph
	prog := compileTree(tree)

	return &Regexp{
		pattern:           expr,
		options:           opt,
		syntax:            syn,
		capnames:          tree.Capnames,
		capslist:          tree.Caplist,
		capsize:           tree.Captop,
		prog:              prog,
		MatchTimeout:      DefaultMatchTimeout,
		MaxBacktrackDepth: DefaultMaxBacktrackDepth,
	}, nil
}

// MustCompile is like Compile but panics if the expression cannot be parsed.
// It simplifies safe initialization of global variables holding compiled regular
// expressions.
func MustCompile(str string, opt RegexOptions) *Regexp {
	regexp, error := Compile(str, opt)
	if error != nil {
		panic(`jregex: Compile(` + quote(str) + `): ` + error.Error())
	}
	return regexp
}

// Matches compiles pattern and reports whether it matches all of input.
func Matches(pattern, input string) (bool, error) {
	re, err := Compile(pattern, 0)
	if err != nil {
		return false, err
	}
	return re.Matcher(input).Matches()
}

// Escape adds backslashes to any special characters in the input string
func Escape(input string) string {
	return syntax.Escape(input)
}

// Unescape removes any backslashes from previously-escaped special characters in the input string
func Unescape(input string) (string, error) {
	return syntax.Unescape(input)
}

// Quote returns a pattern that matches s literally.
func Quote(s string) string {
	return syntax.Quote(s)
}

// String returns the source text used to compile the regular expression.
func (re *Regexp) String() string {
	return re.pattern
}

// Options returns the flags the pattern was compiled with.
func (re *Regexp) Options() RegexOptions {
	return re.options
}

// Syntax returns the dialect the pattern was compiled with.
func (re *Regexp) Syntax() *syntax.Syntax {
	return re.syntax
}

func quote(s string) string {
	if strconv.CanBackquote(s) {
		return "`" + s + "`"
	}
	return strconv.Quote(s)
}

type RegexOptions int32

const (
	IgnoreCase              RegexOptions = RegexOptions(syntax.IgnoreCase)              // "i"
	Multiline                            = RegexOptions(syntax.Multiline)               // "m"
	Singleline                           = RegexOptions(syntax.Singleline)              // "s"
	IgnorePatternWhitespace              = RegexOptions(syntax.IgnorePatternWhitespace) // "x"
	UnixLines                            = RegexOptions(syntax.UnixLines)               // "d"
	UnicodeCase                          = RegexOptions(syntax.UnicodeCase)             // "u"
	UnicodeClass                         = RegexOptions(syntax.UnicodeClass)            // "U"
	Literal                              = RegexOptions(syntax.Literal)
	Debug                                = RegexOptions(syntax.Debug)
)

func (re *Regexp) Debug() bool {
	return re.options&Debug != 0
}

// GroupCount returns the number of capturing groups, not counting group 0.
func (re *Regexp) GroupCount() int {
	return re.capsize - 1
}

// GetGroupNames returns the names of all groups by number. Unnamed groups
// get the decimal string of their number.
func (re *Regexp) GetGroupNames() []string {
	result := make([]string, re.capsize)
	for i := range result {
		result[i] = re.GroupNameFromNumber(i)
	}
	return result
}

// GroupNameFromNumber retrieves a group name that corresponds to a group number.
// It will return "" for and unknown group number.  Unnamed groups automatically
// receive a name that is the decimal string equivalent of its number.
func (re *Regexp) GroupNameFromNumber(i int) string {
	if i < 0 || i >= re.capsize {
		return ""
	}
	if i < len(re.capslist) && re.capslist[i] != "" {
		return re.capslist[i]
	}
	return strconv.Itoa(i)
}

// GroupNumberFromName returns a group number that corresponds to a group name.
// Returns -1 if the name is not a recognized group name.  Numbered groups
// automatically get a group name that is the decimal string equivalent of its number.
func (re *Regexp) GroupNumberFromName(name string) int {
	// look up name if we have a hashtable of names
	if k, ok := re.capnames[name]; ok {
		return k
	}

	// convert to an int if it looks like a number
	if name == "" {
		return -1
	}
	result := 0
	for i := 0; i < len(name); i++ {
		ch := name[i]

		if ch > '9' || ch < '0' {
			return -1
		}

		result *= 10
		result += int(ch - '0')
		if result >= re.capsize {
			return -1
		}
	}

	return result
}

// MatchString reports whether s contains a match of the pattern.
func (re *Regexp) MatchString(s string) (bool, error) {
	return re.Matcher(s).Find()
}

// FindStringMatch returns the first match in s, or nil if there is none.
func (re *Regexp) FindStringMatch(s string) (*MatchResult, error) {
	m := re.Matcher(s)
	ok, err := m.Find()
	if err != nil || !ok {
		return nil, err
	}
	return m.ToMatchResult(), nil
}

// FindStringIndex returns the rune offsets of the first match in s, or nil.
func (re *Regexp) FindStringIndex(s string) ([]int, error) {
	m := re.Matcher(s)
	ok, err := m.Find()
	if err != nil || !ok {
		return nil, err
	}
	return []int{m.first, m.last}, nil
}

// FindAllString returns up to n successive matches in s; n < 0 means all.
func (re *Regexp) FindAllString(s string, n int) ([]string, error) {
	m := re.Matcher(s)
	var all []string
	for n < 0 || len(all) < n {
		ok, err := m.Find()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		all = append(all, m.in.Substring(m.first, m.last))
	}
	return all, nil
}

// ReplaceAllString replaces every match in s with the template rep.
func (re *Regexp) ReplaceAllString(s, rep string) (string, error) {
	return re.Matcher(s).ReplaceAll(rep)
}

// ReplaceFirstString replaces the first match in s with the template rep.
func (re *Regexp) ReplaceFirstString(s, rep string) (string, error) {
	return re.Matcher(s).ReplaceFirst(rep)
}
