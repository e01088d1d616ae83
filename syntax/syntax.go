package syntax

// Syntax is the table of dialect switches the lexer and parser consult.
// The zero value recognises almost nothing; use one of the predefined
// syntaxes or copy one and adjust it.
type Syntax struct {
	Name string

	// EscapedGroupOps makes \( \) \{ \} \| \+ \? the operators and leaves the
	// bare characters as literals (POSIX basic).
	EscapedGroupOps bool
	// AllowInvalidInterval treats a '{' that does not open a well formed
	// interval as a literal instead of failing.
	AllowInvalidInterval bool
	// AllowIntervalLowAbbrev accepts {,n} as {0,n}.
	AllowIntervalLowAbbrev bool
	AllowLazy              bool
	AllowPossessive        bool
	// AllowClassIntersection enables && inside bracket expressions.
	AllowClassIntersection bool
	AllowNestedClass       bool
	AllowLookaround        bool
	AllowNamedGroups       bool
	AllowAtomicGroups      bool
	AllowInlineOptions     bool
	// AllowComments enables (?#...) comment groups.
	AllowComments bool
	// AllowQuote enables \Q...\E literal spans.
	AllowQuote bool
	// AllowPerlEscapes enables \d \w \s \h \v \p and friends plus \A \z \G.
	AllowPerlEscapes bool
	// OctalBackrefFallback reads a multi-digit \NN that names no group as an
	// octal escape when the digits allow it.
	OctalBackrefFallback bool
	// IneffectiveEscape makes unknown alphabetic escapes literal characters.
	IneffectiveEscape bool
	// AllowUnmatchedClose treats a ')' with no opener as a literal.
	AllowUnmatchedClose bool
	// ContextIndepRepeatOps reports a quantifier without a target as an
	// error. When false the quantifier character is taken literally.
	ContextIndepRepeatOps bool
}

var (
	// SyntaxJava follows java.util.regex: strict intervals, possessive and
	// lazy quantifiers, lookaround, class intersection.
	SyntaxJava = &Syntax{
		Name:                   "java",
		AllowLazy:              true,
		AllowPossessive:        true,
		AllowClassIntersection: true,
		AllowNestedClass:       true,
		AllowLookaround:        true,
		AllowNamedGroups:       true,
		AllowAtomicGroups:      true,
		AllowInlineOptions:     true,
		AllowQuote:             true,
		AllowPerlEscapes:       true,
		ContextIndepRepeatOps:  true,
	}

	// SyntaxPerl is lenient about braces and escapes the way Perl is.
	SyntaxPerl = &Syntax{
		Name:                   "perl",
		AllowInvalidInterval:   true,
		AllowIntervalLowAbbrev: true,
		AllowLazy:              true,
		AllowPossessive:        true,
		AllowLookaround:        true,
		AllowNamedGroups:       true,
		AllowAtomicGroups:      true,
		AllowInlineOptions:     true,
		AllowComments:          true,
		AllowQuote:             true,
		AllowPerlEscapes:       true,
		OctalBackrefFallback:   true,
		ContextIndepRepeatOps:  true,
	}

	// SyntaxExtended is POSIX extended (egrep) syntax.
	SyntaxExtended = &Syntax{
		Name:                  "extended",
		AllowInvalidInterval:  true,
		IneffectiveEscape:     true,
		AllowUnmatchedClose:   true,
		ContextIndepRepeatOps: true,
	}

	// SyntaxBasic is POSIX basic (grep/sed) syntax.
	SyntaxBasic = &Syntax{
		Name:              "basic",
		EscapedGroupOps:   true,
		IneffectiveEscape: true,
	}
)

// SyntaxByName returns one of the predefined syntaxes, or nil.
func SyntaxByName(name string) *Syntax {
	switch name {
	case "java", "":
		return SyntaxJava
	case "perl":
		return SyntaxPerl
	case "extended", "ere", "egrep":
		return SyntaxExtended
	case "basic", "bre", "grep":
		return SyntaxBasic
	}
	return nil
}
