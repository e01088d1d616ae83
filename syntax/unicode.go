package syntax

import (
	"strings"
	"sync"
	"unicode"
)

var (
	foldOnce  sync.Once
	foldRunes []rune
)

// foldableRunes lists every code point whose simple case folding orbit has
// more than one member, in ascending order.
func foldableRunes() []rune {
	foldOnce.Do(func() {
		for _, t := range []*unicode.RangeTable{unicode.Upper, unicode.Lower, unicode.Title, unicode.Other_Lowercase, unicode.Other_Uppercase, unicode.Mn} {
			forEachRune(t, func(r rune) {
				if unicode.SimpleFold(r) != r {
					foldRunes = append(foldRunes, r)
				}
			})
		}
		s := &CharSet{}
		for _, r := range foldRunes {
			s.AddChar(r)
		}
		foldRunes = foldRunes[:0]
		for _, r := range s.ranges {
			for ch := r.first; ch <= r.last; ch++ {
				foldRunes = append(foldRunes, ch)
			}
		}
	})
	return foldRunes
}

func forEachRune(t *unicode.RangeTable, f func(rune)) {
	for _, r := range t.R16 {
		for ch := rune(r.Lo); ch <= rune(r.Hi); ch += rune(r.Stride) {
			f(ch)
		}
	}
	for _, r := range t.R32 {
		for ch := rune(r.Lo); ch <= rune(r.Hi); ch += rune(r.Stride) {
			f(ch)
		}
	}
}

func (c *CharSet) addTable(t *unicode.RangeTable) {
	var add CharSet
	for _, r := range t.R16 {
		if r.Stride == 1 {
			add.ranges = append(add.ranges, singleRange{rune(r.Lo), rune(r.Hi)})
			continue
		}
		for ch := rune(r.Lo); ch <= rune(r.Hi); ch += rune(r.Stride) {
			add.ranges = append(add.ranges, singleRange{ch, ch})
		}
	}
	for _, r := range t.R32 {
		if r.Stride == 1 {
			add.ranges = append(add.ranges, singleRange{rune(r.Lo), rune(r.Hi)})
			continue
		}
		for ch := rune(r.Lo); ch <= rune(r.Hi); ch += rune(r.Stride) {
			add.ranges = append(add.ranges, singleRange{ch, ch})
		}
	}
	// tables are sorted but may hold adjacent entries; re-add to merge
	var merged CharSet
	for _, r := range add.ranges {
		merged.AddRange(r.first, r.last)
	}
	c.Union(&merged)
}

func tableSet(ts ...*unicode.RangeTable) *CharSet {
	c := &CharSet{}
	for _, t := range ts {
		c.addTable(t)
	}
	return c
}

func rangeSet(pairs ...rune) *CharSet {
	c := &CharSet{}
	for i := 0; i+1 < len(pairs); i += 2 {
		c.AddRange(pairs[i], pairs[i+1])
	}
	return c
}

// ClassKind names the predefined classes reachable through escapes.
type ClassKind int

const (
	ClassNone ClassKind = iota
	ClassDigit
	ClassWord
	ClassSpace
	ClassHSpace
	ClassVSpace
	ClassXDigit
	ClassProperty
)

// DigitClass, WordClass and friends build fresh sets for the named classes.
// unicodeClass selects the Unicode definitions over the ASCII ones.
func DigitClass(unicodeClass bool) *CharSet {
	if unicodeClass {
		return tableSet(unicode.Nd)
	}
	return rangeSet('0', '9')
}

func WordClass(unicodeClass bool) *CharSet {
	if unicodeClass {
		c := tableSet(unicode.L, unicode.Mn, unicode.Mc, unicode.Me, unicode.Nd, unicode.Pc, unicode.Nl, unicode.Other_Alphabetic)
		c.AddRange('\u200C', '\u200D')
		return c
	}
	return rangeSet('0', '9', 'A', 'Z', '_', '_', 'a', 'z')
}

func SpaceClass(unicodeClass bool) *CharSet {
	if unicodeClass {
		return tableSet(unicode.White_Space)
	}
	return rangeSet('\t', '\r', ' ', ' ')
}

func HSpaceClass() *CharSet {
	return rangeSet(' ', ' ', '\t', '\t', '\u00A0', '\u00A0', '\u1680', '\u1680', '\u180E', '\u180E',
		'\u2000', '\u200A', '\u202F', '\u202F', '\u205F', '\u205F', '\u3000', '\u3000')
}

func VSpaceClass() *CharSet {
	return rangeSet('\n', '\r', '\u0085', '\u0085', '\u2028', '\u2029')
}

func XDigitClass() *CharSet {
	return rangeSet('0', '9', 'A', 'F', 'a', 'f')
}

// posixClasses are the \p{Name} classes Java defines over ASCII. With
// UnicodeClass they switch to the Unicode property of the same meaning.
var posixClasses = map[string]func(unicodeClass bool) *CharSet{
	"Lower": func(u bool) *CharSet {
		if u {
			return tableSet(unicode.Ll, unicode.Other_Lowercase)
		}
		return rangeSet('a', 'z')
	},
	"Upper": func(u bool) *CharSet {
		if u {
			return tableSet(unicode.Lu, unicode.Other_Uppercase)
		}
		return rangeSet('A', 'Z')
	},
	"ASCII": func(bool) *CharSet { return rangeSet(0, 0x7F) },
	"Alpha": func(u bool) *CharSet {
		if u {
			return tableSet(unicode.L, unicode.Nl, unicode.Other_Alphabetic)
		}
		return rangeSet('A', 'Z', 'a', 'z')
	},
	"Digit": DigitClass,
	"Alnum": func(u bool) *CharSet {
		if u {
			return tableSet(unicode.L, unicode.Nl, unicode.Other_Alphabetic, unicode.Nd)
		}
		return rangeSet('0', '9', 'A', 'Z', 'a', 'z')
	},
	"Punct": func(u bool) *CharSet {
		if u {
			return tableSet(unicode.P)
		}
		return rangeSet('!', '/', ':', '@', '[', '`', '{', '~')
	},
	"Graph": func(u bool) *CharSet {
		if u {
			c := assignedSet()
			c.Subtract(tableSet(unicode.White_Space, unicode.Cc, unicode.Cs))
			return c
		}
		return rangeSet('!', '~')
	},
	"Print": func(u bool) *CharSet {
		if u {
			c := assignedSet()
			c.Subtract(tableSet(unicode.White_Space, unicode.Cc, unicode.Cs))
			c.Union(tableSet(unicode.Zs))
			return c
		}
		return rangeSet(' ', '~')
	},
	"Blank": func(u bool) *CharSet {
		if u {
			c := tableSet(unicode.Zs)
			c.AddChar('\t')
			return c
		}
		return rangeSet(' ', ' ', '\t', '\t')
	},
	"Cntrl": func(u bool) *CharSet {
		if u {
			return tableSet(unicode.Cc)
		}
		return rangeSet(0, 0x1F, 0x7F, 0x7F)
	},
	"XDigit": func(u bool) *CharSet {
		if u {
			c := tableSet(unicode.Nd)
			c.Union(XDigitClass())
			return c
		}
		return XDigitClass()
	},
	"Space": SpaceClass,
}

// binaryProperties answer \p{IsName} and \p{javaName}.
var binaryProperties = map[string]func() *CharSet{
	"alphabetic":   func() *CharSet { return tableSet(unicode.L, unicode.Nl, unicode.Other_Alphabetic) },
	"letter":       func() *CharSet { return tableSet(unicode.L) },
	"ideographic":  func() *CharSet { return tableSet(unicode.Ideographic) },
	"lowercase":    func() *CharSet { return tableSet(unicode.Ll, unicode.Other_Lowercase) },
	"uppercase":    func() *CharSet { return tableSet(unicode.Lu, unicode.Other_Uppercase) },
	"titlecase":    func() *CharSet { return tableSet(unicode.Lt) },
	"punctuation":  func() *CharSet { return tableSet(unicode.P) },
	"control":      func() *CharSet { return tableSet(unicode.Cc) },
	"white_space":  func() *CharSet { return tableSet(unicode.White_Space) },
	"whitespace":   func() *CharSet { return tableSet(unicode.White_Space) },
	"digit":        func() *CharSet { return tableSet(unicode.Nd) },
	"hex_digit":    func() *CharSet { return tableSet(unicode.Hex_Digit) },
	"hexdigit":     func() *CharSet { return tableSet(unicode.Hex_Digit) },
	"join_control": func() *CharSet { return tableSet(unicode.Join_Control) },
	"noncharactercodepoint": func() *CharSet {
		return tableSet(unicode.Noncharacter_Code_Point)
	},
	"assigned":      assignedSet,
	"javalowercase": func() *CharSet { return tableSet(unicode.Ll, unicode.Other_Lowercase) },
	"javauppercase": func() *CharSet { return tableSet(unicode.Lu, unicode.Other_Uppercase) },
	"javawhitespace": func() *CharSet {
		return rangeSet('\t', '\r', 0x1C, 0x20, 0x1680, 0x1680, 0x2000, 0x2006, 0x2008, 0x200A, 0x2028, 0x2029, 0x205F, 0x205F, 0x3000, 0x3000)
	},
	"javadigit":         func() *CharSet { return tableSet(unicode.Nd) },
	"javaletter":        func() *CharSet { return tableSet(unicode.L) },
	"javaletterordigit": func() *CharSet { return tableSet(unicode.L, unicode.Nd) },
	"javaalphabetic":    func() *CharSet { return tableSet(unicode.L, unicode.Nl, unicode.Other_Alphabetic) },
	"javaideographic":   func() *CharSet { return tableSet(unicode.Ideographic) },
	"javatitlecase":     func() *CharSet { return tableSet(unicode.Lt) },
	"javaspacechar":     func() *CharSet { return tableSet(unicode.Z) },
	"javaisocontrol":    func() *CharSet { return rangeSet(0, 0x1F, 0x7F, 0x9F) },
	"javadefined":       assignedSet,
	"javaunicodeidentifierpart": func() *CharSet {
		return tableSet(unicode.L, unicode.Nl, unicode.Nd, unicode.Mn, unicode.Mc, unicode.Pc, unicode.Cf)
	},
}

// PropertyClass resolves the name inside \p{...}. It accepts POSIX names
// (Lower, Alpha...), general categories (L, Lu, IsLu, gc=Lu,
// general_category=Lu), scripts (IsGreek, sc=Greek, script=Greek), binary
// properties (IsAlphabetic) and the java* predicates.
func PropertyClass(name string, unicodeClass bool) (*CharSet, bool) {
	if f, ok := posixClasses[name]; ok {
		return f(unicodeClass), true
	}
	if name == "all" {
		return rangeSet(0, unicode.MaxRune), true
	}
	if k, v, ok := strings.Cut(name, "="); ok {
		switch strings.ToLower(k) {
		case "gc", "general_category":
			return categorySet(v)
		case "sc", "script":
			return scriptSet(v)
		}
		return nil, false
	}
	if strings.HasPrefix(name, "Is") {
		rest := name[2:]
		if c, ok := categorySet(rest); ok {
			return c, true
		}
		if c, ok := scriptSet(rest); ok {
			return c, true
		}
		if f, ok := binaryProperties[strings.ToLower(rest)]; ok {
			return f(), true
		}
		return nil, false
	}
	if strings.HasPrefix(name, "java") {
		if f, ok := binaryProperties[strings.ToLower(name)]; ok {
			return f(), true
		}
		return nil, false
	}
	return categorySet(name)
}

func categorySet(name string) (*CharSet, bool) {
	switch name {
	case "LC", "Lc":
		return tableSet(unicode.Lu, unicode.Ll, unicode.Lt), true
	case "Cn":
		c := assignedSet()
		c.Negate()
		return c, true
	case "C":
		c := assignedSet()
		c.Negate()
		c.Union(tableSet(unicode.Cc, unicode.Cf, unicode.Co, unicode.Cs))
		return c, true
	}
	if t, ok := unicode.Categories[name]; ok {
		return tableSet(t), true
	}
	return nil, false
}

// assignedSet is every code point with a general category other than Cn.
// Older Go releases have no Cn table, so it is the union of the others.
func assignedSet() *CharSet {
	c := &CharSet{}
	for name, t := range unicode.Categories {
		if len(name) == 2 && name != "Cn" && name != "LC" {
			c.addTable(t)
		}
	}
	return c
}

func scriptSet(name string) (*CharSet, bool) {
	for k, t := range unicode.Scripts {
		if strings.EqualFold(k, name) {
			return tableSet(t), true
		}
	}
	return nil, false
}

// IsWordChar is the \b definition of a word character.
func IsWordChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// IsLineTerminator reports the characters '.' and '$' treat as line ends
// outside UnixLines mode.
func IsLineTerminator(r rune) bool {
	return r == '\n' || r == '\r' || r == '\u0085' || r == '\u2028' || r == '\u2029'
}

// FoldEqual compares two code points case-insensitively. unicodeCase
// selects simple Unicode folding, otherwise only ASCII letters fold.
func FoldEqual(a, b rune, unicodeCase bool) bool {
	if a == b {
		return true
	}
	if !unicodeCase {
		if 'A' <= a && a <= 'Z' {
			a += 'a' - 'A'
		}
		if 'A' <= b && b <= 'Z' {
			b += 'a' - 'A'
		}
		return a == b
	}
	for f := unicode.SimpleFold(a); f != a; f = unicode.SimpleFold(f) {
		if f == b {
			return true
		}
	}
	return false
}

// posixBracketClass resolves the name in a [:name:] bracket class.
func posixBracketClass(name string, unicodeClass bool) (*CharSet, bool) {
	if name == "xdigit" {
		name = "XDigit"
	} else if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	f, ok := posixClasses[name]
	if !ok || name == "ASCII" {
		return nil, false
	}
	return f(unicodeClass), true
}
