package syntax

import "strings"

type RegexOptions int32

const (
	IgnoreCase              RegexOptions = 0x0001 // "i"
	Multiline                            = 0x0002 // "m"
	Singleline                           = 0x0004 // "s"
	IgnorePatternWhitespace              = 0x0008 // "x"
	UnixLines                            = 0x0010 // "d"
	UnicodeCase                          = 0x0020 // "u"
	UnicodeClass                         = 0x0040 // "U"
	Literal                              = 0x0080
	Debug                                = 0x0100
)

// inlineOptions are the letters accepted by (?imsxduU-imsxduU)
var inlineOptions = map[rune]RegexOptions{
	'i': IgnoreCase,
	'm': Multiline,
	's': Singleline,
	'x': IgnorePatternWhitespace,
	'd': UnixLines,
	'u': UnicodeCase,
	'U': UnicodeClass,
}

// OptionFromLetter returns the option for an inline modifier letter, or 0.
func OptionFromLetter(ch rune) RegexOptions {
	return inlineOptions[ch]
}

func (o RegexOptions) String() string {
	if o == 0 {
		return "0"
	}
	var b strings.Builder
	for _, l := range "imsxduU" {
		if o&inlineOptions[l] != 0 {
			b.WriteRune(l)
		}
	}
	if o&Literal != 0 {
		b.WriteString("[literal]")
	}
	if o&Debug != 0 {
		b.WriteString("[debug]")
	}
	return b.String()
}
