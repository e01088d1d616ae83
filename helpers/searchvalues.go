package helpers

import (
	"fmt"
	"unicode"
)

type AsciiSearchValues struct {
	// each ascii byte is represented by a bit in this array
	// there are 128bits here and ascii has 128 possible chars
	set [2]uint64
}

func NewAsciiSearchValues(vals string) AsciiSearchValues {
	// pre-calc ascii table stuff to make this go faster
	sv := AsciiSearchValues{}
	for i := 0; i < len(vals); i++ {
		c := vals[i]
		if c > unicode.MaxASCII {
			// a bug got us here. that's bad.
			panic(fmt.Errorf("non-ascii value found in ascii search values: %s", vals))
		}
		sv.Add(rune(c))
	}

	return sv
}

// Add puts an ASCII rune into the set. Other runes are ignored.
func (s *AsciiSearchValues) Add(c rune) {
	if c < 0 || c > unicode.MaxASCII {
		return
	}
	s.set[c/64] |= 1 << (c % 64)
}

// Contains reports whether c is in the set.
func (s AsciiSearchValues) Contains(c rune) bool {
	if c < 0 || c > unicode.MaxASCII {
		return false
	}
	return s.set[c/64]&(1<<(c%64)) != 0
}

// return the first index of our original vals values within the slice given
func (s AsciiSearchValues) IndexOfAny(chars []rune) int {
	for i := 0; i < len(chars); i++ {
		if s.Contains(chars[i]) {
			return i
		}
	}
	return -1
}

// return the first index of anything except our original vals values within the slice given
func (s AsciiSearchValues) IndexOfAnyExcept(chars []rune) int {
	for i := 0; i < len(chars); i++ {
		if !s.Contains(chars[i]) {
			return i
		}
	}
	return -1
}

// RuneSearchValues is a small set of arbitrary runes.
type RuneSearchValues struct {
	vals []rune
}

func NewRuneSearchValues(vals string) RuneSearchValues {
	return RuneSearchValues{vals: []rune(vals)}
}

// return the first index of our original vals values within the slice given
func (s RuneSearchValues) IndexOfAny(chars []rune) int {
	if len(s.vals) == 1 {
		return IndexOfAny1(chars, s.vals[0])
	}
	return IndexOfAny(chars, s.vals)
}
