package runecacher

import (
	"io"
	"unicode/utf8"
)

const cachePrimeSize = 10

// RuneCacher allows the consumer to read runes from a string, a rune slice
// or an io.RuneReader and caches the results so that backtracking is cheap.
//
// String input is decoded lazily but its length is known up front. Reader
// input only exposes what Fill has pulled in so far.
type RuneCacher struct {
	runes  []rune
	inpStr string

	// start of uncached position in our input string
	inpUncachedPos int
	// number of runes in the whole input, or in the buffer for reader input
	runesLen int

	src io.RuneReader
	eof bool

	str      string
	strValid bool
}

func NewFromRunes(runes []rune) *RuneCacher {
	return &RuneCacher{
		runes:    runes,
		runesLen: len(runes),
		eof:      true,
	}
}

func NewFromString(str string) *RuneCacher {
	r := &RuneCacher{
		runes:    make([]rune, 0, min(len(str), 1024)),
		inpStr:   str,
		runesLen: utf8.RuneCountInString(str),
		eof:      true,
		str:      str,
		strValid: true,
	}
	// prime cache with some runes
	r.cachedNext(cachePrimeSize)
	return r
}

// NewFromReader returns an empty cacher that grows with Fill.
func NewFromReader(src io.RuneReader) *RuneCacher {
	return &RuneCacher{src: src}
}

func (r *RuneCacher) Len() int {
	return r.runesLen
}

// EOF reports whether every rune of the input is available.
func (r *RuneCacher) EOF() bool {
	return r.eof
}

// Fill reads up to n more runes from a reader source and returns how many
// were added. Reaching the end of the reader is not an error.
func (r *RuneCacher) Fill(n int) (int, error) {
	if r.src == nil || r.eof {
		return 0, nil
	}
	added := 0
	for added < n {
		ch, _, err := r.src.ReadRune()
		if err == io.EOF {
			r.eof = true
			break
		}
		if err != nil {
			return added, err
		}
		r.runes = append(r.runes, ch)
		added++
	}
	r.runesLen = len(r.runes)
	if added > 0 {
		r.strValid = false
	}
	return added, nil
}

// Drop returns a cacher over the same reader without the first n buffered
// runes. r itself is left as it was.
func (r *RuneCacher) Drop(n int) *RuneCacher {
	n = min(n, len(r.runes))
	rest := make([]rune, len(r.runes)-n, cap(r.runes)-n)
	copy(rest, r.runes[n:])
	return &RuneCacher{
		runes:    rest,
		runesLen: len(rest),
		src:      r.src,
		eof:      r.eof,
	}
}

func (r *RuneCacher) String() string {
	if !r.strValid {
		r.fill()
		r.str = string(r.runes)
		r.strValid = true
	}
	return r.str
}

// Substring returns the runes in [start, end) as a string.
func (r *RuneCacher) Substring(start, end int) string {
	return string(r.RunesFromTo(start, end))
}

func (r *RuneCacher) RuneAt(textPos int) rune {
	if textPos < len(r.runes) {
		return r.runes[textPos]
	}
	// not in our cache - populate cache
	want := textPos - len(r.runes) + 1
	r.cachedNext(want)

	return r.runes[textPos]
}

// RunesFromTo returns the runes in [textPos, textEnd), decoding them if
// needed. The slice aliases the cache.
func (r *RuneCacher) RunesFromTo(textPos, textEnd int) []rune {
	if textEnd > len(r.runes) {
		r.cachedNext(textEnd - len(r.runes))
	}
	return r.runes[textPos:textEnd]
}

// RunesFrom returns all remaining runes from the input starting at a specific rune index
func (r *RuneCacher) RunesFrom(textPos int) []rune {
	r.fill()
	return r.runes[textPos:]
}

func (r *RuneCacher) fill() {
	if r.hasUncached() {
		r.cachedNext(r.runesLen)
	}
}

func (r *RuneCacher) hasUncached() bool {
	// if we're not passed the end then we have more to cache
	return r.inpUncachedPos < len(r.inpStr)
}

func (r *RuneCacher) cachedNext(count int) {
	for r.hasUncached() && count > 0 {
		newRune, newLen := utf8.DecodeRuneInString(r.inpStr[r.inpUncachedPos:])
		r.runes = append(r.runes, newRune)
		r.inpUncachedPos += newLen
		count--
	}
}
