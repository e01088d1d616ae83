package jregex

import (
	"fmt"
	"io"

	"github.com/btre/jregex/runecacher"
)

// defaultChunk is how many runes a Scanner reads at a time.
const defaultChunk = 1024

// Scanner finds matches in input pulled from an io.RuneReader. It buffers
// the input it has read and reads more only while the matcher reports that
// more input could change the result.
//
// The bounds are transparent and not anchoring, so lookaround and \b see
// the text around the search window and ^ and $ don't match at its edges.
//
// Input that lies further behind the position than the pattern can look is
// dropped from the buffer once a chunk's worth has piled up.
type Scanner struct {
	in    *runecacher.RuneCacher
	m     *Matcher
	pos   int // buffer offset
	base  int // runes dropped so far
	chunk int
	match *MatchResult
}

// NewScanner returns a Scanner that searches r with re.
func (re *Regexp) NewScanner(r io.RuneReader) *Scanner {
	in := runecacher.NewFromReader(r)
	m := newMatcher(re, in)
	m.UseTransparentBounds(true)
	m.UseAnchoringBounds(false)
	return &Scanner{in: in, m: m, chunk: defaultChunk}
}

// SetChunkSize changes how many runes are read whenever more input is
// needed.
func (s *Scanner) SetChunkSize(n int) {
	if n > 0 {
		s.chunk = n
	}
}

// Position is the rune offset in the stream where the next search starts.
func (s *Scanner) Position() int {
	return s.base + s.pos
}

// Match returns the last successful match, or nil.
func (s *Scanner) Match() *MatchResult {
	return s.match
}

// UsePattern makes later searches use re.
func (s *Scanner) UsePattern(re *Regexp) error {
	return s.m.UsePattern(re)
}

// FindWithinHorizon looks for the next match that starts at or after the
// current position and lies within horizon runes of it. A horizon of 0
// means no limit. On a match the position moves past it.
func (s *Scanner) FindWithinHorizon(horizon int) (string, bool, error) {
	if horizon < 0 {
		return "", false, fmt.Errorf("%w: negative horizon %d", ErrIllegalArgument, horizon)
	}
	s.match = nil
	s.compact()
	for {
		found, needInput, err := s.findInBuffer(horizon)
		if err != nil {
			return "", false, err
		}
		if found {
			s.match = s.m.ToMatchResult()
			s.match.offset = s.base
			g, err := s.m.Group()
			return g, true, err
		}
		if !needInput {
			return "", false, nil
		}
		if _, err := s.in.Fill(s.chunk); err != nil {
			return "", false, err
		}
	}
}

// compact drops the buffered runes no search from the current position
// can read. Earlier MatchResults keep the old buffer.
func (s *Scanner) compact() {
	drop := s.pos - s.m.prog.lookBehind
	if drop < s.chunk {
		return
	}
	s.in = s.in.Drop(drop)
	s.m.setInput(s.in)
	s.pos -= drop
	s.base += drop
}

func (s *Scanner) findInBuffer(horizon int) (found, needInput bool, err error) {
	bufferLimit := s.in.Len()
	horizonLimit := -1
	searchLimit := bufferLimit
	if horizon > 0 {
		horizonLimit = s.pos + horizon
		if horizonLimit < bufferLimit {
			searchLimit = horizonLimit
		}
	}
	if err := s.m.Region(s.pos, searchLimit); err != nil {
		return false, false, err
	}

	closed := s.in.EOF()
	ok, err := s.m.Find()
	if err != nil {
		return false, false, err
	}
	if ok {
		if s.m.HitEnd() && !closed {
			// the match may be longer if we didn't hit the horizon
			if searchLimit != horizonLimit {
				return false, true, nil
			}
			// the match could go away depending on what comes next
			if s.m.RequireEnd() {
				return false, true, nil
			}
		}
		s.pos = s.m.last
		return true, false, nil
	}

	if closed {
		return false, false, nil
	}
	// read more unless the whole horizon was already searched
	return false, horizon == 0 || searchLimit != horizonLimit, nil
}
