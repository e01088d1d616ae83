package jregex

import (
	"errors"

	"github.com/btre/jregex/syntax"
)

// Runtime error categories. Errors returned by the matcher wrap one of these
// so callers can test them with errors.Is.
var (
	// ErrIllegalState is returned when match results are queried without a
	// current match.
	ErrIllegalState = errors.New("no match available")
	// ErrIndexOutOfRange covers bad group numbers, regions and start indexes.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrIllegalArgument covers unknown group names and malformed
	// replacement templates.
	ErrIllegalArgument = syntax.ErrIllegalArgument
	// ErrBacktrackLimit is returned when a match attempt nests deeper than
	// Regexp.MaxBacktrackDepth.
	ErrBacktrackLimit = errors.New("backtracking depth limit exceeded")
	// ErrMatchTimeout is returned when a match runs past Regexp.MatchTimeout.
	ErrMatchTimeout = errors.New("match timeout")
)
