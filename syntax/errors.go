package syntax

import (
	"fmt"
	"strconv"
)

// Error is a compile-time failure. Pos is the rune offset into Expr where the
// problem was detected, or -1 when it does not apply to a single position.
type Error struct {
	Code ErrorCode
	Expr string
	Pos  int
	Args []interface{}
}

func (e *Error) Error() string {
	msg := e.Code.String()
	if len(e.Args) > 0 {
		msg = fmt.Sprintf(msg, e.Args...)
	}
	if e.Pos >= 0 {
		msg += " at position " + strconv.Itoa(e.Pos)
	}
	return "error parsing regexp: " + msg + " in `" + e.Expr + "`"
}

// An ErrorCode describes a failure to parse a regular expression.
type ErrorCode string

const (
	// internal issue
	ErrInternalError ErrorCode = "regexp/syntax: internal error"
	// parser errors
	ErrMissingParen          ErrorCode = "missing closing )"
	ErrUnmatchedParen        ErrorCode = "unmatched closing )"
	ErrMissingBracket        ErrorCode = "unterminated [] set"
	ErrInvalidRepeatOp       ErrorCode = "dangling or nested quantifier %v"
	ErrInvalidRepeatSize     ErrorCode = "invalid repeat count"
	ErrRepeatRangeReversed   ErrorCode = "illegal repetition range {%v,%v}"
	ErrMissingRepeatArgument ErrorCode = "missing argument to repetition operator %v"
	ErrIllegalRepetition     ErrorCode = "illegal repetition"
	ErrTooManyGroups         ErrorCode = "too many capturing groups"
	ErrDuplicateGroupName    ErrorCode = "named capturing group <%v> is already defined"
	ErrInvalidGroupName      ErrorCode = "invalid group name: group names must begin with a letter and have a matching terminator"
	ErrUnknownGroupName      ErrorCode = "named capturing group <%v> does not exist"
	ErrUnknownGroupOption    ErrorCode = "unknown inline modifier %v"
	ErrUnrecognizedGrouping  ErrorCode = "unrecognized grouping construct: (%v"
	ErrUnterminatedComment   ErrorCode = "unterminated comment"
	ErrLookbehindUnbounded   ErrorCode = "look-behind group does not have an obvious maximum length"
	ErrReversedCharRange     ErrorCode = "[x-y] range in reverse order"
	ErrBadClassInCharRange   ErrorCode = "cannot include class \\%v in character range"
	ErrIllegalEndEscape      ErrorCode = "illegal \\ at end of pattern"
	ErrUnrecognizedEscape    ErrorCode = "unrecognized escape sequence \\%v"
	ErrMissingControl        ErrorCode = "missing control character"
	ErrTooFewHex             ErrorCode = "insufficient hexadecimal digits"
	ErrInvalidHex            ErrorCode = "hex values may not be larger than 0x10FFFF"
	ErrBadOctal              ErrorCode = "illegal octal escape sequence"
	ErrMalformedSlashP       ErrorCode = "malformed \\p{X} character escape"
	ErrUnknownSlashP         ErrorCode = "unknown unicode category, script, or property '%v'"
	ErrMalformedNameRef      ErrorCode = "malformed \\k<...> named back reference"
	ErrUnsupportedSyntax     ErrorCode = "%v is not supported by the %v syntax"
)

func (e ErrorCode) String() string {
	return string(e)
}
