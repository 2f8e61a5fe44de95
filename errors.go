package csvdialect

import (
	"fmt"

	"github.com/shapestone/csvdialect/dialect"
)

// ConfigurationError reports a dialect invariant violated while finalizing a
// Builder. Re-exported from the dialect package so callers of this package
// need not import it directly just to type-switch on the error.
type ConfigurationError = dialect.ConfigurationError

// HeaderError reports a missing or duplicate header name discovered at
// parser construction, where explicit and auto-detected headers alike are
// read and validated. It is fatal for the parser.
type HeaderError struct {
	Message string
}

func (e *HeaderError) Error() string {
	return "csvdialect: header error: " + e.Message
}

// ParseError wraps a fatal lex error with the line and character position
// the reader had reached when the problem was found. The parser's position
// is left just past the offending character; there is no auto-resync.
type ParseError struct {
	Line     int
	Position int64
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("csvdialect: parse error at line %d, position %d: %v", e.Line, e.Position, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UsageError reports a call made after close, a named-column lookup with no
// header configured, or any other misuse that does not advance parser or
// printer state.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return "csvdialect: " + e.Message
}
