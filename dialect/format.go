// Package dialect implements the immutable, validated dialect configuration
// ("Format") that drives the lexer, parser, and printer, plus the fluent
// Builder that constructs one.
//
// A Format carries every knob needed to interoperate with the CSV dialects
// found in the wild: RFC 4180, spreadsheet exports, database bulk-load
// formats, and tab-separated files. It is built once, validated at that
// point, and shared freely afterward without synchronization.
package dialect

import "fmt"

// QuoteMode controls when the printer wraps a field in quotes.
type QuoteMode int

const (
	// QuoteMinimal quotes only fields that need it: they contain the quote
	// character, the escape character, a line break, a delimiter match,
	// start with a character at or below '#', or end with a trim character.
	QuoteMinimal QuoteMode = iota
	// QuoteAll quotes every field, including null fields once they have
	// been rendered through the null-string.
	QuoteAll
	// QuoteAllNonNull quotes every non-null field; null fields are written
	// as the bare null-string.
	QuoteAllNonNull
	// QuoteNonNumeric quotes every field whose original value was not a
	// numeric type.
	QuoteNonNumeric
	// QuoteNone never quotes; special characters are escaped instead. This
	// mode requires an escape character.
	QuoteNone
)

func (m QuoteMode) String() string {
	switch m {
	case QuoteMinimal:
		return "MINIMAL"
	case QuoteAll:
		return "ALL"
	case QuoteAllNonNull:
		return "ALL_NON_NULL"
	case QuoteNonNumeric:
		return "NON_NUMERIC"
	case QuoteNone:
		return "NONE"
	default:
		return fmt.Sprintf("QuoteMode(%d)", int(m))
	}
}

// DuplicateHeaderMode controls whether repeated column names in an explicit
// header are accepted.
type DuplicateHeaderMode int

const (
	// AllowAllDuplicates accepts any repeated header name, empty or not.
	AllowAllDuplicates DuplicateHeaderMode = iota
	// AllowEmptyDuplicates accepts repeated empty header names but rejects
	// repeated non-empty ones.
	AllowEmptyDuplicates
	// DisallowDuplicates rejects any repeated header name.
	DisallowDuplicates
)

func (m DuplicateHeaderMode) String() string {
	switch m {
	case AllowAllDuplicates:
		return "ALLOW_ALL"
	case AllowEmptyDuplicates:
		return "ALLOW_EMPTY"
	case DisallowDuplicates:
		return "DISALLOW"
	default:
		return fmt.Sprintf("DuplicateHeaderMode(%d)", int(m))
	}
}

// HeaderMode selects how a Format's header is sourced.
type HeaderMode int

const (
	// HeaderUnset disables header support: no name-indexed field access.
	HeaderUnset HeaderMode = iota
	// HeaderAuto auto-detects the header from the first record of the
	// stream. Implies SkipHeaderRecord.
	HeaderAuto
	// HeaderExplicit uses a caller-supplied list of column names.
	HeaderExplicit
)

// Format is an immutable, validated dialect configuration. Construct one
// with NewBuilder()...Get(), never directly: the zero value is not a valid
// Format (it has no delimiter).
type Format struct {
	delimiter string

	quoteChar    rune
	hasQuote     bool
	escapeChar   rune
	hasEscape    bool
	commentChar  rune
	hasComment   bool
	recordSep    string
	hasRecordSep bool
	nullString   string
	hasNull      bool

	headerMode       HeaderMode
	headerNames      []string
	headerComments   []string
	skipHeaderRecord bool

	ignoreSurroundingSpaces bool
	ignoreEmptyLines        bool
	ignoreHeaderCase        bool
	trim                    bool
	trailingDelimiter       bool

	quoteMode                QuoteMode
	duplicateHeaderMode      DuplicateHeaderMode
	allowMissingColumnNames  bool
	lenientEOF               bool
	trailingData             bool
	autoFlush                bool
}

// Delimiter returns the field delimiter. It is never empty and never
// contains a line-break character.
func (f Format) Delimiter() string { return f.delimiter }

// QuoteChar returns the quote character and whether quoting is enabled.
func (f Format) QuoteChar() (rune, bool) { return f.quoteChar, f.hasQuote }

// EscapeChar returns the escape character and whether escaping is enabled.
func (f Format) EscapeChar() (rune, bool) { return f.escapeChar, f.hasEscape }

// CommentMarker returns the comment character and whether comments are
// recognized.
func (f Format) CommentMarker() (rune, bool) { return f.commentChar, f.hasComment }

// RecordSeparator returns the output record separator and whether one is
// configured. Parsing always accepts LF, CR, and CRLF regardless.
func (f Format) RecordSeparator() (string, bool) { return f.recordSep, f.hasRecordSep }

// NullString returns the null sentinel and whether one is configured.
func (f Format) NullString() (string, bool) { return f.nullString, f.hasNull }

// HeaderMode reports how the header is sourced.
func (f Format) HeaderMode() HeaderMode { return f.headerMode }

// HeaderNames returns the explicit header names. Only meaningful when
// HeaderMode is HeaderExplicit. The returned slice is a defensive copy.
func (f Format) HeaderNames() []string {
	out := make([]string, len(f.headerNames))
	copy(out, f.headerNames)
	return out
}

// HeaderComments returns the comment lines written before the header on
// output. The returned slice is a defensive copy.
func (f Format) HeaderComments() []string {
	out := make([]string, len(f.headerComments))
	copy(out, f.headerComments)
	return out
}

// SkipHeaderRecord reports whether the first input record is discarded
// because it duplicates the explicit header.
func (f Format) SkipHeaderRecord() bool { return f.skipHeaderRecord }

// IgnoreSurroundingSpaces reports whether the lexer trims leading/trailing
// spaces and tabs from unquoted fields.
func (f Format) IgnoreSurroundingSpaces() bool { return f.ignoreSurroundingSpaces }

// IgnoreEmptyLines reports whether fully blank lines between records are
// dropped.
func (f Format) IgnoreEmptyLines() bool { return f.ignoreEmptyLines }

// IgnoreHeaderCase reports whether header name lookups fold case.
func (f Format) IgnoreHeaderCase() bool { return f.ignoreHeaderCase }

// Trim reports whether every field value is trimmed of characters at or
// below the space character.
func (f Format) Trim() bool { return f.trim }

// TrailingDelimiter reports whether the printer emits an extra delimiter
// before each record separator.
func (f Format) TrailingDelimiter() bool { return f.trailingDelimiter }

// QuoteMode returns the output quoting policy.
func (f Format) QuoteMode() QuoteMode { return f.quoteMode }

// DuplicateHeaderMode returns the header-duplication policy.
func (f Format) DuplicateHeaderMode() DuplicateHeaderMode { return f.duplicateHeaderMode }

// AllowMissingColumnNames reports whether empty header columns are
// tolerated as unnamed, positional-only slots.
func (f Format) AllowMissingColumnNames() bool { return f.allowMissingColumnNames }

// LenientEOF reports whether end-of-file inside an open quoted field closes
// the field instead of raising a parse error.
func (f Format) LenientEOF() bool { return f.lenientEOF }

// TrailingData reports whether characters between a closing quote and the
// next delimiter are folded into the field instead of rejected.
func (f Format) TrailingData() bool { return f.trailingData }

// AutoFlush reports whether the printer flushes its sink on Close.
func (f Format) AutoFlush() bool { return f.autoFlush }

// Equal reports whether f and other carry the exact same tuple of public
// configuration. Two independently-built Formats with identical settings
// compare equal.
func (f Format) Equal(other Format) bool {
	if f.delimiter != other.delimiter ||
		f.quoteChar != other.quoteChar || f.hasQuote != other.hasQuote ||
		f.escapeChar != other.escapeChar || f.hasEscape != other.hasEscape ||
		f.commentChar != other.commentChar || f.hasComment != other.hasComment ||
		f.recordSep != other.recordSep || f.hasRecordSep != other.hasRecordSep ||
		f.nullString != other.nullString || f.hasNull != other.hasNull ||
		f.headerMode != other.headerMode || f.skipHeaderRecord != other.skipHeaderRecord ||
		f.ignoreSurroundingSpaces != other.ignoreSurroundingSpaces ||
		f.ignoreEmptyLines != other.ignoreEmptyLines ||
		f.ignoreHeaderCase != other.ignoreHeaderCase ||
		f.trim != other.trim || f.trailingDelimiter != other.trailingDelimiter ||
		f.quoteMode != other.quoteMode || f.duplicateHeaderMode != other.duplicateHeaderMode ||
		f.allowMissingColumnNames != other.allowMissingColumnNames ||
		f.lenientEOF != other.lenientEOF || f.trailingData != other.trailingData ||
		f.autoFlush != other.autoFlush {
		return false
	}
	if len(f.headerNames) != len(other.headerNames) {
		return false
	}
	for i, n := range f.headerNames {
		if other.headerNames[i] != n {
			return false
		}
	}
	if len(f.headerComments) != len(other.headerComments) {
		return false
	}
	for i, c := range f.headerComments {
		if other.headerComments[i] != c {
			return false
		}
	}
	return true
}

// ConfigurationError reports a dialect invariant violated at Builder.Get
// time. It is not recoverable: the Builder stays unusable for finalization
// until the offending setting is changed.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("dialect: invalid %s: %s", e.Field, e.Message)
}

func isLineBreak(r rune) bool {
	return r == '\r' || r == '\n'
}

func containsLineBreak(s string) bool {
	for _, r := range s {
		if isLineBreak(r) {
			return true
		}
	}
	return false
}
