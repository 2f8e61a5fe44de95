package dialect

// Builder configures a Format through a fluent API. Each setter returns the
// Builder so calls chain; Get finalizes the configuration, validates it per
// the invariants listed on Get, and returns the immutable Format.
//
// A Builder has no useful zero value on its own: start from NewBuilder,
// which seeds the baseline settings that RFC4180 uses, or from Format.Builder(),
// which seeds an existing Format's settings for a targeted override.
type Builder struct {
	f Format
}

// NewBuilder returns a Builder seeded with the package's baseline settings:
// comma delimiter, double-quote quoting, no escape, no comments, CRLF
// output, minimal quoting, and every policy at its least surprising default.
func NewBuilder() *Builder {
	return &Builder{f: Format{
		delimiter:           ",",
		quoteChar:           '"',
		hasQuote:            true,
		recordSep:           "\r\n",
		hasRecordSep:        true,
		headerMode:          HeaderUnset,
		quoteMode:           QuoteMinimal,
		duplicateHeaderMode: AllowAllDuplicates,
	}}
}

// Builder returns a Builder seeded with f's current settings, for deriving a
// variant dialect without restating every field.
func (f Format) Builder() *Builder {
	b := &Builder{f: f}
	b.f.headerNames = append([]string{}, f.headerNames...)
	b.f.headerComments = append([]string{}, f.headerComments...)
	return b
}

// Delimiter sets the field delimiter. Must be non-empty and free of
// line-break characters; multi-character delimiters are permitted.
func (b *Builder) Delimiter(s string) *Builder {
	b.f.delimiter = s
	return b
}

// QuoteChar sets the quote character, enabling quoting.
func (b *Builder) QuoteChar(r rune) *Builder {
	b.f.quoteChar = r
	b.f.hasQuote = true
	return b
}

// NoQuote disables quoting entirely.
func (b *Builder) NoQuote() *Builder {
	b.f.hasQuote = false
	b.f.quoteChar = 0
	return b
}

// EscapeChar sets the escape character, enabling escape processing.
func (b *Builder) EscapeChar(r rune) *Builder {
	b.f.escapeChar = r
	b.f.hasEscape = true
	return b
}

// NoEscape disables escape processing.
func (b *Builder) NoEscape() *Builder {
	b.f.hasEscape = false
	b.f.escapeChar = 0
	return b
}

// CommentMarker sets the comment character, enabling comment recognition at
// the start of a line.
func (b *Builder) CommentMarker(r rune) *Builder {
	b.f.commentChar = r
	b.f.hasComment = true
	return b
}

// NoComment disables comment recognition.
func (b *Builder) NoComment() *Builder {
	b.f.hasComment = false
	b.f.commentChar = 0
	return b
}

// RecordSeparator sets the output-only record separator. Parsing always
// accepts LF, CR, and CRLF regardless of this setting.
func (b *Builder) RecordSeparator(s string) *Builder {
	b.f.recordSep = s
	b.f.hasRecordSep = true
	return b
}

// NoRecordSeparator causes records to be delimiter-joined on output with no
// trailing separator.
func (b *Builder) NoRecordSeparator() *Builder {
	b.f.hasRecordSep = false
	b.f.recordSep = ""
	return b
}

// NullString sets the sentinel exchanged for the null value on read and
// write.
func (b *Builder) NullString(s string) *Builder {
	b.f.nullString = s
	b.f.hasNull = true
	return b
}

// NoNullString disables null-string handling; null becomes the empty string
// on write and no input value maps to null on read.
func (b *Builder) NoNullString() *Builder {
	b.f.hasNull = false
	b.f.nullString = ""
	return b
}

// NoHeader disables header support.
func (b *Builder) NoHeader() *Builder {
	b.f.headerMode = HeaderUnset
	b.f.headerNames = nil
	return b
}

// AutoHeader auto-detects the header from the first record of the stream.
// Implies SkipHeaderRecord.
func (b *Builder) AutoHeader() *Builder {
	b.f.headerMode = HeaderAuto
	b.f.headerNames = nil
	b.f.skipHeaderRecord = true
	return b
}

// Header sets an explicit list of column names.
func (b *Builder) Header(names ...string) *Builder {
	b.f.headerMode = HeaderExplicit
	b.f.headerNames = append([]string{}, names...)
	return b
}

// HeaderComments sets the comment lines written before the header on
// output.
func (b *Builder) HeaderComments(lines ...string) *Builder {
	b.f.headerComments = append([]string{}, lines...)
	return b
}

// SkipHeaderRecord sets whether, with an explicit header, the first input
// record is consumed and discarded rather than parsed as data.
func (b *Builder) SkipHeaderRecord(skip bool) *Builder {
	b.f.skipHeaderRecord = skip
	return b
}

// IgnoreSurroundingSpaces sets whether the lexer trims leading/trailing
// spaces and tabs from unquoted fields.
func (b *Builder) IgnoreSurroundingSpaces(v bool) *Builder {
	b.f.ignoreSurroundingSpaces = v
	return b
}

// IgnoreEmptyLines sets whether fully blank lines between records are
// dropped.
func (b *Builder) IgnoreEmptyLines(v bool) *Builder {
	b.f.ignoreEmptyLines = v
	return b
}

// IgnoreHeaderCase sets whether header name lookups fold case.
func (b *Builder) IgnoreHeaderCase(v bool) *Builder {
	b.f.ignoreHeaderCase = v
	return b
}

// Trim sets whether every field value is trimmed of characters at or below
// the space character.
func (b *Builder) Trim(v bool) *Builder {
	b.f.trim = v
	return b
}

// TrailingDelimiter sets whether the printer emits an extra delimiter
// before each record separator.
func (b *Builder) TrailingDelimiter(v bool) *Builder {
	b.f.trailingDelimiter = v
	return b
}

// QuoteMode sets the output quoting policy.
func (b *Builder) QuoteMode(m QuoteMode) *Builder {
	b.f.quoteMode = m
	return b
}

// DuplicateHeaderMode sets the header-duplication policy.
func (b *Builder) DuplicateHeaderMode(m DuplicateHeaderMode) *Builder {
	b.f.duplicateHeaderMode = m
	return b
}

// AllowMissingColumnNames sets whether empty header columns are tolerated.
func (b *Builder) AllowMissingColumnNames(v bool) *Builder {
	b.f.allowMissingColumnNames = v
	return b
}

// LenientEOF sets whether end-of-file inside an open quoted field closes
// the field instead of raising a parse error.
func (b *Builder) LenientEOF(v bool) *Builder {
	b.f.lenientEOF = v
	return b
}

// TrailingData sets whether characters between a closing quote and the next
// delimiter are folded into the field instead of rejected.
func (b *Builder) TrailingData(v bool) *Builder {
	b.f.trailingData = v
	return b
}

// AutoFlush sets whether the printer flushes its sink on Close.
func (b *Builder) AutoFlush(v bool) *Builder {
	b.f.autoFlush = v
	return b
}

// Get finalizes the Builder, validates it, and returns the resulting
// immutable Format. The delimiter must be non-empty and free of line
// breaks; the quote, escape, and comment characters must not be line breaks
// and must differ from the delimiter; the comment character must differ
// from the quote and escape characters; QuoteNone requires an escape
// character; and an explicit header must satisfy the duplicate-header mode.
//
// Validation failures return a *ConfigurationError and leave the Builder
// untouched, so the caller may fix the offending setting and call Get again.
func (b *Builder) Get() (Format, error) {
	f := b.f

	if f.delimiter == "" {
		return Format{}, &ConfigurationError{Field: "delimiter", Message: "must not be empty"}
	}
	if containsLineBreak(f.delimiter) {
		return Format{}, &ConfigurationError{Field: "delimiter", Message: "must not contain a line break"}
	}
	if f.hasQuote && isLineBreak(f.quoteChar) {
		return Format{}, &ConfigurationError{Field: "quoteChar", Message: "must not be a line break"}
	}
	if f.hasEscape && isLineBreak(f.escapeChar) {
		return Format{}, &ConfigurationError{Field: "escapeChar", Message: "must not be a line break"}
	}
	if f.hasComment && isLineBreak(f.commentChar) {
		return Format{}, &ConfigurationError{Field: "commentMarker", Message: "must not be a line break"}
	}

	if f.hasQuote && f.delimiter == string(f.quoteChar) {
		return Format{}, &ConfigurationError{Field: "quoteChar", Message: "must differ from the delimiter"}
	}
	if f.hasEscape && f.delimiter == string(f.escapeChar) {
		return Format{}, &ConfigurationError{Field: "escapeChar", Message: "must differ from the delimiter"}
	}
	if f.hasComment && f.delimiter == string(f.commentChar) {
		return Format{}, &ConfigurationError{Field: "commentMarker", Message: "must differ from the delimiter"}
	}
	// Quote and escape may coincide: a dialect can use its quote character
	// as its own escape (doubled-quote escaping), as MONGODB_CSV and
	// MONGODB_TSV do. Apache Commons CSV's validateQuoteAndEscapeCharacters
	// has no such check either.
	if f.hasQuote && f.hasComment && f.quoteChar == f.commentChar {
		return Format{}, &ConfigurationError{Field: "commentMarker", Message: "must differ from the quote character"}
	}
	if f.hasEscape && f.hasComment && f.escapeChar == f.commentChar {
		return Format{}, &ConfigurationError{Field: "commentMarker", Message: "must differ from the escape character"}
	}

	if f.quoteMode == QuoteNone && !f.hasEscape {
		return Format{}, &ConfigurationError{Field: "quoteMode", Message: "NONE requires an escape character"}
	}

	if f.headerMode == HeaderExplicit && f.duplicateHeaderMode != AllowAllDuplicates {
		seen := make(map[string]bool, len(f.headerNames))
		for _, name := range f.headerNames {
			if name == "" {
				if f.duplicateHeaderMode == DisallowDuplicates && seen[""] {
					return Format{}, &ConfigurationError{
						Field:   "header",
						Message: "duplicate empty column name not permitted by DISALLOW",
					}
				}
				seen[""] = true
				continue
			}
			if seen[name] {
				return Format{}, &ConfigurationError{
					Field: "header",
					Message: "duplicate column name " + name + " in header " +
						formatHeaderList(f.headerNames),
				}
			}
			seen[name] = true
		}
	}

	return f, nil
}

func formatHeaderList(names []string) string {
	out := "["
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out + "]"
}
