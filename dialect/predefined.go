package dialect

import "runtime"

// Default returns the DEFAULT dialect: comma-delimited, double-quoted,
// CRLF output, blank lines between records ignored, duplicate header names
// freely allowed.
func Default() Format {
	f, err := NewBuilder().IgnoreEmptyLines(true).Get()
	if err != nil {
		panic(err) // unreachable: built-in dialects are always valid
	}
	return f
}

// RFC4180 returns the strict RFC 4180 dialect: comma-delimited,
// double-quoted, CRLF output, blank lines preserved as one-field records.
func RFC4180() Format {
	f, err := NewBuilder().Get()
	if err != nil {
		panic(err)
	}
	return f
}

// Excel returns the dialect matching Microsoft Excel's CSV export/import:
// RFC 4180 plus tolerance for missing column names, trailing data after a
// closing quote, and EOF inside an open quote.
func Excel() Format {
	f, err := NewBuilder().
		AllowMissingColumnNames(true).
		TrailingData(true).
		LenientEOF(true).
		Get()
	if err != nil {
		panic(err)
	}
	return f
}

// TDF returns the tab-delimited dialect: double-quoted, CRLF output, blank
// lines ignored, surrounding whitespace trimmed from unquoted fields.
func TDF() Format {
	f, err := NewBuilder().
		Delimiter("\t").
		IgnoreEmptyLines(true).
		IgnoreSurroundingSpaces(true).
		Get()
	if err != nil {
		panic(err)
	}
	return f
}

// MySQL returns the dialect produced by MySQL's `SELECT ... INTO OUTFILE`
// and consumed by `LOAD DATA INFILE`: tab-delimited, backslash-escaped, no
// quoting, LF output, `\N` as the null sentinel, every non-null field
// quoted... except MySQL does not quote at all by default, so quoting is
// driven entirely by QuoteAllNonNull plus the absence of a quote character,
// which falls back to escaping.
func MySQL() Format {
	f, err := NewBuilder().
		Delimiter("\t").
		NoQuote().
		EscapeChar('\\').
		RecordSeparator("\n").
		NullString(`\N`).
		QuoteMode(QuoteAllNonNull).
		Get()
	if err != nil {
		panic(err)
	}
	return f
}

// PostgreSQLText returns the dialect for PostgreSQL's `COPY ... (FORMAT
// text)`: tab-delimited, backslash-escaped, no quoting, LF output, `\N` as
// the null sentinel.
func PostgreSQLText() Format {
	f, err := NewBuilder().
		Delimiter("\t").
		NoQuote().
		EscapeChar('\\').
		RecordSeparator("\n").
		NullString(`\N`).
		QuoteMode(QuoteAllNonNull).
		Get()
	if err != nil {
		panic(err)
	}
	return f
}

// PostgreSQLCSV returns the dialect for PostgreSQL's `COPY ... (FORMAT
// csv)`: comma-delimited, double-quoted, LF output, the literal two-quote
// sequence as the null sentinel.
func PostgreSQLCSV() Format {
	f, err := NewBuilder().
		RecordSeparator("\n").
		NullString(`""`).
		QuoteMode(QuoteAllNonNull).
		Get()
	if err != nil {
		panic(err)
	}
	return f
}

// Oracle returns the dialect for Oracle SQL*Loader: comma-delimited,
// double-quoted, backslash-escaped, minimally quoted, trimmed fields, `\N`
// as the null sentinel, and the host platform's native line ending.
func Oracle() Format {
	f, err := NewBuilder().
		EscapeChar('\\').
		RecordSeparator(systemEOL()).
		NullString(`\N`).
		QuoteMode(QuoteMinimal).
		Trim(true).
		Get()
	if err != nil {
		panic(err)
	}
	return f
}

// InformixUnload returns the dialect for Informix's UNLOAD command:
// pipe-delimited, double-quoted, backslash-escaped, LF output, blank lines
// ignored.
func InformixUnload() Format {
	f, err := NewBuilder().
		Delimiter("|").
		EscapeChar('\\').
		RecordSeparator("\n").
		IgnoreEmptyLines(true).
		Get()
	if err != nil {
		panic(err)
	}
	return f
}

// InformixUnloadCSV returns the comma-delimited variant of InformixUnload,
// without an escape character.
func InformixUnloadCSV() Format {
	f, err := NewBuilder().
		RecordSeparator("\n").
		IgnoreEmptyLines(true).
		Get()
	if err != nil {
		panic(err)
	}
	return f
}

// MongoDBCSV returns the dialect for `mongoexport --type=csv`:
// comma-delimited, double-quoted and double-quote-escaped (the quote
// character doubles as its own escape), CRLF output, blank lines ignored,
// minimal quoting, header always included.
func MongoDBCSV() Format {
	f, err := NewBuilder().
		EscapeChar('"').
		IgnoreEmptyLines(true).
		QuoteMode(QuoteMinimal).
		SkipHeaderRecord(false).
		Get()
	if err != nil {
		panic(err)
	}
	return f
}

// MongoDBTSV returns the tab-delimited variant of MongoDBCSV.
func MongoDBTSV() Format {
	f, err := NewBuilder().
		Delimiter("\t").
		EscapeChar('"').
		IgnoreEmptyLines(true).
		QuoteMode(QuoteMinimal).
		Get()
	if err != nil {
		panic(err)
	}
	return f
}

// systemEOL returns the host platform's native line ending, used by the
// Oracle dialect's default record separator.
func systemEOL() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}
