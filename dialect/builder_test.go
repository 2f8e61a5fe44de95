package dialect

import "testing"

func TestGetRejectsEmptyDelimiter(t *testing.T) {
	_, err := NewBuilder().Delimiter("").Get()
	assertConfigError(t, err, "delimiter")
}

func TestGetRejectsDelimiterWithLineBreak(t *testing.T) {
	_, err := NewBuilder().Delimiter("a\nb").Get()
	assertConfigError(t, err, "delimiter")
}

func TestGetRejectsQuoteCharEqualToDelimiter(t *testing.T) {
	_, err := NewBuilder().Delimiter(",").QuoteChar(',').Get()
	assertConfigError(t, err, "quoteChar")
}

func TestGetAcceptsEscapeCharEqualToQuoteChar(t *testing.T) {
	// A quote character may double as its own escape (doubled-quote
	// escaping), as MONGODB_CSV and MONGODB_TSV do.
	_, err := NewBuilder().EscapeChar('"').Get()
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
}

func TestGetRejectsCommentEqualToEscapeChar(t *testing.T) {
	_, err := NewBuilder().EscapeChar('#').CommentMarker('#').Get()
	assertConfigError(t, err, "commentMarker")
}

func TestGetRejectsQuoteNoneWithoutEscape(t *testing.T) {
	_, err := NewBuilder().QuoteMode(QuoteNone).Get()
	assertConfigError(t, err, "quoteMode")
}

func TestGetAcceptsQuoteNoneWithEscape(t *testing.T) {
	_, err := NewBuilder().QuoteMode(QuoteNone).EscapeChar('\\').Get()
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
}

func TestGetRejectsDuplicateHeaderUnderDisallow(t *testing.T) {
	_, err := NewBuilder().
		Header("id", "name", "id").
		DuplicateHeaderMode(DisallowDuplicates).
		Get()
	assertConfigError(t, err, "header")
}

func TestGetAllowsDuplicateEmptyHeaderUnderAllowEmpty(t *testing.T) {
	_, err := NewBuilder().
		Header("id", "", "").
		DuplicateHeaderMode(AllowEmptyDuplicates).
		Get()
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
}

func TestGetRejectsDuplicateNonEmptyHeaderUnderAllowEmpty(t *testing.T) {
	_, err := NewBuilder().
		Header("id", "id").
		DuplicateHeaderMode(AllowEmptyDuplicates).
		Get()
	assertConfigError(t, err, "header")
}

func TestNoQuoteDisablesQuoting(t *testing.T) {
	f, err := NewBuilder().NoQuote().Get()
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if _, ok := f.QuoteChar(); ok {
		t.Fatal("QuoteChar() reports enabled after NoQuote()")
	}
}

func TestAutoHeaderImpliesSkipHeaderRecord(t *testing.T) {
	f, err := NewBuilder().AutoHeader().Get()
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if f.HeaderMode() != HeaderAuto {
		t.Fatalf("HeaderMode() = %v, want HeaderAuto", f.HeaderMode())
	}
	if !f.SkipHeaderRecord() {
		t.Fatal("AutoHeader() did not imply SkipHeaderRecord")
	}
}

func assertConfigError(t *testing.T, err error, field string) {
	t.Helper()
	if err == nil {
		t.Fatal("Get() error = nil, want a ConfigurationError")
	}
	cfgErr, ok := err.(*ConfigurationError)
	if !ok {
		t.Fatalf("Get() error type = %T, want *ConfigurationError", err)
	}
	if cfgErr.Field != field {
		t.Fatalf("ConfigurationError.Field = %q, want %q", cfgErr.Field, field)
	}
}
