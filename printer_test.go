package csvdialect

import (
	"strings"
	"testing"

	"github.com/shapestone/csvdialect/dialect"
)

func TestPrinterMinimalQuotingOnlyQuotesWhenNeeded(t *testing.T) {
	f, _ := dialect.NewBuilder().Get()
	var buf strings.Builder
	p, err := NewPrinter(&buf, f)
	if err != nil {
		t.Fatalf("NewPrinter() error: %v", err)
	}
	if err := p.PrintRecord(Text("plain"), Text("has,comma"), Text(`has"quote`)); err != nil {
		t.Fatalf("PrintRecord() error: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	want := "plain,\"has,comma\",\"has\"\"quote\"\r\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}

func TestPrinterQuoteAllQuotesEveryField(t *testing.T) {
	f, _ := dialect.NewBuilder().QuoteMode(dialect.QuoteAll).Get()
	var buf strings.Builder
	p, _ := NewPrinter(&buf, f)
	if err := p.PrintRecord(Text("a"), Text("b")); err != nil {
		t.Fatalf("PrintRecord() error: %v", err)
	}
	p.Close()
	if buf.String() != "\"a\",\"b\"\r\n" {
		t.Fatalf("output = %q, want quoted fields", buf.String())
	}
}

func TestPrinterNullFieldUsesNullString(t *testing.T) {
	f, _ := dialect.NewBuilder().NullString(`\N`).Get()
	var buf strings.Builder
	p, _ := NewPrinter(&buf, f)
	if err := p.PrintRecord(Text("a"), Null()); err != nil {
		t.Fatalf("PrintRecord() error: %v", err)
	}
	p.Close()
	if buf.String() != `a,\N`+"\r\n" {
		t.Fatalf("output = %q, want null-string in second field", buf.String())
	}
}

func TestPrinterQuoteNoneEscapesInstead(t *testing.T) {
	f, _ := dialect.NewBuilder().NoQuote().EscapeChar('\\').QuoteMode(dialect.QuoteNone).Get()
	var buf strings.Builder
	p, _ := NewPrinter(&buf, f)
	if err := p.PrintRecord(Text("a,b"), Text("c\nd")); err != nil {
		t.Fatalf("PrintRecord() error: %v", err)
	}
	p.Close()
	want := `a\,b,c\nd` + "\r\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}

func TestPrinterHeaderWrittenWhenNotSkipped(t *testing.T) {
	f, _ := dialect.NewBuilder().Header("id", "name").SkipHeaderRecord(false).Get()
	var buf strings.Builder
	p, err := NewPrinter(&buf, f)
	if err != nil {
		t.Fatalf("NewPrinter() error: %v", err)
	}
	if err := p.PrintRecord(Text("1"), Text("Alice")); err != nil {
		t.Fatalf("PrintRecord() error: %v", err)
	}
	p.Close()
	want := "id,name\r\n1,Alice\r\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}

func TestPrinterCommentsWrittenBeforeHeader(t *testing.T) {
	f, _ := dialect.NewBuilder().
		CommentMarker('#').
		HeaderComments("generated by test").
		Header("id").
		SkipHeaderRecord(false).
		Get()
	var buf strings.Builder
	p, err := NewPrinter(&buf, f)
	if err != nil {
		t.Fatalf("NewPrinter() error: %v", err)
	}
	p.Close()
	want := "# generated by test\r\nid\r\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}

func TestPrintRecordAfterCloseIsUsageError(t *testing.T) {
	f, _ := dialect.NewBuilder().Get()
	var buf strings.Builder
	p, _ := NewPrinter(&buf, f)
	p.Close()
	err := p.PrintRecord(Text("a"))
	if err == nil {
		t.Fatal("PrintRecord() after Close() error = nil, want a UsageError")
	}
	if _, ok := err.(*UsageError); !ok {
		t.Fatalf("PrintRecord() after Close() error type = %T, want *UsageError", err)
	}
}

func TestPrintCommentWithoutMarkerIsUsageError(t *testing.T) {
	f, _ := dialect.NewBuilder().Get()
	var buf strings.Builder
	p, _ := NewPrinter(&buf, f)
	defer p.Close()
	if err := p.PrintComment("note"); err == nil {
		t.Fatal("PrintComment() without a configured marker error = nil, want a UsageError")
	}
}

func TestPrinterCharStreamStreamsWithoutBuffering(t *testing.T) {
	f, _ := dialect.NewBuilder().Get()
	var buf strings.Builder
	p, _ := NewPrinter(&buf, f)
	if err := p.PrintRecord(Text("a"), CharStream(strings.NewReader(`has"quote`))); err != nil {
		t.Fatalf("PrintRecord() error: %v", err)
	}
	p.Close()
	want := "a,\"has\"\"quote\"\r\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}

func TestPrinterByteStreamBase64Encodes(t *testing.T) {
	f, _ := dialect.NewBuilder().Get()
	var buf strings.Builder
	p, _ := NewPrinter(&buf, f)
	if err := p.PrintRecord(ByteStream(strings.NewReader("hi"))); err != nil {
		t.Fatalf("PrintRecord() error: %v", err)
	}
	p.Close()
	want := "\"aGk=\"\r\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}

func TestPrinterTrailingDelimiter(t *testing.T) {
	f, _ := dialect.NewBuilder().TrailingDelimiter(true).Get()
	var buf strings.Builder
	p, _ := NewPrinter(&buf, f)
	if err := p.PrintRecord(Text("a"), Text("b")); err != nil {
		t.Fatalf("PrintRecord() error: %v", err)
	}
	p.Close()
	if buf.String() != "a,b,\r\n" {
		t.Fatalf("output = %q, want trailing delimiter before the separator", buf.String())
	}
}

func TestPrinterCloseAlwaysFlushesInternalBuffer(t *testing.T) {
	f, _ := dialect.NewBuilder().Get()
	var buf strings.Builder
	p, _ := NewPrinter(&buf, f)
	if err := p.PrintRecord(Text("a")); err != nil {
		t.Fatalf("PrintRecord() error: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("buffered output leaked before Close(): %q", buf.String())
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("Close() did not flush buffered output")
	}
}
