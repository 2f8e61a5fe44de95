package csvdialect

import (
	"errors"
	"strings"
	"testing"

	"github.com/shapestone/csvdialect/dialect"
)

func TestParserAutoHeader(t *testing.T) {
	f, _ := dialect.NewBuilder().AutoHeader().Get()
	p, err := NewParser(strings.NewReader("id,name\n1,Alice\n2,Bob\n"), f)
	if err != nil {
		t.Fatalf("NewParser() error: %v", err)
	}
	defer p.Close()

	if got := p.GetHeaderNames(); len(got) != 2 || got[0] != "id" || got[1] != "name" {
		t.Fatalf("GetHeaderNames() = %v, want [id name]", got)
	}

	var rows [][]string
	for rec, err := range p.Records() {
		if err != nil {
			t.Fatalf("Records() error: %v", err)
		}
		rows = append(rows, rec.Fields())
	}
	if len(rows) != 2 {
		t.Fatalf("got %d records, want 2: %v", len(rows), rows)
	}
	if rows[0][1] != "Alice" || rows[1][1] != "Bob" {
		t.Fatalf("rows = %v, want Alice/Bob in second column", rows)
	}
}

func TestParserExplicitHeaderSkipsFirstRecord(t *testing.T) {
	f, _ := dialect.NewBuilder().Header("id", "name").SkipHeaderRecord(true).Get()
	p, err := NewParser(strings.NewReader("ignored,ignored\n1,Alice\n"), f)
	if err != nil {
		t.Fatalf("NewParser() error: %v", err)
	}
	defer p.Close()
	rec, ok, err := p.NextRecord()
	if err != nil || !ok {
		t.Fatalf("NextRecord() = %v, %v, %v", rec, ok, err)
	}
	if rec.Fields()[1] != "Alice" {
		t.Fatalf("first data record = %v, want second field Alice", rec.Fields())
	}
}

func TestParserRejectsDuplicateHeaderUnderDisallow(t *testing.T) {
	f, _ := dialect.NewBuilder().AutoHeader().DuplicateHeaderMode(dialect.DisallowDuplicates).Get()
	_, err := NewParser(strings.NewReader("id,id\n1,2\n"), f)
	if err == nil {
		t.Fatal("NewParser() error = nil, want a HeaderError for duplicate columns")
	}
	var headerErr *HeaderError
	if !errors.As(err, &headerErr) {
		t.Fatalf("NewParser() error type = %T, want *HeaderError", err)
	}
}

func TestParserAllowsDuplicateHeaderByDefault(t *testing.T) {
	f, _ := dialect.NewBuilder().AutoHeader().Get()
	p, err := NewParser(strings.NewReader("id,id\n1,2\n"), f)
	if err != nil {
		t.Fatalf("NewParser() error: %v", err)
	}
	defer p.Close()
}

func TestParserRejectsEmptyHeaderColumnByDefault(t *testing.T) {
	f, _ := dialect.NewBuilder().AutoHeader().Get()
	_, err := NewParser(strings.NewReader("id,,name\n1,2,3\n"), f)
	if err == nil {
		t.Fatal("NewParser() error = nil, want a HeaderError for empty column name")
	}
}

func TestParserAllowsMissingColumnNamesUnderExcel(t *testing.T) {
	f, err := dialect.Excel().Builder().AutoHeader().Get()
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	p, err := NewParser(strings.NewReader("id,,name\n1,2,3\n"), f)
	if err != nil {
		t.Fatalf("NewParser() error: %v", err)
	}
	defer p.Close()
}

func TestParserHeaderAndTrailerComments(t *testing.T) {
	f, _ := dialect.NewBuilder().CommentMarker('#').AutoHeader().Get()
	p, err := NewParser(strings.NewReader("# header note\nid,name\n1,Alice\n# trailer note\n"), f)
	if err != nil {
		t.Fatalf("NewParser() error: %v", err)
	}
	defer p.Close()

	comment, ok := p.GetHeaderComment()
	if !ok || comment != "header note" {
		t.Fatalf("GetHeaderComment() = %q,%v, want \"header note\",true", comment, ok)
	}

	for rec, err := range p.Records() {
		if err != nil {
			t.Fatalf("Records() error: %v", err)
		}
		_ = rec
	}

	trailer, ok := p.GetTrailerComment()
	if !ok || trailer != "trailer note" {
		t.Fatalf("GetTrailerComment() = %q,%v, want \"trailer note\",true", trailer, ok)
	}
}

func TestParserCommentAttachedToFollowingRecord(t *testing.T) {
	f, _ := dialect.NewBuilder().CommentMarker('#').Get()
	p, err := NewParser(strings.NewReader("# note\na,b\n"), f)
	if err != nil {
		t.Fatalf("NewParser() error: %v", err)
	}
	defer p.Close()
	rec, ok, err := p.NextRecord()
	if err != nil || !ok {
		t.Fatalf("NextRecord() = %v, %v, %v", rec, ok, err)
	}
	comment, has := rec.Comment()
	if !has || comment != "note" {
		t.Fatalf("Comment() = %q,%v, want \"note\",true", comment, has)
	}
}

func TestParserIgnoreEmptyLinesSkipsBlankRecords(t *testing.T) {
	f, _ := dialect.NewBuilder().IgnoreEmptyLines(true).Get()
	p, err := NewParser(strings.NewReader("a,b\n\n\nc,d\n"), f)
	if err != nil {
		t.Fatalf("NewParser() error: %v", err)
	}
	defer p.Close()
	var count int
	for rec, err := range p.Records() {
		if err != nil {
			t.Fatalf("Records() error: %v", err)
		}
		count++
		_ = rec
	}
	if count != 2 {
		t.Fatalf("got %d records, want 2 (blank lines skipped)", count)
	}
}

func TestParserRecordsStopsOnFatalError(t *testing.T) {
	f, _ := dialect.NewBuilder().Get()
	p, err := NewParser(strings.NewReader(`"unterminated`), f)
	if err != nil {
		t.Fatalf("NewParser() error: %v", err)
	}
	defer p.Close()
	var sawErr bool
	for _, err := range p.Records() {
		if err != nil {
			sawErr = true
		}
	}
	if !sawErr {
		t.Fatal("Records() never surfaced the fatal lex error")
	}
}

func TestParserCloseStopsFurtherReads(t *testing.T) {
	f, _ := dialect.NewBuilder().Get()
	p, err := NewParser(strings.NewReader("a,b\n"), f)
	if err != nil {
		t.Fatalf("NewParser() error: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	rec, ok, err := p.NextRecord()
	if ok || err != nil {
		t.Fatalf("NextRecord() after Close = %v, %v, %v, want zero,false,nil", rec, ok, err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second Close() error: %v", err)
	}
}

func TestNewParserAtResumesWithoutHeaderProcessing(t *testing.T) {
	f, _ := dialect.NewBuilder().Get()
	p, err := NewParserAt(strings.NewReader("c,d\n"), f, 1, 4)
	if err != nil {
		t.Fatalf("NewParserAt() error: %v", err)
	}
	defer p.Close()
	rec, ok, err := p.NextRecord()
	if err != nil || !ok {
		t.Fatalf("NextRecord() = %v, %v, %v", rec, ok, err)
	}
	if rec.RecordNumber() != 2 {
		t.Fatalf("RecordNumber() = %d, want 2 (continuing from 1)", rec.RecordNumber())
	}
	if rec.CharacterOffset() != 4 {
		t.Fatalf("CharacterOffset() = %d, want 4 (continuing from the resume point)", rec.CharacterOffset())
	}
}
