package csvdialect

import (
	"io"
	"strings"

	"github.com/shapestone/csvdialect/dialect"
	"github.com/shapestone/csvdialect/internal/charreader"
	"github.com/shapestone/csvdialect/internal/lexer"
)

// Parser assembles a Lexer's tokens into Records, owns the header mapping,
// and exposes a lazy, single-pass record sequence. A Parser is not safe for
// concurrent use: two goroutines driving the same Parser, or two
// goroutines consuming the same Records sequence, is a usage error.
type Parser struct {
	lex    *lexer.Lexer
	closer io.Closer
	format Format

	header       *headerIndex
	headerNames  []string
	headerC      string
	hasHeaderC   bool
	trailerC     strings.Builder
	hasTrailerC  bool

	recordNum  int64
	baseOffset int64
	closed     bool
	done       bool

	tok lexer.Token
}

// NewParser returns a Parser reading from r under format, starting at
// record 1 and character offset 0. It processes the header immediately per
// format's HeaderMode, which may consume leading comment and record tokens
// before the first call to NextRecord.
func NewParser(r io.Reader, format Format) (*Parser, error) {
	return newParserAt(r, format, 0, 0)
}

// NewParserAt returns a Parser positioned to resume a stream previously
// read up to recordNumber records and characterOffset characters: r must
// already be advanced to that offset (this package does no seeking of its
// own). When recordNumber is greater than zero no header processing is
// performed, since the caller is resuming past wherever the header, if any,
// was already consumed; with recordNumber 0 the header is processed as
// NewParser does.
func NewParserAt(r io.Reader, format Format, recordNumber int64, characterOffset int64) (*Parser, error) {
	return newParserAt(r, format, recordNumber, characterOffset)
}

func newParserAt(r io.Reader, format Format, recordNumber int64, characterOffset int64) (*Parser, error) {
	cr := charreader.New(r)
	p := &Parser{
		lex:        lexer.New(cr, format),
		format:     format,
		recordNum:  recordNumber,
		baseOffset: characterOffset,
	}
	if c, ok := r.(io.Closer); ok {
		p.closer = c
	}

	if recordNumber > 0 {
		// Resuming mid-stream: the header, if any, was already consumed
		// before the stream was repositioned here.
		return p, nil
	}

	if err := p.readHeader(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) readHeader() error {
	switch p.format.HeaderMode() {
	case dialect.HeaderUnset:
		return nil
	case dialect.HeaderAuto:
		names, err := p.consumeHeaderRecord()
		if err != nil {
			return err
		}
		return p.buildHeader(names)
	case dialect.HeaderExplicit:
		names := p.format.HeaderNames()
		if p.format.SkipHeaderRecord() {
			if _, err := p.consumeHeaderRecord(); err != nil {
				return err
			}
		}
		return p.buildHeader(names)
	}
	return nil
}

// consumeHeaderRecord pulls comment tokens (harvested as headerComment) up
// to and including the first record's worth of field tokens, returning its
// fields as the header names.
func (p *Parser) consumeHeaderRecord() ([]string, error) {
	var names []string
	var comments []string
	for {
		if err := p.lex.NextToken(&p.tok); err != nil {
			return nil, asParseError(err)
		}
		switch p.tok.Kind {
		case lexer.KindComment:
			comments = append(comments, p.tok.Value())
		case lexer.KindField:
			names = append(names, p.tok.Value())
		case lexer.KindEndRecord:
			names = append(names, p.tok.Value())
			p.setHeaderComment(comments)
			return names, nil
		case lexer.KindEOF:
			if p.tok.Value() != "" || len(names) > 0 {
				names = append(names, p.tok.Value())
			}
			p.setHeaderComment(comments)
			p.done = true
			return names, nil
		}
	}
}

func (p *Parser) setHeaderComment(lines []string) {
	if len(lines) == 0 {
		return
	}
	p.headerC = strings.Join(lines, "\n")
	p.hasHeaderC = true
}

func (p *Parser) buildHeader(names []string) error {
	if !p.format.AllowMissingColumnNames() {
		for _, n := range names {
			if n == "" {
				return &HeaderError{Message: "empty column name not permitted"}
			}
		}
	}

	mode := p.format.DuplicateHeaderMode()
	if mode != dialect.AllowAllDuplicates {
		seen := make(map[string]bool, len(names))
		for _, n := range names {
			key := n
			if p.format.IgnoreHeaderCase() {
				key = strings.ToLower(key)
			}
			if n == "" {
				if mode == dialect.DisallowDuplicates && seen[""] {
					return &HeaderError{Message: "duplicate empty column name"}
				}
				seen[""] = true
				continue
			}
			if seen[key] {
				return &HeaderError{Message: "duplicate column name " + n}
			}
			seen[key] = true
		}
	}

	p.headerNames = names
	p.header = newHeaderIndex(names, p.format.IgnoreHeaderCase())
	return nil
}

// GetHeaderNames returns the header's ordered, duplicate-preserving list of
// column names. The returned slice is a copy; mutating it has no effect on
// the Parser.
func (p *Parser) GetHeaderNames() []string {
	out := make([]string, len(p.headerNames))
	copy(out, p.headerNames)
	return out
}

// GetHeaderMap returns a copy of the name-to-column-index mapping. Only
// names accepted by the format's duplicate-header policy appear; the
// returned map is safe to mutate without affecting the Parser.
func (p *Parser) GetHeaderMap() map[string]int {
	out := make(map[string]int)
	if p.header != nil {
		for k, v := range p.header.index {
			out[k] = v
		}
	}
	return out
}

// GetHeaderComment returns the comment text accumulated immediately before
// the header (joined by LF across contiguous comment lines), and whether
// any was present.
func (p *Parser) GetHeaderComment() (string, bool) {
	return p.headerC, p.hasHeaderC
}

// GetTrailerComment returns the comment text accumulated after the last
// record in the stream, and whether any was present.
func (p *Parser) GetTrailerComment() (string, bool) {
	return p.trailerC.String(), p.hasTrailerC
}

// GetCurrentLineNumber returns the 1-based line the reader is positioned
// at.
func (p *Parser) GetCurrentLineNumber() int {
	return p.lex.LineNumber()
}

// GetRecordNumber returns the 1-based sequence number of the most recently
// returned record, or the starting record number if none has been read
// yet.
func (p *Parser) GetRecordNumber() int64 {
	return p.recordNum
}

// GetFirstEndOfLine returns the first record-terminator sequence
// encountered in the stream ("\n", "\r", or "\r\n"), or "" if none has been
// seen yet.
func (p *Parser) GetFirstEndOfLine() string {
	return p.lex.FirstEndOfLine()
}

// NextRecord reads and returns the next record, or (Record{}, false, nil)
// at end of stream. A non-nil error is fatal: the parser's position is left
// just past the offending character and no auto-resync is attempted.
func (p *Parser) NextRecord() (Record, bool, error) {
	if p.closed {
		return Record{}, false, nil
	}

	var fields []string
	var comments []string
	offset := p.lex.Position()
	haveOffset := false

	for {
		preTokenPos := p.lex.Position()
		if err := p.lex.NextToken(&p.tok); err != nil {
			return Record{}, false, asParseError(err)
		}

		switch p.tok.Kind {
		case lexer.KindComment:
			comments = append(comments, p.tok.Value())
		case lexer.KindField:
			if !haveOffset {
				offset, haveOffset = preTokenPos, true
			}
			fields = append(fields, p.tok.Value())
		case lexer.KindEndRecord:
			if !haveOffset {
				offset, haveOffset = preTokenPos, true
			}
			fields = append(fields, p.tok.Value())
			if p.format.IgnoreEmptyLines() && isBlankRecord(fields) {
				fields = nil
				comments = nil
				haveOffset = false
				continue
			}
			return p.finalizeRecord(fields, comments, offset), true, nil
		case lexer.KindEOF:
			if !haveOffset {
				offset, haveOffset = preTokenPos, true
			}
			if p.tok.Value() != "" {
				fields = append(fields, p.tok.Value())
			}
			if len(fields) == 0 {
				p.absorbTrailerComments(comments)
				p.done = true
				return Record{}, false, nil
			}
			p.done = true
			return p.finalizeRecord(fields, comments, offset), true, nil
		}
	}
}

func isBlankRecord(fields []string) bool {
	return len(fields) == 1 && fields[0] == ""
}

func (p *Parser) absorbTrailerComments(lines []string) {
	if len(lines) == 0 {
		return
	}
	if p.trailerC.Len() > 0 {
		p.trailerC.WriteByte('\n')
	}
	p.trailerC.WriteString(strings.Join(lines, "\n"))
	p.hasTrailerC = true
}

func (p *Parser) finalizeRecord(fields, comments []string, offset int64) Record {
	p.recordNum++
	nullString, hasNull := p.format.NullString()
	rec := Record{
		fields:     fields,
		number:     p.recordNum,
		offset:     p.baseOffset + offset,
		header:     p.header,
		nullString: nullString,
		hasNull:    hasNull,
	}
	if len(comments) > 0 {
		rec.comment = strings.Join(comments, "\n")
		rec.hasC = true
	}
	return rec
}

// Records returns a lazy, finite, non-restartable iterator over NextRecord.
// A given Parser's sequence must be driven by a single consumer;
// concurrently ranging over it from two goroutines is a usage error with
// undefined (interleaved) results.
func (p *Parser) Records() func(yield func(Record, error) bool) {
	return func(yield func(Record, error) bool) {
		for {
			rec, ok, err := p.NextRecord()
			if err != nil {
				yield(Record{}, err)
				return
			}
			if !ok {
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// Close closes the underlying reader exactly once. Further calls to
// NextRecord return no record, as if at EOF.
func (p *Parser) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}

func asParseError(err error) error {
	if lexErr, ok := err.(*lexer.Error); ok {
		return &ParseError{Line: lexErr.Line, Position: lexErr.Position, Err: lexErr}
	}
	return err
}
