package csvdialect

import (
	"bufio"
	"encoding/base64"
	"io"

	"github.com/shapestone/csvdialect/dialect"
)

// Printer emits records to a character sink under a Format's quoting and
// escaping policy. A Printer is not safe for concurrent field emission;
// each PrintRecord call is atomic from the point of view of the sink's
// content.
type Printer struct {
	w      *bufio.Writer
	sink   io.Writer
	closer io.Closer
	format Format

	recordNum int64
	closed    bool
}

// NewPrinter returns a Printer writing to w under format. If format carries
// header comments and a comment marker, each comment line is written
// immediately, followed by the header row (unless SkipHeaderRecord).
func NewPrinter(w io.Writer, format Format) (*Printer, error) {
	p := &Printer{
		w:      bufio.NewWriter(w),
		sink:   w,
		format: format,
	}
	if c, ok := w.(io.Closer); ok {
		p.closer = c
	}

	if commentChar, hasComment := format.CommentMarker(); hasComment {
		for _, line := range format.HeaderComments() {
			if err := p.writeComment(commentChar, line); err != nil {
				return nil, err
			}
		}
	}

	if format.HeaderMode() == dialect.HeaderExplicit && !format.SkipHeaderRecord() {
		names := format.HeaderNames()
		fields := make([]FieldValue, len(names))
		for i, n := range names {
			fields[i] = Text(n)
		}
		if err := p.PrintRecord(fields...); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (p *Printer) writeComment(marker rune, line string) error {
	if _, err := p.w.WriteRune(marker); err != nil {
		return err
	}
	if _, err := p.w.WriteRune(' '); err != nil {
		return err
	}
	if _, err := p.w.WriteString(line); err != nil {
		return err
	}
	return p.writeRecordSeparator()
}

// PrintComment writes a standalone comment line. It is a usage error to
// call it on a Format with no comment marker configured.
func (p *Printer) PrintComment(line string) error {
	marker, hasComment := p.format.CommentMarker()
	if !hasComment {
		return &UsageError{Message: "PrintComment called with no comment marker configured"}
	}
	return p.writeComment(marker, line)
}

// PrintRecord writes one record: fields in order (delimiter-separated), an
// extra trailing delimiter if TrailingDelimiter is set, then the record
// separator (or, when none is configured, a delimiter join with whatever
// record follows instead of a trailing terminator).
func (p *Printer) PrintRecord(fields ...FieldValue) error {
	if p.closed {
		return &UsageError{Message: "PrintRecord called after Close"}
	}

	if _, hasSep := p.format.RecordSeparator(); !hasSep && p.recordNum > 0 {
		if _, err := p.w.WriteString(p.format.Delimiter()); err != nil {
			return err
		}
	}

	for i, fv := range fields {
		if i > 0 {
			if _, err := p.w.WriteString(p.format.Delimiter()); err != nil {
				return err
			}
		}
		if err := p.emitField(fv, i == 0); err != nil {
			return err
		}
	}

	if p.format.TrailingDelimiter() {
		if _, err := p.w.WriteString(p.format.Delimiter()); err != nil {
			return err
		}
	}

	if err := p.writeRecordSeparator(); err != nil {
		return err
	}

	p.recordNum++
	return nil
}

func (p *Printer) writeRecordSeparator() error {
	if sep, has := p.format.RecordSeparator(); has {
		_, err := p.w.WriteString(sep)
		return err
	}
	return nil
}

func (p *Printer) emitField(fv FieldValue, firstField bool) error {
	if fv.null {
		nullString, _ := p.format.NullString()
		_, hasQuote := p.format.QuoteChar()
		if hasQuote && p.format.QuoteMode() == dialect.QuoteAll {
			return p.emitQuoted(nullString)
		}
		// Written bare: the null marker must stay byte-identical on the wire
		// so a data value that happens to collide with it (escaped on output)
		// can never be mistaken for a real null on read-back.
		_, err := p.w.WriteString(nullString)
		return err
	}

	switch fv.kind {
	case fieldCharStream:
		return p.emitCharStream(fv.stream)
	case fieldByteStream:
		return p.emitByteStream(fv.stream)
	}

	text := fv.text
	if p.format.Trim() {
		text = trimBelowSpace(text)
	}
	quote := p.shouldQuote(text, fv.kind == fieldNumber, firstField)
	return p.emitText(text, quote)
}

func trimBelowSpace(s string) string {
	runes := []rune(s)
	start, end := 0, len(runes)
	for start < end && runes[start] <= ' ' {
		start++
	}
	for end > start && runes[end-1] <= ' ' {
		end--
	}
	return string(runes[start:end])
}

func (p *Printer) shouldQuote(value string, isNumeric, firstField bool) bool {
	if _, hasQuote := p.format.QuoteChar(); !hasQuote {
		// A quote-requesting mode with no quote character configured (the
		// MySQL and PostgreSQL text dialects run ALL_NON_NULL this way)
		// falls back to escaping instead; see emitText.
		return false
	}
	switch p.format.QuoteMode() {
	case dialect.QuoteAll, dialect.QuoteAllNonNull:
		return true
	case dialect.QuoteNonNumeric:
		return !isNumeric
	case dialect.QuoteNone:
		return false
	default: // QuoteMinimal
		return p.needsMinimalQuoting(value, firstField)
	}
}

func (p *Printer) needsMinimalQuoting(value string, firstField bool) bool {
	if value == "" {
		return firstField
	}
	runes := []rune(value)
	if runes[0] <= '#' {
		return true
	}
	quoteChar, hasQuote := p.format.QuoteChar()
	escapeChar, hasEscape := p.format.EscapeChar()
	delim := []rune(p.format.Delimiter())
	for i, r := range runes {
		if r == '\r' || r == '\n' {
			return true
		}
		if hasQuote && r == quoteChar {
			return true
		}
		if hasEscape && r == escapeChar {
			return true
		}
		if matchesAt(runes, i, delim) {
			return true
		}
	}
	if runes[len(runes)-1] <= ' ' {
		return true
	}
	return false
}

func matchesAt(runes []rune, i int, delim []rune) bool {
	if i+len(delim) > len(runes) {
		return false
	}
	for j, want := range delim {
		if runes[i+j] != want {
			return false
		}
	}
	return true
}

// emitText writes value either quoted (doubling the quote char and, when
// distinct, the escape char), or, when an escape character is configured and
// quoting was not chosen (QuoteNone, or no quote character at all, as in the
// MySQL and PostgreSQL text dialects), with special characters individually
// escaped; otherwise verbatim.
func (p *Printer) emitText(value string, quote bool) error {
	if quote {
		return p.emitQuoted(value)
	}
	if _, hasEscape := p.format.EscapeChar(); hasEscape {
		return p.emitEscaped(value)
	}
	_, err := p.w.WriteString(value)
	return err
}

func (p *Printer) emitQuoted(value string) error {
	quoteChar, _ := p.format.QuoteChar()
	escapeChar, hasEscape := p.format.EscapeChar()

	if _, err := p.w.WriteRune(quoteChar); err != nil {
		return err
	}
	for _, r := range value {
		if r == quoteChar || (hasEscape && r == escapeChar) {
			if _, err := p.w.WriteRune(r); err != nil {
				return err
			}
		}
		if _, err := p.w.WriteRune(r); err != nil {
			return err
		}
	}
	_, err := p.w.WriteRune(quoteChar)
	return err
}

func (p *Printer) emitEscaped(value string) error {
	escapeChar, _ := p.format.EscapeChar()
	delim := []rune(p.format.Delimiter())

	for _, r := range value {
		switch {
		case r == '\r':
			if err := p.writeEscapedPair(escapeChar, 'r'); err != nil {
				return err
			}
		case r == '\n':
			if err := p.writeEscapedPair(escapeChar, 'n'); err != nil {
				return err
			}
		case r == escapeChar:
			if err := p.writeEscapedPair(escapeChar, escapeChar); err != nil {
				return err
			}
		case runeIn(r, delim):
			if err := p.writeEscapedPair(escapeChar, r); err != nil {
				return err
			}
		default:
			if _, err := p.w.WriteRune(r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Printer) writeEscapedPair(escapeChar, r rune) error {
	if _, err := p.w.WriteRune(escapeChar); err != nil {
		return err
	}
	_, err := p.w.WriteRune(r)
	return err
}

func runeIn(r rune, set []rune) bool {
	for _, s := range set {
		if r == s {
			return true
		}
	}
	return false
}

// emitCharStream copies r to the sink without buffering its whole content:
// quoted (doubling the quote char, and the escape char when configured, as
// it streams by) when the dialect
// quotes at all, escaped on the fly otherwise.
func (p *Printer) emitCharStream(r io.Reader) error {
	quoteChar, hasQuote := p.format.QuoteChar()
	if !hasQuote {
		return p.streamEscaped(r)
	}
	if _, err := p.w.WriteRune(quoteChar); err != nil {
		return err
	}
	escapeChar, hasEscape := p.format.EscapeChar()
	br := newRuneScanner(r)
	for {
		ch, ok, err := br.next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if ch == quoteChar || (hasEscape && ch == escapeChar) {
			if _, err := p.w.WriteRune(ch); err != nil {
				return err
			}
		}
		if _, err := p.w.WriteRune(ch); err != nil {
			return err
		}
	}
	_, err := p.w.WriteRune(quoteChar)
	return err
}

func (p *Printer) streamEscaped(r io.Reader) error {
	escapeChar, _ := p.format.EscapeChar()
	delim := []rune(p.format.Delimiter())
	sc := newRuneScanner(r)
	for {
		ch, ok, err := sc.next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		switch {
		case ch == '\r':
			if err := p.writeEscapedPair(escapeChar, 'r'); err != nil {
				return err
			}
		case ch == '\n':
			if err := p.writeEscapedPair(escapeChar, 'n'); err != nil {
				return err
			}
		case ch == escapeChar:
			if err := p.writeEscapedPair(escapeChar, escapeChar); err != nil {
				return err
			}
		case runeIn(ch, delim):
			if err := p.writeEscapedPair(escapeChar, ch); err != nil {
				return err
			}
		default:
			if _, err := p.w.WriteRune(ch); err != nil {
				return err
			}
		}
	}
}

// emitByteStream base64-encodes r's raw bytes, between quotes when the
// format has a quote character and bare otherwise, streaming through an
// encoding/base64 writer rather than buffering the value.
func (p *Printer) emitByteStream(r io.Reader) error {
	quoteChar, hasQuote := p.format.QuoteChar()
	if hasQuote {
		if _, err := p.w.WriteRune(quoteChar); err != nil {
			return err
		}
	}
	enc := base64.NewEncoder(base64.StdEncoding, p.w)
	if _, err := io.Copy(enc, r); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	if hasQuote {
		_, err := p.w.WriteRune(quoteChar)
		return err
	}
	return nil
}

// runeScanner adapts an arbitrary io.Reader to rune-at-a-time reads for the
// streaming field paths, without requiring the caller's reader to implement
// io.RuneReader itself.
type runeScanner struct {
	br *bufio.Reader
}

func newRuneScanner(r io.Reader) *runeScanner {
	if br, ok := r.(*bufio.Reader); ok {
		return &runeScanner{br: br}
	}
	return &runeScanner{br: bufio.NewReader(r)}
}

func (s *runeScanner) next() (rune, bool, error) {
	ch, _, err := s.br.ReadRune()
	if err == io.EOF {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return ch, true, nil
}

// Close drains the printer's own write buffer (always, so no written record
// is silently lost), additionally flushes the underlying sink when
// AutoFlush is set and the sink exposes a Flush method, and closes the sink
// exactly once. Idempotent: calling Close again is a no-op.
func (p *Printer) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	if err := p.w.Flush(); err != nil {
		return err
	}
	if p.format.AutoFlush() {
		if f, ok := p.sink.(interface{ Flush() error }); ok {
			if err := f.Flush(); err != nil {
				return err
			}
		}
	}
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}
