// Package lexer implements the dialect-driven state machine that turns a
// character stream into a Token stream: field, end-of-record, comment, or
// end-of-file. It is the only piece of the pipeline that understands quote
// and escape rules; the parser that drives it only assembles whatever
// tokens come out.
package lexer

import (
	"fmt"

	"github.com/shapestone/csvdialect/dialect"
	"github.com/shapestone/csvdialect/internal/charreader"
)

// Error reports a malformed quote, an escape at end of input, or illegal
// trailing data, with the line and character position the reader observed
// when the problem was found. It is fatal for the current token: the
// parser does not auto-resynchronize after one.
type Error struct {
	Line     int
	Position int64
	Message  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("csv: line %d, position %d: %s", e.Line, e.Position, e.Message)
}

// Lexer consumes a charreader.Reader under the rules of a dialect.Format and
// produces Tokens. A Lexer is single-use and single-threaded: it is driven
// by exactly one parser, pulling one token at a time.
type Lexer struct {
	r      *charreader.Reader
	format dialect.Format

	delim []rune

	lastKind Kind
	firstEOL string
}

// New returns a Lexer reading from r under format.
func New(r *charreader.Reader, format dialect.Format) *Lexer {
	return &Lexer{
		r:      r,
		format: format,
		delim:  []rune(format.Delimiter()),
	}
}

// FirstEndOfLine returns the first record-terminator sequence encountered
// in the stream ("\n", "\r", or "\r\n"), or "" if none has been seen yet.
func (l *Lexer) FirstEndOfLine() string {
	return l.firstEOL
}

// LineNumber returns the 1-based line the reader is currently positioned at.
func (l *Lexer) LineNumber() int {
	return l.r.GetLineNumber()
}

// Position returns the absolute character offset the reader has consumed.
func (l *Lexer) Position() int64 {
	return l.r.GetPosition()
}

// NextToken scans the next token into reuse, which the caller owns and must
// have consumed before calling again. Returns a non-nil error only for a
// fatal lex error (malformed quoting, escape at EOF, illegal trailing data).
func (l *Lexer) NextToken(reuse *Token) error {
	for l.format.IgnoreEmptyLines() && l.atLineStart() && l.absorbBlankLine() {
	}

	commentChar, hasComment := l.format.CommentMarker()
	if hasComment && l.atLineStart() && l.r.Peek() == commentChar {
		return l.scanComment(reuse)
	}

	if l.r.Peek() == charreader.EOF {
		reuse.set(KindEOF, nil)
		l.lastKind = KindEOF
		return nil
	}

	return l.scanField(reuse)
}

// atLineStart reports whether the reader sits where a comment marker or a
// blank line would be recognized: at the very start of the stream, just
// after a terminator, or just after a record/comment token.
func (l *Lexer) atLineStart() bool {
	last := l.r.GetLastChar()
	if last == charreader.Undefined || last == '\r' || last == '\n' {
		return true
	}
	return l.lastKind == KindEndRecord || l.lastKind == KindComment
}

// absorbBlankLine consumes one leading terminator sequence and reports
// whether it did, so the caller can keep absorbing contiguous blank lines.
func (l *Lexer) absorbBlankLine() bool {
	switch l.r.Peek() {
	case '\r':
		l.r.Read()
		eol := "\r"
		if l.r.Peek() == '\n' {
			l.r.Read()
			eol = "\r\n"
		}
		l.recordFirstEOL(eol)
		return true
	case '\n':
		l.r.Read()
		l.recordFirstEOL("\n")
		return true
	default:
		return false
	}
}

func (l *Lexer) recordFirstEOL(eol string) {
	if l.firstEOL == "" {
		l.firstEOL = eol
	}
}

// scanComment consumes a comment marker through the next terminator (or
// EOF), trims one leading space, and emits a COMMENT token.
func (l *Lexer) scanComment(tok *Token) error {
	l.r.Read() // consume the marker
	var body []rune
	for {
		c := l.r.Peek()
		switch c {
		case charreader.EOF:
			tok.set(KindComment, trimOneLeadingSpace(body))
			l.lastKind = KindComment
			return nil
		case '\r':
			l.r.Read()
			eol := "\r"
			if l.r.Peek() == '\n' {
				l.r.Read()
				eol = "\r\n"
			}
			l.recordFirstEOL(eol)
			tok.set(KindComment, trimOneLeadingSpace(body))
			l.lastKind = KindComment
			return nil
		case '\n':
			l.r.Read()
			l.recordFirstEOL("\n")
			tok.set(KindComment, trimOneLeadingSpace(body))
			l.lastKind = KindComment
			return nil
		default:
			l.r.Read()
			body = append(body, c)
		}
	}
}

func trimOneLeadingSpace(body []rune) []rune {
	if len(body) > 0 && body[0] == ' ' {
		return body[1:]
	}
	return body
}

// scanField scans either an unquoted or a quoted field, dispatching on
// whether a quote opens it, and emits TOKEN, EORECORD, or EOF.
func (l *Lexer) scanField(tok *Token) error {
	quoteChar, hasQuote := l.format.QuoteChar()
	ignoreSpaces := l.format.IgnoreSurroundingSpaces()

	if ignoreSpaces {
		for isSpaceOrTab(l.r.Peek()) {
			if string(l.r.PeekN(len(l.delim))) == string(l.delim) {
				break // the delimiter itself (e.g. a tab) ends an empty field
			}
			l.r.Read()
		}
	}

	if hasQuote && l.r.Peek() == quoteChar {
		l.r.Read() // consume opening quote
		return l.scanQuoted(tok)
	}

	return l.scanUnquoted(tok, ignoreSpaces)
}

func isSpaceOrTab(r rune) bool {
	return r == ' ' || r == '\t'
}

// scanUnquoted implements spec §4.2.2: delimiter match, record terminator,
// escape translation, a mid-field quote treated as content, and EOF.
func (l *Lexer) scanUnquoted(tok *Token, trimTrailing bool) error {
	escapeChar, hasEscape := l.format.EscapeChar()
	var content []rune

	for {
		if l.tryConsumeDelimiter() {
			tok.set(KindField, maybeTrim(content, trimTrailing))
			l.lastKind = KindField
			return nil
		}

		c := l.r.Peek()
		switch {
		case c == charreader.EOF:
			tok.set(KindEOF, maybeTrim(content, trimTrailing))
			l.lastKind = KindEOF
			return nil
		case c == '\r':
			l.r.Read()
			eol := "\r"
			if l.r.Peek() == '\n' {
				l.r.Read()
				eol = "\r\n"
			}
			l.recordFirstEOL(eol)
			tok.set(KindEndRecord, maybeTrim(content, trimTrailing))
			l.lastKind = KindEndRecord
			return nil
		case c == '\n':
			l.r.Read()
			l.recordFirstEOL("\n")
			tok.set(KindEndRecord, maybeTrim(content, trimTrailing))
			l.lastKind = KindEndRecord
			return nil
		case hasEscape && c == escapeChar:
			l.r.Read()
			esc, err := l.readEscape()
			if err != nil {
				return err
			}
			content = append(content, esc...)
		default:
			l.r.Read()
			content = append(content, c)
		}
	}
}

func maybeTrim(content []rune, trim bool) []rune {
	if !trim {
		return content
	}
	end := len(content)
	for end > 0 && isSpaceOrTab(content[end-1]) {
		end--
	}
	return content[:end]
}

// tryConsumeDelimiter consumes the configured delimiter if it starts at the
// current position, and reports whether it did. On a partial match nothing
// is consumed, so the caller falls through to treating the first character
// as content, per spec §4.2.2 rule 1.
func (l *Lexer) tryConsumeDelimiter() bool {
	ahead := l.r.PeekN(len(l.delim))
	if len(ahead) < len(l.delim) {
		return false
	}
	for i, want := range l.delim {
		if ahead[i] != want {
			return false
		}
	}
	for range l.delim {
		l.r.Read()
	}
	return true
}

// readEscape consumes the character after an escape char and returns its
// translation: the standard C-style letters map to control characters; the
// MySQL null marker escape,N passes through as both characters literally;
// everything else (including the escape char, the quote char, the
// delimiter, and line breaks) is appended verbatim without the escape char.
func (l *Lexer) readEscape() ([]rune, error) {
	c := l.r.Peek()
	if c == charreader.EOF {
		return nil, &Error{Line: l.r.GetLineNumber(), Position: l.r.GetPosition(), Message: "escape character at end of input"}
	}
	l.r.Read()
	switch c {
	case 'r':
		return []rune{'\r'}, nil
	case 'n':
		return []rune{'\n'}, nil
	case 't':
		return []rune{'\t'}, nil
	case 'b':
		return []rune{'\b'}, nil
	case 'f':
		return []rune{'\f'}, nil
	case 'N':
		escapeChar, _ := l.format.EscapeChar()
		return []rune{escapeChar, 'N'}, nil
	default:
		return []rune{c}, nil
	}
}

// scanQuoted implements spec §4.2.3: doubled-quote escaping, in-quote
// escape translation, line terminators as content, and the four ways a
// closing quote can be followed (delimiter, terminator, whitespace then
// one of those, or trailing data).
func (l *Lexer) scanQuoted(tok *Token) error {
	quoteChar, _ := l.format.QuoteChar()
	escapeChar, hasEscape := l.format.EscapeChar()
	var content []rune

	for {
		c := l.r.Peek()
		switch {
		case c == charreader.EOF:
			if l.format.LenientEOF() {
				tok.set(KindEOF, content)
				l.lastKind = KindEOF
				return nil
			}
			return &Error{Line: l.r.GetLineNumber(), Position: l.r.GetPosition(), Message: "EOF reached before closing quote"}
		case hasEscape && escapeChar != quoteChar && c == escapeChar:
			l.r.Read()
			esc, err := l.readEscape()
			if err != nil {
				return err
			}
			content = append(content, esc...)
		case c == quoteChar:
			l.r.Read()
			if l.r.Peek() == quoteChar {
				l.r.Read()
				content = append(content, quoteChar)
				continue
			}
			return l.afterClosingQuote(tok, content)
		default:
			l.r.Read()
			content = append(content, c)
		}
	}
}

// afterClosingQuote resolves what follows a closing quote: a delimiter or
// terminator ends the field immediately; whitespace followed by one of
// those is dropped; anything else is either folded into the field
// (TrailingData) or a fatal error.
func (l *Lexer) afterClosingQuote(tok *Token, content []rune) error {
	if l.tryConsumeDelimiter() {
		tok.set(KindField, content)
		l.lastKind = KindField
		return nil
	}
	if done, err := l.tryConsumeTerminator(tok, content); done {
		return err
	}

	if l.r.Peek() == charreader.EOF {
		tok.set(KindEOF, content)
		l.lastKind = KindEOF
		return nil
	}

	if isSpaceOrTab(l.r.Peek()) {
		lookahead := l.r.PeekN(maxLookahead)
		end := 0
		for end < len(lookahead) && isSpaceOrTab(lookahead[end]) {
			end++
		}
		if end < len(lookahead) || len(lookahead) < maxLookahead {
			// A delimiter, terminator, or EOF follows the whitespace run
			// (or the run reaches end of stream): drop the whitespace.
			if boundaryFollowsWhitespace(lookahead, end, l.delim) || end == len(lookahead) {
				for i := 0; i < end; i++ {
					l.r.Read()
				}
				if l.tryConsumeDelimiter() {
					tok.set(KindField, content)
					l.lastKind = KindField
					return nil
				}
				if done, err := l.tryConsumeTerminator(tok, content); done {
					return err
				}
				tok.set(KindEOF, content)
				l.lastKind = KindEOF
				return nil
			}
		}
	}

	if l.format.TrailingData() {
		for {
			if l.tryConsumeDelimiter() {
				tok.set(KindField, content)
				l.lastKind = KindField
				return nil
			}
			if done, err := l.tryConsumeTerminator(tok, content); done {
				return err
			}
			c := l.r.Peek()
			if c == charreader.EOF {
				tok.set(KindEOF, content)
				l.lastKind = KindEOF
				return nil
			}
			l.r.Read()
			content = append(content, c)
		}
	}

	return &Error{Line: l.r.GetLineNumber(), Position: l.r.GetPosition(), Message: "data found after close quote"}
}

// maxLookahead bounds the whitespace-run lookahead performed after a
// closing quote; dialects in practice never pad a field with more than a
// handful of spaces before the real delimiter.
const maxLookahead = 256

// boundaryFollowsWhitespace reports whether the rune just past a whitespace
// run (lookahead[end]) starts the delimiter or a terminator.
func boundaryFollowsWhitespace(lookahead []rune, end int, delim []rune) bool {
	if end >= len(lookahead) {
		return true
	}
	next := lookahead[end]
	if next == '\r' || next == '\n' {
		return true
	}
	if end+len(delim) > len(lookahead) {
		return false
	}
	for i, want := range delim {
		if lookahead[end+i] != want {
			return false
		}
	}
	return true
}

// tryConsumeTerminator consumes a CR, LF, or CRLF terminator if present and
// emits an EORECORD token. done is false when no terminator was present.
func (l *Lexer) tryConsumeTerminator(tok *Token, content []rune) (done bool, err error) {
	switch l.r.Peek() {
	case '\r':
		l.r.Read()
		eol := "\r"
		if l.r.Peek() == '\n' {
			l.r.Read()
			eol = "\r\n"
		}
		l.recordFirstEOL(eol)
		tok.set(KindEndRecord, content)
		l.lastKind = KindEndRecord
		return true, nil
	case '\n':
		l.r.Read()
		l.recordFirstEOL("\n")
		tok.set(KindEndRecord, content)
		l.lastKind = KindEndRecord
		return true, nil
	default:
		return false, nil
	}
}
