package csvdialect

import (
	"io"

	"github.com/shapestone/csvdialect/dialect"
)

// Format is the validated dialect configuration that drives every Parser
// and Printer. See the dialect subpackage for its Builder and the
// predefined dialects (dialect.RFC4180, dialect.MySQL, and so on).
type Format = dialect.Format

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldNumber
	fieldCharStream
	fieldByteStream
)

// FieldValue is the tagged variant PrintRecord accepts for a single field:
// plain text, a pre-formatted number (exempt from NonNumeric quoting), a
// character stream copied to the sink without buffering its whole content,
// or a byte stream emitted base64-encoded (between quotes when the format
// has a quote character). A FieldValue may
// additionally be null, independent of its kind.
type FieldValue struct {
	kind   fieldKind
	text   string
	stream io.Reader
	null   bool
}

// Text wraps a plain string field.
func Text(s string) FieldValue { return FieldValue{kind: fieldText, text: s} }

// Number wraps a field whose original value was numeric, exempting it from
// quoting under QuoteNonNumeric. The caller supplies the already-formatted
// text; this package does no numeric formatting of its own.
func Number(s string) FieldValue { return FieldValue{kind: fieldNumber, text: s} }

// CharStream wraps a field whose content is read on demand from r, copied
// to the sink a rune at a time so the printer never buffers the whole
// value in memory.
func CharStream(r io.Reader) FieldValue {
	return FieldValue{kind: fieldCharStream, stream: r}
}

// ByteStream wraps a field whose raw bytes, read on demand from r, are
// base64-encoded and written between quotes, or bare when the format has
// no quote character.
func ByteStream(r io.Reader) FieldValue {
	return FieldValue{kind: fieldByteStream, stream: r}
}

// Null returns the null field value: printed as the format's null-string
// (or the empty string if none is configured), quoted only under QuoteAll.
func Null() FieldValue { return FieldValue{null: true} }
