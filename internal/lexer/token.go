package lexer

import "fmt"

// Kind identifies what a Token represents.
type Kind int

const (
	// kindNone is the Lexer's internal "nothing emitted yet" sentinel; it is
	// never assigned to a Token.
	kindNone Kind = iota
	// KindField marks a completed field with more fields to follow in the
	// current record.
	KindField
	// KindEndRecord marks a completed field that ends its record.
	KindEndRecord
	// KindComment marks a comment line's body.
	KindComment
	// KindEOF marks end of stream. Content, if non-empty, is the trailing
	// content of the final field of the final record.
	KindEOF
)

func (k Kind) String() string {
	switch k {
	case KindField:
		return "TOKEN"
	case KindEndRecord:
		return "EORECORD"
	case KindComment:
		return "COMMENT"
	case KindEOF:
		return "EOF"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token is the lexer's scratch output. A single instance is meant to be
// reused across calls to Lexer.NextToken to avoid allocation: callers must
// consume a Token's Value before the next call overwrites it.
type Token struct {
	Kind    Kind
	Content []rune
	IsReady bool
}

// Value returns the token's text content.
func (t *Token) Value() string {
	return string(t.Content)
}

// set overwrites the token in place, reusing Content's backing array when it
// has enough capacity.
func (t *Token) set(kind Kind, content []rune) {
	t.Kind = kind
	t.Content = append(t.Content[:0], content...)
	t.IsReady = true
}
