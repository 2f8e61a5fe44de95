package csvdialect

import "strings"

// headerIndex is the immutable, shared header view a Parser builds once and
// every Record it returns afterward points to. Records borrow it rather
// than the Parser itself, so a Record can outlive the Parser's reader
// without keeping it (or any OS resource) alive — the borrow is expressed
// as an ordinary Go pointer, which the garbage collector keeps valid for as
// long as any Record still references it.
type headerIndex struct {
	names    []string // preserves order and duplicates, exactly as supplied
	index    map[string]int
	foldCase bool
}

func newHeaderIndex(names []string, foldCase bool) *headerIndex {
	h := &headerIndex{
		names:    append([]string{}, names...),
		index:    make(map[string]int, len(names)),
		foldCase: foldCase,
	}
	for i, name := range names {
		if name == "" {
			continue
		}
		key := h.key(name)
		if _, exists := h.index[key]; !exists {
			h.index[key] = i
		}
	}
	return h
}

func (h *headerIndex) key(name string) string {
	if h.foldCase {
		return strings.ToLower(name)
	}
	return name
}

func (h *headerIndex) lookup(name string) (int, bool) {
	i, ok := h.index[h.key(name)]
	return i, ok
}

// Record is one logical row: an ordered sequence of field strings plus the
// metadata the parser attaches (record number, starting character offset,
// an optional attached comment) and a borrowed view of the header for
// name-indexed access.
type Record struct {
	fields  []string
	number  int64
	offset  int64
	comment string
	hasC    bool

	header     *headerIndex
	nullString string
	hasNull    bool
}

// Len returns the number of fields in the record.
func (r Record) Len() int { return len(r.fields) }

// Fields returns the record's raw field text, untranslated: a field equal
// to the format's null-string is returned as that literal text, not as a
// null marker. Use Get/GetByName for null-aware access.
func (r Record) Fields() []string {
	out := make([]string, len(r.fields))
	copy(out, r.fields)
	return out
}

// RecordNumber returns the record's 1-based sequence number within its
// parser.
func (r Record) RecordNumber() int64 { return r.number }

// CharacterOffset returns the absolute character offset where the record
// began.
func (r Record) CharacterOffset() int64 { return r.offset }

// Comment returns the comment text attached to this record (joined by LF
// across contiguous comment lines immediately preceding it) and whether one
// was present.
func (r Record) Comment() (string, bool) { return r.comment, r.hasC }

// translate maps a raw field to its null-aware form: nil means the field
// equals the format's configured null-string.
func (r Record) translate(raw string) *string {
	if r.hasNull && raw == r.nullString {
		return nil
	}
	v := raw
	return &v
}

// Get returns the field at the given 0-based index, or nil if that field's
// text equals the format's null-string. err is non-nil when index is out of
// range.
func (r Record) Get(index int) (*string, error) {
	if index < 0 || index >= len(r.fields) {
		return nil, &UsageError{Message: "field index out of range"}
	}
	return r.translate(r.fields[index]), nil
}

// GetByName returns the field mapped to the given header name, honoring the
// format's case-folding policy, or nil if that field's text equals the
// format's null-string. err is non-nil when no header is mapped to name, or
// when the record does not have that many fields.
func (r Record) GetByName(name string) (*string, error) {
	if r.header == nil {
		return nil, &UsageError{Message: "no header configured"}
	}
	i, ok := r.header.lookup(name)
	if !ok {
		return nil, &UsageError{Message: "column not mapped: " + name}
	}
	if i >= len(r.fields) {
		return nil, &UsageError{Message: "record has no field for column: " + name}
	}
	return r.translate(r.fields[i]), nil
}

// IsMapped reports whether name is a column in the header, a pure predicate
// on the header map with no dependency on this record's field count.
func (r Record) IsMapped(name string) bool {
	if r.header == nil {
		return false
	}
	_, ok := r.header.lookup(name)
	return ok
}

// IsSet reports whether name is mapped in the header AND this record has
// that many fields.
func (r Record) IsSet(name string) bool {
	if r.header == nil {
		return false
	}
	i, ok := r.header.lookup(name)
	return ok && i < len(r.fields)
}

// IsConsistent reports whether the record's field count matches the header
// length. Always true when no header is configured.
func (r Record) IsConsistent() bool {
	if r.header == nil {
		return true
	}
	return len(r.fields) == len(r.header.names)
}
