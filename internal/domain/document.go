package domain

import (
	"strconv"
	"time"
)

// FieldKind tags the value variant carried by a Field.
type FieldKind int

const (
	// FieldText is a UTF-8 text value.
	FieldText FieldKind = iota

	// FieldBytes is an opaque byte value, stored verbatim and never tokenized.
	FieldBytes

	// FieldDateTime is a point in time, indexed as a sortable numeric
	// ordinal so range queries work.
	FieldDateTime
)

// Field is a named, typed piece of data within an index document.
// Each field is independently markable as stored, indexed and tokenized.
type Field struct {
	Name string

	Kind  FieldKind
	Text  string
	Bytes []byte
	Time  time.Time

	Stored    bool
	Indexed   bool
	Tokenized bool
}

// NewTextField returns a stored, indexed, tokenized text field.
func NewTextField(name, value string) Field {
	return Field{
		Name:      name,
		Kind:      FieldText,
		Text:      value,
		Stored:    true,
		Indexed:   true,
		Tokenized: true,
	}
}

// NewKeywordField returns a stored, indexed text field whose value is
// treated as a single term (not tokenized).
func NewKeywordField(name, value string) Field {
	return Field{
		Name:    name,
		Kind:    FieldText,
		Text:    value,
		Stored:  true,
		Indexed: true,
	}
}

// NewBytesField returns a stored-only raw byte field.
func NewBytesField(name string, value []byte) Field {
	return Field{
		Name:   name,
		Kind:   FieldBytes,
		Bytes:  value,
		Stored: true,
	}
}

// NewDateTimeField returns a stored, indexed datetime field. The value is
// indexed as a numeric ordinal (UTC nanoseconds since the Unix epoch).
func NewDateTimeField(name string, value time.Time) Field {
	return Field{
		Name:    name,
		Kind:    FieldDateTime,
		Time:    value,
		Stored:  true,
		Indexed: true,
	}
}

// IndexDocument is one indexable unit submitted to an index, keyed by an
// external integer identifier. The identifier doubles as the deletion key:
// every finalized document carries exactly one IDFieldName field holding
// its string form.
type IndexDocument struct {
	DocumentID int64
	Fields     []Field
}

// Key returns the string form of the external identifier, as it appears in
// the deletion-key field.
func (d IndexDocument) Key() string {
	return strconv.FormatInt(d.DocumentID, 10)
}

// IDFieldName is the reserved deletion-key field present on every document.
const IDFieldName = "id"
