// Package imageref turns the stored, inconsistently encoded image column of a
// book into a clean ordered list of absolute image URLs.
package imageref

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type encodingKind int

const (
	kindAbsent encodingKind = iota
	kindText
	kindList
)

// Encoding is the raw, untrusted image-list value as it was persisted.
// It is exactly one of: absent, a literal text value, or a sequence of texts.
// The zero value is absent.
type Encoding struct {
	kind  encodingKind
	text  string
	items []string
}

// Absent returns the encoding of a missing image column.
func Absent() Encoding {
	return Encoding{kind: kindAbsent}
}

// Text returns the encoding of a single stored text value. The text may be a
// bare URL, a JSON document serialised any number of times, or garbage.
func Text(s string) Encoding {
	return Encoding{kind: kindText, text: s}
}

// List returns the encoding of an already materialised sequence of texts.
// Individual items may themselves be further encoded.
func List(items []string) Encoding {
	cp := make([]string, len(items))
	copy(cp, items)
	return Encoding{kind: kindList, items: cp}
}

// IsAbsent reports whether the encoding carries no value at all.
func (e Encoding) IsAbsent() bool {
	return e.kind == kindAbsent
}

// String renders the encoding as text, the way it would be coerced when
// scanning it for embedded URLs.
func (e Encoding) String() string {
	switch e.kind {
	case kindText:
		return e.text
	case kindList:
		b, err := json.Marshal(e.items)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return ""
	}
}

// Scan implements sql.Scanner so the images column can be scanned directly.
func (e *Encoding) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*e = Absent()
	case string:
		*e = Text(v)
	case []byte:
		*e = Text(string(v))
	case []string:
		*e = List(v)
	default:
		return fmt.Errorf("imageref: cannot scan %T into Encoding", src)
	}
	return nil
}

// UnmarshalJSON accepts null, a JSON string, or a JSON array of strings.
// Any other JSON value is kept as literal text so it can still be searched
// for embedded URLs.
func (e *Encoding) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*e = Absent()
		return nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		*e = Text(s)
		return nil
	}

	var items []string
	if err := json.Unmarshal(trimmed, &items); err == nil {
		*e = List(items)
		return nil
	}

	*e = Text(string(trimmed))
	return nil
}

// MarshalJSON writes the encoding back in its own shape.
func (e Encoding) MarshalJSON() ([]byte, error) {
	switch e.kind {
	case kindText:
		return json.Marshal(e.text)
	case kindList:
		return json.Marshal(e.items)
	default:
		return []byte("null"), nil
	}
}
