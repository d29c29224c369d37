package form

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Value is a projected field value: either a string or a list of strings.
type Value struct {
	text   string
	items  []string
	isList bool
}

// Text wraps a string value.
func Text(value string) Value {
	return Value{text: value}
}

// List wraps a list value. A nil list projects as an empty list.
func List(items ...string) Value {
	return Value{items: append([]string{}, items...), isList: true}
}

// IsList reports whether the value is a list.
func (v Value) IsList() bool {
	return v.isList
}

// Items returns a copy of the list items; nil for text values.
func (v Value) Items() []string {
	if !v.isList {
		return nil
	}
	return append([]string{}, v.items...)
}

// String renders the value as text, joining list items with ", ".
func (v Value) String() string {
	if v.isList {
		return strings.Join(v.items, ", ")
	}
	return v.text
}

// Equal lets go-cmp compare values without reaching into unexported fields.
func (v Value) Equal(other Value) bool {
	if v.isList != other.isList {
		return false
	}
	if !v.isList {
		return v.text == other.text
	}
	if len(v.items) != len(other.items) {
		return false
	}
	for i := range v.items {
		if v.items[i] != other.items[i] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes text as a JSON string and lists as string arrays,
// leaving HTML characters unescaped.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.isList {
		return encodeJSON(v.items)
	}
	return encodeJSON(v.text)
}

// UnmarshalJSON accepts a string or an array of strings.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []string
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*v = List(items...)
		return nil
	}
	var text string
	if err := json.Unmarshal(trimmed, &text); err != nil {
		return err
	}
	*v = Text(text)
	return nil
}

// Entry is one key/value pair of a projection.
type Entry struct {
	Key   string
	Value Value
}

// OrderedRecord is the flat export-ready mapping, in record declaration
// order.
type OrderedRecord []Entry

// Get looks up a key.
func (o OrderedRecord) Get(key string) (Value, bool) {
	for _, entry := range o {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return Value{}, false
}

// Keys lists the keys in order.
func (o OrderedRecord) Keys() []string {
	out := make([]string, 0, len(o))
	for _, entry := range o {
		out = append(out, entry.Key)
	}
	return out
}

// Map converts the projection into plain Go values (string or []string).
func (o OrderedRecord) Map() map[string]any {
	out := make(map[string]any, len(o))
	for _, entry := range o {
		if entry.Value.IsList() {
			out[entry.Key] = entry.Value.Items()
			continue
		}
		out[entry.Key] = entry.Value.String()
	}
	return out
}

// MarshalJSON writes a single flat object preserving entry order.
func (o OrderedRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := encodeJSON(entry.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := entry.Value.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("form: encode %s: %w", entry.Key, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a flat object, keeping the key order of the payload.
func (o *OrderedRecord) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("form: projection must be a JSON object")
	}

	var out OrderedRecord
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("form: unexpected token %v", tok)
		}
		var value Value
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("form: decode %s: %w", key, err)
		}
		out = append(out, Entry{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*o = out
	return nil
}

// Project derives the export-ready mapping from the current record:
//   - autoriaEspecificar is dropped;
//   - autoria becomes "<autoria>: <autoriaEspecificar>" when autoria is set,
//     is not the sentinel, and the specifier is not blank;
//   - checkbox groups become the list of true keys in declared order.
func (s *Store) Project() OrderedRecord {
	rec := s.record
	out := make(OrderedRecord, 0, len(declarationOrder)-1)

	for _, field := range declarationOrder {
		switch field {
		case FieldAutoriaEspecificar:
			continue
		case FieldAutoria:
			out = append(out, Entry{Key: string(field), Value: Text(projectAuthorship(rec))})
			continue
		}

		switch field.Kind() {
		case KindScalar:
			value, _ := rec.Scalar(field)
			out = append(out, Entry{Key: string(field), Value: Text(value)})
		case KindSet:
			out = append(out, Entry{Key: string(field), Value: List(rec.Materias...)})
		case KindFlags:
			group, _ := field.Group()
			flags, _ := rec.Flags(group)
			out = append(out, Entry{Key: string(field), Value: List(flags.Selected()...)})
		}
	}
	return out
}

func projectAuthorship(rec Record) string {
	if rec.Autoria == "" || rec.Autoria == AuthorshipSentinel {
		return rec.Autoria
	}
	if strings.TrimSpace(rec.AutoriaEspecificar) == "" {
		return rec.Autoria
	}
	return rec.Autoria + ": " + rec.AutoriaEspecificar
}

func encodeJSON(value any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
