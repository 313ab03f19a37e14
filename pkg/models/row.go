package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Row is an insertion-ordered record of column values.
// A column can be absent (not touched), present with nil (explicit NULL) or present with a value.
type Row struct {
	keys   []string
	values map[string]interface{}
}

// NewRow creates an empty row
func NewRow() *Row {
	return &Row{values: make(map[string]interface{})}
}

// RowOf creates a row from alternating name/value pairs, keeping their order
func RowOf(pairs ...interface{}) *Row {
	r := NewRow()
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(fmt.Sprint(pairs[i]), pairs[i+1])
	}
	return r
}

// Set puts a value, appending the key if it is new
func (r *Row) Set(key string, value interface{}) *Row {
	if r.values == nil {
		r.values = make(map[string]interface{})
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
	return r
}

// Get returns the value for key and whether the key is present
func (r *Row) Get(key string) (interface{}, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.values[key]
	return v, ok
}

// Value returns the value for key, nil when absent
func (r *Row) Value(key string) interface{} {
	v, _ := r.Get(key)
	return v
}

// Has reports whether key is present, even with a nil value
func (r *Row) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Keys returns the keys in insertion order
func (r *Row) Keys() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of present keys
func (r *Row) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Clone returns a shallow copy
func (r *Row) Clone() *Row {
	c := NewRow()
	if r == nil {
		return c
	}
	for _, k := range r.keys {
		c.Set(k, r.values[k])
	}
	return c
}

// Merge sets every entry of other into r
func (r *Row) Merge(other *Row) *Row {
	if other == nil {
		return r
	}
	for _, k := range other.keys {
		r.Set(k, other.values[k])
	}
	return r
}

// Map returns an unordered copy of the values
func (r *Row) Map() map[string]interface{} {
	m := make(map[string]interface{}, r.Len())
	if r == nil {
		return m
	}
	for k, v := range r.values {
		m[k] = v
	}
	return m
}

// MarshalJSON writes the row as an object with keys in insertion order
func (r *Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal column %s: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keeping key order. JSON null becomes an explicit NULL entry.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("row must be a JSON object")
	}

	r.keys = nil
	r.values = make(map[string]interface{})
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		var v interface{}
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("failed to decode column %s: %w", key, err)
		}
		if n, ok := v.(json.Number); ok {
			v = n.String()
		}
		r.Set(key, v)
	}
	_, err = dec.Token()
	return err
}
