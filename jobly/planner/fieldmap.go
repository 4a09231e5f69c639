package planner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// FieldMap is an insertion-ordered mapping of logical field names to new
// values. Order decides placeholder numbering in CompilePartialUpdate.
// The zero value is an empty map ready to use.
type FieldMap struct {
	keys   []string
	values map[string]any
}

// NewFieldMap builds a FieldMap from alternating key, value pairs.
func NewFieldMap(kv ...any) *FieldMap {
	m := &FieldMap{}
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("planner: NewFieldMap key %d is %T, not string", i/2, kv[i]))
		}
		m.Set(key, kv[i+1])
	}
	return m
}

// Set assigns v to key. A key that is already present keeps its position.
func (m *FieldMap) Set(key string, v any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

func (m *FieldMap) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

func (m *FieldMap) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

func (m *FieldMap) Delete(key string) {
	if !m.Has(key) {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

func (m *FieldMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Clone returns an independent copy with the same order.
func (m *FieldMap) Clone() *FieldMap {
	out := &FieldMap{}
	for _, k := range m.Keys() {
		out.Set(k, m.values[k])
	}
	return out
}

// Keys returns the field names in insertion order.
func (m *FieldMap) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Values returns the values in insertion order.
func (m *FieldMap) Values() []any {
	if m == nil {
		return nil
	}
	out := make([]any, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.values[k])
	}
	return out
}

// UnmarshalJSON decodes a flat JSON object, keeping the document's key order.
// Integral numbers become int64, other numbers float64. Nested objects and
// arrays are rejected.
func (m *FieldMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode field map: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decode field map: expected JSON object")
	}

	*m = FieldMap{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode field map: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("decode field map: expected key, got %v", tok)
		}

		tok, err = dec.Token()
		if err != nil {
			return fmt.Errorf("decode field map: field %q: %w", key, err)
		}
		v, err := scalarFromToken(tok)
		if err != nil {
			return fmt.Errorf("decode field map: field %q: %w", key, err)
		}
		m.Set(key, v)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode field map: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("decode field map: trailing data after object")
	}
	return nil
}

func scalarFromToken(tok json.Token) (any, error) {
	switch v := tok.(type) {
	case nil, string, bool:
		return v, nil
	case json.Number:
		if i, err := strconv.ParseInt(v.String(), 10, 64); err == nil {
			return i, nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %s", v)
		}
		return f, nil
	case json.Delim:
		return nil, fmt.Errorf("value must be a scalar")
	default:
		return nil, fmt.Errorf("unexpected token %v", v)
	}
}
