package models

import (
	"bytes"
	"encoding/json"
	"errors"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// StringMap is a string to string map that remembers insertion order, so
// scripts and dependencies come back in the order they were written.
// Setting an existing key keeps its position and replaces the value. The
// zero value is an empty map; copies share storage until Cloned.
type StringMap struct {
	om *orderedmap.OrderedMap[string, string]
}

var errNotStringObject = errors.New("expected a JSON object of strings")

func newOrdered(capacity int) *orderedmap.OrderedMap[string, string] {
	return orderedmap.New[string, string](
		orderedmap.WithCapacity[string, string](capacity),
	)
}

func NewStringMap() StringMap {
	return StringMap{om: newOrdered(0)}
}

// StringMapOf builds a map from alternating key, value arguments.
func StringMapOf(kv ...string) StringMap {
	m := StringMap{om: newOrdered(len(kv) / 2)}
	for i := 0; i+1 < len(kv); i += 2 {
		m.Set(kv[i], kv[i+1])
	}
	return m
}

func (m *StringMap) Set(key, value string) {
	if m.om == nil {
		m.om = newOrdered(0)
	}
	m.om.Set(key, value)
}

func (m StringMap) Get(key string) (string, bool) {
	if m.om == nil {
		return "", false
	}
	return m.om.Get(key)
}

func (m *StringMap) Delete(key string) {
	if m.om != nil {
		m.om.Delete(key)
	}
}

// Keys returns the keys in insertion order.
func (m StringMap) Keys() []string {
	out := make([]string, 0, m.Len())
	if m.om == nil {
		return out
	}
	for p := m.om.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Key)
	}
	return out
}

func (m StringMap) Len() int {
	if m.om == nil {
		return 0
	}
	return m.om.Len()
}

func (m StringMap) Clone() StringMap {
	c := StringMap{om: newOrdered(m.Len())}
	if m.om == nil {
		return c
	}
	for p := m.om.Oldest(); p != nil; p = p.Next() {
		c.om.Set(p.Key, p.Value)
	}
	return c
}

func (m StringMap) MarshalJSON() ([]byte, error) {
	if m.om == nil {
		return []byte("{}"), nil
	}
	return m.om.MarshalJSON()
}

// UnmarshalJSON accepts exactly one JSON object of strings, or null. Any
// text after the object is an error.
func (m *StringMap) UnmarshalJSON(data []byte) error {
	*m = NewStringMap()
	t := bytes.TrimSpace(data)
	if bytes.Equal(t, []byte("null")) {
		return nil
	}
	if !json.Valid(t) {
		var v any
		return json.Unmarshal(t, &v)
	}
	if t[0] != '{' {
		return errNotStringObject
	}
	return m.om.UnmarshalJSON(t)
}

// EncodeJSON marshals v compactly without HTML escaping, which keeps the
// stored text identical to what a JavaScript client would have written.
func EncodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
