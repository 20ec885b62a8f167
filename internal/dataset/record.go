package dataset

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Record is one query result row: column name to Value, preserving column
// declaration order. Setting an existing key overwrites the value but keeps
// the key's original position, matching how duplicate column labels behave.
type Record struct {
	keys []string
	vals map[string]Value
}

func NewRecord() *Record {
	return &Record{vals: make(map[string]Value)}
}

func (r *Record) Set(key string, v Value) {
	if _, ok := r.vals[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.vals[key] = v
}

func (r *Record) Get(key string) (Value, bool) {
	v, ok := r.vals[key]
	return v, ok
}

// GetPath resolves a dot-separated field path through nested records.
// A missing key or a path segment through a non-record value reports false.
func (r *Record) GetPath(path string) (Value, bool) {
	if r == nil || path == "" {
		return Value{}, false
	}

	parts := strings.Split(path, ".")
	current := r
	for i, part := range parts {
		v, ok := current.Get(part)
		if !ok {
			return Value{}, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		nested, ok := v.Record()
		if !ok {
			return Value{}, false
		}
		current = nested
	}
	return Value{}, false
}

// First returns the first column of the row.
func (r *Record) First() (string, Value, bool) {
	if r == nil || len(r.keys) == 0 {
		return "", Value{}, false
	}
	k := r.keys[0]
	return k, r.vals[k], true
}

func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// MarshalJSON serializes in column order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(r.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
