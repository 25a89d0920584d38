/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: record.go
Description: Ordered JSON object encoder for output rows. Preserves header order
as key insertion order when serializing, which plain Go maps cannot guarantee.
Duplicate column names keep their first position and carry the last value set.
*/

package conversion

import (
	"bytes"
	"io"

	json "github.com/goccy/go-json"
)

// Record is one output row: column names paired with converted values in
// header order. Lifetime is a single JSON line emission.
type Record struct {
	keys   []string
	values []interface{}
	index  map[string]int
}

// NewRecord creates an empty record sized for the given field count
func NewRecord(capacity int) *Record {
	return &Record{
		keys:   make([]string, 0, capacity),
		values: make([]interface{}, 0, capacity),
		index:  make(map[string]int, capacity),
	}
}

// Set appends a key/value pair. Setting an existing key overwrites its value
// in place, so a duplicated header collapses to one key at its first
// position holding the last column's value.
func (r *Record) Set(key string, value interface{}) {
	if i, ok := r.index[key]; ok {
		r.values[i] = value
		return
	}
	r.index[key] = len(r.keys)
	r.keys = append(r.keys, key)
	r.values = append(r.values, value)
}

// Len returns the number of distinct keys in the record
func (r *Record) Len() int {
	return len(r.keys)
}

// MarshalJSON encodes the record as a compact JSON object with keys in
// insertion order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		encodedValue, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(encodedValue)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// WriteLine writes the record to w as one NDJSON line
func (r *Record) WriteLine(w io.Writer) error {
	data, err := r.MarshalJSON()
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
