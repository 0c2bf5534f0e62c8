// Package sheet turns published spreadsheet exports into header-keyed records.
//
// The CSV dialect is the one produced by spreadsheet "publish to web" exports:
// comma delimiter, double-quote escaping, CRLF or LF line endings and the first
// row as header. Records keep the header's column order so they can be
// re-encoded or rendered in the order the sheet author chose.
package sheet

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Record is one data row keyed by trimmed header names.
// Keys are kept in header column order. When the header repeats a name,
// the key keeps its first position and the rightmost column's value wins.
type Record struct {
	keys   []string
	values map[string]string
}

// NewRecord builds a record from parallel key/value slices.
// Missing values resolve to "".
func NewRecord(keys []string, values []string) Record {
	r := Record{
		keys:   make([]string, 0, len(keys)),
		values: make(map[string]string, len(keys)),
	}
	for i, k := range keys {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		r.set(k, v)
	}
	return r
}

func (r *Record) set(key, value string) {
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value stored under key and whether the key exists.
func (r Record) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Value returns the value stored under key, or "" when absent.
func (r Record) Value(key string) string {
	return r.values[key]
}

// Keys returns the record's keys in header order.
func (r Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of distinct keys.
func (r Record) Len() int {
	return len(r.keys)
}

// Map returns a copy of the record as a plain map.
func (r Record) Map() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the record as a JSON object in header order.
func (r Record) MarshalJSON() ([]byte, error) {
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
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Records converts raw rows into records using the first row as header.
//
// Header cells and data cells are trimmed of surrounding whitespace. Rows
// shorter than the header resolve missing columns to "", and cells beyond
// the header length are dropped. An empty input yields nil.
func Records(rows [][]string) []Record {
	if len(rows) == 0 {
		return nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	out := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := Record{
			keys:   make([]string, 0, len(header)),
			values: make(map[string]string, len(header)),
		}
		for c, key := range header {
			val := ""
			if c < len(row) {
				val = strings.TrimSpace(row[c])
			}
			rec.set(key, val)
		}
		out = append(out, rec)
	}
	return out
}
