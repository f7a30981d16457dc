// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

// Package places holds the place records flowing through the pipeline and
// the collector that produces them.
package places

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/abtecnologia/distritos/spatial"
)

// Record is a JSON object that remembers the order of its keys. Values are
// kept as raw JSON so numbers and nested objects are written back exactly as
// they were read.
type Record struct {
	keys   []string
	values map[string]json.RawMessage
}

// Field is a key/value pair added to a record.
type Field struct {
	Key   string
	Value any
}

// NewRecord builds a record from fields, in order.
func NewRecord(fields ...Field) (Record, error) {
	return Record{}.With(fields...)
}

// Keys returns the keys in order.
func (r Record) Keys() []string {
	return slices.Clone(r.keys)
}

// Len returns the number of keys.
func (r Record) Len() int {
	return len(r.keys)
}

// Get returns the raw value of key.
func (r Record) Get(key string) (json.RawMessage, bool) {
	v, ok := r.values[key]

	return v, ok
}

// String returns the value of key as text: strings unquoted, numbers and
// booleans literally, null and missing keys empty, objects and arrays as
// compact JSON.
func (r Record) String(key string) string {
	v, ok := r.values[key]
	if !ok {
		return ""
	}

	return rawText(v)
}

// Text returns the value of key when it is a JSON string.
func (r Record) Text(key string) (string, bool) {
	v, ok := r.values[key]
	if !ok || !bytes.HasPrefix(bytes.TrimSpace(v), []byte(`"`)) {
		return "", false
	}

	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", false
	}

	return s, true
}

func rawText(v json.RawMessage) string {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return ""
	}

	if v[0] == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return s
		}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, v); err != nil {
		return string(v)
	}

	return buf.String()
}

// With returns a copy of the record with fields set. Existing keys keep
// their position; new keys are appended. The receiver is not modified.
func (r Record) With(fields ...Field) (Record, error) {
	out := Record{
		keys:   slices.Clone(r.keys),
		values: make(map[string]json.RawMessage, len(r.values)+len(fields)),
	}

	for k, v := range r.values {
		out.values[k] = v
	}

	for _, f := range fields {
		raw, err := marshalNoEscape(f.Value)
		if err != nil {
			return Record{}, fmt.Errorf("encoding field %s: %w", f.Key, err)
		}

		if _, exists := out.values[f.Key]; !exists {
			out.keys = append(out.keys, f.Key)
		}

		out.values[f.Key] = raw
	}

	return out, nil
}

// Coordinates returns the record coordinates as written in the input. The
// flat latitude/longitude fields win over geometry.location.lat/lng. It
// returns nil when either value is missing or empty.
func (r Record) Coordinates() *spatial.Coordinates {
	lat, lng := r.String("latitude"), r.String("longitude")

	if lat == "" || lng == "" {
		var geometry struct {
			Location struct {
				Lat json.RawMessage `json:"lat"`
				Lng json.RawMessage `json:"lng"`
			} `json:"location"`
		}

		raw, ok := r.values["geometry"]
		if !ok || json.Unmarshal(raw, &geometry) != nil {
			return nil
		}

		if lat == "" {
			lat = rawText(geometry.Location.Lat)
		}

		if lng == "" {
			lng = rawText(geometry.Location.Lng)
		}
	}

	if lat == "" || lng == "" {
		return nil
	}

	return &spatial.Coordinates{Lat: strings.TrimSpace(lat), Lng: strings.TrimSpace(lng)}
}

var errNotObject = errors.New("record is not a JSON object")

// UnmarshalJSON decodes an object keeping its key order.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errNotObject
	}

	out := Record{values: make(map[string]json.RawMessage)}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}

		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decoding %s: %w", key, err)
		}

		if _, exists := out.values[key]; !exists {
			out.keys = append(out.keys, key)
		}

		out.values[key] = raw
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*r = out

	return nil
}

// MarshalJSON encodes the record with its keys in order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := marshalNoEscape(k)
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')

		v := r.values[k]
		if len(v) == 0 {
			v = json.RawMessage("null")
		}

		buf.Write(v)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
