package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Row is one record of a dataset: an ordered mapping from column name to
// value. A column can be present without a value, which is how a short CSV
// line leaves its trailing columns unset. Unset columns are omitted from the
// JSON encoding.
type Row struct {
	keys   []string
	values map[string]any
}

// NewRow returns a row whose columns are all unset.
func NewRow(keys ...string) Row {
	var r Row
	for _, k := range keys {
		r.addKey(k)
	}
	return r
}

// Set assigns value to key, appending key to the column order when it is new.
func (r *Row) Set(key string, value any) {
	r.addKey(key)
	r.values[key] = value
}

func (r *Row) addKey(key string) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	for _, k := range r.keys {
		if k == key {
			return
		}
	}
	r.keys = append(r.keys, key)
}

// Prepend places key first in the column order and assigns value to it.
func (r *Row) Prepend(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	keys := make([]string, 0, len(r.keys)+1)
	keys = append(keys, key)
	for _, k := range r.keys {
		if k != key {
			keys = append(keys, k)
		}
	}
	r.keys = keys
	r.values[key] = value
}

// Unset clears the value under key. The column keeps its place in the order.
func (r *Row) Unset(key string) {
	r.addKey(key)
	delete(r.values, key)
}

// Get returns the value stored under key. ok is false when the column is
// missing or unset.
func (r Row) Get(key string) (value any, ok bool) {
	value, ok = r.values[key]
	return value, ok
}

// Has reports whether key is a column of the row, set or not.
func (r Row) Has(key string) bool {
	for _, k := range r.keys {
		if k == key {
			return true
		}
	}
	return false
}

// Keys returns the column names in order.
func (r Row) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r Row) Len() int {
	return len(r.keys)
}

// String renders the value under key for display. Unset columns render as
// the empty string.
func (r Row) String(key string) string {
	v, ok := r.values[key]
	if !ok {
		return ""
	}
	return FormatValue(v)
}

// Cell renders the value under key for a raw table. Prices carry the
// currency symbol and unset columns are blank.
func (r Row) Cell(key string) string {
	v, ok := r.values[key]
	if !ok || v == nil {
		return ""
	}
	if key == ColPrice {
		return FormatPrice(FormatValue(v))
	}
	return FormatValue(v)
}

func (r Row) Clone() Row {
	out := Row{keys: r.Keys(), values: make(map[string]any, len(r.values))}
	for k, v := range r.values {
		out.values[k] = v
	}
	return out
}

func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, k := range r.keys {
		v, ok := r.values[k]
		if !ok {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false

		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal column %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping its key order. Numbers are
// kept as json.Number so integers survive a round trip unchanged.
func (r *Row) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*r = Row{}
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("row: expected JSON object, got %v", tok)
	}

	out := Row{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("row: unexpected key token %v", tok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("row: decode column %q: %w", key, err)
		}
		out.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*r = out
	return nil
}

// FormatValue renders a decoded JSON or parsed CSV value as text.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int, int32, int64, bool:
		return fmt.Sprint(t)
	default:
		blob, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(blob)
	}
}
