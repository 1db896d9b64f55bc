package app

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// M is a decoded JSON object with lenient typed accessors. Missing or
// mistyped fields fall back to zero values instead of failing.
type M struct{ gjson.Result }

// Has returns true if m has a value for key.
func (m M) Has(key string) bool {
	return m.Get(key).Exists()
}

// GetString returns the value of key as a string, or "". Numbers are
// formatted as they appear in the source.
func (m M) GetString(key string) string {
	v := m.Get(key)
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Number:
		return v.Raw
	}
	return ""
}

// GetID returns the value of key as an integer id. Numeric strings are
// accepted; anything else is 0.
func (m M) GetID(key string) int64 {
	v := m.Get(key)
	switch v.Type {
	case gjson.Number:
		return v.Int()
	case gjson.String:
		n, err := strconv.ParseInt(strings.TrimSpace(v.Str), 10, 64)
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

// GetFloat returns the value of key as a float, or NaN when it is missing
// or not numeric.
func (m M) GetFloat(key string) float64 {
	v := m.Get(key)
	switch v.Type {
	case gjson.Number:
		return v.Num
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}
	return math.NaN()
}

// GetBool returns the value of key as a bool. Strings like "true" and
// non-zero numbers are true.
func (m M) GetBool(key string) bool {
	return m.Get(key).Bool()
}

// objects calls fn for every object element of a JSON array. Other elements
// are skipped, as is a document that is not an array.
func objects(data []byte, fn func(M)) {
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return
	}
	doc.ForEach(func(_, v gjson.Result) bool {
		if v.IsObject() {
			fn(M{v})
		}
		return true
	})
}
