// Package remote normalizes the many ways a "remote" flag has been stored
// (booleans, 0/1, "true", "remote", "onsite"...) into one tri-state value.
package remote

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

type Option int

const (
	Unknown Option = iota
	Remote
	Onsite
)

var (
	remoteWords = map[string]bool{"1": true, "true": true, "remote": true, "yes": true, "y": true}
	onsiteWords = map[string]bool{"0": true, "false": true, "onsite": true, "on-site": true, "no": true, "n": true}
)

// Parse maps any legacy encoding to an Option. It never fails: anything it
// does not recognise is Unknown. Parse(Parse(x)) == Parse(x) for every x.
func Parse(v interface{}) Option {
	switch t := v.(type) {
	case nil:
		return Unknown
	case Option:
		return t.normalize()
	case *Option:
		if t == nil {
			return Unknown
		}
		return t.normalize()
	case bool:
		if t {
			return Remote
		}
		return Onsite
	case *bool:
		if t == nil {
			return Unknown
		}
		return Parse(*t)
	case int:
		return fromNumber(float64(t))
	case int8:
		return fromNumber(float64(t))
	case int16:
		return fromNumber(float64(t))
	case int32:
		return fromNumber(float64(t))
	case int64:
		return fromNumber(float64(t))
	case *int:
		if t == nil {
			return Unknown
		}
		return fromNumber(float64(*t))
	case uint:
		return fromNumber(float64(t))
	case uint8:
		return fromNumber(float64(t))
	case uint16:
		return fromNumber(float64(t))
	case uint32:
		return fromNumber(float64(t))
	case uint64:
		return fromNumber(float64(t))
	case float32:
		return fromNumber(float64(t))
	case float64:
		return fromNumber(t)
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return fromNumber(f)
		}
		return fromString(t.String())
	case string:
		return fromString(t)
	case *string:
		if t == nil {
			return Unknown
		}
		return fromString(*t)
	case []byte:
		return fromString(string(t))
	}
	return Unknown
}

// ParseJSON decodes a raw JSON value of any type and parses it
func ParseJSON(raw json.RawMessage) Option {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Unknown
	}
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return Unknown
	}
	return Parse(v)
}

func fromNumber(f float64) Option {
	switch {
	case math.IsNaN(f):
		return Unknown
	case f == 1:
		return Remote
	case f == 0:
		return Onsite
	}
	return Unknown
}

func fromString(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case remoteWords[s]:
		return Remote
	case onsiteWords[s]:
		return Onsite
	}
	return Unknown
}

func (o Option) normalize() Option {
	switch o {
	case Remote, Onsite:
		return o
	}
	return Unknown
}

// Stored is the inverse mapping used when writing: 1, 0 or nil
func (o Option) Stored() *int {
	var v int
	switch o.normalize() {
	case Remote:
		v = 1
	case Onsite:
		v = 0
	default:
		return nil
	}
	return &v
}

// Bool is Stored expressed as a nullable boolean column
func (o Option) Bool() *bool {
	var v bool
	switch o.normalize() {
	case Remote:
		v = true
	case Onsite:
		v = false
	default:
		return nil
	}
	return &v
}

func (o Option) String() string {
	switch o.normalize() {
	case Remote:
		return "remote"
	case Onsite:
		return "onsite"
	}
	return "unknown"
}

// Label is the human readable form used in exports and emails
func (o Option) Label() string {
	switch o.normalize() {
	case Remote:
		return "Remote"
	case Onsite:
		return "Onsite"
	}
	return "Not specified"
}

func (o Option) MarshalJSON() ([]byte, error) {
	s := o.Stored()
	if s == nil {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf("%d", *s)), nil
}

func (o *Option) UnmarshalJSON(b []byte) error {
	*o = ParseJSON(b)
	return nil
}

func (o Option) Value() (driver.Value, error) {
	b := o.Bool()
	if b == nil {
		return nil, nil
	}
	return *b, nil
}

func (o *Option) Scan(src interface{}) error {
	*o = Parse(src)
	return nil
}
