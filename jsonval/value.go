package jsonval

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	// Absent marks a value that was not present in the document.
	Absent Kind = iota
	Null
	Bool
	Number
	String
	Object
	Array
)

var kindNames = [...]string{"absent", "null", "bool", "number", "string", "object", "array"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Value is an immutable node of a decoded JSON document.
// The zero Value is absent.
type Value struct {
	kind Kind
	b    bool
	str  string // string contents or number literal
	obj  map[string]Value
	arr  []Value
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// Exists reports whether v was present in the document. JSON null exists.
func (v Value) Exists() bool { return v.kind != Absent }

// Get returns the member named key. The result is absent when v is not an
// object or has no such member.
func (v Value) Get(key string) Value {
	if v.kind != Object {
		return Value{}
	}
	return v.obj[key]
}

// Index returns the i-th element. The result is absent when v is not an
// array or i is out of range.
func (v Value) Index(i int) Value {
	if v.kind != Array || i < 0 || i >= len(v.arr) {
		return Value{}
	}
	return v.arr[i]
}

// Lookup descends through nested objects following keys.
// It reports false as soon as a key is missing or an intermediate value is
// not an object.
func (v Value) Lookup(keys ...string) (Value, bool) {
	cur := v
	for _, k := range keys {
		cur = cur.Get(k)
		if !cur.Exists() {
			return Value{}, false
		}
	}
	return cur, cur.Exists()
}

// Text renders a scalar as a string. Numbers keep their literal form,
// containers are rendered as compact JSON. Null and absent values report false.
func (v Value) Text() (string, bool) {
	switch v.kind {
	case String, Number:
		return v.str, true
	case Bool:
		return strconv.FormatBool(v.b), true
	case Object, Array:
		data, err := json.Marshal(v)
		if err != nil {
			return "", false
		}
		return string(data), true
	default:
		return "", false
	}
}

// String implements fmt.Stringer. Absent and null values render as "".
func (v Value) String() string {
	s, _ := v.Text()
	return s
}

// Int returns v as an integer. Numeric strings are accepted.
func (v Value) Int() (int64, bool) {
	switch v.kind {
	case Number, String:
		if n, err := strconv.ParseInt(v.str, 10, 64); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(v.str, 64); err == nil && f == float64(int64(f)) {
			return int64(f), true
		}
	}
	return 0, false
}

// Bool returns the boolean held by v.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == Bool
}

// Array returns the elements of an array value.
func (v Value) Array() ([]Value, bool) {
	if v.kind != Array {
		return nil, false
	}
	return v.arr, true
}

// Keys returns the member names of an object value in unspecified order.
func (v Value) Keys() []string {
	if v.kind != Object {
		return nil
	}
	keys := make([]string, 0, len(v.obj))
	for k := range v.obj {
		keys = append(keys, k)
	}
	return keys
}

// MarshalJSON encodes v back to JSON. Absent values encode as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case Absent, Null:
		return []byte("null"), nil
	case Bool:
		return []byte(strconv.FormatBool(v.b)), nil
	case Number:
		return []byte(v.str), nil
	case String:
		return json.Marshal(v.str)
	case Object:
		return json.Marshal(v.obj)
	case Array:
		return json.Marshal(v.arr)
	}
	return nil, fmt.Errorf("jsonval: unknown kind %d", v.kind)
}

// UnmarshalJSON decodes a JSON document into v.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Decode(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Decode parses a complete JSON document.
func Decode(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, fmt.Errorf("jsonval: %w", err)
	}
	if dec.More() {
		return Value{}, fmt.Errorf("jsonval: trailing data after document")
	}
	return FromAny(raw), nil
}

// FromAny converts the output of encoding/json (decoded into any) into a Value.
// Unsupported Go types become null.
func FromAny(raw any) Value {
	switch x := raw.(type) {
	case nil:
		return Value{kind: Null}
	case bool:
		return Value{kind: Bool, b: x}
	case json.Number:
		return Value{kind: Number, str: x.String()}
	case float64:
		return Value{kind: Number, str: strconv.FormatFloat(x, 'f', -1, 64)}
	case int:
		return Value{kind: Number, str: strconv.Itoa(x)}
	case int64:
		return Value{kind: Number, str: strconv.FormatInt(x, 10)}
	case string:
		return Value{kind: String, str: x}
	case map[string]any:
		obj := make(map[string]Value, len(x))
		for k, e := range x {
			obj[k] = FromAny(e)
		}
		return Value{kind: Object, obj: obj}
	case []any:
		arr := make([]Value, len(x))
		for i, e := range x {
			arr[i] = FromAny(e)
		}
		return Value{kind: Array, arr: arr}
	default:
		return Value{kind: Null}
	}
}
