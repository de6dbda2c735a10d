// Package jsonval decodes JSON documents into a small read-only value tree. Numbers, booleans and null are not
// interpreted: they are kept as the text they were written as, next to strings, and callers convert them as needed.
package jsonval

import (
	"strconv"

	"github.com/cockroachdb/errors"
)

// Value is an [Object], an [Array] or a [Scalar].
type Value interface {
	jsonValue()
}

// Object maps unique keys to values.
type Object map[string]Value

// Array holds values in document order.
type Array []Value

// Scalar is the decoded text of a string, number, boolean or null.
type Scalar string

func (Object) jsonValue() {}
func (Array) jsonValue()  {}
func (Scalar) jsonValue() {}

var (
	ErrNotFound  = errors.New("jsonval: key not found")
	ErrWrongType = errors.New("jsonval: value has a different type")
)

// Get returns the value at key.
func (o Object) Get(key string) (Value, bool) {
	v, ok := o[key]
	return v, ok
}

// GetObject returns the object at key.
func (o Object) GetObject(key string) (Object, error) {
	return get[Object](o, key)
}

// GetArray returns the array at key.
func (o Object) GetArray(key string) (Array, error) {
	return get[Array](o, key)
}

// GetString returns the scalar at key as a string.
func (o Object) GetString(key string) (string, error) {
	s, err := get[Scalar](o, key)
	return string(s), err
}

func get[T Value](o Object, key string) (T, error) {
	var zero T

	v, ok := o[key]
	if !ok {
		return zero, errors.Wrapf(ErrNotFound, "%q", key)
	}

	t, ok := v.(T)
	if !ok {
		return zero, errors.Wrapf(ErrWrongType, "%q is %s, not %s", key, kindOf(v), kindOf(zero))
	}

	return t, nil
}

func kindOf(v Value) string {
	switch v.(type) {
	case Object:
		return "an object"
	case Array:
		return "an array"
	default:
		return "a scalar"
	}
}

// Int interprets the scalar as a base 10 integer.
func (s Scalar) Int() (int64, error) {
	n, err := strconv.ParseInt(string(s), 10, 64)
	return n, errors.Wrapf(err, "jsonval: %q is not an integer", string(s))
}

// Float interprets the scalar as a floating point number.
func (s Scalar) Float() (float64, error) {
	f, err := strconv.ParseFloat(string(s), 64)
	return f, errors.Wrapf(err, "jsonval: %q is not a number", string(s))
}

// Bool interprets the scalar as "true" or "false".
func (s Scalar) Bool() (bool, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, errors.Newf("jsonval: %q is not a boolean", string(s))
}
