package module

import (
	"fmt"
	"math"
)

// Params holds the loosely-typed parameters of one command, as decoded
// from the request JSON. Accessors coerce the usual JSON number/string
// shapes so module handlers stay short.
type Params map[string]any

// String returns the named parameter as a string, or def if absent or
// of the wrong type.
func (p Params) String(key, def string) string {
	if v, ok := p[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Int returns the named parameter as an int. JSON numbers decode as
// float64; whole floats are accepted, fractional values are not.
func (p Params) Int(key string, def int) int {
	v, ok := p[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		if n == math.Trunc(n) {
			return int(n)
		}
	case int:
		return n
	}
	return def
}

// Float returns the named parameter as a float64, or def.
func (p Params) Float(key string, def float64) float64 {
	v, ok := p[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return def
}

// Bool returns the named parameter as a bool, or def.
func (p Params) Bool(key string, def bool) bool {
	if v, ok := p[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// List returns the named parameter as a slice, or nil if absent or not
// a JSON array.
func (p Params) List(key string) []any {
	if v, ok := p[key]; ok {
		if l, ok := v.([]any); ok {
			return l
		}
	}
	return nil
}

// Has reports whether the parameter is present.
func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// RequireString returns the named string parameter or an error naming
// the missing key, for handlers with mandatory arguments.
func (p Params) RequireString(key string) (string, error) {
	v, ok := p[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingParam, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string", ErrInvalidParam, key)
	}
	return s, nil
}

// RequireInt returns the named integer parameter or an error.
func (p Params) RequireInt(key string) (int, error) {
	v, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingParam, key)
	}
	switch n := v.(type) {
	case float64:
		if n == math.Trunc(n) {
			return int(n), nil
		}
	case int:
		return n, nil
	}
	return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidParam, key)
}
