// Package validate walks values against namespace constraint trees,
// accumulating structured problem records instead of stopping at the first
// violation. Domain-level invalidity is data, never a Go error.
package validate

import (
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/starford/stave/internal/namespace"
)

// Severity classifies a problem record.
type Severity int

const (
	// SeverityError marks a hard constraint violation.
	SeverityError Severity = iota
	// SeverityWarning marks a tolerated deviation, e.g. an undeclared
	// field in an open object schema.
	SeverityWarning
)

// String returns "error" or "warning".
func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// MarshalJSON encodes the severity as its string form.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON decodes "error"/"warning".
func (s *Severity) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"error"`:
		*s = SeverityError
	case `"warning"`:
		*s = SeverityWarning
	default:
		return fmt.Errorf("validate: unknown severity %s", data)
	}
	return nil
}

// Problem is one constraint violation: where it happened, what was
// expected, and what was observed.
type Problem struct {
	Path     string   `json:"path"`
	Expected string   `json:"expected"`
	Observed any      `json:"observed"`
	Severity Severity `json:"severity"`
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s: expected %s, observed %v", p.Severity, p.Path, p.Expected, p.Observed)
}

// Result is the accumulated outcome of one validation run.
type Result []Problem

// Valid reports whether the result contains no errors. Warnings do not
// affect validity.
func (r Result) Valid() bool {
	for _, p := range r {
		if p.Severity == SeverityError {
			return false
		}
	}
	return true
}

// Errors returns only the error-severity problems.
func (r Result) Errors() Result {
	var out Result
	for _, p := range r {
		if p.Severity == SeverityError {
			out = append(out, p)
		}
	}
	return out
}

// Warnings returns only the warning-severity problems.
func (r Result) Warnings() Result {
	var out Result
	for _, p := range r {
		if p.Severity == SeverityWarning {
			out = append(out, p)
		}
	}
	return out
}

// Prefixed returns a copy of the result with prefix prepended to every
// problem path, joined with a dot when both sides are non-empty.
func (r Result) Prefixed(prefix string) Result {
	if prefix == "" || len(r) == 0 {
		return r
	}
	out := make(Result, len(r))
	for i, p := range r {
		if p.Path != "" {
			p.Path = prefix + "." + p.Path
		} else {
			p.Path = prefix
		}
		out[i] = p
	}
	return out
}

// Value checks v against the constraint and returns every violation found.
// A nil constraint behaves like KindAny. The check never mutates v, so the
// same input always yields the same result.
func Value(path string, v any, c *namespace.Constraint) Result {
	if c == nil || c.Kind == namespace.KindAny {
		return nil
	}

	switch c.Kind {
	case namespace.KindString:
		return checkString(path, v, c)
	case namespace.KindNumber, namespace.KindInteger:
		return checkNumber(path, v, c)
	case namespace.KindEnum:
		return checkEnum(path, v, c)
	case namespace.KindObject:
		return checkObject(path, v, c)
	default:
		return Result{{
			Path:     path,
			Expected: "a known constraint kind",
			Observed: v,
			Severity: SeverityError,
		}}
	}
}

func problem(path string, c *namespace.Constraint, v any) Result {
	return Result{{Path: path, Expected: c.Describe(), Observed: v, Severity: SeverityError}}
}

func checkString(path string, v any, c *namespace.Constraint) Result {
	s, ok := v.(string)
	if !ok {
		return problem(path, c, v)
	}
	if c.Pattern != nil && !c.Pattern.MatchString(s) {
		return problem(path, c, v)
	}
	return nil
}

func checkNumber(path string, v any, c *namespace.Constraint) Result {
	n, ok := asNumber(v)
	if !ok {
		return problem(path, c, v)
	}
	if c.Kind == namespace.KindInteger && n != math.Trunc(n) {
		return problem(path, c, v)
	}
	if c.Min != nil && (n < *c.Min || (c.ExclusiveMin && n == *c.Min)) {
		return problem(path, c, v)
	}
	if c.Max != nil && (n > *c.Max || (c.ExclusiveMax && n == *c.Max)) {
		return problem(path, c, v)
	}
	return nil
}

func checkEnum(path string, v any, c *namespace.Constraint) Result {
	for _, want := range c.Values {
		if looseEqual(v, want) {
			return nil
		}
	}
	return problem(path, c, v)
}

func checkObject(path string, v any, c *namespace.Constraint) Result {
	obj, ok := asObject(v)
	if !ok {
		return problem(path, c, v)
	}

	var res Result

	for _, name := range c.Required {
		if _, present := obj[name]; !present {
			res = append(res, Problem{
				Path:     join(path, name),
				Expected: "required field to be present",
				Observed: nil,
				Severity: SeverityError,
			})
		}
	}

	// Declared fields recurse in sorted order so runs are deterministic.
	names := make([]string, 0, len(obj))
	for name := range obj {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fieldVal := obj[name]
		field, declared := c.Fields[name]
		if !declared {
			sev := SeverityWarning
			if c.Closed {
				sev = SeverityError
			}
			res = append(res, Problem{
				Path:     join(path, name),
				Expected: "a declared field",
				Observed: fieldVal,
				Severity: sev,
			})
			continue
		}
		res = append(res, Value(join(path, name), fieldVal, field)...)
	}

	return res
}

func join(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}

// asNumber accepts the numeric types produced by JSON decoding and by
// in-process construction.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[k] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// looseEqual compares by exact equality, treating all numeric types as the
// same domain so a JSON-decoded 4.0 matches a declared 4.
func looseEqual(a, b any) bool {
	an, aok := asNumber(a)
	bn, bok := asNumber(b)
	if aok && bok {
		return an == bn
	}
	if aok != bok {
		return false
	}
	return reflect.DeepEqual(a, b)
}
