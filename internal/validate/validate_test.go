package validate

import (
	"testing"

	"github.com/starford/stave/internal/namespace"
)

func fptr(v float64) *float64 { return &v }

func mustConstraint(t *testing.T, raw namespace.RawConstraint) *namespace.Constraint {
	t.Helper()
	s, err := namespace.Parse("test", namespace.Description{Value: &raw})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return s.Value
}

func TestAnyAcceptsEverything(t *testing.T) {
	c := mustConstraint(t, namespace.RawConstraint{Type: "any"})
	for _, v := range []any{nil, "s", 3.14, map[string]any{"k": 1}, []any{1, 2}} {
		if res := Value("p", v, c); len(res) != 0 {
			t.Errorf("any rejected %v: %v", v, res)
		}
	}
	if res := Value("p", "whatever", nil); len(res) != 0 {
		t.Errorf("nil constraint rejected value: %v", res)
	}
}

func TestStringPattern(t *testing.T) {
	c := mustConstraint(t, namespace.RawConstraint{Type: "string", Pattern: `^[a-z]+$`})

	if res := Value("p", "abc", c); len(res) != 0 {
		t.Errorf("valid string rejected: %v", res)
	}
	if res := Value("p", "ABC", c); len(res) != 1 || res[0].Severity != SeverityError {
		t.Errorf("pattern mismatch: %v", res)
	}
	if res := Value("p", 42, c); len(res) != 1 {
		t.Errorf("non-string accepted: %v", res)
	}
}

func TestNumberBounds(t *testing.T) {
	inclusive := mustConstraint(t, namespace.RawConstraint{
		Type: "number", Minimum: fptr(0), Maximum: fptr(10),
	})
	cases := []struct {
		v    float64
		want int
	}{
		{0, 0}, {10, 0}, {5.5, 0},
		{-0.1, 1}, {10.1, 1},
	}
	for _, tc := range cases {
		if res := Value("p", tc.v, inclusive); len(res) != tc.want {
			t.Errorf("inclusive %g: problems = %d, want %d", tc.v, len(res), tc.want)
		}
	}

	exclusive := mustConstraint(t, namespace.RawConstraint{
		Type: "number", Minimum: fptr(0), ExclusiveMinimum: true,
	})
	if res := Value("p", 0.0, exclusive); len(res) != 1 {
		t.Errorf("boundary accepted with exclusive minimum: %v", res)
	}
	if res := Value("p", 0.001, exclusive); len(res) != 0 {
		t.Errorf("interior rejected: %v", res)
	}
}

func TestIntegerRejectsFractional(t *testing.T) {
	c := mustConstraint(t, namespace.RawConstraint{Type: "integer", Minimum: fptr(1)})

	// JSON decoding yields float64; integral floats pass.
	if res := Value("p", 4.0, c); len(res) != 0 {
		t.Errorf("4.0 rejected: %v", res)
	}
	if res := Value("p", 4.5, c); len(res) != 1 {
		t.Errorf("4.5 accepted: %v", res)
	}
	if res := Value("p", 0, c); len(res) != 1 {
		t.Errorf("below-minimum accepted: %v", res)
	}
	if res := Value("p", "4", c); len(res) != 1 {
		t.Errorf("string accepted as integer: %v", res)
	}
}

func TestEnumLooseNumericEquality(t *testing.T) {
	c := mustConstraint(t, namespace.RawConstraint{
		Type: "enum", Values: []any{1, 2, 4, "X"},
	})

	// A JSON-decoded 4.0 must match the declared int 4.
	if res := Value("p", 4.0, c); len(res) != 0 {
		t.Errorf("4.0 not matched against 4: %v", res)
	}
	if res := Value("p", "X", c); len(res) != 0 {
		t.Errorf("exact string rejected: %v", res)
	}
	if res := Value("p", 3, c); len(res) != 1 {
		t.Errorf("non-member accepted: %v", res)
	}
	if res := Value("p", "1", c); len(res) != 1 {
		t.Errorf("string '1' matched numeric 1: %v", res)
	}
}

func objectConstraint(t *testing.T, closed bool) *namespace.Constraint {
	t.Helper()
	return mustConstraint(t, namespace.RawConstraint{
		Type: "object",
		Fields: map[string]*namespace.RawConstraint{
			"position": {Type: "integer", Minimum: fptr(1)},
			"label":    {Type: "string"},
		},
		Required: []string{"position"},
		Closed:   closed,
	})
}

func TestObjectRequiredMissing(t *testing.T) {
	c := objectConstraint(t, false)
	res := Value("v", map[string]any{"label": "x"}, c)
	if len(res) != 1 {
		t.Fatalf("problems = %v", res)
	}
	if res[0].Path != "v.position" || res[0].Severity != SeverityError {
		t.Errorf("problem = %+v", res[0])
	}
}

func TestObjectOpenUndeclaredIsWarning(t *testing.T) {
	c := objectConstraint(t, false)
	res := Value("v", map[string]any{"position": 1, "extra": true}, c)
	if len(res) != 1 {
		t.Fatalf("problems = %v", res)
	}
	if res[0].Severity != SeverityWarning || res[0].Path != "v.extra" {
		t.Errorf("problem = %+v", res[0])
	}
	if !res.Valid() {
		t.Error("warnings alone should leave the result valid")
	}
}

func TestObjectClosedUndeclaredIsError(t *testing.T) {
	c := objectConstraint(t, true)
	res := Value("v", map[string]any{"position": 1, "extra": true}, c)
	if len(res) != 1 || res[0].Severity != SeverityError {
		t.Fatalf("problems = %v", res)
	}
	if res.Valid() {
		t.Error("closed-object violation must invalidate")
	}
}

func TestObjectAccumulatesAllProblems(t *testing.T) {
	c := objectConstraint(t, true)
	res := Value("v", map[string]any{
		"label": 42,     // wrong type
		"extra": "boom", // undeclared in closed object
		// position missing
	}, c)
	if len(res) != 3 {
		t.Errorf("problems = %d, want 3: %v", len(res), res)
	}
}

func TestObjectNonObjectValue(t *testing.T) {
	c := objectConstraint(t, false)
	if res := Value("v", "not an object", c); len(res) != 1 {
		t.Errorf("problems = %v", res)
	}
}

func TestNestedObject(t *testing.T) {
	c := mustConstraint(t, namespace.RawConstraint{
		Type: "object",
		Fields: map[string]*namespace.RawConstraint{
			"inner": {
				Type: "object",
				Fields: map[string]*namespace.RawConstraint{
					"n": {Type: "number", Minimum: fptr(0)},
				},
				Required: []string{"n"},
			},
		},
	})
	res := Value("root", map[string]any{
		"inner": map[string]any{"n": -1.0},
	}, c)
	if len(res) != 1 {
		t.Fatalf("problems = %v", res)
	}
	if res[0].Path != "root.inner.n" {
		t.Errorf("path = %q", res[0].Path)
	}
}

func TestResultHelpers(t *testing.T) {
	r := Result{
		{Path: "a", Severity: SeverityError},
		{Path: "b", Severity: SeverityWarning},
		{Path: "", Severity: SeverityError},
	}
	if r.Valid() {
		t.Error("result with errors reported valid")
	}
	if len(r.Errors()) != 2 || len(r.Warnings()) != 1 {
		t.Errorf("errors = %d, warnings = %d", len(r.Errors()), len(r.Warnings()))
	}

	p := r.Prefixed("annotations[0]")
	if p[0].Path != "annotations[0].a" {
		t.Errorf("prefixed path = %q", p[0].Path)
	}
	if p[2].Path != "annotations[0]" {
		t.Errorf("empty path prefixed = %q", p[2].Path)
	}
	// Original untouched.
	if r[0].Path != "a" {
		t.Error("Prefixed mutated the receiver")
	}
}

func TestSeverityJSON(t *testing.T) {
	if got, _ := SeverityError.MarshalJSON(); string(got) != `"error"` {
		t.Errorf("error marshals to %s", got)
	}
	if got, _ := SeverityWarning.MarshalJSON(); string(got) != `"warning"` {
		t.Errorf("warning marshals to %s", got)
	}
	var s Severity
	if err := s.UnmarshalJSON([]byte(`"warning"`)); err != nil || s != SeverityWarning {
		t.Errorf("unmarshal warning: %v %v", s, err)
	}
	if err := s.UnmarshalJSON([]byte(`"fatal"`)); err == nil {
		t.Error("unknown severity accepted")
	}
}
