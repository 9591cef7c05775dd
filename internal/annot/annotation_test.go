package annot

import (
	"testing"

	"github.com/starford/stave/internal/namespace"
)

func beatAnnotation() *Annotation {
	a := New("beat")
	a.Append(1.0, 0.0, 1, nil)
	a.Append(2.0, 0.0, 2, nil)
	return a
}

func TestValidateCleanBeat(t *testing.T) {
	reg := namespace.Builtin()
	res := beatAnnotation().Validate(reg)
	if len(res) != 0 {
		t.Errorf("problems = %v, want none", res)
	}
}

func TestValidateUnknownNamespace(t *testing.T) {
	reg := namespace.Builtin()
	a := New("no_such_namespace")
	a.Append(0, 0, "x", nil)
	a.Append(1, 0, "y", nil)

	res := a.Validate(reg)
	if len(res) != 1 {
		t.Fatalf("problems = %d, want exactly 1", len(res))
	}
	if res[0].Path != "namespace" {
		t.Errorf("path = %q", res[0].Path)
	}
	if res[0].Observed != "no_such_namespace" {
		t.Errorf("observed = %v", res[0].Observed)
	}
}

func TestValidateBadValuePointsAtObservation(t *testing.T) {
	reg := namespace.Builtin()
	a := beatAnnotation()
	a.Append(3.0, 0.0, -1, nil) // below beat's minimum

	res := a.Validate(reg)
	if len(res) != 1 {
		t.Fatalf("problems = %v, want exactly 1", res)
	}
	if res[0].Path != "data[2].value" {
		t.Errorf("path = %q", res[0].Path)
	}
}

func TestValidateAccumulates(t *testing.T) {
	reg := namespace.Builtin()
	a := New("beat")
	a.Append(-1, 0, 1, nil)   // negative time
	a.Append(0, -0.5, 1, nil) // negative duration
	a.Append(0, 0, "x", nil)  // non-numeric value

	res := a.Validate(reg)
	if len(res) != 3 {
		t.Errorf("problems = %d, want 3: %v", len(res), res)
	}
}

func TestValidateIdempotent(t *testing.T) {
	reg := namespace.Builtin()
	a := beatAnnotation()
	a.Append(3.0, 0.0, -1, nil)

	first := a.Validate(reg)
	second := a.Validate(reg)
	if len(first) != len(second) {
		t.Errorf("repeated runs disagree: %d vs %d", len(first), len(second))
	}
}

func TestValidateConfidence(t *testing.T) {
	reg := namespace.Builtin()

	a := New("beat")
	a.Append(0, 0, 1, Conf(1.5)) // beat confidence is bounded [0, 1]
	res := a.Validate(reg)
	if len(res) != 1 || res[0].Path != "data[0].confidence" {
		t.Errorf("problems = %v", res)
	}

	// Nil confidence is never checked.
	b := New("beat")
	b.Append(0, 0, 1, nil)
	if res := b.Validate(reg); len(res) != 0 {
		t.Errorf("nil confidence flagged: %v", res)
	}

	// Namespaces without a confidence constraint ignore out-of-range values.
	c := New("chord")
	c.Append(0, 1, "C:maj", Conf(42))
	if res := c.Validate(reg); len(res) != 0 {
		t.Errorf("unconstrained confidence flagged: %v", res)
	}
}

func TestValidateBeatPositionObject(t *testing.T) {
	reg := namespace.Builtin()

	good := New("beat_position")
	good.Append(0, 0, map[string]any{
		"position": 1.0, "measure": 0.0, "num_beats": 4.0, "beat_units": 4.0,
	}, nil)
	if res := good.Validate(reg); len(res) != 0 {
		t.Errorf("valid beat_position flagged: %v", res)
	}

	bad := New("beat_position")
	bad.Append(0, 0, map[string]any{
		"position": 1.0, "measure": 0.0, "num_beats": 4.0, "beat_units": 4.0,
		"swing": true, // undeclared in a closed object
	}, nil)
	res := bad.Validate(reg)
	if len(res) != 1 || res.Valid() {
		t.Errorf("closed-object violation: %v", res)
	}
}

func TestValidateNegativeWindow(t *testing.T) {
	reg := namespace.Builtin()
	a := beatAnnotation()
	a.Time = fptrTest(-1)
	a.Duration = fptrTest(-2)

	res := a.Validate(reg)
	if len(res) != 2 {
		t.Errorf("problems = %v, want 2", res)
	}
}

func fptrTest(v float64) *float64 { return &v }

func TestSortedPreservesInsertionOrder(t *testing.T) {
	a := New("onset")
	a.Append(2.0, 0, "b", nil)
	a.Append(1.0, 0, "a", nil)
	a.Append(2.0, 0, "c", nil)

	sorted := a.Sorted()
	if sorted[0].Value != "a" || sorted[1].Value != "b" || sorted[2].Value != "c" {
		t.Errorf("sorted = %v", sorted)
	}
	// Receiver untouched: insertion order is never disturbed implicitly.
	if a.Data[0].Value != "b" {
		t.Error("Sorted mutated the annotation")
	}
}

func TestIntervals(t *testing.T) {
	a := New("chord")
	a.Append(0.0, 2.0, "C:maj", nil)
	a.Append(2.0, 2.0, "G:maj", nil)

	intervals, values := a.Intervals()
	if len(intervals) != 2 || len(values) != 2 {
		t.Fatalf("lens = %d, %d", len(intervals), len(values))
	}
	if intervals[0] != [2]float64{0, 2} || intervals[1] != [2]float64{2, 4} {
		t.Errorf("intervals = %v", intervals)
	}
	if values[1] != "G:maj" {
		t.Errorf("values = %v", values)
	}
}

func TestTrim(t *testing.T) {
	a := New("chord")
	a.Time = fptrTest(0)
	a.Duration = fptrTest(10)
	a.Append(0.0, 2.0, "C:maj", nil)
	a.Append(3.0, 2.0, "G:maj", nil)
	a.Append(8.0, 2.0, "A:min", nil)

	out := a.Trim(2.5, 6.0)

	if len(out.Data) != 1 {
		t.Fatalf("observations = %d, want 1", len(out.Data))
	}
	if out.Data[0].Time != 3.0 || out.Data[0].End() != 5.0 {
		t.Errorf("kept obs = %+v", out.Data[0])
	}
	if out.Time == nil || *out.Time != 2.5 {
		t.Errorf("window start = %v", out.Time)
	}
	if out.Duration == nil || *out.Duration != 3.5 {
		t.Errorf("window duration = %v", out.Duration)
	}

	trims, ok := out.Sandbox["trim"].([]any)
	if !ok || len(trims) != 1 {
		t.Errorf("sandbox trim record = %v", out.Sandbox["trim"])
	}

	// Receiver unchanged.
	if len(a.Data) != 3 {
		t.Error("Trim mutated the receiver")
	}
}

func TestTrimClipsOverlapping(t *testing.T) {
	a := New("segment_open")
	a.Append(0.0, 10.0, "verse", nil)

	out := a.Trim(2.0, 6.0)
	if len(out.Data) != 1 {
		t.Fatalf("observations = %d", len(out.Data))
	}
	if out.Data[0].Time != 2.0 || out.Data[0].Duration != 4.0 {
		t.Errorf("clipped obs = %+v", out.Data[0])
	}
}

func TestTrimClampsToWindow(t *testing.T) {
	a := New("beat")
	a.Time = fptrTest(5)
	a.Duration = fptrTest(5)
	a.Append(6.0, 0, 1, nil)

	out := a.Trim(0.0, 100.0)
	if *out.Time != 5.0 || *out.Duration != 5.0 {
		t.Errorf("window = [%v, %v]", *out.Time, *out.Duration)
	}
	if len(out.Data) != 1 {
		t.Errorf("observations = %d", len(out.Data))
	}
}

func TestSliceReReferencesTimes(t *testing.T) {
	a := New("chord")
	a.Append(3.0, 2.0, "G:maj", nil)
	a.Append(6.0, 1.0, "A:min", nil)

	out := a.Slice(3.0, 7.0)
	if len(out.Data) != 2 {
		t.Fatalf("observations = %d", len(out.Data))
	}
	if out.Data[0].Time != 0.0 || out.Data[1].Time != 3.0 {
		t.Errorf("times = %v, %v", out.Data[0].Time, out.Data[1].Time)
	}
	if out.Time == nil || *out.Time != 0.0 {
		t.Errorf("window start = %v", out.Time)
	}
	if _, hasTrim := out.Sandbox["trim"]; hasTrim {
		t.Error("slice left a trim record behind")
	}
	if _, hasSlice := out.Sandbox["slice"]; !hasSlice {
		t.Error("slice record missing")
	}
}
