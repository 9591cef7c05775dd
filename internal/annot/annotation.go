package annot

import (
	"fmt"
	"math"
	"sort"

	"github.com/starford/stave/internal/namespace"
	"github.com/starford/stave/internal/validate"
)

// Annotation is an insertion-ordered sequence of observations of a single
// namespace, plus provenance metadata. Observations are never sorted
// implicitly; consumers that need time order use Sorted.
type Annotation struct {
	Namespace string        `json:"namespace"`
	Data      []Observation `json:"data"`
	Metadata  Metadata      `json:"annotation_metadata"`
	Sandbox   Sandbox       `json:"sandbox,omitempty"`

	// Time and Duration optionally scope the annotation to a window of
	// the underlying file, in seconds.
	Time     *float64 `json:"time,omitempty"`
	Duration *float64 `json:"duration,omitempty"`
}

// New creates an empty annotation for the given namespace.
func New(ns string) *Annotation {
	return &Annotation{Namespace: ns}
}

// Append adds one observation at the end of the sequence. No sorting, no
// duplicate-time rejection.
func (a *Annotation) Append(time, duration float64, value any, confidence *float64) {
	a.Data = append(a.Data, Observation{
		Time:       time,
		Duration:   duration,
		Value:      value,
		Confidence: confidence,
	})
}

// AppendObs appends pre-built observations in the given order.
func (a *Annotation) AppendObs(obs ...Observation) {
	a.Data = append(a.Data, obs...)
}

// Len returns the number of observations.
func (a *Annotation) Len() int { return len(a.Data) }

// Sorted returns a copy of the observations ordered by time (stable over
// insertion order for equal times). The annotation itself is not modified.
func (a *Annotation) Sorted() []Observation {
	out := append([]Observation(nil), a.Data...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// Intervals extracts observation data in an evaluation-friendly layout:
// start/end interval pairs and the corresponding values, in insertion
// order. Scoring itself is out of scope here.
func (a *Annotation) Intervals() ([][2]float64, []any) {
	intervals := make([][2]float64, len(a.Data))
	values := make([]any, len(a.Data))
	for i, o := range a.Data {
		intervals[i] = [2]float64{o.Time, o.End()}
		values[i] = o.Value
	}
	return intervals, values
}

// Validate resolves the annotation's namespace against reg and checks every
// observation and declared metadata field, accumulating all problems. An
// unresolvable namespace yields exactly one error record and no
// per-observation checks. Validity is recomputed on every call.
func (a *Annotation) Validate(reg *namespace.Registry) validate.Result {
	schema, err := reg.Resolve(a.Namespace)
	if err != nil {
		return validate.Result{{
			Path:     "namespace",
			Expected: "a registered namespace id",
			Observed: a.Namespace,
			Severity: validate.SeverityError,
		}}
	}

	var res validate.Result

	if a.Time != nil && *a.Time < 0 {
		res = append(res, validate.Problem{
			Path:     "time",
			Expected: "non-negative number",
			Observed: *a.Time,
			Severity: validate.SeverityError,
		})
	}
	if a.Duration != nil && *a.Duration < 0 {
		res = append(res, validate.Problem{
			Path:     "duration",
			Expected: "non-negative number",
			Observed: *a.Duration,
			Severity: validate.SeverityError,
		})
	}

	for i, o := range a.Data {
		path := fmt.Sprintf("data[%d]", i)
		if o.Time < 0 {
			res = append(res, validate.Problem{
				Path:     path + ".time",
				Expected: "non-negative number",
				Observed: o.Time,
				Severity: validate.SeverityError,
			})
		}
		if o.Duration < 0 {
			res = append(res, validate.Problem{
				Path:     path + ".duration",
				Expected: "non-negative number",
				Observed: o.Duration,
				Severity: validate.SeverityError,
			})
		}
		res = append(res, validate.Value(path+".value", o.Value, schema.Value)...)
		if schema.Confidence != nil && o.Confidence != nil {
			res = append(res, validate.Value(path+".confidence", *o.Confidence, schema.Confidence)...)
		}
	}

	for _, name := range schema.RequiredMeta {
		value, ok := a.Metadata.Field(name)
		if !ok || value == "" {
			res = append(res, validate.Problem{
				Path:     "annotation_metadata." + name,
				Expected: "non-empty metadata field",
				Observed: value,
				Severity: validate.SeverityError,
			})
		}
	}

	return res
}

// Trim returns a copy restricted to observations overlapping [start, end].
// Overlapping observations are clipped to the window; the trim range is
// recorded in the copy's sandbox. start and end are clamped to the
// annotation window when one is set.
func (a *Annotation) Trim(start, end float64) *Annotation {
	if a.Time != nil && start < *a.Time {
		start = *a.Time
	}
	if a.Time != nil && a.Duration != nil {
		if limit := *a.Time + *a.Duration; end > limit {
			end = limit
		}
	}
	if end < start {
		end = start
	}

	out := &Annotation{
		Namespace: a.Namespace,
		Metadata:  a.Metadata,
		Sandbox:   a.Sandbox.Clone(),
		Time:      fcopy(&start),
	}
	dur := end - start
	out.Duration = &dur

	for _, o := range a.Data {
		if o.End() <= start || o.Time >= end {
			continue
		}
		clippedStart := math.Max(o.Time, start)
		clippedEnd := math.Min(o.End(), end)
		out.Data = append(out.Data, Observation{
			Time:       clippedStart,
			Duration:   clippedEnd - clippedStart,
			Value:      o.Value,
			Confidence: o.Confidence,
		})
	}

	if out.Sandbox == nil {
		out.Sandbox = Sandbox{}
	}
	trims, _ := out.Sandbox["trim"].([]any)
	out.Sandbox["trim"] = append(trims, map[string]any{"start": start, "end": end})

	return out
}

// Slice trims to [start, end] and re-references observation times so the
// window start becomes zero.
func (a *Annotation) Slice(start, end float64) *Annotation {
	out := a.Trim(start, end)

	ref := start
	if a.Time != nil && *a.Time > ref {
		ref = *a.Time
	}
	for i := range out.Data {
		out.Data[i].Time -= ref
	}
	if out.Time != nil {
		t := *out.Time - ref
		out.Time = &t
	}

	trims, _ := out.Sandbox["trim"].([]any)
	out.Sandbox["slice"] = trims
	delete(out.Sandbox, "trim")

	return out
}

func fcopy(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
