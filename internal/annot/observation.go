// Package annot defines the annotation object graph: observations,
// annotations, collections, and file-level documents, together with their
// namespace-driven validation entry points.
package annot

// Observation is one timed data point within an annotation. Value is typed
// by the owning annotation's namespace; Confidence is optional and nil when
// unreported.
type Observation struct {
	Time       float64  `json:"time"`
	Duration   float64  `json:"duration"`
	Value      any      `json:"value"`
	Confidence *float64 `json:"confidence"`
}

// End returns the observation's end time (time + duration).
func (o Observation) End() float64 {
	return o.Time + o.Duration
}

// Conf is a convenience constructor for optional confidence values.
func Conf(v float64) *float64 { return &v }
