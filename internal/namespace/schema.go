// Package namespace defines annotation namespace schemas and the registry
// that maps namespace identifiers to them.
package namespace

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
)

// ErrSchemaParse is wrapped by all schema description parsing failures.
var ErrSchemaParse = errors.New("malformed schema description")

// Kind enumerates the constraint kinds of the schema grammar.
type Kind int

const (
	// KindAny accepts any JSON-compatible value.
	KindAny Kind = iota
	// KindString accepts strings, optionally matching a pattern.
	KindString
	// KindNumber accepts numbers within optional bounds.
	KindNumber
	// KindInteger accepts integral numbers within optional bounds.
	KindInteger
	// KindEnum accepts values from a fixed set, by exact equality.
	KindEnum
	// KindObject accepts objects with named, recursively constrained fields.
	KindObject
)

// String returns the grammar keyword for the kind.
func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	case KindEnum:
		return "enum"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Constraint is one node of a parsed constraint tree.
type Constraint struct {
	Kind Kind

	// Pattern applies to KindString when non-nil.
	Pattern *regexp.Regexp

	// Min/Max apply to KindNumber and KindInteger. Bounds are inclusive
	// unless the corresponding Exclusive flag is set.
	Min, Max                   *float64
	ExclusiveMin, ExclusiveMax bool

	// Values applies to KindEnum.
	Values []any

	// Fields, Required, and Closed apply to KindObject. A closed object
	// rejects undeclared fields as errors; an open one reports warnings.
	Fields   map[string]*Constraint
	Required []string
	Closed   bool
}

// Describe renders the constraint as a short human-readable expectation,
// used in validation problem records.
func (c *Constraint) Describe() string {
	switch c.Kind {
	case KindAny:
		return "any value"
	case KindString:
		if c.Pattern != nil {
			return fmt.Sprintf("string matching %s", c.Pattern)
		}
		return "string"
	case KindNumber, KindInteger:
		lo, hi := "(-inf", "+inf)"
		if c.Min != nil {
			br := "["
			if c.ExclusiveMin {
				br = "("
			}
			lo = fmt.Sprintf("%s%g", br, *c.Min)
		}
		if c.Max != nil {
			br := "]"
			if c.ExclusiveMax {
				br = ")"
			}
			hi = fmt.Sprintf("%g%s", *c.Max, br)
		}
		return fmt.Sprintf("%s in %s, %s", c.Kind, lo, hi)
	case KindEnum:
		return fmt.Sprintf("one of %v", c.Values)
	case KindObject:
		names := make([]string, 0, len(c.Fields))
		for name := range c.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		return fmt.Sprintf("object with fields %v", names)
	default:
		return "unknown constraint"
	}
}

// Schema is the parsed, registrable definition of one namespace.
type Schema struct {
	ID          string
	Description string

	// Dense marks namespaces whose observations form a continuous sampling
	// (e.g. pitch contours) rather than sparse events.
	Dense bool

	// Value constrains every observation value. Never nil after parsing;
	// an omitted value constraint means KindAny.
	Value *Constraint

	// Confidence, when non-nil, constrains non-null observation confidences.
	Confidence *Constraint

	// RequiredMeta lists annotation metadata fields that must be non-empty,
	// e.g. "corpus" or "curator.email".
	RequiredMeta []string
}

// Description is the declarative wire form of a schema, as found in JSON or
// YAML namespace catalogs.
type Description struct {
	Description  string             `json:"description,omitempty" yaml:"description,omitempty"`
	Dense        bool               `json:"dense" yaml:"dense"`
	Value        *RawConstraint     `json:"value,omitempty" yaml:"value,omitempty"`
	Confidence   *RawConstraint     `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	RequiredMeta []string           `json:"required_meta,omitempty" yaml:"required_meta,omitempty"`
}

// RawConstraint is the wire form of one constraint node.
type RawConstraint struct {
	Type             string                    `json:"type" yaml:"type"`
	Pattern          string                    `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Minimum          *float64                  `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum          *float64                  `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	ExclusiveMinimum bool                      `json:"exclusive_minimum,omitempty" yaml:"exclusive_minimum,omitempty"`
	ExclusiveMaximum bool                      `json:"exclusive_maximum,omitempty" yaml:"exclusive_maximum,omitempty"`
	Values           []any                     `json:"values,omitempty" yaml:"values,omitempty"`
	Fields           map[string]*RawConstraint `json:"fields,omitempty" yaml:"fields,omitempty"`
	Required         []string                  `json:"required,omitempty" yaml:"required,omitempty"`
	Closed           bool                      `json:"closed,omitempty" yaml:"closed,omitempty"`
}

// metaFields are the annotation metadata fields a schema may require.
var metaFields = map[string]struct{}{
	"corpus":           {},
	"version":          {},
	"annotation_tools": {},
	"annotation_rules": {},
	"validation":       {},
	"data_source":      {},
	"curator.name":     {},
	"curator.email":    {},
}

// Parse converts a declarative description into a Schema. It is pure: no
// registry is touched, and the same description always yields an equivalent
// schema or the same failure.
func Parse(id string, d Description) (*Schema, error) {
	if id == "" {
		return nil, fmt.Errorf("namespace: empty identifier: %w", ErrSchemaParse)
	}

	value, err := parseConstraint(d.Value)
	if err != nil {
		return nil, fmt.Errorf("namespace: schema %q: value: %w", id, err)
	}
	if value == nil {
		value = &Constraint{Kind: KindAny}
	}

	var confidence *Constraint
	if d.Confidence != nil {
		confidence, err = parseConstraint(d.Confidence)
		if err != nil {
			return nil, fmt.Errorf("namespace: schema %q: confidence: %w", id, err)
		}
	}

	for _, name := range d.RequiredMeta {
		if _, ok := metaFields[name]; !ok {
			return nil, fmt.Errorf("namespace: schema %q: unknown metadata field %q: %w",
				id, name, ErrSchemaParse)
		}
	}

	return &Schema{
		ID:           id,
		Description:  d.Description,
		Dense:        d.Dense,
		Value:        value,
		Confidence:   confidence,
		RequiredMeta: append([]string(nil), d.RequiredMeta...),
	}, nil
}

func parseConstraint(raw *RawConstraint) (*Constraint, error) {
	if raw == nil {
		return nil, nil
	}

	switch raw.Type {
	case "", "any":
		return &Constraint{Kind: KindAny}, nil

	case "string":
		c := &Constraint{Kind: KindString}
		if raw.Pattern != "" {
			re, err := regexp.Compile(raw.Pattern)
			if err != nil {
				return nil, fmt.Errorf("bad pattern %q: %w", raw.Pattern, ErrSchemaParse)
			}
			c.Pattern = re
		}
		return c, nil

	case "number", "integer":
		kind := KindNumber
		if raw.Type == "integer" {
			kind = KindInteger
		}
		if raw.Minimum != nil && raw.Maximum != nil && *raw.Minimum > *raw.Maximum {
			return nil, fmt.Errorf("minimum %g exceeds maximum %g: %w",
				*raw.Minimum, *raw.Maximum, ErrSchemaParse)
		}
		return &Constraint{
			Kind:         kind,
			Min:          raw.Minimum,
			Max:          raw.Maximum,
			ExclusiveMin: raw.ExclusiveMinimum,
			ExclusiveMax: raw.ExclusiveMaximum,
		}, nil

	case "enum":
		if len(raw.Values) == 0 {
			return nil, fmt.Errorf("enum with no values: %w", ErrSchemaParse)
		}
		return &Constraint{Kind: KindEnum, Values: append([]any(nil), raw.Values...)}, nil

	case "object":
		fields := make(map[string]*Constraint, len(raw.Fields))
		for name, rawField := range raw.Fields {
			field, err := parseConstraint(rawField)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", name, err)
			}
			if field == nil {
				field = &Constraint{Kind: KindAny}
			}
			fields[name] = field
		}
		for _, name := range raw.Required {
			if _, ok := fields[name]; !ok {
				return nil, fmt.Errorf("required field %q not declared: %w", name, ErrSchemaParse)
			}
		}
		return &Constraint{
			Kind:     KindObject,
			Fields:   fields,
			Required: append([]string(nil), raw.Required...),
			Closed:   raw.Closed,
		}, nil

	default:
		return nil, fmt.Errorf("unknown constraint kind %q: %w", raw.Type, ErrSchemaParse)
	}
}

// ParseCatalog parses a JSON catalog mapping namespace ids to descriptions.
func ParseCatalog(data []byte) ([]*Schema, error) {
	var raw map[string]Description
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("namespace: decode catalog: %v: %w", err, ErrSchemaParse)
	}
	return parseAll(raw)
}

func parseAll(raw map[string]Description) ([]*Schema, error) {
	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*Schema, 0, len(ids))
	for _, id := range ids {
		s, err := Parse(id, raw[id])
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
