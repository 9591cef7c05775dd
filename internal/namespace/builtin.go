package namespace

func fptr(v float64) *float64 { return &v }

// Builtin constructs a fresh registry preloaded with the standard MIR
// namespace set. Each call returns an independent registry, so custom
// registrations in one session never leak into another.
func Builtin() *Registry {
	r := NewRegistry()

	for _, s := range builtinSchemas() {
		// Builtin descriptions are static; a parse failure here is a
		// programming error.
		r.RegisterForce(s)
	}
	return r
}

func builtinSchemas() []*Schema {
	mustParse := func(id string, d Description) *Schema {
		s, err := Parse(id, d)
		if err != nil {
			panic(err)
		}
		return s
	}

	return []*Schema{
		mustParse("beat", Description{
			Description: "Beat event markers with optional metrical position",
			Value:       &RawConstraint{Type: "number", Minimum: fptr(0)},
			Confidence:  &RawConstraint{Type: "number", Minimum: fptr(0), Maximum: fptr(1)},
		}),
		mustParse("beat_position", Description{
			Description: "Beat events annotated with metrical position",
			Value: &RawConstraint{
				Type: "object",
				Fields: map[string]*RawConstraint{
					"position":   {Type: "integer", Minimum: fptr(1)},
					"measure":    {Type: "integer", Minimum: fptr(0)},
					"num_beats":  {Type: "integer", Minimum: fptr(1)},
					"beat_units": {Type: "enum", Values: []any{1, 2, 4, 8, 16, 32, 64}},
				},
				Required: []string{"position", "measure", "num_beats", "beat_units"},
				Closed:   true,
			},
		}),
		mustParse("onset", Description{
			Description: "Note or event onset times",
			Value:       &RawConstraint{Type: "any"},
		}),
		mustParse("tempo", Description{
			Description: "Tempo measurements in beats per minute",
			Value: &RawConstraint{
				Type:             "number",
				Minimum:          fptr(0),
				ExclusiveMinimum: true,
			},
			Confidence: &RawConstraint{Type: "number", Minimum: fptr(0), Maximum: fptr(1)},
		}),
		mustParse("chord", Description{
			Description: "Chord labels in Harte notation",
			Value: &RawConstraint{
				Type:    "string",
				Pattern: `^((N|X)|([A-G][b#]*(:[a-z0-9]+)?(\([0-9b#,]+\))?(/[0-9b#]+)?))$`,
			},
		}),
		mustParse("segment_open", Description{
			Description: "Structural segments with free-text labels",
			Value:       &RawConstraint{Type: "string"},
		}),
		mustParse("tag_open", Description{
			Description: "Open-vocabulary tags",
			Value:       &RawConstraint{Type: "string"},
			Confidence:  &RawConstraint{Type: "number", Minimum: fptr(0), Maximum: fptr(1)},
		}),
		mustParse("pitch_hz", Description{
			Description: "Fundamental frequency contour in Hz; negative values indicate unvoiced estimates",
			Dense:       true,
			Value:       &RawConstraint{Type: "number"},
		}),
		mustParse("lyrics", Description{
			Description: "Time-aligned lyrics",
			Value:       &RawConstraint{Type: "string"},
		}),
	}
}
