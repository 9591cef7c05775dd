// Package parser turns raw .jams document bytes into the annotation object
// graph plus a summary consumed by the index and API layers.
package parser

import (
	"github.com/starford/stave/internal/annot"
)

// Result holds the output of parsing one document file.
type Result struct {
	Doc *annot.Document

	Title        string
	Artist       string
	Duration     *float64
	Namespaces   []string
	Annotations  int
	Observations int
}

// Parse decodes data as a document and derives its summary fields.
// Structural decode failures (not valid JSON, wrong top-level shape) are
// errors; semantic validity is the validation engine's concern.
func Parse(data []byte) (*Result, error) {
	doc, err := annot.Decode(data)
	if err != nil {
		return nil, err
	}

	namespaces := doc.Annotations.Namespaces()
	if namespaces == nil {
		namespaces = []string{}
	}

	return &Result{
		Doc:          doc,
		Title:        doc.Metadata.Title,
		Artist:       doc.Metadata.Artist,
		Duration:     doc.Metadata.Duration,
		Namespaces:   namespaces,
		Annotations:  len(doc.Annotations),
		Observations: doc.Annotations.Observations(),
	}, nil
}
