package parser

import (
	"testing"
)

const beatDoc = `{
  "file_metadata": {
    "title": "My Track",
    "artist": "Test Artist",
    "release": "",
    "duration": 10.0,
    "schema_version": "0.2.0"
  },
  "annotations": [
    {
      "namespace": "beat",
      "data": [
        {"time": 0.5, "duration": 0.0, "value": 1, "confidence": null},
        {"time": 1.0, "duration": 0.0, "value": 2, "confidence": 0.9}
      ],
      "annotation_metadata": {"curator": {"name": "", "email": ""}},
      "sandbox": {}
    }
  ],
  "sandbox": {}
}`

func TestParseSummary(t *testing.T) {
	res, err := Parse([]byte(beatDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Title != "My Track" || res.Artist != "Test Artist" {
		t.Errorf("title = %q, artist = %q", res.Title, res.Artist)
	}
	if res.Duration == nil || *res.Duration != 10.0 {
		t.Errorf("duration = %v", res.Duration)
	}
	if res.Annotations != 1 || res.Observations != 2 {
		t.Errorf("annotations = %d, observations = %d", res.Annotations, res.Observations)
	}
	if len(res.Namespaces) != 1 || res.Namespaces[0] != "beat" {
		t.Errorf("namespaces = %v", res.Namespaces)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	res, err := Parse([]byte(`{"file_metadata": {}, "annotations": []}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Namespaces == nil {
		t.Error("namespaces should be an empty slice, not nil")
	}
	if res.Annotations != 0 || res.Observations != 0 {
		t.Errorf("counts = %d, %d", res.Annotations, res.Observations)
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse([]byte("not json at all")); err == nil {
		t.Error("expected error for malformed input")
	}
}
