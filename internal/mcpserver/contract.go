package mcpserver

// DocumentFormatContract describes the canonical annotation document format
// that LLM consumers should follow when creating or updating documents.
const DocumentFormatContract = `# Stave Document Format Contract

Every annotation document stored in Stave MUST follow this structure.

## Structure

` + "```" + `json
{
  "file_metadata": {
    "title": "Track title",
    "artist": "Artist name",
    "release": "Album or release name",
    "duration": 180.5,
    "identifiers": {"media": "/media/track01.wav"},
    "schema_version": "0.2.0"
  },
  "annotations": [
    {
      "namespace": "beat",
      "data": [
        {"time": 0.5, "duration": 0.0, "value": 1, "confidence": 0.9},
        {"time": 1.0, "duration": 0.0, "value": 2, "confidence": null}
      ],
      "annotation_metadata": {
        "curator": {"name": "Jane Doe", "email": "jane@example.com"},
        "corpus": "my-corpus",
        "version": "1.0",
        "annotator": {},
        "annotation_tools": "tapping",
        "annotation_rules": "",
        "validation": "",
        "data_source": "manual annotation"
      },
      "sandbox": {},
      "time": 0,
      "duration": 180.5
    }
  ],
  "sandbox": {}
}
` + "```" + `

## Rules

1. **file_metadata is mandatory.** All string fields may be empty; ` + "`" + `duration` + "`" + `
   is in seconds and must be non-negative when present.
2. **Every annotation declares a namespace.** The namespace must be registered;
   use the ` + "`" + `list_namespaces` + "`" + ` tool to see what is available and what value
   shape each namespace expects.
3. **Observations** carry ` + "`" + `time` + "`" + ` (seconds, >= 0), ` + "`" + `duration` + "`" + ` (seconds, >= 0),
   ` + "`" + `value` + "`" + ` (shape depends on the namespace), and optional ` + "`" + `confidence` + "`" + `.
4. **Observation end times** (time + duration) must not exceed the file duration
   when one is set.
5. **File paths** end with ` + "`" + `.jams` + "`" + ` and use forward slashes.
6. **Encoding** is UTF-8 JSON.
7. **Media files** uploaded via the ` + "`" + `upload_media` + "`" + ` tool live in the shared
   ` + "`" + `media/` + "`" + ` directory (flat, no sub-folders). Reference them from
   ` + "`" + `file_metadata.identifiers` + "`" + ` using the absolute path ` + "`" + `/media/filename.wav` + "`" + `.

## Namespace value shapes

- ` + "`" + `beat` + "`" + `: numeric beat index (>= 0)
- ` + "`" + `beat_position` + "`" + `: object with position, measure, num_beats, beat_units
- ` + "`" + `onset` + "`" + `: any value (time matters, value ignored)
- ` + "`" + `tempo` + "`" + `: BPM number (> 0)
- ` + "`" + `chord` + "`" + `: chord label string (e.g. "C:maj", "A:min7", "N")
- ` + "`" + `segment_open` + "`" + `, ` + "`" + `tag_open` + "`" + `, ` + "`" + `lyrics` + "`" + `: free string
- ` + "`" + `pitch_hz` + "`" + `: frequency in Hz (dense time series)

Documents that fail validation are still stored and indexed; their problems
are reported by the ` + "`" + `validate_document` + "`" + ` tool and the API.
`
