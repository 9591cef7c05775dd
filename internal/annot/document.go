package annot

import (
	"encoding/json"
	"fmt"

	"github.com/starford/stave/internal/namespace"
	"github.com/starford/stave/internal/validate"
)

// OnConflict selects the file-metadata strategy for Document.Merge.
type OnConflict string

const (
	// ConflictFail aborts the merge when file metadata differs.
	ConflictFail OnConflict = "fail"
	// ConflictOverwrite replaces the receiver's metadata with the other
	// document's.
	ConflictOverwrite OnConflict = "overwrite"
	// ConflictIgnore keeps the receiver's metadata regardless.
	ConflictIgnore OnConflict = "ignore"
)

// Document is one file's complete annotated package: file metadata plus all
// of its annotations, with a free-form sandbox. It owns both sub-objects
// exclusively.
type Document struct {
	Metadata    FileMetadata `json:"file_metadata"`
	Annotations Collection   `json:"annotations"`
	Sandbox     Sandbox      `json:"sandbox,omitempty"`
}

// NewDocument creates an empty document stamped with the current schema
// version.
func NewDocument() *Document {
	return &Document{
		Metadata: FileMetadata{Version: SchemaVersion},
	}
}

// Decode parses the logical interchange form (a JSON object with
// file_metadata, annotations, and sandbox) into a Document. Structural
// decode failures are errors; semantic validity is a separate concern, see
// Validate.
func Decode(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("annot: decode document: %w", err)
	}
	return &d, nil
}

// Encode renders the document in the logical interchange form.
func (d *Document) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("annot: encode document: %w", err)
	}
	return data, nil
}

// Validate checks file-metadata invariants and every owned annotation,
// prefixing annotation problems with their collection position so records
// from different annotations never collide.
func (d *Document) Validate(reg *namespace.Registry) validate.Result {
	var res validate.Result

	if d.Metadata.Duration != nil && *d.Metadata.Duration < 0 {
		res = append(res, validate.Problem{
			Path:     "file_metadata.duration",
			Expected: "non-negative number",
			Observed: *d.Metadata.Duration,
			Severity: validate.SeverityError,
		})
	}

	for i, a := range d.Annotations {
		prefix := fmt.Sprintf("annotations[%d]", i)
		res = append(res, a.Validate(reg).Prefixed(prefix)...)

		// File duration must cover every observation's end time. Checked
		// here, never enforced at mutation time.
		if d.Metadata.Duration != nil && *d.Metadata.Duration >= 0 {
			for j, o := range a.Data {
				if o.End() > *d.Metadata.Duration {
					res = append(res, validate.Problem{
						Path:     fmt.Sprintf("%s.data[%d]", prefix, j),
						Expected: fmt.Sprintf("observation end within file duration %g", *d.Metadata.Duration),
						Observed: o.End(),
						Severity: validate.SeverityError,
					})
				}
			}
		}
	}

	return res
}

// Search returns all annotations whose namespace matches the pattern.
func (d *Document) Search(pattern string) (Collection, error) {
	return d.Annotations.Search(pattern)
}

// Merge adds the contents of other into d. When file metadata differs, the
// policy decides: fail (default-safe), overwrite, or ignore. Annotations
// and sandbox entries are appended/merged regardless of the policy outcome
// only on success.
func (d *Document) Merge(other *Document, policy OnConflict) error {
	switch policy {
	case ConflictFail, ConflictOverwrite, ConflictIgnore:
	default:
		return fmt.Errorf("annot: merge: unknown conflict policy %q", policy)
	}

	if !metadataEqual(d.Metadata, other.Metadata) {
		switch policy {
		case ConflictFail:
			return fmt.Errorf("annot: merge: file metadata conflict; resolve manually or overwrite")
		case ConflictOverwrite:
			d.Metadata = other.Metadata
		}
	}

	d.Annotations = append(d.Annotations, other.Annotations...)

	if len(other.Sandbox) > 0 {
		if d.Sandbox == nil {
			d.Sandbox = Sandbox{}
		}
		for k, v := range other.Sandbox {
			d.Sandbox[k] = v
		}
	}
	return nil
}

// Trim returns a copy of the document with every annotation trimmed to
// [start, end]. File metadata and sandbox are carried over unchanged.
func (d *Document) Trim(start, end float64) *Document {
	out := &Document{
		Metadata: d.Metadata,
		Sandbox:  d.Sandbox.Clone(),
	}
	for _, a := range d.Annotations {
		out.Annotations = append(out.Annotations, a.Trim(start, end))
	}
	return out
}

func metadataEqual(a, b FileMetadata) bool {
	if a.Title != b.Title || a.Artist != b.Artist || a.Release != b.Release || a.Version != b.Version {
		return false
	}
	if (a.Duration == nil) != (b.Duration == nil) {
		return false
	}
	if a.Duration != nil && *a.Duration != *b.Duration {
		return false
	}
	if len(a.Identifiers) != len(b.Identifiers) {
		return false
	}
	for k, v := range a.Identifiers {
		if b.Identifiers[k] != v {
			return false
		}
	}
	return true
}
