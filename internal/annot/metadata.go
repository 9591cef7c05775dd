package annot

// SchemaVersion identifies the document layout produced by this package.
const SchemaVersion = "0.2.0"

// Sandbox holds unconstrained, JSON-compatible auxiliary data.
type Sandbox map[string]any

// Clone returns a shallow copy of the sandbox.
func (s Sandbox) Clone() Sandbox {
	if s == nil {
		return nil
	}
	out := make(Sandbox, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Curator names the person responsible for an annotation.
type Curator struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Metadata carries provenance for one annotation.
type Metadata struct {
	Curator         Curator `json:"curator"`
	Version         string  `json:"version"`
	Corpus          string  `json:"corpus"`
	Annotator       Sandbox `json:"annotator,omitempty"`
	AnnotationTools string  `json:"annotation_tools"`
	AnnotationRules string  `json:"annotation_rules"`
	Validation      string  `json:"validation"`
	DataSource      string  `json:"data_source"`
}

// Field returns the value of a named metadata field, as used by schema
// required-field lists. Unknown names report ok=false.
func (m Metadata) Field(name string) (value string, ok bool) {
	switch name {
	case "corpus":
		return m.Corpus, true
	case "version":
		return m.Version, true
	case "annotation_tools":
		return m.AnnotationTools, true
	case "annotation_rules":
		return m.AnnotationRules, true
	case "validation":
		return m.Validation, true
	case "data_source":
		return m.DataSource, true
	case "curator.name":
		return m.Curator.Name, true
	case "curator.email":
		return m.Curator.Email, true
	default:
		return "", false
	}
}

// FileMetadata describes the audio file a document annotates.
type FileMetadata struct {
	Title       string            `json:"title"`
	Artist      string            `json:"artist"`
	Release     string            `json:"release"`
	Duration    *float64          `json:"duration"`
	Identifiers map[string]string `json:"identifiers,omitempty"`
	Version     string            `json:"schema_version"`
}
