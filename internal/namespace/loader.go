package namespace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile parses a namespace catalog file. The format is chosen by
// extension: .json for JSON, .yaml/.yml for YAML. Each file maps one or
// more namespace ids to their descriptions.
func LoadFile(path string) ([]*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("namespace: read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseCatalog(data)
	case ".yaml", ".yml":
		var raw map[string]Description
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("namespace: decode %s: %v: %w", path, err, ErrSchemaParse)
		}
		return parseAll(raw)
	default:
		return nil, fmt.Errorf("namespace: %s: unsupported catalog format: %w", path, ErrSchemaParse)
	}
}

// LoadDir walks dir and parses every catalog file found. Files with other
// extensions are skipped. Parsing is pure; use Registry.LoadDir to register
// the results.
func LoadDir(dir string) ([]*Schema, error) {
	var out []*Schema
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json", ".yaml", ".yml":
		default:
			return nil
		}
		schemas, err := LoadFile(path)
		if err != nil {
			return err
		}
		out = append(out, schemas...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
