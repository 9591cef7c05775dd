// Package docservice coordinates storage, index, and registry operations
// for the API and MCP layers.
package docservice

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/starford/stave/internal/annot"
	"github.com/starford/stave/internal/apperr"
	"github.com/starford/stave/internal/checksum"
	"github.com/starford/stave/internal/index"
	"github.com/starford/stave/internal/namespace"
	"github.com/starford/stave/internal/parser"
	"github.com/starford/stave/internal/storage"
	"github.com/starford/stave/internal/validate"
)

// DocumentDetail is the full representation of one vault document.
type DocumentDetail struct {
	Path         string          `json:"path"`
	Title        string          `json:"title"`
	Artist       string          `json:"artist"`
	Duration     *float64        `json:"duration"`
	Checksum     string          `json:"checksum"`
	Namespaces   []string        `json:"namespaces"`
	Annotations  int             `json:"annotations"`
	Observations int             `json:"observations"`
	Problems     validate.Result `json:"problems"`
	Valid        bool            `json:"valid"`
	Document     *annot.Document `json:"document"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// DocumentListItem is a lightweight item in a list response.
type DocumentListItem struct {
	Path         string    `json:"path"`
	Title        string    `json:"title"`
	Artist       string    `json:"artist"`
	Checksum     string    `json:"checksum"`
	Namespaces   []string  `json:"namespaces"`
	Annotations  int       `json:"annotations"`
	Observations int       `json:"observations"`
	Errors       int       `json:"errors"`
	Warnings     int       `json:"warnings"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Service coordinates storage and index operations.
type Service struct {
	store storage.Provider
	db    *index.DB
	reg   *namespace.Registry
}

// New creates a new document service.
func New(store storage.Provider, db *index.DB, reg *namespace.Registry) *Service {
	return &Service{store: store, db: db, reg: reg}
}

// Registry returns the namespace registry used for validation.
func (s *Service) Registry() *namespace.Registry { return s.reg }

// GetDocument reads a document from storage, parses it, and computes its
// validation problems on demand.
func (s *Service) GetDocument(_ context.Context, path string) (*DocumentDetail, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return s.buildDetail(path, data)
}

// CreateDocument writes a new document and indexes it. The content must be
// structurally decodable; semantic invalidity is recorded, not rejected.
func (s *Service) CreateDocument(_ context.Context, path string, content []byte) (*DocumentDetail, error) {
	if _, err := s.store.Read(path); err == nil {
		return nil, apperr.ErrAlreadyExists
	}
	if _, err := parser.Parse(content); err != nil {
		return nil, err
	}
	if err := s.store.Write(path, content); err != nil {
		return nil, err
	}
	if err := s.IndexFile(path, content); err != nil {
		return nil, err
	}
	return s.buildDetail(path, content)
}

// UpdateDocument writes updated content with optimistic concurrency: when
// ifMatch is non-empty it must equal the stored content's checksum.
func (s *Service) UpdateDocument(_ context.Context, path string, content []byte, ifMatch string) (*DocumentDetail, error) {
	existing, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if ifMatch != "" && ifMatch != checksum.Sum(existing) {
		return nil, apperr.ErrConflict
	}
	if _, err := parser.Parse(content); err != nil {
		return nil, err
	}
	if err := s.store.Write(path, content); err != nil {
		return nil, err
	}
	if err := s.IndexFile(path, content); err != nil {
		return nil, err
	}
	return s.buildDetail(path, content)
}

// DeleteDocument removes a document from storage and index.
func (s *Service) DeleteDocument(_ context.Context, path string) error {
	if err := s.store.Delete(path); err != nil {
		return err
	}
	return s.db.DeleteDocument(path)
}

// ListDocuments returns paginated documents with optional namespace filter.
func (s *Service) ListDocuments(_ context.Context, limit, offset int, ns, sort string) ([]DocumentListItem, int, error) {
	rows, total, err := s.db.ListDocuments(limit, offset, ns, sort)
	if err != nil {
		return nil, 0, err
	}
	items := make([]DocumentListItem, len(rows))
	for i, r := range rows {
		items[i] = DocumentListItem{
			Path:         r.Path,
			Title:        r.Title,
			Artist:       r.Artist,
			Checksum:     r.Checksum,
			Namespaces:   nonNilSlice(r.Namespaces),
			Annotations:  r.Annotations,
			Observations: r.Observations,
			Errors:       r.Errors,
			Warnings:     r.Warnings,
			UpdatedAt:    r.UpdatedAt,
		}
	}
	return items, total, nil
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

// NamespaceStats aggregates per-namespace annotation counts from the index.
func (s *Service) NamespaceStats(_ context.Context) ([]index.NamespaceStat, error) {
	return s.db.NamespaceStats()
}

// DocumentsByNamespace returns all document paths carrying the namespace.
func (s *Service) DocumentsByNamespace(_ context.Context, ns string) ([]string, error) {
	return s.db.DocumentsByNamespace(ns)
}

// ValidateDocument re-reads a stored document and returns its full problem
// list. The result is recomputed; nothing is cached across mutations.
func (s *Service) ValidateDocument(_ context.Context, path string) (validate.Result, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return s.ValidateBytes(data)
}

// ValidateBytes validates an arbitrary document payload without storing it.
func (s *Service) ValidateBytes(data []byte) (validate.Result, error) {
	doc, err := annot.Decode(data)
	if err != nil {
		return nil, err
	}
	return doc.Validate(s.reg), nil
}

// IndexFile parses, validates, and upserts one document into the index.
// Exported so that sync and watcher share the same code path.
func (s *Service) IndexFile(path string, data []byte) error {
	return index.IndexFile(s.db, s.reg, path, data)
}

// buildDetail constructs a DocumentDetail from raw data without re-reading
// the file.
func (s *Service) buildDetail(path string, data []byte) (*DocumentDetail, error) {
	res, err := parser.Parse(data)
	if err != nil {
		return nil, err
	}
	problems := res.Doc.Validate(s.reg)
	if problems == nil {
		problems = validate.Result{}
	}
	return &DocumentDetail{
		Path:         path,
		Title:        res.Title,
		Artist:       res.Artist,
		Duration:     res.Duration,
		Checksum:     checksum.Sum(data),
		Namespaces:   nonNilSlice(res.Namespaces),
		Annotations:  res.Annotations,
		Observations: res.Observations,
		Problems:     problems,
		Valid:        problems.Valid(),
		Document:     res.Doc,
		UpdatedAt:    time.Now(),
	}, nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
