package index

import (
	"log/slog"
	"strings"
	"time"

	"github.com/starford/stave/internal/checksum"
	"github.com/starford/stave/internal/namespace"
	"github.com/starford/stave/internal/parser"
	"github.com/starford/stave/internal/storage"
)

// Sync walks the vault and brings the index up to date:
//   - new/changed documents are parsed, validated, and upserted
//   - files removed from disk are deleted from the index
func Sync(db *DB, store storage.Provider, reg *namespace.Registry, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := IndexFile(db, reg, m.Path, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteDocument(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// IndexFile parses and validates data, then upserts the document row.
// Exported so that the service, sync, and watcher share one code path.
// Invalid documents are still indexed; their problem counts are recorded.
func IndexFile(db *DB, reg *namespace.Registry, path string, data []byte) error {
	res, err := parser.Parse(data)
	if err != nil {
		return err
	}
	cs := checksum.Sum(data)

	problems := res.Doc.Validate(reg)

	anns := make([]AnnRow, len(res.Doc.Annotations))
	for i, a := range res.Doc.Annotations {
		anns[i] = AnnRow{
			Namespace:    a.Namespace,
			Observations: len(a.Data),
			Errors:       len(a.Validate(reg).Errors()),
		}
	}

	row := DocRow{
		Path:         path,
		Title:        res.Title,
		Artist:       res.Artist,
		Duration:     res.Duration,
		Checksum:     cs,
		Namespaces:   res.Namespaces,
		Annotations:  res.Annotations,
		Observations: res.Observations,
		Errors:       len(problems.Errors()),
		Warnings:     len(problems.Warnings()),
		UpdatedAt:    time.Now(),
	}

	searchText := strings.Join(append([]string{
		res.Title,
		res.Artist,
		res.Doc.Metadata.Release,
	}, res.Namespaces...), " ")

	return db.UpsertDocument(row, anns, searchText)
}
