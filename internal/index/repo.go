package index

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// DocRow represents a row in the documents table.
type DocRow struct {
	Path         string
	Title        string
	Artist       string
	Duration     *float64
	Checksum     string
	Namespaces   []string
	Annotations  int
	Observations int
	Errors       int
	Warnings     int
	UpdatedAt    time.Time
}

// AnnRow represents one annotation of an indexed document, in collection
// order.
type AnnRow struct {
	Namespace    string
	Observations int
	Errors       int
}

// SearchResult represents one search hit.
type SearchResult struct {
	Path    string
	Title   string
	Artist  string
	Snippet string
}

// NamespaceStat aggregates annotation usage for one namespace across the
// vault.
type NamespaceStat struct {
	Namespace    string `json:"namespace"`
	Documents    int    `json:"documents"`
	Annotations  int    `json:"annotations"`
	Observations int    `json:"observations"`
}

// UpsertDocument inserts or replaces a document, its annotation rows, and
// its FTS entry within a transaction.
func (db *DB) UpsertDocument(d DocRow, anns []AnnRow, searchText string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	nsJSON, _ := json.Marshal(d.Namespaces)

	_, err = tx.Exec(`
		INSERT INTO documents (path, title, artist, duration, checksum, namespaces,
		                       annotations, observations, errors, warnings, search_text, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title        = excluded.title,
			artist       = excluded.artist,
			duration     = excluded.duration,
			checksum     = excluded.checksum,
			namespaces   = excluded.namespaces,
			annotations  = excluded.annotations,
			observations = excluded.observations,
			errors       = excluded.errors,
			warnings     = excluded.warnings,
			search_text  = excluded.search_text,
			updated_at   = excluded.updated_at
	`, d.Path, d.Title, d.Artist, nullableFloat(d.Duration), d.Checksum, string(nsJSON),
		d.Annotations, d.Observations, d.Errors, d.Warnings, searchText, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert document: %w", err)
	}

	// FTS upsert (no-op when the FTS5 tag is absent).
	if err := ftsUpsert(tx, d.Path, d.Title, d.Artist, searchText); err != nil {
		return err
	}

	// Replace annotation rows: delete old then bulk insert in order.
	_, _ = tx.Exec(`DELETE FROM annotations WHERE path = ?`, d.Path)
	if len(anns) > 0 {
		stmt, err := tx.Prepare(`INSERT INTO annotations (path, ord, namespace, observations, errors) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare annotation insert: %w", err)
		}
		defer stmt.Close()
		for ord, a := range anns {
			if _, err := stmt.Exec(d.Path, ord, a.Namespace, a.Observations, a.Errors); err != nil {
				return fmt.Errorf("index: insert annotation: %w", err)
			}
		}
	}

	return tx.Commit()
}

// DeleteDocument removes a document, its FTS entry, and its annotation rows.
func (db *DB) DeleteDocument(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, path)
	_, _ = tx.Exec(`DELETE FROM annotations WHERE path = ?`, path)
	_, _ = tx.Exec(`DELETE FROM documents WHERE path = ?`, path)

	return tx.Commit()
}

// GetChecksum returns the stored checksum for a document, or empty string
// if not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM documents WHERE path = ?`, path).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}

// GetDocument returns the indexed row for path, or nil when absent.
func (db *DB) GetDocument(path string) (*DocRow, error) {
	row := db.conn.QueryRow(`
		SELECT path, title, artist, duration, checksum, namespaces,
		       annotations, observations, errors, warnings, updated_at
		FROM documents WHERE path = ?
	`, path)

	d, err := scanDocRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("index: get document: %w", err)
	}
	return d, nil
}

// ListDocuments returns paginated documents, optionally filtered to those
// containing an annotation in namespace ns.
func (db *DB) ListDocuments(limit, offset int, ns, sort string) ([]DocRow, int, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	order := "updated_at DESC"
	switch sort {
	case "title":
		order = "title ASC"
	case "artist":
		order = "artist ASC"
	case "path":
		order = "path ASC"
	}

	where := ""
	args := []any{}
	if ns != "" {
		where = `WHERE path IN (SELECT DISTINCT path FROM annotations WHERE namespace = ?)`
		args = append(args, ns)
	}

	var total int
	countArgs := append([]any(nil), args...)
	if err := db.conn.QueryRow(`SELECT count(*) FROM documents `+where, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count documents: %w", err)
	}

	args = append(args, limit, offset)
	rows, err := db.conn.Query(`
		SELECT path, title, artist, duration, checksum, namespaces,
		       annotations, observations, errors, warnings, updated_at
		FROM documents `+where+`
		ORDER BY `+order+`
		LIMIT ? OFFSET ?
	`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list documents: %w", err)
	}
	defer rows.Close()

	var out []DocRow
	for rows.Next() {
		d, err := scanDocRow(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *d)
	}
	return out, total, rows.Err()
}

// NamespaceStats aggregates annotation counts per namespace across all
// indexed documents.
func (db *DB) NamespaceStats() ([]NamespaceStat, error) {
	rows, err := db.conn.Query(`
		SELECT namespace, count(DISTINCT path), count(*), coalesce(sum(observations), 0)
		FROM annotations
		GROUP BY namespace
		ORDER BY namespace
	`)
	if err != nil {
		return nil, fmt.Errorf("index: namespace stats: %w", err)
	}
	defer rows.Close()

	var out []NamespaceStat
	for rows.Next() {
		var s NamespaceStat
		if err := rows.Scan(&s.Namespace, &s.Documents, &s.Annotations, &s.Observations); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DocumentsByNamespace returns all document paths containing at least one
// annotation in namespace ns.
func (db *DB) DocumentsByNamespace(ns string) ([]string, error) {
	rows, err := db.conn.Query(`SELECT DISTINCT path FROM annotations WHERE namespace = ? ORDER BY path`, ns)
	if err != nil {
		return nil, fmt.Errorf("index: documents by namespace: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// AllPaths returns every indexed document path.
func (db *DB) AllPaths() (map[string]struct{}, error) {
	rows, err := db.conn.Query(`SELECT path FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("index: all paths: %w", err)
	}
	defer rows.Close()
	out := make(map[string]struct{})
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out[p] = struct{}{}
	}
	return out, rows.Err()
}

// AllChecksums returns path → checksum for every indexed document.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocRow(row rowScanner) (*DocRow, error) {
	var d DocRow
	var nsJSON string
	var duration sql.NullFloat64
	if err := row.Scan(&d.Path, &d.Title, &d.Artist, &duration, &d.Checksum, &nsJSON,
		&d.Annotations, &d.Observations, &d.Errors, &d.Warnings, &d.UpdatedAt); err != nil {
		return nil, err
	}
	if duration.Valid {
		v := duration.Float64
		d.Duration = &v
	}
	_ = json.Unmarshal([]byte(nsJSON), &d.Namespaces)
	return &d, nil
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
