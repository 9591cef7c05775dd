// Package testutil provides shared test helpers for setting up vaults and databases.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/stave/internal/index"
	"github.com/starford/stave/internal/storage"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "stave-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestVault creates a temporary vault directory with a storage.Provider.
func TestVault(t *testing.T) (string, storage.Provider) {
	t.Helper()
	vaultDir := t.TempDir()
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	return vaultDir, store
}

// BeatDocument returns a minimal valid document payload with one beat
// annotation, usable as seed content in storage and API tests.
func BeatDocument(title string) []byte {
	return []byte(`{
  "file_metadata": {
    "title": "` + title + `",
    "artist": "Test Artist",
    "release": "",
    "duration": 10.0,
    "identifiers": {},
    "schema_version": "0.2.0"
  },
  "annotations": [
    {
      "namespace": "beat",
      "data": [
        {"time": 0.5, "duration": 0.0, "value": 1, "confidence": null},
        {"time": 1.0, "duration": 0.0, "value": 2, "confidence": 0.9}
      ],
      "annotation_metadata": {
        "curator": {"name": "", "email": ""},
        "corpus": "",
        "version": "",
        "annotator": {},
        "annotation_tools": "",
        "annotation_rules": "",
        "validation": "",
        "data_source": ""
      },
      "sandbox": {},
      "time": 0,
      "duration": 10.0
    }
  ],
  "sandbox": {}
}`)
}
