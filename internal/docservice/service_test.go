package docservice

import (
	"context"
	"errors"
	"testing"

	"github.com/starford/stave/internal/apperr"
	"github.com/starford/stave/internal/checksum"
	"github.com/starford/stave/internal/namespace"
	"github.com/starford/stave/internal/testutil"
)

func testService(t *testing.T) *Service {
	t.Helper()
	_, store := testutil.TestVault(t)
	db := testutil.TestDB(t)
	return New(store, db, namespace.Builtin())
}

func TestCreateAndGetDocument(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	created, err := svc.CreateDocument(ctx, "a.jams", testutil.BeatDocument("Alpha"))
	if err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}
	if created.Title != "Alpha" || !created.Valid {
		t.Errorf("created = %+v", created)
	}

	got, err := svc.GetDocument(ctx, "a.jams")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if got.Title != "Alpha" || got.Annotations != 1 || got.Observations != 2 {
		t.Errorf("detail = %+v", got)
	}
	if got.Checksum != created.Checksum {
		t.Error("checksum changed between create and get")
	}
	if got.Document == nil || len(got.Document.Annotations) != 1 {
		t.Error("full document missing from detail")
	}
}

func TestCreateDuplicate(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	if _, err := svc.CreateDocument(ctx, "dup.jams", testutil.BeatDocument("One")); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.CreateDocument(ctx, "dup.jams", testutil.BeatDocument("Two"))
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestCreateRejectsMalformed(t *testing.T) {
	svc := testService(t)
	if _, err := svc.CreateDocument(context.Background(), "bad.jams", []byte("{nope")); err == nil {
		t.Error("expected decode error")
	}
	// Nothing should have been stored.
	if _, err := svc.GetDocument(context.Background(), "bad.jams"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGetMissing(t *testing.T) {
	svc := testService(t)
	_, err := svc.GetDocument(context.Background(), "missing.jams")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateWithChecksum(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	original := testutil.BeatDocument("V1")
	if _, err := svc.CreateDocument(ctx, "u.jams", original); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Stale checksum is rejected.
	_, err := svc.UpdateDocument(ctx, "u.jams", testutil.BeatDocument("V2"), "stale-checksum")
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}

	// Matching checksum goes through.
	updated, err := svc.UpdateDocument(ctx, "u.jams", testutil.BeatDocument("V2"), checksum.Sum(original))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "V2" {
		t.Errorf("title = %q", updated.Title)
	}

	// Empty If-Match bypasses the check.
	if _, err := svc.UpdateDocument(ctx, "u.jams", testutil.BeatDocument("V3"), ""); err != nil {
		t.Errorf("unconditional update: %v", err)
	}
}

func TestUpdateMissing(t *testing.T) {
	svc := testService(t)
	_, err := svc.UpdateDocument(context.Background(), "nope.jams", testutil.BeatDocument("X"), "")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteDocument(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	if _, err := svc.CreateDocument(ctx, "d.jams", testutil.BeatDocument("Doomed")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeleteDocument(ctx, "d.jams"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetDocument(ctx, "d.jams"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	items, total, err := svc.ListDocuments(ctx, 0, 0, "", "")
	if err != nil || total != 0 || len(items) != 0 {
		t.Errorf("list after delete = %v (total %d, err %v)", items, total, err)
	}
}

func TestListDocuments(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	_, _ = svc.CreateDocument(ctx, "one.jams", testutil.BeatDocument("One"))
	_, _ = svc.CreateDocument(ctx, "two.jams", testutil.BeatDocument("Two"))

	items, total, err := svc.ListDocuments(ctx, 10, 0, "", "path")
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("total = %d, items = %d", total, len(items))
	}
	if items[0].Path != "one.jams" {
		t.Errorf("first = %q", items[0].Path)
	}
	if items[0].Namespaces == nil {
		t.Error("namespaces should never be nil in list items")
	}

	filtered, total, err := svc.ListDocuments(ctx, 10, 0, "chord", "")
	if err != nil || total != 0 || len(filtered) != 0 {
		t.Errorf("chord filter = %v (total %d, err %v)", filtered, total, err)
	}
}

func TestValidateBytes(t *testing.T) {
	svc := testService(t)

	res, err := svc.ValidateBytes(testutil.BeatDocument("Clean"))
	if err != nil {
		t.Fatalf("ValidateBytes: %v", err)
	}
	if !res.Valid() {
		t.Errorf("problems = %v", res)
	}

	bad := []byte(`{"file_metadata": {"schema_version": "0.2.0"}, "annotations": [
		{"namespace": "unregistered", "data": [], "annotation_metadata": {"curator": {"name": "", "email": ""}}}
	]}`)
	res, err = svc.ValidateBytes(bad)
	if err != nil {
		t.Fatalf("ValidateBytes(bad): %v", err)
	}
	if res.Valid() || len(res) != 1 {
		t.Errorf("problems = %v", res)
	}

	if _, err := svc.ValidateBytes([]byte("{nope")); err == nil {
		t.Error("expected decode error")
	}
}

func TestValidateDocumentFromStore(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	if _, err := svc.CreateDocument(ctx, "v.jams", testutil.BeatDocument("Valid")); err != nil {
		t.Fatalf("create: %v", err)
	}
	res, err := svc.ValidateDocument(ctx, "v.jams")
	if err != nil {
		t.Fatalf("ValidateDocument: %v", err)
	}
	if !res.Valid() {
		t.Errorf("problems = %v", res)
	}

	if _, err := svc.ValidateDocument(ctx, "missing.jams"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestNamespaceStatsAndDocuments(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	_, _ = svc.CreateDocument(ctx, "a.jams", testutil.BeatDocument("A"))
	_, _ = svc.CreateDocument(ctx, "b.jams", testutil.BeatDocument("B"))

	stats, err := svc.NamespaceStats(ctx)
	if err != nil {
		t.Fatalf("NamespaceStats: %v", err)
	}
	if len(stats) != 1 || stats[0].Namespace != "beat" || stats[0].Documents != 2 {
		t.Errorf("stats = %v", stats)
	}

	paths, err := svc.DocumentsByNamespace(ctx, "beat")
	if err != nil {
		t.Fatalf("DocumentsByNamespace: %v", err)
	}
	if len(paths) != 2 {
		t.Errorf("paths = %v", paths)
	}
}
