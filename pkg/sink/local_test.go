package sink

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// testLocal creates a Local sink in a temporary directory.
func testLocal(t *testing.T) *Local {
	t.Helper()

	l, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create sink: %v", err)
	}
	return l
}

func TestNewLocalRequiresDir(t *testing.T) {
	_, err := NewLocal("")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestLocalCreateRecord(t *testing.T) {
	l := testLocal(t)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	id, err := l.CreateRecord(context.Background(), "contacts", Fields{
		"name":      "Ada",
		"message":   "",
		"createdAt": ServerTimestamp,
	})
	if err != nil {
		t.Fatalf("failed to create record: %v", err)
	}
	if id == "" {
		t.Fatal("expected id to be generated")
	}

	recs, err := l.Records("contacts")
	if err != nil {
		t.Fatalf("failed to read records: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	rec := recs[0]
	if rec.ID != id {
		t.Errorf("expected id %s, got %s", id, rec.ID)
	}
	if rec.Fields["name"] != "Ada" {
		t.Errorf("unexpected name %v", rec.Fields["name"])
	}
	if v, ok := rec.Fields["message"]; !ok || v != "" {
		t.Errorf("empty field must be kept, got %v (%v)", v, ok)
	}
	// Timestamps round-trip through JSON as RFC 3339 strings.
	if rec.Fields["createdAt"] != fixed.Format(time.RFC3339) {
		t.Errorf("expected server timestamp to be resolved, got %v", rec.Fields["createdAt"])
	}
}

func TestLocalCollectionsAreSeparate(t *testing.T) {
	l := testLocal(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := l.CreateRecord(ctx, "contacts", Fields{"n": i}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := l.CreateRecord(ctx, "bug_reports", Fields{"severity": "low"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	contacts, _ := l.Records("contacts")
	bugs, _ := l.Records("bug_reports")
	if len(contacts) != 3 || len(bugs) != 1 {
		t.Errorf("expected 3 contacts and 1 bug report, got %d and %d", len(contacts), len(bugs))
	}

	empty, err := l.Records("nothing")
	if err != nil || len(empty) != 0 {
		t.Errorf("missing collection should be empty, got %d (%v)", len(empty), err)
	}
}

func TestLocalCreateRecordErrors(t *testing.T) {
	l := testLocal(t)

	if _, err := l.CreateRecord(context.Background(), "", Fields{}); !errors.Is(err, ErrEmptyCollection) {
		t.Errorf("expected ErrEmptyCollection, got %v", err)
	}

	_, err := l.CreateRecord(context.Background(), "../escape", Fields{})
	var opErr *OpError
	if !errors.As(err, &opErr) {
		t.Fatalf("expected OpError, got %v", err)
	}
	if opErr.Backend != "local" || opErr.Op != "create" {
		t.Errorf("unexpected op error %+v", opErr)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.CreateRecord(ctx, "contacts", Fields{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestLocalUploadBlob(t *testing.T) {
	l := testLocal(t)

	url, err := l.UploadBlob(context.Background(), "bug-reports/1700000000000-shot.png", []byte("png"), "image/png")
	if err != nil {
		t.Fatalf("failed to upload: %v", err)
	}
	if url != "/files/bug-reports/1700000000000-shot.png" {
		t.Errorf("unexpected url %q", url)
	}

	data, err := os.ReadFile(filepath.Join(l.BlobDir(), "bug-reports", "1700000000000-shot.png"))
	if err != nil {
		t.Fatalf("blob not written: %v", err)
	}
	if string(data) != "png" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestLocalUploadBlobStaysInside(t *testing.T) {
	l, err := NewLocal(t.TempDir(), WithPublicBase("https://cdn.example.com/"))
	if err != nil {
		t.Fatal(err)
	}

	url, err := l.UploadBlob(context.Background(), "../../etc/passwd", []byte("x"), "")
	if err != nil {
		t.Fatalf("failed to upload: %v", err)
	}
	if url != "https://cdn.example.com/etc/passwd" {
		t.Errorf("unexpected url %q", url)
	}
	if _, err := os.Stat(filepath.Join(l.BlobDir(), "etc", "passwd")); err != nil {
		t.Errorf("expected blob under blob dir: %v", err)
	}

	if _, err := l.UploadBlob(context.Background(), "", nil, ""); !errors.Is(err, ErrEmptyPath) {
		t.Errorf("expected ErrEmptyPath, got %v", err)
	}
}

func TestMockSink(t *testing.T) {
	m := NewMock()
	ctx := context.Background()

	id, err := m.CreateRecord(ctx, "contacts", Fields{"name": "Ada"})
	if err != nil || id != "mock-1" {
		t.Errorf("unexpected result %q, %v", id, err)
	}
	url, err := m.UploadBlob(ctx, "a/b.png", []byte("12"), "image/png")
	if err != nil || url != "mock://a/b.png" {
		t.Errorf("unexpected result %q, %v", url, err)
	}

	if m.CallCount("CreateRecord") != 1 || m.CallCount("UploadBlob") != 1 {
		t.Errorf("unexpected calls %+v", m.Calls())
	}
	if last := m.LastCall(); last == nil || last.Size != 2 {
		t.Errorf("unexpected last call %+v", last)
	}

	boom := errors.New("boom")
	f := FailingMock(boom)
	if _, err := f.CreateRecord(ctx, "contacts", nil); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}
