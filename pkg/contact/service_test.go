package contact

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/teslashibe/showcase/pkg/sink"
)

var fixedNow = time.UnixMilli(1700000000123)

func testService(t *testing.T, snk sink.Sink) *Service {
	t.Helper()
	return NewService(snk, WithClock(func() time.Time { return fixedNow }))
}

func TestSubmitContact(t *testing.T) {
	m := sink.NewMock()
	svc := testService(t, m)

	r, err := svc.Submit(context.Background(), Form{
		Kind: KindContact, Name: "Ada", Email: "ada@example.com", Message: "Hello",
	}, false, nil)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if r.RecordID != "mock-1" || r.Collection != "contacts" || r.Kind != KindContact {
		t.Errorf("unexpected receipt %+v", r)
	}

	call := m.LastCall()
	if call.Collection != "contacts" {
		t.Errorf("expected contacts collection, got %q", call.Collection)
	}
	want := map[string]any{
		"type": "general", "name": "Ada", "email": "ada@example.com", "phone": "", "message": "Hello",
	}
	for k, v := range want {
		if call.Fields[k] != v {
			t.Errorf("field %s: expected %v, got %v", k, v, call.Fields[k])
		}
	}
	if call.Fields["createdAt"] != sink.ServerTimestamp {
		t.Error("createdAt must be a server timestamp")
	}
	if _, ok := call.Fields["appId"]; ok {
		t.Error("general contact must not carry appId")
	}
}

func TestSubmitWaitlist(t *testing.T) {
	m := sink.NewMock()
	svc := testService(t, m)

	r, err := svc.Submit(context.Background(), Form{
		Kind: KindWaitlist, AppID: "unpack", Name: "Ada", Email: "ada@example.com",
	}, false, nil)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if r.AppID != "unpack" {
		t.Errorf("expected appId on receipt, got %q", r.AppID)
	}

	f := m.LastCall().Fields
	if f["type"] != "waitlist" || f["appId"] != "unpack" {
		t.Errorf("unexpected fields %v", f)
	}
	if f["message"] != "Joined waitlist for unpack" {
		t.Errorf("unexpected message %q", f["message"])
	}
}

func TestSubmitBugReportWithAttachment(t *testing.T) {
	m := sink.NewMock()
	svc := testService(t, m)

	r, err := svc.Submit(context.Background(), Form{
		Kind: KindBugReport, AppID: "milcalc", Description: "Crash on launch", Severity: SeverityCritical,
	}, true, &Attachment{Filename: "shot.png", ContentType: "image/png", Data: []byte("png")})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	calls := m.Calls()
	if len(calls) != 2 || calls[0].Method != "UploadBlob" || calls[1].Method != "CreateRecord" {
		t.Fatalf("expected upload then record, got %+v", calls)
	}
	if calls[0].Path != "bug-reports/1700000000123-shot.png" {
		t.Errorf("unexpected blob path %q", calls[0].Path)
	}
	if calls[1].Collection != "bug_reports" {
		t.Errorf("unexpected collection %q", calls[1].Collection)
	}
	f := calls[1].Fields
	if f["attachmentUrl"] != "mock://bug-reports/1700000000123-shot.png" {
		t.Errorf("unexpected attachmentUrl %v", f["attachmentUrl"])
	}
	if f["severity"] != "critical" || f["description"] != "Crash on launch" || f["appId"] != "milcalc" {
		t.Errorf("unexpected fields %v", f)
	}
	if r.AttachmentURL == "" {
		t.Error("expected attachment url on receipt")
	}
}

func TestSubmitBugReportWithoutAttachment(t *testing.T) {
	m := sink.NewMock()
	svc := testService(t, m)

	if _, err := svc.Submit(context.Background(), Form{
		Kind: KindBugReport, AppID: "milcalc", Description: "typo", Severity: SeverityLow,
	}, false, nil); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if m.CallCount("UploadBlob") != 0 {
		t.Error("no upload expected without attachment")
	}
	if v, ok := m.LastCall().Fields["attachmentUrl"]; !ok || v != "" {
		t.Errorf("expected empty attachmentUrl, got %v", v)
	}
}

func TestSubmitValidationNeverReachesSink(t *testing.T) {
	m := sink.NewMock()
	svc := testService(t, m)

	_, err := svc.Submit(context.Background(), Form{Kind: KindWaitlist, Name: "Ada", Email: "a@b.c"}, true, nil)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(m.Calls()) != 0 {
		t.Errorf("sink must not be called, got %+v", m.Calls())
	}
}

func TestSubmitSinkFailure(t *testing.T) {
	boom := errors.New("unavailable")

	t.Run("record", func(t *testing.T) {
		svc := testService(t, sink.FailingMock(boom))
		_, err := svc.Submit(context.Background(), Form{
			Kind: KindContact, Name: "Ada", Email: "a@b.c", Message: "hi",
		}, false, nil)

		var serr *SubmissionError
		if !errors.As(err, &serr) || serr.Step != "record" {
			t.Fatalf("expected record SubmissionError, got %v", err)
		}
		if !errors.Is(err, ErrSubmission) || !errors.Is(err, boom) {
			t.Error("expected both ErrSubmission and cause in chain")
		}
		var opErr *sink.OpError
		if !errors.As(err, &opErr) {
			t.Error("expected sink.OpError in chain")
		}
	})

	t.Run("orphaned upload", func(t *testing.T) {
		m := sink.NewMock()
		m.CreateRecordFunc = func(ctx context.Context, collection string, fields sink.Fields) (string, error) {
			return "", boom
		}
		svc := testService(t, m)
		_, err := svc.Submit(context.Background(), Form{
			Kind: KindBugReport, AppID: "a", Description: "d", Severity: SeverityLow,
		}, false, &Attachment{Filename: "x.pdf", Data: []byte("%PDF")})
		if !errors.Is(err, ErrSubmission) {
			t.Fatalf("expected ErrSubmission, got %v", err)
		}
		if m.CallCount("UploadBlob") != 1 || m.CallCount("CreateRecord") != 1 {
			t.Errorf("expected one upload and one record attempt, got %+v", m.Calls())
		}
	})

	t.Run("upload", func(t *testing.T) {
		m := sink.NewMock()
		m.UploadBlobFunc = func(ctx context.Context, path string, data []byte, contentType string) (string, error) {
			return "", boom
		}
		svc := testService(t, m)
		_, err := svc.Submit(context.Background(), Form{
			Kind: KindBugReport, AppID: "a", Description: "d", Severity: SeverityLow,
		}, false, &Attachment{Filename: "x.pdf"})

		var serr *SubmissionError
		if !errors.As(err, &serr) || serr.Step != "upload" {
			t.Fatalf("expected upload SubmissionError, got %v", err)
		}
		if m.CallCount("CreateRecord") != 0 {
			t.Error("record must not be written after failed upload")
		}
	})
}

func TestAttachmentPath(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"shot.png", "bug-reports/1700000000123-shot.png"},
		{`C:\Users\ada\shot.png`, "bug-reports/1700000000123-shot.png"},
		{"../../etc/passwd", "bug-reports/1700000000123-passwd"},
		{"", "bug-reports/1700000000123-attachment"},
	}
	for _, tt := range tests {
		if got := AttachmentPath(fixedNow, tt.name); got != tt.want {
			t.Errorf("AttachmentPath(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
