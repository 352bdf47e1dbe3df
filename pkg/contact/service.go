package contact

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/teslashibe/showcase/pkg/sink"
)

// Receipt describes a stored submission.
type Receipt struct {
	RecordID      string    `json:"recordId"`
	Collection    string    `json:"collection"`
	Kind          Kind      `json:"kind"`
	AppID         string    `json:"appId,omitempty"`
	AttachmentURL string    `json:"attachmentUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Service submits forms to a sink.
type Service struct {
	sink   sink.Sink
	logger *slog.Logger
	now    func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock sets the clock used for attachment paths and receipts.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a Service writing to snk.
func NewService(snk sink.Sink, opts ...ServiceOption) *Service {
	s := &Service{
		sink:   snk,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates f and writes it. A bug-report attachment is uploaded first
// and its URL recorded; a blob whose record then fails to write is left behind.
// Nothing is retried.
func (s *Service) Submit(ctx context.Context, f Form, pickerShown bool, att *Attachment) (*Receipt, error) {
	if err := f.Validate(pickerShown); err != nil {
		return nil, err
	}

	now := s.now()
	receipt := &Receipt{
		Collection: f.Kind.Collection(),
		Kind:       f.Kind,
		CreatedAt:  now.UTC(),
	}

	var fields sink.Fields
	switch f.Kind {
	case KindContact:
		fields = sink.Fields{
			"type":      f.Kind.RecordType(),
			"name":      f.Name,
			"email":     f.Email,
			"phone":     f.Phone,
			"message":   f.Message,
			"createdAt": sink.ServerTimestamp,
		}

	case KindWaitlist:
		receipt.AppID = f.AppID
		fields = sink.Fields{
			"type":      f.Kind.RecordType(),
			"appId":     f.AppID,
			"name":      f.Name,
			"email":     f.Email,
			"phone":     f.Phone,
			"message":   fmt.Sprintf("Joined waitlist for %s", f.AppID),
			"createdAt": sink.ServerTimestamp,
		}

	case KindBugReport:
		receipt.AppID = f.AppID
		if att != nil {
			blobPath := AttachmentPath(now, att.Filename)
			url, err := s.sink.UploadBlob(ctx, blobPath, att.Data, att.ContentType)
			if err != nil {
				s.logger.Error("attachment upload failed", "path", blobPath, "error", err)
				return nil, &SubmissionError{Kind: f.Kind, Step: "upload", Err: err}
			}
			receipt.AttachmentURL = url
		}
		fields = sink.Fields{
			"appId":         f.AppID,
			"description":   f.Description,
			"severity":      string(f.Severity),
			"attachmentUrl": receipt.AttachmentURL,
			"createdAt":     sink.ServerTimestamp,
		}

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, f.Kind)
	}

	id, err := s.sink.CreateRecord(ctx, receipt.Collection, fields)
	if err != nil {
		s.logger.Error("record creation failed", "kind", f.Kind, "collection", receipt.Collection, "error", err)
		return nil, &SubmissionError{Kind: f.Kind, Step: "record", Err: err}
	}
	receipt.RecordID = id

	s.logger.Info("form submitted", "kind", f.Kind, "collection", receipt.Collection, "id", id, "app", f.AppID)
	return receipt, nil
}

// AttachmentPath is "bug-reports/{unix millis}-{base name}".
func AttachmentPath(now time.Time, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == "/" || name == "" {
		name = "attachment"
	}
	return fmt.Sprintf("bug-reports/%d-%s", now.UnixMilli(), name)
}
