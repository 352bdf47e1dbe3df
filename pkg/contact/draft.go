package contact

import (
	"context"
	"fmt"
)

// Status is the state of a Draft.
type Status int

const (
	StatusIdle Status = iota
	StatusSubmitting
	StatusSuccess
	StatusError
)

var statusNames = [...]string{"idle", "submitting", "success", "error"}

// String returns the status name.
func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Draft is a form being filled in. It moves idle -> submitting -> success or
// error; any edit after success or error returns it to idle. A Draft is owned by
// one goroutine.
type Draft struct {
	kind       Kind
	locked     string
	form       Form
	attachment *Attachment
	status     Status
	err        error
}

// NewDraft starts an empty draft. lockedProjectID pins the project for
// waitlist and bug-report forms.
func NewDraft(kind Kind, lockedProjectID string) *Draft {
	d := &Draft{kind: kind, locked: lockedProjectID}
	d.reset()
	return d
}

func (d *Draft) reset() {
	d.form = Form{
		Kind:     d.kind,
		AppID:    d.locked,
		Severity: SeverityLow,
	}
	d.attachment = nil
}

// Set changes one field by name.
func (d *Draft) Set(field, value string) error {
	switch field {
	case FieldAppID:
		if d.locked != "" {
			return nil
		}
		d.form.AppID = value
	case FieldName:
		d.form.Name = value
	case FieldEmail:
		d.form.Email = value
	case FieldPhone:
		d.form.Phone = value
	case FieldMessage:
		d.form.Message = value
	case FieldDescription:
		d.form.Description = value
	case FieldSeverity:
		d.form.Severity = Severity(value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	d.edited()
	return nil
}

// SetAttachment sets or clears the attachment.
func (d *Draft) SetAttachment(a *Attachment) {
	d.attachment = a
	d.edited()
}

func (d *Draft) edited() {
	if d.status == StatusError || d.status == StatusSuccess {
		d.status = StatusIdle
		d.err = nil
	}
}

// Submit sends the draft through svc. On success the draft is cleared; on
// failure its content is kept so it can be sent again.
func (d *Draft) Submit(ctx context.Context, svc *Service) (*Receipt, error) {
	if d.status == StatusSubmitting {
		return nil, ErrBusy
	}
	d.status = StatusSubmitting
	d.err = nil

	receipt, err := svc.Submit(ctx, d.form, d.PickerShown(), d.attachment)
	if err != nil {
		d.status = StatusError
		d.err = err
		return nil, err
	}

	d.status = StatusSuccess
	d.reset()
	return receipt, nil
}

// Status returns the current status.
func (d *Draft) Status() Status { return d.status }

// Err returns the error of the last failed submit.
func (d *Draft) Err() error { return d.err }

// Form returns a copy of the current content.
func (d *Draft) Form() Form { return d.form }

// Attachment returns the current attachment, if any.
func (d *Draft) Attachment() *Attachment { return d.attachment }

// PickerShown reports whether the user must choose the project.
func (d *Draft) PickerShown() bool {
	return PickerShown(d.kind, d.locked)
}

// Message is the status line to show, or "" while idle or submitting.
func (d *Draft) Message() string {
	switch d.status {
	case StatusSuccess:
		return d.kind.SuccessMessage()
	case StatusError:
		return ErrorMessage
	}
	return ""
}

// SubmitLabel is the button text, "Sending..." while submitting.
func (d *Draft) SubmitLabel() string {
	if d.status == StatusSubmitting {
		return "Sending..."
	}
	return d.kind.ButtonText()
}
