package contact

import (
	"strings"

	"github.com/teslashibe/showcase/pkg/catalog"
)

// Field names, shared by layouts, drafts and request bodies.
const (
	FieldAppID       = "appId"
	FieldProjectName = "projectName"
	FieldName        = "name"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldMessage     = "message"
	FieldDescription = "description"
	FieldSeverity    = "severity"
	FieldAttachment  = "attachment"
)

// Input types of a FieldSpec.
const (
	InputText     = "text"
	InputEmail    = "email"
	InputTel      = "tel"
	InputTextarea = "textarea"
	InputSelect   = "select"
	InputFile     = "file"
)

// AttachmentAccept is the file picker filter for bug-report attachments.
const AttachmentAccept = ".pdf,.jpg,.jpeg,.png"

// Form is the content of one submission.
type Form struct {
	Kind        Kind     `json:"kind"`
	AppID       string   `json:"appId,omitempty"`
	Name        string   `json:"name,omitempty"`
	Email       string   `json:"email,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Message     string   `json:"message,omitempty"`
	Description string   `json:"description,omitempty"`
	Severity    Severity `json:"severity,omitempty"`
}

// Attachment is an optional file sent with a bug report.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Validate checks that every required field is present. pickerShown means the
// user had to choose the project.
func (f *Form) Validate(pickerShown bool) error {
	var missing []string
	need := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}

	if pickerShown && f.Kind.NeedsProject() {
		need(FieldAppID, f.AppID)
	}
	switch f.Kind {
	case KindContact:
		need(FieldName, f.Name)
		need(FieldEmail, f.Email)
		need(FieldMessage, f.Message)
	case KindWaitlist:
		need(FieldName, f.Name)
		need(FieldEmail, f.Email)
	case KindBugReport:
		need(FieldDescription, f.Description)
		need(FieldSeverity, string(f.Severity))
	}

	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// Option is one choice of a select field.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldSpec describes one input of a form layout.
type FieldSpec struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Input       string   `json:"input"`
	Required    bool     `json:"required"`
	ReadOnly    bool     `json:"readOnly,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
	Value       string   `json:"value,omitempty"`
	Accept      string   `json:"accept,omitempty"`
	Options     []Option `json:"options,omitempty"`
}

// FormLayout is everything a client needs to render a form.
type FormLayout struct {
	Kind        Kind        `json:"kind"`
	Title       string      `json:"title"`
	ButtonText  string      `json:"buttonText"`
	ProjectID   string      `json:"projectId,omitempty"`
	PickerShown bool        `json:"pickerShown"`
	Fields      []FieldSpec `json:"fields"`
}

// PickerShown reports whether a form of kind with the given locked project
// asks the user to pick a project.
func PickerShown(kind Kind, lockedProjectID string) bool {
	return lockedProjectID == "" && kind.NeedsProject()
}

// Layout builds the field list for a form. cat may be nil, in which case the
// picker has no options and locked projects show their id.
func Layout(kind Kind, lockedProjectID string, cat *catalog.Catalog) FormLayout {
	l := FormLayout{
		Kind:        kind,
		Title:       kind.Title(),
		ButtonText:  kind.ButtonText(),
		ProjectID:   lockedProjectID,
		PickerShown: PickerShown(kind, lockedProjectID),
	}

	switch {
	case l.PickerShown:
		picker := FieldSpec{
			Name:        FieldAppID,
			Label:       "Select Project",
			Input:       InputSelect,
			Required:    true,
			Placeholder: "Select Project",
		}
		if cat != nil {
			for _, p := range cat.List() {
				picker.Options = append(picker.Options, Option{Value: p.ID, Label: p.Name})
			}
		}
		l.Fields = append(l.Fields, picker)

	case lockedProjectID != "" && kind.NeedsProject():
		name := lockedProjectID
		if cat != nil {
			if p, ok := cat.Get(lockedProjectID); ok {
				name = p.Name
			}
		}
		l.Fields = append(l.Fields, FieldSpec{
			Name:     FieldProjectName,
			Label:    "Project",
			Input:    InputText,
			ReadOnly: true,
			Value:    name,
		})
	}

	if kind == KindContact || kind == KindWaitlist {
		l.Fields = append(l.Fields,
			FieldSpec{Name: FieldName, Label: "Name", Input: InputText, Required: true, Placeholder: "John Doe"},
			FieldSpec{Name: FieldEmail, Label: "Email", Input: InputEmail, Required: true, Placeholder: "john@example.com"},
			FieldSpec{Name: FieldPhone, Label: "Phone Number", Input: InputTel, Placeholder: "+1 (555) 000-0000"},
		)
	}
	if kind == KindContact {
		l.Fields = append(l.Fields, FieldSpec{
			Name: FieldMessage, Label: "Message", Input: InputTextarea, Required: true,
			Placeholder: "How can we help you?",
		})
	}
	if kind == KindBugReport {
		severity := FieldSpec{
			Name: FieldSeverity, Label: "Severity", Input: InputSelect, Required: true,
			Value: string(SeverityLow),
		}
		for _, s := range Severities {
			severity.Options = append(severity.Options, Option{Value: string(s), Label: s.Label()})
		}
		l.Fields = append(l.Fields,
			FieldSpec{
				Name: FieldDescription, Label: "Description", Input: InputTextarea, Required: true,
				Placeholder: "Describe what happened...",
			},
			severity,
			FieldSpec{
				Name: FieldAttachment, Label: "Supporting Document", Input: InputFile,
				Placeholder: "Upload screenshot or PDF (Optional)", Accept: AttachmentAccept,
			},
		)
	}
	return l
}

// FieldNames returns the names of the fields in l, in order.
func (l FormLayout) FieldNames() []string {
	names := make([]string, len(l.Fields))
	for i, f := range l.Fields {
		names[i] = f.Name
	}
	return names
}
