// Package contact models the site's contact, waitlist and bug-report forms and
// submits them to a sink.
package contact

import (
	"fmt"
	"strings"
)

// Kind selects the form variant.
type Kind string

const (
	KindContact   Kind = "contact"
	KindWaitlist  Kind = "waitlist"
	KindBugReport Kind = "bug-report"
)

// Collections records are written to.
const (
	CollectionContacts   = "contacts"
	CollectionBugReports = "bug_reports"
)

// Kinds lists every form variant.
var Kinds = []Kind{KindContact, KindWaitlist, KindBugReport}

// ParseKind accepts a kind name. "general" and "bug" are aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "contact", "general":
		return KindContact, nil
	case "waitlist":
		return KindWaitlist, nil
	case "bug-report", "bug", "bug_report":
		return KindBugReport, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// RecordType is the "type" field written for contact collection records.
func (k Kind) RecordType() string {
	if k == KindContact {
		return "general"
	}
	return string(k)
}

// Collection is where records of this kind go.
func (k Kind) Collection() string {
	if k == KindBugReport {
		return CollectionBugReports
	}
	return CollectionContacts
}

// NeedsProject reports whether the form is about one project.
func (k Kind) NeedsProject() bool {
	return k == KindWaitlist || k == KindBugReport
}

// Title is the form heading.
func (k Kind) Title() string {
	switch k {
	case KindBugReport:
		return "Report a Bug"
	case KindWaitlist:
		return "Join the Waitlist"
	}
	return "Contact Us"
}

// ButtonText is the submit button label.
func (k Kind) ButtonText() string {
	switch k {
	case KindBugReport:
		return "Submit Bug Report"
	case KindWaitlist:
		return "Waitlist"
	}
	return "Send Message"
}

// SuccessMessage is shown after a successful submission.
func (k Kind) SuccessMessage() string {
	if k == KindWaitlist {
		return "You've been added to the waitlist!"
	}
	return "Submitted successfully!"
}

// ErrorMessage is shown after any failed submission.
const ErrorMessage = "Error submitting form. Please check required fields."

// Severity of a bug report.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities lists the choices in display order.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// Label is the display name.
func (s Severity) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Known reports whether s is one of Severities.
func (s Severity) Known() bool {
	for _, v := range Severities {
		if v == s {
			return true
		}
	}
	return false
}
