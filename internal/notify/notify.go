// Package notify sends templated emails on application state transitions.
// Delivery is best-effort and at-most-once: callers log failures and never
// roll back the domain mutation that triggered the mail.
package notify

import "context"

// Kind names a notification template.
type Kind string

const (
	// KindApplyConfirmation is sent to an applicant after a successful application
	KindApplyConfirmation Kind = "apply-confirmation"
	// KindEmployerAction is sent to an applicant after an employer decision
	KindEmployerAction Kind = "employer-action"
)

// TemplateData carries the values rendered into a notification.
type TemplateData struct {
	UserName    string
	CompanyName string
	Role        string
	// Action holds the new application status for KindEmployerAction
	Action string
}

// Dispatcher delivers a notification to a recipient address.
type Dispatcher interface {
	Send(ctx context.Context, kind Kind, to string, data TemplateData) error
}
