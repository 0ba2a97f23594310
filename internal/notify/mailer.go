package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	"github.com/ksb-dev-1/careerly-new/internal/apperror"
)

const defaultEndpoint = "https://api.resend.com/emails"

// Subjects used for employer decision mails, keyed by application status.
var actionSubjects = map[string]string{
	"PENDING":  "Application Pending",
	"APPROVED": "Application Approved",
	"OFFERED":  "Job Offer Received",
	"REJECTED": "Application Rejected",
}

// Mailer delivers notifications through the Resend HTTP API.
type Mailer struct {
	endpoint string
	apiKey   string
	from     string
	client   *http.Client
}

// NewMailer reads MAIL_API_KEY and EMAIL_FROM from the environment.
func NewMailer() *Mailer {
	return &Mailer{
		endpoint: defaultEndpoint,
		apiKey:   os.Getenv("MAIL_API_KEY"),
		from:     os.Getenv("EMAIL_FROM"),
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type mailPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// Send renders the template for kind and posts it to the mail API.
func (m *Mailer) Send(ctx context.Context, kind Kind, to string, data TemplateData) error {
	if m.apiKey == "" || m.from == "" {
		return apperror.New(apperror.KindDependencyUnavailable, "email configuration is missing")
	}

	if data.UserName == "" {
		data.UserName = userNameFromAddress(to)
	}

	subject, text, err := render(kind, data)
	if err != nil {
		return err
	}

	body, err := json.Marshal(mailPayload{
		From:    m.from,
		To:      to,
		Subject: subject,
		Text:    text,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return apperror.Wrap(apperror.KindDependencyUnavailable, "mail provider unreachable", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return apperror.New(apperror.KindDependencyUnavailable,
			fmt.Sprintf("mail provider returned status %d", resp.StatusCode))
	}
	return nil
}

func render(kind Kind, data TemplateData) (subject, text string, err error) {
	switch kind {
	case KindApplyConfirmation:
		subject = "Job apply confirmation"
		text = fmt.Sprintf(
			"Hi %s,\n\nYour application for the %s role at %s has been received. The employer will review it shortly.\n",
			data.UserName, data.Role, data.CompanyName)
	case KindEmployerAction:
		subject = actionSubjects[data.Action]
		if subject == "" {
			return "", "", fmt.Errorf("unknown application status %q", data.Action)
		}
		text = fmt.Sprintf(
			"Hi %s,\n\nYour application for the %s role at %s is now %s.\n",
			data.UserName, data.Role, data.CompanyName, strings.ToLower(data.Action))
	default:
		return "", "", fmt.Errorf("unknown notification kind %q", kind)
	}
	return subject, text, nil
}

func userNameFromAddress(to string) string {
	local := strings.Split(to, "@")[0]
	if local == "" {
		return to
	}
	return strings.ToUpper(local[:1]) + local[1:]
}
