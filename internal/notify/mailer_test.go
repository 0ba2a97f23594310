package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ksb-dev-1/careerly-new/internal/apperror"
)

func testMailer(endpoint string) *Mailer {
	return &Mailer{
		endpoint: endpoint,
		apiKey:   "test-key",
		from:     "careerly@example.com",
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

func TestSendApplyConfirmation(t *testing.T) {
	var got mailPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := testMailer(srv.URL)
	err := m.Send(context.Background(), KindApplyConfirmation, "alice@example.com", TemplateData{
		CompanyName: "TechNova",
		Role:        "Backend Engineer",
	})
	assert.NoError(t, err)

	assert.Equal(t, "alice@example.com", got.To)
	assert.Equal(t, "Job apply confirmation", got.Subject)
	assert.Contains(t, got.Text, "Backend Engineer")
	assert.Contains(t, got.Text, "TechNova")
	assert.Contains(t, got.Text, "Alice")
}

func TestSendEmployerActionSubjects(t *testing.T) {
	subjects := map[string]string{
		"APPROVED": "Application Approved",
		"OFFERED":  "Job Offer Received",
		"REJECTED": "Application Rejected",
	}

	for action, want := range subjects {
		var got mailPayload
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusOK)
		}))

		m := testMailer(srv.URL)
		err := m.Send(context.Background(), KindEmployerAction, "bob@example.com", TemplateData{
			CompanyName: "TechNova",
			Role:        "Backend Engineer",
			Action:      action,
		})
		srv.Close()

		assert.NoError(t, err)
		assert.Equal(t, want, got.Subject)
	}
}

func TestSendUnknownAction(t *testing.T) {
	m := testMailer("http://localhost:1")
	err := m.Send(context.Background(), KindEmployerAction, "bob@example.com", TemplateData{Action: "LOST"})
	assert.Error(t, err)
}

func TestSendProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	m := testMailer(srv.URL)
	err := m.Send(context.Background(), KindApplyConfirmation, "alice@example.com", TemplateData{})
	assert.True(t, apperror.Is(err, apperror.KindDependencyUnavailable))
}

func TestSendMissingConfig(t *testing.T) {
	m := &Mailer{client: http.DefaultClient}
	err := m.Send(context.Background(), KindApplyConfirmation, "alice@example.com", TemplateData{})
	assert.True(t, apperror.Is(err, apperror.KindDependencyUnavailable))
}
