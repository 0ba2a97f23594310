package notify

import (
	"context"
	"sync"
)

// Recorded is one captured notification.
type Recorded struct {
	Kind Kind
	To   string
	Data TemplateData
}

// Recorder is a Dispatcher that captures notifications for tests.
type Recorder struct {
	mu   sync.Mutex
	sent []Recorded
	// Err, when set, is returned by every Send call.
	Err error
}

// Send records the notification.
func (r *Recorder) Send(_ context.Context, kind Kind, to string, data TemplateData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.sent = append(r.sent, Recorded{Kind: kind, To: to, Data: data})
	return nil
}

// Sent returns a copy of the captured notifications.
func (r *Recorder) Sent() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Recorded, len(r.sent))
	copy(out, r.sent)
	return out
}
