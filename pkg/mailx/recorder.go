package mailx

import (
	"context"
	"sync"
)

// Recorder keeps every message it is asked to send. FailFor makes Send fail
// for the given recipients.
type Recorder struct {
	mu      sync.Mutex
	sent    []Message
	FailFor map[string]error
}

func (r *Recorder) Send(_ context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err, ok := r.FailFor[msg.To]; ok {
		return err
	}
	r.sent = append(r.sent, msg)
	return nil
}

// Sent returns a copy of the delivered messages.
func (r *Recorder) Sent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Message, len(r.sent))
	copy(out, r.sent)
	return out
}
