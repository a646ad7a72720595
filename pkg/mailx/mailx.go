// Package mailx sends transactional mail: activation links, daily reminders
// and spreadsheet exports.
package mailx

import (
	"context"
	"errors"
	"strings"
)

var ErrInvalidMessage = errors.New("mailx: invalid message")

// Attachment is an in-memory file attached to a Message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is a single HTML mail to one recipient.
type Message struct {
	To          string
	Subject     string
	HTMLBody    string
	Attachments []Attachment
}

// Validate checks the fields every transport needs.
func (m Message) Validate() error {
	switch {
	case strings.TrimSpace(m.To) == "":
		return errors.Join(ErrInvalidMessage, errors.New("missing recipient"))
	case strings.TrimSpace(m.Subject) == "":
		return errors.Join(ErrInvalidMessage, errors.New("missing subject"))
	}
	for _, a := range m.Attachments {
		if a.Filename == "" {
			return errors.Join(ErrInvalidMessage, errors.New("attachment without filename"))
		}
	}
	return nil
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
