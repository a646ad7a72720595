package mailx

import (
	"context"
	"log/slog"
)

// LogSender writes mail metadata to the log instead of delivering it. Used
// when no SMTP relay is configured.
type LogSender struct {
	Logger *slog.Logger
}

func (s LogSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	names := make([]string, 0, len(msg.Attachments))
	for _, a := range msg.Attachments {
		names = append(names, a.Filename)
	}

	s.Logger.InfoContext(ctx, "mail not delivered, no smtp relay configured",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.Any("attachments", names),
	)
	return nil
}
