// Package mailer abstracts the confirmation email sent after a
// successful submission. Nothing is actually transmitted; the shipped
// implementation only logs the message.
package mailer

import (
	"context"

	"go.uber.org/zap"
)

type Mailer interface {
	SendConfirmation(ctx context.Context, email, submissionID string) error
}

type logMailer struct {
	log *zap.Logger
}

// NewLog returns a mailer that records the outgoing message in the log.
func NewLog(log *zap.Logger) Mailer {
	return &logMailer{log: log}
}

func (m *logMailer) SendConfirmation(_ context.Context, email, submissionID string) error {
	m.log.Info("sending confirmation email",
		zap.String("email", email),
		zap.String("submission_id", submissionID),
	)

	return nil
}
