// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mailer sends transactional email. The domain layer only sees the
// Mailer interface; delivery failures are the caller's to log, never to roll
// back on.
package mailer

import (
	"context"
	"log/slog"
)

// Mailer delivers a single message. html may be empty for text-only mail.
type Mailer interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// LogMailer is a no-op Mailer that records the message to the log. It serves
// development setups and tests where no mail provider is configured.
type LogMailer struct{}

// Send logs the message instead of delivering it.
func (LogMailer) Send(_ context.Context, to, subject, _, _ string) error {
	slog.Info("mail suppressed (no provider configured)", "to", to, "subject", subject)
	return nil
}
