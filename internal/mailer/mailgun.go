// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mailer

import (
	"context"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// sendTimeout bounds how long a single delivery attempt may take.
const sendTimeout = 10 * time.Second

// Mailgun delivers mail through the Mailgun API.
type Mailgun struct {
	domain string
	apiKey string
	sender string
}

// NewMailgun creates a Mailgun mailer sending from the given address.
func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{domain: domain, apiKey: apiKey, sender: sender}
}

// Send delivers a message. html is optional; when set it becomes the HTML body.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	client := mg.NewMailgun(m.domain, m.apiKey)
	msg := client.NewMessage(m.sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	_, _, err := client.Send(ctx, msg)
	return err
}
