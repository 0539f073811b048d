// Package sms broadcasts admin messages through an external SMS gateway.
// The gateway protocol is the provider's business; this is just the thin
// client and the send log.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"suretips/errs"
)

// Sender delivers one message to a list of phone numbers.
type Sender interface {
	Send(ctx context.Context, to []string, message string) error
}

type HTTPSender struct {
	baseURL string
	sender  string
	http    *http.Client
}

func NewHTTPSender(baseURL, sender string) *HTTPSender {
	return &HTTPSender{
		baseURL: baseURL,
		sender:  sender,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func NewSenderFromEnv() *HTTPSender {
	base := os.Getenv("SMS_API_URL")
	if base == "" {
		base = "http://localhost:9300"
	}
	sender := os.Getenv("SMS_SENDER")
	if sender == "" {
		sender = "SURETIPS"
	}
	return NewHTTPSender(base, sender)
}

func (s *HTTPSender) Send(ctx context.Context, to []string, message string) error {
	if len(to) == 0 {
		return errs.New(errs.Validation, "no recipients")
	}

	payload, _ := json.Marshal(map[string]any{
		"sender":     s.sender,
		"message":    message,
		"recipients": to,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/sms/send", bytes.NewReader(payload))
	if err != nil {
		return errs.Wrap(errs.Service, "build sms request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return errs.Wrap(errs.Network, "sms gateway unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errs.Newf(errs.Service, "sms gateway returned %d", resp.StatusCode)
	}
	return nil
}
