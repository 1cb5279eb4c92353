package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
)

// Notifier delivers a rendered notification to the configured recipient.
type Notifier interface {
	Send(ctx context.Context, msg NotificationMessage) error
}

// ResendNotifierConfig 描述 Resend 发信所需的配置。
type ResendNotifierConfig struct {
	APIKey     string
	BaseURL    string
	From       string
	To         string
	HTTPClient *http.Client
}

// ResendNotifier sends notification emails through the Resend API.
type ResendNotifier struct {
	client *resend.Client
	from   string
	to     string
}

// NewResendNotifier builds a notifier. An empty API key is accepted: the
// provider rejects the call at send time.
func NewResendNotifier(cfg ResendNotifierConfig) (*ResendNotifier, error) {
	from := strings.TrimSpace(cfg.From)
	to := strings.TrimSpace(cfg.To)
	if from == "" || to == "" {
		return nil, errors.New("notification sender and recipient are required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	client := resend.NewCustomClient(httpClient, strings.TrimSpace(cfg.APIKey))
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		parsed, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("parse resend base url: %w", err)
		}
		client.BaseURL = parsed
	}

	return &ResendNotifier{client: client, from: from, to: to}, nil
}

// Send performs exactly one API call.
func (n *ResendNotifier) Send(ctx context.Context, msg NotificationMessage) error {
	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{n.to},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}

	sent, err := n.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("resend send: %w", err)
	}
	if sent == nil || strings.TrimSpace(sent.Id) == "" {
		return errors.New("resend send: empty response")
	}
	return nil
}
