package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/trogers1052/insider-feed/internal/httpclient"
	"github.com/trogers1052/insider-feed/internal/models"
)

const twilioMessagesURL = "https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json"

// SMSConfig holds Twilio configuration for the SMS sender.
type SMSConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	Recipients []string
}

// SMSSender delivers trade notifications via the Twilio REST API.
type SMSSender struct {
	cfg        SMSConfig
	endpoint   string
	httpClient *http.Client
}

// NewSMSSender creates a Twilio-backed SMS sender.
func NewSMSSender(cfg SMSConfig) *SMSSender {
	return &SMSSender{
		cfg:        cfg,
		endpoint:   fmt.Sprintf(twilioMessagesURL, cfg.AccountSID),
		httpClient: httpclient.Default,
	}
}

// Name identifies the channel in logs.
func (s *SMSSender) Name() string { return "sms" }

// twilioResponse is the subset of the Twilio message resource we inspect.
type twilioResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Send delivers one SMS per recipient; per-recipient failures are
// collected so one bad number does not stop the rest of the list.
func (s *SMSSender) Send(ctx context.Context, trades []models.NormalizedTrade) error {
	body := renderSMS(trades)

	var errs []error
	for _, to := range s.cfg.Recipients {
		if err := s.sendOne(ctx, to, body); err != nil {
			errs = append(errs, fmt.Errorf("to %s: %w", to, err))
		}
	}
	return errors.Join(errs...)
}

func (s *SMSSender) sendOne(ctx context.Context, to, body string) error {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.cfg.FromNumber)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr twilioResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("twilio API error: %s", apiErr.Message)
		}
		return fmt.Errorf("twilio API returned status %d", resp.StatusCode)
	}

	return nil
}
