package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const resendEndpoint = "https://api.resend.com/emails"

// ResendSender posts notification emails to the Resend REST API.
type ResendSender struct {
	apiKey string
	from   string
	to     string
	client *http.Client
}

func NewResendSender(apiKey, from, to string) *ResendSender {
	return &ResendSender{
		apiKey: apiKey,
		from:   from,
		to:     to,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

func (s *ResendSender) Send(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(resendRequest{
		From:    s.from,
		To:      []string{s.to},
		Subject: ev.Subject(),
		Text:    ev.Body(),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendEndpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("resend API returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
