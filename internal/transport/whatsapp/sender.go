package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	logx "github.com/orderchat-poc/server/pkg/logger"
)

type Config struct {
	VerifyToken   string `split_words:"true" required:"true"`
	AccessToken   string `split_words:"true" required:"true"`
	PhoneNumberID string `split_words:"true" required:"true"`
	APIBaseURL    string `split_words:"true" default:"https://graph.facebook.com/v18.0"`
	SendTimeout   string `split_words:"true" default:"10s"`
}

// Sender delivers outbound messages to a conversation. Delivery is
// fire-and-forget from the engine's perspective; failures are logged here.
type Sender interface {
	Send(ctx context.Context, to, text string) error
}

// CloudAPISender posts messages through the WhatsApp Cloud API.
type CloudAPISender struct {
	client        *http.Client
	baseURL       string
	accessToken   string
	phoneNumberID string
}

func NewCloudAPISender(cfg Config) (*CloudAPISender, error) {
	timeout, err := time.ParseDuration(cfg.SendTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid send timeout %q: %w", cfg.SendTimeout, err)
	}
	return &CloudAPISender{
		client:        &http.Client{Timeout: timeout},
		baseURL:       cfg.APIBaseURL,
		accessToken:   cfg.AccessToken,
		phoneNumberID: cfg.PhoneNumberID,
	}, nil
}

func (s *CloudAPISender) Send(ctx context.Context, to, text string) error {
	body, err := json.Marshal(map[string]any{
		"messaging_product": "whatsapp",
		"to":                to,
		"text":              map[string]string{"body": text},
	})
	if err != nil {
		return fmt.Errorf("marshal outbound message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", s.baseURL, s.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build outbound request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		logx.Error().Err(err).Str("to", to).Msg("whatsapp send failed")
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	logx.Info().Int("status", resp.StatusCode).Str("to", to).Msg("whatsapp api response")
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("whatsapp api status %d", resp.StatusCode)
	}
	return nil
}

var _ Sender = (*CloudAPISender)(nil)
