package notify

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"
	"webshop-service/internal/domain"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Format string

const (
	FormatJSON    Format = "json"
	FormatDiscord Format = "discord"
)

const newOrderColor = 0x2ecc71

// WebhookSink posts each event to a configured URL.
type WebhookSink struct {
	url        string
	format     Format
	httpClient *http.Client
}

var _ Sink = (*WebhookSink)(nil)

func NewWebhookSink(url string, format Format, timeout time.Duration) *WebhookSink {
	if format == "" {
		format = FormatJSON
	}
	return &WebhookSink{
		url:        url,
		format:     format,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *WebhookSink) Name() string {
	return "webhook"
}

func (s *WebhookSink) Send(ctx context.Context, evt domain.NotificationEvent) error {
	body, err := json.Marshal(s.payload(evt))
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

type discordEmbed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color,omitempty"`
	Timestamp   string `json:"timestamp"`
}

func (s *WebhookSink) payload(evt domain.NotificationEvent) any {
	if s.format != FormatDiscord {
		return evt
	}
	embed := discordEmbed{
		Title:       Title(evt),
		Description: Body(evt),
		Timestamp:   evt.Timestamp.UTC().Format(time.RFC3339),
	}
	if evt.Type == domain.EventNewOrder {
		embed.Color = newOrderColor
	}
	return map[string]any{"embeds": []discordEmbed{embed}}
}
