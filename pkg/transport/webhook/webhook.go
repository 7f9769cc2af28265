// Package webhook posts envelopes to a Discord-compatible chat webhook.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wconsole/pkg/envelope"
)

var (
	ErrMissingURL   = errors.New("webhook: url is required")
	ErrInvalidURL   = errors.New("webhook: invalid url")
	ErrEmptyPayload = errors.New("webhook: payload needs content or embeds")
)

// StatusError reports a non-2xx answer from the webhook endpoint.
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("webhook: failed to send message: %s", e.Status)
	}
	return fmt.Sprintf("webhook: failed to send message: %s: %s", e.Status, e.Body)
}

// Embed is one rich embed of a webhook message.
type Embed struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Color       int    `json:"color,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
}

// Payload is the JSON body of a webhook execution.
type Payload struct {
	Content   string  `json:"content,omitempty"`
	Embeds    []Embed `json:"embeds,omitempty"`
	Username  string  `json:"username,omitempty"`
	AvatarURL string  `json:"avatar_url,omitempty"`
}

// Client executes one webhook URL.
type Client struct {
	url  string
	http *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New validates rawURL and returns a Client for it.
func New(rawURL string, opts ...Option) (*Client, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}
	c := &Client{
		url:  strings.TrimSpace(rawURL),
		http: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ValidateURL checks that rawURL is a non-empty absolute http(s) URL.
func ValidateURL(rawURL string) error {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ErrMissingURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return nil
}

// Deliver renders env as a single embed and sends it.
func (c *Client) Deliver(ctx context.Context, env envelope.Envelope) error {
	return c.Send(ctx, PayloadFor(env))
}

// PayloadFor builds the webhook payload for env.
func PayloadFor(env envelope.Envelope) Payload {
	desc, color := envelope.Render(env)
	embed := Embed{Title: env.Title, Description: desc, Color: color}
	if !env.Time.IsZero() {
		embed.Timestamp = env.Time.UTC().Format(time.RFC3339)
	}
	return Payload{
		Embeds:    []Embed{embed},
		Username:  env.Username,
		AvatarURL: env.AvatarURL,
	}
}

// Send posts p to the webhook.
func (c *Client) Send(ctx context.Context, p Payload) error {
	if p.Content == "" && len(p.Embeds) == 0 {
		return ErrEmptyPayload
	}
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("webhook: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Status: resp.Status, Body: strings.TrimSpace(string(msg))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
