package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"wconsole/internal/config"
	"wconsole/pkg/envelope"
	"wconsole/pkg/transport"
	"wconsole/pkg/transport/telegram"
	"wconsole/pkg/transport/webhook"
)

var errNoDestination = errors.New("no destination configured")

// destination forwards to the current adapter. Reloads swap it without
// rebuilding the console.
type destination struct {
	mu  sync.RWMutex
	cur transport.Adapter
}

func (d *destination) set(a transport.Adapter) {
	d.mu.Lock()
	d.cur = a
	d.mu.Unlock()
}

func (d *destination) Deliver(ctx context.Context, env envelope.Envelope) error {
	d.mu.RLock()
	a := d.cur
	d.mu.RUnlock()
	if a == nil {
		return errNoDestination
	}
	return a.Deliver(ctx, env)
}

// buildAdapter maps the webhook and telegram sections onto transports.
// Both may be active; each envelope then goes to both.
func buildAdapter(cfg *config.Config) (transport.Adapter, error) {
	t := cfg.Timeouts()
	var adapters []transport.Adapter

	if u := strings.TrimSpace(cfg.Webhook.URL); u != "" {
		wh, err := webhook.New(u, webhook.WithHTTPClient(&http.Client{Timeout: t.Webhook}))
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, wh)
	}
	if tg := cfg.Telegram; tg != nil {
		ad, err := telegram.New(telegram.Config{
			Token:    tg.Token,
			ChatID:   tg.ChatID,
			ThreadID: tg.ThreadID,
			APIURL:   tg.APIURL,
			Timeout:  t.Telegram,
		})
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, ad)
	}

	switch len(adapters) {
	case 0:
		return nil, config.ErrNoDestination
	case 1:
		return adapters[0], nil
	default:
		return transport.Multi(adapters...), nil
	}
}

func destinationChanged(a, b *config.Config) bool {
	if a == nil || b == nil {
		return true
	}
	if a.Webhook.URL != b.Webhook.URL || a.Webhook.Timeout != b.Webhook.Timeout {
		return true
	}
	if (a.Telegram == nil) != (b.Telegram == nil) {
		return true
	}
	return a.Telegram != nil && *a.Telegram != *b.Telegram
}
