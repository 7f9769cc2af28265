package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	logx "wconsole/pkg/logx"
	"wconsole/pkg/transport/webhook"
)

// ErrNoDestination is reported when neither a webhook nor a Telegram chat is
// configured.
var ErrNoDestination = errors.New("no destination: set webhook.url or telegram")

// Validate checks the whole config and reports every problem at once.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("nil config")
	}
	var result *multierror.Error

	if strings.TrimSpace(c.Webhook.URL) == "" && c.Telegram == nil {
		result = multierror.Append(result, ErrNoDestination)
	}
	if u := strings.TrimSpace(c.Webhook.URL); u != "" {
		if err := webhook.ValidateURL(u); err != nil {
			result = multierror.Append(result, fmt.Errorf("webhook.url: %w", err))
		}
	}
	if _, err := ParseDurationField("webhook.timeout", c.Webhook.Timeout); err != nil {
		result = multierror.Append(result, err)
	}

	if tg := c.Telegram; tg != nil {
		if strings.TrimSpace(tg.Token) == "" {
			result = multierror.Append(result, errors.New("telegram.token: required"))
		}
		if tg.ChatID == 0 {
			result = multierror.Append(result, errors.New("telegram.chat_id: required"))
		}
		if tg.ThreadID < 0 {
			result = multierror.Append(result, errors.New("telegram.thread_id: must be >= 0"))
		}
		if _, err := ParseDurationField("telegram.timeout", tg.Timeout); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if _, err := ParseDurationField("console.send_timeout", c.Console.SendTimeout); err != nil {
		result = multierror.Append(result, err)
	}
	if _, err := ParseDurationField("console.failure_log_every", c.Console.FailureLogEvery); err != nil {
		result = multierror.Append(result, err)
	}
	if c.Console.FailureLogBurst < 0 {
		result = multierror.Append(result, errors.New("console.failure_log_burst: must be >= 0"))
	}

	if lvl := strings.TrimSpace(c.Logging.Level); lvl != "" {
		if _, ok := logx.ParseLevel(lvl); !ok {
			result = multierror.Append(result, fmt.Errorf("logging.level: unknown level %q", lvl))
		}
	}
	if c.Logging.File.Enabled && strings.TrimSpace(c.Logging.File.Path) == "" {
		result = multierror.Append(result, errors.New("logging.file.path: required when file logging is enabled"))
	}

	if addr := strings.TrimSpace(c.Metrics.Addr); addr != "" {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			result = multierror.Append(result, fmt.Errorf("metrics.addr: %w", err))
		}
	}

	return result.ErrorOrNil()
}

// Timeouts holds the parsed duration fields with defaults applied.
type Timeouts struct {
	Webhook         time.Duration
	Telegram        time.Duration
	Send            time.Duration
	FailureLogEvery time.Duration
	FailureLogBurst int
}

// Timeouts parses the duration fields. Call Validate first; parse errors here
// fall back to defaults.
func (c *Config) Timeouts() Timeouts {
	t := Timeouts{FailureLogBurst: c.Console.FailureLogBurst}
	t.Webhook, _ = ParseDurationOrDefault("webhook.timeout", c.Webhook.Timeout, 15*time.Second)
	if c.Telegram != nil {
		t.Telegram, _ = ParseDurationOrDefault("telegram.timeout", c.Telegram.Timeout, 15*time.Second)
	}
	t.Send, _ = ParseDurationOrDefault("console.send_timeout", c.Console.SendTimeout, 10*time.Second)
	t.FailureLogEvery, _ = ParseDurationOrDefault("console.failure_log_every", c.Console.FailureLogEvery, time.Second)
	if t.FailureLogBurst <= 0 {
		t.FailureLogBurst = 5
	}
	return t
}

// LogConfig maps the logging section onto logx.
func (c *Config) LogConfig() logx.Config {
	lvl := strings.TrimSpace(c.Logging.Level)
	if lvl == "" {
		lvl = "info"
	}
	return logx.Config{
		Level:   lvl,
		Console: c.Logging.Console,
		File: logx.FileConfig{
			Enabled: c.Logging.File.Enabled,
			Path:    strings.TrimSpace(c.Logging.File.Path),
		},
	}
}
