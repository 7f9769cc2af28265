package config

// Config is the wconsole CLI configuration.
//
// All durations are Go duration strings (e.g. "500ms", "10s", "1m").
//
// Example (YAML):
//
//	webhook:
//	  url: https://discord.com/api/webhooks/123/abc
//	  username: deploy-bot
//	console:
//	  colors: true
//	  send_timeout: 5s
//	logging:
//	  level: info
//	  console: true
//	metrics:
//	  addr: 127.0.0.1:9464
type Config struct {
	Webhook WebhookConfig `json:"webhook"`
	// Telegram adds a second destination. Omit the section to disable it.
	Telegram *TelegramConfig `json:"telegram,omitempty"`
	Console  ConsoleConfig   `json:"console"`
	Logging  LoggingConfig   `json:"logging"`
	Metrics  MetricsConfig   `json:"metrics"`
}

type WebhookConfig struct {
	URL       string `json:"url"`
	Username  string `json:"username,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	// Timeout bounds one HTTP request. Default: 15s.
	Timeout string `json:"timeout,omitempty"`
}

type TelegramConfig struct {
	Token    string `json:"token"`
	ChatID   int64  `json:"chat_id"`
	ThreadID int    `json:"thread_id,omitempty"`
	// APIURL overrides the Bot API endpoint.
	APIURL  string `json:"api_url,omitempty"`
	Timeout string `json:"timeout,omitempty"`
}

// ConsoleConfig tunes delivery.
//
// Defaults (when fields are omitted/zero):
//   - send_timeout: 10s
//   - failure_log_every: 1s
//   - failure_log_burst: 5
type ConsoleConfig struct {
	Colors          bool   `json:"colors"`
	SendTimeout     string `json:"send_timeout,omitempty"`
	FailureLogEvery string `json:"failure_log_every,omitempty"`
	FailureLogBurst int    `json:"failure_log_burst,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// MetricsConfig controls the optional Prometheus endpoint.
// Prefer binding to localhost (e.g. "127.0.0.1:9464").
// A non-loopback address requires Token.
type MetricsConfig struct {
	Addr  string `json:"addr,omitempty"`
	Token string `json:"token,omitempty"`
}
