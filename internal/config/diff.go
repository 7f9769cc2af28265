package config

import (
	"strings"

	logx "wconsole/pkg/logx"
)

// SummarizeConfigChange returns the changed top-level sections and safe
// structured attrs for logging. Webhook URLs and bot tokens carry credentials
// and are reported only as "set" flags.
func SummarizeConfigChange(oldCfg, newCfg *Config) ([]string, []logx.Field) {
	if oldCfg == nil {
		oldCfg = &Config{}
	}
	if newCfg == nil {
		newCfg = &Config{}
	}

	changed := make([]string, 0, 5)
	attrs := make([]logx.Field, 0, 12)

	ow, nw := oldCfg.Webhook, newCfg.Webhook
	if strings.TrimSpace(ow.URL) != strings.TrimSpace(nw.URL) ||
		ow.Username != nw.Username ||
		ow.AvatarURL != nw.AvatarURL ||
		strings.TrimSpace(ow.Timeout) != strings.TrimSpace(nw.Timeout) {
		changed = append(changed, "webhook")
		attrs = append(attrs,
			logx.Bool("webhook.url_set", strings.TrimSpace(nw.URL) != ""),
			logx.String("webhook.username", nw.Username),
			logx.String("webhook.timeout", strings.TrimSpace(nw.Timeout)),
		)
	}

	ot, nt := oldCfg.Telegram, newCfg.Telegram
	switch {
	case (ot == nil) != (nt == nil):
		changed = append(changed, "telegram")
		attrs = append(attrs, logx.Bool("telegram.enabled", nt != nil))
	case nt != nil && (ot.Token != nt.Token || ot.ChatID != nt.ChatID || ot.ThreadID != nt.ThreadID ||
		ot.APIURL != nt.APIURL || ot.Timeout != nt.Timeout):
		changed = append(changed, "telegram")
		attrs = append(attrs,
			logx.Bool("telegram.enabled", true),
			logx.Int64("telegram.chat_id", nt.ChatID),
			logx.Int("telegram.thread_id", nt.ThreadID),
		)
	}

	if oldCfg.Console != newCfg.Console {
		changed = append(changed, "console")
		attrs = append(attrs,
			logx.Bool("console.colors", newCfg.Console.Colors),
			logx.String("console.send_timeout", strings.TrimSpace(newCfg.Console.SendTimeout)),
		)
	}

	if oldCfg.Logging != newCfg.Logging {
		changed = append(changed, "logging")
		attrs = append(attrs,
			logx.String("logx.level", newCfg.Logging.Level),
			logx.Bool("logx.console", newCfg.Logging.Console),
			logx.Bool("logx.file_enabled", newCfg.Logging.File.Enabled),
		)
	}

	if strings.TrimSpace(oldCfg.Metrics.Addr) != strings.TrimSpace(newCfg.Metrics.Addr) ||
		oldCfg.Metrics.Token != newCfg.Metrics.Token {
		changed = append(changed, "metrics")
		attrs = append(attrs,
			logx.String("metrics.addr", strings.TrimSpace(newCfg.Metrics.Addr)),
			logx.Bool("metrics.token_set", newCfg.Metrics.Token != ""),
		)
	}

	return changed, attrs
}
