package envelope

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxDescription is the longest embed description a Discord webhook accepts.
const MaxDescription = 4096

const (
	fenceOpen  = "```ansi\n"
	fenceClose = "```"
	// zwsp breaks up backtick runs that would close the fence early.
	zwsp = "\u200b"
)

// Envelope is one outbound message. Body holds the formatted text unwrapped;
// presentation happens in Render or in the transport.
type Envelope struct {
	Level     Level
	Title     string
	Body      string
	Color     int
	Username  string
	AvatarURL string
	Time      time.Time
}

// Build classifies text under level.
func Build(level Level, text string) Envelope {
	return Envelope{
		Level: level,
		Title: level.String(),
		Body:  text,
		Color: level.Color(),
	}
}

// WithIdentity returns a copy of env carrying the given author identity.
func (env Envelope) WithIdentity(username, avatarURL string) Envelope {
	env.Username = username
	env.AvatarURL = avatarURL
	return env
}

// Render returns the embed description and color for env. The body sits in an
// ansi code block, prefixed by the level's polarity escape. The block always
// ends with a reset escape and the closing fence, even when the body had to be
// truncated to MaxDescription.
func Render(env Envelope) (string, int) {
	body := strings.ReplaceAll(env.Body, "```", "`"+zwsp+"``")
	prefix := fenceOpen + env.Level.Polarity()
	suffix := "\n" + ansiReset + fenceClose

	room := MaxDescription - utf8.RuneCountInString(prefix) - utf8.RuneCountInString(suffix)
	if utf8.RuneCountInString(body) > room {
		body = truncate(body, room)
	}
	return prefix + body + suffix, env.Color
}

// truncate cuts s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(runes[:n-1]) + "…"
}
