// Package telegram delivers envelopes to a Telegram chat through the Bot API.
package telegram

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	tele "gopkg.in/telebot.v4"

	"wconsole/pkg/envelope"
)

var (
	ErrMissingToken = errors.New("telegram: token is empty")
	ErrMissingChat  = errors.New("telegram: chat id is empty")
)

// chunkLimit bounds the unescaped body carried by one message. Telegram caps
// a message at 4096 characters after entity parsing; escaping and the header
// need headroom.
const chunkLimit = 3000

type Config struct {
	Token    string
	ChatID   int64
	ThreadID int
	// APIURL overrides the Bot API endpoint (default https://api.telegram.org).
	APIURL string
	// Timeout bounds each Bot API request (default 15s).
	Timeout time.Duration
	Client  *http.Client
}

// Adapter sends each envelope as an HTML message: a bold title followed by
// the body in a preformatted block. ANSI escapes are stripped.
type Adapter struct {
	bot  *tele.Bot
	chat *tele.Chat
	cfg  Config
}

// New builds an Adapter. It never contacts the Bot API; the token is checked
// on the first delivery.
func New(cfg Config) (*Adapter, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, ErrMissingToken
	}
	if cfg.ChatID == 0 {
		return nil, ErrMissingChat
	}
	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	b, err := tele.NewBot(tele.Settings{
		URL:     cfg.APIURL,
		Token:   cfg.Token,
		Client:  client,
		Offline: true,
	})
	if err != nil {
		return nil, err
	}
	return &Adapter{bot: b, chat: &tele.Chat{ID: cfg.ChatID}, cfg: cfg}, nil
}

func (a *Adapter) Deliver(ctx context.Context, env envelope.Envelope) error {
	opts := &tele.SendOptions{
		ParseMode:             tele.ModeHTML,
		DisableWebPagePreview: true,
		ThreadID:              a.cfg.ThreadID,
	}
	for _, msg := range Messages(env) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := a.bot.Send(a.chat, msg, opts); err != nil {
			return err
		}
	}
	return nil
}

// Messages renders env as one or more Telegram HTML messages. Long bodies are
// split on line boundaries, each chunk in its own balanced <pre> block.
func Messages(env envelope.Envelope) []string {
	var title H = B(env.Title)
	if env.Username != "" {
		title = JoinH(" ", title, I(env.Username))
	}
	body := ansi.Strip(env.Body)
	if strings.TrimSpace(body) == "" {
		return []string{title.String()}
	}
	chunks := splitText(body, chunkLimit)
	out := make([]string, 0, len(chunks))
	for i, c := range chunks {
		msg := Pre(c)
		if i == 0 {
			msg = JoinH("\n", title, msg)
		}
		out = append(out, msg.String())
	}
	return out
}

// splitText cuts s into chunks of at most limit runes, preferring a newline
// near the end of each window.
func splitText(s string, limit int) []string {
	rs := []rune(s)
	if len(rs) <= limit {
		return []string{s}
	}

	out := make([]string, 0, (len(rs)+limit-1)/limit)
	start := 0
	for start < len(rs) {
		end := min(start+limit, len(rs))
		if end < len(rs) {
			for i := end - 1; i > start; i-- {
				// Avoid extremely small chunks.
				if rs[i] == '\n' && i-start >= limit/3 {
					end = i + 1
					break
				}
			}
		}
		out = append(out, strings.TrimRight(string(rs[start:end]), "\n"))
		start = end
		for start < len(rs) && rs[start] == '\n' {
			start++
		}
	}
	return out
}
