package wconsole

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"wconsole/pkg/eventbus"
	logx "wconsole/pkg/logx"
)

const (
	defaultSendTimeout = 10 * time.Second
	defaultFailEvery   = time.Second
	defaultFailBurst   = 5
)

type options struct {
	log         logx.Logger
	sendTimeout time.Duration
	colors      bool
	username    string
	avatarURL   string
	bus         eventbus.Bus
	httpClient  *http.Client
	clock       func() time.Time
	failLimit   rate.Limit
	failBurst   int
}

func defaultOptions() options {
	return options{
		log:         logx.NewConsole("info"),
		sendTimeout: defaultSendTimeout,
		clock:       time.Now,
		failLimit:   rate.Every(defaultFailEvery),
		failBurst:   defaultFailBurst,
	}
}

// Option configures a Console.
type Option func(*options)

// WithLogger sets the local diagnostic logger. Delivery failures are logged
// here at warn level. The default writes to stderr.
func WithLogger(l logx.Logger) Option {
	return func(o *options) {
		if l.IsZero() {
			l = logx.Nop()
		}
		o.log = l
	}
}

// WithSendTimeout bounds each delivery (default 10s).
func WithSendTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.sendTimeout = d
		}
	}
}

// WithColors enables ANSI styling of inspected values.
func WithColors(enabled bool) Option {
	return func(o *options) { o.colors = enabled }
}

// WithIdentity sets the author name and avatar shown on every message.
func WithIdentity(username, avatarURL string) Option {
	return func(o *options) {
		o.username = username
		o.avatarURL = avatarURL
	}
}

// WithEventBus publishes delivery outcomes (EventDeliverySent,
// EventDeliveryFailed, EventDeliveryDropped) on bus.
func WithEventBus(bus eventbus.Bus) Option {
	return func(o *options) { o.bus = bus }
}

// WithHTTPClient sets the client New uses for the webhook.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithClock replaces time.Now for timers and envelope timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}

// WithFailureLogLimit caps how often delivery failures are logged: one line
// per every, with bursts of up to burst lines. Suppressed failures are still
// counted and reported with the next logged line.
func WithFailureLogLimit(every time.Duration, burst int) Option {
	return func(o *options) {
		if every > 0 {
			o.failLimit = rate.Every(every)
		}
		if burst > 0 {
			o.failBurst = burst
		}
	}
}
