package wconsole

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"wconsole/pkg/envelope"
	"wconsole/pkg/format"
	"wconsole/pkg/transport"
	"wconsole/pkg/transport/webhook"
)

// traceDepth is how many caller frames Trace prints.
const traceDepth = 10

// Console formats console calls and delivers them through a transport.
// It is safe for concurrent use.
type Console struct {
	fmt      format.Formatter
	counters *counters
	timers   *timers
	d        *dispatcher
	clock    func() time.Time

	mu        sync.RWMutex
	username  string
	avatarURL string
}

// New returns a Console posting to the webhook at url.
func New(url string, opts ...Option) (*Console, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	client, err := webhook.New(url, webhook.WithHTTPClient(o.httpClient))
	if err != nil {
		return nil, err
	}
	return newConsole(client, o), nil
}

// NewWithAdapter returns a Console delivering through a. A nil adapter,
// including a typed nil such as (*webhook.Client)(nil), is rejected with
// ErrNilAdapter.
func NewWithAdapter(a transport.Adapter, opts ...Option) (*Console, error) {
	if isNilAdapter(a) {
		return nil, ErrNilAdapter
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return newConsole(a, o), nil
}

func isNilAdapter(a transport.Adapter) bool {
	if a == nil {
		return true
	}
	v := reflect.ValueOf(a)
	switch v.Kind() {
	case reflect.Ptr, reflect.Func, reflect.Map, reflect.Chan, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func newConsole(a transport.Adapter, o options) *Console {
	return &Console{
		fmt:       format.Formatter{Colors: o.colors},
		counters:  newCounters(),
		timers:    newTimers(),
		d:         newDispatcher(a, o),
		clock:     o.clock,
		username:  o.username,
		avatarURL: o.avatarURL,
	}
}

// SetIdentity changes the author name and avatar of subsequent messages.
func (c *Console) SetIdentity(username, avatarURL string) {
	c.mu.Lock()
	c.username, c.avatarURL = username, avatarURL
	c.mu.Unlock()
}

func (c *Console) emit(level envelope.Level, text string) {
	c.mu.RLock()
	env := envelope.Build(level, text).WithIdentity(c.username, c.avatarURL)
	c.mu.RUnlock()
	env.Time = c.clock()
	c.d.send(env)
}

func (c *Console) Log(args ...any)   { c.emit(envelope.Log, c.fmt.Format(args...)) }
func (c *Console) Debug(args ...any) { c.emit(envelope.Debug, c.fmt.Format(args...)) }
func (c *Console) Info(args ...any)  { c.emit(envelope.Info, c.fmt.Format(args...)) }
func (c *Console) Warn(args ...any)  { c.emit(envelope.Warn, c.fmt.Format(args...)) }
func (c *Console) Error(args ...any) { c.emit(envelope.Error, c.fmt.Format(args...)) }

// Assert sends "Assertion failed" when value is false, followed by ": " and
// the formatted args when any are given. A leading string argument keeps
// acting as the format for the rest.
func (c *Console) Assert(value bool, args ...any) {
	if value {
		return
	}
	text := "Assertion failed"
	switch {
	case len(args) == 0:
	case isString(args[0]):
		text = c.fmt.Format(append([]any{text + ": " + args[0].(string)}, args[1:]...)...)
	default:
		text += ": " + c.fmt.Format(args...)
	}
	c.emit(envelope.Assert, text)
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

// Count increments the counter for label ("" means "default") and sends
// "<label>: <n>".
func (c *Console) Count(label string) {
	label = labelOr(label)
	n := c.counters.inc(label)
	c.emit(envelope.Count, label+": "+strconv.Itoa(n))
}

// CountReset resets the counter for label. Resetting an unknown label sends a
// warning instead.
func (c *Console) CountReset(label string) {
	label = labelOr(label)
	if !c.counters.reset(label) {
		c.emit(envelope.Warn, fmt.Sprintf("Count for '%s' does not exist", label))
	}
}

// Time starts a timer for label. A timer that is already running keeps its
// original start and a warning is sent.
func (c *Console) Time(label string) {
	label = labelOr(label)
	if !c.timers.start(label, c.clock()) {
		c.emit(envelope.Warn, fmt.Sprintf("Label '%s' already exists for Time()", label))
	}
}

// TimeLog sends the elapsed time of label's timer, followed by data, without
// stopping it.
func (c *Console) TimeLog(label string, data ...any) {
	label = labelOr(label)
	d, ok := c.timers.elapsed(label, c.clock())
	if !ok {
		c.emit(envelope.Warn, fmt.Sprintf("No such label '%s' for TimeLog()", label))
		return
	}
	c.emit(envelope.Time, c.fmt.Format(append([]any{"%s: %s", label, format.Duration(d)}, data...)...))
}

// TimeEnd sends the elapsed time of label's timer and stops it.
func (c *Console) TimeEnd(label string) {
	label = labelOr(label)
	d, ok := c.timers.end(label, c.clock())
	if !ok {
		c.emit(envelope.Warn, fmt.Sprintf("No such label '%s' for TimeEnd()", label))
		return
	}
	c.emit(envelope.Time, label+": "+format.Duration(d))
}

// Table sends data as a grid. Data that is not tabular is sent as Log(data).
func (c *Console) Table(data any, columns ...string) {
	grid, ok := c.fmt.Table(data, columns...)
	if !ok {
		c.Log(data)
		return
	}
	c.emit(envelope.Log, grid)
}

// Trace sends "Trace: <text>" followed by the caller's stack.
func (c *Console) Trace(args ...any) {
	text := "Trace"
	if msg := c.fmt.Format(args...); msg != "" {
		text += ": " + msg
	}
	c.emit(envelope.Trace, text+callers(3, traceDepth))
}

// callers renders up to n frames, starting skip frames above its caller, as
// "\n    at fn (file:line)" lines. Runtime frames are left out.
func callers(skip, n int) string {
	pcs := make([]uintptr, n+8)
	frames := runtime.CallersFrames(pcs[:runtime.Callers(skip, pcs)])
	var b strings.Builder
	for i := 0; i < n; {
		fr, more := frames.Next()
		if fr.File != "" && !strings.HasPrefix(fr.Function, "runtime.") {
			fmt.Fprintf(&b, "\n    at %s (%s:%d)", fr.Function, fr.File, fr.Line)
			i++
		}
		if !more {
			break
		}
	}
	return b.String()
}

// Writer returns an io.Writer that sends every Write as one envelope of the
// given level, minus a trailing newline.
func (c *Console) Writer(level envelope.Level) io.Writer {
	return levelWriter{c: c, level: level}
}

type levelWriter struct {
	c     *Console
	level envelope.Level
}

func (w levelWriter) Write(p []byte) (int, error) {
	text := strings.TrimSuffix(strings.TrimSuffix(string(p), "\n"), "\r")
	w.c.emit(w.level, text)
	return len(p), nil
}

// Close stops accepting calls and waits for in-flight deliveries. If ctx ends
// first, the remaining deliveries are cancelled and ctx.Err() is returned.
// Calls made after Close are dropped.
func (c *Console) Close(ctx context.Context) error {
	return c.d.close(ctx)
}

// Metrics returns the console's Prometheus collectors for registration.
func (c *Console) Metrics() []prometheus.Collector {
	return collectorsFromFields(c.d.metrics)
}
