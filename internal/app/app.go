// Package app wires configuration, logging, metrics and the console for the
// wconsole command.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"

	"wconsole/internal/config"
	"wconsole/internal/observability/metrics"
	rtsup "wconsole/internal/runtime/supervisor"
	"wconsole/pkg/eventbus"
	logx "wconsole/pkg/logx"
	"wconsole/pkg/wconsole"
)

// Options select the config source and command-line overrides.
type Options struct {
	// ConfigPath is a JSON or YAML file. Empty means flags only.
	ConfigPath string
	// URL overrides webhook.url.
	URL string
	// MetricsAddr overrides metrics.addr.
	MetricsAddr string
	// Watch reloads ConfigPath on change.
	Watch bool
	// LogLevel overrides logging.level.
	LogLevel string
}

// Stats counts delivery outcomes seen on the event bus.
type Stats struct {
	Sent    uint64 `json:"sent"`
	Failed  uint64 `json:"failed"`
	Dropped uint64 `json:"dropped"`
}

type App struct {
	opts Options

	cfgm *config.Manager
	cfg  atomic.Pointer[config.Config]

	sup  *rtsup.Supervisor
	log  logx.Logger
	logs *logx.Service

	bus     eventbus.Bus
	events  <-chan eventbus.Event
	unsub   func()
	reg     *prometheus.Registry
	dest    *destination
	console *wconsole.Console
	metrics *metrics.Service

	sent, failed, dropped atomic.Uint64

	stopOnce sync.Once
	stopErr  error
}

func New(opts Options) (*App, error) {
	cfg, cfgm, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logs, log := logx.New(cfg.LogConfig())
	log = log.With(logx.String("comp", "app"))

	ad, err := buildAdapter(cfg)
	if err != nil {
		_ = logs.Close()
		return nil, err
	}
	dest := &destination{}
	dest.set(ad)

	bus := eventbus.New()
	t := cfg.Timeouts()
	console, err := wconsole.NewWithAdapter(dest,
		wconsole.WithLogger(log.With(logx.String("comp", "console"))),
		wconsole.WithSendTimeout(t.Send),
		wconsole.WithColors(cfg.Console.Colors),
		wconsole.WithIdentity(cfg.Webhook.Username, cfg.Webhook.AvatarURL),
		wconsole.WithEventBus(bus),
		wconsole.WithFailureLogLimit(t.FailureLogEvery, t.FailureLogBurst),
	)
	if err != nil {
		_ = logs.Close()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(console.Metrics()...)
	reg.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "wconsole",
		Subsystem: "eventbus",
		Name:      "dropped_total",
		Help:      "Events lost to full subscriber buffers.",
	}, func() float64 { return float64(bus.Dropped()) }))

	a := &App{
		opts:    opts,
		cfgm:    cfgm,
		log:     log,
		logs:    logs,
		bus:     bus,
		reg:     reg,
		dest:    dest,
		console: console,
		metrics: metrics.New(reg, log.With(logx.String("comp", "metrics"))),
	}
	a.cfg.Store(cfg)
	reg.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "wconsole",
			Subsystem: "runtime",
			Name:      "goroutines_active",
			Help:      "Supervised background goroutines running.",
		}, func() float64 { return float64(a.sup.Counters().Active) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "wconsole",
			Subsystem: "runtime",
			Name:      "goroutine_panics_total",
			Help:      "Panics recovered in background goroutines.",
		}, func() float64 { return float64(a.sup.Counters().Panics) }),
	)
	a.metrics.Handle("/status", http.HandlerFunc(a.serveStatus))
	a.events, a.unsub = bus.Subscribe(256, wconsole.EventDeliverySent, wconsole.EventDeliveryFailed, wconsole.EventDeliveryDropped)
	return a, nil
}

func loadConfig(opts Options) (*config.Config, *config.Manager, error) {
	override := func(c *config.Config) {
		if u := strings.TrimSpace(opts.URL); u != "" {
			c.Webhook.URL = u
		}
		if addr := strings.TrimSpace(opts.MetricsAddr); addr != "" {
			c.Metrics.Addr = addr
		}
		if lvl := strings.TrimSpace(opts.LogLevel); lvl != "" {
			c.Logging.Level = lvl
		}
	}

	if strings.TrimSpace(opts.ConfigPath) == "" {
		cfg := &config.Config{Logging: config.LoggingConfig{Level: "warn", Console: true}}
		override(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
		return cfg, nil, nil
	}

	cfgm := config.NewManager(opts.ConfigPath, logx.Nop())
	cfgm.SetOverride(override)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", opts.ConfigPath, err)
	}
	return cfg, cfgm, nil
}

func (a *App) Console() *wconsole.Console { return a.console }

func (a *App) Config() *config.Config { return a.cfg.Load() }

func (a *App) Registry() *prometheus.Registry { return a.reg }

// MetricsAddr returns the bound metrics address, or "" when disabled.
func (a *App) MetricsAddr() string { return a.metrics.Addr() }

func (a *App) Stats() Stats {
	return Stats{Sent: a.sent.Load(), Failed: a.failed.Load(), Dropped: a.dropped.Load()}
}

// Status is the /status document.
type Status struct {
	Deliveries Stats          `json:"deliveries"`
	Runtime    rtsup.Snapshot `json:"runtime"`
	Config     []string       `json:"config_sections"`
}

func (a *App) serveStatus(w http.ResponseWriter, _ *http.Request) {
	st := Status{Deliveries: a.Stats(), Runtime: a.sup.Snapshot()}
	if cfg := a.cfg.Load(); cfg != nil {
		st.Config, _ = config.SummarizeConfigChange(nil, cfg)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(st)
}

// Start launches the metrics server, the delivery event loop and, with
// Options.Watch, the config watcher.
func (a *App) Start(ctx context.Context) error {
	a.sup = rtsup.New(ctx, rtsup.WithLogger(a.log), rtsup.WithCancelOnError(false))

	cfg := a.cfg.Load()
	a.metrics.Reconfigure(a.sup.Context(), metricsConfig(cfg))

	a.sup.Go0("delivery.events", func(c context.Context) {
		for {
			select {
			case <-c.Done():
				return
			case ev, ok := <-a.events:
				if !ok {
					return
				}
				a.count(ev)
			}
		}
	})

	if a.opts.Watch && a.cfgm != nil {
		a.cfgm.SetLogger(a.log.With(logx.String("comp", "config")))
		updates := a.cfgm.Subscribe(1)
		a.sup.GoRestart("config.watch", a.cfgm.Watch)
		a.sup.Go0("config.apply", func(c context.Context) {
			defer a.cfgm.Unsubscribe(updates)
			for {
				select {
				case <-c.Done():
					return
				case next, ok := <-updates:
					if !ok {
						return
					}
					a.apply(c, next)
				}
			}
		})
		a.log.Info("watching config", logx.String("path", a.cfgm.Path()))
	}
	return nil
}

func (a *App) count(ev eventbus.Event) {
	switch ev.Type {
	case wconsole.EventDeliverySent:
		a.sent.Add(1)
	case wconsole.EventDeliveryFailed:
		a.failed.Add(1)
	case wconsole.EventDeliveryDropped:
		a.dropped.Add(1)
	}
}

// apply hot-swaps what can change without rebuilding the console: logging,
// identity, destination and the metrics server. Console delivery settings
// take effect on the next start.
func (a *App) apply(ctx context.Context, next *config.Config) {
	prev := a.cfg.Load()
	changed, attrs := config.SummarizeConfigChange(prev, next)
	if len(changed) == 0 {
		return
	}

	if err := a.logs.Apply(next.LogConfig()); err != nil {
		a.log.Warn("logging reconfigure failed", logx.Err(err))
	}
	if destinationChanged(prev, next) {
		ad, err := buildAdapter(next)
		if err != nil {
			a.log.Warn("destination rejected; keeping previous", logx.Err(err))
		} else {
			a.dest.set(ad)
		}
	}
	a.console.SetIdentity(next.Webhook.Username, next.Webhook.AvatarURL)
	a.metrics.Reconfigure(ctx, metricsConfig(next))
	a.cfg.Store(next)

	fields := append([]logx.Field{logx.String("changed", strings.Join(changed, ","))}, attrs...)
	a.log.Info("config applied", fields...)
	if prev != nil && prev.Console != next.Console {
		a.log.Info("console settings apply on restart")
	}
}

func metricsConfig(cfg *config.Config) metrics.Config {
	return metrics.Config{
		Addr:         strings.TrimSpace(cfg.Metrics.Addr),
		Token:        cfg.Metrics.Token,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

// Stop flushes in-flight deliveries and shuts everything down, bounded by
// ctx. It is safe to call more than once.
func (a *App) Stop(ctx context.Context) error {
	a.stopOnce.Do(func() { a.stopErr = a.stop(ctx) })
	return a.stopErr
}

func (a *App) stop(ctx context.Context) error {
	var result *multierror.Error

	if err := a.console.Close(ctx); err != nil {
		result = multierror.Append(result, fmt.Errorf("console: %w", err))
	}
	a.metrics.Stop(ctx)
	if a.sup != nil {
		if err := a.sup.Stop(ctx); err != nil {
			result = multierror.Append(result, fmt.Errorf("supervisor: %w", err))
		}
	}

	// The event loop is gone; count what it did not get to.
	a.unsub()
	for ev := range a.events {
		a.count(ev)
	}

	if err := a.logs.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("logging: %w", err))
	}
	return result.ErrorOrNil()
}
