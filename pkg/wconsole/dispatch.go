package wconsole

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"wconsole/internal/runtime/supervisor"
	"wconsole/pkg/envelope"
	"wconsole/pkg/eventbus"
	logx "wconsole/pkg/logx"
	"wconsole/pkg/transport"
)

// dispatcher hands each envelope to the adapter on its own goroutine.
type dispatcher struct {
	adapter transport.Adapter
	sup     *supervisor.Supervisor
	timeout time.Duration
	log     logx.Logger
	bus     eventbus.Bus
	metrics metrics

	// limiter throttles failure lines; suppressed counts the ones it ate.
	limiter    *rate.Limiter
	suppressed atomic.Uint64
}

func newDispatcher(a transport.Adapter, o options) *dispatcher {
	log := o.log.With(logx.String("comp", "wconsole.dispatch"))
	return &dispatcher{
		adapter: a,
		sup: supervisor.New(context.Background(),
			supervisor.WithLogger(log),
			// One failed delivery must never stop the others.
			supervisor.WithCancelOnError(false),
		),
		timeout: o.sendTimeout,
		log:     log,
		bus:     o.bus,
		metrics: newMetrics(),
		limiter: rate.NewLimiter(o.failLimit, o.failBurst),
	}
}

func (d *dispatcher) send(env envelope.Envelope) {
	level := strings.ToLower(env.Title)
	d.metrics.Envelopes.WithLabelValues(level).Inc()

	err := d.sup.TryGo("deliver."+level, func(ctx context.Context) error {
		return d.deliver(ctx, env)
	})
	if err != nil {
		d.metrics.Dropped.Inc()
		d.publish(EventDeliveryDropped, Delivery{Level: level})
		d.log.Debug("console closed, envelope dropped", logx.String("level", level))
	}
}

func (d *dispatcher) deliver(ctx context.Context, env envelope.Envelope) (err error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	d.metrics.InFlight.Inc()
	defer d.metrics.InFlight.Dec()

	level := strings.ToLower(env.Title)
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("adapter panic: %v", r)
		}
		took := time.Since(start)
		d.metrics.DeliveryDuration.Observe(took.Seconds())
		if err != nil {
			d.failed(level, err, took)
			return
		}
		d.metrics.Delivered.WithLabelValues(level).Inc()
		d.publish(EventDeliverySent, Delivery{Level: level, Duration: took})
	}()

	return d.adapter.Deliver(ctx, env)
}

func (d *dispatcher) failed(level string, err error, took time.Duration) {
	d.metrics.Failed.WithLabelValues(level).Inc()
	d.publish(EventDeliveryFailed, Delivery{Level: level, Err: err.Error(), Duration: took})

	if !d.limiter.Allow() {
		d.suppressed.Add(1)
		return
	}
	fields := []logx.Field{
		logx.String("level", level),
		logx.Duration("took", took),
		logx.Bool("timeout", errors.Is(err, context.DeadlineExceeded)),
		logx.Err(err),
	}
	if n := d.suppressed.Swap(0); n > 0 {
		fields = append(fields, logx.Uint64("suppressed", n))
	}
	d.log.Warn("delivery failed", fields...)
}

func (d *dispatcher) publish(typ string, data Delivery) {
	if d.bus == nil {
		return
	}
	d.bus.Publish(eventbus.Event{Type: typ, Data: data})
}

// close stops intake and waits for in-flight deliveries. When ctx ends first,
// the remaining deliveries are cancelled and ctx.Err() is returned.
func (d *dispatcher) close(ctx context.Context) error {
	d.sup.Close()
	err := d.sup.Wait(ctx)
	d.sup.Cancel()
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return ctx.Err()
	}
	return nil
}
