package wconsole_test

import (
	"context"
	"testing"
	"time"

	"wconsole/pkg/envelope"
	"wconsole/pkg/eventbus"
	logx "wconsole/pkg/logx"
	"wconsole/pkg/transport"
	"wconsole/pkg/wconsole"
)

func TestWithEventBusPublishesOutcomes(t *testing.T) {
	t.Parallel()
	bus := eventbus.New()
	sent, unsub := bus.Subscribe(4, wconsole.EventDeliverySent)
	defer unsub()

	ok := transport.AdapterFunc(func(context.Context, envelope.Envelope) error { return nil })
	c, err := wconsole.NewWithAdapter(ok, wconsole.WithEventBus(bus), wconsole.WithLogger(logx.Nop()))
	if err != nil {
		t.Fatalf("NewWithAdapter: %v", err)
	}
	c.Info("ready")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	select {
	case ev := <-sent:
		d, isDelivery := ev.Data.(wconsole.Delivery)
		if !isDelivery || d.Level != "info" || d.Err != "" {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no delivery.sent event")
	}
}
