package transport

import (
	"context"
	"errors"
	"testing"

	"wconsole/pkg/envelope"
)

func TestMultiTriesEveryAdapter(t *testing.T) {
	t.Parallel()
	var calls []string
	errA := errors.New("a down")
	a := AdapterFunc(func(context.Context, envelope.Envelope) error {
		calls = append(calls, "a")
		return errA
	})
	b := AdapterFunc(func(context.Context, envelope.Envelope) error {
		calls = append(calls, "b")
		return nil
	})

	err := Multi(a, nil, b).Deliver(context.Background(), envelope.Build(envelope.Log, "x"))
	if !errors.Is(err, errA) {
		t.Fatalf("expected wrapped adapter error, got %v", err)
	}
	if len(calls) != 2 || calls[0] != "a" || calls[1] != "b" {
		t.Fatalf("unexpected call order %v", calls)
	}
}

func TestMultiAllOK(t *testing.T) {
	t.Parallel()
	ok := AdapterFunc(func(context.Context, envelope.Envelope) error { return nil })
	if err := Multi(ok, ok).Deliver(context.Background(), envelope.Envelope{}); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}
