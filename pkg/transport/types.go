// Package transport defines the delivery boundary between the console and a
// remote chat service.
package transport

import (
	"context"

	"github.com/hashicorp/go-multierror"

	"wconsole/pkg/envelope"
)

// Adapter delivers one envelope. Implementations must honour ctx and must be
// safe for concurrent use.
type Adapter interface {
	Deliver(ctx context.Context, env envelope.Envelope) error
}

// AdapterFunc lets an ordinary function act as an Adapter.
type AdapterFunc func(ctx context.Context, env envelope.Envelope) error

func (f AdapterFunc) Deliver(ctx context.Context, env envelope.Envelope) error { return f(ctx, env) }

// Multi delivers to every adapter in turn. Every adapter is tried even when
// an earlier one fails; the failures are returned together.
func Multi(adapters ...Adapter) Adapter {
	list := make([]Adapter, 0, len(adapters))
	for _, a := range adapters {
		if a != nil {
			list = append(list, a)
		}
	}
	if len(list) == 1 {
		return list[0]
	}
	return multi(list)
}

type multi []Adapter

func (m multi) Deliver(ctx context.Context, env envelope.Envelope) error {
	var result *multierror.Error
	for _, a := range m {
		if err := a.Deliver(ctx, env); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
