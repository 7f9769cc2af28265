// Package wconsole is a console whose output goes to a chat webhook.
//
// Every leveled call (Log, Info, Warn, Error, ...) is formatted with
// package format, classified into an envelope and delivered on its own
// supervised goroutine. Delivery is fire-and-forget: callers never block on
// the network and never see a transport error. Failures are reported on the
// local diagnostic logger, in Prometheus counters and on an optional event
// bus.
//
//	c, err := wconsole.New("https://discord.com/api/webhooks/...")
//	if err != nil {
//		return err
//	}
//	defer c.Close(context.Background())
//
//	c.Log("count: %d", 5)
//	c.Assert(len(items) > 0, "no items for %s", user)
//	c.Time("import")
//	...
//	c.TimeEnd("import")
package wconsole
