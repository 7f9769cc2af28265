// Package logx is wconsole's local diagnostic log.
//
// It is a small wrapper (logx.Logger) on top of zerolog that keeps:
//   - Console output readable (short timestamp + short caller) on stderr
//   - File output JSON-structured
//   - Level and sinks swappable at runtime (Service.Apply)
//
// Delivery failures of the console itself land here; nothing in this package
// ever talks to a webhook.
package logx
