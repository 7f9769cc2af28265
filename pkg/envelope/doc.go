// Package envelope classifies console output by level and builds the message
// envelope handed to a transport.
//
// Title and color are a pure function of the Level. Render turns an Envelope
// into the fenced ANSI description used by chat webhooks.
package envelope
