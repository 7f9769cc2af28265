package envelope

import "strings"

// Level is the category of a console call.
type Level int

const (
	Unknown Level = iota
	Assert
	Count
	Debug
	Info
	Log
	Time
	Trace
	Warn
	Error
)

// Palette colors (24-bit RGB).
const (
	ColorRed     = 0xE74C3C
	ColorOrange  = 0xE67E22
	ColorBlurple = 0x7289DA
	ColorBlue    = 0x3498DB
	ColorGrey    = 0x95A5A6
	ColorNeutral = 0x99AAB5
)

// ANSI foreground escapes for levels with a polarity.
const (
	ansiRed    = "\x1b[0;31m"
	ansiYellow = "\x1b[0;33m"
	ansiReset  = "\x1b[0;0m"
)

var labels = map[Level]string{
	Assert: "ASSERT",
	Count:  "COUNT",
	Debug:  "DEBUG",
	Info:   "INFO",
	Log:    "LOG",
	Time:   "TIME",
	Trace:  "TRACE",
	Warn:   "WARN",
	Error:  "ERROR",
}

// Levels lists every defined level in declaration order.
func Levels() []Level {
	return []Level{Assert, Count, Debug, Info, Log, Time, Trace, Warn, Error}
}

// String returns the uppercase display label.
func (l Level) String() string {
	if s, ok := labels[l]; ok {
		return s
	}
	return "UNKNOWN"
}

// Color returns the level's palette color. Every level, including values
// outside the defined set, resolves to a color.
func (l Level) Color() int {
	switch l {
	case Assert, Error:
		return ColorRed
	case Warn:
		return ColorOrange
	case Count, Time:
		return ColorBlurple
	case Info:
		return ColorBlue
	case Debug:
		return ColorGrey
	default:
		return ColorNeutral
	}
}

// Polarity returns the ANSI foreground escape for error, assert and warn, and
// "" for every other level.
func (l Level) Polarity() string {
	switch l {
	case Assert, Error:
		return ansiRed
	case Warn:
		return ansiYellow
	default:
		return ""
	}
}

// ParseLevel maps a label (case-insensitive) back to its Level.
func ParseLevel(s string) (Level, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for l, label := range labels {
		if label == s {
			return l, true
		}
	}
	return Unknown, false
}
