package format

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Formatter formats console arguments. The zero value is ready to use.
type Formatter struct {
	// Colors enables ANSI styling of inspected values. Substituted %s, %d,
	// %i and %f values are never styled.
	Colors bool
}

var std Formatter

// Format formats args with the zero Formatter.
func Format(args ...any) string { return std.Format(args...) }

// Format renders args into one line of text. It never panics.
func (f Formatter) Format(args ...any) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = fmt.Sprintf("<panic: %v>", r)
		}
	}()
	if len(args) == 0 {
		return ""
	}

	var (
		b    strings.Builder
		a    int
		join string
	)
	if first, ok := args[0].(string); ok {
		if len(args) == 1 {
			return first
		}
		lastPos := 0
		for i := 0; i < len(first)-1; i++ {
			if first[i] != '%' {
				continue
			}
			i++
			next := first[i]
			if a+1 == len(args) {
				if next == '%' {
					b.WriteString(first[lastPos:i])
					lastPos = i + 1
				}
				continue
			}

			var sub string
			switch next {
			case 's':
				a++
				sub = f.str(args[a])
			case 'd':
				a++
				sub = numberText(args[a])
			case 'i':
				a++
				sub = integerText(args[a])
			case 'f':
				a++
				sub = floatText(args[a])
			case 'j':
				a++
				sub = jsonText(args[a])
			case 'o':
				a++
				opts := f.inspectOptions()
				opts.ShowHidden = true
				opts.Depth = 4
				sub = InspectWith(args[a], opts)
			case 'O':
				a++
				sub = InspectWith(args[a], f.inspectOptions())
			case 'c':
				a++
				sub = ""
			case '%':
				b.WriteString(first[lastPos:i])
				lastPos = i + 1
				continue
			default:
				continue
			}
			if lastPos != i-1 {
				b.WriteString(first[lastPos : i-1])
			}
			b.WriteString(sub)
			lastPos = i + 1
		}
		if lastPos != 0 {
			a++
			join = " "
			if lastPos < len(first) {
				b.WriteString(first[lastPos:])
			}
		}
	}

	for ; a < len(args); a++ {
		b.WriteString(join)
		b.WriteString(f.value(args[a]))
		join = " "
	}
	return b.String()
}

// value renders a trailing argument: strings raw, everything else inspected.
func (f Formatter) value(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return InspectWith(v, f.inspectOptions())
}

// str implements %s.
func (f Formatter) str(v any) string {
	if v == nil {
		return "null"
	}
	if s, ok := v.(string); ok {
		return s
	}
	if s, ok := methodText(v); ok {
		return s
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return numberText(v)
	case reflect.String:
		return reflect.ValueOf(v).String()
	}
	opts := DefaultInspectOptions()
	opts.Depth = 0
	return InspectWith(v, opts)
}

func (f Formatter) inspectOptions() InspectOptions {
	opts := DefaultInspectOptions()
	opts.Colors = f.Colors
	return opts
}

// jsonText implements %j.
func jsonText(v any) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = fmt.Sprintf("<panic: %v>", r)
		}
	}()
	b, err := json.Marshal(v)
	if err != nil {
		if strings.Contains(err.Error(), "encountered a cycle") {
			return "[Circular]"
		}
		return "[Unserializable: " + err.Error() + "]"
	}
	return string(b)
}
