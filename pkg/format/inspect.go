package format

import (
	"fmt"
	"reflect"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
)

const (
	defaultDepth          = 2
	defaultMaxArrayLength = 100
	defaultBreakLength    = 80

	// compactLevels is how many nested levels may still share one line.
	compactLevels = 3
)

// InspectOptions tunes Inspect.
type InspectOptions struct {
	// Depth is the number of nested container levels expanded below the top
	// value. Deeper containers print as [Object], [Array] or [TypeName].
	// A negative depth collapses the top value itself.
	Depth int
	// ShowHidden includes unexported struct fields.
	ShowHidden bool
	// Colors wraps primitives in ANSI styles.
	Colors bool
	// MaxArrayLength caps the number of listed slice elements (default 100).
	MaxArrayLength int
	// BreakLength is the line width above which entries are split over
	// multiple lines (default 80).
	BreakLength int
}

// DefaultInspectOptions returns the options Inspect uses.
func DefaultInspectOptions() InspectOptions {
	return InspectOptions{
		Depth:          defaultDepth,
		MaxArrayLength: defaultMaxArrayLength,
		BreakLength:    defaultBreakLength,
	}
}

// Inspect renders v as literal-like text using DefaultInspectOptions.
func Inspect(v any) string { return InspectWith(v, DefaultInspectOptions()) }

// InspectWith renders v as literal-like text. It never panics.
func InspectWith(v any, opts InspectOptions) (out string) {
	if opts.MaxArrayLength <= 0 {
		opts.MaxArrayLength = defaultMaxArrayLength
	}
	if opts.BreakLength <= 0 {
		opts.BreakLength = defaultBreakLength
	}
	defer func() {
		if r := recover(); r != nil {
			out = fmt.Sprintf("<panic: %v>", r)
		}
	}()
	in := &inspector{opts: opts}
	return in.format(reflect.ValueOf(v), 0, true)
}

type style int

const (
	styleNone style = iota
	styleNumber
	styleBoolean
	styleString
	styleNull
	styleSpecial
	styleDate
)

var styles = map[style][2]string{
	styleNumber:  {"\x1b[33m", "\x1b[39m"},
	styleBoolean: {"\x1b[33m", "\x1b[39m"},
	styleString:  {"\x1b[32m", "\x1b[39m"},
	styleNull:    {"\x1b[1m", "\x1b[22m"},
	styleSpecial: {"\x1b[36m", "\x1b[39m"},
	styleDate:    {"\x1b[35m", "\x1b[39m"},
}

// visit identifies a reference on the current path. n separates slices that
// share a backing array but differ in length.
type visit struct {
	ptr uintptr
	typ reflect.Type
	n   int
}

type inspector struct {
	opts InspectOptions
	path []visit
	// indent mirrors the indentation of the value being formatted.
	indent int
	// current is the level of the most recently expanded container.
	current int
}

func (in *inspector) stylize(s string, st style) string {
	if !in.opts.Colors || st == styleNone {
		return s
	}
	c := styles[st]
	return c[0] + s + c[1]
}

func (in *inspector) null() string { return in.stylize("null", styleNull) }

func (in *inspector) format(v reflect.Value, recurse int, top bool) string {
	if !v.IsValid() {
		return in.null()
	}
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return in.null()
		}
		return in.format(v.Elem(), recurse, top)
	}

	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			return "[]"
		}
	case reflect.Map:
		if v.IsNil() {
			return "{}"
		}
	case reflect.Ptr, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		if v.IsNil() {
			return in.null()
		}
	}

	if v.CanInterface() {
		if s, ok := in.special(v.Interface(), top); ok {
			return s
		}
	}

	switch v.Kind() {
	case reflect.Bool:
		return in.stylize(strconv.FormatBool(v.Bool()), styleBoolean)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return in.stylize(strconv.FormatInt(v.Int(), 10), styleNumber)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return in.stylize(strconv.FormatUint(v.Uint(), 10), styleNumber)
	case reflect.Float32:
		return in.stylize(floatNumberText(v.Float(), 32), styleNumber)
	case reflect.Float64:
		return in.stylize(floatNumberText(v.Float(), 64), styleNumber)
	case reflect.Complex64:
		return in.stylize(strconv.FormatComplex(v.Complex(), 'g', -1, 64), styleNumber)
	case reflect.Complex128:
		return in.stylize(strconv.FormatComplex(v.Complex(), 'g', -1, 128), styleNumber)
	case reflect.String:
		return in.stylize(quote(v.String()), styleString)
	case reflect.Func:
		return in.stylize("[Function: "+funcName(v)+"]", styleSpecial)
	case reflect.Chan:
		return in.stylize("["+v.Type().String()+"]", styleSpecial)
	case reflect.UnsafePointer:
		return in.stylize(fmt.Sprintf("[Pointer: %#x]", v.Pointer()), styleSpecial)
	case reflect.Ptr:
		id := visit{ptr: v.Pointer(), typ: v.Type(), n: -1}
		if in.onPath(id) {
			return in.stylize("[Circular]", styleSpecial)
		}
		in.push(id)
		defer in.pop()
		return in.format(v.Elem(), recurse, top)
	case reflect.Map:
		id := visit{ptr: v.Pointer(), typ: v.Type(), n: -1}
		if in.onPath(id) {
			return in.stylize("[Circular]", styleSpecial)
		}
		in.push(id)
		defer in.pop()
		return in.formatMap(v, recurse)
	case reflect.Slice:
		if v.Len() > 0 {
			id := visit{ptr: v.Pointer(), typ: v.Type(), n: v.Len()}
			if in.onPath(id) {
				return in.stylize("[Circular]", styleSpecial)
			}
			in.push(id)
			defer in.pop()
		}
		return in.formatList(v, recurse)
	case reflect.Array:
		return in.formatList(v, recurse)
	case reflect.Struct:
		return in.formatStruct(v, recurse)
	default:
		return in.stylize("["+v.Type().String()+"]", styleSpecial)
	}
}

// special handles values that know how to print themselves.
func (in *inspector) special(x any, top bool) (string, bool) {
	switch t := x.(type) {
	case time.Time:
		return in.stylize(t.Format(time.RFC3339Nano), styleDate), true
	case error:
		msg := safeCall(t.Error)
		if top {
			return msg, true
		}
		return "[Error: " + msg + "]", true
	case fmt.Stringer:
		return safeCall(t.String), true
	}
	return "", false
}

func (in *inspector) formatStruct(v reflect.Value, recurse int) string {
	name := v.Type().Name()
	open := "{"
	if name != "" {
		open = name + " {"
	}
	fields := in.structFields(v)
	if len(fields) == 0 {
		return open + "}"
	}
	if recurse > in.opts.Depth {
		if name == "" {
			return in.stylize("[Object]", styleSpecial)
		}
		return in.stylize("["+name+"]", styleSpecial)
	}

	recurse++
	in.current = recurse
	output := make([]string, 0, len(fields))
	in.indent += 2
	for _, f := range fields {
		output = append(output, in.key(f.name)+": "+in.format(f.value, recurse, false))
	}
	in.indent -= 2
	return in.reduce(output, open, "}", recurse)
}

type field struct {
	name  string
	value reflect.Value
}

func (in *inspector) structFields(v reflect.Value) []field {
	t := v.Type()
	out := make([]field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() && !in.opts.ShowHidden {
			continue
		}
		name, skip := fieldName(f)
		if skip {
			continue
		}
		out = append(out, field{name: name, value: v.Field(i)})
	}
	return out
}

// fieldName honours json tags the same way encoding/json names fields.
func fieldName(f reflect.StructField) (string, bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", true
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name, false
	}
	return f.Name, false
}

func (in *inspector) formatMap(v reflect.Value, recurse int) string {
	stringKeys := v.Type().Key().Kind() == reflect.String
	open := "{"
	if !stringKeys {
		open = fmt.Sprintf("Map(%d) {", v.Len())
	}
	if v.Len() == 0 {
		return open + "}"
	}
	if recurse > in.opts.Depth {
		if stringKeys {
			return in.stylize("[Object]", styleSpecial)
		}
		return in.stylize("[Map]", styleSpecial)
	}

	recurse++
	in.current = recurse
	keys := v.MapKeys()
	output := make([]string, 0, len(keys))
	in.indent += 2
	if stringKeys {
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		for _, k := range keys {
			output = append(output, in.key(k.String())+": "+in.format(v.MapIndex(k), recurse, false))
		}
	} else {
		type entry struct {
			key string
			val reflect.Value
		}
		entries := make([]entry, 0, len(keys))
		for _, k := range keys {
			entries = append(entries, entry{key: in.format(k, recurse, false), val: v.MapIndex(k)})
		}
		sort.Slice(entries, func(i, j int) bool { return ansi.Strip(entries[i].key) < ansi.Strip(entries[j].key) })
		for _, e := range entries {
			output = append(output, e.key+" => "+in.format(e.val, recurse, false))
		}
	}
	in.indent -= 2
	return in.reduce(output, open, "}", recurse)
}

func (in *inspector) formatList(v reflect.Value, recurse int) string {
	n := v.Len()
	if n == 0 {
		return "[]"
	}
	if recurse > in.opts.Depth {
		return in.stylize("[Array]", styleSpecial)
	}

	recurse++
	in.current = recurse
	limit := min(n, in.opts.MaxArrayLength)
	output := make([]string, 0, limit+1)
	in.indent += 2
	for i := 0; i < limit; i++ {
		output = append(output, in.format(v.Index(i), recurse, false))
	}
	in.indent -= 2
	if rest := n - limit; rest > 0 {
		s := "s"
		if rest == 1 {
			s = ""
		}
		output = append(output, fmt.Sprintf("... %d more item%s", rest, s))
	}
	return in.reduce(output, "[", "]", recurse)
}

// reduce joins entries on one line when they fit, otherwise one per line.
func (in *inspector) reduce(output []string, open, close string, recurse int) string {
	if in.current-recurse < compactLevels {
		start := len(output) + in.indent + utf8.RuneCountInString(open) + 10
		if in.belowBreakLength(output, start) {
			joined := strings.Join(output, ", ")
			if !strings.Contains(joined, "\n") {
				return open + " " + joined + " " + close
			}
		}
	}
	ind := "\n" + strings.Repeat(" ", in.indent)
	return open + ind + "  " + strings.Join(output, ","+ind+"  ") + ind + close
}

func (in *inspector) belowBreakLength(output []string, start int) bool {
	total := len(output) + start
	if total+len(output) > in.opts.BreakLength {
		return false
	}
	for _, s := range output {
		if in.opts.Colors {
			s = ansi.Strip(s)
		}
		total += utf8.RuneCountInString(s)
		if total > in.opts.BreakLength {
			return false
		}
	}
	return true
}

var identifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z_0-9]*$`)

func (in *inspector) key(k string) string {
	if identifier.MatchString(k) {
		return k
	}
	return in.stylize(quote(k), styleString)
}

func (in *inspector) onPath(id visit) bool {
	for _, p := range in.path {
		if p == id {
			return true
		}
	}
	return false
}

func (in *inspector) push(id visit) { in.path = append(in.path, id) }
func (in *inspector) pop()          { in.path = in.path[:len(in.path)-1] }

// quote wraps s in single quotes, switching to double quotes or backticks
// when that avoids escaping.
func quote(s string) string {
	q := byte('\'')
	if strings.IndexByte(s, '\'') >= 0 {
		if strings.IndexByte(s, '"') < 0 {
			q = '"'
		} else if strings.IndexByte(s, '`') < 0 && !strings.Contains(s, "${") {
			q = '`'
		}
	}

	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(q)
	for _, r := range s {
		switch {
		case r == rune(q) || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\b':
			b.WriteString(`\b`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\f':
			b.WriteString(`\f`)
		case r == '\r':
			b.WriteString(`\r`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02X`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(q)
	return b.String()
}

func funcName(v reflect.Value) string {
	fn := runtime.FuncForPC(v.Pointer())
	if fn == nil {
		return "(anonymous)"
	}
	name := fn.Name()
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// safeCall runs a String/Error method, turning a panic into a placeholder.
func safeCall(fn func() string) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("<panic: %v>", r)
		}
	}()
	return fn()
}

// methodText returns the text of an error or fmt.Stringer.
func methodText(v any) (string, bool) {
	switch t := v.(type) {
	case error:
		return safeCall(t.Error), true
	case fmt.Stringer:
		return safeCall(t.String), true
	}
	return "", false
}
