package format

import (
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
)

const (
	indexKey  = "(index)"
	valuesKey = "Values"
)

// Table renders data with the zero Formatter.
func Table(data any, columns ...string) (string, bool) { return std.Table(data, columns...) }

// Table renders slices, arrays, maps and structs as a box-drawn grid with an
// "(index)" column first. Rows that are primitives land in a "Values" column.
// When columns is non-empty only those keys are shown.
//
// ok is false when data is not tabular; callers should print Inspect(data)
// instead.
func (f Formatter) Table(data any, columns ...string) (out string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			out, ok = "", false
		}
	}()
	rows, ok := tableRows(reflect.ValueOf(data))
	if !ok {
		return "", false
	}

	var (
		keys          []string
		cells         = map[string][]string{}
		values        = make([]string, len(rows))
		hasPrimitives bool
	)
	addKey := func(k string) {
		if _, seen := cells[k]; !seen {
			keys = append(keys, k)
			cells[k] = make([]string, len(rows))
		}
	}

	for i, r := range rows {
		item := deref(r.item)
		ks, lookup, primitive := itemEntries(item)
		if len(columns) == 0 && primitive {
			hasPrimitives = true
			values[i] = f.cell(item)
			continue
		}
		if len(columns) > 0 {
			ks = columns
		}
		for _, k := range ks {
			addKey(k)
			if primitive {
				continue
			}
			if v, found := lookup(k); found {
				cells[k][i] = f.cell(v)
			}
		}
	}

	head := make([]string, 0, len(keys)+2)
	body := make([][]string, 0, len(keys)+2)
	index := make([]string, len(rows))
	for i, r := range rows {
		index[i] = r.index
	}
	head = append(head, indexKey)
	body = append(body, index)
	for _, k := range keys {
		head = append(head, k)
		body = append(body, cells[k])
	}
	if hasPrimitives {
		head = append(head, valuesKey)
		body = append(body, values)
	}
	return renderTable(head, body, len(rows)), true
}

func (f Formatter) cell(v reflect.Value) string {
	opts := InspectOptions{
		Depth:          0,
		Colors:         f.Colors,
		MaxArrayLength: 3,
		BreakLength:    math.MaxInt32,
	}
	if !v.IsValid() {
		return InspectWith(nil, opts)
	}
	if d := deref(v); d.IsValid() && (d.Kind() == reflect.Struct || d.Kind() == reflect.Map) &&
		!isSelfPrinting(d) && entryCount(d) > 2 {
		opts.Depth = -1
	}
	if !v.CanInterface() {
		return ""
	}
	return InspectWith(v.Interface(), opts)
}

type tableRow struct {
	index string
	item  reflect.Value
}

func tableRows(v reflect.Value) ([]tableRow, bool) {
	v = deref(v)
	if !v.IsValid() || isSelfPrinting(v) {
		return nil, false
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		rows := make([]tableRow, v.Len())
		for i := range rows {
			rows[i] = tableRow{index: strconv.Itoa(i), item: v.Index(i)}
		}
		return rows, true
	case reflect.Map:
		rows := make([]tableRow, 0, v.Len())
		for _, k := range v.MapKeys() {
			rows = append(rows, tableRow{index: keyText(k), item: v.MapIndex(k)})
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].index < rows[j].index })
		return rows, true
	case reflect.Struct:
		in := &inspector{opts: DefaultInspectOptions()}
		fields := in.structFields(v)
		rows := make([]tableRow, 0, len(fields))
		for _, fl := range fields {
			rows = append(rows, tableRow{index: fl.name, item: fl.value})
		}
		return rows, true
	default:
		return nil, false
	}
}

// itemEntries lists the keys of one row and a lookup for their values.
func itemEntries(v reflect.Value) ([]string, func(string) (reflect.Value, bool), bool) {
	none := func(string) (reflect.Value, bool) { return reflect.Value{}, false }
	if !v.IsValid() || isSelfPrinting(v) {
		return nil, none, true
	}
	switch v.Kind() {
	case reflect.Struct:
		in := &inspector{opts: DefaultInspectOptions()}
		fields := in.structFields(v)
		keys := make([]string, len(fields))
		byName := make(map[string]reflect.Value, len(fields))
		for i, fl := range fields {
			keys[i] = fl.name
			byName[fl.name] = fl.value
		}
		return keys, func(k string) (reflect.Value, bool) {
			fv, ok := byName[k]
			return fv, ok
		}, false
	case reflect.Map:
		byName := make(map[string]reflect.Value, v.Len())
		keys := make([]string, 0, v.Len())
		for _, k := range v.MapKeys() {
			name := keyText(k)
			keys = append(keys, name)
			byName[name] = v.MapIndex(k)
		}
		sort.Strings(keys)
		return keys, func(k string) (reflect.Value, bool) {
			mv, ok := byName[k]
			return mv, ok
		}, false
	case reflect.Slice, reflect.Array:
		keys := make([]string, v.Len())
		for i := range keys {
			keys[i] = strconv.Itoa(i)
		}
		return keys, func(k string) (reflect.Value, bool) {
			i, err := strconv.Atoi(k)
			if err != nil || i < 0 || i >= v.Len() {
				return reflect.Value{}, false
			}
			return v.Index(i), true
		}, false
	default:
		return nil, none, true
	}
}

func renderTable(head []string, columns [][]string, rows int) string {
	widths := make([]int, len(head))
	for i, h := range head {
		widths[i] = ansi.StringWidth(h)
		for _, c := range columns[i] {
			widths[i] = max(widths[i], ansi.StringWidth(c))
		}
	}

	divider := make([]string, len(widths))
	for i, w := range widths {
		divider[i] = strings.Repeat("─", w+2)
	}

	var b strings.Builder
	b.WriteString("┌" + strings.Join(divider, "┬") + "┐\n")
	b.WriteString(renderRow(head, widths) + "\n")
	b.WriteString("├" + strings.Join(divider, "┼") + "┤\n")
	row := make([]string, len(columns))
	for r := 0; r < rows; r++ {
		for i, col := range columns {
			row[i] = col[r]
		}
		b.WriteString(renderRow(row, widths) + "\n")
	}
	b.WriteString("└" + strings.Join(divider, "┴") + "┘")
	return b.String()
}

func renderRow(row []string, widths []int) string {
	var b strings.Builder
	b.WriteString("│ ")
	for i, cell := range row {
		needed := widths[i] - ansi.StringWidth(cell)
		b.WriteString(strings.Repeat(" ", needed/2))
		b.WriteString(cell)
		b.WriteString(strings.Repeat(" ", needed-needed/2))
		if i != len(row)-1 {
			b.WriteString(" │ ")
		}
	}
	b.WriteString(" │")
	return b.String()
}

func deref(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// isSelfPrinting reports values rendered through their own methods.
func isSelfPrinting(v reflect.Value) bool {
	if !v.CanInterface() {
		return false
	}
	switch v.Interface().(type) {
	case time.Time, error, interface{ String() string }:
		return true
	}
	return false
}

func entryCount(v reflect.Value) int {
	if v.Kind() == reflect.Map {
		return v.Len()
	}
	in := &inspector{opts: DefaultInspectOptions()}
	return len(in.structFields(v))
}

func keyText(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return Inspect(k.Interface())
}
