package format

import (
	"errors"
	"math"
	"testing"
)

type celsius float64

type labelled struct{ name string }

func (l labelled) String() string { return "label:" + l.name }

func TestFormatSubstitution(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		args []any
		want string
	}{
		{name: "no args", args: nil, want: ""},
		{name: "lone string", args: []any{"100%%"}, want: "100%%"},
		{name: "digit specifier", args: []any{"count: %d", 5}, want: "count: 5"},
		{name: "no specifier", args: []any{"count:", 5}, want: "count: 5"},
		{name: "error code", args: []any{"error #%d", 5}, want: "error #5"},
		{name: "error plain", args: []any{"error", 5}, want: "error 5"},
		{name: "string specifier", args: []any{"Whoops %s work", "didn't"}, want: "Whoops didn't work"},
		{name: "missing argument stays literal", args: []any{"%s and %s", "a"}, want: "a and %s"},
		{name: "excess arguments appended", args: []any{"%s", "a", "b", 3}, want: "a b 3"},
		{name: "percent escape", args: []any{"%d%%", 50}, want: "50%"},
		{name: "percent escape after args run out", args: []any{"%d %%", 50}, want: "50 %"},
		{name: "unknown specifier", args: []any{"%x %d", 1}, want: "%x 1"},
		{name: "trailing percent", args: []any{"50%", 1}, want: "50% 1"},
		{name: "digit from float", args: []any{"%d", 1.5}, want: "1.5"},
		{name: "digit from bool", args: []any{"%d", true}, want: "1"},
		{name: "digit from numeric string", args: []any{"%d", " 42 "}, want: "42"},
		{name: "digit from hex string", args: []any{"%d", "0x1A"}, want: "26"},
		{name: "digit from text", args: []any{"%d", "abc"}, want: "NaN"},
		{name: "digit from nil", args: []any{"%d", nil}, want: "0"},
		{name: "digit from struct", args: []any{"%d", struct{}{}}, want: "NaN"},
		{name: "digit from named float", args: []any{"%d", celsius(21.5)}, want: "21.5"},
		{name: "integer truncates", args: []any{"%i", 42.9}, want: "42"},
		{name: "integer from prefixed string", args: []any{"%i", "42px"}, want: "42"},
		{name: "integer from negative", args: []any{"%i", "-7.9"}, want: "-7"},
		{name: "integer from text", args: []any{"%i", "px"}, want: "NaN"},
		{name: "float from string prefix", args: []any{"%f", "3.14abc"}, want: "3.14"},
		{name: "float from text", args: []any{"%f", "abc"}, want: "NaN"},
		{name: "float from int", args: []any{"%f", 7}, want: "7"},
		{name: "json", args: []any{"%j", map[string]int{"a": 1}}, want: `{"a":1}`},
		{name: "css consumed", args: []any{"%cstyled", "color: red"}, want: "styled"},
		{name: "object specifier", args: []any{"%O", []int{1, 2}}, want: "[ 1, 2 ]"},
		{name: "string from stringer", args: []any{"%s", labelled{name: "x"}}, want: "label:x"},
		{name: "string from error", args: []any{"%s", errors.New("boom")}, want: "boom"},
		{name: "string from nil", args: []any{"%s", nil}, want: "null"},
		{name: "string from number", args: []any{"%s", 2.5}, want: "2.5"},
		{name: "string from nested map", args: []any{"%s", map[string]any{"a": map[string]int{"b": 1}}}, want: "{ a: [Object] }"},
		{name: "no specifier inspects values", args: []any{"values", []string{"a"}, nil, true}, want: "values [ 'a' ] null true"},
		{name: "non string first", args: []any{5, "five"}, want: "5 five"},
		{name: "error argument", args: []any{"failed:", errors.New("boom")}, want: "failed: boom"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Format(tt.args...); got != tt.want {
				t.Fatalf("Format(%#v) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestFormatJSONCircular(t *testing.T) {
	t.Parallel()
	m := map[string]any{"name": "loop"}
	m["self"] = m
	if got := Format("%j", m); got != "[Circular]" {
		t.Fatalf("Format(%%j, cyclic) = %q, want [Circular]", got)
	}
}

func TestFormatJSONUnserializable(t *testing.T) {
	t.Parallel()
	got := Format("%j", func() {})
	if got == "" || got[0] != '[' {
		t.Fatalf("expected placeholder, got %q", got)
	}
}

type panicky struct{}

func (panicky) String() string { panic("kaboom") }

func TestFormatNeverPanics(t *testing.T) {
	t.Parallel()
	got := Format("value:", panicky{})
	if got != "value: <panic: kaboom>" {
		t.Fatalf("unexpected output %q", got)
	}
	if got := Format("%s", panicky{}); got != "<panic: kaboom>" {
		t.Fatalf("unexpected %%s output %q", got)
	}
}

func TestFormatterColors(t *testing.T) {
	t.Parallel()
	f := Formatter{Colors: true}
	if got := f.Format("n", 5); got != "n \x1b[33m5\x1b[39m" {
		t.Fatalf("colored output = %q", got)
	}
	if got := f.Format("%d", 5); got != "5" {
		t.Fatalf("substitution must stay plain, got %q", got)
	}
}

func TestFloatNumberText(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   float64
		want string
	}{
		{1, "1"},
		{0.1, "0.1"},
		{-2.5, "-2.5"},
		{1e21, "1e+21"},
		{1.5e-7, "1.5e-7"},
		{0.000001, "0.000001"},
		{math.Copysign(0, -1), "-0"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
		{123456789, "123456789"},
	}
	for _, tt := range tests {
		if got := floatNumberText(tt.in, 64); got != tt.want {
			t.Errorf("floatNumberText(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
