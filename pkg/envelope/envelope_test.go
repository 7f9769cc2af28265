package envelope

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

func TestLevelColorTotal(t *testing.T) {
	t.Parallel()
	for _, l := range append(Levels(), Unknown, Level(42), Level(-1)) {
		if l.Color() == 0 {
			t.Fatalf("level %v has no color", l)
		}
	}
	if got := Level(42).Color(); got != ColorNeutral {
		t.Fatalf("unknown level color = %#x, want neutral", got)
	}
}

func TestLevelLabels(t *testing.T) {
	t.Parallel()
	want := []string{"ASSERT", "COUNT", "DEBUG", "INFO", "LOG", "TIME", "TRACE", "WARN", "ERROR"}
	var have []string
	for _, l := range Levels() {
		have = append(have, l.String())
	}
	if diff := cmp.Diff(want, have); diff != "" {
		t.Errorf("labels mismatch (-want +have):\n%s", diff)
	}
	if Unknown.String() != "UNKNOWN" {
		t.Fatalf("Unknown.String() = %q", Unknown.String())
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	for _, l := range Levels() {
		got, ok := ParseLevel(strings.ToLower(l.String()))
		if !ok || got != l {
			t.Fatalf("ParseLevel(%q) = %v, %v", l.String(), got, ok)
		}
	}
	if _, ok := ParseLevel("verbose"); ok {
		t.Fatal("ParseLevel accepted an unknown label")
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()
	want := Envelope{Level: Warn, Title: "WARN", Body: "careful", Color: ColorOrange}
	if diff := cmp.Diff(want, Build(Warn, "careful")); diff != "" {
		t.Errorf("Build mismatch (-want +have):\n%s", diff)
	}
}

func TestBuildDependsOnlyOnLevel(t *testing.T) {
	t.Parallel()
	a, b := Build(Error, "one"), Build(Error, "two")
	if a.Title != b.Title || a.Color != b.Color {
		t.Fatalf("title/color varied with content: %+v vs %+v", a, b)
	}
}

func TestRender(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		level Level
		body  string
		want  string
	}{
		{name: "log", level: Log, body: "hello", want: "```ansi\nhello\n\x1b[0;0m```"},
		{name: "error", level: Error, body: "bad", want: "```ansi\n\x1b[0;31mbad\n\x1b[0;0m```"},
		{name: "assert", level: Assert, body: "Assertion failed", want: "```ansi\n\x1b[0;31mAssertion failed\n\x1b[0;0m```"},
		{name: "warn", level: Warn, body: "hm", want: "```ansi\n\x1b[0;33mhm\n\x1b[0;0m```"},
		{name: "empty", level: Info, body: "", want: "```ansi\n\n\x1b[0;0m```"},
		{name: "fence in body", level: Log, body: "a```b", want: "```ansi\na`\u200b``b\n\x1b[0;0m```"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, color := Render(Build(tt.level, tt.body))
			if got != tt.want {
				t.Fatalf("Render = %q, want %q", got, tt.want)
			}
			if color != tt.level.Color() {
				t.Fatalf("color = %#x, want %#x", color, tt.level.Color())
			}
		})
	}
}

func TestRenderTruncatesKeepingReset(t *testing.T) {
	t.Parallel()
	got, _ := Render(Build(Error, strings.Repeat("x", 10_000)))
	if n := utf8.RuneCountInString(got); n > MaxDescription {
		t.Fatalf("description has %d runes, limit %d", n, MaxDescription)
	}
	if !strings.HasSuffix(got, "…\n\x1b[0;0m```") {
		t.Fatalf("truncated description lost its tail: %q", got[len(got)-20:])
	}
}

func TestWithIdentity(t *testing.T) {
	t.Parallel()
	env := Build(Log, "x").WithIdentity("bot", "https://example.com/a.png")
	if env.Username != "bot" || env.AvatarURL != "https://example.com/a.png" {
		t.Fatalf("identity not applied: %+v", env)
	}
}
