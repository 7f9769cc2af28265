package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"wconsole/pkg/envelope"
)

func TestNewValidates(t *testing.T) {
	t.Parallel()
	if _, err := New(Config{ChatID: 1}); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
	if _, err := New(Config{Token: "t"}); !errors.Is(err, ErrMissingChat) {
		t.Fatalf("expected ErrMissingChat, got %v", err)
	}
}

func TestMessages(t *testing.T) {
	t.Parallel()
	env := envelope.Build(envelope.Error, "\x1b[31m<b>&</b>\x1b[39m")
	got := Messages(env)
	want := "<b>ERROR</b>\n<pre>&lt;b&gt;&amp;&lt;/b&gt;</pre>"
	if len(got) != 1 || got[0] != want {
		t.Fatalf("Messages = %q, want [%q]", got, want)
	}
}

func TestMessagesEmptyBody(t *testing.T) {
	t.Parallel()
	got := Messages(envelope.Build(envelope.Log, "  "))
	if len(got) != 1 || got[0] != "<b>LOG</b>" {
		t.Fatalf("Messages = %q", got)
	}
}

func TestMessagesSplitsLongBody(t *testing.T) {
	t.Parallel()
	line := strings.Repeat("x", 99)
	body := strings.TrimSuffix(strings.Repeat(line+"\n", 70), "\n")
	got := Messages(envelope.Build(envelope.Log, body))
	if len(got) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(got))
	}
	for i, m := range got {
		if strings.Count(m, "<pre>") != 1 || strings.Count(m, "</pre>") != 1 {
			t.Fatalf("message %d has unbalanced pre block", i)
		}
	}
	if !strings.HasPrefix(got[0], "<b>LOG</b>\n") || strings.HasPrefix(got[1], "<b>") {
		t.Fatal("title must lead the first message only")
	}
}

func TestDeliverCallsBotAPI(t *testing.T) {
	t.Parallel()
	var (
		mu    sync.Mutex
		calls []map[string]any
		paths []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var params map[string]any
		_ = json.NewDecoder(r.Body).Decode(&params)
		mu.Lock()
		calls = append(calls, params)
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"}}}`))
	}))
	defer srv.Close()

	a, err := New(Config{Token: "123:abc", ChatID: 42, ThreadID: 9, APIURL: srv.URL, Client: srv.Client()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Deliver(context.Background(), envelope.Build(envelope.Info, "hello")); err != nil {
		t.Fatalf("Deliver: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if paths[0] != "/bot123:abc/sendMessage" {
		t.Fatalf("unexpected path %q", paths[0])
	}
	p := calls[0]
	if fmt.Sprint(p["chat_id"]) != "42" || p["parse_mode"] != "HTML" || fmt.Sprint(p["message_thread_id"]) != "9" {
		t.Fatalf("unexpected params %v", p)
	}
	if p["text"] != "<b>INFO</b>\n<pre>hello</pre>" {
		t.Fatalf("unexpected text %q", p["text"])
	}
}

func TestDeliverReportsAPIError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	a, err := New(Config{Token: "123:abc", ChatID: 42, APIURL: srv.URL, Client: srv.Client()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Deliver(context.Background(), envelope.Build(envelope.Log, "x")); err == nil {
		t.Fatal("expected an error from the Bot API")
	}
}

func TestDeliverCancelled(t *testing.T) {
	t.Parallel()
	a, err := New(Config{Token: "123:abc", ChatID: 42, APIURL: "http://127.0.0.1:1"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.Deliver(ctx, envelope.Build(envelope.Log, "x")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestHTMLHelpers(t *testing.T) {
	t.Parallel()
	got := JoinH("\n", B("a<b"), "", I("x&y"), Pre("1 < 2"))
	want := H("<b>a&lt;b</b>\n<i>x&amp;y</i>\n<pre>1 &lt; 2</pre>")
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
