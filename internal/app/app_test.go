package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"wconsole/internal/config"
	"wconsole/pkg/transport/webhook"
)

type hook struct {
	mu       sync.Mutex
	payloads []webhook.Payload
	status   int
}

func newHook(t *testing.T, status int) (*hook, *httptest.Server) {
	t.Helper()
	h := &hook{status: status}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p webhook.Payload
		_ = json.NewDecoder(r.Body).Decode(&p)
		h.mu.Lock()
		h.payloads = append(h.payloads, p)
		h.mu.Unlock()
		w.WriteHeader(h.status)
	}))
	t.Cleanup(srv.Close)
	return h, srv
}

func (h *hook) received() []webhook.Payload {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]webhook.Payload(nil), h.payloads...)
}

func stop(t *testing.T, a *App) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestNewRequiresDestination(t *testing.T) {
	t.Parallel()
	if _, err := New(Options{}); !errors.Is(err, config.ErrNoDestination) {
		t.Fatalf("expected ErrNoDestination, got %v", err)
	}
	if _, err := New(Options{URL: "not a url"}); err == nil {
		t.Fatal("expected invalid url error")
	}
}

func TestSendCountsOutcomes(t *testing.T) {
	t.Parallel()
	okHook, okSrv := newHook(t, http.StatusNoContent)
	a, err := New(Options{URL: okSrv.URL, LogLevel: "error"})
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	a.Console().Info("deployed %s", "v1.2.3")
	stop(t, a)

	if got := a.Stats(); got.Sent != 1 || got.Failed != 0 {
		t.Fatalf("unexpected stats %+v", got)
	}
	p := okHook.received()
	if len(p) != 1 || len(p[0].Embeds) != 1 || p[0].Embeds[0].Title != "INFO" {
		t.Fatalf("unexpected payloads %+v", p)
	}
	if !strings.Contains(p[0].Embeds[0].Description, "deployed v1.2.3") {
		t.Fatalf("unexpected description %q", p[0].Embeds[0].Description)
	}
}

func TestSendFailureIsCounted(t *testing.T) {
	t.Parallel()
	_, srv := newHook(t, http.StatusInternalServerError)
	a, err := New(Options{URL: srv.URL, LogLevel: "error"})
	if err != nil {
		t.Fatal(err)
	}
	a.Console().Error("boom")
	stop(t, a)
	if got := a.Stats(); got.Failed != 1 || got.Sent != 0 {
		t.Fatalf("unexpected stats %+v", got)
	}
	a.Console().Log("late")
	if err := a.Stop(context.Background()); err != nil {
		t.Fatalf("second stop: %v", err)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()
	_, srv := newHook(t, http.StatusNoContent)
	a, err := New(Options{URL: srv.URL, MetricsAddr: "127.0.0.1:0", LogLevel: "error"})
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer stop(t, a)

	a.Console().Log("hello")
	eventually(t, "delivery", func() bool { return a.Stats().Sent == 1 })
	eventually(t, "metrics server", func() bool { return a.MetricsAddr() != "" })

	resp, err := http.Get("http://" + a.MetricsAddr() + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{
		`wconsole_console_delivered_total{level="log"} 1`,
		"wconsole_eventbus_dropped_total 0",
		"wconsole_runtime_goroutine_panics_total 0",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("missing %q in:\n%s", want, body)
		}
	}

	resp, err = http.Get("http://" + a.MetricsAddr() + "/status")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var st Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	if st.Deliveries.Sent != 1 || st.Runtime.Counters.Active < 1 {
		t.Fatalf("unexpected status %+v", st)
	}
	if len(st.Config) == 0 || st.Config[0] != "webhook" {
		t.Fatalf("unexpected config sections %v", st.Config)
	}
}

func TestConfigReloadSwapsDestination(t *testing.T) {
	t.Parallel()
	first, srvA := newHook(t, http.StatusNoContent)
	second, srvB := newHook(t, http.StatusNoContent)

	dir := t.TempDir()
	path := filepath.Join(dir, "wconsole.yaml")
	write := func(url, user string) {
		body := "webhook:\n  url: " + url + "\n  username: " + user + "\nlogging:\n  level: error\n"
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	write(srvA.URL, "alpha")

	a, err := New(Options{ConfigPath: path, Watch: true})
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer stop(t, a)

	a.Console().Log("one")
	eventually(t, "first delivery", func() bool { return len(first.received()) == 1 })

	select {
	case <-a.cfgm.Watching():
	case <-time.After(5 * time.Second):
		t.Fatal("config watcher never started")
	}
	write(srvB.URL, "beta")
	eventually(t, "reload", func() bool { return a.Config().Webhook.URL == srvB.URL })
	a.Console().Log("two")
	eventually(t, "second delivery", func() bool { return len(second.received()) == 1 })

	if got := second.received()[0].Username; got != "beta" {
		t.Fatalf("identity not reloaded: %q", got)
	}
	if got := len(first.received()); got != 1 {
		t.Fatalf("old destination got %d payloads", got)
	}
}

func TestDestinationChanged(t *testing.T) {
	t.Parallel()
	base := &config.Config{Webhook: config.WebhookConfig{URL: "https://x.io/a"}}
	same := *base
	same.Webhook.Username = "renamed"
	if destinationChanged(base, &same) {
		t.Fatal("username alone should not rebuild the destination")
	}
	tg := *base
	tg.Telegram = &config.TelegramConfig{Token: "1:a", ChatID: 1}
	if !destinationChanged(base, &tg) {
		t.Fatal("adding telegram should rebuild the destination")
	}
	if destinationChanged(&tg, &tg) {
		t.Fatal("identical configs should not rebuild")
	}
}
