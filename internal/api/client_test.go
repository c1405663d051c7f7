package api

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/plexsphere/weftctl/internal/rule"
)

// newTestClient creates a Dashboard client pointed at the given test server.
func newTestClient(t *testing.T, serverURL string) *Dashboard {
	t.Helper()
	c, err := NewDashboard(Config{BaseURL: serverURL}, "1.2.3", slog.Default())
	if err != nil {
		t.Fatalf("NewDashboard: %v", err)
	}
	return c
}

func TestClient_HeadersSet(t *testing.T) {
	var gotUA, gotCache string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotCache = r.Header.Get("Cache-Control")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if _, err := c.Stats(context.Background()); err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if gotUA != "weftctl/1.2.3" {
		t.Errorf("User-Agent = %q, want %q", gotUA, "weftctl/1.2.3")
	}
	if gotCache != "no-cache" {
		t.Errorf("Cache-Control = %q, want %q", gotCache, "no-cache")
	}
}

func TestClient_Stats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stats" {
			t.Errorf("path = %q, want /stats", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total":120,"accept":100,"drop":20,"pps":1.5,"warn_5s":50,"drop_5s":110,"dos_state":"warn"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	s, err := c.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if s.Total == nil || *s.Total != 120 {
		t.Errorf("Total = %v, want 120", s.Total)
	}
	if s.Packets != nil {
		t.Errorf("Packets = %v, want nil", *s.Packets)
	}
	if s.PPS == nil || *s.PPS != 1.5 {
		t.Errorf("PPS = %v, want 1.5", s.PPS)
	}
	if s.DOSState != "warn" {
		t.Errorf("DOSState = %q, want warn", s.DOSState)
	}
}

func TestClient_LogsTailSendsCursor(t *testing.T) {
	var gotSince string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSince = r.URL.Query().Get("since")
		_, _ = w.Write([]byte(`{"rows":[[6,"2025-01-01 10:00:00","DROP","tcp","10.0.0.2","10.0.0.1",5555,22,"Block SSH"]]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	resp, err := c.LogsTail(context.Background(), 5)
	if err != nil {
		t.Fatalf("LogsTail: %v", err)
	}
	if gotSince != "5" {
		t.Errorf("since = %q, want 5", gotSince)
	}
	if len(resp.Rows) != 1 || len(resp.Rows[0]) != 9 {
		t.Fatalf("rows = %v, want one row of 9 fields", resp.Rows)
	}
}

func TestClient_GzipResponseDecompression(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept-Encoding") != "gzip" {
			t.Errorf("Accept-Encoding = %q, want gzip", r.Header.Get("Accept-Encoding"))
		}
		w.Header().Set("Content-Encoding", "gzip")
		gw := gzip.NewWriter(w)
		_, _ = gw.Write([]byte(`{"total":7}`))
		_ = gw.Close()
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	s, err := c.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if s.Total == nil || *s.Total != 7 {
		t.Errorf("Total = %v, want 7", s.Total)
	}
}

func TestClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "database is locked", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Stats(context.Background())
	if !errors.Is(err, ErrServer) {
		t.Fatalf("expected ErrServer, got %v", err)
	}
}

func TestClient_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if _, err := c.Stats(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestClient_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newTestClient(t, url)
	if _, err := c.LogsTail(context.Background(), 0); err == nil {
		t.Fatal("expected error for closed server")
	}
}

func TestClient_RulesPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("<table></table>"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	body, err := c.RulesPage(context.Background())
	if err != nil {
		t.Fatalf("RulesPage: %v", err)
	}
	defer body.Close()
	data, _ := io.ReadAll(body)
	if string(data) != "<table></table>" {
		t.Errorf("body = %q", data)
	}

	if _, err := c.LogsPage(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Errorf("LogsPage error = %v, want ErrNotFound", err)
	}
}

func TestClient_AddRulePostsFormAndFollowsRedirect(t *testing.T) {
	var form map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("/add", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		form = map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		http.Redirect(w, r, "/", http.StatusFound)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.AddRule(context.Background(), rule.Descriptor{
		Action:          "drop",
		Protocol:        "TCP",
		Destination:     "",
		DestinationPort: "22",
		Comment:         "Block SSH",
	})
	if err != nil {
		t.Fatalf("AddRule: %v", err)
	}

	want := map[string]string{
		"action":  "DROP",
		"proto":   "tcp",
		"src":     "any",
		"dst":     "any",
		"dport":   "22",
		"comment": "Block SSH",
	}
	for k, v := range want {
		if form[k] != v {
			t.Errorf("form[%q] = %q, want %q", k, form[k], v)
		}
	}
}

func TestClient_SetDOSConfigPostsThresholds(t *testing.T) {
	var form map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("/dos_config", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		form = map[string]string{
			"warn_5s": r.PostForm.Get("warn_5s"),
			"drop_5s": r.PostForm.Get("drop_5s"),
		}
		http.Redirect(w, r, "/logs", http.StatusFound)
	})
	mux.HandleFunc("/logs", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html></html>"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if err := c.SetDOSConfig(context.Background(), 80, 200); err != nil {
		t.Fatalf("SetDOSConfig: %v", err)
	}
	if form["warn_5s"] != "80" || form["drop_5s"] != "200" {
		t.Errorf("form = %v, want warn_5s=80 drop_5s=200", form)
	}
}

func TestClient_SetDOSConfigUnsupported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.SetDOSConfig(context.Background(), 80, 200)
	if !errors.Is(err, ErrMethodNotAllowed) {
		t.Fatalf("err = %v, want ErrMethodNotAllowed", err)
	}
}
