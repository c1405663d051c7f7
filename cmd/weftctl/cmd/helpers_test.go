package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
)

const rulesPage = `<html><body>
<table id="rules">
  <thead><tr><th>ID</th><th>Action</th><th>Proto</th><th>Src</th><th>Dst</th><th>Dport</th><th>Comment</th></tr></thead>
  <tbody>
    <tr><td>1</td><td>ACCEPT</td><td>any</td><td>127.0.0.1</td><td>any</td><td>any</td><td>Allow localhost</td></tr>
    <tr><td>2</td><td>DROP</td><td>tcp</td><td>any</td><td>any</td><td>22</td><td>Block SSH</td></tr>
    <tr><td>3</td><td>ACCEPT</td><td>any</td><td>any</td><td>any</td><td>any</td><td>Default allow</td></tr>
  </tbody>
</table>
</body></html>`

const logsPage = `<html><body>
<table><thead><tr><th>Time</th><th>Verdict</th></tr></thead>
<tbody id="logBody">
  <tr data-id="2"><td>t</td><td>ACCEPT</td></tr>
  <tr data-id="3"><td>t</td><td>DROP</td></tr>
</tbody></table>
</body></html>`

// fakeDashboard is an in-memory stand-in for the dashboard HTTP server.
type fakeDashboard struct {
	*httptest.Server

	mu       sync.Mutex
	logIDs   []int64
	added    []url.Values
	statsErr bool
	warn     int64
	drop     int64
	dosPosts int
}

func newFakeDashboard(t *testing.T) *fakeDashboard {
	t.Helper()
	f := &fakeDashboard{logIDs: []int64{1, 2, 3, 4, 5}, warn: 50, drop: 110}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /stats", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		fail, warn, drop := f.statsErr, f.warn, f.drop
		f.mu.Unlock()
		if fail {
			http.Error(w, "database is locked", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"total": 120, "accept": 100, "drop": 20, "pps": 1.5, "warn_5s": %d, "drop_5s": %d, "dos_state": "warn"}`, warn, drop)
	})
	mux.HandleFunc("GET /logs_tail", func(w http.ResponseWriter, r *http.Request) {
		since, _ := strconv.ParseInt(r.URL.Query().Get("since"), 10, 64)
		f.mu.Lock()
		var rows [][]any
		for _, id := range f.logIDs {
			if id > since {
				rows = append(rows, []any{id, "2026-01-01 00:00:00", "DROP", "tcp", "10.0.0.9", "10.0.2.15", 40000, 22, "probe"})
			}
		}
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"rows": rows})
	})
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, rulesPage)
	})
	mux.HandleFunc("GET /logs", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, logsPage)
	})
	mux.HandleFunc("POST /add", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.added = append(f.added, r.PostForm)
		f.mu.Unlock()
		http.Redirect(w, r, "/", http.StatusFound)
	})

	mux.HandleFunc("POST /dos_config", func(w http.ResponseWriter, r *http.Request) {
		warn, errW := strconv.ParseInt(r.FormValue("warn_5s"), 10, 64)
		drop, errD := strconv.ParseInt(r.FormValue("drop_5s"), 10, 64)
		if errW == nil && errD == nil {
			f.mu.Lock()
			f.warn = min(max(warn, 10), 2000)
			f.drop = min(max(drop, 10), 2000)
			if f.drop <= f.warn {
				f.drop = f.warn + 10
			}
			f.dosPosts++
			f.mu.Unlock()
		}
		http.Redirect(w, r, "/logs", http.StatusFound)
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeDashboard) addedForms() []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]url.Values(nil), f.added...)
}

func (f *fakeDashboard) thresholds() (warn, drop int64, posts int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.warn, f.drop, f.dosPosts
}

func (f *fakeDashboard) failStats() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statsErr = true
}

// isolate points config and handoff lookups at per-test directories.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
}

// resetFlags restores every flag variable to its default; rootCmd is shared
// between tests.
func resetFlags() {
	cfgFile, logLevel, apiURL = "", "error", ""

	for _, f := range []*ruleFlags{&probeRule, &addRule} {
		*f = ruleFlags{action: "ACCEPT", proto: "any", src: "any", dst: "any", dport: "any"}
	}
	probeTarget, probeCommands, probeSave = "", false, false
	newestFile, newestCommands = "", false
	randomSeed, randomCount, randomProbe = 0, 1, false
	addNoHandoff = false
	handoffCommands = false
	initForce = false
	dosWarn, dosDrop = 0, 0
	statsLine = false
	tailSince, tailFollow, tailFor = -1, false, 0
	watchMetricsAddr, watchNoLogs, watchWarn, watchDrop, watchFor = "", false, 0, 0, 0

	for _, c := range append(rootCmd.Commands(), rootCmd) {
		for _, name := range []string{"help", "version"} {
			if f := c.Flags().Lookup(name); f != nil {
				_ = f.Value.Set("false")
			}
		}
	}
}

// execute runs rootCmd with args and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	if args == nil {
		// cobra falls back to os.Args for nil.
		args = []string{}
	}
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}
