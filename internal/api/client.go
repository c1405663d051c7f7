package api

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/plexsphere/weftctl/internal/rule"
)

const (
	// maxResponseSize is the maximum decompressed response body size (10 MiB).
	// Protects against gzip bombs in compressed responses.
	maxResponseSize = 10 * 1024 * 1024

	// userAgentPrefix is the User-Agent header prefix.
	userAgentPrefix = "weftctl/"
)

// Dashboard is the client for the Weft dashboard HTTP server.
type Dashboard struct {
	httpClient *http.Client
	baseURL    string
	version    string
	logger     *slog.Logger
}

// NewDashboard creates a new Dashboard client with the given configuration.
func NewDashboard(cfg Config, version string, logger *slog.Logger) (*Dashboard, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: cfg.ConnectTimeout,
		}).DialContext,
		DisableCompression: true,
	}

	return &Dashboard{
		httpClient: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: transport,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		version: version,
		logger:  logger.With("component", "api"),
	}, nil
}

// doJSON issues a request and decodes the JSON response into result.
func (c *Dashboard) doJSON(ctx context.Context, method, path string, result any) error {
	resp, err := c.send(ctx, method, path, nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp)
	}

	reader, closeFn, err := decodedBody(resp)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := json.NewDecoder(reader).Decode(result); err != nil {
		return fmt.Errorf("api: decode response: %w", err)
	}
	return nil
}

// doRaw issues a request and returns the response body without reading it.
// The caller is responsible for closing the returned reader.
func (c *Dashboard) doRaw(ctx context.Context, method, path string) (io.ReadCloser, error) {
	resp, err := c.send(ctx, method, path, nil, "")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, errorFromResponse(resp)
	}
	reader, closeFn, err := decodedBody(resp)
	if err != nil {
		resp.Body.Close()
		return nil, err
	}
	return struct {
		io.Reader
		io.Closer
	}{reader, closerFunc(func() error {
		closeFn()
		return resp.Body.Close()
	})}, nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// decodedBody wraps the response body in a gzip reader when the server
// compressed it. closeFn releases the gzip reader only; the caller still
// closes resp.Body.
func decodedBody(resp *http.Response) (io.Reader, func(), error) {
	if !strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		return io.LimitReader(resp.Body, maxResponseSize), func() {}, nil
	}
	gr, err := gzip.NewReader(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("api: gzip decompress response: %w", err)
	}
	return io.LimitReader(gr, maxResponseSize), func() { gr.Close() }, nil
}

// send builds and executes an HTTP request with standard headers. Dashboard
// endpoints are polled, so every request asks intermediaries not to cache.
func (c *Dashboard) send(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("api: create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("User-Agent", userAgentPrefix+c.version)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	return resp, nil
}

// Stats fetches the current counter snapshot from GET /stats.
func (c *Dashboard) Stats(ctx context.Context) (*StatsResponse, error) {
	var out StatsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/stats", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LogsTail fetches log rows with an id greater than since from GET /logs_tail.
func (c *Dashboard) LogsTail(ctx context.Context, since int64) (*LogsTailResponse, error) {
	q := url.Values{}
	q.Set("since", strconv.FormatInt(since, 10))

	var out LogsTailResponse
	if err := c.doJSON(ctx, http.MethodGet, "/logs_tail?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RulesPage returns the rendered rules page (GET /).
func (c *Dashboard) RulesPage(ctx context.Context) (io.ReadCloser, error) {
	return c.doRaw(ctx, http.MethodGet, "/")
}

// LogsPage returns the rendered logs page (GET /logs).
func (c *Dashboard) LogsPage(ctx context.Context) (io.ReadCloser, error) {
	return c.doRaw(ctx, http.MethodGet, "/logs")
}

// AddRule submits r through the dashboard's add-rule form (POST /add).
// The server answers with a redirect to the rules page, which is followed.
func (c *Dashboard) AddRule(ctx context.Context, r rule.Descriptor) error {
	n := r.Normalized()
	form := url.Values{}
	form.Set("action", n.Action)
	form.Set("proto", n.Protocol)
	form.Set("src", n.Source)
	form.Set("dst", n.Destination)
	form.Set("dport", n.DestinationPort)
	form.Set("comment", n.Comment)

	if err := c.postForm(ctx, "/add", form); err != nil {
		return err
	}
	c.logger.Debug("rule submitted", "rule", n.String(), "comment", n.Comment)
	return nil
}

// SetDOSConfig stores the DOS warn and drop thresholds (packets per 5s)
// through POST /dos_config. The server clamps the values and redirects to
// the logs page; read /stats to see what was stored.
func (c *Dashboard) SetDOSConfig(ctx context.Context, warn, drop int64) error {
	form := url.Values{}
	form.Set("warn_5s", strconv.FormatInt(warn, 10))
	form.Set("drop_5s", strconv.FormatInt(drop, 10))

	if err := c.postForm(ctx, "/dos_config", form); err != nil {
		return err
	}
	c.logger.Debug("dos thresholds submitted", "warn_5s", warn, "drop_5s", drop)
	return nil
}

// postForm submits form to path. Redirects are followed, so any final 2xx
// counts as success.
func (c *Dashboard) postForm(ctx context.Context, path string, form url.Values) error {
	resp, err := c.send(ctx, http.MethodPost, path, bytes.NewBufferString(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
	return nil
}
