package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"time"
)

// ErrReadTimeout is returned when a response body stalls for longer than
// the configured read timeout.
var ErrReadTimeout = errors.New("read timeout")

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	URL    string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.Code, e.URL)
}

// Config holds client settings.
type Config struct {
	// UserAgent is sent with every request.
	UserAgent string

	// ConnectTimeout bounds dialing and the TLS handshake.
	ConnectTimeout time.Duration

	// ReadTimeout bounds the wait for response headers and the idle time
	// between two reads of the body.
	ReadTimeout time.Duration
}

// DefaultConfig returns a 30s connect / 60s read timeout configuration.
func DefaultConfig() Config {
	return Config{
		UserAgent:      "PodcastSegmenter",
		ConnectTimeout: 30 * time.Second,
		ReadTimeout:    60 * time.Second,
	}
}

// Client wraps HTTP operations for feed and episode retrieval.
//
// Client provides:
//   - Configured User-Agent header
//   - Separate connect and read timeouts
//   - In-memory downloads with progress tracking
//
// Example usage:
//
//	client := NewClient(DefaultConfig())
//
//	// Fetch feed XML
//	data, err := client.Get(ctx, "https://omny.fm/shows/the-encore/playlists/podcast.rss")
//
//	// Download an episode with progress
//	audio, err := client.DownloadBytes(ctx, enclosureURL, func(written, total int64) {
//	    fmt.Printf("%d / %d\n", written, total)
//	})
type Client struct {
	httpClient  *http.Client
	userAgent   string
	readTimeout time.Duration
}

// NewClient creates a new HTTP client from cfg. Zero timeouts fall back to
// DefaultConfig values.
func NewClient(cfg Config) *Client {
	def := DefaultConfig()
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = def.ConnectTimeout
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = def.ReadTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   cfg.ConnectTimeout,
		ResponseHeaderTimeout: cfg.ReadTimeout,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
	}

	return &Client{
		httpClient:  &http.Client{Transport: transport},
		userAgent:   cfg.UserAgent,
		readTimeout: cfg.ReadTimeout,
	}
}

// ProgressWriter wraps a writer to track download progress.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: &buf,
//	    Total:  contentLength,
//	    OnUpdate: func(written, total int64) {
//	        fmt.Printf("%d / %d bytes\n", written, total)
//	    },
//	}
//	io.Copy(pw, response.Body)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header, -1 if unknown).
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// Get performs a GET request and returns the response body as bytes.
//
// Returns an error if:
//   - The request fails (connect timeout, DNS, TLS, ...)
//   - The response status is not 2xx (*StatusError)
//   - Reading the body fails or stalls (ErrReadTimeout)
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	return c.DownloadBytes(ctx, url, nil)
}

// GetString performs a GET request and returns the response body as a string.
func (c *Client) GetString(ctx context.Context, url string) (string, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// DownloadBytes downloads a resource and returns the bytes in memory.
//
// onProgress is optional and receives (bytesRead, contentLength).
//
// Example:
//
//	audio, err := client.DownloadBytes(ctx, enclosureURL, nil)
//	var statusErr *StatusError
//	if errors.As(err, &statusErr) {
//	    fmt.Println("server answered", statusErr.Code)
//	}
func (c *Client) DownloadBytes(ctx context.Context, url string, onProgress func(written, total int64)) ([]byte, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, Code: resp.StatusCode, Status: resp.Status}
	}

	body := newIdleTimeoutReader(resp.Body, c.readTimeout, cancel)
	defer body.stop()

	var buf bytes.Buffer
	if resp.ContentLength > 0 {
		buf.Grow(int(resp.ContentLength))
	}

	var writer io.Writer = &buf
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   &buf,
			Total:    resp.ContentLength,
			OnUpdate: onProgress,
		}
	}

	if _, err := io.Copy(writer, body); err != nil {
		if body.expired() {
			return nil, fmt.Errorf("%s: no data for %s: %w", url, c.readTimeout, ErrReadTimeout)
		}
		return nil, err
	}

	return buf.Bytes(), nil
}

// idleTimeoutReader cancels the request when no Read completes within timeout.
type idleTimeoutReader struct {
	r       io.Reader
	timeout time.Duration
	timer   *time.Timer
	fired   atomic.Bool
}

func newIdleTimeoutReader(r io.Reader, timeout time.Duration, cancel context.CancelFunc) *idleTimeoutReader {
	ir := &idleTimeoutReader{r: r, timeout: timeout}
	ir.timer = time.AfterFunc(timeout, func() {
		ir.fired.Store(true)
		cancel()
	})
	return ir
}

func (ir *idleTimeoutReader) Read(p []byte) (int, error) {
	n, err := ir.r.Read(p)
	if n > 0 && !ir.fired.Load() {
		ir.timer.Reset(ir.timeout)
	}
	return n, err
}

func (ir *idleTimeoutReader) expired() bool {
	return ir.fired.Load()
}

func (ir *idleTimeoutReader) stop() {
	ir.timer.Stop()
}
