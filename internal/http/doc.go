// Package http provides the HTTP client used for feed and episode requests.
//
// The Client in this package handles:
//   - User-Agent headers
//   - A connect timeout (dial + TLS) and a read timeout (headers + body idle time)
//   - In-memory downloads with progress tracking
//   - Typed errors for non-2xx answers (*StatusError)
//
// # Basic Usage
//
//	client := http.NewClient(http.DefaultConfig())
//
//	// Fetch feed XML
//	data, err := client.Get(ctx, feedURL)
//
//	// Download an episode
//	audio, err := client.DownloadBytes(ctx, enclosureURL, nil)
//
// # Progress Tracking
//
// The ProgressWriter type can be used to wrap any io.Writer for progress tracking:
//
//	pw := &http.ProgressWriter{
//	    Writer:   file,
//	    Total:    contentLength,
//	    OnUpdate: func(written, total int64) { /* update UI */ },
//	}
package http
