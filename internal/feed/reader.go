package feed

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/handiism/podcast-segmenter/internal/feed/dto"
	"golang.org/x/text/encoding/htmlindex"
)

// Getter fetches a URL body. *http.Client from this module satisfies it.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Reader fetches and parses RSS feeds.
//
// Every call performs its own GET; results are not cached between calls.
//
// Example usage:
//
//	reader := NewReader(client)
//
//	title, err := reader.FetchTitle(ctx, feedURL)
//	if err != nil {
//	    return err // ErrFeedUnreachable or ErrFeedMalformed
//	}
//
//	urls, err := reader.FetchEnclosureURLs(ctx, feedURL, 5)
//	for i, u := range urls {
//	    fmt.Printf("  %d. %s\n", i+1, u)
//	}
type Reader struct {
	client Getter
}

// NewReader creates a new Reader using client for HTTP.
func NewReader(client Getter) *Reader {
	return &Reader{client: client}
}

// FetchTitle returns the channel title with surrounding whitespace trimmed.
//
// Returns an *Error wrapping:
//   - ErrFeedUnreachable if the GET fails or answers non-2xx
//   - ErrFeedMalformed if the body is not XML, lacks a channel, or the
//     channel title is missing or blank
func (r *Reader) FetchTitle(ctx context.Context, feedURL string) (string, error) {
	const op = "fetch title"

	channel, err := r.fetch(ctx, op, feedURL)
	if err != nil {
		return "", err
	}

	title, ok := channel.Title()
	if !ok {
		return "", &Error{Op: op, URL: feedURL, Kind: ErrFeedMalformed, Err: fmt.Errorf("channel has no title")}
	}
	return title, nil
}

// FetchEnclosureURLs returns the enclosure URLs of the feed's items in
// document order.
//
// Items without an enclosure (or whose enclosure has no url) are skipped
// and do not count towards maxCount. maxCount <= 0 means unbounded.
// On failure the slice is nil and the error is an *Error as for FetchTitle.
func (r *Reader) FetchEnclosureURLs(ctx context.Context, feedURL string, maxCount int) ([]string, error) {
	channel, err := r.fetch(ctx, "fetch enclosures", feedURL)
	if err != nil {
		return nil, err
	}
	return EnclosureURLs(channel, maxCount), nil
}

// FetchArtworkURL returns the channel image URL, or "" if the feed has none.
func (r *Reader) FetchArtworkURL(ctx context.Context, feedURL string) (string, error) {
	channel, err := r.fetch(ctx, "fetch artwork", feedURL)
	if err != nil {
		return "", err
	}
	return channel.ArtworkURL(), nil
}

// EnclosureURLs collects up to maxCount enclosure URLs from channel.
func EnclosureURLs(channel *dto.Channel, maxCount int) []string {
	urls := []string{}
	for i := range channel.Items {
		url, ok := channel.Items[i].EnclosureURL()
		if !ok {
			continue
		}
		urls = append(urls, url)
		if maxCount > 0 && len(urls) >= maxCount {
			break
		}
	}
	return urls
}

func (r *Reader) fetch(ctx context.Context, op, feedURL string) (*dto.Channel, error) {
	data, err := r.client.Get(ctx, feedURL)
	if err != nil {
		return nil, &Error{Op: op, URL: feedURL, Kind: ErrFeedUnreachable, Err: err}
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, &Error{Op: op, URL: feedURL, Kind: ErrFeedMalformed, Err: err}
	}
	return doc.Channel, nil
}

// Parse decodes feed XML and checks for a top-level channel element.
//
// Documents declaring a non UTF-8 encoding (ISO-8859-1, windows-1252, ...)
// are transcoded before decoding.
func Parse(data []byte) (*dto.Document, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charsetReader

	var doc dto.Document
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse feed XML: %w", err)
	}
	if doc.Channel == nil {
		return nil, fmt.Errorf("channel element not found")
	}
	return &doc, nil
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}
