package model

import (
	"fmt"
	"path/filepath"
	"time"
)

// Episode is one downloadable enclosure of a feed.
//
// Number is 1-based and follows the order in which enclosures appear in
// the feed; items without an enclosure do not consume a number.
//
// Example:
//
//	ep := NewEpisode(feed, 3, "https://cdn.example.com/ep.mp3")
//	// ep.Dir  = "/podcasts/My Show/Episode_3"
//	// ep.Path = "/podcasts/My Show/Episode_3/My Show_3.mp3"
type Episode struct {
	// Feed is a reference to the parent feed.
	Feed *Feed

	// Number is the episode number (1-indexed).
	Number int

	// AudioURL is the enclosure URL.
	AudioURL string

	// Dir is the episode folder.
	Dir string

	// Path is where the downloaded audio is saved.
	Path string

	// Duration is the decoded length, known once the episode has been split.
	Duration time.Duration
}

// NewEpisode creates a new Episode with computed paths.
func NewEpisode(feed *Feed, number int, audioURL string) *Episode {
	ep := &Episode{
		Feed:     feed,
		Number:   number,
		AudioURL: audioURL,
	}
	ep.Dir = filepath.Join(feed.Path, fmt.Sprintf("Episode_%d", number))
	ep.Path = filepath.Join(ep.Dir, ep.FileName())
	return ep
}

// FileName returns the audio file name, <title>_<n>.mp3.
func (e *Episode) FileName() string {
	return fmt.Sprintf("%s_%d.mp3", e.Feed.DirName(), e.Number)
}

// RelativePath returns the audio path relative to the podcast folder.
func (e *Episode) RelativePath() string {
	return filepath.Join(filepath.Base(e.Dir), e.FileName())
}

// Label returns a human readable name such as "My Show 3".
func (e *Episode) Label() string {
	return fmt.Sprintf("%s %d", e.Feed.Title, e.Number)
}
