package feed

import "github.com/handiism/podcast-segmenter/internal/model"

// Locator builds feed URLs from show slugs.
//
// The URL is BaseURL + slug + Suffix, with no validation of the slug; a
// malformed slug yields an unreachable URL that fails when fetched.
//
// Example:
//
//	loc := NewLocator("https://omny.fm/shows/", "/playlists/podcast.rss")
//	loc.URL("the-encore") // "https://omny.fm/shows/the-encore/playlists/podcast.rss"
type Locator struct {
	BaseURL string
	Suffix  string
}

// NewLocator creates a Locator.
func NewLocator(baseURL, suffix string) *Locator {
	return &Locator{BaseURL: baseURL, Suffix: suffix}
}

// URL returns the feed URL for slug.
func (l *Locator) URL(slug string) string {
	return l.BaseURL + slug + l.Suffix
}

// Show returns the model.Show for slug.
func (l *Locator) Show(slug string) model.Show {
	return model.Show{Slug: slug, FeedURL: l.URL(slug)}
}
