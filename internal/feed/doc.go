// Package feed locates podcast RSS feeds and extracts the information the
// pipeline needs from them.
//
// The package handles two concerns:
//
//  1. Building a feed URL from a show slug (Locator)
//  2. Fetching and parsing the feed (Reader)
//
// # Locating Feeds
//
//	loc := feed.NewLocator("https://omny.fm/shows/", "/playlists/podcast.rss")
//	feedURL := loc.URL("the-encore")
//
// # Reading Feeds
//
//	reader := feed.NewReader(client)
//	title, err := reader.FetchTitle(ctx, feedURL)
//	urls, err := reader.FetchEnclosureURLs(ctx, feedURL, 0) // 0 = all
//
// # Errors
//
// Failures are returned as *Error values matching ErrFeedUnreachable
// (transport failure, non-2xx) or ErrFeedMalformed (not XML, no channel,
// no title):
//
//	if errors.Is(err, feed.ErrFeedUnreachable) {
//	    // skip this show
//	}
//
// # Feed Format
//
// Only the RSS 2.0 subset channel/title, channel/item/enclosure[@url] and
// the channel image (image/url or itunes:image@href) is consumed.
package feed
