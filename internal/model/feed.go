package model

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// maxNameBytes bounds the sanitized title inside a single path
	// component. "<name>_<n>.mp3" plus the ".<name>.<random>" temp file
	// used while writing must stay under the usual 255 byte limit.
	maxNameBytes = 200

	// maxFolderPathBytes is the Windows MAX_PATH limit for directories.
	maxFolderPathBytes = 247
)

// Show is a podcast identified by its slug on the feed host.
type Show struct {
	// Slug is the opaque show identifier supplied by the caller.
	Slug string

	// FeedURL is the RSS URL computed from the slug.
	FeedURL string
}

// Feed represents a podcast feed with its metadata and episodes.
//
// Feed holds the information needed to lay out the output tree:
//   - Title for folder and file naming
//   - ArtworkURL for downloading cover art
//   - Computed paths for the podcast folder, cover art and playlist
//
// Paths are computed when creating a feed via NewFeed. The title is
// sanitized before it is used as a folder or file name.
type Feed struct {
	// Title is the channel title as found in the feed, whitespace trimmed.
	Title string

	// ArtworkURL is the channel image URL. Empty if the feed has none.
	ArtworkURL string

	// Episodes holds the episodes in feed order.
	Episodes []*Episode

	// Path is the podcast folder: <OutputFolder>/<sanitized title>.
	Path string

	// ArtworkPath is where the cover art is saved. Empty without artwork.
	ArtworkPath string

	// PlaylistPath is where the podcast playlist is written.
	PlaylistPath string
}

// PathConfig holds output layout settings.
type PathConfig struct {
	// OutputFolder is the root of the output tree.
	OutputFolder string

	// CoverArtFileName is the cover art file name without extension.
	CoverArtFileName string

	// PlaylistFormat determines the playlist file extension.
	PlaylistFormat PlaylistFormat
}

// NewFeed creates a new Feed with computed paths.
func NewFeed(title, artworkURL string, cfg *PathConfig) *Feed {
	feed := &Feed{
		Title:      title,
		ArtworkURL: artworkURL,
	}

	feed.Path = feed.parseFolderPath(cfg)
	feed.PlaylistPath = filepath.Join(feed.Path, feed.DirName()+cfg.PlaylistFormat.Extension())
	if feed.HasArtwork() {
		name := cfg.CoverArtFileName
		if name == "" {
			name = "cover"
		}
		feed.ArtworkPath = filepath.Join(feed.Path, sanitizeFileName(name)+".jpg")
	}

	return feed
}

// HasArtwork returns true if the feed advertises a channel image.
func (f *Feed) HasArtwork() bool {
	return f.ArtworkURL != ""
}

// DirName returns the sanitized title used for folder and file names,
// capped at maxNameBytes on a rune boundary.
func (f *Feed) DirName() string {
	name := truncateName(sanitizeFileName(f.Title), maxNameBytes)
	if name == "" {
		return "_"
	}
	return name
}

// AddEpisode appends an episode for audioURL, numbered after the last one.
func (f *Feed) AddEpisode(audioURL string) *Episode {
	ep := NewEpisode(f, len(f.Episodes)+1, audioURL)
	f.Episodes = append(f.Episodes, ep)
	return ep
}

func (f *Feed) parseFolderPath(cfg *PathConfig) string {
	path := filepath.Join(cfg.OutputFolder, f.DirName())

	// Limit path length for cross-platform compatibility (Windows MAX_PATH)
	if len(path) > maxFolderPathBytes {
		path = truncateName(path, maxFolderPathBytes)
	}

	return path
}

// truncateName cuts s to at most n bytes without splitting a rune, then
// drops the trailing spaces and dots left at the cut.
func truncateName(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return strings.TrimRight(s[:n], " .")
}

// PlaylistFormat represents supported playlist file formats.
type PlaylistFormat int

const (
	// PlaylistFormatM3U creates .m3u playlist files.
	PlaylistFormatM3U PlaylistFormat = iota

	// PlaylistFormatPLS creates .pls playlist files.
	PlaylistFormatPLS

	// PlaylistFormatWPL creates .wpl playlist files.
	PlaylistFormatWPL

	// PlaylistFormatZPL creates .zpl playlist files.
	PlaylistFormatZPL
)

// ParsePlaylistFormat maps a settings value (m3u, pls, wpl, zpl) to a format.
func ParsePlaylistFormat(s string) (PlaylistFormat, error) {
	switch strings.ToLower(s) {
	case "", "m3u":
		return PlaylistFormatM3U, nil
	case "pls":
		return PlaylistFormatPLS, nil
	case "wpl":
		return PlaylistFormatWPL, nil
	case "zpl":
		return PlaylistFormatZPL, nil
	}
	return PlaylistFormatM3U, fmt.Errorf("unknown playlist format %q", s)
}

// Extension returns the file extension for the playlist format, including the dot.
func (pf PlaylistFormat) Extension() string {
	switch pf {
	case PlaylistFormatPLS:
		return ".pls"
	case PlaylistFormatWPL:
		return ".wpl"
	case PlaylistFormatZPL:
		return ".zpl"
	default:
		return ".m3u"
	}
}

var (
	invalidChars   = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots   = regexp.MustCompile(`\.+$`)
	repeatedSpaces = regexp.MustCompile(`\s+`)
)

// sanitizeFileName removes or replaces characters that are invalid in file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars) are replaced with underscore
//   - Trailing dots are removed (Windows limitation)
//   - Multiple whitespace is collapsed to single space
//   - Surrounding whitespace is removed
//
// Example:
//
//	sanitizeFileName("News: Part 1/2") // Returns "News_ Part 1_2"
func sanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = repeatedSpaces.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}
