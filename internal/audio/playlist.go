package audio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/handiism/podcast-segmenter/internal/model"
)

// PlaylistCreator generates podcast playlists in various formats.
//
// Entries are paths relative to the podcast folder
// (Episode_<n>/<title>_<n>.mp3), so the playlist belongs in that folder.
//
// Example:
//
//	creator := NewPlaylistCreator(model.PlaylistFormatM3U, true)
//	content := creator.CreatePlaylist(feed.Title, saved)
//	os.WriteFile(feed.PlaylistPath, []byte(content), 0644)
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:1834,The Encore 1
//	// Episode_1/The Encore_1.mp3
type PlaylistCreator struct {
	format   model.PlaylistFormat
	extended bool // For M3U: include EXTINF lines with duration/title
}

// NewPlaylistCreator creates a new PlaylistCreator.
//
// extended only affects the M3U format.
func NewPlaylistCreator(format model.PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// CreatePlaylist generates playlist content listing episodes in order.
func (p *PlaylistCreator) CreatePlaylist(title string, episodes []*model.Episode) string {
	switch p.format {
	case model.PlaylistFormatPLS:
		return p.createPLS(episodes)
	case model.PlaylistFormatWPL:
		return p.createWPL(title, episodes)
	case model.PlaylistFormatZPL:
		return p.createZPL(title, episodes)
	default:
		return p.createM3U(episodes)
	}
}

func entryPath(ep *model.Episode) string {
	return filepath.ToSlash(ep.RelativePath())
}

// createM3U generates an M3U playlist, with #EXTINF lines when extended.
func (p *PlaylistCreator) createM3U(episodes []*model.Episode) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, ep := range episodes {
		if p.extended {
			fmt.Fprintf(&sb, "#EXTINF:%d,%s\n", int(ep.Duration.Seconds()), ep.Label())
		}
		sb.WriteString(entryPath(ep) + "\n")
	}

	return sb.String()
}

// createPLS generates an INI-style PLS playlist.
func (p *PlaylistCreator) createPLS(episodes []*model.Episode) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, ep := range episodes {
		idx := i + 1
		fmt.Fprintf(&sb, "File%d=%s\n", idx, entryPath(ep))
		fmt.Fprintf(&sb, "Title%d=%s\n", idx, ep.Label())
		fmt.Fprintf(&sb, "Length%d=%d\n", idx, int(ep.Duration.Seconds()))
	}

	fmt.Fprintf(&sb, "NumberOfEntries=%d\n", len(episodes))
	sb.WriteString("Version=2\n")

	return sb.String()
}

// createWPL generates a Windows Media Player playlist.
func (p *PlaylistCreator) createWPL(title string, episodes []*model.Episode) string {
	var sb strings.Builder

	sb.WriteString("<?wpl version=\"1.0\"?>\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", escapeXML(title))
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")

	for _, ep := range episodes {
		fmt.Fprintf(&sb, "      <media src=\"%s\"/>\n", escapeXML(entryPath(ep)))
	}

	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

// createZPL generates a Zune/Groove Music playlist with per-entry metadata.
func (p *PlaylistCreator) createZPL(title string, episodes []*model.Episode) string {
	var sb strings.Builder

	sb.WriteString("<?zpl version=\"2.0\"?>\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", escapeXML(title))
	sb.WriteString("    <meta name=\"Generator\" content=\"PodcastSegmenter\"/>\n")
	fmt.Fprintf(&sb, "    <meta name=\"ItemCount\" content=\"%d\"/>\n", len(episodes))
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")

	for _, ep := range episodes {
		fmt.Fprintf(&sb, "      <media src=\"%s\" albumTitle=\"%s\" trackTitle=\"%s\" duration=\"%d\"/>\n",
			escapeXML(entryPath(ep)),
			escapeXML(title),
			escapeXML(ep.Label()),
			ep.Duration.Milliseconds())
	}

	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

// escapeXML escapes & < > " ' for attribute and text content.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
