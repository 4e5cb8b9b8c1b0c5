package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/bogem/id3v2"
	ioutils "github.com/handiism/podcast-segmenter/internal/io"
	"github.com/handiism/podcast-segmenter/internal/model"
)

const id3HeaderSize = 10

// TagEditAction defines how to handle individual ID3 tags.
type TagEditAction int

const (
	// TagEmpty clears the tag value.
	TagEmpty TagEditAction = iota

	// TagModify updates the tag with the value from the feed.
	TagModify

	// TagDoNotModify leaves the existing tag value unchanged.
	TagDoNotModify
)

// TagConfig holds tagging configuration for each ID3 field.
//
// Example:
//
//	cfg := &TagConfig{
//	    ModifyTags:  true,
//	    Album:       TagModify,      // podcast title
//	    Artist:      TagModify,      // podcast title
//	    Title:       TagModify,      // "<podcast> <n>"
//	    TrackNumber: TagModify,      // episode or segment number
//	    Genre:       TagModify,      // "Podcast"
//	    Comments:    TagDoNotModify, // keep publisher comments
//	}
type TagConfig struct {
	// ModifyTags is a master switch. If false, no text frames are modified.
	ModifyTags bool

	// Artist controls the TPE1 (Lead artist) frame.
	Artist TagEditAction

	// Album controls the TALB (Album title) frame.
	Album TagEditAction

	// Title controls the TIT2 (Title) frame.
	Title TagEditAction

	// TrackNumber controls the TRCK (Track number) frame.
	TrackNumber TagEditAction

	// Genre controls the TCON (Content type) frame.
	Genre TagEditAction

	// Comments controls the COMM (Comments) frame.
	Comments TagEditAction
}

// DefaultTagConfig returns the default tag configuration.
//
// All fields are set to TagModify except comments, which are cleared.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		ModifyTags:  true,
		Artist:      TagModify,
		Album:       TagModify,
		Title:       TagModify,
		TrackNumber: TagModify,
		Genre:       TagModify,
		Comments:    TagEmpty,
	}
}

// Tagger writes ID3 tags to episode and segment files.
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig())
//
//	// After splitting
//	if err := tagger.TagEpisode(ep, artworkBytes); err != nil {
//	    log.Printf("Failed to tag %s: %v", ep.Path, err)
//	}
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

type tagValues struct {
	artist string
	album  string
	title  string
	track  int
}

// TagEpisode writes tags to the downloaded episode file.
//
// artwork is embedded as the front cover when non-nil; pass JPEG bytes.
func (t *Tagger) TagEpisode(ep *model.Episode, artwork []byte) error {
	return t.save(ep.Path, tagValues{
		artist: ep.Feed.Title,
		album:  ep.Feed.Title,
		title:  ep.Label(),
		track:  ep.Number,
	}, artwork)
}

// TagSegment writes tags to a segment file of ep.
func (t *Tagger) TagSegment(seg *model.Segment, ep *model.Episode) error {
	return t.save(seg.Path, tagValues{
		artist: ep.Feed.Title,
		album:  ep.Feed.Title,
		title:  fmt.Sprintf("%s - Segment %d", ep.Label(), seg.Index),
		track:  seg.Index,
	}, nil)
}

func (t *Tagger) save(path string, v tagValues, artwork []byte) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	tag, err := id3v2.ParseReader(bytes.NewReader(data), id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if t.config.ModifyTags {
		t.updateStringTags(tag, v)
	}

	if artwork != nil {
		t.updateArtwork(tag, artwork)
	}

	header, err := encodeTag(tag)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	out := make([]byte, 0, len(header)+len(data))
	out = append(out, header...)
	out = append(out, stripID3v2(data)...)
	return ioutils.WriteFile(context.Background(), path, out)
}

// encodeTag serializes tag with its frames sorted by ID, so the same tag
// always yields the same bytes. Tag.WriteTo emits frames in map order.
func encodeTag(tag *id3v2.Tag) ([]byte, error) {
	all := tag.AllFrames()
	version := tag.Version()
	if version != 3 {
		version = 4
	}

	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var frames bytes.Buffer
	for _, id := range ids {
		single := id3v2.NewEmptyTag()
		single.SetVersion(version)
		for _, f := range all[id] {
			single.AddFrame(id, f)
		}

		var buf bytes.Buffer
		if _, err := single.WriteTo(&buf); err != nil {
			return nil, err
		}
		if buf.Len() > id3HeaderSize {
			frames.Write(buf.Bytes()[id3HeaderSize:])
		}
	}

	if frames.Len() == 0 {
		return nil, nil
	}

	size := frames.Len()
	header := []byte{
		'I', 'D', '3', version, 0, 0,
		byte(size>>21&0x7f),
		byte(size>>14&0x7f),
		byte(size>>7&0x7f),
		byte(size&0x7f),
	}
	return append(header, frames.Bytes()...), nil
}

// updateStringTags updates text-based ID3 frames based on configuration.
func (t *Tagger) updateStringTags(tag *id3v2.Tag, v tagValues) {
	switch t.config.Artist {
	case TagEmpty:
		tag.SetArtist("")
	case TagModify:
		tag.SetArtist(v.artist)
	}

	switch t.config.Album {
	case TagEmpty:
		tag.SetAlbum("")
	case TagModify:
		tag.SetAlbum(v.album)
	}

	switch t.config.Title {
	case TagEmpty:
		tag.SetTitle("")
	case TagModify:
		tag.SetTitle(v.title)
	}

	switch t.config.TrackNumber {
	case TagEmpty:
		tag.DeleteFrames("TRCK")
	case TagModify:
		tag.DeleteFrames("TRCK")
		tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, fmt.Sprintf("%d", v.track))
	}

	switch t.config.Genre {
	case TagEmpty:
		tag.SetGenre("")
	case TagModify:
		tag.SetGenre("Podcast")
	}

	if t.config.Comments == TagEmpty {
		tag.DeleteFrames(tag.CommonID("Comments"))
	}
}

// updateArtwork embeds cover art as an attached picture frame.
func (t *Tagger) updateArtwork(tag *id3v2.Tag, artwork []byte) {
	tag.DeleteFrames(tag.CommonID("Attached picture"))

	pic := id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    "image/jpeg",
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     artwork,
	}
	tag.AddAttachedPicture(pic)
}
