package audio

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/bogem/id3v2"
	"github.com/handiism/podcast-segmenter/internal/audio/audiotest"
	"github.com/handiism/podcast-segmenter/internal/model"
)

func newTaggedEpisode(t *testing.T) *model.Episode {
	t.Helper()
	feed := model.NewFeed("The Encore", "", &model.PathConfig{OutputFolder: t.TempDir()})
	ep := feed.AddEpisode("https://cdn.example.com/1.mp3")
	if err := os.MkdirAll(ep.Dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ep.Path, audiotest.Frames(100), 0644); err != nil {
		t.Fatal(err)
	}
	return ep
}

func textFrame(tag *id3v2.Tag, id string) string {
	if tf, ok := tag.GetLastFrame(id).(id3v2.TextFrame); ok {
		return tf.Text
	}
	return ""
}

func TestTagger_TagEpisode(t *testing.T) {
	ep := newTaggedEpisode(t)
	artwork := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}

	if err := NewTagger(nil).TagEpisode(ep, artwork); err != nil {
		t.Fatalf("TagEpisode failed: %v", err)
	}

	tag, err := id3v2.Open(ep.Path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatal(err)
	}
	defer tag.Close()

	if tag.Album() != "The Encore" {
		t.Errorf("Album = %q", tag.Album())
	}
	if tag.Title() != "The Encore 1" {
		t.Errorf("Title = %q", tag.Title())
	}
	if tag.Genre() != "Podcast" {
		t.Errorf("Genre = %q", tag.Genre())
	}
	if got := textFrame(tag, "TRCK"); got != "1" {
		t.Errorf("TRCK = %q, want 1", got)
	}
	if pics := tag.GetFrames(tag.CommonID("Attached picture")); len(pics) != 1 {
		t.Errorf("got %d pictures, want 1", len(pics))
	}
}

func TestTagger_TaggedEpisodeStillDecodes(t *testing.T) {
	ep := newTaggedEpisode(t)

	if err := NewTagger(nil).TagEpisode(ep, nil); err != nil {
		t.Fatalf("TagEpisode failed: %v", err)
	}

	src, err := NewFramesCodec().Open(context.Background(), ep.Path)
	if err != nil {
		t.Fatalf("tagged file should decode: %v", err)
	}
	defer src.Close()

	want := 100 * audiotest.FrameDuration
	if diff := src.Duration() - want; diff < -time.Millisecond || diff > time.Millisecond {
		t.Errorf("Duration() = %v, want about %v", src.Duration(), want)
	}
}

func TestTagger_TagSegment(t *testing.T) {
	ep := newTaggedEpisode(t)
	seg := model.NewSegment(ep.Dir, 3, 30*time.Second, 45*time.Second)
	if err := os.WriteFile(seg.Path, audiotest.Frames(10), 0644); err != nil {
		t.Fatal(err)
	}

	if err := NewTagger(nil).TagSegment(seg, ep); err != nil {
		t.Fatalf("TagSegment failed: %v", err)
	}

	tag, err := id3v2.Open(seg.Path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatal(err)
	}
	defer tag.Close()

	if tag.Title() != "The Encore 1 - Segment 3" {
		t.Errorf("Title = %q", tag.Title())
	}
	if got := textFrame(tag, "TRCK"); got != "3" {
		t.Errorf("TRCK = %q, want 3", got)
	}
}

func TestTagger_ModifyTagsOff(t *testing.T) {
	ep := newTaggedEpisode(t)
	cfg := DefaultTagConfig()
	cfg.ModifyTags = false

	if err := NewTagger(cfg).TagEpisode(ep, nil); err != nil {
		t.Fatalf("TagEpisode failed: %v", err)
	}

	tag, err := id3v2.Open(ep.Path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatal(err)
	}
	defer tag.Close()

	if tag.Album() != "" || tag.Title() != "" {
		t.Errorf("tags should be untouched, got album %q title %q", tag.Album(), tag.Title())
	}
}

func TestTagger_MissingFile(t *testing.T) {
	feed := model.NewFeed("Show", "", &model.PathConfig{OutputFolder: filepath.Join(t.TempDir(), "none")})
	ep := feed.AddEpisode("https://cdn.example.com/1.mp3")

	if err := NewTagger(nil).TagEpisode(ep, nil); err == nil {
		t.Error("expected error for missing file")
	}
}

func frameIDs(t *testing.T, data []byte) []string {
	t.Helper()
	if len(data) < id3HeaderSize || string(data[:3]) != "ID3" {
		t.Fatal("file has no ID3v2 tag")
	}
	end := id3HeaderSize + (int(data[6])<<21 | int(data[7])<<14 | int(data[8])<<7 | int(data[9]))
	var ids []string
	for off := id3HeaderSize; off+id3HeaderSize <= end && data[off] != 0; {
		size := int(data[off+4])<<21 | int(data[off+5])<<14 | int(data[off+6])<<7 | int(data[off+7])
		ids = append(ids, string(data[off:off+4]))
		off += id3HeaderSize + size
	}
	return ids
}

func TestTagger_SameBytesEveryTime(t *testing.T) {
	ep := newTaggedEpisode(t)
	raw := audiotest.Frames(100)
	artwork := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}

	var first []byte
	for i := 0; i < 20; i++ {
		if err := os.WriteFile(ep.Path, raw, 0644); err != nil {
			t.Fatal(err)
		}
		if err := NewTagger(nil).TagEpisode(ep, artwork); err != nil {
			t.Fatalf("TagEpisode failed: %v", err)
		}
		data, err := os.ReadFile(ep.Path)
		if err != nil {
			t.Fatal(err)
		}
		if first == nil {
			first = data
			continue
		}
		if !bytes.Equal(data, first) {
			t.Fatalf("attempt %d produced different bytes", i+1)
		}
	}

	ids := frameIDs(t, first)
	if len(ids) < 5 {
		t.Fatalf("frames = %v, want at least 5", ids)
	}
	if !slices.IsSorted(ids) {
		t.Errorf("frames not sorted by ID: %v", ids)
	}
	if !bytes.HasSuffix(first, raw) {
		t.Error("audio data should follow the tag unchanged")
	}
}

func TestTagger_RetagReplacesExistingTag(t *testing.T) {
	ep := newTaggedEpisode(t)
	tagger := NewTagger(nil)

	if err := tagger.TagEpisode(ep, nil); err != nil {
		t.Fatalf("TagEpisode failed: %v", err)
	}
	once, err := os.ReadFile(ep.Path)
	if err != nil {
		t.Fatal(err)
	}
	if err := tagger.TagEpisode(ep, nil); err != nil {
		t.Fatalf("second TagEpisode failed: %v", err)
	}
	twice, err := os.ReadFile(ep.Path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(once, twice) {
		t.Error("tagging an already tagged file should not change it")
	}
}
