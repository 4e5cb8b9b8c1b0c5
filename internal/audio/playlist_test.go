package audio

import (
	"strings"
	"testing"
	"time"

	"github.com/handiism/podcast-segmenter/internal/model"
)

func TestPlaylistCreator_M3U(t *testing.T) {
	title, episodes := createTestEpisodes("Test Show")
	creator := NewPlaylistCreator(model.PlaylistFormatM3U, false)

	content := creator.CreatePlaylist(title, episodes)

	want := "Episode_1/Test Show_1.mp3\nEpisode_2/Test Show_2.mp3\n"
	if content != want {
		t.Errorf("M3U =\n%s\nwant\n%s", content, want)
	}
}

func TestPlaylistCreator_M3UExtended(t *testing.T) {
	title, episodes := createTestEpisodes("Test Show")
	creator := NewPlaylistCreator(model.PlaylistFormatM3U, true)

	content := creator.CreatePlaylist(title, episodes)

	if !strings.HasPrefix(content, "#EXTM3U") {
		t.Error("Extended M3U should start with #EXTM3U")
	}
	if !strings.Contains(content, "#EXTINF:180,Test Show 1\n") {
		t.Errorf("Extended M3U should contain EXTINF with duration and label, got:\n%s", content)
	}
}

func TestPlaylistCreator_PLS(t *testing.T) {
	title, episodes := createTestEpisodes("Test Show")
	creator := NewPlaylistCreator(model.PlaylistFormatPLS, false)

	content := creator.CreatePlaylist(title, episodes)

	for _, want := range []string{"[playlist]\n", "File1=Episode_1/Test Show_1.mp3\n", "Length2=200\n", "NumberOfEntries=2\n"} {
		if !strings.Contains(content, want) {
			t.Errorf("PLS should contain %q", want)
		}
	}
}

func TestPlaylistCreator_WPL(t *testing.T) {
	title, episodes := createTestEpisodes("Test Show")
	creator := NewPlaylistCreator(model.PlaylistFormatWPL, false)

	content := creator.CreatePlaylist(title, episodes)

	if !strings.Contains(content, "<?wpl") {
		t.Error("WPL should contain XML declaration")
	}
	if !strings.Contains(content, "<smil>") {
		t.Error("WPL should contain smil element")
	}
	if !strings.Contains(content, `<media src="Episode_2/Test Show_2.mp3"/>`) {
		t.Error("WPL should contain media elements")
	}
}

func TestPlaylistCreator_ZPL(t *testing.T) {
	title, episodes := createTestEpisodes("Test Show")
	creator := NewPlaylistCreator(model.PlaylistFormatZPL, false)

	content := creator.CreatePlaylist(title, episodes)

	if !strings.Contains(content, "<?zpl") {
		t.Error("ZPL should contain XML declaration")
	}
	if !strings.Contains(content, `albumTitle="Test Show"`) {
		t.Error("ZPL should contain albumTitle attribute")
	}
	if !strings.Contains(content, `duration="180000"`) {
		t.Error("ZPL should contain duration in milliseconds")
	}
}

func TestPlaylistCreator_XMLEscape(t *testing.T) {
	title, episodes := createTestEpisodes(`Rock & "Roll" <Live>`)
	creator := NewPlaylistCreator(model.PlaylistFormatWPL, false)

	content := creator.CreatePlaylist(title, episodes)

	if !strings.Contains(content, "<title>Rock &amp; &quot;Roll&quot; &lt;Live&gt;</title>") {
		t.Errorf("WPL title should be escaped, got:\n%s", content)
	}
	if strings.Contains(content, "<Live>") {
		t.Error("WPL should escape < and >")
	}
}

func TestPlaylistCreator_Empty(t *testing.T) {
	creator := NewPlaylistCreator(model.PlaylistFormatPLS, false)

	content := creator.CreatePlaylist("Show", nil)

	if !strings.Contains(content, "NumberOfEntries=0") {
		t.Errorf("empty PLS = %q", content)
	}
}

func createTestEpisodes(title string) (string, []*model.Episode) {
	feed := model.NewFeed(title, "", &model.PathConfig{OutputFolder: "/podcasts"})

	ep1 := feed.AddEpisode("http://example.com/1.mp3")
	ep1.Duration = 180 * time.Second
	ep2 := feed.AddEpisode("http://example.com/2.mp3")
	ep2.Duration = 200 * time.Second

	return feed.Title, feed.Episodes
}
