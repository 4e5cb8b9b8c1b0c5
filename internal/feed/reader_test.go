package feed

import (
	"context"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/handiism/podcast-segmenter/internal/http"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd">
  <channel>
    <itunes:title>Ignored</itunes:title>
    <title>
      The Encore
    </title>
    <itunes:image href="https://cdn.example.com/itunes.jpg"/>
    <item><title>One</title><enclosure url="https://cdn.example.com/1.mp3" type="audio/mpeg" length="1"/></item>
    <item><title>No enclosure</title></item>
    <item><title>Two</title><enclosure url="https://cdn.example.com/2.mp3" type="audio/mpeg"/></item>
    <item><title>No url</title><enclosure type="audio/mpeg"/></item>
    <item><title>Blank url</title><enclosure url="  " type="audio/mpeg"/></item>
    <item><title>Three</title><enclosure url="https://cdn.example.com/3.mp3"/></item>
  </channel>
</rss>`

func serve(t *testing.T, status int, body string) string {
	t.Helper()
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func newTestReader() *Reader {
	return NewReader(http.NewClient(http.DefaultConfig()))
}

func TestReader_FetchTitle(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		want     string
		wantKind error
	}{
		{"trimmed title", 200, sampleFeed, "The Encore", nil},
		{"not found", 404, "<html>not found</html>", "", ErrFeedUnreachable},
		{"server error", 500, sampleFeed, "", ErrFeedUnreachable},
		{"not xml", 200, "this is not xml", "", ErrFeedMalformed},
		{"no channel", 200, "<rss><item/></rss>", "", ErrFeedMalformed},
		{"no title", 200, "<rss><channel><item/></channel></rss>", "", ErrFeedMalformed},
		{"blank title", 200, "<rss><channel><title>  </title></channel></rss>", "", ErrFeedMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := serve(t, tt.status, tt.body)

			got, err := newTestReader().FetchTitle(context.Background(), url)

			if tt.wantKind != nil {
				if !errors.Is(err, tt.wantKind) {
					t.Fatalf("error = %v, want %v", err, tt.wantKind)
				}
				var feedErr *Error
				if !errors.As(err, &feedErr) || feedErr.URL != url {
					t.Errorf("expected *Error naming %s, got %v", url, err)
				}
				if got != "" {
					t.Errorf("title = %q, want empty on failure", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("title = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReader_FetchEnclosureURLs(t *testing.T) {
	all := []string{
		"https://cdn.example.com/1.mp3",
		"https://cdn.example.com/2.mp3",
		"https://cdn.example.com/3.mp3",
	}

	tests := []struct {
		name     string
		maxCount int
		want     []string
	}{
		{"unbounded", 0, all},
		{"negative is unbounded", -1, all},
		{"limit one", 1, all[:1]},
		{"limit skips empty items", 2, all[:2]},
		{"limit above count", 10, all},
	}

	url := serve(t, 200, sampleFeed)
	reader := newTestReader()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reader.FetchEnclosureURLs(context.Background(), url, tt.maxCount)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReader_FetchEnclosureURLs_Unreachable(t *testing.T) {
	url := serve(t, 404, "")

	got, err := newTestReader().FetchEnclosureURLs(context.Background(), url, 0)
	if !errors.Is(err, ErrFeedUnreachable) {
		t.Fatalf("error = %v, want ErrFeedUnreachable", err)
	}
	if got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestReader_FetchEnclosureURLs_EmptyChannel(t *testing.T) {
	url := serve(t, 200, "<rss><channel><title>Empty</title></channel></rss>")

	got, err := newTestReader().FetchEnclosureURLs(context.Background(), url, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %#v, want empty non-nil slice", got)
	}
}

func TestReader_FetchArtworkURL(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"itunes image", sampleFeed, "https://cdn.example.com/itunes.jpg"},
		{
			"rss image preferred",
			`<rss xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd"><channel><title>x</title>
			<itunes:image href="https://cdn.example.com/itunes.jpg"/>
			<image><url> https://cdn.example.com/rss.png </url></image>
			</channel></rss>`,
			"https://cdn.example.com/rss.png",
		},
		{"none", "<rss><channel><title>x</title></channel></rss>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := serve(t, 200, tt.body)
			got, err := newTestReader().FetchArtworkURL(context.Background(), url)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse_Charset(t *testing.T) {
	data := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><rss><channel><title>Caf\xe9</title></channel></rss>")

	doc, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	title, ok := doc.Channel.Title()
	if !ok || title != "Café" {
		t.Errorf("title = %q, want %q", title, "Café")
	}
}

func TestParse_UnknownCharset(t *testing.T) {
	data := []byte(`<?xml version="1.0" encoding="x-klingon"?><rss><channel><title>x</title></channel></rss>`)
	if _, err := Parse(data); err == nil || !strings.Contains(err.Error(), "x-klingon") {
		t.Errorf("expected unsupported charset error, got %v", err)
	}
}

func TestLocator(t *testing.T) {
	loc := NewLocator("https://omny.fm/shows/", "/playlists/podcast.rss")

	want := "https://omny.fm/shows/the-encore/playlists/podcast.rss"
	if got := loc.URL("the-encore"); got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}

	show := loc.Show("tshiko")
	if show.Slug != "tshiko" || !strings.HasSuffix(show.FeedURL, "/tshiko/playlists/podcast.rss") {
		t.Errorf("Show() = %+v", show)
	}
}
