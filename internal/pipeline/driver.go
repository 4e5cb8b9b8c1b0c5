package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/handiism/podcast-segmenter/internal/audio"
	"github.com/handiism/podcast-segmenter/internal/config"
	"github.com/handiism/podcast-segmenter/internal/feed"
	"github.com/handiism/podcast-segmenter/internal/http"
	ioutils "github.com/handiism/podcast-segmenter/internal/io"
	"github.com/handiism/podcast-segmenter/internal/model"
	"go.uber.org/zap"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a pipeline progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Summary counts the outcome of a Run.
type Summary struct {
	ShowsProcessed     int
	ShowsFailed        int
	EpisodesDownloaded int
	EpisodesFailed     int
	SegmentsWritten    int
}

// Progress is a snapshot of a running pipeline, safe to read from another
// goroutine.
type Progress struct {
	ShowsDone       int64
	ShowsTotal      int64
	EpisodesDone    int64
	SegmentsWritten int64

	// BytesReceived and BytesTotal describe the current episode download.
	// BytesTotal is -1 when the server sent no Content-Length.
	BytesReceived int64
	BytesTotal    int64
}

// Driver runs shows through locate, fetch, download, split and tag.
//
// Shows, episodes and segments are processed one at a time. Failures are
// written to the error log and reported as LevelError events; they never
// stop the run.
type Driver struct {
	settings     *config.Settings
	pathCfg      *model.PathConfig
	httpClient   *http.Client
	locator      *feed.Locator
	reader       *feed.Reader
	splitter     *audio.Splitter
	tagger       *audio.Tagger
	playlist     *audio.PlaylistCreator
	imageService *ioutils.ImageService
	log          *zap.SugaredLogger

	showsDone     atomic.Int64
	showsTotal    atomic.Int64
	episodesDone  atomic.Int64
	segmentsDone  atomic.Int64
	receivedBytes atomic.Int64
	totalBytes    atomic.Int64

	onProgress func(ProgressEvent)
}

// NewCodec returns the codec selected by settings.Codec.
func NewCodec(settings *config.Settings) audio.Codec {
	if settings.Codec == config.CodecFrames {
		return audio.NewFramesCodec()
	}
	return audio.NewFFmpegCodec(settings.FFmpegPath, settings.FFprobePath)
}

// NewDriver creates a Driver from settings.
//
// errLog receives one entry per failure; nil discards them. onProgress may
// be nil.
func NewDriver(settings *config.Settings, errLog *zap.SugaredLogger, onProgress func(ProgressEvent)) *Driver {
	if errLog == nil {
		errLog = zap.NewNop().Sugar()
	}
	pathCfg := settings.ToPathConfig()
	client := http.NewClient(settings.ToHTTPConfig())

	return &Driver{
		settings:     settings,
		pathCfg:      pathCfg,
		httpClient:   client,
		locator:      feed.NewLocator(settings.FeedBaseURL, settings.FeedSuffix),
		reader:       feed.NewReader(client),
		splitter:     audio.NewSplitter(NewCodec(settings)),
		tagger:       audio.NewTagger(audio.DefaultTagConfig()),
		playlist:     audio.NewPlaylistCreator(pathCfg.PlaylistFormat, settings.M3UExtended),
		imageService: ioutils.NewImageService(),
		log:          errLog,
		onProgress:   onProgress,
	}
}

// Progress returns the current counters.
func (d *Driver) Progress() Progress {
	return Progress{
		ShowsDone:       d.showsDone.Load(),
		ShowsTotal:      d.showsTotal.Load(),
		EpisodesDone:    d.episodesDone.Load(),
		SegmentsWritten: d.segmentsDone.Load(),
		BytesReceived:   d.receivedBytes.Load(),
		BytesTotal:      d.totalBytes.Load(),
	}
}

// Run processes every slug in order.
//
// The returned error is non-nil only when the output folder cannot be
// created or ctx is cancelled; the Summary is valid in both cases.
func (d *Driver) Run(ctx context.Context, slugs []string) (Summary, error) {
	var sum Summary

	if err := ioutils.EnsureDir(d.settings.OutputFolder); err != nil {
		d.fail("cannot create output folder", err, "path", d.settings.OutputFolder)
		return sum, fmt.Errorf("create output folder: %w", err)
	}

	d.showsTotal.Store(int64(len(slugs)))
	for _, slug := range slugs {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		d.processShow(ctx, slug, &sum)
		d.showsDone.Add(1)
	}

	if err := ctx.Err(); err != nil {
		return sum, err
	}

	d.progress(ProgressEvent{
		Message: fmt.Sprintf("Done: %d shows, %d episodes, %d segments", sum.ShowsProcessed, sum.EpisodesDownloaded, sum.SegmentsWritten),
		Level:   LevelSuccess,
	})
	return sum, nil
}

// Preview fetches each show's title and enclosure list without
// downloading anything. Shows whose feed fails are reported and omitted.
func (d *Driver) Preview(ctx context.Context, slugs []string) []*model.Feed {
	var feeds []*model.Feed
	for _, slug := range slugs {
		if ctx.Err() != nil {
			break
		}
		show := d.locator.Show(slug)

		title, err := d.reader.FetchTitle(ctx, show.FeedURL)
		if err != nil {
			d.fail("feed title unavailable", err, "slug", slug, "url", show.FeedURL)
			continue
		}
		urls, err := d.reader.FetchEnclosureURLs(ctx, show.FeedURL, d.settings.MaxEpisodes)
		if err != nil {
			d.fail("feed enclosures unavailable", err, "slug", slug, "url", show.FeedURL)
			continue
		}

		f := model.NewFeed(title, "", d.pathCfg)
		for _, u := range urls {
			f.AddEpisode(u)
		}
		feeds = append(feeds, f)
	}
	return feeds
}

func (d *Driver) processShow(ctx context.Context, slug string, sum *Summary) {
	show := d.locator.Show(slug)
	d.progress(ProgressEvent{Message: fmt.Sprintf("Fetching feed: %s", show.FeedURL), Level: LevelInfo})

	title, err := d.reader.FetchTitle(ctx, show.FeedURL)
	if err != nil {
		d.fail("feed title unavailable", err, "slug", slug, "url", show.FeedURL)
		sum.ShowsFailed++
		return
	}

	var artworkURL string
	if d.settings.SaveCoverArt {
		if artworkURL, err = d.reader.FetchArtworkURL(ctx, show.FeedURL); err != nil {
			d.warn(fmt.Sprintf("No artwork for %s: %v", title, err))
		}
	}

	f := model.NewFeed(title, artworkURL, d.pathCfg)
	if err := ioutils.EnsureDir(f.Path); err != nil {
		d.fail("cannot create podcast folder", err, "slug", slug, "path", f.Path)
		sum.ShowsFailed++
		return
	}

	urls, err := d.reader.FetchEnclosureURLs(ctx, show.FeedURL, d.settings.MaxEpisodes)
	if err != nil {
		d.fail("feed enclosures unavailable", err, "slug", slug, "url", show.FeedURL)
		sum.ShowsFailed++
		return
	}
	sum.ShowsProcessed++
	d.progress(ProgressEvent{Message: fmt.Sprintf("Found podcast: %s (%d episodes)", title, len(urls)), Level: LevelInfo})

	artwork := d.coverArt(ctx, f)

	var saved []*model.Episode
	failed := 0
	for _, u := range urls {
		if ctx.Err() != nil {
			return
		}
		ep := f.AddEpisode(u)
		if d.processEpisode(ctx, ep, artwork, sum) {
			saved = append(saved, ep)
		} else {
			failed++
		}
	}

	if d.settings.CreatePlaylist && len(saved) > 0 {
		content := d.playlist.CreatePlaylist(f.Title, saved)
		if err := ioutils.WriteFile(ctx, f.PlaylistPath, []byte(content)); err != nil {
			d.warn(fmt.Sprintf("Error creating playlist: %v", err))
		} else {
			d.progress(ProgressEvent{Message: fmt.Sprintf("Created playlist for %s", f.Title), Level: LevelVerbose})
		}
	}

	if failed == 0 {
		d.progress(ProgressEvent{Message: fmt.Sprintf("Finished podcast: %s", f.Title), Level: LevelSuccess})
	} else {
		d.warn(fmt.Sprintf("Finished %s, %d episodes failed", f.Title, failed))
	}
}

// processEpisode reports whether the episode file was saved. Segmentation
// and tagging failures leave the saved file in place.
func (d *Driver) processEpisode(ctx context.Context, ep *model.Episode, artwork []byte, sum *Summary) bool {
	d.progress(ProgressEvent{Message: fmt.Sprintf("Downloading: %s", ep.Label()), Level: LevelVerbose})

	d.receivedBytes.Store(0)
	d.totalBytes.Store(0)
	data, err := d.httpClient.DownloadBytes(ctx, ep.AudioURL, func(written, total int64) {
		d.receivedBytes.Store(written)
		d.totalBytes.Store(total)
	})
	if err != nil {
		d.fail("episode download failed", err, "episode", ep.Label(), "url", ep.AudioURL)
		sum.EpisodesFailed++
		return false
	}

	if err := ioutils.EnsureDir(ep.Dir); err != nil {
		d.fail("cannot create episode folder", err, "episode", ep.Label(), "path", ep.Dir)
		sum.EpisodesFailed++
		return false
	}
	if err := ioutils.WriteFile(ctx, ep.Path, data); err != nil {
		d.fail("cannot write episode", err, "episode", ep.Label(), "path", ep.Path)
		sum.EpisodesFailed++
		return false
	}
	sum.EpisodesDownloaded++
	d.episodesDone.Add(1)
	d.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded: %s", ep.RelativePath()), Level: LevelVerbose})

	d.splitter.OnSegment = func(seg *model.Segment) {
		d.segmentsDone.Add(1)
		if d.settings.TagSegments {
			if err := d.tagger.TagSegment(seg, ep); err != nil {
				d.fail("cannot tag segment", err, "path", seg.Path)
			}
		}
	}
	n, err := d.splitter.SplitEpisode(ctx, ep, d.settings.SegmentLength())
	sum.SegmentsWritten += n
	if err != nil {
		d.fail("segmentation failed", err, "episode", ep.Label(), "path", ep.Path)
	} else {
		d.progress(ProgressEvent{Message: fmt.Sprintf("Split %s into %d segments", ep.Label(), n), Level: LevelInfo})
	}

	if d.settings.TagEpisodes {
		if err := d.tagger.TagEpisode(ep, artwork); err != nil {
			d.fail("cannot tag episode", err, "path", ep.Path)
		}
	}
	return true
}

// coverArt downloads and saves the channel artwork. The returned bytes are
// embedded in episode tags; nil when disabled or unavailable.
func (d *Driver) coverArt(ctx context.Context, f *model.Feed) []byte {
	if !d.settings.SaveCoverArt || !f.HasArtwork() {
		return nil
	}

	data, err := d.httpClient.DownloadBytes(ctx, f.ArtworkURL, nil)
	if err != nil {
		d.fail("artwork download failed", err, "url", f.ArtworkURL)
		return nil
	}

	cover, err := d.imageService.PrepareCoverArt(ctx, data, d.settings.CoverArtMaxSize, d.settings.ConvertCoverArtToJPG)
	if err != nil {
		d.fail("artwork unusable", err, "url", f.ArtworkURL)
		return nil
	}

	if err := ioutils.WriteFile(ctx, f.ArtworkPath, cover); err != nil {
		d.warn(fmt.Sprintf("Error saving artwork: %v", err))
	}
	d.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded artwork for %s", f.Title), Level: LevelVerbose})
	return cover
}

// fail records err in the error log and emits a LevelError event.
func (d *Driver) fail(msg string, err error, keysAndValues ...any) {
	fields := append(keysAndValues, "error", err.Error())
	var statusErr *http.StatusError
	if errors.As(err, &statusErr) {
		fields = append(fields, "status", statusErr.Code)
	}
	d.log.Errorw(msg, fields...)
	d.progress(ProgressEvent{Message: fmt.Sprintf("%s: %v", msg, err), Level: LevelError})
}

func (d *Driver) warn(msg string) {
	d.progress(ProgressEvent{Message: msg, Level: LevelWarning})
}

func (d *Driver) progress(event ProgressEvent) {
	if d.onProgress != nil {
		d.onProgress(event)
	}
}
