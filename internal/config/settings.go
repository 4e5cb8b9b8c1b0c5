package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/handiism/podcast-segmenter/internal/http"
	"github.com/handiism/podcast-segmenter/internal/model"
)

// Codec names accepted in Settings.Codec.
const (
	CodecFFmpeg = "ffmpeg"
	CodecFrames = "frames"
)

// Settings holds all configuration options.
type Settings struct {
	// Input
	Shows        []string `json:"shows"`
	FeedBaseURL  string   `json:"feed_base_url"`
	FeedSuffix   string   `json:"feed_suffix"`
	MaxEpisodes  int      `json:"max_episodes"` // 0 = unbounded
	OutputFolder string   `json:"output_folder"`

	// Segmentation
	SegmentLengthMs int    `json:"segment_length_ms"`
	Codec           string `json:"codec"` // ffmpeg, frames
	FFmpegPath      string `json:"ffmpeg_path"`
	FFprobePath     string `json:"ffprobe_path"`

	// HTTP
	UserAgent             string `json:"user_agent"`
	ConnectTimeoutSeconds int    `json:"connect_timeout_seconds"`
	ReadTimeoutSeconds    int    `json:"read_timeout_seconds"`

	// Logging
	ErrorLogPath string `json:"error_log_path"`

	// Tag settings
	TagEpisodes bool `json:"tag_episodes"`
	TagSegments bool `json:"tag_segments"`

	// Cover art settings
	SaveCoverArt         bool `json:"save_cover_art"`
	CoverArtMaxSize      int  `json:"cover_art_max_size"` // 0 = keep original size
	ConvertCoverArtToJPG bool `json:"convert_cover_art_to_jpg"`

	// Playlist settings
	CreatePlaylist bool   `json:"create_playlist"`
	PlaylistFormat string `json:"playlist_format"` // m3u, pls, wpl, zpl
	M3UExtended    bool   `json:"m3u_extended"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		FeedBaseURL:  "https://omny.fm/shows/",
		FeedSuffix:   "/playlists/podcast.rss",
		MaxEpisodes:  0,
		OutputFolder: filepath.Join(homeDir, "Podcasts"),

		SegmentLengthMs: 15000,
		Codec:           CodecFFmpeg,
		FFmpegPath:      "ffmpeg",
		FFprobePath:     "ffprobe",

		UserAgent:             "PodcastSegmenter",
		ConnectTimeoutSeconds: 30,
		ReadTimeoutSeconds:    60,

		ErrorLogPath: "podcast_downloader.log",

		TagEpisodes: true,
		TagSegments: true,

		SaveCoverArt:         false,
		CoverArtMaxSize:      1000,
		ConvertCoverArtToJPG: true,

		CreatePlaylist: false,
		PlaylistFormat: "m3u",
		M3UExtended:    true,
	}
}

// Load reads settings from a JSON file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides settings from PODCAST_* environment variables.
//
// PODCAST_SHOWS is a comma separated slug list. Unparseable numbers are ignored.
func (s *Settings) ApplyEnv() {
	if v := os.Getenv("PODCAST_SHOWS"); v != "" {
		s.Shows = SplitShows(v)
	}
	s.OutputFolder = env("PODCAST_OUTPUT_FOLDER", s.OutputFolder)
	s.MaxEpisodes = envInt("PODCAST_MAX_EPISODES", s.MaxEpisodes)
	s.SegmentLengthMs = envInt("PODCAST_SEGMENT_LENGTH_MS", s.SegmentLengthMs)
	s.FeedBaseURL = env("PODCAST_FEED_BASE_URL", s.FeedBaseURL)
	s.Codec = env("PODCAST_CODEC", s.Codec)
	s.FFmpegPath = env("FFMPEG_PATH", s.FFmpegPath)
	s.FFprobePath = env("FFPROBE_PATH", s.FFprobePath)
	s.ErrorLogPath = env("PODCAST_ERROR_LOG", s.ErrorLogPath)
}

// Validate reports settings the pipeline cannot run with.
func (s *Settings) Validate() error {
	if s.SegmentLengthMs <= 0 {
		return fmt.Errorf("segment_length_ms must be positive, got %d", s.SegmentLengthMs)
	}
	if s.OutputFolder == "" {
		return fmt.Errorf("output_folder is required")
	}
	switch s.Codec {
	case CodecFFmpeg, CodecFrames:
	default:
		return fmt.Errorf("unknown codec %q (want %s or %s)", s.Codec, CodecFFmpeg, CodecFrames)
	}
	if _, err := model.ParsePlaylistFormat(s.PlaylistFormat); err != nil {
		return err
	}
	return nil
}

// ToPathConfig converts settings to PathConfig.
func (s *Settings) ToPathConfig() *model.PathConfig {
	pf, _ := model.ParsePlaylistFormat(s.PlaylistFormat)
	return &model.PathConfig{
		OutputFolder:     s.OutputFolder,
		CoverArtFileName: "cover",
		PlaylistFormat:   pf,
	}
}

// ToHTTPConfig converts settings to the HTTP client configuration.
func (s *Settings) ToHTTPConfig() http.Config {
	return http.Config{
		UserAgent:      s.UserAgent,
		ConnectTimeout: time.Duration(s.ConnectTimeoutSeconds) * time.Second,
		ReadTimeout:    time.Duration(s.ReadTimeoutSeconds) * time.Second,
	}
}

// SegmentLength returns SegmentLengthMs as a duration.
func (s *Settings) SegmentLength() time.Duration {
	return time.Duration(s.SegmentLengthMs) * time.Millisecond
}

// SplitShows splits a comma or newline separated slug list, dropping blanks.
func SplitShows(input string) []string {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	var shows []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			shows = append(shows, f)
		}
	}
	return shows
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
