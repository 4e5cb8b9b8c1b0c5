// Package config provides configuration management for podcast-segmenter.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Environment overrides (PODCAST_*, FFMPEG_PATH, FFPROBE_PATH)
//   - Conversion to PathConfig for the model package
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Feeds from https://omny.fm/shows/<slug>/playlists/podcast.rss
//	// 15 second segments, ffmpeg codec
//	// Output to ~/Podcasts
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//	settings.ApplyEnv()
//	if err := settings.Validate(); err != nil {
//	    // reject
//	}
package config
