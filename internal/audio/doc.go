// Package audio splits MP3 episodes into fixed-length segments and writes
// their ID3 tags and playlists.
//
// # Splitting
//
// A Codec opens an MP3 file as a timeline; the Splitter cuts it into
// consecutive windows of exactly the segment length:
//
//	splitter := audio.NewSplitter(audio.NewFFmpegCodec("ffmpeg", "ffprobe"))
//	n, err := splitter.Split(ctx, episodePath, episodeDir, 15*time.Second)
//
// Two codecs are available:
//   - FFmpegCodec probes with ffprobe and re-encodes each window with ffmpeg
//   - FramesCodec indexes MPEG frames in Go and copies whole frames
//
// A trailing remainder shorter than the segment length is not written.
// Files that do not decode as MP3 yield an error matching ErrDecode.
//
// # ID3 Tagging
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	err := tagger.TagEpisode(ep, artworkBytes)
//	err = tagger.TagSegment(seg, ep)
//
// # Playlist Generation
//
//	creator := audio.NewPlaylistCreator(model.PlaylistFormatM3U, true) // extended M3U
//	content := creator.CreatePlaylist(feed.Title, episodes)
//	os.WriteFile(feed.PlaylistPath, []byte(content), 0644)
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
//   - WPL (Windows Media Player)
//   - ZPL (Zune Media Player)
package audio
