package audio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// FFmpegCodec checks streams with ffprobe, then decodes and exports with ffmpeg.
//
// Exported segments are re-encoded with libmp3lame, so their length matches
// the requested window to the sample rather than to the frame.
type FFmpegCodec struct {
	FFmpegPath  string
	FFprobePath string
}

// NewFFmpegCodec creates a codec using the given binaries. Empty paths
// fall back to "ffmpeg" and "ffprobe" on PATH.
func NewFFmpegCodec(ffmpegPath, ffprobePath string) *FFmpegCodec {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFmpegCodec{FFmpegPath: ffmpegPath, FFprobePath: ffprobePath}
}

// ProbeResult is the subset of ffprobe JSON output the codec reads.
type ProbeResult struct {
	Format  FormatInfo   `json:"format"`
	Streams []StreamInfo `json:"streams"`
}

// FormatInfo is the ffprobe "format" section.
type FormatInfo struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Bitrate    string `json:"bit_rate"`
}

// StreamInfo is one entry of the ffprobe "streams" section.
type StreamInfo struct {
	CodecType  string `json:"codec_type"`
	CodecName  string `json:"codec_name"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

// Probe runs ffprobe on path.
func (c *FFmpegCodec) Probe(ctx context.Context, path string) (*ProbeResult, error) {
	cmd := exec.CommandContext(ctx, c.FFprobePath,
		"-v", "quiet", "-print_format", "json", "-show_format", "-show_streams", path)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}
	var result ProbeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	return &result, nil
}

// AudioCodec returns the codec name of the first audio stream.
func (r *ProbeResult) AudioCodec() string {
	for _, s := range r.Streams {
		if s.CodecType == "audio" {
			return s.CodecName
		}
	}
	return ""
}

// Duration returns the container duration. For VBR files without a
// Xing or VBRI header ffprobe estimates it from the bitrate.
func (r *ProbeResult) Duration() time.Duration {
	seconds, _ := strconv.ParseFloat(r.Format.Duration, 64)
	return time.Duration(math.Round(seconds * float64(time.Second)))
}

// Open probes path, requires an mp3 audio stream and decodes the stream
// once to measure its length.
func (c *FFmpegCodec) Open(ctx context.Context, path string) (Source, error) {
	probe, err := c.Probe(ctx, path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w: %w", path, ErrDecode, err)
	}
	if codec := probe.AudioCodec(); codec != "mp3" {
		return nil, fmt.Errorf("%s: %w: audio codec %q", path, ErrDecode, codec)
	}

	duration, err := c.DecodedDuration(ctx, path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w: %w", path, ErrDecode, err)
	}
	return &ffmpegSource{codec: c, path: path, duration: duration}, nil
}

// DecodedDuration decodes the first audio stream of path into the null
// muxer and returns the timestamp reached at the end of the stream.
func (c *FFmpegCodec) DecodedDuration(ctx context.Context, path string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, c.FFmpegPath,
		"-hide_banner", "-nostats", "-loglevel", "error",
		"-i", path,
		"-map", "0:a:0",
		"-f", "null",
		"-progress", "pipe:1",
		"-",
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffmpeg decode failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return parseProgress(bytes.NewReader(output))
}

var errNoProgress = errors.New("ffmpeg reported no decoded audio")

// parseProgress returns the last out_time_us (or the older, equally
// microsecond based out_time_ms) of ffmpeg -progress output.
func parseProgress(r io.Reader) (time.Duration, error) {
	var last time.Duration
	found := false

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(sc.Text()), "=")
		if !ok || (key != "out_time_us" && key != "out_time_ms") {
			continue
		}
		us, err := strconv.ParseInt(value, 10, 64)
		if err != nil || us < 0 {
			continue
		}
		last = time.Duration(us) * time.Microsecond
		found = true
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	if !found || last == 0 {
		return 0, errNoProgress
	}
	return last, nil
}

type ffmpegSource struct {
	codec    *FFmpegCodec
	path     string
	duration time.Duration
}

func (s *ffmpegSource) Duration() time.Duration { return s.duration }

func (s *ffmpegSource) Export(ctx context.Context, dst string, start, end time.Duration) error {
	cmd := exec.CommandContext(ctx, s.codec.FFmpegPath,
		"-hide_banner", "-loglevel", "error", "-y",
		"-ss", seconds(start),
		"-t", seconds(end-start),
		"-i", s.path,
		"-vn", "-map_metadata", "-1",
		"-c:a", "libmp3lame",
		"-f", "mp3",
		dst,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg export %s: %w: %s", dst, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (s *ffmpegSource) Close() error { return nil }

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
