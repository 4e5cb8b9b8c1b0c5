package audio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/handiism/podcast-segmenter/internal/model"
)

// ErrInvalidLength is returned for a segment length that is not positive.
var ErrInvalidLength = errors.New("segment length must be positive")

// Span is a half-open time window [Start, End).
type Span struct {
	Start time.Duration
	End   time.Duration
}

// Plan divides total into consecutive windows of exactly length.
//
// The trailing remainder shorter than length is dropped, so Plan returns
// floor(total/length) spans. A non-positive length yields no spans.
//
// Example:
//
//	Plan(40*time.Second, 15*time.Second)
//	// [{0s 15s} {15s 30s}]
func Plan(total, length time.Duration) []Span {
	if length <= 0 || total < length {
		return nil
	}
	n := int(total / length)
	spans := make([]Span, n)
	for i := range spans {
		start := time.Duration(i) * length
		spans[i] = Span{Start: start, End: start + length}
	}
	return spans
}

// Splitter cuts an episode into fixed-length segment files.
//
// Example usage:
//
//	splitter := NewSplitter(NewFFmpegCodec("", ""))
//	n, err := splitter.Split(ctx, "/out/Show/Episode_1/Show_1.mp3", "/out/Show/Episode_1", 15*time.Second)
//	if errors.Is(err, ErrDecode) {
//	    // not an MP3
//	}
type Splitter struct {
	codec Codec

	// OnSegment is called after each segment file is written.
	OnSegment func(seg *model.Segment)
}

// NewSplitter creates a Splitter that decodes and exports with codec.
func NewSplitter(codec Codec) *Splitter {
	return &Splitter{codec: codec}
}

// Split writes Segment_1.mp3 .. Segment_n.mp3 into outputDir, where n is
// floor(duration/length), and returns n.
//
// On an export failure the number of segments already written is returned
// together with the error. Existing segment files are overwritten.
func (s *Splitter) Split(ctx context.Context, audioPath, outputDir string, length time.Duration) (int, error) {
	n, _, err := s.split(ctx, audioPath, outputDir, length)
	return n, err
}

// SplitEpisode splits ep into its own folder and records the decoded
// duration on ep.
func (s *Splitter) SplitEpisode(ctx context.Context, ep *model.Episode, length time.Duration) (int, error) {
	n, total, err := s.split(ctx, ep.Path, ep.Dir, length)
	if total > 0 {
		ep.Duration = total
	}
	return n, err
}

func (s *Splitter) split(ctx context.Context, audioPath, outputDir string, length time.Duration) (int, time.Duration, error) {
	if length <= 0 {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidLength, length)
	}

	src, err := s.codec.Open(ctx, audioPath)
	if err != nil {
		return 0, 0, err
	}
	defer src.Close()

	total := src.Duration()
	written := 0
	for i, span := range Plan(total, length) {
		seg := model.NewSegment(outputDir, i+1, span.Start, span.End)
		if err := src.Export(ctx, seg.Path, seg.Start, seg.End); err != nil {
			return written, total, fmt.Errorf("export segment %d of %s: %w", seg.Index, audioPath, err)
		}
		written++
		if s.OnSegment != nil {
			s.OnSegment(seg)
		}
	}
	return written, total, nil
}
