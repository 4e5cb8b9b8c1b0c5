package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tcolgate/mp3"
)

// FramesCodec decodes MPEG audio frame headers in Go.
//
// The timeline is the sequence of frames. A segment is the run of frames
// whose start time lies in the window, copied without re-encoding, so
// segment boundaries are accurate to one frame (about 26ms at 44.1kHz).
type FramesCodec struct{}

// NewFramesCodec creates a FramesCodec.
func NewFramesCodec() *FramesCodec {
	return &FramesCodec{}
}

type frame struct {
	start time.Duration
	data  []byte
}

// Open reads path into memory and indexes its frames.
func (c *FramesCodec) Open(ctx context.Context, path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	frames, total, err := decodeFrames(ctx, stripID3v2(data))
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("%s: %w: no MPEG audio frames", path, ErrDecode)
	}
	return &framesSource{frames: frames, duration: total}, nil
}

func decodeFrames(ctx context.Context, data []byte) ([]frame, time.Duration, error) {
	d := mp3.NewDecoder(bytes.NewReader(data))

	var (
		frames  []frame
		total   time.Duration
		f       mp3.Frame
		skipped int
	)
	for {
		if len(frames)%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
		}
		if err := d.Decode(&f, &skipped); err != nil {
			// io.EOF, or a truncated or garbage tail, ends the timeline.
			break
		}
		raw, err := io.ReadAll(f.Reader())
		if err != nil {
			break
		}
		frames = append(frames, frame{start: total, data: raw})
		total += f.Duration()
	}
	return frames, total, nil
}

// stripID3v2 drops a leading ID3v2 tag.
func stripID3v2(data []byte) []byte {
	if len(data) < 10 || string(data[:3]) != "ID3" {
		return data
	}
	size := int(data[6]&0x7f)<<21 | int(data[7]&0x7f)<<14 | int(data[8]&0x7f)<<7 | int(data[9]&0x7f)
	size += 10
	if data[5]&0x10 != 0 {
		size += 10 // footer
	}
	if size > len(data) {
		return nil
	}
	return data[size:]
}

type framesSource struct {
	frames   []frame
	duration time.Duration
}

func (s *framesSource) Duration() time.Duration { return s.duration }

func (s *framesSource) Export(ctx context.Context, dst string, start, end time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	for _, f := range s.frames {
		if f.start < start {
			continue
		}
		if f.start >= end {
			break
		}
		buf.Write(f.data)
	}
	return os.WriteFile(dst, buf.Bytes(), 0644)
}

func (s *framesSource) Close() error {
	s.frames = nil
	return nil
}
