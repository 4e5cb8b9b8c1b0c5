package audio

import (
	"context"
	"errors"
	"time"
)

// ErrDecode is returned when a file cannot be decoded as MP3 audio.
var ErrDecode = errors.New("cannot decode audio")

// Codec opens MP3 files as seekable timelines.
type Codec interface {
	// Open decodes path. A file that is not MP3 audio yields an error
	// matching ErrDecode.
	Open(ctx context.Context, path string) (Source, error)
}

// Source is an opened audio timeline.
type Source interface {
	// Duration returns the total length of the audio.
	Duration() time.Duration

	// Export writes the window [start, end) to dst as an MP3 file,
	// replacing dst if it exists.
	Export(ctx context.Context, dst string, start, end time.Duration) error

	// Close releases resources held by the source.
	Close() error
}
