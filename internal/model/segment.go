package model

import (
	"fmt"
	"path/filepath"
	"time"
)

// Segment is a contiguous time slice [Start, End) of an episode.
type Segment struct {
	// Index is the 1-based position of the segment.
	Index int

	// Start is the offset of the first sample.
	Start time.Duration

	// End is the exclusive end offset.
	End time.Duration

	// Path is the segment file.
	Path string
}

// NewSegment creates the segment with the given index inside dir.
func NewSegment(dir string, index int, start, end time.Duration) *Segment {
	return &Segment{
		Index: index,
		Start: start,
		End:   end,
		Path:  filepath.Join(dir, SegmentFileName(index)),
	}
}

// Length returns End - Start.
func (s *Segment) Length() time.Duration {
	return s.End - s.Start
}

// SegmentFileName returns Segment_<index>.mp3.
func SegmentFileName(index int) string {
	return fmt.Sprintf("Segment_%d.mp3", index)
}
