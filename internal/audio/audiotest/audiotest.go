// Package audiotest builds synthetic MP3 data for tests.
package audiotest

import (
	"bytes"
	"time"
)

// FrameSize is the byte length of one MPEG-1 Layer III frame at 128kbps,
// 44.1kHz, without padding.
const FrameSize = 417

// FrameDuration is the playing time of one frame: 1152 samples at 44.1kHz.
const FrameDuration = time.Second * 1152 / 44100

// Frames returns n silent MPEG-1 Layer III frames.
func Frames(n int) []byte {
	frame := make([]byte, FrameSize)
	copy(frame, []byte{0xFF, 0xFB, 0x90, 0x00})
	return bytes.Repeat(frame, n)
}

// WithID3v2 prefixes data with an empty ID3v2.4 tag of padding bytes.
func WithID3v2(data []byte, padding int) []byte {
	header := []byte{
		'I', 'D', '3', 4, 0, 0,
		byte(padding>>21&0x7f),
		byte(padding>>14&0x7f),
		byte(padding>>7&0x7f),
		byte(padding&0x7f),
	}
	out := append(header, make([]byte, padding)...)
	return append(out, data...)
}
