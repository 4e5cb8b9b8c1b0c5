package ioutils

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const jpegQuality = 90

// ImageService prepares channel artwork for cover.jpg and APIC frames.
//
//	svc := NewImageService()
//	art, _ := client.DownloadBytes(ctx, feed.ArtworkURL, nil)
//	cover, _ := svc.PrepareCoverArt(ctx, art, 1000, true)
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// ResizeImage scales data down to fit within maxWidth x maxHeight and
// returns it as JPEG. Smaller images keep their size but are re-encoded.
func (s *ImageService) ResizeImage(ctx context.Context, data []byte, maxWidth, maxHeight int) ([]byte, error) {
	img, err := decodeImage(ctx, data)
	if err != nil {
		return nil, err
	}

	src := img.Bounds()
	w, h := fitWithin(src.Dx(), src.Dy(), maxWidth, maxHeight)
	if w == src.Dx() && h == src.Dy() {
		return encodeJPEG(img)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Over, nil)
	return encodeJPEG(dst)
}

// ConvertToJPEG re-encodes any supported image (JPEG, PNG, GIF, WebP) as JPEG.
func (s *ImageService) ConvertToJPEG(ctx context.Context, data []byte) ([]byte, error) {
	img, err := decodeImage(ctx, data)
	if err != nil {
		return nil, err
	}
	return encodeJPEG(img)
}

// PrepareCoverArt turns downloaded channel artwork into the bytes saved as
// cover.jpg and embedded in tags.
//
// maxSize > 0 resizes to fit within maxSize x maxSize (always JPEG output).
// Otherwise toJPEG re-encodes the image as JPEG. With neither, data is
// returned unchanged after checking it decodes as an image.
func (s *ImageService) PrepareCoverArt(ctx context.Context, data []byte, maxSize int, toJPEG bool) ([]byte, error) {
	if maxSize > 0 {
		return s.ResizeImage(ctx, data, maxSize, maxSize)
	}
	if toJPEG {
		return s.ConvertToJPEG(ctx, data)
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("cover art: %w", err)
	}
	return data, nil
}

// fitWithin returns w x h scaled down to the largest size inside
// maxW x maxH with the same aspect ratio. Sizes that fit are returned as is.
func fitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	if w*maxH > h*maxW {
		return maxW, max(1, h*maxW/w)
	}
	return max(1, w*maxH/h), maxH
}

func decodeImage(ctx context.Context, data []byte) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cover art: %w", err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("cover art: empty image")
	}
	return img, nil
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
