package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFile_Replaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Show_1.mp3")
	ctx := context.Background()

	if err := WriteFile(ctx, path, []byte("first run, longer content")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := WriteFile(ctx, path, []byte("second")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Errorf("content = %q, want %q", got, "second")
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected only the target file, found %d entries", len(entries))
	}
}

func TestWriteFile_MissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "file.mp3")
	if err := WriteFile(context.Background(), path, []byte("x")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestWriteFile_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "file.mp3")
	if err := WriteFile(ctx, path, []byte("x")); err == nil {
		t.Error("expected error for cancelled context")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file should not exist")
	}
}

func TestEnsureDir_Idempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Show", "Episode_1")

	for i := 0; i < 2; i++ {
		if err := EnsureDir(dir); err != nil {
			t.Fatalf("EnsureDir call %d failed: %v", i+1, err)
		}
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("directory not created: %v", err)
	}
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestImageService_PrepareCoverArt(t *testing.T) {
	svc := NewImageService()
	ctx := context.Background()
	src := testPNG(t, 300, 150)

	tests := []struct {
		name     string
		maxSize  int
		toJPEG   bool
		wantJPEG bool
		wantW    int
		wantH    int
	}{
		{"resize", 100, false, true, 100, 50},
		{"convert only", 0, true, true, 300, 150},
		{"unchanged", 0, false, false, 300, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := svc.PrepareCoverArt(ctx, src, tt.maxSize, tt.toJPEG)
			if err != nil {
				t.Fatalf("PrepareCoverArt failed: %v", err)
			}

			cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
			if err != nil {
				t.Fatalf("output does not decode: %v", err)
			}
			if tt.wantJPEG && format != "jpeg" {
				t.Errorf("format = %s, want jpeg", format)
			}
			if !tt.wantJPEG && !bytes.Equal(out, src) {
				t.Error("data should be returned unchanged")
			}
			if cfg.Width != tt.wantW || cfg.Height != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", cfg.Width, cfg.Height, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestImageService_PrepareCoverArtInvalid(t *testing.T) {
	svc := NewImageService()
	if _, err := svc.PrepareCoverArt(context.Background(), []byte("<html/>"), 0, false); err == nil {
		t.Error("expected error for non-image data")
	}
}

func TestImageService_ConvertToJPEG(t *testing.T) {
	out, err := NewImageService().ConvertToJPEG(context.Background(), testPNG(t, 10, 10))
	if err != nil {
		t.Fatalf("ConvertToJPEG failed: %v", err)
	}
	if _, err := jpeg.Decode(bytes.NewReader(out)); err != nil {
		t.Errorf("output is not JPEG: %v", err)
	}
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		w, h, maxW, maxH int
		wantW, wantH     int
	}{
		{1500, 1000, 1000, 1000, 1000, 666},
		{1000, 1500, 1000, 1000, 666, 1000},
		{800, 600, 1000, 1000, 800, 600},
		{3000, 1, 1000, 1000, 1000, 1},
	}

	for _, tt := range tests {
		w, h := fitWithin(tt.w, tt.h, tt.maxW, tt.maxH)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("fitWithin(%d, %d) = %dx%d, want %dx%d", tt.w, tt.h, w, h, tt.wantW, tt.wantH)
		}
	}
}
