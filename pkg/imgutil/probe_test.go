package imgutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestSniffPNG(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	pngPath := encodePNG(t, dir, "real.png", 6, 4)
	ok, err := SniffPNG(pngPath)
	if err != nil || !ok {
		t.Errorf("SniffPNG(png) = %v, %v", ok, err)
	}

	fakePath := filepath.Join(dir, "fake.png")
	if err := os.WriteFile(fakePath, []byte("JFIF-ish junk"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ok, err = SniffPNG(fakePath)
	if err != nil || ok {
		t.Errorf("SniffPNG(junk) = %v, %v", ok, err)
	}

	tinyPath := filepath.Join(dir, "tiny")
	if err := os.WriteFile(tinyPath, []byte{0x89}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ok, err = SniffPNG(tinyPath)
	if err != nil || ok {
		t.Errorf("SniffPNG(short file) = %v, %v", ok, err)
	}
}

func TestProbe(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := encodePNG(t, dir, "dims.png", 130, 55)

	dims, err := Probe(path)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if dims.Width != 130 || dims.Height != 55 {
		t.Errorf("dims = %dx%d, want 130x55", dims.Width, dims.Height)
	}
	if dims.SizeBytes <= 0 {
		t.Errorf("size = %d", dims.SizeBytes)
	}
}

func TestHalvePNG(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		w, h  int
		wantW int
		wantH int
	}{
		{name: "even", w: 8, h: 6, wantW: 4, wantH: 3},
		{name: "odd rounds down", w: 9, h: 7, wantW: 4, wantH: 3},
		{name: "one pixel clamps", w: 1, h: 1, wantW: 1, wantH: 1},
		{name: "thin strip clamps height", w: 100, h: 1, wantW: 50, wantH: 1},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			img := image.NewRGBA(image.Rect(0, 0, tc.w, tc.h))
			img.Set(0, 0, color.RGBA{R: 0xff, A: 0xff})
			var buf bytes.Buffer
			if err := png.Encode(&buf, img); err != nil {
				t.Fatalf("encode: %v", err)
			}

			halved, err := HalvePNG(buf.Bytes())
			if err != nil {
				t.Fatalf("HalvePNG: %v", err)
			}

			cfg, err := png.DecodeConfig(bytes.NewReader(halved))
			if err != nil {
				t.Fatalf("decode halved: %v", err)
			}
			if cfg.Width != tc.wantW || cfg.Height != tc.wantH {
				t.Errorf("halved = %dx%d, want %dx%d", cfg.Width, cfg.Height, tc.wantW, tc.wantH)
			}
		})
	}
}

func encodePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{G: 0xff, A: 0xff})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}
