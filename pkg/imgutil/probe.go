package imgutil

import (
	"errors"
	"image"
	_ "image/png"
	"io"
	"os"
)

var pngSig = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

// IsPNGHeader reports whether header starts with the PNG signature.
func IsPNGHeader(header []byte) bool {
	if len(header) < len(pngSig) {
		return false
	}
	for i := range pngSig {
		if header[i] != pngSig[i] {
			return false
		}
	}
	return true
}

// SniffPNG reads the first 8 bytes of the file at path and reports whether
// it is a PNG. The file is opened read-only and never modified.
func SniffPNG(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	header := make([]byte, 8)
	if _, err := io.ReadFull(f, header); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return false, nil
		}
		return false, err
	}
	return IsPNGHeader(header), nil
}

// Dimensions holds pixel geometry and byte size for an image file.
type Dimensions struct {
	Width     int
	Height    int
	SizeBytes int64
}

// Probe reads just enough of the file at path to determine its pixel
// dimensions. Only the header is decoded; pixel data is never loaded.
func Probe(path string) (Dimensions, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dimensions{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Dimensions{}, err
	}

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return Dimensions{}, err
	}

	return Dimensions{Width: cfg.Width, Height: cfg.Height, SizeBytes: info.Size()}, nil
}
