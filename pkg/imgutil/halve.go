package imgutil

import (
	"bytes"
	"image"
	"image/png"
)

// HalvePNG re-encodes the PNG at half its width and height (each clamped to
// at least 1px) using nearest-neighbor sampling. Used to shrink the vision
// API submission; the file on disk is never touched.
func HalvePNG(data []byte) ([]byte, error) {
	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	w := bounds.Dx() / 2
	if w < 1 {
		w = 1
	}
	h := bounds.Dy() / 2
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		srcY := bounds.Min.Y + y*bounds.Dy()/h
		for x := 0; x < w; x++ {
			srcX := bounds.Min.X + x*bounds.Dx()/w
			dst.Set(x, y, src.At(srcX, srcY))
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
