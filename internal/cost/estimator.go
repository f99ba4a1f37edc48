// Package cost estimates what a batch of screenshots would cost to send to
// the vision API, entirely offline. Billing is per 512x512 tile covering the
// image, plus a fixed base, so the estimate is a pure function of geometry.
package cost

import (
	"errors"
	"fmt"
)

const (
	// TileSize is the edge length in pixels of one billed vision tile.
	TileSize = 512
	// BaseTokens is the fixed per-image token overhead.
	BaseTokens = 2833
	// TileTokens is the token cost per tile.
	TileTokens = 5667
	// PricePerMillionTokens is the USD price per 1M input tokens.
	PricePerMillionTokens = 0.15
)

// ErrInvalidDimension is returned when a width or height is zero or negative.
var ErrInvalidDimension = errors.New("cost: width and height must be positive")

// Estimate is the token and dollar cost for one image at given dimensions.
type Estimate struct {
	Tiles   int
	Tokens  int
	CostUSD float64
}

// EstimateDimensions computes the tile, token, and USD cost of submitting an
// image of the given pixel dimensions. Deterministic, no I/O.
func EstimateDimensions(width, height int) (Estimate, error) {
	if width <= 0 || height <= 0 {
		return Estimate{}, fmt.Errorf("%w: %dx%d", ErrInvalidDimension, width, height)
	}
	tilesX := (width + TileSize - 1) / TileSize
	tilesY := (height + TileSize - 1) / TileSize
	tiles := tilesX * tilesY
	tokens := BaseTokens + TileTokens*tiles
	return Estimate{
		Tiles:   tiles,
		Tokens:  tokens,
		CostUSD: float64(tokens) / 1_000_000 * PricePerMillionTokens,
	}, nil
}

// HalvedDimension is the downscaled size used for the cheaper submission
// variant. Clamped to 1 so a 1px dimension never degenerates to zero tiles.
func HalvedDimension(d int) int {
	h := d / 2
	if h < 1 {
		return 1
	}
	return h
}

// Comparison pairs the full-size estimate with the halved-dimension variant
// so a caller can decide whether downscaling before submission is worth it.
type Comparison struct {
	Original     Estimate
	HalvedWidth  int
	HalvedHeight int
	Halved       Estimate
	SavingsUSD   float64
}

// Compare computes the original and halved estimates for one image.
func Compare(width, height int) (Comparison, error) {
	orig, err := EstimateDimensions(width, height)
	if err != nil {
		return Comparison{}, err
	}
	hw, hh := HalvedDimension(width), HalvedDimension(height)
	halved, err := EstimateDimensions(hw, hh)
	if err != nil {
		return Comparison{}, err
	}
	return Comparison{
		Original:     orig,
		HalvedWidth:  hw,
		HalvedHeight: hh,
		Halved:       halved,
		SavingsUSD:   orig.CostUSD - halved.CostUSD,
	}, nil
}
