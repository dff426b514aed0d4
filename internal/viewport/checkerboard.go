// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/viewport/checkerboard.go
// Summary: Deterministic checkerboard painter for 4-byte (B, G, R, X) pixel regions.

package viewport

import (
	"errors"
	"fmt"
	"math"
)

// BytesPerPixel is the size of one packed pixel.
const BytesPerPixel = 4

// DefaultCellSize is the checkerboard cell edge in content pixels.
const DefaultCellSize = 60

var (
	ErrRegionTooSmall = errors.New("viewport: region smaller than width*height*4")
	ErrInvalidExtent  = errors.New("viewport: width and height must be positive")
	ErrInvalidZoom    = errors.New("viewport: zoom must be finite and positive")
	ErrInvalidCell    = errors.New("viewport: cell size must be positive")
)

// Color is an opaque RGB color.
type Color struct {
	R, G, B uint8
}

var (
	Black  = Color{}
	Silver = Color{R: 0xC0, G: 0xC0, B: 0xC0}
)

// Painter fills a pixel region from a content state.
type Painter interface {
	Paint(dst []byte, width, height int, s ContentState) error
}

// Checkerboard paints an infinite two-color checkerboard. Cells whose column
// and row parities match use Dark, the rest Light.
type Checkerboard struct {
	CellSize int
	Dark     Color
	Light    Color
}

// NewCheckerboard returns the default black/silver board with the given cell size.
func NewCheckerboard(cellSize int) Checkerboard {
	return Checkerboard{CellSize: cellSize, Dark: Black, Light: Silver}
}

// Paint writes width*height pixels into dst.
//
// Per axis: the offset is rounded to whole pixels and the fractional
// remainder shifts the zoom anchor, which is then rounded and clamped to the
// viewport. A viewport pixel p maps to content coordinate
// off + anchor + round((p - anchor) / sqrt(zoom)), and the cell index is that
// coordinate floor-divided by the cell size.
func (c Checkerboard) Paint(dst []byte, width, height int, s ContentState) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidExtent
	}
	if c.CellSize <= 0 {
		return ErrInvalidCell
	}
	if !finite(s.Zoom) || s.Zoom <= 0 || !finite(s.OffsetX) || !finite(s.OffsetY) {
		return fmt.Errorf("%w: %+v", ErrInvalidZoom, s)
	}
	if len(dst) < width*height*BytesPerPixel {
		return fmt.Errorf("%w: have %d, need %d", ErrRegionTooSmall, len(dst), width*height*BytesPerPixel)
	}

	scale := s.Scale()
	cols := axisParity(width, s.OffsetX, s.ZoomAnchorX, scale, c.CellSize)
	rows := axisParity(height, s.OffsetY, s.ZoomAnchorY, scale, c.CellSize)

	dark := [BytesPerPixel]byte{c.Dark.B, c.Dark.G, c.Dark.R, 0xFF}
	light := [BytesPerPixel]byte{c.Light.B, c.Light.G, c.Light.R, 0xFF}

	stride := width * BytesPerPixel
	for y := 0; y < height; y++ {
		line := dst[y*stride : (y+1)*stride]
		rowParity := rows[y]
		for x := 0; x < width; x++ {
			px := &light
			if cols[x] == rowParity {
				px = &dark
			}
			copy(line[x*BytesPerPixel:], px[:])
		}
	}
	return nil
}

// SourceCoord maps viewport pixel p on one axis to its content coordinate.
func SourceCoord(p, extent int, offset, anchor, scale float64) int {
	rounded := math.Round(offset)
	a := clampInt(int(math.Round(anchor+(rounded-offset))), 0, extent-1)
	return int(rounded) + a + int(math.Round(float64(p-a)/scale))
}

func axisParity(extent int, offset, anchor, scale float64, cell int) []uint8 {
	out := make([]uint8, extent)
	for p := 0; p < extent; p++ {
		out[p] = uint8(floorDiv(SourceCoord(p, extent, offset, anchor, scale), cell) & 1)
	}
	return out
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
