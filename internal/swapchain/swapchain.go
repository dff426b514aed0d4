// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/swapchain/swapchain.go
// Summary: Two equal pixel regions over one shared backing slice plus the pending index.
// Notes: Only the pending region may be written; the other belongs to the compositor until the next frame signal.

package swapchain

import (
	"errors"
	"fmt"
)

// BytesPerPixel is the packed pixel size of both regions.
const BytesPerPixel = 4

// Regions is the number of buffers in the chain.
const Regions = 2

var (
	ErrInvalidExtent = errors.New("swapchain: width and height must be positive")
	ErrBackingShort  = errors.New("swapchain: backing memory too small")
	ErrIndex         = errors.New("swapchain: region index out of range")
)

// Swapchain indexes two width*height*4 byte regions laid out back to back.
type Swapchain struct {
	width   int
	height  int
	backing []byte
	pending int
}

// RegionSize returns the byte size of one region.
func RegionSize(width, height int) int {
	return width * height * BytesPerPixel
}

// New carves two regions from backing. backing must hold at least
// 2*width*height*4 bytes; the first region starts at offset 0.
func New(backing []byte, width, height int) (*Swapchain, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidExtent
	}
	need := Regions * RegionSize(width, height)
	if len(backing) < need {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrBackingShort, len(backing), need)
	}
	return &Swapchain{width: width, height: height, backing: backing[:need]}, nil
}

func (s *Swapchain) Width() int  { return s.width }
func (s *Swapchain) Height() int { return s.height }

// Stride is the byte length of one pixel row.
func (s *Swapchain) Stride() int {
	return s.width * BytesPerPixel
}

// PendingIndex is the region the next render targets.
func (s *Swapchain) PendingIndex() int {
	return s.pending
}

// Pending returns write access to the pending region.
func (s *Swapchain) Pending() []byte {
	b, _ := s.Region(s.pending)
	return b
}

// Region returns region i for reading, e.g. by tests or a preview backend.
func (s *Swapchain) Region(i int) ([]byte, error) {
	if i < 0 || i >= Regions {
		return nil, fmt.Errorf("%w: %d", ErrIndex, i)
	}
	size := RegionSize(s.width, s.height)
	return s.backing[i*size : (i+1)*size : (i+1)*size], nil
}

// Offset is the byte offset of region i within the backing memory.
func (s *Swapchain) Offset(i int) int {
	return i * RegionSize(s.width, s.height)
}

// Advance flips the pending index after a publish.
func (s *Swapchain) Advance() {
	s.pending = (s.pending + 1) % Regions
}
