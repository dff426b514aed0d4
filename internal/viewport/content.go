// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/viewport/content.go
// Summary: Immutable viewport transform (offset, zoom, zoom anchor).
// Usage: Every view change yields a new ContentState; callers compare values with == to detect changes.

package viewport

import "math"

const (
	// DefaultZoomFactor is the multiplicative step for one zoom gesture.
	DefaultZoomFactor = 1.25
	// MinZoom and MaxZoom bound the zoom level; steps that would leave the
	// range are ignored.
	MinZoom = 1.0 / 1024
	MaxZoom = 1024.0
)

// ContentState describes which part of the infinite canvas is visible.
// Offsets are in content pixels; the anchor is in viewport-local pixels and
// marks the point that stays fixed while zooming.
type ContentState struct {
	OffsetX     float64
	OffsetY     float64
	Zoom        float64
	ZoomAnchorX float64
	ZoomAnchorY float64
}

// NewContentState returns the identity view.
func NewContentState() ContentState {
	return ContentState{Zoom: 1}
}

// MovedBy shifts the view by (dx, dy) content pixels.
func (s ContentState) MovedBy(dx, dy float64) ContentState {
	if !finite(dx) || !finite(dy) {
		return s
	}
	s.OffsetX += dx
	s.OffsetY += dy
	return s
}

// ZoomedIn multiplies the zoom by factor around the current anchor.
func (s ContentState) ZoomedIn(factor float64) ContentState {
	if !validFactor(factor) {
		return s
	}
	return s.withZoom(s.Zoom * factor)
}

// ZoomedOut divides the zoom by factor around the current anchor.
func (s ContentState) ZoomedOut(factor float64) ContentState {
	if !validFactor(factor) {
		return s
	}
	return s.withZoom(s.Zoom / factor)
}

// ZoomedInAt moves the anchor to (x, y) without shifting the picture, then
// zooms in around it.
func (s ContentState) ZoomedInAt(x, y, factor float64) ContentState {
	if !validFactor(factor) || !finite(x) || !finite(y) {
		return s
	}
	next := s.reanchored(x, y).withZoom(s.Zoom * factor)
	if next.Zoom == s.Zoom {
		return s
	}
	return next
}

// ZoomedOutAt is the inverse of ZoomedInAt.
func (s ContentState) ZoomedOutAt(x, y, factor float64) ContentState {
	if !validFactor(factor) || !finite(x) || !finite(y) {
		return s
	}
	next := s.reanchored(x, y).withZoom(s.Zoom / factor)
	if next.Zoom == s.Zoom {
		return s
	}
	return next
}

// ZoomReset returns to zoom 1. At zoom 1 the anchor has no effect, so the
// content under the anchor does not move.
func (s ContentState) ZoomReset() ContentState {
	s.Zoom = 1
	return s
}

// Scale is the per-axis magnification, the square root of Zoom.
func (s ContentState) Scale() float64 {
	return math.Sqrt(s.Zoom)
}

// reanchored moves the zoom anchor while keeping the mapping from viewport
// to content pixels unchanged: off' = off + (a - x)(1 - 1/scale).
func (s ContentState) reanchored(x, y float64) ContentState {
	k := 1 - 1/s.Scale()
	s.OffsetX += (s.ZoomAnchorX - x) * k
	s.OffsetY += (s.ZoomAnchorY - y) * k
	s.ZoomAnchorX = x
	s.ZoomAnchorY = y
	return s
}

func (s ContentState) withZoom(z float64) ContentState {
	if !finite(z) || z < MinZoom || z > MaxZoom {
		return s
	}
	s.Zoom = z
	return s
}

func validFactor(f float64) bool {
	return finite(f) && f > 0
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
