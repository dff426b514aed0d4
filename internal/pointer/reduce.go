// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/pointer/reduce.go
// Summary: Pure reduction of a completed frame into pointer state and the view transform.

package pointer

import (
	"errors"
	"fmt"

	"github.com/framegrace/wlcanvas/internal/viewport"
)

// ErrUnmappedButton reports a button code outside the lookup table.
var ErrUnmappedButton = errors.New("pointer: unmapped button code")

// Point is a surface-local position.
type Point struct {
	X, Y float64
}

// State is what the consumer knows about the pointer on the tracked surface.
type State struct {
	Position  Point
	OnSurface bool
	Buttons   ButtonSet
}

// Reduction is the outcome of one frame.
type Reduction struct {
	Pointer State
	Content viewport.ContentState
	// Dirty is set when Content differs from the input content.
	Dirty bool
}

// Reduce applies frame to the pointer state and content. It never mutates
// its inputs. On error the returned reduction equals the inputs.
func Reduce(frame EventFrame, tracked SurfaceID, st State, content viewport.ContentState) (Reduction, error) {
	out := Reduction{Pointer: st, Content: content}

	switch ev := frame.Event.(type) {
	case Enter:
		if ev.Surface != tracked {
			return out, nil
		}
		out.Pointer = State{Position: Point{X: ev.X, Y: ev.Y}, OnSurface: true}

	case Leave:
		if ev.Surface != tracked {
			return out, nil
		}
		out.Pointer = State{}

	case Motion:
		next := Point{X: ev.X, Y: ev.Y}
		if st.OnSurface && st.Buttons.Only(IndexLeft) {
			dx := next.X - st.Position.X
			dy := next.Y - st.Position.Y
			if dx != 0 || dy != 0 {
				out.Content = content.MovedBy(-dx, -dy)
			}
		}
		out.Pointer.Position = next
		out.Pointer.OnSurface = true

	case Button:
		idx, ok := ButtonIndex(ev.Code)
		if !ok {
			return out, fmt.Errorf("%w: %#x", ErrUnmappedButton, ev.Code)
		}
		if ev.Pressed {
			out.Pointer.Buttons = st.Buttons.With(idx)
		} else {
			out.Pointer.Buttons = st.Buttons.Without(idx)
		}

	case Axes:
		var dx, dy float64
		if ev.Horizontal != nil {
			dx = ev.Horizontal.Value.Or(0)
		}
		if ev.Vertical != nil {
			dy = ev.Vertical.Value.Or(0)
		}
		if dx != 0 || dy != 0 {
			out.Content = content.MovedBy(dx, dy)
		}

	case nil:
		return out, ErrEmptyFrame
	}

	out.Dirty = out.Content != content
	return out, nil
}
