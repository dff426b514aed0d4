// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runtime/engine/bindings.go
// Summary: Button-press bindings for zoom actions, applied after frame reduction.

package engine

import (
	"fmt"

	"github.com/framegrace/wlcanvas/internal/pointer"
	"github.com/framegrace/wlcanvas/internal/viewport"
)

// Action is a view transform triggered by input.
type Action int

const (
	ActionNone Action = iota
	ActionZoomIn
	ActionZoomOut
	ActionZoomReset
)

func (a Action) String() string {
	switch a {
	case ActionZoomIn:
		return "zoom_in"
	case ActionZoomOut:
		return "zoom_out"
	case ActionZoomReset:
		return "zoom_reset"
	default:
		return "none"
	}
}

// Bindings maps button codes to actions fired on press.
type Bindings map[uint32]Action

// DefaultBindings zooms in with extra/forward, out with side/back, and
// resets with the middle button.
func DefaultBindings() Bindings {
	return Bindings{
		pointer.BtnExtra:   ActionZoomIn,
		pointer.BtnForward: ActionZoomIn,
		pointer.BtnSide:    ActionZoomOut,
		pointer.BtnBack:    ActionZoomOut,
		pointer.BtnMiddle:  ActionZoomReset,
	}
}

// ParseBindings builds bindings from action -> button-name lists. An empty
// list disables the action.
func ParseBindings(byAction map[Action][]string) (Bindings, error) {
	b := make(Bindings)
	for action, names := range byAction {
		for _, name := range names {
			code, ok := pointer.ButtonCode(name)
			if !ok {
				return nil, fmt.Errorf("engine: unknown button %q for %s", name, action)
			}
			if prev, dup := b[code]; dup && prev != action {
				return nil, fmt.Errorf("engine: button %q bound to both %s and %s", name, prev, action)
			}
			b[code] = action
		}
	}
	return b, nil
}

// Apply runs the action against content, zooming around at when known.
func (a Action) Apply(content viewport.ContentState, factor float64, at pointer.Point, known bool) viewport.ContentState {
	switch a {
	case ActionZoomIn:
		if known {
			return content.ZoomedInAt(at.X, at.Y, factor)
		}
		return content.ZoomedIn(factor)
	case ActionZoomOut:
		if known {
			return content.ZoomedOutAt(at.X, at.Y, factor)
		}
		return content.ZoomedOut(factor)
	case ActionZoomReset:
		return content.ZoomReset()
	default:
		return content
	}
}
