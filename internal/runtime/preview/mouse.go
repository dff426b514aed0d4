// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runtime/preview/mouse.go
// Summary: Turns tcell mouse reports into pointer sub-notification frames.
// Notes: tcell reports a full button mask per event; presses and releases are recovered by diffing it.

package preview

import (
	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/wlcanvas/internal/pointer"
)

// wheelStep is the scroll distance of one wheel notch in surface pixels.
const wheelStep = 15

var buttonCodes = []struct {
	mask tcell.ButtonMask
	code uint32
}{
	{tcell.ButtonPrimary, pointer.BtnLeft},
	{tcell.ButtonSecondary, pointer.BtnRight},
	{tcell.ButtonMiddle, pointer.BtnMiddle},
	{tcell.Button4, pointer.BtnSide},
	{tcell.Button5, pointer.BtnExtra},
	{tcell.Button6, pointer.BtnForward},
	{tcell.Button7, pointer.BtnBack},
}

const wheelMask = tcell.WheelUp | tcell.WheelDown | tcell.WheelLeft | tcell.WheelRight

// mouseState remembers what the terminal last reported.
type mouseState struct {
	surface pointer.SurfaceID
	entered bool
	x, y    float64
	buttons tcell.ButtonMask
	serial  uint32
}

// translate returns the frames for one mouse report, each a list of
// sub-notifications to be completed together. Cell (col, row) maps to the
// surface pixel (col, 2*row).
func (m *mouseState) translate(col, row int, mask tcell.ButtonMask, timeMs uint32) [][]pointer.SubEvent {
	x, y := float64(col), float64(2*row)
	var frames [][]pointer.SubEvent

	if !m.entered {
		m.entered = true
		m.serial++
		frames = append(frames, []pointer.SubEvent{pointer.Enter{Serial: m.serial, Surface: m.surface, X: x, Y: y}})
	} else if x != m.x || y != m.y {
		frames = append(frames, []pointer.SubEvent{pointer.Motion{TimeMs: timeMs, X: x, Y: y}})
	}
	m.x, m.y = x, y

	buttons := mask &^ wheelMask
	for _, b := range buttonCodes {
		was, now := m.buttons&b.mask != 0, buttons&b.mask != 0
		if was == now {
			continue
		}
		m.serial++
		frames = append(frames, []pointer.SubEvent{pointer.Button{Serial: m.serial, TimeMs: timeMs, Code: b.code, Pressed: now}})
	}
	m.buttons = buttons

	if mask&tcell.WheelUp != 0 {
		frames = append(frames, wheelFrame(timeMs, pointer.Vertical, -1))
	}
	if mask&tcell.WheelDown != 0 {
		frames = append(frames, wheelFrame(timeMs, pointer.Vertical, 1))
	}
	if mask&tcell.WheelLeft != 0 {
		frames = append(frames, wheelFrame(timeMs, pointer.Horizontal, -1))
	}
	if mask&tcell.WheelRight != 0 {
		frames = append(frames, wheelFrame(timeMs, pointer.Horizontal, 1))
	}
	return frames
}

func wheelFrame(timeMs uint32, axis pointer.Orientation, dir int32) []pointer.SubEvent {
	return []pointer.SubEvent{
		pointer.AxisSource{Source: pointer.SourceWheel},
		pointer.AxisValue120{Axis: axis, Value120: 120 * dir},
		pointer.AxisMotion{TimeMs: timeMs, Axis: axis, Value: float64(wheelStep * dir)},
	}
}
