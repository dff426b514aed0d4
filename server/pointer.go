// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: server/pointer.go
// Summary: Injection of wl_pointer events into a simulated session.

package server

import (
	"github.com/framegrace/wlcanvas/internal/pointer"
	"github.com/framegrace/wlcanvas/protocol"
)

func (s *Session) sendPointer(op uint16, e encoded) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if s.pointer == 0 {
		return ErrNoPointer
	}
	if err := s.queueEvent(s.pointer, op, e); err != nil {
		return err
	}
	return s.sock.Flush()
}

func (s *Session) nextSerial() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serial++
	return s.serial
}

// toplevelSurface returns the surface that carries the toplevel role.
func (s *Session) toplevelSurface() (uint32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, xdg := range s.xdgSurfaces {
		if xdg.toplevel != 0 {
			return xdg.surface, true
		}
	}
	return 0, false
}

// PointerEnter moves the pointer onto the client's toplevel surface.
func (s *Session) PointerEnter(x, y float64) error {
	surface, ok := s.toplevelSurface()
	if !ok {
		return ErrNoToplevel
	}
	ev := protocol.PointerEnter{Serial: s.nextSerial(), Surface: surface, X: protocol.FixedFromFloat(x), Y: protocol.FixedFromFloat(y)}
	return s.sendPointer(protocol.PointerEventEnter, enc(protocol.EncodePointerEnter(ev)))
}

// PointerLeave moves the pointer off the toplevel surface.
func (s *Session) PointerLeave() error {
	surface, ok := s.toplevelSurface()
	if !ok {
		return ErrNoToplevel
	}
	ev := protocol.PointerLeave{Serial: s.nextSerial(), Surface: surface}
	return s.sendPointer(protocol.PointerEventLeave, enc(protocol.EncodePointerLeave(ev)))
}

func (s *Session) PointerMotion(timeMs uint32, x, y float64) error {
	ev := protocol.PointerMotion{Time: timeMs, X: protocol.FixedFromFloat(x), Y: protocol.FixedFromFloat(y)}
	return s.sendPointer(protocol.PointerEventMotion, enc(protocol.EncodePointerMotion(ev)))
}

func (s *Session) PointerButton(timeMs, code uint32, pressed bool) error {
	state := protocol.PointerButtonReleased
	if pressed {
		state = protocol.PointerButtonPressed
	}
	ev := protocol.PointerButton{Serial: s.nextSerial(), Time: timeMs, Button: code, State: state}
	return s.sendPointer(protocol.PointerEventButton, enc(protocol.EncodePointerButton(ev)))
}

func (s *Session) PointerAxis(timeMs, axis uint32, value float64) error {
	ev := protocol.PointerAxis{Time: timeMs, Axis: axis, Value: protocol.FixedFromFloat(value)}
	return s.sendPointer(protocol.PointerEventAxis, enc(protocol.EncodePointerAxis(ev)))
}

func (s *Session) PointerAxisSource(source uint32) error {
	return s.sendPointer(protocol.PointerEventAxisSource, enc(protocol.EncodePointerAxisSource(protocol.PointerAxisSource{Source: source})))
}

func (s *Session) PointerAxisStop(timeMs, axis uint32) error {
	return s.sendPointer(protocol.PointerEventAxisStop, enc(protocol.EncodePointerAxisStop(protocol.PointerAxisStop{Time: timeMs, Axis: axis})))
}

// PointerWheel reports wheel steps in 120ths: axis_value120 for pointers
// bound at version 8 or later, whole axis_discrete steps for versions 5 to 7.
// Older pointers get nothing.
func (s *Session) PointerWheel(axis uint32, value120 int32) error {
	s.mu.Lock()
	version := s.versions[s.pointer]
	s.mu.Unlock()
	switch {
	case version >= protocol.PointerSinceValue120:
		ev := protocol.PointerAxisValue120{Axis: axis, Value120: value120}
		return s.sendPointer(protocol.PointerEventAxisValue120, enc(protocol.EncodePointerAxisValue120(ev)))
	case version >= protocol.PointerSinceFrame:
		ev := protocol.PointerAxisDiscrete{Axis: axis, Discrete: value120 / 120}
		return s.sendPointer(protocol.PointerEventAxisDiscrete, enc(protocol.EncodePointerAxisDiscrete(ev)))
	}
	return nil
}

// PointerVersion returns the version of the client's wl_pointer, zero when
// it holds none.
func (s *Session) PointerVersion() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.versions[s.pointer]
}

// PointerFrame ends a group of pointer events.
func (s *Session) PointerFrame() error {
	return s.sendPointer(protocol.PointerEventFrame, enc(nil, nil))
}

// Drag scripts a left-button drag from (x0, y0) to (x1, y1) in steps
// motion frames, entering the surface first.
func (s *Session) Drag(x0, y0, x1, y1 float64, steps int) error {
	if steps < 1 {
		steps = 1
	}
	frame := func(send func() error) error {
		if err := send(); err != nil {
			return err
		}
		return s.PointerFrame()
	}
	if err := frame(func() error { return s.PointerEnter(x0, y0) }); err != nil {
		return err
	}
	if err := frame(func() error { return s.PointerButton(0, pointer.BtnLeft, true) }); err != nil {
		return err
	}
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x, y := x0+(x1-x0)*t, y0+(y1-y0)*t
		if err := frame(func() error { return s.PointerMotion(uint32(i*16), x, y) }); err != nil {
			return err
		}
	}
	return frame(func() error { return s.PointerButton(uint32(steps*16+16), pointer.BtnLeft, false) })
}
