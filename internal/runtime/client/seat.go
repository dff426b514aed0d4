// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runtime/client/seat.go
// Summary: Seat capability tracking and translation of wl_pointer events into pointer sub-events.
// Notes: Pointers older than version 5 send no frame event; every event then completes its own frame.

package clientruntime

import (
	"errors"
	"fmt"
	"log"

	wl "github.com/rajveermalviya/go-wayland/wayland/client"

	"github.com/framegrace/wlcanvas/internal/pointer"
	"github.com/framegrace/wlcanvas/internal/runtime/engine"
)

// wl_pointer versions that added the frame event and the release request.
const (
	pointerSinceFrame   uint32 = 5
	pointerSinceRelease uint32 = 3
)

var errUnknownAxis = errors.New("unknown axis")

type seat struct {
	seat    *wl.Seat
	eng     *engine.Engine
	version uint32
	name    string

	pointer *wl.Pointer
}

func newSeat(proxy *wl.Seat, version uint32) *seat {
	s := &seat{seat: proxy, version: version}
	proxy.SetCapabilitiesHandler(func(ev wl.SeatCapabilitiesEvent) {
		if err := s.setCapabilities(ev.Capabilities); err != nil {
			s.eng.Fail(fmt.Errorf("seat capabilities: %w", err))
		}
	})
	proxy.SetNameHandler(func(ev wl.SeatNameEvent) {
		s.name = ev.Name
		debugLog.Printf("seat name %q", ev.Name)
	})
	return s
}

func (s *seat) setCapabilities(caps uint32) error {
	has := caps&uint32(wl.SeatCapabilityPointer) != 0
	switch {
	case has && s.pointer == nil:
		p, err := s.seat.GetPointer()
		if err != nil {
			return err
		}
		s.pointer = p
		s.listen(p)
		s.eng.BindPointer(pointer.DeviceID(p.ID()))
		log.Printf("Seat: pointer %d acquired (v%d)", p.ID(), s.version)
	case !has && s.pointer != nil:
		id := s.pointer.ID()
		if s.version >= pointerSinceRelease {
			if err := s.pointer.Release(); err != nil {
				return err
			}
		} else {
			s.silence(s.pointer)
		}
		log.Printf("Seat: pointer %d released", id)
		s.pointer = nil
		s.eng.UnbindPointer()
	}
	return nil
}

func (s *seat) device() pointer.DeviceID {
	if s.pointer == nil {
		return 0
	}
	return pointer.DeviceID(s.pointer.ID())
}

// emit forwards one sub-event; axis events with an unknown orientation are
// dropped with a warning.
func (s *seat) emit(sub pointer.SubEvent, err error) {
	if err != nil {
		log.Printf("Pointer: dropped event: %v", err)
		return
	}
	dev := s.device()
	s.eng.PointerEvent(dev, sub)
	if s.version < pointerSinceFrame {
		s.eng.PointerFrame(dev)
	}
}

func (s *seat) listen(p *wl.Pointer) {
	p.SetEnterHandler(func(ev wl.PointerEnterEvent) { s.emit(enterEvent(ev), nil) })
	p.SetLeaveHandler(func(ev wl.PointerLeaveEvent) { s.emit(leaveEvent(ev), nil) })
	p.SetMotionHandler(func(ev wl.PointerMotionEvent) { s.emit(motionEvent(ev), nil) })
	p.SetButtonHandler(func(ev wl.PointerButtonEvent) { s.emit(buttonEvent(ev), nil) })
	p.SetAxisHandler(func(ev wl.PointerAxisEvent) { s.emit(axisEvent(ev)) })
	p.SetAxisSourceHandler(func(ev wl.PointerAxisSourceEvent) {
		s.emit(pointer.AxisSource{Source: pointer.SourceKind(ev.AxisSource)}, nil)
	})
	p.SetAxisStopHandler(func(ev wl.PointerAxisStopEvent) { s.emit(axisStopEvent(ev)) })
	p.SetAxisDiscreteHandler(func(ev wl.PointerAxisDiscreteEvent) { s.emit(axisDiscreteEvent(ev)) })
	p.SetFrameHandler(func(wl.PointerFrameEvent) { s.eng.PointerFrame(s.device()) })
}

// silence detaches every handler from a pointer that cannot be released.
func (s *seat) silence(p *wl.Pointer) {
	p.SetEnterHandler(nil)
	p.SetLeaveHandler(nil)
	p.SetMotionHandler(nil)
	p.SetButtonHandler(nil)
	p.SetAxisHandler(nil)
	p.SetAxisSourceHandler(nil)
	p.SetAxisStopHandler(nil)
	p.SetAxisDiscreteHandler(nil)
	p.SetFrameHandler(nil)
}

func surfaceID(s *wl.Surface) pointer.SurfaceID {
	if s == nil {
		return 0
	}
	return pointer.SurfaceID(s.ID())
}

func enterEvent(ev wl.PointerEnterEvent) pointer.SubEvent {
	return pointer.Enter{Serial: ev.Serial, Surface: surfaceID(ev.Surface), X: ev.SurfaceX, Y: ev.SurfaceY}
}

func leaveEvent(ev wl.PointerLeaveEvent) pointer.SubEvent {
	return pointer.Leave{Serial: ev.Serial, Surface: surfaceID(ev.Surface)}
}

func motionEvent(ev wl.PointerMotionEvent) pointer.SubEvent {
	return pointer.Motion{TimeMs: ev.Time, X: ev.SurfaceX, Y: ev.SurfaceY}
}

func buttonEvent(ev wl.PointerButtonEvent) pointer.SubEvent {
	return pointer.Button{Serial: ev.Serial, TimeMs: ev.Time, Code: ev.Button, Pressed: ev.State == uint32(wl.PointerButtonStatePressed)}
}

func axisEvent(ev wl.PointerAxisEvent) (pointer.SubEvent, error) {
	axis, err := orientation(ev.Axis)
	if err != nil {
		return nil, err
	}
	return pointer.AxisMotion{TimeMs: ev.Time, Axis: axis, Value: ev.Value}, nil
}

func axisStopEvent(ev wl.PointerAxisStopEvent) (pointer.SubEvent, error) {
	axis, err := orientation(ev.Axis)
	if err != nil {
		return nil, err
	}
	return pointer.AxisStop{TimeMs: ev.Time, Axis: axis}, nil
}

func axisDiscreteEvent(ev wl.PointerAxisDiscreteEvent) (pointer.SubEvent, error) {
	axis, err := orientation(ev.Axis)
	if err != nil {
		return nil, err
	}
	return pointer.AxisDiscrete{Axis: axis, Steps: ev.Discrete}, nil
}

func orientation(axis uint32) (pointer.Orientation, error) {
	switch axis {
	case uint32(wl.PointerAxisVerticalScroll):
		return pointer.Vertical, nil
	case uint32(wl.PointerAxisHorizontalScroll):
		return pointer.Horizontal, nil
	}
	return 0, fmt.Errorf("%w %d", errUnknownAxis, axis)
}
