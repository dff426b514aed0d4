// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/pointer/aggregator.go
// Summary: Collects pointer sub-notifications into one open frame until the device signals frame completion.
// Usage: Fed by a backend's pointer listener; completed frames go to Reduce.
// Notes: Rejected sub-notifications leave the open frame untouched; callers log and drop them.

package pointer

import (
	"errors"
	"fmt"
)

var (
	// ErrFrameBusy reports a sub-notification that cannot join the open frame.
	ErrFrameBusy = errors.New("pointer: sub-event does not match open frame")
	// ErrDuplicateAxisField reports a second write to an axis field in one frame.
	ErrDuplicateAxisField = errors.New("pointer: axis field already set in this frame")
	// ErrDeviceMismatch reports a device other than the one owning the frame.
	ErrDeviceMismatch = errors.New("pointer: device does not own the open frame")
	// ErrUnboundDevice reports a frame completed for a device that is not the bound pointer.
	ErrUnboundDevice = errors.New("pointer: frame device is not the bound pointer")
	// ErrEmptyFrame reports a completion signal with no open frame. It is a warning.
	ErrEmptyFrame = errors.New("pointer: frame completion with no open frame")
)

// Aggregator owns the single open-frame slot.
type Aggregator struct {
	bound    DeviceID
	hasBound bool

	open   EventFrame
	isOpen bool
}

// NewAggregator returns an aggregator with no bound device.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Bind records dev as the pointer whose frames are accepted on completion.
func (a *Aggregator) Bind(dev DeviceID) {
	if a.hasBound && a.bound != dev {
		a.discard()
	}
	a.bound = dev
	a.hasBound = true
}

// Unbind forgets the bound device and drops any open frame.
func (a *Aggregator) Unbind() {
	a.hasBound = false
	a.bound = 0
	a.discard()
}

// Bound returns the bound device.
func (a *Aggregator) Bound() (DeviceID, bool) {
	return a.bound, a.hasBound
}

// Open returns a copy of the frame being collected.
func (a *Aggregator) Open() (EventFrame, bool) {
	if !a.isOpen {
		return EventFrame{}, false
	}
	return cloneFrame(a.open), true
}

// BeginOrContinue adds sub to the open frame, opening one if needed. Only
// axis sub-notifications may extend an open frame, and only an Axes frame
// from the same device.
func (a *Aggregator) BeginOrContinue(dev DeviceID, sub SubEvent) error {
	if sub == nil {
		return fmt.Errorf("%w: nil sub-event", ErrFrameBusy)
	}
	kind := sub.frameKind()

	if !a.isOpen {
		frame := EventFrame{Device: dev}
		if kind == KindAxes {
			axes := &Axes{}
			if err := applyAxis(axes, sub); err != nil {
				return err
			}
			frame.Event = *axes
		} else {
			frame.Event = sub.(Event)
		}
		a.open = frame
		a.isOpen = true
		return nil
	}

	if a.open.Device != dev {
		return fmt.Errorf("%w: open frame from %d, sub-event from %d", ErrDeviceMismatch, a.open.Device, dev)
	}
	if kind != KindAxes || a.open.Kind() != KindAxes {
		return fmt.Errorf("%w: %s frame open, got %s", ErrFrameBusy, a.open.Kind(), kind)
	}

	axes := a.open.Event.(Axes)
	next := cloneAxes(axes)
	if err := applyAxis(&next, sub); err != nil {
		return err
	}
	a.open.Event = next
	return nil
}

// CompleteFrame closes the open frame and returns it. The frame is dropped
// without being returned when it belongs to another device or the device is
// not the bound pointer.
func (a *Aggregator) CompleteFrame(dev DeviceID) (EventFrame, error) {
	if !a.isOpen {
		return EventFrame{}, ErrEmptyFrame
	}
	frame := a.open
	a.discard()

	if frame.Device != dev {
		return EventFrame{}, fmt.Errorf("%w: frame from %d completed by %d", ErrDeviceMismatch, frame.Device, dev)
	}
	if !a.hasBound || frame.Device != a.bound {
		return EventFrame{}, fmt.Errorf("%w: %d", ErrUnboundDevice, frame.Device)
	}
	return frame, nil
}

func (a *Aggregator) discard() {
	a.open = EventFrame{}
	a.isOpen = false
}

// applyAxis writes one axis sub-notification into axes. It either applies
// every field it carries or none.
func applyAxis(axes *Axes, sub SubEvent) error {
	switch ev := sub.(type) {
	case AxisSource:
		if axes.Source.Set {
			return fmt.Errorf("%w: source", ErrDuplicateAxisField)
		}
		axes.Source = set(ev.Source)
		return nil
	case AxisMotion:
		return withComponent(axes, ev.Axis, func(c *AxisComponent) error {
			if c.StartTimeMs.Set || c.Value.Set {
				return fmt.Errorf("%w: value", ErrDuplicateAxisField)
			}
			c.StartTimeMs = set(ev.TimeMs)
			c.Value = set(ev.Value)
			return nil
		})
	case AxisStop:
		return withComponent(axes, ev.Axis, func(c *AxisComponent) error {
			if c.StopTimeMs.Set {
				return fmt.Errorf("%w: stop", ErrDuplicateAxisField)
			}
			c.StopTimeMs = set(ev.TimeMs)
			return nil
		})
	case AxisDiscrete:
		return withComponent(axes, ev.Axis, func(c *AxisComponent) error {
			if c.Value120.Set {
				return fmt.Errorf("%w: discrete", ErrDuplicateAxisField)
			}
			c.Value120 = set(ev.Steps * 120)
			return nil
		})
	case AxisValue120:
		return withComponent(axes, ev.Axis, func(c *AxisComponent) error {
			if c.Value120.Set {
				return fmt.Errorf("%w: value120", ErrDuplicateAxisField)
			}
			c.Value120 = set(ev.Value120)
			return nil
		})
	case AxisDirection:
		return withComponent(axes, ev.Axis, func(c *AxisComponent) error {
			if c.Direction.Set {
				return fmt.Errorf("%w: relative direction", ErrDuplicateAxisField)
			}
			c.Direction = set(ev.Direction)
			return nil
		})
	default:
		return fmt.Errorf("%w: %T is not an axis sub-event", ErrFrameBusy, sub)
	}
}

// withComponent runs fn on a scratch copy of the axis component and stores
// it only on success, allocating the component on first write.
func withComponent(axes *Axes, o Orientation, fn func(*AxisComponent) error) error {
	slot := axes.component(o)
	var scratch AxisComponent
	if *slot != nil {
		scratch = **slot
	}
	if err := fn(&scratch); err != nil {
		return err
	}
	*slot = &scratch
	return nil
}

func cloneAxes(a Axes) Axes {
	out := Axes{Source: a.Source}
	if a.Horizontal != nil {
		h := *a.Horizontal
		out.Horizontal = &h
	}
	if a.Vertical != nil {
		v := *a.Vertical
		out.Vertical = &v
	}
	return out
}

func cloneFrame(f EventFrame) EventFrame {
	if axes, ok := f.Event.(Axes); ok {
		f.Event = cloneAxes(axes)
	}
	return f
}
