// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/pointer/events.go
// Summary: Pointer sub-notifications and the logical EventFrame they assemble into.
// Notes: A frame holds exactly one variant; axis sub-notifications all feed the Axes variant.

package pointer

import "fmt"

// DeviceID identifies a pointer device; zero is never a bound device.
type DeviceID uint32

// SurfaceID identifies a surface as seen in enter/leave events.
type SurfaceID uint32

// Kind names the variant of a frame.
type Kind int

const (
	KindEnter Kind = iota + 1
	KindLeave
	KindMotion
	KindButton
	KindAxes
)

func (k Kind) String() string {
	switch k {
	case KindEnter:
		return "enter"
	case KindLeave:
		return "leave"
	case KindMotion:
		return "motion"
	case KindButton:
		return "button"
	case KindAxes:
		return "axes"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// SubEvent is one raw notification contributing to a frame.
type SubEvent interface {
	frameKind() Kind
}

// Event is the payload of a completed frame.
type Event interface {
	Kind() Kind
}

type Enter struct {
	Serial  uint32
	Surface SurfaceID
	X, Y    float64
}

type Leave struct {
	Serial  uint32
	Surface SurfaceID
}

type Motion struct {
	TimeMs uint32
	X, Y   float64
}

type Button struct {
	Serial  uint32
	TimeMs  uint32
	Code    uint32
	Pressed bool
}

func (Enter) Kind() Kind  { return KindEnter }
func (Leave) Kind() Kind  { return KindLeave }
func (Motion) Kind() Kind { return KindMotion }
func (Button) Kind() Kind { return KindButton }
func (Axes) Kind() Kind   { return KindAxes }

func (e Enter) frameKind() Kind  { return e.Kind() }
func (e Leave) frameKind() Kind  { return e.Kind() }
func (e Motion) frameKind() Kind { return e.Kind() }
func (e Button) frameKind() Kind { return e.Kind() }

// Orientation selects the scroll axis.
type Orientation uint32

const (
	Vertical Orientation = iota
	Horizontal
)

// SourceKind is the physical origin of a scroll.
type SourceKind uint32

const (
	SourceWheel SourceKind = iota
	SourceFinger
	SourceContinuous
	SourceWheelTilt
)

// RelativeDirection tells whether scroll follows or opposes finger motion.
type RelativeDirection uint32

const (
	DirectionIdentical RelativeDirection = iota
	DirectionInverted
)

// AxisMotion carries a scroll amount; it sets both the start timestamp and the value.
type AxisMotion struct {
	TimeMs uint32
	Axis   Orientation
	Value  float64
}

// AxisSource names the scroll source for the whole frame.
type AxisSource struct {
	Source SourceKind
}

// AxisStop marks the end of a scroll sequence on one axis.
type AxisStop struct {
	TimeMs uint32
	Axis   Orientation
}

// AxisDiscrete carries whole wheel steps; it is stored as 120ths.
type AxisDiscrete struct {
	Axis  Orientation
	Steps int32
}

// AxisValue120 carries high-resolution wheel steps in 120ths.
type AxisValue120 struct {
	Axis     Orientation
	Value120 int32
}

// AxisDirection carries the relative direction of an axis.
type AxisDirection struct {
	Axis      Orientation
	Direction RelativeDirection
}

func (AxisMotion) frameKind() Kind    { return KindAxes }
func (AxisSource) frameKind() Kind    { return KindAxes }
func (AxisStop) frameKind() Kind      { return KindAxes }
func (AxisDiscrete) frameKind() Kind  { return KindAxes }
func (AxisValue120) frameKind() Kind  { return KindAxes }
func (AxisDirection) frameKind() Kind { return KindAxes }

// Field is an optional value written at most once per frame.
type Field[T any] struct {
	Value T
	Set   bool
}

// Get returns the value and whether it was set.
func (f Field[T]) Get() (T, bool) {
	return f.Value, f.Set
}

// Or returns the value, or def when unset.
func (f Field[T]) Or(def T) T {
	if !f.Set {
		return def
	}
	return f.Value
}

func set[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}

// AxisComponent collects what one frame said about one axis.
type AxisComponent struct {
	StartTimeMs Field[uint32]
	Value       Field[float64]
	StopTimeMs  Field[uint32]
	Value120    Field[int32]
	Direction   Field[RelativeDirection]
}

// Axes is the scroll variant. Components stay nil until a sub-notification
// names their axis.
type Axes struct {
	Horizontal *AxisComponent
	Vertical   *AxisComponent
	Source     Field[SourceKind]
}

func (a *Axes) component(o Orientation) **AxisComponent {
	if o == Horizontal {
		return &a.Horizontal
	}
	return &a.Vertical
}

// EventFrame is one logical pointer event.
type EventFrame struct {
	Device DeviceID
	Event  Event
}

// Kind returns the variant of the frame, or zero for an empty frame.
func (f EventFrame) Kind() Kind {
	if f.Event == nil {
		return 0
	}
	return f.Event.Kind()
}
