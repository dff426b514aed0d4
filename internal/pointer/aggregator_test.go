// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package pointer

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const (
	mouse DeviceID = 7
	other DeviceID = 9
)

func boundAggregator() *Aggregator {
	a := NewAggregator()
	a.Bind(mouse)
	return a
}

func TestSingleSubEventFrames(t *testing.T) {
	tests := []struct {
		name string
		sub  SubEvent
		want Event
	}{
		{name: "enter", sub: Enter{Serial: 1, Surface: 3, X: 10, Y: 10}, want: Enter{Serial: 1, Surface: 3, X: 10, Y: 10}},
		{name: "leave", sub: Leave{Serial: 2, Surface: 3}, want: Leave{Serial: 2, Surface: 3}},
		{name: "motion", sub: Motion{TimeMs: 5, X: 1.5, Y: 2}, want: Motion{TimeMs: 5, X: 1.5, Y: 2}},
		{name: "button", sub: Button{Serial: 3, TimeMs: 6, Code: BtnLeft, Pressed: true}, want: Button{Serial: 3, TimeMs: 6, Code: BtnLeft, Pressed: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := boundAggregator()
			if err := a.BeginOrContinue(mouse, tt.sub); err != nil {
				t.Fatalf("begin failed: %v", err)
			}
			frame, err := a.CompleteFrame(mouse)
			if err != nil {
				t.Fatalf("complete failed: %v", err)
			}
			if diff := cmp.Diff(EventFrame{Device: mouse, Event: tt.want}, frame); diff != "" {
				t.Fatalf("frame mismatch (-want +got):\n%s", diff)
			}
			if _, open := a.Open(); open {
				t.Fatalf("slot still open after completion")
			}
		})
	}
}

func TestNonAxisSubEventRejectedWhileFrameOpen(t *testing.T) {
	tests := []struct {
		name  string
		first SubEvent
		next  SubEvent
	}{
		{name: "motion after motion", first: Motion{X: 1}, next: Motion{X: 2}},
		{name: "motion into axes", first: AxisMotion{Axis: Vertical, Value: 1}, next: Motion{X: 2}},
		{name: "axis into motion", first: Motion{X: 1}, next: AxisMotion{Axis: Vertical, Value: 1}},
		{name: "button after enter", first: Enter{Surface: 3}, next: Button{Code: BtnLeft, Pressed: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := boundAggregator()
			if err := a.BeginOrContinue(mouse, tt.first); err != nil {
				t.Fatalf("begin failed: %v", err)
			}
			before, _ := a.Open()
			if err := a.BeginOrContinue(mouse, tt.next); !errors.Is(err, ErrFrameBusy) {
				t.Fatalf("expected ErrFrameBusy, got %v", err)
			}
			after, open := a.Open()
			if !open {
				t.Fatalf("rejected sub-event closed the frame")
			}
			if diff := cmp.Diff(before, after); diff != "" {
				t.Fatalf("open frame changed (-before +after):\n%s", diff)
			}
		})
	}
}

func TestAxesAccumulateAcrossSubEvents(t *testing.T) {
	a := boundAggregator()
	subs := []SubEvent{
		AxisSource{Source: SourceWheel},
		AxisValue120{Axis: Vertical, Value120: -120},
		AxisMotion{TimeMs: 40, Axis: Vertical, Value: -10},
		AxisDirection{Axis: Vertical, Direction: DirectionInverted},
		AxisMotion{TimeMs: 40, Axis: Horizontal, Value: 2.5},
	}
	for _, sub := range subs {
		if err := a.BeginOrContinue(mouse, sub); err != nil {
			t.Fatalf("sub %T rejected: %v", sub, err)
		}
	}
	frame, err := a.CompleteFrame(mouse)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	want := EventFrame{Device: mouse, Event: Axes{
		Source: set(SourceWheel),
		Vertical: &AxisComponent{
			StartTimeMs: set(uint32(40)),
			Value:       set(-10.0),
			Value120:    set(int32(-120)),
			Direction:   set(DirectionInverted),
		},
		Horizontal: &AxisComponent{
			StartTimeMs: set(uint32(40)),
			Value:       set(2.5),
		},
	}}
	if diff := cmp.Diff(want, frame); diff != "" {
		t.Fatalf("frame mismatch (-want +got):\n%s", diff)
	}
}

func TestAxisComponentAllocatedLazily(t *testing.T) {
	a := boundAggregator()
	if err := a.BeginOrContinue(mouse, AxisStop{TimeMs: 9, Axis: Horizontal}); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	frame, _ := a.Open()
	axes := frame.Event.(Axes)
	if axes.Vertical != nil {
		t.Fatalf("vertical component allocated without a write")
	}
	if axes.Horizontal == nil || !axes.Horizontal.StopTimeMs.Set {
		t.Fatalf("horizontal stop not recorded: %+v", axes.Horizontal)
	}
}

func TestSecondAxisWriteRejected(t *testing.T) {
	tests := []struct {
		name   string
		first  SubEvent
		second SubEvent
	}{
		{name: "value", first: AxisMotion{Axis: Horizontal, Value: 3}, second: AxisMotion{Axis: Horizontal, Value: 5}},
		{name: "stop", first: AxisStop{TimeMs: 1, Axis: Vertical}, second: AxisStop{TimeMs: 2, Axis: Vertical}},
		{name: "discrete then value120", first: AxisDiscrete{Axis: Vertical, Steps: 1}, second: AxisValue120{Axis: Vertical, Value120: 60}},
		{name: "direction", first: AxisDirection{Axis: Vertical}, second: AxisDirection{Axis: Vertical, Direction: DirectionInverted}},
		{name: "source", first: AxisSource{Source: SourceFinger}, second: AxisSource{Source: SourceWheel}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := boundAggregator()
			if err := a.BeginOrContinue(mouse, tt.first); err != nil {
				t.Fatalf("first write rejected: %v", err)
			}
			before, _ := a.Open()
			if err := a.BeginOrContinue(mouse, tt.second); !errors.Is(err, ErrDuplicateAxisField) {
				t.Fatalf("expected ErrDuplicateAxisField, got %v", err)
			}
			after, _ := a.Open()
			if diff := cmp.Diff(before, after); diff != "" {
				t.Fatalf("first value not retained (-before +after):\n%s", diff)
			}
		})
	}
}

func TestHorizontalValueScenario(t *testing.T) {
	a := boundAggregator()
	if err := a.BeginOrContinue(mouse, AxisMotion{Axis: Horizontal, Value: 3.0}); err != nil {
		t.Fatalf("first write rejected: %v", err)
	}
	if err := a.BeginOrContinue(mouse, AxisMotion{Axis: Horizontal, Value: 5.0}); !errors.Is(err, ErrDuplicateAxisField) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}
	frame, err := a.CompleteFrame(mouse)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if got := frame.Event.(Axes).Horizontal.Value.Or(0); got != 3.0 {
		t.Fatalf("horizontal value = %v, want 3", got)
	}
}

func TestDiscreteStoredAs120ths(t *testing.T) {
	a := boundAggregator()
	if err := a.BeginOrContinue(mouse, AxisDiscrete{Axis: Vertical, Steps: -2}); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	frame, _ := a.CompleteFrame(mouse)
	if got := frame.Event.(Axes).Vertical.Value120.Or(0); got != -240 {
		t.Fatalf("value120 = %d, want -240", got)
	}
}

func TestCompleteFrameDeviceChecks(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		a := boundAggregator()
		if _, err := a.CompleteFrame(mouse); !errors.Is(err, ErrEmptyFrame) {
			t.Fatalf("expected ErrEmptyFrame, got %v", err)
		}
	})

	t.Run("completed by another device", func(t *testing.T) {
		a := boundAggregator()
		_ = a.BeginOrContinue(mouse, Motion{X: 1})
		if _, err := a.CompleteFrame(other); !errors.Is(err, ErrDeviceMismatch) {
			t.Fatalf("expected ErrDeviceMismatch, got %v", err)
		}
		if _, open := a.Open(); open {
			t.Fatalf("mismatched frame was not discarded")
		}
	})

	t.Run("frame from unbound device", func(t *testing.T) {
		a := boundAggregator()
		_ = a.BeginOrContinue(other, Motion{X: 1})
		if _, err := a.CompleteFrame(other); !errors.Is(err, ErrUnboundDevice) {
			t.Fatalf("expected ErrUnboundDevice, got %v", err)
		}
	})

	t.Run("no bound device", func(t *testing.T) {
		a := NewAggregator()
		_ = a.BeginOrContinue(mouse, Motion{X: 1})
		if _, err := a.CompleteFrame(mouse); !errors.Is(err, ErrUnboundDevice) {
			t.Fatalf("expected ErrUnboundDevice, got %v", err)
		}
	})

	t.Run("sub-event from a second device", func(t *testing.T) {
		a := boundAggregator()
		_ = a.BeginOrContinue(mouse, AxisMotion{Axis: Vertical, Value: 1})
		if err := a.BeginOrContinue(other, AxisMotion{Axis: Horizontal, Value: 1}); !errors.Is(err, ErrDeviceMismatch) {
			t.Fatalf("expected ErrDeviceMismatch, got %v", err)
		}
	})
}

func TestUnbindDropsOpenFrame(t *testing.T) {
	a := boundAggregator()
	_ = a.BeginOrContinue(mouse, Motion{X: 1})
	a.Unbind()
	if _, open := a.Open(); open {
		t.Fatalf("open frame survived unbind")
	}
	if _, ok := a.Bound(); ok {
		t.Fatalf("device still bound")
	}
}

func TestOpenReturnsIndependentCopy(t *testing.T) {
	a := boundAggregator()
	_ = a.BeginOrContinue(mouse, AxisMotion{Axis: Vertical, Value: 1})
	snapshot, _ := a.Open()
	snapshot.Event.(Axes).Vertical.Value = set(99.0)

	frame, _ := a.CompleteFrame(mouse)
	if got := frame.Event.(Axes).Vertical.Value.Or(0); got != 1 {
		t.Fatalf("aggregator state changed through snapshot: %v", got)
	}
}
