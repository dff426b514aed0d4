// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package pointer

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/framegrace/wlcanvas/internal/viewport"
)

const trackedSurface SurfaceID = 3

func frameOf(ev Event) EventFrame {
	return EventFrame{Device: mouse, Event: ev}
}

func TestDragScenario(t *testing.T) {
	st := State{}
	content := viewport.NewContentState()
	changes := 0

	frames := []Event{
		Enter{Serial: 1, Surface: trackedSurface, X: 10, Y: 10},
		Button{Serial: 2, Code: BtnLeft, Pressed: true},
		Motion{X: 15, Y: 18},
		Motion{X: 15, Y: 18},
		Button{Serial: 3, Code: BtnLeft, Pressed: false},
	}
	for i, ev := range frames {
		red, err := Reduce(frameOf(ev), trackedSurface, st, content)
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if red.Dirty {
			changes++
		}
		st, content = red.Pointer, red.Content
	}

	if changes != 1 {
		t.Fatalf("content changed %d times, want 1", changes)
	}
	want := viewport.NewContentState().MovedBy(-5, -8)
	if content != want {
		t.Fatalf("content = %+v, want %+v", content, want)
	}
	if st.Buttons != 0 {
		t.Fatalf("buttons still pressed: %b", st.Buttons)
	}
}

func TestMotionDragRequiresOnlyPrimary(t *testing.T) {
	tests := []struct {
		name    string
		buttons ButtonSet
		moves   bool
	}{
		{name: "no buttons", buttons: 0, moves: false},
		{name: "left only", buttons: ButtonSet(0).With(IndexLeft), moves: true},
		{name: "right only", buttons: ButtonSet(0).With(IndexRight), moves: false},
		{name: "left and right", buttons: ButtonSet(0).With(IndexLeft).With(IndexRight), moves: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := State{Position: Point{X: 100, Y: 100}, OnSurface: true, Buttons: tt.buttons}
			content := viewport.NewContentState()
			red, err := Reduce(frameOf(Motion{X: 90, Y: 105}), trackedSurface, st, content)
			if err != nil {
				t.Fatalf("reduce failed: %v", err)
			}
			if red.Dirty != tt.moves {
				t.Fatalf("dirty = %v, want %v", red.Dirty, tt.moves)
			}
			if tt.moves && red.Content != content.MovedBy(10, -5) {
				t.Fatalf("content = %+v", red.Content)
			}
			if red.Pointer.Position != (Point{X: 90, Y: 105}) {
				t.Fatalf("position not updated: %+v", red.Pointer.Position)
			}
		})
	}
}

func TestEnterLeaveOnlyForTrackedSurface(t *testing.T) {
	pressed := State{Position: Point{X: 1, Y: 2}, OnSurface: true, Buttons: ButtonSet(0).With(IndexRight)}
	content := viewport.NewContentState()

	red, _ := Reduce(frameOf(Enter{Surface: 99, X: 5, Y: 5}), trackedSurface, pressed, content)
	if diff := cmp.Diff(pressed, red.Pointer); diff != "" {
		t.Fatalf("enter on foreign surface changed state:\n%s", diff)
	}

	red, _ = Reduce(frameOf(Enter{Surface: trackedSurface, X: 5, Y: 6}), trackedSurface, pressed, content)
	want := State{Position: Point{X: 5, Y: 6}, OnSurface: true}
	if diff := cmp.Diff(want, red.Pointer); diff != "" {
		t.Fatalf("enter mismatch (-want +got):\n%s", diff)
	}

	red, _ = Reduce(frameOf(Leave{Surface: 99}), trackedSurface, pressed, content)
	if diff := cmp.Diff(pressed, red.Pointer); diff != "" {
		t.Fatalf("leave from foreign surface changed state:\n%s", diff)
	}

	red, _ = Reduce(frameOf(Leave{Surface: trackedSurface}), trackedSurface, pressed, content)
	if diff := cmp.Diff(State{}, red.Pointer); diff != "" {
		t.Fatalf("leave did not clear state:\n%s", diff)
	}
}

func TestButtonSetAndClear(t *testing.T) {
	st := State{}
	content := viewport.NewContentState()
	red, err := Reduce(frameOf(Button{Code: BtnMiddle, Pressed: true}), trackedSurface, st, content)
	if err != nil {
		t.Fatalf("press failed: %v", err)
	}
	if !red.Pointer.Buttons.Has(IndexMiddle) {
		t.Fatalf("middle not pressed: %b", red.Pointer.Buttons)
	}
	red, err = Reduce(frameOf(Button{Code: BtnMiddle, Pressed: false}), trackedSurface, red.Pointer, content)
	if err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if red.Pointer.Buttons != 0 {
		t.Fatalf("buttons = %b after release", red.Pointer.Buttons)
	}
}

func TestUnmappedButtonIgnored(t *testing.T) {
	st := State{Buttons: ButtonSet(0).With(IndexLeft)}
	red, err := Reduce(frameOf(Button{Code: 0x14a, Pressed: true}), trackedSurface, st, viewport.NewContentState())
	if !errors.Is(err, ErrUnmappedButton) {
		t.Fatalf("expected ErrUnmappedButton, got %v", err)
	}
	if red.Pointer != st {
		t.Fatalf("state changed: %+v", red.Pointer)
	}
}

func TestAxesScrollWithoutInversion(t *testing.T) {
	content := viewport.NewContentState()
	axes := Axes{
		Horizontal: &AxisComponent{Value: set(3.0)},
		Vertical:   &AxisComponent{Value: set(-7.5), Value120: set(int32(-120))},
		Source:     set(SourceWheel),
	}
	red, err := Reduce(frameOf(axes), trackedSurface, State{}, content)
	if err != nil {
		t.Fatalf("reduce failed: %v", err)
	}
	if !red.Dirty || red.Content != content.MovedBy(3, -7.5) {
		t.Fatalf("content = %+v dirty=%v", red.Content, red.Dirty)
	}
}

func TestAxesMetadataOnlyDoesNotMove(t *testing.T) {
	content := viewport.NewContentState()
	axes := Axes{Vertical: &AxisComponent{StopTimeMs: set(uint32(10)), Value120: set(int32(120))}, Source: set(SourceFinger)}
	red, err := Reduce(frameOf(axes), trackedSurface, State{}, content)
	if err != nil {
		t.Fatalf("reduce failed: %v", err)
	}
	if red.Dirty || red.Content != content {
		t.Fatalf("metadata-only frame moved the view: %+v", red.Content)
	}
}

func TestReduceEmptyFrame(t *testing.T) {
	st := State{OnSurface: true}
	content := viewport.NewContentState()
	red, err := Reduce(EventFrame{}, trackedSurface, st, content)
	if !errors.Is(err, ErrEmptyFrame) {
		t.Fatalf("expected ErrEmptyFrame, got %v", err)
	}
	if red.Pointer != st || red.Content != content {
		t.Fatalf("empty frame changed state")
	}
}
