// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"bytes"
	"errors"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/framegrace/wlcanvas/internal/pointer"
	"github.com/framegrace/wlcanvas/internal/scheduler"
	"github.com/framegrace/wlcanvas/internal/swapchain"
	"github.com/framegrace/wlcanvas/internal/viewport"
)

const (
	testDevice  pointer.DeviceID  = 11
	testSurface pointer.SurfaceID = 5
)

type countingPublisher struct {
	attached []int
	next     scheduler.Token
}

func (p *countingPublisher) Attach(index int) error { p.attached = append(p.attached, index); return nil }
func (p *countingPublisher) Damage(int, int) error  { return nil }
func (p *countingPublisher) Commit() error          { return nil }

func (p *countingPublisher) RequestFrame() (scheduler.Token, error) {
	p.next++
	return p.next, nil
}

// scriptDispatcher runs one scripted batch per DispatchOnce.
type scriptDispatcher struct {
	batches []func()
	err     error
}

func (d *scriptDispatcher) DispatchOnce() (int, error) {
	if len(d.batches) == 0 {
		if d.err != nil {
			return 0, d.err
		}
		return 0, errors.New("script exhausted")
	}
	batch := d.batches[0]
	d.batches = d.batches[1:]
	batch()
	return 1, nil
}

func newTestEngine(t *testing.T, opts Options) (*Engine, *countingPublisher) {
	t.Helper()
	chain, err := swapchain.New(make([]byte, 2*swapchain.RegionSize(16, 16)), 16, 16)
	if err != nil {
		t.Fatalf("swapchain: %v", err)
	}
	pub := &countingPublisher{}
	e := New(scheduler.New(chain, viewport.NewCheckerboard(4), pub), opts)
	e.TrackSurface(testSurface)
	e.BindPointer(testDevice)
	return e, pub
}

func frame(e *Engine, subs ...pointer.SubEvent) func() {
	return func() {
		for _, sub := range subs {
			e.PointerEvent(testDevice, sub)
		}
		e.PointerFrame(testDevice)
	}
}

func TestFirstStepPaints(t *testing.T) {
	e, pub := newTestEngine(t, Options{})
	d := &scriptDispatcher{batches: []func(){func() {}}}
	e.Step(d)
	if len(pub.attached) != 1 || pub.attached[0] != 0 {
		t.Fatalf("attached = %v, want [0]", pub.attached)
	}
}

func TestDragPublishesOncePerReadySignal(t *testing.T) {
	e, pub := newTestEngine(t, Options{})
	d := &scriptDispatcher{}
	d.batches = []func(){
		frame(e, pointer.Enter{Serial: 1, Surface: testSurface, X: 10, Y: 10}),
		frame(e, pointer.Button{Serial: 2, Code: pointer.BtnLeft, Pressed: true}),
		frame(e, pointer.Motion{X: 15, Y: 18}),
		frame(e, pointer.Motion{X: 15, Y: 18}),
		frame(e, pointer.Button{Serial: 3, Code: pointer.BtnLeft}),
		func() { e.FrameReady(1) },
		func() { e.RequestClose() },
	}
	if err := e.Run(d); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	want := viewport.NewContentState().MovedBy(-5, -8)
	if e.Content() != want {
		t.Fatalf("content = %+v, want %+v", e.Content(), want)
	}
	// Initial paint, then one more after the readiness signal.
	if len(pub.attached) != 2 || pub.attached[1] != 1 {
		t.Fatalf("attached = %v, want [0 1]", pub.attached)
	}
	if rendered, _ := e.Scheduler().Rendered(); rendered != want {
		t.Fatalf("rendered = %+v", rendered)
	}
	frames, dropped := e.Stats()
	if frames != 5 || dropped != 0 {
		t.Fatalf("frames=%d dropped=%d", frames, dropped)
	}
}

func TestStaleTokenDoesNotPublish(t *testing.T) {
	e, pub := newTestEngine(t, Options{})
	d := &scriptDispatcher{}
	d.batches = []func(){
		func() { e.Apply(func(c viewport.ContentState) viewport.ContentState { return c.MovedBy(1, 1) }) },
		func() { e.FrameReady(42) },
		func() { e.RequestClose() },
	}
	if err := e.Run(d); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(pub.attached) != 1 {
		t.Fatalf("stale token caused a publish: %v", pub.attached)
	}
	if !e.Scheduler().Dirty() {
		t.Fatalf("pending change lost")
	}
}

func TestInconsistentSubEventsAreDropped(t *testing.T) {
	e, _ := newTestEngine(t, Options{})
	d := &scriptDispatcher{}
	d.batches = []func(){
		frame(e, pointer.Enter{Surface: testSurface, X: 1, Y: 1}),
		func() {
			e.PointerEvent(testDevice, pointer.AxisMotion{Axis: pointer.Horizontal, Value: 3})
			e.PointerEvent(testDevice, pointer.Motion{X: 50, Y: 50})
			e.PointerEvent(testDevice, pointer.AxisMotion{Axis: pointer.Horizontal, Value: 5})
			e.PointerFrame(testDevice)
		},
		func() { e.PointerFrame(testDevice) },
		func() { e.RequestClose() },
	}
	if err := e.Run(d); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if e.Content() != viewport.NewContentState().MovedBy(3, 0) {
		t.Fatalf("content = %+v", e.Content())
	}
	if e.Pointer().Position != (pointer.Point{X: 1, Y: 1}) {
		t.Fatalf("rejected motion leaked into state: %+v", e.Pointer())
	}
	if _, dropped := e.Stats(); dropped != 2 {
		t.Fatalf("dropped = %d, want 2", dropped)
	}
}

func TestZoomBindingAtPointer(t *testing.T) {
	e, _ := newTestEngine(t, Options{Bindings: DefaultBindings()})
	want := viewport.NewContentState().ZoomedInAt(8, 4, viewport.DefaultZoomFactor)
	var zoomed viewport.ContentState
	d := &scriptDispatcher{}
	d.batches = []func(){
		frame(e, pointer.Enter{Surface: testSurface, X: 8, Y: 4}),
		frame(e, pointer.Button{Code: pointer.BtnExtra, Pressed: true}),
		frame(e, pointer.Button{Code: pointer.BtnExtra}),
		func() {
			zoomed = e.Content()
			e.ApplyAction(ActionZoomReset)
		},
		func() { e.RequestClose() },
	}
	if err := e.Run(d); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if zoomed != want {
		t.Fatalf("content = %+v, want %+v", zoomed, want)
	}
	if e.Content().Zoom != 1 {
		t.Fatalf("reset left zoom at %v", e.Content().Zoom)
	}
}

func TestActionsIgnoredAfterExit(t *testing.T) {
	e, _ := newTestEngine(t, Options{})
	e.RequestClose()
	e.ApplyAction(ActionZoomIn)
	if e.Content() != viewport.NewContentState() {
		t.Fatalf("action applied after close: %+v", e.Content())
	}
}

func TestEmptyFrameIsLoggedAsWarning(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	e, _ := newTestEngine(t, Options{})
	e.PointerFrame(testDevice)
	if !strings.Contains(buf.String(), "Pointer: warning:") {
		t.Fatalf("no warning logged for an empty frame: %q", buf.String())
	}
	if frames, dropped := e.Stats(); frames != 0 || dropped != 0 {
		t.Fatalf("empty frame counted: frames=%d dropped=%d", frames, dropped)
	}
}

func TestTransportErrorStopsLoop(t *testing.T) {
	e, _ := newTestEngine(t, Options{})
	boom := errors.New("connection reset")
	d := &scriptDispatcher{err: boom}
	if err := e.Run(d); !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
	if !e.ShouldExit() {
		t.Fatalf("exit flag not set")
	}
	e.PointerEvent(testDevice, pointer.Motion{X: 1})
	if _, open := e.Aggregator().Open(); open {
		t.Fatalf("events reduced after fatal error")
	}
}

func TestUnbindClearsPointerState(t *testing.T) {
	e, _ := newTestEngine(t, Options{})
	frame(e, pointer.Enter{Surface: testSurface, X: 3, Y: 3})()
	e.UnbindPointer()
	if e.Pointer() != (pointer.State{}) {
		t.Fatalf("pointer state = %+v", e.Pointer())
	}
	frame(e, pointer.Motion{X: 9, Y: 9})()
	if e.Pointer() != (pointer.State{}) {
		t.Fatalf("frame from unbound device reduced: %+v", e.Pointer())
	}
}

func TestParseBindings(t *testing.T) {
	b, err := ParseBindings(map[Action][]string{
		ActionZoomIn:    {"forward"},
		ActionZoomOut:   {"back", "side"},
		ActionZoomReset: nil,
	})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if b[pointer.BtnForward] != ActionZoomIn || b[pointer.BtnSide] != ActionZoomOut || len(b) != 3 {
		t.Fatalf("bindings = %v", b)
	}

	if _, err := ParseBindings(map[Action][]string{ActionZoomIn: {"wheel"}}); err == nil {
		t.Fatalf("unknown button accepted")
	}
	if _, err := ParseBindings(map[Action][]string{ActionZoomIn: {"side"}, ActionZoomOut: {"side"}}); err == nil {
		t.Fatalf("conflicting binding accepted")
	}
}
