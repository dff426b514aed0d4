// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runtime/engine/engine.go
// Summary: Single-threaded driving loop that owns view, pointer, and render state.
// Usage: A backend constructs an Engine, feeds it events from its dispatch callbacks, and calls Run with its dispatcher.
// Notes: Every method runs on the loop goroutine; there is no locking.

package engine

import (
	"errors"
	"log"

	"github.com/framegrace/wlcanvas/internal/pointer"
	"github.com/framegrace/wlcanvas/internal/scheduler"
	"github.com/framegrace/wlcanvas/internal/viewport"
)

// ErrClosed is recorded when the display server asks the window to close.
var ErrClosed = errors.New("engine: close requested")

// Dispatcher blocks until at least one batch of events has been delivered
// to the engine's entry points, and returns how many were dispatched.
type Dispatcher interface {
	DispatchOnce() (int, error)
}

// Options configures an Engine.
type Options struct {
	// ZoomFactor is the step for zoom bindings; zero means viewport.DefaultZoomFactor.
	ZoomFactor float64
	// Bindings maps buttons to zoom actions; nil disables them.
	Bindings Bindings
	// Initial is the starting view; the zero value means viewport.NewContentState().
	Initial viewport.ContentState
}

// Engine is the driving loop.
type Engine struct {
	sched      *scheduler.Scheduler
	agg        *pointer.Aggregator
	bindings   Bindings
	zoomFactor float64

	tracked    pointer.SurfaceID
	hasTracked bool

	content      viewport.ContentState
	lastRendered viewport.ContentState
	pointer      pointer.State

	exit bool
	err  error

	frames  uint64
	dropped uint64
}

// New returns an engine that paints on its first iteration.
func New(sched *scheduler.Scheduler, opts Options) *Engine {
	content := opts.Initial
	if content == (viewport.ContentState{}) {
		content = viewport.NewContentState()
	}
	factor := opts.ZoomFactor
	if factor <= 0 {
		factor = viewport.DefaultZoomFactor
	}
	e := &Engine{
		sched:        sched,
		agg:          pointer.NewAggregator(),
		bindings:     opts.Bindings,
		zoomFactor:   factor,
		content:      content,
		lastRendered: content,
	}
	sched.RequestRedraw()
	return e
}

// Run iterates Step until the exit flag is set and returns the error that
// set it, or nil for a requested close.
func (e *Engine) Run(d Dispatcher) error {
	for !e.exit {
		e.Step(d)
	}
	if errors.Is(e.err, ErrClosed) {
		return nil
	}
	return e.err
}

// Step runs one iteration: mark dirty if the view changed since the last
// publish, publish if allowed, then block in the dispatcher.
func (e *Engine) Step(d Dispatcher) {
	if e.exit {
		return
	}
	e.sched.OnContentChanged(e.lastRendered, e.content)
	published, err := e.sched.MaybePublish(e.content)
	if err != nil {
		e.Fail(err)
		return
	}
	if published {
		e.lastRendered = e.content
		debugLog.Printf("published %+v", e.content)
	}
	if e.exit {
		return
	}
	n, err := d.DispatchOnce()
	if err != nil {
		e.Fail(err)
		return
	}
	if n > 0 {
		debugLog.Printf("dispatched %d events", n)
	}
}

// TrackSurface sets the surface whose enter/leave events are applied.
func (e *Engine) TrackSurface(id pointer.SurfaceID) {
	e.tracked = id
	e.hasTracked = true
}

// BindPointer makes dev the pointer whose frames are reduced.
func (e *Engine) BindPointer(dev pointer.DeviceID) {
	e.agg.Bind(dev)
	debugLog.Printf("pointer %d bound", dev)
}

// UnbindPointer forgets the pointer and clears its state.
func (e *Engine) UnbindPointer() {
	e.agg.Unbind()
	e.pointer = pointer.State{}
	debugLog.Printf("pointer unbound")
}

// PointerEvent adds a sub-notification to the open frame. Inconsistent
// sub-notifications are logged and dropped.
func (e *Engine) PointerEvent(dev pointer.DeviceID, sub pointer.SubEvent) {
	if e.exit {
		return
	}
	if err := e.agg.BeginOrContinue(dev, sub); err != nil {
		e.dropped++
		log.Printf("Pointer: dropped %T from device %d: %v", sub, dev, err)
	}
}

// PointerFrame completes the open frame for dev and reduces it.
func (e *Engine) PointerFrame(dev pointer.DeviceID) {
	if e.exit {
		return
	}
	frame, err := e.agg.CompleteFrame(dev)
	if errors.Is(err, pointer.ErrEmptyFrame) {
		log.Printf("Pointer: warning: %v (device %d)", err, dev)
		return
	}
	if err != nil {
		e.dropped++
		log.Printf("Pointer: discarded frame: %v", err)
		return
	}
	e.frames++
	e.reduce(frame)
}

func (e *Engine) reduce(frame pointer.EventFrame) {
	tracked := e.tracked
	if !e.hasTracked {
		tracked = 0
	}
	before := e.content
	red, err := pointer.Reduce(frame, tracked, e.pointer, e.content)
	if err != nil {
		log.Printf("Pointer: ignored %s frame: %v", frame.Kind(), err)
		return
	}
	e.pointer = red.Pointer
	e.content = red.Content

	if btn, ok := frame.Event.(pointer.Button); ok && btn.Pressed {
		if action, bound := e.bindings[btn.Code]; bound {
			e.content = action.Apply(e.content, e.zoomFactor, e.pointer.Position, e.pointer.OnSurface)
			debugLog.Printf("%s via %s", action, pointer.ButtonName(btn.Code))
		}
	}
	if e.content != before {
		e.sched.OnContentChanged(before, e.content)
	}
	debugLog.Printf("%s frame -> %+v", frame.Kind(), e.pointer)
}

// FrameReady forwards a readiness token to the scheduler; stale tokens are logged.
func (e *Engine) FrameReady(token scheduler.Token) {
	if err := e.sched.OnReadySignal(token); err != nil {
		log.Printf("Render: %v", err)
	}
}

// Apply replaces the view with fn(view), e.g. for keyboard zoom.
func (e *Engine) Apply(fn func(viewport.ContentState) viewport.ContentState) {
	if e.exit || fn == nil {
		return
	}
	next := fn(e.content)
	if next != e.content {
		e.sched.OnContentChanged(e.content, next)
		e.content = next
	}
}

// ApplyAction runs a bound action at the current pointer position.
func (e *Engine) ApplyAction(a Action) {
	e.Apply(func(c viewport.ContentState) viewport.ContentState {
		return a.Apply(c, e.zoomFactor, e.pointer.Position, e.pointer.OnSurface)
	})
}

// RequestClose sets the exit flag without an error.
func (e *Engine) RequestClose() {
	if e.err == nil {
		e.err = ErrClosed
	}
	e.exit = true
}

// Fail records a fatal error and sets the exit flag. The first error wins.
func (e *Engine) Fail(err error) {
	if err == nil {
		return
	}
	if e.err == nil || errors.Is(e.err, ErrClosed) {
		e.err = err
	}
	if !e.exit {
		log.Printf("Engine: stopping: %v", err)
	}
	e.exit = true
}

func (e *Engine) ShouldExit() bool                { return e.exit }
func (e *Engine) Err() error                      { return e.err }
func (e *Engine) Content() viewport.ContentState  { return e.content }
func (e *Engine) Pointer() pointer.State          { return e.pointer }
func (e *Engine) Scheduler() *scheduler.Scheduler { return e.sched }
func (e *Engine) Aggregator() *pointer.Aggregator { return e.agg }

// Stats returns the number of reduced frames and dropped events.
func (e *Engine) Stats() (frames, dropped uint64) {
	return e.frames, e.dropped
}
