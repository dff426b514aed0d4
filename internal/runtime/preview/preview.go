// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runtime/preview/preview.go
// Summary: Terminal backend that drives the engine from a tcell screen.
// Usage: Selected by cmd/wlcanvas with -backend terminal, or automatically when no display server is reachable.
// Notes: Two surface pixels share one cell through the upper half block; the last row is a status line.

package preview

import (
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/framegrace/wlcanvas/internal/pointer"
	"github.com/framegrace/wlcanvas/internal/runtime/engine"
	"github.com/framegrace/wlcanvas/internal/scheduler"
	"github.com/framegrace/wlcanvas/internal/swapchain"
	"github.com/framegrace/wlcanvas/internal/viewport"
)

const (
	// DefaultCellSize suits the low pixel density of a terminal.
	DefaultCellSize = 4

	surfaceID pointer.SurfaceID = 1
	deviceID  pointer.DeviceID  = 1
)

var (
	ErrScreenTooSmall = errors.New("preview: screen needs at least one column and two rows")
	ErrScreenClosed   = errors.New("preview: screen event stream ended")
)

// Options configures the preview.
type Options struct {
	// CellSize is the checkerboard cell edge; zero means DefaultCellSize.
	CellSize int
	Engine   engine.Options
	// Go starts the event poller; nil uses a plain goroutine.
	Go func(name string, fn func())
	// OnRestore, when set, receives the function that puts the terminal
	// back; callers that exit without unwinding must call it first.
	OnRestore func(restore func())
}

// Preview is both the publisher and the dispatcher of its engine.
type Preview struct {
	screen tcell.Screen
	chain  *swapchain.Swapchain
	eng    *engine.Engine

	events chan tcell.Event
	quit   chan struct{}

	attached int
	next     scheduler.Token
	ready    []scheduler.Token

	mouse mouseState
	start time.Time
}

// Run opens the terminal, runs the preview until it quits, and restores the terminal.
func Run(opts Options) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse(tcell.MouseMotionEvents)
	defer screen.DisableMouse()
	if opts.OnRestore != nil {
		opts.OnRestore(func() {
			screen.DisableMouse()
			screen.Fini()
		})
	}
	return RunScreen(screen, opts)
}

// RunScreen drives an initialized screen. The caller owns the screen.
func RunScreen(screen tcell.Screen, opts Options) error {
	p, err := New(screen, opts)
	if err != nil {
		return err
	}
	defer close(p.quit)

	start := opts.Go
	if start == nil {
		start = func(_ string, fn func()) { go fn() }
	}
	start("preview-poll", p.poll)

	err = p.eng.Run(p)
	frames, dropped := p.eng.Stats()
	debugLog.Printf("loop ended after %d frames (%d dropped, %d publishes)", frames, dropped, p.eng.Scheduler().Publishes())
	return err
}

// New sizes the swapchain to the screen and builds the engine on top of it.
func New(screen tcell.Screen, opts Options) (*Preview, error) {
	cols, rows := screen.Size()
	if cols < 1 || rows < 2 {
		return nil, fmt.Errorf("%w: %dx%d", ErrScreenTooSmall, cols, rows)
	}
	width, height := cols, 2*(rows-1)
	chain, err := swapchain.New(make([]byte, swapchain.Regions*swapchain.RegionSize(width, height)), width, height)
	if err != nil {
		return nil, err
	}

	cell := opts.CellSize
	if cell <= 0 {
		cell = DefaultCellSize
	}
	p := &Preview{
		screen: screen,
		chain:  chain,
		events: make(chan tcell.Event, 16),
		quit:   make(chan struct{}),
		mouse:  mouseState{surface: surfaceID},
		start:  time.Now(),
	}
	sched := scheduler.New(chain, viewport.NewCheckerboard(cell), p)
	p.eng = engine.New(sched, opts.Engine)
	p.eng.TrackSurface(surfaceID)
	p.eng.BindPointer(deviceID)
	screen.HideCursor()
	return p, nil
}

func (p *Preview) Engine() *engine.Engine { return p.eng }

func (p *Preview) poll() {
	for {
		ev := p.screen.PollEvent()
		if ev == nil {
			close(p.events)
			return
		}
		select {
		case p.events <- ev:
		case <-p.quit:
			return
		}
	}
}

// DispatchOnce delivers pending readiness tokens first, then blocks for one
// terminal event.
func (p *Preview) DispatchOnce() (int, error) {
	if n := len(p.ready); n > 0 {
		tokens := p.ready
		p.ready = nil
		for _, t := range tokens {
			p.eng.FrameReady(t)
		}
		return n, nil
	}
	ev, ok := <-p.events
	if !ok {
		return 0, ErrScreenClosed
	}
	p.handle(ev)
	return 1, nil
}

func (p *Preview) handle(ev tcell.Event) {
	switch tev := ev.(type) {
	case *tcell.EventKey:
		p.handleKey(tev)
	case *tcell.EventMouse:
		col, row := tev.Position()
		ms := uint32(tev.When().Sub(p.start).Milliseconds())
		for _, frame := range p.mouse.translate(col, row, tev.Buttons(), ms) {
			for _, sub := range frame {
				p.eng.PointerEvent(deviceID, sub)
			}
			p.eng.PointerFrame(deviceID)
		}
	case *tcell.EventResize:
		p.screen.Sync()
		p.eng.Scheduler().RequestRedraw()
	}
}

func (p *Preview) handleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		p.eng.RequestClose()
		return
	case tcell.KeyRune:
	default:
		return
	}
	switch ev.Rune() {
	case '+', '=':
		p.eng.ApplyAction(engine.ActionZoomIn)
	case '-':
		p.eng.ApplyAction(engine.ActionZoomOut)
	case '0':
		p.eng.ApplyAction(engine.ActionZoomReset)
	case 'q':
		p.eng.RequestClose()
	}
}

func (p *Preview) Attach(index int) error {
	p.attached = index
	return nil
}

// Damage is a no-op: every commit redraws the whole screen.
func (p *Preview) Damage(width, height int) error { return nil }

func (p *Preview) Commit() error {
	region, err := p.chain.Region(p.attached)
	if err != nil {
		return err
	}
	p.draw(region)
	p.screen.Show()
	return nil
}

// RequestFrame queues the readiness token for the next dispatch; the frame
// is already on the terminal once Commit returns.
func (p *Preview) RequestFrame() (scheduler.Token, error) {
	p.next++
	p.ready = append(p.ready, p.next)
	return p.next, nil
}

func (p *Preview) draw(region []byte) {
	cols, rows := p.screen.Size()
	width, height := p.chain.Width(), p.chain.Height()
	stride := p.chain.Stride()
	for row := 0; row < rows-1 && 2*row+1 < height; row++ {
		for col := 0; col < cols && col < width; col++ {
			upper := pixelColor(region, (2*row)*stride+col*viewport.BytesPerPixel)
			lower := pixelColor(region, (2*row+1)*stride+col*viewport.BytesPerPixel)
			p.screen.SetContent(col, row, '▀', nil, tcell.StyleDefault.Foreground(upper).Background(lower))
		}
	}
	p.drawStatus(cols, rows-1)
}

func (p *Preview) drawStatus(cols, row int) {
	c := p.eng.Content()
	frames, _ := p.eng.Stats()
	text := fmt.Sprintf(" offset %.0f,%.0f  zoom %.2f  frames %d  [+/-] zoom [0] reset [q] quit",
		c.OffsetX, c.OffsetY, c.Zoom, frames)
	text = runewidth.Truncate(text, cols, "…")

	style := tcell.StyleDefault.Reverse(true)
	x := 0
	for _, r := range text {
		p.screen.SetContent(x, row, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
	for ; x < cols; x++ {
		p.screen.SetContent(x, row, ' ', nil, style)
	}
}

// pixelColor reads a (B, G, R, X) pixel.
func pixelColor(region []byte, off int) tcell.Color {
	return tcell.NewRGBColor(int32(region[off+2]), int32(region[off+1]), int32(region[off]))
}
