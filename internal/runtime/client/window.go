// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runtime/client/window.go
// Summary: Brings up the toplevel window: globals, shared-memory buffers, surface roles, and the configure handshake.
// Usage: NewWindow returns a window whose Engine is ready to Run against the connection.
// Notes: The first configure must be acked before any buffer is attached.

package clientruntime

import (
	"errors"
	"fmt"
	"log"

	wl "github.com/rajveermalviya/go-wayland/wayland/client"
	xdg_shell "github.com/rajveermalviya/go-wayland/wayland/stable/xdg-shell"

	"github.com/framegrace/wlcanvas/client"
	"github.com/framegrace/wlcanvas/internal/pointer"
	"github.com/framegrace/wlcanvas/internal/runtime/engine"
	"github.com/framegrace/wlcanvas/internal/scheduler"
	"github.com/framegrace/wlcanvas/internal/shm"
	"github.com/framegrace/wlcanvas/internal/swapchain"
	"github.com/framegrace/wlcanvas/internal/viewport"
)

// Globals the window binds and the highest version it speaks of each.
// wl_seat stops at 7: axis_value120 and relative_direction are not handled.
const (
	ifaceCompositor = "wl_compositor"
	ifaceShm        = "wl_shm"
	ifaceSeat       = "wl_seat"
	ifaceXdgWmBase  = "xdg_wm_base"

	compositorVersion uint32 = 4
	shmVersion        uint32 = 1
	seatVersion       uint32 = 7
	xdgWmBaseVersion  uint32 = 1
)

// WindowConfig sizes and labels the window.
type WindowConfig struct {
	Width, Height int
	Title         string
	CellSize      int
	Engine        engine.Options
}

// Window owns every protocol object of the toplevel.
type Window struct {
	conn *client.Conn
	eng  *engine.Engine
	pool *shm.Pool
	seat *seat

	compositor *wl.Compositor
	shm        *wl.Shm
	wmBase     *xdg_shell.WmBase
	surface    *wl.Surface
	xdgSurface *xdg_shell.Surface
	toplevel   *xdg_shell.Toplevel
	buffers    []*wl.Buffer

	configured bool
}

// NewWindow performs the whole setup sequence. Failures are *SetupError.
func NewWindow(conn *client.Conn, cfg WindowConfig) (*Window, error) {
	w := &Window{conn: conn}
	ctx := conn.Context()

	reg, err := client.NewRegistry(conn)
	if err != nil {
		return nil, setupErr(ExitRegistry, "get registry", err)
	}
	if err := conn.Roundtrip(); err != nil {
		return nil, setupErr(ExitRegistry, "registry roundtrip", err)
	}

	w.compositor = wl.NewCompositor(ctx)
	if _, err := reg.Bind(ifaceCompositor, compositorVersion, w.compositor); err != nil {
		return nil, setupErr(ExitCompositor, "bind wl_compositor", err)
	}
	w.shm = wl.NewShm(ctx)
	if _, err := reg.Bind(ifaceShm, shmVersion, w.shm); err != nil {
		return nil, setupErr(ExitShm, "bind wl_shm", err)
	}
	w.wmBase = xdg_shell.NewWmBase(ctx)
	if _, err := reg.Bind(ifaceXdgWmBase, xdgWmBaseVersion, w.wmBase); err != nil {
		return nil, setupErr(ExitXdgWmBase, "bind xdg_wm_base", err)
	}
	w.wmBase.SetPingHandler(w.handlePing)
	seatProxy := wl.NewSeat(ctx)
	version, err := reg.Bind(ifaceSeat, seatVersion, seatProxy)
	if err != nil {
		return nil, setupErr(ExitSeat, "bind wl_seat", err)
	}
	w.seat = newSeat(seatProxy, version)

	if w.surface, err = w.compositor.CreateSurface(); err != nil {
		return nil, setupErr(ExitSurface, "create surface", err)
	}
	chain, err := w.createBuffers(cfg.Width, cfg.Height)
	if err != nil {
		w.Close()
		return nil, setupErr(ExitShmAlloc, "allocate buffers", err)
	}

	surfaceVersion, _ := reg.BoundVersion(ifaceCompositor)
	pub := &surfacePublisher{surface: w.surface, version: surfaceVersion, buffers: w.buffers}
	sched := scheduler.New(chain, viewport.NewCheckerboard(cfg.CellSize), pub)
	w.eng = engine.New(sched, cfg.Engine)
	w.eng.TrackSurface(pointer.SurfaceID(w.surface.ID()))
	pub.onReady = w.eng.FrameReady
	w.seat.eng = w.eng

	if err := w.createToplevel(cfg.Title); err != nil {
		w.Close()
		return nil, setupErr(ExitSurface, "create toplevel", err)
	}
	if err := w.awaitConfigure(); err != nil {
		w.Close()
		return nil, setupErr(ExitSurface, "initial configure", err)
	}
	log.Printf("Window: %dx%d %q configured", cfg.Width, cfg.Height, cfg.Title)
	return w, nil
}

func (w *Window) createBuffers(width, height int) (*swapchain.Swapchain, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid size %dx%d", width, height)
	}
	size := swapchain.Regions * swapchain.RegionSize(width, height)
	mem, err := shm.Create("wlcanvas", size)
	if err != nil {
		return nil, err
	}
	w.pool = mem
	chain, err := swapchain.New(mem.Bytes(), width, height)
	if err != nil {
		return nil, err
	}

	pool, err := w.shm.CreatePool(mem.Fd(), int32(size))
	if err != nil {
		return nil, err
	}
	for i := 0; i < swapchain.Regions; i++ {
		buf, err := pool.CreateBuffer(int32(chain.Offset(i)), int32(width), int32(height), int32(chain.Stride()), uint32(wl.ShmFormatXrgb8888))
		if err != nil {
			return nil, err
		}
		buf.SetReleaseHandler(func(wl.BufferReleaseEvent) { debugLog.Printf("buffer %d released", i) })
		w.buffers = append(w.buffers, buf)
	}
	// The buffers keep the pool memory alive on the server side.
	if err := pool.Destroy(); err != nil {
		return nil, err
	}
	return chain, nil
}

func (w *Window) createToplevel(title string) error {
	var err error
	if w.xdgSurface, err = w.wmBase.GetXdgSurface(w.surface); err != nil {
		return err
	}
	w.xdgSurface.SetConfigureHandler(w.handleConfigure)
	if w.toplevel, err = w.xdgSurface.GetToplevel(); err != nil {
		return err
	}
	w.toplevel.SetConfigureHandler(func(ev xdg_shell.ToplevelConfigureEvent) {
		debugLog.Printf("toplevel suggests %dx%d", ev.Width, ev.Height)
	})
	w.toplevel.SetCloseHandler(func(xdg_shell.ToplevelCloseEvent) {
		log.Printf("Window: close requested")
		w.eng.RequestClose()
	})
	if err := w.toplevel.SetTitle(title); err != nil {
		return err
	}
	// Empty commit: asks the compositor for the first configure.
	return w.surface.Commit()
}

func (w *Window) awaitConfigure() error {
	for !w.configured {
		if w.eng.ShouldExit() {
			if err := w.eng.Err(); err != nil && !errors.Is(err, engine.ErrClosed) {
				return err
			}
			return errors.New("window closed during setup")
		}
		if _, err := w.conn.DispatchOnce(); err != nil {
			return err
		}
	}
	return nil
}

func (w *Window) handlePing(ev xdg_shell.WmBasePingEvent) {
	if err := w.wmBase.Pong(ev.Serial); err != nil {
		w.eng.Fail(fmt.Errorf("pong: %w", err))
	}
}

func (w *Window) handleConfigure(ev xdg_shell.SurfaceConfigureEvent) {
	if err := w.xdgSurface.AckConfigure(ev.Serial); err != nil {
		w.eng.Fail(fmt.Errorf("ack configure: %w", err))
		return
	}
	debugLog.Printf("configure %d acked", ev.Serial)
	if !w.configured {
		w.configured = true
		return
	}
	// The buffer size is fixed; repaint so the acked state gets a commit.
	w.eng.Scheduler().RequestRedraw()
}

// Engine returns the driving loop bound to this window.
func (w *Window) Engine() *engine.Engine {
	return w.eng
}

// Run drives the engine until close or a fatal error.
func (w *Window) Run() error {
	return w.eng.Run(w.conn)
}

// Close releases the shared memory. The connection is closed by its owner.
func (w *Window) Close() error {
	if w.pool == nil {
		return nil
	}
	err := w.pool.Close()
	w.pool = nil
	return err
}
