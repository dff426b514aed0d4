// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: server/session.go
// Summary: Per-client compositor state: object table, shm pools, surfaces, configure handshake, and frame callbacks.
// Usage: Serve runs the request loop; tests and the simulator command drive events through the exported methods.
// Notes: Protocol violations are reported with wl_display.error and end the session, as a real compositor would.

package server

import (
	"context"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"net"
	"slices"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/framegrace/wlcanvas/internal/shm"
	"github.com/framegrace/wlcanvas/protocol"
)

// xdg_surface and wl_shm error codes used by the simulator.
const (
	xdgSurfaceErrorUnconfiguredBuffer uint32 = 3
	shmErrorInvalidStride             uint32 = 1
	shmErrorInvalidFD                 uint32 = 2
)

// Global names advertised by every session.
const (
	globalCompositor uint32 = iota + 1
	globalShm
	globalSeat
	globalXdgWmBase
)

var (
	ErrProtocol      = errors.New("server: client protocol violation")
	ErrSessionClosed = errors.New("server: session closed")
	ErrNoPointer     = errors.New("server: client has no pointer")
	ErrNoToplevel    = errors.New("server: client has no toplevel")
)

// Rect is a damaged area.
type Rect struct {
	X, Y, Width, Height int32
}

// Commit records one wl_surface.commit.
type Commit struct {
	Seq     int
	Surface uint32
	// Buffer is the committed wl_buffer, zero for an empty commit.
	Buffer   uint32
	Offset   int32
	Width    int32
	Height   int32
	Stride   int32
	Damage   []Rect
	Checksum uint32
	// Callbacks counts frame callbacks requested for this commit.
	Callbacks int
}

// Frame is a copy of the pixels of the latest committed buffer.
type Frame struct {
	Width, Height, Stride int
	Pixels                []byte
}

type bufferState struct {
	pool                          uint32
	offset, width, height, stride int32
	format                        uint32
}

type surfaceState struct {
	pending    uint32
	hasPending bool
	damage     []Rect
	frames     []uint32
	current    uint32
	xdg        uint32
}

type xdgSurfaceState struct {
	surface    uint32
	toplevel   uint32
	sentSerial uint32
	configured bool
}

// Session is one simulated client connection.
type Session struct {
	opts  Options
	conn  *net.UnixConn
	sock  *protocol.Socket
	start time.Time

	mu          sync.Mutex
	objects     map[uint32]string
	versions    map[uint32]uint32
	registries  []uint32
	seats       []uint32
	caps        uint32
	pointer     uint32
	pools       map[uint32]*shm.Pool
	buffers     map[uint32]*bufferState
	surfaces    map[uint32]*surfaceState
	xdgSurfaces map[uint32]*xdgSurfaceState
	title       string
	queued      []uint32
	commits     []Commit
	last        Frame
	pongs       []uint32
	serial      uint32
	closed      bool
	err         error
	changed     chan struct{}
}

// NewSession wraps an accepted connection. Call Serve to process requests.
func NewSession(conn *net.UnixConn, opts Options) *Session {
	opts = opts.withDefaults()
	return &Session{
		opts:        opts,
		conn:        conn,
		sock:        protocol.NewSocket(conn),
		start:       time.Now(),
		objects:     map[uint32]string{protocol.DisplayID: protocol.InterfaceDisplay},
		versions:    make(map[uint32]uint32),
		caps:        opts.Capabilities,
		pools:       make(map[uint32]*shm.Pool),
		buffers:     make(map[uint32]*bufferState),
		surfaces:    make(map[uint32]*surfaceState),
		xdgSurfaces: make(map[uint32]*xdgSurfaceState),
		changed:     make(chan struct{}),
	}
}

// Serve processes requests until the client disconnects or violates the
// protocol. A clean disconnect returns nil.
func (s *Session) Serve() error {
	defer s.teardown()

	if s.opts.FrameInterval > 0 {
		stop := make(chan struct{})
		defer close(stop)
		go s.frameTicker(stop)
	}

	for {
		msgs, err := s.sock.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		commits, err := s.handleBatch(msgs)
		if s.opts.OnCommit != nil {
			for _, c := range commits {
				s.opts.OnCommit(s, c)
			}
		}
		if err != nil {
			return err
		}
	}
}

func (s *Session) frameTicker(stop <-chan struct{}) {
	ticker := time.NewTicker(s.opts.FrameInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if _, err := s.FireFrame(); err != nil {
				return
			}
		}
	}
}

func (s *Session) handleBatch(msgs []protocol.Message) ([]Commit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.notifyLocked()

	before := len(s.commits)
	var failure error
	for _, m := range msgs {
		if err := s.handle(m); err != nil {
			failure = err
			s.err = err
			break
		}
	}
	if err := s.sock.Flush(); err != nil && failure == nil {
		failure = err
	}
	return append([]Commit(nil), s.commits[before:]...), failure
}

func (s *Session) handle(m protocol.Message) error {
	id, op := m.Header.ObjectID, m.Header.Opcode
	iface, ok := s.objects[id]
	if !ok {
		return s.protocolError(protocol.DisplayID, protocol.DisplayErrorInvalidObject, fmt.Sprintf("invalid object %d", id))
	}
	debugLog.Printf("<- %s@%d.%d", iface, id, op)

	switch iface {
	case protocol.InterfaceDisplay:
		return s.handleDisplay(op, m.Payload)
	case protocol.InterfaceRegistry:
		return s.handleRegistry(id, op, m.Payload)
	case protocol.InterfaceCompositor:
		if op != protocol.CompositorCreateSurface {
			break
		}
		req, err := protocol.DecodeCreateSurfaceRequest(m.Payload)
		if err != nil {
			return s.malformed(id, err)
		}
		s.objects[req.ID] = protocol.InterfaceSurface
		s.surfaces[req.ID] = &surfaceState{}
		return nil
	case protocol.InterfaceShm:
		return s.handleShm(id, op, m.Payload)
	case protocol.InterfaceShmPool:
		return s.handlePool(id, op, m.Payload)
	case protocol.InterfaceBuffer:
		if op == protocol.BufferDestroy {
			delete(s.buffers, id)
			return s.destroyLocked(id)
		}
	case protocol.InterfaceSurface:
		return s.handleSurface(id, op, m.Payload)
	case protocol.InterfaceSeat:
		return s.handleSeat(id, op, m.Payload)
	case protocol.InterfacePointer:
		if op == protocol.PointerRelease {
			if s.pointer == id {
				s.pointer = 0
			}
			return s.destroyLocked(id)
		}
	case protocol.InterfaceXdgWmBase:
		return s.handleWmBase(id, op, m.Payload)
	case protocol.InterfaceXdgSurface:
		return s.handleXdgSurface(id, op, m.Payload)
	case protocol.InterfaceXdgToplevel:
		switch op {
		case protocol.XdgToplevelSetTitle:
			req, err := protocol.DecodeSetTitleRequest(m.Payload)
			if err != nil {
				return s.malformed(id, err)
			}
			s.title = req.Title
			return nil
		case protocol.XdgToplevelDestroy:
			return s.destroyLocked(id)
		default:
			return nil
		}
	case protocol.InterfaceCallback:
	}
	return s.protocolError(id, protocol.DisplayErrorInvalidMethod, fmt.Sprintf("%s has no request %d", iface, op))
}

func (s *Session) handleDisplay(op uint16, payload []byte) error {
	switch op {
	case protocol.DisplaySync:
		req, err := protocol.DecodeSyncRequest(payload)
		if err != nil {
			return s.malformed(protocol.DisplayID, err)
		}
		if err := s.queueEvent(req.Callback, protocol.CallbackEventDone, enc(protocol.EncodeCallbackDone(protocol.CallbackDone{Data: s.serial}))); err != nil {
			return err
		}
		return s.queueEvent(protocol.DisplayID, protocol.DisplayEventDeleteID, enc(protocol.EncodeDeleteID(protocol.DeleteID{ID: req.Callback})))
	case protocol.DisplayGetRegistry:
		req, err := protocol.DecodeGetRegistryRequest(payload)
		if err != nil {
			return s.malformed(protocol.DisplayID, err)
		}
		s.objects[req.Registry] = protocol.InterfaceRegistry
		s.registries = append(s.registries, req.Registry)
		for _, g := range s.globals() {
			if err := s.queueEvent(req.Registry, protocol.RegistryEventGlobal, enc(protocol.EncodeGlobal(g))); err != nil {
				return err
			}
		}
		return nil
	}
	return s.protocolError(protocol.DisplayID, protocol.DisplayErrorInvalidMethod, fmt.Sprintf("wl_display has no request %d", op))
}

func (s *Session) globals() []protocol.Global {
	all := []protocol.Global{
		{Name: globalCompositor, Interface: protocol.InterfaceCompositor, Version: 6},
		{Name: globalShm, Interface: protocol.InterfaceShm, Version: 1},
		{Name: globalSeat, Interface: protocol.InterfaceSeat, Version: s.opts.SeatVersion},
		{Name: globalXdgWmBase, Interface: protocol.InterfaceXdgWmBase, Version: 6},
	}
	out := all[:0]
	for _, g := range all {
		if !slices.Contains(s.opts.Hide, g.Interface) {
			out = append(out, g)
		}
	}
	return out
}

func (s *Session) handleRegistry(id uint32, op uint16, payload []byte) error {
	if op != protocol.RegistryBind {
		return s.protocolError(id, protocol.DisplayErrorInvalidMethod, "wl_registry has no such request")
	}
	req, err := protocol.DecodeBindRequest(payload)
	if err != nil {
		return s.malformed(id, err)
	}
	var global protocol.Global
	for _, g := range s.globals() {
		if g.Name == req.Name {
			global = g
		}
	}
	if global.Name == 0 || global.Interface != req.Interface {
		return s.protocolError(id, protocol.DisplayErrorInvalidObject, fmt.Sprintf("invalid global %d (%s)", req.Name, req.Interface))
	}
	if req.Version == 0 || req.Version > global.Version {
		return s.protocolError(id, protocol.DisplayErrorInvalidObject, fmt.Sprintf("invalid version %d for %s", req.Version, req.Interface))
	}
	s.objects[req.ID] = req.Interface
	s.versions[req.ID] = req.Version

	switch req.Interface {
	case protocol.InterfaceShm:
		for _, f := range []uint32{protocol.ShmFormatARGB8888, protocol.ShmFormatXRGB8888} {
			if err := s.queueEvent(req.ID, protocol.ShmEventFormat, enc(protocol.EncodeShmFormat(protocol.ShmFormat{Format: f}))); err != nil {
				return err
			}
		}
	case protocol.InterfaceSeat:
		s.seats = append(s.seats, req.ID)
		if err := s.queueEvent(req.ID, protocol.SeatEventCapabilities, enc(protocol.EncodeSeatCapabilities(protocol.SeatCapabilities{Capabilities: s.caps}))); err != nil {
			return err
		}
		if req.Version >= 2 {
			return s.queueEvent(req.ID, protocol.SeatEventName, enc(protocol.EncodeSeatName(protocol.SeatName{Name: "seat0"})))
		}
	}
	return nil
}

func (s *Session) handleShm(id uint32, op uint16, payload []byte) error {
	if op != protocol.ShmCreatePool {
		return s.protocolError(id, protocol.DisplayErrorInvalidMethod, "wl_shm has no such request")
	}
	req, err := protocol.DecodeCreatePoolRequest(payload, s.sock.FDs())
	if err != nil {
		return s.protocolError(id, shmErrorInvalidFD, err.Error())
	}
	pool, err := shm.Map(req.FD, int(req.Size))
	if err != nil {
		unix.Close(req.FD)
		return s.protocolError(id, shmErrorInvalidFD, err.Error())
	}
	s.objects[req.ID] = protocol.InterfaceShmPool
	s.pools[req.ID] = pool
	return nil
}

func (s *Session) handlePool(id uint32, op uint16, payload []byte) error {
	switch op {
	case protocol.ShmPoolCreateBuffer:
		req, err := protocol.DecodeCreateBufferRequest(payload)
		if err != nil {
			return s.malformed(id, err)
		}
		pool := s.pools[id]
		end := int64(req.Offset) + int64(req.Stride)*int64(req.Height)
		if req.Width <= 0 || req.Height <= 0 || req.Offset < 0 || req.Stride < req.Width*4 || end > int64(pool.Size()) {
			return s.protocolError(id, shmErrorInvalidStride, fmt.Sprintf("buffer %dx%d stride %d offset %d exceeds pool of %d bytes", req.Width, req.Height, req.Stride, req.Offset, pool.Size()))
		}
		s.objects[req.ID] = protocol.InterfaceBuffer
		s.buffers[req.ID] = &bufferState{pool: id, offset: req.Offset, width: req.Width, height: req.Height, stride: req.Stride, format: req.Format}
		return nil
	case protocol.ShmPoolDestroy:
		// Buffers keep the mapping alive; it is released at teardown.
		return s.destroyLocked(id)
	case protocol.ShmPoolResize:
		debugLog.Printf("pool %d resize ignored", id)
		return nil
	}
	return s.protocolError(id, protocol.DisplayErrorInvalidMethod, "wl_shm_pool has no such request")
}

func (s *Session) handleSurface(id uint32, op uint16, payload []byte) error {
	surf := s.surfaces[id]
	switch op {
	case protocol.SurfaceAttach:
		req, err := protocol.DecodeAttachRequest(payload)
		if err != nil {
			return s.malformed(id, err)
		}
		if req.Buffer != 0 {
			if _, ok := s.buffers[req.Buffer]; !ok {
				return s.protocolError(id, protocol.DisplayErrorInvalidObject, fmt.Sprintf("attach of unknown buffer %d", req.Buffer))
			}
		}
		surf.pending = req.Buffer
		surf.hasPending = true
		return nil
	case protocol.SurfaceDamage, protocol.SurfaceDamageBuffer:
		req, err := protocol.DecodeDamageRequest(payload)
		if err != nil {
			return s.malformed(id, err)
		}
		surf.damage = append(surf.damage, Rect{X: req.X, Y: req.Y, Width: req.Width, Height: req.Height})
		return nil
	case protocol.SurfaceFrame:
		req, err := protocol.DecodeFrameRequest(payload)
		if err != nil {
			return s.malformed(id, err)
		}
		s.objects[req.Callback] = protocol.InterfaceCallback
		surf.frames = append(surf.frames, req.Callback)
		return nil
	case protocol.SurfaceCommit:
		return s.commitLocked(id, surf)
	case protocol.SurfaceDestroy:
		delete(s.surfaces, id)
		return s.destroyLocked(id)
	}
	return s.protocolError(id, protocol.DisplayErrorInvalidMethod, "wl_surface has no such request")
}

func (s *Session) commitLocked(id uint32, surf *surfaceState) error {
	xdg := s.xdgSurfaces[surf.xdg]
	if xdg != nil && xdg.toplevel != 0 && !xdg.configured {
		if surf.hasPending && surf.pending != 0 {
			return s.protocolError(surf.xdg, xdgSurfaceErrorUnconfiguredBuffer, "buffer attached before the first configure was acked")
		}
		if xdg.sentSerial == 0 {
			if err := s.sendConfigure(surf.xdg, xdg); err != nil {
				return err
			}
		}
	}

	if surf.hasPending {
		if surf.current != 0 && surf.current != surf.pending {
			if _, live := s.buffers[surf.current]; live {
				if err := s.queueEvent(surf.current, protocol.BufferEventRelease, enc(nil, nil)); err != nil {
					return err
				}
			}
		}
		surf.current = surf.pending
		surf.hasPending = false
	}

	c := Commit{
		Seq:       len(s.commits) + 1,
		Surface:   id,
		Damage:    surf.damage,
		Callbacks: len(surf.frames),
	}
	if buf, ok := s.buffers[surf.current]; ok && surf.current != 0 {
		c.Buffer = surf.current
		c.Offset, c.Width, c.Height, c.Stride = buf.offset, buf.width, buf.height, buf.stride
		if pool, ok := s.pools[buf.pool]; ok {
			pixels := pool.Bytes()[buf.offset : buf.offset+buf.stride*buf.height]
			c.Checksum = crc32.ChecksumIEEE(pixels)
			s.last = Frame{Width: int(buf.width), Height: int(buf.height), Stride: int(buf.stride), Pixels: append([]byte(nil), pixels...)}
		}
	}
	s.queued = append(s.queued, surf.frames...)
	surf.frames = nil
	surf.damage = nil
	s.commits = append(s.commits, c)
	debugLog.Printf("commit #%d surface %d buffer %d crc %08x", c.Seq, id, c.Buffer, c.Checksum)
	return nil
}

func (s *Session) sendConfigure(xdgID uint32, xdg *xdgSurfaceState) error {
	s.serial++
	xdg.sentSerial = s.serial
	cfg := protocol.ToplevelConfigure{Width: s.opts.ConfigureWidth, Height: s.opts.ConfigureHeight}
	if err := s.queueEvent(xdg.toplevel, protocol.XdgToplevelEventConfigure, enc(protocol.EncodeToplevelConfigure(cfg))); err != nil {
		return err
	}
	return s.queueEvent(xdgID, protocol.XdgSurfaceEventConfigure, enc(protocol.EncodeXdgSurfaceConfigure(protocol.XdgSurfaceConfigure{Serial: xdg.sentSerial})))
}

func (s *Session) handleSeat(id uint32, op uint16, payload []byte) error {
	switch op {
	case protocol.SeatGetPointer:
		req, err := protocol.DecodeGetPointerRequest(payload)
		if err != nil {
			return s.malformed(id, err)
		}
		s.objects[req.ID] = protocol.InterfacePointer
		s.versions[req.ID] = s.versions[id]
		s.pointer = req.ID
		return nil
	case protocol.SeatRelease:
		return s.destroyLocked(id)
	}
	return s.protocolError(id, protocol.DisplayErrorInvalidMethod, "wl_seat has no such request")
}

func (s *Session) handleWmBase(id uint32, op uint16, payload []byte) error {
	switch op {
	case protocol.XdgWmBaseGetXdgSurface:
		req, err := protocol.DecodeGetXdgSurfaceRequest(payload)
		if err != nil {
			return s.malformed(id, err)
		}
		surf, ok := s.surfaces[req.Surface]
		if !ok {
			return s.protocolError(id, protocol.DisplayErrorInvalidObject, fmt.Sprintf("unknown surface %d", req.Surface))
		}
		s.objects[req.ID] = protocol.InterfaceXdgSurface
		s.xdgSurfaces[req.ID] = &xdgSurfaceState{surface: req.Surface}
		surf.xdg = req.ID
		return nil
	case protocol.XdgWmBasePong:
		req, err := protocol.DecodePongRequest(payload)
		if err != nil {
			return s.malformed(id, err)
		}
		s.pongs = append(s.pongs, req.Serial)
		return nil
	case protocol.XdgWmBaseDestroy:
		return s.destroyLocked(id)
	}
	return s.protocolError(id, protocol.DisplayErrorInvalidMethod, "xdg_wm_base has no such request")
}

func (s *Session) handleXdgSurface(id uint32, op uint16, payload []byte) error {
	xdg := s.xdgSurfaces[id]
	switch op {
	case protocol.XdgSurfaceGetToplevel:
		req, err := protocol.DecodeGetToplevelRequest(payload)
		if err != nil {
			return s.malformed(id, err)
		}
		s.objects[req.ID] = protocol.InterfaceXdgToplevel
		xdg.toplevel = req.ID
		return nil
	case protocol.XdgSurfaceAckConfigure:
		req, err := protocol.DecodeAckConfigureRequest(payload)
		if err != nil {
			return s.malformed(id, err)
		}
		if req.Serial == 0 || req.Serial > s.serial {
			return s.protocolError(id, protocol.DisplayErrorInvalidMethod, fmt.Sprintf("ack of unknown serial %d", req.Serial))
		}
		xdg.configured = true
		return nil
	case protocol.XdgSurfaceDestroy:
		delete(s.xdgSurfaces, id)
		return s.destroyLocked(id)
	}
	return s.protocolError(id, protocol.DisplayErrorInvalidMethod, "xdg_surface has no such request")
}

func (s *Session) destroyLocked(id uint32) error {
	delete(s.objects, id)
	delete(s.versions, id)
	return s.queueEvent(protocol.DisplayID, protocol.DisplayEventDeleteID, enc(protocol.EncodeDeleteID(protocol.DeleteID{ID: id})))
}

// encoded carries an Encode* result to queueEvent.
type encoded struct {
	payload []byte
	err     error
}

func enc(payload []byte, err error) encoded {
	return encoded{payload: payload, err: err}
}

func (s *Session) queueEvent(id uint32, op uint16, e encoded) error {
	if e.err != nil {
		return e.err
	}
	return s.sock.Queue(id, op, e.payload)
}

func (s *Session) malformed(id uint32, err error) error {
	return s.protocolError(id, protocol.DisplayErrorInvalidMethod, "malformed request: "+err.Error())
}

// protocolError queues wl_display.error and returns the session-ending error.
func (s *Session) protocolError(id, code uint32, msg string) error {
	ev := protocol.DisplayError{ObjectID: id, Code: code, Message: msg}
	if err := s.queueEvent(protocol.DisplayID, protocol.DisplayEventError, enc(protocol.EncodeDisplayError(ev))); err != nil {
		return err
	}
	return fmt.Errorf("%w: object %d code %d: %s", ErrProtocol, id, code, msg)
}

func (s *Session) notifyLocked() {
	close(s.changed)
	s.changed = make(chan struct{})
}

func (s *Session) teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, pool := range s.pools {
		pool.Close()
		delete(s.pools, id)
	}
	s.sock.Close()
	s.notifyLocked()
}

// Close disconnects the client.
func (s *Session) Close() error {
	return s.conn.Close()
}

// wait blocks until cond, evaluated with the lock held, reports true.
func (s *Session) wait(ctx context.Context, cond func() bool) error {
	for {
		s.mu.Lock()
		ok, closed, ch, err := cond(), s.closed, s.changed, s.err
		s.mu.Unlock()
		if ok {
			return nil
		}
		if closed {
			if err != nil {
				return err
			}
			return ErrSessionClosed
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// WaitCommits blocks until at least n commits were recorded and returns them.
func (s *Session) WaitCommits(ctx context.Context, n int) ([]Commit, error) {
	if err := s.wait(ctx, func() bool { return len(s.commits) >= n }); err != nil {
		return nil, err
	}
	return s.Commits(), nil
}

// WaitPointer blocks until the client holds a pointer object, or none when want is false.
func (s *Session) WaitPointer(ctx context.Context, want bool) error {
	return s.wait(ctx, func() bool { return (s.pointer != 0) == want })
}

// WaitPong blocks until serial was answered.
func (s *Session) WaitPong(ctx context.Context, serial uint32) error {
	return s.wait(ctx, func() bool {
		for _, p := range s.pongs {
			if p == serial {
				return true
			}
		}
		return false
	})
}

// WaitClosed blocks until the session ended and returns its error.
func (s *Session) WaitClosed(ctx context.Context) error {
	err := s.wait(ctx, func() bool { return s.closed })
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// FireFrame signals every frame callback committed so far and returns how many fired.
func (s *Session) FireFrame() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrSessionClosed
	}
	now := uint32(time.Since(s.start).Milliseconds())
	fired := 0
	for _, cb := range s.queued {
		if err := s.queueEvent(cb, protocol.CallbackEventDone, enc(protocol.EncodeCallbackDone(protocol.CallbackDone{Data: now}))); err != nil {
			return fired, err
		}
		if err := s.destroyLocked(cb); err != nil {
			return fired, err
		}
		fired++
	}
	s.queued = nil
	return fired, s.sock.Flush()
}

// Pending returns the number of committed frame callbacks not yet fired.
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queued)
}

// SetCapabilities changes the seat capabilities and announces them.
func (s *Session) SetCapabilities(caps uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caps = caps
	for _, seat := range s.seats {
		if _, live := s.objects[seat]; !live {
			continue
		}
		if err := s.queueEvent(seat, protocol.SeatEventCapabilities, enc(protocol.EncodeSeatCapabilities(protocol.SeatCapabilities{Capabilities: caps}))); err != nil {
			return err
		}
	}
	return s.sock.Flush()
}

// Ping sends xdg_wm_base.ping on every bound wm_base.
func (s *Session) Ping(serial uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, iface := range s.objects {
		if iface != protocol.InterfaceXdgWmBase {
			continue
		}
		if err := s.queueEvent(id, protocol.XdgWmBaseEventPing, enc(protocol.EncodePing(protocol.Ping{Serial: serial}))); err != nil {
			return err
		}
	}
	return s.sock.Flush()
}

// CloseToplevel asks the client to close its window.
func (s *Session) CloseToplevel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, xdg := range s.xdgSurfaces {
		if xdg.toplevel == 0 {
			continue
		}
		if err := s.queueEvent(xdg.toplevel, protocol.XdgToplevelEventClose, enc(nil, nil)); err != nil {
			return err
		}
		return s.sock.Flush()
	}
	return ErrNoToplevel
}

// Commits returns a copy of the recorded commits.
func (s *Session) Commits() []Commit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Commit(nil), s.commits...)
}

// LastFrame returns the pixels of the latest commit that carried a buffer.
func (s *Session) LastFrame() (Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.last.Pixels != nil
}

// Title returns the toplevel title set by the client.
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

// Err returns the protocol violation that ended the session, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
