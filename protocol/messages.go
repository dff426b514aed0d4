// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: protocol/messages.go
// Summary: Typed requests and events for the compositor simulator.
// Notes: Requests only decode and events only encode; the client side is go-wayland.

package protocol

// SyncRequest asks the display for a callback once prior requests are handled.
type SyncRequest struct {
	Callback uint32
}

// GetRegistryRequest creates the registry object.
type GetRegistryRequest struct {
	Registry uint32
}

// BindRequest binds a global to a new object id. The interface name and
// version precede the id because the new_id is untyped.
type BindRequest struct {
	Name      uint32
	Interface string
	Version   uint32
	ID        uint32
}

// CreateSurfaceRequest creates a wl_surface on the compositor.
type CreateSurfaceRequest struct {
	ID uint32
}

// CreatePoolRequest shares a memory-backed descriptor with the compositor.
type CreatePoolRequest struct {
	ID   uint32
	FD   int
	Size int32
}

// CreateBufferRequest carves a buffer out of a pool.
type CreateBufferRequest struct {
	ID     uint32
	Offset int32
	Width  int32
	Height int32
	Stride int32
	Format uint32
}

// AttachRequest sets the pending buffer of a surface.
type AttachRequest struct {
	Buffer uint32
	X, Y   int32
}

// DamageRequest marks a rectangle as changed (surface or buffer coordinates).
type DamageRequest struct {
	X, Y          int32
	Width, Height int32
}

// FrameRequest asks for a callback when it is a good time to draw again.
type FrameRequest struct {
	Callback uint32
}

// GetPointerRequest creates the seat's wl_pointer.
type GetPointerRequest struct {
	ID uint32
}

// GetXdgSurfaceRequest assigns the xdg_surface role.
type GetXdgSurfaceRequest struct {
	ID      uint32
	Surface uint32
}

// PongRequest answers xdg_wm_base.ping.
type PongRequest struct {
	Serial uint32
}

// GetToplevelRequest creates the toplevel role object.
type GetToplevelRequest struct {
	ID uint32
}

// AckConfigureRequest acknowledges an xdg_surface.configure.
type AckConfigureRequest struct {
	Serial uint32
}

// SetTitleRequest sets the toplevel title.
type SetTitleRequest struct {
	Title string
}

// DisplayError is the fatal protocol error event.
type DisplayError struct {
	ObjectID uint32
	Code     uint32
	Message  string
}

// DeleteID tells the client an object id may be reused.
type DeleteID struct {
	ID uint32
}

// Global announces a global object.
type Global struct {
	Name      uint32
	Interface string
	Version   uint32
}

// CallbackDone fires a wl_callback. Data is a timestamp for frame callbacks.
type CallbackDone struct {
	Data uint32
}

// ShmFormat advertises a supported pixel format.
type ShmFormat struct {
	Format uint32
}

// SeatCapabilities announces which devices the seat offers.
type SeatCapabilities struct {
	Capabilities uint32
}

// SeatName names the seat.
type SeatName struct {
	Name string
}

type PointerEnter struct {
	Serial  uint32
	Surface uint32
	X, Y    Fixed
}

type PointerLeave struct {
	Serial  uint32
	Surface uint32
}

type PointerMotion struct {
	Time uint32
	X, Y Fixed
}

type PointerButton struct {
	Serial uint32
	Time   uint32
	Button uint32
	State  uint32
}

type PointerAxis struct {
	Time  uint32
	Axis  uint32
	Value Fixed
}

type PointerAxisSource struct {
	Source uint32
}

type PointerAxisStop struct {
	Time uint32
	Axis uint32
}

type PointerAxisDiscrete struct {
	Axis     uint32
	Discrete int32
}

type PointerAxisValue120 struct {
	Axis     uint32
	Value120 int32
}

// Ping must be answered with a PongRequest carrying the same serial.
type Ping struct {
	Serial uint32
}

// XdgSurfaceConfigure ends a configure sequence.
type XdgSurfaceConfigure struct {
	Serial uint32
}

// ToplevelConfigure suggests a size; zero means the client decides.
type ToplevelConfigure struct {
	Width  int32
	Height int32
	States []byte
}

func encodeUints(vals ...uint32) ([]byte, error) {
	e := NewEncoder(4 * len(vals))
	for _, v := range vals {
		e.Uint(v)
	}
	return e.Payload()
}

func decodeUints(b []byte, dst ...*uint32) error {
	d := NewDecoder(b, nil)
	for _, p := range dst {
		*p = d.Uint()
	}
	return d.Finish()
}

func DecodeSyncRequest(b []byte) (SyncRequest, error) {
	var m SyncRequest
	err := decodeUints(b, &m.Callback)
	return m, err
}

func DecodeGetRegistryRequest(b []byte) (GetRegistryRequest, error) {
	var m GetRegistryRequest
	err := decodeUints(b, &m.Registry)
	return m, err
}

func DecodeBindRequest(b []byte) (BindRequest, error) {
	d := NewDecoder(b, nil)
	m := BindRequest{Name: d.Uint(), Interface: d.String(), Version: d.Uint(), ID: d.NewID()}
	return m, d.Finish()
}

func DecodeCreateSurfaceRequest(b []byte) (CreateSurfaceRequest, error) {
	var m CreateSurfaceRequest
	err := decodeUints(b, &m.ID)
	return m, err
}

func DecodeCreatePoolRequest(b []byte, fds FDSource) (CreatePoolRequest, error) {
	d := NewDecoder(b, fds)
	m := CreatePoolRequest{ID: d.NewID(), FD: d.FD(), Size: d.Int()}
	return m, d.Finish()
}

func DecodeCreateBufferRequest(b []byte) (CreateBufferRequest, error) {
	d := NewDecoder(b, nil)
	m := CreateBufferRequest{ID: d.NewID(), Offset: d.Int(), Width: d.Int(), Height: d.Int(), Stride: d.Int(), Format: d.Uint()}
	return m, d.Finish()
}

func DecodeAttachRequest(b []byte) (AttachRequest, error) {
	d := NewDecoder(b, nil)
	m := AttachRequest{Buffer: d.Object(), X: d.Int(), Y: d.Int()}
	return m, d.Finish()
}

func DecodeDamageRequest(b []byte) (DamageRequest, error) {
	d := NewDecoder(b, nil)
	m := DamageRequest{X: d.Int(), Y: d.Int(), Width: d.Int(), Height: d.Int()}
	return m, d.Finish()
}

func DecodeFrameRequest(b []byte) (FrameRequest, error) {
	var m FrameRequest
	err := decodeUints(b, &m.Callback)
	return m, err
}

func DecodeGetPointerRequest(b []byte) (GetPointerRequest, error) {
	var m GetPointerRequest
	err := decodeUints(b, &m.ID)
	return m, err
}

func DecodeGetXdgSurfaceRequest(b []byte) (GetXdgSurfaceRequest, error) {
	var m GetXdgSurfaceRequest
	err := decodeUints(b, &m.ID, &m.Surface)
	return m, err
}

func DecodePongRequest(b []byte) (PongRequest, error) {
	var m PongRequest
	err := decodeUints(b, &m.Serial)
	return m, err
}

func DecodeGetToplevelRequest(b []byte) (GetToplevelRequest, error) {
	var m GetToplevelRequest
	err := decodeUints(b, &m.ID)
	return m, err
}

func DecodeAckConfigureRequest(b []byte) (AckConfigureRequest, error) {
	var m AckConfigureRequest
	err := decodeUints(b, &m.Serial)
	return m, err
}

func DecodeSetTitleRequest(b []byte) (SetTitleRequest, error) {
	d := NewDecoder(b, nil)
	m := SetTitleRequest{Title: d.String()}
	return m, d.Finish()
}

func EncodeDisplayError(m DisplayError) ([]byte, error) {
	return NewEncoder(12 + len(m.Message)).Object(m.ObjectID).Uint(m.Code).String(m.Message).Payload()
}

func EncodeDeleteID(m DeleteID) ([]byte, error) { return encodeUints(m.ID) }

func EncodeGlobal(m Global) ([]byte, error) {
	return NewEncoder(12 + len(m.Interface)).Uint(m.Name).String(m.Interface).Uint(m.Version).Payload()
}

func EncodeCallbackDone(m CallbackDone) ([]byte, error) { return encodeUints(m.Data) }

func EncodeShmFormat(m ShmFormat) ([]byte, error) { return encodeUints(m.Format) }

func EncodeSeatCapabilities(m SeatCapabilities) ([]byte, error) {
	return encodeUints(m.Capabilities)
}

func EncodeSeatName(m SeatName) ([]byte, error) {
	return NewEncoder(8 + len(m.Name)).String(m.Name).Payload()
}

func EncodePointerEnter(m PointerEnter) ([]byte, error) {
	return NewEncoder(16).Uint(m.Serial).Object(m.Surface).Fixed(m.X).Fixed(m.Y).Payload()
}

func EncodePointerLeave(m PointerLeave) ([]byte, error) { return encodeUints(m.Serial, m.Surface) }

func EncodePointerMotion(m PointerMotion) ([]byte, error) {
	return NewEncoder(12).Uint(m.Time).Fixed(m.X).Fixed(m.Y).Payload()
}

func EncodePointerButton(m PointerButton) ([]byte, error) {
	return encodeUints(m.Serial, m.Time, m.Button, m.State)
}

func EncodePointerAxis(m PointerAxis) ([]byte, error) {
	return NewEncoder(12).Uint(m.Time).Uint(m.Axis).Fixed(m.Value).Payload()
}

func EncodePointerAxisSource(m PointerAxisSource) ([]byte, error) { return encodeUints(m.Source) }

func EncodePointerAxisStop(m PointerAxisStop) ([]byte, error) { return encodeUints(m.Time, m.Axis) }

func EncodePointerAxisDiscrete(m PointerAxisDiscrete) ([]byte, error) {
	return NewEncoder(8).Uint(m.Axis).Int(m.Discrete).Payload()
}

func EncodePointerAxisValue120(m PointerAxisValue120) ([]byte, error) {
	return NewEncoder(8).Uint(m.Axis).Int(m.Value120).Payload()
}

func EncodePing(m Ping) ([]byte, error) { return encodeUints(m.Serial) }

func EncodeXdgSurfaceConfigure(m XdgSurfaceConfigure) ([]byte, error) {
	return encodeUints(m.Serial)
}

func EncodeToplevelConfigure(m ToplevelConfigure) ([]byte, error) {
	return NewEncoder(12 + len(m.States)).Int(m.Width).Int(m.Height).Array(m.States).Payload()
}