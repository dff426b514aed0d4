// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: protocol/interfaces.go
// Summary: Interface names, supported versions, and opcodes for the core and xdg-shell protocols.

package protocol

// DisplayID is the well-known id of the wl_display singleton.
const DisplayID uint32 = 1

// Interface names as advertised by wl_registry.global.
const (
	InterfaceDisplay     = "wl_display"
	InterfaceRegistry    = "wl_registry"
	InterfaceCallback    = "wl_callback"
	InterfaceCompositor  = "wl_compositor"
	InterfaceShm         = "wl_shm"
	InterfaceShmPool     = "wl_shm_pool"
	InterfaceBuffer      = "wl_buffer"
	InterfaceSurface     = "wl_surface"
	InterfaceSeat        = "wl_seat"
	InterfacePointer     = "wl_pointer"
	InterfaceXdgWmBase   = "xdg_wm_base"
	InterfaceXdgSurface  = "xdg_surface"
	InterfaceXdgToplevel = "xdg_toplevel"
)

// SeatVersion is the wl_seat version the simulator advertises by default.
const SeatVersion uint32 = 9

// wl_display
const (
	DisplaySync        uint16 = 0
	DisplayGetRegistry uint16 = 1

	DisplayEventError    uint16 = 0
	DisplayEventDeleteID uint16 = 1
)

// wl_display error codes.
const (
	DisplayErrorInvalidObject  uint32 = 0
	DisplayErrorInvalidMethod  uint32 = 1
	DisplayErrorNoMemory       uint32 = 2
	DisplayErrorImplementation uint32 = 3
)

// wl_registry
const (
	RegistryBind uint16 = 0

	RegistryEventGlobal       uint16 = 0
	RegistryEventGlobalRemove uint16 = 1
)

// wl_callback
const CallbackEventDone uint16 = 0

// wl_compositor
const CompositorCreateSurface uint16 = 0

// wl_shm
const (
	ShmCreatePool uint16 = 0

	ShmEventFormat uint16 = 0
)

// wl_shm formats used here.
const (
	ShmFormatARGB8888 uint32 = 0
	ShmFormatXRGB8888 uint32 = 1
)

// wl_shm_pool
const (
	ShmPoolCreateBuffer uint16 = 0
	ShmPoolDestroy      uint16 = 1
	ShmPoolResize       uint16 = 2
)

// wl_buffer
const (
	BufferDestroy uint16 = 0

	BufferEventRelease uint16 = 0
)

// wl_surface
const (
	SurfaceDestroy      uint16 = 0
	SurfaceAttach       uint16 = 1
	SurfaceDamage       uint16 = 2
	SurfaceFrame        uint16 = 3
	SurfaceCommit       uint16 = 6
	SurfaceDamageBuffer uint16 = 9
)

// wl_seat
const (
	SeatGetPointer uint16 = 0
	SeatRelease    uint16 = 3

	SeatEventCapabilities uint16 = 0
	SeatEventName         uint16 = 1
)

// wl_seat capability bits.
const (
	SeatCapabilityPointer  uint32 = 1
	SeatCapabilityKeyboard uint32 = 2
	SeatCapabilityTouch    uint32 = 4
)

// wl_pointer
const (
	PointerRelease uint16 = 1

	PointerEventEnter        uint16 = 0
	PointerEventLeave        uint16 = 1
	PointerEventMotion       uint16 = 2
	PointerEventButton       uint16 = 3
	PointerEventAxis         uint16 = 4
	PointerEventFrame        uint16 = 5
	PointerEventAxisSource   uint16 = 6
	PointerEventAxisStop     uint16 = 7
	PointerEventAxisDiscrete uint16 = 8
	PointerEventAxisValue120 uint16 = 9
)

// Minimum wl_pointer versions for the optional events.
const (
	PointerSinceFrame    uint32 = 5
	PointerSinceValue120 uint32 = 8
)

// wl_pointer enums.
const (
	PointerButtonReleased uint32 = 0
	PointerButtonPressed  uint32 = 1

	PointerAxisVerticalScroll   uint32 = 0
	PointerAxisHorizontalScroll uint32 = 1

	PointerAxisSourceWheel      uint32 = 0
	PointerAxisSourceFinger     uint32 = 1
	PointerAxisSourceContinuous uint32 = 2
	PointerAxisSourceWheelTilt  uint32 = 3
)

// xdg_wm_base
const (
	XdgWmBaseDestroy       uint16 = 0
	XdgWmBaseGetXdgSurface uint16 = 2
	XdgWmBasePong          uint16 = 3

	XdgWmBaseEventPing uint16 = 0
)

// xdg_surface
const (
	XdgSurfaceDestroy      uint16 = 0
	XdgSurfaceGetToplevel  uint16 = 1
	XdgSurfaceAckConfigure uint16 = 4

	XdgSurfaceEventConfigure uint16 = 0
)

// xdg_toplevel
const (
	XdgToplevelDestroy  uint16 = 0
	XdgToplevelSetTitle uint16 = 2

	XdgToplevelEventConfigure uint16 = 0
	XdgToplevelEventClose     uint16 = 1
)
