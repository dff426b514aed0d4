// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: client/conn.go
// Summary: Display server connection on top of go-wayland with sticky fatal errors and round trips.
// Usage: Dial, create a Registry, bind globals, then call DispatchOnce from the driving loop.
// Notes: Single-threaded; go-wayland runs handlers inside DispatchOnce.

package client

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	wl "github.com/rajveermalviya/go-wayland/wayland/client"
)

// DefaultDisplay is the socket name used when WAYLAND_DISPLAY is unset.
const DefaultDisplay = "wayland-0"

var ErrNoRuntimeDir = errors.New("client: XDG_RUNTIME_DIR is not set")

// DisplayError is the fatal protocol error sent by the display server.
type DisplayError struct {
	ObjectID uint32
	Code     uint32
	Message  string
}

func (e *DisplayError) Error() string {
	return fmt.Sprintf("client: display error on object %d (code %d): %s", e.ObjectID, e.Code, e.Message)
}

// Conn is a client connection to a display server.
type Conn struct {
	display *wl.Display
	ctx     *wl.Context
	err     error
}

// SocketPath resolves the display socket from the environment.
func SocketPath() (string, error) {
	if os.Getenv("WAYLAND_SOCKET") != "" {
		log.Printf("Client: WAYLAND_SOCKET is not supported, using WAYLAND_DISPLAY")
	}
	name := os.Getenv("WAYLAND_DISPLAY")
	if name == "" {
		name = DefaultDisplay
	}
	if filepath.IsAbs(name) {
		return name, nil
	}
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		return "", ErrNoRuntimeDir
	}
	return filepath.Join(dir, name), nil
}

// Dial connects to the display socket at path, or to SocketPath() when path is empty.
func Dial(path string) (*Conn, error) {
	if path == "" {
		resolved, err := SocketPath()
		if err != nil {
			return nil, err
		}
		path = resolved
	}
	display, err := wl.Connect(path)
	if err != nil {
		return nil, fmt.Errorf("client: dial %s: %w", path, err)
	}
	debugLog.Printf("connected to %s", path)
	c := &Conn{display: display, ctx: display.Context()}
	display.SetErrorHandler(c.handleError)
	return c, nil
}

func (c *Conn) handleError(ev wl.DisplayErrorEvent) {
	de := &DisplayError{Code: ev.Code, Message: ev.Message}
	if ev.ObjectId != nil {
		de.ObjectID = ev.ObjectId.ID()
	}
	log.Printf("Client: %v", de)
	c.fail(de)
}

func (c *Conn) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

// Display is the wl_display proxy, used to create the registry and sync points.
func (c *Conn) Display() *wl.Display { return c.display }

// Context is the go-wayland object table; new proxies are registered on it.
func (c *Conn) Context() *wl.Context { return c.ctx }

// Err returns the fatal error that ended the connection, if any.
func (c *Conn) Err() error { return c.err }

// DispatchOnce blocks for one event and runs its handler. It reports the
// number of events handled; after a display error or a read failure every
// call returns that error.
func (c *Conn) DispatchOnce() (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	if err := c.ctx.Dispatch(); err != nil {
		c.fail(fmt.Errorf("client: dispatch: %w", err))
		return 0, c.err
	}
	return 1, c.err
}

// Roundtrip blocks until the server processed every request sent so far.
func (c *Conn) Roundtrip() error {
	if c.err != nil {
		return c.err
	}
	cb, err := c.display.Sync()
	if err != nil {
		return fmt.Errorf("client: sync: %w", err)
	}
	defer cb.Destroy()
	done := false
	cb.SetDoneHandler(func(wl.CallbackDoneEvent) { done = true })
	for !done {
		if _, err := c.DispatchOnce(); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the socket.
func (c *Conn) Close() error {
	return c.ctx.Close()
}
