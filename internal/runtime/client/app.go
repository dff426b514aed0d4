// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runtime/client/app.go
// Summary: Entry point of the Wayland backend: logging, connection, window setup, and the driving loop.
// Usage: Called by cmd/wlcanvas; RunConn lets tests drive an already connected socket.
// Notes: Everything after setup runs on the calling goroutine.

package clientruntime

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/framegrace/wlcanvas/client"
	"github.com/framegrace/wlcanvas/internal/runtime/engine"
)

// Options configures the Wayland backend.
type Options struct {
	Socket   string
	PanicLog string
	Window   WindowConfig
	// LogToFile redirects the standard logger to the per-user log file.
	LogToFile bool
}

// Run connects to the display server and runs the window until it closes.
func Run(opts Options) error {
	panicLogger := NewPanicLogger(opts.PanicLog)
	defer panicLogger.Recover("run")

	if opts.LogToFile {
		logFile, err := SetupLogging()
		if err != nil {
			fmt.Fprintf(os.Stderr, "logging disabled: %v\n", err)
		} else {
			defer logFile.Close()
		}
	}

	conn, err := client.Dial(opts.Socket)
	if err != nil {
		return setupErr(ExitConnect, "connect", err)
	}
	defer conn.Close()
	return RunConn(conn, opts.Window)
}

// RunConn sets up the window on conn and drives it.
func RunConn(conn *client.Conn, cfg WindowConfig) error {
	w, err := NewWindow(conn, cfg)
	if err != nil {
		return err
	}
	defer w.Close()

	err = w.Run()
	frames, dropped := w.Engine().Stats()
	log.Printf("Window: loop ended after %d frames (%d dropped events, %d publishes)", frames, dropped, w.Engine().Scheduler().Publishes())
	return err
}

// DefaultWindowConfig is an 800x600 window with 60px cells and default bindings.
func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:    800,
		Height:   600,
		Title:    "WaylandInputWindow",
		CellSize: 60,
		Engine:   engine.Options{Bindings: engine.DefaultBindings()},
	}
}

// SetupLogging sends the standard logger to <UserConfigDir>/wlcanvas/logs/client.log.
func SetupLogging() (*os.File, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	logDir := filepath.Join(configDir, "wlcanvas", "logs")
	if err := os.MkdirAll(logDir, 0o750); err != nil {
		return nil, err
	}
	logPath := filepath.Join(logDir, "client.log")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, err
	}
	log.SetOutput(file)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return file, nil
}
