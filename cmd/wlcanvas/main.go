// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/wlcanvas/main.go
// Summary: Pannable, zoomable checkerboard window for Wayland, with a terminal fallback.
// Usage: wlcanvas [-backend auto|wayland|terminal] [-socket path] [-width n] [-height n] [-title s]
// Notes: Setup failures exit with the code of the failing stage.

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/framegrace/wlcanvas/client"
	"github.com/framegrace/wlcanvas/config"
	clientruntime "github.com/framegrace/wlcanvas/internal/runtime/client"
	"github.com/framegrace/wlcanvas/internal/runtime/engine"
	"github.com/framegrace/wlcanvas/internal/runtime/preview"
)

func main() {
	settings := config.System().Settings()
	if err := config.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v (using defaults)\n", err)
	}

	backend := flag.String("backend", "auto", "Output backend: auto, wayland or terminal")
	socket := flag.String("socket", "", "Display socket path (default: $XDG_RUNTIME_DIR/$WAYLAND_DISPLAY)")
	width := flag.Int("width", settings.Width, "Window width in pixels")
	height := flag.Int("height", settings.Height, "Window height in pixels")
	title := flag.String("title", settings.Title, "Window title")
	verbose := flag.Bool("verbose-logs", settings.Verbose, "Enable per-event trace logging")
	panicLogPath := flag.String("panic-log", "", "File to append panic stack traces")
	flag.Parse()

	settings.Width, settings.Height, settings.Title = *width, *height, *title
	setVerbose(*verbose)

	chosen, err := chooseBackend(*backend, *socket, term.IsTerminal(int(os.Stdout.Fd())))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	os.Exit(run(chosen, *socket, *panicLogPath, settings))
}

func run(backend, socket, panicLog string, settings config.Settings) int {
	engineOpts, err := engineOptions(settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 2
	}

	switch backend {
	case backendTerminal:
		// The screen owns stderr while the preview runs.
		if logFile, logErr := clientruntime.SetupLogging(); logErr == nil {
			defer logFile.Close()
		} else {
			log.SetOutput(io.Discard)
		}
		panicLogger := clientruntime.NewPanicLogger(panicLog)
		defer panicLogger.Recover("preview")
		err = preview.Run(preview.Options{
			CellSize:  settings.PreviewCellSize,
			Engine:    engineOpts,
			Go:        panicLogger.Go,
			OnRestore: panicLogger.OnPanic,
		})
	default:
		err = clientruntime.Run(clientruntime.Options{
			Socket:    socket,
			PanicLog:  panicLog,
			LogToFile: settings.LogToFile,
			Window: clientruntime.WindowConfig{
				Width:    settings.Width,
				Height:   settings.Height,
				Title:    settings.Title,
				CellSize: settings.CellSize,
				Engine:   engineOpts,
			},
		})
	}
	if err == nil {
		return 0
	}

	fmt.Fprintf(os.Stderr, "wlcanvas: %v\n", err)
	log.Printf("Main: exiting: %v", err)
	var setup *clientruntime.SetupError
	if errors.As(err, &setup) {
		return setup.Code
	}
	return 1
}

const (
	backendAuto     = "auto"
	backendWayland  = "wayland"
	backendTerminal = "terminal"
)

// chooseBackend resolves "auto" to wayland when a display socket exists or
// was given, to the terminal preview when stdout is a terminal, and to
// wayland otherwise so the connect failure is reported.
func chooseBackend(requested, socket string, isTerminal bool) (string, error) {
	switch requested {
	case backendWayland, backendTerminal:
		return requested, nil
	case backendAuto, "":
	default:
		return "", fmt.Errorf("unknown backend %q", requested)
	}
	if socket != "" {
		return backendWayland, nil
	}
	if path, err := client.SocketPath(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return backendWayland, nil
		}
	}
	if isTerminal {
		return backendTerminal, nil
	}
	return backendWayland, nil
}

var bindingActions = map[string]engine.Action{
	"zoom_in":    engine.ActionZoomIn,
	"zoom_out":   engine.ActionZoomOut,
	"zoom_reset": engine.ActionZoomReset,
}

func engineOptions(settings config.Settings) (engine.Options, error) {
	named := make(map[engine.Action][]string, len(settings.Bindings))
	for name, buttons := range settings.Bindings {
		action, ok := bindingActions[name]
		if !ok {
			return engine.Options{}, fmt.Errorf("unknown binding action %q", name)
		}
		named[action] = buttons
	}
	bindings, err := engine.ParseBindings(named)
	if err != nil {
		return engine.Options{}, err
	}
	return engine.Options{ZoomFactor: settings.ZoomFactor, Bindings: bindings}, nil
}

func setVerbose(enable bool) {
	client.SetVerboseLogging(enable)
	clientruntime.SetVerboseLogging(enable)
	engine.SetVerboseLogging(enable)
	preview.SetVerboseLogging(enable)
}
