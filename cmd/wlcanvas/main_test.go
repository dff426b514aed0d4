// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/framegrace/wlcanvas/config"
	"github.com/framegrace/wlcanvas/internal/pointer"
	"github.com/framegrace/wlcanvas/internal/runtime/engine"
)

func TestChooseBackend(t *testing.T) {
	runtimeDir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", runtimeDir)
	t.Setenv("WAYLAND_DISPLAY", "wayland-test")

	tests := []struct {
		name       string
		requested  string
		socket     string
		isTerminal bool
		present    bool
		want       string
		wantErr    bool
	}{
		{name: "explicit terminal", requested: "terminal", want: "terminal"},
		{name: "explicit socket", requested: "auto", socket: "/tmp/x.sock", isTerminal: true, want: "wayland"},
		{name: "display present", requested: "auto", isTerminal: true, present: true, want: "wayland"},
		{name: "no display on a terminal", requested: "auto", isTerminal: true, want: "terminal"},
		{name: "no display, no terminal", requested: "", want: "wayland"},
		{name: "unknown", requested: "x11", wantErr: true},
	}
	path := filepath.Join(runtimeDir, "wayland-test")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Remove(path)
			if tt.present {
				if err := os.WriteFile(path, nil, 0o600); err != nil {
					t.Fatalf("create socket placeholder: %v", err)
				}
			}
			got, err := chooseBackend(tt.requested, tt.socket, tt.isTerminal)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("backend = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEngineOptionsFromSettings(t *testing.T) {
	settings := config.Settings{
		ZoomFactor: 2,
		Bindings: map[string][]string{
			"zoom_in":    {"left"},
			"zoom_reset": {"btn3"},
		},
	}
	got, err := engineOptions(settings)
	if err != nil {
		t.Fatalf("engineOptions: %v", err)
	}
	want := engine.Options{
		ZoomFactor: 2,
		Bindings: engine.Bindings{
			pointer.BtnLeft:     engine.ActionZoomIn,
			pointer.BtnMisc + 3: engine.ActionZoomReset,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	settings.Bindings["pan"] = []string{"right"}
	if _, err := engineOptions(settings); err == nil {
		t.Fatalf("expected an error for an unknown action")
	}
}
