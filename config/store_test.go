// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func resetStore() {
	once = sync.Once{}
	global = nil
}

func TestDefaultsWrittenOnFirstLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetStore()

	cfg := System()
	if got := cfg.GetInt("viewport", "cell_size", 0); got != 60 {
		t.Fatalf("expected cell_size 60, got %d", got)
	}

	path, err := Path()
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	var disk Config
	if err := json.Unmarshal(data, &disk); err != nil {
		t.Fatalf("unmarshal config: %v", err)
	}
	for _, name := range []string{"window", "viewport", "bindings", "logging"} {
		if disk.Section(name) == nil {
			t.Fatalf("expected %s section on disk", name)
		}
	}
}

func TestPartialFileGetsDefaults(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", root)
	resetStore()

	if err := writeFile(filepath.Join(root, "wlcanvas", fileName), Config{
		"window":   map[string]interface{}{"title": "board"},
		"bindings": map[string]interface{}{"zoom_in": "left"},
	}); err != nil {
		t.Fatalf("write config: %v", err)
	}

	got := System().Settings()
	want := Settings{
		Width:           800,
		Height:          600,
		Title:           "board",
		CellSize:        60,
		PreviewCellSize: 4,
		ZoomFactor:      1.25,
		Bindings: map[string][]string{
			"zoom_in":    {"left"},
			"zoom_out":   {"side", "back"},
			"zoom_reset": {"middle"},
		},
		LogToFile: true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("settings mismatch (-want +got):\n%s", diff)
	}
	if err := Err(); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
}

func TestMalformedFileKeepsDefaults(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", root)
	resetStore()

	path := filepath.Join(root, "wlcanvas", fileName)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := System()
	if Err() == nil {
		t.Fatalf("expected a load error")
	}
	if got := cfg.GetString("window", "title", ""); got != "WaylandInputWindow" {
		t.Fatalf("expected default title, got %q", got)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "{not json" {
		t.Fatalf("malformed file was overwritten: %q", data)
	}
}

func TestSaveSystemAndReload(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetStore()

	cfg := Clone(System())
	cfg.Section("viewport")["zoom_factor"] = 1.5
	SetSystem(cfg)
	if err := SaveSystem(); err != nil {
		t.Fatalf("SaveSystem: %v", err)
	}
	SetSystem(nil)
	if err := Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got := System().GetFloat("viewport", "zoom_factor", 0); got != 1.5 {
		t.Fatalf("expected zoom_factor 1.5 after reload, got %v", got)
	}
}

func TestTypedGetters(t *testing.T) {
	cfg := Config{
		"s": map[string]interface{}{
			"int_str":   "12",
			"float_int": 3,
			"bool_num":  float64(1),
			"list":      []interface{}{"a", 2, "b"},
		},
	}
	if got := cfg.GetInt("s", "int_str", 0); got != 12 {
		t.Errorf("GetInt = %d", got)
	}
	if got := cfg.GetFloat("s", "float_int", 0); got != 3 {
		t.Errorf("GetFloat = %v", got)
	}
	if !cfg.GetBool("s", "bool_num", false) {
		t.Errorf("GetBool = false")
	}
	if diff := cmp.Diff([]string{"a", "b"}, cfg.GetStrings("s", "list", nil)); diff != "" {
		t.Errorf("GetStrings mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.GetString("missing", "k", "def"); got != "def" {
		t.Errorf("GetString = %q", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := Config{"bindings": map[string]interface{}{"zoom_in": []interface{}{"left"}}}
	cp := Clone(orig)
	cp.Section("bindings")["zoom_in"].([]interface{})[0] = "right"
	if got := orig.GetStrings("bindings", "zoom_in", nil); got[0] != "left" {
		t.Fatalf("clone shares list storage: %v", got)
	}
}
