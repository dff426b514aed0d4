// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/settings.go
// Summary: Typed view of the sections used by cmd/wlcanvas.

package config

// Settings is the flattened startup configuration.
type Settings struct {
	Width, Height   int
	Title           string
	CellSize        int
	PreviewCellSize int
	ZoomFactor      float64
	// Bindings maps an action name (zoom_in, zoom_out, zoom_reset) to button names.
	Bindings  map[string][]string
	Verbose   bool
	LogToFile bool
}

// BindingActions lists the keys of the bindings section.
var BindingActions = []string{"zoom_in", "zoom_out", "zoom_reset"}

// Settings reads the window, viewport, bindings and logging sections.
func (c Config) Settings() Settings {
	s := Settings{
		Width:           c.GetInt("window", "width", 800),
		Height:          c.GetInt("window", "height", 600),
		Title:           c.GetString("window", "title", "WaylandInputWindow"),
		CellSize:        c.GetInt("viewport", "cell_size", 60),
		PreviewCellSize: c.GetInt("viewport", "preview_cell_size", 4),
		ZoomFactor:      c.GetFloat("viewport", "zoom_factor", 1.25),
		Bindings:        make(map[string][]string, len(BindingActions)),
		Verbose:         c.GetBool("logging", "verbose", false),
		LogToFile:       c.GetBool("logging", "to_file", true),
	}
	for _, action := range BindingActions {
		s.Bindings[action] = c.GetStrings("bindings", action, nil)
	}
	return s
}
