// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Embedded defaults and fallbacks for keys missing from wlcanvas.json.

package config

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/framegrace/wlcanvas/defaults"
)

var (
	embeddedOnce sync.Once
	embedded     Config
)

// defaultConfig returns a copy of defaults/wlcanvas.json, or an empty
// config if it does not parse.
func defaultConfig() Config {
	embeddedOnce.Do(func() {
		if err := json.Unmarshal(defaults.SystemConfig(), &embedded); err != nil {
			log.Printf("Config: embedded defaults are invalid: %v", err)
			embedded = nil
		}
	})
	if embedded == nil {
		return make(Config)
	}
	return Clone(embedded)
}

// withDefaults fills keys missing from cfg, which may be nil.
func withDefaults(cfg Config) Config {
	if cfg == nil {
		cfg = make(Config)
	}
	cfg.RegisterDefaults("window", Section{
		"width":  800,
		"height": 600,
		"title":  "WaylandInputWindow",
	})
	cfg.RegisterDefaults("viewport", Section{
		"cell_size":         60,
		"preview_cell_size": 4,
		"zoom_factor":       1.25,
	})
	cfg.RegisterDefaults("bindings", Section{
		"zoom_in":    []interface{}{"extra", "forward"},
		"zoom_out":   []interface{}{"side", "back"},
		"zoom_reset": []interface{}{"middle"},
	})
	cfg.RegisterDefaults("logging", Section{
		"verbose": false,
		"to_file": true,
	})
	return cfg
}
