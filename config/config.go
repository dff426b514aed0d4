// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/config.go
// Summary: Process-wide store for wlcanvas.json.
// Usage: cmd/wlcanvas reads System().Settings() once at startup; flags override the result.
// Notes: A missing or empty file is seeded from defaults/wlcanvas.json; a malformed one is left untouched.

package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

const fileName = "wlcanvas.json"

// Config stores configuration sections as JSON-compatible data.
type Config map[string]interface{}

// Section stores key/value pairs for a configuration section.
type Section map[string]interface{}

type store struct {
	mu   sync.RWMutex
	path string
	cfg  Config
	err  error
}

var (
	once   sync.Once
	global *store
)

func defaultStore() *store {
	once.Do(func() {
		global = &store{}
		global.mu.Lock()
		global.err = global.loadLocked()
		global.mu.Unlock()
	})
	return global
}

// System returns the loaded configuration with defaults applied.
func System() Config {
	s := defaultStore()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Err returns the most recent load error.
func Err() error {
	s := defaultStore()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Reload reads wlcanvas.json again.
func Reload() error {
	s := defaultStore()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = s.loadLocked()
	return s.err
}

// SaveSystem persists the in-memory configuration.
func SaveSystem() error {
	s := defaultStore()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" {
		return fmt.Errorf("config: no config path: %w", s.err)
	}
	return writeFile(s.path, s.cfg)
}

// SetSystem replaces the in-memory configuration with a copy of cfg.
func SetSystem(cfg Config) {
	s := defaultStore()
	s.mu.Lock()
	defer s.mu.Unlock()
	if cfg == nil {
		cfg = make(Config)
	}
	s.cfg = Clone(cfg)
}

// Path returns the location of wlcanvas.json under the user config directory.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "wlcanvas", fileName), nil
}

func (s *store) loadLocked() error {
	path, err := Path()
	if err != nil {
		log.Printf("Config: Failed to resolve config path: %v", err)
		s.path = ""
		s.cfg = withDefaults(nil)
		return err
	}
	s.path = path

	cfg, exists, readErr := readFile(path)
	if readErr != nil {
		log.Printf("Config: Failed to read %s: %v", path, readErr)
	}
	seed := !exists || (readErr == nil && len(cfg) == 0)
	if readErr != nil || seed {
		cfg = defaultConfig()
	}
	cfg = withDefaults(cfg)

	if seed {
		if err := writeFile(path, cfg); err != nil {
			log.Printf("Config: Failed to write default config: %v", err)
			readErr = err
		} else {
			log.Printf("Config: Wrote defaults to %s", path)
		}
	} else if readErr == nil {
		log.Printf("Config: Loaded config from %s", path)
	}
	s.cfg = cfg
	return readErr
}
