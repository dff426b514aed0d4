// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/types.go
// Summary: Section access and lenient typed getters.
// Notes: JSON numbers decode as float64 and hand-edited files often quote values, so getters convert rather than assert.

package config

import (
	"encoding/json"
	"strconv"
)

// Section returns the named section, the top level for "", or nil.
func (c Config) Section(name string) Section {
	if c == nil {
		return nil
	}
	if name == "" {
		return Section(c)
	}
	switch v := c[name].(type) {
	case Section:
		return v
	case map[string]interface{}:
		return Section(v)
	}
	return nil
}

// RegisterDefaults adds the keys of defaults missing from the section,
// creating the section if needed. Existing keys are never overwritten.
func (c Config) RegisterDefaults(name string, defaults Section) {
	if c == nil || len(defaults) == 0 {
		return
	}
	section := c.Section(name)
	if section == nil {
		section = make(Section, len(defaults))
		c[name] = section
	}
	for key, value := range defaults {
		if _, ok := section[key]; !ok {
			section[key] = cloneValue(value)
		}
	}
}

func (c Config) lookup(name, key string) (interface{}, bool) {
	section := c.Section(name)
	if section == nil {
		return nil, false
	}
	v, ok := section[key]
	return v, ok
}

func (c Config) GetString(name, key, def string) string {
	if v, ok := c.lookup(name, key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

func (c Config) GetFloat(name, key string, def float64) float64 {
	v, ok := c.lookup(name, key)
	if !ok {
		return def
	}
	if f, ok := toFloat(v); ok {
		return f
	}
	return def
}

// GetInt truncates fractional values.
func (c Config) GetInt(name, key string, def int) int {
	v, ok := c.lookup(name, key)
	if !ok {
		return def
	}
	if s, ok := v.(string); ok {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		return def
	}
	if f, ok := toFloat(v); ok {
		return int(f)
	}
	return def
}

// GetBool accepts booleans, strconv.ParseBool strings, and numbers (non-zero is true).
func (c Config) GetBool(name, key string, def bool) bool {
	v, ok := c.lookup(name, key)
	if !ok {
		return def
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		if b, err := strconv.ParseBool(t); err == nil {
			return b
		}
		return def
	}
	if f, ok := toFloat(v); ok {
		return f != 0
	}
	return def
}

// GetStrings retrieves a list of strings. A single string is a one-element
// list; non-string elements are skipped.
func (c Config) GetStrings(name, key string, def []string) []string {
	v, ok := c.lookup(name, key)
	if !ok {
		return def
	}
	switch t := v.(type) {
	case string:
		return []string{t}
	case []string:
		return append([]string(nil), t...)
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return def
}

func toFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	}
	return 0, false
}
