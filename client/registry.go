// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: client/registry.go
// Summary: Directory of advertised globals and version-negotiated binding.

package client

import (
	"errors"
	"fmt"
	"log"
	"sort"

	wl "github.com/rajveermalviya/go-wayland/wayland/client"
)

// ErrGlobalMissing reports an interface the server does not advertise.
var ErrGlobalMissing = errors.New("client: global not advertised")

// Global is one advertised capability.
type Global struct {
	Name      uint32
	Interface string
	Version   uint32
}

// Registry mirrors the server's globals.
type Registry struct {
	registry *wl.Registry
	globals  map[uint32]Global
	bound    map[string]uint32
}

// NewRegistry requests the registry. Globals arrive on the next dispatch;
// call conn.Roundtrip before looking them up.
func NewRegistry(conn *Conn) (*Registry, error) {
	reg, err := conn.Display().GetRegistry()
	if err != nil {
		return nil, fmt.Errorf("client: get registry: %w", err)
	}
	r := &Registry{
		registry: reg,
		globals:  make(map[uint32]Global),
		bound:    make(map[string]uint32),
	}
	reg.SetGlobalHandler(r.handleGlobal)
	reg.SetGlobalRemoveHandler(r.handleGlobalRemove)
	return r, nil
}

func (r *Registry) handleGlobal(ev wl.RegistryGlobalEvent) {
	r.globals[ev.Name] = Global{Name: ev.Name, Interface: ev.Interface, Version: ev.Version}
	debugLog.Printf("global %d: %s v%d", ev.Name, ev.Interface, ev.Version)
}

func (r *Registry) handleGlobalRemove(ev wl.RegistryGlobalRemoveEvent) {
	g, ok := r.globals[ev.Name]
	delete(r.globals, ev.Name)
	if ok {
		log.Printf("Client: global %d (%s) removed", ev.Name, g.Interface)
	}
}

// Find returns the first advertised global for iface.
func (r *Registry) Find(iface string) (Global, bool) {
	var best Global
	found := false
	for _, g := range r.globals {
		if g.Interface != iface {
			continue
		}
		if !found || g.Name < best.Name {
			best = g
			found = true
		}
	}
	return best, found
}

// Globals lists every advertised global ordered by name.
func (r *Registry) Globals() []Global {
	out := make([]Global, 0, len(r.globals))
	for _, g := range r.globals {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Bind binds proxy, freshly created on the connection's context, to the
// global for iface at min(advertised, supported) and returns that version.
func (r *Registry) Bind(iface string, supported uint32, proxy wl.Proxy) (uint32, error) {
	g, ok := r.Find(iface)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrGlobalMissing, iface)
	}
	version := min(g.Version, supported)
	if err := r.registry.Bind(g.Name, iface, version, proxy); err != nil {
		return 0, fmt.Errorf("client: bind %s: %w", iface, err)
	}
	r.bound[iface] = version
	debugLog.Printf("bound %s@%d v%d", iface, proxy.ID(), version)
	return version, nil
}

// BoundVersion returns the version negotiated for iface.
func (r *Registry) BoundVersion(iface string) (uint32, bool) {
	v, ok := r.bound[iface]
	return v, ok
}
