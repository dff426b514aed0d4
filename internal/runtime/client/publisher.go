// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runtime/client/publisher.go
// Summary: Scheduler publisher backed by a wl_surface and two wl_buffers.
// Notes: wl_surface.frame is double-buffered state, so the commit is held back until RequestFrame has queued the frame request.

package clientruntime

import (
	"fmt"

	wl "github.com/rajveermalviya/go-wayland/wayland/client"

	"github.com/framegrace/wlcanvas/internal/scheduler"
)

// damageBufferSince is the wl_surface version that added damage_buffer.
const damageBufferSince uint32 = 4

type surfacePublisher struct {
	surface *wl.Surface
	version uint32
	buffers []*wl.Buffer
	onReady func(scheduler.Token)

	next          scheduler.Token
	pendingCommit bool
}

func (p *surfacePublisher) Attach(index int) error {
	if index < 0 || index >= len(p.buffers) {
		return fmt.Errorf("no buffer for region %d", index)
	}
	return p.surface.Attach(p.buffers[index], 0, 0)
}

func (p *surfacePublisher) Damage(width, height int) error {
	if p.version >= damageBufferSince {
		return p.surface.DamageBuffer(0, 0, int32(width), int32(height))
	}
	return p.surface.Damage(0, 0, int32(width), int32(height))
}

// Commit is deferred to RequestFrame.
func (p *surfacePublisher) Commit() error {
	p.pendingCommit = true
	return nil
}

func (p *surfacePublisher) RequestFrame() (scheduler.Token, error) {
	p.next++
	token := p.next
	cb, err := p.surface.Frame()
	if err != nil {
		return 0, err
	}
	cb.SetDoneHandler(func(ev wl.CallbackDoneEvent) {
		debugLog.Printf("frame %d done at %dms", token, ev.CallbackData)
		cb.Destroy()
		if p.onReady != nil {
			p.onReady(token)
		}
	})
	if p.pendingCommit {
		p.pendingCommit = false
		if err := p.surface.Commit(); err != nil {
			return 0, err
		}
	}
	return token, nil
}
