// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/scheduler/scheduler.go
// Summary: Frame-gated render scheduler over a two-region swapchain.
// Usage: The driving loop calls OnContentChanged and MaybePublish once per iteration and forwards frame-ready tokens to OnReadySignal.
// Notes: At most one publish is outstanding; the region handed to the compositor is not written until its token returns.

package scheduler

import (
	"errors"
	"fmt"

	"github.com/framegrace/wlcanvas/internal/swapchain"
	"github.com/framegrace/wlcanvas/internal/viewport"
)

// Token correlates a publish with its readiness signal.
type Token uint64

// ErrStaleToken reports a readiness signal that does not match the latest request.
var ErrStaleToken = errors.New("scheduler: stale or unexpected readiness token")

// Publisher is the output surface. MaybePublish calls Attach, Damage,
// Commit and RequestFrame in that order, exactly once each per publish.
type Publisher interface {
	Attach(index int) error
	Damage(width, height int) error
	Commit() error
	RequestFrame() (Token, error)
}

// Scheduler decides when to render and publish.
type Scheduler struct {
	chain     *swapchain.Swapchain
	painter   viewport.Painter
	publisher Publisher

	dirty bool
	ready bool

	token    Token
	awaiting bool

	rendered    viewport.ContentState
	hasRendered bool
	publishes   uint64
}

// New returns a scheduler that is ready to publish but not dirty.
func New(chain *swapchain.Swapchain, painter viewport.Painter, publisher Publisher) *Scheduler {
	return &Scheduler{
		chain:     chain,
		painter:   painter,
		publisher: publisher,
		ready:     true,
	}
}

// RequestRedraw forces the next eligible MaybePublish to run.
func (s *Scheduler) RequestRedraw() {
	s.dirty = true
}

// OnContentChanged marks the scheduler dirty when the content differs from
// what was last rendered. It never clears a pending redraw.
func (s *Scheduler) OnContentChanged(old, new viewport.ContentState) {
	if old != new {
		s.dirty = true
	}
}

// MaybePublish renders content into the pending region and publishes it
// when the scheduler is both dirty and ready. It reports whether a publish
// was issued.
func (s *Scheduler) MaybePublish(content viewport.ContentState) (bool, error) {
	if !s.dirty || !s.ready {
		return false, nil
	}
	s.dirty = false
	s.ready = false

	index := s.chain.PendingIndex()
	if err := s.painter.Paint(s.chain.Pending(), s.chain.Width(), s.chain.Height(), content); err != nil {
		s.ready = true
		return false, fmt.Errorf("scheduler: paint region %d: %w", index, err)
	}
	s.chain.Advance()

	if err := s.publisher.Attach(index); err != nil {
		return false, fmt.Errorf("scheduler: attach region %d: %w", index, err)
	}
	if err := s.publisher.Damage(s.chain.Width(), s.chain.Height()); err != nil {
		return false, fmt.Errorf("scheduler: damage: %w", err)
	}
	if err := s.publisher.Commit(); err != nil {
		return false, fmt.Errorf("scheduler: commit: %w", err)
	}
	token, err := s.publisher.RequestFrame()
	if err != nil {
		return false, fmt.Errorf("scheduler: request frame: %w", err)
	}

	s.token = token
	s.awaiting = true
	s.rendered = content
	s.hasRendered = true
	s.publishes++
	return true, nil
}

// OnReadySignal accepts the readiness signal for the most recent publish.
func (s *Scheduler) OnReadySignal(token Token) error {
	if !s.awaiting || token != s.token {
		return fmt.Errorf("%w: got %d, awaiting %d (outstanding=%v)", ErrStaleToken, token, s.token, s.awaiting)
	}
	s.awaiting = false
	s.ready = true
	return nil
}

func (s *Scheduler) Dirty() bool { return s.dirty }
func (s *Scheduler) Ready() bool { return s.ready }

// Rendered returns the content of the latest publish.
func (s *Scheduler) Rendered() (viewport.ContentState, bool) {
	return s.rendered, s.hasRendered
}

// Outstanding returns the token being waited for.
func (s *Scheduler) Outstanding() (Token, bool) {
	return s.token, s.awaiting
}

// Publishes counts successful publishes.
func (s *Scheduler) Publishes() uint64 {
	return s.publishes
}

// Swapchain exposes the chain for backends that read back regions.
func (s *Scheduler) Swapchain() *swapchain.Swapchain {
	return s.chain
}
