// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: server/server.go
// Summary: Listener for the headless compositor simulator; one Session per client connection.
// Usage: Used by cmd/wlcanvas-server-sim and by end-to-end tests.

package server

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/framegrace/wlcanvas/protocol"
)

// Options configures every session of a server.
type Options struct {
	// FrameInterval fires committed frame callbacks periodically; zero
	// leaves them queued until FireFrame.
	FrameInterval time.Duration
	// SeatVersion is the advertised wl_seat version; zero means protocol.SeatVersion.
	SeatVersion uint32
	// Capabilities is the initial seat capability mask; zero means pointer only.
	Capabilities uint32
	// Hide lists interfaces left out of the registry.
	Hide []string
	// ConfigureWidth and ConfigureHeight are sent in the first toplevel configure.
	ConfigureWidth, ConfigureHeight int32
	// OnCommit is called, without locks held, after every surface commit.
	OnCommit func(*Session, Commit)
	// OnConnect is called for every accepted session before it is served.
	OnConnect func(*Session)
}

func (o Options) withDefaults() Options {
	if o.SeatVersion == 0 {
		o.SeatVersion = protocol.SeatVersion
	}
	if o.Capabilities == 0 {
		o.Capabilities = protocol.SeatCapabilityPointer
	}
	return o
}

// Server listens on a Unix domain socket and serves simulated sessions.
type Server struct {
	addr     string
	opts     Options
	listener *net.UnixListener
	quit     chan struct{}
	wg       sync.WaitGroup

	mu       sync.Mutex
	sessions []*Session
}

func NewServer(addr string, opts Options) *Server {
	return &Server{addr: addr, opts: opts.withDefaults(), quit: make(chan struct{})}
}

func (s *Server) Start() error {
	if err := os.RemoveAll(s.addr); err != nil {
		return err
	}
	l, err := net.ListenUnix("unix", &net.UnixAddr{Name: s.addr, Net: "unix"})
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", s.addr, err)
	}
	s.listener = l
	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.AcceptUnix()
		if err != nil {
			select {
			case <-s.quit:
				return
			default:
			}
			debugLog.Printf("accept: %v", err)
			continue
		}

		sess := NewSession(conn, s.opts)
		s.mu.Lock()
		s.sessions = append(s.sessions, sess)
		s.mu.Unlock()
		if s.opts.OnConnect != nil {
			s.opts.OnConnect(sess)
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := sess.Serve(); err != nil {
				debugLog.Printf("session ended: %v", err)
			}
		}()
	}
}

// Sessions returns the sessions accepted so far.
func (s *Server) Sessions() []*Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Session(nil), s.sessions...)
}

func (s *Server) Stop(ctx context.Context) error {
	close(s.quit)
	if s.listener != nil {
		_ = s.listener.Close()
	}
	for _, sess := range s.Sessions() {
		sess.Close()
	}
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}
