// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/wlcanvas-server-sim/main.go
// Summary: Headless compositor for running wlcanvas without a desktop session.
// Usage: wlcanvas-server-sim -socket /tmp/wlcanvas-sim.sock, then wlcanvas -backend wayland -socket /tmp/wlcanvas-sim.sock

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/framegrace/wlcanvas/server"
)

func main() {
	socketPath := flag.String("socket", "/tmp/wlcanvas-sim.sock", "Unix socket path")
	frameInterval := flag.Duration("frame-interval", 16*time.Millisecond, "Frame callback period (0 disables)")
	drag := flag.Bool("drag", false, "Inject a scripted drag after the first frame")
	verbose := flag.Bool("verbose-logs", false, "Log every request and event")
	flag.Parse()

	server.SetVerboseLogging(*verbose)

	opts := server.Options{
		FrameInterval: *frameInterval,
		OnCommit: func(sess *server.Session, c server.Commit) {
			log.Printf("commit #%d surface=%d buffer=%d %dx%d damage=%v crc=%08x callbacks=%d",
				c.Seq, c.Surface, c.Buffer, c.Width, c.Height, c.Damage, c.Checksum, c.Callbacks)
		},
		OnConnect: func(sess *server.Session) {
			log.Printf("client connected")
			if *drag {
				go scriptedDrag(sess)
			}
		},
	}

	srv := server.NewServer(*socketPath, opts)
	if err := srv.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wlcanvas compositor simulator listening on %s\n", *socketPath)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
	_ = os.Remove(*socketPath)

	fmt.Println("Server stopped")
}

func scriptedDrag(sess *server.Session) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := sess.WaitCommits(ctx, 2); err != nil {
		log.Printf("drag: no frame: %v", err)
		return
	}
	if err := sess.WaitPointer(ctx, true); err != nil {
		log.Printf("drag: no pointer: %v", err)
		return
	}
	if err := sess.Drag(100, 100, 220, 160, 12); err != nil {
		log.Printf("drag: %v", err)
		return
	}
	log.Printf("drag: injected")
}
