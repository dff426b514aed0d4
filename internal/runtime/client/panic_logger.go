// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runtime/client/panic_logger.go
// Summary: Records panics with full goroutine stacks before the process exits.
// Notes: Restore hooks run first so the report lands on a usable terminal.

package clientruntime

import (
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"sync"
	"time"
)

// panicExitCode is used after a recovered panic; it is outside the setup codes.
const panicExitCode = 3

// PanicLogger captures panic stack traces and optionally appends them to a file.
type PanicLogger struct {
	path    string
	mu      sync.Mutex
	stderr  io.Writer
	exit    func(int)
	restore []func()
}

// NewPanicLogger constructs a panic logger that writes to path if non-empty.
func NewPanicLogger(path string) *PanicLogger {
	return &PanicLogger{path: path, stderr: os.Stderr, exit: os.Exit}
}

// OnPanic registers fn to run before the panic is reported, e.g. to take
// the terminal out of raw mode. Hooks run in registration order.
func (p *PanicLogger) OnPanic(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.restore = append(p.restore, fn)
}

// Recover must be deferred; it logs a panic and exits.
func (p *PanicLogger) Recover(where string) {
	if r := recover(); r != nil {
		p.runRestore()
		p.logPanic(where, r)
		p.exit(panicExitCode)
	}
}

func (p *PanicLogger) runRestore() {
	p.mu.Lock()
	hooks := p.restore
	p.restore = nil
	p.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}

// Go starts fn in a goroutine guarded by Recover.
func (p *PanicLogger) Go(where string, fn func()) {
	go func() {
		defer p.Recover(where)
		fn()
	}()
}

func (p *PanicLogger) logPanic(where string, r any) {
	buf := make([]byte, 1<<16)
	stack := buf[:runtime.Stack(buf, true)]
	msg := fmt.Sprintf("panic in %s: %v\n%s", where, r, stack)
	log.Print(msg)
	fmt.Fprintln(p.stderr, msg)
	if p.path == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	f, err := os.OpenFile(p.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("panic: unable to write panic log: %v", err)
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "[%s] panic in %s: %v\n%s\n", time.Now().Format(time.RFC3339Nano), where, r, stack)
}
