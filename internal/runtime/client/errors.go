// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runtime/client/errors.go
// Summary: Setup failures carrying the process exit code for each stage.

package clientruntime

import "fmt"

// Exit codes for setup failures.
const (
	ExitConnect    = 1
	ExitRegistry   = 2
	ExitCompositor = 4
	ExitShm        = 5
	ExitXdgWmBase  = 6
	ExitSeat       = 7
	ExitShmAlloc   = 8
	ExitSurface    = 9
)

// SetupError is a fatal failure while bringing up the window.
type SetupError struct {
	Code int
	Op   string
	Err  error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

func setupErr(code int, op string, err error) error {
	return &SetupError{Code: code, Op: op, Err: err}
}
