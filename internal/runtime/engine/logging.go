// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runtime/engine/logging.go
// Summary: Trace-level logger for per-event output, discarded unless enabled.

package engine

import (
	"io"
	"log"
)

var debugLog = log.New(io.Discard, "engine: ", log.LstdFlags|log.Lmicroseconds)

// SetVerboseLogging toggles per-event trace output.
// When disabled (default), debug output is discarded.
func SetVerboseLogging(enable bool) {
	if enable {
		debugLog.SetOutput(log.Writer())
	} else {
		debugLog.SetOutput(io.Discard)
	}
}

