// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: client/logging.go
// Summary: Wire-level trace logger, discarded unless enabled.

package client

import (
	"io"
	"log"
)

var debugLog = log.New(io.Discard, "client: ", log.LstdFlags|log.Lmicroseconds)

// SetVerboseLogging toggles request and event traces.
func SetVerboseLogging(enable bool) {
	if enable {
		debugLog.SetOutput(log.Writer())
	} else {
		debugLog.SetOutput(io.Discard)
	}
}
