// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package clientruntime

import (
	"io"
	"log"
)

var debugLog = log.New(io.Discard, "wayland: ", log.LstdFlags|log.Lmicroseconds)

// SetVerboseLogging toggles backend traces.
// When disabled (default), debug output is discarded.
func SetVerboseLogging(enable bool) {
	if enable {
		debugLog.SetOutput(log.Writer())
	} else {
		debugLog.SetOutput(io.Discard)
	}
}
