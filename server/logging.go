// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"io"
	"log"
	"os"
)

var debugLog = log.New(io.Discard, "sim: ", log.LstdFlags)

// SetVerboseLogging toggles per-request logging.
// When disabled (default), debug output is discarded.
func SetVerboseLogging(enable bool) {
	if enable {
		debugLog.SetOutput(os.Stderr)
	} else {
		debugLog.SetOutput(io.Discard)
	}
}
