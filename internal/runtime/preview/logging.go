// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package preview

import (
	"io"
	"log"
)

var debugLog = log.New(io.Discard, "preview: ", log.LstdFlags|log.Lmicroseconds)

// SetVerboseLogging toggles preview traces.
func SetVerboseLogging(enable bool) {
	if enable {
		debugLog.SetOutput(log.Writer())
	} else {
		debugLog.SetOutput(io.Discard)
	}
}
