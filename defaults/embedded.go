// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: defaults/embedded.go
// Summary: Embedded default configuration file.

package defaults

import _ "embed"

//go:embed wlcanvas.json
var systemConfig []byte

// SystemConfig returns the embedded wlcanvas.json.
func SystemConfig() []byte {
	return systemConfig
}
