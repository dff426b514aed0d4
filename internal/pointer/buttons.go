// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/pointer/buttons.go
// Summary: Linux BTN_* code table and the fixed-capacity pressed-button set.

package pointer

import (
	"math/bits"
	"strings"
)

// Linux input button codes (linux/input-event-codes.h).
const (
	BtnMisc    uint32 = 0x100
	BtnLeft    uint32 = 0x110
	BtnRight   uint32 = 0x111
	BtnMiddle  uint32 = 0x112
	BtnSide    uint32 = 0x113
	BtnExtra   uint32 = 0x114
	BtnForward uint32 = 0x115
	BtnBack    uint32 = 0x116
	BtnTask    uint32 = 0x117
)

// Bit indices of the named buttons in a ButtonSet.
const (
	IndexLeft = iota
	IndexRight
	IndexMiddle
	IndexSide
	IndexExtra
	IndexForward
	IndexBack
	IndexTask
	// IndexMisc0 is BTN_0; BTN_1..BTN_9 follow.
	IndexMisc0
)

// MaxButtons is the capacity of a ButtonSet. Codes mapping beyond it are
// treated as unmapped.
const MaxButtons = 32

type buttonEntry struct {
	code  uint32
	index int
	name  string
}

var buttonTable = []buttonEntry{
	{BtnLeft, IndexLeft, "left"},
	{BtnRight, IndexRight, "right"},
	{BtnMiddle, IndexMiddle, "middle"},
	{BtnSide, IndexSide, "side"},
	{BtnExtra, IndexExtra, "extra"},
	{BtnForward, IndexForward, "forward"},
	{BtnBack, IndexBack, "back"},
	{BtnTask, IndexTask, "task"},
	{BtnMisc + 0, IndexMisc0 + 0, "btn0"},
	{BtnMisc + 1, IndexMisc0 + 1, "btn1"},
	{BtnMisc + 2, IndexMisc0 + 2, "btn2"},
	{BtnMisc + 3, IndexMisc0 + 3, "btn3"},
	{BtnMisc + 4, IndexMisc0 + 4, "btn4"},
	{BtnMisc + 5, IndexMisc0 + 5, "btn5"},
	{BtnMisc + 6, IndexMisc0 + 6, "btn6"},
	{BtnMisc + 7, IndexMisc0 + 7, "btn7"},
	{BtnMisc + 8, IndexMisc0 + 8, "btn8"},
	{BtnMisc + 9, IndexMisc0 + 9, "btn9"},
}

var (
	indexByCode = make(map[uint32]int, len(buttonTable))
	codeByName  = make(map[string]uint32, len(buttonTable))
)

func init() {
	for _, e := range buttonTable {
		if e.index >= MaxButtons {
			continue
		}
		indexByCode[e.code] = e.index
		codeByName[e.name] = e.code
	}
}

// ButtonIndex maps a hardware button code to its bit index.
func ButtonIndex(code uint32) (int, bool) {
	idx, ok := indexByCode[code]
	return idx, ok
}

// ButtonCode looks up a button by its config name ("left", "side", "btn3", ...).
func ButtonCode(name string) (uint32, bool) {
	code, ok := codeByName[strings.ToLower(strings.TrimSpace(name))]
	return code, ok
}

// ButtonName returns the config name of a code, or "" when unknown.
func ButtonName(code uint32) string {
	for _, e := range buttonTable {
		if e.code == code {
			return e.name
		}
	}
	return ""
}

// ButtonSet is a set of pressed button indices.
type ButtonSet uint32

func (b ButtonSet) With(i int) ButtonSet {
	if i < 0 || i >= MaxButtons {
		return b
	}
	return b | 1<<uint(i)
}

func (b ButtonSet) Without(i int) ButtonSet {
	if i < 0 || i >= MaxButtons {
		return b
	}
	return b &^ (1 << uint(i))
}

func (b ButtonSet) Has(i int) bool {
	if i < 0 || i >= MaxButtons {
		return false
	}
	return b&(1<<uint(i)) != 0
}

// Count returns the number of pressed buttons.
func (b ButtonSet) Count() int {
	return bits.OnesCount32(uint32(b))
}

// Only reports whether i is the single pressed button.
func (b ButtonSet) Only(i int) bool {
	return b.Count() == 1 && b.Has(i)
}
