// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: protocol/protocol_test.go
// Summary: Exercises wire framing to ensure headers and argument padding stay reliable.
// Usage: Executed during `go test` to guard against regressions.

package protocol

import (
	"errors"
	"testing"
)

func TestHeaderWordLayout(t *testing.T) {
	buf, err := AppendMessage(nil, 5, 9, make([]byte, 8))
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if got := hostOrder.Uint32(buf[0:4]); got != 5 {
		t.Fatalf("object id word = %d", got)
	}
	if got := hostOrder.Uint32(buf[4:8]); got != 16<<16|9 {
		t.Fatalf("size/opcode word = %#x", got)
	}
}

func TestParseHeaderRejectsBadSize(t *testing.T) {
	tests := []struct {
		name string
		size uint32
	}{
		{name: "smaller than header", size: 4},
		{name: "unaligned", size: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := hostOrder.AppendUint32(nil, 1)
			buf = hostOrder.AppendUint32(buf, tt.size<<16)
			if _, err := ParseHeader(buf); !errors.Is(err, ErrInvalidSize) {
				t.Fatalf("expected ErrInvalidSize, got %v", err)
			}
		})
	}
}

func TestAppendMessageTooLarge(t *testing.T) {
	if _, err := AppendMessage(nil, 1, 0, make([]byte, MaxMessageSize)); !errors.Is(err, ErrMessageTooLarge) {
		t.Fatalf("expected ErrMessageTooLarge, got %v", err)
	}
}

func TestSplitMessagesKeepsPartialTail(t *testing.T) {
	var buf []byte
	var err error
	buf, err = AppendMessage(buf, 3, CallbackEventDone, hostOrder.AppendUint32(nil, 42))
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	buf, err = AppendMessage(buf, 1, DisplayEventDeleteID, hostOrder.AppendUint32(nil, 3))
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	full := len(buf)
	buf = append(buf, 9, 0, 0, 0, 0) // start of a third message

	msgs, used, err := SplitMessages(buf)
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}
	if len(msgs) != 2 || used != full {
		t.Fatalf("got %d messages using %d bytes, want 2 using %d", len(msgs), used, full)
	}
	if msgs[1].Header.ObjectID != 1 || msgs[1].Header.Opcode != DisplayEventDeleteID {
		t.Fatalf("second header mismatch: %+v", msgs[1].Header)
	}
}

func TestStringPadding(t *testing.T) {
	tests := []struct {
		in   string
		size int
	}{
		{in: "", size: 8},
		{in: "abc", size: 8},
		{in: "abcd", size: 12},
		{in: "wl_compositor", size: 20},
	}
	for _, tt := range tests {
		payload, err := NewEncoder(0).String(tt.in).Payload()
		if err != nil {
			t.Fatalf("encode %q: %v", tt.in, err)
		}
		if len(payload) != tt.size {
			t.Errorf("%q encoded to %d bytes, want %d", tt.in, len(payload), tt.size)
		}
		d := NewDecoder(payload, nil)
		if got := d.String(); got != tt.in {
			t.Errorf("decoded %q, want %q", got, tt.in)
		}
		if err := d.Finish(); err != nil {
			t.Errorf("finish %q: %v", tt.in, err)
		}
	}
}

func TestDecoderErrors(t *testing.T) {
	d := NewDecoder([]byte{1, 0}, nil)
	_ = d.Uint()
	if !errors.Is(d.Err(), errPayloadShort) {
		t.Fatalf("expected errPayloadShort, got %v", d.Err())
	}

	d = NewDecoder(make([]byte, 8), nil)
	_ = d.Uint()
	if !errors.Is(d.Finish(), errExtraBytes) {
		t.Fatalf("expected errExtraBytes, got %v", d.Finish())
	}

	d = NewDecoder(nil, &FDQueue{})
	_ = d.FD()
	if !errors.Is(d.Err(), ErrMissingFD) {
		t.Fatalf("expected ErrMissingFD, got %v", d.Err())
	}
}

func TestFixedConversion(t *testing.T) {
	tests := []struct {
		in   float64
		want Fixed
	}{
		{in: 0, want: 0},
		{in: 1, want: 256},
		{in: 10.5, want: 2688},
		{in: -1.5, want: -384},
		{in: 0.001, want: 0},
	}
	for _, tt := range tests {
		if got := FixedFromFloat(tt.in); got != tt.want {
			t.Errorf("FixedFromFloat(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
