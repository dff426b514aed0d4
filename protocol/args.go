// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: protocol/args.go
// Summary: Argument encoder for events and decoder for requests.

package protocol

import (
	"errors"
	"math"
)

var (
	errPayloadShort  = errors.New("protocol: payload too short")
	errExtraBytes    = errors.New("protocol: payload has trailing data")
	errStringTooLong = errors.New("protocol: string exceeds message limit")
	errMissingNUL    = errors.New("protocol: string missing NUL terminator")
	errNilString     = errors.New("protocol: unexpected null string")
	ErrMissingFD     = errors.New("protocol: no file descriptor queued for fd argument")
)

// Fixed is a signed 24.8 fixed-point number.
type Fixed int32

// FixedFromFloat converts f to the nearest 1/256 step.
func FixedFromFloat(f float64) Fixed {
	return Fixed(int32(math.Round(f * 256)))
}

// Encoder accumulates event arguments.
type Encoder struct {
	buf []byte
	err error
}

// NewEncoder returns an encoder with room for n argument bytes.
func NewEncoder(n int) *Encoder {
	return &Encoder{buf: make([]byte, 0, n)}
}

func (e *Encoder) Uint(v uint32) *Encoder {
	e.buf = hostOrder.AppendUint32(e.buf, v)
	return e
}

func (e *Encoder) Int(v int32) *Encoder {
	return e.Uint(uint32(v))
}

func (e *Encoder) Fixed(v Fixed) *Encoder {
	return e.Uint(uint32(v))
}

// Object encodes an object id; zero is the null object.
func (e *Encoder) Object(id uint32) *Encoder {
	return e.Uint(id)
}

// String encodes s with its NUL terminator, padded to a word boundary.
func (e *Encoder) String(s string) *Encoder {
	n := len(s) + 1
	if n > MaxMessageSize {
		e.err = errStringTooLong
		return e
	}
	e.Uint(uint32(n))
	e.buf = append(e.buf, s...)
	e.buf = append(e.buf, 0)
	e.pad(n)
	return e
}

// Array encodes raw bytes with a length prefix, padded to a word boundary.
func (e *Encoder) Array(b []byte) *Encoder {
	if len(b) > MaxMessageSize {
		e.err = errStringTooLong
		return e
	}
	e.Uint(uint32(len(b)))
	e.buf = append(e.buf, b...)
	e.pad(len(b))
	return e
}

func (e *Encoder) pad(n int) {
	for ; n%4 != 0; n++ {
		e.buf = append(e.buf, 0)
	}
}

// Payload returns the encoded bytes and any encoding error.
func (e *Encoder) Payload() ([]byte, error) {
	return e.buf, e.err
}

// FDSource yields received descriptors in arrival order.
type FDSource interface {
	Pop() (int, bool)
}

// Decoder reads arguments sequentially. The first failure sticks and is
// reported by Err or Finish.
type Decoder struct {
	buf []byte
	off int
	fds FDSource
	err error
}

// NewDecoder wraps payload. fds may be nil when no fd argument is expected.
func NewDecoder(payload []byte, fds FDSource) *Decoder {
	return &Decoder{buf: payload, fds: fds}
}

func (d *Decoder) Uint() uint32 {
	if d.err != nil {
		return 0
	}
	if len(d.buf)-d.off < 4 {
		d.err = errPayloadShort
		return 0
	}
	v := hostOrder.Uint32(d.buf[d.off:])
	d.off += 4
	return v
}

func (d *Decoder) Int() int32 {
	return int32(d.Uint())
}

func (d *Decoder) Object() uint32 {
	return d.Uint()
}

func (d *Decoder) NewID() uint32 {
	return d.Uint()
}

func (d *Decoder) String() string {
	n := int(d.Uint())
	if d.err != nil {
		return ""
	}
	if n == 0 {
		d.err = errNilString
		return ""
	}
	padded := (n + 3) &^ 3
	if len(d.buf)-d.off < padded {
		d.err = errPayloadShort
		return ""
	}
	raw := d.buf[d.off : d.off+n]
	d.off += padded
	if raw[n-1] != 0 {
		d.err = errMissingNUL
		return ""
	}
	return string(raw[:n-1])
}

// FD takes the next descriptor from the connection's receive queue.
func (d *Decoder) FD() int {
	if d.err != nil {
		return -1
	}
	if d.fds == nil {
		d.err = ErrMissingFD
		return -1
	}
	fd, ok := d.fds.Pop()
	if !ok {
		d.err = ErrMissingFD
		return -1
	}
	return fd
}

// Err reports the first decoding failure.
func (d *Decoder) Err() error {
	return d.err
}

// Finish reports the first decoding failure, or trailing bytes if all
// arguments decoded cleanly.
func (d *Decoder) Finish() error {
	if d.err != nil {
		return d.err
	}
	if d.off != len(d.buf) {
		return errExtraBytes
	}
	return nil
}

// FDQueue is a FIFO of received descriptors.
type FDQueue struct {
	fds []int
}

func (q *FDQueue) Push(fds ...int) {
	q.fds = append(q.fds, fds...)
}

func (q *FDQueue) Pop() (int, bool) {
	if len(q.fds) == 0 {
		return -1, false
	}
	fd := q.fds[0]
	q.fds = q.fds[1:]
	return fd, true
}

// Drain empties the queue and returns what it held.
func (q *FDQueue) Drain() []int {
	fds := q.fds
	q.fds = nil
	return fds
}
