// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: protocol/protocol.go
// Summary: Wayland wire framing: message header layout and splitting.
// Usage: Used by the compositor simulator; the client side speaks through go-wayland.
// Notes: Words are host byte order; file descriptors travel out of band.

package protocol

import (
	"encoding/binary"
	"errors"
)

const (
	// HeaderSize is the fixed length of every message header.
	HeaderSize = 8
	// MaxMessageSize bounds a single message, header included.
	MaxMessageSize = 4096
)

// hostOrder is the byte order of every 32-bit word on the wire.
var hostOrder = binary.NativeEndian

// Header describes the fixed portion of every message exchanged over the wire.
type Header struct {
	ObjectID uint32
	Opcode   uint16
	// Size is the total message length in bytes, header included.
	Size uint16
}

var (
	ErrShortHeader     = errors.New("protocol: short message header")
	ErrInvalidSize     = errors.New("protocol: invalid message size")
	ErrMessageTooLarge = errors.New("protocol: message exceeds size limit")
)

// PayloadLen returns the number of argument bytes following the header.
func (h Header) PayloadLen() int {
	return int(h.Size) - HeaderSize
}

// ParseHeader decodes a header from the first HeaderSize bytes of buf.
func ParseHeader(buf []byte) (Header, error) {
	var hdr Header
	if len(buf) < HeaderSize {
		return hdr, ErrShortHeader
	}
	hdr.ObjectID = hostOrder.Uint32(buf[0:4])
	word := hostOrder.Uint32(buf[4:8])
	hdr.Opcode = uint16(word & 0xffff)
	hdr.Size = uint16(word >> 16)
	if hdr.Size < HeaderSize || hdr.Size%4 != 0 {
		return hdr, ErrInvalidSize
	}
	return hdr, nil
}

// AppendMessage appends a framed message to dst and returns the extended slice.
func AppendMessage(dst []byte, objectID uint32, opcode uint16, payload []byte) ([]byte, error) {
	size := HeaderSize + len(payload)
	if size > MaxMessageSize {
		return dst, ErrMessageTooLarge
	}
	if size%4 != 0 {
		return dst, ErrInvalidSize
	}
	dst = hostOrder.AppendUint32(dst, objectID)
	dst = hostOrder.AppendUint32(dst, uint32(size)<<16|uint32(opcode))
	return append(dst, payload...), nil
}

// SplitMessages walks a buffer of back-to-back messages. It returns the
// complete messages found and the number of bytes they consumed; a trailing
// partial message is left for the next read.
func SplitMessages(buf []byte) ([]Message, int, error) {
	var msgs []Message
	off := 0
	for len(buf)-off >= HeaderSize {
		hdr, err := ParseHeader(buf[off:])
		if err != nil {
			return msgs, off, err
		}
		if len(buf)-off < int(hdr.Size) {
			break
		}
		msgs = append(msgs, Message{Header: hdr, Payload: buf[off+HeaderSize : off+int(hdr.Size)]})
		off += int(hdr.Size)
	}
	return msgs, off, nil
}

// Message pairs a parsed header with its argument bytes.
type Message struct {
	Header  Header
	Payload []byte
}
