// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: protocol/socket.go
// Summary: Message framing over a unix stream socket with SCM_RIGHTS descriptor passing.
// Usage: One Socket per simulated client connection.
// Notes: Not safe for concurrent use; payloads returned by Read alias the input buffer until the next Read.

package protocol

import (
	"errors"
	"fmt"
	"io"
	"net"

	"golang.org/x/sys/unix"
)

// MaxFDsPerMessage bounds the descriptors carried by one sendmsg.
const MaxFDsPerMessage = 28

// flushThreshold triggers an implicit flush when the queue grows past it.
const flushThreshold = 4 * MaxMessageSize

// Socket queues outgoing messages and splits incoming bytes into messages.
type Socket struct {
	conn *net.UnixConn

	out    []byte
	outFDs []int

	in       []byte
	consumed int
	rbuf     []byte
	oob      []byte
	fds      FDQueue
}

// NewSocket wraps conn. The socket owns conn from now on.
func NewSocket(conn *net.UnixConn) *Socket {
	return &Socket{
		conn: conn,
		rbuf: make([]byte, 2*MaxMessageSize),
		oob:  make([]byte, unix.CmsgSpace(MaxFDsPerMessage*4)),
	}
}

// Queue appends a message to the outgoing buffer. Descriptors are sent with
// the next flush; the caller keeps ownership of them.
func (s *Socket) Queue(objectID uint32, opcode uint16, payload []byte, fds ...int) error {
	if len(s.outFDs)+len(fds) > MaxFDsPerMessage {
		if err := s.Flush(); err != nil {
			return err
		}
	}
	out, err := AppendMessage(s.out, objectID, opcode, payload)
	if err != nil {
		return err
	}
	s.out = out
	s.outFDs = append(s.outFDs, fds...)
	if len(s.out) >= flushThreshold {
		return s.Flush()
	}
	return nil
}

// Buffered reports the number of queued bytes.
func (s *Socket) Buffered() int {
	return len(s.out)
}

// Flush writes every queued byte. Queued descriptors travel with the first chunk.
func (s *Socket) Flush() error {
	for len(s.out) > 0 {
		var oob []byte
		if len(s.outFDs) > 0 {
			oob = unix.UnixRights(s.outFDs...)
		}
		n, _, err := s.conn.WriteMsgUnix(s.out, oob, nil)
		if err != nil {
			return fmt.Errorf("protocol: write: %w", err)
		}
		s.outFDs = s.outFDs[:0]
		s.out = s.out[n:]
	}
	s.out = s.out[:0]
	return nil
}

// Read blocks until at least one complete message is available and returns
// every complete message buffered so far.
func (s *Socket) Read() ([]Message, error) {
	if s.consumed > 0 {
		s.in = append(s.in[:0], s.in[s.consumed:]...)
		s.consumed = 0
	}
	for {
		msgs, used, err := SplitMessages(s.in)
		if err != nil {
			return nil, err
		}
		if len(msgs) > 0 {
			s.consumed = used
			return msgs, nil
		}
		if err := s.fill(); err != nil {
			return nil, err
		}
	}
}

func (s *Socket) fill() error {
	n, oobn, _, _, err := s.conn.ReadMsgUnix(s.rbuf, s.oob)
	if oobn > 0 {
		if perr := s.collectFDs(s.oob[:oobn]); perr != nil && err == nil {
			err = perr
		}
	}
	if err != nil {
		if errors.Is(err, net.ErrClosed) {
			return io.EOF
		}
		return fmt.Errorf("protocol: read: %w", err)
	}
	if n == 0 {
		return io.EOF
	}
	s.in = append(s.in, s.rbuf[:n]...)
	return nil
}

func (s *Socket) collectFDs(oob []byte) error {
	scms, err := unix.ParseSocketControlMessage(oob)
	if err != nil {
		return fmt.Errorf("protocol: control message: %w", err)
	}
	for i := range scms {
		fds, err := unix.ParseUnixRights(&scms[i])
		if err != nil {
			continue
		}
		s.fds.Push(fds...)
	}
	return nil
}

// FDs is the queue of received descriptors, consumed in message order.
func (s *Socket) FDs() *FDQueue {
	return &s.fds
}

// Close closes the connection and any received descriptors nobody claimed.
func (s *Socket) Close() error {
	for _, fd := range s.fds.Drain() {
		unix.Close(fd)
	}
	return s.conn.Close()
}
