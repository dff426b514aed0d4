// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/shm/pool.go
// Summary: Anonymous shared memory regions for wl_shm pools.
// Usage: The client creates a Pool and passes Fd to the compositor; the simulator maps the received fd with Map.

package shm

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

var (
	ErrInvalidSize = errors.New("shm: size must be positive")
	ErrClosed      = errors.New("shm: pool closed")
)

// Pool is a file-backed memory region shared with another process.
type Pool struct {
	fd     int
	size   int
	data   []byte
	closed bool
}

var fallbackSeq atomic.Uint64

// Create allocates a size-byte region backed by a memfd. When memfd is
// unavailable it falls back to an unlinked file in XDG_RUNTIME_DIR.
func Create(name string, size int) (*Pool, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	fd, err := unix.MemfdCreate(name, unix.MFD_CLOEXEC|unix.MFD_ALLOW_SEALING)
	if err != nil {
		fd, err = createUnlinked(name)
		if err != nil {
			return nil, fmt.Errorf("shm: create %s: %w", name, err)
		}
	}
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("shm: truncate to %d: %w", size, err)
	}
	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("shm: mmap %d bytes: %w", size, err)
	}
	return &Pool{fd: fd, size: size, data: data}, nil
}

// Map maps an existing descriptor received from a peer. The pool takes
// ownership of fd.
func Map(fd int, size int) (*Pool, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("shm: mmap fd %d: %w", fd, err)
	}
	return &Pool{fd: fd, size: size, data: data}, nil
}

func createUnlinked(name string) (int, error) {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, name+"-"+strconv.Itoa(os.Getpid())+"-"+strconv.FormatUint(fallbackSeq.Add(1), 10))
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CREAT|unix.O_EXCL|unix.O_CLOEXEC, 0o600)
	if err != nil {
		return -1, err
	}
	if err := unix.Unlink(path); err != nil {
		unix.Close(fd)
		return -1, err
	}
	return fd, nil
}

// Bytes returns the mapped region. The slice is invalid after Close.
func (p *Pool) Bytes() []byte {
	return p.data
}

// Fd returns the backing descriptor.
func (p *Pool) Fd() int {
	return p.fd
}

// Size returns the mapped length in bytes.
func (p *Pool) Size() int {
	return p.size
}

// Close unmaps the region and closes the descriptor.
func (p *Pool) Close() error {
	if p.closed {
		return ErrClosed
	}
	p.closed = true
	var errs []error
	if p.data != nil {
		if err := unix.Munmap(p.data); err != nil {
			errs = append(errs, fmt.Errorf("shm: munmap: %w", err))
		}
		p.data = nil
	}
	if err := unix.Close(p.fd); err != nil {
		errs = append(errs, fmt.Errorf("shm: close fd: %w", err))
	}
	return errors.Join(errs...)
}
