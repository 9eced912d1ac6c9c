package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// File is a Storage backed by a fixed-size image file.
type File struct {
	f    *os.File
	size int
}

// OpenFile opens the image at path, creating it filled with Erased bytes
// if it does not exist. An existing image shorter than size is extended
// with Erased bytes.
func OpenFile(path string, size int) (*File, error) {
	if size <= 0 {
		return nil, fmt.Errorf("open storage: invalid size %d", size)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat storage: %w", err)
	}
	if cur := int(info.Size()); cur < size {
		pad := bytes.Repeat([]byte{Erased}, size-cur)
		if _, err := f.WriteAt(pad, int64(cur)); err != nil {
			f.Close()
			return nil, fmt.Errorf("format storage: %w", err)
		}
		if err := f.Sync(); err != nil {
			f.Close()
			return nil, fmt.Errorf("sync storage: %w", err)
		}
	}

	return &File{f: f, size: size}, nil
}

// Read returns n bytes starting at addr.
func (s *File) Read(addr, n int) ([]byte, error) {
	if err := checkRange(addr, n, s.size); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := s.f.ReadAt(buf, int64(addr)); err != nil {
		return nil, fmt.Errorf("read storage: %w", err)
	}
	return buf, nil
}

// Write stores b at addr and syncs the file before returning.
func (s *File) Write(addr int, b []byte) error {
	if err := checkRange(addr, len(b), s.size); err != nil {
		return err
	}
	if _, err := s.f.WriteAt(b, int64(addr)); err != nil {
		return fmt.Errorf("write storage: %w", err)
	}
	if err := s.f.Sync(); err != nil {
		return fmt.Errorf("sync storage: %w", err)
	}
	return nil
}

// Close closes the image file.
func (s *File) Close() error {
	if err := s.f.Close(); err != nil && !errors.Is(err, fs.ErrClosed) {
		return fmt.Errorf("close storage: %w", err)
	}
	return nil
}
