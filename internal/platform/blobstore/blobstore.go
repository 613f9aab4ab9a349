// Package blobstore stores uploaded profile photos. It defines the Store
// interface, a disk-backed implementation, and an in-memory one for tests.
package blobstore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("photo not found")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrInvalidContentType = errors.New("content type is not allowed")
)

// MaxPhotoSize is the maximum allowed upload size in bytes (5 MB).
const MaxPhotoSize = 5 * 1024 * 1024

// AllowedContentTypes lists accepted photo MIME types.
var AllowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type Store interface {
	// Save stores the photo bytes and returns the generated file name.
	Save(contentType string, r io.Reader) (string, error)
	// Delete removes a stored photo. Deleting an absent photo is not an error.
	Delete(name string) error
}

// ValidateContentType returns the file extension for an accepted content
// type, or ErrInvalidContentType.
func ValidateContentType(contentType string) (string, error) {
	ext, ok := AllowedContentTypes[strings.ToLower(contentType)]
	if !ok {
		return "", ErrInvalidContentType
	}
	return ext, nil
}

// ---------------------------------------------------------------------------
// Disk store
// ---------------------------------------------------------------------------

// Disk stores photos as files under a single directory.
type Disk struct {
	dir string
}

func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &Disk{dir: dir}, nil
}

func (d *Disk) Save(contentType string, r io.Reader) (string, error) {
	ext, err := ValidateContentType(contentType)
	if err != nil {
		return "", err
	}

	name := uuid.New().String() + ext
	path := filepath.Join(d.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	n, err := io.Copy(f, io.LimitReader(r, MaxPhotoSize+1))
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if n > MaxPhotoSize {
		os.Remove(path)
		return "", ErrFileTooLarge
	}

	return name, nil
}

func (d *Disk) Delete(name string) error {
	// Reject path traversal in stored names
	if name != filepath.Base(name) {
		return ErrNotFound
	}
	err := os.Remove(filepath.Join(d.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// In-memory store
// ---------------------------------------------------------------------------

// Memory keeps photos in a map. For tests.
type Memory struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

func (m *Memory) Save(contentType string, r io.Reader) (string, error) {
	ext, err := ValidateContentType(contentType)
	if err != nil {
		return "", err
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxPhotoSize+1))
	if err != nil {
		return "", err
	}
	if len(data) > MaxPhotoSize {
		return "", ErrFileTooLarge
	}

	name := uuid.New().String() + ext
	m.mu.Lock()
	m.blobs[name] = data
	m.mu.Unlock()
	return name, nil
}

func (m *Memory) Delete(name string) error {
	m.mu.Lock()
	delete(m.blobs, name)
	m.mu.Unlock()
	return nil
}

// Len reports the number of stored photos.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blobs)
}
