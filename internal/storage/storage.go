// Package storage holds uploaded post images.
package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxUploadSize is the largest accepted image in bytes
const MaxUploadSize = 10 << 20

var (
	ErrNotFound       = errors.New("file not found")
	ErrInvalidName    = errors.New("invalid filename")
	ErrTypeNotAllowed = errors.New("file type not allowed")
)

// allowed maps accepted extensions to the extension stored on disk
var allowed = map[string]string{
	"png":  "png",
	"jpg":  "jpg",
	"jpeg": "jpg",
	"gif":  "gif",
	"heic": "heic",
	"webp": "webp",
}

// BlobStore saves and serves uploaded files by generated name
type BlobStore interface {
	Save(ctx context.Context, name string, r io.Reader) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// SafeExtension returns the normalized extension for an uploaded filename
func SafeExtension(filename string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return "", ErrInvalidName
	}
	safe, ok := allowed[ext]
	if !ok {
		return "", ErrTypeNotAllowed
	}
	return safe, nil
}

// GenerateName builds a storage name from a random UUID and the upload's safe
// extension. Nothing else from the client's filename is kept.
func GenerateName(filename string) (string, error) {
	ext, err := SafeExtension(filename)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(uuid.NewString(), "-", "") + "." + ext, nil
}

// ValidName reports whether name is safe to use as a single path element
func ValidName(name string) bool {
	if name == "" || name == "." || strings.Contains(name, "..") {
		return false
	}
	return !strings.ContainsAny(name, "/\\\x00")
}
