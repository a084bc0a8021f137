package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"shop-service/pkg/config"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file is too large")
	ErrInvalidName     = errors.New("invalid file name")
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// LocalStorage keeps uploaded images in a directory on disk. The stored
// filename is the join key with the product image table.
type LocalStorage struct {
	dir          string
	publicPrefix string
	maxSize      int64
}

// NewLocalStorage creates the upload directory if needed
func NewLocalStorage(cfg config.UploadConfig) (*LocalStorage, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload folder: %w", err)
	}
	return &LocalStorage{
		dir:          cfg.Dir,
		publicPrefix: cfg.PublicPrefix,
		maxSize:      cfg.MaxFileSize,
	}, nil
}

// Dir is the directory served statically under the public prefix
func (s *LocalStorage) Dir() string {
	return s.dir
}

// PublicPath returns the URL path a stored file is served from
func (s *LocalStorage) PublicPath(filename string) string {
	return path.Join(s.publicPrefix, filename)
}

// Save copies the uploaded file to <uuid><ext> and returns the new name
func (s *LocalStorage) Save(fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
	if s.maxSize > 0 && fh.Size > s.maxSize {
		return "", ErrFileTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	filename := uuid.NewString() + ext
	dst, err := os.OpenFile(filepath.Join(s.dir, filename), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return filename, nil
}

// Remove deletes a stored file. A file that is already gone reports false
// without an error.
func (s *LocalStorage) Remove(filename string) (bool, error) {
	if filename == "" || filename != filepath.Base(filename) || strings.ContainsAny(filename, `/\`) || filename == ".." {
		return false, ErrInvalidName
	}
	err := os.Remove(filepath.Join(s.dir, filename))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
