// Package filestore keeps uploaded player pictures.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrForeignURL is returned when deleting a URL this store did not issue
var ErrForeignURL = errors.New("url not managed by this store")

// Store persists blobs and hands back a URL for them
type Store interface {
	Store(ctx context.Context, name string, data []byte) (string, error)
	Delete(ctx context.Context, url string) error
}

// Local writes files to a directory served under URLPrefix
type Local struct {
	dir       string
	urlPrefix string
}

// NewLocal creates the directory if needed
func NewLocal(dir, urlPrefix string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir, urlPrefix: strings.TrimSuffix(urlPrefix, "/") + "/"}, nil
}

// Store writes data under name and returns its URL. name must be a bare file name.
func (l *Local) Store(ctx context.Context, name string, data []byte) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	if err := os.WriteFile(filepath.Join(l.dir, name), data, 0o644); err != nil {
		return "", err
	}
	return l.urlPrefix + name, nil
}

// Delete removes the file behind url. Missing files are not an error.
func (l *Local) Delete(ctx context.Context, url string) error {
	if !strings.HasPrefix(url, l.urlPrefix) {
		return ErrForeignURL
	}
	name := path.Base(strings.TrimPrefix(url, l.urlPrefix))
	if name == "." || name == "/" || name == ".." {
		return ErrForeignURL
	}
	err := os.Remove(filepath.Join(l.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
