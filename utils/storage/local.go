package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalMountPath is the URL prefix local uploads are served under
const LocalMountPath = "/uploads"

// LocalStorage writes objects below a directory on disk
type LocalStorage struct {
	dir     string
	baseURL string
}

// NewLocalStorage creates dir if needed. baseURL may be empty for host-relative URLs.
func NewLocalStorage(dir, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStorage{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir returns the directory files are written to
func (l *LocalStorage) Dir() string {
	return l.dir
}

// Upload writes data to disk and returns its public URL
func (l *LocalStorage) Upload(ctx context.Context, key string, data io.Reader, contentType string) (string, error) {
	path, rel, err := l.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, ctxReader{ctx: ctx, r: data}); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return l.baseURL + LocalMountPath + "/" + rel, nil
}

// Delete removes a stored object; deleting a missing object is not an error
func (l *LocalStorage) Delete(ctx context.Context, key string) error {
	path, _, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// path resolves key under dir, so "../x" lands at dir/x, and returns the
// on-disk path plus the slash separated key it was stored under.
func (l *LocalStorage) path(key string) (string, string, error) {
	clean := filepath.Clean(string(filepath.Separator) + filepath.FromSlash(key))
	if clean == string(filepath.Separator) {
		return "", "", fmt.Errorf("invalid storage key %q", key)
	}
	rel := strings.TrimPrefix(filepath.ToSlash(clean), "/")
	return filepath.Join(l.dir, clean), rel, nil
}

// ctxReader stops a copy once ctx is done
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
