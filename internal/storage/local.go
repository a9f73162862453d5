package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps objects in a directory served under PublicPath.
type LocalStore struct {
	dir        string
	publicPath string
}

// NewLocalStore creates dir if needed.
func NewLocalStore(dir, publicPath string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, publicPath: "/" + strings.Trim(publicPath, "/")}, nil
}

// Dir returns the directory served as static files.
func (s *LocalStore) Dir() string { return s.dir }

// PublicPath returns the URL prefix objects are served from.
func (s *LocalStore) PublicPath() string { return s.publicPath }

func (s *LocalStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	if !validKey(key) {
		return "", ErrInvalidKey
	}
	if err := os.WriteFile(filepath.Join(s.dir, key), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return s.publicPath + "/" + key, nil
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	if !validKey(key) {
		return ErrInvalidKey
	}
	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

func (s *LocalStore) KeyFromURL(url string) (string, bool) {
	key, found := strings.CutPrefix(url, s.publicPath+"/")
	if !found || !validKey(key) {
		return "", false
	}
	return key, true
}
