// Package local stores uploaded images on disk for development. The server
// serves the upload directory statically so the returned URLs resolve.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Store struct {
	basePath string
	baseURL  string
}

func New(basePath, baseURL string) (*Store, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %v", err)
	}
	return &Store{basePath: basePath, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *Store) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	name := fmt.Sprintf("%d_%s", time.Now().UnixNano(), sanitize(filename))
	path := filepath.Join(s.basePath, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %v", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %v", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close file: %v", err)
	}
	return s.baseURL + "/" + name, nil
}

// sanitize keeps only the base name so client-supplied paths cannot escape
// the upload directory.
func sanitize(filename string) string {
	name := filepath.Base(filepath.Clean(filename))
	if name == "." || name == string(filepath.Separator) {
		return "upload"
	}
	return strings.ReplaceAll(name, " ", "_")
}
