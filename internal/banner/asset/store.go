// Package asset persists uploaded banner images and hands back the public
// URL recorded on the banner row.
package asset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/promosite/service-api/pkg/utilities"
)

// Store saves a validated image under the given name and returns its
// public URL. Implementations: DiskStore (default) and S3Store.
type Store interface {
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// NewObjectName builds a collision-resistant object name, preserving the
// original file extension.
func NewObjectName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	// drop anything that is not a plain extension
	if len(ext) > 8 || strings.ContainsAny(ext, "/\\") {
		ext = ""
	}
	return utilities.NewSnowflakeID() + ext
}

// DiskStore writes assets under a local directory served as static files.
type DiskStore struct {
	dir     string
	baseURL string
}

// NewDiskStore creates the target directory if needed.
func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *DiskStore) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	path := filepath.Join(s.dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write asset: %w", err)
	}
	return s.baseURL + "/" + filepath.Base(name), nil
}
