// Package archive exports and imports session projects as
// zstd-compressed tar archives. Where the archives live is a Backend
// concern; local directories and S3-compatible object stores are
// provided.
package archive

import (
	"context"
	"errors"
	"fmt"

	"github.com/vibecraft-ai/vibecraft/internal/config"
)

// ErrNotFound is returned when no archive exists under a key.
var ErrNotFound = errors.New("archive: not found")

// Backend stores packed archives by key.
type Backend interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// ForConfig selects the backend named by the archive configuration.
func ForConfig(cfg config.Archive) (Backend, error) {
	if cfg.Backend == "s3" {
		return NewS3(cfg.S3)
	}
	return NewLocal(cfg.Dir), nil
}

// Key names a session's archive object.
func Key(appName, sessionID string) string {
	return fmt.Sprintf("%s-%s.tar.zst", appName, sessionID)
}

// Service packs session files and moves them through the backend.
type Service struct {
	backend Backend
}

// NewService wires a Service to its backend.
func NewService(backend Backend) *Service {
	return &Service{backend: backend}
}

// Export packs files into a tar.zst archive and stores it. It returns
// the key the archive was stored under.
func (s *Service) Export(ctx context.Context, appName, sessionID string, files map[string]string) (string, error) {
	if len(files) == 0 {
		return "", fmt.Errorf("archive: session %s has no files to export", sessionID)
	}
	data, err := pack(files)
	if err != nil {
		return "", fmt.Errorf("archive: packing session %s: %w", sessionID, err)
	}
	key := Key(appName, sessionID)
	if err := s.backend.Put(ctx, key, data); err != nil {
		return "", fmt.Errorf("archive: storing %s: %w", key, err)
	}
	return key, nil
}

// Fetch returns the raw archive bytes stored under key.
func (s *Service) Fetch(ctx context.Context, key string) ([]byte, error) {
	return s.backend.Get(ctx, key)
}

// Import fetches an archive and unpacks it into path-keyed contents.
func (s *Service) Import(ctx context.Context, key string) (map[string]string, error) {
	data, err := s.backend.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	files, err := unpack(data)
	if err != nil {
		return nil, fmt.Errorf("archive: unpacking %s: %w", key, err)
	}
	return files, nil
}
