// Package filestore keeps uploaded binary content (chat photos) on local
// disk and hands back the URL it will be served under.
package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/logging"
)

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// LocalStore writes files under a directory.
type LocalStore struct {
	dir     string
	baseURL string
	logger  logging.Logger
}

// NewLocalStore creates a LocalStore. The directory is created on first
// write.
func NewLocalStore(dir, baseURL string, logger logging.Logger) *LocalStore {
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logging.OrDefault(logger),
	}
}

// Store writes data under a unique name derived from filename and returns
// its URL.
func (s *LocalStore) Store(ctx context.Context, data []byte, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return "", fmt.Errorf("error creating upload directory: %w", err)
	}

	name := uuid.NewString() + "-" + SanitizeName(filename)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("error writing upload: %w", err)
	}

	s.logger.Debug("Stored upload",
		logging.F(logging.FieldFile, path),
		logging.F("size", len(data)))
	return s.baseURL + "/" + name, nil
}

// SanitizeName reduces a client-supplied file name to a safe base name.
func SanitizeName(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = unsafeNameChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		return "upload"
	}
	return base
}
