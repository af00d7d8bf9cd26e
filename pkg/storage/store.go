package storage

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aurelia-jewels/aurelia-backend/pkg/config"
	"github.com/aurelia-jewels/aurelia-backend/pkg/logger"
)

// Store writes uploaded files to local disk and hands back the public
// path clients use to fetch them (e.g. "/images/1712345678901234.jpg").
type Store struct {
	dir          string
	publicPrefix string
	logg         *logger.Logger
}

func NewStore(cfg config.UploadsConfig, logg *logger.Logger) (*Store, error) {
	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		return nil, errors.New("uploads dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads dir: %w", err)
	}
	prefix := strings.TrimSpace(cfg.PublicPrefix)
	if prefix == "" {
		prefix = "/images"
	}
	prefix = "/" + strings.Trim(prefix, "/")

	return &Store{dir: dir, publicPrefix: prefix, logg: logg}, nil
}

// Dir returns the filesystem root uploads are written under.
func (s *Store) Dir() string {
	return s.dir
}

// PublicPrefix returns the URL prefix stored paths carry.
func (s *Store) PublicPrefix() string {
	return s.publicPrefix
}

// Save writes the reader to a fresh timestamped filename and returns the
// public path. The original filename only contributes its extension.
func (s *Store) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	if r == nil {
		return "", errors.New("file reader is required")
	}

	name, err := s.generateName(originalName)
	if err != nil {
		return "", err
	}

	dst := filepath.Join(s.dir, name)
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst)
		return "", fmt.Errorf("writing upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing upload file: %w", err)
	}

	public := path.Join(s.publicPrefix, name)
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "path", public), "upload.saved")
	}
	return public, nil
}

// Remove deletes the file behind a public path. A file that is already
// gone is not an error; bad paths outside the prefix are rejected.
func (s *Store) Remove(ctx context.Context, publicPath string) error {
	name, ok := s.nameFromPublicPath(publicPath)
	if !ok {
		return fmt.Errorf("path %q is not managed by this store", publicPath)
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing upload file: %w", err)
	}
	if err == nil && s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "path", publicPath), "upload.removed")
	}
	return nil
}

func (s *Store) generateName(originalName string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("generating filename: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	// keep extensions sane even when clients send junk
	if len(ext) > 8 || strings.ContainsAny(ext, "/\\") {
		ext = ""
	}
	return fmt.Sprintf("%d%04d%s", time.Now().UnixMicro(), n.Int64(), ext), nil
}

func (s *Store) nameFromPublicPath(publicPath string) (string, bool) {
	publicPath = strings.TrimSpace(publicPath)
	if !strings.HasPrefix(publicPath, s.publicPrefix+"/") {
		return "", false
	}
	name := strings.TrimPrefix(publicPath, s.publicPrefix+"/")
	if name == "" || name != filepath.Base(name) {
		return "", false
	}
	return name, true
}
