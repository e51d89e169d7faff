// Package fsstore is a file-system backed Store: one file per key under a
// base directory. File names are derived from the key's SHA-256 so arbitrary
// key strings never escape the directory or collide with path syntax.
package fsstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	st "github.com/unkn0wn-root/duocache/store"
)

type FS struct {
	baseDir string
}

var _ st.Store = (*FS)(nil)

// New ensures baseDir exists and returns a store rooted there.
func New(baseDir string) (*FS, error) {
	if baseDir == "" {
		return nil, errors.New("fsstore: base directory is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("fsstore: create base directory: %w", err)
	}
	return &FS{baseDir: baseDir}, nil
}

func (s *FS) Read(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	b, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Write goes through a temp file plus rename so a crash mid-write never
// leaves a truncated entry behind.
func (s *FS) Write(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target := s.path(key)
	tmp, err := os.CreateTemp(s.baseDir, ".tmp-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		err = multierr.Append(err, tmp.Close())
		return multierr.Append(err, os.Remove(name))
	}
	if err := tmp.Close(); err != nil {
		return multierr.Append(err, os.Remove(name))
	}
	if err := os.Rename(name, target); err != nil {
		return multierr.Append(err, os.Remove(name))
	}
	return nil
}

func (s *FS) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (s *FS) Close(context.Context) error { return nil }

func (s *FS) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(s.baseDir, hex.EncodeToString(sum[:])+".bin")
}
