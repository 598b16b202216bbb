// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// fileBlobStore is the filesystem implementation of [BlobStore]. Each item
// occupies one file named after its id under the configured directory,
// created with 0600. Sealed payloads are opaque ciphertext, so no further
// protection than file permissions is applied here.
type fileBlobStore struct {
	dir string
}

// NewFileBlobStore constructs a [BlobStore] rooted at dir, creating the
// directory if needed.
func NewFileBlobStore(dir string) (BlobStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &fileBlobStore{dir: dir}, nil
}

// path validates id and resolves the extent path. Ids are generated as
// UUIDs by the vault; rejecting anything else keeps path traversal out.
func (s *fileBlobStore) path(id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("invalid blob id %q: %w", id, err)
	}
	return filepath.Join(s.dir, id), nil
}

func (s *fileBlobStore) Write(ctx context.Context, id string, data []byte) error {
	p, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.WriteFile(p, data, 0o600); err != nil {
		return fmt.Errorf("write blob: %w", err)
	}
	return nil
}

func (s *fileBlobStore) Read(ctx context.Context, id string) ([]byte, error) {
	p, err := s.path(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("read blob: %w", err)
	}
	return data, nil
}

func (s *fileBlobStore) Size(ctx context.Context, id string) (int64, error) {
	p, err := s.path(id)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrBlobNotFound
		}
		return 0, fmt.Errorf("stat blob: %w", err)
	}
	return info.Size(), nil
}

func (s *fileBlobStore) Overwrite(ctx context.Context, id string, offset int64, chunk []byte) error {
	p, err := s.path(id)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(p, os.O_WRONLY, 0o600)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrBlobNotFound
		}
		return fmt.Errorf("open blob for overwrite: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteAt(chunk, offset); err != nil {
		return fmt.Errorf("overwrite blob at %d: %w", offset, err)
	}
	return nil
}

func (s *fileBlobStore) Sync(ctx context.Context, id string) error {
	p, err := s.path(id)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(p, os.O_WRONLY, 0o600)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrBlobNotFound
		}
		return fmt.Errorf("open blob for sync: %w", err)
	}
	defer f.Close()

	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync blob: %w", err)
	}
	return nil
}

func (s *fileBlobStore) Remove(ctx context.Context, id string) error {
	p, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if os.IsNotExist(err) {
			return ErrBlobNotFound
		}
		return fmt.Errorf("remove blob: %w", err)
	}
	return nil
}
