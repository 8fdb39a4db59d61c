package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalEvidenceStore keeps evidence on local disk, optionally encrypted.
type LocalEvidenceStore struct {
	dir string
	key string
}

func NewLocalEvidenceStore(dir, encryptionKey string) (*LocalEvidenceStore, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "autobid-evidence")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("LocalEvidenceStore: failed to create %s: %w", dir, err)
	}
	return &LocalEvidenceStore{dir: dir, key: encryptionKey}, nil
}

func (s *LocalEvidenceStore) path(ref string) (string, error) {
	clean := filepath.Clean("/" + ref)
	full := filepath.Join(s.dir, clean)
	if !strings.HasPrefix(full, filepath.Clean(s.dir)+string(os.PathSeparator)) {
		return "", ErrNotFound
	}
	return full, nil
}

// Save writes the upload under folder and returns a reference relative to
// the store root.
func (s *LocalEvidenceStore) Save(ctx context.Context, folder, fileName string, r io.Reader) (StoredFile, error) {
	data, err := readLimited(r)
	if err != nil {
		return StoredFile{}, err
	}
	size := int64(len(data))
	if s.key != "" {
		if data, err = encrypt(data, s.key); err != nil {
			return StoredFile{}, fmt.Errorf("LocalEvidenceStore: %w", err)
		}
	}

	ref := filepath.ToSlash(filepath.Join(folder, objectName(fileName)))
	full, err := s.path(ref)
	if err != nil {
		return StoredFile{}, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o700); err != nil {
		return StoredFile{}, fmt.Errorf("LocalEvidenceStore: failed to create folder: %w", err)
	}
	if err := os.WriteFile(full, data, 0o600); err != nil {
		return StoredFile{}, fmt.Errorf("LocalEvidenceStore: failed to write file: %w", err)
	}
	return StoredFile{Ref: ref, Size: size}, nil
}

func (s *LocalEvidenceStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	full, err := s.path(ref)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("LocalEvidenceStore: failed to read file: %w", err)
	}
	if s.key != "" {
		if data, err = decrypt(data, s.key); err != nil {
			return nil, fmt.Errorf("LocalEvidenceStore: %w", err)
		}
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *LocalEvidenceStore) Delete(ctx context.Context, ref string) error {
	full, err := s.path(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("LocalEvidenceStore: failed to delete file: %w", err)
	}
	return nil
}
