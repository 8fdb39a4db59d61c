package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"autobid/config"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a reference does not resolve to a stored file.
var ErrNotFound = errors.New("evidence file not found")

// ErrTooLarge is returned for uploads over MaxEvidenceSize.
var ErrTooLarge = errors.New("evidence file too large")

// MaxEvidenceSize caps a single uploaded image.
const MaxEvidenceSize = 10 << 20

// StoredFile describes a file after it has been saved.
type StoredFile struct {
	Ref  string
	Size int64
}

// EvidenceStore keeps the identity and payment images attached to a wizard
// until the booking is submitted.
type EvidenceStore interface {
	Save(ctx context.Context, folder, fileName string, r io.Reader) (StoredFile, error)
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
	Delete(ctx context.Context, ref string) error
}

// NewEvidenceStore picks the backend named in configuration.
func NewEvidenceStore(cfg config.Config) (EvidenceStore, error) {
	switch strings.ToLower(cfg.EvidenceBackend) {
	case "", "local":
		return NewLocalEvidenceStore(cfg.EvidenceDir, cfg.EvidenceEncryptionKey)
	case "cloudinary":
		return NewCloudinaryEvidenceStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder, cfg.EvidenceEncryptionKey)
	default:
		return nil, fmt.Errorf("unknown evidence backend %q", cfg.EvidenceBackend)
	}
}

// objectName gives every upload a unique name while keeping the extension,
// which the booking endpoint uses to sniff the image type.
func objectName(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return uuid.New().String() + ext
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxEvidenceSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) > MaxEvidenceSize {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, MaxEvidenceSize)
	}
	return data, nil
}
