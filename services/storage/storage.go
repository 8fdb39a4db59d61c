package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/valyala/fasthttp"
)

// Evidence is uploaded as a raw resource so encrypted blobs and images are
// handled the same way. Authenticated assets are only served through signed
// delivery URLs.
const (
	cloudinaryResourceType = "raw"
	cloudinaryDeliveryType = "authenticated"
)

// CloudinaryEvidenceStore keeps evidence in Cloudinary.
type CloudinaryEvidenceStore struct {
	cld    *cloudinary.Cloudinary
	folder string
	key    string
	http   *fasthttp.Client
}

func NewCloudinaryEvidenceStore(cloudName, apiKey, apiSecret, folder, encryptionKey string) (*CloudinaryEvidenceStore, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("cloudinary credentials not set in configuration")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("CloudinaryEvidenceStore: failed to initialize Cloudinary: %w", err)
	}
	return &CloudinaryEvidenceStore{
		cld:    cld,
		folder: folder,
		key:    encryptionKey,
		http:   &fasthttp.Client{Name: "autobid-evidence"},
	}, nil
}

func (s *CloudinaryEvidenceStore) Save(ctx context.Context, folder, fileName string, r io.Reader) (StoredFile, error) {
	data, err := readLimited(r)
	if err != nil {
		return StoredFile{}, err
	}
	size := int64(len(data))
	if s.key != "" {
		if data, err = encrypt(data, s.key); err != nil {
			return StoredFile{}, fmt.Errorf("CloudinaryEvidenceStore: %w", err)
		}
	}

	result, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), s.uploadParams(folder, fileName))
	if err != nil {
		return StoredFile{}, fmt.Errorf("CloudinaryEvidenceStore: failed to upload file: %w", err)
	}
	if result.Error.Message != "" {
		return StoredFile{}, fmt.Errorf("CloudinaryEvidenceStore: upload rejected: %s", result.Error.Message)
	}
	if result.PublicID == "" {
		return StoredFile{}, errors.New("CloudinaryEvidenceStore: no public ID returned")
	}
	return StoredFile{Ref: result.PublicID, Size: size}, nil
}

func (s *CloudinaryEvidenceStore) uploadParams(folder, fileName string) uploader.UploadParams {
	return uploader.UploadParams{
		Folder:       s.folder + "/" + folder,
		PublicID:     objectName(fileName),
		Type:         cloudinaryDeliveryType,
		ResourceType: cloudinaryResourceType,
	}
}

// deliveryURL returns a signed URL for an authenticated raw asset.
func (s *CloudinaryEvidenceStore) deliveryURL(publicID string) (string, error) {
	a, err := s.cld.File(publicID)
	if err != nil {
		return "", fmt.Errorf("CloudinaryEvidenceStore: failed to get asset: %w", err)
	}
	a.AssetType = cloudinaryResourceType
	a.DeliveryType = cloudinaryDeliveryType
	a.Config.URL.SignURL = true
	a.Config.URL.Secure = true
	url, err := a.String()
	if err != nil {
		return "", fmt.Errorf("CloudinaryEvidenceStore: failed to get URL string: %w", err)
	}
	return url, nil
}

func (s *CloudinaryEvidenceStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	url, err := s.deliveryURL(ref)
	if err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)

	deadline := time.Now().Add(30 * time.Second)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := s.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("CloudinaryEvidenceStore: failed to download file: %w", err)
	}
	switch resp.StatusCode() {
	case fasthttp.StatusOK:
	case fasthttp.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("CloudinaryEvidenceStore: download returned status %d", resp.StatusCode())
	}

	data := append([]byte(nil), resp.Body()...)
	if s.key != "" {
		if data, err = decrypt(data, s.key); err != nil {
			return nil, fmt.Errorf("CloudinaryEvidenceStore: %w", err)
		}
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *CloudinaryEvidenceStore) Delete(ctx context.Context, ref string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     ref,
		Type:         cloudinaryDeliveryType,
		ResourceType: cloudinaryResourceType,
	})
	if err != nil {
		return fmt.Errorf("CloudinaryEvidenceStore: failed to delete file: %w", err)
	}
	return nil
}
