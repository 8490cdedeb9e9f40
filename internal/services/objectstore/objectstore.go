package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Tyno1/bitescout-api/internal/config"
	"github.com/Tyno1/bitescout-api/internal/types"
	"github.com/Tyno1/bitescout-api/internal/utils/apperr"
)

// StoredObject is what the provider reports back after a successful store.
type StoredObject struct {
	URL        string
	ProviderID string
	Provider   types.StorageProvider
	MimeType   string
	FileSize   int64
	Dimensions *types.Dimensions
}

// Provider is the contract the upload orchestrator depends on. The MinIO
// service below is the production implementation.
type Provider interface {
	Store(ctx context.Context, r io.Reader, size int64, contentType, folder string) (StoredObject, error)
	Delete(ctx context.Context, objectKey string) error
}

type Service struct {
	client     *minio.Client
	bucketName string
	config     *config.Media
	useSSL     bool
}

// NewService creates a new object store service backed by MinIO.
func NewService(cfg *config.Config) (*Service, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKeyID, cfg.MinIO.SecretAccessKey, ""),
		Secure: cfg.MinIO.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	service := &Service{
		client:     client,
		bucketName: cfg.MinIO.BucketName,
		config:     &cfg.Media,
		useSSL:     cfg.MinIO.UseSSL,
	}

	if err := service.ensureBucket(); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return service, nil
}

// ensureBucket creates the bucket if it doesn't exist
func (s *Service) ensureBucket() error {
	ctx := context.Background()

	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check if bucket exists: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// ValidateContentType checks if the content type is allowed
func (s *Service) ValidateContentType(contentType string) bool {
	for _, allowed := range s.config.AllowedMimeTypes {
		if contentType == allowed {
			return true
		}
	}
	return false
}

// GenerateObjectKey creates a unique object key for the file
func (s *Service) GenerateObjectKey(folder, contentType string) string {
	extensions, err := mime.ExtensionsByType(contentType)
	var ext string
	if err == nil && len(extensions) > 0 {
		ext = extensions[0]
	} else {
		switch contentType {
		case "image/jpeg":
			ext = ".jpg"
		case "image/png":
			ext = ".png"
		case "image/gif":
			ext = ".gif"
		case "video/mp4":
			ext = ".mp4"
		case "audio/mpeg":
			ext = ".mp3"
		default:
			ext = ""
		}
	}

	filename := uuid.New().String() + ext

	if folder == "" {
		folder = s.config.UploadFolder
	}
	return fmt.Sprintf("%s/%s", strings.Trim(folder, "/"), filename)
}

// Store uploads the binary to the bucket and reports the stored object
// metadata. For images the dimensions are read from the payload header.
func (s *Service) Store(ctx context.Context, r io.Reader, size int64, contentType, folder string) (StoredObject, error) {
	if !s.ValidateContentType(contentType) {
		return StoredObject{}, fmt.Errorf("%w: content type %s is not allowed", apperr.ErrValidation, contentType)
	}
	if size > s.config.MaxFileSize {
		return StoredObject{}, fmt.Errorf("%w: file exceeds maximum size of %d bytes", apperr.ErrValidation, s.config.MaxFileSize)
	}

	objectKey := s.GenerateObjectKey(folder, contentType)

	var dims *types.Dimensions
	if strings.HasPrefix(contentType, "image/") {
		// Buffer the payload so the dimensions can be decoded before upload.
		data, err := io.ReadAll(r)
		if err != nil {
			return StoredObject{}, fmt.Errorf("%w: failed to read upload: %v", apperr.ErrUpstreamProvider, err)
		}
		if cfgImg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
			dims = &types.Dimensions{Width: cfgImg.Width, Height: cfgImg.Height}
		}
		r = bytes.NewReader(data)
		size = int64(len(data))
	}

	info, err := s.client.PutObject(ctx, s.bucketName, objectKey, r, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return StoredObject{}, fmt.Errorf("%w: %v", apperr.ErrUpstreamProvider, err)
	}

	return StoredObject{
		URL:        s.GetMediaURL(objectKey),
		ProviderID: objectKey,
		Provider:   types.ProviderMinIO,
		MimeType:   contentType,
		FileSize:   info.Size,
		Dimensions: dims,
	}, nil
}

// GetMediaURL returns the public URL for accessing media (if bucket is public)
func (s *Service) GetMediaURL(objectKey string) string {
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}

	endpoint := strings.TrimPrefix(s.client.EndpointURL().String(), scheme+"://")
	return fmt.Sprintf("%s://%s/%s/%s", scheme, endpoint, s.bucketName, objectKey)
}

// Delete removes an object from storage
func (s *Service) Delete(ctx context.Context, objectKey string) error {
	return s.client.RemoveObject(ctx, s.bucketName, objectKey, minio.RemoveObjectOptions{})
}

// GetObjectInfo returns information about an object
func (s *Service) GetObjectInfo(ctx context.Context, objectKey string) (minio.ObjectInfo, error) {
	return s.client.StatObject(ctx, s.bucketName, objectKey, minio.StatObjectOptions{})
}
