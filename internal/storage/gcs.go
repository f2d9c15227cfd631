package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
)

type GCSStorage struct {
	client  *storage.Client
	bucket  string
	prefix  string
	baseURL string
}

var _ Uploader = (*GCSStorage)(nil)

func NewGCSStorage(ctx context.Context, bucket, prefix string) (*GCSStorage, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSStorage{
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
		baseURL: "https://storage.googleapis.com",
	}, nil
}

func (s *GCSStorage) Close() error {
	return s.client.Close()
}

func (s *GCSStorage) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	object, err := cleanName(s.prefix, name)
	if err != nil {
		return "", err
	}

	w := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=86400"

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to upload %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize %s: %w", object, err)
	}

	return s.objectURL(object), nil
}

func (s *GCSStorage) objectURL(object string) string {
	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, (&url.URL{Path: object}).EscapedPath())
}

// PublicURL converts a gs://bucket/object URI into its HTTPS form. Other URLs
// are returned unchanged.
func PublicURL(uri string) string {
	rest, ok := strings.CutPrefix(uri, "gs://")
	if !ok {
		return uri
	}
	return "https://storage.googleapis.com/" + (&url.URL{Path: rest}).EscapedPath()
}
