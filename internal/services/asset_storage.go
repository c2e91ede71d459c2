package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/gather/server/internal/config"
)

// AssetStorage stores public files (avatars) and hands back their URL
type AssetStorage interface {
	// Put writes the object under key and returns its public URL
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
	// Delete removes the object; a missing object is not an error
	Delete(ctx context.Context, key string) error
	// KeyFromURL maps a URL returned by Put back to its key
	KeyFromURL(url string) (string, bool)
	// Kind names the backend for logs and metrics
	Kind() string
}

// NewAssetStorage selects S3 when a bucket is configured, the local directory otherwise
func NewAssetStorage(ctx context.Context, cfg config.Assets) (AssetStorage, error) {
	if cfg.UseS3() {
		return NewS3AssetStorage(ctx, cfg)
	}
	return NewLocalAssetStorage(cfg.LocalPath, cfg.PublicBaseURL)
}

// LocalAssetStorage keeps assets in a directory served under baseURL
type LocalAssetStorage struct {
	basePath string
	baseURL  string
}

// NewLocalAssetStorage creates a new LocalAssetStorage
func NewLocalAssetStorage(basePath, baseURL string) (*LocalAssetStorage, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(absPath, 0755); err != nil {
		return nil, err
	}
	if baseURL == "" {
		baseURL = "/assets"
	}
	return &LocalAssetStorage{
		basePath: absPath,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Root is the directory holding the assets
func (s *LocalAssetStorage) Root() string {
	return s.basePath
}

func (s *LocalAssetStorage) fullPath(key string) (string, error) {
	full := filepath.Join(s.basePath, filepath.FromSlash(strings.TrimLeft(key, "/")))
	if !strings.HasPrefix(full, s.basePath+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid asset key %q", key)
	}
	return full, nil
}

func (s *LocalAssetStorage) Put(_ context.Context, key string, body []byte, _ string) (string, error) {
	full, err := s.fullPath(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, body, 0644); err != nil {
		return "", fmt.Errorf("failed to write asset: %w", err)
	}
	return s.baseURL + "/" + strings.TrimLeft(key, "/"), nil
}

func (s *LocalAssetStorage) Delete(_ context.Context, key string) error {
	full, err := s.fullPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *LocalAssetStorage) KeyFromURL(url string) (string, bool) {
	return keyFromURL(s.baseURL, url)
}

func (s *LocalAssetStorage) Kind() string {
	return "local"
}

// S3AssetStorage keeps assets in an S3-compatible bucket
type S3AssetStorage struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	baseURL  string
}

// NewS3AssetStorage configures an uploader targeting the bucket. A custom
// endpoint (MinIO, R2, ...) switches to path-style addressing.
func NewS3AssetStorage(ctx context.Context, cfg config.Assets) (*S3AssetStorage, error) {
	if strings.TrimSpace(cfg.S3Bucket) == "" {
		return nil, fmt.Errorf("s3 storage: bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint := strings.TrimSpace(cfg.S3Endpoint); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
	}

	return &S3AssetStorage{
		client: client,
		uploader: manager.NewUploader(client, func(u *manager.Uploader) {
			u.PartSize = 5 * 1024 * 1024
			u.LeavePartsOnError = false
		}),
		bucket:  cfg.S3Bucket,
		baseURL: baseURL,
	}, nil
}

func (s *S3AssetStorage) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return "", fmt.Errorf("s3 storage: empty key")
	}
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("s3 storage upload %s: %w", key, err)
	}
	return s.baseURL + "/" + key, nil
}

func (s *S3AssetStorage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(strings.TrimLeft(key, "/")),
	})
	if err != nil {
		return fmt.Errorf("s3 storage delete %s: %w", key, err)
	}
	return nil
}

func (s *S3AssetStorage) KeyFromURL(url string) (string, bool) {
	return keyFromURL(s.baseURL, url)
}

func (s *S3AssetStorage) Kind() string {
	return "s3"
}

func keyFromURL(baseURL, url string) (string, bool) {
	prefix := baseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	return key, key != ""
}

// readLimited reads at most limit bytes; ok is false when the input is longer
func readLimited(r io.Reader, limit int64) (data []byte, ok bool, err error) {
	data, err = io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, false, err
	}
	return data, int64(len(data)) <= limit, nil
}
