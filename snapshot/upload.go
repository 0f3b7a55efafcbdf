package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioConfig struct {
	Endpoint string `yaml:"endpoint"`
	Bucket   string `yaml:"bucket"`
	Access   string `yaml:"access"`
	Secret   string `yaml:"secret"`
	Region   string `yaml:"region"`
	// remote paths are Prefix + file name
	Prefix   string `yaml:"prefix"`
	Insecure bool   `yaml:"insecure"`

	RequestTrace io.Writer `yaml:"-"`
}

// IsSet returns true if uploads are configured
func (c *MinioConfig) IsSet() bool {
	return c != nil && c.Endpoint != ""
}

// Validate checks that all required fields are set
func (c *MinioConfig) Validate() error {
	if c == nil {
		return errors.New("snapshot: must provide minio config")
	}
	if c.Access == "" || c.Secret == "" || c.Bucket == "" || c.Endpoint == "" {
		return errors.New("snapshot: minio config must have endpoint, bucket, access and secret")
	}
	return nil
}

// Uploader uploads snapshots to a bucket
type Uploader struct {
	Client *minio.Client
	config *MinioConfig
}

// NewUploader creates an Uploader. It doesn't talk to the server,
// the bucket is checked on Upload.
func NewUploader(config *MinioConfig) (*Uploader, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	mc, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.Access, config.Secret, ""),
		Region: config.Region,
		Secure: !config.Insecure,
	})
	if err != nil {
		return nil, err
	}
	if config.RequestTrace != nil {
		mc.TraceOn(config.RequestTrace)
	}
	return &Uploader{
		Client: mc,
		config: config,
	}, nil
}

// RemotePath returns remote path for a local snapshot file
func (u *Uploader) RemotePath(localPath string) string {
	return path.Join(u.config.Prefix, filepath.Base(localPath))
}

func contentType(localPath string) string {
	switch CompressionFromPath(localPath) {
	case Zstd:
		return "application/zstd"
	case Brotli:
		return "application/x-brotli"
	}
	if ct := mime.TypeByExtension(filepath.Ext(localPath)); ct != "" {
		return ct
	}
	return "text/plain; charset=utf-8"
}

// Upload uploads a snapshot file and returns its remote path
func (u *Uploader) Upload(ctx context.Context, localPath string) (string, error) {
	bucket := u.config.Bucket
	found, err := u.Client.BucketExists(ctx, bucket)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("snapshot: bucket '%s' doesn't exist", bucket)
	}
	remotePath := u.RemotePath(localPath)
	opts := minio.PutObjectOptions{
		ContentType: contentType(localPath),
	}
	_, err = u.Client.FPutObject(ctx, bucket, remotePath, localPath, opts)
	if err != nil {
		return "", fmt.Errorf("snapshot: upload of '%s' as '%s' failed: %w", localPath, remotePath, err)
	}
	return remotePath, nil
}
