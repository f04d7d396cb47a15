package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/lestrrat-go/backoff/v2"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mbolis/surwhen/log"
)

// Per-attempt bound on any single blob request.
const blobTimeout = 10 * time.Second

// Blob stores against S3-compatible rate-limited infrastructure, so every
// operation retries transient failures with exponential backoff. A
// definitive not-found is final and propagates immediately.
var defaultPolicy = backoff.Exponential(
	backoff.WithMinInterval(100*time.Millisecond),
	backoff.WithMaxInterval(2*time.Second),
	backoff.WithMultiplier(2),
	backoff.WithMaxRetries(3),
)

// objectAPI is the slice of the minio client the backend needs.
type objectAPI interface {
	StatObject(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	GetObject(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type minioAPI struct {
	*minio.Client
}

func (c minioAPI) GetObject(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return c.Client.GetObject(ctx, bucket, key, opts)
}

type Blob struct {
	api    objectAPI
	bucket string
	policy backoff.Policy
}

func NewBlob(endpoint, accessKey, secretKey, bucket string, secure bool) (*Blob, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("blob: client: %w", err)
	}
	return &Blob{api: minioAPI{client}, bucket: bucket, policy: defaultPolicy}, nil
}

func (b *Blob) Read(ctx context.Context, key string) ([]byte, error) {
	var content []byte
	err := b.retry(ctx, "read", key, func(ctx context.Context) error {
		// resolve metadata first: a missing key must not burn retries
		if _, err := b.api.StatObject(ctx, b.bucket, key, minio.StatObjectOptions{}); err != nil {
			return err
		}
		obj, err := b.api.GetObject(ctx, b.bucket, key, minio.GetObjectOptions{})
		if err != nil {
			return err
		}
		defer obj.Close()
		content, err = io.ReadAll(obj)
		return err
	})
	if err != nil {
		return nil, err
	}
	return content, nil
}

func (b *Blob) Write(ctx context.Context, key string, content []byte) error {
	return b.retry(ctx, "write", key, func(ctx context.Context) error {
		// overwrite-allowed: plain put replaces any previous content
		_, err := b.api.PutObject(ctx, b.bucket, key, bytes.NewReader(content), int64(len(content)),
			minio.PutObjectOptions{ContentType: "application/json"})
		return err
	})
}

func (b *Blob) Exists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, blobTimeout)
	defer cancel()

	_, err := b.api.StatObject(ctx, b.bucket, key, minio.StatObjectOptions{})
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("blob: stat %s: %w", key, err)
	}
	return true, nil
}

func (b *Blob) retry(ctx context.Context, op, key string, attempt func(ctx context.Context) error) error {
	var lastErr error
	ctrl := b.policy.Start(ctx)
	for backoff.Continue(ctrl) {
		err := func() error {
			ctx, cancel := context.WithTimeout(ctx, blobTimeout)
			defer cancel()
			return attempt(ctx)
		}()
		if err == nil {
			return nil
		}
		if isNotFound(err) {
			return fmt.Errorf("blob: %s %s: %w", op, key, ErrNotFound)
		}
		log.Warnf("blob.%s.retry: %s: %s", op, key, err)
		lastErr = err
	}
	return fmt.Errorf("blob: %s %s: retries exhausted: %w", op, key, lastErr)
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	resp := minio.ToErrorResponse(err)
	return resp.StatusCode == 404 || resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket"
}
