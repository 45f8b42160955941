package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"resume-analyzer/internal/shared/storage/object"
	"resume-analyzer/internal/shared/util"
)

// Store implements ObjectStore using Amazon S3.
type Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// New creates a new S3-backed object store.
func New(ctx context.Context, region, bucket, prefix string) (object.ObjectStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &Store{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: normalizePrefix(prefix),
	}, nil
}

// Put uploads the reader contents under the owner's namespace. An existing
// object with the same name is never overwritten.
func (s *Store) Put(ctx context.Context, owner string, name string, r io.Reader) (object.Object, error) {
	if err := ctx.Err(); err != nil {
		return object.Object{}, err
	}

	storageKey, sanitized, err := ownerObjectKey(owner, name)
	if err != nil {
		return object.Object{}, err
	}
	objectKey := applyPrefix(s.prefix, storageKey)

	exists, err := s.exists(ctx, objectKey)
	if err != nil {
		return object.Object{}, err
	}
	if exists {
		return object.Object{}, object.ErrExists
	}

	var sniff [512]byte
	n, readErr := io.ReadFull(r, sniff[:])
	if readErr != nil && readErr != io.EOF && readErr != io.ErrUnexpectedEOF {
		return object.Object{}, fmt.Errorf("read sniff: %w", readErr)
	}
	mimeType := http.DetectContentType(sniff[:n])

	body := io.MultiReader(bytes.NewReader(sniff[:n]), r)
	counter := &countingReader{r: body}

	input := &s3.PutObjectInput{
		Bucket:               aws.String(s.bucket),
		Key:                  aws.String(objectKey),
		Body:                 counter,
		ContentType:          aws.String(mimeType),
		ServerSideEncryption: s3types.ServerSideEncryptionAes256,
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return object.Object{}, fmt.Errorf("s3 put object bucket=%s key=%s: %w", s.bucket, objectKey, err)
	}

	return object.Object{
		Name:       sanitized,
		StorageKey: storageKey,
		SizeBytes:  counter.n,
		MimeType:   mimeType,
	}, nil
}

// Open downloads a stored object for reading.
func (s *Store) Open(ctx context.Context, owner string, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	storageKey, _, err := ownerObjectKey(owner, name)
	if err != nil {
		return nil, err
	}
	objectKey := applyPrefix(s.prefix, storageKey)

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		var noSuchKey *s3types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, object.ErrNotFound
		}
		return nil, fmt.Errorf("s3 get object bucket=%s key=%s: %w", s.bucket, objectKey, err)
	}
	return out.Body, nil
}

// List returns the objects stored under the owner's namespace.
func (s *Store) List(ctx context.Context, owner string) ([]object.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ownerPrefix := applyPrefix(s.prefix, util.OwnerKey(owner)) + "/"

	var out []object.Object
	var continuation *string
	for {
		page, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(ownerPrefix),
			ContinuationToken: continuation,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 list objects bucket=%s prefix=%s: %w", s.bucket, ownerPrefix, err)
		}
		for _, item := range page.Contents {
			key := aws.ToString(item.Key)
			out = append(out, object.Object{
				Name:       path.Base(key),
				StorageKey: strings.TrimPrefix(key, normalizePrefix(s.prefix)+"/"),
				SizeBytes:  aws.ToInt64(item.Size),
			})
		}
		if page.NextContinuationToken == nil {
			break
		}
		continuation = page.NextContinuationToken
	}
	if out == nil {
		out = []object.Object{}
	}
	return out, nil
}

// Delete removes a stored object. S3 deletes are idempotent, so deleting a
// missing object succeeds.
func (s *Store) Delete(ctx context.Context, owner string, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	storageKey, _, err := ownerObjectKey(owner, name)
	if err != nil {
		return err
	}
	objectKey := applyPrefix(s.prefix, storageKey)

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	}); err != nil {
		return fmt.Errorf("s3 delete object bucket=%s key=%s: %w", s.bucket, objectKey, err)
	}
	return nil
}

func (s *Store) exists(ctx context.Context, objectKey string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		var notFound *s3types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("s3 head object bucket=%s key=%s: %w", s.bucket, objectKey, err)
	}
	return true, nil
}

// ownerObjectKey derives the storage key from the authenticated owner, never
// from a caller-supplied path.
func ownerObjectKey(owner, name string) (storageKey string, sanitized string, err error) {
	sanitized, err = util.SanitizeFileName(name)
	if err != nil {
		return "", "", fmt.Errorf("sanitize file name: %w", err)
	}
	return path.Join(util.OwnerKey(owner), sanitized), sanitized, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func normalizePrefix(prefix string) string {
	return strings.Trim(strings.TrimSpace(prefix), "/")
}

func applyPrefix(prefix, key string) string {
	cleanPrefix := strings.Trim(prefix, "/")
	cleanKey := strings.TrimLeft(key, "/")
	if cleanPrefix == "" {
		return cleanKey
	}
	if cleanKey == "" {
		return cleanPrefix
	}
	return cleanPrefix + "/" + cleanKey
}

var _ object.ObjectStore = (*Store)(nil)
