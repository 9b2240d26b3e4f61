package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Tier is an S3-backed primary tier, for deployments that keep document
// binaries out of the relational store.
type S3Tier struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Tier creates an S3-backed primary tier.
func NewS3Tier(ctx context.Context, region, bucket, prefix string) (*S3Tier, error) {
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

	return &S3Tier{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: strings.Trim(strings.TrimSpace(prefix), "/"),
	}, nil
}

// Put uploads the document content keyed by document id.
func (t *S3Tier) Put(ctx context.Context, doc Document) error {
	input := &s3.PutObjectInput{
		Bucket:               aws.String(t.bucket),
		Key:                  aws.String(t.objectKey(doc.ID)),
		Body:                 bytes.NewReader(doc.Content),
		ContentType:          aws.String(doc.ContentType),
		ServerSideEncryption: s3types.ServerSideEncryptionAes256,
		Metadata: map[string]string{
			"original-filename": doc.OriginalFilename,
			"category":          doc.Category,
		},
	}
	if _, err := t.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("s3 put object bucket=%s key=%s: %w", t.bucket, t.objectKey(doc.ID), err)
	}
	return nil
}

// Get downloads the content for a document id.
func (t *S3Tier) Get(ctx context.Context, id string) ([]byte, error) {
	out, err := t.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(t.bucket),
		Key:    aws.String(t.objectKey(id)),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("s3 get object bucket=%s key=%s: %w", t.bucket, t.objectKey(id), err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func (t *S3Tier) objectKey(id string) string {
	key := "documents/" + id
	if t.prefix == "" {
		return key
	}
	return t.prefix + "/" + key
}

var _ PrimaryTier = (*S3Tier)(nil)
