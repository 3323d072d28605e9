package objectstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/dmitrijs2005/hashzone/internal/common"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
	headObject = func(c *s3.Client, ctx context.Context, in *s3.HeadObjectInput) (*s3.HeadObjectOutput, error) {
		return c.HeadObject(ctx, in)
	}
)

// bucketCredentials is the decoded form of a zone's opaque credential
// document.
type bucketCredentials struct {
	AccessKeyID     string `json:"accessKeyId"`
	SecretAccessKey string `json:"secretAccessKey"`
	Endpoint        string `json:"endpoint"`
	Region          string `json:"region"`
}

// PresignUploadExpiry bounds how long a minted upload URL stays usable.
const PresignUploadExpiry = 30 * time.Minute

// S3Store implements Store against any S3-compatible backend. It holds no
// connection state: every call builds a client from the bucket's own
// credentials, since each zone may point at a different account or provider.
type S3Store struct{}

func NewS3Store() *S3Store {
	return &S3Store{}
}

// BucketName extracts the bucket name from an "s3://name" URI.
func BucketName(uri string) (string, error) {
	name, ok := strings.CutPrefix(uri, "s3://")
	if !ok || name == "" || strings.Contains(name, "/") {
		return "", fmt.Errorf("%w: invalid bucket uri %q", common.ErrConfiguration, uri)
	}
	return name, nil
}

func (s *S3Store) client(ctx context.Context, bucket Bucket) (*s3.Client, string, error) {
	name, err := BucketName(bucket.URI)
	if err != nil {
		return nil, "", err
	}
	creds := bucketCredentials{}
	if err := json.Unmarshal([]byte(bucket.Credentials), &creds); err != nil {
		return nil, "", fmt.Errorf("%w: invalid bucket credentials: %v", common.ErrConfiguration, err)
	}
	if creds.Region == "" {
		creds.Region = "auto"
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(creds.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			creds.AccessKeyID,
			creds.SecretAccessKey,
			"",
		)))
	if err != nil {
		return nil, "", err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if creds.Endpoint != "" {
			o.BaseEndpoint = aws.String(creds.Endpoint)
		}
	})

	return client, name, nil
}

func (s *S3Store) Exists(ctx context.Context, bucket Bucket, objectKey string) (bool, int64, error) {
	client, name, err := s.client(ctx, bucket)
	if err != nil {
		return false, 0, err
	}

	out, err := headObject(client, ctx, &s3.HeadObjectInput{
		Bucket: &name,
		Key:    &objectKey,
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			code := apiErr.ErrorCode()
			if code == "NotFound" || code == "NoSuchKey" {
				return false, 0, nil
			}
		}
		return false, 0, fmt.Errorf("head object %s: %w", objectKey, err)
	}

	var size int64
	if out.ContentLength != nil {
		size = *out.ContentLength
	}
	return true, size, nil
}

func (s *S3Store) PresignUpload(ctx context.Context, bucket Bucket, objectKey string) (string, error) {
	client, name, err := s.client(ctx, bucket)
	if err != nil {
		return "", err
	}

	req, err := presignPutObject(newS3PresignClient(client), ctx, &s3.PutObjectInput{
		Bucket: &name,
		Key:    &objectKey,
	}, s3.WithPresignExpires(PresignUploadExpiry))
	if err != nil {
		return "", fmt.Errorf("presign upload %s: %w", objectKey, err)
	}

	return req.URL, nil
}

func (s *S3Store) PresignDownload(ctx context.Context, bucket Bucket, objectKey string, validity time.Duration) (string, error) {
	client, name, err := s.client(ctx, bucket)
	if err != nil {
		return "", err
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &name,
		Key:    &objectKey,
	}, s3.WithPresignExpires(validity))
	if err != nil {
		return "", fmt.Errorf("presign download %s: %w", objectKey, err)
	}

	return req.URL, nil
}
