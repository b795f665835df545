package services

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/errs"
)

const s3Service = "s3"

// S3PutObjectAPI is the part of the s3 client S3Uploader needs
type S3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader stores images in a bucket and returns their public URL.
type S3Uploader struct {
	client        S3PutObjectAPI
	bucket        string
	prefix        string
	publicBaseURL string
}

// NewS3Uploader requires S3_BUCKET. Objects land under S3_PREFIX (default portfolio).
// URLs are built from S3_PUBLIC_BASE_URL when set, otherwise from the
// virtual-hosted bucket endpoint for region.
func NewS3Uploader(client S3PutObjectAPI, region string, c map[string]string) (*S3Uploader, error) {
	bucket := config.GetString(c, "S3_BUCKET", "")
	if bucket == "" {
		return nil, errs.NewConfigMissingError("S3_BUCKET")
	}

	baseURL := config.GetString(c, "S3_PUBLIC_BASE_URL", "")
	if baseURL == "" {
		if region == "" {
			region = "us-east-1"
		}
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}

	return &S3Uploader{
		client:        client,
		bucket:        bucket,
		prefix:        strings.Trim(config.GetString(c, "S3_PREFIX", "portfolio"), "/"),
		publicBaseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (u *S3Uploader) UploadImage(ctx context.Context, data []byte, filename string) (string, error) {
	key := path.Join(u.prefix, filename)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(mimetype.Detect(data).String()),
	})
	if err != nil {
		return "", errs.NewExternalServiceError(s3Service, fmt.Sprintf("Failed to put object %s", key), err)
	}

	return u.publicBaseURL + "/" + key, nil
}
