package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3 folder layout shared with the deployed stack.
const (
	InputFolder = "input/"
	SSMLFolder  = "ssml/"
	AudioFolder = "audio/"
)

// S3Store writes pipeline artifacts to the configured bucket and returns
// s3:// URIs for them.
type S3Store struct {
	client *s3.Client
	bucket string
}

// NewS3Store creates an S3Store for the bucket.
func NewS3Store(client *s3.Client, bucket string) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
	}
}

// Put stores an object under folder+filename and returns its s3:// URI.
func (s *S3Store) Put(ctx context.Context, folder, filename string, data []byte, contentType string) (string, error) {
	key := folder + filename

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload %s to S3: %w", key, err)
	}

	return s.URI(key), nil
}

// Get reads an object back by its s3:// URI or bare key.
func (s *S3Store) Get(ctx context.Context, uri string) ([]byte, error) {
	key := s.Key(uri)

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
			return nil, fmt.Errorf("object %s not found in bucket %s: %w", key, s.bucket, err)
		}
		return nil, fmt.Errorf("failed to get %s from S3: %w", key, err)
	}
	defer func() { _ = result.Body.Close() }()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from S3: %w", key, err)
	}

	return data, nil
}

// URI returns the s3:// URI for a key in the store's bucket.
func (s *S3Store) URI(key string) string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, key)
}

// Key strips the store's bucket prefix from an s3:// URI. Bare keys pass
// through unchanged.
func (s *S3Store) Key(uri string) string {
	return strings.TrimPrefix(uri, fmt.Sprintf("s3://%s/", s.bucket))
}
