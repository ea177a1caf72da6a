// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the slice of the S3 client the store needs.
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store keeps one object per key in a bucket, optionally under a prefix.
// It lets several machines share fetched payloads.
type S3Store struct {
	base
	client S3API
	bucket string
	prefix string
}

var _ Store = (*S3Store)(nil)

func NewS3Store(client S3API, bucket, prefix string, opts ...Option) *S3Store {
	return &S3Store{
		base:   newBase(opts),
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

func (s *S3Store) objectKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}

// Get implements Store. Anything other than a clean read is a miss.
func (s *S3Store) Get(ctx context.Context, key string, maxAge time.Duration) (json.RawMessage, bool) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: awsv2.String(s.bucket),
		Key:    awsv2.String(s.objectKey(key)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if !errors.As(err, &nsk) {
			log.WithError(err).Warnf("failed to read s3://%s/%s", s.bucket, s.objectKey(key))
		}
		return nil, false
	}
	defer out.Body.Close()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		log.WithError(err).Warnf("failed to read s3://%s/%s", s.bucket, s.objectKey(key))
		return nil, false
	}
	return s.decode(key, bytes.TrimSpace(b), maxAge)
}

// Put implements Store.
func (s *S3Store) Put(ctx context.Context, key string, data json.RawMessage) error {
	doc, err := s.encode(data)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      awsv2.String(s.bucket),
		Key:         awsv2.String(s.objectKey(key)),
		Body:        bytes.NewReader(doc),
		ContentType: awsv2.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to write s3://%s/%s: %w", s.bucket, s.objectKey(key), err)
	}
	return nil
}
