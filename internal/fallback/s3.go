package fallback

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/wolfman30/bridgeforms/internal/submission"
	"github.com/wolfman30/bridgeforms/pkg/logging"
)

// S3API is the subset of the S3 client used by S3Recorder.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Recorder stores fallback records as objects keyed <kind dir>/<record id>.
type S3Recorder struct {
	bucket   string
	prefix   string
	s3Client S3API
	now      func() time.Time
	logger   *logging.Logger
}

// NewS3Recorder creates an S3-backed recorder. keyPrefix is prepended to
// every object key and may be empty.
func NewS3Recorder(s3Client S3API, bucket, keyPrefix string, logger *logging.Logger) (*S3Recorder, error) {
	if s3Client == nil {
		return nil, errors.New("fallback: s3 client is required")
	}
	if bucket == "" {
		return nil, errors.New("fallback: s3 bucket is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &S3Recorder{
		bucket:   bucket,
		prefix:   keyPrefix,
		s3Client: s3Client,
		now:      time.Now,
		logger:   logger,
	}, nil
}

// Record puts the document with If-None-Match: * so an existing object is
// never replaced.
func (r *S3Recorder) Record(ctx context.Context, kind submission.Kind, formData any, cause error) (string, error) {
	l, err := layoutFor(kind)
	if err != nil {
		return "", storageError(err)
	}

	now := r.now()
	data, err := encodeRecord(now, formData, cause)
	if err != nil {
		return "", storageError(err)
	}
	name, err := recordName(l.prefix, now)
	if err != nil {
		return "", storageError(err)
	}
	key := path.Join(r.prefix, l.dir, name)

	_, err = r.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		IfNoneMatch: aws.String("*"),
	})
	if err != nil {
		return "", storageError(fmt.Errorf("fallback: s3 put %s: %w", key, err))
	}

	r.logger.Warn("submission saved to fallback bucket", "kind", kind, "record_id", name, "bucket", r.bucket, "s3_key", key)
	return name, nil
}

var _ Recorder = (*S3Recorder)(nil)
