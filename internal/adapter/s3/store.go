// Package s3 adapts the zarr.Store interface onto anonymous, read-only S3
// object GETs.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cloudrift/hrrrmap/internal/observability"
	"github.com/cloudrift/hrrrmap/internal/zarr"
)

// Options configures the S3 client; every field has a usable default for the
// public archive.
type Options struct {
	Region       string        // default "us-west-1", where the archive lives
	Endpoint     string        // override for non-AWS or local backends
	UsePathStyle bool          // required by most S3-compatible test backends
	Timeout      time.Duration // per-request; default 30s
}

func (o Options) withDefaults() Options {
	if o.Region == "" {
		o.Region = "us-west-1"
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	return o
}

// Client wraps an anonymous S3 client shared by both store flavors.
type Client struct {
	api     *awss3.Client
	timeout time.Duration
	logger  *slog.Logger
	metrics *observability.Metrics // nil disables instrumentation
}

// NewClient builds an S3 client with anonymous credentials. No write
// operation is ever issued through it. A nil metrics disables counting.
func NewClient(ctx context.Context, opts Options, logger *slog.Logger, metrics *observability.Metrics) (*Client, error) {
	opts = opts.withDefaults()

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(aws.AnonymousCredentials{}),
	)
	if err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}

	api := awss3.NewFromConfig(cfg, func(o *awss3.Options) {
		o.UsePathStyle = opts.UsePathStyle
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})

	return &Client{api: api, timeout: opts.Timeout, logger: logger, metrics: metrics}, nil
}

// get issues one GetObject. Missing objects map onto zarr.ErrNotFound so the
// chunked-array layer can apply fill values; everything else surfaces as-is.
func (c *Client) get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	out, err := c.api.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		cancel()
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%w: s3://%s/%s", zarr.ErrNotFound, bucket, key)
		}
		return nil, fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}
	c.logger.Debug("object fetched", "bucket", bucket, "key", key)
	if c.metrics != nil {
		c.metrics.ObjectsFetched.Inc()
		return &cancelCloser{
			ReadCloser: &countingReader{rc: out.Body, bytes: c.metrics.BytesFetched},
			cancel:     cancel,
		}, nil
	}
	return &cancelCloser{ReadCloser: out.Body, cancel: cancel}, nil
}

// countStoreError records a non-NotFound store failure under the given
// flavor label. Missing chunks are legal reads, not failures.
func (c *Client) countStoreError(flavor string, err error) {
	if c.metrics == nil || err == nil || errors.Is(err, zarr.ErrNotFound) {
		return
	}
	c.metrics.StoreErrors.WithLabelValues(flavor).Inc()
}

type cancelCloser struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelCloser) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

// countingReader adds every byte read to a counter as it passes through.
type countingReader struct {
	rc    io.ReadCloser
	bytes prometheus.Counter
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.rc.Read(p)
	if n > 0 {
		r.bytes.Add(float64(n))
	}
	return n, err
}

func (r *countingReader) Close() error { return r.rc.Close() }

// MapStore is the legacy access pattern: the store is bound to one bucket and
// keys address objects within it directly, like a key/value mapping.
type MapStore struct {
	client *Client
	bucket string
}

var _ zarr.Store = (*MapStore)(nil)

func NewMapStore(client *Client, bucket string) *MapStore {
	return &MapStore{client: client, bucket: bucket}
}

func (s *MapStore) Type() string { return "s3-map" }

func (s *MapStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := s.client.get(ctx, s.bucket, key)
	s.client.countStoreError("legacy", err)
	return rc, err
}

// PathStore is the v3 access pattern: keys carry the bucket as their leading
// path component ("bucket/key/..."), the form produced by stripping the
// "s3://" scheme from an object URI.
type PathStore struct {
	client *Client
}

var _ zarr.Store = (*PathStore)(nil)

func NewPathStore(client *Client) *PathStore {
	return &PathStore{client: client}
}

func (s *PathStore) Type() string { return "s3-path" }

func (s *PathStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	bucket, rest, err := SplitBucketPath(key)
	if err != nil {
		return nil, err
	}
	rc, err := s.client.get(ctx, bucket, rest)
	s.client.countStoreError("v3", err)
	return rc, err
}

// SplitBucketPath splits "bucket/key/parts" into its bucket and key.
func SplitBucketPath(path string) (bucket, key string, err error) {
	path = strings.TrimPrefix(path, "/")
	i := strings.Index(path, "/")
	if i <= 0 || i == len(path)-1 {
		return "", "", fmt.Errorf("path %q does not contain a bucket and key", path)
	}
	return path[:i], path[i+1:], nil
}
