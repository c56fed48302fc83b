// Package storage writes generated artifacts to blob storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/evergreen-ci/pail"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
)

// PailType describes the name of the blob storage backing a pail Bucket
// implementation.
type PailType string

const (
	PailS3    PailType = "s3"
	PailLocal PailType = "local"

	defaultS3Region = "us-east-1"
)

// BucketOptions locate a bucket. For local buckets Name is a directory
// which is created if needed.
type BucketOptions struct {
	Type        PailType `yaml:"type" json:"type"`
	Name        string   `yaml:"name" json:"name"`
	Prefix      string   `yaml:"prefix" json:"prefix"`
	Region      string   `yaml:"region" json:"region"`
	Permissions string   `yaml:"permissions" json:"permissions"`
	AWSKey      string   `yaml:"aws_key" json:"-"`
	AWSSecret   string   `yaml:"aws_secret" json:"-"`
}

func (opts *BucketOptions) Validate() error {
	catcher := grip.NewBasicCatcher()

	if opts.Type == "" {
		opts.Type = PailLocal
	}
	if opts.Type == PailS3 && opts.Region == "" {
		opts.Region = defaultS3Region
	}
	if opts.Type == PailLocal && opts.Name == "" {
		opts.Name = "."
	}

	catcher.NewWhen(opts.Name == "", "must specify a bucket name")
	catcher.ErrorfWhen(opts.Type != PailLocal && opts.Type != PailS3, "unsupported bucket type '%s'", opts.Type)

	return catcher.Resolve()
}

func (opts BucketOptions) s3Options() pail.S3Options {
	s3Opts := pail.S3Options{
		Name:        opts.Name,
		Prefix:      opts.Prefix,
		Region:      opts.Region,
		Permissions: pail.S3Permissions(opts.Permissions),
	}
	if opts.AWSKey != "" {
		s3Opts.Credentials = pail.CreateAWSCredentials(opts.AWSKey, opts.AWSSecret, "")
	}
	return s3Opts
}

// Create returns a pail Bucket backed by opts.Type.
func (t PailType) Create(ctx context.Context, opts BucketOptions) (pail.Bucket, error) {
	var b pail.Bucket
	var err error

	switch t {
	case PailS3:
		b, err = pail.NewS3Bucket(ctx, opts.s3Options())
		if err != nil {
			return nil, errors.WithStack(err)
		}
	case PailLocal:
		if err = os.MkdirAll(filepath.Join(opts.Name, opts.Prefix), 0755); err != nil {
			return nil, errors.Wrapf(err, "creating output directory '%s'", opts.Name)
		}
		b, err = pail.NewLocalBucket(pail.LocalOptions{
			Path:   opts.Name,
			Prefix: opts.Prefix,
		})
		if err != nil {
			return nil, errors.WithStack(err)
		}
	default:
		return nil, errors.Errorf("bucket type '%s' is not implemented", t)
	}

	if err = b.Check(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	return b, nil
}

// Sink writes artifacts under a single bucket.
type Sink struct {
	bucket pail.Bucket
	opts   BucketOptions
}

// NewSink validates the options and opens the bucket.
func NewSink(ctx context.Context, opts BucketOptions) (*Sink, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid bucket options")
	}

	b, err := opts.Type.Create(ctx, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s bucket '%s'", opts.Type, opts.Name)
	}

	return &Sink{bucket: b, opts: opts}, nil
}

func (s *Sink) Options() BucketOptions { return s.opts }

func (s *Sink) Put(ctx context.Context, key string, r io.Reader) error {
	return errors.Wrapf(s.bucket.Put(ctx, key, r), "writing '%s'", s.Location(key))
}

// Writer opens a streaming writer for key. The artifact is complete
// once the writer is closed.
func (s *Sink) Writer(ctx context.Context, key string) (io.WriteCloser, error) {
	w, err := s.bucket.Writer(ctx, key)
	return w, errors.Wrapf(err, "opening '%s'", s.Location(key))
}

// WriteTo streams the output of wt into key.
func (s *Sink) WriteTo(ctx context.Context, key string, wt io.WriterTo) error {
	w, err := s.Writer(ctx, key)
	if err != nil {
		return errors.WithStack(err)
	}

	_, err = wt.WriteTo(w)
	if closeErr := w.Close(); err == nil {
		err = closeErr
	}
	return errors.Wrapf(err, "writing '%s'", s.Location(key))
}

func (s *Sink) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := s.bucket.Get(ctx, key)
	return r, errors.Wrapf(err, "reading '%s'", s.Location(key))
}

// Location describes where key is stored, for log messages.
func (s *Sink) Location(key string) string {
	switch s.opts.Type {
	case PailS3:
		if s.opts.Prefix != "" {
			return fmt.Sprintf("s3://%s/%s/%s", s.opts.Name, s.opts.Prefix, key)
		}
		return fmt.Sprintf("s3://%s/%s", s.opts.Name, key)
	default:
		return filepath.Join(s.opts.Name, s.opts.Prefix, key)
	}
}

// WriterFunc adapts a function to io.WriterTo.
type WriterFunc func(io.Writer) error

func (f WriterFunc) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := f(cw)
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
