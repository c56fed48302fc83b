package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evergreen-ci/pail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketOptions(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		opts := BucketOptions{}
		require.NoError(t, opts.Validate())
		assert.Equal(t, PailLocal, opts.Type)
		assert.Equal(t, ".", opts.Name)

		s3 := BucketOptions{Type: PailS3, Name: "build-artifacts"}
		require.NoError(t, s3.Validate())
		assert.Equal(t, defaultS3Region, s3.Region)
	})
	t.Run("Invalid", func(t *testing.T) {
		assert.Error(t, (&BucketOptions{Type: PailS3}).Validate())
		assert.Error(t, (&BucketOptions{Type: "gridfs", Name: "x"}).Validate())
	})
}

func TestLocalSink(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := filepath.Join(t.TempDir(), "point_lists")
	sink, err := NewSink(ctx, BucketOptions{Type: PailLocal, Name: dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sizes.txt"), sink.Location("sizes.txt"))

	t.Run("Put", func(t *testing.T) {
		require.NoError(t, sink.Put(ctx, "sizes.txt", strings.NewReader("4000000\n")))
		data, err := os.ReadFile(filepath.Join(dir, "sizes.txt"))
		require.NoError(t, err)
		assert.Equal(t, "4000000\n", string(data))
	})
	t.Run("WriteTo", func(t *testing.T) {
		require.NoError(t, sink.WriteTo(ctx, "coeffs.json", WriterFunc(func(w io.Writer) error {
			_, err := io.WriteString(w, `{"a":1}`)
			return err
		})))

		r, err := sink.Get(ctx, "coeffs.json")
		require.NoError(t, err)
		defer r.Close()
		data, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, `{"a":1}`, string(data))
	})
	t.Run("Unsupported", func(t *testing.T) {
		_, err := PailType("gridfs").Create(ctx, BucketOptions{Name: dir})
		assert.Error(t, err)
	})
}

func TestS3Location(t *testing.T) {
	sink := &Sink{opts: BucketOptions{Type: PailS3, Name: "bucket", Prefix: "runs"}}
	assert.Equal(t, "s3://bucket/runs/points_4000000.txt", sink.Location("points_4000000.txt"))
	sink.opts.Prefix = ""
	assert.Equal(t, "s3://bucket/sizes.txt", sink.Location("sizes.txt"))
}

func TestS3Bucket(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t.Run("Options", func(t *testing.T) {
		opts := BucketOptions{
			Type:        PailS3,
			Name:        "build-artifacts",
			Prefix:      "runs",
			Region:      "us-west-2",
			Permissions: string(pail.S3PermissionsPublicRead),
		}
		s3Opts := opts.s3Options()
		assert.Equal(t, "build-artifacts", s3Opts.Name)
		assert.Equal(t, "runs", s3Opts.Prefix)
		assert.Equal(t, "us-west-2", s3Opts.Region)
		assert.Equal(t, pail.S3PermissionsPublicRead, s3Opts.Permissions)
		assert.Nil(t, s3Opts.Credentials)

		opts.AWSKey = "key"
		opts.AWSSecret = "secret"
		assert.NotNil(t, opts.s3Options().Credentials)
	})
	t.Run("InvalidPermissions", func(t *testing.T) {
		_, err := PailS3.Create(ctx, BucketOptions{
			Type:        PailS3,
			Name:        "build-artifacts",
			Region:      defaultS3Region,
			Permissions: "world-writable",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid S3 permissions")
	})
}
