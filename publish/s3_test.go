package publish

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	bucket, key, contentType string
	body                     []byte
	err                      error
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bucket = aws.ToString(in.Bucket)
	f.key = aws.ToString(in.Key)
	f.contentType = aws.ToString(in.ContentType)
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestParseURL(t *testing.T) {
	tests := []struct {
		raw     string
		want    Target
		wantErr bool
	}{
		{raw: "s3://maps/velograph/", want: Target{Bucket: "maps", Prefix: "velograph"}},
		{raw: "s3://maps", want: Target{Bucket: "maps"}},
		{raw: "https://maps/velograph", wantErr: true},
		{raw: "s3:///nobucket", wantErr: true},
		{raw: "maps/velograph", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseURL(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTargetKey(t *testing.T) {
	assert.Equal(t, "velograph/map.html", Target{Bucket: "b", Prefix: "velograph"}.Key("/tmp/out/map.html"))
	assert.Equal(t, "map.html", Target{Bucket: "b"}.Key("map.html"))
}

func TestPublish(t *testing.T) {
	file := filepath.Join(t.TempDir(), "route.html")
	require.NoError(t, os.WriteFile(file, []byte("<html></html>"), 0o644))

	fake := &fakePutter{}
	pub := NewS3PublisherWithClient(fake, nil)

	dest, err := pub.Publish(context.Background(), file, Target{Bucket: "maps", Prefix: "runs"})
	require.NoError(t, err)

	assert.Equal(t, "s3://maps/runs/route.html", dest)
	assert.Equal(t, "maps", fake.bucket)
	assert.Equal(t, "runs/route.html", fake.key)
	assert.Contains(t, fake.contentType, "text/html")
	assert.Equal(t, "<html></html>", string(fake.body))
}

func TestPublishError(t *testing.T) {
	file := filepath.Join(t.TempDir(), "route.png")
	require.NoError(t, os.WriteFile(file, []byte("png"), 0o644))

	pub := NewS3PublisherWithClient(&fakePutter{err: errors.New("denied")}, nil)
	_, err := pub.Publish(context.Background(), file, Target{Bucket: "maps"})
	assert.Error(t, err)

	_, err = pub.Publish(context.Background(), filepath.Join(t.TempDir(), "missing.png"), Target{Bucket: "maps"})
	assert.Error(t, err)
}
