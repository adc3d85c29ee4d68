// Package publish uploads rendered maps to object storage.
package publish

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"velograph/log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrBadURL 目标地址不是 s3://bucket/prefix 形式
var ErrBadURL = errors.New("publish: target must look like s3://bucket/prefix")

// Target 上传目标
type Target struct {
	Bucket string
	Prefix string
}

// ParseURL 解析 s3://bucket/prefix
func ParseURL(raw string) (Target, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "s3" || u.Host == "" {
		return Target{}, fmt.Errorf("%w: %q", ErrBadURL, raw)
	}
	return Target{
		Bucket: u.Host,
		Prefix: strings.Trim(u.Path, "/"),
	}, nil
}

// Key 文件在桶里的 key
func (t Target) Key(filename string) string {
	if t.Prefix == "" {
		return filepath.Base(filename)
	}
	return path.Join(t.Prefix, filepath.Base(filename))
}

func (t Target) String() string {
	return "s3://" + path.Join(t.Bucket, t.Prefix)
}

// ObjectPutter s3.Client 中用到的部分
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Publisher struct {
	client ObjectPutter
	lg     *log.Logger
}

// NewS3Publisher 使用默认的 AWS 凭证链 (环境变量, ~/.aws, 实例角色)
func NewS3Publisher(ctx context.Context, lg *log.Logger) (*S3Publisher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("加载 AWS 配置失败: %w", err)
	}
	return NewS3PublisherWithClient(s3.NewFromConfig(cfg), lg), nil
}

func NewS3PublisherWithClient(client ObjectPutter, lg *log.Logger) *S3Publisher {
	return &S3Publisher{client: client, lg: lg}
}

// Publish 上传文件, 返回对象的 s3:// 地址
func (p *S3Publisher) Publish(ctx context.Context, filename string, t Target) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", fmt.Errorf("读取文件失败: %w", err)
	}
	defer f.Close()

	key := t.Key(filename)
	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(t.Bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		p.lg.Error("upload failed", "bucket", t.Bucket, "key", key, "error", err)
		return "", fmt.Errorf("上传到 S3 失败: %w", err)
	}

	dest := "s3://" + t.Bucket + "/" + key
	p.lg.Info("uploaded", "file", filename, "dest", dest)
	return dest, nil
}
