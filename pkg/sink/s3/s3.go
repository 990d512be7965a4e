package s3

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Sink 实现 sink.Sink，把镜像内容写进 S3 兼容的对象存储
// Key 布局: {prefix}/{relPath}，和磁盘镜像的目录结构一一对应
type Sink struct {
	client *s3.Client
	bucket string
	prefix string
}

// Config 初始化 S3 输出端
type Config struct {
	Endpoint        string // MinIO 等自建服务填这里，留空走 AWS
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

// NewSink 初始化 S3 客户端 (适配 AWS SDK v2 规范)
func NewSink(ctx context.Context, cfg Config, prefix string) (*Sink, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		// MinIO 必须用 Path Style: http://host:9000/bucket/key
		o.UsePathStyle = true
	})

	return &Sink{
		client: client,
		bucket: cfg.Bucket,
		prefix: prefix,
	}, nil
}

// EnsureDir 对象存储没有目录，无事可做
func (s *Sink) EnsureDir(_ context.Context, _ string) error { return nil }

// Write 上传单个文件。覆盖语义由 S3 天然提供（同 Key PUT 即覆盖）。
// 分类映射到 Content-Type，便于在浏览器/控制台里直接预览文本文件。
func (s *Sink) Write(ctx context.Context, relPath string, data []byte, text bool) error {
	contentType := "application/octet-stream"
	if text {
		contentType = "text/plain; charset=utf-8"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(path.Join(s.prefix, relPath)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s failed: %w", relPath, err)
	}
	return nil
}
