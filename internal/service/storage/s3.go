package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/weiwangfds/cloudnotes/config"
	"github.com/weiwangfds/cloudnotes/internal/awsx"
	"github.com/weiwangfds/cloudnotes/internal/logger"
)

// S3Provider AWS S3提供商实现
// 实现了Provider接口，提供S3对象存储的上传、删除、列表等操作
// 上传的对象带public-read ACL，公开URL采用虚拟主机风格域名
type S3Provider struct {
	client *s3.Client
	bucket string
	region string
}

// NewS3Provider 创建S3提供商实例
// 参数:
//   - ctx: 上下文
//   - cfg: 存储配置，包含存储桶和可选的自定义端点
//   - awsCfg: AWS区域和凭证配置
// 返回:
//   - *S3Provider: 初始化完成的S3提供商实例
//   - error: 初始化过程中的错误信息
func NewS3Provider(ctx context.Context, cfg config.StorageConfig, awsCfg config.AWSConfig) (*S3Provider, error) {
	sdkCfg, err := awsx.LoadConfig(ctx, awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config for s3: %w", err)
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			// 兼容MinIO等S3协议实现
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	logger.Infof("[S3] 初始化提供商实例, 区域: %s, 存储桶: %s", cfg.Region, cfg.Bucket)
	return &S3Provider{
		client: client,
		bucket: cfg.Bucket,
		region: cfg.Region,
	}, nil
}

// UploadFile 上传文件到S3
func (p *S3Provider) UploadFile(ctx context.Context, objectKey string, reader io.Reader, contentType string, metadata map[string]string) error {
	input := &s3.PutObjectInput{
		Bucket:   aws.String(p.bucket),
		Key:      aws.String(objectKey),
		Body:     reader,
		ACL:      s3types.ObjectCannedACLPublicRead,
		Metadata: metadata,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := p.client.PutObject(ctx, input); err != nil {
		logger.Errorf("[S3] 上传文件失败, 对象键: %s, 错误: %v", objectKey, err)
		return fmt.Errorf("failed to upload file to s3: %w", err)
	}

	logger.Infof("[S3] 成功上传文件: %s", objectKey)
	return nil
}

// DeleteFile 删除S3文件
func (p *S3Provider) DeleteFile(ctx context.Context, objectKey string) error {
	_, err := p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		logger.Errorf("[S3] 删除文件失败, 对象键: %s, 错误: %v", objectKey, err)
		return fmt.Errorf("failed to delete file from s3: %w", err)
	}

	logger.Infof("[S3] 成功删除文件: %s", objectKey)
	return nil
}

// ListFiles 按前缀列出文件
func (p *S3Provider) ListFiles(ctx context.Context, prefix string, maxKeys int) ([]FileInfo, error) {
	out, err := p.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(p.bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(int32(maxKeys)),
	})
	if err != nil {
		logger.Errorf("[S3] 列出文件失败, 前缀: %s, 错误: %v", prefix, err)
		return nil, fmt.Errorf("failed to list files from s3: %w", err)
	}

	var files []FileInfo
	for _, object := range out.Contents {
		files = append(files, FileInfo{
			Key:          aws.ToString(object.Key),
			Size:         aws.ToInt64(object.Size),
			LastModified: aws.ToTime(object.LastModified),
			ETag:         trimQuotes(aws.ToString(object.ETag)),
		})
	}

	logger.Infof("[S3] 成功列出 %d 个文件, 前缀: %s", len(files), prefix)
	return files, nil
}

// ObjectURL 计算对象的公开访问URL
// 对象键按路径段转义，斜杠保留，和历史实现的URL格式保持一致
func (p *S3Provider) ObjectURL(objectKey string) string {
	escaped := (&url.URL{Path: objectKey}).EscapedPath()
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.bucket, p.region, escaped)
}

// TestConnection 测试连接
func (p *S3Provider) TestConnection(ctx context.Context) error {
	_, err := p.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(p.bucket),
	})
	if err != nil {
		return fmt.Errorf("failed to test s3 connection: %w", err)
	}
	return nil
}
