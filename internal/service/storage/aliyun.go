package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/weiwangfds/cloudnotes/config"
	"github.com/weiwangfds/cloudnotes/internal/logger"
)

// AliyunOSSProvider 阿里云OSS提供商实现
// 实现了Provider接口，提供阿里云对象存储服务的上传、删除、列表等操作
type AliyunOSSProvider struct {
	client   *oss.Client
	bucket   *oss.Bucket
	cfg      config.StorageConfig
	endpoint string
}

// NewAliyunOSSProvider 创建阿里云OSS提供商实例
// 根据配置信息初始化阿里云OSS客户端和存储桶连接
// 参数:
//   - cfg: 存储配置，包含访问密钥、区域、存储桶等
// 返回:
//   - *AliyunOSSProvider: 初始化完成的阿里云OSS提供商实例
//   - error: 初始化过程中的错误信息
func NewAliyunOSSProvider(cfg config.StorageConfig) (*AliyunOSSProvider, error) {
	// 构建endpoint
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://oss-%s.aliyuncs.com", cfg.Region)
	}

	client, err := oss.New(endpoint, cfg.AccessKey, cfg.SecretKey)
	if err != nil {
		logger.Errorf("[阿里云OSS] 创建客户端失败, 错误: %v", err)
		return nil, fmt.Errorf("failed to create aliyun oss client: %w", err)
	}

	bucket, err := client.Bucket(cfg.Bucket)
	if err != nil {
		logger.Errorf("[阿里云OSS] 连接存储桶失败, 存储桶: %s, 错误: %v", cfg.Bucket, err)
		return nil, fmt.Errorf("failed to get bucket %s: %w", cfg.Bucket, err)
	}

	logger.Infof("[阿里云OSS] 提供商实例初始化成功, 区域: %s, 存储桶: %s", cfg.Region, cfg.Bucket)
	return &AliyunOSSProvider{
		client:   client,
		bucket:   bucket,
		cfg:      cfg,
		endpoint: endpoint,
	}, nil
}

// UploadFile 上传文件到阿里云OSS
func (p *AliyunOSSProvider) UploadFile(ctx context.Context, objectKey string, reader io.Reader, contentType string, metadata map[string]string) error {
	options := []oss.Option{oss.WithContext(ctx)}
	if contentType != "" {
		options = append(options, oss.ContentType(contentType))
	}
	for key, value := range metadata {
		options = append(options, oss.Meta(key, value))
	}

	if err := p.bucket.PutObject(objectKey, reader, options...); err != nil {
		logger.Errorf("[阿里云OSS] 上传文件失败, 对象键: %s, 错误: %v", objectKey, err)
		return fmt.Errorf("failed to upload file to aliyun oss: %w", err)
	}

	logger.Infof("[阿里云OSS] 成功上传文件: %s", objectKey)
	return nil
}

// DeleteFile 删除阿里云OSS文件
func (p *AliyunOSSProvider) DeleteFile(ctx context.Context, objectKey string) error {
	if err := p.bucket.DeleteObject(objectKey, oss.WithContext(ctx)); err != nil {
		logger.Errorf("[阿里云OSS] 删除文件失败, 对象键: %s, 错误: %v", objectKey, err)
		return fmt.Errorf("failed to delete file from aliyun oss: %w", err)
	}

	logger.Infof("[阿里云OSS] 成功删除文件: %s", objectKey)
	return nil
}

// ListFiles 按前缀列出文件
func (p *AliyunOSSProvider) ListFiles(ctx context.Context, prefix string, maxKeys int) ([]FileInfo, error) {
	lsRes, err := p.bucket.ListObjects(
		oss.Prefix(prefix),
		oss.MaxKeys(maxKeys),
		oss.WithContext(ctx),
	)
	if err != nil {
		logger.Errorf("[阿里云OSS] 列出文件失败, 前缀: %s, 错误: %v", prefix, err)
		return nil, fmt.Errorf("failed to list files from aliyun oss: %w", err)
	}

	var files []FileInfo
	for _, object := range lsRes.Objects {
		files = append(files, FileInfo{
			Key:          object.Key,
			Size:         object.Size,
			LastModified: object.LastModified,
			ETag:         trimQuotes(object.ETag),
		})
	}

	logger.Infof("[阿里云OSS] 成功列出 %d 个文件, 前缀: %s", len(files), prefix)
	return files, nil
}

// ObjectURL 计算对象的公开访问URL
func (p *AliyunOSSProvider) ObjectURL(objectKey string) string {
	host := strings.TrimPrefix(strings.TrimPrefix(p.endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", p.cfg.Bucket, host, objectKey)
}

// TestConnection 测试连接
func (p *AliyunOSSProvider) TestConnection(ctx context.Context) error {
	if _, err := p.client.GetBucketInfo(p.cfg.Bucket); err != nil {
		return fmt.Errorf("failed to test aliyun oss connection: %w", err)
	}
	return nil
}
