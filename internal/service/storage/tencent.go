package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tencentyun/cos-go-sdk-v5"
	"github.com/weiwangfds/cloudnotes/config"
	"github.com/weiwangfds/cloudnotes/internal/logger"
)

// TencentCOSProvider 腾讯云COS提供商实现
type TencentCOSProvider struct {
	client    *cos.Client
	cfg       config.StorageConfig
	bucketURL string
}

// NewTencentCOSProvider 创建腾讯云COS提供商实例
func NewTencentCOSProvider(cfg config.StorageConfig) (*TencentCOSProvider, error) {
	// 构建URL
	bucketURL := fmt.Sprintf("https://%s.cos.%s.myqcloud.com", cfg.Bucket, cfg.Region)
	if cfg.Endpoint != "" {
		bucketURL = cfg.Endpoint
	}

	u, err := url.Parse(bucketURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bucket URL: %w", err)
	}

	client := cos.NewClient(&cos.BaseURL{BucketURL: u}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  cfg.AccessKey,
			SecretKey: cfg.SecretKey,
		},
	})

	logger.Infof("[腾讯云COS] 提供商实例初始化成功, 存储桶: %s", cfg.Bucket)
	return &TencentCOSProvider{
		client:    client,
		cfg:       cfg,
		bucketURL: bucketURL,
	}, nil
}

// UploadFile 上传文件到腾讯云COS
func (p *TencentCOSProvider) UploadFile(ctx context.Context, objectKey string, reader io.Reader, contentType string, metadata map[string]string) error {
	options := &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{},
	}
	if contentType != "" {
		options.ObjectPutHeaderOptions.ContentType = contentType
	}
	if len(metadata) > 0 {
		headers := http.Header{}
		for key, value := range metadata {
			headers.Set("x-cos-meta-"+key, value)
		}
		options.ObjectPutHeaderOptions.XOptionHeader = &headers
	}

	_, err := p.client.Object.Put(ctx, objectKey, reader, options)
	if err != nil {
		logger.Errorf("[腾讯云COS] 上传文件失败, 对象键: %s, 错误: %v", objectKey, err)
		return fmt.Errorf("failed to upload file to tencent cos: %w", err)
	}

	logger.Infof("[腾讯云COS] 成功上传文件: %s", objectKey)
	return nil
}

// DeleteFile 删除腾讯云COS文件
func (p *TencentCOSProvider) DeleteFile(ctx context.Context, objectKey string) error {
	_, err := p.client.Object.Delete(ctx, objectKey)
	if err != nil {
		logger.Errorf("[腾讯云COS] 删除文件失败, 对象键: %s, 错误: %v", objectKey, err)
		return fmt.Errorf("failed to delete file from tencent cos: %w", err)
	}

	logger.Infof("[腾讯云COS] 成功删除文件: %s", objectKey)
	return nil
}

// ListFiles 按前缀列出文件
func (p *TencentCOSProvider) ListFiles(ctx context.Context, prefix string, maxKeys int) ([]FileInfo, error) {
	options := &cos.BucketGetOptions{
		Prefix:  prefix,
		MaxKeys: maxKeys,
	}

	result, _, err := p.client.Bucket.Get(ctx, options)
	if err != nil {
		logger.Errorf("[腾讯云COS] 列出文件失败, 前缀: %s, 错误: %v", prefix, err)
		return nil, fmt.Errorf("failed to list files from tencent cos: %w", err)
	}

	var files []FileInfo
	for _, object := range result.Contents {
		// COS返回的时间为RFC3339格式字符串
		lastModified, _ := time.Parse(time.RFC3339, object.LastModified)
		files = append(files, FileInfo{
			Key:          object.Key,
			Size:         int64(object.Size),
			LastModified: lastModified,
			ETag:         trimQuotes(object.ETag),
		})
	}

	logger.Infof("[腾讯云COS] 成功列出 %d 个文件, 前缀: %s", len(files), prefix)
	return files, nil
}

// ObjectURL 计算对象的公开访问URL
func (p *TencentCOSProvider) ObjectURL(objectKey string) string {
	return fmt.Sprintf("%s/%s", p.bucketURL, objectKey)
}

// TestConnection 测试连接
func (p *TencentCOSProvider) TestConnection(ctx context.Context) error {
	// 尝试获取存储桶信息
	_, err := p.client.Bucket.Head(ctx)
	if err != nil {
		return fmt.Errorf("failed to test tencent cos connection: %w", err)
	}
	return nil
}
