package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/qiniu/go-sdk/v7/auth/qbox"
	qiniustorage "github.com/qiniu/go-sdk/v7/storage"
	"github.com/weiwangfds/cloudnotes/config"
	"github.com/weiwangfds/cloudnotes/internal/logger"
)

// QiniuKodoProvider 七牛云Kodo提供商实现
type QiniuKodoProvider struct {
	mac          *qbox.Mac
	bucketName   string
	bucketDomain string
	region       *qiniustorage.Region
}

// NewQiniuKodoProvider 创建七牛云Kodo提供商实例
func NewQiniuKodoProvider(cfg config.StorageConfig) (*QiniuKodoProvider, error) {
	mac := qbox.NewMac(cfg.AccessKey, cfg.SecretKey)

	// 获取区域信息
	region, err := qiniustorage.GetRegion(cfg.AccessKey, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to get qiniu region: %w", err)
	}

	// 构建域名
	bucketDomain := cfg.Endpoint
	if bucketDomain == "" {
		bucketDomain = fmt.Sprintf("%s.%s", cfg.Bucket, region.RsHost)
	}

	logger.Infof("[七牛云Kodo] 提供商实例初始化成功, 存储桶: %s", cfg.Bucket)
	return &QiniuKodoProvider{
		mac:          mac,
		bucketName:   cfg.Bucket,
		bucketDomain: bucketDomain,
		region:       region,
	}, nil
}

// UploadFile 上传文件到七牛云Kodo
func (p *QiniuKodoProvider) UploadFile(ctx context.Context, objectKey string, reader io.Reader, contentType string, metadata map[string]string) error {
	putPolicy := qiniustorage.PutPolicy{
		Scope: fmt.Sprintf("%s:%s", p.bucketName, objectKey),
	}
	upToken := putPolicy.UploadToken(p.mac)

	cfg := qiniustorage.Config{
		Region:        p.region,
		UseHTTPS:      true,
		UseCdnDomains: false,
	}

	formUploader := qiniustorage.NewFormUploader(&cfg)
	ret := qiniustorage.PutRet{}

	putExtra := qiniustorage.PutExtra{}
	if contentType != "" {
		putExtra.MimeType = contentType
	}

	err := formUploader.Put(ctx, &ret, upToken, objectKey, reader, -1, &putExtra)
	if err != nil {
		logger.Errorf("[七牛云Kodo] 上传文件失败, 对象键: %s, 错误: %v", objectKey, err)
		return fmt.Errorf("failed to upload file to qiniu kodo: %w", err)
	}

	logger.Infof("[七牛云Kodo] 成功上传文件: %s", objectKey)
	return nil
}

// DeleteFile 删除七牛云Kodo文件
func (p *QiniuKodoProvider) DeleteFile(ctx context.Context, objectKey string) error {
	bucketManager := qiniustorage.NewBucketManager(p.mac, &qiniustorage.Config{
		Region: p.region,
	})

	if err := bucketManager.Delete(p.bucketName, objectKey); err != nil {
		logger.Errorf("[七牛云Kodo] 删除文件失败, 对象键: %s, 错误: %v", objectKey, err)
		return fmt.Errorf("failed to delete file from qiniu kodo: %w", err)
	}

	logger.Infof("[七牛云Kodo] 成功删除文件: %s", objectKey)
	return nil
}

// ListFiles 按前缀列出文件
func (p *QiniuKodoProvider) ListFiles(ctx context.Context, prefix string, maxKeys int) ([]FileInfo, error) {
	bucketManager := qiniustorage.NewBucketManager(p.mac, &qiniustorage.Config{
		Region: p.region,
	})

	entries, _, _, _, err := bucketManager.ListFiles(p.bucketName, prefix, "", "", maxKeys)
	if err != nil {
		logger.Errorf("[七牛云Kodo] 列出文件失败, 前缀: %s, 错误: %v", prefix, err)
		return nil, fmt.Errorf("failed to list files from qiniu kodo: %w", err)
	}

	var files []FileInfo
	for _, entry := range entries {
		files = append(files, FileInfo{
			Key:          entry.Key,
			Size:         entry.Fsize,
			LastModified: time.Unix(entry.PutTime/10000000, 0),
			ETag:         entry.Hash,
		})
	}

	logger.Infof("[七牛云Kodo] 成功列出 %d 个文件, 前缀: %s", len(files), prefix)
	return files, nil
}

// ObjectURL 计算对象的公开访问URL
func (p *QiniuKodoProvider) ObjectURL(objectKey string) string {
	return fmt.Sprintf("https://%s/%s", p.bucketDomain, objectKey)
}

// TestConnection 测试连接
func (p *QiniuKodoProvider) TestConnection(ctx context.Context) error {
	bucketManager := qiniustorage.NewBucketManager(p.mac, &qiniustorage.Config{
		Region: p.region,
	})

	// 尝试列出存储桶中的文件（限制为1个）
	_, _, _, _, err := bucketManager.ListFiles(p.bucketName, "", "", "", 1)
	if err != nil {
		return fmt.Errorf("failed to test qiniu kodo connection: %w", err)
	}
	return nil
}
