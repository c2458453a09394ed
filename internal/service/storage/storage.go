// Package storage 提供对象存储协作服务的接口和实现
// 支持AWS S3、阿里云OSS、腾讯云COS和七牛云Kodo四个提供商
// 文件不落本地数据库，对象键本身就是文件的唯一标识
package storage

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/weiwangfds/cloudnotes/config"
	"github.com/weiwangfds/cloudnotes/internal/errors"
)

// Provider 对象存储提供商接口
type Provider interface {
	// 上传文件到对象存储
	UploadFile(ctx context.Context, objectKey string, reader io.Reader, contentType string, metadata map[string]string) error

	// 删除对象存储中的文件
	DeleteFile(ctx context.Context, objectKey string) error

	// 按前缀列出文件
	ListFiles(ctx context.Context, prefix string, maxKeys int) ([]FileInfo, error)

	// 计算对象的公开访问URL
	ObjectURL(objectKey string) string

	// 测试连接
	TestConnection(ctx context.Context) error
}

// FileInfo 对象存储文件信息
type FileInfo struct {
	Key          string    `json:"key"`          // 文件键名
	Size         int64     `json:"size"`         // 文件大小
	LastModified time.Time `json:"lastModified"` // 最后修改时间
	ETag         string    `json:"etag"`         // ETag
}

// NewProvider 根据配置创建对象存储提供商实例
// 默认使用s3，其余提供商通过storage.provider配置切换
func NewProvider(ctx context.Context, cfg config.StorageConfig, awsCfg config.AWSConfig) (Provider, error) {
	switch cfg.Provider {
	case "", "s3":
		return NewS3Provider(ctx, cfg, awsCfg)
	case "aliyun":
		return NewAliyunOSSProvider(cfg)
	case "tencent":
		return NewTencentCOSProvider(cfg)
	case "qiniu":
		return NewQiniuKodoProvider(cfg)
	default:
		return nil, errors.ErrStorageProviderNotSupportedError.WithDetails(cfg.Provider)
	}
}

// trimQuotes 去掉ETag两侧的引号
func trimQuotes(s string) string {
	return strings.Trim(s, "\"")
}
