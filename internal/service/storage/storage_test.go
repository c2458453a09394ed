// Package storage 对象存储提供商的单元测试
// 覆盖提供商工厂的选择逻辑和各提供商的URL构造
package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiwangfds/cloudnotes/config"
	apperrors "github.com/weiwangfds/cloudnotes/internal/errors"
)

// TestNewProviderUnsupported 测试未知提供商返回错误
func TestNewProviderUnsupported(t *testing.T) {
	_, err := NewProvider(context.Background(), config.StorageConfig{
		Provider: "dropbox",
	}, config.AWSConfig{})

	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrStorageProviderNotSupported))
}

// TestNewProviderAliyun 测试阿里云提供商创建和URL构造
func TestNewProviderAliyun(t *testing.T) {
	provider, err := NewProvider(context.Background(), config.StorageConfig{
		Provider:  "aliyun",
		Bucket:    "my-bucket",
		Endpoint:  "https://oss-cn-hangzhou.aliyuncs.com",
		AccessKey: "ak",
		SecretKey: "sk",
	}, config.AWSConfig{})
	require.NoError(t, err)

	assert.Equal(t,
		"https://my-bucket.oss-cn-hangzhou.aliyuncs.com/users/u1/a.txt",
		provider.ObjectURL("users/u1/a.txt"))
}

// TestNewProviderS3URL 测试S3提供商的公开访问URL
func TestNewProviderS3URL(t *testing.T) {
	provider, err := NewProvider(context.Background(), config.StorageConfig{
		Provider: "s3",
		Bucket:   "my-bucket",
		Region:   "us-east-1",
	}, config.AWSConfig{Region: "us-east-1"})
	require.NoError(t, err)

	assert.Equal(t,
		"https://my-bucket.s3.us-east-1.amazonaws.com/users/u1/a.txt",
		provider.ObjectURL("users/u1/a.txt"))

	// 特殊字符按路径规则转义
	assert.Equal(t,
		"https://my-bucket.s3.us-east-1.amazonaws.com/users/u1/a%20b.txt",
		provider.ObjectURL("users/u1/a b.txt"))
}

// TestTrimQuotes 测试ETag引号剥离
func TestTrimQuotes(t *testing.T) {
	assert.Equal(t, "abc", trimQuotes(`"abc"`))
	assert.Equal(t, "abc", trimQuotes("abc"))
	assert.Equal(t, "", trimQuotes(`""`))
}
